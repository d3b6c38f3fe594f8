// internal/models/voice.go
package models

import "time"

// VoiceCatalogEntry 统一语音目录中的单个语音
// ID 带提供商前缀（如 elevenlabs_xxx、openai_alloy），目录内全局唯一
type VoiceCatalogEntry struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Provider             string `json:"provider"`
	Gender               string `json:"gender,omitempty"`
	Style                string `json:"style,omitempty"`
	Description          string `json:"description,omitempty"`
	Category             string `json:"category,omitempty"`
	PreviewURL           string `json:"preview_url,omitempty"`
	Premium              bool   `json:"premium"`
	SupportsInstructions bool   `json:"supports_instructions"`
}

// VoiceCatalog 聚合后的语音目录响应
type VoiceCatalog struct {
	Success   bool                `json:"success"`
	Voices    []VoiceCatalogEntry `json:"voices"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// SynthesisRequest 语音合成的输入参数
// Authenticated 由鉴权中间件填充，不从请求体解析
type SynthesisRequest struct {
	Text             string `json:"text"`
	VoiceID          string `json:"voice_id"`
	ScriptID         string `json:"script_id,omitempty"`
	StyleInstruction string `json:"style_instruction,omitempty"`
	IsPreview        bool   `json:"is_preview,omitempty"`
	Authenticated    bool   `json:"-"`
}

// SynthesisResult 语音合成的响应封装
// AudioURL 是 data URI，音频直接内嵌在响应里
type SynthesisResult struct {
	ID              string  `json:"id"`
	ScriptID        string  `json:"script_id,omitempty"`
	VoiceID         string  `json:"voice_id"`
	AudioURL        string  `json:"audio_url,omitempty"`
	DurationSeconds float64 `json:"duration"`
	Status          string  `json:"status"`
	Provider        string  `json:"provider"`
}
