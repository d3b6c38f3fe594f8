// internal/models/script.go
package models

// Tone 视频脚本的语气类型
type Tone string

const (
	ToneEducational  Tone = "Educational"
	ToneFun          Tone = "Fun"
	ToneProfessional Tone = "Professional"
	ToneInspiring    Tone = "Inspiring"
)

// Platform 目标发布平台
type Platform string

const (
	PlatformTikTok    Platform = "TikTok"
	PlatformInstagram Platform = "Instagram"
	PlatformYouTube   Platform = "YouTube"
)

// GenerationRequest 脚本/演示句生成的输入参数
// 字段边界（duration ∈ [10,120] 等）由路由层校验，服务层不再重复校验
type GenerationRequest struct {
	Description string     `json:"description"`
	Tone        Tone       `json:"tone"`
	Platforms   []Platform `json:"platforms"`
	Duration    int        `json:"duration"`
}

// Scene 脚本中的单个场景
type Scene struct {
	Timestamp string `json:"timestamp"`
	Narration string `json:"narration"`
	Visual    string `json:"visual"`
	Emotion   string `json:"emotion"`
}

// Script 生成的完整视频脚本
type Script struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Hook        string     `json:"hook"`
	Scenes      []Scene    `json:"scenes"`
	CTA         string     `json:"cta"`
	Hashtags    []string   `json:"hashtags"`
	Tone        Tone       `json:"tone"`
	Platforms   []Platform `json:"platforms"`
	Duration    int        `json:"duration"`
	GeneratedBy string     `json:"generated_by"`
}

// ScriptResult 脚本生成的响应封装
type ScriptResult struct {
	Success bool    `json:"success"`
	Script  *Script `json:"script"`
}

// DemoResult 语音演示句生成的响应封装
type DemoResult struct {
	Success     bool     `json:"success"`
	Sentences   []string `json:"sentences"`
	GeneratedBy string   `json:"generated_by"`
}
