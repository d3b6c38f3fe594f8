// internal/tts/interface.go
package tts

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/Corphon/ClipForge/internal/models"
)

// 错误定义
var ErrUnknownProvider = errors.New("未知的语音提供者")

// 提供商判别名，同时是语音ID的前缀
const (
	ProviderElevenLabs = "elevenlabs"
	ProviderOpenAI     = "openai"
	ProviderGoogle     = "google"
	ProviderMock       = "mock"
)

// VoiceRef 语音ID解析结果：判别名 + 提供商侧的原始ID
// 前缀在入口处解析一次，后续逻辑不再做字符串前缀判断
type VoiceRef struct {
	Provider string
	Raw      string
}

// ParseVoiceID 按 "<provider>_<raw>" 解析统一语音ID
// 前缀不属于已知提供商时返回 ok=false，调用方应回退到mock合成
func ParseVoiceID(voiceID string) (VoiceRef, bool) {
	prefix, raw, found := strings.Cut(voiceID, "_")
	if !found || raw == "" {
		return VoiceRef{}, false
	}

	switch prefix {
	case ProviderElevenLabs, ProviderOpenAI, ProviderGoogle, ProviderMock:
		return VoiceRef{Provider: prefix, Raw: raw}, true
	}
	return VoiceRef{}, false
}

// QualifyVoiceID 由判别名和原始ID组装统一语音ID
func QualifyVoiceID(provider, raw string) string {
	return provider + "_" + raw
}

// SynthesisInput 发给单个提供商的合成请求
// VoiceID 是提供商侧的原始ID（不带前缀）
type SynthesisInput struct {
	VoiceID          string
	Text             string
	StyleInstruction string
}

// SynthesisOutput 单个提供商返回的音频
// DurationSeconds 为0表示提供商未报告时长，由调用方估算
type SynthesisOutput struct {
	Audio           []byte
	MIMEType        string
	DurationSeconds float64
}

// Provider 定义所有语音提供者必须实现的接口
type Provider interface {
	// 初始化提供者，传入配置
	Initialize(config map[string]string) error

	// 获取提供者名称
	GetName() string

	// 该提供者是否支持风格指令
	SupportsInstructions() bool

	// 获取该提供者的语音目录
	FetchVoices(ctx context.Context) ([]models.VoiceCatalogEntry, error)

	// 文本转语音
	Synthesize(ctx context.Context, input SynthesisInput) (*SynthesisOutput, error)
}

// EstimateDuration 按字符数估算朗读时长（经验值：每秒约15个字符）
func EstimateDuration(text string) float64 {
	if text == "" {
		return 0
	}
	seconds := (len(text) + 14) / 15
	return float64(seconds)
}

// EncodeDataURI 将音频字节编码为可跨JSON边界传输的data URI
func EncodeDataURI(mimeType string, audio []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(audio))
}

// 注册表和工厂函数类型
type ProviderFactory func() Provider

var providers = make(map[string]ProviderFactory)

// Register 注册提供者工厂
func Register(name string, factory ProviderFactory) {
	providers[name] = factory
}

// GetProvider 创建指定名称的提供者实例
func GetProvider(name string, config map[string]string) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, ErrUnknownProvider
	}

	provider := factory()
	err := provider.Initialize(config)
	return provider, err
}
