// internal/services/voice_service.go
package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Corphon/ClipForge/internal/config"
	apperrors "github.com/Corphon/ClipForge/internal/errors"
	"github.com/Corphon/ClipForge/internal/models"
	"github.com/Corphon/ClipForge/internal/tts"
	"github.com/Corphon/ClipForge/internal/utils"
)

// VoiceService 负责语音目录聚合与语音合成
// 目录缓存是本层唯一的跨请求共享状态：整体替换，从不原地修改
type VoiceService struct {
	mu    sync.RWMutex
	cache *catalogCache

	ttl         time.Duration
	now         func() time.Time
	credentials func() config.Credentials
	getProvider func(name string, cfg map[string]string) (tts.Provider, error)
}

// catalogCache 缓存的目录及其构建时使用的凭据快照
type catalogCache struct {
	entries   []models.VoiceCatalogEntry
	fetchedAt time.Time
	creds     config.Credentials
}

// NewVoiceService 创建语音服务，ttl必须为正
func NewVoiceService(ttl time.Duration) *VoiceService {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &VoiceService{
		ttl:         ttl,
		now:         time.Now,
		credentials: config.CurrentCredentials,
		getProvider: tts.GetProvider,
	}
}

// GetVoices 返回统一语音目录
// 凭据快照不一致时无条件丢弃缓存；TTL内直接复用；否则重建
func (s *VoiceService) GetVoices(ctx context.Context) *models.VoiceCatalog {
	creds := s.credentials()

	s.mu.RLock()
	cache := s.cache
	s.mu.RUnlock()

	if cache != nil && cache.creds == creds && s.now().Sub(cache.fetchedAt) < s.ttl {
		return &models.VoiceCatalog{Success: true, Voices: cache.entries, FetchedAt: cache.fetchedAt}
	}

	entries := s.buildCatalog(ctx, creds)
	fetchedAt := s.now()

	s.mu.Lock()
	s.cache = &catalogCache{entries: entries, fetchedAt: fetchedAt, creds: creds}
	s.mu.Unlock()

	return &models.VoiceCatalog{Success: true, Voices: entries, FetchedAt: fetchedAt}
}

// buildCatalog 按固定顺序聚合各提供商的语音目录
// 单个提供商失败只损失它自己的条目；全部为空时回退到内置Mock目录
func (s *VoiceService) buildCatalog(ctx context.Context, creds config.Credentials) []models.VoiceCatalogEntry {
	sources := []struct {
		name   string
		apiKey string
	}{
		{tts.ProviderElevenLabs, creds.ElevenLabs},
		{tts.ProviderOpenAI, creds.OpenAI},
		{tts.ProviderGoogle, creds.Google},
	}

	var entries []models.VoiceCatalogEntry
	for _, source := range sources {
		if source.apiKey == "" {
			continue
		}

		provider, err := s.getProvider(source.name, map[string]string{"api_key": source.apiKey})
		if err != nil {
			utils.GetLogger().Warn("语音提供者初始化失败", map[string]interface{}{
				"provider": source.name,
				"error":    err.Error(),
			})
			continue
		}

		voices, err := provider.FetchVoices(ctx)
		if err != nil {
			utils.GetLogger().Warn("获取语音目录失败，跳过该提供商", map[string]interface{}{
				"provider": source.name,
				"error":    err.Error(),
			})
			continue
		}

		entries = append(entries, voices...)
	}

	// 目录为空时返回内置集合；Mock条目不与真实条目混排
	if len(entries) == 0 {
		return s.mockCatalog(ctx)
	}

	return entries
}

// mockCatalog 内置离线目录
func (s *VoiceService) mockCatalog(ctx context.Context) []models.VoiceCatalogEntry {
	provider, err := s.getProvider(tts.ProviderMock, nil)
	if err != nil {
		utils.GetLogger().Error("Mock语音提供者不可用", map[string]interface{}{"error": err.Error()})
		return nil
	}

	voices, err := provider.FetchVoices(ctx)
	if err != nil {
		return nil
	}
	return voices
}

// GetVoiceInfo 按ID查找目录条目，不存在时返回NotFound错误
// 这是本层唯一向调用方传播的失败：不存在的ID没有合理的兜底
func (s *VoiceService) GetVoiceInfo(ctx context.Context, voiceID string) (*models.VoiceCatalogEntry, error) {
	catalog := s.GetVoices(ctx)

	for i := range catalog.Voices {
		if catalog.Voices[i].ID == voiceID {
			entry := catalog.Voices[i]
			return &entry, nil
		}
	}

	return nil, apperrors.NewNotFoundError("语音不存在: "+voiceID, nil)
}

// GenerateVoice 合成语音，提供商失败时降级为mock合成，不向调用方抛错
func (s *VoiceService) GenerateVoice(ctx context.Context, req models.SynthesisRequest) *models.SynthesisResult {
	ref, ok := tts.ParseVoiceID(req.VoiceID)
	if !ok {
		// 无法识别的前缀直接走mock，而不是报错
		return s.mockSynthesize(ctx, req)
	}

	apiKey, required := s.credentialFor(ref.Provider)
	if required && apiKey == "" {
		return s.mockSynthesize(ctx, req)
	}

	cfg := map[string]string{}
	if apiKey != "" {
		cfg["api_key"] = apiKey
	}

	provider, err := s.getProvider(ref.Provider, cfg)
	if err != nil {
		utils.GetLogger().Warn("语音提供者初始化失败，降级为mock", map[string]interface{}{
			"provider": ref.Provider,
			"error":    err.Error(),
		})
		return s.mockSynthesize(ctx, req)
	}

	input := tts.SynthesisInput{
		VoiceID: ref.Raw,
		Text:    req.Text,
	}
	// 不支持风格指令的提供商静默忽略指令
	if provider.SupportsInstructions() {
		input.StyleInstruction = req.StyleInstruction
	}

	output, err := provider.Synthesize(ctx, input)
	if err != nil {
		utils.GetLogger().Warn("语音合成失败，降级为mock", map[string]interface{}{
			"provider": ref.Provider,
			"voice_id": req.VoiceID,
			"error":    err.Error(),
		})
		return s.mockSynthesize(ctx, req)
	}

	utils.GetMetricsCollector().IncrementCounter("voice.synthesized." + ref.Provider)

	duration := output.DurationSeconds
	if duration <= 0 {
		duration = tts.EstimateDuration(req.Text)
	}

	return &models.SynthesisResult{
		ID:              uuid.NewString(),
		ScriptID:        req.ScriptID,
		VoiceID:         req.VoiceID,
		AudioURL:        tts.EncodeDataURI(output.MIMEType, output.Audio),
		DurationSeconds: duration,
		Status:          "ready",
		Provider:        ref.Provider,
	}
}

// PreviewVoice 试听合成：与正式合成共用同一条路径，只是文本来自演示句
func (s *VoiceService) PreviewVoice(ctx context.Context, voiceID, demoText, styleInstruction string) *models.SynthesisResult {
	return s.GenerateVoice(ctx, models.SynthesisRequest{
		Text:             demoText,
		VoiceID:          voiceID,
		ScriptID:         "demo_" + uuid.NewString(),
		StyleInstruction: styleInstruction,
		IsPreview:        true,
	})
}

// mockSynthesize 确定性的离线合成
func (s *VoiceService) mockSynthesize(ctx context.Context, req models.SynthesisRequest) *models.SynthesisResult {
	utils.GetMetricsCollector().IncrementCounter("voice.synthesized.mock")

	provider, err := s.getProvider(tts.ProviderMock, nil)
	if err != nil {
		// 注册表中必然存在mock提供者，这里只是兜底
		return &models.SynthesisResult{
			ID:              uuid.NewString(),
			ScriptID:        req.ScriptID,
			VoiceID:         req.VoiceID,
			DurationSeconds: tts.EstimateDuration(req.Text),
			Status:          "ready",
			Provider:        tts.ProviderMock,
		}
	}

	output, _ := provider.Synthesize(ctx, tts.SynthesisInput{VoiceID: req.VoiceID, Text: req.Text})

	return &models.SynthesisResult{
		ID:              uuid.NewString(),
		ScriptID:        req.ScriptID,
		VoiceID:         req.VoiceID,
		AudioURL:        tts.EncodeDataURI(output.MIMEType, output.Audio),
		DurationSeconds: output.DurationSeconds,
		Status:          "ready",
		Provider:        tts.ProviderMock,
	}
}

// credentialFor 返回提供商所需凭据及其是否必需
func (s *VoiceService) credentialFor(provider string) (string, bool) {
	creds := s.credentials()

	switch provider {
	case tts.ProviderElevenLabs:
		return creds.ElevenLabs, true
	case tts.ProviderOpenAI:
		return creds.OpenAI, true
	case tts.ProviderGoogle:
		return creds.Google, true
	}
	return "", false
}

// CanSynthesize 鉴权门：付费语音要求调用方已认证
// 纯函数，不做任何IO；false由路由层转换为拒绝响应
func CanSynthesize(entry *models.VoiceCatalogEntry, authenticated bool) bool {
	if entry == nil {
		return false
	}
	return !entry.Premium || authenticated
}
