// internal/services/script_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Corphon/ClipForge/internal/config"
	"github.com/Corphon/ClipForge/internal/llm"
	"github.com/Corphon/ClipForge/internal/models"
	"github.com/Corphon/ClipForge/internal/utils"
)

// ScriptService 负责视频脚本生成：主备提供商依次尝试，全部失败时走离线模板
type ScriptService struct {
	providers []llm.Provider
}

// scriptPayload 模型结构化输出的解码目标
type scriptPayload struct {
	Hook     string         `json:"hook"`
	Scenes   []models.Scene `json:"scenes"`
	CTA      string         `json:"cta"`
	Hashtags []string       `json:"hashtags"`
}

// NewScriptService 按当前凭据装配提供商链（openai优先，google其次）
// 无凭据时提供商链为空，所有请求直接走离线模板
func NewScriptService() *ScriptService {
	return &ScriptService{providers: textProviderChain(config.CurrentCredentials())}
}

// NewScriptServiceWithProviders 注入提供商链，测试用
func NewScriptServiceWithProviders(providers ...llm.Provider) *ScriptService {
	return &ScriptService{providers: providers}
}

// textProviderChain 按固定优先级装配文本生成提供商
func textProviderChain(creds config.Credentials) []llm.Provider {
	var chain []llm.Provider

	if creds.OpenAI != "" {
		if provider, err := llm.GetProvider("openai", map[string]string{"api_key": creds.OpenAI}); err == nil {
			chain = append(chain, provider)
		} else {
			utils.GetLogger().Warn("OpenAI提供者初始化失败", map[string]interface{}{"error": err.Error()})
		}
	}

	if creds.Google != "" {
		if provider, err := llm.GetProvider("google", map[string]string{"api_key": creds.Google}); err == nil {
			chain = append(chain, provider)
		} else {
			utils.GetLogger().Warn("Google提供者初始化失败", map[string]interface{}{"error": err.Error()})
		}
	}

	return chain
}

// GenerateScript 生成视频脚本
// 不向调用方返回错误：任何上游失败都降级为离线模板结果
func (s *ScriptService) GenerateScript(ctx context.Context, req models.GenerationRequest) *models.ScriptResult {
	prompt := buildScriptPrompt(req)

	tiers := make([]generationTier[scriptPayload], 0, len(s.providers))
	for _, provider := range s.providers {
		provider := provider
		tiers = append(tiers, generationTier[scriptPayload]{
			Name: provider.GetName(),
			Run: func(ctx context.Context) (scriptPayload, error) {
				return s.completeScript(ctx, provider, prompt)
			},
		})
	}

	payload, generatedBy := runTiers(ctx, "script", tiers, func() scriptPayload {
		return fallbackScriptPayload(req)
	})

	script := &models.Script{
		ID:          uuid.NewString(),
		Hook:        payload.Hook,
		Scenes:      payload.Scenes,
		CTA:         payload.CTA,
		Hashtags:    payload.Hashtags,
		Tone:        req.Tone,
		Platforms:   req.Platforms,
		Duration:    req.Duration,
		GeneratedBy: generatedBy,
	}
	script.Content = formatScriptContent(payload)

	return &models.ScriptResult{Success: true, Script: script}
}

// completeScript 调用单个提供商并宽容解析其结构化输出
func (s *ScriptService) completeScript(ctx context.Context, provider llm.Provider, prompt string) (scriptPayload, error) {
	resp, err := provider.CompleteText(ctx, llm.CompletionRequest{
		Prompt:       prompt,
		SystemPrompt: "You are an expert social media content creator. Always respond with valid JSON.",
		Temperature:  0.8,
		MaxTokens:    1000,
		ForceJSON:    true,
	})
	if err != nil {
		return scriptPayload{}, err
	}

	var payload scriptPayload
	if err := utils.DecodeObjectLenient(resp.Text, &payload); err != nil {
		return scriptPayload{}, err
	}

	// 形状校验：缺少任一必要字段都视为解析失败，继续降级
	if payload.Hook == "" || len(payload.Scenes) == 0 || payload.CTA == "" || len(payload.Hashtags) == 0 {
		return scriptPayload{}, fmt.Errorf("脚本结构不完整: hook=%t scenes=%d cta=%t hashtags=%d",
			payload.Hook != "", len(payload.Scenes), payload.CTA != "", len(payload.Hashtags))
	}

	return payload, nil
}

// buildScriptPrompt 把请求字段嵌入自然语言指令
func buildScriptPrompt(req models.GenerationRequest) string {
	platformString := joinPlatforms(req.Platforms)

	return fmt.Sprintf(`
You are an expert social media content creator with deep knowledge of viral video psychology and engagement science.

Create a compelling %d-second video script for %s with a %s tone.

Video concept: %s

CRITICAL SUCCESS PRINCIPLES (Research-Based):

1. THE 3-SECOND RULE: The first 3 seconds determine if viewers stay or scroll. Front-load your most compelling content.

2. HOOK STRATEGIES (Choose the best for this content):
   - Bold Visual/Shock Factor: Eye-catching, unexpected opening
   - Provocative Question: "Did you know 85%% of people do X?"
   - Secret Value: "Here's a trick 99%% of businesses don't know..."
   - Relatable Problem: Start with a common pain point
   - Dynamic Movement: High-energy opening with action

3. STORYTELLING STRUCTURE:
   - Beginning (Hook/Setup): First 3-5 seconds
   - Middle (Build Tension/Value): Develop the idea, heighten emotion
   - End (Climax/Resolution): Big reveal, then immediate CTA

4. PACING & PATTERN INTERRUPTS:
   - Change something every 5-10 seconds (visual, text, angle)
   - No static moments - constant engagement

5. PLATFORM-SPECIFIC OPTIMIZATION:
   - TikTok: Ultra-fast-paced, authentic, trend-driven, 15-30s sweet spot
   - Instagram: Slightly polished, aesthetic, mute-friendly with captions
   - YouTube: Can handle slight setup, educational, searchable keywords

Aim for roughly one scene per 10 seconds of video.

Format as JSON with detailed scene breakdown:
{
  "hook": "The opening line (3-second rule compliant)",
  "scenes": [
    {
      "timestamp": "0:00-0:05",
      "narration": "Exact words to say",
      "visual": "Specific visual description",
      "emotion": "Target emotion"
    }
  ],
  "cta": "Clear, action-oriented call to action",
  "hashtags": ["viral-potential", "platform-optimized", "hashtags"]
}
`, req.Duration, platformString, strings.ToLower(string(req.Tone)), req.Description)
}

// fallbackScriptPayload 离线模板生成：每10秒一个场景，情绪按固定序列轮换
func fallbackScriptPayload(req models.GenerationRequest) scriptPayload {
	sceneCount := (req.Duration + 9) / 10
	emotions := []string{"excitement", "curiosity", "inspiration", "joy"}

	scenes := make([]models.Scene, 0, sceneCount)
	for i := 0; i < sceneCount; i++ {
		start := i * 10
		end := (i + 1) * 10
		if end > req.Duration {
			end = req.Duration
		}

		scenes = append(scenes, models.Scene{
			Timestamp: fmt.Sprintf("%s-%s", formatTimestamp(start), formatTimestamp(end)),
			Narration: fmt.Sprintf("Scene %d narration for %s", i+1, req.Description),
			Visual:    fmt.Sprintf("Visual description for scene %d", i+1),
			Emotion:   emotions[i%len(emotions)],
		})
	}

	hookSeed := utils.TruncateRunes(req.Description, 50)

	hashtags := []string{"#viral", "#trending"}
	if len(req.Platforms) > 0 {
		hashtags = append(hashtags, "#"+strings.ToLower(string(req.Platforms[0])))
	}

	return scriptPayload{
		Hook:     fmt.Sprintf("Did you know that %s...?", hookSeed),
		Scenes:   scenes,
		CTA:      "Follow for more amazing content!",
		Hashtags: hashtags,
	}
}

// formatScriptContent 渲染纯文本版脚本，供UI直接展示
func formatScriptContent(payload scriptPayload) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("HOOK: %s\n\n", payload.Hook))

	for i, scene := range payload.Scenes {
		builder.WriteString(fmt.Sprintf("SCENE %d [%s]\n", i+1, scene.Timestamp))
		builder.WriteString(fmt.Sprintf("Narration: %s\n", scene.Narration))
		builder.WriteString(fmt.Sprintf("Visual: %s\n", scene.Visual))
		builder.WriteString(fmt.Sprintf("Emotion: %s\n\n", scene.Emotion))
	}

	builder.WriteString(fmt.Sprintf("CTA: %s\n\n", payload.CTA))
	builder.WriteString("HASHTAGS: " + strings.Join(payload.Hashtags, " "))

	return builder.String()
}

// formatTimestamp 秒数转 m:ss
func formatTimestamp(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// joinPlatforms 平台列表转逗号分隔字符串
func joinPlatforms(platforms []models.Platform) string {
	names := make([]string, 0, len(platforms))
	for _, platform := range platforms {
		names = append(names, string(platform))
	}
	return strings.Join(names, ", ")
}
