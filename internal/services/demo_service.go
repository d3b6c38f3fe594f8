// internal/services/demo_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Corphon/ClipForge/internal/config"
	"github.com/Corphon/ClipForge/internal/llm"
	"github.com/Corphon/ClipForge/internal/models"
	"github.com/Corphon/ClipForge/internal/utils"
)

const (
	demoTargetCount = 30
	demoMinCount    = 20
)

// DemoService 为语音试听生成与视频主题相关的短句
// 与脚本生成共用同一条提供商降级链
type DemoService struct {
	providers []llm.Provider
}

// NewDemoService 按当前凭据装配提供商链
func NewDemoService() *DemoService {
	return &DemoService{providers: textProviderChain(config.CurrentCredentials())}
}

// NewDemoServiceWithProviders 注入提供商链，测试用
func NewDemoServiceWithProviders(providers ...llm.Provider) *DemoService {
	return &DemoService{providers: providers}
}

// GenerateDemoSentences 生成试听句集合，保证返回20~30条
func (s *DemoService) GenerateDemoSentences(ctx context.Context, req models.GenerationRequest) *models.DemoResult {
	prompt := buildDemoPrompt(req)

	tiers := make([]generationTier[[]string], 0, len(s.providers))
	for _, provider := range s.providers {
		provider := provider
		tiers = append(tiers, generationTier[[]string]{
			Name: provider.GetName(),
			Run: func(ctx context.Context) ([]string, error) {
				return s.completeDemos(ctx, provider, prompt)
			},
		})
	}

	sentences, generatedBy := runTiers(ctx, "demo", tiers, func() []string {
		return fallbackDemoSentences(req)
	})

	return &models.DemoResult{
		Success:     true,
		Sentences:   sentences,
		GeneratedBy: generatedBy,
	}
}

// completeDemos 调用单个提供商，要求至少20条，超出30条截断
func (s *DemoService) completeDemos(ctx context.Context, provider llm.Provider, prompt string) ([]string, error) {
	resp, err := provider.CompleteText(ctx, llm.CompletionRequest{
		Prompt:       prompt,
		SystemPrompt: "You are an expert content creator who specializes in creating engaging, platform-specific demo content. Always respond with valid JSON.",
		Temperature:  0.9,
		MaxTokens:    800,
		ForceJSON:    true,
	})
	if err != nil {
		return nil, err
	}

	sentences, err := decodeDemoSentences(resp.Text)
	if err != nil {
		return nil, err
	}

	if len(sentences) < demoMinCount {
		return nil, fmt.Errorf("演示句数量不足: %d < %d", len(sentences), demoMinCount)
	}

	if len(sentences) > demoTargetCount {
		sentences = sentences[:demoTargetCount]
	}

	return sentences, nil
}

// decodeDemoSentences 宽容解析：优先按数组解析，其次在对象里找第一个字符串数组
func decodeDemoSentences(raw string) ([]string, error) {
	var sentences []string
	if err := utils.DecodeArrayLenient(raw, &sentences); err == nil {
		return sentences, nil
	}

	// 模型有时把数组包在对象里，找出第一个字符串数组属性
	var wrapper map[string]json.RawMessage
	if err := utils.DecodeObjectLenient(raw, &wrapper); err != nil {
		return nil, err
	}

	for _, value := range wrapper {
		var nested []string
		if err := json.Unmarshal(value, &nested); err == nil && len(nested) > 0 {
			return nested, nil
		}
	}

	return nil, fmt.Errorf("响应中找不到演示句数组")
}

// buildDemoPrompt 把请求字段嵌入自然语言指令
func buildDemoPrompt(req models.GenerationRequest) string {
	platformString := joinPlatforms(req.Platforms)

	return fmt.Sprintf(`
Generate 30 short, engaging demo sentences for voice previews based on this video concept:

Video Topic: %s
Tone: %s
Platforms: %s
Duration: %d seconds

Requirements:
1. Each sentence should be 8-15 words long (perfect for voice demos)
2. Capture the essence of the video topic
3. Match the specified tone (%s)
4. Be platform-appropriate for %s
5. Include variety: questions, statements, calls-to-action, emotional hooks
6. Make them fun, engaging, and representative of the content style

Examples of good demo sentences:
- "Did you know this simple trick could change everything?"
- "Here's the secret that 99%% of people don't know!"
- "This will literally save you hours every single day."

Generate exactly 30 unique sentences that would work perfectly as voice demos for this content.

Format as a simple JSON array of strings:
["sentence 1", "sentence 2", ...]
`, req.Description, req.Tone, platformString, req.Duration, strings.ToLower(string(req.Tone)), platformString)
}

// 离线模板：按语气分组的基础句式
var demoToneTemplates = map[models.Tone][]string{
	models.ToneEducational: {
		"Learn how to %s in just minutes!",
		"The ultimate guide to %s explained simply.",
		"Everything you need to know about %s.",
		"Master %s with this proven method.",
		"The science behind %s will amaze you.",
	},
	models.ToneFun: {
		"This %s hack will blow your mind!",
		"Wait until you see this %s trick!",
		"The most fun way to learn %s!",
		"You won't believe what happens with %s!",
		"This %s moment is pure comedy gold!",
	},
	models.ToneProfessional: {
		"Professional insights on %s you need.",
		"Industry experts reveal %s secrets.",
		"The business case for %s explained.",
		"Why %s matters in today's market.",
		"Strategic approaches to %s success.",
	},
	models.ToneInspiring: {
		"Transform your life with %s today!",
		"The %s journey that changed everything.",
		"Believe in the power of %s!",
		"Your %s breakthrough moment awaits.",
		"Rise above with this %s mindset.",
	},
}

// 平台专属的开场短语
var demoPlatformLeads = map[models.Platform][]string{
	models.PlatformTikTok:    {"Quick tip:", "POV:", "This is why:", "Fun fact:", "Real talk:"},
	models.PlatformInstagram: {"Swipe for more", "Save this post", "Double tap if", "Story time:", "Behind the scenes:"},
	models.PlatformYouTube:   {"In this video:", "Don't forget to subscribe", "Let me show you", "Tutorial time:", "Step by step:"},
}

// fallbackDemoSentences 离线模板生成，确定性输出
// 主题种子取描述的前三个词，使结果即便离线也与请求相关
func fallbackDemoSentences(req models.GenerationRequest) []string {
	words := strings.Fields(strings.ToLower(req.Description))
	if len(words) > 3 {
		words = words[:3]
	}
	topic := strings.Join(words, " ")

	templates, ok := demoToneTemplates[req.Tone]
	if !ok {
		templates = demoToneTemplates[models.ToneEducational]
	}

	var sentences []string

	for _, template := range templates {
		base := fmt.Sprintf(template, topic)
		sentences = append(sentences, base)
		sentences = append(sentences, strings.Replace(base, "you", "everyone", 1))
		sentences = append(sentences, strings.Replace(base, "This", "Here's why this", 1))
	}

	for _, platform := range req.Platforms {
		leads, ok := demoPlatformLeads[platform]
		if !ok {
			leads = []string{"Check this out:"}
		}
		for _, lead := range leads {
			sentences = append(sentences, fmt.Sprintf("%s %s made simple!", lead, topic))
			sentences = append(sentences, fmt.Sprintf("%s the best %s tips.", lead, topic))
		}
	}

	generic := []string{
		fmt.Sprintf("Ready to discover %s secrets?", topic),
		fmt.Sprintf("The %s game changer is here!", topic),
		fmt.Sprintf("Don't miss this %s revelation!", topic),
		fmt.Sprintf("Your %s questions answered today!", topic),
		fmt.Sprintf("The ultimate %s experience awaits!", topic),
		fmt.Sprintf("Join thousands learning %s right now!", topic),
		fmt.Sprintf("This %s tip will save your day!", topic),
		fmt.Sprintf("Unlock the %s potential within you!", topic),
	}
	sentences = append(sentences, generic...)

	if len(sentences) > demoTargetCount {
		sentences = sentences[:demoTargetCount]
	}

	return sentences
}
