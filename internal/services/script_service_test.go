// internal/services/script_service_test.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/ClipForge/internal/llm"
	"github.com/Corphon/ClipForge/internal/models"
)

// stubTextProvider 返回固定文本或错误的文本提供者
type stubTextProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (p *stubTextProvider) Initialize(config map[string]string) error { return nil }
func (p *stubTextProvider) GetName() string                           { return p.name }

func (p *stubTextProvider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Text: p.text, ProviderName: p.name}, nil
}

const validScriptJSON = `{
	"hook": "Did you know coffee can change your morning?",
	"scenes": [
		{"timestamp": "0:00-0:10", "narration": "Start here", "visual": "Close-up", "emotion": "curiosity"},
		{"timestamp": "0:10-0:20", "narration": "Then this", "visual": "Wide shot", "emotion": "excitement"}
	],
	"cta": "Follow for more!",
	"hashtags": ["#coffee", "#morning"]
}`

func testRequest(duration int) models.GenerationRequest {
	return models.GenerationRequest{
		Description: "morning coffee brewing secrets",
		Tone:        models.ToneEducational,
		Platforms:   []models.Platform{models.PlatformTikTok, models.PlatformYouTube},
		Duration:    duration,
	}
}

func TestGenerateScript_ProviderSuccess(t *testing.T) {
	provider := &stubTextProvider{name: "openai", text: "Here you go:\n```json\n" + validScriptJSON + "\n```"}
	service := NewScriptServiceWithProviders(provider)

	result := service.GenerateScript(context.Background(), testRequest(30))

	require.True(t, result.Success)
	require.NotNil(t, result.Script)
	assert.Equal(t, "openai", result.Script.GeneratedBy)
	assert.Equal(t, "Did you know coffee can change your morning?", result.Script.Hook)
	assert.Len(t, result.Script.Scenes, 2)
	assert.Equal(t, "Follow for more!", result.Script.CTA)
	assert.NotEmpty(t, result.Script.ID)
	assert.Contains(t, result.Script.Content, "HOOK:")
	assert.Contains(t, result.Script.Content, "SCENE 1 [0:00-0:10]")
	assert.Contains(t, result.Script.Content, "HASHTAGS: #coffee #morning")
}

func TestGenerateScript_FirstTierFailsSecondWins(t *testing.T) {
	primary := &stubTextProvider{name: "openai", err: errors.New("rate limited")}
	secondary := &stubTextProvider{name: "google", text: validScriptJSON}
	service := NewScriptServiceWithProviders(primary, secondary)

	result := service.GenerateScript(context.Background(), testRequest(30))

	assert.Equal(t, "google", result.Script.GeneratedBy)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestGenerateScript_IncompletePayloadFallsThrough(t *testing.T) {
	// hook缺失视为解析失败，继续降级
	broken := &stubTextProvider{name: "openai", text: `{"scenes": [], "cta": "x", "hashtags": ["#a"]}`}
	service := NewScriptServiceWithProviders(broken)

	result := service.GenerateScript(context.Background(), testRequest(30))

	assert.Equal(t, GeneratedByFallback, result.Script.GeneratedBy)
}

func TestGenerateScript_FallbackSceneCount(t *testing.T) {
	service := NewScriptServiceWithProviders()

	cases := []struct {
		duration int
		scenes   int
	}{
		{10, 1},
		{25, 3},
		{30, 3},
		{45, 5},
		{120, 12},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("duration_%d", tc.duration), func(t *testing.T) {
			result := service.GenerateScript(context.Background(), testRequest(tc.duration))

			require.NotNil(t, result.Script)
			assert.Equal(t, GeneratedByFallback, result.Script.GeneratedBy)
			assert.Len(t, result.Script.Scenes, tc.scenes)
		})
	}
}

func TestGenerateScript_FallbackTimestamps(t *testing.T) {
	service := NewScriptServiceWithProviders()

	result := service.GenerateScript(context.Background(), testRequest(65))

	scenes := result.Script.Scenes
	require.Len(t, scenes, 7)
	assert.Equal(t, "0:00-0:10", scenes[0].Timestamp)
	assert.Equal(t, "0:50-1:00", scenes[5].Timestamp)
	// 最后一个场景截断到总时长
	assert.Equal(t, "1:00-1:05", scenes[6].Timestamp)
}

func TestGenerateScript_FallbackShape(t *testing.T) {
	service := NewScriptServiceWithProviders()

	result := service.GenerateScript(context.Background(), testRequest(30))
	script := result.Script

	assert.Contains(t, script.Hook, "morning coffee brewing secrets")
	assert.NotEmpty(t, script.CTA)
	assert.Contains(t, script.Hashtags, "#viral")
	assert.Contains(t, script.Hashtags, "#tiktok")
	assert.Equal(t, models.ToneEducational, script.Tone)
	assert.Equal(t, 30, script.Duration)

	emotions := map[string]bool{"excitement": true, "curiosity": true, "inspiration": true, "joy": true}
	for _, scene := range script.Scenes {
		assert.True(t, emotions[scene.Emotion], "unexpected emotion %q", scene.Emotion)
		assert.NotEmpty(t, scene.Narration)
		assert.NotEmpty(t, scene.Visual)
	}
}

func TestGenerateScript_FallbackHookMultibyteSeed(t *testing.T) {
	service := NewScriptServiceWithProviders()

	req := testRequest(30)
	req.Description = strings.Repeat("好", 60)

	result := service.GenerateScript(context.Background(), req)

	// 描述截断按字符计数，不能把多字节字符切成无效UTF-8
	assert.True(t, utf8.ValidString(result.Script.Hook))
	assert.Contains(t, result.Script.Hook, strings.Repeat("好", 50))
	assert.NotContains(t, result.Script.Hook, strings.Repeat("好", 51))
}

func TestGenerateScript_UniqueIDs(t *testing.T) {
	service := NewScriptServiceWithProviders()

	first := service.GenerateScript(context.Background(), testRequest(30))
	second := service.GenerateScript(context.Background(), testRequest(30))

	assert.NotEqual(t, first.Script.ID, second.Script.ID)
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "0:00", formatTimestamp(0))
	assert.Equal(t, "0:09", formatTimestamp(9))
	assert.Equal(t, "1:00", formatTimestamp(60))
	assert.Equal(t, "2:05", formatTimestamp(125))
}
