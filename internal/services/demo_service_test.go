// internal/services/demo_service_test.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/ClipForge/internal/models"
)

func demoJSON(n int) string {
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = fmt.Sprintf("Demo sentence number %d about coffee!", i+1)
	}
	raw, _ := json.Marshal(sentences)
	return string(raw)
}

func TestGenerateDemoSentences_ProviderArray(t *testing.T) {
	provider := &stubTextProvider{name: "openai", text: demoJSON(25)}
	service := NewDemoServiceWithProviders(provider)

	result := service.GenerateDemoSentences(context.Background(), testRequest(30))

	require.True(t, result.Success)
	assert.Equal(t, "openai", result.GeneratedBy)
	assert.Len(t, result.Sentences, 25)
}

func TestGenerateDemoSentences_TruncatesToThirty(t *testing.T) {
	provider := &stubTextProvider{name: "openai", text: demoJSON(40)}
	service := NewDemoServiceWithProviders(provider)

	result := service.GenerateDemoSentences(context.Background(), testRequest(30))

	assert.Len(t, result.Sentences, 30)
}

func TestGenerateDemoSentences_TooFewFallsThrough(t *testing.T) {
	provider := &stubTextProvider{name: "openai", text: demoJSON(5)}
	service := NewDemoServiceWithProviders(provider)

	result := service.GenerateDemoSentences(context.Background(), testRequest(30))

	assert.Equal(t, GeneratedByFallback, result.GeneratedBy)
}

func TestGenerateDemoSentences_ObjectWrappedArray(t *testing.T) {
	// 模型有时把数组包在对象属性里
	provider := &stubTextProvider{name: "google", text: `{"sentences": ` + demoJSON(22) + `}`}
	service := NewDemoServiceWithProviders(provider)

	result := service.GenerateDemoSentences(context.Background(), testRequest(30))

	assert.Equal(t, "google", result.GeneratedBy)
	assert.Len(t, result.Sentences, 22)
}

func TestGenerateDemoSentences_ProviderErrorFallsBack(t *testing.T) {
	provider := &stubTextProvider{name: "openai", err: errors.New("upstream down")}
	service := NewDemoServiceWithProviders(provider)

	result := service.GenerateDemoSentences(context.Background(), testRequest(30))

	require.True(t, result.Success)
	assert.Equal(t, GeneratedByFallback, result.GeneratedBy)
	assert.GreaterOrEqual(t, len(result.Sentences), demoMinCount)
	assert.LessOrEqual(t, len(result.Sentences), demoTargetCount)
}

func TestGenerateDemoSentences_FallbackBounds(t *testing.T) {
	service := NewDemoServiceWithProviders()

	tones := []models.Tone{models.ToneEducational, models.ToneFun, models.ToneProfessional, models.ToneInspiring}
	for _, tone := range tones {
		t.Run(string(tone), func(t *testing.T) {
			req := testRequest(30)
			req.Tone = tone

			result := service.GenerateDemoSentences(context.Background(), req)

			assert.GreaterOrEqual(t, len(result.Sentences), demoMinCount)
			assert.LessOrEqual(t, len(result.Sentences), demoTargetCount)
		})
	}
}

func TestGenerateDemoSentences_FallbackDeterministic(t *testing.T) {
	service := NewDemoServiceWithProviders()
	req := testRequest(30)

	first := service.GenerateDemoSentences(context.Background(), req)
	second := service.GenerateDemoSentences(context.Background(), req)

	assert.Equal(t, first.Sentences, second.Sentences)
}

func TestGenerateDemoSentences_FallbackUsesTopicSeed(t *testing.T) {
	service := NewDemoServiceWithProviders()

	result := service.GenerateDemoSentences(context.Background(), testRequest(30))

	// 主题种子取描述的前三个词
	found := 0
	for _, sentence := range result.Sentences {
		if strings.Contains(sentence, "morning coffee brewing") {
			found++
		}
	}
	assert.Greater(t, found, 0)
}

func TestFallbackDemoSentences_UnknownToneUsesEducational(t *testing.T) {
	req := testRequest(30)
	req.Tone = models.Tone("Mysterious")

	sentences := fallbackDemoSentences(req)

	assert.GreaterOrEqual(t, len(sentences), demoMinCount)
}
