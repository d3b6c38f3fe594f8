// internal/tts/providers/mock/mock_test.go
package mock

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/ClipForge/internal/tts"
)

func TestFetchVoices(t *testing.T) {
	provider := &Provider{}
	require.NoError(t, provider.Initialize(nil))

	voices, err := provider.FetchVoices(context.Background())
	require.NoError(t, err)
	require.Len(t, voices, 4)

	premiumCount := 0
	for _, voice := range voices {
		assert.True(t, strings.HasPrefix(voice.ID, "mock_"), "ID %q should carry the mock prefix", voice.ID)
		assert.Equal(t, tts.ProviderMock, voice.Provider)
		if voice.Premium {
			premiumCount++
		}
	}
	assert.Equal(t, 2, premiumCount)
}

func TestSynthesize_Deterministic(t *testing.T) {
	provider := &Provider{}
	input := tts.SynthesisInput{VoiceID: "sarah", Text: "Hello from the mock synthesizer."}

	first, err := provider.Synthesize(context.Background(), input)
	require.NoError(t, err)
	second, err := provider.Synthesize(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.Audio, second.Audio)
	assert.Equal(t, "audio/wav", first.MIMEType)
	assert.Equal(t, tts.EstimateDuration(input.Text), first.DurationSeconds)
}

func TestSynthesize_WAVHeader(t *testing.T) {
	provider := &Provider{}

	out, err := provider.Synthesize(context.Background(), tts.SynthesisInput{Text: "hi"})
	require.NoError(t, err)

	require.Greater(t, len(out.Audio), 44)
	assert.Equal(t, "RIFF", string(out.Audio[0:4]))
	assert.Equal(t, "WAVE", string(out.Audio[8:12]))
}

func TestSynthesize_LongTextReportsFullDuration(t *testing.T) {
	provider := &Provider{}
	text := strings.Repeat("a long narration segment ", 40)

	out, err := provider.Synthesize(context.Background(), tts.SynthesisInput{Text: text})
	require.NoError(t, err)

	// 报告的时长跟随文本，负载本身封顶在2秒
	assert.Equal(t, tts.EstimateDuration(text), out.DurationSeconds)
	assert.LessOrEqual(t, len(out.Audio), 44+2*8000)
}
