// internal/tts/providers/mock/mock.go
package mock

import (
	"context"
	"encoding/binary"

	"github.com/Corphon/ClipForge/internal/models"
	"github.com/Corphon/ClipForge/internal/tts"
)

func init() {
	tts.Register(tts.ProviderMock, func() tts.Provider {
		return &Provider{}
	})
}

// 内置的离线语音集合，无需任何凭据即可使用
var catalogVoices = []models.VoiceCatalogEntry{
	{ID: "sarah", Name: "Sarah", Gender: "Female", Style: "Professional", Category: "professional"},
	{ID: "marcus", Name: "Marcus", Gender: "Male", Style: "Energetic", Category: "energetic"},
	{ID: "emma", Name: "Emma", Gender: "Female", Style: "Friendly", Category: "friendly", Premium: true},
	{ID: "james", Name: "James", Gender: "Male", Style: "Confident", Category: "confident", Premium: true},
}

type Provider struct{}

// Initialize mock提供者不需要任何配置
func (p *Provider) Initialize(config map[string]string) error {
	return nil
}

func (p *Provider) GetName() string {
	return tts.ProviderMock
}

func (p *Provider) SupportsInstructions() bool {
	return false
}

// FetchVoices 返回固定的4个内置语音条目
func (p *Provider) FetchVoices(ctx context.Context) ([]models.VoiceCatalogEntry, error) {
	entries := make([]models.VoiceCatalogEntry, 0, len(catalogVoices))
	for _, voice := range catalogVoices {
		entry := voice
		entry.ID = tts.QualifyVoiceID(tts.ProviderMock, voice.ID)
		entry.Provider = tts.ProviderMock
		entries = append(entries, entry)
	}
	return entries, nil
}

// Synthesize 生成确定性的静音WAV，时长跟随文本长度估算（上限2秒，避免负载膨胀）
func (p *Provider) Synthesize(ctx context.Context, input tts.SynthesisInput) (*tts.SynthesisOutput, error) {
	seconds := tts.EstimateDuration(input.Text)

	payloadSeconds := seconds
	if payloadSeconds > 2 {
		payloadSeconds = 2
	}
	if payloadSeconds < 1 {
		payloadSeconds = 1
	}

	return &tts.SynthesisOutput{
		Audio:           silentWAV(int(payloadSeconds)),
		MIMEType:        "audio/wav",
		DurationSeconds: seconds,
	}, nil
}

// silentWAV 构造8kHz单声道8位PCM静音
func silentWAV(seconds int) []byte {
	const sampleRate = 8000
	dataSize := sampleRate * seconds

	buf := make([]byte, 44+dataSize)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], sampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], sampleRate)
	binary.LittleEndian.PutUint16(buf[32:34], 1)
	binary.LittleEndian.PutUint16(buf[34:36], 8)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	// 8位PCM的静音值是0x80
	for i := 44; i < len(buf); i++ {
		buf[i] = 0x80
	}

	return buf
}
