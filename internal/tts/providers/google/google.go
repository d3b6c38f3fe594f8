// internal/tts/providers/google/google.go
package google

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Corphon/ClipForge/internal/models"
	"github.com/Corphon/ClipForge/internal/tts"
)

func init() {
	tts.Register(tts.ProviderGoogle, func() tts.Provider {
		return &Provider{
			baseURL: "https://generativelanguage.googleapis.com/v1beta",
		}
	})
}

// Gemini TTS的预置语音是固定集合
var catalogVoices = []models.VoiceCatalogEntry{
	{ID: "zephyr", Name: "Zephyr", Gender: "Female", Style: "Bright", Description: "Bright and cheerful voice"},
	{ID: "puck", Name: "Puck", Gender: "Male", Style: "Upbeat", Description: "Upbeat and energetic voice"},
	{ID: "isla", Name: "Isla", Gender: "Female", Style: "Expressive", Description: "Expressive and dynamic voice"},
	{ID: "echo", Name: "Echo", Gender: "Male", Style: "Professional", Description: "Professional and clear voice"},
	{ID: "orbit", Name: "Orbit", Gender: "Neutral", Style: "Futuristic", Description: "Modern futuristic voice"},
	{ID: "nova", Name: "Nova (Google)", Gender: "Female", Style: "Warm", Description: "Warm and friendly voice"},
	{ID: "sage", Name: "Sage", Gender: "Neutral", Style: "Wise", Description: "Wise and thoughtful voice"},
	{ID: "luna", Name: "Luna", Gender: "Female", Style: "Dreamy", Description: "Soft and dreamy voice"},
}

type Provider struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	defaultModel string
}

func (p *Provider) Initialize(config map[string]string) error {
	apiKey, exists := config["api_key"]
	if !exists || apiKey == "" {
		return errors.New("google_api密钥未提供")
	}

	p.apiKey = apiKey
	p.client = &http.Client{}

	if model, exists := config["default_model"]; exists && model != "" {
		p.defaultModel = model
	} else {
		p.defaultModel = "gemini-2.5-flash-preview-tts"
	}

	if baseURL, exists := config["base_url"]; exists && baseURL != "" {
		p.baseURL = baseURL
	}

	return nil
}

func (p *Provider) GetName() string {
	return tts.ProviderGoogle
}

func (p *Provider) SupportsInstructions() bool {
	return false
}

// FetchVoices 返回固定的8个预置语音条目
func (p *Provider) FetchVoices(ctx context.Context) ([]models.VoiceCatalogEntry, error) {
	entries := make([]models.VoiceCatalogEntry, 0, len(catalogVoices))
	for _, voice := range catalogVoices {
		entry := voice
		entry.ID = tts.QualifyVoiceID(tts.ProviderGoogle, voice.ID)
		entry.Provider = tts.ProviderGoogle
		entry.Category = "professional"
		entry.Premium = false
		entries = append(entries, entry)
	}
	return entries, nil
}

// voiceName 把原始ID映射为Gemini的预置语音名，未知时回退到Zephyr
func voiceName(raw string) string {
	for _, voice := range catalogVoices {
		if voice.ID == raw {
			return strings.SplitN(voice.Name, " ", 2)[0]
		}
	}
	return "Zephyr"
}

// Synthesize 调用Gemini TTS接口，音频以base64内联在JSON响应中返回
func (p *Provider) Synthesize(ctx context.Context, input tts.SynthesisInput) (*tts.SynthesisOutput, error) {
	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": input.Text}}},
		},
		"generationConfig": map[string]interface{}{
			"responseModalities": []string{"AUDIO"},
			"speechConfig": map[string]interface{}{
				"voiceConfig": map[string]interface{}{
					"prebuiltVoiceConfig": map[string]string{
						"voiceName": voiceName(input.VoiceID),
					},
				},
			},
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, p.defaultModel, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("Gemini TTS失败(%d): %s", httpResp.StatusCode, string(body))
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					InlineData struct {
						MIMEType string `json:"mimeType"`
						Data     string `json:"data"`
					} `json:"inlineData"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(httpResp.Body).Decode(&response); err != nil {
		return nil, err
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("Gemini响应中没有音频数据")
	}

	inline := response.Candidates[0].Content.Parts[0].InlineData
	if inline.Data == "" {
		return nil, errors.New("Gemini响应中没有音频数据")
	}

	audio, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return nil, err
	}

	mimeType := inline.MIMEType
	if mimeType == "" {
		mimeType = "audio/wav"
	}

	return &tts.SynthesisOutput{
		Audio:    audio,
		MIMEType: mimeType,
	}, nil
}
