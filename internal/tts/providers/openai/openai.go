// internal/tts/providers/openai/openai.go
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Corphon/ClipForge/internal/models"
	"github.com/Corphon/ClipForge/internal/tts"
)

func init() {
	tts.Register(tts.ProviderOpenAI, func() tts.Provider {
		return &Provider{
			baseURL: "https://api.openai.com/v1",
		}
	})
}

// OpenAI TTS语音是固定集合，目录不走网络
var catalogVoices = []models.VoiceCatalogEntry{
	{ID: "alloy", Name: "Alloy", Gender: "Neutral", Style: "Balanced", Description: "Neutral and balanced voice"},
	{ID: "echo", Name: "Echo", Gender: "Male", Style: "Smooth", Description: "Smooth male voice"},
	{ID: "fable", Name: "Fable", Gender: "Female", Style: "Expressive", Description: "Expressive storyteller voice"},
	{ID: "onyx", Name: "Onyx", Gender: "Male", Style: "Deep", Description: "Deep and authoritative voice"},
	{ID: "nova", Name: "Nova", Gender: "Female", Style: "Friendly", Description: "Friendly and warm voice"},
	{ID: "shimmer", Name: "Shimmer", Gender: "Female", Style: "Warm", Description: "Warm and inviting voice"},
	{ID: "aurora", Name: "Aurora", Gender: "Female", Style: "Energetic", Description: "High-energy voice"},
	{ID: "breeze", Name: "Breeze", Gender: "Neutral", Style: "Calm", Description: "Calm and soothing voice"},
	{ID: "coral", Name: "Coral", Gender: "Female", Style: "Playful", Description: "Playful and upbeat voice"},
	{ID: "dash", Name: "Dash", Gender: "Male", Style: "Dynamic", Description: "Dynamic and engaging voice"},
	{ID: "ember", Name: "Ember", Gender: "Female", Style: "Passionate", Description: "Passionate and emotional voice"},
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
		return errors.New("OpenAI API密钥未提供")
	}

	p.apiKey = apiKey
	p.client = &http.Client{}

	if model, exists := config["default_model"]; exists && model != "" {
		p.defaultModel = model
	} else {
		// gpt-4o-mini-tts 支持在输入中嵌入语音指令
		p.defaultModel = "gpt-4o-mini-tts"
	}

	if baseURL, exists := config["base_url"]; exists && baseURL != "" {
		p.baseURL = baseURL
	}

	return nil
}

func (p *Provider) GetName() string {
	return tts.ProviderOpenAI
}

func (p *Provider) SupportsInstructions() bool {
	return true
}

// FetchVoices 返回固定的11个语音条目
func (p *Provider) FetchVoices(ctx context.Context) ([]models.VoiceCatalogEntry, error) {
	entries := make([]models.VoiceCatalogEntry, 0, len(catalogVoices))
	for _, voice := range catalogVoices {
		entry := voice
		entry.ID = tts.QualifyVoiceID(tts.ProviderOpenAI, voice.ID)
		entry.Provider = tts.ProviderOpenAI
		entry.Category = "professional"
		entry.Premium = false
		entry.SupportsInstructions = true
		entries = append(entries, entry)
	}
	return entries, nil
}

// Synthesize 调用OpenAI语音合成接口
// 风格指令按约定拼接到输入文本前："<指令>. <正文>"
func (p *Provider) Synthesize(ctx context.Context, input tts.SynthesisInput) (*tts.SynthesisOutput, error) {
	finalInput := input.Text
	if input.StyleInstruction != "" {
		finalInput = input.StyleInstruction + ". " + input.Text
	}

	requestBody := map[string]interface{}{
		"model":           p.defaultModel,
		"input":           finalInput,
		"voice":           input.VoiceID,
		"response_format": "mp3",
		"speed":           1.0,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		"POST",
		p.baseURL+"/audio/speech",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("OpenAI TTS失败(%d): %s", httpResp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &tts.SynthesisOutput{
		Audio:    audio,
		MIMEType: "audio/mpeg",
	}, nil
}
