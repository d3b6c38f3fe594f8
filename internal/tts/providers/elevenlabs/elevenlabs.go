// internal/tts/providers/elevenlabs/elevenlabs.go
package elevenlabs

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
	tts.Register(tts.ProviderElevenLabs, func() tts.Provider {
		return &Provider{
			baseURL: "https://api.elevenlabs.io/v1",
		}
	})
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
		return errors.New("ElevenLabs API密钥未提供")
	}

	p.apiKey = apiKey
	p.client = &http.Client{}

	if model, exists := config["default_model"]; exists && model != "" {
		p.defaultModel = model
	} else {
		// Turbo v2.5 在速度和质量之间取得平衡
		p.defaultModel = "eleven_turbo_v2_5"
	}

	if baseURL, exists := config["base_url"]; exists && baseURL != "" {
		p.baseURL = baseURL
	}

	return nil
}

func (p *Provider) GetName() string {
	return tts.ProviderElevenLabs
}

func (p *Provider) SupportsInstructions() bool {
	return false
}

// FetchVoices 从ElevenLabs拉取账号可用的语音列表
func (p *Provider) FetchVoices(ctx context.Context) ([]models.VoiceCatalogEntry, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/voices", nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("xi-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ElevenLabs获取语音列表失败(%d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Voices []struct {
			VoiceID    string            `json:"voice_id"`
			Name       string            `json:"name"`
			PreviewURL string            `json:"preview_url"`
			Category   string            `json:"category"`
			Labels     map[string]string `json:"labels"`
		} `json:"voices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	entries := make([]models.VoiceCatalogEntry, 0, len(response.Voices))
	for _, voice := range response.Voices {
		category := voice.Category
		if category == "" {
			category = "general"
		}

		entries = append(entries, models.VoiceCatalogEntry{
			ID:         tts.QualifyVoiceID(tts.ProviderElevenLabs, voice.VoiceID),
			Name:       voice.Name,
			Provider:   tts.ProviderElevenLabs,
			Gender:     voice.Labels["gender"],
			Style:      voice.Labels["use_case"],
			Category:   category,
			PreviewURL: voice.PreviewURL,
			Premium:    voice.Category == "premium",
		})
	}

	return entries, nil
}

// Synthesize 调用ElevenLabs文本转语音接口，返回MP3字节
// ElevenLabs不支持风格指令，StyleInstruction在服务层已被忽略
func (p *Provider) Synthesize(ctx context.Context, input tts.SynthesisInput) (*tts.SynthesisOutput, error) {
	requestBody := map[string]interface{}{
		"text":     input.Text,
		"model_id": p.defaultModel,
		"voice_settings": map[string]interface{}{
			"stability":         0.5,
			"similarity_boost":  0.5,
			"style":             0.5,
			"use_speaker_boost": true,
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		"POST",
		p.baseURL+"/text-to-speech/"+input.VoiceID,
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("xi-api-key", p.apiKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("ElevenLabs合成失败(%d): %s", httpResp.StatusCode, string(body))
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
