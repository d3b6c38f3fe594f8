// internal/llm/providers/google/google.go
package google

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Corphon/ClipForge/internal/llm"
)

func init() {
	llm.Register("google", func() llm.Provider {
		return &Provider{}
	})
}

type Provider struct {
	apiKey       string
	defaultModel string
}

func (p *Provider) Initialize(config map[string]string) error {
	apiKey, exists := config["api_key"]
	if !exists || apiKey == "" {
		return errors.New("google_api密钥未提供")
	}

	p.apiKey = apiKey

	if model, exists := config["default_model"]; exists && model != "" {
		p.defaultModel = model
	} else {
		p.defaultModel = "gemini-2.5-flash"
	}

	return nil
}

func (p *Provider) GetName() string {
	return "google"
}

func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	// 每次调用创建客户端，保证总是使用当前凭据
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	gm := client.GenerativeModel(model)

	if req.Temperature > 0 {
		gm.SetTemperature(req.Temperature)
	}

	if req.MaxTokens > 0 {
		gm.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	if req.SystemPrompt != "" {
		gm.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}

	if req.ForceJSON {
		gm.ResponseMIMEType = "application/json"
	}

	resp, err := gm.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("Gemini未返回任何结果")
	}

	// 拼接所有文本片段
	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}

	result := &llm.CompletionResponse{
		Text:         builder.String(),
		FinishReason: resp.Candidates[0].FinishReason.String(),
		ModelName:    model,
		ProviderName: p.GetName(),
	}

	if resp.UsageMetadata != nil {
		result.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		result.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return result, nil
}
