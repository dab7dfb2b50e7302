package generator

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"yt2tutorial/apperr"
)

const defaultGeminiModel = "gemini-1.5-pro"

// GeminiLLM implements LLMClient with the Gemini generateContent API.
type GeminiLLM struct {
	client *genai.Client
	model  string
}

func NewGeminiLLMFromConfig(ctx context.Context, cfg *LLMSettings) (*GeminiLLM, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, apperr.New(apperr.Configuration, "Gemini API key is not configured")
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, apperr.Wrap(apperr.Configuration, "gemini client: "+err.Error(), err)
	}
	return &GeminiLLM{client: client, model: model}, nil
}

func (g *GeminiLLM) Close() error {
	return g.client.Close()
}

func (g *GeminiLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	model := g.client.GenerativeModel(g.model)
	configureModel(model, prompt)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return "", geminiError(err)
	}
	return geminiReply(resp)
}

// geminiReply 仅在没有候选内容时报错；空白文本原样返回，由 Agent 的采纳规则决定是否保留。
func geminiReply(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apperr.New(apperr.Upstream, "Gemini API Error: empty response")
	}
	return responseText(resp), nil
}

func configureModel(model *genai.GenerativeModel, prompt Prompt) {
	gc := prompt.Generation
	model.SetTemperature(gc.Temperature)
	if gc.TopK > 0 {
		model.SetTopK(gc.TopK)
	}
	if gc.TopP > 0 {
		model.SetTopP(gc.TopP)
	}
	if gc.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(gc.MaxOutputTokens)
	}
	if prompt.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}
	}
	model.SafetySettings = nil
	for _, s := range prompt.Safety {
		model.SafetySettings = append(model.SafetySettings, &genai.SafetySetting{
			Category:  geminiCategory(s.Category),
			Threshold: geminiThreshold(s.Threshold),
		})
	}
}

func geminiCategory(c HarmCategory) genai.HarmCategory {
	switch c {
	case HarmHateSpeech:
		return genai.HarmCategoryHateSpeech
	case HarmDangerousContent:
		return genai.HarmCategoryDangerousContent
	default:
		return genai.HarmCategoryUnspecified
	}
}

func geminiThreshold(t BlockThreshold) genai.HarmBlockThreshold {
	switch t {
	case BlockOnlyHigh:
		return genai.HarmBlockOnlyHigh
	case BlockMediumAndAbove:
		return genai.HarmBlockMediumAndAbove
	case BlockLowAndAbove:
		return genai.HarmBlockLowAndAbove
	case BlockNone:
		return genai.HarmBlockNone
	default:
		return genai.HarmBlockUnspecified
	}
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

func geminiError(err error) error {
	msg := err.Error()
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		msg = gerr.Message
	}
	return apperr.Wrap(apperr.Upstream, "Gemini API Error: "+msg, err)
}
