package generator

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"yt2tutorial/apperr"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// Top-k and safety settings have no chat-completions equivalent and are ignored.
type OpenAILLM struct {
	Model string
	Opts  []option.RequestOption
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, apperr.New(apperr.Configuration, "OpenAI API key is not configured")
	}
	if cfg.Model == "" {
		return nil, apperr.New(apperr.Configuration, "llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAILLM{Model: cfg.Model, Opts: opts}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(o.Opts...)

	var msgs []openai.ChatCompletionMessageParamUnion
	if prompt.System != "" {
		msgs = append(msgs, openai.SystemMessage(prompt.System))
	}
	msgs = append(msgs, openai.UserMessage(prompt.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.Model),
		Messages:    msgs,
		Temperature: openai.Float(float64(prompt.Generation.Temperature)),
	}
	if prompt.Generation.TopP > 0 {
		params.TopP = openai.Float(float64(prompt.Generation.TopP))
	}
	if prompt.Generation.MaxOutputTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(prompt.Generation.MaxOutputTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		msg := err.Error()
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return "", apperr.Wrap(apperr.Upstream, "OpenAI API Error: "+msg, err)
	}
	// 空内容不算错误，由 Agent 的采纳规则决定是否保留。
	if len(resp.Choices) == 0 {
		return "", apperr.New(apperr.Upstream, "OpenAI API Error: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
