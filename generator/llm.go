package generator

import "context"

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// GenerationConfig 控制采样参数；TopK、TopP、MaxOutputTokens 为 0 时沿用服务端默认值。
type GenerationConfig struct {
	Temperature     float32
	TopK            int32
	TopP            float32
	MaxOutputTokens int32
}

type HarmCategory string

const (
	HarmHateSpeech       HarmCategory = "hate_speech"
	HarmDangerousContent HarmCategory = "dangerous_content"
)

type BlockThreshold string

const (
	BlockOnlyHigh       BlockThreshold = "only_high"
	BlockMediumAndAbove BlockThreshold = "medium_and_above"
	BlockLowAndAbove    BlockThreshold = "low_and_above"
	BlockNone           BlockThreshold = "none"
)

// SafetySetting 指定某类有害内容的拦截强度。
type SafetySetting struct {
	Category  HarmCategory
	Threshold BlockThreshold
}

var (
	sectionGeneration = GenerationConfig{
		Temperature:     0,
		TopK:            40,
		TopP:            0.8,
		MaxOutputTokens: 4096,
	}
	fallbackGeneration = GenerationConfig{Temperature: 0}
)

// permissiveSafety 只拦截最严重的仇恨/危险内容。
func permissiveSafety() []SafetySetting {
	return []SafetySetting{
		{Category: HarmHateSpeech, Threshold: BlockOnlyHigh},
		{Category: HarmDangerousContent, Threshold: BlockOnlyHigh},
	}
}
