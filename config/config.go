// Package config loads the application configuration from a JSON file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"yt2tutorial/apperr"
)

const (
	DefaultPath       = "config/config.json"
	defaultAddr       = ":8080"
	defaultProvider   = "gemini"
	defaultModel      = "gemini-1.5-pro"
	defaultMinChars   = 100
	defaultTimeoutSec = 180
)

// Config holds credentials and tuning knobs.
type Config struct {
	YouTubeAPIKey       string     `json:"youtube_api_key"`
	LLM                 *LLMConfig `json:"llm,omitempty"`
	ServerAddr          string     `json:"server_addr,omitempty"`
	RedisURL            string     `json:"redis_url,omitempty"`
	MinSectionChars     *int       `json:"min_section_chars,omitempty"`
	CallTimeoutSeconds  int        `json:"call_timeout_seconds,omitempty"`
	TranscriptLanguages []string   `json:"transcript_languages,omitempty"`
}

// LLMConfig selects the model provider.
type LLMConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}

// Load reads path (a missing file is fine), applies environment overrides and defaults, and
// validates the result.
func Load(path string) (Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadFile decodes the JSON config at path. A missing file yields an empty Config.
func ReadFile(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, apperr.Wrap(apperr.Configuration, "read config: "+err.Error(), err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, apperr.Wrap(apperr.Configuration, "parse config "+path+": "+err.Error(), err)
	}
	return cfg, nil
}

// ApplyEnv overrides file values with non-empty environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	if v := get("YOUTUBE_API_KEY"); v != "" {
		c.YouTubeAPIKey = v
	}
	if v := get("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := get("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := get("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := get("GEMINI_API_KEY", "LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := get("SERVER_ADDR"); v != "" {
		c.ServerAddr = v
	}
	if v := get("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
}

func (c *Config) SetDefaults() {
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultProvider
	}
	if c.LLM.Model == "" && c.LLM.Provider == defaultProvider {
		c.LLM.Model = defaultModel
	}
	if c.ServerAddr == "" {
		c.ServerAddr = defaultAddr
	}
	if c.MinSectionChars == nil || *c.MinSectionChars < 0 {
		n := defaultMinChars
		c.MinSectionChars = &n
	}
	if c.CallTimeoutSeconds <= 0 {
		c.CallTimeoutSeconds = defaultTimeoutSec
	}
	if len(c.TranscriptLanguages) == 0 {
		c.TranscriptLanguages = []string{"en"}
	}
}

// Validate reports missing credentials as configuration errors.
func (c Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return apperr.New(apperr.Configuration, "YouTube API key is not configured")
	}
	if c.LLM == nil || c.LLM.Provider == "" {
		return apperr.New(apperr.Configuration, "llm provider is not configured")
	}
	switch c.LLM.Provider {
	case "mock":
		return nil
	case "gemini":
		if c.LLM.APIKey == "" {
			return apperr.New(apperr.Configuration, "Gemini API key is not configured")
		}
	case "openai", "deepseek":
		if c.LLM.APIKey == "" {
			return apperr.Newf(apperr.Configuration, "%s API key is not configured", c.LLM.Provider)
		}
		if c.LLM.Model == "" {
			return apperr.New(apperr.Configuration, "llm model is required")
		}
		if c.LLM.Provider == "deepseek" && c.LLM.BaseURL == "" {
			return apperr.New(apperr.Configuration, "llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
	default:
		return apperr.Newf(apperr.Configuration, "llm provider %s not supported", c.LLM.Provider)
	}
	return nil
}

// SectionThreshold is the length an optional section must exceed to be kept. An explicit 0
// keeps every non-empty section.
func (c Config) SectionThreshold() int {
	if c.MinSectionChars == nil || *c.MinSectionChars < 0 {
		return defaultMinChars
	}
	return *c.MinSectionChars
}

// CallTimeout is the per-model-call deadline.
func (c Config) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}
