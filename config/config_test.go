package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt2tutorial/apperr"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	path := writeConfig(t, `{
		"youtube_api_key": "yt",
		"llm": {"provider": "openai", "model": "gpt-4o", "api_key": "sk"},
		"server_addr": ":9000",
		"min_section_chars": 50,
		"transcript_languages": ["de", "en"]
	}`)
	cfg, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "yt", cfg.YouTubeAPIKey)
	assert.Equal(t, &LLMConfig{Provider: "openai", Model: "gpt-4o", APIKey: "sk"}, cfg.LLM)
	assert.Equal(t, ":9000", cfg.ServerAddr)
	assert.Equal(t, 50, cfg.SectionThreshold())
	assert.Equal(t, []string{"de", "en"}, cfg.TranscriptLanguages)
	require.NoError(t, cfg.Validate())
}

func TestReadFileMissingIsEmpty(t *testing.T) {
	cfg, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestReadFileInvalidJSON(t *testing.T) {
	_, err := ReadFile(writeConfig(t, `{"youtube_api_key": `))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Configuration))
}

func TestApplyEnvOverridesFile(t *testing.T) {
	cfg := Config{YouTubeAPIKey: "file-key", LLM: &LLMConfig{Provider: "gemini", APIKey: "file-llm"}}
	cfg.ApplyEnv(envMap(map[string]string{
		"YOUTUBE_API_KEY": "env-key",
		"GEMINI_API_KEY":  "  ",
		"LLM_API_KEY":     "env-llm",
		"REDIS_URL":       "redis://localhost:6379/0",
	}))
	assert.Equal(t, "env-key", cfg.YouTubeAPIKey)
	assert.Equal(t, "env-llm", cfg.LLM.APIKey)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-1.5-pro", cfg.LLM.Model)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 100, cfg.SectionThreshold())
	require.NotNil(t, cfg.MinSectionChars)
	assert.Equal(t, 100, *cfg.MinSectionChars)
	assert.Equal(t, 3*time.Minute, cfg.CallTimeout())
	assert.Equal(t, []string{"en"}, cfg.TranscriptLanguages)
}

func TestMinSectionCharsZeroIsKept(t *testing.T) {
	cfg, err := ReadFile(writeConfig(t, `{"min_section_chars": 0}`))
	require.NoError(t, err)
	cfg.SetDefaults()
	assert.Equal(t, 0, cfg.SectionThreshold())

	cfg, err = ReadFile(writeConfig(t, `{"min_section_chars": -5}`))
	require.NoError(t, err)
	cfg.SetDefaults()
	assert.Equal(t, 100, cfg.SectionThreshold())

	assert.Equal(t, 100, Config{}.SectionThreshold())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		msg  string
	}{
		{"missing youtube key", Config{LLM: &LLMConfig{Provider: "gemini", APIKey: "k"}}, "YouTube API key is not configured"},
		{"missing gemini key", Config{YouTubeAPIKey: "yt", LLM: &LLMConfig{Provider: "gemini"}}, "Gemini API key is not configured"},
		{"missing openai model", Config{YouTubeAPIKey: "yt", LLM: &LLMConfig{Provider: "openai", APIKey: "k"}}, "llm model is required"},
		{"deepseek without base url", Config{YouTubeAPIKey: "yt", LLM: &LLMConfig{Provider: "deepseek", APIKey: "k", Model: "deepseek-chat"}}, "llm provider deepseek requires base_url (OpenAI-compatible endpoint)"},
		{"unknown provider", Config{YouTubeAPIKey: "yt", LLM: &LLMConfig{Provider: "claude", APIKey: "k"}}, "llm provider claude not supported"},
		{"no llm", Config{YouTubeAPIKey: "yt"}, "llm provider is not configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.Configuration))
			assert.Equal(t, tt.msg, err.Error())
		})
	}

	mock := Config{YouTubeAPIKey: "yt", LLM: &LLMConfig{Provider: "mock"}}
	assert.NoError(t, mock.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LLM_API_KEY", "")
	path := writeConfig(t, `{"youtube_api_key": "yt", "llm": {"api_key": "g"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "g", cfg.LLM.APIKey)
}
