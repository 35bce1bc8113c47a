package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.HTTPPort)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, DefaultModel, cfg.LLMModel)
	assert.Equal(t, 0.1, cfg.ChatTemperature)
	assert.Equal(t, 0.7, cfg.TitleTemperature)
	assert.Equal(t, 5*time.Minute, cfg.ChatLockTTL)
	assert.Equal(t, []string{"https://digitalmufti.vercel.app", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.DatabaseEnabled())
	assert.False(t, cfg.LLMEnabled())
}

func TestParse_GeminiKeyFallback(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", " g-key ")
	t.Setenv("DATABASE_URL", "postgres://localhost/mufti")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "g-key", cfg.LLMAPIKey)
	assert.True(t, cfg.LLMEnabled())
	assert.True(t, cfg.DatabaseEnabled())
}

func TestParse_ExplicitKeyWins(t *testing.T) {
	t.Setenv("LLM_API_KEY", "primary")
	t.Setenv("GEMINI_API_KEY", "secondary")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.LLMAPIKey)
}

func TestParse_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "cohere")

	_, err := Parse()
	assert.Error(t, err)
}

func TestParse_DefaultModelPerProvider(t *testing.T) {
	t.Setenv("LLM_MODEL", "")

	t.Setenv("LLM_PROVIDER", "openai")
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, cfg.LLMModel)

	t.Setenv("LLM_PROVIDER", "gemini")
	cfg, err = Parse()
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, cfg.LLMModel)

	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_MODEL", " llama-3.1-8b ")
	cfg, err = Parse()
	require.NoError(t, err)
	assert.Equal(t, "llama-3.1-8b", cfg.LLMModel)
}
