package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("APP_URL", "https://app.example.com")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "gpt-4-turbo-preview", cfg.OpenAI.Model)
	assert.Equal(t, "whisper-1", cfg.OpenAI.TranscribeModel)
	assert.Equal(t, 180, cfg.OpenAI.TimeoutSeconds)
	assert.Equal(t, 0, cfg.OpenAI.MaxRetries)
	assert.Equal(t, "openai", cfg.Transcription.Provider)
	assert.Equal(t, "realtime", cfg.Redis.Channel)
	assert.False(t, cfg.Redis.Enabled())
	assert.NotEmpty(t, cfg.CORSOrigins)
}

func TestLoadConfigPublicEnvAliases(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://public.supabase.co")
	t.Setenv("NEXT_PUBLIC_SUPABASE_ANON_KEY", "public-anon")
	t.Setenv("NEXT_PUBLIC_APP_URL", "https://public.example.com")

	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://public.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "public-anon", cfg.Supabase.AnonKey)
	assert.Equal(t, "https://public.example.com", cfg.AppURL)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	setRequiredEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := `
port: "9090"
chat_rate_limit_qps: 3
openai:
  model: gpt-4o-mini
  timeout_seconds: 30
redis:
  addr: localhost:6379
transcription:
  provider: gcp
  gcp_speech_language: en-GB
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "45")

	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 3, cfg.ChatRateLimitQPS)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 45, cfg.OpenAI.TimeoutSeconds)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "realtime", cfg.Redis.Channel)
	assert.Equal(t, "gcp", cfg.Transcription.Provider)
	assert.Equal(t, "en-GB", cfg.Transcription.GCPSpeechLanguage)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	t.Setenv("NEXT_PUBLIC_SUPABASE_ANON_KEY", "")
	t.Setenv("APP_URL", "")
	t.Setenv("NEXT_PUBLIC_APP_URL", "")

	_, err := LoadConfig(logger.Nop())
	require.Error(t, err)
	for _, name := range []string{"OPENAI_API_KEY", "SUPABASE_URL", "SUPABASE_ANON_KEY", "APP_URL"} {
		assert.True(t, strings.Contains(err.Error(), name), "missing %s in %q", name, err.Error())
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TRANSCRIPTION_PROVIDER", "carrier-pigeon")

	_, err := LoadConfig(logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRANSCRIPTION_PROVIDER")
}

func TestLoadConfigBadFile(t *testing.T) {
	setRequiredEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openai: [unclosed"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := LoadConfig(logger.Nop())
	require.Error(t, err)
}
