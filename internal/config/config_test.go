package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/atelier/internal/llm"
)

// isolate clears the variables Load reads so the host environment does not
// leak into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix+"_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 4096, cfg.Analysis.MaxTokens)
	assert.Equal(t, 60*time.Second, cfg.Analysis.Timeout)
	assert.False(t, cfg.Analysis.AllowFallback)
	assert.Equal(t, 40, cfg.Report.WrapWidth)
	assert.Equal(t, "reports", filepath.Base(cfg.Report.OutputDir))
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.ErrorIs(t, cfg.LLMReady(), llm.ErrNotConfigured)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	isolate(t)
	path := writeFile(t, "atelier.yaml", `
llm:
  provider: anthropic
  anthropic:
    api_key: file-key
analysis:
  allow_fallback: true
  temperature: 0.3
server:
  port: 9000
report:
  wrap_width: 50
  output_dir: /tmp/atelier-reports
redis:
  enabled: true
  address: redis:6379
  ttl: 30m
`)
	t.Setenv("ATELIER_SERVER_PORT", "9100")
	t.Setenv("ATELIER_ANALYSIS_TIMEOUT", "90s")

	cfg, err := Load(Options{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "file-key", cfg.LLM.Anthropic.APIKey)
	assert.True(t, cfg.Analysis.AllowFallback)
	assert.InDelta(t, 0.3, cfg.Analysis.Temperature, 1e-9)
	assert.Equal(t, 90*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Report.WrapWidth)
	assert.Equal(t, "/tmp/atelier-reports", cfg.Report.OutputDir)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 30*time.Minute, cfg.Redis.TTL)
	assert.NoError(t, cfg.LLMReady())
}

func TestLoadDiscoversProvider(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.NoError(t, cfg.LLMReady())
}

func TestLoadKeepsExplicitProvider(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ATELIER_LLM_PROVIDER", "anthropic")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.ErrorIs(t, cfg.LLMReady(), llm.ErrNotConfigured)
}

func TestLoadEnvFile(t *testing.T) {
	isolate(t)
	t.Cleanup(func() { os.Unsetenv("ATELIER_TELEGRAM_CHAT_ID") })
	path := writeFile(t, ".env", "ATELIER_TELEGRAM_CHAT_ID=4242\n")

	cfg, err := Load(Options{EnvFile: path})
	require.NoError(t, err)
	assert.EqualValues(t, 4242, cfg.Telegram.ChatID)

	_, err = Load(Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	assert.Error(t, err)
}

func TestLoadMissingConfigFile(t *testing.T) {
	isolate(t)
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)
	base, err := Load(Options{})
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "llama" }, "unknown provider"},
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"email sender", func(c *Config) { c.Email.Enabled = true; c.Email.From = "" }, "email.from"},
		{"telegram token", func(c *Config) { c.Telegram.Enabled = true }, "telegram.token"},
		{"redis address", func(c *Config) { c.Redis.Enabled = true; c.Redis.Address = "" }, "redis.address"},
		{"temperature", func(c *Config) { c.Analysis.Temperature = 3 }, "temperature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, base.Validate())
}
