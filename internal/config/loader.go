package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/llm"
	"github.com/abhisek/atelier/internal/report"
	"github.com/abhisek/atelier/internal/store"
	"github.com/abhisek/atelier/internal/wizard"
)

// EnvPrefix prefixes every environment override, e.g. ATELIER_LLM_PROVIDER.
const EnvPrefix = "ATELIER"

// Options select where Load reads from.
type Options struct {
	// ConfigFile is an explicit YAML path. When empty, atelier.yaml is
	// looked up in the working directory and the data directory.
	ConfigFile string

	// EnvFile is loaded into the process environment first. Default: .env.
	EnvFile string
}

// Load reads, merges and validates the configuration.
func Load(opts Options) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("atelier")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := store.DataDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Vendor key variables (GEMINI_API_KEY, ...) fill whatever is still empty,
	// and an unusable default provider gives way to one that has a key.
	cfg.LLM.FillKeysFromEnv()
	if cfg.LLM.Validate() != nil && !providerChosen(v) {
		cfg.LLM.Discover()
	}

	if cfg.Report.OutputDir == "" {
		if dir, err := store.DataDir(); err == nil {
			cfg.Report.OutputDir = filepath.Join(dir, "reports")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// providerChosen reports whether the provider came from the config file or
// the environment rather than the default.
func providerChosen(v *viper.Viper) bool {
	if v.InConfig("llm.provider") {
		return true
	}
	_, ok := os.LookupEnv(EnvPrefix + "_LLM_PROVIDER")
	return ok
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

func setDefaults(v *viper.Viper) {
	l := llm.DefaultConfig()
	v.SetDefault("llm.provider", l.Provider)
	v.SetDefault("llm.timeout", l.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)

	a := analysis.DefaultConfig()
	v.SetDefault("analysis.max_tokens", a.MaxTokens)
	v.SetDefault("analysis.temperature", a.Temperature)
	v.SetDefault("analysis.timeout", a.Timeout)
	v.SetDefault("analysis.allow_fallback", false)

	v.SetDefault("report.font_path", "")
	v.SetDefault("report.wrap_width", report.DefaultWrapWidth)
	v.SetDefault("report.output_dir", "")

	v.SetDefault("store.path", "")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.session_ttl", wizard.DefaultTTL)
	v.SetDefault("server.max_upload_bytes", int64(6*analysis.MaxImageBytes+1<<20))

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "atelier:session:")
	v.SetDefault("redis.ttl", wizard.DefaultTTL)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from", "")
	v.SetDefault("email.configuration_set", "")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.api_endpoint", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "")
}
