// Package config loads atelier settings from a YAML file, a .env file and
// ATELIER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/llm"
	"github.com/abhisek/atelier/internal/logger"
	"github.com/abhisek/atelier/internal/notify"
	"github.com/abhisek/atelier/internal/report"
	"github.com/abhisek/atelier/internal/wizard"
)

type Config struct {
	LLM      llm.Config            `mapstructure:"llm"`
	Analysis AnalysisConfig        `mapstructure:"analysis"`
	Report   report.Config         `mapstructure:"report"`
	Store    StoreConfig           `mapstructure:"store"`
	Server   ServerConfig          `mapstructure:"server"`
	Redis    RedisConfig           `mapstructure:"redis"`
	Email    notify.EmailConfig    `mapstructure:"email"`
	Telegram notify.TelegramConfig `mapstructure:"telegram"`
	Logging  logger.Config         `mapstructure:"logging"`
}

type AnalysisConfig struct {
	analysis.Config `mapstructure:",squash"`

	// AllowFallback replaces a failed analysis with a sample one.
	AllowFallback bool `mapstructure:"allow_fallback"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"` // Default: ATELIER_DB or the XDG data dir
}

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type RedisConfig struct {
	Enabled            bool `mapstructure:"enabled"`
	wizard.RedisConfig `mapstructure:",squash"`
}

// Validate checks settings that would make a command fail later. A missing
// LLM key is not an error here; see LLMReady.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLM.Provider {
	case "gemini", "anthropic", "openai", "openrouter", "mock":
	default:
		errs = append(errs, fmt.Errorf("llm.provider: unknown provider %q", c.LLM.Provider))
	}
	if c.LLM.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("llm.retry.max_attempts must be at least 1"))
	}
	if c.Analysis.Temperature < 0 || c.Analysis.Temperature > 2 {
		errs = append(errs, fmt.Errorf("analysis.temperature must be between 0 and 2"))
	}
	if c.Report.WrapWidth < 0 {
		errs = append(errs, fmt.Errorf("report.wrap_width must not be negative"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes must be positive"))
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		errs = append(errs, fmt.Errorf("redis.address is required when redis is enabled"))
	}
	if c.Email.Enabled {
		if _, err := mail.ParseAddress(c.Email.From); err != nil {
			errs = append(errs, fmt.Errorf("email.from: %w", err))
		}
		if c.Email.Region == "" {
			errs = append(errs, fmt.Errorf("email.region is required when email is enabled"))
		}
	}
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		errs = append(errs, fmt.Errorf("telegram.token is required when telegram is enabled"))
	}

	return errors.Join(errs...)
}

// LLMReady reports why the configured provider cannot be built, or nil.
func (c *Config) LLMReady() error {
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("%w: %v", llm.ErrNotConfigured, err)
	}
	return nil
}
