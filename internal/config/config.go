// Package config provides configuration loading, defaults, and validation
// for the minglebot application. Configuration is read from a YAML file and
// BOT_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters for all components
// of the system: logging, Telegram transport, the Gemini completion client,
// storage, the request gate, and scheduled maintenance.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and, at runtime, the bot's own identity.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`

	// BotInfo is populated at startup via GetMe, not from the config file.
	BotInfo *models.User `mapstructure:"-" validate:"-"`
}

// GeminiConfig holds settings for the Gemini completion client.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key"             validate:"required"`
	ModelName         string  `mapstructure:"model_name"          validate:"required"`
	Temperature       float32 `mapstructure:"temperature"         validate:"min=0,max=2"`
	SystemInstruction string  `mapstructure:"system_instruction"`
	MaxRetries        int     `mapstructure:"max_retries"         validate:"min=0,max=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"min=0,max=300"`
}

// DatabaseConfig holds the SQLite path and audit-log retention.
type DatabaseConfig struct {
	Path             string `mapstructure:"path"               validate:"required"`
	LogRetentionDays int    `mapstructure:"log_retention_days" validate:"min=1"`
}

// RateLimitConfig controls the request gate: at most Limit invocations per
// user within the trailing window. FailOpen decides what happens when the
// audit store itself is unreachable at check time.
type RateLimitConfig struct {
	Limit         int  `mapstructure:"limit"          validate:"required,min=1"`
	WindowSeconds int  `mapstructure:"window_seconds" validate:"required,min=1"`
	FailOpen      bool `mapstructure:"fail_open"`
}

// Window returns the sliding window as a duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// TaskConfig describes one scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds every user-facing reply text so deployments can
// reword the bot without a rebuild.
type MessagesConfig struct {
	Welcome         string `mapstructure:"welcome"          validate:"required"`
	Help            string `mapstructure:"help"             validate:"required"`
	RateLimited     string `mapstructure:"rate_limited"     validate:"required"`
	GeneralError    string `mapstructure:"general_error"    validate:"required"`
	RegisterFirst   string `mapstructure:"register_first"   validate:"required"`
	RegisterUsage   string `mapstructure:"register_usage"   validate:"required"`
	ProvideInterest string `mapstructure:"provide_interest" validate:"required"`
	AddUsage        string `mapstructure:"add_usage"        validate:"required"`
	ProvideMessage  string `mapstructure:"provide_message"  validate:"required"`
	NoEvents        string `mapstructure:"no_events"        validate:"required"`
	NoMoreEvents    string `mapstructure:"no_more_events"   validate:"required"`
	NoMatches       string `mapstructure:"no_matches"       validate:"required"`
}

// LoadConfig loads and validates configuration from:
//  1. Default values
//  2. The YAML file at configPath (missing file is not an error)
//  3. BOT_* environment variables (e.g. BOT_TELEGRAM_TOKEN)
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
		// Missing config file is fine, defaults plus env vars apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
