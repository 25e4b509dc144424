package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Scores   ScoresConfig   `mapstructure:"scores"`
	Odds     OddsConfig     `mapstructure:"odds"`
	Fade     FadeConfig     `mapstructure:"fade"`
	Server   ServerConfig   `mapstructure:"server"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ScoresConfig holds the schedule/score feed configuration.
type ScoresConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	SportPath    string        `mapstructure:"sport_path"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// OddsConfig holds the odds feed configuration. The odds provider is a
// metered API, so it polls on a much wider interval than the score feed
// and every request is gated by the rate limiter.
type OddsConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	SportKey      string        `mapstructure:"sport_key"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	BucketSize    int           `mapstructure:"bucket_size"`
	RefillEvery   time.Duration `mapstructure:"refill_every"`
	Enabled       bool          `mapstructure:"enabled"`
}

// PeriodFormat describes one league timing format: full regulation length
// and the length of the period unit the clock is tracked against. The
// first-half offset is regulation minus period, never inferred from
// upstream period numbering.
type PeriodFormat struct {
	RegulationMinutes float64 `mapstructure:"regulation_minutes"`
	PeriodMinutes     float64 `mapstructure:"period_minutes"`
}

// FirstHalfOffset is the fixed remaining-regulation offset added to a
// first-half clock to get full-game minutes remaining.
func (f PeriodFormat) FirstHalfOffset() float64 {
	return f.RegulationMinutes - f.PeriodMinutes
}

// FadeConfig holds the pace-model knobs.
type FadeConfig struct {
	Threshold float64                 `mapstructure:"threshold"`
	Format    string                  `mapstructure:"format"`
	Formats   map[string]PeriodFormat `mapstructure:"formats"`
}

// ActiveFormat returns the selected period format.
func (c FadeConfig) ActiveFormat() PeriodFormat {
	return c.Formats[c.Format]
}

// ServerConfig holds the REST server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// TelegramConfig holds the optional signal-flip alerting configuration.
type TelegramConfig struct {
	BotToken string        `mapstructure:"bot_token"`
	ChatID   int64         `mapstructure:"chat_id"`
	Enabled  bool          `mapstructure:"enabled"`
	Cooldown time.Duration `mapstructure:"cooldown"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from an optional file plus environment
// variables, applying defaults for everything unset.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("COURTSIDE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scores.base_url", "https://site.api.espn.com/apis/site/v2/sports")
	v.SetDefault("scores.sport_path", "basketball/mens-college-basketball")
	v.SetDefault("scores.poll_interval", "30s")
	v.SetDefault("scores.timeout", "15s")

	v.SetDefault("odds.base_url", "https://api.the-odds-api.com")
	v.SetDefault("odds.sport_key", "basketball_ncaab")
	v.SetDefault("odds.poll_interval", "5m")
	v.SetDefault("odds.timeout", "15s")
	v.SetDefault("odds.bucket_size", 5)
	v.SetDefault("odds.refill_every", "1m")
	v.SetDefault("odds.enabled", true)

	v.SetDefault("fade.threshold", 4.0)
	v.SetDefault("fade.format", "college")
	v.SetDefault("fade.formats", map[string]interface{}{
		"college": map[string]interface{}{
			"regulation_minutes": 40.0,
			"period_minutes":     20.0,
		},
		"nba": map[string]interface{}{
			"regulation_minutes": 48.0,
			"period_minutes":     24.0,
		},
	})

	v.SetDefault("server.port", "8080")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.cooldown", "10m")

	v.SetDefault("logging.level", "info")
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.Scores.BaseURL == "" {
		return fmt.Errorf("scores.base_url is required")
	}
	if c.Scores.SportPath == "" {
		return fmt.Errorf("scores.sport_path is required")
	}
	if c.Scores.PollInterval < 10*time.Second {
		return fmt.Errorf("scores.poll_interval must be at least 10 seconds")
	}

	if c.Odds.Enabled {
		if c.Odds.APIKey == "" {
			return fmt.Errorf("odds.api_key is required when odds polling is enabled")
		}
		if c.Odds.PollInterval < 1*time.Minute {
			return fmt.Errorf("odds.poll_interval must be at least 1 minute")
		}
		if c.Odds.BucketSize < 1 {
			return fmt.Errorf("odds.bucket_size must be at least 1")
		}
		if c.Odds.RefillEvery < 1*time.Second {
			return fmt.Errorf("odds.refill_every must be at least 1 second")
		}
	}

	if c.Fade.Threshold < 2.5 || c.Fade.Threshold > 6.0 {
		return fmt.Errorf("fade.threshold must be between 2.5 and 6.0 points per minute")
	}
	format, ok := c.Fade.Formats[c.Fade.Format]
	if !ok {
		return fmt.Errorf("fade.format %q has no entry in fade.formats", c.Fade.Format)
	}
	if format.PeriodMinutes <= 0 || format.RegulationMinutes < format.PeriodMinutes {
		return fmt.Errorf("fade.formats.%s must have 0 < period_minutes <= regulation_minutes", c.Fade.Format)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	return nil
}
