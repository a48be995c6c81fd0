package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	Discord DiscordConfig `mapstructure:"discord"`
	Locale  LocaleConfig  `mapstructure:"locale"`
	Report  ReportConfig  `mapstructure:"report"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// DiscordConfig defines the bot credential and channel wiring
type DiscordConfig struct {
	Token          string `mapstructure:"token"`
	PanelChannelID string `mapstructure:"panel_channel_id"`
	LogChannelID   string `mapstructure:"log_channel_id"`
}

// LocaleConfig defines the fixed display timezone
type LocaleConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// ReportConfig defines the aggregation window and report sizing
type ReportConfig struct {
	Window     string `mapstructure:"window"`      // trailing scan window, e.g. "168h"
	MaxEntries int    `mapstructure:"max_entries"` // ranked rows in the all-users report
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig defines the metrics endpoint
type MetricsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	BindAddress string `mapstructure:"bind_address"`
	Port        int    `mapstructure:"port"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("DUTYWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and environment variables
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Window returns the parsed trailing aggregation window. validate guarantees
// the string parses, so the error is discarded here.
func (c *Config) Window() time.Duration {
	d, _ := time.ParseDuration(c.Report.Window)
	return d
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Locale defaults
	v.SetDefault("locale.timezone", "Asia/Jakarta")

	// Report defaults
	v.SetDefault("report.window", "168h")
	v.SetDefault("report.max_entries", 24)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.bind_address", "0.0.0.0")
	v.SetDefault("metrics.port", 9090)
}

// validate validates the configuration
func validate(cfg *Config) error {
	// The credential and both channels are required; the bot cannot start
	// without any of them
	if cfg.Discord.Token == "" {
		return fmt.Errorf("discord.token is required")
	}
	if cfg.Discord.PanelChannelID == "" {
		return fmt.Errorf("discord.panel_channel_id is required")
	}
	if cfg.Discord.LogChannelID == "" {
		return fmt.Errorf("discord.log_channel_id is required")
	}

	if cfg.Locale.Timezone == "" {
		return fmt.Errorf("locale.timezone is required")
	}

	window, err := time.ParseDuration(cfg.Report.Window)
	if err != nil {
		return fmt.Errorf("invalid report.window: %w", err)
	}
	if window <= 0 {
		return fmt.Errorf("report.window must be positive: %s", cfg.Report.Window)
	}

	// A Discord embed holds at most 25 fields and one is reserved for the
	// report period
	if cfg.Report.MaxEntries < 1 || cfg.Report.MaxEntries > 24 {
		return fmt.Errorf("report.max_entries must be between 1 and 24: %d", cfg.Report.MaxEntries)
	}

	if cfg.Metrics.Enabled && (cfg.Metrics.Port <= 0 || cfg.Metrics.Port > 65535) {
		return fmt.Errorf("invalid metrics port: %d", cfg.Metrics.Port)
	}

	return nil
}
