package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/falcon01/dutywatch/internal/config"
)

var (
	validateDump bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the DutyWatch configuration file for syntax and semantic errors.`,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateDump, "dump", false, "Dump the effective configuration")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration validation failed: %v\n", err)
		return err
	}

	// Check for unknown keys
	unknownKeys, err := findUnknownKeys(configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "⚠️  Warning: Could not check for unknown keys: %v\n", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "✅ Configuration is valid: %s\n", configPath)

	// Warn about unknown keys
	if len(unknownKeys) > 0 {
		red := color.New(color.FgRed, color.Bold)
		fmt.Fprintln(os.Stdout)
		red.Fprintf(os.Stdout, "⚠️  WARNING: Found %d unknown configuration key(s):\n", len(unknownKeys))
		for _, key := range unknownKeys {
			red.Fprintf(os.Stdout, "   - %s\n", key)
		}
		fmt.Fprintln(os.Stdout, "\nThese keys will be ignored and may indicate typos or deprecated settings.")
	}

	if validateDump {
		dumpConfig(cfg)
	}

	return nil
}

// findUnknownKeys loads the config file and checks for unknown keys
func findUnknownKeys(configPath string) ([]string, error) {
	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	validKeys := getValidKeys()

	unknown := []string{}
	for _, key := range v.AllKeys() {
		if !validKeys[key] {
			unknown = append(unknown, key)
		}
	}

	return unknown, nil
}

// getValidKeys returns a set of all valid configuration keys
func getValidKeys() map[string]bool {
	return map[string]bool{
		"discord.token":            true,
		"discord.panel_channel_id": true,
		"discord.log_channel_id":   true,
		"locale.timezone":          true,
		"report.window":            true,
		"report.max_entries":       true,
		"logging.level":            true,
		"logging.format":           true,
		"metrics.enabled":          true,
		"metrics.bind_address":     true,
		"metrics.port":             true,
	}
}

// dumpConfig prints the effective configuration with the credential masked.
func dumpConfig(cfg *config.Config) {
	bold := color.New(color.Bold)

	_, _ = fmt.Fprintln(os.Stdout, "\n"+strings.Repeat("=", 60))
	_, _ = bold.Fprintln(os.Stdout, "EFFECTIVE CONFIGURATION")
	_, _ = fmt.Fprintln(os.Stdout, strings.Repeat("=", 60))

	fmt.Fprintf(os.Stdout, "discord.token:            %s\n", maskToken(cfg.Discord.Token))
	fmt.Fprintf(os.Stdout, "discord.panel_channel_id: %s\n", cfg.Discord.PanelChannelID)
	fmt.Fprintf(os.Stdout, "discord.log_channel_id:   %s\n", cfg.Discord.LogChannelID)
	fmt.Fprintf(os.Stdout, "locale.timezone:          %s\n", cfg.Locale.Timezone)
	fmt.Fprintf(os.Stdout, "report.window:            %s\n", cfg.Report.Window)
	fmt.Fprintf(os.Stdout, "report.max_entries:       %d\n", cfg.Report.MaxEntries)
	fmt.Fprintf(os.Stdout, "logging.level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(os.Stdout, "logging.format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(os.Stdout, "metrics.enabled:          %t\n", cfg.Metrics.Enabled)
	fmt.Fprintf(os.Stdout, "metrics.bind_address:     %s\n", cfg.Metrics.BindAddress)
	fmt.Fprintf(os.Stdout, "metrics.port:             %d\n", cfg.Metrics.Port)
}

// maskToken hides all but the last four characters of the bot credential.
func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}
