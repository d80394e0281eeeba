package cmd

import (
	"fmt"
	"os"

	"github.com/gordyrad/notereport/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg    *config.Config
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "notereport",
	Short: "Structured report generator for rough notes",
	Long: `A CLI tool that turns unstructured scratch notes into structured Markdown
daily reports via a configurable chat-completion API, stores them idempotently
under content/daily/, and produces weekly summaries on a schedule.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default: ./config.yaml)")
	pf.String("daily-dir", "content/daily", "Daily report output directory")
	pf.String("weekly-dir", "content/weekly", "Weekly summary output directory")
	pf.String("scratch-dir", "scratch", "Scratch notes directory")
	pf.String("db-path", "", "Run-history SQLite database path (empty disables)")
	pf.Int("workers", 4, "Number of concurrent workers for batch generation")
	pf.Bool("verbose", false, "Verbose logging")

	pf.String("provider", "generic", "Completion provider: generic, openai, anthropic")
	pf.String("api-url", "", "Completion API endpoint URL (generic provider)")
	pf.String("api-key", "", "Completion API key")
	pf.String("api-model", "", "Model id (omitted from the payload when empty)")
	pf.String("auth-header", "Authorization", "Auth header name")
	pf.String("auth-scheme", "Bearer", "Auth scheme prefix (empty sends the raw key)")
	pf.Int("timeout", 120, "API timeout in seconds")
	pf.String("system-prompt", "", "Daily system prompt override")
	pf.String("response-paths", "", "Comma-separated dotted paths tried against the response")
	pf.String("response-path", "", "Single dotted response path (legacy form)")
	pf.String("strip-think", "true", "Strip reasoning blocks from output (true/1/yes/on)")
	pf.String("extra-headers", "", "Extra request headers as a JSON object")
	pf.String("request-template", "", "Request payload template as JSON")

	pf.String("weekly-day", "mon", "Weekly schedule day (mon..sun or 1-7)")
	pf.Int("weekly-hour", 9, "Weekly schedule hour (UTC, 0-23)")
	pf.String("weekly-include-today", "false", "Include today in the weekly window (true/1/yes/on)")
	pf.String("weekly-enforce-schedule", "false", "Only run weekly aggregation on schedule (true/1/yes/on)")
	pf.String("weekly-system-prompt", "", "Weekly system prompt override")

	flags := []string{
		"config",
		"daily-dir", "weekly-dir", "scratch-dir", "db-path", "workers", "verbose",
		"provider", "api-url", "api-key", "api-model", "auth-header", "auth-scheme",
		"timeout", "system-prompt", "response-paths", "response-path", "strip-think",
		"extra-headers", "request-template",
		"weekly-day", "weekly-hour", "weekly-include-today",
		"weekly-enforce-schedule", "weekly-system-prompt",
	}
	for _, f := range flags {
		_ = viper.BindPFlag(f, pf.Lookup(f))
	}
}

func initConfig() {
	cfg = config.DefaultConfig()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()

	envMappings := map[string]string{
		"REPORT_DAILY_DIR":                 "daily-dir",
		"REPORT_WEEKLY_DIR":                "weekly-dir",
		"REPORT_SCRATCH_DIR":               "scratch-dir",
		"REPORT_DB_PATH":                   "db-path",
		"REPORT_WORKERS":                   "workers",
		"REPORT_VERBOSE":                   "verbose",
		"REPORT_PROVIDER":                  "provider",
		"REPORT_API_URL":                   "api-url",
		"REPORT_API_KEY":                   "api-key",
		"REPORT_API_MODEL":                 "api-model",
		"REPORT_API_AUTH_HEADER":           "auth-header",
		"REPORT_API_AUTH_SCHEME":           "auth-scheme",
		"REPORT_API_TIMEOUT":               "timeout",
		"REPORT_SYSTEM_PROMPT":             "system-prompt",
		"REPORT_API_RESPONSE_PATHS":        "response-paths",
		"REPORT_API_RESPONSE_PATH":         "response-path",
		"REPORT_STRIP_THINK":               "strip-think",
		"REPORT_API_EXTRA_HEADERS_JSON":    "extra-headers",
		"REPORT_API_REQUEST_TEMPLATE_JSON": "request-template",
		"REPORT_WEEKLY_DAY":                "weekly-day",
		"REPORT_WEEKLY_HOUR_UTC":           "weekly-hour",
		"REPORT_WEEKLY_INCLUDE_TODAY":      "weekly-include-today",
		"REPORT_WEEKLY_ENFORCE_SCHEDULE":   "weekly-enforce-schedule",
		"REPORT_WEEKLY_SYSTEM_PROMPT":      "weekly-system-prompt",
	}
	for env, key := range envMappings {
		_ = viper.BindEnv(key, env)
	}

	_ = viper.ReadInConfig()

	// Apply viper values to config.
	if v := viper.GetString("daily-dir"); v != "" {
		cfg.DailyDir = v
	}
	if v := viper.GetString("weekly-dir"); v != "" {
		cfg.WeeklyDir = v
	}
	if v := viper.GetString("scratch-dir"); v != "" {
		cfg.ScratchDir = v
	}
	cfg.DBPath = viper.GetString("db-path")
	if v := viper.GetInt("workers"); v > 0 {
		cfg.Workers = v
	}
	cfg.Verbose = viper.GetBool("verbose")

	if v := viper.GetString("provider"); v != "" {
		cfg.API.Provider = v
	}
	cfg.API.URL = viper.GetString("api-url")
	cfg.API.Key = viper.GetString("api-key")
	cfg.API.Model = viper.GetString("api-model")
	if v := viper.GetString("auth-header"); v != "" {
		cfg.API.AuthHeader = v
	}
	cfg.API.AuthScheme = viper.GetString("auth-scheme")
	if v := viper.GetInt("timeout"); v > 0 {
		cfg.API.TimeoutSeconds = v
	}
	cfg.API.SystemPrompt = viper.GetString("system-prompt")
	cfg.API.StripThink = config.ParseBool(viper.GetString("strip-think"))
	cfg.API.RequestTemplate = viper.GetString("request-template")

	cfg.Weekly.Day = viper.GetString("weekly-day")
	cfg.Weekly.HourUTC = viper.GetInt("weekly-hour")
	cfg.Weekly.IncludeToday = config.ParseBool(viper.GetString("weekly-include-today"))
	cfg.Weekly.EnforceSchedule = config.ParseBool(viper.GetString("weekly-enforce-schedule"))
	cfg.Weekly.SystemPrompt = viper.GetString("weekly-system-prompt")

	// Ordered response paths: the multi-path form wins; the legacy
	// single path is used when it is the only one configured.
	pathsCSV := viper.GetString("response-paths")
	if pathsCSV == "" {
		pathsCSV = viper.GetString("response-path")
	}
	cfg.API.ResponsePaths = config.ParseResponsePaths(pathsCSV)

	headers, err := config.ParseHeaderJSON(viper.GetString("extra-headers"))
	if err != nil {
		cfgErr = err
		return
	}
	cfg.API.ExtraHeaders = headers

	// Local secrets overlay: values in .env.secrets win over environment.
	sec, err := config.LoadSecrets(config.DefaultSecretsFile)
	if err != nil {
		cfgErr = err
		return
	}
	cfg.API.URL = sec.Get("REPORT_API_URL", cfg.API.URL)
	cfg.API.Key = sec.Get("REPORT_API_KEY", cfg.API.Key)
	cfg.API.Model = sec.Get("REPORT_API_MODEL", cfg.API.Model)
	cfg.API.SystemPrompt = sec.Get("REPORT_SYSTEM_PROMPT", cfg.API.SystemPrompt)
	cfg.Weekly.SystemPrompt = sec.Get("REPORT_WEEKLY_SYSTEM_PROMPT", cfg.Weekly.SystemPrompt)

	// Provider-specific key fallbacks.
	if cfg.API.Key == "" {
		switch cfg.API.Provider {
		case config.ProviderOpenAI:
			cfg.API.Key = sec.Get("OPENAI_API_KEY", "")
		case config.ProviderAnthropic:
			cfg.API.Key = sec.Get("ANTHROPIC_API_KEY", "")
		}
	}
}

// checkConfig validates the resolved configuration; commands call it
// before doing any work. A failure exits with code 3.
func checkConfig() {
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", cfgErr)
		os.Exit(3)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(3)
	}
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
