package config

import (
	"encoding/json"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Provider names accepted for api.provider.
const (
	ProviderGeneric   = "generic"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all application configuration. It is resolved once at
// startup and passed into every component; core packages never read
// environment state directly.
type Config struct {
	DailyDir   string
	WeeklyDir  string
	ScratchDir string
	DBPath     string // run-history database; empty disables it
	Workers    int
	Verbose    bool

	API    APIConfig
	Weekly WeeklyConfig
}

// APIConfig configures the outbound completion API call.
type APIConfig struct {
	Provider        string
	URL             string
	Key             string
	Model           string
	AuthHeader      string
	AuthScheme      string
	TimeoutSeconds  int
	SystemPrompt    string // empty means the built-in daily prompt
	ResponsePaths   []string
	StripThink      bool
	ExtraHeaders    map[string]string
	RequestTemplate string // raw JSON template; empty means default payload
}

// WeeklyConfig configures the weekly summary schedule and prompt.
type WeeklyConfig struct {
	EnforceSchedule bool
	Day             string
	HourUTC         int
	IncludeToday    bool
	SystemPrompt    string // empty means the built-in weekly prompt
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DailyDir:   "content/daily",
		WeeklyDir:  "content/weekly",
		ScratchDir: "scratch",
		Workers:    4,
		API: APIConfig{
			Provider:       ProviderGeneric,
			AuthHeader:     "Authorization",
			AuthScheme:     "Bearer",
			TimeoutSeconds: 120,
			StripThink:     true,
		},
		Weekly: WeeklyConfig{
			Day:     "mon",
			HourUTC: 9,
		},
	}
}

// Validate checks config for errors. A validation failure is fatal and is
// reported before any API call is attempted.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.DailyDir, validation.Required),
		validation.Field(&c.WeeklyDir, validation.Required),
		validation.Field(&c.Workers, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	if err := c.API.Validate(); err != nil {
		return err
	}
	return c.Weekly.Validate()
}

// Validate checks the API configuration.
func (c *APIConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required,
			validation.In(ProviderGeneric, ProviderOpenAI, ProviderAnthropic)),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.AuthHeader, validation.Required),
	); err != nil {
		return err
	}
	switch c.Provider {
	case ProviderGeneric:
		if c.URL == "" {
			return fmt.Errorf("REPORT_API_URL is required when using the generic provider")
		}
	case ProviderOpenAI, ProviderAnthropic:
		if c.Key == "" {
			return fmt.Errorf("an API key is required when using the %s provider", c.Provider)
		}
	}
	return nil
}

// Validate checks the weekly schedule configuration.
func (c *WeeklyConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Day, validation.Required),
		validation.Field(&c.HourUTC, validation.Min(0), validation.Max(23)),
	)
}

// ParseBool reports whether s is one of the accepted truthy spellings:
// "true", "1", "yes", "on" (case-insensitive). Every other value,
// including the empty string, is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// ParseResponsePaths splits a comma-separated list of dotted paths,
// trimming whitespace and dropping empty entries.
func ParseResponsePaths(csv string) []string {
	var paths []string
	for _, p := range strings.Split(csv, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// ParseHeaderJSON decodes a JSON object of extra header names to values.
// An empty input yields an empty map.
func ParseHeaderJSON(raw string) (map[string]string, error) {
	headers := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return headers, nil
	}
	if err := json.Unmarshal([]byte(raw), &headers); err != nil {
		return nil, fmt.Errorf("invalid REPORT_API_EXTRA_HEADERS_JSON: %w", err)
	}
	return headers, nil
}
