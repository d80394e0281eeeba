package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// DefaultSecretsFile is the local secrets overlay next to the repo root.
const DefaultSecretsFile = ".env.secrets"

// knownKeys documents the most commonly configured variables so that
// `env list` shows them even when unset.
var knownKeys = []string{
	"REPORT_API_URL",
	"REPORT_API_KEY",
	"REPORT_API_MODEL",
	"REPORT_SYSTEM_PROMPT",
}

// Secrets is a JSON key/value file layered over the process environment.
// Lookup priority: secrets file, then environment, then the default.
type Secrets struct {
	path   string
	values map[string]string
}

// LoadSecrets reads the secrets file at path. A missing file yields an
// empty overlay; a malformed file is an error.
func LoadSecrets(path string) (*Secrets, error) {
	s := &Secrets{path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading secrets file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parsing secrets file %s: %w", path, err)
	}
	return s, nil
}

// Get returns the value for key, preferring the secrets file over the
// environment. Empty values fall through to the default.
func (s *Secrets) Get(key, def string) string {
	if v, ok := s.values[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// Set stores key=value and rewrites the secrets file.
func (s *Secrets) Set(key, value string) error {
	s.values[key] = value
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding secrets: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing secrets file %s: %w", s.path, err)
	}
	return nil
}

// Merged returns every relevant variable: REPORT_* environment values,
// overlaid with the secrets file, with known keys present even if empty.
// Keys are sorted for stable output.
func (s *Secrets) Merged() []string {
	merged := map[string]string{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if strings.HasPrefix(k, "REPORT_") || isKnownKey(k) {
			merged[k] = v
		}
	}
	for k, v := range s.values {
		merged[k] = v
	}
	for _, k := range knownKeys {
		if _, ok := merged[k]; !ok {
			merged[k] = ""
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+merged[k])
	}
	return out
}

func isKnownKey(k string) bool {
	for _, kk := range knownKeys {
		if k == kk {
			return true
		}
	}
	return false
}
