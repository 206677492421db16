package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Environment variables that override file configuration.
const (
	EnvAPIURL = "PROMPTPERFECT_API_URL"
	EnvStore  = "PROMPTPERFECT_STORE"
)

// Config holds all configurable promptperfect settings.
type Config struct {
	APIURL         string `json:"api_url"`         // empty: local default origin
	RequestTimeout string `json:"request_timeout"` // Go duration, e.g. "30s"
	Store          string `json:"store"`           // "file" | "sqlite"
	Clipboard      string `json:"clipboard"`       // "system" | "osc52"
	RenderMarkdown *bool  `json:"render_markdown,omitempty"`
	LogLevel       string `json:"log_level"` // zap level name
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	render := true
	return Config{
		RequestTimeout: "30s",
		Store:          "file",
		Clipboard:      "system",
		RenderMarkdown: &render,
		LogLevel:       "info",
	}
}

// Timeout parses RequestTimeout, falling back to the default on bad input.
func (c Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Markdown reports whether results should be rendered as markdown.
func (c Config) Markdown() bool {
	return c.RenderMarkdown == nil || *c.RenderMarkdown
}

// GlobalPath returns ~/.config/promptperfect/config.json.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "promptperfect", "config.json"), nil
}

// LoadGlobal reads ~/.config/promptperfect/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .promptperfectconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".promptperfectconfig", false)
}

// SaveGlobal writes cfg to the global config path, creating the directory if needed.
func SaveGlobal(cfg *Config) error {
	path, err := GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	apply(&result, global)
	apply(&result, project)
	return result
}

func apply(dst *Config, src *Config) {
	if src == nil {
		return
	}
	if src.APIURL != "" {
		dst.APIURL = src.APIURL
	}
	if src.RequestTimeout != "" {
		dst.RequestTimeout = src.RequestTimeout
	}
	if src.Store != "" {
		dst.Store = src.Store
	}
	if src.Clipboard != "" {
		dst.Clipboard = src.Clipboard
	}
	if src.RenderMarkdown != nil {
		v := *src.RenderMarkdown
		dst.RenderMarkdown = &v
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
}

// ApplyEnv overrides cfg with any set environment variables. getenv is
// usually os.Getenv.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	if v := getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := getenv(EnvStore); v != "" {
		cfg.Store = v
	}
	return cfg
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.Store {
	case "file", "sqlite":
	default:
		return fmt.Errorf("invalid store %q: want \"file\" or \"sqlite\"", c.Store)
	}
	switch c.Clipboard {
	case "system", "osc52":
	default:
		return fmt.Errorf("invalid clipboard %q: want \"system\" or \"osc52\"", c.Clipboard)
	}
	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	return nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
