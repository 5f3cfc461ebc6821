// Package config handles configuration loading and management for flowplan.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/flowplan/internal/render"
	"github.com/ShayCichocki/flowplan/pkg/models"
)

// Oracle providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
	ProviderNone      = "none"
)

// ErrUnknownKey is returned by SetValue for keys flowplan does not read.
var ErrUnknownKey = errors.New("unknown config key")

// Config holds all configuration for flowplan.
type Config struct {
	Oracle    OracleConfig    `mapstructure:"oracle"`
	Decompose DecomposeConfig `mapstructure:"decompose"`
	Render    RenderConfig    `mapstructure:"render"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

// OracleConfig holds settings for the optional reasoning oracle.
type OracleConfig struct {
	// Provider is anthropic, bedrock or none.
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	// Timeout bounds each oracle attempt.
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxTokens        int64         `mapstructure:"max_tokens"`
	MaxResponseBytes int           `mapstructure:"max_response_bytes"`
	AWSRegion        string        `mapstructure:"aws_region"`
	AWSProfile       string        `mapstructure:"aws_profile"`
}

// DecomposeConfig holds heuristic decomposition defaults.
type DecomposeConfig struct {
	Granularity string `mapstructure:"granularity"`
}

// RenderConfig holds diagram settings.
type RenderConfig struct {
	Direction string `mapstructure:"direction"`
}

// ServerConfig holds HTTP surface settings.
type ServerConfig struct {
	Addr       string `mapstructure:"addr"`
	CORSOrigin string `mapstructure:"cors_origin"`
	// BodyLimit caps request bodies in bytes.
	BodyLimit int64 `mapstructure:"body_limit"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// defaults is the single source of built-in values.
var defaults = map[string]any{
	"oracle.provider":           ProviderAnthropic,
	"oracle.api_key":            "",
	"oracle.model":              "claude-sonnet-4-20250514",
	"oracle.timeout":            "60s",
	"oracle.max_tokens":         8192,
	"oracle.max_response_bytes": 1 << 20,
	"oracle.aws_region":         "",
	"oracle.aws_profile":        "",
	"decompose.granularity":     string(models.GranularityMedium),
	"render.direction":          string(render.TopDown),
	"server.addr":               ":8080",
	"server.cors_origin":        "*",
	"server.body_limit":         1 << 20,
	"log.level":                 "info",
	"log.format":                "text",
}

// Keys returns every configuration key flowplan reads, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, FLOWPLAN_*)
// 2. Project config (.flowplan.yaml in current directory or parent)
// 3. User config (~/.config/flowplan/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := newViper()

	// Load user config from XDG path
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Merge project config (takes precedence)
	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config %s: %w", projectConfig, err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	return decode(v)
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	// FLOWPLAN_ORACLE_MODEL overrides oracle.model, and so on.
	v.SetEnvPrefix("FLOWPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("oracle.api_key", "FLOWPLAN_ORACLE_API_KEY", "ANTHROPIC_API_KEY")

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Oracle.APIKey = expandEnv(cfg.Oracle.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values and limits.
func (c *Config) Validate() error {
	switch c.Oracle.Provider {
	case ProviderAnthropic, ProviderBedrock, ProviderNone:
	default:
		return fmt.Errorf("oracle.provider %q: must be %s, %s or %s", c.Oracle.Provider, ProviderAnthropic, ProviderBedrock, ProviderNone)
	}
	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("oracle.timeout must be positive, got %s", c.Oracle.Timeout)
	}
	if _, err := models.ParseGranularity(c.Decompose.Granularity); err != nil {
		return fmt.Errorf("decompose.granularity: %w", err)
	}
	if _, err := render.ParseDirection(c.Render.Direction); err != nil {
		return fmt.Errorf("render.direction: %w", err)
	}
	if c.Server.BodyLimit <= 0 {
		return fmt.Errorf("server.body_limit must be positive, got %d", c.Server.BodyLimit)
	}
	return nil
}

// Values returns every key with its effective value for display. The API
// key is masked.
func Values(cfg *Config) map[string]string {
	return map[string]string{
		"oracle.provider":           cfg.Oracle.Provider,
		"oracle.api_key":            MaskAPIKey(cfg.Oracle.APIKey),
		"oracle.model":              cfg.Oracle.Model,
		"oracle.timeout":            cfg.Oracle.Timeout.String(),
		"oracle.max_tokens":         fmt.Sprint(cfg.Oracle.MaxTokens),
		"oracle.max_response_bytes": fmt.Sprint(cfg.Oracle.MaxResponseBytes),
		"oracle.aws_region":         cfg.Oracle.AWSRegion,
		"oracle.aws_profile":        cfg.Oracle.AWSProfile,
		"decompose.granularity":     cfg.Decompose.Granularity,
		"render.direction":          cfg.Render.Direction,
		"server.addr":               cfg.Server.Addr,
		"server.cors_origin":        cfg.Server.CORSOrigin,
		"server.body_limit":         fmt.Sprint(cfg.Server.BodyLimit),
		"log.level":                 cfg.Log.Level,
		"log.format":                cfg.Log.Format,
	}
}

// SetValue writes one key to the user config file, creating it if needed.
func SetValue(key, value string) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)
	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading user config: %w", err)
		}
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("writing user config: %w", err)
	}
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// getUserConfigDir returns the XDG config directory for flowplan.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "flowplan")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "flowplan")
	}
	return filepath.Join(home, ".config", "flowplan")
}

// findProjectConfig searches for .flowplan.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".flowplan.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Oracle: OracleConfig{
			Provider:         ProviderAnthropic,
			Model:            "claude-sonnet-4-20250514",
			Timeout:          60 * time.Second,
			MaxTokens:        8192,
			MaxResponseBytes: 1 << 20,
		},
		Decompose: DecomposeConfig{Granularity: string(models.GranularityMedium)},
		Render:    RenderConfig{Direction: string(render.TopDown)},
		Server: ServerConfig{
			Addr:       ":8080",
			CORSOrigin: "*",
			BodyLimit:  1 << 20,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}
