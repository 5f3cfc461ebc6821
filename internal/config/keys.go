package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("no oracle API key configured")

// API key environment variables, highest precedence first.
const (
	EnvOracleAPIKey    = "FLOWPLAN_ORACLE_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

var apiKeyEnv = []string{EnvOracleAPIKey, EnvAnthropicAPIKey}

// KeySource says where oracle.api_key was resolved from.
type KeySource string

const (
	KeySourceFlowplanEnv  KeySource = "env " + EnvOracleAPIKey
	KeySourceAnthropicEnv KeySource = "env " + EnvAnthropicAPIKey
	KeySourceConfig       KeySource = "config oracle.api_key"
	KeySourceNone         KeySource = "none"
)

// resolveAPIKey applies the precedence used everywhere a key is needed.
func resolveAPIKey(cfg *Config) (string, KeySource) {
	for i, name := range apiKeyEnv {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			if i == 0 {
				return key, KeySourceFlowplanEnv
			}
			return key, KeySourceAnthropicEnv
		}
	}

	if cfg == nil || cfg.Oracle.APIKey == "" {
		return "", KeySourceNone
	}
	// An unresolved ${VAR} reference is treated as unset.
	key := strings.TrimSpace(os.ExpandEnv(cfg.Oracle.APIKey))
	if key == "" || strings.Contains(key, "${") {
		return "", KeySourceNone
	}
	return key, KeySourceConfig
}

// GetAPIKey returns the oracle API key or ErrNoAPIKey.
func GetAPIKey(cfg *Config) (string, error) {
	key, src := resolveAPIKey(cfg)
	if src == KeySourceNone {
		return "", ErrNoAPIKey
	}
	return key, nil
}

// GetAPIKeySource reports where the key would be read from.
func GetAPIKeySource(cfg *Config) KeySource {
	_, src := resolveAPIKey(cfg)
	return src
}

// ValidateAPIKey checks the Anthropic key format only; nothing is sent.
func ValidateAPIKey(key string) error {
	switch {
	case key == "":
		return ErrNoAPIKey
	case !strings.HasPrefix(key, "sk-ant-"):
		return errors.New("invalid API key format: expected 'sk-ant-' prefix")
	case len(key) < 20:
		return errors.New("invalid API key format: key too short")
	}
	return nil
}

// MaskAPIKey keeps the sk-ant- prefix and last 4 characters for display.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 15 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}
