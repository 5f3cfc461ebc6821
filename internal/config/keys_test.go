package config

import (
	"errors"
	"testing"
)

func TestResolveAPIKey(t *testing.T) {
	tests := []struct {
		name       string
		flowplan   string
		anthropic  string
		configured string
		extra      map[string]string
		wantKey    string
		wantSource KeySource
	}{
		{
			name:       "flowplan env beats everything",
			flowplan:   "sk-ant-flowplan-env-key",
			anthropic:  "sk-ant-anthropic-env-key",
			configured: "sk-ant-config-key",
			wantKey:    "sk-ant-flowplan-env-key",
			wantSource: KeySourceFlowplanEnv,
		},
		{
			name:       "anthropic env beats oracle.api_key",
			anthropic:  "sk-ant-anthropic-env-key",
			configured: "sk-ant-config-key",
			wantKey:    "sk-ant-anthropic-env-key",
			wantSource: KeySourceAnthropicEnv,
		},
		{
			name:       "oracle.api_key from config",
			configured: "sk-ant-config-key",
			wantKey:    "sk-ant-config-key",
			wantSource: KeySourceConfig,
		},
		{
			name:       "oracle.api_key references another variable",
			configured: "${FLOWPLAN_TEST_SECRET}",
			extra:      map[string]string{"FLOWPLAN_TEST_SECRET": "sk-ant-from-reference"},
			wantKey:    "sk-ant-from-reference",
			wantSource: KeySourceConfig,
		},
		{
			name:       "unresolved reference counts as unset",
			configured: "${FLOWPLAN_TEST_MISSING}",
			wantSource: KeySourceNone,
		},
		{
			name:       "blank env is ignored",
			flowplan:   "   ",
			configured: "sk-ant-config-key",
			wantKey:    "sk-ant-config-key",
			wantSource: KeySourceConfig,
		},
		{
			name:       "nothing set",
			wantSource: KeySourceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvOracleAPIKey, tt.flowplan)
			t.Setenv(EnvAnthropicAPIKey, tt.anthropic)
			t.Setenv("FLOWPLAN_TEST_MISSING", "")
			for k, v := range tt.extra {
				t.Setenv(k, v)
			}
			cfg := &Config{Oracle: OracleConfig{Provider: ProviderAnthropic, APIKey: tt.configured}}

			if src := GetAPIKeySource(cfg); src != tt.wantSource {
				t.Errorf("GetAPIKeySource() = %q, want %q", src, tt.wantSource)
			}

			key, err := GetAPIKey(cfg)
			if tt.wantSource == KeySourceNone {
				if !errors.Is(err, ErrNoAPIKey) {
					t.Errorf("GetAPIKey() error = %v, want ErrNoAPIKey", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetAPIKey() unexpected error: %v", err)
			}
			if key != tt.wantKey {
				t.Errorf("GetAPIKey() = %q, want %q", key, tt.wantKey)
			}
		})
	}
}

func TestGetAPIKey_NilConfig(t *testing.T) {
	t.Setenv(EnvOracleAPIKey, "")
	t.Setenv(EnvAnthropicAPIKey, "")

	if _, err := GetAPIKey(nil); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("GetAPIKey(nil) error = %v, want ErrNoAPIKey", err)
	}
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"anthropic console key", "sk-ant-REDACTED", false},
		{"unset oracle key", "", true},
		{"key for another provider", "sk-proj-abcdefghijklmnopqrst", true},
		{"truncated paste", "sk-ant-api03", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAPIKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestMaskAPIKey_InConfigListing(t *testing.T) {
	cfg := Default()
	cfg.Oracle.APIKey = "sk-ant-REDACTED"

	if got := Values(cfg)["oracle.api_key"]; got != "sk-ant-...1234" {
		t.Errorf("oracle.api_key listed as %q, want masked", got)
	}

	cfg.Oracle.APIKey = ""
	if got := Values(cfg)["oracle.api_key"]; got != "(not set)" {
		t.Errorf("unset oracle.api_key listed as %q", got)
	}

	if got := MaskAPIKey("tiny"); got != "***" {
		t.Errorf("MaskAPIKey(short) = %q, want ***", got)
	}
}
