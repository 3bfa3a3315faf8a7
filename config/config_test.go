package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func Test_Load_FromEnv(t *testing.T) {
	t.Setenv("BULKOPS_GATEWAY_BASE_URL", "https://erp.example.com")
	t.Setenv("BULKOPS_GATEWAY_API_KEY", "key")
	t.Setenv("BULKOPS_GATEWAY_API_SECRET", "secret")
	t.Setenv("BULKOPS_GATEWAY_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://erp.example.com", cfg.Gateway.BaseURL)
	assert.Equal(t, "key", cfg.Gateway.APIKey)
	assert.Equal(t, "secret", cfg.Gateway.APISecret)
	assert.Equal(t, 45*time.Second, cfg.Gateway.Timeout)
}

func Test_LoadFile(t *testing.T) {
	t.Parallel()

	want := &Config{
		Gateway: GatewayConfig{
			BaseURL:   "https://erp.example.com",
			APIKey:    "key",
			APISecret: "secret",
			Timeout:   10 * time.Second,
		},
	}

	data, err := yaml.Marshal(want)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bulkops.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, want, cfg)
}

func Test_LoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func Test_Config_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "complete",
			cfg: Config{Gateway: GatewayConfig{
				BaseURL:   "https://erp.example.com",
				APIKey:    "key",
				APISecret: "secret",
			}},
		},
		{
			name:    "missing base URL",
			cfg:     Config{Gateway: GatewayConfig{APIKey: "key", APISecret: "secret"}},
			wantErr: "gateway.base_url is required",
		},
		{
			name:    "missing credentials",
			cfg:     Config{Gateway: GatewayConfig{BaseURL: "https://erp.example.com"}},
			wantErr: "gateway.api_key and gateway.api_secret are required",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()

			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}
