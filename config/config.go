// Package config loads the framework configuration from the environment or
// from a YAML file.
package config

import (
	"errors"
	"slices"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level framework configuration.
type Config struct {
	Gateway GatewayConfig `mapstructure:"gateway" yaml:"gateway"`
}

// GatewayConfig is the connection configuration for the remote document
// store.
//
// WARNING: This data type contains sensitive fields and should not be logged.
type GatewayConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey    string        `mapstructure:"api_key" yaml:"api_key"`       // Secret: the API key of the caller's session
	APISecret string        `mapstructure:"api_secret" yaml:"api_secret"` // Secret: the API secret paired with the key
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// Validate checks that the configuration is complete enough to construct a
// gateway client.
func (c *Config) Validate() error {
	if c.Gateway.BaseURL == "" {
		return errors.New("gateway.base_url is required")
	}
	if c.Gateway.APIKey == "" || c.Gateway.APISecret == "" {
		return errors.New("gateway.api_key and gateway.api_secret are required")
	}

	return nil
}

// Load loads the config from the environment.
func Load() (*Config, error) {
	v := viper.New()
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// LoadFile loads the config from a file.
func LoadFile(filePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// envBindings maps config keys to the environment variables that can provide
// their values. Viper checks each listed variable in order and uses the
// first one that is set.
var envBindings = map[string][]string{
	"gateway.base_url":   {"BULKOPS_GATEWAY_BASE_URL"},
	"gateway.api_key":    {"BULKOPS_GATEWAY_API_KEY"},
	"gateway.api_secret": {"BULKOPS_GATEWAY_API_SECRET"},
	"gateway.timeout":    {"BULKOPS_GATEWAY_TIMEOUT"},
}

// bindEnvs binds the environment variable mappings to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(envs, 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
