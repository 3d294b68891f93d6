// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the ledger store's runtime settings.
type Config struct {
	DataFile         string        `mapstructure:"LEDGERSTORE_DATA_FILE"`
	LockFile         string        `mapstructure:"LEDGERSTORE_LOCK_FILE"`
	FlushDebounce    time.Duration `mapstructure:"LEDGERSTORE_FLUSH_DEBOUNCE"`
	MinCredentialLen int           `mapstructure:"LEDGERSTORE_MIN_CREDENTIAL_LEN"`
}

// Load reads configuration from the environment and returns a validated
// Config. All settings have defaults; the lock file defaults to "bank.lock"
// beside the default data file.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("LEDGERSTORE_DATA_FILE", "bank.json")
	v.SetDefault("LEDGERSTORE_LOCK_FILE", "bank.lock")
	v.SetDefault("LEDGERSTORE_FLUSH_DEBOUNCE", "1s")
	v.SetDefault("LEDGERSTORE_MIN_CREDENTIAL_LEN", 10)

	// Bind envs explicitly so AutomaticEnv sees them without a config file.
	for _, key := range []string{
		"LEDGERSTORE_DATA_FILE",
		"LEDGERSTORE_LOCK_FILE",
		"LEDGERSTORE_FLUSH_DEBOUNCE",
		"LEDGERSTORE_MIN_CREDENTIAL_LEN",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.FlushDebounce <= 0 {
		return nil, fmt.Errorf("LEDGERSTORE_FLUSH_DEBOUNCE must be positive, got %s", cfg.FlushDebounce)
	}
	if cfg.MinCredentialLen <= 0 {
		return nil, fmt.Errorf("LEDGERSTORE_MIN_CREDENTIAL_LEN must be positive, got %d", cfg.MinCredentialLen)
	}
	return &cfg, nil
}
