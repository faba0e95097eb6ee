package testutil

import (
	"testing"
	"time"

	"github.com/lepinkainen/gutenshelf/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	DatabaseDriver  string
	DatabaseFile    string
	DatabaseDSN     string
	GutendexBaseURL string
	RequestTimeout  time.Duration
	RequestInterval time.Duration
	CacheEnabled    bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		DatabaseDriver:  config.DatabaseDriver,
		DatabaseFile:    config.DatabaseFile,
		DatabaseDSN:     config.DatabaseDSN,
		GutendexBaseURL: config.GutendexBaseURL,
		RequestTimeout:  config.RequestTimeout,
		RequestInterval: config.RequestInterval,
		CacheEnabled:    config.CacheEnabled,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.DatabaseDriver = state.DatabaseDriver
	config.DatabaseFile = state.DatabaseFile
	config.DatabaseDSN = state.DatabaseDSN
	config.GutendexBaseURL = state.GutendexBaseURL
	config.RequestTimeout = state.RequestTimeout
	config.RequestInterval = state.RequestInterval
	config.CacheEnabled = state.CacheEnabled
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig points the global config at a sandboxed SQLite database and
// the given catalog URL, with response caching and rate limiting disabled.
func SetTestConfig(t *testing.T, env *TestEnv, baseURL string) {
	t.Helper()

	ResetConfig(t)

	viper.Set("database.driver", "sqlite")
	viper.Set("database.dbfile", env.DBPath("gutenshelf.db"))
	viper.Set("cache.dbfile", env.DBPath("cache.db"))
	viper.Set("cache.enabled", false)
	viper.Set("gutendex.baseurl", baseURL)
	viper.Set("gutendex.timeout", "5s")
	viper.Set("gutendex.interval", "0")

	config.InitConfig()
}
