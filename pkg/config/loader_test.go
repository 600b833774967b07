package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idfront/idfront/pkg/config"
)

type testConfig struct {
	Host    string        `env:"CFG_TEST_HOST" envDefault:"localhost"`
	Port    int           `env:"CFG_TEST_PORT" envDefault:"5432"`
	Timeout time.Duration `env:"CFG_TEST_TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Secret string `env:"CFG_TEST_REQUIRED_SECRET,required"`
}

type cachedConfig struct {
	Value string `env:"CFG_TEST_CACHED" envDefault:"first"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 5432, cfg.Port)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("CFG_TEST_HOST", "db.internal")

		// Use a locally-declared type so the cache entry is unique.
		type overrideConfig struct {
			Host string `env:"CFG_TEST_HOST" envDefault:"localhost"`
		}
		var cfg overrideConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "db.internal", cfg.Host)
	})

	t.Run("missing required variable fails", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer rejected", func(t *testing.T) {
		var cfg *testConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("second load returns cached value", func(t *testing.T) {
		var first cachedConfig
		require.NoError(t, config.Load(&first))
		require.Equal(t, "first", first.Value)

		t.Setenv("CFG_TEST_CACHED", "second")

		var again cachedConfig
		require.NoError(t, config.Load(&again))
		assert.Equal(t, "first", again.Value)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		type mustConfig struct {
			Secret string `env:"CFG_TEST_MUST_SECRET,required"`
		}
		assert.Panics(t, func() {
			var cfg mustConfig
			config.MustLoad(&cfg)
		})
	})
}
