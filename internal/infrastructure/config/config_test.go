package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/capsulec/internal/shared/utils"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, utils.MaxCompositionSize, cfg.Catalog.MaxInputBytes)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CAPSULE_CATALOG_DIR", "/srv/capsules")
	t.Setenv("CAPSULE_CATALOG_WATCH", "true")
	t.Setenv("CAPSULE_PROP_MODE", "lenient")
	t.Setenv("CAPSULE_PARALLELISM", "8")
	t.Setenv("CAPSULE_HASH", "blake2b")
	t.Setenv("LOG_DEV", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/capsules", cfg.Catalog.Dir)
	assert.True(t, cfg.Catalog.Watch)
	assert.Equal(t, "lenient", cfg.Compile.PropMode)
	assert.Equal(t, 8, cfg.Compile.Parallelism)
	assert.Equal(t, "blake2b", cfg.Compile.Hash)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"CAPSULE_PROP_MODE":       "loose",
		"CAPSULE_HASH":            "md5",
		"CAPSULE_PARALLELISM":     "0",
		"CAPSULE_CACHE_SIZE":      "-1",
		"CAPSULE_MAX_INPUT_BYTES": "abc",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
			assert.Equal(t, Default(), LoadOrDefault())
		})
	}
}
