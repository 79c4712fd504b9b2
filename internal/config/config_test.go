package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/explorations/internal/dice"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"EXPLORE_SAVE_DIR", "EXPLORE_STORE", "EXPLORE_LOAD_TIMEOUT", "EXPLORE_DICE", "GEMINI_API_KEY", "GEMINI_MODEL"} {
		unsetenv(t, key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ".saves", cfg.SaveDir)
	assert.Equal(t, StoreYAML, cfg.Store)
	assert.Equal(t, 5*time.Second, cfg.LoadTimeout)
	assert.Equal(t, dice.DefaultNotation, cfg.DiceNotation)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Error(t, cfg.RequireGemini())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("EXPLORE_STORE", "sqlite")
	t.Setenv("EXPLORE_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("EXPLORE_LOAD_TIMEOUT", "250ms")
	t.Setenv("EXPLORE_DICE", "2d6")
	t.Setenv("EXPLORE_SEED", "42")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.Equal(t, 250*time.Millisecond, cfg.LoadTimeout)
	assert.Equal(t, "2d6", cfg.DiceNotation)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.NoError(t, cfg.RequireGemini())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tcs := map[string]string{
		"EXPLORE_STORE":        "postgres",
		"EXPLORE_DICE":         "lots",
		"EXPLORE_LOAD_TIMEOUT": "0s",
		"EXPLORE_SEED":         "abc",
	}
	for key, value := range tcs {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

// unsetenv clears key for the test and restores it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
