package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Backend.BaseURL = "https://api.example.test"
	cfg.Chat.GoalMinMessages = 6
	cfg.Goals.RollbackRoadmapToggle = false
	require.NoError(t, SaveFile(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFileKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[appearance]\ntheme = \"dusk\"\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dusk", cfg.Appearance.Theme)
	assert.Equal(t, 4, cfg.Chat.GoalMinMessages)
	assert.True(t, cfg.Goals.RollbackRoadmapToggle)
}

func TestLoadFileRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend\n"), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestBaseURLPrecedence(t *testing.T) {
	t.Setenv(envAPIURL, "")
	t.Setenv(envLegacyAPIURL, "")

	cfg := DefaultConfig()
	assert.Equal(t, DefaultBaseURL, BaseURL(cfg))

	cfg.Backend.BaseURL = "http://config.test/"
	assert.Equal(t, "http://config.test", BaseURL(cfg))

	t.Setenv(envLegacyAPIURL, "http://vite.test")
	assert.Equal(t, "http://vite.test", BaseURL(cfg))

	t.Setenv(envAPIURL, "http://env.test/")
	assert.Equal(t, "http://env.test", BaseURL(cfg))
}

func TestTimeoutFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend.TimeoutSec = 0
	assert.Equal(t, 30*time.Second, Timeout(cfg))
	cfg.Backend.TimeoutSec = 5
	assert.Equal(t, 5*time.Second, Timeout(cfg))
}
