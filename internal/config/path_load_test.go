package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvMarker, "")
	t.Setenv(EnvQuitKey, "")
}

func TestResolvePathPrecedence(t *testing.T) {
	explicit := "/tmp/custom.jsonc"
	resolved, err := ResolvePath(explicit)
	require.NoError(t, err)
	require.Equal(t, explicit, resolved)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	resolved, err = ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xdg, "gridwalk", "config.jsonc"), resolved)

	t.Setenv("XDG_CONFIG_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	resolved, err = ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "gridwalk", "config.jsonc"), resolved)
}

func TestLoadMissingConfigUsesDefaultsWithWarning(t *testing.T) {
	clearEnvOverrides(t)
	path := filepath.Join(t.TempDir(), "missing.jsonc")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, loaded.Path)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Config)
	require.NotEmpty(t, loaded.Warnings)
	require.Contains(t, loaded.Warnings[0].Message, "not found")
}

func TestLoadExistingJSONCParsesAndValidates(t *testing.T) {
	clearEnvOverrides(t)
	path := filepath.Join(t.TempDir(), "config.jsonc")
	contents := `
{
  // quieter logs
  "log": { "level": "warn" },
  "client": { "marker": "o" },
}
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Empty(t, loaded.Warnings)
	require.Equal(t, slog.LevelWarn, loaded.Config.Log.Level)
	require.Equal(t, 'o', loaded.Config.Client.Marker)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"log":{"level":"warn"},"client":{"marker":"o"}}`), 0o600))

	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvMarker, "%")
	t.Setenv(EnvQuitKey, "z")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, slog.LevelError, loaded.Config.Log.Level)
	require.Equal(t, '%', loaded.Config.Client.Marker)
	require.Equal(t, 'z', loaded.Config.Client.QuitKey)
}

func TestLoadRejectsBadEnvironmentOverride(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv(EnvMarker, "ab")

	_, err := Load(filepath.Join(t.TempDir(), "missing.jsonc"))
	require.Error(t, err)
	require.Contains(t, err.Error(), EnvMarker)
}

func TestLoadParseErrorIncludesPath(t *testing.T) {
	clearEnvOverrides(t)
	path := filepath.Join(t.TempDir(), "broken.jsonc")
	require.NoError(t, os.WriteFile(path, []byte("{ not-json }"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config")
	require.Contains(t, err.Error(), path)
}

func TestLoadValidationErrorIncludesPath(t *testing.T) {
	clearEnvOverrides(t)
	path := filepath.Join(t.TempDir(), "config.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":{"read_buffer":1}}`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "validate config")
	require.Contains(t, err.Error(), "server.read_buffer")
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))

	t.Setenv(EnvQuitKey, "")
	require.NoError(t, os.Unsetenv(EnvQuitKey))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvQuitKey+"=k\n"), 0o600))
	require.NoError(t, LoadDotEnv(path))
	require.Equal(t, "k", os.Getenv(EnvQuitKey))
}
