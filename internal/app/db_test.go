package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetDBPath_Precedence(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ERRLENS_DB_PATH", "")

	t.Run("default under config dir", func(t *testing.T) {
		path, err := GetDBPath()
		require.NoError(t, err)
		require.Equal(t, filepath.Join(home, ".config", "errlens", "errlens.db"), path)
	})

	t.Run("env beats default", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), "env.db")
		t.Setenv("ERRLENS_DB_PATH", envPath)

		path, err := GetDBPath()
		require.NoError(t, err)
		require.Equal(t, envPath, path)
	})

	t.Run("cli override beats env", func(t *testing.T) {
		t.Setenv("ERRLENS_DB_PATH", filepath.Join(t.TempDir(), "env.db"))
		cliPath := filepath.Join(t.TempDir(), "cli.db")
		SetDBPathOverride(cliPath)
		t.Cleanup(func() { SetDBPathOverride("") })

		path, err := GetDBPath()
		require.NoError(t, err)
		require.Equal(t, cliPath, path)
	})
}

func TestResolveDBPathDetailed_Sources(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)

	path, source, err := ResolveDBPathDetailed()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "errlens", "errlens.db"), path)
	require.Equal(t, "default(~/.config/errlens/errlens.db)", source)

	envPath := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("ERRLENS_DB_PATH", envPath)
	path, source, err = ResolveDBPathDetailed()
	require.NoError(t, err)
	require.Equal(t, envPath, path)
	require.Equal(t, "env(ERRLENS_DB_PATH)", source)
}

func TestEnsureDBDir_CreatesParent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "errlens.db")

	got, err := EnsureDBDir(dbPath)
	require.NoError(t, err)
	require.Equal(t, dbPath, got)

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestGetRulesPath(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("empty without config", func(t *testing.T) {
		path, err := GetRulesPath()
		require.NoError(t, err)
		require.Empty(t, path)
	})

	t.Run("env wins", func(t *testing.T) {
		t.Setenv("ERRLENS_RULES_PATH", "/tmp/override-rules.yaml")
		path, err := GetRulesPath()
		require.NoError(t, err)
		require.Equal(t, "/tmp/override-rules.yaml", path)
	})
}
