package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, cfg.Validate())
}

func TestLoadLayersFileThenEnv(t *testing.T) {
	path := writeConfig(t, "db_path: /data/xp.db\nuser: alice\nlog_level: INFO\n")
	t.Setenv("LEVELUP_LOG_FORMAT", "json")
	t.Setenv("LEVELUP_USER", "bob")

	cfg, err := Load(path)
	require.NoError(t, err)
	want := Config{
		DBPath:    "/data/xp.db",
		User:      "bob",
		LogLevel:  "info",
		LogFormat: "json",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeConfig(t, "user: [unterminated\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.User = ""
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogLevel = "trace"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogFormat = "xml"
	require.Error(t, cfg.Validate())
}

func TestDefaultPathHonorsEnv(t *testing.T) {
	t.Setenv("LEVELUP_CONFIG", "/etc/levelup.yaml")
	p, err := DefaultPath()
	require.NoError(t, err)
	require.Equal(t, "/etc/levelup.yaml", p)
}
