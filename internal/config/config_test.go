package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultBindsOwner(t *testing.T) {
	t.Parallel()

	cfg := NewDefault("marvin")
	assert.Equal(t, "marvin", cfg.Robot.Name)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTP.Addr)
	assert.False(t, cfg.Finalized())
}

func TestFinalizeLocksSections(t *testing.T) {
	t.Parallel()

	cfg := NewDefault("marvin")
	require.NoError(t, cfg.RegisterAdapterSection("shell", map[string]string{"prompt": "> "}))
	require.NoError(t, cfg.RegisterHandlerSection("info", struct{}{}))

	cfg.Finalize()
	assert.True(t, cfg.Finalized())

	err := cfg.RegisterAdapterSection("irc", struct{}{})
	assert.True(t, errors.Is(err, ErrFinalized))
	err = cfg.RegisterHandlerSection("deploy", struct{}{})
	assert.True(t, errors.Is(err, ErrFinalized))

	// Sections registered before the lock stay readable.
	section, ok := cfg.AdapterSection("shell")
	require.True(t, ok)
	assert.Equal(t, "> ", section.(map[string]string)["prompt"])
	_, ok = cfg.AdapterSection("irc")
	assert.False(t, ok)

	// Value mutation is still allowed after finalization.
	cfg.Robot.Name = "eddie"
	assert.Equal(t, "eddie", cfg.Robot.Name)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "huddle.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[robot]
name = "eddie"

[log]
level = "debug"
format = "json"

[http]
addr = ":9090"
jwt_secret = "s3cret"
`), 0o600))

	cfg := NewDefault("marvin")
	cfg.Finalize()
	require.NoError(t, LoadFile(path, cfg))

	assert.Equal(t, "eddie", cfg.Robot.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "s3cret", cfg.HTTP.JWTSecret)
}

func TestLoadFileMissingIsNoop(t *testing.T) {
	t.Parallel()

	cfg := NewDefault("marvin")
	require.NoError(t, LoadFile(filepath.Join(t.TempDir(), "absent.toml"), cfg))
	assert.Equal(t, "marvin", cfg.Robot.Name)
}

func TestLoadFileRejectsBadValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "huddle.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "loud"
`), 0o600))

	cfg := NewDefault("marvin")
	err := LoadFile(path, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}
