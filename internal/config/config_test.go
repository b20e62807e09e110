package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmtrack/model"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()

	t.Setenv("HOME", home)
	t.Setenv(EnvHome, "")
	t.Setenv(EnvStore, "")
	t.Setenv(EnvGenerator, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local", "share", "osmtrack"), cfg.Home)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, model.DefaultGenerator, cfg.Generator)
}

func TestLoadEnvironment(t *testing.T) {
	home := t.TempDir()

	t.Setenv(EnvHome, home)
	t.Setenv(EnvStore, "Memory")
	t.Setenv(EnvGenerator, "tracker 1.2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, &Config{Home: home, Store: StoreMemory, Generator: "tracker 1.2"}, cfg)
}

func TestLoadUnknownStore(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	t.Setenv(EnvStore, "postgres")

	_, err := Load()
	assert.ErrorIs(t, err, ErrUnknownStore)
}

func TestOpenLibrary(t *testing.T) {
	tests := []struct {
		name  string
		store string
		db    bool
	}{
		{"sqlite", StoreSQLite, true},
		{"memory", StoreMemory, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Home: t.TempDir(), Store: tt.store, Generator: model.DefaultGenerator}

			lib, err := cfg.OpenLibrary(nil)
			require.NoError(t, err)
			defer lib.Close()

			_, err = lib.NewTrack("walk")
			require.NoError(t, err)

			_, err = os.Stat(filepath.Join(cfg.Home, DatabaseFile))
			assert.Equal(t, tt.db, err == nil)
		})
	}
}
