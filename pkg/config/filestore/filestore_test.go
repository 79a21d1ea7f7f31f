package filestore_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/helixlang/helixconf/pkg/config/filestore"
	"github.com/helixlang/helixconf/pkg/helixconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "helix", "count": 3}`), 0600))

	store := filestore.New(path)
	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "helix", cfg.Get("name"))
	assert.Equal(t, float64(3), cfg.Get("count"))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`{not valid json`), 0600))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.json")},
		{name: "invalid JSON", path: badPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := filestore.New(tt.path).Load()
			assert.Nil(t, cfg)
			assert.Error(t, err)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	store := filestore.New(path)

	cfg := helixconf.New()
	cfg.Set("name", "helix")
	cfg.Set("count", float64(3))
	require.NoError(t, store.Save(cfg))

	// no temp file left behind
	_, err := os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)

	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "helix", reloaded.Get("name"))
	assert.Equal(t, float64(3), reloaded.Get("count"))
}

func TestSaveNil(t *testing.T) {
	store := filestore.New(filepath.Join(t.TempDir(), "app.json"))
	assert.Error(t, store.Save(nil))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": 1}`), 0600))

	store := filestore.New(path)
	assert.Error(t, store.Watch(nil))

	changed := make(chan struct{}, 1)
	require.NoError(t, store.Watch(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))

	require.NoError(t, os.WriteFile(path, []byte(`{"a": 2}`), 0600))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watch callback was not invoked")
	}
}

func TestWriteSecureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.json")
	require.NoError(t, filestore.WriteSecureFile(path, []byte(`{}`)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
