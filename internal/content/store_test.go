package content

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContent(t *testing.T, path, name string) {
	t.Helper()
	doc := strings.Replace(minimalContent, `"name": "Ada"`, `"name": "`+name+`"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}

func TestStore_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	writeContent(t, path, "Ada")

	p, err := Load(path)
	require.NoError(t, err)
	store := NewStore(p, path)
	assert.Equal(t, "Ada", store.Get().Profile.Name)

	writeContent(t, path, "Grace")
	require.NoError(t, store.Reload())
	assert.Equal(t, "Grace", store.Get().Profile.Name)
}

func TestStore_ReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	writeContent(t, path, "Ada")

	p, err := Load(path)
	require.NoError(t, err)
	store := NewStore(p, path)

	require.NoError(t, os.WriteFile(path, []byte(`{"profile": {}}`), 0o644))
	assert.Error(t, store.Reload())
	assert.Equal(t, "Ada", store.Get().Profile.Name)
}

func TestNewWatcher_RequiresFile(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)

	_, err = NewWatcher(NewStore(p, ""), 0, nil)
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	writeContent(t, path, "Ada")

	p, err := Load(path)
	require.NoError(t, err)
	store := NewStore(p, path)

	reloaded := make(chan error, 8)
	w, err := NewWatcher(store, 20*time.Millisecond, func(err error) { reloaded <- err })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	writeContent(t, path, "Grace")

	select {
	case err := <-reloaded:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	assert.Equal(t, "Grace", store.Get().Profile.Name)
}
