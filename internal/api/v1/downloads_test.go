package v1

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadRegistry_TakeOnce(t *testing.T) {
	t.Parallel()

	r := newDownloadRegistry()
	token := r.register("/tmp/a.xlsx", "a.xlsx")

	item, ok := r.take(token)
	require.True(t, ok)
	assert.Equal(t, "a.xlsx", item.name)

	_, ok = r.take(token)
	assert.False(t, ok)
	_, ok = r.take("unknown")
	assert.False(t, ok)
}

func TestDownloadRegistry_ExpiryRemovesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := newDownloadRegistry()
	r.now = func() time.Time { return now }
	token := r.register(path, "export.xlsx")

	now = now.Add(exportTTL + time.Second)
	_, ok := r.take(token)
	assert.False(t, ok)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
