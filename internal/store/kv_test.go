package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*KV, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	kv, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv, path
}

func TestKVSetGetDelete(t *testing.T) {
	kv, _ := openTemp(t)

	_, ok, err := kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("a", "1"))
	require.NoError(t, kv.Set("a", "2"))
	require.NoError(t, kv.Set("b", "3"))

	v, ok, err := kv.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	n, err := kv.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, kv.Delete("a", "b", "never-set"))
	n, err = kv.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestKVPersistsAcrossReopen(t *testing.T) {
	kv, path := openTemp(t)
	require.NoError(t, kv.Set("moneymap_user_id", "abc"))
	require.NoError(t, kv.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	v, ok, err := reopened.Get("moneymap_user_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}
