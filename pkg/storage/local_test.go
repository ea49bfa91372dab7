package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAndPath(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	handle, err := store.Store([]byte("file content"), "report.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(handle, "_report.pdf"))

	data, err := os.ReadFile(store.Path(handle))
	require.NoError(t, err)
	assert.Equal(t, "file content", string(data))
}

func TestStore_UniqueHandles(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	a, err := store.Store([]byte("a"), "same.txt")
	require.NoError(t, err)
	b, err := store.Store([]byte("b"), "same.txt")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Store([]byte("x"), "..")
	assert.ErrorIs(t, err, ErrInvalidFilename)

	_, err = store.Store([]byte("x"), "")
	assert.ErrorIs(t, err, ErrInvalidFilename)
}

func TestDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	handle, err := store.Store([]byte("bye"), "temp.txt")
	require.NoError(t, err)

	require.NoError(t, store.Delete(handle))
	_, err = os.Stat(store.Path(handle))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is not an error.
	assert.NoError(t, store.Delete(handle))
}
