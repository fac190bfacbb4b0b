package util

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	require.NoError(t, AtomicWriteJSON(path, map[string]int{"strands": 4}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 4, got["strands"])

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file left behind")
}

func TestAtomicWriteJSON_Unmarshalable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	assert.Error(t, AtomicWriteJSON(path, make(chan int)))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileLock_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "report.lock")
	a, err := NewFileLock(path)
	require.NoError(t, err)
	b, err := NewFileLock(path)
	require.NoError(t, err)

	require.NoError(t, a.Lock(context.Background()))
	ok, err := b.TryLock()
	require.NoError(t, err)
	assert.False(t, ok, "second lock must not be granted while first is held")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.Error(t, b.Lock(ctx))

	require.NoError(t, a.Unlock())
	ok, err = b.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, b.Unlock())
}

func TestWithLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.lock")
	ran := false
	require.NoError(t, WithLock(context.Background(), path, func() error {
		ran = true
		return nil
	}))
	assert.True(t, ran)

	errBoom := errors.New("boom")
	err := WithLock(context.Background(), path, func() error { return errBoom })
	assert.ErrorIs(t, err, errBoom)
}
