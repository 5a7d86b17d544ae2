package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/rellink/internal/config"
)

type mockStore struct {
	initial map[string]bool
	saves   []map[string]bool
	saveErr error
}

func (m *mockStore) Load(_ context.Context) (map[string]bool, error) {
	return m.initial, nil
}

func (m *mockStore) Save(_ context.Context, entries map[string]bool) error {
	m.saves = append(m.saves, entries)
	return m.saveErr
}

func TestCache_FlushesEveryTenthNewEntry(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{initial: map[string]bool{"old": true}}
	c, err := New[bool](ctx, "validation", store, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	for i := 0; i < 9; i++ {
		require.NoError(t, c.Put(ctx, fmt.Sprintf("q%d", i), i%2 == 0))
	}
	assert.Empty(t, store.saves)

	// overwriting does not count as a new entry
	require.NoError(t, c.Put(ctx, "q0", false))
	assert.Empty(t, store.saves)

	require.NoError(t, c.Put(ctx, "q9", true))
	require.Len(t, store.saves, 1)
	assert.Len(t, store.saves[0], 11)
	assert.False(t, store.saves[0]["q0"])

	v, ok := c.Get("old")
	assert.True(t, ok)
	assert.True(t, v)
	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_FlushErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{saveErr: fmt.Errorf("disk full")}
	c, err := New[bool](ctx, "validation", store, 1, nil)
	require.NoError(t, err)

	err = c.Put(ctx, "q", true)
	assert.ErrorContains(t, err, "disk full")
	v, ok := c.Get("q")
	assert.True(t, ok && v, "the entry stays cached in memory")
}

func TestCache_MemoryOnly(t *testing.T) {
	c := NewMemory[[]string]("properties")
	require.NoError(t, c.Put(context.Background(), "k", []string{"dbo:owner"}))
	require.NoError(t, c.Flush(context.Background()))
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []string{"dbo:owner"}, v)
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	store := NewFileStore[bool](path)

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, store.Save(ctx, map[string]bool{"ASK {}": true}))
	entries, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"ASK {}": true}, entries)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = store.Load(ctx)
	assert.Error(t, err)
}

func TestCache_ConcurrentPutsPersistEveryEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "properties.json")
	c, err := New[bool](ctx, "properties", NewFileStore[bool](path), 1, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8*200)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				errs <- c.Put(ctx, fmt.Sprintf("w%d-q%d", w, i), i%2 == 0)
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.NoError(t, c.Flush(ctx))
	assert.Equal(t, 1600, c.Len())

	reloaded, err := New[bool](ctx, "properties", NewFileStore[bool](path), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, c.Len(), reloaded.Len())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1, "temporary files must not be left behind")
	assert.Equal(t, "properties.json", files[0].Name())
}

func TestNewStore(t *testing.T) {
	s, err := NewStore[bool](config.CacheConfig{Backend: "file"}, nil, "validation", "x.json")
	require.NoError(t, err)
	assert.IsType(t, &FileStore[bool]{}, s)

	s, err = NewStore[bool](config.CacheConfig{Backend: "file"}, nil, "validation", "")
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = NewStore[bool](config.CacheConfig{Backend: "redis"}, nil, "validation", "")
	assert.Error(t, err)

	_, err = NewStore[bool](config.CacheConfig{Backend: "s3"}, nil, "validation", "")
	assert.Error(t, err)
}
