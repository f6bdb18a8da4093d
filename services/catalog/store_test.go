package catalog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/llm-model-router/internal/observability"
	"github.com/upb/llm-model-router/models"
	"go.uber.org/zap"
)

func TestStore_Swap(t *testing.T) {
	first, err := New([]models.Candidate{testCandidate("a")})
	require.NoError(t, err)
	second, err := New([]models.Candidate{testCandidate("b"), testCandidate("c")})
	require.NoError(t, err)

	store, err := NewStore(first)
	require.NoError(t, err)
	assert.Same(t, first, store.Current())
	assert.Equal(t, uint64(1), store.Version())

	require.NoError(t, store.Swap(second))
	assert.Same(t, second, store.Current())
	assert.Equal(t, uint64(2), store.Version())

	assert.Error(t, store.Swap(nil))
	assert.Same(t, second, store.Current())
}

func TestNewStore_RequiresCatalog(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}

func TestStore_ConcurrentReaders(t *testing.T) {
	first, err := New([]models.Candidate{testCandidate("a")})
	require.NoError(t, err)
	second, err := New([]models.Candidate{testCandidate("a"), testCandidate("b")})
	require.NoError(t, err)

	store, err := NewStore(first)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				snapshot := store.Current()
				n := snapshot.Len()
				assert.True(t, n == 1 || n == 2)
				_, ok := snapshot.Get("a")
				assert.True(t, ok)
			}
		}()
	}

	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			require.NoError(t, store.Swap(second))
		} else {
			require.NoError(t, store.Swap(first))
		}
	}
	wg.Wait()
}

func TestStore_ReloadFileKeepsPreviousOnError(t *testing.T) {
	initial, err := New([]models.Candidate{testCandidate("a")})
	require.NoError(t, err)
	store, err := NewStore(initial)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models: []"), 0o600))

	_, err = store.ReloadFile(path)
	require.Error(t, err)
	assert.Same(t, initial, store.Current())

	require.NoError(t, os.WriteFile(path, []byte(listYAML), 0o600))
	next, err := store.ReloadFile(path)
	require.NoError(t, err)
	assert.Same(t, next, store.Current())
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(mappingYAML), 0o600))

	initial, err := LoadFile(path)
	require.NoError(t, err)
	store, err := NewStore(initial)
	require.NoError(t, err)

	metrics := observability.NewMetrics()
	w, err := NewWatcher(WatcherConfig{
		Store:         store,
		Path:          path,
		Logger:        zap.NewNop(),
		Metrics:       metrics,
		DebounceDelay: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(listYAML), 0o600))
	require.Eventually(t, func() bool {
		return store.Current().Len() == 2
	}, 5*time.Second, 20*time.Millisecond)

	// a broken file leaves the last good catalog published
	version := store.Version()
	require.NoError(t, os.WriteFile(path, []byte("models: [unclosed"), 0o600))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, version, store.Version())
	assert.Equal(t, 2, store.Current().Len())
}

func TestNewWatcher_Validation(t *testing.T) {
	_, err := NewWatcher(WatcherConfig{Path: "catalog.yaml"})
	assert.Error(t, err)

	initial, err := New([]models.Candidate{testCandidate("a")})
	require.NoError(t, err)
	store, err := NewStore(initial)
	require.NoError(t, err)

	_, err = NewWatcher(WatcherConfig{Store: store})
	assert.Error(t, err)
}
