package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/llm-model-router/config"
	"github.com/upb/llm-model-router/services/routing"
	"go.uber.org/zap/zaptest"
)

const localCatalog = `
models:
  - id: local-small
    name: Local Small
    provider: Local
    capabilities: [speed, code]
    pricing: {inputTokens: 0.0001, outputTokens: 0.0002}
    maxTokens: 8192
    responseTime: fast
    accuracy: 70
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Catalog: config.CatalogConfig{
			ReloadDebounce: 20 * time.Millisecond,
		},
		Routing: config.RoutingConfig{
			DefaultOutputTokens: 500,
			RecordSelections:    true,
		},
		Observability: config.ObservabilityConfig{
			LogLevel:       "debug",
			LogFormat:      "console",
			MetricsEnabled: true,
		},
	}
}

func TestNewDependencies(t *testing.T) {
	t.Run("built-in catalog with in-memory ledger", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)

		deps, err := NewDependencies(ctx, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		defer deps.Close(ctx)

		assert.NotNil(t, deps.Metrics)
		assert.Nil(t, deps.DB)
		assert.Nil(t, deps.SQLDB())
		assert.Nil(t, deps.RepoFactory)
		assert.Nil(t, deps.CatalogWatcher)
		assert.NotNil(t, deps.Selections)
		assert.Equal(t, 8, deps.Catalog.Current().Len())

		decision, err := deps.Routing.Route(ctx, routing.RouteRequest{Prompt: "Help me debug this Python function"})
		require.NoError(t, err)
		require.NotNil(t, decision.SelectionID)
		assert.Equal(t, "gpt-4-turbo", decision.Selection.SelectedModel.ID)
	})

	t.Run("catalog file is watched", func(t *testing.T) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(localCatalog), 0o600))

		cfg := testConfig(t)
		cfg.Catalog.Path = path
		cfg.Catalog.Watch = true

		deps, err := NewDependencies(ctx, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		defer deps.Close(ctx)

		require.NotNil(t, deps.CatalogWatcher)
		assert.Equal(t, []string{"local-small"}, deps.Catalog.Current().IDs())
	})

	t.Run("metrics disabled", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)
		cfg.Observability.MetricsEnabled = false

		deps, err := NewDependencies(ctx, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		defer deps.Close(ctx)

		assert.Nil(t, deps.Metrics)
		_, err = deps.Routing.Route(ctx, routing.RouteRequest{Prompt: "hello"})
		assert.NoError(t, err)
	})

	t.Run("invalid catalog file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("models: []"), 0o600))

		cfg := testConfig(t)
		cfg.Catalog.Path = path

		deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize catalog")
	})

	t.Run("missing catalog file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.yaml")

		deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
	})
}

func TestDependenciesClose(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(localCatalog), 0o600))

	cfg := testConfig(t)
	cfg.Catalog.Path = path
	cfg.Catalog.Watch = true

	deps, err := NewDependencies(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.NoError(t, deps.Close(ctx))
	assert.Nil(t, deps.CatalogWatcher)

	// second close is a no-op
	assert.NoError(t, deps.Close(ctx))
}
