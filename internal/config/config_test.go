package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MergesDefaults(t *testing.T) {
	path := writeConfig(t, `
[linking]
module_weights = { kg_entity_recommender_scores = 2.0, similarity_based_scores = 0.5 }

[validation]
top_k = 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.Linking.Weight("kg_entity_recommender_scores"))
	assert.Equal(t, 0.5, cfg.Linking.Weight("similarity_based_scores"))
	assert.Equal(t, 1.0, cfg.Linking.Weight("neural_model_scores"))
	assert.Equal(t, 3, cfg.Validation.TopK)
	assert.Equal(t, 10, cfg.Validation.ProbeBudget)
	assert.Equal(t, "sparql", cfg.Oracle.Backend)
	assert.Equal(t, 10, cfg.Cache.FlushEvery)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[oracle]
backend = "sparql"
endpoint = "http://file-endpoint/sparql"
`)
	t.Setenv("SPARQL_ENDPOINT", "http://env-endpoint/sparql")
	t.Setenv("VALIDATION_TOP_K", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env-endpoint/sparql", cfg.Oracle.Endpoint)
	assert.Equal(t, 5, cfg.Validation.TopK)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := writeConfig(t, `[oracle]
backend = "gremlin"
`)
	_, err = Load(path)
	assert.ErrorContains(t, err, "unsupported oracle backend")

	path = writeConfig(t, "not = [valid")
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse TOML")
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file gives defaults", func(t *testing.T) {
		t.Setenv("ORACLE_BACKEND", "memgraph")
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
		require.NoError(t, err)
		assert.Equal(t, "memgraph", cfg.Oracle.Backend)
		assert.Equal(t, 1, cfg.Validation.TopK)
	})

	t.Run("config path from env", func(t *testing.T) {
		path := writeConfig(t, "[validation]\ntop_k = 4\n")
		t.Setenv("CONFIG_PATH", path)
		cfg, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Validation.TopK)
	})

	t.Run("invalid env override", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "etcd")
		_, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})
}
