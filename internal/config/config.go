package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const DefaultPath = "config/config.toml"

type LinkingConfig struct {
	ModuleWeights    map[string]float64 `toml:"module_weights"`
	NormalizedSource string             `toml:"normalized_source"`
	UnifiedSource    string             `toml:"unified_source"`

	StatisticalMappingsPath string `toml:"statistical_mappings_path"`
	AnswerTypesPath         string `toml:"answer_types_path"`
	ContextualRelationsPath string `toml:"contextual_relations_path"`
	DatatypeRelationsPath   string `toml:"datatype_relations_path"`
	RelationLabelsPath      string `toml:"relation_labels_path"`
	EmbeddingsPath          string `toml:"embeddings_path"`
	PropertyCachePath       string `toml:"property_cache_path"`
}

type OracleConfig struct {
	Backend        string `toml:"backend"` // sparql or memgraph
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type CacheConfig struct {
	Backend    string `toml:"backend"` // file or redis
	Path       string `toml:"path"`
	FlushEvery int    `toml:"flush_every"`
	RedisAddr  string `toml:"redis_addr"`
	RedisKey   string `toml:"redis_key"`
}

type ValidationConfig struct {
	TopK                 int  `toml:"top_k"`
	ProbeBudget          int  `toml:"probe_budget"`
	AcceptUnvalidatedAsk bool `toml:"accept_unvalidated_ask"`
}

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type ConcurrencyConfig struct {
	BulkLink int `toml:"bulk_link"`
}

type LogConfig struct {
	Mode string `toml:"mode"`
}

type Config struct {
	Linking     LinkingConfig     `toml:"linking"`
	Oracle      OracleConfig      `toml:"oracle"`
	Memgraph    MemgraphConfig    `toml:"memgraph"`
	Cache       CacheConfig       `toml:"cache"`
	Validation  ValidationConfig  `toml:"validation"`
	LLM         LLMConfig         `toml:"llm"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Log         LogConfig         `toml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Linking: LinkingConfig{
			ModuleWeights:    map[string]float64{},
			NormalizedSource: "similarity_based_scores",
			UnifiedSource:    "statistical_rel_mapping_scores",
		},
		Oracle: OracleConfig{
			Backend:        "sparql",
			Endpoint:       "https://dbpedia.org/sparql",
			TimeoutSeconds: 30,
		},
		Memgraph: MemgraphConfig{URI: "bolt://localhost:7687"},
		Cache: CacheConfig{
			Backend:    "file",
			Path:       "data/validation-cache.json",
			FlushEvery: 10,
			RedisKey:   "rellink:validation",
		},
		Validation: ValidationConfig{
			TopK:        1,
			ProbeBudget: 10,
		},
		Concurrency: ConcurrencyConfig{BulkLink: 4},
		Log:         LogConfig{Mode: "dev"},
	}
}

// Load reads a TOML file on top of Default and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when they are set.
func (c *Config) ApplyEnv() {
	setString(&c.Oracle.Backend, "ORACLE_BACKEND")
	setString(&c.Oracle.Endpoint, "SPARQL_ENDPOINT")
	setString(&c.Memgraph.URI, "MEMGRAPH_URI")
	setString(&c.Memgraph.User, "MEMGRAPH_USER")
	setString(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")
	setString(&c.Cache.Backend, "CACHE_BACKEND")
	setString(&c.Cache.Path, "VALIDATION_CACHE_PATH")
	setString(&c.Cache.RedisAddr, "REDIS_ADDR")
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.EmbeddingModel, "LLM_EMBEDDING_MODEL")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setString(&c.Log.Mode, "LOG_MODE")

	if v := os.Getenv("VALIDATION_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Validation.TopK = n
		}
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Oracle.Backend {
	case "sparql", "memgraph":
	default:
		return fmt.Errorf("unsupported oracle backend: %q", c.Oracle.Backend)
	}
	switch c.Cache.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("unsupported cache backend: %q", c.Cache.Backend)
	}
	if c.Validation.TopK < 1 {
		return fmt.Errorf("validation.top_k must be positive, got %d", c.Validation.TopK)
	}
	if c.Validation.ProbeBudget < 1 {
		return fmt.Errorf("validation.probe_budget must be positive, got %d", c.Validation.ProbeBudget)
	}
	if c.Cache.FlushEvery < 1 {
		return fmt.Errorf("cache.flush_every must be positive, got %d", c.Cache.FlushEvery)
	}
	return nil
}

// Weight returns the configured weight of an evidence source, 1 when unset.
func (l LinkingConfig) Weight(source string) float64 {
	if w, ok := l.ModuleWeights[source]; ok {
		return w
	}
	return 1
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// LoadOrDefault loads path when it exists and falls back to Default with environment overrides
// otherwise. An empty path reads CONFIG_PATH, then config/config.toml.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}

	cfg := Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
