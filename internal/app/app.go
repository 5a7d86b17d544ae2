// Package app assembles the linking and validation pipeline from a Config.
package app

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/agenthands/rellink/internal/cache"
	"github.com/agenthands/rellink/internal/config"
	"github.com/agenthands/rellink/internal/core/evidence"
	"github.com/agenthands/rellink/internal/core/linking"
	"github.com/agenthands/rellink/internal/core/lookup"
	"github.com/agenthands/rellink/internal/driver"
	"github.com/agenthands/rellink/internal/kg"
	"github.com/agenthands/rellink/internal/llm"
	"github.com/agenthands/rellink/internal/logger"
	"github.com/agenthands/rellink/internal/validation"
)

// Oracle answers existence queries and lists properties around entities.
type Oracle interface {
	kg.Oracle
	kg.PropertyLister
}

type App struct {
	Config    *config.Config
	Linker    *linking.Service
	Validator *validation.Validator
	Oracle    Oracle

	// Memgraph is set only for the memgraph backend.
	Memgraph *driver.MemgraphOracle

	properties *cache.Cache[[]string]
	closers    []func(context.Context) error
	log        *logger.Logger
}

// Build connects the oracle and caches, loads the lookup tables and wires the evidence sources.
// On error, whatever was opened is closed again.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (_ *App, err error) {
	log = logger.OrNop(log)
	a := &App{Config: cfg, log: log}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	if err := a.openOracle(ctx); err != nil {
		return nil, err
	}

	var rdb *goredis.Client
	if cfg.Cache.Backend == "redis" {
		rdb, err = cache.NewRedisClient(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	}

	validationCache, err := openCache[bool](ctx, cfg, rdb, "validation", cfg.Cache.Path, log)
	if err != nil {
		return nil, err
	}
	a.properties, err = openCache[[]string](ctx, cfg, rdb, "properties", cfg.Linking.PropertyCachePath, log)
	if err != nil {
		return nil, err
	}

	gen, emb, err := llm.NewClient(ctx, cfg.LLM, log)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	if c, ok := gen.(io.Closer); ok {
		a.closers = append(a.closers, func(context.Context) error { return c.Close() })
	}

	answerTypes, err := lookup.LoadQuestionTable("answer_types", cfg.Linking.AnswerTypesPath, log)
	if err != nil {
		return nil, err
	}
	contextual, err := lookup.LoadQuestionTable("contextual_relations", cfg.Linking.ContextualRelationsPath, log)
	if err != nil {
		return nil, err
	}
	datatypes, err := lookup.LoadDatatypeRelations(cfg.Linking.DatatypeRelationsPath)
	if err != nil {
		return nil, err
	}
	labels, err := lookup.LoadRelationLabels(cfg.Linking.RelationLabelsPath)
	if err != nil {
		return nil, err
	}
	mappings, err := evidence.LoadMappingTables(cfg.Linking.StatisticalMappingsPath)
	if err != nil {
		return nil, err
	}

	var embeddings evidence.Embeddings
	switch {
	case cfg.Linking.EmbeddingsPath != "":
		static, err := evidence.LoadStaticEmbeddings(cfg.Linking.EmbeddingsPath)
		if err != nil {
			return nil, err
		}
		log.Info("static embeddings loaded", "words", len(static))
		embeddings = static
	case emb != nil:
		embeddings = evidence.NewEmbedderEmbeddings(emb, log)
	default:
		log.Warn("no embeddings configured, similarity falls back to exact label matches")
	}

	sources := []evidence.Source{
		evidence.NewKGEntitySource(a.Oracle, a.properties, datatypes, log),
		evidence.NewContextualSource(contextual),
		evidence.NewStatisticalSource(mappings, log),
	}
	if gen != nil {
		inventory := make([]string, 0, len(labels))
		for rel := range labels {
			inventory = append(inventory, rel)
		}
		sort.Strings(inventory)
		sources = append(sources, evidence.NewNeuralSource(llm.NewRelationClassifier(gen, inventory), log))
	}
	similarity := evidence.NewSimilaritySource(labels, embeddings, log)

	a.Linker = linking.NewService(cfg.Linking, sources, similarity, answerTypes, labels, log)
	a.Validator = validation.NewValidator(a.Oracle, validationCache, cfg.Validation.ProbeBudget, log)
	return a, nil
}

func (a *App) openOracle(ctx context.Context) error {
	cfg := a.Config
	switch cfg.Oracle.Backend {
	case "memgraph":
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, a.log)
		if err != nil {
			return fmt.Errorf("memgraph: %w", err)
		}
		a.closers = append(a.closers, d.Close)
		if err := d.BuildIndices(ctx); err != nil {
			return fmt.Errorf("memgraph indices: %w", err)
		}
		a.Memgraph = driver.NewMemgraphOracle(d, a.log)
		a.Oracle = a.Memgraph
	default:
		timeout := time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second
		a.Oracle = driver.NewSPARQLClient(cfg.Oracle.Endpoint, timeout, a.log)
	}
	a.log.Info("oracle ready", "backend", cfg.Oracle.Backend)
	return nil
}

func openCache[V any](ctx context.Context, cfg *config.Config, rdb *goredis.Client, name, path string, log *logger.Logger) (*cache.Cache[V], error) {
	var cmd goredis.Cmdable
	if rdb != nil {
		cmd = rdb
	}
	store, err := cache.NewStore[V](cfg.Cache, cmd, name, path)
	if err != nil {
		return nil, err
	}
	return cache.New[V](ctx, name, store, cfg.Cache.FlushEvery, log)
}

// Close flushes the caches and releases connections in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	if a.Validator != nil && a.Validator.Cache != nil {
		if err := a.Validator.Cache.Flush(ctx); err != nil {
			firstErr = err
		}
	}
	if a.properties != nil {
		if err := a.properties.Flush(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
