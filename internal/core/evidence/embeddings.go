package evidence

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"gonum.org/v1/gonum/blas/gonum"

	"github.com/agenthands/rellink/internal/llm"
	"github.com/agenthands/rellink/internal/logger"
)

var blasEngine = gonum.Implementation{}

// Embeddings returns word vectors. A word without a vector has no similarity to anything.
type Embeddings interface {
	Vector(ctx context.Context, word string) ([]float32, bool)
}

// StaticEmbeddings is a fixed word-vector table.
type StaticEmbeddings map[string][]float32

func (e StaticEmbeddings) Vector(_ context.Context, word string) ([]float32, bool) {
	v, ok := e[word]
	return v, ok
}

// LoadStaticEmbeddings reads GloVe-style text vectors: a word followed by its components,
// separated by spaces, one word per line.
func LoadStaticEmbeddings(path string) (StaticEmbeddings, error) {
	emb := StaticEmbeddings{}
	if path == "" {
		return emb, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open embeddings: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		vec := make([]float32, len(fields)-1)
		for i, f := range fields[1:] {
			x, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("embeddings line %d: %w", line, err)
			}
			vec[i] = float32(x)
		}
		emb[fields[0]] = vec
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read embeddings: %w", err)
	}
	return emb, nil
}

// EmbedderEmbeddings fetches word vectors from an embedding API and memoises them, failures
// included, for the life of the process.
type EmbedderEmbeddings struct {
	Client llm.EmbedderClient

	mu    sync.Mutex
	cache map[string][]float32
	log   *logger.Logger
}

func NewEmbedderEmbeddings(client llm.EmbedderClient, log *logger.Logger) *EmbedderEmbeddings {
	return &EmbedderEmbeddings{
		Client: client,
		cache:  make(map[string][]float32),
		log:    logger.OrNop(log),
	}
}

func (e *EmbedderEmbeddings) Vector(ctx context.Context, word string) ([]float32, bool) {
	e.mu.Lock()
	v, ok := e.cache[word]
	e.mu.Unlock()
	if ok {
		return v, v != nil
	}

	v, err := e.Client.Embed(ctx, word)
	if err != nil {
		e.log.Warn("embedding failed", "word", word, "error", err)
		v = nil
	}
	e.mu.Lock()
	e.cache[word] = v
	e.mu.Unlock()
	return v, v != nil
}

// Cosine returns the cosine similarity of a and b, 0 when their sizes differ or either is zero.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	na := blasEngine.Snrm2(len(a), a, 1)
	nb := blasEngine.Snrm2(len(b), b, 1)
	if na == 0 || nb == 0 {
		return 0
	}
	return float64(blasEngine.Sdot(len(a), a, 1, b, 1)) / (float64(na) * float64(nb))
}
