package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/kg"
	"github.com/agenthands/rellink/internal/logger"
	"github.com/agenthands/rellink/internal/metrics"
)

const backendSPARQL = "sparql"

// strict listings are capped; entity listings are not
const strictListingLimit = " LIMIT 200"

// SPARQLClient talks to a SPARQL 1.1 endpoint with JSON results.
type SPARQLClient struct {
	Endpoint string
	HTTP     *http.Client
	log      *logger.Logger
}

func NewSPARQLClient(endpoint string, timeout time.Duration, log *logger.Logger) *SPARQLClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SPARQLClient{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: timeout},
		log:      logger.OrNop(log).With("oracle", backendSPARQL),
	}
}

type sparqlResponse struct {
	Boolean *bool `json:"boolean"`
	Results struct {
		Bindings []map[string]struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// Ask sends the existence query for edges.
func (c *SPARQLClient) Ask(ctx context.Context, edges []model.Edge) (bool, error) {
	resp, err := c.query(ctx, kg.AskQuery(edges))
	if err != nil {
		metrics.OracleQueries.WithLabelValues(backendSPARQL, "error").Inc()
		return false, err
	}
	if resp.Boolean == nil {
		metrics.OracleQueries.WithLabelValues(backendSPARQL, "error").Inc()
		return false, fmt.Errorf("sparql ask: response has no boolean")
	}
	metrics.OracleQueries.WithLabelValues(backendSPARQL, fmt.Sprint(*resp.Boolean)).Inc()
	return *resp.Boolean, nil
}

// ListProperties runs the property listing query for p and returns the properties as curies.
func (c *SPARQLClient) ListProperties(ctx context.Context, p kg.PropertyPattern) ([]string, error) {
	if p.IsEmpty() {
		return nil, nil
	}
	q := kg.SelectQuery(p)
	if p.Strict {
		q += strictListingLimit
	}
	resp, err := c.query(ctx, q)
	if err != nil {
		return nil, err
	}
	props := make([]string, 0, len(resp.Results.Bindings))
	for _, b := range resp.Results.Bindings {
		if v, ok := b["prop"]; ok {
			props = append(props, kg.Curie(v.Value))
		}
	}
	return props, nil
}

func (c *SPARQLClient) query(ctx context.Context, q string) (*sparqlResponse, error) {
	form := url.Values{"query": {q}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("sparql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	start := time.Now()
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sparql request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("sparql response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sparql endpoint returned %d: %s", res.StatusCode, truncate(string(body), 200))
	}

	var out sparqlResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("sparql response: %w", err)
	}
	c.log.Debug("sparql query", "query", q, "elapsed", time.Since(start))
	return &out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
