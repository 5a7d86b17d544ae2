//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/driver"
	"github.com/agenthands/rellink/internal/kg"
	"github.com/agenthands/rellink/internal/validation"
)

func sparqlClient(t *testing.T) *driver.SPARQLClient {
	t.Helper()
	_ = godotenv.Load("../../.env")

	endpoint := os.Getenv("SPARQL_ENDPOINT")
	if endpoint == "" {
		t.Skip("Skipping integration test: SPARQL_ENDPOINT not set")
	}
	return driver.NewSPARQLClient(endpoint, 60*time.Second, nil)
}

func TestSPARQLAsk(t *testing.T) {
	c := sparqlClient(t)
	ctx := context.Background()

	ok, err := c.Ask(ctx, []model.Edge{{Subject: "<" + kg.ResourceNS + "Barack_Obama>", Predicate: "dbo:birthPlace", Object: "?uri"}})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Ask(ctx, []model.Edge{{Subject: "<" + kg.ResourceNS + "Barack_Obama>", Predicate: "dbo:numberOfPages", Object: "?uri"}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSPARQLListProperties(t *testing.T) {
	c := sparqlClient(t)

	props, err := c.ListProperties(context.Background(), kg.PropertyPattern{
		Subj: kg.ResourceNS + "Intel",
		Obj:  kg.ResourceNS + "Gordon_Moore",
	})
	require.NoError(t, err)
	assert.Contains(t, kg.FilterRelations(props), "dbo:foundedBy")
}

func TestSPARQLValidateQuestion(t *testing.T) {
	c := sparqlClient(t)
	v := validation.NewValidator(c, nil, 0, nil)

	q := validation.Question{
		ID:   "intel",
		Text: "Who founded Intel?",
		Paths: []validation.Path{
			{A1AMR: "i", A2AMR: "a", A1KG: "<" + kg.ResourceNS + "Intel>", A2KG: "?uri", Relation: "founder"},
		},
	}
	out := v.ValidateQuestion(context.Background(), q, 1, false)
	require.NotEmpty(t, out.ValidatedTriples)
	assert.Equal(t, "a", out.KGToNode["?uri"])
}
