//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/driver"
	"github.com/agenthands/rellink/internal/kg"
)

func memgraphOracle(t *testing.T) *driver.MemgraphOracle {
	t.Helper()
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}
	ctx := context.Background()
	d, err := driver.NewMemgraphDriver(ctx, uri, os.Getenv("MEMGRAPH_USER"), os.Getenv("MEMGRAPH_PASSWORD"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close(context.Background()) })
	require.NoError(t, d.BuildIndices(ctx))
	return driver.NewMemgraphOracle(d, nil)
}

func TestMemgraphMirror(t *testing.T) {
	o := memgraphOracle(t)
	ctx := context.Background()

	// Fresh resources so reruns do not see earlier data.
	run := uuid.NewString()
	company := kg.ResourceNS + "Company_" + run
	founder := kg.ResourceNS + "Founder_" + run
	city := kg.ResourceNS + "City_" + run

	before, err := o.CountStatements(ctx)
	require.NoError(t, err)

	err = o.SaveStatements(ctx, []driver.Statement{
		{Subject: company, Predicate: "dbo:foundedBy", Object: founder},
		{Subject: founder, Predicate: "dbo:birthPlace", Object: city},
		{Subject: founder, Predicate: driver.RDFType, Object: kg.OntologyNS + "Person"},
	}, 2)
	require.NoError(t, err)

	after, err := o.CountStatements(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+3, after)

	t.Run("ask single edge", func(t *testing.T) {
		ok, err := o.Ask(ctx, []model.Edge{{Subject: "<" + company + ">", Predicate: "dbo:foundedBy", Object: "?uri"}})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = o.Ask(ctx, []model.Edge{{Subject: "<" + company + ">", Predicate: "dbo:birthPlace", Object: "?uri"}})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ask two hops", func(t *testing.T) {
		ok, err := o.Ask(ctx, []model.Edge{
			{Subject: "<" + company + ">", Predicate: "dbo:foundedBy", Object: "?x"},
			{Subject: "?x", Predicate: "dbo:birthPlace", Object: "<" + city + ">"},
		})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("list properties", func(t *testing.T) {
		props, err := o.ListProperties(ctx, kg.PropertyPattern{Subj: founder})
		require.NoError(t, err)
		assert.Contains(t, props, "dbo:birthPlace")

		props, err = o.ListProperties(ctx, kg.PropertyPattern{Subj: company, Obj: founder})
		require.NoError(t, err)
		assert.Equal(t, []string{"dbo:foundedBy"}, props)

		props, err = o.ListProperties(ctx, kg.PropertyPattern{Obj: company, SubjType: "dbo:Person", Strict: true})
		require.NoError(t, err)
		assert.Empty(t, props)
	})
}
