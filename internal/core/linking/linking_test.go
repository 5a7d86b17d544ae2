package linking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/rellink/internal/amr"
	"github.com/agenthands/rellink/internal/config"
	"github.com/agenthands/rellink/internal/core/evidence"
	"github.com/agenthands/rellink/internal/core/lookup"
	"github.com/agenthands/rellink/internal/core/model"
)

func TestNormalizeSource(t *testing.T) {
	direct := model.ScoreSet{"sim": {"a": 2, "b": 4}, "other": {"a": 10}}
	inverse := model.ScoreSet{"sim": {"a": 6}, "other": {"c": 1}}

	d, i, err := NormalizeSource(direct, inverse, "sim")
	require.NoError(t, err)
	assert.Equal(t, model.ScoreMap{"a": 0, "b": 0.5}, d["sim"])
	assert.Equal(t, model.ScoreMap{"a": 1}, i["sim"])
	assert.Equal(t, model.ScoreMap{"a": 10}, d["other"])
	assert.Equal(t, model.ScoreMap{"c": 1}, i["other"])
	assert.Equal(t, model.ScoreMap{"a": 2, "b": 4}, direct["sim"], "inputs are not modified")
}

func TestNormalizeSource_EdgeCases(t *testing.T) {
	d, i, err := NormalizeSource(model.ScoreSet{"sim": {}}, model.ScoreSet{"sim": {}}, "sim")
	require.NoError(t, err)
	assert.Empty(t, d["sim"])
	assert.Empty(t, i["sim"])

	d, i, err = NormalizeSource(model.ScoreSet{"sim": {"a": 3}}, model.ScoreSet{"sim": {"b": 3}}, "sim")
	require.NoError(t, err)
	assert.Equal(t, model.ScoreMap{"a": 0}, d["sim"])
	assert.Equal(t, model.ScoreMap{"b": 0}, i["sim"])

	_, _, err = NormalizeSource(model.ScoreSet{"sim": {}}, model.ScoreSet{"other": {}}, "sim")
	assert.True(t, errors.Is(err, ErrSourceMismatch))
}

func TestUnifyMax(t *testing.T) {
	direct := model.ScoreSet{"stat": {"a": 1, "b": 3}, "x": {"a": 1}}
	inverse := model.ScoreSet{"stat": {"a": 2, "c": 1}, "x": {"b": 1}}

	UnifyMax(direct, inverse, "stat")

	want := model.ScoreMap{"a": 2, "b": 3, "c": 1}
	assert.Equal(t, want, direct["stat"])
	assert.Equal(t, want, inverse["stat"])
	assert.Equal(t, model.ScoreMap{"a": 1}, direct["x"])

	// unified even when the direct map is empty
	direct = model.ScoreSet{"stat": {}}
	inverse = model.ScoreSet{"stat": {"a": 1}}
	UnifyMax(direct, inverse, "stat")
	assert.Equal(t, model.ScoreMap{"a": 1}, direct["stat"])
}

func TestChooseDirection(t *testing.T) {
	d := model.ResponseItem{Triple: model.Triple{Predicate: "own-01.arg0.arg1"}, Score: 0.7}
	i := model.ResponseItem{Triple: model.Triple{Predicate: "own-01.arg1.arg0"}, Score: 0.6}
	assert.Equal(t, d, ChooseDirection(d, i))

	i.Score = 0.9
	assert.Equal(t, i, ChooseDirection(d, i))

	// a tie goes to the inverse orientation
	d.Score, i.Score = 0.6, 0.6
	assert.Equal(t, i, ChooseDirection(d, i))
}

func item(pred string, score float64, scores model.ScoreMap) model.ResponseItem {
	return model.ResponseItem{Triple: model.Triple{Predicate: pred}, Scores: scores, Score: score}
}

func TestPruneResponses(t *testing.T) {
	items := []model.ResponseItem{
		item("t1", 0.9, model.ScoreMap{"a": 0.9, "b": 0.5, "c": 0.1}),
		item("t2", 0.8, model.ScoreMap{"b": 0.8, "a": 0.7}),
		item("t3", 0.7, model.ScoreMap{"a": 0.7, "d": 0.6}),
		item("t4", 0, model.ScoreMap{}),
	}
	kept := PruneResponses(items)
	require.Len(t, kept, 2)
	assert.Equal(t, "t1", kept[0].Triple.Predicate)
	assert.Equal(t, "t3", kept[1].Triple.Predicate)

	assert.Empty(t, PruneResponses(nil))
}

func TestSortResponses_StableDescending(t *testing.T) {
	items := []model.ResponseItem{item("a", 0.5, nil), item("b", 0.9, nil), item("c", 0.5, nil)}
	SortResponses(items)
	assert.Equal(t, "b", items[0].Triple.Predicate)
	assert.Equal(t, "a", items[1].Triple.Predicate)
	assert.Equal(t, "c", items[2].Triple.Predicate)
}

func TestFinalRelations(t *testing.T) {
	labels := lookup.RelationLabels{"dbo:team": "team"}

	kept := []model.ResponseItem{
		item("t1", 3, model.ScoreMap{"dbp:team": 3, "dbo:league": 1}),
		item("t2", 2, model.ScoreMap{"dbp:team": 2, "dbo:coach": 1.5}),
	}
	// t2's top relation is taken already, so the merged scores fill the second slot
	got := FinalRelations(kept, 2, labels)
	assert.Equal(t, []string{"dbp:team", "dbo:coach", "dbo:team"}, got)

	got = FinalRelations(kept[:1], 1, labels)
	assert.Equal(t, []string{"dbp:team", "dbo:team"}, got)

	assert.Empty(t, FinalRelations(nil, 0, labels))
}

func TestFinalRelations_StopsAtBudget(t *testing.T) {
	kept := []model.ResponseItem{
		item("t1", 3, model.ScoreMap{"a": 3}),
		item("t2", 2, model.ScoreMap{"b": 2}),
		item("t3", 1, model.ScoreMap{"c": 1}),
	}
	assert.Equal(t, []string{"a", "b"}, FinalRelations(kept, 2, nil))
}

const ownExtended = `(o / own-01
   :ARG0 (a / amr-unknown)
   :ARG1 (t / team :name (n / name :op1 "Aston" :op2 "Villa")))
   :entities (e / entities :entity (e1 / entity :surface_form "Aston Villa" :uri "http://dbpedia.org/resource/Aston_Villa_F.C.")))`

func newTestService() (*Service, *MockSource, *MockSource, *MockSource) {
	stat := &MockSource{SourceName: evidence.Statistical, ScoreFunc: func(t model.Triple) model.ScoreMap {
		if t.Predicate == "own-01.arg0.arg1" {
			return model.ScoreMap{"dbo:owner": 3}
		}
		return model.ScoreMap{"dbo:owner": 1, "dbo:chairman": 0.5}
	}}
	kgs := &MockSource{SourceName: evidence.KGEntity, ScoreFunc: func(t model.Triple) model.ScoreMap {
		if t.SubjURI != "" {
			return model.ScoreMap{"dbo:owner": 2}
		}
		return model.ScoreMap{}
	}}
	ctxs := &MockSource{SourceName: evidence.Contextual, ScoreFunc: func(model.Triple) model.ScoreMap {
		return model.ScoreMap{"dbo:ground": 0.3}
	}}
	sim := &MockSource{SourceName: evidence.Similarity}

	cfg := config.Default().Linking
	answers := MockLookup{"Who owns Aston Villa?": {"http://dbpedia.org/ontology/Person"}}
	svc := NewService(cfg, []evidence.Source{kgs, ctxs, stat}, sim, answers, lookup.RelationLabels{}, nil)
	return svc, kgs, stat, sim
}

func TestService_Link(t *testing.T) {
	svc, kgs, _, sim := newTestService()

	res, err := svc.Link(context.Background(), "Who owns Aston Villa?", ownExtended)
	require.NoError(t, err)

	assert.Equal(t, []string{"dbo:owner"}, res.Relations)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Kept)

	// inverse wins: the kg source only scores the side with a linked subject
	chosen := res.Items[0]
	assert.Equal(t, "own-01.arg1.arg0", chosen.Triple.Predicate)
	assert.Equal(t, "http://dbpedia.org/resource/Aston_Villa_F.C.", chosen.Triple.SubjURI)
	assert.Equal(t, "dbo:Person", chosen.Triple.ObjTypeURI)
	assert.Equal(t, "Who owns Aston Villa?", chosen.Triple.Text)
	assert.InDelta(t, 5.0, chosen.Score, 1e-9)

	require.Len(t, kgs.Calls, 2)
	require.Len(t, sim.Params, 2)
	assert.Equal(t, []string{"dbo:owner"}, sim.Params[0].Candidates, "contextual relations are not candidates")
	assert.Equal(t, []string{"dbo:owner", "dbo:chairman"}, sim.Params[1].Candidates)
}

func TestService_Process(t *testing.T) {
	svc, _, _, _ := newTestService()
	rels, err := svc.Process(context.Background(), "Who owns Aston Villa?", ownExtended)
	require.NoError(t, err)
	assert.Equal(t, []string{"dbo:owner"}, rels)
}

func TestService_SkipsImperativeFrames(t *testing.T) {
	svc, kgs, _, _ := newTestService()

	res, err := svc.Link(context.Background(), "Give me all rivers.",
		`(g / give-01 :ARG1 (r / river) :ARG2 (i / i))`)
	require.NoError(t, err)
	assert.Empty(t, res.Relations)
	assert.Empty(t, res.Items)
	assert.Empty(t, kgs.Calls)
}

func TestService_LiteralSubjectGetsNoEvidence(t *testing.T) {
	svc, _, stat, _ := newTestService()
	ctx := context.Background()

	tr := model.Triple{SubjID: "a", UnknownVar: "a", AnswerDatatype: "DATE", Predicate: "own-01.arg0.arg1"}
	set := svc.ScoreTriple(ctx, tr, evidence.Params{})
	assert.Len(t, set, 4)
	for name, scores := range set {
		assert.Empty(t, scores, name)
	}
	assert.Empty(t, stat.Calls)
}

func TestService_ParseErrorPropagates(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.Process(context.Background(), "Who?", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, amr.ErrEmpty))
	assert.ErrorIs(t, err, ErrInvalidGraph)
}
