package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/rellink/internal/amr"
	"github.com/agenthands/rellink/internal/core/model"
)

func flatten(t *testing.T, sentence, penman string) *Result {
	t.Helper()
	g, err := amr.ParseOne(penman)
	require.NoError(t, err)
	res, err := Flatten(sentence, g)
	require.NoError(t, err)
	return res
}

func TestFlatten_FrameWithTwoArgs(t *testing.T) {
	res := flatten(t, "Who owns Aston Villa?", `(o / own-01
   :ARG0 (a / amr-unknown)
   :ARG1 (t / team :name (n / name :op1 "Aston" :op2 "Villa")))`)

	assert.Equal(t, "o", res.Top)
	assert.Equal(t, "a", res.UnknownVar)
	assert.Equal(t, map[string]string{"t": "Aston Villa"}, res.Names)
	assert.Equal(t, []model.Triple{{
		SubjID: "a", SubjType: "amr-unknown",
		Predicate: "own-01.arg0.arg1", PredicateID: "o",
		ObjID: "t", ObjText: "Aston Villa", ObjType: "team",
		UnknownVar: "a",
	}}, res.Triples)
}

func TestFlatten_SingleRoleGetsUnknown(t *testing.T) {
	res := flatten(t, "Who died?", `(d / die-01 :ARG1 (a / amr-unknown))`)

	require.Len(t, res.Triples, 1)
	tr := res.Triples[0]
	assert.Equal(t, "die-01.arg1.unknown", tr.Predicate)
	assert.Equal(t, "a", tr.SubjID)
	assert.Equal(t, "unknown", tr.ObjID)
	assert.Equal(t, "unknown", tr.ObjType)
}

func TestFlatten_SingleRoleSortingAfterUnknown(t *testing.T) {
	res := flatten(t, "What is the rating?", `(r / rate-01 :value (a / amr-unknown))`)

	require.Len(t, res.Triples, 1)
	tr := res.Triples[0]
	assert.Equal(t, "rate-01.unknown.value", tr.Predicate)
	assert.Equal(t, "unknown", tr.SubjID)
	assert.Equal(t, "unknown", tr.SubjType)
	assert.Equal(t, "a", tr.ObjID)
	assert.Equal(t, "amr-unknown", tr.ObjType)
}

func TestFlatten_ReifiedRoleCollapses(t *testing.T) {
	res := flatten(t, "Who is the mayor of Paris?", `(h / have-org-role-91
   :ARG0 (a / amr-unknown)
   :ARG1 (c / city :name (n / name :op1 "Paris"))
   :ARG2 (m / mayor))`)

	assert.Equal(t, map[string]string{"h": "mayor"}, res.Reified)
	require.Len(t, res.Triples, 1)
	assert.Equal(t, "have-org-role-91.arg0.arg1", res.Triples[0].Predicate)
	assert.Equal(t, "Paris", res.Triples[0].ObjText)
	assert.Equal(t, "city", res.Triples[0].ObjType)
}

func TestFlatten_ReifiedRoleKeptWithoutBothArgs(t *testing.T) {
	res := flatten(t, "Who is a mayor?", `(h / have-org-role-91
   :ARG0 (a / amr-unknown)
   :ARG2 (m / mayor))`)

	assert.Equal(t, "mayor", res.Reified["h"])
	require.Len(t, res.Triples, 1)
	assert.Equal(t, "have-org-role-91.arg0.arg2", res.Triples[0].Predicate)
	assert.Equal(t, "mayor", res.Triples[0].ObjType)
}

func TestFlatten_ReifiedFallbackRelation(t *testing.T) {
	res := flatten(t, "Who is related to Bob?", `(h / have-rel-role-91
   :ARG0 (a / amr-unknown)
   :ARG1 (p / person :name (n / name :op1 "Bob")))`)

	assert.Equal(t, "relation", res.Reified["h"])
}

func TestFlatten_ModCompoundAndUnknownRedesignation(t *testing.T) {
	res := flatten(t, "Which rivers flow through the highland region?", `(f / flow-01
   :ARG1 (r / river :mod (a / amr-unknown))
   :path (r2 / region :mod (h / highland)))`)

	assert.Equal(t, "r", res.UnknownVar)
	require.Len(t, res.Triples, 1, "resolved modifier must not produce its own triple")
	tr := res.Triples[0]
	assert.Equal(t, "flow-01.arg1.path", tr.Predicate)
	assert.Equal(t, "river", tr.SubjType)
	assert.Equal(t, "highland region", tr.ObjType)
	assert.Equal(t, "r", tr.UnknownVar)
}

func TestFlatten_PluralHeadFoldsModifier(t *testing.T) {
	res := flatten(t, "Which horror movies did Wes Craven direct?", `(d / direct-01
   :ARG0 (p / person :name (n / name :op1 "Wes" :op2 "Craven"))
   :ARG1 (m / movie :mod (h / horror) :mod (a / amr-unknown)))`)

	assert.Equal(t, "m", res.UnknownVar)
	for _, tr := range res.Triples {
		assert.NotEqual(t, "movie.mod", tr.Predicate)
	}
	require.Len(t, res.Triples, 1)
	tr := res.Triples[0]
	assert.Equal(t, "direct-01.arg0.arg1", tr.Predicate)
	assert.Equal(t, "Wes Craven", tr.SubjText)
	assert.Equal(t, "horror movie", tr.ObjType)
}

func TestFlatten_ConjunctionKeepsLastConjunctInFrame(t *testing.T) {
	res := flatten(t, "When were Alice and Bob born?", `(b / bear-02
   :ARG1 (x / and
      :op1 (p / person :name (n / name :op1 "Alice"))
      :op2 (p2 / person :name (n2 / name :op1 "Bob")))
   :time (a / amr-unknown))`)

	assert.Equal(t, map[string]string{"p": "Alice", "p2": "Bob"}, res.Names)
	require.Len(t, res.Triples, 1)
	tr := res.Triples[0]
	assert.Equal(t, "bear-02.arg1.time", tr.Predicate)
	assert.Equal(t, "p2", tr.SubjID)
	assert.Equal(t, "Bob", tr.SubjText)
	assert.Equal(t, "a", tr.ObjID)
}

func TestFlatten_DateAndNonFrameEdge(t *testing.T) {
	res := flatten(t, "What happened on 5 May 2000?", `(e / event
   :time (d / date-entity :day 5 :month 5 :year 2000)
   :mod (a / amr-unknown))`)

	assert.Equal(t, "e", res.UnknownVar)
	assert.Equal(t, []model.Triple{{
		SubjID: "e", SubjType: "event",
		Predicate: "event.time", PredicateID: "e",
		ObjID: "d", ObjText: "5/May/2000", ObjType: "5/May/2000",
		UnknownVar: "e",
	}}, res.Triples)
}

func TestFlatten_InterrogativeDropped(t *testing.T) {
	res := flatten(t, "Is Paris a city?", `(c / city
   :domain (p / city :name (n / name :op1 "Paris"))
   :mode interrogative)`)

	for _, tr := range res.Triples {
		assert.NotEqual(t, "interrogative", tr.ObjType)
	}
	require.Len(t, res.Triples, 1)
	assert.Equal(t, "city.domain", res.Triples[0].Predicate)
	assert.Equal(t, "Paris", res.Triples[0].ObjText)
}

func TestFlatten_IsDeterministic(t *testing.T) {
	penman := `(g / give-01
   :ARG1 (p / person
      :ARG0-of (l / lead-02 :ARG1 (c / country :name (n / name :op1 "France")))
      :location (c2 / city :name (n2 / name :op1 "Lyon"))
      :time (d / date-entity :year 1990))
   :ARG2 (y / you)
   :mode imperative)`
	first := flatten(t, "Give me the leaders of France in Lyon in 1990.", penman)
	for i := 0; i < 20; i++ {
		again := flatten(t, "Give me the leaders of France in Lyon in 1990.", penman)
		assert.Equal(t, first.Triples, again.Triples)
	}
	assert.NotEmpty(t, first.Triples)
}

func TestFlatten_NilGraph(t *testing.T) {
	_, err := Flatten("x", nil)
	assert.ErrorIs(t, err, ErrNilGraph)
}

func TestLemmatize(t *testing.T) {
	cases := map[string]string{
		"rivers":   "river",
		"cities":   "city",
		"boxes":    "box",
		"churches": "church",
		"classes":  "class",
		"movies":   "movie",
		"ties":     "tie",
		"lies":     "lie",
		"buses":    "bus",
		"gases":    "gas",
		"people":   "person",
		"Villa":    "Villa",
		"bus":      "bus",
		"analysis": "analysis",
	}
	for in, want := range cases {
		assert.Equal(t, want, Lemmatize(in), in)
	}
	assert.Equal(t, []string{"Which", "river", "flow"}, Tokens("Which rivers flow?"))
}

func TestSingular(t *testing.T) {
	cases := map[string]string{
		"movies":   "movie",
		"ties":     "tie",
		"lies":     "lie",
		"cities":   "city",
		"buses":    "bus",
		"gases":    "gas",
		"churches": "church",
		"rivers":   "river",
		"analysis": "analysis",
	}
	for in, want := range cases {
		assert.Equal(t, want, singular(in), in)
	}
}
