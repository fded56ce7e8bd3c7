package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexvane/lexvane/pkg/search"
	"github.com/lexvane/lexvane/pkg/store"
	"github.com/lexvane/lexvane/pkg/wordgraph"
)

func allOf(conds ...search.Condition) search.Spec {
	return search.Spec{Conditions: conds, Conjunction: true}
}

func anyOf(conds ...search.Condition) search.Spec {
	return search.Spec{Conditions: conds}
}

func TestSearchPattern(t *testing.T) {
	eng := newTestEngine(t)
	spec := allOf(search.Condition{Type: search.PatternMatch, Str: "C?RE"})

	got, err := eng.Search(context.Background(), spec, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"CaRE", "CoRE"}, got, "blanks annotated lowercase")

	got, err = eng.Search(context.Background(), spec, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"CARE", "CORE"}, got)
}

func TestSearchAnagram(t *testing.T) {
	eng := newTestEngine(t)

	got, err := eng.Search(context.Background(),
		allOf(search.Condition{Type: search.AnagramMatch, Str: "AECR"}), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACRE", "CARE", "RACE"}, got)
}

func TestSearchStoreConditionsWithoutStore(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	got, err := eng.Search(ctx, allOf(
		search.Condition{Type: search.Length, Min: 4, Max: 4},
		search.Condition{Type: search.IncludeLetters, Str: "R"},
	), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACRE", "AREA", "CARE", "CARS", "CORE", "RACE"}, got)

	got, err = eng.Search(ctx, allOf(
		search.Condition{Type: search.Length, Min: 4, Max: 4},
		search.Condition{Type: search.IncludeLetters, Str: "R", Negated: true},
	), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACES", "LOOP", "QUIZ"}, got)

	got, err = eng.Search(ctx, allOf(
		search.Condition{Type: search.InWordList, Str: "CARE RACE ZZZ"},
	), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"CARE", "RACE"}, got)
}

func TestSearchPostConditions(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	got, err := eng.Search(ctx, allOf(
		search.Condition{Type: search.Length, Min: 3, Max: 4},
		search.Condition{Type: search.Suffix, Str: "S"},
	), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACE", "ACRE", "CAR"}, got,
		"only words whose -S extension is acceptable")

	got, err = eng.Search(ctx, allOf(
		search.Condition{Type: search.Length, Min: 3, Max: 3},
		search.Condition{Type: search.Suffix, Str: "S", Negated: true},
	), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ARC"}, got)

	got, err = eng.Search(ctx, allOf(
		search.Condition{Type: search.Prefix, Str: "R"},
	), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACE"}, got, "R + ACE = RACE")
}

func TestSearchHookGroup(t *testing.T) {
	eng := newTestEngine(t)

	got, err := eng.Search(context.Background(), allOf(
		search.Condition{Type: search.BelongToGroup, Str: "hook words"},
	), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACES", "ACRES", "CARE", "CARS", "RACE"}, got)
}

func TestSearchUnknownGroupSkipsCondition(t *testing.T) {
	eng := newTestEngine(t)

	got, err := eng.Search(context.Background(), allOf(
		search.Condition{Type: search.BelongToGroup, Str: "bogus group"},
	), true)
	require.NoError(t, err)
	assert.Len(t, got, testLexiconWords)
}

func TestSearchDisjunction(t *testing.T) {
	eng := newTestEngine(t)

	got, err := eng.Search(context.Background(), anyOf(
		search.Condition{Type: search.AnagramMatch, Str: "AECR"},
		search.Condition{Type: search.PatternMatch, Str: "Q*"},
	), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACRE", "CARE", "QUIZ", "RACE"}, got)
}

func TestSearchProbabilityWindow(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	anagrams := search.Condition{Type: search.AnagramMatch, Str: "AECR"}

	// ACRE, CARE and RACE share a combination count. A strict window
	// cuts inside the tie group exactly.
	got, err := eng.Search(ctx, allOf(anagrams,
		search.Condition{Type: search.LimitByProbabilityOrder, Min: 1, Max: 2},
	), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACRE", "CARE"}, got)

	// A lax window widens across the tie group.
	got, err = eng.Search(ctx, allOf(anagrams,
		search.Condition{Type: search.LimitByProbabilityOrder, Min: 1, Max: 2, Lax: true},
	), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACRE", "CARE", "RACE"}, got)

	// A strict lower bound beyond the result size clears it.
	got, err = eng.Search(ctx, allOf(anagrams,
		search.Condition{Type: search.LimitByProbabilityOrder, Min: 5, Max: 6},
	), true)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchProbabilityWindowOnEmptySet(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	// A wire request may omit the lower bound, leaving Min at zero.
	// The window must clear an already emptied candidate set instead
	// of slicing it.
	got, err := eng.Search(ctx, allOf(
		search.Condition{Type: search.Prefix, Str: "X"},
		search.Condition{Type: search.LimitByProbabilityOrder, Min: 0, Max: 5},
	), true)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchMalformedSpec(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.Search(ctx, search.Spec{}, true)
	assert.ErrorIs(t, err, search.ErrMalformedSpec)

	_, err = eng.Search(ctx, allOf(search.Condition{Type: search.PatternMatch}), true)
	assert.ErrorIs(t, err, search.ErrMalformedSpec)

	_, err = eng.Search(ctx, allOf(search.Condition{Type: search.Length, Min: 5, Max: 2}), true)
	assert.ErrorIs(t, err, search.ErrMalformedSpec)
}

func TestSearchSuffixPatternUsesReversedGraph(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	spec := allOf(search.Condition{Type: search.PatternMatch, Str: "*CE"})

	want, err := eng.Search(ctx, spec, true)
	require.NoError(t, err)
	require.Equal(t, []string{"ACE", "RACE"}, want)

	path := filepath.Join(t.TempDir(), "reversed.lxgw")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wordgraph.ReverseOf(eng.Graph()).SaveCompact(f))
	require.NoError(t, f.Close())
	require.NoError(t, eng.LoadCompactLexicon(path, "TEST", nil))
	assert.Equal(t, testLexiconWords, eng.NumWords(),
		"a reversed load must not replace the primary lexicon")

	got, err := eng.Search(ctx, spec, true)
	require.NoError(t, err)
	assert.Equal(t, want, got, "reversed-graph rewrite must not change results")
}

func TestSearchWithStore(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "words.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Build(ctx, eng.Graph(), eng.Bag(), func(w string) string {
		return eng.Definition(w, false)
	}))
	require.NoError(t, st.Close())

	require.NoError(t, eng.ConnectStore(dbPath))
	t.Cleanup(func() { eng.DisconnectStore() })

	got, err := eng.Search(ctx, allOf(
		search.Condition{Type: search.Length, Min: 4, Max: 4},
		search.Condition{Type: search.IncludeLetters, Str: "R"},
	), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACRE", "AREA", "CARE", "CARS", "CORE", "RACE"}, got,
		"store-backed results match the in-process fallback")

	assert.Equal(t, 3, eng.NumAnagrams("CARE"))
	assert.Equal(t, "r", eng.FrontHooks("ACE"))
	assert.Positive(t, eng.ProbabilityOrder("CARE"))
	assert.Equal(t, "to provide attention [v CARED, CARING, CARES]",
		eng.Definition("CARE", false))
}

func TestSearchStoreCandidatesKeepAnnotations(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "words.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Build(ctx, eng.Graph(), eng.Bag(), nil))
	require.NoError(t, st.Close())

	require.NoError(t, eng.ConnectStore(dbPath))
	t.Cleanup(func() { eng.DisconnectStore() })

	got, err := eng.Search(ctx, allOf(
		search.Condition{Type: search.PatternMatch, Str: "C?RE"},
		search.Condition{Type: search.NumVowels, Min: 2, Max: 2},
	), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"CaRE", "CoRE"}, got)
}
