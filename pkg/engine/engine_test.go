package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexvane/lexvane/pkg/letters"
)

const testLexicon = `# small test lexicon
ACE a playing card [n ACES]
ACES {ACE=n} / to perform well [v]
ACRE a unit of area [n ACRES]
ACRES <ACRE=n>
ARC a curved line [n ARCS]
AREA a region [n AREAS]
CAR a motor vehicle [n CARS]
CARE to provide attention [v CARED, CARING, CARES]
CARS {CAR=n}
CORE the central part [n CORES]
LOOP {LOOP=v} again [v]
QUIZ a short test [n QUIZZES]
RACE to compete in speed [v RACED, RACING, RACES]
`

const testLexiconWords = 13

// newTestEngine loads the test lexicon, definitions included, over the
// standard tile distribution.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(testLexicon), 0o644))

	eng := New(letters.MustBag(letters.DefaultDistribution))
	n, err := eng.LoadTextLexicon(path, "TEST", true)
	require.NoError(t, err)
	require.Equal(t, testLexiconWords, n)
	return eng
}

func TestLoadTextLexicon(t *testing.T) {
	eng := newTestEngine(t)

	assert.Equal(t, "TEST", eng.LexiconName())
	assert.Equal(t, testLexiconWords, eng.NumWords())
	assert.True(t, eng.IsAcceptable("CARE"))
	assert.True(t, eng.IsAcceptable("care"))
	assert.False(t, eng.IsAcceptable("ZZZ"))
	assert.False(t, eng.IsAcceptable(""))
}

func TestNumAnagramsWithoutStore(t *testing.T) {
	eng := newTestEngine(t)

	assert.Equal(t, 3, eng.NumAnagrams("CARE"), "ACRE, CARE, RACE share an alphagram")
	assert.Equal(t, 3, eng.NumAnagrams("acre"))
	assert.Equal(t, 1, eng.NumAnagrams("QUIZ"))
	assert.Equal(t, 0, eng.NumAnagrams("ZZZ"))
}

func TestComputedAttributesWithoutStore(t *testing.T) {
	eng := newTestEngine(t)

	assert.Equal(t, 2, eng.NumVowels("CARE"))
	assert.Equal(t, 3, eng.NumUniqueLetters("AREA"))
	assert.Equal(t, 22, eng.PointValue("QUIZ"))
	assert.Equal(t, 0, eng.ProbabilityOrder("CARE"), "ranks need an attribute store")
}

func TestHooksWithoutStore(t *testing.T) {
	eng := newTestEngine(t)

	assert.Equal(t, "r", eng.FrontHooks("ACE"), "RACE")
	assert.Equal(t, "s", eng.BackHooks("ACE"), "ACES")
	assert.Equal(t, "es", eng.BackHooks("CAR"), "CARE and CARS")
	assert.Equal(t, "", eng.FrontHooks("CARE"))
}

func TestSuggest(t *testing.T) {
	eng := newTestEngine(t)

	got := eng.Suggest("ca", 10)
	words := make([]string, len(got))
	for i, s := range got {
		words[i] = s.Word
	}
	assert.ElementsMatch(t, []string{"CAR", "CARE", "CARS"}, words)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Combinations, got[i].Combinations,
			"ranked by descending combinations")
	}

	assert.Len(t, eng.Suggest("CA", 2), 2)
	assert.Equal(t, "QUIZ", eng.Suggest("Q", 5)[0].Word)
	assert.Nil(t, eng.Suggest("", 5))
	assert.Nil(t, eng.Suggest("CA", 0))
	assert.Empty(t, eng.Suggest("X", 5))
}

func TestImportStems(t *testing.T) {
	eng := newTestEngine(t)
	dir := t.TempDir()

	first := filepath.Join(dir, "stems3.txt")
	require.NoError(t, os.WriteFile(first,
		[]byte("# three-letter stems\n\nARE\near\nAREA\n"), 0o644))

	n, err := eng.ImportStems(first)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "AREA is discarded once ARE fixes the length")
	assert.Equal(t, 2, eng.StemCount(3))
	assert.Equal(t, 0, eng.StemCount(4))

	// A second file of the same length merges additively.
	second := filepath.Join(dir, "more3.txt")
	require.NoError(t, os.WriteFile(second, []byte("TEA\n"), 0o644))
	n, err = eng.ImportStems(second)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, eng.StemCount(3))

	assert.True(t, eng.hasStemWithin("ARES", 3), "dropping S leaves the ARE alphagram")
	assert.True(t, eng.hasStemWithin("EARN", 3))
	assert.False(t, eng.hasStemWithin("QUIZ", 3))
	assert.False(t, eng.hasStemWithin("AREAS", 3), "length must be stem length plus one")
}

func TestImportStemsEmptyFile(t *testing.T) {
	eng := newTestEngine(t)

	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing here\n\n"), 0o644))

	n, err := eng.ImportStems(path)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestParseGroup(t *testing.T) {
	tests := []struct {
		name string
		want wordGroup
	}{
		{"hook words", groupHookWords},
		{"Front Hooks", groupFrontHooks},
		{"  back hooks  ", groupBackHooks},
		{"Type I Sevens", groupTypeOneSevens},
		{"type ii sevens", groupTypeTwoSevens},
		{"type iii sevens", groupTypeThreeSevens},
		{"Type I Eights", groupTypeOneEights},
		{"type ii eights", groupTypeTwoEights},
		{"type iii eights", groupTypeThreeEights},
		{"Eights From Seven-Letter Stems", groupEightsFromSevenStems},
		{"bogus group", groupUnknown},
		{"", groupUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseGroup(tt.name), tt.name)
	}
}

func TestHookGroups(t *testing.T) {
	eng := newTestEngine(t)

	assert.True(t, eng.inGroup("RACE", groupFrontHooks), "ACE")
	assert.False(t, eng.inGroup("RACE", groupBackHooks))
	assert.True(t, eng.inGroup("CARS", groupBackHooks), "CAR")
	assert.True(t, eng.inGroup("CARS", groupHookWords))
	assert.False(t, eng.inGroup("QUIZ", groupHookWords))
	assert.False(t, eng.inGroup("A", groupHookWords))
	assert.False(t, eng.inGroup("CARE", groupUnknown))
}

func TestDrawableFrom(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"AREA", true},
		{"GOOIEST", true},
		{"HUNTERS", false}, // no H in the pool
		{"AAAA", false},    // only three As
		{"", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, drawableFrom(tt.word, typeTwoLetters), tt.word)
	}
}

func TestTypeGroupsPartitionSevens(t *testing.T) {
	eng := newTestEngine(t)

	racks := []string{"HUNTERS", "AAAAAAA", "ALIENOR", "GOOIEST", "QWYJAZZ"}
	for _, rack := range racks {
		one := eng.inGroup(rack, groupTypeOneSevens)
		two := eng.inGroup(rack, groupTypeTwoSevens)
		three := eng.inGroup(rack, groupTypeThreeSevens)
		n := 0
		for _, b := range []bool{one, two, three} {
			if b {
				n++
			}
		}
		assert.Equal(t, 1, n, "%s must fall in exactly one type", rack)
	}

	// The boundary rack meets its own threshold.
	assert.True(t, eng.inGroup("HUNTERS", groupTypeOneSevens))
	assert.False(t, eng.inGroup("AAAAAAA", groupTypeTwoSevens), "not drawable from the pool")

	assert.False(t, eng.inGroup("CARE", groupTypeOneSevens))
	assert.False(t, eng.inGroup("NOTIFIED", groupTypeOneSevens), "eight letters")
}

func TestTypeGroupsPartitionEights(t *testing.T) {
	eng := newTestEngine(t)

	racks := []string{"NOTIFIED", "AAAAAAAA", "GOOIESTS", "QUIZZING"}
	for _, rack := range racks {
		one := eng.inGroup(rack, groupTypeOneEights)
		two := eng.inGroup(rack, groupTypeTwoEights)
		three := eng.inGroup(rack, groupTypeThreeEights)
		n := 0
		for _, b := range []bool{one, two, three} {
			if b {
				n++
			}
		}
		assert.Equal(t, 1, n, "%s must fall in exactly one type", rack)
	}

	assert.True(t, eng.inGroup("NOTIFIED", groupTypeOneEights))
	assert.False(t, eng.inGroup("HUNTERS", groupTypeOneEights), "seven letters")
}

func TestEightsFromSevenStems(t *testing.T) {
	eng := newTestEngine(t)

	assert.False(t, eng.inGroup("HAUNTERS", groupEightsFromSevenStems),
		"no stems imported yet")

	path := filepath.Join(t.TempDir(), "stems7.txt")
	require.NoError(t, os.WriteFile(path, []byte("HUNTERS\n"), 0o644))
	_, err := eng.ImportStems(path)
	require.NoError(t, err)

	assert.True(t, eng.inGroup("HAUNTERS", groupEightsFromSevenStems),
		"dropping the A leaves the HUNTERS alphagram")
	assert.False(t, eng.inGroup("QUIZZING", groupEightsFromSevenStems))
	assert.False(t, eng.inGroup("HUNTERS", groupEightsFromSevenStems), "not an eight")
}
