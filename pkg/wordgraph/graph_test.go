package wordgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildGraph(words ...string) *Graph {
	g := New()
	for _, w := range words {
		g.AddWord(w)
	}
	return g
}

func TestAddWordAndContains(t *testing.T) {
	g := buildGraph("CARE", "RACE", "CAR", "CARED")

	assert.Equal(t, 4, g.NumWords())
	assert.True(t, g.ContainsWord("CARE"))
	assert.True(t, g.ContainsWord("care"), "lookup is case-insensitive")
	assert.True(t, g.ContainsWord("CAR"))
	assert.False(t, g.ContainsWord("CARS"))
	assert.False(t, g.ContainsWord("CA"), "prefixes are not words")
	assert.False(t, g.ContainsWord(""))
}

func TestAddWordIdempotent(t *testing.T) {
	g := buildGraph("CARE", "CARE", "care")
	assert.Equal(t, 1, g.NumWords())
}

func TestAddWordRejectsNonLetters(t *testing.T) {
	g := buildGraph("CAFÉ", "IT'S", "")
	assert.Equal(t, 0, g.NumWords())
	assert.False(t, g.ContainsWord("CAFÉ"))
}

func TestContainsPrefix(t *testing.T) {
	g := buildGraph("CARE", "RACE")

	assert.True(t, g.ContainsPrefix("CA"))
	assert.True(t, g.ContainsPrefix("CARE"), "a word is its own prefix")
	assert.False(t, g.ContainsPrefix(""))
	assert.False(t, g.ContainsPrefix("CO"))
}

func TestWordsAreSortedAndComplete(t *testing.T) {
	g := buildGraph("RACE", "CARE", "ACRE", "CARED")
	assert.Equal(t, []string{"ACRE", "CARE", "CARED", "RACE"}, g.Words())
}

func TestVisitLexicalOrder(t *testing.T) {
	g := buildGraph("B", "A", "AB", "AA")

	var seen []string
	g.Visit(func(w string) { seen = append(seen, w) })
	assert.Equal(t, []string{"A", "AA", "AB", "B"}, seen)
}
