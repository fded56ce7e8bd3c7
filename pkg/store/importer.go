package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	"github.com/lexvane/lexvane/pkg/letters"
	"github.com/lexvane/lexvane/pkg/wordgraph"
)

const schema = `
DROP TABLE IF EXISTS words;
CREATE TABLE words (
	word TEXT PRIMARY KEY,
	length INTEGER NOT NULL,
	probability_order INTEGER NOT NULL,
	min_probability_order INTEGER NOT NULL,
	max_probability_order INTEGER NOT NULL,
	combinations REAL NOT NULL,
	num_vowels INTEGER NOT NULL,
	num_unique_letters INTEGER NOT NULL,
	num_anagrams INTEGER NOT NULL,
	point_value INTEGER NOT NULL,
	front_hooks TEXT NOT NULL DEFAULT '',
	back_hooks TEXT NOT NULL DEFAULT '',
	definition TEXT NOT NULL DEFAULT ''
);
CREATE INDEX words_length ON words (length);
CREATE INDEX words_probability ON words (length, probability_order);
`

const insertWord = `
INSERT INTO words (word, length, probability_order, min_probability_order,
	max_probability_order, combinations, num_vowels, num_unique_letters,
	num_anagrams, point_value, front_hooks, back_hooks, definition)
VALUES (:word, :length, :probability_order, :min_probability_order,
	:max_probability_order, :combinations, :num_vowels, :num_unique_letters,
	:num_anagrams, :point_value, :front_hooks, :back_hooks, :definition)`

// Build rebuilds the relation wholesale from a loaded word graph and
// letter bag: the schema is dropped and recreated, then every word is
// inserted with its computed attributes. definitionOf may be nil when
// no definition source is available. This is the import operation the
// engine's read path assumes has already run; there is no incremental
// update.
func (s *Store) Build(ctx context.Context, g *wordgraph.Graph, bag *letters.Bag, definitionOf func(word string) string) error {
	words := g.Words()
	log.Debugf("building attribute store for %d words", len(words))

	rows := computeRows(g, bag, words, definitionOf)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import transaction: %w", err)
	}
	if err := buildInTx(ctx, tx, rows); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback import: %w (original error: %v)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	log.Debugf("attribute store build complete")
	return nil
}

func buildInTx(ctx context.Context, tx *sqlx.Tx, rows []WordInfo) error {
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	for i := range rows {
		if _, err := tx.NamedExecContext(ctx, insertWord, &rows[i]); err != nil {
			return fmt.Errorf("insert word %q: %w", rows[i].Word, err)
		}
	}
	return nil
}

// computeRows derives every attribute column. Probability order is
// assigned within each word length, most combinations first; words
// with equal combination counts form a tie group sharing the min/max
// order columns.
func computeRows(g *wordgraph.Graph, bag *letters.Bag, words []string, definitionOf func(string) string) []WordInfo {
	anagramCounts := make(map[string]int, len(words))
	for _, w := range words {
		anagramCounts[letters.Alphagram(w)]++
	}

	rows := make([]WordInfo, len(words))
	byLength := make(map[int][]*WordInfo)
	for i, w := range words {
		def := ""
		if definitionOf != nil {
			def = definitionOf(w)
		}
		rows[i] = WordInfo{
			Word:             w,
			Length:           len(w),
			Combinations:     bag.Combinations(w),
			NumVowels:        letters.NumVowels(w),
			NumUniqueLetters: letters.NumUniqueLetters(w),
			NumAnagrams:      anagramCounts[letters.Alphagram(w)],
			PointValue:       letters.PointValue(w),
			FrontHooks:       hookLetters(g, w, true),
			BackHooks:        hookLetters(g, w, false),
			Definition:       def,
		}
		byLength[len(w)] = append(byLength[len(w)], &rows[i])
	}

	for _, group := range byLength {
		sort.Slice(group, func(i, j int) bool {
			a, b := group[i], group[j]
			if a.Combinations != b.Combinations {
				return a.Combinations > b.Combinations
			}
			aa, ba := letters.Alphagram(a.Word), letters.Alphagram(b.Word)
			if aa != ba {
				return aa < ba
			}
			return a.Word < b.Word
		})
		for i := 0; i < len(group); {
			j := i
			for j < len(group) && group[j].Combinations == group[i].Combinations {
				j++
			}
			for k := i; k < j; k++ {
				group[k].ProbabilityOrder = k + 1
				group[k].MinProbabilityOrder = i + 1
				group[k].MaxProbabilityOrder = j
			}
			i = j
		}
	}
	return rows
}

// hookLetters collects the letters that extend a word into another
// valid word, lowercase ascending. Lexical visit order of the sibling
// chain already yields ascending letters.
func hookLetters(g *wordgraph.Graph, word string, front bool) string {
	hooks := make([]byte, 0, 4)
	for c := byte('A'); c <= 'Z'; c++ {
		candidate := word + string(c)
		if front {
			candidate = string(c) + word
		}
		if g.ContainsWord(candidate) {
			hooks = append(hooks, c-'A'+'a')
		}
	}
	return string(hooks)
}
