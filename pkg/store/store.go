// Package store is the read-only attribute store adapter: a single
// sqlite relation keyed by word, holding the per-word numeric and text
// attributes the in-memory index cannot answer. The only write path is
// the wholesale Build import; searches translate a condition subset
// into one predicate query.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lexvane/lexvane/pkg/letters"
	"github.com/lexvane/lexvane/pkg/search"
)

// WordInfo is the per-word attribute row.
type WordInfo struct {
	Word                string  `db:"word"`
	Length              int     `db:"length"`
	ProbabilityOrder    int     `db:"probability_order"`
	MinProbabilityOrder int     `db:"min_probability_order"`
	MaxProbabilityOrder int     `db:"max_probability_order"`
	Combinations        float64 `db:"combinations"`
	NumVowels           int     `db:"num_vowels"`
	NumUniqueLetters    int     `db:"num_unique_letters"`
	NumAnagrams         int     `db:"num_anagrams"`
	PointValue          int     `db:"point_value"`
	FrontHooks          string  `db:"front_hooks"`
	BackHooks           string  `db:"back_hooks"`
	Definition          string  `db:"definition"`
}

// Valid reports whether the row was actually populated.
func (w WordInfo) Valid() bool { return w.Word != "" }

// Store wraps the sqlite connection.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the sqlite file at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open attribute store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup fetches one word's attributes. A missing word is not an
// error; the zero WordInfo is returned.
func (s *Store) Lookup(ctx context.Context, word string) (WordInfo, error) {
	var info WordInfo
	err := s.db.GetContext(ctx, &info,
		"SELECT * FROM words WHERE word = ?", letters.Normalize(word))
	if errors.Is(err, sql.ErrNoRows) {
		return WordInfo{}, nil
	}
	if err != nil {
		return WordInfo{}, fmt.Errorf("lookup word %q: %w", word, err)
	}
	return info, nil
}

// BatchLookup fetches attributes for a batch of words in one query.
func (s *Store) BatchLookup(ctx context.Context, words []string) ([]WordInfo, error) {
	if len(words) == 0 {
		return nil, nil
	}
	upper := make([]string, len(words))
	for i, w := range words {
		upper[i] = letters.Normalize(w)
	}
	query, args, err := sqlx.In("SELECT * FROM words WHERE word IN (?)", upper)
	if err != nil {
		return nil, fmt.Errorf("build batch lookup: %w", err)
	}
	var infos []WordInfo
	if err := s.db.SelectContext(ctx, &infos, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("batch lookup %d words: %w", len(words), err)
	}
	return infos, nil
}

// Count returns the number of rows in the relation.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT count(*) FROM words"); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}

var rangeColumns = map[search.ConditionType]string{
	search.Length:           "length",
	search.NumVowels:        "num_vowels",
	search.NumUniqueLetters: "num_unique_letters",
	search.PointValue:       "point_value",
	search.NumAnagrams:      "num_anagrams",
}

// Search translates the store-capable subset of the conditions into a
// single predicate and runs it. When a candidate word set is supplied
// the predicate additionally restricts to it; candidates are matched
// case-insensitively and results keep the caller's original casing.
func (s *Store) Search(ctx context.Context, conds []search.Condition, conjunction bool, candidates []string) ([]string, error) {
	var clauses []string
	var args []any

	for _, c := range conds {
		if c.Type.Stage() != search.StageStore {
			continue
		}
		switch c.Type {
		case search.ProbabilityOrder:
			if c.Lax {
				clauses = append(clauses,
					"(max_probability_order >= ? AND min_probability_order <= ?)")
				args = append(args, c.Min, c.Max)
			} else if c.Min == c.Max {
				clauses = append(clauses, "probability_order = ?")
				args = append(args, c.Min)
			} else {
				clauses = append(clauses,
					"(probability_order >= ? AND probability_order <= ?)")
				args = append(args, c.Min, c.Max)
			}

		case search.Length, search.NumVowels, search.NumUniqueLetters,
			search.PointValue, search.NumAnagrams:
			col := rangeColumns[c.Type]
			if c.Min == c.Max {
				clauses = append(clauses, col+" = ?")
				args = append(args, c.Min)
			} else {
				clauses = append(clauses,
					fmt.Sprintf("(%s >= ? AND %s <= ?)", col, col))
				args = append(args, c.Min, c.Max)
			}

		case search.IncludeLetters:
			var parts []string
			for _, r := range letters.Normalize(c.Str) {
				op := "LIKE"
				if c.Negated {
					op = "NOT LIKE"
				}
				parts = append(parts, "word "+op+" ?")
				args = append(args, "%"+string(r)+"%")
			}
			clauses = append(clauses, "("+strings.Join(parts, " AND ")+")")

		case search.InWordList:
			words := strings.Fields(letters.Normalize(c.Str))
			op := "IN"
			if c.Negated {
				op = "NOT IN"
			}
			marks := strings.TrimSuffix(strings.Repeat("?,", len(words)), ",")
			clauses = append(clauses, fmt.Sprintf("word %s (%s)", op, marks))
			for _, w := range words {
				args = append(args, w)
			}
		}
	}

	if len(clauses) == 0 {
		return append([]string(nil), candidates...), nil
	}

	joiner := " AND "
	if !conjunction {
		joiner = " OR "
	}
	query := "SELECT word FROM words WHERE (" + strings.Join(clauses, joiner) + ")"

	// Candidates restrict the result regardless of the combination
	// mode, preserving the caller's casing on the way back out.
	upperToOriginal := make(map[string]string, len(candidates))
	if len(candidates) > 0 {
		marks := strings.TrimSuffix(strings.Repeat("?,", len(candidates)), ",")
		query += " AND word IN (" + marks + ")"
		for _, w := range candidates {
			upper := letters.Normalize(w)
			upperToOriginal[upper] = w
			args = append(args, upper)
		}
	}

	var rows []string
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("attribute search: %w", err)
	}

	out := make([]string, 0, len(rows))
	for _, w := range rows {
		if orig, ok := upperToOriginal[w]; ok {
			w = orig
		}
		out = append(out, w)
	}
	return out, nil
}
