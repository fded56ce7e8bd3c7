package engine

import (
	"sort"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/lexvane/lexvane/pkg/letters"
)

// Suggestion is one prefix-completion candidate ranked by how likely
// its letters are to be drawn from the configured bag.
type Suggestion struct {
	Word         string
	Combinations float64
}

// Suggest returns up to limit words starting with the given prefix,
// ordered by descending combination count then alphabetically.
func (e *Engine) Suggest(prefix string, limit int) []Suggestion {
	if limit <= 0 {
		return nil
	}
	p := letters.Normalize(prefix)
	if p == "" {
		return nil
	}

	e.mu.RLock()
	trie := e.suggestions
	e.mu.RUnlock()
	if trie == nil {
		return nil
	}

	var out []Suggestion
	trie.VisitSubtree(patricia.Prefix(p), func(prefix patricia.Prefix, item patricia.Item) error {
		combos, _ := item.(float64)
		out = append(out, Suggestion{Word: string(prefix), Combinations: combos})
		return nil
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Combinations != out[j].Combinations {
			return out[i].Combinations > out[j].Combinations
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
