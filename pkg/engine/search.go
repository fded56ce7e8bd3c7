package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lexvane/lexvane/pkg/letters"
	"github.com/lexvane/lexvane/pkg/search"
)

// Search runs a composite specification through the staged pipeline:
// graph conditions over the in-memory word graph, store conditions
// over the attribute store restricted to the graph candidates, then
// in-process post filters and probability-order windowing. Results
// carry lowercase blank annotations unless allCaps is set. A non-empty
// result repopulates the attribute cache in one batch.
func (e *Engine) Search(ctx context.Context, spec search.Spec, allCaps bool) ([]string, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	opt := spec.Optimize()

	var (
		words []string
		err   error
	)
	if !opt.Conjunction && len(opt.Conditions) > 1 {
		words, err = e.searchAny(ctx, opt)
	} else {
		words, err = e.searchAll(ctx, opt)
	}
	if err != nil {
		return nil, err
	}

	if allCaps {
		for i, w := range words {
			words[i] = letters.Normalize(w)
		}
	}
	e.repopulateCache(ctx, words)
	return words, nil
}

// searchAll evaluates a conjunctive spec stage by stage.
func (e *Engine) searchAll(ctx context.Context, spec search.Spec) ([]string, error) {
	var graphConds, storeConds, postConds []search.Condition
	storeAllInferred := true
	for _, c := range spec.Conditions {
		switch c.Type.Stage() {
		case search.StageGraph:
			graphConds = append(graphConds, c)
		case search.StageStore:
			storeConds = append(storeConds, c)
			if !c.Inferred() {
				storeAllInferred = false
			}
		case search.StagePost:
			postConds = append(postConds, c)
		}
	}

	// An inferred Length bound adds no selectivity beyond the graph
	// condition it was derived from, so a store round trip for it
	// alone is wasted work.
	if len(graphConds) > 0 && len(storeConds) > 0 && storeAllInferred {
		storeConds = nil
	}

	var words []string
	ranGraph := false
	if len(graphConds) > 0 || len(storeConds) == 0 {
		words = e.graphStage(graphConds)
		ranGraph = true
		if len(words) == 0 {
			return nil, nil
		}
	}

	if len(storeConds) > 0 {
		st := e.Store()
		if st == nil {
			log.Debugf("no attribute store connected, filtering %d conditions in process", len(storeConds))
			if !ranGraph {
				words = e.graphStage(nil)
			}
			words = e.filterStoreConds(words, storeConds)
		} else {
			var candidates []string
			if ranGraph {
				candidates = words
			}
			var err error
			words, err = st.Search(ctx, storeConds, true, candidates)
			if err != nil {
				return nil, err
			}
		}
		if len(words) == 0 {
			return nil, nil
		}
	}

	var limitConds []search.Condition
	for _, c := range postConds {
		if c.Type == search.LimitByProbabilityOrder {
			limitConds = append(limitConds, c)
			continue
		}
		words = e.filterPostCond(words, c)
	}

	if len(limitConds) > 0 {
		return e.probabilityWindow(words, limitConds), nil
	}
	sortResults(words)
	return words, nil
}

// searchAny evaluates a disjunctive spec as the union of its conditions
// each run through the conjunctive pipeline on its own.
func (e *Engine) searchAny(ctx context.Context, spec search.Spec) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, c := range spec.Conditions {
		words, err := e.searchAll(ctx, search.Spec{
			Conditions:  []search.Condition{c},
			Conjunction: true,
		})
		if err != nil {
			return nil, err
		}
		for _, w := range words {
			if !seen[w] {
				seen[w] = true
				out = append(out, w)
			}
		}
	}
	sortResults(out)
	return out, nil
}

// graphStage searches the word graph. A lone suffix-shaped pattern is
// rewritten against the reversed graph when one is loaded, turning a
// pathological leading-wildcard walk into a prefix walk.
func (e *Engine) graphStage(graphConds []search.Condition) []string {
	e.mu.RLock()
	g, rg := e.graph, e.rgraph
	e.mu.RUnlock()

	if rg != nil && len(graphConds) == 1 && suffixShaped(graphConds[0]) {
		c := graphConds[0]
		c.Str = reverseOperand(c.Str)
		matches := rg.Search(search.Spec{Conditions: []search.Condition{c}, Conjunction: true})
		words := make([]string, len(matches))
		for i, m := range matches {
			words[i] = reverseAnnotated(m.Annotated)
		}
		sortResults(words)
		return words
	}

	matches := g.Search(search.Spec{Conditions: graphConds, Conjunction: true})
	words := make([]string, len(matches))
	for i, m := range matches {
		words[i] = m.Annotated
	}
	return words
}

// suffixShaped reports whether a pattern condition is a single leading
// star followed only by literals and '?' blanks.
func suffixShaped(c search.Condition) bool {
	if c.Type != search.PatternMatch || c.Negated {
		return false
	}
	s := letters.Normalize(c.Str)
	if len(s) < 2 || s[0] != '*' {
		return false
	}
	for i := 1; i < len(s); i++ {
		ch := s[i]
		if ch != letters.Blank && (ch < 'A' || ch > 'Z') {
			return false
		}
	}
	return true
}

func reverseOperand(pattern string) string {
	s := letters.Normalize(pattern)
	rest := []byte(s[1:])
	for i, j := 0, len(rest)-1; i < j; i, j = i+1, j-1 {
		rest[i], rest[j] = rest[j], rest[i]
	}
	return string(rest) + "*"
}

func reverseAnnotated(word string) string {
	b := []byte(word)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// filterStoreConds evaluates store-stage conditions in process when no
// attribute store is connected. Probability-order conditions need the
// precomputed rank columns and are skipped with a warning.
func (e *Engine) filterStoreConds(words []string, conds []search.Condition) []string {
	out := words[:0]
	for _, w := range words {
		upper := letters.Normalize(w)
		keep := true
		for _, c := range conds {
			if !e.matchesStoreCond(upper, c) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, w)
		}
	}
	return out
}

func (e *Engine) matchesStoreCond(word string, c search.Condition) bool {
	inRange := func(v int) bool { return v >= c.Min && v <= c.Max }

	switch c.Type {
	case search.Length:
		return inRange(len(word))
	case search.NumVowels:
		return inRange(e.NumVowels(word))
	case search.NumUniqueLetters:
		return inRange(e.NumUniqueLetters(word))
	case search.PointValue:
		return inRange(e.PointValue(word))
	case search.NumAnagrams:
		return inRange(e.NumAnagrams(word))
	case search.IncludeLetters:
		for _, r := range letters.Normalize(c.Str) {
			if strings.ContainsRune(word, r) == c.Negated {
				return false
			}
		}
		return true
	case search.InWordList:
		listed := false
		for _, lw := range strings.Fields(letters.Normalize(c.Str)) {
			if lw == word {
				listed = true
				break
			}
		}
		return listed != c.Negated
	case search.ProbabilityOrder:
		log.Warnf("probability order condition needs an attribute store, skipping")
		return true
	}
	return true
}

// filterPostCond applies one post-stage condition to an annotated
// word list. Unknown group names never match anything.
func (e *Engine) filterPostCond(words []string, c search.Condition) []string {
	var group wordGroup
	if c.Type == search.BelongToGroup {
		group = parseGroup(c.Str)
		if group == groupUnknown {
			log.Warnf("unknown word group %q, skipping condition", c.Str)
			return words
		}
	}

	out := words[:0]
	for _, w := range words {
		upper := letters.Normalize(w)
		var match bool
		switch c.Type {
		case search.Prefix:
			match = e.IsAcceptable(letters.Normalize(c.Str) + upper)
		case search.Suffix:
			match = e.IsAcceptable(upper + letters.Normalize(c.Str))
		case search.BelongToGroup:
			match = e.inGroup(upper, group)
		default:
			match = true
		}
		if match != c.Negated {
			out = append(out, w)
		}
	}
	return out
}

// probabilityWindow keeps the words inside the merged probability-order
// window. Strict and lax bounds accumulate separately: the working
// window starts at the tightest combination of both and then widens
// back toward the strict bounds across words with equal combination
// counts, so a tie group is never split by a lax bound.
func (e *Engine) probabilityWindow(words []string, conds []search.Condition) []string {
	if len(words) == 0 {
		return nil
	}
	const unbounded = 1 << 30
	strictMin, strictMax := 0, unbounded
	laxMin, laxMax := 0, unbounded
	legacy := false
	for _, c := range conds {
		if c.Lax {
			if c.Min > laxMin {
				laxMin = c.Min
			}
			if c.Max < laxMax {
				laxMax = c.Max
			}
		} else {
			if c.Min > strictMin {
				strictMin = c.Min
			}
			if c.Max < strictMax {
				strictMax = c.Max
			}
		}
		if c.Legacy {
			legacy = true
		}
	}

	if strictMin > len(words) || laxMin > len(words) {
		return nil
	}

	clamp := func(v int) int {
		v-- // 1-based to 0-based
		if v < 0 {
			v = 0
		}
		if v > len(words)-1 {
			v = len(words) - 1
		}
		return v
	}
	strictMin0, strictMax0 := clamp(strictMin), clamp(strictMax)
	laxMin0, laxMax0 := clamp(laxMin), clamp(laxMax)

	lo := strictMin0
	if laxMin0 > lo {
		lo = laxMin0
	}
	hi := strictMax0
	if laxMax0 < hi {
		hi = laxMax0
	}
	if lo > hi {
		return nil
	}

	type ranked struct {
		combos    float64
		alphagram string
		upper     string
		word      string
	}
	rows := make([]ranked, len(words))
	for i, w := range words {
		upper := letters.Normalize(w)
		rows[i] = ranked{
			combos:    e.bag.Combinations(upper),
			alphagram: letters.Alphagram(upper),
			upper:     upper,
			word:      w,
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.combos != b.combos {
			return a.combos > b.combos
		}
		if !legacy && a.alphagram != b.alphagram {
			return a.alphagram < b.alphagram
		}
		if a.upper != b.upper {
			return a.upper < b.upper
		}
		return a.word < b.word
	})

	for lo > 0 && lo > strictMin0 && rows[lo-1].combos == rows[lo].combos {
		lo--
	}
	for hi < len(rows)-1 && hi < strictMax0 && rows[hi+1].combos == rows[hi].combos {
		hi++
	}

	out := make([]string, 0, hi-lo+1)
	for _, r := range rows[lo : hi+1] {
		out = append(out, r.word)
	}
	return out
}

// repopulateCache replaces the attribute cache contents with one batch
// lookup of the result set.
func (e *Engine) repopulateCache(ctx context.Context, words []string) {
	st := e.Store()
	if st == nil || len(words) == 0 {
		return
	}
	uppers := make([]string, len(words))
	for i, w := range words {
		uppers[i] = letters.Normalize(w)
	}
	infos, err := st.BatchLookup(ctx, uppers)
	if err != nil {
		log.Debugf("result cache refresh failed: %v", err)
		return
	}
	e.cache.invalidate()
	e.cache.putAll(infos)
}

// sortResults orders annotated words alphabetically, ignoring blank
// annotations first and using them only to break ties.
func sortResults(words []string) {
	sort.Slice(words, func(i, j int) bool {
		a, b := letters.Normalize(words[i]), letters.Normalize(words[j])
		if a != b {
			return a < b
		}
		return words[i] < words[j]
	})
}

// FrontHooks returns the letters that extend a word at the front into
// another acceptable word, lowercase ascending.
func (e *Engine) FrontHooks(word string) string {
	if info := e.Info(word); info.Valid() {
		return info.FrontHooks
	}
	return e.hooks(letters.Normalize(word), true)
}

// BackHooks returns the letters that extend a word at the back into
// another acceptable word, lowercase ascending.
func (e *Engine) BackHooks(word string) string {
	if info := e.Info(word); info.Valid() {
		return info.BackHooks
	}
	return e.hooks(letters.Normalize(word), false)
}

func (e *Engine) hooks(word string, front bool) string {
	var b strings.Builder
	for c := byte('A'); c <= 'Z'; c++ {
		ext := word + string(c)
		if front {
			ext = string(c) + word
		}
		if e.IsAcceptable(ext) {
			b.WriteByte(c - 'A' + 'a')
		}
	}
	return b.String()
}
