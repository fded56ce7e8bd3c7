package wordgraph

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lexvane/lexvane/pkg/letters"
	"github.com/lexvane/lexvane/pkg/search"
)

// Match is one word produced by a graph search. Blanks holds the
// letters bound to wildcard markers of the query, lowercase and in
// ascending order; bindings are independent per result, so the same
// word may appear once per distinct resolution. Annotated renders the
// word with bound letters lowercased in place.
type Match struct {
	Word      string
	Blanks    string
	Annotated string
}

// Search evaluates the conditions this index can answer: PatternMatch,
// AnagramMatch, SubanagramMatch and ConsistOf. All other condition
// types are ignored, never rejected; when the spec carries no
// recognized condition the full word set is returned, the broadest
// correct superset, and filtering is left to the caller.
func (g *Graph) Search(spec search.Spec) []Match {
	combined := make(map[string]Match)
	first := true
	recognized := 0

	for _, cond := range spec.Conditions {
		var set map[string]Match
		switch cond.Type {
		case search.PatternMatch:
			set = g.patternMatches(cond.Str)
		case search.AnagramMatch:
			set = g.anagramMatches(cond.Str, false)
		case search.SubanagramMatch:
			set = g.anagramMatches(cond.Str, true)
		case search.ConsistOf:
			set = g.consistOfMatches(cond.Str, cond.Min, cond.Max)
		default:
			continue
		}
		recognized++

		if cond.Negated {
			set = g.complement(set)
		}

		if first {
			combined = set
			first = false
			continue
		}
		if spec.Conjunction {
			combined = intersectByWord(combined, set)
			if len(combined) == 0 {
				break
			}
		} else {
			for k, m := range set {
				if _, ok := combined[k]; !ok {
					combined[k] = m
				}
			}
		}
	}

	if recognized == 0 {
		combined = make(map[string]Match)
		g.Visit(func(w string) {
			combined[w+"|"] = Match{Word: w, Annotated: w}
		})
	}

	out := make([]Match, 0, len(combined))
	for _, m := range combined {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Word != out[j].Word {
			return out[i].Word < out[j].Word
		}
		return out[i].Blanks < out[j].Blanks
	})
	return out
}

func matchKey(word, blanks string) string { return word + "|" + blanks }

func intersectByWord(acc, set map[string]Match) map[string]Match {
	words := make(map[string]bool, len(set))
	for _, m := range set {
		words[m.Word] = true
	}
	out := make(map[string]Match)
	for k, m := range acc {
		if words[m.Word] {
			out[k] = m
		}
	}
	return out
}

// complement returns all stored words not present in set, without
// annotations: a negated wildcard query has no bindings to report.
func (g *Graph) complement(set map[string]Match) map[string]Match {
	excluded := make(map[string]bool, len(set))
	for _, m := range set {
		excluded[m.Word] = true
	}
	out := make(map[string]Match)
	g.Visit(func(w string) {
		if !excluded[w] {
			out[matchKey(w, "")] = Match{Word: w, Annotated: w}
		}
	})
	return out
}

// ---- pattern matching ----

const (
	tokLiteral = iota
	tokAny     // ?
	tokStar    // *
	tokGroup   // [...] or [^...]
)

type patternToken struct {
	kind   int
	letter byte
	set    [26]bool
	negate bool
}

func (t patternToken) matches(letter byte) bool {
	switch t.kind {
	case tokLiteral:
		return t.letter == letter
	case tokAny, tokStar:
		return true
	case tokGroup:
		in := t.set[letter-'A']
		if t.negate {
			return !in
		}
		return in
	}
	return false
}

// parsePattern tokenizes a pattern operand. A malformed pattern (an
// unclosed group or a stray character) yields a nil token list, which
// matches nothing.
func parsePattern(pattern string) []patternToken {
	p := letters.Normalize(pattern)
	toks := make([]patternToken, 0, len(p))
	for i := 0; i < len(p); i++ {
		switch c := p[i]; {
		case c == letters.Blank:
			toks = append(toks, patternToken{kind: tokAny})
		case c == '*':
			toks = append(toks, patternToken{kind: tokStar})
		case c == '[':
			tok := patternToken{kind: tokGroup}
			i++
			if i < len(p) && p[i] == '^' {
				tok.negate = true
				i++
			}
			closed := false
			for ; i < len(p); i++ {
				if p[i] == ']' {
					closed = true
					break
				}
				if p[i] < 'A' || p[i] > 'Z' {
					return nil
				}
				tok.set[p[i]-'A'] = true
			}
			if !closed {
				log.Debugf("unclosed group in pattern %q", pattern)
				return nil
			}
			toks = append(toks, tok)
		case c >= 'A' && c <= 'Z':
			toks = append(toks, patternToken{kind: tokLiteral, letter: c})
		default:
			return nil
		}
	}
	return toks
}

func (g *Graph) patternMatches(pattern string) map[string]Match {
	toks := parsePattern(pattern)
	out := make(map[string]Match)
	if toks == nil {
		return out
	}
	if head := literalHead(toks); head != "" && !g.ContainsPrefix(head) {
		return out
	}
	buf := make([]byte, 0, 32)
	var blanks []byte
	g.patternDFS(g.root, toks, 0, buf, blanks, out)
	return out
}

// literalHead returns the run of literal letters a pattern starts with.
// No stored word carrying that prefix means no match is possible, so
// the walk can be skipped outright.
func literalHead(toks []patternToken) string {
	head := make([]byte, 0, len(toks))
	for _, t := range toks {
		if t.kind != tokLiteral {
			break
		}
		head = append(head, t.letter)
	}
	return string(head)
}

// remainingOptional reports whether every token from ti onward can
// match the empty string.
func remainingOptional(toks []patternToken, ti int) bool {
	for ; ti < len(toks); ti++ {
		if toks[ti].kind != tokStar {
			return false
		}
	}
	return true
}

// patternDFS walks the trie and the token list together. Letters
// consumed by wildcards are annotated lowercase in buf and recorded as
// bindings; literals stay upper case.
func (g *Graph) patternDFS(chain int32, toks []patternToken, ti int, buf, blanks []byte, out map[string]Match) {
	if ti >= len(toks) {
		return
	}
	tok := toks[ti]

	if tok.kind == tokStar {
		// The star may match zero letters.
		g.patternDFS(chain, toks, ti+1, buf, blanks, out)
		for n := chain; n != 0; n = g.nodes[n].Next {
			letter := g.nodes[n].Letter
			b2 := append(buf, letter-'A'+'a')
			bl2 := append(blanks, letter)
			if g.nodes[n].EOW && remainingOptional(toks, ti+1) {
				emitMatch(b2, bl2, out)
			}
			// Stay on the star, letting it absorb further letters.
			g.patternDFS(g.nodes[n].Child, toks, ti, b2, bl2, out)
		}
		return
	}

	for n := chain; n != 0; n = g.nodes[n].Next {
		letter := g.nodes[n].Letter
		if !tok.matches(letter) {
			continue
		}
		b2 := buf
		bl2 := blanks
		if tok.kind == tokLiteral {
			b2 = append(b2, letter)
		} else {
			b2 = append(b2, letter-'A'+'a')
			bl2 = append(bl2, letter)
		}
		if g.nodes[n].EOW && remainingOptional(toks, ti+1) {
			emitMatch(b2, bl2, out)
		}
		g.patternDFS(g.nodes[n].Child, toks, ti+1, b2, bl2, out)
	}
}

func emitMatch(annotated, blanks []byte, out map[string]Match) {
	sorted := append([]byte(nil), blanks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	lower := strings.ToLower(string(sorted))
	word := strings.ToUpper(string(annotated))
	key := matchKey(word, lower)
	if _, ok := out[key]; !ok {
		out[key] = Match{Word: word, Blanks: lower, Annotated: string(annotated)}
	}
}

// ---- anagram / sub-anagram matching ----

// ParseRack splits an anagram operand into its letter counts, the
// number of blank markers and whether a '*' allows unbounded extra
// letters. ok is false for operands with other characters.
func ParseRack(operand string) (need [26]int, blanks int, wild bool, ok bool) {
	for _, r := range letters.Normalize(operand) {
		switch {
		case r >= 'A' && r <= 'Z':
			need[r-'A']++
		case r == letters.Blank:
			blanks++
		case r == '*':
			wild = true
		default:
			return need, 0, false, false
		}
	}
	return need, blanks, wild, true
}

func (g *Graph) anagramMatches(operand string, subanagram bool) map[string]Match {
	out := make(map[string]Match)
	need, blanks, wild, ok := ParseRack(operand)
	if !ok {
		return out
	}
	needTotal := 0
	for _, n := range need {
		needTotal += n
	}
	buf := make([]byte, 0, 32)
	var bound []byte
	g.anagramDFS(g.root, &need, needTotal, blanks, wild, subanagram, buf, bound, out)
	return out
}

// anagramDFS consumes trie letters from the operand multiset, from
// blanks, or (when wild) as extras. A full anagram completes at an
// end-of-word node once every operand letter and blank is consumed; a
// sub-anagram completes at every end-of-word node it can reach.
func (g *Graph) anagramDFS(chain int32, need *[26]int, needTotal, blanks int, wild, subanagram bool, buf, bound []byte, out map[string]Match) {
	for n := chain; n != 0; n = g.nodes[n].Next {
		letter := g.nodes[n].Letter
		li := letter - 'A'

		if need[li] > 0 {
			need[li]--
			b2 := append(buf, letter)
			complete := subanagram || (needTotal-1 == 0 && blanks == 0)
			if g.nodes[n].EOW && complete {
				emitMatch(b2, bound, out)
			}
			g.anagramDFS(g.nodes[n].Child, need, needTotal-1, blanks, wild, subanagram, b2, bound, out)
			need[li]++
		}

		if blanks > 0 {
			b2 := append(buf, letter-'A'+'a')
			bl2 := append(bound, letter)
			complete := subanagram || (needTotal == 0 && blanks-1 == 0)
			if g.nodes[n].EOW && complete {
				emitMatch(b2, bl2, out)
			}
			g.anagramDFS(g.nodes[n].Child, need, needTotal, blanks-1, wild, subanagram, b2, bl2, out)
		}

		if wild && need[li] == 0 && blanks == 0 {
			// Extras are only taken once the operand is spent for this
			// letter, keeping resolutions canonical.
			b2 := append(buf, letter-'A'+'a')
			bl2 := append(bound, letter)
			complete := subanagram || needTotal == 0
			if g.nodes[n].EOW && complete {
				emitMatch(b2, bl2, out)
			}
			g.anagramDFS(g.nodes[n].Child, need, needTotal, blanks, wild, subanagram, b2, bl2, out)
		}
	}
}

// ---- consist-of matching ----

// consistOfMatches keeps words whose percentage of letters drawn from
// the operand set lies within [min, max].
func (g *Graph) consistOfMatches(operand string, min, max int) map[string]Match {
	var set [26]bool
	for _, r := range letters.Normalize(operand) {
		if r >= 'A' && r <= 'Z' {
			set[r-'A'] = true
		}
	}
	out := make(map[string]Match)
	g.Visit(func(w string) {
		in := 0
		for i := 0; i < len(w); i++ {
			if set[w[i]-'A'] {
				in++
			}
		}
		pct := in * 100 / len(w)
		if pct >= min && pct <= max {
			out[matchKey(w, "")] = Match{Word: w, Annotated: w}
		}
	})
	return out
}
