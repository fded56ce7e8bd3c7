// Package wordgraph implements the in-memory lexicon index: a letter
// trie with nodes held in a flat arena and addressed by index, so
// shared structure never needs pointer lifetime reasoning. The graph
// answers membership, wildcard pattern, anagram, sub-anagram and
// consist-of queries, and round-trips through a checksummed compact
// binary form.
package wordgraph

import (
	"github.com/lexvane/lexvane/pkg/letters"
)

// node is one arena slot. Sibling chains are kept in ascending letter
// order so traversals and serialized forms are deterministic.
type node struct {
	Letter byte  `msgpack:"l"`
	EOW    bool  `msgpack:"e"`
	Next   int32 `msgpack:"n"`
	Child  int32 `msgpack:"c"`
}

// Graph owns an arena of trie nodes. Index 0 is the reserved null node.
// A Graph is built once per lexicon load and is read-only afterwards;
// concurrent readers need no locking.
type Graph struct {
	nodes    []node
	root     int32
	numWords int
	reversed bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make([]node, 1)}
}

// Reversed reports whether this graph stores reversed words, the
// encoding used for suffix-oriented queries.
func (g *Graph) Reversed() bool { return g.reversed }

// NumWords returns the number of words stored.
func (g *Graph) NumWords() int { return g.numWords }

// AddWord inserts a word, case-normalized. Inserting a word twice is a
// no-op. Words containing characters outside A-Z are rejected silently.
func (g *Graph) AddWord(word string) {
	w := letters.Normalize(word)
	if w == "" {
		return
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return
		}
	}

	parent := int32(0)
	for i := 0; i < len(w); i++ {
		parent = g.insertChild(parent, w[i])
	}
	if !g.nodes[parent].EOW {
		g.nodes[parent].EOW = true
		g.numWords++
	}
}

// insertChild finds or creates the child of parent carrying letter,
// keeping the sibling chain in letter order. parent 0 addresses the
// top-level chain.
func (g *Graph) insertChild(parent int32, letter byte) int32 {
	head := g.root
	if parent != 0 {
		head = g.nodes[parent].Child
	}

	var prev int32
	cur := head
	for cur != 0 && g.nodes[cur].Letter < letter {
		prev, cur = cur, g.nodes[cur].Next
	}
	if cur != 0 && g.nodes[cur].Letter == letter {
		return cur
	}

	g.nodes = append(g.nodes, node{Letter: letter, Next: cur})
	idx := int32(len(g.nodes) - 1)
	switch {
	case prev != 0:
		g.nodes[prev].Next = idx
	case parent != 0:
		g.nodes[parent].Child = idx
	default:
		g.root = idx
	}
	return idx
}

// ContainsWord reports exact membership, case-normalized.
func (g *Graph) ContainsWord(word string) bool {
	w := letters.Normalize(word)
	if w == "" {
		return false
	}
	cur := g.find(g.root, w)
	return cur != 0 && g.nodes[cur].EOW
}

// ContainsPrefix reports whether any stored word starts with the given
// prefix (a word is a prefix of itself).
func (g *Graph) ContainsPrefix(prefix string) bool {
	p := letters.Normalize(prefix)
	if p == "" {
		return false
	}
	return g.find(g.root, p) != 0
}

// find walks a sibling chain consuming the whole string, returning the
// final node index or 0.
func (g *Graph) find(chain int32, s string) int32 {
	cur := int32(0)
	for i := 0; i < len(s); i++ {
		cur = g.childWithLetter(chain, s[i])
		if cur == 0 {
			return 0
		}
		chain = g.nodes[cur].Child
	}
	return cur
}

func (g *Graph) childWithLetter(chain int32, letter byte) int32 {
	for n := chain; n != 0; n = g.nodes[n].Next {
		if g.nodes[n].Letter == letter {
			return n
		}
		if g.nodes[n].Letter > letter {
			return 0
		}
	}
	return 0
}

// Visit calls fn for every stored word in lexical order.
func (g *Graph) Visit(fn func(word string)) {
	buf := make([]byte, 0, 32)
	g.visitRec(g.root, buf, fn)
}

func (g *Graph) visitRec(chain int32, buf []byte, fn func(word string)) {
	for n := chain; n != 0; n = g.nodes[n].Next {
		buf = append(buf, g.nodes[n].Letter)
		if g.nodes[n].EOW {
			fn(string(buf))
		}
		g.visitRec(g.nodes[n].Child, buf, fn)
		buf = buf[:len(buf)-1]
	}
}

// Words returns every stored word in lexical order.
func (g *Graph) Words() []string {
	out := make([]string, 0, g.numWords)
	g.Visit(func(w string) { out = append(out, w) })
	return out
}
