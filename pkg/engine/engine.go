// Package engine orchestrates lexicon searches: it classifies the
// conditions of a specification across the in-memory word graph, the
// attribute store and in-process post filters, runs only the stages a
// query needs, and merges, orders and caches the results. It also
// serves word attributes, recursive definition resolution and prefix
// suggestions for a loaded lexicon.
package engine

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/lexvane/lexvane/pkg/letters"
	"github.com/lexvane/lexvane/pkg/store"
	"github.com/lexvane/lexvane/pkg/wordgraph"
)

// Engine holds one loaded lexicon. The graph and the attribute store
// are built once per load and read-only afterwards; loads swap the
// whole index atomically, so concurrent readers never observe a
// partially built lexicon.
type Engine struct {
	mu             sync.RWMutex
	graph          *wordgraph.Graph
	rgraph         *wordgraph.Graph
	st             *store.Store
	bag            *letters.Bag
	lexicon        string
	numAnagrams    map[string]int
	definitions    map[string][]defSegment
	stems          map[int][]string
	stemAlphagrams map[int]map[string]bool
	suggestions    *patricia.Trie
	cache          *infoCache
}

// New returns an engine with an empty lexicon, ranking probabilities
// against the given letter bag.
func New(bag *letters.Bag) *Engine {
	return &Engine{
		graph:          wordgraph.New(),
		bag:            bag,
		numAnagrams:    make(map[string]int),
		definitions:    make(map[string][]defSegment),
		stems:          make(map[int][]string),
		stemAlphagrams: make(map[int]map[string]bool),
		suggestions:    patricia.NewTrie(),
		cache:          newInfoCache(),
	}
}

// LexiconName returns the identity of the loaded lexicon.
func (e *Engine) LexiconName() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lexicon
}

// NumWords returns the word count of the loaded lexicon, preferring
// the attribute store's count when one is connected.
func (e *Engine) NumWords() int {
	e.mu.RLock()
	st, g := e.st, e.graph
	e.mu.RUnlock()

	if st != nil {
		if n, err := st.Count(context.Background()); err == nil {
			return n
		}
	}
	return g.NumWords()
}

// IsAcceptable reports exact membership of a word in the lexicon.
func (e *Engine) IsAcceptable(word string) bool {
	e.mu.RLock()
	g := e.graph
	e.mu.RUnlock()
	return g.ContainsWord(word)
}

// Bag returns the reference letter bag.
func (e *Engine) Bag() *letters.Bag { return e.bag }

// LoadTextLexicon imports a plain word list: one word per line, an
// optional trailing definition, '#' comments skipped. The new index is
// built aside and swapped in atomically once complete. Returns the
// number of entries accepted.
func (e *Engine) LoadTextLexicon(path, name string, loadDefinitions bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open word list %q: %w", path, err)
	}
	defer f.Close()

	g := wordgraph.New()
	defs := make(map[string][]defSegment)
	anagrams := make(map[string]int)
	trie := patricia.NewTrie()

	imported, err := g.LoadText(f, func(word, definition string) {
		if trie.Insert(patricia.Prefix(word), e.bag.Combinations(word)) {
			anagrams[letters.Alphagram(word)]++
		}
		if loadDefinitions && definition != "" {
			defs[word] = append(defs[word], parseDefinition(definition)...)
		}
	})
	if err != nil {
		return imported, err
	}

	e.mu.Lock()
	e.graph = g
	e.rgraph = nil
	e.lexicon = name
	e.definitions = defs
	e.numAnagrams = anagrams
	e.suggestions = trie
	e.mu.Unlock()
	e.cache.invalidate()

	log.Debugf("loaded text lexicon %q: %d entries, %d words", name, imported, g.NumWords())
	return imported, nil
}

// LoadCompactLexicon loads a compact serialized word graph, verifying
// the embedded checksum and, when non-nil, the caller's expected one.
// A reversed graph is installed as the secondary suffix index and
// never replaces the primary lexicon identity.
func (e *Engine) LoadCompactLexicon(path, name string, expectedChecksum *uint32) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open word graph %q: %w", path, err)
	}
	defer f.Close()

	g, err := wordgraph.LoadCompact(f, expectedChecksum)
	if err != nil {
		return fmt.Errorf("load word graph %q: %w", path, err)
	}

	if g.Reversed() {
		e.mu.Lock()
		e.rgraph = g
		e.mu.Unlock()
		log.Debugf("loaded reversed word graph: %d words", g.NumWords())
		return nil
	}

	anagrams := make(map[string]int, g.NumWords())
	trie := patricia.NewTrie()
	g.Visit(func(w string) {
		anagrams[letters.Alphagram(w)]++
		trie.Insert(patricia.Prefix(w), e.bag.Combinations(w))
	})

	e.mu.Lock()
	e.graph = g
	e.lexicon = name
	e.definitions = make(map[string][]defSegment)
	e.numAnagrams = anagrams
	e.suggestions = trie
	e.mu.Unlock()
	e.cache.invalidate()

	log.Debugf("loaded compact lexicon %q: %d words", name, g.NumWords())
	return nil
}

// ConnectStore attaches the attribute store backing this lexicon. Any
// cached attributes from a previous store are dropped wholesale.
func (e *Engine) ConnectStore(path string) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	e.mu.Lock()
	old := e.st
	e.st = st
	e.mu.Unlock()
	e.cache.invalidate()

	if old != nil {
		if err := old.Close(); err != nil {
			log.Warnf("closing previous attribute store: %v", err)
		}
	}
	return nil
}

// DisconnectStore detaches the attribute store. Attribute-dependent
// conditions degrade to no-ops afterwards.
func (e *Engine) DisconnectStore() error {
	e.mu.Lock()
	old := e.st
	e.st = nil
	e.mu.Unlock()
	e.cache.invalidate()

	if old != nil {
		return old.Close()
	}
	return nil
}

// Graph returns the primary word graph.
func (e *Engine) Graph() *wordgraph.Graph {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph
}

// Store returns the connected attribute store, or nil.
func (e *Engine) Store() *store.Store {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st
}

// Info returns a word's attributes, from the per-batch cache when
// possible, otherwise from the attribute store. Without a store the
// zero value is returned; accessors fall back to computed values.
func (e *Engine) Info(word string) store.WordInfo {
	w := letters.Normalize(word)
	if w == "" {
		return store.WordInfo{}
	}
	if info, ok := e.cache.get(w); ok {
		return info
	}

	st := e.Store()
	if st == nil {
		return store.WordInfo{}
	}
	info, err := st.Lookup(context.Background(), w)
	if err != nil {
		log.Warnf("attribute lookup for %q: %v", w, err)
		return store.WordInfo{}
	}
	if info.Valid() {
		e.cache.put(info)
	}
	return info
}

// NumVowels returns the word's vowel count, computed when the store
// has no row for it.
func (e *Engine) NumVowels(word string) int {
	if info := e.Info(word); info.Valid() {
		return info.NumVowels
	}
	return letters.NumVowels(word)
}

// NumUniqueLetters returns the word's distinct letter count.
func (e *Engine) NumUniqueLetters(word string) int {
	if info := e.Info(word); info.Valid() {
		return info.NumUniqueLetters
	}
	return letters.NumUniqueLetters(word)
}

// PointValue returns the word's tile point value.
func (e *Engine) PointValue(word string) int {
	if info := e.Info(word); info.Valid() {
		return info.PointValue
	}
	return letters.PointValue(word)
}

// NumAnagrams returns how many lexicon words share the word's
// alphagram, from the store or the import-time alphagram counts.
func (e *Engine) NumAnagrams(word string) int {
	if info := e.Info(word); info.Valid() {
		return info.NumAnagrams
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.numAnagrams[letters.Alphagram(word)]
}

// ProbabilityOrder returns the word's exact probability rank within
// its length group, 0 when unknown.
func (e *Engine) ProbabilityOrder(word string) int {
	return e.Info(word).ProbabilityOrder
}
