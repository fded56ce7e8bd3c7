// Package cli handles cmd line input for DBG and testing lexicon queries in real-time
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lexvane/lexvane/pkg/engine"
	"github.com/lexvane/lexvane/pkg/search"
)

// InputHandler processes user input from stdin, running one lexicon
// query per line. It accepts flags to control result count and casing.
type InputHandler struct {
	eng          *engine.Engine
	resultLimit  int
	allCaps      bool
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(eng *engine.Engine, limit int, allCaps bool) *InputHandler {
	return &InputHandler{
		eng:         eng,
		resultLimit: limit,
		allCaps:     allCaps,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Printf("Lexvane CLI, lexicon %s (%d words)", h.eng.LexiconName(), h.eng.NumWords())
	log.Print("commands: p PATTERN, a RACK, s RACK, w WORD, d WORD, c PREFIX, q")
	reader := bufio.NewReader(os.Stdin)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "q" {
			return nil
		}
		h.handleInput(line)
	}
}

// handleInput runs a single command line: a one-letter command and its
// operand. Query results are formatted and printed to the log.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	cmd, operand, ok := strings.Cut(line, " ")
	if !ok || strings.TrimSpace(operand) == "" {
		log.Errorf("Missing operand: %s", line)
		return
	}
	operand = strings.TrimSpace(operand)

	switch cmd {
	case "p":
		h.runSearch(search.PatternMatch, operand)
	case "a":
		h.runSearch(search.AnagramMatch, operand)
	case "s":
		h.runSearch(search.SubanagramMatch, operand)
	case "w":
		if h.eng.IsAcceptable(operand) {
			log.Printf("%s is acceptable", strings.ToUpper(operand))
		} else {
			log.Printf("%s is NOT acceptable", strings.ToUpper(operand))
		}
	case "d":
		def := h.eng.Definition(operand, true)
		if def == "" {
			log.Warnf("No definition for '%s'", operand)
			return
		}
		log.Print(def)
	case "c":
		h.runSuggest(operand)
	default:
		log.Errorf("Unknown command: %s", cmd)
	}
}

func (h *InputHandler) runSearch(t search.ConditionType, operand string) {
	spec := search.Spec{
		Conditions:  []search.Condition{{Type: t, Str: operand}},
		Conjunction: true,
	}

	start := time.Now()
	words, err := h.eng.Search(context.Background(), spec, h.allCaps)
	elapsed := time.Since(start)
	if err != nil {
		log.Errorf("Search failed: %v", err)
		return
	}
	log.Debugf("Took [ %v ] for '%s'", elapsed, operand)

	if len(words) == 0 {
		log.Warnf("No words found for '%s'", operand)
		return
	}
	if len(words) > h.resultLimit {
		words = words[:h.resultLimit]
	}

	log.Printf("Found %d words for '%s':", len(words), operand)
	for i, w := range words {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", w)
		log.Printf("%2d. %s", i+1, clWord)
	}
}

func (h *InputHandler) runSuggest(prefix string) {
	start := time.Now()
	suggestions := h.eng.Suggest(prefix, h.resultLimit)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)

	if len(suggestions) == 0 {
		log.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}

	log.Printf("Found %d suggestions for prefix '%s':", len(suggestions), prefix)
	for i, s := range suggestions {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Word)
		log.Printf("%2d. %-40s (combos: %12.0f)", i+1, clWord, s.Combinations)
	}
}
