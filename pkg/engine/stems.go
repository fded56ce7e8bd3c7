package engine

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lexvane/lexvane/pkg/letters"
)

// ImportStems loads a stem list from a text file, one stem per line.
// The first valid entry fixes the length for the whole file; entries
// of any other length are discarded. Stems merge additively with any
// previously imported set of the same length. Returns the number of
// stems imported from this file.
func (e *Engine) ImportStems(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening stem file: %w", err)
	}
	defer f.Close()

	var (
		stems      []string
		alphagrams = make(map[string]bool)
		length     int
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word := letters.Normalize(strings.Fields(line)[0])
		if word == "" {
			continue
		}
		if length == 0 {
			length = len(word)
		}
		if len(word) != length {
			continue
		}
		stems = append(stems, word)
		alphagrams[letters.Alphagram(word)] = true
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading stem file: %w", err)
	}
	if length == 0 {
		return 0, nil
	}

	e.mu.Lock()
	e.stems[length] = append(e.stems[length], stems...)
	if e.stemAlphagrams[length] == nil {
		e.stemAlphagrams[length] = make(map[string]bool)
	}
	for a := range alphagrams {
		e.stemAlphagrams[length][a] = true
	}
	e.mu.Unlock()

	log.Debugf("imported %d stems of length %d from %s", len(stems), length, path)
	return len(stems), nil
}

// StemCount returns the number of imported stems of a given length.
func (e *Engine) StemCount(length int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.stems[length])
}
