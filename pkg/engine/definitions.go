package engine

import (
	"regexp"
	"strings"

	"github.com/lexvane/lexvane/pkg/letters"
)

// maxDefinitionLinks bounds recursive link expansion.
const maxDefinitionLinks = 3

// defSegment is one part-of-speech-tagged alternative of a word's
// definition text.
type defSegment struct {
	pos  string
	text string
}

var (
	posRe     = regexp.MustCompile(`\[(\w+)`)
	followRe  = regexp.MustCompile(`\{(\w+)=(\w+)\}`)
	replaceRe = regexp.MustCompile(`<(\w+)=(\w+)>`)
)

// parseDefinition splits raw definition text on the " / " alternation
// separator and tags each segment with its bracketed part of speech.
func parseDefinition(definition string) []defSegment {
	parts := strings.Split(definition, " / ")
	segments := make([]defSegment, 0, len(parts))
	for _, part := range parts {
		seg := defSegment{text: part}
		if m := posRe.FindStringSubmatch(part); m != nil {
			seg.pos = m[1]
		}
		segments = append(segments, seg)
	}
	return segments
}

// Definition returns a word's definition text. With resolveLinks the
// cross-reference markers of each segment are expanded recursively and
// segments are joined by newlines; otherwise the raw segments are
// joined by the " / " separator.
func (e *Engine) Definition(word string, resolveLinks bool) string {
	w := letters.Normalize(word)

	raw := ""
	if info := e.Info(w); info.Valid() {
		raw = info.Definition
	} else {
		e.mu.RLock()
		segments := e.definitions[w]
		e.mu.RUnlock()
		parts := make([]string, len(segments))
		for i, seg := range segments {
			parts[i] = seg.text
		}
		raw = strings.Join(parts, " / ")
	}
	if raw == "" || !resolveLinks {
		return raw
	}

	var out []string
	for _, segment := range strings.Split(raw, " / ") {
		out = append(out, e.ResolveLinks(segment, maxDefinitionLinks))
	}
	return strings.Join(out, "\n")
}

// ResolveLinks expands the cross-reference markers embedded in
// definition text. A scan pass handles at most one marker: a follow
// marker {word=pos} expands to "word (sub-definition)", a replace
// marker <word=pos> to the sub-definition alone, or to the uppercased
// word when the referenced entry has no segment for that part of
// speech. Once a follow marker has been seen, follow-style formatting
// sticks for the rest of the expansion. The loop carries an explicit
// depth counter: when it reaches zero the marker word is left literal,
// so cyclic reference data always terminates.
func (e *Engine) ResolveLinks(definition string, maxDepth int) string {
	useFollow := false
	for depth := maxDepth; ; depth-- {
		loc := followRe.FindStringSubmatchIndex(definition)
		followMarker := loc != nil
		if followMarker {
			useFollow = true
		} else {
			loc = replaceRe.FindStringSubmatchIndex(definition)
		}
		if loc == nil {
			return definition
		}

		word := definition[loc[2]:loc[3]]
		pos := definition[loc[4]:loc[5]]

		var replacement string
		if depth <= 0 {
			replacement = word
		} else {
			upper := letters.Normalize(word)
			subdef := e.subDefinition(upper, pos)
			switch {
			case subdef == "":
				if useFollow {
					replacement = word
				} else {
					replacement = upper
				}
			case useFollow:
				if followMarker {
					replacement = word + " (" + subdef + ")"
				} else {
					replacement = subdef
				}
			default:
				replacement = upper + ", " + subdef
			}
		}

		definition = definition[:loc[0]] + replacement + definition[loc[1]:]
		if depth <= 0 {
			return definition
		}
	}
}

// subDefinition returns the first definition segment of a word
// matching a part of speech, stripped of its bracketed tag.
func (e *Engine) subDefinition(word, pos string) string {
	raw := e.Definition(word, false)
	if raw == "" {
		return ""
	}
	for _, segment := range strings.Split(raw, " / ") {
		m := posRe.FindStringSubmatch(segment)
		if m == nil || m[1] != pos {
			continue
		}
		text := segment
		if i := strings.Index(segment, "["); i >= 0 {
			text = segment[:i]
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return ""
}
