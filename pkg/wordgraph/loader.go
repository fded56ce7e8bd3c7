package wordgraph

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lexvane/lexvane/pkg/letters"
)

// ErrChecksumMismatch aborts a compact load whose payload does not
// match the embedded or the caller-supplied checksum.
var ErrChecksumMismatch = errors.New("word graph checksum mismatch")

var compactMagic = [4]byte{'L', 'X', 'G', 'W'}

const compactVersion uint16 = 1

const flagReversed uint16 = 1 << 0

type compactHeader struct {
	Magic      [4]byte
	Version    uint16
	Flags      uint16
	NumWords   uint32
	Checksum   uint32
	PayloadLen uint32
}

type compactPayload struct {
	Root  int32  `msgpack:"r"`
	Nodes []node `msgpack:"n"`
}

// LoadText reads a line-oriented word list: the first whitespace
// token of each line is the word, the remainder is an optional
// definition passed to defFn; empty and '#'-prefixed lines are
// skipped. Lines whose word is malformed are dropped with a debug log.
// Returns the number of entries accepted; on a read error the graph
// holds the entries accepted so far and the caller decides whether the
// partial result is usable.
func (g *Graph) LoadText(r io.Reader, defFn func(word, definition string)) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	imported := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, rest, _ := strings.Cut(line, " ")
		w := letters.Normalize(word)
		before := g.numWords
		g.AddWord(w)
		if g.numWords == before && !g.ContainsWord(w) {
			log.Debugf("skipping malformed word list entry %q", word)
			continue
		}
		if defFn != nil {
			defFn(w, strings.TrimSpace(rest))
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		return imported, fmt.Errorf("read word list: %w", err)
	}
	return imported, nil
}

// SaveCompact writes the versioned binary container: a fixed
// little-endian header carrying a CRC-32 checksum, followed by the
// msgpack-encoded node arena.
func (g *Graph) SaveCompact(w io.Writer) error {
	payload, err := msgpack.Marshal(compactPayload{Root: g.root, Nodes: g.nodes})
	if err != nil {
		return fmt.Errorf("encode word graph: %w", err)
	}

	hdr := compactHeader{
		Magic:      compactMagic,
		Version:    compactVersion,
		NumWords:   uint32(g.numWords),
		Checksum:   crc32.ChecksumIEEE(payload),
		PayloadLen: uint32(len(payload)),
	}
	if g.reversed {
		hdr.Flags |= flagReversed
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("write graph header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write graph payload: %w", err)
	}
	return nil
}

// LoadCompact reads a compact container. The payload checksum must
// match the embedded value, and the caller may additionally pin the
// expected checksum of a known lexicon build; either mismatch fails
// the whole load. Nothing partial is ever returned.
func LoadCompact(r io.Reader, expectedChecksum *uint32) (*Graph, error) {
	var hdr compactHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read graph header: %w", err)
	}
	if hdr.Magic != compactMagic {
		return nil, fmt.Errorf("not a word graph file (magic %q)", hdr.Magic[:])
	}
	if hdr.Version != compactVersion {
		return nil, fmt.Errorf("unsupported word graph version %d", hdr.Version)
	}

	payload := make([]byte, hdr.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read graph payload: %w", err)
	}

	if sum := crc32.ChecksumIEEE(payload); sum != hdr.Checksum {
		return nil, fmt.Errorf("payload checksum %08x, header says %08x: %w",
			sum, hdr.Checksum, ErrChecksumMismatch)
	}
	if expectedChecksum != nil && *expectedChecksum != hdr.Checksum {
		return nil, fmt.Errorf("checksum %08x, expected %08x: %w",
			hdr.Checksum, *expectedChecksum, ErrChecksumMismatch)
	}

	var p compactPayload
	if err := msgpack.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode word graph: %w", err)
	}
	if len(p.Nodes) == 0 {
		return nil, fmt.Errorf("word graph payload has no nodes")
	}

	g := &Graph{
		nodes:    p.Nodes,
		root:     p.Root,
		numWords: int(hdr.NumWords),
		reversed: hdr.Flags&flagReversed != 0,
	}
	log.Debugf("loaded compact word graph: %d words, %d nodes, reversed=%v",
		g.numWords, len(g.nodes), g.reversed)
	return g, nil
}

// ReadChecksum reads just the header of a compact container and
// returns the embedded payload checksum.
func ReadChecksum(r io.Reader) (uint32, error) {
	var hdr compactHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return 0, fmt.Errorf("read graph header: %w", err)
	}
	if hdr.Magic != compactMagic {
		return 0, fmt.Errorf("not a word graph file (magic %q)", hdr.Magic[:])
	}
	return hdr.Checksum, nil
}

// ReverseOf builds the reversed-word twin of a graph, the secondary
// index used for suffix-oriented queries.
func ReverseOf(g *Graph) *Graph {
	rg := New()
	rg.reversed = true
	g.Visit(func(w string) {
		rg.AddWord(reverseString(w))
	})
	return rg
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
