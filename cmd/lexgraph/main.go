// Lexgraph compiles a plain text word list into compact word graph
// files: the forward graph and optionally its reversed twin. It prints
// the CRC-32 of each payload so deployments can pin the expected
// checksum when loading.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lexvane/lexvane/pkg/wordgraph"
)

func main() {
	lexFile := flag.String("lex", "", "Plain text word list to compile")
	outFile := flag.String("o", "words.lxgw", "Output path for the compact graph")
	reverseFile := flag.String("r", "", "Also write a reversed graph to this path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")

	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
	}
	if *lexFile == "" {
		log.Fatal("-lex is required")
	}

	f, err := os.Open(*lexFile)
	if err != nil {
		log.Fatalf("Failed to open word list: %v", err)
	}
	defer f.Close()

	g := wordgraph.New()
	n, err := g.LoadText(f, nil)
	if err != nil {
		log.Fatalf("Failed to read word list: %v", err)
	}
	log.Debugf("Loaded %d words from %s", n, *lexFile)

	sum, err := writeGraph(g, *outFile)
	if err != nil {
		log.Fatalf("Failed to write graph: %v", err)
	}
	fmt.Printf("%s: %d words, checksum %d\n", *outFile, g.NumWords(), sum)

	if *reverseFile != "" {
		rg := wordgraph.ReverseOf(g)
		rsum, err := writeGraph(rg, *reverseFile)
		if err != nil {
			log.Fatalf("Failed to write reversed graph: %v", err)
		}
		fmt.Printf("%s: %d words, checksum %d\n", *reverseFile, rg.NumWords(), rsum)
	}
}

// writeGraph saves a compact graph and reloads the header to report
// the embedded checksum.
func writeGraph(g *wordgraph.Graph, path string) (uint32, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	if err := g.SaveCompact(f); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	rf, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer rf.Close()
	return wordgraph.ReadChecksum(rf)
}
