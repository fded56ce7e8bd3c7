// Copyright 2026 The Lexvane Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the lexicon query server and CLI application.

Lexvane answers compositional word queries over a loaded lexicon:
pattern matching, anagrams and subanagrams over an in-memory word
graph, attribute predicates over a SQLite store, and post filters such
as hooks, word groups and probability-order windows. It can operate as
a MessagePack IPC server for integration with study tools, or as a CLI
application for testing and debugging.

# Usage

Start the server with a plain word list:

	lexvane -lex /path/to/words.txt -name OWL

Load a prebuilt compact graph plus its reverse twin and attribute db:

	lexvane -graph words.lxgw -rgraph words-r.lxgw -db words.db

Build the attribute database from a loaded lexicon and exit:

	lexvane -lex words.txt -db words.db -build-db

Run in CLI mode for interactive testing:

	lexvane -lex words.txt -c -limit 20

# Configuration

Runtime configuration is managed through a TOML file:

	[lexicon]
	name = "OWL"
	word_file = "words.txt"
	load_definitions = true

	[bag]
	distribution = "A:9 B:2 C:2 ..."

	[search]
	all_caps = false
	max_results = 1000000

	[server]
	max_limit = 64
	min_prefix = 1

The config file is automatically created with defaults if it doesn't
exist. Flags override the file for the current run.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Send a
search request:

	{"id": "req1", "cmd": "search", "cond": [{"t": "Anagram Match", "s": "AECR"}]}

Receive the matching words with timing information:

	{"id": "req1", "w": ["CARE", "RACE"], "c": 2, "t": 3}

Judge, define, suggest and count commands follow the same envelope.

# Command Line Flags

The following flags control application behavior:

	-lex string
	    Plain text word list to load
	-graph string
	    Compact word graph file to load
	-rgraph string
	    Reversed compact word graph file to load
	-checksum uint
	    Expected CRC-32 of the compact graph payload (0 skips the check)
	-db string
	    SQLite attribute database path
	-build-db
	    Build the attribute database from the loaded lexicon and exit
	-stems string
	    Comma-separated stem list files to import
	-name string
	    Lexicon display name
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of results to print in CLI mode
	-caps
	    Print results in all capitals, dropping blank annotations
	-config string
	    Custom config file path
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lexvane/lexvane/internal/cli"
	"github.com/lexvane/lexvane/pkg/config"
	"github.com/lexvane/lexvane/pkg/engine"
	"github.com/lexvane/lexvane/pkg/letters"
	"github.com/lexvane/lexvane/pkg/server"
	"github.com/lexvane/lexvane/pkg/store"
)

const (
	Version = "0.3.0-beta"
	AppName = "lexvane"
	gh      = "https://github.com/lexvane/lexvane"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	lexFile := flag.String("lex", "", "Plain text word list to load")
	graphFile := flag.String("graph", "", "Compact word graph file to load")
	rgraphFile := flag.String("rgraph", "", "Reversed compact word graph file to load")
	checksum := flag.Uint("checksum", 0, "Expected CRC-32 of the compact graph payload (0 skips the check)")
	dbFile := flag.String("db", "", "SQLite attribute database path")
	buildDB := flag.Bool("build-db", false, "Build the attribute database from the loaded lexicon and exit")
	stemFiles := flag.String("stems", "", "Comma-separated stem list files to import")
	lexName := flag.String("name", defaultConfig.Lexicon.Name, "Lexicon display name")
	limit := flag.Int("limit", 20, "Number of results to print in CLI mode")
	allCaps := flag.Bool("caps", defaultConfig.Search.AllCaps, "Print results in all capitals, dropping blank annotations")
	configPath := flag.String("config", "", "Custom config file path")

	flag.Parse()

	if *showVersion {
		showVersionInfo()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	bag, err := letters.NewBag(appConfig.Bag.Distribution)
	if err != nil {
		log.Fatalf("Bad letter distribution in config: %v", err)
	}
	eng := engine.New(bag)

	if *lexFile == "" {
		*lexFile = appConfig.Lexicon.WordFile
	}
	if *graphFile == "" {
		*graphFile = appConfig.Lexicon.GraphFile
	}
	if *rgraphFile == "" {
		*rgraphFile = appConfig.Lexicon.ReverseGraphFile
	}
	if *dbFile == "" {
		*dbFile = appConfig.Lexicon.DBFile
	}

	switch {
	case *lexFile != "":
		n, err := eng.LoadTextLexicon(*lexFile, *lexName, appConfig.Lexicon.LoadDefinitions)
		if err != nil {
			log.Fatalf("Failed to load lexicon %s: %v", *lexFile, err)
		}
		log.Debugf("Loaded %d words from %s", n, *lexFile)
	case *graphFile != "":
		var expected *uint32
		if *checksum != 0 {
			sum := uint32(*checksum)
			expected = &sum
		}
		if err := eng.LoadCompactLexicon(*graphFile, *lexName, expected); err != nil {
			log.Fatalf("Failed to load graph %s: %v", *graphFile, err)
		}
	default:
		log.Warn("No lexicon specified, running with empty word graph...")
	}

	if *rgraphFile != "" {
		if err := eng.LoadCompactLexicon(*rgraphFile, *lexName, nil); err != nil {
			log.Fatalf("Failed to load reversed graph %s: %v", *rgraphFile, err)
		}
	}

	if *buildDB {
		if *dbFile == "" {
			log.Fatal("-build-db needs -db")
		}
		buildDatabase(eng, *dbFile)
		return
	}

	if *dbFile != "" {
		if err := eng.ConnectStore(*dbFile); err != nil {
			log.Fatalf("Failed to open attribute db %s: %v", *dbFile, err)
		}
		log.Debugf("Attribute db connected: %s", *dbFile)
	}

	if *stemFiles != "" {
		for _, path := range strings.Split(*stemFiles, ",") {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			if _, err := eng.ImportStems(path); err != nil {
				log.Warnf("Failed to import stems from %s: %v", path, err)
			}
		}
	}

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(eng, *limit, *allCaps)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(eng, server.Options{
		MaxLimit:   appConfig.Server.MaxLimit,
		MinPrefix:  appConfig.Server.MinPrefix,
		MaxResults: appConfig.Search.MaxResults,
	})

	showStartupInfo(eng)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildDatabase writes the attribute rows for the loaded lexicon.
func buildDatabase(eng *engine.Engine, path string) {
	st, err := store.Open(path)
	if err != nil {
		log.Fatalf("Failed to open attribute db %s: %v", path, err)
	}
	defer st.Close()

	definitionOf := func(word string) string {
		return eng.Definition(word, false)
	}
	if err := st.Build(context.Background(), eng.Graph(), eng.Bag(), definitionOf); err != nil {
		log.Fatalf("Failed to build attribute db: %v", err)
	}
	log.Infof("Built attribute db with %d words at %s", eng.NumWords(), path)
}

func showVersionInfo() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ Lexvane ] Compositional word search over your lexicon")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(eng *engine.Engine) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("=========")
	println(" Lexvane ")
	println("=========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("lexicon: ( %s ) %d words", eng.LexiconName(), eng.NumWords())
	log.Info("status: ready")
	println("=========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
