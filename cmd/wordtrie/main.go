// Copyright 2025 The WordTrie Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordtrie completion server and CLI [DBG] application.

wordtrie keeps a weighted dictionary in a pruning radix trie and answers
"top k completions of this prefix" queries. It can operate as a MessagePack
IPC server for integration with text editors, or as a CLI application for
testing and debugging.

# Usage

Start the server on a "word weight" dictionary:

	wordtrie -data words.txt

Use a directory of chunk files, load 50k words and enable debug mode:

	wordtrie -data /path/to/chunks -words 50000 -d

Run in CLI mode for interactive testing:

	wordtrie -c -data words.txt -limit 10 -prmin 2

Read a tab separated file with the weight in the first column and write the
dictionary back on exit:

	wordtrie -data counts.tsv -sep "\t" -term-col 1 -weight-col 0 -save out.txt

A chunk directory holds files named dict_0001.txt, dict_0002.txt, etc. in
the same record format; chunks are loaded in order until -words terms are
present and more can be requested over IPC.

# Configuration

Runtime configuration is managed through a TOML file that supports server
parameters, dictionary settings, and CLI defaults:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	enable_filter = true

	[dict]
	separator = " "
	term_index = 0
	weight_index = 1
	max_words = 0
	min_frequency_threshold = 0
	min_frequency_short_prefix = 0
	short_prefix_len = 2

	[cache]
	hot_cache_size = 2048

	[cli]
	default_limit = 24
	default_min_len = 1
	default_max_len = 24
	default_no_filter = false

The config file is created with defaults in the user config dir if it
doesn't exist. Flags given on the command line win over the file.

# IPC Protocol

See package server for the message format.

	{"id": "req1", "p": "hel", "l": 20}
	{"id": "req1", "s": [{"w": "hello", "r": 1, "f": 812}, {"w": "help", "r": 2, "f": 640}], "c": 2, "t": 38}
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/bastiangx/wordtrie/internal/cli"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/server"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "wordtrie"
	gh      = "https://github.com/bastiangx/wordtrie"
)

// sigHandler runs onExit once and exits when the process is interrupted.
func sigHandler(onExit func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		onExit()
		os.Exit(0)
	}()
}

// main wires config, dictionary and the chosen front end together.
func main() {
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", "", "Dictionary file or directory of dict_NNNN.txt chunks")
	configPath := flag.String("config", "", "Path to a custom config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum prefix length for suggestions (1 < n <= prmax)")
	maxPrefix := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - shows all raw dictionary entries (numbers, symbols, etc)")
	wordLimit := flag.Int("words", defaultConfig.Dict.MaxWords, "Maximum number of words to load (use 0 for all words)")
	separator := flag.String("sep", defaultConfig.Dict.Separator, `Field separator of dictionary records, "\t" for tabs`)
	termCol := flag.Int("term-col", defaultConfig.Dict.TermIndex, "Zero based column of the term")
	weightCol := flag.Int("weight-col", defaultConfig.Dict.WeightIndex, "Zero based column of the weight")
	savePath := flag.String("save", "", "Write the dictionary to this file on exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
	}
	appConfig, usedConfigPath := config.LoadConfigWithPriority(*configPath, pathResolver)
	log.Debugf("Using config file: (%s)", usedConfigPath)

	// flags set on the command line override the config file
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["limit"] {
		appConfig.CLI.DefaultLimit = *limit
	}
	if set["prmin"] {
		appConfig.CLI.DefaultMinLen = *minPrefix
	}
	if set["prmax"] {
		appConfig.CLI.DefaultMaxLen = *maxPrefix
	}
	if set["no-filter"] {
		appConfig.CLI.DefaultNoFilter = *noFilter
		appConfig.Server.EnableFilter = !*noFilter
	}
	if set["words"] {
		appConfig.Dict.MaxWords = *wordLimit
	}
	if set["sep"] {
		appConfig.Dict.Separator = unescapeSeparator(*separator)
	}
	if set["term-col"] {
		appConfig.Dict.TermIndex = *termCol
	}
	if set["weight-col"] {
		appConfig.Dict.WeightIndex = *weightCol
	}
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	completer := suggest.NewCompleter(suggest.OptionsFromConfig(appConfig))

	if *dataPath != "" {
		resolved := *dataPath
		if pathResolver != nil {
			if resolved, err = pathResolver.ResolveDataPath(*dataPath); err != nil {
				log.Fatalf("Failed to resolve dictionary: %v", err)
			}
		}
		log.Debugf("Init completer: data=[%s], maxWords=[%d]", resolved, appConfig.Dict.MaxWords)
		opts := dictionary.OptionsFromConfig(appConfig.Dict)
		if err := completer.LoadDictionary(resolved, appConfig.Dict.MaxWords, opts); err != nil {
			log.Fatalf("Failed to load dictionary: %v", err)
		}
		log.Debug("Completer init done", "words", completer.Stats()["totalWords"])
	} else {
		log.Warn("No dictionary specified, running with empty dict...")
	}

	var saveOnce sync.Once
	saveDictionary := func() {
		saveOnce.Do(func() {
			if *savePath == "" {
				return
			}
			if err := completer.SaveFile(*savePath, appConfig.Dict.Separator); err != nil {
				log.Errorf("Failed to save dictionary: %v", err)
				return
			}
			log.Debugf("Saved dictionary to %s", *savePath)
		})
	}
	sigHandler(saveDictionary)
	defer saveDictionary()

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPrefix", appConfig.CLI.DefaultMinLen,
			"maxPrefix", appConfig.CLI.DefaultMaxLen,
			"limit", appConfig.CLI.DefaultLimit,
			"noFilter", appConfig.CLI.DefaultNoFilter)

		inputHandler := cli.NewInputHandler(completer,
			appConfig.CLI.DefaultMinLen,
			appConfig.CLI.DefaultMaxLen,
			appConfig.CLI.DefaultLimit,
			appConfig.CLI.DefaultNoFilter)
		if err := inputHandler.Start(); err != nil {
			log.Errorf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(completer, appConfig)

	showStartupInfo(*dataPath, completer.Stats()["totalWords"])

	if err := srv.Start(); err != nil {
		log.Errorf("Server stopped: %v", err)
	}
}

// unescapeSeparator turns the shell friendly "\t" into a tab.
func unescapeSeparator(sep string) string {
	return strings.NewReplacer(`\t`, "\t", `\s`, " ").Replace(sep)
}

func printVersion() {
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
	logger.Print("[ wordtrie ] Top-k word completions from a pruning radix trie")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dataPath string, words int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	banner := lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Border(lipgloss.NormalBorder()).
		Render(AppName)
	fmt.Fprintln(os.Stderr, banner)
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("dictionary: ( %s ) words: %s", dataPath, utils.FormatWithCommas(uint64(words)))
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
