// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler processes user input from stdin, providing
// suggestions. It accepts many flags to control behavior such as
// minimum and maximum prefix length, suggestion limits, and filtering options.
//
// Besides prefixes it understands two commands:
//
//	:add <word> [weight]   add weight (default 1) to word
//	:stats                 print dictionary statistics
type InputHandler struct {
	completer       suggest.ICompleter
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool
	in              io.Reader
	log             *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.ICompleter, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	return NewInputHandlerWithIO(completer, minLength, maxLength, limit, noFilter, os.Stdin, os.Stderr)
}

// NewInputHandlerWithIO is NewInputHandler reading from in and printing to out.
func NewInputHandlerWithIO(completer suggest.ICompleter, minLength, maxLength, limit int, noFilter bool, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		in:              in,
		log:             logger.NewWithWriter(out, ""),
	}
}

// Start begins the interface loop. It returns nil once the input ends.
func (h *InputHandler) Start() error {
	h.log.Print("wordtrie CLI")
	h.log.Print("type something and press Enter to see the suggestions (Ctrl+C to exit):")

	scanner := bufio.NewScanner(h.in)
	for {
		h.log.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			h.handleCommand(line)
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleCommand(line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":add":
		if len(fields) < 2 || len(fields) > 3 {
			h.log.Error("Usage: :add <word> [weight]")
			return
		}
		weight := uint64(1)
		if len(fields) == 3 {
			w, err := strconv.ParseUint(fields[2], 10, 64)
			if err != nil {
				h.log.Errorf("Invalid weight '%s': %v", fields[2], err)
				return
			}
			weight = w
		}
		total, err := h.completer.AddWord(fields[1], weight)
		if err != nil {
			h.log.Errorf("Adding '%s' failed: %v", fields[1], err)
			return
		}
		h.log.Printf("'%s' now has frequency %s", fields[1], utils.FormatWithCommas(total))
	case ":stats":
		stats := h.completer.Stats()
		h.log.Printf("words: %s  nodes: %s  max frequency: %s",
			utils.FormatWithCommas(uint64(stats["totalWords"])),
			utils.FormatWithCommas(uint64(stats["nodes"])),
			utils.FormatWithCommas(uint64(stats["maxFrequency"])))
	default:
		h.log.Errorf("Unknown command: %s", fields[0])
	}
}

// handleInput processes a single prefix to generate suggestions.
// It validates the prefix's length and content, then asks the completer for
// suggestions. Results are formatted and printed to the log.
func (h *InputHandler) handleInput(prefix string) {
	length := utf8.RuneCountInString(prefix)
	if length < h.minPrefixLength {
		h.log.Errorf("Prefix too short: %s", prefix)
		return
	}
	if length > h.maxPrefixLength {
		h.log.Errorf("Prefix too long: %s", prefix)
		return
	}

	// input filtering by default (unless -no-filter flag is used)
	if !h.noFilter && !utils.IsValidInput(prefix) {
		h.log.Warnf("No results found for prefix: '%s'", prefix)
		return
	}

	start := time.Now()
	h.log.Debug("Processing request for", "prefix", prefix)
	suggestions := h.completer.Complete(prefix, h.suggestLimit)
	h.log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(suggestions) == 0 {
		h.log.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}

	h.log.Printf("Found %d suggestions for prefix '%s':", len(suggestions), prefix)
	for i, s := range suggestions {
		fmtFreq := utils.FormatWithCommas(s.Frequency)
		h.log.Printf("%2d. %-40s (freq: %8s)", i+1, wordStyle.Render(s.Word), fmtFreq)
	}
}
