package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const defaultLimit = 10

// Server handles the IPC for word completions
type Server struct {
	completer *suggest.Completer
	config    *config.Config
	decoder   *msgpack.Decoder
	writer    *bufio.Writer
	encoder   *msgpack.Encoder
	log       *log.Logger
	requests  int
}

// NewServer creates a completion server using stdin/stdout for IPC
func NewServer(completer *suggest.Completer, cfg *config.Config) *Server {
	return NewServerWithIO(completer, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a completion server reading requests from r and
// writing responses to w.
func NewServerWithIO(completer *suggest.Completer, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	bw := bufio.NewWriter(w)
	return &Server{
		completer: completer,
		config:    cfg,
		decoder:   msgpack.NewDecoder(bufio.NewReader(r)),
		writer:    bw,
		encoder:   msgpack.NewEncoder(bw),
		log:       logger.NewWithConfig(os.Stderr, "server", log.GetLevel(), false, log.GetLevel() == log.DebugLevel, log.TextFormatter),
	}
}

// Start serves requests until the input ends. A request that cannot be
// decoded ends the stream, since msgpack has no framing to resync on.
func (s *Server) Start() error {
	s.log.Debug("Starting Server.")

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return fmt.Errorf("decode request: %w", err)
		}
		s.requests++
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	switch req.Action {
	case ActionComplete, "":
		s.handleComplete(req)
	case ActionInsert:
		s.handleInsert(req)
	case ActionMore:
		s.handleMore(req)
	case ActionSave:
		s.handleSave(req)
	case ActionStats:
		s.sendResponse(StatsResponse{ID: req.ID, Stats: s.completer.Stats()})
	case ActionPing:
		s.sendResponse(AckResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleComplete(req Request) {
	prefix := req.Prefix
	cfg := s.config.Server

	if prefix == "" {
		s.sendError(req.ID, "missing prefix", 400)
		s.log.Debug("Prefix is empty in request")
		return
	}
	if !utf8.ValidString(prefix) {
		s.sendError(req.ID, "prefix is not valid UTF-8", 400)
		return
	}
	length := utf8.RuneCountInString(prefix)
	if length < cfg.MinPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix must be at least %d characters", cfg.MinPrefix), 400)
		return
	}
	if length > cfg.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d characters", cfg.MaxPrefix), 400)
		return
	}

	limit := req.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	if cfg.EnableFilter && !utils.IsValidInput(prefix) {
		s.log.Debugf("Filtered prefix '%s'", prefix)
		s.sendResponse(CompletionResponse{ID: req.ID, Suggestions: []CompletionSuggestion{}})
		return
	}

	start := time.Now()
	suggestions := s.completer.Complete(prefix, limit)
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(suggestions))
	out := make([]CompletionSuggestion, len(suggestions))
	for i, sg := range suggestions {
		out[i] = CompletionSuggestion{Word: sg.Word, Rank: ranks[i], Frequency: sg.Frequency}
	}

	s.sendResponse(CompletionResponse{
		ID:          req.ID,
		Suggestions: out,
		Count:       len(out),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleInsert(req Request) {
	total, err := s.completer.AddWord(req.Word, req.Count)
	if err != nil {
		s.sendError(req.ID, fmt.Sprintf("insert failed: %v", err), 400)
		return
	}
	s.sendResponse(AckResponse{ID: req.ID, Status: "ok", Count: total})
}

func (s *Server) handleMore(req Request) {
	if req.Count == 0 {
		s.sendError(req.ID, "missing word count", 400)
		return
	}
	added, err := s.completer.RequestMoreWords(int(min(req.Count, math.MaxInt)))
	if err != nil {
		s.sendError(req.ID, fmt.Sprintf("loading more words failed: %v", err), 500)
		return
	}
	s.sendResponse(AckResponse{ID: req.ID, Status: "ok", Count: uint64(added)})
}

func (s *Server) handleSave(req Request) {
	if req.Path == "" {
		s.sendError(req.ID, "missing path", 400)
		return
	}
	if err := s.completer.SaveFile(req.Path, s.config.Dict.Separator); err != nil {
		s.sendError(req.ID, err.Error(), 500)
		return
	}
	s.sendResponse(AckResponse{ID: req.ID, Status: "ok"})
}

// sendResponse encodes response and flushes it so the client sees it at once.
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		s.log.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{ID: id, Error: message, Code: code})
}
