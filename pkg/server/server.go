package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lexvane/lexvane/internal/logger"
	"github.com/lexvane/lexvane/pkg/engine"
	"github.com/lexvane/lexvane/pkg/search"
)

// Options bound what a single request may ask for.
type Options struct {
	MaxLimit   int
	MinPrefix  int
	MaxResults int
}

// Server handles the IPC for lexicon queries
type Server struct {
	eng     *engine.Engine
	opts    Options
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
	log     *log.Logger
}

// NewServer creates a new query server using stdin/stdout for IPC
func NewServer(eng *engine.Engine, opts Options) *Server {
	if opts.MaxLimit < 1 {
		opts.MaxLimit = 64
	}
	if opts.MinPrefix < 1 {
		opts.MinPrefix = 1
	}
	return &Server{
		eng:     eng,
		opts:    opts,
		decoder: msgpack.NewDecoder(os.Stdin),
		encoder: msgpack.NewEncoder(os.Stdout),
		log:     logger.New("ipc"),
	}
}

// Start begins listening for IPC requests
func (s *Server) Start() error {
	s.log.Debug("Starting server.")

	// Signal that the server is ready
	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches a decoded request
func (s *Server) handleRequest(request Request) {
	switch request.Command {
	case "search":
		s.handleSearch(request)
	case "judge":
		s.handleJudge(request)
	case "define":
		s.handleDefine(request)
	case "suggest":
		s.handleSuggest(request)
	case "count":
		s.sendResponse(CountResponse{
			ID:      request.ID,
			Lexicon: s.eng.LexiconName(),
			Words:   s.eng.NumWords(),
		})
	case "health":
		s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Command), 400)
	}
}

func (s *Server) handleSearch(request Request) {
	if len(request.Conditions) == 0 {
		s.sendError(request.ID, "Missing 'cond' parameter", 400)
		s.log.Debug("Search request without conditions")
		return
	}

	spec := search.Spec{Conjunction: !request.Disjunct}
	for _, wc := range request.Conditions {
		t := search.ParseConditionType(wc.Type)
		if t == search.UnknownCondition {
			s.sendError(request.ID, fmt.Sprintf("Unknown condition type: %s", wc.Type), 400)
			return
		}
		spec.Conditions = append(spec.Conditions, search.Condition{
			Type:    t,
			Min:     wc.Min,
			Max:     wc.Max,
			Str:     wc.Str,
			Negated: wc.Negated,
			Lax:     wc.Lax,
			Legacy:  wc.Legacy,
		})
	}

	start := time.Now()
	words, err := s.eng.Search(context.Background(), spec, request.AllCaps)
	if err != nil {
		if errors.Is(err, search.ErrMalformedSpec) {
			s.sendError(request.ID, err.Error(), 400)
		} else {
			s.log.Errorf("Search failed: %v", err)
			s.sendError(request.ID, "Internal server error", 500)
		}
		return
	}
	if s.opts.MaxResults > 0 && len(words) > s.opts.MaxResults {
		words = words[:s.opts.MaxResults]
	}

	s.sendResponse(SearchResponse{
		ID:        request.ID,
		Words:     words,
		Count:     len(words),
		TimeTaken: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleJudge(request Request) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'word' parameter", 400)
		return
	}
	s.sendResponse(JudgeResponse{
		ID:         request.ID,
		Word:       request.Word,
		Acceptable: s.eng.IsAcceptable(request.Word),
	})
}

func (s *Server) handleDefine(request Request) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'word' parameter", 400)
		return
	}
	s.sendResponse(DefineResponse{
		ID:         request.ID,
		Word:       request.Word,
		Definition: s.eng.Definition(request.Word, request.Resolve),
	})
}

func (s *Server) handleSuggest(request Request) {
	prefix := request.Prefix
	if len(prefix) < s.opts.MinPrefix {
		s.sendError(request.ID, fmt.Sprintf("Prefix must be at least %d characters", s.opts.MinPrefix), 400)
		s.log.Debug("Prefix too short in request")
		return
	}

	limit := request.Limit
	if limit < 1 || limit > s.opts.MaxLimit {
		limit = s.opts.MaxLimit
	}

	start := time.Now()
	suggestions := s.eng.Suggest(prefix, limit)
	elapsed := time.Since(start)

	entries := make([]SuggestEntry, len(suggestions))
	for i, sg := range suggestions {
		entries[i] = SuggestEntry{Word: sg.Word, Rank: sg.Combinations}
	}
	s.sendResponse(SuggestResponse{
		ID:          request.ID,
		Suggestions: entries,
		Count:       len(entries),
		TimeTaken:   elapsed.Milliseconds(),
	})
}

// sendResponse encodes the given response as msgpack on stdout.
func (s *Server) sendResponse(response interface{}) {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
