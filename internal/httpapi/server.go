// Package httpapi exposes the spell-checking pipeline over HTTP.
//
// Endpoints:
//
//	GET    /                                — service info
//	POST   /check                           — check a full text
//	POST   /check-word                      — check a single word
//	POST   /api/v1/custom-word              — add a user dictionary word
//	DELETE /api/v1/custom-word/{word}       — remove a user dictionary word
//
// All request and response bodies are JSON. Errors are returned as
// {"error": "..."} with the appropriate status code.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/itektr/imla/internal/pipeline"
)

// Dictionary is the mutable user dictionary surface of the oracle.
// *lexicon.Oracle satisfies it.
type Dictionary interface {
	AddCustomWord(word string)
	RemoveCustomWord(word string) bool
}

// WordStore persists user dictionary words across restarts.
// *userdict.Store satisfies it; a nil store keeps words in memory only.
type WordStore interface {
	Add(ctx context.Context, word string) error
	Remove(ctx context.Context, word string) (bool, error)
}

// Server holds the HTTP handlers for the spell-checking API.
type Server struct {
	pipeline *pipeline.Pipeline
	dict     Dictionary
	store    WordStore

	maxSuggestions int
	version        string
}

// Option configures a [Server].
type Option func(*Server)

// WithDictionary enables the custom word endpoints backed by d. Without it
// they return 404.
func WithDictionary(d Dictionary) Option {
	return func(s *Server) { s.dict = d }
}

// WithWordStore persists custom word changes through st in addition to the
// in-memory dictionary.
func WithWordStore(st WordStore) Option {
	return func(s *Server) { s.store = st }
}

// WithMaxSuggestions caps the suggestion list length in responses.
func WithMaxSuggestions(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// WithVersion sets the version string reported by the info endpoint.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a Server around p.
func New(p *pipeline.Pipeline, opts ...Option) *Server {
	s := &Server{
		pipeline:       p,
		maxSuggestions: 5,
		version:        "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds all API routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("POST /check", s.handleCheck)
	mux.HandleFunc("POST /check-word", s.handleCheckWord)
	if s.dict != nil {
		mux.HandleFunc("POST /api/v1/custom-word", s.handleAddCustomWord)
		mux.HandleFunc("DELETE /api/v1/custom-word/{word}", s.handleRemoveCustomWord)
	}
}

// infoResponse is the JSON body for the info endpoint.
type infoResponse struct {
	Service         string   `json:"service"`
	Version         string   `json:"version"`
	OracleAvailable bool     `json:"oracle_available"`
	Endpoints       []string `json:"endpoints"`
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	endpoints := []string{"/check", "/check-word", "/healthz", "/readyz", "/metrics"}
	if s.dict != nil {
		endpoints = append(endpoints, "/api/v1/custom-word")
	}
	writeJSON(w, http.StatusOK, infoResponse{
		Service:         "imla",
		Version:         s.version,
		OracleAvailable: s.pipeline.Available(),
		Endpoints:       endpoints,
	})
}

// checkRequest is the JSON body for the text check endpoint.
type checkRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.pipeline.Run(r.Context(), req.Text, s.maxSuggestions)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// checkWordRequest is the JSON body for the single word endpoint.
type checkWordRequest struct {
	Word string `json:"word"`
}

func (s *Server) handleCheckWord(w http.ResponseWriter, r *http.Request) {
	var req checkWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.pipeline.CheckWord(r.Context(), req.Word, s.maxSuggestions)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// customWordRequest is the JSON body for adding a user dictionary word.
type customWordRequest struct {
	Word string `json:"word"`
}

// customWordResponse is the JSON body for both custom word endpoints.
type customWordResponse struct {
	Word    string `json:"word"`
	Added   bool   `json:"added,omitempty"`
	Removed bool   `json:"removed,omitempty"`
}

func (s *Server) handleAddCustomWord(w http.ResponseWriter, r *http.Request) {
	var req customWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	word := strings.TrimSpace(req.Word)
	if word == "" {
		writeError(w, http.StatusBadRequest, "word is required")
		return
	}

	// Persist first: if the database rejects the word the in-memory
	// dictionary must not drift from it.
	if s.store != nil {
		if err := s.store.Add(r.Context(), word); err != nil {
			slog.Error("persist custom word", "word", word, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to persist word")
			return
		}
	}
	s.dict.AddCustomWord(word)

	writeJSON(w, http.StatusCreated, customWordResponse{Word: word, Added: true})
}

func (s *Server) handleRemoveCustomWord(w http.ResponseWriter, r *http.Request) {
	word := strings.TrimSpace(r.PathValue("word"))
	if word == "" {
		writeError(w, http.StatusBadRequest, "word is required")
		return
	}

	if s.store != nil {
		if _, err := s.store.Remove(r.Context(), word); err != nil {
			slog.Error("remove persisted custom word", "word", word, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to remove word")
			return
		}
	}
	if !s.dict.RemoveCustomWord(word) {
		writeError(w, http.StatusNotFound, "word not in user dictionary")
		return
	}

	writeJSON(w, http.StatusOK, customWordResponse{Word: word, Removed: true})
}

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Error string `json:"error"`
}

// writePipelineError maps pipeline sentinel errors onto HTTP status codes.
func writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pipeline.ErrOracleUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encoding failed"}`, http.StatusInternalServerError)
	}
}
