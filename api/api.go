// Package api exposes the resolver over HTTP for the office frontend.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"propscout/extract"
	"propscout/services"
	"propscout/storage"
)

type Server struct {
	resolver *services.ResolveService
	runLog   *storage.SQLiteStore
}

func NewServer(resolver *services.ResolveService, runLog *storage.SQLiteStore) *Server {
	return &Server{resolver: resolver, runLog: runLog}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /resolve", s.handleResolve)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

func (s *Server) Start(addr string) error {
	log.Printf("api listening on %s", addr)
	return http.ListenAndServe(addr, s.Routes())
}

type resolveRequest struct {
	Text     string `json:"text"`
	Persist  bool   `json:"persist"`
	ClientID string `json:"client_id,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	opts := services.PersistOptions{Save: req.Persist, Phone: req.Phone}
	if req.ClientID != "" {
		id, err := uuid.Parse(req.ClientID)
		if err != nil {
			http.Error(w, "invalid client_id", http.StatusBadRequest)
			return
		}
		opts.ClientID = &id
	}

	result, err := s.resolver.Resolve(r.Context(), req.Text, opts)
	if err != nil {
		if errors.Is(err, extract.ErrQueryTooShort) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("resolve failed: %v", err)
		http.Error(w, "could not process request", http.StatusInternalServerError)
		return
	}

	writeJSON(w, result)
}

type healthResponse struct {
	Status string            `json:"status"`
	Runs   *storage.RunStats `json:"runs,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.runLog != nil {
		stats, err := s.runLog.GetRunStats(time.Now().Add(-24 * time.Hour))
		if err != nil {
			log.Printf("Warning: could not read run stats: %v", err)
		} else {
			resp.Runs = stats
		}
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}
