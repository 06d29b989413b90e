package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// errorResponse is the generic failure envelope every route returns.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, errMsg, message string) {
	s.writeJSON(w, status, errorResponse{Error: errMsg, Message: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	dbOK := false
	if s.store != nil {
		dbOK = s.store.Ping(r.Context()) == nil
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"database": dbOK,
		"cache":    s.cache.Enabled(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
