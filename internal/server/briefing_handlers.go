package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stanbrief/internal/core"
	"stanbrief/internal/worker"
)

func (s *Server) handleDailyBriefings(w http.ResponseWriter, r *http.Request) {
	date := dateParam(r)
	userID := r.URL.Query().Get("user_id")

	briefings, err := s.store.GetBriefingsByDate(r.Context(), date, userID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to fetch briefings", err.Error())
		return
	}
	if briefings == nil {
		briefings = []core.Briefing{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"date":      date,
		"briefings": briefings,
		"count":     len(briefings),
	})
}

// handleStanDailyBriefing returns one stan's briefing for a day, preferring
// the cached content. The cache only holds content, not row metadata, so a
// hit is reported as such and a miss falls through to the database and
// refills the cache.
func (s *Server) handleStanDailyBriefing(w http.ResponseWriter, r *http.Request) {
	stanID := chi.URLParam(r, "stanID")
	date := dateParam(r)

	if content, err := s.cache.GetBriefing(r.Context(), stanID, date); err != nil {
		s.log.Warn("Briefing cache read failed", "stan_id", stanID, "error", err)
	} else if content != nil {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"stan_id": stanID,
			"date":    date,
			"content": content,
			"cached":  true,
		})
		return
	}

	b, err := s.store.GetBriefing(r.Context(), stanID, date)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to fetch briefing", err.Error())
		return
	}
	if b == nil {
		s.writeError(w, http.StatusNotFound, "no briefing for this date", "")
		return
	}

	content := &core.BriefingContent{
		Topics:        b.Topics,
		SearchSources: b.SearchSources,
		Images:        b.Images,
	}
	if err := s.cache.SetBriefing(r.Context(), stanID, date, content); err != nil {
		s.log.Warn("Briefing cache write failed", "stan_id", stanID, "error", err)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"stan_id":  stanID,
		"date":     date,
		"briefing": b,
		"cached":   false,
	})
}

func (s *Server) handleMarkBriefingRead(w http.ResponseWriter, r *http.Request) {
	if err := s.store.MarkBriefingRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to mark briefing read", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type generateRequest struct {
	StanID string `json:"stan_id"`
}

// handleGenerate regenerates today's briefing for one stan. The result is
// served from the fresh generation, not the cache, and the cache entry is
// refreshed.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.StanID == "" {
		s.writeError(w, http.StatusBadRequest, "stan_id is required", "")
		return
	}

	stan, err := s.store.GetStan(r.Context(), req.StanID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to fetch stan", err.Error())
		return
	}
	if stan == nil {
		s.writeError(w, http.StatusNotFound, "stan not found", "")
		return
	}

	if r.URL.Query().Get("async") == "true" {
		if !worker.ClientEnabled() {
			s.writeError(w, http.StatusServiceUnavailable, "async generation requires the task queue", "")
			return
		}
		if err := worker.EnqueueGenerateOne(stan.ID); err != nil {
			s.writeError(w, http.StatusInternalServerError, "failed to enqueue generation", err.Error())
			return
		}
		s.writeJSON(w, http.StatusAccepted, map[string]any{
			"success": true,
			"message": "Generation enqueued for " + stan.Name,
		})
		return
	}

	date := dateParam(r)
	b, err := s.runner.GenerateAndStore(r.Context(), *stan, date)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to generate briefing", err.Error())
		return
	}

	content := &core.BriefingContent{
		Topics:        b.Topics,
		SearchSources: b.SearchSources,
		Images:        b.Images,
	}
	if err := s.cache.SetBriefing(r.Context(), stan.ID, date, content); err != nil {
		s.log.Warn("Failed to refresh briefing cache", "stan", stan.Name, "error", err)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"briefing": b,
	})
}

// handleGenerateBatch regenerates briefings for every active stan. By
// default the request blocks for the duration of the run; with ?async=true
// and a configured queue, the run is handed to the worker instead.
func (s *Server) handleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("async") == "true" {
		if !worker.ClientEnabled() {
			s.writeError(w, http.StatusServiceUnavailable, "async generation requires the task queue", "")
			return
		}
		if err := worker.EnqueueGenerateAll(); err != nil {
			s.writeError(w, http.StatusInternalServerError, "failed to enqueue batch generation", err.Error())
			return
		}
		s.writeJSON(w, http.StatusAccepted, map[string]any{
			"success": true,
			"message": "Batch generation enqueued",
		})
		return
	}

	report, err := s.runner.Run(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to generate briefings", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Batch generation completed",
		"report":  report,
	})
}
