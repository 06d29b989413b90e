package server

import (
	"encoding/json"
	"net/http"

	"stanbrief/internal/core"
)

// handleGetPrompt returns the saved customization for (user, stan), or the
// defaults when none is saved. The response flags which one it is so clients
// can show "customized" state.
func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	stanID := r.URL.Query().Get("stan_id")
	if userID == "" || stanID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id and stan_id are required", "")
		return
	}

	cust, err := s.store.GetCustomization(r.Context(), userID, stanID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to fetch prompt customization", err.Error())
		return
	}

	isCustom := cust != nil
	if cust == nil {
		def := core.DefaultCustomization(userID, stanID)
		cust = &def
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"customization": cust,
		"is_custom":     isCustom,
	})
}

func (s *Server) handleSavePrompt(w http.ResponseWriter, r *http.Request) {
	var cust core.PromptCustomization
	if err := json.NewDecoder(r.Body).Decode(&cust); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if cust.UserID == "" || cust.StanID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id and stan_id are required", "")
		return
	}

	if err := s.store.UpsertCustomization(r.Context(), cust); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to save prompt customization", err.Error())
		return
	}
	s.invalidateTodaysBriefing(r, cust.StanID)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"customization": cust,
	})
}

func (s *Server) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	stanID := r.URL.Query().Get("stan_id")
	if userID == "" || stanID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id and stan_id are required", "")
		return
	}

	if err := s.store.DeleteCustomization(r.Context(), userID, stanID); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to delete prompt customization", err.Error())
		return
	}
	s.invalidateTodaysBriefing(r, stanID)
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// invalidateTodaysBriefing drops the cached briefing for today so a changed
// prompt takes effect on the next regeneration rather than serving stale
// cached content.
func (s *Server) invalidateTodaysBriefing(r *http.Request, stanID string) {
	date := dateParam(r)
	if err := s.cache.InvalidateBriefing(r.Context(), stanID, date); err != nil {
		s.log.Warn("Failed to invalidate briefing cache", "stan_id", stanID, "error", err)
	}
}
