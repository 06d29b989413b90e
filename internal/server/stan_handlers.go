package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"stanbrief/internal/core"
)

type createStanRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
	UserID      string `json:"user_id"`
}

func (s *Server) handleCreateStan(w http.ResponseWriter, r *http.Request) {
	var req createStanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Name == "" || req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "name and user_id are required", "")
		return
	}

	stan := core.Stan{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		UserID:      req.UserID,
		IsActive:    true,
		DateAdded:   time.Now().UTC(),
	}
	if err := s.store.CreateStan(r.Context(), stan); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to create stan", err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, stan)
}

func (s *Server) handleListStans(w http.ResponseWriter, r *http.Request) {
	stans, err := s.store.ListStans(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list stans", err.Error())
		return
	}
	if stans == nil {
		stans = []core.Stan{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"stans": stans})
}

func (s *Server) handleGetStan(w http.ResponseWriter, r *http.Request) {
	stan, err := s.store.GetStan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to fetch stan", err.Error())
		return
	}
	if stan == nil {
		s.writeError(w, http.StatusNotFound, "stan not found", "")
		return
	}
	s.writeJSON(w, http.StatusOK, stan)
}

type updateStanRequest struct {
	IsActive *bool `json:"is_active"`
}

func (s *Server) handleUpdateStan(w http.ResponseWriter, r *http.Request) {
	var req updateStanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.IsActive == nil {
		s.writeError(w, http.StatusBadRequest, "is_active is required", "")
		return
	}
	if err := s.store.SetStanActive(r.Context(), chi.URLParam(r, "id"), *req.IsActive); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to update stan", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleDeleteStan(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteStan(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to delete stan", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleStanBriefings(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	briefings, err := s.store.GetBriefingsByStan(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to fetch briefings", err.Error())
		return
	}
	if briefings == nil {
		briefings = []core.Briefing{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"briefings": briefings})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list categories", err.Error())
		return
	}
	if cats == nil {
		cats = []core.Category{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}
