package server

import (
	"net/http"
	"strings"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	settings, err := s.svc.GetSettings(r.Context(), uid)
	if err != nil {
		s.internalError(w, "get settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSetCurrentGym(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var body models.SetCurrentGymBody
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.svc.SetCurrentGym(r.Context(), uid, body.GymID); err != nil {
		s.storeError(w, "set current gym", err)
		return
	}
	writeJSON(w, http.StatusOK, models.UserSettings{CurrentGymID: body.GymID})
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	profiles, err := s.svc.ListProfiles(r.Context(), uid)
	if err != nil {
		s.internalError(w, "list profiles", err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var body models.CreateProfileBody
	if !decodeBody(w, r, &body) {
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.ExerciseID == uuid.Nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "exercise_id and name are required")
		return
	}

	profile, err := s.svc.CreateProfile(r.Context(), uid, body)
	if err != nil {
		s.internalError(w, "create profile", err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	profileID, ok := urlID(w, r, "profile_id")
	if !ok {
		return
	}
	if err := s.svc.DeleteProfile(r.Context(), uid, profileID); err != nil {
		s.storeError(w, "delete profile", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
