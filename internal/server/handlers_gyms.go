package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

func (s *Server) handleListGyms(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	gyms, err := s.svc.ListGyms(r.Context(), uid)
	if err != nil {
		s.internalError(w, "list gyms", err)
		return
	}
	writeJSON(w, http.StatusOK, gyms)
}

func (s *Server) handleCreateGym(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	body, ok := gymBody(w, r)
	if !ok {
		return
	}
	gym, err := s.svc.CreateGym(r.Context(), uid, body)
	if err != nil {
		s.internalError(w, "create gym", err)
		return
	}
	writeJSON(w, http.StatusCreated, gym)
}

func (s *Server) handleUpdateGym(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	gymID, ok := urlID(w, r, "gym_id")
	if !ok {
		return
	}
	body, ok := gymBody(w, r)
	if !ok {
		return
	}
	gym, err := s.svc.UpdateGym(r.Context(), uid, gymID, body)
	if err != nil {
		s.storeError(w, "update gym", err)
		return
	}
	writeJSON(w, http.StatusOK, gym)
}

func (s *Server) handleDeleteGym(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	gymID, ok := urlID(w, r, "gym_id")
	if !ok {
		return
	}
	if err := s.svc.DeleteGym(r.Context(), uid, gymID); err != nil {
		s.storeError(w, "delete gym", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNearbyGym(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "lat and lon must be valid coordinates")
		return
	}

	near, err := s.svc.NearestGym(r.Context(), uid, lat, lon)
	if err != nil {
		s.internalError(w, "nearby gym", err)
		return
	}
	if near == nil {
		writeError(w, http.StatusNotFound, "no gym nearby")
		return
	}
	writeJSON(w, http.StatusOK, near)
}

func (s *Server) handleGetProfileMappings(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	gymID, ok := urlID(w, r, "gym_id")
	if !ok {
		return
	}
	mappings, err := s.svc.GetProfileMappings(r.Context(), uid, gymID)
	if err != nil {
		s.internalError(w, "get profile mappings", err)
		return
	}
	writeJSON(w, http.StatusOK, mappings)
}

func (s *Server) handleSetProfileMapping(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	gymID, ok := urlID(w, r, "gym_id")
	if !ok {
		return
	}
	var body models.SetGymProfileMappingBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ExerciseID == uuid.Nil || body.ProfileID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "exercise_id and profile_id are required")
		return
	}

	m, err := s.svc.SetProfileMapping(r.Context(), uid, gymID, body)
	if err != nil {
		s.storeError(w, "set profile mapping", err)
		return
	}
	writeJSON(w, http.StatusOK, models.GymProfileMappingResponse{ExerciseID: m.ExerciseID, ProfileID: m.ProfileID})
}

func gymBody(w http.ResponseWriter, r *http.Request) (models.GymBody, bool) {
	var body models.GymBody
	if !decodeBody(w, r, &body) {
		return body, false
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return body, false
	}
	if (body.Latitude == nil) != (body.Longitude == nil) {
		writeError(w, http.StatusBadRequest, "latitude and longitude must be set together")
		return body, false
	}
	return body, true
}
