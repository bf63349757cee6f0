package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"adaptlearn-backend-go/internal/models"
	"adaptlearn-backend-go/internal/services"
)

type FeedbackRequest struct {
	Mode      string  `json:"mode" validate:"required"`
	Feedback  float64 `json:"feedback"`
	SessionID string  `json:"sessionId"`
}

type SurveyRequest struct {
	Preference *string `json:"preference"`
}

type AnswerRequest struct {
	ChunkID         string `json:"chunkId"`
	SourceReference string `json:"sourceReference"`
	Correct         bool   `json:"correct"`
	Question        string `json:"question"`
}

type FileMappingRequest struct {
	FileID   string `json:"fileId" validate:"required"`
	Filename string `json:"filename" validate:"required"`
}

type PerformanceResponse struct {
	Chunks  map[string]services.ChunkReport `json:"chunks"`
	Summary services.PerformanceSummary     `json:"summary"`
}

func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := services.GetLearningState(s.DB, CurrentUsername(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}

// PutState replaces the caller's learning state wholesale. Malformed
// documents are rejected before anything persists.
func (s *Server) PutState(w http.ResponseWriter, r *http.Request) {
	var state models.LearningState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		WriteError(w, http.StatusBadRequest, "Malformed learning state payload")
		return
	}
	saved, err := services.UpsertLearningState(s.DB, CurrentUsername(r), state)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) ResetState(w http.ResponseWriter, r *http.Request) {
	state, err := services.ResetLearningState(s.DB, CurrentUsername(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}

func (s *Server) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	state, err := services.RecordFeedback(s.DB, CurrentUsername(r), mode, req.Feedback, req.SessionID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}

func (s *Server) Recommendation(w http.ResponseWriter, r *http.Request) {
	recommendation, err := services.Recommend(s.DB, CurrentUsername(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, recommendation)
}

func (s *Server) ModeStats(w http.ResponseWriter, r *http.Request) {
	state, err := services.GetLearningState(s.DB, CurrentUsername(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]map[string]services.ModeStats{"modes": services.ModeStatistics(state)})
}

func (s *Server) CompleteSurvey(w http.ResponseWriter, r *http.Request) {
	var req SurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	state, err := services.CompleteSurvey(s.DB, CurrentUsername(r), req.Preference)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}

func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	state, err := services.StartSession(s.DB, CurrentUsername(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}

func (s *Server) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	state, err := services.RecordAnswer(s.DB, CurrentUsername(r), req.ChunkID, req.SourceReference, req.Correct, req.Question)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}

func (s *Server) MapFile(w http.ResponseWriter, r *http.Request) {
	var req FileMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "A file id and filename are required")
		return
	}
	state, err := services.MapFile(s.DB, CurrentUsername(r), req.FileID, req.Filename)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}

func (s *Server) Performance(w http.ResponseWriter, r *http.Request) {
	state, err := services.GetLearningState(s.DB, CurrentUsername(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, PerformanceResponse{
		Chunks:  services.PerformanceReport(state),
		Summary: services.Summary(state),
	})
}

func (s *Server) WeakAreas(w http.ResponseWriter, r *http.Request) {
	threshold := parseFloat(r.URL.Query().Get("threshold"), 60.0)
	minAttempts := parseInt(r.URL.Query().Get("minAttempts"), 2)
	state, err := services.GetLearningState(s.DB, CurrentUsername(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]services.ChunkReport{"areas": services.WeakAreas(state, threshold, minAttempts)})
}

func (s *Server) StrongAreas(w http.ResponseWriter, r *http.Request) {
	threshold := parseFloat(r.URL.Query().Get("threshold"), 80.0)
	minAttempts := parseInt(r.URL.Query().Get("minAttempts"), 2)
	state, err := services.GetLearningState(s.DB, CurrentUsername(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]services.ChunkReport{"areas": services.StrongAreas(state, threshold, minAttempts)})
}
