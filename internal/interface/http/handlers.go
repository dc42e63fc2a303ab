package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mentor-hub/student-mentor/internal/infrastructure/external/backend"
)

// healthResponse mirrors what operators and upstream probes expect from the
// health endpoint.
type healthResponse struct {
	Status             string `json:"status"`
	APIBaseURL         string `json:"api_base_url"`
	AuthConfigured     bool   `json:"auth_configured"`
	DeepseekConfigured bool   `json:"deepseek_configured"`
}

// handleHealth reports service status and configuration facts. It never
// calls out to the backend: a health probe must stay cheap.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:             "healthy",
		APIBaseURL:         s.deps.Backend.BaseURL(),
		AuthConfigured:     s.deps.Backend.AuthConfigured(),
		DeepseekConfigured: s.deps.LLMConfigured,
	})
}

// handleStudentMentor triggers the assessment pipeline. The snapshot fetch
// is synchronous; once it succeeds the heavy work runs in the background and
// the request is acknowledged with 202 and an empty body.
func (s *Server) handleStudentMentor(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || studentID <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	if err := s.deps.Mentor.Process(r.Context(), studentID); err != nil {
		status, message := upstreamError(err)
		s.logger.Warn("mentoring request failed",
			slog.Int64("student_id", studentID),
			slog.Int("status", status),
			slog.Any("error", err),
		)
		writeError(w, status, message)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// upstreamError maps a pipeline error onto the status and message reported
// to the caller. Backend failures pass their status through so the caller
// sees what the student API answered.
func upstreamError(err error) (int, string) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, apiErr.Message
	}
	return http.StatusInternalServerError, "Internal server error"
}
