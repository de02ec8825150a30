package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/webpilot/webpilot/pkg/report"
)

// ErrorResponse is the error envelope for all endpoints.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TaskResponse acknowledges a task submission.
type TaskResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

// SendTaskRequest is the body of a task submission.
type SendTaskRequest struct {
	Instructions string `json:"instructions"`
}

// RespondRequest is the body of a prompt response.
type RespondRequest struct {
	Response string `json:"response"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Status: "error", Message: message})
}

// handleSendTask accepts an instruction payload and starts a batch worker
// for it.
func (s *Server) handleSendTask(w http.ResponseWriter, r *http.Request) {
	var req SendTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Instructions == "" {
		respondError(w, http.StatusBadRequest, "No instructions provided")
		return
	}

	task := s.registry.Create(req.Instructions)
	s.log.Infof("task %s queued", task.ID)

	go s.runBatch(task, req.Instructions)

	respondJSON(w, http.StatusOK, TaskResponse{
		Status:  "ok",
		Message: "Task started",
		TaskID:  task.ID,
	})
}

// handleTaskStatus reports the live state of a task.
func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["task_id"]
	task := s.registry.Get(id)
	if task == nil {
		respondError(w, http.StatusNotFound, "Task not found")
		return
	}
	respondJSON(w, http.StatusOK, task.Snapshot())
}

// handleRespondToPrompt delivers a human response to a waiting task.
func (s *Server) handleRespondToPrompt(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["task_id"]
	task := s.registry.Get(id)
	if task == nil {
		respondError(w, http.StatusNotFound, "Task not found")
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Response == "" {
		respondError(w, http.StatusBadRequest, "No response provided")
		return
	}

	task.ProvideInput(req.Response)
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Response received",
	})
}

// handleTestReport returns the complete session report document.
func (s *Server) handleTestReport(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.Load()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if session == nil {
		respondError(w, http.StatusNotFound, "No test report available yet")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// handleTestReportHTML renders the session report as a standalone page.
func (s *Server) handleTestReportHTML(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.Load()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if session == nil {
		respondError(w, http.StatusNotFound, "No test report available yet")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderHTML(w, session); err != nil {
		s.log.Errorf("failed to render report: %v", err)
	}
}

// handleClearReport removes the stored report.
func (s *Server) handleClearReport(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Test report cleared",
	})
}

// handleHealth is a liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
