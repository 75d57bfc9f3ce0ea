package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Sessions (analysis lifecycle)
	mux.HandleFunc("/api/session", s.app.SessionHandler.CreateHandler) // POST - create session
	mux.HandleFunc("/api/session/", s.handleSessionRoutes)             // /{id} and subpaths

	// API routes - System
	mux.HandleFunc("/api/status", s.app.APIHandler.StatusHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleSessionRoutes routes session-scoped requests to the appropriate
// handler. Paths look like /api/session/{id}[/{subresource}[/{arg}]].
func (s *Server) handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/session/")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Session ID required", http.StatusBadRequest)
		return
	}
	sessionID := parts[0]

	// GET /api/session/{id}
	if len(parts) == 1 {
		s.app.SessionHandler.GetHandler(w, r, sessionID)
		return
	}

	switch parts[1] {
	case "questionnaire":
		s.app.SessionHandler.UploadQuestionnaireHandler(w, r, sessionID)
	case "answers":
		s.app.SessionHandler.UploadAnswersHandler(w, r, sessionID)
	case "reference":
		// POST /api/session/{id}/reference/{slot}
		if len(parts) < 3 {
			http.Error(w, "Reference slot required", http.StatusBadRequest)
			return
		}
		s.app.SessionHandler.UploadReferenceHandler(w, r, sessionID, parts[2])
	case "generate":
		s.app.AnalysisHandler.GenerateHandler(w, r, sessionID)
	case "result":
		// GET /api/session/{id}/result and /result/export
		if len(parts) == 3 && parts[2] == "export" {
			s.app.AnalysisHandler.ExportHandler(w, r, sessionID)
			return
		}
		if len(parts) > 2 {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		s.app.AnalysisHandler.ResultHandler(w, r, sessionID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}
