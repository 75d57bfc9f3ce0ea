package handlers

import (
	"net/http"

	"github.com/ternarybob/animus/internal/common"
	"github.com/ternarybob/animus/internal/services/sessions"
)

// APIHandler serves version and status endpoints
type APIHandler struct {
	config   *common.Config
	sessions *sessions.Store
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(config *common.Config, sessionStore *sessions.Store) *APIHandler {
	return &APIHandler{
		config:   config,
		sessions: sessionStore,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// StatusHandler returns application status
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"sessions":         h.sessions.Count(),
		"default_provider": string(h.config.LLM.DefaultProvider),
		"credential_set":   h.config.HasCredential(),
		"test_mode":        h.config.Analysis.TestMode,
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
