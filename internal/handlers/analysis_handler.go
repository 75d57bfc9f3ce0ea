package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/animus/internal/interfaces"
	"github.com/ternarybob/animus/internal/models"
	"github.com/ternarybob/animus/internal/services/sessions"
)

// AnalysisHandler runs generation for a session and serves results
type AnalysisHandler struct {
	sessions *sessions.Store
	analysis interfaces.AnalysisService
	export   interfaces.ExportService
	logger   arbor.ILogger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(sessionStore *sessions.Store, analysisService interfaces.AnalysisService, exportService interfaces.ExportService, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		sessions: sessionStore,
		analysis: analysisService,
		export:   exportService,
		logger:   logger,
	}
}

// GenerateHandler handles POST /api/session/{id}/generate. The optional
// JSON body carries per-run options (model, language, temperature,
// format, grounding, include_questionnaire, test_mode).
func (h *AnalysisHandler) GenerateHandler(w http.ResponseWriter, r *http.Request, sessionID string) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var opts models.AnalysisOptions
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &opts); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid options payload: "+err.Error())
			return
		}
	}

	session, err := h.sessions.Get(sessionID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	input := &models.GenerationInput{
		Questionnaire: session.Questionnaire,
		Answers:       session.Answers,
		Education:     session.Education,
		Technique:     session.Technique,
		Options:       opts,
	}

	outcome, err := h.analysis.Run(r.Context(), input)
	if err != nil {
		h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Generation failed")
		WriteDomainError(w, err)
		return
	}

	if err := h.sessions.Update(sessionID, func(s *sessions.Session) {
		s.Outcome = outcome
	}); err != nil {
		WriteDomainError(w, err)
		return
	}

	h.logger.Info().
		Str("session_id", sessionID).
		Str("provider", outcome.Provider).
		Str("model", outcome.Model).
		Str("kind", string(outcome.Result.Kind)).
		Int("warnings", len(outcome.Warnings)).
		Msg("Analysis generated")

	writeOutcome(w, http.StatusOK, outcome)
}

// ResultHandler handles GET /api/session/{id}/result
func (h *AnalysisHandler) ResultHandler(w http.ResponseWriter, r *http.Request, sessionID string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	session, err := h.sessions.Get(sessionID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if session.Outcome == nil {
		WriteError(w, http.StatusNotFound, "session has no analysis result")
		return
	}

	writeOutcome(w, http.StatusOK, session.Outcome)
}

// ExportHandler handles GET /api/session/{id}/result/export?format=json|text|markdown|pdf
func (h *AnalysisHandler) ExportHandler(w http.ResponseWriter, r *http.Request, sessionID string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	session, err := h.sessions.Get(sessionID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if session.Outcome == nil {
		WriteError(w, http.StatusNotFound, "session has no analysis result")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	var (
		data        []byte
		contentType string
		extension   string
	)
	switch format {
	case "json":
		data, err = h.export.ExportJSON(session.Outcome)
		contentType = "application/json; charset=utf-8"
		extension = "json"
	case "text":
		data, err = h.export.ExportText(session.Outcome)
		contentType = "text/plain; charset=utf-8"
		extension = "txt"
	case "markdown":
		data, err = h.export.ExportMarkdown(session.Outcome)
		contentType = "text/markdown; charset=utf-8"
		extension = "md"
	case "pdf":
		data, err = h.export.ExportPDF(session.Outcome)
		contentType = "application/pdf"
		extension = "pdf"
	default:
		WriteError(w, http.StatusBadRequest, "unknown export format: "+format)
		return
	}
	if err != nil {
		h.logger.Warn().Err(err).Str("session_id", sessionID).Str("format", format).Msg("Export failed")
		WriteError(w, http.StatusInternalServerError, "export failed: "+err.Error())
		return
	}

	filename := fmt.Sprintf("analysis-%s.%s", sessionID, extension)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// writeOutcome serializes an outcome envelope with the result payload in
// its export form so Unicode text survives untouched.
func writeOutcome(w http.ResponseWriter, status int, outcome *models.AnalysisOutcome) {
	resultJSON, err := outcome.Result.ExportJSON()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to serialize result")
		return
	}

	WriteJSON(w, status, map[string]interface{}{
		"result":       json.RawMessage(resultJSON),
		"kind":         string(outcome.Result.Kind),
		"warnings":     outcome.Warnings,
		"provider":     outcome.Provider,
		"model":        outcome.Model,
		"generated_at": outcome.GeneratedAt,
	})
}
