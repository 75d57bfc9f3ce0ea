package handlers

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/animus/internal/interfaces"
	"github.com/ternarybob/animus/internal/models"
	"github.com/ternarybob/animus/internal/services/sessions"
)

// maxUploadBytes bounds a single upload read. Reference documents can be
// sizable PDFs, so the cap is generous.
const maxUploadBytes = 32 << 20 // 32 MB

// SessionHandler manages session lifecycle and input uploads
type SessionHandler struct {
	sessions  *sessions.Store
	extractor interfaces.DocumentExtractor
	logger    arbor.ILogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionStore *sessions.Store, extractor interfaces.DocumentExtractor, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		sessions:  sessionStore,
		extractor: extractor,
		logger:    logger,
	}
}

// CreateHandler handles POST /api/session
func (h *SessionHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	session := h.sessions.Create()
	h.logger.Info().Str("session_id", session.ID).Msg("Session created")

	WriteJSON(w, http.StatusCreated, map[string]string{
		"session_id": session.ID,
	})
}

// GetHandler handles GET /api/session/{id}
func (h *SessionHandler) GetHandler(w http.ResponseWriter, r *http.Request, sessionID string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	session, err := h.sessions.Get(sessionID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":     session.ID,
		"has_questions":  session.Questionnaire != nil,
		"answered":       answeredCount(session),
		"has_education":  session.Education != nil,
		"has_technique":  session.Technique != nil,
		"has_result":     session.Outcome != nil,
		"created_at":     session.CreatedAt,
		"updated_at":     session.UpdatedAt,
	})
}

// UploadQuestionnaireHandler handles POST /api/session/{id}/questionnaire.
// Accepts a multipart upload (field "file") or a raw JSON body.
func (h *SessionHandler) UploadQuestionnaireHandler(w http.ResponseWriter, r *http.Request, sessionID string) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	filename, data, err := readUpload(r, "questionnaire.json")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return
	}

	questionnaire, err := models.ParseQuestionnaire(filename, data)
	if err != nil {
		h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Questionnaire failed to parse")
		WriteDomainError(w, err)
		return
	}

	if err := h.sessions.Update(sessionID, func(session *sessions.Session) {
		session.Questionnaire = questionnaire
	}); err != nil {
		WriteDomainError(w, err)
		return
	}

	h.logger.Info().
		Str("session_id", sessionID).
		Int("questions", len(questionnaire.Questions)).
		Str("title", questionnaire.EducationTitle()).
		Msg("Questionnaire loaded")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"questions": len(questionnaire.Questions),
		"title":     questionnaire.EducationTitle(),
	})
}

// UploadAnswersHandler handles POST /api/session/{id}/answers.
// Accepts an answers file upload or a raw JSON array body; both carry
// [{id, answer}] entries keyed by question id.
func (h *SessionHandler) UploadAnswersHandler(w http.ResponseWriter, r *http.Request, sessionID string) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	filename, data, err := readUpload(r, "answers.json")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return
	}

	answers, err := models.ParseAnswers(filename, data)
	if err != nil {
		h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Answers failed to parse")
		WriteDomainError(w, err)
		return
	}

	if err := h.sessions.Update(sessionID, func(session *sessions.Session) {
		session.Answers = answers
	}); err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"answers": len(answers),
	})
}

// UploadReferenceHandler handles POST /api/session/{id}/reference/{slot}
// where slot is "education" or "technique".
func (h *SessionHandler) UploadReferenceHandler(w http.ResponseWriter, r *http.Request, sessionID, slot string) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	referenceSlot := models.ReferenceSlot(slot)
	if referenceSlot != models.SlotEducation && referenceSlot != models.SlotTechnique {
		WriteError(w, http.StatusBadRequest, "unknown reference slot: "+slot)
		return
	}

	filename, data, err := readUpload(r, "document.txt")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return
	}

	document := h.extractor.Extract(filename, data)

	if err := h.sessions.Update(sessionID, func(session *sessions.Session) {
		if referenceSlot == models.SlotEducation {
			session.Education = &document
		} else {
			session.Technique = &document
		}
	}); err != nil {
		WriteDomainError(w, err)
		return
	}

	h.logger.Info().
		Str("session_id", sessionID).
		Str("slot", slot).
		Str("format", string(document.Format)).
		Int("chars", len(document.Text)).
		Bool("sentinel", document.Sentinel).
		Msg("Reference document loaded")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"slot":     slot,
		"format":   string(document.Format),
		"chars":    len(document.Text),
		"sentinel": document.Sentinel,
		"usable":   document.Usable(),
	})
}

// readUpload returns the uploaded filename and content from either a
// multipart form (field "file") or the raw request body.
func readUpload(r *http.Request, defaultName string) (string, []byte, error) {
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(contentType, "multipart/") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return "", nil, err
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, err
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			return "", nil, err
		}
		return header.Filename, data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		return "", nil, err
	}
	return defaultName, data, nil
}

func answeredCount(session *sessions.Session) int {
	if session.Questionnaire == nil {
		return 0
	}
	return session.Questionnaire.AnsweredCount(session.Answers)
}
