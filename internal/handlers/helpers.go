package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/animus/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteDomainError maps a pipeline error onto the appropriate status code.
func WriteDomainError(w http.ResponseWriter, err error) error {
	var precondition *models.PreconditionError
	var malformed *models.MalformedInputError
	var generation *models.GenerationError

	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		return WriteError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &precondition):
		return WriteError(w, http.StatusPreconditionFailed, precondition.Error())
	case errors.As(err, &malformed):
		return WriteError(w, http.StatusBadRequest, malformed.Error())
	case errors.As(err, &generation):
		return WriteError(w, http.StatusBadGateway, generation.Error())
	default:
		return WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
