package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/errors"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Success writes the success envelope used by every non-webhook
// endpoint.
func Success(w http.ResponseWriter, status int, data any, message string) {
	body := map[string]any{
		"success": true,
		"data":    data,
	}
	if message != "" {
		body["message"] = message
	}
	JSON(w, status, body)
}

// Error writes an error response, mapping the domain error taxonomy to
// HTTP status codes: validation -> 400, not-found -> 404, everything
// else (including upstream failures) -> 500.
func Error(w http.ResponseWriter, label string, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	}

	JSON(w, status, map[string]string{
		"error":   label,
		"message": err.Error(),
	})
}

// MissingFields writes a 400 listing the required fields the request
// left out.
func MissingFields(w http.ResponseWriter, label string, fields ...string) {
	JSON(w, http.StatusBadRequest, map[string]any{
		"error":          label,
		"requiredFields": fields,
	})
}
