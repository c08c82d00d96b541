package api

import (
	"encoding/json"
	"net/http"

	elyerr "github.com/amterp/elysian/internal/errors"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case elyerr.IsNotFound(err):
		status = http.StatusNotFound
	case elyerr.IsAlreadyExists(err):
		status = http.StatusConflict
	case elyerr.IsValidationError(err):
		status = http.StatusBadRequest
	}

	JSON(w, status, map[string]string{"error": err.Error()})
}

// BadRequest writes a 400 error with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
