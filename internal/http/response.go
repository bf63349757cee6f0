package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"adaptlearn-backend-go/internal/services"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Message: message})
}

// WriteServiceError maps a ServiceError onto its HTTP status and taxonomy
// code; anything else is reported as an internal error.
func WriteServiceError(w http.ResponseWriter, err error) {
	var serr services.ServiceError
	if errors.As(err, &serr) {
		WriteJSON(w, serr.Status, ErrorResponse{Message: serr.Message, Code: string(serr.Code)})
		return
	}
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}
