package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// respondError maps domain sentinels to status codes. Non-2xx responses
// carry a plain-text body.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrUnknownRole),
		errors.Is(err, domain.ErrStructureMissing):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		log.Printf("handler: internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
