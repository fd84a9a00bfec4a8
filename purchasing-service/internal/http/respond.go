package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// respondDomainError maps stable domain error codes to HTTP statuses.
// Unknown errors stay opaque 500s.
func respondDomainError(w http.ResponseWriter, err error) {
	code := domain.CodeOf(err)
	if code == "" {
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	var status int
	switch code {
	case domain.CodeCartNotFound, domain.CodeOrderNotFound, domain.CodeProductNotFound:
		status = http.StatusNotFound
	case domain.CodeCartAlreadyConverted,
		domain.CodeInvalidOrderTransition,
		domain.CodeRefundWindowExpired,
		domain.CodeInsufficientStock,
		domain.CodeCartItemLimitExceeded:
		status = http.StatusConflict
	default:
		status = http.StatusBadRequest
	}
	respondError(w, status, string(code), err.Error())
}
