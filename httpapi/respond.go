package httpapi

import (
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/deepsolv/linkedin-insights/apperr"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError maps the error taxonomy onto HTTP statuses. Only NotFound and
// Validation carry their message out; everything else is an opaque 500 with
// the detail kept in the log.
func respondError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case apperr.KindValidation:
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Error("request failed", zap.String("component", "httpapi"), zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
