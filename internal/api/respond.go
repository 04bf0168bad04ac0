package api

import (
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// errorResponse mirrors the {"detail": "..."} envelope clients already parse.
type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *zap.Logger) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Warn("Failed to write JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, detail string, logger *zap.Logger) {
	writeJSON(w, status, errorResponse{Detail: detail}, logger)
}
