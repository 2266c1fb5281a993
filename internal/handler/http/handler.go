package http

import (
	"encoding/json"
	"net/http"

	"github.com/narravo/configd/internal/logger"
	"github.com/narravo/configd/internal/service"
	"github.com/narravo/configd/models"
)

type Handler struct {
	services *service.Services

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}

// writeJSON renders v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders the uniform JSON error body with a status derived
// from the service/store error.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFromError(err), models.ErrorResponse{Error: err.Error()})
}
