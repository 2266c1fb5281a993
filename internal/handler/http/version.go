package http

import (
	"net/http"

	"github.com/narravo/configd/models"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	writeJSON(w, http.StatusOK, models.VersionResponse{Version: serverVersion})
}
