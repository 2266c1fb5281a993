// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Narravo Authors

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/narravo/configd/internal/logger"
	"github.com/narravo/configd/internal/service"
	"github.com/narravo/configd/internal/utils"
	"github.com/narravo/configd/models"
)

// getSetting resolves a key for the authenticated caller's user context.
// The optional "fresh=1" query parameter bypasses the cache for this read.
func (h *Handler) getSetting(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	key := chi.URLParam(r, "key")
	userID, _ := utils.GetUserIDFromContext(r.Context())

	resolved, err := h.services.ConfigService.Resolve(r.Context(), key, service.ResolveOptions{
		UserID:      userID,
		BypassCache: r.URL.Query().Get("fresh") == "1",
	})
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSetting").Str("key", key).Msg("error resolving setting")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resolved)
}

// setUserSetting writes a self-service override for the authenticated user.
func (h *Handler) setUserSetting(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	key := chi.URLParam(r, "key")
	userID, _ := utils.GetUserIDFromContext(r.Context())

	value, err := decodeValuePayload(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.setUserSetting").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	override, err := h.services.ConfigService.SetUserOverride(r.Context(), key, userID, value)
	if err != nil {
		log.Err(err).Str("func", "*Handler.setUserSetting").Str("key", key).Msg("error setting override")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, override)
}

// deleteUserSetting removes the authenticated user's override for a key.
func (h *Handler) deleteUserSetting(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	key := chi.URLParam(r, "key")
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.services.ConfigService.DeleteUserOverride(r.Context(), key, userID); err != nil {
		log.Err(err).Str("func", "*Handler.deleteUserSetting").Str("key", key).Msg("error deleting override")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeValuePayload reads an [models.OverridePayload] body and unpacks the
// raw JSON value into the Go shape the service codec accepts: string,
// float64, bool, or a structured document.
func decodeValuePayload(r *http.Request) (any, error) {
	var payload models.OverridePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return unpackJSONValue(payload.Value)
}

func unpackJSONValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyRequestBody
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}
