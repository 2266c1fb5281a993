// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Narravo Authors

package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/narravo/configd/internal/logger"
	"github.com/narravo/configd/internal/service"
	"github.com/narravo/configd/models"
)

// listSettings pages through global entries. Query parameters: "prefix"
// narrows by key prefix, "limit" and "offset" page the result.
func (h *Handler) listSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	limit, err := queryUint(r, "limit")
	if err != nil {
		http.Error(w, "invalid `limit` query parameter", http.StatusBadRequest)
		return
	}
	offset, err := queryUint(r, "offset")
	if err != nil {
		http.Error(w, "invalid `offset` query parameter", http.StatusBadRequest)
		return
	}

	settings, err := h.services.ConfigService.ListGlobal(r.Context(), r.URL.Query().Get("prefix"), limit, offset)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listSettings").Msg("error listing settings")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SettingList{
		Settings: settings,
		Total:    len(settings),
	})
}

// putSetting creates or replaces a global entry.
//
// The write is the first half of a two-step protocol: the service persists
// without touching the cache, then this handler invalidates the key so the
// next read re-resolves. Between the two steps concurrent readers may still
// observe the previous value.
func (h *Handler) putSetting(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	key := chi.URLParam(r, "key")

	var payload models.SettingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Err(err).Str("func", "*Handler.putSetting").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	value, err := unpackJSONValue(payload.Value)
	if err != nil {
		log.Err(err).Str("func", "*Handler.putSetting").Msg("invalid value payload")
		http.Error(w, "invalid value payload", http.StatusBadRequest)
		return
	}

	saved, err := h.services.ConfigService.SetGlobal(r.Context(), key, value, service.SetGlobalOptions{
		Type:          payload.Type,
		AllowedValues: payload.AllowedValues,
		Required:      payload.Required,
	})
	if err != nil {
		log.Err(err).Str("func", "*Handler.putSetting").Str("key", key).Msg("error setting global entry")
		writeError(w, err)
		return
	}

	h.services.ConfigService.Invalidate(key)

	writeJSON(w, http.StatusOK, saved)
}

// deleteSetting removes a global entry. Per-user overrides for the key
// survive and stay inert until a new global entry appears.
func (h *Handler) deleteSetting(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	key := chi.URLParam(r, "key")

	if err := h.services.ConfigService.DeleteGlobal(r.Context(), key); err != nil {
		log.Err(err).Str("func", "*Handler.deleteSetting").Str("key", key).Msg("error deleting global entry")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// invalidateSetting drops every cached resolution of a key across all user
// contexts. Cache-only; persistent state is untouched.
func (h *Handler) invalidateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	h.services.ConfigService.Invalidate(key)

	w.WriteHeader(http.StatusNoContent)
}

// putUserOverride writes an override on behalf of another user.
func (h *Handler) putUserOverride(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	key := chi.URLParam(r, "key")
	userID := chi.URLParam(r, "userID")

	value, err := decodeValuePayload(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.putUserOverride").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	override, err := h.services.ConfigService.SetUserOverride(r.Context(), key, userID, value)
	if err != nil {
		log.Err(err).Str("func", "*Handler.putUserOverride").Str("key", key).Str("user_id", userID).Msg("error setting override")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, override)
}

// deleteUserOverride removes another user's override.
func (h *Handler) deleteUserOverride(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	key := chi.URLParam(r, "key")
	userID := chi.URLParam(r, "userID")

	if err := h.services.ConfigService.DeleteUserOverride(r.Context(), key, userID); err != nil {
		log.Err(err).Str("func", "*Handler.deleteUserOverride").Str("key", key).Str("user_id", userID).Msg("error deleting override")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func queryUint(r *http.Request, name string) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
