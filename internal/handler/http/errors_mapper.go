package http

import (
	"errors"
	"net/http"

	"github.com/narravo/configd/internal/service"
	"github.com/narravo/configd/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrEmptyKey:              http.StatusBadRequest,
	service.ErrUnknownValueType:      http.StatusBadRequest,
	service.ErrTokenIsExpired:        http.StatusUnauthorized,
	service.ErrVersionIsNotSpecified: http.StatusBadRequest,

	store.ErrSettingNotFound:  http.StatusNotFound,
	store.ErrOverrideNotFound: http.StatusNotFound,
	store.ErrSettingNotSaved:  http.StatusInternalServerError,

	store.ErrBuildingSQLQuery: http.StatusInternalServerError,
	store.ErrExecutingQuery:   http.StatusInternalServerError,
	store.ErrScanningRow:      http.StatusInternalServerError,
	store.ErrScanningRows:     http.StatusInternalServerError,
}

func statusFromError(err error) int {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity
	}

	// On writes a coercion failure means the submitted value does not fit
	// the declared type; reads only hit it when stored state is corrupt,
	// which still reads best as a client-visible 422 over a blanket 500.
	var cerr *service.CoercionError
	if errors.As(err, &cerr) {
		return http.StatusUnprocessableEntity
	}

	var rerr *service.RequiredKeyError
	if errors.As(err, &rerr) {
		return http.StatusInternalServerError
	}

	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
