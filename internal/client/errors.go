// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Narravo Authors

package client

import "errors"

// Sentinel errors mapped from HTTP statuses returned by the configd API.
// Callers can match against them with [errors.Is].
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrUnprocessableValue  = errors.New("value rejected")
	ErrInternalServerError = errors.New("internal server error")
)
