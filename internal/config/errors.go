package config

import "errors"

var (
	// ErrInvalidStorageConfigs is returned when the merged configuration
	// lacks a usable database DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configs: database DSN is required")

	// ErrInvalidAppConfigs is returned when token signing settings are
	// missing; the HTTP API cannot authenticate requests without them.
	ErrInvalidAppConfigs = errors.New("invalid app configs: token sign key and issuer are required")
)
