package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/narravo/configd/models"
)

var (
	// ErrUnknownValueType is returned when a write declares a value type
	// outside the supported set.
	ErrUnknownValueType = errors.New("unknown value type")

	// ErrEmptyKey is returned when an operation is attempted on an empty
	// configuration key.
	ErrEmptyKey = errors.New("configuration key must not be empty")

	// ErrTokenIsExpired is returned by token parsing when the token's
	// "exp" claim lies in the past.
	ErrTokenIsExpired = errors.New("token is expired")

	// ErrVersionIsNotSpecified is returned at startup when the application
	// version is missing from the configuration.
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// ValidationError reports a write whose value is not a member of the
// entry's allowed-value set. The previously stored value, if any, remains
// unchanged.
type ValidationError struct {
	Key     string
	Value   string
	Allowed []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("value %q for key %q is not in the allowed set [%s]",
		e.Value, e.Key, strings.Join(e.Allowed, ", "))
}

// CoercionError reports a stored or submitted value that cannot be
// converted to the declared/requested type. It is surfaced instead of
// passing the raw value through, so callers decide fallback behavior
// explicitly.
type CoercionError struct {
	Key   string
	Raw   string
	Type  models.ValueType
	cause error
}

func (e *CoercionError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cannot coerce value %q of key %q to type %q", e.Raw, e.Key, e.Type)
	}
	return fmt.Sprintf("cannot coerce value %q to type %q", e.Raw, e.Type)
}

func (e *CoercionError) Unwrap() error {
	return e.cause
}

// RequiredKeyError reports a read of a registered required key that
// resolved to nothing at any layer. Required-ness is a declared property
// of the key, not a convention each caller re-implements.
type RequiredKeyError struct {
	Key string
}

func (e *RequiredKeyError) Error() string {
	return fmt.Sprintf("required configuration key %q is unset", e.Key)
}
