package service

import (
	"context"

	"github.com/narravo/configd/models"
)

// ResolveOptions narrows a read to a user context and controls caching.
// The zero value resolves the global entry through the cache.
type ResolveOptions struct {
	// UserID, when non-empty, makes per-user overrides win over the
	// global entry.
	UserID string

	// BypassCache forces a fresh read from the backing store, skipping
	// any cached value and leaving the cache unpopulated. Used by admin
	// surfaces that must see just-written state.
	BypassCache bool
}

// SetGlobalOptions declares the schema of a global entry on write.
type SetGlobalOptions struct {
	// Type declares how the value is serialized and coerced. When empty,
	// the registered key definition's type applies, falling back to
	// string.
	Type models.ValueType

	// AllowedValues, when non-empty, is the closed set of acceptable
	// values; writes outside the set fail with *ValidationError.
	AllowedValues []string

	// Required marks the key as one whose absence is an application
	// error.
	Required bool
}

// ConfigService resolves configuration keys to typed values for an
// optional user context, applying override → global → default resolution
// with an in-process cache, and persists admin writes.
//
// Typed getters return a nil pointer (or nil value for GetJSON) when the
// key is unset at every layer, except for registered required keys, which
// yield *RequiredKeyError instead. Store failures propagate wrapped and
// are never retried.
type ConfigService interface {
	GetString(ctx context.Context, key string, opts ResolveOptions) (*string, error)
	GetInt(ctx context.Context, key string, opts ResolveOptions) (*int64, error)
	GetNumber(ctx context.Context, key string, opts ResolveOptions) (*float64, error)
	GetBool(ctx context.Context, key string, opts ResolveOptions) (*bool, error)
	GetJSON(ctx context.Context, key string, opts ResolveOptions) (any, error)

	// Resolve returns the wire representation of a read: the coerced
	// value rendered back to JSON together with its type and source
	// layer.
	Resolve(ctx context.Context, key string, opts ResolveOptions) (models.ResolvedValue, error)

	// SetGlobal validates and persists a global entry. It deliberately
	// does NOT invalidate the cache: the write path calls Invalidate
	// afterward as a second, explicit step.
	SetGlobal(ctx context.Context, key string, value any, opts SetGlobalOptions) (models.Setting, error)

	// DeleteGlobal removes the global entry and invalidates the key's
	// cached resolutions. Overrides survive, inert.
	DeleteGlobal(ctx context.Context, key string) error

	// SetUserOverride persists a per-user value. When a global entry
	// exists the value is validated against its declared type and
	// allowed-value set. The (key, userID) cache entry is invalidated.
	SetUserOverride(ctx context.Context, key, userID string, value any) (models.Override, error)

	// DeleteUserOverride removes a per-user value and invalidates its
	// cache entry.
	DeleteUserOverride(ctx context.Context, key, userID string) error

	// ListGlobal pages through global entries for the admin surface.
	ListGlobal(ctx context.Context, prefix string, limit, offset uint64) ([]models.Setting, error)

	// Invalidate drops every cached resolution of key so subsequent
	// reads re-fetch from the backing store. Cache-only; persistent
	// state is untouched.
	Invalidate(key string)
}

// AuthService issues and validates the JWT access tokens guarding the
// HTTP API.
type AuthService interface {
	CreateToken(ctx context.Context, userID, role string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService exposes build/version information.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
