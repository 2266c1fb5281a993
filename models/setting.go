package models

import "time"

// ValueType declares the semantic type of a configuration value.
// It controls how the stored textual representation is serialized on write
// and coerced back on read.
type ValueType string

const (
	// TypeString is an opaque string value, passed through as-is.
	TypeString ValueType = "string"

	// TypeInteger is a base-10 integer.
	TypeInteger ValueType = "integer"

	// TypeNumber is a floating-point number.
	TypeNumber ValueType = "number"

	// TypeBoolean is a boolean; only the literal true / "true"
	// (case-insensitive) reads as true, everything else as false.
	TypeBoolean ValueType = "boolean"

	// TypeDate is a calendar date kept as an opaque string.
	// The configuration layer performs no date parsing.
	TypeDate ValueType = "date"

	// TypeDateTime is a timestamp kept as an opaque string,
	// like TypeDate.
	TypeDateTime ValueType = "datetime"

	// TypeJSON is an arbitrary JSON document stored as text.
	TypeJSON ValueType = "json"
)

// Valid reports whether v is one of the declared value types.
func (v ValueType) Valid() bool {
	switch v {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeDate, TypeDateTime, TypeJSON:
		return true
	}
	return false
}

// Setting is a global configuration entry: the default value of a key for
// all users absent a per-user override.
type Setting struct {
	// Key is the dot/segment-structured identifier of the entry
	// (e.g. "APPEARANCE.BANNER.ENABLED"). Case-sensitive, unique,
	// primary key at the persistence layer.
	Key string `json:"key"`

	// Value is the serialized textual representation of the entry.
	// Interpretation is governed by Type.
	Value string `json:"value"`

	// Type declares how Value is serialized and coerced.
	Type ValueType `json:"type"`

	// AllowedValues, when non-empty, is the closed set of serialized
	// values this entry accepts; writes outside the set are rejected.
	AllowedValues []string `json:"allowed_values,omitempty"`

	// Required marks keys whose absence the application treats as a
	// configuration error rather than a tolerable default.
	Required bool `json:"required"`

	// CreatedAt is the timestamp when the entry was first written.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last write to the entry.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Setting model.
func (s Setting) TableName() string {
	return "settings"
}

// Override is a per-user configuration value that takes precedence over the
// global Setting with the same key for that user's reads.
//
// An Override may outlive its global entry: deleting a Setting does not
// cascade to overrides, which stay inert until a new global entry appears.
type Override struct {
	// Key identifies the overridden configuration entry.
	// Together with UserID it forms the composite identity of the row.
	Key string `json:"key"`

	// UserID is the user the override applies to.
	UserID string `json:"user_id"`

	// Value is the serialized textual representation, following the same
	// serialization rules as the global entry.
	Value string `json:"value"`

	// CreatedAt is the timestamp when the override was first written.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last write to the override.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Override model.
func (o Override) TableName() string {
	return "setting_overrides"
}
