package models

import "encoding/json"

// SettingPayload is the request body of the admin "set global entry"
// endpoint. Value arrives as raw JSON so string, numeric, boolean, and
// structured values all survive the transport untouched; the service
// serializes it according to Type.
type SettingPayload struct {
	Value         json.RawMessage `json:"value"`
	Type          ValueType       `json:"type"`
	AllowedValues []string        `json:"allowed_values,omitempty"`
	Required      bool            `json:"required"`
}

// OverridePayload is the request body of the override write endpoints.
type OverridePayload struct {
	Value json.RawMessage `json:"value"`
}

// ResolvedValue is the response of the value resolution endpoint.
//
// Value is the coerced value rendered back to JSON (number for
// integer/number, bool for boolean, document for json, string otherwise);
// it is null when the key resolved to nothing.
type ResolvedValue struct {
	Key    string          `json:"key"`
	Type   ValueType       `json:"type,omitempty"`
	Value  json.RawMessage `json:"value"`
	Source string          `json:"source,omitempty"`
}

// Resolution sources reported by ResolvedValue.Source.
const (
	SourceOverride = "override"
	SourceGlobal   = "global"
	SourceDefault  = "default"
)

// SettingList is the response of the admin list endpoint.
type SettingList struct {
	Settings []Setting `json:"settings"`
	Total    int       `json:"total"`
}

// VersionResponse is the response of the version endpoint.
type VersionResponse struct {
	Version string `json:"version"`
}

// ErrorResponse is the uniform error body returned by the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}
