// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Narravo Authors

package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/narravo/configd/models"
)

// The value codec converts between the stored textual representation of a
// configuration value and its declared semantic type. Both directions are
// deterministic and idempotent: serializing an already-serialized value, or
// coercing an already-typed value to its own type, yields an equal result.

// serializeValue renders value into the canonical stored form for vtype.
//
// Accepted inputs per type:
//   - string:   any scalar; non-strings are stringified.
//   - integer:  string / float64 (integral) / int variants.
//   - number:   string / float64 / int variants.
//   - boolean:  bool, or a string ("true" case-insensitively is true,
//     anything else is false — mirroring the coercion rule).
//   - date, datetime: strings only; kept opaque.
//   - json:     a string holding a JSON document, or any structured value
//     (marshaled).
//
// A value that cannot be rendered under vtype yields a *CoercionError.
func serializeValue(value any, vtype models.ValueType) (string, error) {
	switch vtype {
	case models.TypeString:
		return stringify(value), nil

	case models.TypeInteger:
		switch v := value.(type) {
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return "", &CoercionError{Raw: v, Type: vtype, cause: err}
			}
			return strconv.FormatInt(n, 10), nil
		case float64:
			if v != math.Trunc(v) {
				return "", &CoercionError{Raw: stringify(v), Type: vtype}
			}
			return strconv.FormatInt(int64(v), 10), nil
		case int:
			return strconv.FormatInt(int64(v), 10), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		default:
			return "", &CoercionError{Raw: stringify(value), Type: vtype}
		}

	case models.TypeNumber:
		switch v := value.(type) {
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return "", &CoercionError{Raw: v, Type: vtype, cause: err}
			}
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		case int:
			return strconv.FormatInt(int64(v), 10), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		default:
			return "", &CoercionError{Raw: stringify(value), Type: vtype}
		}

	case models.TypeBoolean:
		switch v := value.(type) {
		case bool:
			return strconv.FormatBool(v), nil
		case string:
			return strconv.FormatBool(strings.EqualFold(strings.TrimSpace(v), "true")), nil
		default:
			return "", &CoercionError{Raw: stringify(value), Type: vtype}
		}

	case models.TypeDate, models.TypeDateTime:
		v, ok := value.(string)
		if !ok {
			return "", &CoercionError{Raw: stringify(value), Type: vtype}
		}
		return v, nil

	case models.TypeJSON:
		if v, ok := value.(string); ok {
			if !json.Valid([]byte(v)) {
				return "", &CoercionError{Raw: v, Type: vtype}
			}
			return v, nil
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return "", &CoercionError{Raw: stringify(value), Type: vtype, cause: err}
		}
		return string(raw), nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownValueType, vtype)
	}
}

// coerceInt parses the stored form as a base-10 integer.
func coerceInt(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &CoercionError{Raw: raw, Type: models.TypeInteger, cause: err}
	}
	return n, nil
}

// coerceNumber parses the stored form as a floating-point number.
func coerceNumber(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &CoercionError{Raw: raw, Type: models.TypeNumber, cause: err}
	}
	return f, nil
}

// coerceBool reads the stored form as a boolean: only the case-insensitive
// literal "true" is true, everything else is false. Never fails.
func coerceBool(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

// coerceJSON parses the stored form as a JSON document.
func coerceJSON(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, &CoercionError{Raw: raw, Type: models.TypeJSON, cause: err}
	}
	return v, nil
}

// stringify is the "identity passthrough" of the string type: strings stay
// untouched, scalars render in their canonical textual form.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case nil:
		return ""
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}
