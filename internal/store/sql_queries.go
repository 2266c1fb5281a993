package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	upsertSetting = `INSERT INTO settings (key, value, value_type, allowed_values, required)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (key) DO UPDATE
    SET value = EXCLUDED.value,
        value_type = EXCLUDED.value_type,
        allowed_values = EXCLUDED.allowed_values,
        required = EXCLUDED.required,
        updated_at = NOW()
    RETURNING key, value, value_type, allowed_values, required, created_at, updated_at;`

	findSettingByKey = `SELECT key, value, value_type, allowed_values, required, created_at, updated_at
    FROM settings
    WHERE key = $1;`

	deleteSetting = `DELETE FROM settings
    WHERE key = $1;`

	upsertOverride = `INSERT INTO setting_overrides (key, user_id, value)
    VALUES ($1, $2, $3)
    ON CONFLICT (key, user_id) DO UPDATE
    SET value = EXCLUDED.value,
        updated_at = NOW()
    RETURNING key, user_id, value, created_at, updated_at;`

	findOverrideByKeyAndUser = `SELECT key, user_id, value, created_at, updated_at
    FROM setting_overrides
    WHERE key = $1 AND user_id = $2;`

	deleteOverride = `DELETE FROM setting_overrides
    WHERE key = $1 AND user_id = $2;`

	deleteOverridesForKey = `DELETE FROM setting_overrides
    WHERE key = $1;`
)

// buildListQuery assembles the settings listing query for the given filter.
// Prefix narrows by key prefix, Limit/Offset page the result; rows come back
// ordered by key so listings are stable across calls.
func buildListQuery(filter ListFilter) (string, []any, error) {
	qb := sq.Select("key", "value", "value_type", "allowed_values", "required", "created_at", "updated_at").
		From("settings").
		OrderBy("key").
		PlaceholderFormat(sq.Dollar)

	if filter.Prefix != "" {
		qb = qb.Where(sq.Like{"key": filter.Prefix + "%"})
	}

	if filter.Limit > 0 {
		qb = qb.Limit(filter.Limit).Offset(filter.Offset)
	}

	return qb.ToSql()
}
