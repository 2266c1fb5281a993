package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrSettingNotFound is returned when a lookup or delete targets a key
	// that has no global entry in the database.
	ErrSettingNotFound = errors.New("setting was not found")

	// ErrOverrideNotFound is returned when a lookup or delete targets a
	// (key, user_id) pair that has no override row.
	ErrOverrideNotFound = errors.New("setting override was not found")

	// ErrSettingNotSaved is returned when a write completes without a
	// driver error but affects zero rows, meaning nothing was persisted.
	ErrSettingNotSaved = errors.New("setting was not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised
	// SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan setting row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan setting rows")
)
