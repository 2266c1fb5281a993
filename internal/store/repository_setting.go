package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/narravo/configd/internal/logger"
	"github.com/narravo/configd/models"
)

// settingRepository is the PostgreSQL-backed implementation of
// [SettingRepository]. It handles global configuration entries against the
// "settings" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type settingRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSettingRepository constructs a [SettingRepository] backed by the
// provided database connection and logger.
func NewSettingRepository(db *DB, logger *logger.Logger) SettingRepository {
	logger.Debug().Msg("creating setting repository")
	return &settingRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert persists a global entry, replacing any previous value, type,
// allowed-value set, and required flag for the key, and returns the
// canonical database representation including timestamps.
func (r *settingRepository) Upsert(ctx context.Context, setting models.Setting) (models.Setting, error) {
	log := logger.FromContext(ctx)

	allowed, err := allowedValuesToDB(setting.AllowedValues)
	if err != nil {
		log.Err(err).Str("func", "*settingRepository.Upsert").Msg("error: serializing allowed values")
		return models.Setting{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, upsertSetting, setting.Key, setting.Value, setting.Type, allowed, setting.Required)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*settingRepository.Upsert").Msg("error: row is nil")
		return models.Setting{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	saved, err := scanSetting(row)
	if err != nil {
		log.Err(err).Str("func", "*settingRepository.Upsert").Msg("error: scanning error")
		return models.Setting{}, err
	}

	return saved, nil
}

// FindByKey retrieves the global entry for key.
//
// Error handling:
//   - sql.ErrNoRows / PostgreSQL no_data_found → [ErrSettingNotFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *settingRepository) FindByKey(ctx context.Context, key string) (models.Setting, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findSettingByKey, key)

	if err := row.Err(); err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgresError(err) == pgerrcode.NoDataFound {
			return models.Setting{}, ErrSettingNotFound
		}
		log.Err(err).Str("func", "*settingRepository.FindByKey").Msg("error: row is nil")
		return models.Setting{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	found, err := scanSetting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Setting{}, ErrSettingNotFound
		}
		log.Err(err).Str("func", "*settingRepository.FindByKey").Msg("error: scanning error")
		return models.Setting{}, err
	}

	return found, nil
}

// Delete removes the global entry for key. Overrides for the key are left
// in place: they stay inert until a new global entry appears.
//
// Returns [ErrSettingNotFound] when no row matched.
func (r *settingRepository) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteSetting, key)
	if err != nil {
		log.Err(err).Str("func", "*settingRepository.Delete").Msg("error: executing delete")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// List returns global entries matching the filter, ordered by key.
// The query is built dynamically with squirrel.
func (r *settingRepository) List(ctx context.Context, filter ListFilter) ([]models.Setting, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*settingRepository.List").Msg("error: building list query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*settingRepository.List").Msg("error: executing list query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			log.Err(err).Str("func", "*settingRepository.List").Msg("error: scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		settings = append(settings, setting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return settings, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSetting reads one settings row, decoding the allowed_values jsonb
// column back into a string slice.
func scanSetting(row rowScanner) (models.Setting, error) {
	var setting models.Setting
	var allowed sql.NullString

	if err := row.Scan(&setting.Key, &setting.Value, &setting.Type, &allowed, &setting.Required, &setting.CreatedAt, &setting.UpdatedAt); err != nil {
		return models.Setting{}, err
	}

	if allowed.Valid && allowed.String != "" {
		if err := json.Unmarshal([]byte(allowed.String), &setting.AllowedValues); err != nil {
			return models.Setting{}, fmt.Errorf("%w: decoding allowed_values: %w", ErrScanningRow, err)
		}
	}

	return setting, nil
}

// allowedValuesToDB serializes the allowed-value set for the jsonb column.
// An empty set is stored as NULL, not as an empty array.
func allowedValuesToDB(allowedValues []string) (any, error) {
	if len(allowedValues) == 0 {
		return nil, nil
	}

	raw, err := json.Marshal(allowedValues)
	if err != nil {
		return nil, err
	}

	return string(raw), nil
}
