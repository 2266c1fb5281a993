package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/narravo/configd/internal/logger"
	"github.com/narravo/configd/models"
)

// overrideRepository is the PostgreSQL-backed implementation of
// [OverrideRepository]. It handles per-user values against the
// "setting_overrides" table, identified by the composite (key, user_id).
type overrideRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewOverrideRepository constructs an [OverrideRepository] backed by the
// provided database connection and logger.
func NewOverrideRepository(db *DB, logger *logger.Logger) OverrideRepository {
	logger.Debug().Msg("creating override repository")
	return &overrideRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert persists a per-user override, replacing any previous value for the
// (key, user_id) pair, and returns the canonical database representation.
//
// No foreign key ties overrides to global entries: an override may be
// written for a key with no settings row and stays inert until one exists.
func (r *overrideRepository) Upsert(ctx context.Context, override models.Override) (models.Override, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, upsertOverride, override.Key, override.UserID, override.Value)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*overrideRepository.Upsert").Msg("error: row is nil")
		return models.Override{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var saved models.Override
	if err := row.Scan(&saved.Key, &saved.UserID, &saved.Value, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		log.Err(err).Str("func", "*overrideRepository.Upsert").Msg("error: scanning error")
		return models.Override{}, err
	}

	return saved, nil
}

// FindByKeyAndUser retrieves the override for (key, userID).
//
// Error handling:
//   - sql.ErrNoRows / PostgreSQL no_data_found → [ErrOverrideNotFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *overrideRepository) FindByKeyAndUser(ctx context.Context, key, userID string) (models.Override, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findOverrideByKeyAndUser, key, userID)

	if err := row.Err(); err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgresError(err) == pgerrcode.NoDataFound {
			return models.Override{}, ErrOverrideNotFound
		}
		log.Err(err).Str("func", "*overrideRepository.FindByKeyAndUser").Msg("error: row is nil")
		return models.Override{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var found models.Override
	if err := row.Scan(&found.Key, &found.UserID, &found.Value, &found.CreatedAt, &found.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Override{}, ErrOverrideNotFound
		}
		log.Err(err).Str("func", "*overrideRepository.FindByKeyAndUser").Msg("error: scanning error")
		return models.Override{}, err
	}

	return found, nil
}

// Delete removes the override for (key, userID).
// Returns [ErrOverrideNotFound] when no row matched.
func (r *overrideRepository) Delete(ctx context.Context, key, userID string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteOverride, key, userID)
	if err != nil {
		log.Err(err).Str("func", "*overrideRepository.Delete").Msg("error: executing delete")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

// DeleteAllForKey removes every override of a key, for all users.
// Deleting zero rows is not an error here: the admin purge path calls this
// without knowing whether any user customized the key.
func (r *overrideRepository) DeleteAllForKey(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteOverridesForKey, key); err != nil {
		log.Err(err).Str("func", "*overrideRepository.DeleteAllForKey").Msg("error: executing delete")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}
