package store

import (
	"context"

	"github.com/narravo/configd/internal/config"
	"github.com/narravo/configd/internal/logger"
)

// Storages bundles the repositories backed by a single database connection.
type Storages struct {
	DB                 *DB
	SettingRepository  SettingRepository
	OverrideRepository OverrideRepository
}

// NewStorages connects to PostgreSQL and constructs all repositories.
// The raw connection is exposed for migration runs at startup.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	return &Storages{
		DB:                 db,
		SettingRepository:  NewSettingRepository(db, log),
		OverrideRepository: NewOverrideRepository(db, log),
	}, nil
}
