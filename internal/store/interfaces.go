package store

import (
	"context"

	"github.com/narravo/configd/models"
)

// SettingRepository persists global configuration entries.
type SettingRepository interface {
	Upsert(ctx context.Context, setting models.Setting) (models.Setting, error)
	FindByKey(ctx context.Context, key string) (models.Setting, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, filter ListFilter) ([]models.Setting, error)
}

// OverrideRepository persists per-user configuration overrides.
type OverrideRepository interface {
	Upsert(ctx context.Context, override models.Override) (models.Override, error)
	FindByKeyAndUser(ctx context.Context, key, userID string) (models.Override, error)
	Delete(ctx context.Context, key, userID string) error
	DeleteAllForKey(ctx context.Context, key string) error
}

// ListFilter narrows and pages the settings listing.
// A zero Limit means "no limit".
type ListFilter struct {
	Prefix string
	Limit  uint64
	Offset uint64
}
