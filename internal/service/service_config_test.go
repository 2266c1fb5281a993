// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Narravo Authors

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/narravo/configd/internal/logger"
	"github.com/narravo/configd/internal/store"
	"github.com/narravo/configd/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mock: store.SettingRepository
// ─────────────────────────────────────────────

type mockSettingRepository struct {
	upsertFn    func(ctx context.Context, setting models.Setting) (models.Setting, error)
	findByKeyFn func(ctx context.Context, key string) (models.Setting, error)
	deleteFn    func(ctx context.Context, key string) error
	listFn      func(ctx context.Context, filter store.ListFilter) ([]models.Setting, error)

	findCalls int
}

func (m *mockSettingRepository) Upsert(ctx context.Context, setting models.Setting) (models.Setting, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, setting)
	}
	return setting, nil
}

func (m *mockSettingRepository) FindByKey(ctx context.Context, key string) (models.Setting, error) {
	m.findCalls++
	if m.findByKeyFn != nil {
		return m.findByKeyFn(ctx, key)
	}
	return models.Setting{}, store.ErrSettingNotFound
}

func (m *mockSettingRepository) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockSettingRepository) List(ctx context.Context, filter store.ListFilter) ([]models.Setting, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: store.OverrideRepository
// ─────────────────────────────────────────────

type mockOverrideRepository struct {
	upsertFn           func(ctx context.Context, override models.Override) (models.Override, error)
	findByKeyAndUserFn func(ctx context.Context, key, userID string) (models.Override, error)
	deleteFn           func(ctx context.Context, key, userID string) error
	deleteAllForKeyFn  func(ctx context.Context, key string) error
}

func (m *mockOverrideRepository) Upsert(ctx context.Context, override models.Override) (models.Override, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, override)
	}
	return override, nil
}

func (m *mockOverrideRepository) FindByKeyAndUser(ctx context.Context, key, userID string) (models.Override, error) {
	if m.findByKeyAndUserFn != nil {
		return m.findByKeyAndUserFn(ctx, key, userID)
	}
	return models.Override{}, store.ErrOverrideNotFound
}

func (m *mockOverrideRepository) Delete(ctx context.Context, key, userID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key, userID)
	}
	return nil
}

func (m *mockOverrideRepository) DeleteAllForKey(ctx context.Context, key string) error {
	if m.deleteAllForKeyFn != nil {
		return m.deleteAllForKeyFn(ctx, key)
	}
	return nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

var errStore = errors.New("store error")

func newTestConfigService(t *testing.T, settings *mockSettingRepository, overrides *mockOverrideRepository) ConfigService {
	t.Helper()
	cache := NewValueCache()
	t.Cleanup(cache.Stop)
	return NewConfigService(settings, overrides, cache, logger.Nop())
}

// globalFixture returns a findByKeyFn serving one fixed global entry.
func globalFixture(setting models.Setting) func(ctx context.Context, key string) (models.Setting, error) {
	return func(_ context.Context, key string) (models.Setting, error) {
		if key == setting.Key {
			return setting, nil
		}
		return models.Setting{}, store.ErrSettingNotFound
	}
}

// ─────────────────────────────────────────────
// Resolution order
// ─────────────────────────────────────────────

func TestConfigService_GetString_UnsetKeyReturnsNil(t *testing.T) {
	svc := newTestConfigService(t, &mockSettingRepository{}, &mockOverrideRepository{})

	got, err := svc.GetString(context.Background(), "SOME.UNREGISTERED.KEY", ResolveOptions{})

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConfigService_GetString_GlobalEntry(t *testing.T) {
	settings := &mockSettingRepository{
		findByKeyFn: globalFixture(models.Setting{Key: "SITE.NAME", Value: "My Blog", Type: models.TypeString}),
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	got, err := svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "My Blog", *got)
}

func TestConfigService_GetString_OverrideWinsForItsUserOnly(t *testing.T) {
	settings := &mockSettingRepository{
		findByKeyFn: globalFixture(models.Setting{Key: "THEME.DEFAULT", Value: "light", Type: models.TypeString}),
	}
	overrides := &mockOverrideRepository{
		findByKeyAndUserFn: func(_ context.Context, key, userID string) (models.Override, error) {
			if key == "THEME.DEFAULT" && userID == "u1" {
				return models.Override{Key: key, UserID: userID, Value: "dark"}, nil
			}
			return models.Override{}, store.ErrOverrideNotFound
		},
	}
	svc := newTestConfigService(t, settings, overrides)

	got, err := svc.GetString(context.Background(), "THEME.DEFAULT", ResolveOptions{UserID: "u1"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "dark", *got)

	got, err = svc.GetString(context.Background(), "THEME.DEFAULT", ResolveOptions{UserID: "u2"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "light", *got)

	got, err = svc.GetString(context.Background(), "THEME.DEFAULT", ResolveOptions{})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "light", *got)
}

func TestConfigService_GetInt_RegisteredDefaultApplies(t *testing.T) {
	// nothing in the store; FEED.LATEST-COUNT falls back to its default
	svc := newTestConfigService(t, &mockSettingRepository{}, &mockOverrideRepository{})

	got, err := svc.GetInt(context.Background(), "FEED.LATEST-COUNT", ResolveOptions{})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(20), *got)
}

func TestConfigService_GetNumber_FromIntegerEntry(t *testing.T) {
	settings := &mockSettingRepository{
		findByKeyFn: globalFixture(models.Setting{Key: "FEED.LATEST-COUNT", Value: "20", Type: models.TypeInteger}),
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	got, err := svc.GetNumber(context.Background(), "FEED.LATEST-COUNT", ResolveOptions{})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 20.0, *got)
}

func TestConfigService_GetBool(t *testing.T) {
	settings := &mockSettingRepository{
		findByKeyFn: globalFixture(models.Setting{Key: "APPEARANCE.BANNER.ENABLED", Value: "true", Type: models.TypeBoolean}),
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	got, err := svc.GetBool(context.Background(), "APPEARANCE.BANNER.ENABLED", ResolveOptions{})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, *got)
}

func TestConfigService_GetJSON(t *testing.T) {
	settings := &mockSettingRepository{
		findByKeyFn: globalFixture(models.Setting{Key: "SITE.DISCLAIMER.STYLE", Value: `{"color":"red"}`, Type: models.TypeJSON}),
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	got, err := svc.GetJSON(context.Background(), "SITE.DISCLAIMER.STYLE", ResolveOptions{})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"color": "red"}, got)
}

func TestConfigService_GetJSON_UnsetReturnsNil(t *testing.T) {
	svc := newTestConfigService(t, &mockSettingRepository{}, &mockOverrideRepository{})

	got, err := svc.GetJSON(context.Background(), "SITE.DISCLAIMER.STYLE", ResolveOptions{})

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConfigService_GetInt_CoercionErrorCarriesKey(t *testing.T) {
	settings := &mockSettingRepository{
		findByKeyFn: globalFixture(models.Setting{Key: "SITE.NAME", Value: "Narravo", Type: models.TypeString}),
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	_, err := svc.GetInt(context.Background(), "SITE.NAME", ResolveOptions{})

	var cerr *CoercionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "SITE.NAME", cerr.Key)
	assert.Equal(t, "Narravo", cerr.Raw)
}

func TestConfigService_GetString_RequiredKeyUnset(t *testing.T) {
	models.Registry["TEST.REQUIRED"] = models.KeyDef{Key: "TEST.REQUIRED", Type: models.TypeString, Required: true}
	t.Cleanup(func() { delete(models.Registry, "TEST.REQUIRED") })

	svc := newTestConfigService(t, &mockSettingRepository{}, &mockOverrideRepository{})

	_, err := svc.GetString(context.Background(), "TEST.REQUIRED", ResolveOptions{})

	var rerr *RequiredKeyError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "TEST.REQUIRED", rerr.Key)
}

func TestConfigService_GetString_EmptyKey(t *testing.T) {
	svc := newTestConfigService(t, &mockSettingRepository{}, &mockOverrideRepository{})

	_, err := svc.GetString(context.Background(), "", ResolveOptions{})

	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestConfigService_GetString_StoreErrorPropagates(t *testing.T) {
	settings := &mockSettingRepository{
		findByKeyFn: func(_ context.Context, _ string) (models.Setting, error) {
			return models.Setting{}, errStore
		},
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	_, err := svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})

	assert.ErrorIs(t, err, errStore)
}

// ─────────────────────────────────────────────
// Caching
// ─────────────────────────────────────────────

func TestConfigService_SecondReadIsServedFromCache(t *testing.T) {
	settings := &mockSettingRepository{
		findByKeyFn: globalFixture(models.Setting{Key: "SITE.NAME", Value: "Narravo", Type: models.TypeString}),
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	_, err := svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})
	require.NoError(t, err)
	_, err = svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, settings.findCalls)
}

func TestConfigService_ReadIsStaleUntilInvalidated(t *testing.T) {
	value := "old"
	settings := &mockSettingRepository{
		findByKeyFn: func(_ context.Context, key string) (models.Setting, error) {
			return models.Setting{Key: key, Value: value, Type: models.TypeString}, nil
		},
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	got, err := svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "old", *got)

	// the backing store changes underneath the cache
	value = "new"

	got, err = svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "old", *got)

	svc.Invalidate("SITE.NAME")

	got, err = svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "new", *got)
}

func TestConfigService_BypassCacheReadsFreshAndDoesNotPopulate(t *testing.T) {
	value := "old"
	settings := &mockSettingRepository{
		findByKeyFn: func(_ context.Context, key string) (models.Setting, error) {
			return models.Setting{Key: key, Value: value, Type: models.TypeString}, nil
		},
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	_, err := svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})
	require.NoError(t, err)

	value = "new"

	got, err := svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{BypassCache: true})
	require.NoError(t, err)
	assert.Equal(t, "new", *got)

	// the cached entry stays untouched by the bypass read
	got, err = svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "old", *got)
}

func TestConfigService_AbsenceIsCached(t *testing.T) {
	settings := &mockSettingRepository{}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	for range 3 {
		got, err := svc.GetString(context.Background(), "SOME.UNSET.KEY", ResolveOptions{})
		require.NoError(t, err)
		assert.Nil(t, got)
	}

	assert.Equal(t, 1, settings.findCalls)
}

// ─────────────────────────────────────────────
// Resolve (wire form)
// ─────────────────────────────────────────────

func TestConfigService_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		setting    models.Setting
		wantValue  string
		wantType   models.ValueType
		wantSource string
	}{
		{
			name:       "string renders as json string",
			setting:    models.Setting{Key: "SITE.NAME", Value: "Narravo", Type: models.TypeString},
			wantValue:  `"Narravo"`,
			wantType:   models.TypeString,
			wantSource: models.SourceGlobal,
		},
		{
			name:       "integer renders as json number",
			setting:    models.Setting{Key: "FEED.LATEST-COUNT", Value: "20", Type: models.TypeInteger},
			wantValue:  `20`,
			wantType:   models.TypeInteger,
			wantSource: models.SourceGlobal,
		},
		{
			name:       "boolean renders as json bool",
			setting:    models.Setting{Key: "APPEARANCE.BANNER.ENABLED", Value: "true", Type: models.TypeBoolean},
			wantValue:  `true`,
			wantType:   models.TypeBoolean,
			wantSource: models.SourceGlobal,
		},
		{
			name:       "json document passes through",
			setting:    models.Setting{Key: "SITE.DISCLAIMER.STYLE", Value: `{"color":"red"}`, Type: models.TypeJSON},
			wantValue:  `{"color":"red"}`,
			wantType:   models.TypeJSON,
			wantSource: models.SourceGlobal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := &mockSettingRepository{findByKeyFn: globalFixture(tt.setting)}
			svc := newTestConfigService(t, settings, &mockOverrideRepository{})

			got, err := svc.Resolve(context.Background(), tt.setting.Key, ResolveOptions{})

			require.NoError(t, err)
			assert.Equal(t, tt.setting.Key, got.Key)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.JSONEq(t, tt.wantValue, string(got.Value))
		})
	}
}

func TestConfigService_Resolve_UnsetKeyRendersNull(t *testing.T) {
	svc := newTestConfigService(t, &mockSettingRepository{}, &mockOverrideRepository{})

	got, err := svc.Resolve(context.Background(), "SOME.UNSET.KEY", ResolveOptions{})

	require.NoError(t, err)
	assert.Equal(t, json.RawMessage("null"), got.Value)
	assert.Empty(t, got.Source)
}

func TestConfigService_Resolve_OverrideSource(t *testing.T) {
	settings := &mockSettingRepository{
		findByKeyFn: globalFixture(models.Setting{Key: "THEME.DEFAULT", Value: "light", Type: models.TypeString}),
	}
	overrides := &mockOverrideRepository{
		findByKeyAndUserFn: func(_ context.Context, key, userID string) (models.Override, error) {
			return models.Override{Key: key, UserID: userID, Value: "dark"}, nil
		},
	}
	svc := newTestConfigService(t, settings, overrides)

	got, err := svc.Resolve(context.Background(), "THEME.DEFAULT", ResolveOptions{UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, models.SourceOverride, got.Source)
	assert.JSONEq(t, `"dark"`, string(got.Value))
}

func TestConfigService_Resolve_DefaultSource(t *testing.T) {
	svc := newTestConfigService(t, &mockSettingRepository{}, &mockOverrideRepository{})

	got, err := svc.Resolve(context.Background(), "FEED.LATEST-COUNT", ResolveOptions{})

	require.NoError(t, err)
	assert.Equal(t, models.SourceDefault, got.Source)
	assert.Equal(t, models.TypeInteger, got.Type)
	assert.JSONEq(t, `20`, string(got.Value))
}

// ─────────────────────────────────────────────
// SetGlobal
// ─────────────────────────────────────────────

func TestConfigService_SetGlobal_Success(t *testing.T) {
	var saved models.Setting
	settings := &mockSettingRepository{
		upsertFn: func(_ context.Context, setting models.Setting) (models.Setting, error) {
			saved = setting
			return setting, nil
		},
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	got, err := svc.SetGlobal(context.Background(), "MODERATION.PAGE-SIZE", "50", SetGlobalOptions{
		Type:          models.TypeInteger,
		AllowedValues: []string{"10", "20", "50"},
		Required:      true,
	})

	require.NoError(t, err)
	assert.Equal(t, "50", saved.Value)
	assert.Equal(t, models.TypeInteger, saved.Type)
	assert.Equal(t, "50", got.Value)
}

func TestConfigService_SetGlobal_ValueOutsideAllowedSet(t *testing.T) {
	settings := &mockSettingRepository{
		upsertFn: func(_ context.Context, _ models.Setting) (models.Setting, error) {
			t.Fatal("upsert must not be reached for a rejected value")
			return models.Setting{}, nil
		},
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	_, err := svc.SetGlobal(context.Background(), "MODERATION.PAGE-SIZE", "999", SetGlobalOptions{
		Type:          models.TypeInteger,
		AllowedValues: []string{"10", "20", "50"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "MODERATION.PAGE-SIZE", verr.Key)
	assert.Equal(t, "999", verr.Value)
}

func TestConfigService_SetGlobal_TypeFallsBackToRegistry(t *testing.T) {
	var saved models.Setting
	settings := &mockSettingRepository{
		upsertFn: func(_ context.Context, setting models.Setting) (models.Setting, error) {
			saved = setting
			return setting, nil
		},
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	// FEED.LATEST-COUNT is registered as integer; no explicit type given
	_, err := svc.SetGlobal(context.Background(), "FEED.LATEST-COUNT", float64(30), SetGlobalOptions{})

	require.NoError(t, err)
	assert.Equal(t, models.TypeInteger, saved.Type)
	assert.Equal(t, "30", saved.Value)
}

func TestConfigService_SetGlobal_UnserializableValue(t *testing.T) {
	svc := newTestConfigService(t, &mockSettingRepository{}, &mockOverrideRepository{})

	_, err := svc.SetGlobal(context.Background(), "FEED.LATEST-COUNT", "not-a-number", SetGlobalOptions{
		Type: models.TypeInteger,
	})

	var cerr *CoercionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "FEED.LATEST-COUNT", cerr.Key)
}

func TestConfigService_SetGlobal_UnknownType(t *testing.T) {
	svc := newTestConfigService(t, &mockSettingRepository{}, &mockOverrideRepository{})

	_, err := svc.SetGlobal(context.Background(), "SITE.NAME", "x", SetGlobalOptions{Type: "uuid"})

	assert.ErrorIs(t, err, ErrUnknownValueType)
}

func TestConfigService_SetGlobal_DoesNotInvalidateCache(t *testing.T) {
	value := "old"
	settings := &mockSettingRepository{
		findByKeyFn: func(_ context.Context, key string) (models.Setting, error) {
			return models.Setting{Key: key, Value: value, Type: models.TypeString}, nil
		},
		upsertFn: func(_ context.Context, setting models.Setting) (models.Setting, error) {
			value = setting.Value
			return setting, nil
		},
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	got, err := svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "old", *got)

	_, err = svc.SetGlobal(context.Background(), "SITE.NAME", "new", SetGlobalOptions{})
	require.NoError(t, err)

	// the write alone leaves the cached value in place
	got, err = svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "old", *got)

	// the second step of the protocol makes the write visible
	svc.Invalidate("SITE.NAME")

	got, err = svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "new", *got)
}

// ─────────────────────────────────────────────
// DeleteGlobal
// ─────────────────────────────────────────────

func TestConfigService_DeleteGlobal_Invalidates(t *testing.T) {
	deleted := false
	settings := &mockSettingRepository{
		findByKeyFn: func(_ context.Context, key string) (models.Setting, error) {
			if deleted {
				return models.Setting{}, store.ErrSettingNotFound
			}
			return models.Setting{Key: key, Value: "My Blog", Type: models.TypeString}, nil
		},
		deleteFn: func(_ context.Context, _ string) error {
			deleted = true
			return nil
		},
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	got, err := svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "My Blog", *got)

	require.NoError(t, svc.DeleteGlobal(context.Background(), "SITE.NAME"))

	got, err = svc.GetString(context.Background(), "SITE.NAME", ResolveOptions{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConfigService_DeleteGlobal_NotFound(t *testing.T) {
	settings := &mockSettingRepository{
		deleteFn: func(_ context.Context, _ string) error {
			return store.ErrSettingNotFound
		},
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	err := svc.DeleteGlobal(context.Background(), "SITE.NAME")

	assert.ErrorIs(t, err, store.ErrSettingNotFound)
}

// ─────────────────────────────────────────────
// User overrides
// ─────────────────────────────────────────────

func TestConfigService_SetUserOverride_Success(t *testing.T) {
	settings := &mockSettingRepository{
		findByKeyFn: globalFixture(models.Setting{
			Key:           "THEME.DEFAULT",
			Value:         "light",
			Type:          models.TypeString,
			AllowedValues: []string{"light", "dark", "system"},
		}),
	}
	var saved models.Override
	overrides := &mockOverrideRepository{
		upsertFn: func(_ context.Context, override models.Override) (models.Override, error) {
			saved = override
			return override, nil
		},
	}
	svc := newTestConfigService(t, settings, overrides)

	got, err := svc.SetUserOverride(context.Background(), "THEME.DEFAULT", "u1", "dark")

	require.NoError(t, err)
	assert.Equal(t, "dark", saved.Value)
	assert.Equal(t, "u1", saved.UserID)
	assert.Equal(t, "dark", got.Value)
}

func TestConfigService_SetUserOverride_RejectedByAllowedSet(t *testing.T) {
	settings := &mockSettingRepository{
		findByKeyFn: globalFixture(models.Setting{
			Key:           "THEME.DEFAULT",
			Value:         "light",
			Type:          models.TypeString,
			AllowedValues: []string{"light", "dark", "system"},
		}),
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	_, err := svc.SetUserOverride(context.Background(), "THEME.DEFAULT", "u1", "neon")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "neon", verr.Value)
}

func TestConfigService_SetUserOverride_CoercedUnderGlobalType(t *testing.T) {
	settings := &mockSettingRepository{
		findByKeyFn: globalFixture(models.Setting{Key: "FEED.LATEST-COUNT", Value: "20", Type: models.TypeInteger}),
	}
	var saved models.Override
	overrides := &mockOverrideRepository{
		upsertFn: func(_ context.Context, override models.Override) (models.Override, error) {
			saved = override
			return override, nil
		},
	}
	svc := newTestConfigService(t, settings, overrides)

	_, err := svc.SetUserOverride(context.Background(), "FEED.LATEST-COUNT", "u1", float64(10))

	require.NoError(t, err)
	assert.Equal(t, "10", saved.Value)
}

func TestConfigService_SetUserOverride_InvalidatesOnlyThatUser(t *testing.T) {
	globalValue := "light"
	settings := &mockSettingRepository{
		findByKeyFn: func(_ context.Context, key string) (models.Setting, error) {
			return models.Setting{Key: key, Value: globalValue, Type: models.TypeString}, nil
		},
	}
	overrideValue := ""
	overrides := &mockOverrideRepository{
		findByKeyAndUserFn: func(_ context.Context, key, userID string) (models.Override, error) {
			if overrideValue == "" {
				return models.Override{}, store.ErrOverrideNotFound
			}
			return models.Override{Key: key, UserID: userID, Value: overrideValue}, nil
		},
		upsertFn: func(_ context.Context, override models.Override) (models.Override, error) {
			overrideValue = override.Value
			return override, nil
		},
	}
	svc := newTestConfigService(t, settings, overrides)

	// warm both user contexts
	got, err := svc.GetString(context.Background(), "THEME.DEFAULT", ResolveOptions{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "light", *got)
	got, err = svc.GetString(context.Background(), "THEME.DEFAULT", ResolveOptions{UserID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, "light", *got)

	_, err = svc.SetUserOverride(context.Background(), "THEME.DEFAULT", "u1", "dark")
	require.NoError(t, err)

	// u1 sees the override immediately, u2 stays on the cached global
	got, err = svc.GetString(context.Background(), "THEME.DEFAULT", ResolveOptions{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "dark", *got)
	got, err = svc.GetString(context.Background(), "THEME.DEFAULT", ResolveOptions{UserID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, "light", *got)
}

func TestConfigService_DeleteUserOverride_Invalidates(t *testing.T) {
	haveOverride := true
	settings := &mockSettingRepository{
		findByKeyFn: globalFixture(models.Setting{Key: "THEME.DEFAULT", Value: "light", Type: models.TypeString}),
	}
	overrides := &mockOverrideRepository{
		findByKeyAndUserFn: func(_ context.Context, key, userID string) (models.Override, error) {
			if !haveOverride {
				return models.Override{}, store.ErrOverrideNotFound
			}
			return models.Override{Key: key, UserID: userID, Value: "dark"}, nil
		},
		deleteFn: func(_ context.Context, _, _ string) error {
			haveOverride = false
			return nil
		},
	}
	svc := newTestConfigService(t, settings, overrides)

	got, err := svc.GetString(context.Background(), "THEME.DEFAULT", ResolveOptions{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "dark", *got)

	require.NoError(t, svc.DeleteUserOverride(context.Background(), "THEME.DEFAULT", "u1"))

	got, err = svc.GetString(context.Background(), "THEME.DEFAULT", ResolveOptions{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "light", *got)
}

func TestConfigService_DeleteUserOverride_NotFound(t *testing.T) {
	overrides := &mockOverrideRepository{
		deleteFn: func(_ context.Context, _, _ string) error {
			return store.ErrOverrideNotFound
		},
	}
	svc := newTestConfigService(t, &mockSettingRepository{}, overrides)

	err := svc.DeleteUserOverride(context.Background(), "THEME.DEFAULT", "u1")

	assert.ErrorIs(t, err, store.ErrOverrideNotFound)
}

// Deleting the global entry leaves overrides in place; they win again
// once the key resolves for their user.
func TestConfigService_OverrideSurvivesGlobalDelete(t *testing.T) {
	haveGlobal := true
	settings := &mockSettingRepository{
		findByKeyFn: func(_ context.Context, key string) (models.Setting, error) {
			if !haveGlobal {
				return models.Setting{}, store.ErrSettingNotFound
			}
			return models.Setting{Key: key, Value: "light", Type: models.TypeString}, nil
		},
		deleteFn: func(_ context.Context, _ string) error {
			haveGlobal = false
			return nil
		},
	}
	overrides := &mockOverrideRepository{
		findByKeyAndUserFn: func(_ context.Context, key, userID string) (models.Override, error) {
			return models.Override{Key: key, UserID: userID, Value: "dark"}, nil
		},
	}
	svc := newTestConfigService(t, settings, overrides)

	require.NoError(t, svc.DeleteGlobal(context.Background(), "THEME.DEFAULT"))

	got, err := svc.GetString(context.Background(), "THEME.DEFAULT", ResolveOptions{UserID: "u1"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "dark", *got)
}

// ─────────────────────────────────────────────
// ListGlobal
// ─────────────────────────────────────────────

func TestConfigService_ListGlobal(t *testing.T) {
	want := []models.Setting{
		{Key: "SITE.ABOUT-ME.ENABLED", Value: "true", Type: models.TypeBoolean},
		{Key: "SITE.NAME", Value: "Narravo", Type: models.TypeString},
	}
	settings := &mockSettingRepository{
		listFn: func(_ context.Context, filter store.ListFilter) ([]models.Setting, error) {
			assert.Equal(t, "SITE.", filter.Prefix)
			assert.Equal(t, uint64(10), filter.Limit)
			assert.Equal(t, uint64(20), filter.Offset)
			return want, nil
		},
	}
	svc := newTestConfigService(t, settings, &mockOverrideRepository{})

	got, err := svc.ListGlobal(context.Background(), "SITE.", 10, 20)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// ─────────────────────────────────────────────
// Allowed-set canonicalization
// ─────────────────────────────────────────────

func TestCheckAllowed_CanonicalizesLiterals(t *testing.T) {
	// "50" must match whether the allowed set was declared as strings or
	// mixed textual forms of the same integer
	err := checkAllowed("MODERATION.PAGE-SIZE", "50", models.TypeInteger, []string{"10", "20", " 50 "})
	assert.NoError(t, err)

	err = checkAllowed("MODERATION.PAGE-SIZE", "999", models.TypeInteger, []string{"10", "20", "50"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"10", "20", "50"}, verr.Allowed)

	// empty set accepts anything
	assert.NoError(t, checkAllowed("SITE.NAME", "anything", models.TypeString, nil))
}
