// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Narravo Authors

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/narravo/configd/internal/logger"
	"github.com/narravo/configd/internal/store"
	"github.com/narravo/configd/models"
)

type configService struct {
	settings  store.SettingRepository
	overrides store.OverrideRepository
	cache     ValueCache

	logger *logger.Logger
}

// NewConfigService constructs the [ConfigService] over the given
// repositories and cache. The cache is injected rather than owned so tests
// and deployments can substitute their own implementation.
func NewConfigService(settings store.SettingRepository, overrides store.OverrideRepository, cache ValueCache, logger *logger.Logger) ConfigService {
	return &configService{
		settings:  settings,
		overrides: overrides,
		cache:     cache,
		logger:    logger,
	}
}

// resolve walks the lookup order for one read: cache (unless bypassed),
// then per-user override, then global entry, then registered default.
// The outcome — including "nothing found" — is cached on the way out
// unless the read bypassed the cache.
func (s *configService) resolve(ctx context.Context, key string, opts ResolveOptions) (cachedEntry, error) {
	if key == "" {
		return cachedEntry{}, ErrEmptyKey
	}

	if !opts.BypassCache {
		if entry, ok := s.cache.Get(key, opts.UserID); ok {
			return entry, nil
		}
	}

	entry, err := s.resolveFromStore(ctx, key, opts.UserID)
	if err != nil {
		return cachedEntry{}, err
	}

	if !opts.BypassCache {
		s.cache.Set(key, opts.UserID, entry)
	}

	return entry, nil
}

func (s *configService) resolveFromStore(ctx context.Context, key, userID string) (cachedEntry, error) {
	log := logger.FromContext(ctx)

	global, err := s.settings.FindByKey(ctx, key)
	haveGlobal := err == nil
	if err != nil && !errors.Is(err, store.ErrSettingNotFound) {
		log.Err(err).Str("func", "*configService.resolveFromStore").Str("key", key).Msg("error resolving global entry")
		return cachedEntry{}, fmt.Errorf("resolving key %q: %w", key, err)
	}

	if userID != "" {
		override, err := s.overrides.FindByKeyAndUser(ctx, key, userID)
		switch {
		case err == nil:
			return cachedEntry{
				Found:  true,
				Value:  override.Value,
				Type:   declaredType(key, global, haveGlobal),
				Source: models.SourceOverride,
			}, nil
		case !errors.Is(err, store.ErrOverrideNotFound):
			log.Err(err).Str("func", "*configService.resolveFromStore").Str("key", key).Msg("error resolving override")
			return cachedEntry{}, fmt.Errorf("resolving key %q for user %q: %w", key, userID, err)
		}
	}

	if haveGlobal {
		return cachedEntry{
			Found:  true,
			Value:  global.Value,
			Type:   global.Type,
			Source: models.SourceGlobal,
		}, nil
	}

	if def, ok := models.LookupKeyDef(key); ok && def.Default != nil {
		return cachedEntry{
			Found:  true,
			Value:  *def.Default,
			Type:   def.Type,
			Source: models.SourceDefault,
		}, nil
	}

	return cachedEntry{}, nil
}

// declaredType picks the authoritative type for a resolved value: the
// global entry's declaration wins, then the key registry, then string.
func declaredType(key string, global models.Setting, haveGlobal bool) models.ValueType {
	if haveGlobal {
		return global.Type
	}
	if def, ok := models.LookupKeyDef(key); ok {
		return def.Type
	}
	return models.TypeString
}

// notFound turns an unset resolution into the caller-visible outcome:
// nil for ordinary keys, *RequiredKeyError for registered required keys.
func notFound(key string) error {
	if def, ok := models.LookupKeyDef(key); ok && def.Required {
		return &RequiredKeyError{Key: key}
	}
	return nil
}

func (s *configService) GetString(ctx context.Context, key string, opts ResolveOptions) (*string, error) {
	entry, err := s.resolve(ctx, key, opts)
	if err != nil {
		return nil, err
	}
	if !entry.Found {
		return nil, notFound(key)
	}

	value := entry.Value
	return &value, nil
}

func (s *configService) GetInt(ctx context.Context, key string, opts ResolveOptions) (*int64, error) {
	entry, err := s.resolve(ctx, key, opts)
	if err != nil {
		return nil, err
	}
	if !entry.Found {
		return nil, notFound(key)
	}

	n, err := coerceInt(entry.Value)
	if err != nil {
		return nil, tagCoercion(err, key)
	}
	return &n, nil
}

func (s *configService) GetNumber(ctx context.Context, key string, opts ResolveOptions) (*float64, error) {
	entry, err := s.resolve(ctx, key, opts)
	if err != nil {
		return nil, err
	}
	if !entry.Found {
		return nil, notFound(key)
	}

	f, err := coerceNumber(entry.Value)
	if err != nil {
		return nil, tagCoercion(err, key)
	}
	return &f, nil
}

func (s *configService) GetBool(ctx context.Context, key string, opts ResolveOptions) (*bool, error) {
	entry, err := s.resolve(ctx, key, opts)
	if err != nil {
		return nil, err
	}
	if !entry.Found {
		return nil, notFound(key)
	}

	b := coerceBool(entry.Value)
	return &b, nil
}

// GetJSON returns the parsed document, or nil when the key is unset.
// A stored JSON null is indistinguishable from an unset key by design.
func (s *configService) GetJSON(ctx context.Context, key string, opts ResolveOptions) (any, error) {
	entry, err := s.resolve(ctx, key, opts)
	if err != nil {
		return nil, err
	}
	if !entry.Found {
		return nil, notFound(key)
	}

	v, err := coerceJSON(entry.Value)
	if err != nil {
		return nil, tagCoercion(err, key)
	}
	return v, nil
}

func (s *configService) Resolve(ctx context.Context, key string, opts ResolveOptions) (models.ResolvedValue, error) {
	entry, err := s.resolve(ctx, key, opts)
	if err != nil {
		return models.ResolvedValue{}, err
	}

	resolved := models.ResolvedValue{Key: key}
	if !entry.Found {
		if err := notFound(key); err != nil {
			return models.ResolvedValue{}, err
		}
		resolved.Value = json.RawMessage("null")
		return resolved, nil
	}

	raw, err := renderJSON(entry)
	if err != nil {
		return models.ResolvedValue{}, tagCoercion(err, key)
	}

	resolved.Type = entry.Type
	resolved.Value = raw
	resolved.Source = entry.Source
	return resolved, nil
}

// renderJSON re-types the stored form for the wire: numbers and booleans
// become JSON scalars, json documents pass through, everything else is a
// JSON string.
func renderJSON(entry cachedEntry) (json.RawMessage, error) {
	switch entry.Type {
	case models.TypeInteger:
		if _, err := coerceInt(entry.Value); err != nil {
			return nil, err
		}
		return json.RawMessage(entry.Value), nil
	case models.TypeNumber:
		if _, err := coerceNumber(entry.Value); err != nil {
			return nil, err
		}
		return json.RawMessage(entry.Value), nil
	case models.TypeBoolean:
		if coerceBool(entry.Value) {
			return json.RawMessage("true"), nil
		}
		return json.RawMessage("false"), nil
	case models.TypeJSON:
		if !json.Valid([]byte(entry.Value)) {
			return nil, &CoercionError{Raw: entry.Value, Type: models.TypeJSON}
		}
		return json.RawMessage(entry.Value), nil
	default:
		raw, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(raw), nil
	}
}

func (s *configService) SetGlobal(ctx context.Context, key string, value any, opts SetGlobalOptions) (models.Setting, error) {
	log := logger.FromContext(ctx)

	if key == "" {
		return models.Setting{}, ErrEmptyKey
	}

	vtype := opts.Type
	if vtype == "" {
		if def, ok := models.LookupKeyDef(key); ok {
			vtype = def.Type
		} else {
			vtype = models.TypeString
		}
	}
	if !vtype.Valid() {
		return models.Setting{}, fmt.Errorf("%w: %q", ErrUnknownValueType, vtype)
	}

	serialized, err := serializeValue(value, vtype)
	if err != nil {
		return models.Setting{}, tagCoercion(err, key)
	}

	if err := checkAllowed(key, serialized, vtype, opts.AllowedValues); err != nil {
		log.Warn().Str("key", key).Str("value", serialized).Msg("rejected value outside allowed set")
		return models.Setting{}, err
	}

	saved, err := s.settings.Upsert(ctx, models.Setting{
		Key:           key,
		Value:         serialized,
		Type:          vtype,
		AllowedValues: opts.AllowedValues,
		Required:      opts.Required,
	})
	if err != nil {
		return models.Setting{}, fmt.Errorf("setting global entry %q: %w", key, err)
	}

	// Deliberately no cache invalidation here: write-then-invalidate is
	// a two-step protocol owned by the caller.
	return saved, nil
}

func (s *configService) DeleteGlobal(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	if err := s.settings.Delete(ctx, key); err != nil {
		return err
	}

	s.cache.Invalidate(key)
	return nil
}

func (s *configService) SetUserOverride(ctx context.Context, key, userID string, value any) (models.Override, error) {
	if key == "" {
		return models.Override{}, ErrEmptyKey
	}

	global, err := s.settings.FindByKey(ctx, key)
	haveGlobal := err == nil
	if err != nil && !errors.Is(err, store.ErrSettingNotFound) {
		return models.Override{}, fmt.Errorf("setting override for %q: %w", key, err)
	}

	vtype := declaredType(key, global, haveGlobal)
	serialized, err := serializeValue(value, vtype)
	if err != nil {
		return models.Override{}, tagCoercion(err, key)
	}

	if haveGlobal {
		if err := checkAllowed(key, serialized, vtype, global.AllowedValues); err != nil {
			return models.Override{}, err
		}
	}

	saved, err := s.overrides.Upsert(ctx, models.Override{
		Key:    key,
		UserID: userID,
		Value:  serialized,
	})
	if err != nil {
		return models.Override{}, fmt.Errorf("setting override for %q: %w", key, err)
	}

	s.cache.InvalidateUser(key, userID)
	return saved, nil
}

func (s *configService) DeleteUserOverride(ctx context.Context, key, userID string) error {
	if key == "" {
		return ErrEmptyKey
	}

	if err := s.overrides.Delete(ctx, key, userID); err != nil {
		return err
	}

	s.cache.InvalidateUser(key, userID)
	return nil
}

func (s *configService) ListGlobal(ctx context.Context, prefix string, limit, offset uint64) ([]models.Setting, error) {
	return s.settings.List(ctx, store.ListFilter{
		Prefix: prefix,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *configService) Invalidate(key string) {
	s.cache.Invalidate(key)
}

// checkAllowed verifies membership of a serialized value in the allowed
// set. Allowed literals are canonicalized under the declared type before
// comparison so "50" matches whether the set was declared as numbers or
// strings.
func checkAllowed(key, serialized string, vtype models.ValueType, allowedValues []string) error {
	if len(allowedValues) == 0 {
		return nil
	}

	for _, allowed := range allowedValues {
		canonical, err := serializeValue(allowed, vtype)
		if err != nil {
			canonical = allowed
		}
		if serialized == canonical {
			return nil
		}
	}

	return &ValidationError{Key: key, Value: serialized, Allowed: allowedValues}
}

// tagCoercion attaches the key to a codec-level *CoercionError.
func tagCoercion(err error, key string) error {
	var cerr *CoercionError
	if errors.As(err, &cerr) {
		tagged := *cerr
		tagged.Key = key
		return &tagged
	}
	return err
}
