package service

import (
	"github.com/jellydator/ttlcache/v3"
	"github.com/narravo/configd/models"
)

// cacheKey identifies one cached resolution: a configuration key in the
// context of one user, or of no user (empty UserID).
type cacheKey struct {
	Key    string
	UserID string
}

// cachedEntry is the resolved state of a key kept between reads.
//
// The entry stores the serialized value plus its declared type rather than
// a per-getter coerced value: coercion is pure and idempotent, so GetInt
// and GetString on the same key share one entry. Absence is cached too
// (Found=false) — a read-through miss is remembered until invalidated.
type cachedEntry struct {
	Found  bool
	Value  string
	Type   models.ValueType
	Source string
}

// ValueCache holds resolved configuration values between reads. It is an
// explicit, injectable dependency of the config service: the
// write-then-invalidate protocol is two steps, not atomic, and keeping the
// cache visible makes that hazard testable.
//
// Entries have no TTL — they live until invalidated or process restart. In
// a multi-instance deployment invalidations are process-local; propagating
// them out-of-process requires a distributed implementation of this
// interface.
type ValueCache interface {
	// Get returns the cached resolution for (key, userID) and whether one
	// exists.
	Get(key, userID string) (cachedEntry, bool)

	// Set stores the resolution for (key, userID).
	Set(key, userID string, entry cachedEntry)

	// Invalidate drops every cached resolution of key, across all user
	// contexts.
	Invalidate(key string)

	// InvalidateUser drops only the (key, userID) resolution.
	InvalidateUser(key, userID string)

	// Stop releases cache resources.
	Stop()
}

type ttlValueCache struct {
	cache *ttlcache.Cache[cacheKey, cachedEntry]
}

// NewValueCache constructs the in-process [ValueCache] used in production.
// Entries never expire on their own; eviction is invalidation-only.
func NewValueCache() ValueCache {
	cache := ttlcache.New[cacheKey, cachedEntry]()
	go cache.Start()
	return &ttlValueCache{cache: cache}
}

func (c *ttlValueCache) Get(key, userID string) (cachedEntry, bool) {
	item := c.cache.Get(cacheKey{Key: key, UserID: userID})
	if item == nil {
		return cachedEntry{}, false
	}
	return item.Value(), true
}

func (c *ttlValueCache) Set(key, userID string, entry cachedEntry) {
	c.cache.Set(cacheKey{Key: key, UserID: userID}, entry, ttlcache.NoTTL)
}

func (c *ttlValueCache) Invalidate(key string) {
	for _, k := range c.cache.Keys() {
		if k.Key == key {
			c.cache.Delete(k)
		}
	}
}

func (c *ttlValueCache) InvalidateUser(key, userID string) {
	c.cache.Delete(cacheKey{Key: key, UserID: userID})
}

func (c *ttlValueCache) Stop() {
	c.cache.Stop()
}
