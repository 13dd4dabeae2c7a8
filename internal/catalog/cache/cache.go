// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

/*
Package cache provides a short-lived Redis cache for entity representations.

Detail reads are served from the cache when possible; every mutation
invalidates the entity's own entry, and the reconciliation engine invalidates
the entry of every sibling it touches. Cache failures are never surfaced to
callers: a broken cache degrades to direct store reads.
*/
package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/mkoers/courtrecord/internal/catalog/store"
	"github.com/mkoers/courtrecord/internal/platform/constants"
	"github.com/mkoers/courtrecord/internal/platform/ctxutil"
)

// Entities caches JSON-encoded entity representations keyed by kind and id.
//
// A nil *Entities is valid and behaves as an always-miss cache, which keeps
// tests and cache-less deployments free of conditionals.
type Entities struct {
	rdb *redis.Client
}

// New wraps a connected Redis client.
func New(rdb *redis.Client) *Entities {
	return &Entities{rdb: rdb}
}

func key(kind store.Kind, id string) string {
	return constants.RedisPrefixCatalog + string(kind) + ":" + id
}

// Get loads a cached representation into target. It reports whether the
// entry was present and decodable.
func (c *Entities) Get(ctx context.Context, kind store.Kind, id string, target interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key(kind, id)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false
	}
	return true
}

// Set stores a representation with the standard catalogue TTL. Failures are
// logged at debug level and otherwise ignored.
func (c *Entities) Set(ctx context.Context, kind store.Kind, id string, value interface{}) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(kind, id), raw, constants.CatalogCacheTTL).Err(); err != nil {
		ctxutil.GetLogger(ctx).DebugContext(ctx, "cache_set_failed",
			slog.String("kind", string(kind)),
			slog.Any("error", err),
		)
	}
}

// Invalidate drops the entries for the given identifiers.
func (c *Entities) Invalidate(ctx context.Context, kind store.Kind, ids ...string) {
	if c == nil || c.rdb == nil || len(ids) == 0 {
		return
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(kind, id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		ctxutil.GetLogger(ctx).DebugContext(ctx, "cache_invalidate_failed",
			slog.String("kind", string(kind)),
			slog.Any("error", err),
		)
	}
}
