// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go caches rendered page HTML in Valkey so repeated views skip the
// database and the renderer.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for rendered pages.
	pageKeyPrefix = "page:doc:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages rendered page HTML in Valkey. Every method is
// best-effort: errors are logged and treated as a miss.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// PageKey returns the Valkey key holding a page's rendered HTML.
func PageKey(id uuid.UUID) string {
	return pageKeyPrefix + id.String()
}

// Get retrieves the cached HTML of a page.
func (pc *PageCache) Get(ctx context.Context, id uuid.UUID) ([]byte, bool) {
	val, err := pc.client.Get(ctx, PageKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "document_id", id, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "document_id", id)
	return val, true
}

// Set stores a page's rendered HTML with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, id uuid.UUID, html []byte) {
	if err := pc.client.Set(ctx, PageKey(id), html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "document_id", id, "error", err)
	}
}

// Invalidate drops a single page, after it was edited or deleted.
func (pc *PageCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := pc.client.Del(ctx, PageKey(id)).Err(); err != nil {
		slog.Warn("page cache invalidate error", "document_id", id, "error", err)
		return
	}
	slog.Debug("page cache invalidated", "document_id", id)
}

// InvalidateAll drops every cached page. A template save can change any
// number of pages, so sync clears the whole cache.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	deleted, err := deleteByPrefix(ctx, pc.client, pageKeyPrefix)
	if err != nil {
		slog.Warn("page cache clear error", "error", err)
	}
	if deleted > 0 {
		slog.Info("page cache cleared", "deleted", deleted)
	}
}
