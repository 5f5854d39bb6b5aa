// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// marker.go stores "generation attempted" markers in Valkey, keyed by
// profile id. A marker lets a repeated profile-created trigger skip the
// database entirely; the page lookup in the generator stays authoritative.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// markerKeyPrefix is the Valkey key prefix for generation markers.
	markerKeyPrefix = "pagegen:generated:"

	// DefaultMarkerTTL keeps a marker for about a year.
	DefaultMarkerTTL = 365 * 24 * time.Hour
)

// MarkerStore manages generation markers in Valkey.
type MarkerStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMarkerStore creates a marker store backed by the given Valkey client.
func NewMarkerStore(client *redis.Client, ttl time.Duration) *MarkerStore {
	if ttl == 0 {
		ttl = DefaultMarkerTTL
	}
	return &MarkerStore{client: client, ttl: ttl}
}

// MarkerKey returns the Valkey key for a profile's marker.
func MarkerKey(profileID int64) string {
	return markerKeyPrefix + strconv.FormatInt(profileID, 10)
}

// IsMarked reports whether generation was already attempted for the profile.
func (ms *MarkerStore) IsMarked(ctx context.Context, profileID int64) (bool, error) {
	n, err := ms.client.Exists(ctx, MarkerKey(profileID)).Result()
	if err != nil {
		return false, fmt.Errorf("marker exists: %w", err)
	}
	return n > 0, nil
}

// Mark records a generation attempt with the configured TTL.
func (ms *MarkerStore) Mark(ctx context.Context, profileID int64, at time.Time) error {
	if err := ms.client.Set(ctx, MarkerKey(profileID), at.UTC().Format(time.RFC3339), ms.ttl).Err(); err != nil {
		return fmt.Errorf("marker set: %w", err)
	}
	slog.Debug("generation marker set", "profile_id", profileID, "ttl", ms.ttl.String())
	return nil
}

// ClearAll removes every generation marker by scanning for the prefix.
// Used by the reconciler so that every profile is checked against the
// database again.
func (ms *MarkerStore) ClearAll(ctx context.Context) (int, error) {
	deleted, err := deleteByPrefix(ctx, ms.client, markerKeyPrefix)
	if err != nil {
		return deleted, fmt.Errorf("clear markers: %w", err)
	}
	if deleted > 0 {
		slog.Info("generation markers cleared", "deleted", deleted)
	}
	return deleted, nil
}
