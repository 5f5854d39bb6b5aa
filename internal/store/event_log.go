// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// EventLogStore handles page event log operations.
type EventLogStore struct {
	db *sql.DB
}

// NewEventLogStore creates a new EventLogStore.
func NewEventLogStore(db *sql.DB) *EventLogStore {
	return &EventLogStore{db: db}
}

// Log records a page event.
func (s *EventLogStore) Log(ctx context.Context, entityType, entityID, action, detail string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO page_events (entity_type, entity_id, action, detail)
		VALUES ($1, $2, $3, $4)
	`, entityType, entityID, action, detail)
	if err != nil {
		// The event log is best-effort.
		slog.Warn("failed to log page event",
			"entity_type", entityType,
			"entity_id", entityID,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("page event logged",
		"entity_type", entityType,
		"entity_id", entityID,
		"action", action,
	)
}

// RecentEntries returns the most recent page events, newest first.
func (s *EventLogStore) RecentEntries(ctx context.Context, limit int) ([]EventLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_type, entity_id, action, detail, created_at
		FROM page_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query page events: %w", err)
	}
	defer rows.Close()

	var entries []EventLogEntry
	for rows.Next() {
		var e EventLogEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan page event: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// EventLogEntry represents a single page event.
type EventLogEntry struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}
