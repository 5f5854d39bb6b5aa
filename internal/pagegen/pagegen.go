// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pagegen materializes profile templates into per-profile pages
// and keeps them in step with their template. It holds four cooperating
// pieces: the Generator creates missing pages for a profile, the Syncer
// pushes template edits into every page derived from it, the LockGate
// refuses direct edits to derived pages, and the Reconciler fills gaps
// across all profiles on operator request.
//
// Storage is reached through the small interfaces below so the engine can
// run against PostgreSQL in production and in-memory fakes in tests.
package pagegen

import (
	"context"
	"time"

	"github.com/google/uuid"

	"profilepages/internal/models"
)

// ProfileSource reads profiles. FindProfile returns errs.ErrNotFound for
// unknown ids.
type ProfileSource interface {
	FindProfile(ctx context.Context, id int64) (*models.Profile, error)
	// ListProfiles returns up to limit profiles with id > afterID, ordered by id.
	ListProfiles(ctx context.Context, afterID int64, limit int) ([]models.Profile, error)
}

// TemplateSource reads profile templates. FindByID returns errs.ErrNotFound
// for unknown ids.
type TemplateSource interface {
	ListPublished(ctx context.Context) ([]models.Template, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
}

// DocumentRepository reads and writes profile pages. Lookups of a single
// document return errs.ErrNotFound when nothing matches; Create returns
// errs.ErrAlreadyExists when a page for the same (template, profile)
// already exists.
type DocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	FindBySourceAndProfile(ctx context.Context, templateID uuid.UUID, profileID int64) (*models.Document, error)
	ListBySource(ctx context.Context, templateID uuid.UUID) ([]models.Document, error)
	CountByProfile(ctx context.Context, profileID int64) (int, error)
	Create(ctx context.Context, d *models.Document) (*models.Document, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content models.Blocks) error
}

// MarkerStore remembers that generation was already attempted for a
// profile. It only short-circuits repeated triggers; the document lookup
// stays authoritative.
type MarkerStore interface {
	IsMarked(ctx context.Context, profileID int64) (bool, error)
	Mark(ctx context.Context, profileID int64, at time.Time) error
	ClearAll(ctx context.Context) (int, error)
}

// EventLogger records generation, sync and lock events for auditing.
// Implementations are best-effort and never fail the caller.
type EventLogger interface {
	Log(ctx context.Context, entityType, entityID, action, detail string)
}

// Page event names written to the EventLogger.
const (
	EventGenerate  = "generate"
	EventSync      = "sync"
	EventLocked    = "locked"
	EventReconcile = "reconcile"
)

func logEvent(ctx context.Context, l EventLogger, entityType, entityID, action, detail string) {
	if l == nil {
		return
	}
	l.Log(ctx, entityType, entityID, action, detail)
}

func bindingOrDefault(blockType string) string {
	if blockType == "" {
		return models.DefaultBindingBlock
	}
	return blockType
}
