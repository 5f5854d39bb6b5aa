// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus represents the publishing state of a profile page.
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusPublished DocumentStatus = "published"
)

// Document is a profile page. Generated documents carry the template they
// were cloned from in SourceTemplateID; hand-authored documents leave it nil
// and are never locked.
type Document struct {
	ID               uuid.UUID      `json:"id"`
	SourceTemplateID *uuid.UUID     `json:"source_template_id,omitempty"`
	ProfileID        int64          `json:"profile_id"`
	Title            string         `json:"title"`
	Slug             string         `json:"slug"`
	Content          Blocks         `json:"content"`
	Status           DocumentStatus `json:"status"`
	SyncedAt         *time.Time     `json:"synced_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// IsTemplateDerived returns true if the document was generated from a
// template and must only change through template sync.
func (d *Document) IsTemplateDerived() bool {
	return d.SourceTemplateID != nil
}
