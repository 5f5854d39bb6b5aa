// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// TemplateStatus is the publishing state of a profile template. Any value
// other than published keeps the template out of generation and sync.
type TemplateStatus string

const (
	TemplateStatusDraft     TemplateStatus = "draft"
	TemplateStatusPublished TemplateStatus = "published"
)

// Template is an authoring-time blueprint for profile pages. Its content
// tree contains one or more binding blocks whose profile_id is rewritten
// for each generated document.
type Template struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Content   Blocks         `json:"content"`
	Status    TemplateStatus `json:"status"`
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// IsPublished returns true if the template participates in generation and sync.
func (t *Template) IsPublished() bool {
	return t.Status == TemplateStatusPublished
}
