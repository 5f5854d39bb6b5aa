// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"profilepages/internal/errs"
	"profilepages/internal/events"
)

// SyncResult counts the outcome of one SyncTemplate call.
type SyncResult struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Syncer copies a template's current content into every page generated
// from it, keeping each page bound to its own profile.
type Syncer struct {
	templates    TemplateSource
	documents    DocumentRepository
	eventLog     EventLogger
	bindingBlock string
}

// NewSyncer creates a Syncer. eventLog may be nil.
func NewSyncer(templates TemplateSource, documents DocumentRepository, eventLog EventLogger, bindingBlock string) *Syncer {
	return &Syncer{
		templates:    templates,
		documents:    documents,
		eventLog:     eventLog,
		bindingBlock: bindingOrDefault(bindingBlock),
	}
}

// SyncTemplate rewrites the content of every page derived from the
// template. Titles are left as generated. Each page is written on its own;
// a failed write is logged and counted without affecting the others.
// Missing or unpublished templates are a no-op.
func (s *Syncer) SyncTemplate(ctx context.Context, templateID uuid.UUID) (SyncResult, error) {
	var res SyncResult

	tmpl, err := s.templates.FindByID(ctx, templateID)
	if errors.Is(err, errs.ErrNotFound) {
		slog.Info("template sync skipped: template not found", "template_id", templateID)
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("find template %s: %w", templateID, err)
	}
	if !tmpl.IsPublished() {
		slog.Info("template sync skipped: template not published",
			"template_id", templateID,
			"status", tmpl.Status,
		)
		return res, nil
	}

	docs, err := s.documents.ListBySource(ctx, templateID)
	if err != nil {
		return res, fmt.Errorf("list pages for template %s: %w", templateID, err)
	}

	for _, doc := range docs {
		content := tmpl.Content.Clone()
		content.BindProfile(s.bindingBlock, doc.ProfileID)

		if err := s.documents.UpdateContent(ctx, doc.ID, content); err != nil {
			slog.Error("profile page sync failed",
				"document_id", doc.ID,
				"template_id", templateID,
				"profile_id", doc.ProfileID,
				"error", err,
			)
			res.Failed++
			continue
		}
		res.Updated++
	}

	slog.Info("template synced",
		"template_id", templateID,
		"version", tmpl.Version,
		"updated", res.Updated,
		"failed", res.Failed,
	)
	logEvent(ctx, s.eventLog, "template", templateID.String(), EventSync,
		fmt.Sprintf("updated=%d failed=%d", res.Updated, res.Failed))

	return res, nil
}

// HandleTemplateSaved is the TemplateSaved subscriber.
func (s *Syncer) HandleTemplateSaved(ctx context.Context, ev events.TemplateSaved) {
	if _, err := s.SyncTemplate(ctx, ev.TemplateID); err != nil {
		slog.Error("template sync failed", "template_id", ev.TemplateID, "error", err)
	}
}
