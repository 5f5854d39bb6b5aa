// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"profilepages/internal/errs"
	"profilepages/internal/events"
	"profilepages/internal/models"
	"profilepages/internal/slug"
)

// GenerateResult counts the outcome of one GenerateForProfile call.
type GenerateResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Generator creates the profile pages a profile is missing, one per
// published template.
type Generator struct {
	profiles     ProfileSource
	templates    TemplateSource
	documents    DocumentRepository
	markers      MarkerStore
	eventLog     EventLogger
	bindingBlock string
	now          func() time.Time
}

// NewGenerator creates a Generator. markers and eventLog may be nil; an
// empty bindingBlock selects models.DefaultBindingBlock.
func NewGenerator(profiles ProfileSource, templates TemplateSource, documents DocumentRepository, markers MarkerStore, eventLog EventLogger, bindingBlock string) *Generator {
	return &Generator{
		profiles:     profiles,
		templates:    templates,
		documents:    documents,
		markers:      markers,
		eventLog:     eventLog,
		bindingBlock: bindingOrDefault(bindingBlock),
		now:          time.Now,
	}
}

// GenerateForProfile materializes every published template for the
// profile that does not already have a page. Per-template failures are
// logged and counted in Errors; the remaining templates are still
// processed. An error is returned only when the profile or the template
// list cannot be read at all.
func (g *Generator) GenerateForProfile(ctx context.Context, profileID int64) (GenerateResult, error) {
	var res GenerateResult

	profile, err := g.profiles.FindProfile(ctx, profileID)
	if errors.Is(err, errs.ErrNotFound) {
		slog.Info("page generation skipped: profile not found", "profile_id", profileID)
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("find profile %d: %w", profileID, err)
	}

	templates, err := g.templates.ListPublished(ctx)
	if err != nil {
		return res, fmt.Errorf("list published templates: %w", err)
	}
	if len(templates) == 0 {
		slog.Warn("page generation skipped: no published profile templates",
			"profile_id", profileID,
		)
		return res, nil
	}

	for i := range templates {
		tmpl := &templates[i]

		existing, err := g.documents.FindBySourceAndProfile(ctx, tmpl.ID, profileID)
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			slog.Error("page lookup failed",
				"template_id", tmpl.ID,
				"profile_id", profileID,
				"error", err,
			)
			res.Errors++
			continue
		}
		if existing != nil {
			res.Skipped++
			continue
		}

		doc := g.buildDocument(tmpl, profile, len(templates) > 1)
		created, err := g.documents.Create(ctx, doc)
		if errors.Is(err, errs.ErrAlreadyExists) {
			// Lost a race with a concurrent trigger for the same profile.
			slog.Info("profile page already generated",
				"template_id", tmpl.ID,
				"profile_id", profileID,
			)
			res.Skipped++
			continue
		}
		if err != nil {
			slog.Error("profile page create failed",
				"template_id", tmpl.ID,
				"profile_id", profileID,
				"error", err,
			)
			res.Errors++
			continue
		}

		res.Created++
		slog.Info("profile page generated",
			"document_id", created.ID,
			"template_id", tmpl.ID,
			"profile_id", profileID,
		)
		logEvent(ctx, g.eventLog, "document", created.ID.String(), EventGenerate,
			fmt.Sprintf("template=%s profile=%d", tmpl.ID, profileID))
	}

	return res, nil
}

// buildDocument clones the template content and binds it to the profile.
func (g *Generator) buildDocument(tmpl *models.Template, profile *models.Profile, multi bool) *models.Document {
	content := tmpl.Content.Clone()
	if n := content.BindProfile(g.bindingBlock, profile.ID); n == 0 {
		slog.Warn("profile template has no binding block",
			"template_id", tmpl.ID,
			"binding_block", g.bindingBlock,
		)
	}

	title := profile.DisplayName
	if title == "" {
		title = "Profile " + strconv.FormatInt(profile.ID, 10)
	}

	s := slug.Generate(title)
	if s == "" {
		s = "profile-" + strconv.FormatInt(profile.ID, 10)
	}
	if multi {
		if ts := slug.Generate(tmpl.Title); ts != "" {
			s += "-" + ts
		}
	}

	templateID := tmpl.ID
	return &models.Document{
		SourceTemplateID: &templateID,
		ProfileID:        profile.ID,
		Title:            title,
		Slug:             s,
		Content:          content,
		Status:           models.DocumentStatusPublished,
	}
}

// HandleProfileCreated is the ProfileCreated subscriber. A fresh marker
// for the profile short-circuits the call; otherwise pages are generated
// and the marker is set. Marker failures never block generation.
func (g *Generator) HandleProfileCreated(ctx context.Context, ev events.ProfileCreated) {
	if g.markers != nil {
		marked, err := g.markers.IsMarked(ctx, ev.ProfileID)
		if err != nil {
			slog.Warn("generation marker read failed", "profile_id", ev.ProfileID, "error", err)
		} else if marked {
			slog.Debug("page generation already attempted", "profile_id", ev.ProfileID)
			return
		}
	}

	res, err := g.GenerateForProfile(ctx, ev.ProfileID)
	if err != nil {
		slog.Error("page generation failed", "profile_id", ev.ProfileID, "error", err)
		return
	}

	slog.Info("page generation finished",
		"profile_id", ev.ProfileID,
		"created", res.Created,
		"skipped", res.Skipped,
		"errors", res.Errors,
	)

	if g.markers != nil {
		if err := g.markers.Mark(ctx, ev.ProfileID, g.now()); err != nil {
			slog.Warn("generation marker write failed", "profile_id", ev.ProfileID, "error", err)
		}
	}
}
