// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"profilepages/internal/events"
	"profilepages/internal/models"
	"profilepages/internal/pagegen"
)

// TemplateRepository is the template storage used by Templates.
type TemplateRepository interface {
	List(ctx context.Context) ([]models.Template, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	Create(ctx context.Context, t *models.Template) (*models.Template, error)
	Update(ctx context.Context, t *models.Template) (*models.Template, error)
}

// TemplateSyncer pushes a template's content to its generated pages.
type TemplateSyncer interface {
	SyncTemplate(ctx context.Context, templateID uuid.UUID) (pagegen.SyncResult, error)
}

// Templates groups the template HTTP handlers.
type Templates struct {
	templates TemplateRepository
	syncer    TemplateSyncer
	bus       *events.Bus
}

// NewTemplates creates the template handlers. Saving a template in the
// published state publishes events.TemplateSaved on bus.
func NewTemplates(templates TemplateRepository, syncer TemplateSyncer, bus *events.Bus) *Templates {
	return &Templates{templates: templates, syncer: syncer, bus: bus}
}

type templateRequest struct {
	Title   string                `json:"title"`
	Content models.Blocks         `json:"content"`
	Status  models.TemplateStatus `json:"status"`
}

// List returns every template, drafts included.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.templates.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Template{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Create stores a new template. An empty status is stored as draft.
func (h *Templates) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateTemplate(req.Title, string(req.Status)); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.templates.Create(r.Context(), &models.Template{
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("template created", "template_id", created.ID, "status", created.Status)

	h.saved(r.Context(), created)
	writeJSON(w, http.StatusCreated, created)
}

// Get returns a single template.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := h.templates.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Update replaces a template's title, content and status and bumps its
// version. A save in the published state propagates to every page
// generated from the template before the response is written.
func (h *Templates) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateTemplate(req.Title, string(req.Status)); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.templates.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item.Title = strings.TrimSpace(req.Title)
	item.Content = req.Content
	if req.Status != "" {
		item.Status = req.Status
	}

	updated, err := h.templates.Update(r.Context(), item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("template updated", "template_id", updated.ID, "version", updated.Version, "status", updated.Status)

	h.saved(r.Context(), updated)
	writeJSON(w, http.StatusOK, updated)
}

// Sync pushes the template's current content to its pages on demand.
func (h *Templates) Sync(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.templates.FindByID(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.syncer.SyncTemplate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Templates) saved(ctx context.Context, t *models.Template) {
	if h.bus == nil || !t.IsPublished() {
		return
	}
	h.bus.PublishTemplateSaved(ctx, events.TemplateSaved{TemplateID: t.ID})
}
