// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"profilepages/internal/models"
)

// templateColumns lists all columns for profile_templates SELECTs.
const templateColumns = `id, title, content, status, version, created_at, updated_at`

// TemplateStore handles all profile template database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	var t models.Template
	if err := row.Scan(
		&t.ID, &t.Title, &t.Content, &t.Status, &t.Version,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TemplateStore) query(ctx context.Context, what, q string, args ...any) ([]models.Template, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// List returns all templates ordered by title.
func (s *TemplateStore) List(ctx context.Context) ([]models.Template, error) {
	return s.query(ctx, "list templates", `
		SELECT `+templateColumns+`
		FROM profile_templates
		ORDER BY title, created_at
	`)
}

// ListPublished returns the templates that take part in page generation,
// oldest first so generation order is stable.
func (s *TemplateStore) ListPublished(ctx context.Context) ([]models.Template, error) {
	return s.query(ctx, "list published templates", `
		SELECT `+templateColumns+`
		FROM profile_templates
		WHERE status = $1
		ORDER BY created_at, id
	`, models.TemplateStatusPublished)
}

// FindByID retrieves a template by its UUID.
func (s *TemplateStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+templateColumns+`
		FROM profile_templates WHERE id = $1
	`, id)
	t, err := scanTemplate(row)
	if err != nil {
		return nil, translate("find template by id", err)
	}
	return t, nil
}

// Create inserts a new template at version 1. An empty status is stored
// as draft.
func (s *TemplateStore) Create(ctx context.Context, t *models.Template) (*models.Template, error) {
	status := t.Status
	if status == "" {
		status = models.TemplateStatusDraft
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO profile_templates (title, content, status, version)
		VALUES ($1, $2, $3, 1)
		RETURNING `+templateColumns,
		t.Title, t.Content, status,
	)
	created, err := scanTemplate(row)
	if err != nil {
		return nil, translate("create template", err)
	}
	return created, nil
}

// Update saves title, content and status and increments the version.
func (s *TemplateStore) Update(ctx context.Context, t *models.Template) (*models.Template, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE profile_templates SET
			title = $1, content = $2, status = $3,
			version = version + 1, updated_at = NOW()
		WHERE id = $4
		RETURNING `+templateColumns,
		t.Title, t.Content, t.Status, t.ID,
	)
	updated, err := scanTemplate(row)
	if err != nil {
		return nil, translate("update template", err)
	}
	return updated, nil
}
