// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"profilepages/internal/errs"
	"profilepages/internal/models"
)

// documentColumns lists all columns for profile_documents SELECTs.
const documentColumns = `id, source_template_id, profile_id, title, slug, content,
	status, synced_at, created_at, updated_at`

// DocumentStore handles all profile page database operations. Generated
// and hand-authored pages share the profile_documents table and differ by
// source_template_id.
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore creates a new DocumentStore with the given database connection.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var d models.Document
	if err := row.Scan(
		&d.ID, &d.SourceTemplateID, &d.ProfileID, &d.Title, &d.Slug, &d.Content,
		&d.Status, &d.SyncedAt, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DocumentStore) query(ctx context.Context, what, q string, args ...any) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// FindByID retrieves a page by its UUID.
func (s *DocumentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM profile_documents WHERE id = $1
	`, id)
	d, err := scanDocument(row)
	if err != nil {
		return nil, translate("find document by id", err)
	}
	return d, nil
}

// FindBySourceAndProfile retrieves the page generated from the template
// for the profile.
func (s *DocumentStore) FindBySourceAndProfile(ctx context.Context, templateID uuid.UUID, profileID int64) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM profile_documents
		WHERE source_template_id = $1 AND profile_id = $2
	`, templateID, profileID)
	d, err := scanDocument(row)
	if err != nil {
		return nil, translate("find document by source and profile", err)
	}
	return d, nil
}

// ListBySource returns every page generated from the template.
func (s *DocumentStore) ListBySource(ctx context.Context, templateID uuid.UUID) ([]models.Document, error) {
	return s.query(ctx, "list documents by source", `
		SELECT `+documentColumns+`
		FROM profile_documents
		WHERE source_template_id = $1
		ORDER BY profile_id
	`, templateID)
}

// ListByProfile returns every page bound to the profile, generated or not.
func (s *DocumentStore) ListByProfile(ctx context.Context, profileID int64) ([]models.Document, error) {
	return s.query(ctx, "list documents by profile", `
		SELECT `+documentColumns+`
		FROM profile_documents
		WHERE profile_id = $1
		ORDER BY created_at
	`, profileID)
}

// List returns the most recently created pages, up to limit.
func (s *DocumentStore) List(ctx context.Context, limit int) ([]models.Document, error) {
	return s.query(ctx, "list documents", `
		SELECT `+documentColumns+`
		FROM profile_documents
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
}

// CountByProfile returns how many pages are bound to the profile.
func (s *DocumentStore) CountByProfile(ctx context.Context, profileID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profile_documents WHERE profile_id = $1`, profileID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count documents by profile: %w", err)
	}
	return count, nil
}

// Create inserts a page. A second generated page for the same (template,
// profile) is rejected with errs.ErrAlreadyExists by the partial unique
// index. An empty status is stored as draft.
func (s *DocumentStore) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	status := d.Status
	if status == "" {
		status = models.DocumentStatusDraft
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO profile_documents (source_template_id, profile_id, title, slug, content, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+documentColumns,
		d.SourceTemplateID, d.ProfileID, d.Title, d.Slug, d.Content, status,
	)
	created, err := scanDocument(row)
	if err != nil {
		return nil, translate("create document", err)
	}
	return created, nil
}

// UpdateContent overwrites a page's content and stamps synced_at. Title,
// slug and status are left alone. Used by template sync only.
func (s *DocumentStore) UpdateContent(ctx context.Context, id uuid.UUID, content models.Blocks) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE profile_documents SET
			content = $1, synced_at = NOW(), updated_at = NOW()
		WHERE id = $2
	`, content, id)
	if err != nil {
		return fmt.Errorf("update document content: %w", err)
	}
	return expectOneRow("update document content", result)
}

// Update saves an edited page. Callers must pass the lock gate first;
// the store itself does not refuse template-derived pages.
func (s *DocumentStore) Update(ctx context.Context, d *models.Document) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE profile_documents SET
			title = $1, slug = $2, content = $3, status = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+documentColumns,
		d.Title, d.Slug, d.Content, d.Status, d.ID,
	)
	updated, err := scanDocument(row)
	if err != nil {
		return nil, translate("update document", err)
	}
	return updated, nil
}

// Delete removes a page by ID.
func (s *DocumentStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM profile_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return expectOneRow("delete document", result)
}

func expectOneRow(what string, result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, errs.ErrNotFound)
	}
	return nil
}
