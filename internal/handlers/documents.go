package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"profilepages/internal/models"
	"profilepages/internal/slug"
)

// DocumentRepository is the page storage used by Documents.
type DocumentRepository interface {
	List(ctx context.Context, limit int) ([]models.Document, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Create(ctx context.Context, d *models.Document) (*models.Document, error)
	Update(ctx context.Context, d *models.Document) (*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PageInvalidator drops the rendered copy of a page after it changes.
type PageInvalidator interface {
	Invalidate(ctx context.Context, id uuid.UUID)
}

// Documents groups the page HTTP handlers. Mutating routes sit behind
// middleware.DocumentLock, so the handlers here only ever change
// hand-authored pages.
type Documents struct {
	documents DocumentRepository
	pages     PageInvalidator
}

// NewDocuments creates the page handlers. pages may be nil when no page
// cache is configured.
func NewDocuments(documents DocumentRepository, pages PageInvalidator) *Documents {
	return &Documents{documents: documents, pages: pages}
}

type documentRequest struct {
	ProfileID int64                 `json:"profile_id"`
	Title     string                `json:"title"`
	Slug      string                `json:"slug"`
	Content   models.Blocks         `json:"content"`
	Status    models.DocumentStatus `json:"status"`
}

// documentPatch carries the fields of a partial update. Nil fields are
// left unchanged.
type documentPatch struct {
	Title   *string                `json:"title"`
	Slug    *string                `json:"slug"`
	Content *models.Blocks         `json:"content"`
	Status  *models.DocumentStatus `json:"status"`
}

// List returns the most recent pages. ?limit= caps the count.
func (h *Documents) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50, 500)
	if err != nil {
		writeError(w, r, err)
		return
	}

	docs, err := h.documents.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// Create stores a hand-authored page. Generated pages are only ever
// created by the page generator, so the body cannot name a template.
func (h *Documents) Create(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ProfileID <= 0 {
		writeError(w, r, invalid("profile_id is required"))
		return
	}
	if err := validateDocument(req.Title, req.Slug, string(req.Status)); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.documents.Create(r.Context(), &models.Document{
		ProfileID: req.ProfileID,
		Title:     strings.TrimSpace(req.Title),
		Slug:      slugOrTitle(req.Slug, req.Title),
		Content:   req.Content,
		Status:    req.Status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get returns a single page.
func (h *Documents) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	d, err := h.documents.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Replace overwrites a page's title, slug, content and status.
func (h *Documents) Replace(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req documentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateDocument(req.Title, req.Slug, string(req.Status)); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.documents.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item.Title = strings.TrimSpace(req.Title)
	item.Slug = slugOrTitle(req.Slug, req.Title)
	item.Content = req.Content
	if req.Status != "" {
		item.Status = req.Status
	}
	h.save(w, r, item)
}

// Patch changes only the fields present in the body.
func (h *Documents) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req documentPatch
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.documents.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil {
		item.Slug = slugOrTitle(*req.Slug, item.Title)
	}
	if req.Content != nil {
		item.Content = *req.Content
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if err := validateDocument(item.Title, item.Slug, string(item.Status)); err != nil {
		writeError(w, r, err)
		return
	}
	h.save(w, r, item)
}

// Delete removes a page.
func (h *Documents) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.documents.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.invalidate(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Documents) save(w http.ResponseWriter, r *http.Request, item *models.Document) {
	updated, err := h.documents.Update(r.Context(), item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.invalidate(r.Context(), item.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (h *Documents) invalidate(ctx context.Context, id uuid.UUID) {
	if h.pages != nil {
		h.pages.Invalidate(ctx, id)
	}
}

// slugOrTitle slugifies s, falling back to the title when s is blank.
func slugOrTitle(s, title string) string {
	if strings.TrimSpace(s) == "" {
		return slug.Generate(title)
	}
	return slug.Generate(s)
}
