package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"profilepages/internal/errs"
	"profilepages/internal/models"
)

// DocumentFinder looks up a single page.
type DocumentFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
}

// PageRenderer turns a page into a complete HTML document.
type PageRenderer interface {
	RenderDocument(ctx context.Context, doc *models.Document) ([]byte, error)
}

// PageCache holds rendered pages. Misses and failures look the same.
type PageCache interface {
	Get(ctx context.Context, id uuid.UUID) ([]byte, bool)
	Set(ctx context.Context, id uuid.UUID, html []byte)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// Public serves published pages as HTML.
type Public struct {
	documents DocumentFinder
	renderer  PageRenderer
	cache     PageCache
}

// NewPublic creates the public page handler. cache may be nil.
func NewPublic(documents DocumentFinder, renderer PageRenderer, cache PageCache) *Public {
	return &Public{documents: documents, renderer: renderer, cache: cache}
}

// Page renders GET /p/{id}. Drafts answer 404 like missing pages.
func (h *Public) Page(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()

	if h.cache != nil {
		if html, ok := h.cache.Get(ctx, id); ok {
			writeHTML(w, html)
			return
		}
	}

	doc, err := h.documents.FindByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) || (err == nil && doc.Status != models.DocumentStatusPublished) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("public page lookup failed", "document_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := h.renderer.RenderDocument(ctx, doc)
	if err != nil {
		slog.Error("public page render failed", "document_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		h.cache.Set(ctx, id, html)
	}
	writeHTML(w, html)
}

func writeHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(html); err != nil {
		slog.Warn("failed to write page", "error", err)
	}
}
