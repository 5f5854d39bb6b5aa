// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render turns a page's block tree into a complete HTML document.
// Binding blocks become a profile card for the profile they are bound to,
// markdown blocks are converted with goldmark, and every other block
// contributes its stored HTML followed by its children.
package render

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"profilepages/internal/errs"
	"profilepages/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// MarkdownBlock is the block type whose "source" attribute holds Markdown.
const MarkdownBlock = "core/markdown"

// ProfileLookup resolves the profile a binding block points at.
type ProfileLookup interface {
	FindProfile(ctx context.Context, id int64) (*models.Profile, error)
}

// pageData holds the variables available to the page layout.
type pageData struct {
	ID        string
	Title     string
	ProfileID int64
	Body      template.HTML
}

// cardData holds the variables available to the profile card.
type cardData struct {
	ID          int64
	DisplayName string
	Email       string
	Variant     string
}

// Renderer renders pages. It is safe for concurrent use.
type Renderer struct {
	profiles     ProfileLookup
	bindingBlock string
	page         *template.Template
	card         *template.Template
}

// New parses the embedded layouts. An empty bindingBlock selects
// models.DefaultBindingBlock.
func New(profiles ProfileLookup, bindingBlock string) (*Renderer, error) {
	if bindingBlock == "" {
		bindingBlock = models.DefaultBindingBlock
	}
	page, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page layout: %w", err)
	}
	card, err := template.ParseFS(templateFS, "templates/profile_card.html")
	if err != nil {
		return nil, fmt.Errorf("parse profile card: %w", err)
	}
	return &Renderer{profiles: profiles, bindingBlock: bindingBlock, page: page, card: card}, nil
}

// RenderDocument renders the page as a full HTML document. Block HTML is
// trusted: it comes from templates and pages written by editors.
func (r *Renderer) RenderDocument(ctx context.Context, doc *models.Document) ([]byte, error) {
	var body strings.Builder
	cards := map[int64]*models.Profile{}
	if err := r.renderBlocks(ctx, &body, doc.Content, cards); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err := r.page.Execute(&buf, pageData{
		ID:        doc.ID.String(),
		Title:     doc.Title,
		ProfileID: doc.ProfileID,
		Body:      template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("execute page layout: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderBlocks(ctx context.Context, w *strings.Builder, blocks []models.Block, cards map[int64]*models.Profile) error {
	for i := range blocks {
		if err := r.renderBlock(ctx, w, &blocks[i], cards); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderBlock(ctx context.Context, w *strings.Builder, b *models.Block, cards map[int64]*models.Profile) error {
	switch b.Type {
	case r.bindingBlock:
		return r.renderCard(ctx, w, b, cards)
	case MarkdownBlock:
		source, _ := b.Attributes["source"].(string)
		out, err := markdownToHTML(source)
		if err != nil {
			return fmt.Errorf("render markdown block: %w", err)
		}
		w.WriteString(out)
	default:
		w.WriteString(b.HTML)
	}
	return r.renderBlocks(ctx, w, b.Children, cards)
}

// renderCard renders a binding block. Unbound blocks and blocks bound to
// a profile that no longer exists render nothing.
func (r *Renderer) renderCard(ctx context.Context, w *strings.Builder, b *models.Block, cards map[int64]*models.Profile) error {
	id, ok := b.BoundProfileID()
	if !ok || id <= 0 {
		return nil
	}

	p, seen := cards[id]
	if !seen {
		found, err := r.profiles.FindProfile(ctx, id)
		if errors.Is(err, errs.ErrNotFound) {
			slog.Warn("bound profile not found", "profile_id", id)
		} else if err != nil {
			return fmt.Errorf("find bound profile %d: %w", id, err)
		}
		p = found
		cards[id] = p
	}
	if p == nil {
		return nil
	}

	variant, _ := b.Attributes["variant"].(string)
	var buf bytes.Buffer
	if err := r.card.Execute(&buf, cardData{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		Variant:     variant,
	}); err != nil {
		return fmt.Errorf("execute profile card: %w", err)
	}
	w.Write(buf.Bytes())
	return nil
}
