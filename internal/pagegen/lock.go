// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"profilepages/internal/errs"
)

// LockedCode is the machine-readable code of a rejected page mutation.
const LockedCode = "profile_page_locked"

// LockedMessage is shown to the user whose edit was rejected.
const LockedMessage = "This page is generated from a template. Edit the template instead."

// LockedError rejects a mutation against a template-derived page. It
// matches errs.ErrForbidden with errors.Is.
type LockedError struct {
	Code       string
	Message    string
	HTTPStatus int
	DocumentID uuid.UUID
	TemplateID uuid.UUID
	Method     string
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s: document %s is derived from template %s", e.Code, e.DocumentID, e.TemplateID)
}

func (e *LockedError) Unwrap() error { return errs.ErrForbidden }

// LockGate decides, per request, whether a page may be mutated. It keeps
// no state besides reading the page's template link.
type LockGate struct {
	documents DocumentRepository
	eventLog  EventLogger
}

// NewLockGate creates a LockGate. eventLog may be nil.
func NewLockGate(documents DocumentRepository, eventLog EventLogger) *LockGate {
	return &LockGate{documents: documents, eventLog: eventLog}
}

// Check returns nil when the request may proceed and a *LockedError when
// the page is derived from a template. Reads always proceed. Unknown pages
// proceed too so the handler can answer 404. A failed lookup is returned
// as-is and the mutation must not be applied.
func (g *LockGate) Check(ctx context.Context, documentID uuid.UUID, method string) error {
	if isReadMethod(method) {
		return nil
	}

	doc, err := g.documents.FindByID(ctx, documentID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lock check for document %s: %w", documentID, err)
	}
	if !doc.IsTemplateDerived() {
		return nil
	}

	slog.Info("profile page mutation rejected",
		"document_id", documentID,
		"template_id", *doc.SourceTemplateID,
		"method", method,
	)
	logEvent(ctx, g.eventLog, "document", documentID.String(), EventLocked, method)

	return &LockedError{
		Code:       LockedCode,
		Message:    LockedMessage,
		HTTPStatus: http.StatusForbidden,
		DocumentID: documentID,
		TemplateID: *doc.SourceTemplateID,
		Method:     method,
	}
}

func isReadMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
