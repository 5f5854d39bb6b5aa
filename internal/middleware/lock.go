// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"profilepages/internal/pagegen"
)

// LockChecker decides whether a mutation of a page may proceed.
// *pagegen.LockGate satisfies it.
type LockChecker interface {
	Check(ctx context.Context, documentID uuid.UUID, method string) error
}

// lockedBody is the JSON shape of a rejected page mutation.
type lockedBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Data    lockedBodyData `json:"data"`
}

type lockedBodyData struct {
	Status int `json:"status"`
}

// DocumentLock guards the routes of a single page, identified by the
// {id} URL parameter. Mutations of template-derived pages are answered
// with 403 profile_page_locked and never reach next. Reads, unknown pages
// and hand-authored pages pass through. Malformed ids pass through so the
// handler can reject them.
func DocumentLock(gate LockChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			err = gate.Check(r.Context(), id, r.Method)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			var locked *pagegen.LockedError
			if errors.As(err, &locked) {
				writeJSON(w, locked.HTTPStatus, lockedBody{
					Code:    locked.Code,
					Message: locked.Message,
					Data:    lockedBodyData{Status: locked.HTTPStatus},
				})
				return
			}

			slog.Error("lock check failed", "document_id", id, "method", r.Method, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"code":    "internal_error",
				"message": "Could not verify whether this page may be edited.",
			})
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
