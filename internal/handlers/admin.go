// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"profilepages/internal/pagegen"
	"profilepages/internal/store"
)

// MissingPageReconciler regenerates pages for profiles that have none.
type MissingPageReconciler interface {
	RegenerateMissing(ctx context.Context) (pagegen.ReconcileResult, error)
}

// EventReader reads the page event log.
type EventReader interface {
	RecentEntries(ctx context.Context, limit int) ([]store.EventLogEntry, error)
}

// Admin groups the operator endpoints.
type Admin struct {
	reconciler MissingPageReconciler
	eventLog   EventReader
}

// NewAdmin creates the operator handlers.
func NewAdmin(reconciler MissingPageReconciler, eventLog EventReader) *Admin {
	return &Admin{reconciler: reconciler, eventLog: eventLog}
}

// Reconcile runs a full reconciliation pass and returns its counts.
func (a *Admin) Reconcile(w http.ResponseWriter, r *http.Request) {
	res, err := a.reconciler.RegenerateMissing(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Events returns the most recent page events, newest first.
func (a *Admin) Events(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50, 500)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := a.eventLog.RecentEntries(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []store.EventLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
