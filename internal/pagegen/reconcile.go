// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagegen

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultReconcileBatch is how many profiles the Reconciler reads per page.
const DefaultReconcileBatch = 200

// ProfileGenerator is the part of Generator the Reconciler drives.
type ProfileGenerator interface {
	GenerateForProfile(ctx context.Context, profileID int64) (GenerateResult, error)
}

// ReconcileResult counts profiles, not pages. Created is the number of
// profiles the generator ran for without error, which includes runs that
// produced no page because no template is published or every insert
// failed; those per-page outcomes are logged by the generator.
type ReconcileResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Reconciler fills in missing profile pages across all profiles. It never
// deletes or overwrites existing pages.
type Reconciler struct {
	profiles  ProfileSource
	documents DocumentRepository
	generator ProfileGenerator
	markers   MarkerStore
	eventLog  EventLogger
	batchSize int
}

// NewReconciler creates a Reconciler. markers and eventLog may be nil; a
// batchSize <= 0 selects DefaultReconcileBatch.
func NewReconciler(profiles ProfileSource, documents DocumentRepository, generator ProfileGenerator, markers MarkerStore, eventLog EventLogger, batchSize int) *Reconciler {
	if batchSize <= 0 {
		batchSize = DefaultReconcileBatch
	}
	return &Reconciler{
		profiles:  profiles,
		documents: documents,
		generator: generator,
		markers:   markers,
		eventLog:  eventLog,
		batchSize: batchSize,
	}
}

// RegenerateMissing clears all generation markers, then runs the generator
// for every profile that has no page at all. Profiles with at least one
// page are skipped. Partial failure is reported in the counts, not as an
// error; an error is returned only if the profile list cannot be read or
// ctx is cancelled, together with the counts so far.
func (r *Reconciler) RegenerateMissing(ctx context.Context) (ReconcileResult, error) {
	var res ReconcileResult
	start := time.Now()

	if r.markers != nil {
		cleared, err := r.markers.ClearAll(ctx)
		if err != nil {
			slog.Warn("generation markers not cleared", "error", err)
		} else {
			slog.Debug("generation markers cleared", "count", cleared)
		}
	}

	var afterID int64
	for {
		batch, err := r.profiles.ListProfiles(ctx, afterID, r.batchSize)
		if err != nil {
			return res, fmt.Errorf("list profiles after %d: %w", afterID, err)
		}

		for _, p := range batch {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			r.reconcileProfile(ctx, p.ID, &res)
		}

		if len(batch) < r.batchSize {
			break
		}
		afterID = batch[len(batch)-1].ID
	}

	slog.Info("profile pages reconciled",
		"created", res.Created,
		"skipped", res.Skipped,
		"failed", res.Failed,
		"duration", time.Since(start).String(),
	)
	logEvent(ctx, r.eventLog, "reconcile", "all", EventReconcile,
		fmt.Sprintf("created=%d skipped=%d failed=%d", res.Created, res.Skipped, res.Failed))

	return res, nil
}

func (r *Reconciler) reconcileProfile(ctx context.Context, profileID int64, res *ReconcileResult) {
	n, err := r.documents.CountByProfile(ctx, profileID)
	if err != nil {
		slog.Error("reconcile page count failed", "profile_id", profileID, "error", err)
		res.Failed++
		return
	}
	if n > 0 {
		res.Skipped++
		return
	}

	if _, err := r.generator.GenerateForProfile(ctx, profileID); err != nil {
		slog.Error("reconcile generation failed", "profile_id", profileID, "error", err)
		res.Failed++
		return
	}
	res.Created++
}
