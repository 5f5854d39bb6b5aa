package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"profilepages/internal/cache"
	"profilepages/internal/config"
	"profilepages/internal/database"
	"profilepages/internal/events"
	"profilepages/internal/handlers"
	"profilepages/internal/pagegen"
	"profilepages/internal/render"
	"profilepages/internal/store"
)

// app holds the connections, stores and page engine shared by the
// subcommands.
type app struct {
	db     *sql.DB
	valkey *redis.Client

	profiles  *store.ProfileStore
	templates *store.TemplateStore
	documents *store.DocumentStore
	eventLog  *store.EventLogStore

	generator  *pagegen.Generator
	syncer     *pagegen.Syncer
	reconciler *pagegen.Reconciler
	lockGate   *pagegen.LockGate
	bus        *events.Bus

	renderer *render.Renderer
	// pageCache is nil when Valkey is unavailable.
	pageCache *cache.PageCache
}

// newApp connects to PostgreSQL, applies pending migrations and wires the
// page engine. With requireValkey unset a Valkey outage only disables the
// generation marker.
func newApp(cfg *config.Config, requireValkey bool) (*app, error) {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	a := &app{
		db:        db,
		profiles:  store.NewProfileStore(db),
		templates: store.NewTemplateStore(db),
		documents: store.NewDocumentStore(db),
		eventLog:  store.NewEventLogStore(db),
		bus:       events.NewBus(),
	}

	var markers pagegen.MarkerStore
	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	switch {
	case err == nil:
		a.valkey = client
		markers = cache.NewMarkerStore(client, cfg.MarkerTTL)
		a.pageCache = cache.NewPageCache(client, 0)
	case requireValkey:
		db.Close()
		return nil, fmt.Errorf("connect to valkey: %w", err)
	default:
		slog.Warn("valkey unavailable, generation markers and page cache disabled", "addr", cfg.ValkeyAddr(), "error", err)
	}

	a.generator = pagegen.NewGenerator(a.profiles, a.templates, a.documents, markers, a.eventLog, cfg.BindingBlock)
	a.syncer = pagegen.NewSyncer(a.templates, a.documents, a.eventLog, cfg.BindingBlock)
	a.reconciler = pagegen.NewReconciler(a.profiles, a.documents, a.generator, markers, a.eventLog, cfg.ReconcileBatch)
	a.lockGate = pagegen.NewLockGate(a.documents, a.eventLog)

	a.renderer, err = render.New(a.profiles, cfg.BindingBlock)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load page layouts: %w", err)
	}

	a.bus.OnProfileCreated(a.generator.HandleProfileCreated)
	a.bus.OnTemplateSaved(a.syncer.HandleTemplateSaved)
	if a.pageCache != nil {
		// Registered after the syncer so pages are dropped once their
		// content has been rewritten.
		a.bus.OnTemplateSaved(func(ctx context.Context, _ events.TemplateSaved) {
			a.pageCache.InvalidateAll(ctx)
		})
	}

	return a, nil
}

// pages returns the page cache as the handlers see it, nil when disabled.
func (a *app) pages() handlers.PageCache {
	if a.pageCache == nil {
		return nil
	}
	return a.pageCache
}

// Close releases the database and Valkey connections.
func (a *app) Close() {
	if a.valkey != nil {
		a.valkey.Close()
	}
	a.db.Close()
}
