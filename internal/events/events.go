// Package events provides the in-process notifications that drive page
// generation and sync: a profile was created, a template was saved.
// Subscribers run synchronously in the publishing goroutine, in
// registration order.
package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ProfileCreated is published once when a profile is newly created.
type ProfileCreated struct {
	ProfileID int64
}

// TemplateSaved is published whenever a template is saved in the published
// state, including re-saves of an already published template.
type TemplateSaved struct {
	TemplateID uuid.UUID
}

// ProfileCreatedHandler handles ProfileCreated events.
type ProfileCreatedHandler func(ctx context.Context, ev ProfileCreated)

// TemplateSavedHandler handles TemplateSaved events.
type TemplateSavedHandler func(ctx context.Context, ev TemplateSaved)

// Bus dispatches events to registered handlers. The zero value is ready
// to use.
type Bus struct {
	mu             sync.RWMutex
	profileCreated []ProfileCreatedHandler
	templateSaved  []TemplateSavedHandler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// OnProfileCreated registers a handler for ProfileCreated.
func (b *Bus) OnProfileCreated(h ProfileCreatedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profileCreated = append(b.profileCreated, h)
}

// OnTemplateSaved registers a handler for TemplateSaved.
func (b *Bus) OnTemplateSaved(h TemplateSavedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.templateSaved = append(b.templateSaved, h)
}

// PublishProfileCreated runs every ProfileCreated handler. A panicking
// handler is logged and does not stop the remaining handlers, so a failed
// page generation never breaks the profile creation flow.
func (b *Bus) PublishProfileCreated(ctx context.Context, ev ProfileCreated) {
	b.mu.RLock()
	handlers := append([]ProfileCreatedHandler(nil), b.profileCreated...)
	b.mu.RUnlock()

	slog.Debug("event published", "event", "profile_created", "profile_id", ev.ProfileID, "handlers", len(handlers))
	for _, h := range handlers {
		safeCall("profile_created", func() { h(ctx, ev) })
	}
}

// PublishTemplateSaved runs every TemplateSaved handler.
func (b *Bus) PublishTemplateSaved(ctx context.Context, ev TemplateSaved) {
	b.mu.RLock()
	handlers := append([]TemplateSavedHandler(nil), b.templateSaved...)
	b.mu.RUnlock()

	slog.Debug("event published", "event", "template_saved", "template_id", ev.TemplateID, "handlers", len(handlers))
	for _, h := range handlers {
		safeCall("template_saved", func() { h(ctx, ev) })
	}
}

func safeCall(event string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("event handler panicked", "event", event, "error", rec)
		}
	}()
	fn()
}
