package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"profilepages/internal/events"
	"profilepages/internal/models"
)

// ProfileRepository is the profile storage used by Profiles.
type ProfileRepository interface {
	FindProfile(ctx context.Context, id int64) (*models.Profile, error)
	ListProfiles(ctx context.Context, afterID int64, limit int) ([]models.Profile, error)
	Create(ctx context.Context, p *models.Profile) (*models.Profile, error)
}

// ProfileDocuments lists the pages bound to a profile.
type ProfileDocuments interface {
	ListByProfile(ctx context.Context, profileID int64) ([]models.Document, error)
}

// Profiles groups the profile HTTP handlers.
type Profiles struct {
	profiles  ProfileRepository
	documents ProfileDocuments
	bus       *events.Bus
}

// NewProfiles creates the profile handlers. Creating a profile publishes
// events.ProfileCreated on bus.
func NewProfiles(profiles ProfileRepository, documents ProfileDocuments, bus *events.Bus) *Profiles {
	return &Profiles{profiles: profiles, documents: documents, bus: bus}
}

type profileRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// List returns profiles ordered by id. ?after=<id> continues from a
// previous page and ?limit= caps the page size.
func (h *Profiles) List(w http.ResponseWriter, r *http.Request) {
	var after int64
	if raw := r.URL.Query().Get("after"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			writeError(w, r, invalid("after must be a non-negative integer"))
			return
		}
		after = n
	}
	limit, err := queryInt(r, "limit", 50, 500)
	if err != nil {
		writeError(w, r, err)
		return
	}

	profiles, err := h.profiles.ListProfiles(r.Context(), after, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

// Create stores a new profile and fires ProfileCreated. Subscribers run
// before the response is written, so generated pages already exist when
// the client sees the 201.
func (h *Profiles) Create(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateProfile(req.DisplayName, req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.profiles.Create(r.Context(), &models.Profile{
		DisplayName: strings.TrimSpace(req.DisplayName),
		Email:       strings.TrimSpace(req.Email),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("profile created", "profile_id", created.ID)

	if h.bus != nil {
		h.bus.PublishProfileCreated(r.Context(), events.ProfileCreated{ProfileID: created.ID})
	}

	writeJSON(w, http.StatusCreated, created)
}

// Get returns a single profile.
func (h *Profiles) Get(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.profiles.FindProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Documents returns every page bound to the profile, generated or not.
func (h *Profiles) Documents(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.profiles.FindProfile(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	docs, err := h.documents.ListByProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}
