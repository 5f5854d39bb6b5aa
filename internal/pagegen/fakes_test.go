package pagegen

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"profilepages/internal/errs"
	"profilepages/internal/models"
)

var errBoom = errors.New("boom")

type fakeProfiles struct {
	byID    map[int64]models.Profile
	findErr error
	listErr error
}

var _ ProfileSource = (*fakeProfiles)(nil)

func newFakeProfiles(ps ...models.Profile) *fakeProfiles {
	f := &fakeProfiles{byID: map[int64]models.Profile{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProfiles) FindProfile(_ context.Context, id int64) (*models.Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) ListProfiles(_ context.Context, afterID int64, limit int) ([]models.Profile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var ids []int64
	for id := range f.byID {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]models.Profile, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.byID[id])
	}
	return out, nil
}

type fakeTemplates struct {
	list    []models.Template
	listErr error
}

var _ TemplateSource = (*fakeTemplates)(nil)

func (f *fakeTemplates) ListPublished(_ context.Context) ([]models.Template, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Template
	for _, t := range f.list {
		if t.IsPublished() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTemplates) FindByID(_ context.Context, id uuid.UUID) (*models.Template, error) {
	for i := range f.list {
		if f.list[i].ID == id {
			t := f.list[i]
			return &t, nil
		}
	}
	return nil, errs.ErrNotFound
}

// fakeDocuments is an in-memory DocumentRepository. Stored content is
// cloned on the way in and out, like a real database round trip.
type fakeDocuments struct {
	mu   sync.Mutex
	docs []models.Document

	createErrFor map[uuid.UUID]error // keyed by source template
	updateErrFor map[uuid.UUID]error // keyed by document
	findErr      error
	countErrFor  map[int64]error
	listErr      error
}

var _ DocumentRepository = (*fakeDocuments)(nil)

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{
		createErrFor: map[uuid.UUID]error{},
		updateErrFor: map[uuid.UUID]error{},
		countErrFor:  map[int64]error{},
	}
}

func (f *fakeDocuments) FindByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, d := range f.docs {
		if d.ID == id {
			d.Content = d.Content.Clone()
			return &d, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeDocuments) FindBySourceAndProfile(_ context.Context, templateID uuid.UUID, profileID int64) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, d := range f.docs {
		if d.SourceTemplateID != nil && *d.SourceTemplateID == templateID && d.ProfileID == profileID {
			d.Content = d.Content.Clone()
			return &d, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeDocuments) ListBySource(_ context.Context, templateID uuid.UUID) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Document
	for _, d := range f.docs {
		if d.SourceTemplateID != nil && *d.SourceTemplateID == templateID {
			d.Content = d.Content.Clone()
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocuments) CountByProfile(_ context.Context, profileID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.countErrFor[profileID]; err != nil {
		return 0, err
	}
	n := 0
	for _, d := range f.docs {
		if d.ProfileID == profileID {
			n++
		}
	}
	return n, nil
}

func (f *fakeDocuments) Create(_ context.Context, d *models.Document) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.SourceTemplateID != nil {
		if err := f.createErrFor[*d.SourceTemplateID]; err != nil {
			return nil, err
		}
		for _, existing := range f.docs {
			if existing.SourceTemplateID != nil && *existing.SourceTemplateID == *d.SourceTemplateID && existing.ProfileID == d.ProfileID {
				return nil, errs.ErrAlreadyExists
			}
		}
	}
	stored := *d
	stored.ID = uuid.New()
	stored.Content = d.Content.Clone()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.docs = append(f.docs, stored)

	out := stored
	out.Content = stored.Content.Clone()
	return &out, nil
}

func (f *fakeDocuments) UpdateContent(_ context.Context, id uuid.UUID, content models.Blocks) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updateErrFor[id]; err != nil {
		return err
	}
	for i := range f.docs {
		if f.docs[i].ID == id {
			now := time.Now()
			f.docs[i].Content = content.Clone()
			f.docs[i].SyncedAt = &now
			f.docs[i].UpdatedAt = now
			return nil
		}
	}
	return errs.ErrNotFound
}

// seed stores a document directly, bypassing the generator.
func (f *fakeDocuments) seed(d models.Document) models.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.Content = d.Content.Clone()
	f.docs = append(f.docs, d)
	return d
}

func (f *fakeDocuments) byProfile(profileID int64) []models.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Document
	for _, d := range f.docs {
		if d.ProfileID == profileID {
			out = append(out, d)
		}
	}
	return out
}

func (f *fakeDocuments) get(id uuid.UUID) models.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.docs {
		if d.ID == id {
			return d
		}
	}
	return models.Document{}
}

type fakeMarkers struct {
	marked   map[int64]time.Time
	readErr  error
	writeErr error
	clearErr error
	cleared  int
}

var _ MarkerStore = (*fakeMarkers)(nil)

func newFakeMarkers() *fakeMarkers {
	return &fakeMarkers{marked: map[int64]time.Time{}}
}

func (f *fakeMarkers) IsMarked(_ context.Context, profileID int64) (bool, error) {
	if f.readErr != nil {
		return false, f.readErr
	}
	_, ok := f.marked[profileID]
	return ok, nil
}

func (f *fakeMarkers) Mark(_ context.Context, profileID int64, at time.Time) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.marked[profileID] = at
	return nil
}

func (f *fakeMarkers) ClearAll(_ context.Context) (int, error) {
	if f.clearErr != nil {
		return 0, f.clearErr
	}
	n := len(f.marked)
	f.marked = map[int64]time.Time{}
	f.cleared++
	return n, nil
}

type loggedEvent struct {
	entityType, entityID, action, detail string
}

type fakeEventLog struct {
	entries []loggedEvent
}

func (f *fakeEventLog) Log(_ context.Context, entityType, entityID, action, detail string) {
	f.entries = append(f.entries, loggedEvent{entityType, entityID, action, detail})
}

func (f *fakeEventLog) count(action string) int {
	n := 0
	for _, e := range f.entries {
		if e.action == action {
			n++
		}
	}
	return n
}

// profileTemplate builds a published template with a heading, a top-level
// binding block and a nested one.
func profileTemplate(title, heading string) models.Template {
	return models.Template{
		ID:     uuid.New(),
		Title:  title,
		Status: models.TemplateStatusPublished,
		Content: models.Blocks{
			{Type: "core/heading", HTML: heading},
			{Type: models.DefaultBindingBlock, Attributes: map[string]any{models.ProfileIDAttr: int64(0)}},
			{Type: "core/columns", Children: []models.Block{
				{Type: models.DefaultBindingBlock, Attributes: map[string]any{"variant": "contact"}},
			}},
		},
		Version: 1,
	}
}
