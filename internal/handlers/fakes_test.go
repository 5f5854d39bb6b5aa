package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"profilepages/internal/errs"
	"profilepages/internal/models"
	"profilepages/internal/pagegen"
	"profilepages/internal/store"
)

var errBoom = errors.New("boom")

// serve routes a single request through a chi router so URL parameters
// resolve the way they do in production.
func serve(method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type memProfiles struct {
	byID    map[int64]models.Profile
	nextID  int64
	err     error
	created []models.Profile
}

func newMemProfiles(ps ...models.Profile) *memProfiles {
	m := &memProfiles{byID: map[int64]models.Profile{}, nextID: 1}
	for _, p := range ps {
		m.byID[p.ID] = p
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
	return m
}

func (m *memProfiles) FindProfile(_ context.Context, id int64) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

func (m *memProfiles) ListProfiles(_ context.Context, afterID int64, limit int) ([]models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Profile
	for _, p := range m.byID {
		if p.ID > afterID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memProfiles) Create(_ context.Context, p *models.Profile) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	stored := *p
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	m.nextID++
	m.byID[stored.ID] = stored
	m.created = append(m.created, stored)
	return &stored, nil
}

type memTemplates struct {
	byID map[uuid.UUID]models.Template
	err  error
}

func newMemTemplates(ts ...models.Template) *memTemplates {
	m := &memTemplates{byID: map[uuid.UUID]models.Template{}}
	for _, t := range ts {
		m.byID[t.ID] = t
	}
	return m
}

func (m *memTemplates) List(_ context.Context) ([]models.Template, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Template
	for _, t := range m.byID {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTemplates) FindByID(_ context.Context, id uuid.UUID) (*models.Template, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &t, nil
}

func (m *memTemplates) Create(_ context.Context, t *models.Template) (*models.Template, error) {
	if m.err != nil {
		return nil, m.err
	}
	stored := *t
	stored.ID = uuid.New()
	stored.Version = 1
	if stored.Status == "" {
		stored.Status = models.TemplateStatusDraft
	}
	m.byID[stored.ID] = stored
	return &stored, nil
}

func (m *memTemplates) Update(_ context.Context, t *models.Template) (*models.Template, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.byID[t.ID]; !ok {
		return nil, errs.ErrNotFound
	}
	stored := *t
	stored.Version++
	m.byID[stored.ID] = stored
	return &stored, nil
}

type memDocuments struct {
	byID map[uuid.UUID]models.Document
	err  error
}

func newMemDocuments(ds ...models.Document) *memDocuments {
	m := &memDocuments{byID: map[uuid.UUID]models.Document{}}
	for _, d := range ds {
		m.byID[d.ID] = d
	}
	return m
}

func (m *memDocuments) List(_ context.Context, limit int) ([]models.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Document
	for _, d := range m.byID {
		out = append(out, d)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memDocuments) ListByProfile(_ context.Context, profileID int64) ([]models.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Document
	for _, d := range m.byID {
		if d.ProfileID == profileID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDocuments) FindByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	d, ok := m.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &d, nil
}

func (m *memDocuments) Create(_ context.Context, d *models.Document) (*models.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	stored := *d
	stored.ID = uuid.New()
	if stored.Status == "" {
		stored.Status = models.DocumentStatusDraft
	}
	m.byID[stored.ID] = stored
	return &stored, nil
}

func (m *memDocuments) Update(_ context.Context, d *models.Document) (*models.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.byID[d.ID]; !ok {
		return nil, errs.ErrNotFound
	}
	m.byID[d.ID] = *d
	return d, nil
}

func (m *memDocuments) Delete(_ context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type stubSyncer struct {
	res    pagegen.SyncResult
	err    error
	synced []uuid.UUID
}

func (s *stubSyncer) SyncTemplate(_ context.Context, id uuid.UUID) (pagegen.SyncResult, error) {
	s.synced = append(s.synced, id)
	return s.res, s.err
}

type stubReconciler struct {
	res pagegen.ReconcileResult
	err error
}

func (s *stubReconciler) RegenerateMissing(_ context.Context) (pagegen.ReconcileResult, error) {
	return s.res, s.err
}

type stubEventReader struct {
	entries []store.EventLogEntry
	err     error
	limit   int
}

func (s *stubEventReader) RecentEntries(_ context.Context, limit int) ([]store.EventLogEntry, error) {
	s.limit = limit
	return s.entries, s.err
}

// memPageCache records cache traffic.
type memPageCache struct {
	pages       map[uuid.UUID][]byte
	invalidated []uuid.UUID
}

func newMemPageCache() *memPageCache {
	return &memPageCache{pages: map[uuid.UUID][]byte{}}
}

func (m *memPageCache) Get(_ context.Context, id uuid.UUID) ([]byte, bool) {
	html, ok := m.pages[id]
	return html, ok
}

func (m *memPageCache) Set(_ context.Context, id uuid.UUID, html []byte) {
	m.pages[id] = html
}

func (m *memPageCache) Invalidate(_ context.Context, id uuid.UUID) {
	delete(m.pages, id)
	m.invalidated = append(m.invalidated, id)
}

type stubRenderer struct {
	calls int
	err   error
}

func (s *stubRenderer) RenderDocument(_ context.Context, doc *models.Document) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("<h1>" + doc.Title + "</h1>"), nil
}
