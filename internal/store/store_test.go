// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"profilepages/internal/database"
	"profilepages/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "profilepages")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "profilepages")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Reset goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// createTestProfile inserts a profile and removes it, with its pages, when
// the test finishes.
func createTestProfile(t *testing.T, db *sql.DB, name string) *models.Profile {
	t.Helper()
	p, err := NewProfileStore(db).Create(context.Background(), &models.Profile{
		DisplayName: name,
		Email:       uuid.NewString() + "@test.local",
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM profile_documents WHERE profile_id = $1", p.ID)
		db.Exec("DELETE FROM profiles WHERE id = $1", p.ID)
	})
	return p
}

// createTestTemplate inserts a draft template and removes it, with its
// pages, when the test finishes. Drafts keep concurrent generation in
// other packages from materializing pages for it.
func createTestTemplate(t *testing.T, db *sql.DB, title string) *models.Template {
	t.Helper()
	tmpl, err := NewTemplateStore(db).Create(context.Background(), &models.Template{
		Title:  title,
		Status: models.TemplateStatusDraft,
		Content: models.Blocks{
			{Type: "core/heading", HTML: "<h2>" + title + "</h2>"},
			{Type: models.DefaultBindingBlock, Attributes: map[string]any{}},
		},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM profile_documents WHERE source_template_id = $1", tmpl.ID)
		db.Exec("DELETE FROM profile_templates WHERE id = $1", tmpl.ID)
	})
	return tmpl
}
