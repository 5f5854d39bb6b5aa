package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"profilepages/internal/models"
)

//go:embed seed/templates.yaml
var seedTemplatesYAML []byte

// seedFile is the shape of seed/templates.yaml.
type seedFile struct {
	Templates []struct {
		Title   string                `yaml:"title"`
		Status  models.TemplateStatus `yaml:"status"`
		Content models.Blocks         `yaml:"content"`
	} `yaml:"templates"`
}

// Seed populates the database with the default profile templates if no
// template exists yet. Profiles created before any template is published
// get no pages until the reconciler runs, so development starts with one.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM profile_templates").Scan(&count); err != nil {
		return fmt.Errorf("seed check templates: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	seed, err := parseSeed(seedTemplatesYAML)
	if err != nil {
		return err
	}

	for _, t := range seed.Templates {
		if _, err := db.Exec(`
			INSERT INTO profile_templates (title, content, status)
			VALUES ($1, $2, $3)
		`, t.Title, t.Content, t.Status); err != nil {
			return fmt.Errorf("seed insert template %q: %w", t.Title, err)
		}
		slog.Info("seeded profile template", "title", t.Title, "status", t.Status)
	}

	return nil
}

func parseSeed(raw []byte) (*seedFile, error) {
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("seed parse templates: %w", err)
	}
	return &seed, nil
}
