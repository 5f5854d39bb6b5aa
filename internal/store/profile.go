package store

import (
	"context"
	"database/sql"
	"fmt"

	"profilepages/internal/models"
)

// ProfileStore reads and creates profiles. The page engine only needs
// lookups by id and an ordered walk over all profiles.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// FindProfile retrieves a profile by id.
func (s *ProfileStore) FindProfile(ctx context.Context, id int64) (*models.Profile, error) {
	p := &models.Profile{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, created_at
		FROM profiles WHERE id = $1
	`, id).Scan(&p.ID, &p.DisplayName, &p.Email, &p.CreatedAt)
	if err != nil {
		return nil, translate("find profile", err)
	}
	return p, nil
}

// ListProfiles returns up to limit profiles with id greater than afterID,
// ordered by id. Pass the last id of one page as afterID of the next.
func (s *ProfileStore) ListProfiles(ctx context.Context, afterID int64, limit int) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, display_name, email, created_at
		FROM profiles
		WHERE id > $1
		ORDER BY id
		LIMIT $2
	`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.Email, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Create inserts a new profile and returns it with the generated id.
func (s *ProfileStore) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	result := &models.Profile{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO profiles (display_name, email)
		VALUES ($1, $2)
		RETURNING id, display_name, email, created_at
	`, p.DisplayName, p.Email).Scan(&result.ID, &result.DisplayName, &result.Email, &result.CreatedAt)
	if err != nil {
		return nil, translate("create profile", err)
	}
	return result, nil
}
