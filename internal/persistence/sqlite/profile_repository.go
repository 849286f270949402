package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/capacity-planner/internal/persistence"
)

var _ persistence.ProfileRepository = (*Storage)(nil)

// UpsertProfile inserts or replaces the profile for profile.UserID. CreatedAt
// is preserved across updates.
func (s *Storage) UpsertProfile(ctx context.Context, profile persistence.Profile) error {
	if profile.UserID == "" || len(profile.Document) == 0 {
		return persistence.ErrConstraintViolation
	}

	now := s.now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = now
	}

	const query = `
		INSERT INTO resource_profiles (user_id, user_type, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			user_type = excluded.user_type,
			document = excluded.document,
			updated_at = excluded.updated_at`

	return s.retry.WithRetry(ctx, func() error {
		_, err := s.pool.DB().ExecContext(ctx, query,
			profile.UserID,
			profile.UserType,
			string(profile.Document),
			formatTime(profile.CreatedAt),
			formatTime(profile.UpdatedAt),
		)
		return err
	})
}

// GetProfile returns the stored profile for userID.
func (s *Storage) GetProfile(ctx context.Context, userID string) (persistence.Profile, error) {
	if userID == "" {
		return persistence.Profile{}, persistence.ErrNotFound
	}

	const query = `
		SELECT user_id, user_type, document, created_at, updated_at
		FROM resource_profiles
		WHERE user_id = ?`

	profile, err := scanProfile(s.pool.DB().QueryRowContext(ctx, query, userID))
	if err != nil {
		return persistence.Profile{}, s.mapper.MapError(err)
	}
	return profile, nil
}

// ListProfiles returns every stored profile ordered by user ID.
func (s *Storage) ListProfiles(ctx context.Context) ([]persistence.Profile, error) {
	const query = `
		SELECT user_id, user_type, document, created_at, updated_at
		FROM resource_profiles
		ORDER BY user_id ASC`

	rows, err := s.pool.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, s.mapper.MapError(err)
	}
	defer rows.Close()

	profiles := make([]persistence.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapper.MapError(err)
	}
	return profiles, nil
}

// DeleteProfile removes the profile for userID.
func (s *Storage) DeleteProfile(ctx context.Context, userID string) error {
	var affected int64
	err := s.retry.WithRetry(ctx, func() error {
		result, err := s.pool.DB().ExecContext(ctx, `DELETE FROM resource_profiles WHERE user_id = ?`, userID)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (persistence.Profile, error) {
	var (
		profile              persistence.Profile
		document             string
		createdAt, updatedAt string
	)
	if err := row.Scan(&profile.UserID, &profile.UserType, &document, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return persistence.Profile{}, err
		}
		return persistence.Profile{}, fmt.Errorf("sqlite: scan profile: %w", err)
	}
	profile.Document = []byte(document)

	var err error
	if profile.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Profile{}, err
	}
	if profile.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Profile{}, err
	}
	return profile, nil
}
