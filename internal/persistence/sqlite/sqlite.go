package sqlite

import (
	"context"
	"fmt"
	"time"
)

// Storage implements the persistence repositories on a SQLite database.
type Storage struct {
	pool   *ConnectionPool
	mapper ErrorMapper
	retry  *RetryHelper
	now    func() time.Time
}

// Open connects to the database at dsn. Call Migrate before use.
func Open(dsn string) (*Storage, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}
	return &Storage{
		pool:  pool,
		retry: NewRetryHelper(DefaultRetryConfig()),
		now:   time.Now,
	}, nil
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Close()
}

// Ping checks that the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies every embedded migration that has not been applied yet.
// It returns the number of migrations executed.
func (s *Storage) Migrate(ctx context.Context) (int, error) {
	migrations, err := loadMigrations()
	if err != nil {
		return 0, err
	}
	if err := s.initializeVersionTable(ctx); err != nil {
		return 0, err
	}
	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	executed := 0
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := s.executeMigration(ctx, m); err != nil {
			return executed, fmt.Errorf("sqlite: migrate: %w", err)
		}
		executed++
	}
	return executed, nil
}

// timeLayout keeps a fixed fraction width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", value, err)
	}
	return t, nil
}
