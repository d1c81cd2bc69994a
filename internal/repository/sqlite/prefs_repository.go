package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/isroiljohn-creator/posbonbot/internal/repository"
)

// PrefsRepository is a SQLite-backed preference store.
type PrefsRepository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and initialises the
// schema.
func Open(path string) (*PrefsRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("prefs: open %q: %w", path, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("prefs: %s: %w", pragma, err)
		}
	}

	r := &PrefsRepository{db: db}
	if err := r.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *PrefsRepository) Close() error {
	return r.db.Close()
}

func (r *PrefsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PrefsRepository) initSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS preferences (
  user_id TEXT NOT NULL,
  key TEXT NOT NULL,
  value TEXT NOT NULL,
  updated_at_unix INTEGER NOT NULL,
  PRIMARY KEY (user_id, key)
);`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("prefs: init schema: %w", err)
	}
	return nil
}

func (r *PrefsRepository) Get(ctx context.Context, userID, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE user_id = ? AND key = ?`,
		userID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("prefs: get %s/%s: %w", userID, key, err)
	}
	return value, nil
}

func (r *PrefsRepository) Set(ctx context.Context, userID, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO preferences (user_id, key, value, updated_at_unix) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at_unix = excluded.updated_at_unix`,
		userID, key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("prefs: set %s/%s: %w", userID, key, err)
	}
	return nil
}
