package repository

import (
	"context"
	"errors"
)

// ErrNotFound marks a missing record in any local repository.
var ErrNotFound = errors.New("repository: not found")

// PreferenceRepository persists small per-user key/value preferences locally.
// It is the server-side analog of the webapp's localStorage.
type PreferenceRepository interface {
	Get(ctx context.Context, userID, key string) (string, error)
	Set(ctx context.Context, userID, key, value string) error
}
