package locale

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/isroiljohn-creator/posbonbot/internal/repository"
)

// preferenceKey matches the key the webapp used in localStorage.
const preferenceKey = "admin_language"

var ErrUnsupported = errors.New("locale: unsupported language")

// Store reads and persists the per-user UI locale.
type Store struct {
	prefs  repository.PreferenceRepository
	logger *zap.Logger
}

func NewStore(prefs repository.PreferenceRepository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{prefs: prefs, logger: logger}
}

// Get returns the user's persisted locale; missing or unrecognized values
// fall back to the default.
func (s *Store) Get(ctx context.Context, userID string) Language {
	if s.prefs == nil {
		return DefaultLanguage
	}

	raw, err := s.prefs.Get(ctx, userID, preferenceKey)
	if errors.Is(err, repository.ErrNotFound) {
		return DefaultLanguage
	}
	if err != nil {
		s.logger.Warn("read locale preference failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return DefaultLanguage
	}

	return Normalize(Language(raw))
}

// Set persists the user's locale choice.
func (s *Store) Set(ctx context.Context, userID string, lang Language) error {
	if !Valid(lang) {
		return ErrUnsupported
	}
	if s.prefs == nil {
		return nil
	}

	if err := s.prefs.Set(ctx, userID, preferenceKey, string(lang)); err != nil {
		return fmt.Errorf("persist locale: %w", err)
	}
	return nil
}
