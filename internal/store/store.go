// Package store holds all admin-domain state for one authenticated session:
// the operator, their subscription, bound groups, per-group settings and
// forbidden words, and the moderation-log history. The bot API is the source
// of truth for groups and settings; everything here is a session-local cache
// that reconciles on Start and on explicit writes.
package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isroiljohn-creator/posbonbot/internal/botapi"
	"github.com/isroiljohn-creator/posbonbot/internal/metrics"
	"github.com/isroiljohn-creator/posbonbot/internal/model"
	"github.com/isroiljohn-creator/posbonbot/pkg/telegram"
)

// SyncState describes how far a group's settings record has come through the
// background sync. "Never fetched" and "fetch in flight" are distinct states
// on purpose.
type SyncState string

const (
	SyncUnfetched SyncState = "unfetched"
	SyncPending   SyncState = "pending"
	SyncLoaded    SyncState = "loaded"
	SyncNotFound  SyncState = "not_found"
	SyncFailed    SyncState = "failed"
)

// SettingsAPI is the slice of the bot backend the store depends on.
type SettingsAPI interface {
	ListGroups(ctx context.Context, userID int64) ([]model.Group, error)
	GetGroupSettings(ctx context.Context, groupID string) (model.GroupSettings, error)
	UpdateGroupSettings(ctx context.Context, groupID string, patch model.SettingsPatch) (model.GroupSettings, error)
}

// Store is constructed once per session and torn down with Close. All
// mutators are optimistic-local: bind/unbind and forbidden-word changes are
// authoritative-local-only (the bot API has no endpoints for them), and
// settings updates fire a best-effort remote write that is never rolled back
// on failure; the outcome is recorded per group instead.
type Store struct {
	api    SettingsAPI
	logger *zap.Logger

	mu           sync.RWMutex
	user         model.AdminUser
	subscription model.Subscription
	groups       []model.Group
	settings     map[string]model.GroupSettings
	syncStates   map[string]SyncState
	saveErrs     map[string]string
	words        map[string][]model.ForbiddenWord
	logs         []model.ModerationLog

	offline  bool
	syncCtx  context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	syncDone chan struct{}
	started  bool
	closed   bool
}

type Option func(*Store)

// WithModerationLogs seeds the read-only log history. The consumed API
// exposes no log endpoint, so the history arrives with the session.
func WithModerationLogs(logs []model.ModerationLog) Option {
	return func(s *Store) {
		s.logs = append([]model.ModerationLog(nil), logs...)
	}
}

// New builds a store for the given identity. An unavailable identity yields
// the designed development mode: a placeholder user, empty collections, and
// no network activity.
func New(identity telegram.Identity, api SettingsAPI, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	now := time.Now().UTC()
	s := &Store{
		api:        api,
		logger:     logger,
		settings:   make(map[string]model.GroupSettings),
		syncStates: make(map[string]SyncState),
		saveErrs:   make(map[string]string),
		words:      make(map[string][]model.ForbiddenWord),
		syncDone:   make(chan struct{}),
	}

	if identity.Available {
		s.user = model.AdminUser{
			ID:         strconv.FormatInt(identity.UserID, 10),
			TelegramID: identity.UserID,
			Username:   identity.Username,
			FirstName:  identity.FirstName,
			LastName:   identity.LastName,
			Language:   identity.Language,
			CreatedAt:  now,
		}
	} else {
		s.offline = true
		s.user = model.AdminUser{
			ID:        "u1",
			Username:  "user",
			FirstName: "User",
			Language:  "uz",
			CreatedAt: now,
		}
	}

	// Client-local configuration, not account state: no billing backend
	// exists behind the consumed API.
	s.subscription = model.Subscription{
		ID:         "sub-" + s.user.ID,
		UserID:     s.user.ID,
		Plan:       model.PlanFree,
		TotalSlots: 1,
		ExpiresAt:  time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
		CreatedAt:  now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.syncCtx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Start kicks off the background sync: one group-list fetch, then an
// independent settings fetch per group. Fetches run on goroutines derived
// from the store's own context, so Close cancels them even if the page that
// triggered them is long gone.
func (s *Store) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	offline := s.offline || s.api == nil
	s.mu.Unlock()

	if offline {
		close(s.syncDone)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(s.syncDone)
		s.syncGroups(s.syncCtx)
	}()
}

// SyncDone is closed once the initial sync (group list plus every per-group
// settings fetch) has finished, successfully or not.
func (s *Store) SyncDone() <-chan struct{} {
	return s.syncDone
}

// Close cancels in-flight sync work and waits for it to drain. Mutators
// called afterwards still merge locally but launch no new remote writes.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Store) syncGroups(ctx context.Context) {
	groups, err := s.api.ListGroups(ctx, s.user.TelegramID)
	if err != nil {
		s.logger.Warn("fetch group list failed",
			zap.String("user_id", s.user.ID),
			zap.Error(err),
		)
		metrics.IncGroupListSync("failed")
		return
	}
	metrics.IncGroupListSync("ok")

	// Last response wins: the list replaces the collection wholesale.
	s.mu.Lock()
	s.groups = groups
	for _, group := range groups {
		s.syncStates[group.ID] = SyncPending
	}
	s.mu.Unlock()

	var fetches sync.WaitGroup
	for _, group := range groups {
		fetches.Add(1)
		go func(groupID string) {
			defer fetches.Done()
			s.fetchSettings(ctx, groupID)
		}(group.ID)
	}
	fetches.Wait()
}

// fetchSettings merges one group's settings into the cache as it arrives.
// Sibling fetches are uncoordinated; a failure here is the expected steady
// state for unconfigured groups and never affects the rest of the sync.
func (s *Store) fetchSettings(ctx context.Context, groupID string) {
	settings, err := s.api.GetGroupSettings(ctx, groupID)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case errors.Is(err, botapi.ErrNotFound):
		s.syncStates[groupID] = SyncNotFound
		metrics.IncSettingsFetch("not_found")
	case err != nil:
		s.syncStates[groupID] = SyncFailed
		metrics.IncSettingsFetch("failed")
		s.logger.Warn("fetch group settings failed",
			zap.String("group_id", groupID),
			zap.Error(err),
		)
	default:
		s.settings[groupID] = settings
		s.syncStates[groupID] = SyncLoaded
		metrics.IncSettingsFetch("ok")
	}
}

func (s *Store) User() model.AdminUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) Subscription() model.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subscription
}

func (s *Store) Groups() []model.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Group(nil), s.groups...)
}

// BoundGroups returns the premium partition. Together with UnboundGroups it
// always covers the whole collection exactly once.
func (s *Store) BoundGroups() []model.Group {
	return s.filterGroups(true)
}

func (s *Store) UnboundGroups() []model.Group {
	return s.filterGroups(false)
}

func (s *Store) filterGroups(premium bool) []model.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Group, 0, len(s.groups))
	for _, group := range s.groups {
		if group.IsPremium == premium {
			out = append(out, group)
		}
	}
	return out
}

// SlotOverview counts "used" from the live group collection, not from the
// subscription record, so bind/unbind reflects without a round trip.
func (s *Store) SlotOverview() model.SlotOverview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	used := 0
	for _, group := range s.groups {
		if group.IsPremium {
			used++
		}
	}

	free := s.subscription.TotalSlots - used
	if free < 0 {
		free = 0
	}

	return model.SlotOverview{
		Total: s.subscription.TotalSlots,
		Used:  used,
		Free:  free,
	}
}

// BindGroup marks the group premium in the local collection. Local-only and
// idempotent; there is no backend endpoint for slot binding.
func (s *Store) BindGroup(groupID string) {
	s.setPremium(groupID, true)
}

func (s *Store) UnbindGroup(groupID string) {
	s.setPremium(groupID, false)
}

func (s *Store) setPremium(groupID string, premium bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.groups {
		if s.groups[i].ID == groupID {
			s.groups[i].IsPremium = premium
			s.groups[i].AdsExempt = premium
			return
		}
	}
}

// HasGroup reports whether the group is in the current collection.
func (s *Store) HasGroup(groupID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, group := range s.groups {
		if group.ID == groupID {
			return true
		}
	}
	return false
}

// GroupSettings returns the cached record for the group. It never fetches on
// demand; absence means the record has not arrived or been created yet.
func (s *Store) GroupSettings(groupID string) (model.GroupSettings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, ok := s.settings[groupID]
	return settings, ok
}

func (s *Store) SettingsSyncState(groupID string) SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if state, ok := s.syncStates[groupID]; ok {
		return state
	}
	return SyncUnfetched
}

// LastSaveError reports the most recent failed remote settings write for the
// group, if the last write failed.
func (s *Store) LastSaveError(groupID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.saveErrs[groupID]
	return msg, ok
}

// UpdateGroupSettings merges the patch into the cached record (creating it
// from the documented defaults first if needed), stamps UpdatedAt, and fires
// a best-effort remote write. The local merge stands regardless of what the
// remote write does.
func (s *Store) UpdateGroupSettings(groupID string, patch model.SettingsPatch) model.GroupSettings {
	s.mu.Lock()

	current, ok := s.settings[groupID]
	if !ok {
		current = model.DefaultGroupSettings(groupID)
	}
	patch.Apply(&current)

	// UpdatedAt must move strictly forward even within one clock tick.
	stamp := time.Now().UTC()
	if !stamp.After(current.UpdatedAt) {
		stamp = current.UpdatedAt.Add(time.Nanosecond)
	}
	current.UpdatedAt = stamp

	s.settings[groupID] = current
	s.syncStates[groupID] = SyncLoaded
	// Reserve the waitgroup slot under the lock so a concurrent Close cannot
	// observe wg between Add and Wait.
	skipRemote := s.offline || s.api == nil || s.closed
	if !skipRemote {
		s.wg.Add(1)
	}
	s.mu.Unlock()

	if skipRemote {
		return current
	}

	go func() {
		defer s.wg.Done()

		_, err := s.api.UpdateGroupSettings(s.syncCtx, groupID, patch)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.saveErrs[groupID] = err.Error()
			metrics.IncSettingsWrite("failed")
			s.logger.Warn("remote settings write failed",
				zap.String("group_id", groupID),
				zap.Error(err),
			)
			return
		}
		delete(s.saveErrs, groupID)
		metrics.IncSettingsWrite("ok")
	}()

	return current
}

// Logs returns the full history for an empty group id, otherwise the
// order-preserving subsequence for that group.
func (s *Store) Logs(groupID string) []model.ModerationLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if groupID == "" {
		return append([]model.ModerationLog(nil), s.logs...)
	}

	out := make([]model.ModerationLog, 0, len(s.logs))
	for _, entry := range s.logs {
		if entry.GroupID == groupID {
			out = append(out, entry)
		}
	}
	return out
}

// ForbiddenWords returns the group's word list; an empty list, never
// "absent".
func (s *Store) ForbiddenWords(groupID string) []model.ForbiddenWord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ForbiddenWord, 0, len(s.words[groupID]))
	return append(out, s.words[groupID]...)
}

// AddForbiddenWord appends a new entry. Local-only; the word list is not
// synchronized to any remote store.
func (s *Store) AddForbiddenWord(groupID, word string, category model.WordCategory) model.ForbiddenWord {
	entry := model.ForbiddenWord{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		Word:      word,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.words[groupID] = append(s.words[groupID], entry)
	return entry
}

// RemoveForbiddenWord removes by identity and reports whether an entry went
// away; removing an unknown id is a no-op.
func (s *Store) RemoveForbiddenWord(groupID, wordID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.words[groupID]
	out := current[:0]
	removed := false
	for _, entry := range current {
		if entry.ID == wordID {
			removed = true
			continue
		}
		out = append(out, entry)
	}
	s.words[groupID] = out
	return removed
}
