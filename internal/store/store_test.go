package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/isroiljohn-creator/posbonbot/internal/botapi"
	"github.com/isroiljohn-creator/posbonbot/internal/model"
	"github.com/isroiljohn-creator/posbonbot/pkg/telegram"
)

type fakeAPI struct {
	mu          sync.Mutex
	groups      []model.Group
	settings    map[string]model.GroupSettings
	settingsErr map[string]error
	listErr     error
	updateErr   error
	updates     []string
	listBlocks  bool
}

func (f *fakeAPI) ListGroups(ctx context.Context, userID int64) ([]model.Group, error) {
	if f.listBlocks {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Group(nil), f.groups...), nil
}

func (f *fakeAPI) GetGroupSettings(ctx context.Context, groupID string) (model.GroupSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.settingsErr[groupID]; ok {
		return model.GroupSettings{}, err
	}
	if settings, ok := f.settings[groupID]; ok {
		return settings, nil
	}
	return model.GroupSettings{}, botapi.ErrNotFound
}

func (f *fakeAPI) UpdateGroupSettings(ctx context.Context, groupID string, patch model.SettingsPatch) (model.GroupSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates = append(f.updates, groupID)
	if f.updateErr != nil {
		return model.GroupSettings{}, f.updateErr
	}
	return f.settings[groupID], nil
}

func (f *fakeAPI) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func identity(id int64) telegram.Identity {
	return telegram.Identity{Available: true, UserID: id, Username: "admin"}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestOfflineStore(t *testing.T) {
	s := New(telegram.NoIdentity(), &fakeAPI{}, nil)
	s.Start()
	defer s.Close()

	select {
	case <-s.SyncDone():
	case <-time.After(time.Second):
		t.Fatal("sync did not complete for offline store")
	}

	user := s.User()
	if user.ID != "u1" || user.Username != "user" || user.FirstName != "User" || user.Language != "uz" {
		t.Fatalf("unexpected offline user: %+v", user)
	}
	if len(s.Groups()) != 0 {
		t.Fatalf("offline store should have no groups")
	}

	sub := s.Subscription()
	if sub.Plan != model.PlanFree || sub.TotalSlots != 1 || !sub.IsActive {
		t.Fatalf("unexpected subscription: %+v", sub)
	}
	if sub.ExpiresAt.Year() != 2099 {
		t.Fatalf("unexpected subscription expiry: %v", sub.ExpiresAt)
	}
}

func TestSyncPopulatesGroupsAndSettings(t *testing.T) {
	api := &fakeAPI{
		groups: []model.Group{
			{ID: "g1", Title: "Alpha"},
			{ID: "g2", Title: "Beta"},
			{ID: "g3", Title: "Gamma"},
		},
		settings: map[string]model.GroupSettings{
			"g1": {ID: "sg1", GroupID: "g1", DeleteLinks: true},
		},
		settingsErr: map[string]error{
			"g3": errors.New("backend down"),
		},
	}

	s := New(identity(42), api, nil)
	s.Start()
	defer s.Close()

	select {
	case <-s.SyncDone():
	case <-time.After(2 * time.Second):
		t.Fatal("sync did not complete")
	}

	if got := len(s.Groups()); got != 3 {
		t.Fatalf("expected 3 groups, got %d", got)
	}

	if state := s.SettingsSyncState("g1"); state != SyncLoaded {
		t.Fatalf("g1 state = %s, want %s", state, SyncLoaded)
	}
	if state := s.SettingsSyncState("g2"); state != SyncNotFound {
		t.Fatalf("g2 state = %s, want %s", state, SyncNotFound)
	}
	if state := s.SettingsSyncState("g3"); state != SyncFailed {
		t.Fatalf("g3 state = %s, want %s", state, SyncFailed)
	}
	if state := s.SettingsSyncState("missing"); state != SyncUnfetched {
		t.Fatalf("unknown group state = %s, want %s", state, SyncUnfetched)
	}

	settings, ok := s.GroupSettings("g1")
	if !ok || !settings.DeleteLinks {
		t.Fatalf("g1 settings not cached: %+v ok=%v", settings, ok)
	}
	if _, ok := s.GroupSettings("g2"); ok {
		t.Fatal("g2 should have no cached settings")
	}
}

func TestGroupPartition(t *testing.T) {
	api := &fakeAPI{
		groups: []model.Group{
			{ID: "g1", IsPremium: true},
			{ID: "g2"},
			{ID: "g3", IsPremium: true},
			{ID: "g4"},
		},
	}

	s := New(identity(42), api, nil)
	s.Start()
	defer s.Close()
	<-s.SyncDone()

	bound := s.BoundGroups()
	unbound := s.UnboundGroups()
	if len(bound) != 2 || len(unbound) != 2 {
		t.Fatalf("partition sizes: bound=%d unbound=%d", len(bound), len(unbound))
	}
	if len(bound)+len(unbound) != len(s.Groups()) {
		t.Fatal("partition does not cover the collection")
	}
	seen := map[string]bool{}
	for _, g := range append(bound, unbound...) {
		if seen[g.ID] {
			t.Fatalf("group %s appears in both partitions", g.ID)
		}
		seen[g.ID] = true
	}
}

func TestSlotOverviewClampsFree(t *testing.T) {
	api := &fakeAPI{
		groups: []model.Group{
			{ID: "g1", IsPremium: true},
			{ID: "g2", IsPremium: true},
		},
	}

	s := New(identity(42), api, nil)
	s.Start()
	defer s.Close()
	<-s.SyncDone()

	overview := s.SlotOverview()
	if overview.Total != 1 || overview.Used != 2 {
		t.Fatalf("unexpected overview: %+v", overview)
	}
	if overview.Free != 0 {
		t.Fatalf("free slots must clamp at zero, got %d", overview.Free)
	}
}

func TestBindUnbindGroup(t *testing.T) {
	api := &fakeAPI{groups: []model.Group{{ID: "g1"}}}

	s := New(identity(42), api, nil)
	s.Start()
	defer s.Close()
	<-s.SyncDone()

	s.BindGroup("g1")
	bound := s.BoundGroups()
	if len(bound) != 1 || !bound[0].AdsExempt {
		t.Fatalf("bind did not mark group premium and ads-exempt: %+v", bound)
	}
	if s.SlotOverview().Used != 1 {
		t.Fatal("slot overview did not reflect bind")
	}

	s.UnbindGroup("g1")
	if len(s.BoundGroups()) != 0 {
		t.Fatal("unbind did not restore the group")
	}
	unbound := s.UnboundGroups()
	if len(unbound) != 1 || unbound[0].AdsExempt {
		t.Fatalf("unbind did not clear ads exemption: %+v", unbound)
	}

	// Unknown groups are ignored.
	s.BindGroup("missing")
	if s.SlotOverview().Used != 0 {
		t.Fatal("binding an unknown group changed state")
	}
}

func TestUpdateGroupSettingsCreatesFromDefaults(t *testing.T) {
	api := &fakeAPI{groups: []model.Group{{ID: "g1"}}}

	s := New(identity(42), api, nil)
	s.Start()
	defer s.Close()
	<-s.SyncDone()

	enabled := true
	updated := s.UpdateGroupSettings("g1", model.SettingsPatch{DeleteLinks: &enabled})

	if !updated.DeleteLinks {
		t.Fatal("patched field not applied")
	}
	if !updated.AllowPhotos || updated.FloodMessagesLimit != 5 || updated.WarnLimit != 3 {
		t.Fatalf("defaults not applied: %+v", updated)
	}
	if updated.ID != "sg1" {
		t.Fatalf("unexpected settings id: %s", updated.ID)
	}
	if updated.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt not stamped")
	}

	cached, ok := s.GroupSettings("g1")
	if !ok || cached.UpdatedAt != updated.UpdatedAt {
		t.Fatalf("cache does not match returned record: %+v", cached)
	}
}

func TestUpdateGroupSettingsStampStrictlyIncreases(t *testing.T) {
	s := New(identity(42), &fakeAPI{}, nil)
	defer s.Close()

	enabled := true
	first := s.UpdateGroupSettings("g1", model.SettingsPatch{DeleteLinks: &enabled})
	second := s.UpdateGroupSettings("g1", model.SettingsPatch{DeleteMentions: &enabled})
	third := s.UpdateGroupSettings("g1", model.SettingsPatch{SilentMode: &enabled})

	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("second stamp %v not after first %v", second.UpdatedAt, first.UpdatedAt)
	}
	if !third.UpdatedAt.After(second.UpdatedAt) {
		t.Fatalf("third stamp %v not after second %v", third.UpdatedAt, second.UpdatedAt)
	}
	if !second.DeleteLinks {
		t.Fatal("earlier patch lost by later update")
	}
}

func TestUpdateGroupSettingsRecordsRemoteFailure(t *testing.T) {
	api := &fakeAPI{
		groups:    []model.Group{{ID: "g1"}},
		updateErr: errors.New("write rejected"),
	}

	s := New(identity(42), api, nil)
	s.Start()
	<-s.SyncDone()

	enabled := true
	updated := s.UpdateGroupSettings("g1", model.SettingsPatch{DeleteLinks: &enabled})
	if !updated.DeleteLinks {
		t.Fatal("local merge must stand regardless of the remote write")
	}

	waitFor(t, "save error", func() bool {
		_, failed := s.LastSaveError("g1")
		return failed
	})

	// A later successful write clears the record.
	api.mu.Lock()
	api.updateErr = nil
	api.mu.Unlock()

	s.UpdateGroupSettings("g1", model.SettingsPatch{SilentMode: &enabled})
	waitFor(t, "save error cleared", func() bool {
		_, failed := s.LastSaveError("g1")
		return !failed
	})

	s.Close()
	if api.updateCount() != 2 {
		t.Fatalf("expected 2 remote writes, got %d", api.updateCount())
	}
}

func TestLogsFiltering(t *testing.T) {
	logs := []model.ModerationLog{
		{ID: "l1", GroupID: "g1", Action: model.LogActionDelete},
		{ID: "l2", GroupID: "g2", Action: model.LogActionWarn},
		{ID: "l3", GroupID: "g1", Action: model.LogActionBan},
	}

	s := New(identity(42), &fakeAPI{}, nil, WithModerationLogs(logs))
	defer s.Close()

	all := s.Logs("")
	if len(all) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(all))
	}

	filtered := s.Logs("g1")
	if len(filtered) != 2 || filtered[0].ID != "l1" || filtered[1].ID != "l3" {
		t.Fatalf("filter broke ordering: %+v", filtered)
	}

	if got := s.Logs("missing"); len(got) != 0 {
		t.Fatalf("unknown group should yield empty history, got %d", len(got))
	}
}

func TestForbiddenWordLifecycle(t *testing.T) {
	s := New(identity(42), &fakeAPI{}, nil)
	defer s.Close()

	if words := s.ForbiddenWords("g1"); words == nil || len(words) != 0 {
		t.Fatalf("expected empty list for untouched group, got %v", words)
	}

	first := s.AddForbiddenWord("g1", "spam", model.WordCategorySwear)
	second := s.AddForbiddenWord("g1", "scam", model.WordCategoryScam)
	if first.ID == "" || first.ID == second.ID {
		t.Fatal("entries must get distinct ids")
	}

	if !s.RemoveForbiddenWord("g1", first.ID) {
		t.Fatal("removing a known id must report true")
	}
	words := s.ForbiddenWords("g1")
	if len(words) != 1 || words[0].ID != second.ID {
		t.Fatalf("remove left wrong entries: %+v", words)
	}

	if s.RemoveForbiddenWord("g1", "unknown") {
		t.Fatal("removing an unknown id must report false")
	}
	if len(s.ForbiddenWords("g1")) != 1 {
		t.Fatal("removing unknown id must be a no-op")
	}
}

func TestForbiddenWordsNeverNil(t *testing.T) {
	s := New(identity(42), &fakeAPI{}, nil)
	defer s.Close()

	if words := s.ForbiddenWords("never-touched"); words == nil {
		t.Fatal("untouched group must yield an empty list, not nil")
	}

	entry := s.AddForbiddenWord("g1", "x", model.WordCategoryCustom)
	s.RemoveForbiddenWord("g1", entry.ID)
	if words := s.ForbiddenWords("g1"); words == nil {
		t.Fatal("emptied group must yield an empty list, not nil")
	}
}

func TestUpdateGroupSettingsAfterCloseStaysLocal(t *testing.T) {
	api := &fakeAPI{groups: []model.Group{{ID: "g1"}}}

	s := New(identity(42), api, nil)
	s.Start()
	<-s.SyncDone()
	s.Close()

	enabled := true
	updated := s.UpdateGroupSettings("g1", model.SettingsPatch{DeleteLinks: &enabled})
	if !updated.DeleteLinks {
		t.Fatal("local merge must still apply after close")
	}
	if cached, ok := s.GroupSettings("g1"); !ok || !cached.DeleteLinks {
		t.Fatalf("cache not updated after close: %+v ok=%v", cached, ok)
	}
	if api.updateCount() != 0 {
		t.Fatalf("closed store must launch no remote writes, got %d", api.updateCount())
	}
}

func TestCloseCancelsInFlightSync(t *testing.T) {
	api := &fakeAPI{listBlocks: true}

	s := New(identity(42), api, nil)
	s.Start()

	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the blocked sync")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	api := &fakeAPI{groups: []model.Group{{ID: "g1"}}}

	s := New(identity(42), api, nil)
	s.Start()
	s.Start()
	defer s.Close()

	select {
	case <-s.SyncDone():
	case <-time.After(2 * time.Second):
		t.Fatal("sync did not complete")
	}
}
