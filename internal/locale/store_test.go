package locale

import (
	"context"
	"errors"
	"testing"

	"github.com/isroiljohn-creator/posbonbot/internal/repository"
)

type memPrefs struct {
	values map[string]string
	getErr error
	setErr error
}

func newMemPrefs() *memPrefs {
	return &memPrefs{values: make(map[string]string)}
}

func (m *memPrefs) Get(_ context.Context, userID, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	value, ok := m.values[userID+"/"+key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return value, nil
}

func (m *memPrefs) Set(_ context.Context, userID, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[userID+"/"+key] = value
	return nil
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(newMemPrefs(), nil)
	ctx := context.Background()

	if got := store.Get(ctx, "u1"); got != DefaultLanguage {
		t.Fatalf("unset locale should default to %s, got %s", DefaultLanguage, got)
	}

	if err := store.Set(ctx, "u1", LangUz); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if got := store.Get(ctx, "u1"); got != LangUz {
		t.Fatalf("expected uz after set, got %s", got)
	}

	// Other users are unaffected.
	if got := store.Get(ctx, "u2"); got != DefaultLanguage {
		t.Fatalf("locale leaked between users: %s", got)
	}
}

func TestStoreRejectsUnsupported(t *testing.T) {
	store := NewStore(newMemPrefs(), nil)

	err := store.Set(context.Background(), "u1", Language("en"))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestStoreNormalizesStoredGarbage(t *testing.T) {
	prefs := newMemPrefs()
	prefs.values["u1/admin_language"] = "klingon"

	store := NewStore(prefs, nil)
	if got := store.Get(context.Background(), "u1"); got != DefaultLanguage {
		t.Fatalf("garbage value should normalize to default, got %s", got)
	}
}

func TestStoreReadFailureFallsBack(t *testing.T) {
	prefs := newMemPrefs()
	prefs.getErr = errors.New("disk on fire")

	store := NewStore(prefs, nil)
	if got := store.Get(context.Background(), "u1"); got != DefaultLanguage {
		t.Fatalf("read failure should fall back to default, got %s", got)
	}
}

func TestStringsFallsBackForUnknownLocale(t *testing.T) {
	unknown := Strings(Language("en"))
	def := Strings(DefaultLanguage)
	if unknown != def {
		t.Fatal("unknown locale must serve the default table")
	}

	uz := Strings(LangUz)
	if uz.Common.Save == "" || uz.Common.Save == def.Common.Save {
		t.Fatalf("uz table missing or identical to default: %q", uz.Common.Save)
	}
}
