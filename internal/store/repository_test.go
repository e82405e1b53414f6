package store_test

import (
	"errors"
	"testing"

	"github.com/omglearn/omg/internal/pattern"
	"github.com/omglearn/omg/internal/store"
	"github.com/omglearn/omg/internal/testutil"
)

func seedRepo(t *testing.T, global, local []pattern.Pattern) *store.Repository {
	t.Helper()
	s := testutil.SetupStore(t, store.PlatformClaude, global, local)
	return store.NewRepository(s)
}

func TestAddGeneratesID(t *testing.T) {
	repo := seedRepo(t, nil, nil)

	added, err := repo.Add(pattern.Pattern{Enabled: true, Pattern: "foo"}, store.ScopeGlobal)
	if err != nil {
		t.Fatal(err)
	}
	if added.ID == "" {
		t.Fatal("Add() should assign an id")
	}

	got, scope, err := repo.Get(added.ID)
	if err != nil {
		t.Fatal(err)
	}
	if scope != store.ScopeGlobal {
		t.Errorf("scope = %q, want global", scope)
	}
	if got.Pattern != "foo" {
		t.Errorf("pattern = %q, want foo", got.Pattern)
	}
}

func TestAddKeepsExplicitID(t *testing.T) {
	repo := seedRepo(t, nil, nil)
	added, err := repo.Add(pattern.Pattern{ID: "no-force-push", Enabled: true}, store.ScopeLocal)
	if err != nil {
		t.Fatal(err)
	}
	if added.ID != "no-force-push" {
		t.Errorf("id = %q, want no-force-push", added.ID)
	}
}

func TestAddDuplicateID(t *testing.T) {
	repo := seedRepo(t, []pattern.Pattern{{ID: "p1", Enabled: true}}, nil)
	_, err := repo.Add(pattern.Pattern{ID: "p1"}, store.ScopeGlobal)
	if !errors.Is(err, store.ErrDuplicateID) {
		t.Errorf("Add() error = %v, want ErrDuplicateID", err)
	}
}

func TestAddSameIDInOtherScope(t *testing.T) {
	// The same id in global and local is the override mechanism, not a
	// conflict.
	repo := seedRepo(t, []pattern.Pattern{{ID: "p1", Enabled: true}}, nil)
	if _, err := repo.Add(pattern.Pattern{ID: "p1", Enabled: true}, store.ScopeLocal); err != nil {
		t.Errorf("Add() to other scope failed: %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	repo := seedRepo(t, nil, nil)
	_, _, err := repo.Get("missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestGetPrefersLocal(t *testing.T) {
	repo := seedRepo(t,
		[]pattern.Pattern{{ID: "p1", Enabled: true, Message: "global"}},
		[]pattern.Pattern{{ID: "p1", Enabled: true, Message: "local"}},
	)
	got, scope, err := repo.Get("p1")
	if err != nil {
		t.Fatal(err)
	}
	if scope != store.ScopeLocal || got.Message != "local" {
		t.Errorf("Get() = %+v in %q, want local copy", got, scope)
	}
}

func TestUpdatePartial(t *testing.T) {
	repo := seedRepo(t, []pattern.Pattern{
		{ID: "p1", Enabled: true, Pattern: "old", Message: "keep"},
	}, nil)

	newPattern := "new"
	if err := repo.Update("p1", pattern.Update{Pattern: &newPattern}, ""); err != nil {
		t.Fatal(err)
	}

	got, _, err := repo.Get("p1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Pattern != "new" {
		t.Errorf("pattern = %q, want new", got.Pattern)
	}
	if got.Message != "keep" {
		t.Errorf("message = %q, untouched field changed", got.Message)
	}
}

func TestUpdateAutoDetectsScope(t *testing.T) {
	repo := seedRepo(t,
		[]pattern.Pattern{{ID: "p1", Enabled: true, Message: "global"}},
		[]pattern.Pattern{{ID: "p1", Enabled: true, Message: "local"}},
	)

	msg := "updated"
	if err := repo.Update("p1", pattern.Update{Message: &msg}, ""); err != nil {
		t.Fatal(err)
	}

	// Auto-detection lands on the local copy; the global one is intact.
	got, scope, _ := repo.Get("p1")
	if scope != store.ScopeLocal || got.Message != "updated" {
		t.Errorf("local copy = %+v in %q", got, scope)
	}
	entries := repo.List(store.ListGlobal, false)
	if len(entries) != 1 || entries[0].Pattern.Message != "global" {
		t.Errorf("global copy changed: %+v", entries)
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo := seedRepo(t, nil, nil)
	msg := "x"
	if err := repo.Update("missing", pattern.Update{Message: &msg}, ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	repo := seedRepo(t, []pattern.Pattern{
		{ID: "p1", Enabled: true},
		{ID: "p2", Enabled: true},
	}, nil)

	if err := repo.Delete("p1", ""); err != nil {
		t.Fatal(err)
	}
	if _, _, err := repo.Get("p1"); !errors.Is(err, store.ErrNotFound) {
		t.Error("p1 still present after Delete")
	}
	if _, _, err := repo.Get("p2"); err != nil {
		t.Error("p2 should survive deleting p1")
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := seedRepo(t, nil, nil)
	if err := repo.Delete("missing", ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestEnableDisable(t *testing.T) {
	repo := seedRepo(t, []pattern.Pattern{{ID: "p1", Enabled: true}}, nil)

	if err := repo.Disable("p1", ""); err != nil {
		t.Fatal(err)
	}
	got, _, _ := repo.Get("p1")
	if got.Enabled {
		t.Error("pattern still enabled after Disable")
	}

	if err := repo.Enable("p1", ""); err != nil {
		t.Fatal(err)
	}
	got, _, _ = repo.Get("p1")
	if !got.Enabled {
		t.Error("pattern still disabled after Enable")
	}
}

func TestListScopes(t *testing.T) {
	repo := seedRepo(t,
		[]pattern.Pattern{
			{ID: "shared", Enabled: true},
			{ID: "global-only", Enabled: false},
		},
		[]pattern.Pattern{
			{ID: "shared", Enabled: true},
			{ID: "local-only", Enabled: true},
		},
	)

	if got := repo.List(store.ListGlobal, false); len(got) != 2 {
		t.Errorf("List(global) = %d entries, want 2", len(got))
	}
	if got := repo.List(store.ListLocal, false); len(got) != 2 {
		t.Errorf("List(local) = %d entries, want 2", len(got))
	}

	all := repo.List(store.ListAll, false)
	if len(all) != 3 {
		t.Fatalf("List(all) = %d entries, want 3", len(all))
	}
	byID := map[string]store.Entry{}
	for _, e := range all {
		byID[e.Pattern.ID] = e
	}
	if !byID["shared"].OverridesGlobal {
		t.Error("shared local entry should be flagged as overriding")
	}
	if byID["shared"].Scope != store.ScopeLocal {
		t.Error("merged shared entry should come from local scope")
	}
	if byID["local-only"].OverridesGlobal {
		t.Error("local-only entry wrongly flagged as overriding")
	}
	if byID["global-only"].Scope != store.ScopeGlobal {
		t.Error("global-only entry has wrong scope")
	}
}

func TestListEnabledOnly(t *testing.T) {
	repo := seedRepo(t, []pattern.Pattern{
		{ID: "on", Enabled: true},
		{ID: "off", Enabled: false},
	}, nil)

	got := repo.List(store.ListAll, true)
	if len(got) != 1 || got[0].Pattern.ID != "on" {
		t.Errorf("List(all, enabledOnly) = %+v, want only 'on'", got)
	}
}
