package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/omglearn/omg/internal/pattern"
)

// Repository errors. These are explicit failures reported to the
// caller, distinct from the fail-open policy of the evaluation path.
var (
	ErrNotFound    = errors.New("pattern not found")
	ErrDuplicateID = errors.New("pattern id already exists")
)

// ListScope selects which collections List reads.
type ListScope string

const (
	ListAll    ListScope = "all"
	ListGlobal ListScope = ListScope(ScopeGlobal)
	ListLocal  ListScope = ListScope(ScopeLocal)
)

// Entry is a pattern annotated with where it was found.
type Entry struct {
	Pattern         pattern.Pattern
	Scope           Scope
	OverridesGlobal bool
}

// Repository provides CRUD over the stored patterns. It is the only
// write path; hook evaluation reads through Store directly.
type Repository struct {
	store *Store
}

// NewRepository returns a Repository over the given store.
func NewRepository(s *Store) *Repository {
	return &Repository{store: s}
}

// List returns patterns from the requested scope. For ListAll the
// merged view is returned (local first, overrides folded in) and local
// patterns shadowing a global id are flagged.
func (r *Repository) List(scope ListScope, enabledOnly bool) []Entry {
	var entries []Entry

	switch scope {
	case ListGlobal:
		for _, p := range r.store.Load(ScopeGlobal) {
			entries = append(entries, Entry{Pattern: p, Scope: ScopeGlobal})
		}
	case ListLocal:
		for _, p := range r.store.Load(ScopeLocal) {
			entries = append(entries, Entry{Pattern: p, Scope: ScopeLocal})
		}
	default:
		globalIDs := make(map[string]bool)
		for _, p := range r.store.Load(ScopeGlobal) {
			if p.ID != "" {
				globalIDs[p.ID] = true
			}
		}
		localIDs := make(map[string]bool)
		for _, p := range r.store.Load(ScopeLocal) {
			if p.ID == "" || localIDs[p.ID] {
				continue
			}
			localIDs[p.ID] = true
			entries = append(entries, Entry{
				Pattern:         p,
				Scope:           ScopeLocal,
				OverridesGlobal: globalIDs[p.ID],
			})
		}
		for _, p := range r.store.Load(ScopeGlobal) {
			if p.ID == "" || localIDs[p.ID] {
				continue
			}
			entries = append(entries, Entry{Pattern: p, Scope: ScopeGlobal})
		}
	}

	if enabledOnly {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Pattern.Enabled {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	return entries
}

// Get finds a pattern by id, searching local then global.
func (r *Repository) Get(id string) (pattern.Pattern, Scope, error) {
	for _, scope := range []Scope{ScopeLocal, ScopeGlobal} {
		for _, p := range r.store.Load(scope) {
			if p.ID == id {
				return p, scope, nil
			}
		}
	}
	return pattern.Pattern{}, "", fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Add appends a pattern to the given scope. An empty id is filled with
// a generated UUID; a duplicate id in the target file is an error.
func (r *Repository) Add(p pattern.Pattern, scope Scope) (pattern.Pattern, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	pats := r.store.Load(scope)
	for _, existing := range pats {
		if existing.ID == p.ID {
			return pattern.Pattern{}, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
	}
	pats = append(pats, p)
	if err := r.store.Save(scope, pats); err != nil {
		return pattern.Pattern{}, err
	}
	return p, nil
}

// resolveScope auto-detects the scope holding id when none was given.
func (r *Repository) resolveScope(id string, scope Scope) (Scope, error) {
	if scope != "" {
		return scope, nil
	}
	_, found, err := r.Get(id)
	if err != nil {
		return "", err
	}
	return found, nil
}

// Update applies partial field updates to the pattern with the given
// id. Scope is auto-detected (local then global) when empty.
func (r *Repository) Update(id string, upd pattern.Update, scope Scope) error {
	scope, err := r.resolveScope(id, scope)
	if err != nil {
		return err
	}
	pats := r.store.Load(scope)
	for i := range pats {
		if pats[i].ID == id {
			upd.Apply(&pats[i])
			return r.store.Save(scope, pats)
		}
	}
	return fmt.Errorf("%w: %s in %s scope", ErrNotFound, id, scope)
}

// Delete removes the pattern with the given id. Scope is auto-detected
// when empty.
func (r *Repository) Delete(id string, scope Scope) error {
	scope, err := r.resolveScope(id, scope)
	if err != nil {
		return err
	}
	pats := r.store.Load(scope)
	kept := pats[:0]
	for _, p := range pats {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(pats) {
		return fmt.Errorf("%w: %s in %s scope", ErrNotFound, id, scope)
	}
	return r.store.Save(scope, kept)
}

// Enable marks the pattern enabled.
func (r *Repository) Enable(id string, scope Scope) error {
	enabled := true
	return r.Update(id, pattern.Update{Enabled: &enabled}, scope)
}

// Disable marks the pattern disabled.
func (r *Repository) Disable(id string, scope Scope) error {
	enabled := false
	return r.Update(id, pattern.Update{Enabled: &enabled}, scope)
}
