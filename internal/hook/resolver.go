package hook

import (
	"github.com/omglearn/omg/internal/logger"
	"github.com/omglearn/omg/internal/pattern"
	"github.com/omglearn/omg/internal/store"
)

// Decision is the outcome of resolving one event against the pattern
// collections. The zero value is "allow, no message".
type Decision struct {
	Matched   bool
	PatternID string
	Action    pattern.Action
	Message   string
	// Pattern is the matched pattern, for callers that need run-action
	// details (command template, timeout, show_output).
	Pattern *pattern.Pattern
}

// Resolver iterates the merged, ordered pattern list and stops at the
// first pattern that matches: later patterns, even more specific ones,
// are never consulted once one fires.
type Resolver struct {
	Store   *store.Store
	Matcher *Matcher
}

// NewResolver returns a Resolver over the given store with default
// matcher settings.
func NewResolver(s *store.Store) *Resolver {
	return &Resolver{Store: s, Matcher: &Matcher{}}
}

// Resolve evaluates ev against the merged pattern view. Local patterns
// are enumerated before global ones; within a scope, stored order is
// preserved.
func (r *Resolver) Resolve(ev *Event) Decision {
	return r.ResolveList(r.Store.Merged(), ev)
}

// ResolveList evaluates ev against an explicit ordered pattern list.
// Callers wanting unmerged iteration pass Store.Raw().
func (r *Resolver) ResolveList(pats []pattern.Pattern, ev *Event) Decision {
	for i := range pats {
		p := &pats[i]
		result := r.Matcher.Match(p, ev)
		if !result.Matched {
			continue
		}
		logger.Debug("pattern matched", "id", p.ID, "action", p.EffectiveAction(), "reason", result.Reason)
		return Decision{
			Matched:   true,
			PatternID: p.ID,
			Action:    p.EffectiveAction(),
			Message:   p.EffectiveMessage(),
			Pattern:   p,
		}
	}
	return Decision{}
}
