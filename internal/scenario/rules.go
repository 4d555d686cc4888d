// Package scenario holds the scripted-event table for a simulation run.
//
// A scenario is an ordered list of one-shot trigger rules keyed by the
// global tool-call count. The rule list is built once before the run
// starts (from the built-in default or a YAML file) and never changes;
// the only mutable state is the deferral set FindNext keeps for rules
// crowded out of their trigger count, guarded by the registry mutex.
package scenario

import (
	"fmt"
	"strings"
	"sync"
)

// Effect describes the run-context mutation applied when a rule fires.
// Zero values mean "leave unchanged".
type Effect struct {
	// AlertLevel to set on the run context ("elevated" or "crisis").
	AlertLevel string `yaml:"alert_level,omitempty"`
	// Preferences replaces the objective→weight map when non-empty.
	Preferences map[string]float64 `yaml:"preferences,omitempty"`
}

// Rule is a single scripted event. Every rule is one-shot: once fired
// its id is recorded in the run context and it never fires again.
//
// The trigger condition is controlled by At and Until:
//   - Until == 0: exact match only — fires when the call count equals At.
//   - Until > 0:  catch-up window — fires on the first call with
//     At <= count < Until that was not consumed by an earlier rule.
//   - Until < 0:  open-ended catch-up — fires on the first call >= At.
type Rule struct {
	ID          string `yaml:"id"`
	At          int    `yaml:"at"`
	Until       int    `yaml:"until,omitempty"`
	Description string `yaml:"description"`
	Impact      string `yaml:"impact,omitempty"`
	Payload     string `yaml:"payload"`
	Effect      Effect `yaml:"effect,omitempty"`
}

// matches reports whether the rule's trigger condition holds at count.
func (r *Rule) matches(count int) bool {
	switch {
	case count == r.At:
		return true
	case count < r.At:
		return false
	case r.Until < 0:
		return true
	case r.Until > 0:
		return count < r.Until
	default:
		return false
	}
}

// Registry is the ordered rule table for one run. The rules themselves
// are immutable; deferred tracks unfired rules whose trigger count was
// consumed by another rule, keeping them eligible on later dispatches.
type Registry struct {
	mu       sync.Mutex
	rules    []Rule
	deferred map[string]bool
}

// NewRegistry validates the rule table and returns a registry.
// Registration order is preserved — it is the tie-break order when
// several rules match the same call count.
func NewRegistry(rules []Rule) (*Registry, error) {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("scenario: rule %d has an empty id", i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("scenario: duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
		if r.At < 1 {
			return nil, fmt.Errorf("scenario: rule %q: at must be >= 1, got %d", r.ID, r.At)
		}
		if r.Until > 0 && r.Until <= r.At {
			return nil, fmt.Errorf("scenario: rule %q: until (%d) must be greater than at (%d)", r.ID, r.Until, r.At)
		}
		if r.Payload == "" {
			return nil, fmt.Errorf("scenario: rule %q has an empty payload", r.ID)
		}
		switch r.Effect.AlertLevel {
		case "", "normal", "elevated", "crisis":
		default:
			return nil, fmt.Errorf("scenario: rule %q: unknown alert level %q", r.ID, r.Effect.AlertLevel)
		}
	}
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Registry{rules: cp, deferred: make(map[string]bool)}, nil
}

// FindNext returns the first rule in registration order that matches
// count and has not fired yet, or nil. One rule per dispatch: when
// several rules match the same count, the winner fires and the rest are
// deferred — each fires on a following dispatch, even an exact-only
// rule whose trigger count has passed, never merged into one payload.
func (g *Registry) FindNext(count int, fired func(id string) bool) *Rule {
	g.mu.Lock()
	defer g.mu.Unlock()

	var winner *Rule
	for i := range g.rules {
		r := &g.rules[i]
		if fired(r.ID) {
			continue
		}
		if r.matches(count) || g.deferred[r.ID] {
			winner = r
			break
		}
	}
	if winner == nil {
		return nil
	}

	// Every other unfired rule matching this count lost the tie-break;
	// keep it eligible so the next dispatches drain the backlog in
	// registration order.
	for i := range g.rules {
		r := &g.rules[i]
		if r.ID == winner.ID || fired(r.ID) {
			continue
		}
		if r.matches(count) {
			g.deferred[r.ID] = true
		}
	}
	delete(g.deferred, winner.ID)
	return winner
}

// Rules returns a copy of the table, for status display.
func (g *Registry) Rules() []Rule {
	cp := make([]Rule, len(g.rules))
	copy(cp, g.rules)
	return cp
}

// Len returns the number of rules in the table.
func (g *Registry) Len() int {
	return len(g.rules)
}
