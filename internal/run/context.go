// Package run owns the shared mutable state of one simulation run.
//
// A single Context is created at startup and handed to every subsystem.
// All mutation goes through its methods under one mutex; tool bodies
// never touch the fields directly. The Context lives exactly as long as
// the process — nothing here persists.
package run

import "sync"

// AlertLevel is the run-wide escalation state.
type AlertLevel string

const (
	AlertNormal   AlertLevel = "normal"
	AlertElevated AlertLevel = "elevated"
	AlertCrisis   AlertLevel = "crisis"
)

// Event kinds recorded in the audit trail.
const (
	KindScripted   = "scripted"
	KindPlan       = "plan"
	KindDelegation = "delegation"
	KindFinding    = "finding"
)

// EventRecord is one append-only audit trail entry.
type EventRecord struct {
	Seq         int    `json:"seq"` // call count when the entry was recorded
	Kind        string `json:"kind"`
	ID          string `json:"id"` // rule id, plan id, role, ...
	Description string `json:"description"`
	Impact      string `json:"impact,omitempty"`
}

// Firing describes a scripted rule to record. It carries only what the
// context needs, so the scenario package stays import-free.
type Firing struct {
	RuleID      string
	Description string
	Impact      string
	AlertLevel  string
	Preferences map[string]float64
	Payload     string
}

// Snapshot is a point-in-time copy of the run state.
type Snapshot struct {
	CallCount   int                `json:"call_count"`
	AlertLevel  AlertLevel         `json:"alert_level"`
	Preferences map[string]float64 `json:"preferences"`
	FiredEvents []string           `json:"fired_events"`
	Events      []EventRecord      `json:"events"`
}

// Context is the singleton shared run state.
type Context struct {
	mu        sync.Mutex
	callCount int
	fired     map[string]struct{}
	firedSeq  []string // fired rule ids in firing order
	alert     AlertLevel
	prefs     map[string]float64
	events    []EventRecord
}

// NewContext returns a fresh run context with the default preference
// weights (thoroughness-leaning, as the exercise starts in normal mode).
func NewContext() *Context {
	return &Context{
		fired: make(map[string]struct{}),
		alert: AlertNormal,
		prefs: map[string]float64{
			"thoroughness": 0.8,
			"speed":        0.2,
		},
	}
}

// Dispatch performs the interceptor's critical section: it increments
// the call counter, asks find for a matching unfired rule at the new
// count, and — if one is returned — records the firing (fired set,
// context effect, audit trail entry) before releasing the lock. The
// whole sequence is atomic, so concurrent dispatches can neither skip
// a count nor double-fire a rule.
//
// find receives the new count and a fired predicate; it must not call
// back into the context. Returning nil means "forward to the real
// operation".
func (c *Context) Dispatch(find func(count int, fired func(id string) bool) *Firing) (*Firing, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.callCount++
	count := c.callCount

	if find == nil {
		return nil, count
	}
	f := find(count, func(id string) bool {
		_, ok := c.fired[id]
		return ok
	})
	if f == nil {
		return nil, count
	}

	// Record the firing before anyone can observe the payload.
	c.fired[f.RuleID] = struct{}{}
	c.firedSeq = append(c.firedSeq, f.RuleID)
	if f.AlertLevel != "" {
		c.alert = AlertLevel(f.AlertLevel)
	}
	if len(f.Preferences) > 0 {
		prefs := make(map[string]float64, len(f.Preferences))
		for k, v := range f.Preferences {
			prefs[k] = v
		}
		c.prefs = prefs
	}
	c.events = append(c.events, EventRecord{
		Seq:         count,
		Kind:        KindScripted,
		ID:          f.RuleID,
		Description: f.Description,
		Impact:      f.Impact,
	})
	return f, count
}

// Note appends a non-scripted audit trail entry (plan mutation,
// delegation, finding) stamped with the current call count.
func (c *Context) Note(kind, id, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, EventRecord{
		Seq:         c.callCount,
		Kind:        kind,
		ID:          id,
		Description: description,
	})
}

// CallCount returns the number of dispatched operations so far.
func (c *Context) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callCount
}

// HasFired reports whether the rule id has fired this run.
func (c *Context) HasFired(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.fired[id]
	return ok
}

// Alert returns the current alert level.
func (c *Context) Alert() AlertLevel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alert
}

// Snapshot returns a deep copy of the run state.
func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefs := make(map[string]float64, len(c.prefs))
	for k, v := range c.prefs {
		prefs[k] = v
	}
	fired := make([]string, len(c.firedSeq))
	copy(fired, c.firedSeq)
	events := make([]EventRecord, len(c.events))
	copy(events, c.events)

	return Snapshot{
		CallCount:   c.callCount,
		AlertLevel:  c.alert,
		Preferences: prefs,
		FiredEvents: fired,
		Events:      events,
	}
}
