// Package plan implements the mutable prioritized task plans shared by
// the audit agents.
//
// A plan is created once, then reshaped through reprioritize/remove/add
// operations as scripted events change what matters. Plans are never
// deleted during a run — they are only marked completed. The package
// follows the same split as the change pipeline it replaced: types and
// state guards here, the manager (storage + locking) in manager.go.
package plan

import "fmt"

// --- Priority enum ---

// Priority orders plan items. Higher priorities sort first.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// priorityRank maps priorities to sort keys; higher sorts first.
var priorityRank = map[Priority]int{
	PriorityCritical: 4,
	PriorityHigh:     3,
	PriorityMedium:   2,
	PriorityLow:      1,
}

// ValidatePriority returns an error if p is not a known priority.
func ValidatePriority(p Priority) error {
	if _, ok := priorityRank[p]; !ok {
		return fmt.Errorf("invalid priority %q: must be one of: critical, high, medium, low", p)
	}
	return nil
}

// Rank returns the sort key for a priority (higher first). Unknown
// priorities rank lowest.
func (p Priority) Rank() int {
	return priorityRank[p]
}

// --- Item status enum ---

// Status tracks one item's lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusRemoved    Status = "removed"
)

// validStatuses is the set of allowed item statuses.
var validStatuses = map[Status]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusRemoved:    true,
}

// ValidateStatus returns an error if s is not a known item status.
func ValidateStatus(s Status) error {
	if !validStatuses[s] {
		return fmt.Errorf("invalid status %q: must be one of: pending, in_progress, completed, removed", s)
	}
	return nil
}

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRemoved
}

// CanTransition checks a single item status transition. Allowed moves:
// pending→in_progress→completed, and any non-terminal state →removed.
// Completed and removed are terminal.
func CanTransition(from, to Status) error {
	if from.Terminal() {
		return fmt.Errorf("item is %s: no transitions out of a terminal status", from)
	}
	switch to {
	case StatusRemoved:
		return nil
	case StatusInProgress:
		if from == StatusPending {
			return nil
		}
	case StatusCompleted:
		if from == StatusInProgress {
			return nil
		}
	case StatusPending:
		// No way back to pending.
	}
	return fmt.Errorf("invalid status transition %s → %s", from, to)
}

// --- Plan status enum ---

// PlanStatus tracks the overall plan lifecycle.
type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
)

// --- Data types ---

// Item is one prioritized, statused unit of work within a plan.
type Item struct {
	ID          string   `json:"item_id"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	Assignee    string   `json:"assignee,omitempty"`

	// seq is the insertion ordinal, the tie-break for equal priority.
	seq int
}

// Plan is an ordered set of items plus lifecycle state. Values returned
// by the Manager are snapshots: items sorted by descending priority,
// then insertion order.
type Plan struct {
	ID        string     `json:"plan_id"`
	Title     string     `json:"title"`
	Status    PlanStatus `json:"status"`
	Items     []Item     `json:"items"`
	CreatedAt string     `json:"created_at"`
}

// ActiveItems returns the plan's items that are not completed or removed.
func (p *Plan) ActiveItems() []Item {
	var active []Item
	for _, it := range p.Items {
		if !it.Status.Terminal() {
			active = append(active, it)
		}
	}
	return active
}

// Item returns the item with the given id, or nil.
func (p *Plan) Item(id string) *Item {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return &p.Items[i]
		}
	}
	return nil
}

// --- Request types ---

// ItemInput describes one item for plan creation or extension. ID is
// optional — the manager assigns a fresh one when absent. Priority
// defaults to medium, status always starts pending.
type ItemInput struct {
	ID          string   `json:"item_id,omitempty"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
}

// PriorityUpdate changes one item's priority during a reprioritize call.
type PriorityUpdate struct {
	ItemID   string   `json:"item_id"`
	Priority Priority `json:"priority"`
}
