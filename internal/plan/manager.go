package plan

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HendryAvila/medaudit/internal/run"
)

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// Manager owns all plans for one run. It is the only mutation path:
// tool handlers call its methods, nothing else touches a Plan.
//
// Locking: the manager mutex guards the plan map; each plan carries its
// own mutex serializing read-modify-write operations per plan id, so
// concurrent edits to distinct plans do not contend.
type Manager struct {
	mu     sync.Mutex
	plans  map[string]*entry
	order  []string
	runCtx *run.Context
}

type entry struct {
	mu       sync.Mutex
	plan     *Plan
	nextItem int
}

// NewManager creates an empty plan manager. runCtx is used only for the
// audit trail and may be nil.
func NewManager(runCtx *run.Context) *Manager {
	return &Manager{
		plans:  make(map[string]*entry),
		runCtx: runCtx,
	}
}

// Create validates the item inputs, assigns fresh plan and item ids,
// and stores the plan as active. Duplicate item ids (explicit or
// colliding with generated ones) fail with ValidationError and nothing
// is stored.
func (m *Manager) Create(title string, inputs []ItemInput) (Plan, error) {
	planID := newPlanID()
	e := &entry{
		plan: &Plan{
			ID:        planID,
			Title:     title,
			Status:    PlanActive,
			CreatedAt: timeNow().UTC().Format(time.RFC3339),
		},
		nextItem: 1,
	}

	if err := e.appendItems(inputs); err != nil {
		return Plan{}, err
	}

	m.mu.Lock()
	m.plans[planID] = e
	m.order = append(m.order, planID)
	m.mu.Unlock()

	m.note(planID, fmt.Sprintf("plan created with %d items", len(inputs)))
	return e.snapshot(), nil
}

// Reprioritize applies all priority updates or none. A single unknown
// item id rejects the whole call with NotFoundError; an unknown priority
// value rejects it with ValidationError. The plan is unchanged on error.
func (m *Manager) Reprioritize(planID string, updates []PriorityUpdate) (Plan, error) {
	e, err := m.lookup(planID)
	if err != nil {
		return Plan{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	// Validate everything before touching the plan.
	for _, u := range updates {
		if err := ValidatePriority(u.Priority); err != nil {
			return Plan{}, &ValidationError{Reason: err.Error()}
		}
		if e.plan.Item(u.ItemID) == nil {
			return Plan{}, &NotFoundError{PlanID: planID, ItemID: u.ItemID}
		}
	}
	for _, u := range updates {
		e.plan.Item(u.ItemID).Priority = u.Priority
	}

	m.note(planID, fmt.Sprintf("reprioritized %d items", len(updates)))
	return e.snapshot(), nil
}

// RemoveItems marks the matching items removed. Unknown ids and items
// already in a terminal status are ignored — removal is idempotent,
// deliberately unlike Reprioritize's strict matching.
func (m *Manager) RemoveItems(planID string, itemIDs []string) (Plan, error) {
	e, err := m.lookup(planID)
	if err != nil {
		return Plan{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	removed := 0
	for _, id := range itemIDs {
		it := e.plan.Item(id)
		if it == nil || it.Status.Terminal() {
			continue
		}
		it.Status = StatusRemoved
		removed++
	}
	e.maybeComplete()

	m.note(planID, fmt.Sprintf("removed %d items", removed))
	return e.snapshot(), nil
}

// AddItems appends new items with fresh ids. Priority defaults to
// medium, status always starts pending.
func (m *Manager) AddItems(planID string, inputs []ItemInput) (Plan, error) {
	e, err := m.lookup(planID)
	if err != nil {
		return Plan{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.appendItems(inputs); err != nil {
		return Plan{}, err
	}

	m.note(planID, fmt.Sprintf("added %d items", len(inputs)))
	return e.snapshot(), nil
}

// UpdateItemStatus moves one item through its lifecycle
// (pending→in_progress→completed). Invalid transitions fail with
// ValidationError; the item keeps its status.
func (m *Manager) UpdateItemStatus(planID, itemID string, status Status) (Plan, error) {
	if err := ValidateStatus(status); err != nil {
		return Plan{}, &ValidationError{Reason: err.Error()}
	}
	e, err := m.lookup(planID)
	if err != nil {
		return Plan{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	it := e.plan.Item(itemID)
	if it == nil {
		return Plan{}, &NotFoundError{PlanID: planID, ItemID: itemID}
	}
	if err := CanTransition(it.Status, status); err != nil {
		return Plan{}, &ValidationError{Reason: err.Error()}
	}
	it.Status = status
	e.maybeComplete()

	m.note(planID, fmt.Sprintf("item %s → %s", itemID, status))
	return e.snapshot(), nil
}

// AssignItem hands an item to a role: sets the assignee and moves a
// pending item to in_progress. Terminal items fail with ValidationError.
func (m *Manager) AssignItem(planID, itemID, assignee string) (Plan, error) {
	e, err := m.lookup(planID)
	if err != nil {
		return Plan{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	it := e.plan.Item(itemID)
	if it == nil {
		return Plan{}, &NotFoundError{PlanID: planID, ItemID: itemID}
	}
	if it.Status.Terminal() {
		return Plan{}, &ValidationError{Reason: fmt.Sprintf("item %s is %s and cannot be assigned", itemID, it.Status)}
	}
	it.Assignee = assignee
	if it.Status == StatusPending {
		it.Status = StatusInProgress
	}

	m.note(planID, fmt.Sprintf("item %s assigned to %s", itemID, assignee))
	return e.snapshot(), nil
}

// Get returns a read-only snapshot of the plan.
func (m *Manager) Get(planID string) (Plan, error) {
	e, err := m.lookup(planID)
	if err != nil {
		return Plan{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot(), nil
}

// List returns snapshots of all active plans in creation order.
func (m *Manager) List() []Plan {
	m.mu.Lock()
	entries := make([]*entry, 0, len(m.order))
	for _, id := range m.order {
		entries = append(entries, m.plans[id])
	}
	m.mu.Unlock()

	var out []Plan
	for _, e := range entries {
		e.mu.Lock()
		if e.plan.Status == PlanActive {
			out = append(out, e.snapshot())
		}
		e.mu.Unlock()
	}
	return out
}

// --- internals ---

func (m *Manager) lookup(planID string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.plans[planID]
	if !ok {
		return nil, &NotFoundError{PlanID: planID}
	}
	return e, nil
}

func (m *Manager) note(planID, description string) {
	if m.runCtx != nil {
		m.runCtx.Note(run.KindPlan, planID, description)
	}
}

// appendItems validates and appends inputs to the entry's plan.
// Caller holds the entry lock (or exclusively owns the entry).
func (e *entry) appendItems(inputs []ItemInput) error {
	seen := make(map[string]bool, len(e.plan.Items))
	for _, it := range e.plan.Items {
		seen[it.ID] = true
	}

	// The ordinal advances only when an id is actually minted, and only
	// once the whole batch validates, so explicit ids and failed batches
	// leave no gaps in the generated sequence.
	next := e.nextItem
	items := make([]Item, 0, len(inputs))
	for _, in := range inputs {
		priority := in.Priority
		if priority == "" {
			priority = PriorityMedium
		}
		if err := ValidatePriority(priority); err != nil {
			return &ValidationError{Reason: err.Error()}
		}

		id := in.ID
		if id == "" {
			id = fmt.Sprintf("%s-ITEM-%d", e.plan.ID, next)
			next++
		}
		if seen[id] {
			return &ValidationError{Reason: fmt.Sprintf("duplicate item id %q", id)}
		}
		seen[id] = true

		items = append(items, Item{
			ID:          id,
			Description: in.Description,
			Priority:    priority,
			Status:      StatusPending,
			Assignee:    in.Assignee,
			seq:         len(e.plan.Items) + len(items),
		})
	}

	e.plan.Items = append(e.plan.Items, items...)
	e.nextItem = next
	return nil
}

// maybeComplete marks the plan completed once every item is terminal
// and at least one actually completed. Caller holds the entry lock.
func (e *entry) maybeComplete() {
	if len(e.plan.Items) == 0 || e.plan.Status != PlanActive {
		return
	}
	completed := 0
	for _, it := range e.plan.Items {
		if !it.Status.Terminal() {
			return
		}
		if it.Status == StatusCompleted {
			completed++
		}
	}
	if completed > 0 {
		e.plan.Status = PlanCompleted
	}
}

// snapshot deep-copies the plan with items in presentation order:
// descending priority, insertion order as the tie-break. The ordering
// is stable, so repeated status queries return identical snapshots.
func (e *entry) snapshot() Plan {
	cp := *e.plan
	cp.Items = make([]Item, len(e.plan.Items))
	copy(cp.Items, e.plan.Items)
	sort.SliceStable(cp.Items, func(i, j int) bool {
		if cp.Items[i].Priority.Rank() != cp.Items[j].Priority.Rank() {
			return cp.Items[i].Priority.Rank() > cp.Items[j].Priority.Rank()
		}
		return cp.Items[i].seq < cp.Items[j].seq
	})
	return cp
}

// newPlanID mints ids like PLAN-9F3A01C2.
func newPlanID() string {
	id := uuid.New()
	return fmt.Sprintf("PLAN-%X", id[:4])
}
