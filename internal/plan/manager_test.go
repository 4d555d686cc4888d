package plan

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

func init() {
	// Freeze time for deterministic tests.
	timeNow = func() time.Time {
		return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	}
}

// seedPlan creates a plan with items A(high), B(low), C(medium) and
// returns the manager, the plan id, and the item ids in input order.
func seedPlan(t *testing.T) (*Manager, string, []string) {
	t.Helper()
	m := NewManager(nil)
	p, err := m.Create("Ward audit", []ItemInput{
		{ID: "A", Description: "audit anticoagulants", Priority: PriorityHigh},
		{ID: "B", Description: "check billing codes", Priority: PriorityLow},
		{ID: "C", Description: "review insulin timing", Priority: PriorityMedium},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return m, p.ID, []string{"A", "B", "C"}
}

func itemIDs(p Plan) []string {
	ids := make([]string, len(p.Items))
	for i, it := range p.Items {
		ids[i] = it.ID
	}
	return ids
}

func activeIDs(p Plan) []string {
	var ids []string
	for _, it := range p.ActiveItems() {
		ids = append(ids, it.ID)
	}
	return ids
}

// --- Create ---

func TestCreate_AssignsFreshIDsAndDefaults(t *testing.T) {
	m := NewManager(nil)
	p, err := m.Create("Audit", []ItemInput{
		{Description: "first"},
		{Description: "second", Priority: PriorityCritical},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != PlanActive {
		t.Errorf("plan status = %s, want active", p.Status)
	}
	if p.CreatedAt != "2026-03-14T09:00:00Z" {
		t.Errorf("CreatedAt = %q", p.CreatedAt)
	}
	for _, it := range p.Items {
		if it.Status != StatusPending {
			t.Errorf("item %s status = %s, want pending", it.ID, it.Status)
		}
	}
	// Defaulted priority sorts below the explicit critical one.
	if p.Items[0].Priority != PriorityCritical || p.Items[1].Priority != PriorityMedium {
		t.Errorf("priorities = %s, %s; want critical, medium", p.Items[0].Priority, p.Items[1].Priority)
	}
	if p.Items[0].ID == p.Items[1].ID {
		t.Error("generated item ids collide")
	}
}

func TestCreate_ExplicitIDsDoNotConsumeOrdinals(t *testing.T) {
	m := NewManager(nil)
	p, err := m.Create("Audit", []ItemInput{
		{ID: "CUSTOM-A", Description: "explicit"},
		{Description: "generated"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The explicit id must not burn an ordinal: the first generated id
	// is -ITEM-1, not -ITEM-2.
	wantFirst := p.ID + "-ITEM-1"
	if it := p.Item(wantFirst); it == nil {
		t.Fatalf("items = %+v, want a generated id %s", p.Items, wantFirst)
	}

	p, err = m.AddItems(p.ID, []ItemInput{{Description: "next"}})
	if err != nil {
		t.Fatalf("AddItems: %v", err)
	}
	if it := p.Item(p.ID + "-ITEM-2"); it == nil {
		t.Errorf("items = %+v, want the next generated id %s-ITEM-2", p.Items, p.ID)
	}

	// A failed batch must not advance the sequence either.
	if _, err := m.AddItems(p.ID, []ItemInput{
		{Description: "doomed"},
		{ID: "CUSTOM-A", Description: "dup"},
	}); err == nil {
		t.Fatal("duplicate against existing id accepted")
	}
	p, err = m.AddItems(p.ID, []ItemInput{{Description: "after failure"}})
	if err != nil {
		t.Fatalf("AddItems: %v", err)
	}
	if it := p.Item(p.ID + "-ITEM-3"); it == nil {
		t.Errorf("items = %+v, want %s-ITEM-3 with no gap after the failed batch", p.Items, p.ID)
	}
}

func TestCreate_DuplicateIDsRejected(t *testing.T) {
	m := NewManager(nil)
	_, err := m.Create("Audit", []ItemInput{
		{ID: "X", Description: "one"},
		{ID: "X", Description: "two"},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(m.List()) != 0 {
		t.Error("failed create must not store a plan")
	}
}

func TestCreate_UnknownPriorityRejected(t *testing.T) {
	m := NewManager(nil)
	_, err := m.Create("Audit", []ItemInput{{Description: "x", Priority: "urgent"}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

// --- Ordering ---

func TestSnapshot_OrderedByPriorityThenInsertion(t *testing.T) {
	m, id, _ := seedPlan(t)
	p, err := m.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	// high, medium, low.
	want := []string{"A", "C", "B"}
	if got := itemIDs(p); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	// Equal priorities keep insertion order.
	p2, _ := m.AddItems(id, []ItemInput{{ID: "D", Description: "d", Priority: PriorityHigh}})
	want = []string{"A", "D", "C", "B"}
	if got := itemIDs(p2); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestGet_RepeatedSnapshotsIdentical(t *testing.T) {
	m, id, _ := seedPlan(t)
	a, _ := m.Get(id)
	b, _ := m.Get(id)
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated Get without mutation returned different snapshots")
	}
}

// --- Reprioritize ---

func TestReprioritize_AtomicAllOrNothing(t *testing.T) {
	m, id, _ := seedPlan(t)

	_, err := m.Reprioritize(id, []PriorityUpdate{
		{ItemID: "A", Priority: PriorityCritical},
		{ItemID: "Z", Priority: PriorityLow}, // unknown
	})
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nferr.ItemID != "Z" {
		t.Errorf("NotFoundError.ItemID = %q, want Z", nferr.ItemID)
	}

	// No partial application: A keeps its original priority.
	p, _ := m.Get(id)
	if p.Item("A").Priority != PriorityHigh {
		t.Errorf("A priority = %s after failed call, want high", p.Item("A").Priority)
	}
}

func TestReprioritize_UnknownPlan(t *testing.T) {
	m := NewManager(nil)
	_, err := m.Reprioritize("PLAN-NOPE", nil)
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

// --- RemoveItems ---

func TestRemoveItems_IdempotentOnUnknownIDs(t *testing.T) {
	m, id, _ := seedPlan(t)

	p, err := m.RemoveItems(id, []string{"A", "Y"})
	if err != nil {
		t.Fatalf("RemoveItems with an unknown id must succeed, got %v", err)
	}
	if p.Item("A").Status != StatusRemoved {
		t.Errorf("A status = %s, want removed", p.Item("A").Status)
	}

	// Removing again is harmless.
	if _, err := m.RemoveItems(id, []string{"A"}); err != nil {
		t.Errorf("second removal errored: %v", err)
	}
}

// Concrete scenario from the exercise: reprioritize A to critical, then
// remove B; active items must come back as A(critical), C(medium).
func TestReprioritizeThenRemove_Scenario(t *testing.T) {
	m, id, _ := seedPlan(t)

	if _, err := m.Reprioritize(id, []PriorityUpdate{{ItemID: "A", Priority: PriorityCritical}}); err != nil {
		t.Fatal(err)
	}
	p, err := m.RemoveItems(id, []string{"B"})
	if err != nil {
		t.Fatal(err)
	}

	if got, want := activeIDs(p), []string{"A", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("active items = %v, want %v", got, want)
	}
	if p.Item("A").Priority != PriorityCritical {
		t.Errorf("A priority = %s, want critical", p.Item("A").Priority)
	}
	if p.Item("C").Priority != PriorityMedium {
		t.Errorf("C priority = %s, want medium", p.Item("C").Priority)
	}
	if p.Item("B").Status != StatusRemoved {
		t.Errorf("B status = %s, want removed", p.Item("B").Status)
	}
}

// --- AddItems ---

func TestAddItems_DefaultsAndFreshIDs(t *testing.T) {
	m, id, _ := seedPlan(t)
	p, err := m.AddItems(id, []ItemInput{{Description: "document findings"}})
	if err != nil {
		t.Fatal(err)
	}
	var newItem *Item
	for i := range p.Items {
		if p.Items[i].Description == "document findings" {
			newItem = &p.Items[i]
		}
	}
	if newItem == nil {
		t.Fatal("added item not found")
	}
	if newItem.Priority != PriorityMedium || newItem.Status != StatusPending {
		t.Errorf("added item = %s/%s, want medium/pending", newItem.Priority, newItem.Status)
	}
}

func TestAddItems_DuplicateAgainstExisting(t *testing.T) {
	m, id, _ := seedPlan(t)
	_, err := m.AddItems(id, []ItemInput{{ID: "A", Description: "dup"}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	p, _ := m.Get(id)
	if len(p.Items) != 3 {
		t.Errorf("plan has %d items after failed add, want 3", len(p.Items))
	}
}

// --- Status updates and completion ---

func TestUpdateItemStatus_LifecycleAndAutoComplete(t *testing.T) {
	m, id, _ := seedPlan(t)

	if _, err := m.UpdateItemStatus(id, "A", StatusInProgress); err != nil {
		t.Fatal(err)
	}
	if _, err := m.UpdateItemStatus(id, "A", StatusCompleted); err != nil {
		t.Fatal(err)
	}

	// Completed is terminal.
	if _, err := m.UpdateItemStatus(id, "A", StatusInProgress); err == nil {
		t.Error("transition out of completed should fail")
	}

	// Finish the rest: B removed, C completed → plan completes.
	if _, err := m.RemoveItems(id, []string{"B"}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.UpdateItemStatus(id, "C", StatusInProgress); err != nil {
		t.Fatal(err)
	}
	p, err := m.UpdateItemStatus(id, "C", StatusCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != PlanCompleted {
		t.Errorf("plan status = %s, want completed once all items are terminal", p.Status)
	}
	if len(m.List()) != 0 {
		t.Error("completed plan still listed as active")
	}
}

func TestAssignItem(t *testing.T) {
	m, id, _ := seedPlan(t)
	p, err := m.AssignItem(id, "A", "Anticoagulation Specialist")
	if err != nil {
		t.Fatal(err)
	}
	it := p.Item("A")
	if it.Assignee != "Anticoagulation Specialist" || it.Status != StatusInProgress {
		t.Errorf("assigned item = %+v, want in_progress with assignee", it)
	}

	m.RemoveItems(id, []string{"B"})
	if _, err := m.AssignItem(id, "B", "Anyone"); err == nil {
		t.Error("assigning a removed item should fail")
	}
}

// --- Concurrency: per-plan serialization, no lost updates ---

func TestManager_ConcurrentAddsNoLostUpdates(t *testing.T) {
	m := NewManager(nil)
	p, err := m.Create("stress", nil)
	if err != nil {
		t.Fatal(err)
	}

	const (
		workers = 8
		adds    = 25
	)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < adds; i++ {
				if _, err := m.AddItems(p.ID, []ItemInput{{Description: "task"}}); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, _ := m.Get(p.ID)
	if len(got.Items) != workers*adds {
		t.Errorf("plan has %d items, want %d", len(got.Items), workers*adds)
	}
	seen := map[string]bool{}
	for _, it := range got.Items {
		if seen[it.ID] {
			t.Fatalf("duplicate item id %s under concurrent adds", it.ID)
		}
		seen[it.ID] = true
	}
}
