package plan

import "fmt"

// ValidationError reports malformed input to a plan operation (duplicate
// item ids, unknown priority or status values). The plan is unchanged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "plan validation: " + e.Reason
}

// NotFoundError reports a plan or item id that does not exist. For
// operations with all-or-nothing semantics (reprioritize), a single
// missing id rejects the whole call and the plan is unchanged.
type NotFoundError struct {
	PlanID string
	ItemID string
}

func (e *NotFoundError) Error() string {
	if e.ItemID != "" {
		return fmt.Sprintf("item %q not found in plan %q", e.ItemID, e.PlanID)
	}
	return fmt.Sprintf("plan %q not found", e.PlanID)
}
