package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/medaudit/internal/plan"
	"github.com/HendryAvila/medaudit/internal/roster"
	"github.com/HendryAvila/medaudit/internal/run"
)

// DelegateTaskTool handles the delegate_task MCP tool. Delegation is
// gated on the roster: the availability check runs before any state
// changes, and a refused delegation leaves the plan untouched.
type DelegateTaskTool struct {
	roster  *roster.Registry
	manager *plan.Manager
	runCtx  *run.Context
}

func NewDelegateTaskTool(r *roster.Registry, m *plan.Manager, rc *run.Context) *DelegateTaskTool {
	return &DelegateTaskTool{roster: r, manager: m, runCtx: rc}
}

func (t *DelegateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("delegate_task",
		mcp.WithDescription(
			"Delegate a plan item to a specialist role. Fails if the role is "+
				"unavailable or unknown — no fallback is chosen; pick another role "+
				"and retry. On success the item is assigned and moves to in_progress.",
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Role to delegate to."),
		),
		mcp.WithString("plan_id",
			mcp.Required(),
			mcp.Description("Plan holding the item."),
		),
		mcp.WithString("item_id",
			mcp.Required(),
			mcp.Description("Item to delegate."),
		),
		mcp.WithString("instructions",
			mcp.Description("Free-form task instructions for the specialist."),
		),
	)
}

func (t *DelegateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	role := req.GetString("role", "")
	planID := req.GetString("plan_id", "")
	itemID := req.GetString("item_id", "")
	if role == "" || planID == "" || itemID == "" {
		return mcp.NewToolResultError("role, plan_id, and item_id are required"), nil
	}

	if err := t.roster.EnforceBeforeDelegate(role); err != nil {
		var viol *roster.AvailabilityViolation
		if errors.As(err, &viol) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}

	p, err := t.manager.AssignItem(planID, itemID, role)
	if err != nil {
		return planError(err)
	}

	t.runCtx.Note(run.KindDelegation, role, fmt.Sprintf("item %s of %s delegated", itemID, planID))

	return jsonResult(map[string]any{
		"delegated": true,
		"role":      role,
		"expertise": t.roster.Expertise(role),
		"plan":      p,
	})
}
