package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/medaudit/internal/plan"
)

// planError maps the manager's typed errors to tool results. Validation
// and not-found failures are protocol-level error results for the
// caller to react to; anything else propagates as a Go error.
func planError(err error) (*mcp.CallToolResult, error) {
	var verr *plan.ValidationError
	var nerr *plan.NotFoundError
	if errors.As(err, &verr) || errors.As(err, &nerr) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

// itemSchema describes one plan item argument object.
var itemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"item_id":     map[string]any{"type": "string", "description": "Optional explicit item id; omit to auto-assign."},
		"description": map[string]any{"type": "string"},
		"priority":    map[string]any{"type": "string", "enum": []string{"critical", "high", "medium", "low"}},
		"assignee":    map[string]any{"type": "string"},
	},
	"required": []string{"description"},
}

// CreatePlanTool handles the create_plan MCP tool.
type CreatePlanTool struct {
	manager *plan.Manager
}

func NewCreatePlanTool(manager *plan.Manager) *CreatePlanTool {
	return &CreatePlanTool{manager: manager}
}

func (t *CreatePlanTool) Definition() mcp.Tool {
	return mcp.NewTool("create_plan",
		mcp.WithDescription(
			"Create a new audit plan with an initial set of prioritized items. "+
				"Item priority defaults to medium; all items start pending. "+
				"Duplicate item ids reject the whole call and nothing is stored.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short title for the plan, e.g. 'ICU anticoagulant audit'."),
		),
		mcp.WithArray("items",
			mcp.Required(),
			mcp.Description("Initial plan items."),
			mcp.Items(itemSchema),
		),
	)
}

func (t *CreatePlanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Title string           `json:"title"`
		Items []plan.ItemInput `json:"items"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	p, err := t.manager.Create(args.Title, args.Items)
	if err != nil {
		return planError(err)
	}
	return jsonResult(p)
}

// UpdatePlanTool handles the update_plan MCP tool: one call can add
// items, remove items, and reprioritize, applied in that order.
type UpdatePlanTool struct {
	manager *plan.Manager
}

func NewUpdatePlanTool(manager *plan.Manager) *UpdatePlanTool {
	return &UpdatePlanTool{manager: manager}
}

func (t *UpdatePlanTool) Definition() mcp.Tool {
	return mcp.NewTool("update_plan",
		mcp.WithDescription(
			"Update an existing plan. Supports three mutations in one call, applied "+
				"in order: add new items, remove items by id (idempotent — unknown or "+
				"already-terminal ids are skipped), and reprioritize items (strict and "+
				"atomic — one unknown item id rejects the whole batch, leaving the plan "+
				"unchanged). Also supports moving a single item through its lifecycle "+
				"via item_id + status.",
		),
		mcp.WithString("plan_id",
			mcp.Required(),
			mcp.Description("Plan to update."),
		),
		mcp.WithArray("add",
			mcp.Description("New items to append."),
			mcp.Items(itemSchema),
		),
		mcp.WithArray("remove",
			mcp.Description("Item ids to remove."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("reprioritize",
			mcp.Description("Priority updates, each {item_id, priority}."),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"item_id":  map[string]any{"type": "string"},
					"priority": map[string]any{"type": "string", "enum": []string{"critical", "high", "medium", "low"}},
				},
				"required": []string{"item_id", "priority"},
			}),
		),
		mcp.WithString("item_id",
			mcp.Description("Single item to move through its lifecycle; requires status."),
		),
		mcp.WithString("status",
			mcp.Description("Target status for item_id."),
			mcp.Enum("pending", "in_progress", "completed", "removed"),
		),
	)
}

func (t *UpdatePlanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		PlanID       string                `json:"plan_id"`
		Add          []plan.ItemInput      `json:"add"`
		Remove       []string              `json:"remove"`
		Reprioritize []plan.PriorityUpdate `json:"reprioritize"`
		ItemID       string                `json:"item_id"`
		Status       plan.Status           `json:"status"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.PlanID == "" {
		return mcp.NewToolResultError("plan_id is required"), nil
	}
	if len(args.Add) == 0 && len(args.Remove) == 0 && len(args.Reprioritize) == 0 && args.ItemID == "" {
		return mcp.NewToolResultError("nothing to do: provide add, remove, reprioritize, or item_id+status"), nil
	}

	var (
		p   plan.Plan
		err error
	)
	if len(args.Add) > 0 {
		if p, err = t.manager.AddItems(args.PlanID, args.Add); err != nil {
			return planError(err)
		}
	}
	if len(args.Remove) > 0 {
		if p, err = t.manager.RemoveItems(args.PlanID, args.Remove); err != nil {
			return planError(err)
		}
	}
	if len(args.Reprioritize) > 0 {
		if p, err = t.manager.Reprioritize(args.PlanID, args.Reprioritize); err != nil {
			return planError(err)
		}
	}
	if args.ItemID != "" {
		if args.Status == "" {
			return mcp.NewToolResultError("status is required when item_id is given"), nil
		}
		if p, err = t.manager.UpdateItemStatus(args.PlanID, args.ItemID, args.Status); err != nil {
			return planError(err)
		}
	}
	return jsonResult(p)
}

// GetPlanStatusTool handles the get_plan_status MCP tool.
type GetPlanStatusTool struct {
	manager *plan.Manager
}

func NewGetPlanStatusTool(manager *plan.Manager) *GetPlanStatusTool {
	return &GetPlanStatusTool{manager: manager}
}

func (t *GetPlanStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("get_plan_status",
		mcp.WithDescription(
			"Return a snapshot of a plan: its items sorted by descending priority "+
				"(insertion order breaks ties), each with status and assignee. "+
				"Repeated calls on an unchanged plan return identical output.",
		),
		mcp.WithString("plan_id",
			mcp.Required(),
			mcp.Description("Plan to inspect."),
		),
	)
}

func (t *GetPlanStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID := req.GetString("plan_id", "")
	if planID == "" {
		return mcp.NewToolResultError("plan_id is required"), nil
	}
	p, err := t.manager.Get(planID)
	if err != nil {
		return planError(err)
	}
	return jsonResult(p)
}

// ListPlansTool handles the list_plans MCP tool.
type ListPlansTool struct {
	manager *plan.Manager
}

func NewListPlansTool(manager *plan.Manager) *ListPlansTool {
	return &ListPlansTool{manager: manager}
}

func (t *ListPlansTool) Definition() mcp.Tool {
	return mcp.NewTool("list_plans",
		mcp.WithDescription("List all active plans in creation order."),
	)
}

func (t *ListPlansTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans := t.manager.List()
	return jsonResult(map[string]any{
		"count": len(plans),
		"plans": plans,
	})
}
