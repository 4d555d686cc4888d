package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/medaudit/internal/roster"
)

// CheckAvailabilityTool handles the check_specialist_availability MCP tool.
type CheckAvailabilityTool struct {
	roster *roster.Registry
}

func NewCheckAvailabilityTool(r *roster.Registry) *CheckAvailabilityTool {
	return &CheckAvailabilityTool{roster: r}
}

func (t *CheckAvailabilityTool) Definition() mcp.Tool {
	return mcp.NewTool("check_specialist_availability",
		mcp.WithDescription(
			"Check whether a specialist role is available for consultation. "+
				"Availability is fixed for the whole run; repeated checks return "+
				"the same answer. Unknown roles come back unavailable with the "+
				"list of valid roles.",
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Role name, e.g. 'Anticoagulation Specialist'."),
		),
	)
}

func (t *CheckAvailabilityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	role := req.GetString("role", "")
	if role == "" {
		return mcp.NewToolResultError("role is required"), nil
	}
	return jsonResult(t.roster.Check(role))
}

// ListSpecialistsTool handles the list_all_specialists MCP tool.
type ListSpecialistsTool struct {
	roster *roster.Registry
}

func NewListSpecialistsTool(r *roster.Registry) *ListSpecialistsTool {
	return &ListSpecialistsTool{roster: r}
}

func (t *ListSpecialistsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_all_specialists",
		mcp.WithDescription(
			"List every role on the roster, partitioned into available and "+
				"unavailable, with expertise tags.",
		),
	)
}

func (t *ListSpecialistsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	available, unavailable := t.roster.ListAll()

	type roleInfo struct {
		Role      string   `json:"role"`
		Expertise []string `json:"expertise,omitempty"`
	}
	describe := func(names []string) []roleInfo {
		out := make([]roleInfo, 0, len(names))
		for _, n := range names {
			out = append(out, roleInfo{Role: n, Expertise: t.roster.Expertise(n)})
		}
		return out
	}

	return jsonResult(map[string]any{
		"availability_rate": t.roster.Rate(),
		"available":         describe(available),
		"unavailable":       describe(unavailable),
	})
}
