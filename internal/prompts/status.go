package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the audit-status MCP prompt.
// It instructs the AI to read and present the current audit state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("audit-status",
		mcp.WithPromptDescription(
			"Check the current state of the audit: alert level, plan "+
				"progress, and what happened so far.",
		),
	)
}

// Handle processes the audit-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Audit Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please check where the audit stands.\n\n" +
						"1. Call `get_run_status` (it does not consume an operation) and report " +
						"the alert level, operation count, and any scripted events that fired\n" +
						"2. Call `list_plans` and `get_plan_status` to show plan progress\n" +
						"3. Tell me what is left to do and what should happen next\n" +
						"4. If the alert level is elevated or crisis, lead with that",
				),
			},
		},
	}, nil
}
