// Package prompts implements MCP prompt handlers for the audit exercise.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the audit-start MCP prompt.
// It guides the AI to open a new audit: plan first, then delegate.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("audit-start",
		mcp.WithPromptDescription(
			"Start a medication audit. Sets up the plan, checks which "+
				"specialists are on shift, and begins working through the records.",
		),
		mcp.WithArgument("focus",
			mcp.ArgumentDescription("What to audit, e.g. 'ICU anticoagulant timing' or 'critical-risk records'. Default: all critical-risk records"),
		),
	)
}

// Handle processes the audit-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	focus := "all critical-risk records"
	if args := req.Params.Arguments; args != nil {
		if f, ok := args["focus"]; ok && f != "" {
			focus = f
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Start medication audit: %s", focus),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Run a medication audit focused on: %s.\n\n"+
						"Please:\n"+
						"1. Call `list_all_specialists` to see who is on shift today\n"+
						"2. Call `create_plan` with prioritized items covering the focus area\n"+
						"3. Delegate items to available specialists with `delegate_task` — "+
						"check availability first, and pick alternatives for anyone off shift\n"+
						"4. Work through the records with the fetch and timing tools\n"+
						"5. Submit findings as you confirm them, and finish with `generate_audit_report`\n\n"+
						"If urgent notices appear mid-audit, reprioritize the plan before continuing.",
					focus,
				)),
			},
		},
	}, nil
}
