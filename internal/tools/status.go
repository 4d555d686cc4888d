package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/medaudit/internal/run"
)

// RunStatusTool handles the get_run_status MCP tool. It is registered
// without the interceptor wrapper: reading the run state must not
// consume a dispatch or fire scripted events.
type RunStatusTool struct {
	runCtx *run.Context
}

func NewRunStatusTool(rc *run.Context) *RunStatusTool {
	return &RunStatusTool{runCtx: rc}
}

func (t *RunStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("get_run_status",
		mcp.WithDescription(
			"Return the current run state: operation count, alert level, "+
				"preference weights, fired events, and the full event trail. "+
				"This call does not count as an operation.",
		),
	)
}

func (t *RunStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.runCtx.Snapshot())
}
