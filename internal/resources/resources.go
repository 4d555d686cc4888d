// Package resources implements MCP resource handlers for the audit run.
//
// Resources provide read-only data the host can consume for context.
// They use URI-based addressing (medaudit://...) following MCP
// conventions. Like get_run_status, resource reads do not count as
// operations.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/medaudit/internal/run"
)

// Handler manages the run-state resource endpoints.
type Handler struct {
	runCtx *run.Context
}

// NewHandler creates a resource Handler over the run context.
func NewHandler(runCtx *run.Context) *Handler {
	return &Handler{runCtx: runCtx}
}

// StatusResource returns the MCP resource definition for run status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		"medaudit://run/status",
		"Audit Run Status",
		mcp.WithResourceDescription("Current run state: operation count, alert level, preferences, and event trail"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the current run snapshot as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(h.runCtx.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling run status: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
