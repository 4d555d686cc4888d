package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/medaudit/internal/audit"
)

// SubmitFindingTool handles the submit_finding MCP tool.
type SubmitFindingTool struct {
	log *audit.Log
}

func NewSubmitFindingTool(l *audit.Log) *SubmitFindingTool {
	return &SubmitFindingTool{log: l}
}

func (t *SubmitFindingTool) Definition() mcp.Tool {
	return mcp.NewTool("submit_finding",
		mcp.WithDescription(
			"Record an audit finding against a medication record. Findings "+
				"accumulate for the run and feed the final report.",
		),
		mcp.WithString("record_id",
			mcp.Required(),
			mcp.Description("Record the finding is about."),
		),
		mcp.WithString("patient_id",
			mcp.Description("Patient on the record, if known."),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Finding category."),
			mcp.Enum("timing_error", "dosage_error", "drug_interaction", "documentation_gap", "protocol_violation", "other"),
		),
		mcp.WithString("severity",
			mcp.Required(),
			mcp.Description("How serious the finding is."),
			mcp.Enum("low", "medium", "high", "critical"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What was found, in plain language."),
		),
	)
}

func (t *SubmitFindingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := t.log.Submit(
		req.GetString("record_id", ""),
		req.GetString("patient_id", ""),
		req.GetString("type", ""),
		req.GetString("severity", ""),
		req.GetString("description", ""),
	)
	if err != nil {
		var verr *audit.ValidationError
		if errors.As(err, &verr) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return jsonResult(f)
}

// GenerateReportTool handles the generate_audit_report MCP tool.
type GenerateReportTool struct {
	log *audit.Log
}

func NewGenerateReportTool(l *audit.Log) *GenerateReportTool {
	return &GenerateReportTool{log: l}
}

func (t *GenerateReportTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_audit_report",
		mcp.WithDescription(
			"Render the audit report for this run: all findings grouped by "+
				"severity, the records they cite, and the run's event trail.",
		),
	)
}

func (t *GenerateReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(t.log.Report()), nil
}
