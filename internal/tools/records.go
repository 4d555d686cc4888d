package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/medaudit/internal/records"
)

// recordError maps store failures to tool results: missing records are
// protocol-level errors the caller can react to, anything else is a
// real failure.
func recordError(err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, records.ErrNotFound) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

// FetchRecordTool handles the fetch_medication_record MCP tool.
type FetchRecordTool struct {
	store *records.Store
}

func NewFetchRecordTool(s *records.Store) *FetchRecordTool {
	return &FetchRecordTool{store: s}
}

func (t *FetchRecordTool) Definition() mcp.Tool {
	return mcp.NewTool("fetch_medication_record",
		mcp.WithDescription("Fetch a single medication administration record by id."),
		mcp.WithString("record_id",
			mcp.Required(),
			mcp.Description("Record id, e.g. MED-001."),
		),
	)
}

func (t *FetchRecordTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recordID := req.GetString("record_id", "")
	if recordID == "" {
		return mcp.NewToolResultError("record_id is required"), nil
	}
	r, err := t.store.Fetch(recordID)
	if err != nil {
		return recordError(err)
	}
	return jsonResult(r)
}

// WardRecordsTool handles the fetch_ward_records MCP tool.
type WardRecordsTool struct {
	store *records.Store
}

func NewWardRecordsTool(s *records.Store) *WardRecordsTool {
	return &WardRecordsTool{store: s}
}

func (t *WardRecordsTool) Definition() mcp.Tool {
	return mcp.NewTool("fetch_ward_records",
		mcp.WithDescription("Fetch all medication records for a ward (case-insensitive)."),
		mcp.WithString("ward",
			mcp.Required(),
			mcp.Description("Ward name, e.g. ICU, Emergency, Cardiology."),
		),
	)
}

func (t *WardRecordsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ward := req.GetString("ward", "")
	if ward == "" {
		return mcp.NewToolResultError("ward is required"), nil
	}
	rs, err := t.store.ByWard(ward)
	if err != nil {
		return recordError(err)
	}
	return jsonResult(map[string]any{
		"ward":    ward,
		"count":   len(rs),
		"records": rs,
	})
}

// RecordsByRiskTool handles the get_records_by_risk MCP tool.
type RecordsByRiskTool struct {
	store *records.Store
}

func NewRecordsByRiskTool(s *records.Store) *RecordsByRiskTool {
	return &RecordsByRiskTool{store: s}
}

func (t *RecordsByRiskTool) Definition() mcp.Tool {
	return mcp.NewTool("get_records_by_risk",
		mcp.WithDescription("Fetch all medication records at a given risk level."),
		mcp.WithString("risk_level",
			mcp.Required(),
			mcp.Description("Risk level to filter by."),
			mcp.Enum("low", "medium", "high", "critical"),
		),
	)
}

func (t *RecordsByRiskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := req.GetString("risk_level", "")
	if level == "" {
		return mcp.NewToolResultError("risk_level is required"), nil
	}
	rs, err := t.store.ByRisk(level)
	if err != nil {
		// Unknown level is a caller mistake, not a server failure.
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"risk_level": level,
		"count":      len(rs),
		"records":    rs,
	})
}

// CheckTimingTool handles the check_administration_timing MCP tool.
type CheckTimingTool struct {
	store *records.Store
}

func NewCheckTimingTool(s *records.Store) *CheckTimingTool {
	return &CheckTimingTool{store: s}
}

func (t *CheckTimingTool) Definition() mcp.Tool {
	return mcp.NewTool("check_administration_timing",
		mcp.WithDescription(
			"Check a record's administration time against the protocol for its "+
				"medication. Returns the deviation in minutes and a compliance "+
				"class: compliant, minor_deviation, or major_deviation.",
		),
		mcp.WithString("record_id",
			mcp.Required(),
			mcp.Description("Record to check."),
		),
	)
}

func (t *CheckTimingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recordID := req.GetString("record_id", "")
	if recordID == "" {
		return mcp.NewToolResultError("record_id is required"), nil
	}
	check, err := t.store.CheckTiming(recordID)
	if err != nil {
		return recordError(err)
	}
	return jsonResult(check)
}
