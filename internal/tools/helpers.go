// Package tools implements the MCP tool handlers of the audit exercise.
//
// Each tool is a struct holding its dependencies, with a Definition()
// for registration and a Handle method in mcp-go's handler signature.
// Handlers never touch shared state directly: all mutation goes through
// the plan manager, the roster, and the run context.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decodeArgs unmarshals the raw tool arguments into a typed struct via
// a JSON round-trip. The MCP layer hands arguments as map[string]any;
// this is the one place that turns them into domain inputs.
func decodeArgs(req mcp.CallToolRequest, v any) error {
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return fmt.Errorf("encoding arguments: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding arguments: %w", err)
	}
	return nil
}

// jsonResult renders v as an indented JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
