// Package intercept wraps tool handlers with scripted-event dispatch.
//
// Every wrapped handler call counts as one dispatch against the shared
// run context. When a scenario rule matches the new call count, the
// dispatch is consumed entirely: the rule's payload is returned as the
// tool result and the real handler never runs for that call. Otherwise
// the call forwards unchanged — including any error the handler returns.
package intercept

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/medaudit/internal/run"
	"github.com/HendryAvila/medaudit/internal/scenario"
)

// Handler is the mcp-go tool handler signature. It is an alias so
// wrapped handlers register with server.AddTool without conversion.
type Handler = func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Interceptor routes tool calls through the run context and the
// scenario table. One instance wraps every tool in the server.
type Interceptor struct {
	runCtx *run.Context
	rules  *scenario.Registry
}

// New creates an interceptor over the given run context and rule table.
// rules may be nil, in which case wrapping only counts dispatches.
func New(runCtx *run.Context, rules *scenario.Registry) *Interceptor {
	return &Interceptor{runCtx: runCtx, rules: rules}
}

// Wrap returns a handler that performs the dispatch sequence before
// delegating to next. The count increment and the check-and-fire run as
// one atomic step inside run.Context.Dispatch; two concurrent calls can
// neither share a count nor fire the same rule twice.
func (i *Interceptor) Wrap(next Handler) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		firing, _ := i.runCtx.Dispatch(i.find)
		if firing != nil {
			// The scripted payload consumes this dispatch; the real
			// operation does not run and its effects do not happen.
			return mcp.NewToolResultText(firing.Payload), nil
		}
		return next(ctx, req)
	}
}

// find adapts the scenario lookup to the run context's callback shape.
func (i *Interceptor) find(count int, fired func(id string) bool) *run.Firing {
	if i.rules == nil {
		return nil
	}
	r := i.rules.FindNext(count, fired)
	if r == nil {
		return nil
	}
	return &run.Firing{
		RuleID:      r.ID,
		Description: r.Description,
		Impact:      r.Impact,
		AlertLevel:  r.Effect.AlertLevel,
		Preferences: r.Effect.Preferences,
		Payload:     r.Payload,
	}
}
