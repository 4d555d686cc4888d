package intercept

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/medaudit/internal/run"
	"github.com/HendryAvila/medaudit/internal/scenario"
)

func mustRegistry(t *testing.T, rules []scenario.Rule) *scenario.Registry {
	t.Helper()
	reg, err := scenario.NewRegistry(rules)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestWrap_FiresAtExactCountOnly(t *testing.T) {
	runCtx := run.NewContext()
	reg := mustRegistry(t, []scenario.Rule{
		{ID: "crisis", At: 10, Payload: "CRISIS PAYLOAD", Effect: scenario.Effect{AlertLevel: "crisis"}},
	})

	var invoked int
	handler := New(runCtx, reg).Wrap(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		invoked++
		return mcp.NewToolResultText("real result"), nil
	})

	// Calls 1-9 forward to the real operation.
	for i := 1; i <= 9; i++ {
		res, err := handler(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if got := resultText(res); got != "real result" {
			t.Fatalf("call %d returned %q, want the real result", i, got)
		}
	}
	if invoked != 9 {
		t.Fatalf("real operation ran %d times, want 9", invoked)
	}

	// Call 10 returns the scripted payload and skips the operation.
	res, err := handler(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("call 10: %v", err)
	}
	if got := resultText(res); got != "CRISIS PAYLOAD" {
		t.Fatalf("call 10 returned %q, want the scripted payload", got)
	}
	if invoked != 9 {
		t.Fatalf("real operation ran during the scripted call (count %d)", invoked)
	}
	if runCtx.Alert() != run.AlertCrisis {
		t.Errorf("alert = %q, want crisis after the firing", runCtx.Alert())
	}

	// Call 11 forwards normally again.
	res, _ = handler(context.Background(), mcp.CallToolRequest{})
	if got := resultText(res); got != "real result" {
		t.Errorf("call 11 returned %q, want the real result", got)
	}
	if invoked != 10 {
		t.Errorf("real operation ran %d times after call 11, want 10", invoked)
	}
}

func TestWrap_CatchUpFiresPastThreshold(t *testing.T) {
	runCtx := run.NewContext()
	reg := mustRegistry(t, []scenario.Rule{
		{ID: "late", At: 3, Until: 10, Payload: "LATE"},
	})
	ic := New(runCtx, reg)

	// Burn counts 1-4 through a ruleless interceptor so the exact
	// count 3 passes unobserved; the rule must fire on count 5.
	burn := New(runCtx, nil).Wrap(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})
	for i := 0; i < 4; i++ {
		if _, err := burn(context.Background(), mcp.CallToolRequest{}); err != nil {
			t.Fatal(err)
		}
	}

	handler := ic.Wrap(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("real"), nil
	})
	res, err := handler(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(res); got != "LATE" {
		t.Errorf("call 5 returned %q, want the catch-up payload", got)
	}
}

func TestWrap_ErrorsPassThroughUnmodified(t *testing.T) {
	runCtx := run.NewContext()
	boom := errors.New("domain failure")
	handler := New(runCtx, nil).Wrap(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, boom
	})

	_, err := handler(context.Background(), mcp.CallToolRequest{})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the handler's own error", err)
	}
	if runCtx.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1 (failed calls still count)", runCtx.CallCount())
	}
}

func TestWrap_OneRulePerDispatch(t *testing.T) {
	runCtx := run.NewContext()
	reg := mustRegistry(t, []scenario.Rule{
		{ID: "a", At: 2, Until: 10, Payload: "PAYLOAD A"},
		{ID: "b", At: 2, Until: 10, Payload: "PAYLOAD B"},
	})
	handler := New(runCtx, reg).Wrap(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("real"), nil
	})

	want := []string{"real", "PAYLOAD A", "PAYLOAD B", "real"}
	for i, w := range want {
		res, err := handler(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatal(err)
		}
		if got := resultText(res); got != w {
			t.Errorf("call %d returned %q, want %q", i+1, got, w)
		}
	}
}

func TestWrap_ExactRulesSameCountBothFire(t *testing.T) {
	// Exact-only rules sharing a trigger count: the winner fires at the
	// count, the loser on the very next dispatch. Neither is lost.
	runCtx := run.NewContext()
	reg := mustRegistry(t, []scenario.Rule{
		{ID: "a", At: 2, Payload: "PAYLOAD A"},
		{ID: "b", At: 2, Payload: "PAYLOAD B"},
	})
	handler := New(runCtx, reg).Wrap(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("real"), nil
	})

	want := []string{"real", "PAYLOAD A", "PAYLOAD B", "real"}
	for i, w := range want {
		res, err := handler(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatal(err)
		}
		if got := resultText(res); got != w {
			t.Errorf("call %d returned %q, want %q", i+1, got, w)
		}
	}
	if !runCtx.HasFired("a") || !runCtx.HasFired("b") {
		t.Error("both rules should be recorded as fired")
	}
}

// Under concurrent dispatch the scripted payload must be returned to
// exactly one caller, and the counter must end exact.
func TestWrap_ConcurrentExactlyOnce(t *testing.T) {
	const (
		workers = 8
		calls   = 50
	)
	runCtx := run.NewContext()
	reg := mustRegistry(t, []scenario.Rule{
		{ID: "crisis", At: 100, Until: -1, Payload: "CRISIS"},
	})

	var real atomic.Int64
	handler := New(runCtx, reg).Wrap(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		real.Add(1)
		return mcp.NewToolResultText("real"), nil
	})

	var (
		mu      sync.Mutex
		scripted int
		wg      sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < calls; i++ {
				res, err := handler(context.Background(), mcp.CallToolRequest{})
				if err != nil {
					t.Error(err)
					return
				}
				if strings.Contains(resultText(res), "CRISIS") {
					mu.Lock()
					scripted++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	total := workers * calls
	if runCtx.CallCount() != total {
		t.Errorf("CallCount = %d, want %d", runCtx.CallCount(), total)
	}
	if scripted != 1 {
		t.Errorf("scripted payload observed %d times, want exactly once", scripted)
	}
	if got := int(real.Load()); got != total-1 {
		t.Errorf("real operation ran %d times, want %d", got, total-1)
	}
}
