// Package server wires all subsystems and creates the MCP server.
//
// This is the composition root: it builds the run context, the scenario
// table, the interceptor, and every store, then registers the tools. No
// business logic lives here — only wiring.
package server

import (
	"fmt"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/medaudit/internal/audit"
	"github.com/HendryAvila/medaudit/internal/config"
	"github.com/HendryAvila/medaudit/internal/intercept"
	"github.com/HendryAvila/medaudit/internal/plan"
	"github.com/HendryAvila/medaudit/internal/prompts"
	"github.com/HendryAvila/medaudit/internal/records"
	"github.com/HendryAvila/medaudit/internal/resources"
	"github.com/HendryAvila/medaudit/internal/roster"
	"github.com/HendryAvila/medaudit/internal/run"
	"github.com/HendryAvila/medaudit/internal/scenario"
	"github.com/HendryAvila/medaudit/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with every tool registered.
// All tools except get_run_status are wrapped by the interceptor, so
// each call counts as one dispatch against the scripted scenario.
//
// The returned cleanup function closes the record store's database
// connection and must be called on shutdown (typically via defer).
func New(cfg config.Config) (*server.MCPServer, func(), error) {
	// --- Shared run state ---

	runCtx := run.NewContext()

	rules := scenario.Default()
	if cfg.ScenarioPath != "" {
		loaded, err := scenario.LoadFile(cfg.ScenarioPath)
		if err != nil {
			return nil, noop, fmt.Errorf("loading scenario: %w", err)
		}
		rules = loaded
		log.Printf("loaded %d scenario rules from %s", rules.Len(), cfg.ScenarioPath)
	}

	ic := intercept.New(runCtx, rules)

	// --- Domain subsystems ---

	manager := plan.NewManager(runCtx)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		log.Printf("no seed configured, using %d", seed)
	}
	reg, err := roster.New(roster.DefaultRoster(), cfg.AvailabilityRate, seed)
	if err != nil {
		return nil, noop, fmt.Errorf("building roster: %w", err)
	}

	store, err := records.New()
	if err != nil {
		return nil, noop, fmt.Errorf("opening record store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Printf("WARNING: record store close: %v", err)
		}
	}

	findings := audit.NewLog(runCtx)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"medaudit",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register plan tools ---

	createPlan := tools.NewCreatePlanTool(manager)
	s.AddTool(createPlan.Definition(), ic.Wrap(createPlan.Handle))

	updatePlan := tools.NewUpdatePlanTool(manager)
	s.AddTool(updatePlan.Definition(), ic.Wrap(updatePlan.Handle))

	planStatus := tools.NewGetPlanStatusTool(manager)
	s.AddTool(planStatus.Definition(), ic.Wrap(planStatus.Handle))

	listPlans := tools.NewListPlansTool(manager)
	s.AddTool(listPlans.Definition(), ic.Wrap(listPlans.Handle))

	// --- Register roster and delegation tools ---

	checkAvail := tools.NewCheckAvailabilityTool(reg)
	s.AddTool(checkAvail.Definition(), ic.Wrap(checkAvail.Handle))

	listSpecialists := tools.NewListSpecialistsTool(reg)
	s.AddTool(listSpecialists.Definition(), ic.Wrap(listSpecialists.Handle))

	delegate := tools.NewDelegateTaskTool(reg, manager, runCtx)
	s.AddTool(delegate.Definition(), ic.Wrap(delegate.Handle))

	// --- Register record tools ---

	fetchRecord := tools.NewFetchRecordTool(store)
	s.AddTool(fetchRecord.Definition(), ic.Wrap(fetchRecord.Handle))

	wardRecords := tools.NewWardRecordsTool(store)
	s.AddTool(wardRecords.Definition(), ic.Wrap(wardRecords.Handle))

	byRisk := tools.NewRecordsByRiskTool(store)
	s.AddTool(byRisk.Definition(), ic.Wrap(byRisk.Handle))

	checkTiming := tools.NewCheckTimingTool(store)
	s.AddTool(checkTiming.Definition(), ic.Wrap(checkTiming.Handle))

	// --- Register audit tools ---

	submitFinding := tools.NewSubmitFindingTool(findings)
	s.AddTool(submitFinding.Definition(), ic.Wrap(submitFinding.Handle))

	report := tools.NewGenerateReportTool(findings)
	s.AddTool(report.Definition(), ic.Wrap(report.Handle))

	// --- Register the status tool, unwrapped ---
	//
	// Reading the run state must not consume a dispatch: wrapping it
	// would make status polls advance the scenario.

	runStatus := tools.NewRunStatusTool(runCtx)
	s.AddTool(runStatus.Definition(), runStatus.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(runCtx)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)

	return s, cleanup, nil
}

// noop is the default cleanup when initialization fails early.
func noop() {}

// serverInstructions tells the orchestrating agent how to run the audit.
func serverInstructions() string {
	return `You are coordinating a hospital medication audit through the medaudit tools.

## Workflow

1. Create an audit plan with create_plan: prioritized items covering the
   records, wards, and checks to perform.
2. Check specialist availability with check_specialist_availability BEFORE
   delegating anything. Availability is fixed for the whole run — if a role
   is unavailable it stays unavailable; pick a different role or do the
   work through an available one. Never assume a role is free.
3. Delegate plan items with delegate_task. A refused delegation means the
   role is off shift; it is on you to find an alternative.
4. Investigate with the record tools: fetch_medication_record,
   fetch_ward_records, get_records_by_risk, check_administration_timing.
5. Record every issue with submit_finding as soon as you confirm it.
6. Finish with generate_audit_report.

## Mid-audit developments

Conditions in the hospital change while you work. Tool calls may return
urgent notices (safety alerts, deadline warnings) instead of their normal
output. READ THESE CAREFULLY and adapt: update plan priorities with
update_plan, re-scope items, and keep the audit moving. A notice consumed
the call that triggered it — re-issue the original call if you still need
its result.

## Ground rules

- get_run_status is free: use it to check the alert level and event trail
  without consuming an operation.
- Plan mutations are strict where it matters: reprioritize batches are
  all-or-nothing, removals are idempotent.
- Work methodically. Thoroughness and speed trade off; the current
  preference weights are in get_run_status.`
}
