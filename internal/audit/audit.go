// Package audit collects findings submitted during a run and renders
// the final audit report. Everything is in-memory and run-scoped.
package audit

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HendryAvila/medaudit/internal/run"
)

var timeNow = time.Now

// newID mints short ids like FIND-9F3A01C2.
func newID(prefix string) string {
	id := uuid.New()
	return fmt.Sprintf("%s-%X", prefix, id[:4])
}

// Finding is one issue raised against a medication record.
type Finding struct {
	FindingID   string `json:"finding_id"`
	RecordID    string `json:"record_id"`
	PatientID   string `json:"patient_id,omitempty"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	SubmittedAt string `json:"submitted_at"`
}

// ValidationError reports a finding that failed validation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "audit: invalid finding: " + e.Reason
}

var findingTypes = map[string]bool{
	"timing_error":       true,
	"dosage_error":       true,
	"drug_interaction":   true,
	"documentation_gap":  true,
	"protocol_violation": true,
	"other":              true,
}

// severityRank orders severities for report grouping, worst first.
var severityRank = map[string]int{
	"critical": 0,
	"high":     1,
	"medium":   2,
	"low":      3,
}

// Log accumulates findings for one run.
type Log struct {
	mu       sync.Mutex
	runCtx   *run.Context
	findings []Finding
}

// NewLog returns an empty findings log bound to the run context. The
// context may be nil in tests.
func NewLog(runCtx *run.Context) *Log {
	return &Log{runCtx: runCtx}
}

// Submit validates and records a finding, returning it with a fresh id
// and timestamp.
func (l *Log) Submit(recordID, patientID, findingType, severity, description string) (*Finding, error) {
	if recordID == "" {
		return nil, &ValidationError{Reason: "record_id is required"}
	}
	if description == "" {
		return nil, &ValidationError{Reason: "description is required"}
	}
	if !findingTypes[findingType] {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown finding type %q", findingType)}
	}
	if _, ok := severityRank[severity]; !ok {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown severity %q", severity)}
	}

	f := Finding{
		FindingID:   newID("FIND"),
		RecordID:    recordID,
		PatientID:   patientID,
		Type:        findingType,
		Severity:    severity,
		Description: description,
		SubmittedAt: timeNow().UTC().Format(time.RFC3339),
	}

	l.mu.Lock()
	l.findings = append(l.findings, f)
	l.mu.Unlock()

	if l.runCtx != nil {
		l.runCtx.Note(run.KindFinding, f.FindingID,
			fmt.Sprintf("%s finding on %s: %s", severity, recordID, findingType))
	}
	return &f, nil
}

// Findings returns a copy of all submitted findings in submission order.
func (l *Log) Findings() []Finding {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Finding, len(l.findings))
	copy(out, l.findings)
	return out
}

// Report renders the markdown audit report: findings grouped by
// severity, the records they touched, and the run's event trail.
func (l *Log) Report() string {
	findings := l.Findings()

	var snap run.Snapshot
	if l.runCtx != nil {
		snap = l.runCtx.Snapshot()
	}

	records := map[string]bool{}
	for _, f := range findings {
		records[f.RecordID] = true
	}

	sorted := make([]Finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return severityRank[sorted[i].Severity] < severityRank[sorted[j].Severity]
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# Medication Audit Report %s\n\n", newID("RPT"))
	fmt.Fprintf(&b, "Generated: %s\n\n", timeNow().UTC().Format(time.RFC3339))

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- Findings: %d\n", len(findings))
	fmt.Fprintf(&b, "- Records cited: %d\n", len(records))
	fmt.Fprintf(&b, "- Operations dispatched: %d\n", snap.CallCount)
	alert := snap.AlertLevel
	if alert == "" {
		alert = run.AlertNormal
	}
	fmt.Fprintf(&b, "- Final alert level: %s\n\n", alert)

	fmt.Fprintf(&b, "## Findings\n\n")
	if len(sorted) == 0 {
		b.WriteString("No findings were submitted.\n\n")
	}
	lastSeverity := ""
	for _, f := range sorted {
		if f.Severity != lastSeverity {
			fmt.Fprintf(&b, "### %s\n\n", strings.ToUpper(f.Severity))
			lastSeverity = f.Severity
		}
		fmt.Fprintf(&b, "- **%s** (%s, record %s): %s\n", f.FindingID, f.Type, f.RecordID, f.Description)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Event trail\n\n")
	if len(snap.Events) == 0 {
		b.WriteString("No events recorded.\n")
	}
	for _, ev := range snap.Events {
		fmt.Fprintf(&b, "- [op %d] %s %s: %s\n", ev.Seq, ev.Kind, ev.ID, ev.Description)
	}
	return b.String()
}
