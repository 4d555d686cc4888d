// Package records serves the medication administration records under
// audit. It uses an in-memory SQLite database seeded at startup — the
// data set is fixed for the exercise and dies with the process, which
// is exactly the lifetime the simulation wants.
package records

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("records: record not found")

// Record is one medication administration record.
type Record struct {
	RecordID       string  `json:"record_id"`
	PatientID      string  `json:"patient_id"`
	Medication     string  `json:"medication"`
	Dosage         float64 `json:"dosage"`
	DosageUnit     string  `json:"dosage_unit"`
	Route          string  `json:"route"`
	Ward           string  `json:"ward"`
	RiskLevel      string  `json:"risk_level"`
	PrescriberID   string  `json:"prescriber_id"`
	ScheduledAt    string  `json:"scheduled_at"`
	AdministeredAt string  `json:"administered_at"`
}

// TimingCheck is the result of verifying one record against the
// administration protocol for its medication.
type TimingCheck struct {
	RecordID         string `json:"record_id"`
	Medication       string `json:"medication"`
	ScheduledAt      string `json:"scheduled_at"`
	AdministeredAt   string `json:"administered_at"`
	DeviationMinutes int    `json:"timing_deviation_minutes"`
	IsTimely         bool   `json:"is_timely"`
	Compliance       string `json:"protocol_compliance"` // compliant, minor_deviation, major_deviation
	Recommendation   string `json:"recommendation"`
}

// Store is the read-only record database for one run.
type Store struct {
	db *sql.DB
}

// New opens the in-memory database, creates the schema, and seeds the
// exercise data set.
func New() (*Store, error) {
	db, err := openDB("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("records: open database: %w", err)
	}
	// The in-memory DB exists per connection; keep exactly one so every
	// query sees the seeded tables.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("records: migration: %w", err)
	}
	if err := s.seed(); err != nil {
		return nil, fmt.Errorf("records: seed: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE medication_records (
			record_id       TEXT PRIMARY KEY,
			patient_id      TEXT NOT NULL,
			medication      TEXT NOT NULL,
			dosage          REAL NOT NULL,
			dosage_unit     TEXT NOT NULL,
			route           TEXT NOT NULL,
			ward            TEXT NOT NULL,
			risk_level      TEXT NOT NULL CHECK (risk_level IN ('low','medium','high','critical')),
			prescriber_id   TEXT NOT NULL,
			scheduled_at    TEXT NOT NULL,
			administered_at TEXT NOT NULL
		);
		CREATE INDEX idx_records_ward ON medication_records(ward);
		CREATE INDEX idx_records_risk ON medication_records(risk_level);

		CREATE TABLE timing_protocols (
			medication        TEXT PRIMARY KEY,
			tolerance_minutes INTEGER NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

const recordColumns = `record_id, patient_id, medication, dosage, dosage_unit,
	route, ward, risk_level, prescriber_id, scheduled_at, administered_at`

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var r Record
	err := row.Scan(&r.RecordID, &r.PatientID, &r.Medication, &r.Dosage, &r.DosageUnit,
		&r.Route, &r.Ward, &r.RiskLevel, &r.PrescriberID, &r.ScheduledAt, &r.AdministeredAt)
	return r, err
}

// Fetch returns a single record by id.
func (s *Store) Fetch(recordID string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT `+recordColumns+` FROM medication_records WHERE record_id = ?`, recordID)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, recordID)
	}
	if err != nil {
		return nil, fmt.Errorf("records: fetch %s: %w", recordID, err)
	}
	return &r, nil
}

// ByWard returns all records for a ward (case-insensitive), in record
// id order.
func (s *Store) ByWard(ward string) ([]Record, error) {
	return s.queryRecords(
		`SELECT `+recordColumns+` FROM medication_records
		 WHERE ward = ? COLLATE NOCASE ORDER BY record_id`, ward)
}

// ByRisk returns all records at the given risk level, in record id order.
func (s *Store) ByRisk(level string) ([]Record, error) {
	switch level {
	case "low", "medium", "high", "critical":
	default:
		return nil, fmt.Errorf("records: unknown risk level %q", level)
	}
	return s.queryRecords(
		`SELECT `+recordColumns+` FROM medication_records
		 WHERE risk_level = ? ORDER BY record_id`, level)
}

// Count returns the total number of records in the data set.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM medication_records`).Scan(&n)
	return n, err
}

// CheckTiming verifies a record's administration time against its
// medication protocol. Deviation within tolerance is compliant, within
// twice the tolerance a minor deviation, beyond that major. Medications
// without a protocol row fall back to the default tolerance.
func (s *Store) CheckTiming(recordID string) (*TimingCheck, error) {
	r, err := s.Fetch(recordID)
	if err != nil {
		return nil, err
	}

	tolerance := defaultToleranceMinutes
	err = s.db.QueryRow(
		`SELECT tolerance_minutes FROM timing_protocols WHERE medication = ?`,
		r.Medication).Scan(&tolerance)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("records: protocol for %s: %w", r.Medication, err)
	}

	scheduled, err := time.Parse(time.RFC3339, r.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("records: %s: bad scheduled_at: %w", recordID, err)
	}
	administered, err := time.Parse(time.RFC3339, r.AdministeredAt)
	if err != nil {
		return nil, fmt.Errorf("records: %s: bad administered_at: %w", recordID, err)
	}

	deviation := int(math.Round(administered.Sub(scheduled).Minutes()))
	abs := deviation
	if abs < 0 {
		abs = -abs
	}

	check := &TimingCheck{
		RecordID:         r.RecordID,
		Medication:       r.Medication,
		ScheduledAt:      r.ScheduledAt,
		AdministeredAt:   r.AdministeredAt,
		DeviationMinutes: deviation,
	}
	switch {
	case abs <= tolerance:
		check.IsTimely = true
		check.Compliance = "compliant"
		check.Recommendation = "No action required."
	case abs <= 2*tolerance:
		check.Compliance = "minor_deviation"
		check.Recommendation = "Document the deviation and remind staff of the administration window."
	default:
		check.Compliance = "major_deviation"
		check.Recommendation = "Escalate: assess patient impact and file a timing-error finding."
	}
	return check, nil
}

const defaultToleranceMinutes = 60

func (s *Store) queryRecords(query string, args ...any) ([]Record, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("records: query: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("records: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
