package records

import "fmt"

// seed loads the exercise data set: three days of administrations
// across ICU, Emergency, and Cardiology. MED-001 through MED-004 and
// MED-025 are the late anticoagulant/insulin doses the safety alert
// cites; the rest are unremarkable.
func (s *Store) seed() error {
	protocols := []struct {
		medication string
		tolerance  int
	}{
		{"Enoxaparin", 60},
		{"Warfarin", 60},
		{"Insulin Regular", 30},
		{"Metformin", 120},
		{"Furosemide", 60},
		{"Morphine", 30},
		{"Amoxicillin", 120},
		{"Lisinopril", 120},
	}
	for _, p := range protocols {
		if _, err := s.db.Exec(
			`INSERT INTO timing_protocols (medication, tolerance_minutes) VALUES (?, ?)`,
			p.medication, p.tolerance); err != nil {
			return fmt.Errorf("protocol %s: %w", p.medication, err)
		}
	}

	for _, r := range seedRecords() {
		if _, err := s.db.Exec(
			`INSERT INTO medication_records (`+recordColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RecordID, r.PatientID, r.Medication, r.Dosage, r.DosageUnit,
			r.Route, r.Ward, r.RiskLevel, r.PrescriberID, r.ScheduledAt, r.AdministeredAt); err != nil {
			return fmt.Errorf("record %s: %w", r.RecordID, err)
		}
	}
	return nil
}

func seedRecords() []Record {
	return []Record{
		// The documented timing-error cluster.
		{RecordID: "MED-001", PatientID: "P001", Medication: "Enoxaparin", Dosage: 40, DosageUnit: "mg", Route: "subcutaneous", Ward: "ICU", RiskLevel: "critical", PrescriberID: "DR-210",
			ScheduledAt: "2026-03-12T08:00:00Z", AdministeredAt: "2026-03-12T10:15:00Z"},
		{RecordID: "MED-002", PatientID: "P002", Medication: "Insulin Regular", Dosage: 10, DosageUnit: "units", Route: "subcutaneous", Ward: "ICU", RiskLevel: "high", PrescriberID: "DR-214",
			ScheduledAt: "2026-03-12T07:30:00Z", AdministeredAt: "2026-03-12T09:45:00Z"},
		{RecordID: "MED-003", PatientID: "P003", Medication: "Enoxaparin", Dosage: 40, DosageUnit: "mg", Route: "subcutaneous", Ward: "ICU", RiskLevel: "critical", PrescriberID: "DR-210",
			ScheduledAt: "2026-03-13T08:00:00Z", AdministeredAt: "2026-03-13T11:30:00Z"},
		{RecordID: "MED-004", PatientID: "P004", Medication: "Insulin Regular", Dosage: 8, DosageUnit: "units", Route: "subcutaneous", Ward: "Emergency", RiskLevel: "high", PrescriberID: "DR-233",
			ScheduledAt: "2026-03-13T07:30:00Z", AdministeredAt: "2026-03-13T10:00:00Z"},
		{RecordID: "MED-025", PatientID: "P005", Medication: "Warfarin", Dosage: 5, DosageUnit: "mg", Route: "oral", Ward: "Cardiology", RiskLevel: "critical", PrescriberID: "DR-241",
			ScheduledAt: "2026-03-13T18:00:00Z", AdministeredAt: "2026-03-13T21:45:00Z"},

		// Unremarkable administrations.
		{RecordID: "MED-005", PatientID: "P006", Medication: "Metformin", Dosage: 500, DosageUnit: "mg", Route: "oral", Ward: "Emergency", RiskLevel: "low", PrescriberID: "DR-233",
			ScheduledAt: "2026-03-12T08:00:00Z", AdministeredAt: "2026-03-12T08:20:00Z"},
		{RecordID: "MED-006", PatientID: "P007", Medication: "Furosemide", Dosage: 20, DosageUnit: "mg", Route: "IV", Ward: "Cardiology", RiskLevel: "medium", PrescriberID: "DR-241",
			ScheduledAt: "2026-03-12T09:00:00Z", AdministeredAt: "2026-03-12T09:10:00Z"},
		{RecordID: "MED-007", PatientID: "P001", Medication: "Morphine", Dosage: 2, DosageUnit: "mg", Route: "IV", Ward: "ICU", RiskLevel: "high", PrescriberID: "DR-210",
			ScheduledAt: "2026-03-12T14:00:00Z", AdministeredAt: "2026-03-12T14:05:00Z"},
		{RecordID: "MED-008", PatientID: "P008", Medication: "Amoxicillin", Dosage: 875, DosageUnit: "mg", Route: "oral", Ward: "Emergency", RiskLevel: "low", PrescriberID: "DR-214",
			ScheduledAt: "2026-03-13T12:00:00Z", AdministeredAt: "2026-03-13T12:40:00Z"},
		{RecordID: "MED-009", PatientID: "P009", Medication: "Lisinopril", Dosage: 10, DosageUnit: "mg", Route: "oral", Ward: "Cardiology", RiskLevel: "low", PrescriberID: "DR-241",
			ScheduledAt: "2026-03-14T08:00:00Z", AdministeredAt: "2026-03-14T08:05:00Z"},
		{RecordID: "MED-010", PatientID: "P002", Medication: "Insulin Regular", Dosage: 10, DosageUnit: "units", Route: "subcutaneous", Ward: "ICU", RiskLevel: "high", PrescriberID: "DR-214",
			ScheduledAt: "2026-03-14T07:30:00Z", AdministeredAt: "2026-03-14T08:15:00Z"},
		{RecordID: "MED-011", PatientID: "P010", Medication: "Warfarin", Dosage: 3, DosageUnit: "mg", Route: "oral", Ward: "Cardiology", RiskLevel: "critical", PrescriberID: "DR-241",
			ScheduledAt: "2026-03-14T18:00:00Z", AdministeredAt: "2026-03-14T18:30:00Z"},
	}
}
