package roster

// DefaultSpecialists is the variable-availability roster of the
// medication-audit exercise. The core audit team (records, compliance,
// lab) is modeled separately as always-available roles.
func DefaultSpecialists() []Role {
	return []Role{
		{
			Name:      "Anticoagulation Specialist",
			Expertise: []string{"warfarin", "heparin", "enoxaparin", "INR monitoring"},
		},
		{
			Name:      "Oncology Pharmacist",
			Expertise: []string{"chemotherapy", "immunotherapy", "supportive care"},
		},
		{
			Name:      "Infectious Disease Pharmacist",
			Expertise: []string{"antibiotics", "antivirals", "antimicrobial stewardship"},
		},
		{
			Name:      "ICU Critical Care Pharmacist",
			Expertise: []string{"sedation", "vasopressors", "critical care dosing"},
		},
		{
			Name:      "Cardiology Pharmacist",
			Expertise: []string{"antiarrhythmics", "heart failure", "antihypertensives"},
		},
		{
			Name:      "Clinical Pharmacist",
			Expertise: []string{"general pharmacotherapy", "medication reconciliation"},
		},
	}
}

// DefaultCoreTeam lists the roles that are always on shift.
func DefaultCoreTeam() []Role {
	names := []string{
		"Medication Records Specialist",
		"Patient Data Specialist",
		"Compliance Auditor",
		"Prescription Verifier",
		"Lab Results Specialist",
		"Drug Interaction Analyst",
	}
	roles := make([]Role, len(names))
	for i, n := range names {
		roles[i] = Role{Name: n, AlwaysAvailable: true}
	}
	return roles
}

// DefaultRoster is the full roster: specialists with drawn availability
// plus the always-available core team.
func DefaultRoster() []Role {
	return append(DefaultSpecialists(), DefaultCoreTeam()...)
}
