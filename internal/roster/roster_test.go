package roster

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func testRegistry(t *testing.T, rate float64, seed int64) *Registry {
	t.Helper()
	r, err := New(DefaultRoster(), rate, seed)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNew_RejectsBadInput(t *testing.T) {
	if _, err := New(DefaultRoster(), 1.5, 1); err == nil {
		t.Error("rate above 1 accepted")
	}
	if _, err := New(DefaultRoster(), -0.1, 1); err == nil {
		t.Error("negative rate accepted")
	}
	if _, err := New(nil, 0.4, 1); err == nil {
		t.Error("empty roster accepted")
	}
	dup := []Role{{Name: "X"}, {Name: "X"}}
	if _, err := New(dup, 0.4, 1); err == nil {
		t.Error("duplicate role accepted")
	}
}

func TestNew_SameSeedSameDraw(t *testing.T) {
	a := testRegistry(t, 0.4, 42)
	b := testRegistry(t, 0.4, 42)

	availA, unavailA := a.ListAll()
	availB, unavailB := b.ListAll()
	if !reflect.DeepEqual(availA, availB) || !reflect.DeepEqual(unavailA, unavailB) {
		t.Errorf("same seed drew different maps: %v/%v vs %v/%v", availA, unavailA, availB, unavailB)
	}
}

func TestNew_RateExtremes(t *testing.T) {
	allIn, _ := New(DefaultSpecialists(), 1.0, 7)
	if _, unavailable := allIn.ListAll(); len(unavailable) != 0 {
		t.Errorf("rate 1.0 left roles unavailable: %v", unavailable)
	}
	allOut, _ := New(DefaultSpecialists(), 0.0, 7)
	if available, _ := allOut.ListAll(); len(available) != 0 {
		t.Errorf("rate 0.0 made roles available: %v", available)
	}
}

func TestNew_CoreTeamAlwaysAvailable(t *testing.T) {
	r, _ := New(DefaultRoster(), 0.0, 99)
	for _, role := range DefaultCoreTeam() {
		if res := r.Check(role.Name); !res.Available {
			t.Errorf("core role %s unavailable at rate 0", role.Name)
		}
	}
}

func TestRate(t *testing.T) {
	r := testRegistry(t, 0.4, 42)
	if got := r.Rate(); got != 0.4 {
		t.Errorf("Rate = %v, want 0.4", got)
	}
}

func TestCheck_StableWithinRun(t *testing.T) {
	r := testRegistry(t, 0.4, 42)
	first := r.Check("Oncology Pharmacist").Available
	for i := 0; i < 10; i++ {
		if got := r.Check("Oncology Pharmacist").Available; got != first {
			t.Fatalf("availability flipped from %v to %v on repeated checks", first, got)
		}
	}
}

func TestCheck_UnknownRole(t *testing.T) {
	r := testRegistry(t, 0.4, 42)
	res := r.Check("Pediatric Specialist")
	if res.Available {
		t.Error("unknown role reported available")
	}
	if !strings.Contains(res.Message, "Unknown role") {
		t.Errorf("message = %q, want an unknown-role explanation", res.Message)
	}
}

func TestCheck_AppendsToLog(t *testing.T) {
	r := testRegistry(t, 0.4, 42)
	r.Check("Clinical Pharmacist")
	r.Check("Oncology Pharmacist")

	log := r.Log()
	if len(log) != 2 {
		t.Fatalf("check log has %d entries, want 2", len(log))
	}
	if log[0].Ordinal != 1 || log[1].Ordinal != 2 {
		t.Errorf("ordinals = %d, %d; want 1, 2", log[0].Ordinal, log[1].Ordinal)
	}
	if log[0].Role != "Clinical Pharmacist" {
		t.Errorf("log[0].Role = %q", log[0].Role)
	}
}

func TestEnforceBeforeDelegate(t *testing.T) {
	r := testRegistry(t, 0.4, 42)

	available, unavailable := r.ListAll()
	if len(available) == 0 || len(unavailable) == 0 {
		t.Skipf("seed 42 drew a degenerate roster: %d available, %d unavailable", len(available), len(unavailable))
	}

	if err := r.EnforceBeforeDelegate(available[0]); err != nil {
		t.Errorf("delegation to available role refused: %v", err)
	}

	// An unavailable role must always be refused, never pass.
	for i := 0; i < 5; i++ {
		err := r.EnforceBeforeDelegate(unavailable[0])
		var viol *AvailabilityViolation
		if !errors.As(err, &viol) {
			t.Fatalf("err = %v, want AvailabilityViolation", err)
		}
		if viol.Role != unavailable[0] || viol.Reason != "unavailable" {
			t.Errorf("violation = %+v", viol)
		}
	}
}

func TestEnforceBeforeDelegate_UnknownRole(t *testing.T) {
	r := testRegistry(t, 0.4, 42)
	err := r.EnforceBeforeDelegate("Pediatric Specialist")
	var viol *AvailabilityViolation
	if !errors.As(err, &viol) {
		t.Fatalf("err = %v, want AvailabilityViolation", err)
	}
	if viol.Reason != "unknown role" {
		t.Errorf("reason = %q, want unknown role", viol.Reason)
	}
}
