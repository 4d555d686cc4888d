// Package roster gates delegation on per-role availability.
//
// Availability is drawn once at startup — an independent Bernoulli
// trial per role from a seedable source — and never changes within the
// run. Checks are read-only (plus an append-only check log), and the
// single hard failure in the subsystem is EnforceBeforeDelegate on an
// unavailable role. Picking a fallback is the orchestrator's problem,
// by design: this package never substitutes a role on its own.
package roster

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// Role is one delegable capability with its expertise tags.
type Role struct {
	Name      string   `yaml:"name"`
	Expertise []string `yaml:"expertise,omitempty"`
	// AlwaysAvailable skips the Bernoulli draw (core team roles).
	AlwaysAvailable bool `yaml:"always_available,omitempty"`
}

// CheckResult is the outcome of one availability check.
type CheckResult struct {
	Role      string   `json:"role"`
	Available bool     `json:"available"`
	Expertise []string `json:"expertise,omitempty"`
	Message   string   `json:"message"`
}

// CheckRecord is one append-only check log entry.
type CheckRecord struct {
	Ordinal   int    `json:"ordinal"`
	Role      string `json:"role"`
	Available bool   `json:"available"`
}

// AvailabilityViolation is returned when delegation is attempted to an
// unavailable role. It is fatal to that delegation attempt; the caller
// must pick a fallback or abort — never proceed.
type AvailabilityViolation struct {
	Role   string
	Reason string
}

func (e *AvailabilityViolation) Error() string {
	return fmt.Sprintf("delegation to %q refused: %s", e.Role, e.Reason)
}

// Registry holds the drawn availability map for one run. The status map
// is immutable after New; only the check log mutates, under the mutex.
type Registry struct {
	mu     sync.Mutex
	rate   float64
	roles  map[string]Role
	order  []string
	status map[string]bool
	log    []CheckRecord
}

// New draws availability for every role: one independent trial with
// P(available) = rate, in roster order, from a source seeded with seed —
// the same seed always yields the same availability map. Roles marked
// AlwaysAvailable skip the draw. rate must be in [0, 1].
func New(roles []Role, rate float64, seed int64) (*Registry, error) {
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("roster: availability rate %v out of range [0, 1]", rate)
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("roster: no roles given")
	}

	r := &Registry{
		rate:   rate,
		roles:  make(map[string]Role, len(roles)),
		status: make(map[string]bool, len(roles)),
	}
	rng := rand.New(rand.NewSource(seed))
	for _, role := range roles {
		if _, dup := r.roles[role.Name]; dup {
			return nil, fmt.Errorf("roster: duplicate role %q", role.Name)
		}
		r.roles[role.Name] = role
		r.order = append(r.order, role.Name)
		if role.AlwaysAvailable {
			r.status[role.Name] = true
			continue
		}
		r.status[role.Name] = rng.Float64() < rate
	}
	return r, nil
}

// Check reports a role's availability and appends to the check log.
// Unknown roles come back unavailable with a message naming the valid
// roles — not an error, matching how the exercise answers bad lookups.
func (r *Registry) Check(roleName string) CheckResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, known := r.roles[roleName]
	res := CheckResult{Role: roleName}
	switch {
	case !known:
		res.Message = fmt.Sprintf("❌ Unknown role %q. Valid roles are: %s",
			roleName, strings.Join(r.order, ", "))
	case r.status[roleName]:
		res.Available = true
		res.Expertise = role.Expertise
		res.Message = fmt.Sprintf("✅ %s is AVAILABLE for consultation. Expertise: %s",
			roleName, strings.Join(role.Expertise, ", "))
	default:
		res.Expertise = role.Expertise
		res.Message = fmt.Sprintf("❌ %s is UNAVAILABLE (off shift, in surgery, or already engaged). "+
			"You must find an alternative approach.", roleName)
	}

	r.log = append(r.log, CheckRecord{
		Ordinal:   len(r.log) + 1,
		Role:      roleName,
		Available: res.Available,
	})
	return res
}

// ListAll partitions the roster into available and unavailable roles,
// in roster order.
func (r *Registry) ListAll() (available, unavailable []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range r.order {
		if r.status[name] {
			available = append(available, name)
		} else {
			unavailable = append(unavailable, name)
		}
	}
	return available, unavailable
}

// EnforceBeforeDelegate is the pre-delegation check the orchestrator
// must call synchronously before handing work to a role. It returns an
// *AvailabilityViolation for unavailable or unknown roles and never
// substitutes a fallback.
func (r *Registry) EnforceBeforeDelegate(roleName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, known := r.roles[roleName]; !known {
		return &AvailabilityViolation{Role: roleName, Reason: "unknown role"}
	}
	if !r.status[roleName] {
		return &AvailabilityViolation{Role: roleName, Reason: "unavailable"}
	}
	return nil
}

// Rate returns the availability probability the roster was drawn with.
func (r *Registry) Rate() float64 {
	return r.rate
}

// Expertise returns the expertise tags for a role, or nil if unknown.
func (r *Registry) Expertise(roleName string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roles[roleName].Expertise
}

// Log returns a copy of the check log.
func (r *Registry) Log() []CheckRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]CheckRecord, len(r.log))
	copy(cp, r.log)
	return cp
}

// Roles returns the role names in roster order.
func (r *Registry) Roles() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
