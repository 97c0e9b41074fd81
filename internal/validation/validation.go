package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/models"
)

var (
	// ErrNoStaff is returned when there is nobody to schedule
	ErrNoStaff = errors.New("at least one staff member is required")
	// ErrDuplicateStaff is returned when two staff members share a name
	ErrDuplicateStaff = errors.New("staff names must be unique")
	// ErrInvalidInput is returned for values the model cannot represent
	ErrInvalidInput = errors.New("invalid scheduling input")
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictNoStaff            ConflictType = "no_staff"
	ConflictEmptyStaffName     ConflictType = "empty_staff_name"
	ConflictDuplicateStaffName ConflictType = "duplicate_staff_name"
	ConflictNegativeCost       ConflictType = "negative_cost"
	ConflictNegativeMinDays    ConflictType = "negative_min_days"
	ConflictMinAboveMax        ConflictType = "min_above_max"
	ConflictMaxAboveHorizon    ConflictType = "max_above_horizon"
	ConflictDuplicateDay       ConflictType = "duplicate_day"
	ConflictUnknownDay         ConflictType = "unknown_day"
	ConflictNegativeDemand     ConflictType = "negative_demand"
	ConflictUnderstaffedDay    ConflictType = "understaffed_day"
	ConflictUndercapacity      ConflictType = "undercapacity"
	ConflictOvercommitted      ConflictType = "overcommitted"
)

// Severity tells whether a conflict stops the optimisation from running
type Severity string

const (
	// SeverityBlocking conflicts are rejected before a model is built
	SeverityBlocking Severity = "blocking"
	// SeverityWarning conflicts are modelled as-is and usually end in an infeasible report
	SeverityWarning Severity = "warning"
)

// Conflict represents a detected problem in the working set
type Conflict struct {
	Type        ConflictType `json:"type"`
	Severity    Severity     `json:"severity"`
	Description string       `json:"description"`
	Items       []string     `json:"items,omitempty"` // staff names or day labels involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Blocking returns the conflicts that prevent solving
func (vr *ValidationResult) Blocking() []Conflict {
	var out []Conflict
	for _, c := range vr.Conflicts {
		if c.Severity == SeverityBlocking {
			out = append(out, c)
		}
	}
	return out
}

// Err converts blocking conflicts into an error wrapping the matching sentinel.
// Warnings never produce an error.
func (vr *ValidationResult) Err() error {
	blocking := vr.Blocking()
	if len(blocking) == 0 {
		return nil
	}
	descriptions := make([]string, len(blocking))
	for i, c := range blocking {
		descriptions[i] = c.Description
	}
	sentinel := ErrInvalidInput
	switch blocking[0].Type {
	case ConflictNoStaff:
		sentinel = ErrNoStaff
	case ConflictDuplicateStaffName:
		sentinel = ErrDuplicateStaff
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(descriptions, "; "))
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- [%s] %s\n", conflict.Severity, conflict.Description)
	}
	return b.String()
}

// Validator validates working sets for conflicts
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateWorkingSet checks staff and demand records. Blocking conflicts come first.
func (v *Validator) ValidateWorkingSet(ws models.WorkingSet) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	horizon := len(ws.Demand)

	if len(ws.Staff) == 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictNoStaff,
			Severity:    SeverityBlocking,
			Description: "At least one staff member is required.",
		})
	}

	// Check for duplicate staff names
	seen := make(map[string]int)
	for _, s := range ws.Staff {
		if strings.TrimSpace(s.Name) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyStaffName,
				Severity:    SeverityBlocking,
				Description: "Staff member with an empty name.",
			})
			continue
		}
		seen[s.Name]++
		if seen[s.Name] == 2 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateStaffName,
				Severity:    SeverityBlocking,
				Description: fmt.Sprintf("Duplicate staff name: %q", s.Name),
				Items:       []string{s.Name},
			})
		}
	}

	sumMin, sumMax := 0, 0
	for _, s := range ws.Staff {
		if s.DailyCost.IsNegative() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNegativeCost,
				Severity:    SeverityBlocking,
				Description: fmt.Sprintf("%s has a negative daily cost (%s).", s.Name, s.DailyCost),
				Items:       []string{s.Name},
			})
		}
		if s.MinWorkDays < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNegativeMinDays,
				Severity:    SeverityBlocking,
				Description: fmt.Sprintf("%s has a negative minimum of %d working days.", s.Name, s.MinWorkDays),
				Items:       []string{s.Name},
			})
		}
		if s.MinWorkDays > s.MaxWorkDays {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMinAboveMax,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("%s must work at least %d days but at most %d.", s.Name, s.MinWorkDays, s.MaxWorkDays),
				Items:       []string{s.Name},
			})
		}
		if s.MaxWorkDays > horizon {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMaxAboveHorizon,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("%s may work up to %d days but the horizon has %d.", s.Name, s.MaxWorkDays, horizon),
				Items:       []string{s.Name},
			})
		}
		sumMin += max(s.MinWorkDays, 0)
		sumMax += max(min(s.MaxWorkDays, horizon), 0)
	}

	days := make(map[string]int)
	for _, d := range ws.Demand {
		days[d.Day]++
		if days[d.Day] == 2 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateDay,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("Day %q appears more than once; instructions only reach the first entry.", d.Day),
				Items:       []string{d.Day},
			})
		}
		if !slices.Contains(constants.Weekdays, d.Day) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownDay,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("Day %q is not one of %s.", d.Day, strings.Join(constants.Weekdays, ", ")),
				Items:       []string{d.Day},
			})
		}
		if d.RequiredCount < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNegativeDemand,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("%s requires %d staff.", d.Day, d.RequiredCount),
				Items:       []string{d.Day},
			})
		}
		if d.RequiredCount > len(ws.Staff) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnderstaffedDay,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("%s requires %d staff but only %d exist.", d.Day, d.RequiredCount, len(ws.Staff)),
				Items:       []string{d.Day},
			})
		}
	}

	required := ws.TotalRequired()
	if len(ws.Staff) > 0 && sumMax < required {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictUndercapacity,
			Severity:    SeverityWarning,
			Description: fmt.Sprintf("Demand totals %d staff-days but staff can work at most %d.", required, sumMax),
		})
	}
	if sumMin > required {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictOvercommitted,
			Severity:    SeverityWarning,
			Description: fmt.Sprintf("Staff minimums total %d days but demand only needs %d.", sumMin, required),
		})
	}

	slices.SortStableFunc(result.Conflicts, func(a, b Conflict) int {
		return severityRank(a.Severity) - severityRank(b.Severity)
	})
	return result
}

func severityRank(s Severity) int {
	if s == SeverityBlocking {
		return 0
	}
	return 1
}
