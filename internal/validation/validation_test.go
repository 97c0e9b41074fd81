package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/optimisable/internal/models"
)

func staff(name string, cost int64, lo, hi int) models.StaffMember {
	return models.StaffMember{Name: name, DailyCost: decimal.NewFromInt(cost), MinWorkDays: lo, MaxWorkDays: hi}
}

func week(counts ...int) []models.DemandEntry {
	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	out := make([]models.DemandEntry, len(counts))
	for i, c := range counts {
		out[i] = models.DemandEntry{Day: days[i], RequiredCount: c}
	}
	return out
}

func hasConflict(result ValidationResult, ct ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}

func TestValidateWorkingSet_Clean(t *testing.T) {
	ws := models.WorkingSet{
		Staff:  []models.StaffMember{staff("Staff 1", 100, 3, 5), staff("Staff 2", 100, 3, 5)},
		Demand: week(1, 1, 1, 1, 1, 1, 1),
	}

	result := New().ValidateWorkingSet(ws)
	if result.HasConflicts() {
		t.Fatalf("unexpected conflicts: %s", result.FormatReport())
	}
	if err := result.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", result.FormatReport())
	}
}

func TestValidateWorkingSet_NoStaff(t *testing.T) {
	result := New().ValidateWorkingSet(models.WorkingSet{Demand: week(1)})

	if !hasConflict(result, ConflictNoStaff) {
		t.Fatal("expected no_staff conflict")
	}
	if err := result.Err(); !errors.Is(err, ErrNoStaff) {
		t.Errorf("Err() = %v, want ErrNoStaff", err)
	}
}

func TestValidateWorkingSet_DuplicateNames(t *testing.T) {
	ws := models.WorkingSet{
		Staff:  []models.StaffMember{staff("Staff 1", 100, 0, 5), staff("Staff 1", 90, 0, 5), staff("Staff 1", 80, 0, 5)},
		Demand: week(1, 1),
	}

	result := New().ValidateWorkingSet(ws)
	count := 0
	for _, c := range result.Conflicts {
		if c.Type == ConflictDuplicateStaffName {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate conflicts = %d, want 1 per repeated name", count)
	}
	if err := result.Err(); !errors.Is(err, ErrDuplicateStaff) {
		t.Errorf("Err() = %v, want ErrDuplicateStaff", err)
	}
}

func TestValidateWorkingSet_BlockingValues(t *testing.T) {
	ws := models.WorkingSet{
		Staff:  []models.StaffMember{staff("Staff 1", -5, -1, 5)},
		Demand: week(1),
	}

	result := New().ValidateWorkingSet(ws)
	if !hasConflict(result, ConflictNegativeCost) || !hasConflict(result, ConflictNegativeMinDays) {
		t.Fatalf("expected negative cost and min conflicts, got %s", result.FormatReport())
	}
	if err := result.Err(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Err() = %v, want ErrInvalidInput", err)
	}
	if result.Conflicts[0].Severity != SeverityBlocking {
		t.Error("blocking conflicts should be sorted first")
	}
}

func TestValidateWorkingSet_Warnings(t *testing.T) {
	tests := []struct {
		name string
		ws   models.WorkingSet
		want ConflictType
	}{
		{
			name: "min above max",
			ws:   models.WorkingSet{Staff: []models.StaffMember{staff("A", 1, 4, 2)}, Demand: week(1, 1, 1, 1)},
			want: ConflictMinAboveMax,
		},
		{
			name: "max above horizon",
			ws:   models.WorkingSet{Staff: []models.StaffMember{staff("A", 1, 0, 9)}, Demand: week(1, 1)},
			want: ConflictMaxAboveHorizon,
		},
		{
			name: "duplicate day",
			ws: models.WorkingSet{
				Staff:  []models.StaffMember{staff("A", 1, 0, 2)},
				Demand: []models.DemandEntry{{Day: "Fri", RequiredCount: 1}, {Day: "Fri", RequiredCount: 0}},
			},
			want: ConflictDuplicateDay,
		},
		{
			name: "unknown day",
			ws: models.WorkingSet{
				Staff:  []models.StaffMember{staff("A", 1, 0, 1)},
				Demand: []models.DemandEntry{{Day: "Funday", RequiredCount: 1}},
			},
			want: ConflictUnknownDay,
		},
		{
			name: "negative demand",
			ws:   models.WorkingSet{Staff: []models.StaffMember{staff("A", 1, 0, 1)}, Demand: week(-1)},
			want: ConflictNegativeDemand,
		},
		{
			name: "day needs more staff than exist",
			ws:   models.WorkingSet{Staff: []models.StaffMember{staff("A", 1, 0, 1)}, Demand: week(2)},
			want: ConflictUnderstaffedDay,
		},
		{
			name: "capacity below demand",
			ws: models.WorkingSet{
				Staff:  []models.StaffMember{staff("A", 1, 0, 2), staff("B", 1, 0, 2)},
				Demand: week(1, 1, 1, 1, 1),
			},
			want: ConflictUndercapacity,
		},
		{
			name: "minimums above demand",
			ws: models.WorkingSet{
				Staff:  []models.StaffMember{staff("A", 1, 3, 3), staff("B", 1, 3, 3)},
				Demand: week(1, 1, 1),
			},
			want: ConflictOvercommitted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateWorkingSet(tt.ws)
			if !hasConflict(result, tt.want) {
				t.Fatalf("expected %s, got %s", tt.want, result.FormatReport())
			}
			if err := result.Err(); err != nil {
				t.Errorf("warnings must not block: %v", err)
			}
			if !strings.Contains(result.FormatReport(), "[warning]") {
				t.Errorf("report should tag warnings: %q", result.FormatReport())
			}
		})
	}
}
