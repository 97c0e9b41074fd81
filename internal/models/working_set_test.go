package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func sampleWorkingSet() WorkingSet {
	return WorkingSet{
		Staff: []StaffMember{
			{Name: "Staff 1", DailyCost: decimal.NewFromInt(100), MinWorkDays: 3, MaxWorkDays: 5},
			{Name: "Staff 2", DailyCost: decimal.NewFromInt(90), MinWorkDays: 2, MaxWorkDays: 4},
		},
		Demand: []DemandEntry{
			{Day: "Mon", RequiredCount: 1},
			{Day: "Tue", RequiredCount: 2},
			{Day: "Mon", RequiredCount: 9},
		},
	}
}

func TestWorkingSet_CloneIsIndependent(t *testing.T) {
	ws := sampleWorkingSet()
	clone := ws.Clone()
	clone.Staff[0].MinWorkDays = 0
	clone.Demand[1].RequiredCount = 7

	if ws.Staff[0].MinWorkDays != 3 || ws.Demand[1].RequiredCount != 2 {
		t.Error("mutating the clone changed the original")
	}
}

func TestWorkingSet_Lookups(t *testing.T) {
	ws := sampleWorkingSet()

	if i, ok := ws.StaffIndex("Staff 2"); !ok || i != 1 {
		t.Errorf("StaffIndex(Staff 2) = %d, %v", i, ok)
	}
	if _, ok := ws.StaffIndex("staff 2"); ok {
		t.Error("staff lookup should be exact")
	}
	if i, ok := ws.DemandIndex("Mon"); !ok || i != 0 {
		t.Errorf("DemandIndex(Mon) = %d, %v, want first match 0", i, ok)
	}
	if _, ok := ws.DemandIndex("Fri"); ok {
		t.Error("unexpected match for Fri")
	}
}

func TestWorkingSet_HorizonAndTotals(t *testing.T) {
	ws := sampleWorkingSet()
	if got := ws.Horizon(); len(got) != 3 || got[1] != "Tue" {
		t.Errorf("Horizon() = %v", got)
	}
	if got := ws.TotalRequired(); got != 12 {
		t.Errorf("TotalRequired() = %d, want 12", got)
	}
}
