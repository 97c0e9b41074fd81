package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/models"
	"github.com/julianstephens/optimisable/internal/solver"
)

func defaultStaff() []models.StaffMember {
	staff := make([]models.StaffMember, 7)
	for i := range staff {
		staff[i] = models.StaffMember{
			Name:        "Staff " + string(rune('1'+i)),
			DailyCost:   decimal.NewFromInt(100),
			MinWorkDays: 3,
			MaxWorkDays: 5,
		}
	}
	return staff
}

func defaultDemand() []models.DemandEntry {
	counts := []int{3, 3, 3, 3, 3, 5, 5}
	demand := make([]models.DemandEntry, len(counts))
	for i, c := range counts {
		demand[i] = models.DemandEntry{Day: constants.Weekdays[i], RequiredCount: c}
	}
	return demand
}

func engines() []*Engine {
	return []*Engine{New(solver.NewFlow()), New(solver.NewBranchBound())}
}

// assertInvariants checks the feasible-schedule guarantees against the inputs
func assertInvariants(t *testing.T, sched models.Schedule, staff []models.StaffMember, demand []models.DemandEntry) {
	t.Helper()
	for j, d := range demand {
		if sched.DailyTotals[j] != d.RequiredCount {
			t.Errorf("%s: %d working, want exactly %d", d.Day, sched.DailyTotals[j], d.RequiredCount)
		}
	}
	total := decimal.Zero
	for i, s := range staff {
		row := sched.Rows[i]
		if row.Name != s.Name {
			t.Fatalf("row %d = %q, want %q", i, row.Name, s.Name)
		}
		if row.TotalDays < s.MinWorkDays || row.TotalDays > s.MaxWorkDays {
			t.Errorf("%s works %d days, want [%d, %d]", s.Name, row.TotalDays, s.MinWorkDays, s.MaxWorkDays)
		}
		want := s.DailyCost.Mul(decimal.NewFromInt(int64(row.TotalDays)))
		if !row.Cost.Equal(want) {
			t.Errorf("%s cost = %s, want %s", s.Name, row.Cost, want)
		}
		total = total.Add(row.Cost)
	}
	if !sched.TotalCost.Equal(total) {
		t.Errorf("TotalCost = %s, want sum of rows %s", sched.TotalCost, total)
	}
}

func TestOptimise_DefaultWeek(t *testing.T) {
	for _, e := range engines() {
		t.Run(e.SolverName(), func(t *testing.T) {
			staff, demand := defaultStaff(), defaultDemand()
			sched, err := e.Optimise(context.Background(), staff, demand)
			if err != nil {
				t.Fatalf("Optimise() error = %v", err)
			}
			if sched.Status != models.StatusOptimal {
				t.Fatalf("Status = %s, want optimal", sched.Status)
			}
			if sched.TotalDays != 25 {
				t.Errorf("TotalDays = %d, want 25", sched.TotalDays)
			}
			if !sched.TotalCost.Equal(decimal.NewFromInt(2500)) {
				t.Errorf("TotalCost = %s, want 2500", sched.TotalCost)
			}
			if sched.RunID == "" || sched.Solver != e.SolverName() {
				t.Errorf("run metadata missing: %+v", sched)
			}
			assertInvariants(t, sched, staff, demand)

			table := sched.Table()
			if len(table.Rows) != 8 || table.Rows[7].Label != constants.TotalLabel {
				t.Errorf("table rows = %d, want 7 staff plus Total", len(table.Rows))
			}
			if got := table.Rows[7].Cells[len(table.Columns)-1]; got != "2500" {
				t.Errorf("total cost cell = %q, want 2500", got)
			}
		})
	}
}

func TestOptimise_RaisedCostShiftsWork(t *testing.T) {
	staff, demand := defaultStaff(), defaultDemand()
	staff[2].DailyCost = decimal.NewFromInt(130)

	for _, e := range engines() {
		sched, err := e.Optimise(context.Background(), staff, demand)
		if err != nil {
			t.Fatalf("%s: Optimise() error = %v", e.SolverName(), err)
		}
		assertInvariants(t, sched, staff, demand)
		row, _ := sched.Row("Staff 3")
		if row.TotalDays != 3 {
			t.Errorf("%s: Staff 3 works %d days, want its minimum 3", e.SolverName(), row.TotalDays)
		}
		// 22 days at 100 plus 3 days at 130
		if !sched.TotalCost.Equal(decimal.NewFromInt(2590)) {
			t.Errorf("%s: TotalCost = %s, want 2590", e.SolverName(), sched.TotalCost)
		}
	}
}

func TestOptimise_FractionalCosts(t *testing.T) {
	staff := []models.StaffMember{
		{Name: "A", DailyCost: decimal.RequireFromString("10.10"), MinWorkDays: 0, MaxWorkDays: 3},
		{Name: "B", DailyCost: decimal.RequireFromString("20.20"), MinWorkDays: 0, MaxWorkDays: 3},
	}
	demand := []models.DemandEntry{{Day: "Mon", RequiredCount: 1}, {Day: "Tue", RequiredCount: 2}}

	sched, err := New(nil).Optimise(context.Background(), staff, demand)
	if err != nil {
		t.Fatalf("Optimise() error = %v", err)
	}
	if !sched.TotalCost.Equal(decimal.RequireFromString("40.40")) {
		t.Errorf("TotalCost = %s, want 40.40", sched.TotalCost)
	}
	if got := models.FormatMoney(sched.TotalCost); got != "40.40" {
		t.Errorf("FormatMoney = %q", got)
	}
}

func TestOptimise_Infeasible(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]models.StaffMember, []models.DemandEntry)
	}{
		{"demand above capacity", func(_ []models.StaffMember, d []models.DemandEntry) { d[5].RequiredCount = 8 }},
		{"negative demand", func(_ []models.StaffMember, d []models.DemandEntry) { d[0].RequiredCount = -1 }},
		{"min above max", func(s []models.StaffMember, _ []models.DemandEntry) { s[0].MinWorkDays = 6 }},
		{"max too low", func(s []models.StaffMember, _ []models.DemandEntry) {
			for i := range s {
				s[i].MaxWorkDays = 3
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staff, demand := defaultStaff(), defaultDemand()
			tt.mutate(staff, demand)
			sched, err := New(nil).Optimise(context.Background(), staff, demand)
			if err != nil {
				t.Fatalf("infeasibility must not be an error: %v", err)
			}
			if sched.Status != models.StatusInfeasible || sched.Reason != constants.MsgInfeasible {
				t.Errorf("got %s / %q", sched.Status, sched.Reason)
			}
			table := sched.Table()
			if len(table.Columns) != 1 || table.Columns[0] != constants.MessageColumn {
				t.Errorf("infeasible table columns = %v", table.Columns)
			}
		})
	}
}

func TestOptimise_Preconditions(t *testing.T) {
	demand := defaultDemand()

	if _, err := New(nil).Optimise(context.Background(), nil, demand); !errors.Is(err, ErrNoStaff) {
		t.Errorf("no staff: error = %v, want ErrNoStaff", err)
	}

	dup := defaultStaff()
	dup[1].Name = dup[0].Name
	if _, err := New(nil).Optimise(context.Background(), dup, demand); !errors.Is(err, ErrDuplicateStaff) {
		t.Errorf("duplicate: error = %v, want ErrDuplicateStaff", err)
	}

	neg := defaultStaff()
	neg[0].DailyCost = decimal.NewFromInt(-1)
	if _, err := New(nil).Optimise(context.Background(), neg, demand); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative cost: error = %v, want ErrInvalidInput", err)
	}
}

type blockingSolver struct{}

func (blockingSolver) Name() string { return "blocking" }

func (blockingSolver) Solve(ctx context.Context, _ solver.Problem) (solver.Solution, error) {
	<-ctx.Done()
	return solver.Solution{}, ctx.Err()
}

func TestOptimise_TimedOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sched, err := New(blockingSolver{}).Optimise(ctx, defaultStaff(), defaultDemand())
	if err != nil {
		t.Fatalf("Optimise() error = %v", err)
	}
	if sched.Status != models.StatusTimedOut || sched.Reason != constants.MsgTimedOut {
		t.Errorf("got %s / %q, want timed_out", sched.Status, sched.Reason)
	}
	if sched.Feasible() {
		t.Error("timed out run must not be feasible")
	}
}
