package models

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/optimisable/internal/constants"
)

// ScheduleStatus is the outcome of one optimisation run
type ScheduleStatus string

const (
	StatusOptimal    ScheduleStatus = "optimal"
	StatusInfeasible ScheduleStatus = "infeasible"
	// StatusTimedOut means the solve was interrupted by the caller's deadline.
	// It is reported like an infeasible run pending investigation.
	StatusTimedOut ScheduleStatus = "timed_out"
)

// ScheduleRow is one staff member's week
type ScheduleRow struct {
	Name      string          `json:"name"`
	Work      []int           `json:"work"` // 1 if working, aligned with Schedule.Days
	TotalDays int             `json:"total_days"`
	Cost      decimal.Decimal `json:"cost"`
}

// Schedule is the result of one optimisation run. It is superseded, never merged, by the next run.
type Schedule struct {
	RunID       string          `json:"run_id"`
	Solver      string          `json:"solver"`
	Status      ScheduleStatus  `json:"status"`
	Reason      string          `json:"reason,omitempty"`
	Days        []string        `json:"days"`
	Rows        []ScheduleRow   `json:"rows,omitempty"`
	DailyTotals []int           `json:"daily_totals,omitempty"`
	TotalDays   int             `json:"total_days"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	SolvedAt    time.Time       `json:"solved_at"`
	Elapsed     time.Duration   `json:"elapsed"`
}

// Feasible reports whether the run produced an assignment
func (s Schedule) Feasible() bool {
	return s.Status == StatusOptimal
}

// Row returns the row for the named staff member
func (s Schedule) Row(name string) (ScheduleRow, bool) {
	for _, r := range s.Rows {
		if r.Name == name {
			return r, true
		}
	}
	return ScheduleRow{}, false
}

// WorkingOn lists the staff assigned to day, in row order
func (s Schedule) WorkingOn(day string) []string {
	col := -1
	for i, d := range s.Days {
		if d == day {
			col = i
			break
		}
	}
	if col < 0 {
		return nil
	}
	var names []string
	for _, r := range s.Rows {
		if r.Work[col] == 1 {
			names = append(names, r.Name)
		}
	}
	return names
}

// Table is the tabular rendering of a schedule
type Table struct {
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// TableRow is a labelled row of formatted cells aligned with Table.Columns
type TableRow struct {
	Label string   `json:"label"`
	Cells []string `json:"cells"`
}

// Table renders the schedule as rows of staff plus a "Total" row and columns of days plus
// "Total Days" and "Cost". Runs without an assignment become a single "Message" cell.
func (s Schedule) Table() Table {
	if !s.Feasible() {
		return Table{
			Columns: []string{constants.MessageColumn},
			Rows:    []TableRow{{Label: "0", Cells: []string{s.Reason}}},
		}
	}

	columns := make([]string, 0, len(s.Days)+2)
	columns = append(columns, s.Days...)
	columns = append(columns, constants.TotalDaysColumn, constants.CostColumn)

	rows := make([]TableRow, 0, len(s.Rows)+1)
	for _, r := range s.Rows {
		cells := make([]string, 0, len(columns))
		for _, w := range r.Work {
			cells = append(cells, strconv.Itoa(w))
		}
		cells = append(cells, strconv.Itoa(r.TotalDays), FormatMoney(r.Cost))
		rows = append(rows, TableRow{Label: r.Name, Cells: cells})
	}

	summary := make([]string, 0, len(columns))
	for _, n := range s.DailyTotals {
		summary = append(summary, strconv.Itoa(n))
	}
	summary = append(summary, strconv.Itoa(s.TotalDays), FormatMoney(s.TotalCost))
	rows = append(rows, TableRow{Label: constants.TotalLabel, Cells: summary})

	return Table{Columns: columns, Rows: rows}
}

// CSV encodes the table with a leading unnamed label column
func (t Table) CSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(append([]string{""}, t.Columns...)); err != nil {
		return "", err
	}
	for _, r := range t.Rows {
		if err := w.Write(append([]string{r.Label}, r.Cells...)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatMoney prints whole amounts without decimals and anything else with two places
func FormatMoney(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.String()
	}
	return d.StringFixed(2)
}
