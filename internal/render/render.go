// Package render formats schedules and validation reports for the terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/models"
	"github.com/julianstephens/optimisable/internal/validation"
)

// CurrencySymbol prefixes cost summaries
const CurrencySymbol = "£"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	workingStyle = cellStyle.Foreground(lipgloss.Color("42"))
	offStyle     = cellStyle.Foreground(lipgloss.Color("240"))
	totalStyle   = cellStyle.Bold(true)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	// ErrorStyle highlights failures such as infeasible runs
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	// WarningStyle highlights non-blocking issues
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	// SuccessStyle highlights applied changes
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	// MutedStyle is used for secondary text
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Money formats an amount with thousands separators ("£2,500", "£1,234.50")
func Money(d decimal.Decimal) string {
	if d.IsInteger() {
		return CurrencySymbol + humanize.Comma(d.IntPart())
	}
	return CurrencySymbol + humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

// CostSummary is the one line total shown under a schedule
func CostSummary(s models.Schedule) string {
	if !s.Feasible() {
		return ErrorStyle.Render(s.Reason)
	}
	return fmt.Sprintf("Total Weekly Cost: %s across %s staff-days", Money(s.TotalCost), humanize.Comma(int64(s.TotalDays)))
}

// Schedule draws the schedule table with a bordered layout
func Schedule(s models.Schedule) string {
	if !s.Feasible() {
		return ErrorStyle.Render(s.Reason)
	}
	tbl := s.Table()
	rows := make([][]string, len(tbl.Rows))
	for i, r := range tbl.Rows {
		rows[i] = append([]string{r.Label}, r.Cells...)
	}
	last := len(rows) - 1
	days := len(s.Days)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(append([]string{""}, tbl.Columns...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == last:
				return totalStyle
			case col >= 1 && col <= days:
				if rows[row][col] == "1" {
					return workingStyle
				}
				return offStyle
			}
			return cellStyle
		})
	return t.String()
}

// Report renders the table followed by the cost summary
func Report(s models.Schedule) string {
	var b strings.Builder
	b.WriteString(Schedule(s))
	b.WriteString("\n")
	if s.Feasible() {
		b.WriteString(CostSummary(s))
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render(fmt.Sprintf("run %s · %s · %s", s.RunID, s.Solver, s.Elapsed.Round(time.Microsecond))))
		b.WriteString("\n")
	}
	return b.String()
}

// WorkingSet lists the staff and demand inputs
func WorkingSet(ws models.WorkingSet) string {
	staff := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(constants.FieldStaffName, constants.FieldCost, constants.FieldMinDays, constants.FieldMaxDays).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, s := range ws.Staff {
		staff.Row(s.Name, models.FormatMoney(s.DailyCost), fmt.Sprint(s.MinWorkDays), fmt.Sprint(s.MaxWorkDays))
	}

	demand := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Day", "Staff Required").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, d := range ws.Demand {
		demand.Row(d.Day, fmt.Sprint(d.RequiredCount))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, staff.String(), "  ", demand.String())
}

// Conflicts renders a validation result with severity colouring
func Conflicts(result validation.ValidationResult) string {
	if !result.HasConflicts() {
		return SuccessStyle.Render("✓ No conflicts detected.")
	}
	var b strings.Builder
	for _, c := range result.Conflicts {
		style := WarningStyle
		mark := "⚠"
		if c.Severity == validation.SeverityBlocking {
			style = ErrorStyle
			mark = "❌"
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %s", mark, c.Description)))
		b.WriteString("\n")
	}
	return b.String()
}
