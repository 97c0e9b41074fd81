// Package grid adapts schedule and input tables to the bubbles table widget.
package grid

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/models"
)

const minColumnWidth = 4

// New returns an empty focused table with the shared styling
func New(height int) table.Model {
	t := table.New(table.WithFocused(true), table.WithHeight(height))
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// Fill replaces the columns and rows of t. Rows are cleared first so a narrower header never
// meets wider rows.
func Fill(t *table.Model, header []string, rows [][]string) {
	cols := make([]table.Column, len(header))
	for i, title := range header {
		width := max(minColumnWidth, runewidth.StringWidth(title))
		for _, r := range rows {
			if i < len(r) {
				width = max(width, runewidth.StringWidth(r[i]))
			}
		}
		cols[i] = table.Column{Title: title, Width: width}
	}
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row(r)
	}
	t.SetRows(nil)
	t.SetColumns(cols)
	t.SetRows(tableRows)
}

// Schedule converts a schedule into header and rows, label column first
func Schedule(s models.Schedule) ([]string, [][]string) {
	tbl := s.Table()
	header := append([]string{""}, tbl.Columns...)
	rows := make([][]string, len(tbl.Rows))
	for i, r := range tbl.Rows {
		rows[i] = append([]string{r.Label}, r.Cells...)
	}
	return header, rows
}

// Staff converts the staff records into header and rows
func Staff(ws models.WorkingSet) ([]string, [][]string) {
	header := []string{constants.FieldStaffName, constants.FieldCost, "Min Days", "Max Days"}
	rows := make([][]string, len(ws.Staff))
	for i, s := range ws.Staff {
		rows[i] = []string{s.Name, models.FormatMoney(s.DailyCost), fmt.Sprint(s.MinWorkDays), fmt.Sprint(s.MaxWorkDays)}
	}
	return header, rows
}

// Demand converts the demand records into header and rows
func Demand(ws models.WorkingSet) ([]string, [][]string) {
	header := []string{"Day", "Staff Required"}
	rows := make([][]string, len(ws.Demand))
	for i, d := range ws.Demand {
		rows[i] = []string{d.Day, fmt.Sprint(d.RequiredCount)}
	}
	return header, rows
}
