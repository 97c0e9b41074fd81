package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/models"
	"github.com/julianstephens/optimisable/internal/session"
	"github.com/julianstephens/optimisable/internal/tui/components/grid"
)

type SessionState int

const (
	StateSchedule SessionState = iota
	StateInputs
	StateAssistant
)

var tabTitles = []string{"Schedule", "Inputs", "Assistant"}

type solvedMsg struct {
	schedule models.Schedule
	err      error
}

type instructedMsg struct {
	request string
	outcome session.Outcome
	err     error
}

type Model struct {
	sess         *session.Session
	solveTimeout time.Duration
	state        SessionState
	keys         KeyMap
	help         help.Model
	schedule     table.Model
	staff        table.Model
	demand       table.Model
	input        textinput.Model
	busy         bool
	status       string
	statusErr    bool
	summary      string
	quitting     bool
	width        int
	height       int
}

func NewModel(sess *session.Session, solveTimeout time.Duration) Model {
	if solveTimeout <= 0 {
		solveTimeout = constants.DefaultSolveTimeout
	}
	sess.SetSolveTimeout(solveTimeout)
	input := textinput.New()
	input.Placeholder = "Ask or instruct (e.g. 'Who works on Friday?' or 'Set Staff 3 cost to 90')"
	input.CharLimit = 256
	input.Width = 80

	m := Model{
		sess:         sess,
		solveTimeout: solveTimeout,
		state:        StateSchedule,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		schedule:     grid.New(12),
		staff:        grid.New(10),
		demand:       grid.New(10),
		input:        input,
		status:       "Press s to run the optimisation.",
	}
	m.refreshInputs()
	if sched, ok := sess.Schedule(); ok {
		m.showSchedule(sched)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) refreshInputs() {
	ws := m.sess.WorkingSet()
	header, rows := grid.Staff(ws)
	grid.Fill(&m.staff, header, rows)
	header, rows = grid.Demand(ws)
	grid.Fill(&m.demand, header, rows)
}

func (m *Model) showSchedule(sched models.Schedule) {
	header, rows := grid.Schedule(sched)
	grid.Fill(&m.schedule, header, rows)
	m.schedule.SetHeight(min(len(rows)+2, 16))
	m.summary = summaryLine(sched)
}

func (m Model) solveCmd() tea.Cmd {
	sess, timeout := m.sess, m.solveTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		sched, err := sess.Solve(ctx)
		return solvedMsg{schedule: sched, err: err}
	}
}

func (m Model) instructCmd(text string) tea.Cmd {
	sess, timeout := m.sess, m.solveTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		out, err := sess.Instruct(ctx, text)
		return instructedMsg{request: text, outcome: out, err: err}
	}
}
