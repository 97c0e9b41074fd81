package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/optimisable/internal/session"
)

const tabCount = 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(20, msg.Width-8)
		return m, nil

	case solvedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.showSchedule(msg.schedule)
		if msg.schedule.Feasible() {
			m.setStatus("Optimisation complete.", false)
		} else {
			m.setStatus(msg.schedule.Reason, true)
		}
		return m, nil

	case instructedMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, session.ErrNotSolved) {
				m.setStatus("Please run the optimisation first before chatting.", true)
			} else {
				m.setStatus(msg.err.Error(), true)
			}
			return m, nil
		}
		out := msg.outcome
		m.setStatus(out.Reply, out.Interpretation.Instruction != nil && !out.Result.Applied)
		if out.Schedule != nil {
			m.showSchedule(*out.Schedule)
			m.refreshInputs()
		}
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Send):
		text := m.input.Value()
		if m.busy || text == "" {
			return m, nil
		}
		m.input.SetValue("")
		m.busy = true
		m.setStatus("Thinking…", false)
		return m, m.instructCmd(text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Solve):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setStatus("Optimising…", false)
		return m, m.solveCmd()
	case key.Matches(msg, m.keys.Chat):
		m.state = StateAssistant
		return m, tea.Batch(m.input.Focus(), textinput.Blink)
	}

	var cmd tea.Cmd
	switch m.state {
	case StateSchedule:
		m.schedule, cmd = m.schedule.Update(msg)
	case StateInputs:
		m.staff, cmd = m.staff.Update(msg)
	}
	return m, cmd
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}
