package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/optimisable/internal/instruction"
	"github.com/julianstephens/optimisable/internal/scenario"
	"github.com/julianstephens/optimisable/internal/scheduler"
	"github.com/julianstephens/optimisable/internal/session"
)

func newTestModel() Model {
	sess := session.New(scheduler.New(nil), instruction.NewPipeline(nil), scenario.Default())
	return NewModel(sess, 0)
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSolveFromKeyboard(t *testing.T) {
	m := newTestModel()
	if !strings.Contains(m.View(), "No schedule yet") {
		t.Fatalf("initial view:\n%s", m.View())
	}

	m, cmd := press(t, m, runes("s"))
	if cmd == nil || !m.busy {
		t.Fatal("s should start an optimisation")
	}
	m, _ = press(t, m, cmd())

	if m.busy || m.statusErr {
		t.Fatalf("status = %q (err=%v)", m.status, m.statusErr)
	}
	view := m.View()
	for _, want := range []string{"Staff 7", "Total Days", "£2,500"} {
		if !strings.Contains(view, want) {
			t.Errorf("schedule view missing %q:\n%s", want, view)
		}
	}
}

func TestInstructBeforeSolve(t *testing.T) {
	m := newTestModel()
	m, _ = press(t, m, runes("i"))
	if m.state != StateAssistant || !m.input.Focused() {
		t.Fatal("i should focus the assistant input")
	}
	m.input.SetValue("Set Friday staff requirement to 2")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, cmd())

	if !m.statusErr || !strings.Contains(m.status, "run the optimisation first") {
		t.Errorf("status = %q", m.status)
	}
}

func TestInstructAppliesChange(t *testing.T) {
	m := newTestModel()
	m, cmd := press(t, m, runes("s"))
	m, _ = press(t, m, cmd())

	m, _ = press(t, m, runes("i"))
	m.input.SetValue("Reduce Friday staff requirement by 1")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.input.Value() != "" {
		t.Error("input should be cleared after sending")
	}
	m, _ = press(t, m, cmd())

	if m.statusErr || m.status != "Updated Fri staff requirement by -1 → 2." {
		t.Fatalf("status = %q", m.status)
	}
	if !strings.Contains(m.View(), "Reduce Friday staff requirement by 1") {
		t.Error("assistant view should show the exchange")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != StateInputs {
		t.Fatalf("state = %d, want inputs", m.state)
	}
	if !strings.Contains(m.View(), "Staff Required") {
		t.Errorf("inputs view:\n%s", m.View())
	}
}

func TestTabsAndQuit(t *testing.T) {
	m := newTestModel()
	for i := 0; i < tabCount; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.state != StateSchedule {
		t.Errorf("state after full cycle = %d", m.state)
	}

	m, cmd := press(t, m, runes("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("q should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
