package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/optimisable/internal/models"
	"github.com/julianstephens/optimisable/internal/render"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateSchedule:
		content = m.viewSchedule()
	case StateInputs:
		content = m.viewInputs()
	case StateAssistant:
		content = m.viewAssistant()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m.keys),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewSchedule() string {
	if _, ok := m.sess.Schedule(); !ok {
		return mutedStyle.Render("No schedule yet.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.schedule.View(), "", m.summary)
}

func (m Model) viewInputs() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.staff.View(), "   ", m.demand.View())
}

func (m Model) viewAssistant() string {
	var b strings.Builder
	history := m.sess.History()
	if len(history) > 0 {
		b.WriteString("Conversation History\n\n")
		for i := len(history) - 1; i >= 0; i-- {
			b.WriteString(youStyle.Render("You: ") + history[i].Request + "\n")
			reply := history[i].Reply
			if history[i].Applied {
				reply = successStyle.Render(reply)
			}
			b.WriteString("AI:  " + reply + "\n\n")
		}
	}
	b.WriteString(m.input.View())
	return b.String()
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return dangerStyle.Render(m.status)
	}
	return mutedStyle.Render(m.status)
}

func summaryLine(s models.Schedule) string {
	return render.CostSummary(s)
}
