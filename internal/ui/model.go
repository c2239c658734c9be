package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	statusTitle = "STATUSTEXT MESSAGES"
	panelTitle  = "SYSTEM STATUS"
	footerHelp  = "c clear data · q quit"

	minPanelWidth = 44
)

type styledLine struct {
	text     string
	styleKey string
}

// Model is the ground-station display: a scrolling status message pane
// on the left and the latest vehicle state panel on the right. It
// mirrors what the dispatch core tells it through sink messages and
// owns no telemetry state of its own: the line count is bounded by the
// core's log capacity, with evictions arriving as DropOldestMsg.
type Model struct {
	requestClear func()

	lines []styledLine
	panel []string

	logView viewport.Model
	width   int
	height  int
	ready   bool
}

// NewModel builds the display model. requestClear is invoked on the
// clear key; the actual wipe arrives back as a ClearMsg once the core
// has processed it.
func NewModel(requestClear func()) Model {
	return Model{
		requestClear: requestClear,
		logView:      viewport.New(80, 20),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "c":
			if m.requestClear != nil {
				m.requestClear()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		return m, nil

	case StatusLineMsg:
		m.lines = append([]styledLine{{text: msg.Line, styleKey: msg.StyleKey}}, m.lines...)
		m.refreshLog()
		return m, nil

	case DropOldestMsg:
		if len(m.lines) > 0 {
			m.lines = m.lines[:len(m.lines)-1]
			m.refreshLog()
		}
		return m, nil

	case SnapshotMsg:
		m.panel = msg.Lines
		return m, nil

	case ClearMsg:
		m.lines = nil
		m.panel = nil
		m.refreshLog()
		return m, nil
	}

	return m, nil
}

func (m *Model) resize() {
	logWidth := m.width - minPanelWidth - 6
	if logWidth < 40 {
		logWidth = 40
	}
	logHeight := m.height - 5
	if logHeight < 5 {
		logHeight = 5
	}
	m.logView.Width = logWidth
	m.logView.Height = logHeight
	m.refreshLog()
}

func (m *Model) refreshLog() {
	rendered := make([]string, len(m.lines))
	for i, line := range m.lines {
		rendered[i] = styleFor(line.styleKey).Render(line.text)
	}
	m.logView.SetContent(strings.Join(rendered, "\n"))
	m.logView.GotoTop()
}

func (m Model) View() string {
	logPane := panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(statusTitle),
		m.logView.View(),
	))

	panelBody := strings.Join(m.panel, "\n")
	statusPane := panelStyle.Width(minPanelWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(panelTitle),
		panelBody,
	))

	top := lipgloss.JoinHorizontal(lipgloss.Top, logPane, " ", statusPane)
	return lipgloss.JoinVertical(lipgloss.Left, top, footerStyle.Render(footerHelp))
}
