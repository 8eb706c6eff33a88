// SPDX-License-Identifier: MIT
// Package tui renders a live terminal meter for detected events.
package tui

import (
	"fmt"
	"strings"

	"lightbeat/internal/analysis"
	"lightbeat/internal/engine"
	"lightbeat/internal/transport"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	kindStyles = map[analysis.EventKind]lipgloss.Style{
		analysis.KindBassDrop: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true),
		analysis.KindRhythm:   lipgloss.NewStyle().Foreground(lipgloss.Color("#25A065")).Bold(true),
		analysis.KindVocal:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")).Bold(true),
		analysis.KindBuild:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF5F")).Bold(true),
	}
)

const barWidth = 40

type eventMsg struct {
	ev *engine.Event
}

type meterModel struct {
	ev    *engine.Event
	count int
}

func (m meterModel) Init() tea.Cmd { return nil }

func (m meterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.ev = msg.ev
		m.count++
	case tea.KeyMsg:
		if key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m meterModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("lightbeat"))
	sb.WriteString("\n\n")

	if m.ev == nil {
		sb.WriteString(infoStyle.Render("Listening..."))
	} else {
		style, ok := kindStyles[m.ev.Kind]
		if !ok {
			style = infoStyle
		}
		sb.WriteString(style.Render(fmt.Sprintf("%-9s", m.ev.Kind)))
		sb.WriteString("  ")
		sb.WriteString(renderBar(m.ev.Intensity))
		sb.WriteString(fmt.Sprintf("  %.2f", m.ev.Intensity))
		if m.ev.Tempo > 0 {
			sb.WriteString(fmt.Sprintf("   %d BPM", m.ev.Tempo))
		}
		sb.WriteString(fmt.Sprintf("\n\nEvents: %d", m.count))
	}

	sb.WriteString("\n\n")
	sb.WriteString(infoStyle.Render("q: Quit"))
	return sb.String()
}

func renderBar(intensity float64) string {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	filled := int(intensity * barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// Meter is a live event display. It doubles as a transport so it can be
// wired into the same fanout as the network emitters.
type Meter struct {
	program *tea.Program
}

// NewMeter creates the meter UI. Call Run to start it.
func NewMeter() *Meter {
	return &Meter{
		program: tea.NewProgram(meterModel{}, tea.WithAltScreen()),
	}
}

// Run blocks until the user quits.
func (m *Meter) Run() error {
	_, err := m.program.Run()
	return err
}

// Send forwards an event to the display. Never blocks meaningfully; the
// Bubble Tea queue absorbs bursts.
func (m *Meter) Send(data any) error {
	if ev, ok := data.(*engine.Event); ok {
		m.program.Send(eventMsg{ev: ev})
	}
	return nil
}

// Close quits the UI.
func (m *Meter) Close() error {
	m.program.Quit()
	return nil
}

var _ transport.Transport = (*Meter)(nil)
