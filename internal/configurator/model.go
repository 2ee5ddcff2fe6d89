package configurator

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/linebatch/internal/lines"
)

const undoCommand = "undo"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
	lineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// model is the bubbletea state for one video's line entry.
type model struct {
	video   string
	width   int
	height  int
	preview string

	input   textinput.Model
	lines   lines.Set
	err     error
	done    bool
	aborted bool
}

func newModel(video string, width, height int, preview string) model {
	ti := textinput.New()
	ti.Placeholder = "x1,y1 x2,y2 [label]"
	ti.CharLimit = 120
	ti.Width = 40
	ti.Focus()

	return model{
		video:   video,
		width:   width,
		height:  height,
		preview: preview,
		input:   ti,
		lines:   lines.Set{},
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEsc:
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles one entered line: blank finishes, "undo" drops the last
// line, anything else must parse and fit inside the frame.
func (m model) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	m.err = nil

	switch {
	case value == "":
		m.done = true
		return m, tea.Quit
	case strings.EqualFold(value, undoCommand):
		if len(m.lines) > 0 {
			m.lines = m.lines[:len(m.lines)-1]
		}
		return m, nil
	}

	l, err := lines.Parse(value, fmt.Sprintf("line%d", len(m.lines)+1))
	if err == nil && m.width > 0 && m.height > 0 {
		err = l.Within(m.width, m.height)
	}
	if err != nil {
		m.err = err
		return m, nil
	}
	m.lines = append(m.lines, l)
	return m, nil
}

func (m model) View() string {
	if m.done || m.aborted {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Counting lines for "+m.video) + "\n")
	if m.width > 0 && m.height > 0 {
		fmt.Fprintf(&b, "Frame: %dx%d\n", m.width, m.height)
	}
	if m.preview != "" {
		fmt.Fprintf(&b, "Preview: %s\n", m.preview)
	}
	b.WriteString("\n")

	for i, l := range m.lines {
		b.WriteString(lineStyle.Render(fmt.Sprintf("  %d. %s", i+1, l)) + "\n")
	}
	if len(m.lines) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.input.View() + "\n")
	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString(hintStyle.Render("enter: add line · blank enter/esc: done · undo: drop last · ctrl+c: abort") + "\n")
	return b.String()
}
