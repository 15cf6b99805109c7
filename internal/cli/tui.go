package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/history"
	"github.com/databroom/databroom/pkg/ops"
	"github.com/databroom/databroom/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// sessionPreviewRows is how many rows the session shows.
const sessionPreviewRows = 8

// =============================================================================
// SessionModel - Interactive cleaning session
// =============================================================================

// SaveFunc writes the session result and returns the files it wrote.
type SaveFunc func(p *pipeline.Pipeline) ([]string, error)

// SessionModel is the bubbletea model for an interactive cleaning session.
// Operations are applied with their default parameters; every step can be
// undone.
type SessionModel struct {
	Title    string
	Pipeline *pipeline.Pipeline
	Ops      []*ops.Operation
	Cursor   int
	Status   string
	Failed   bool
	Height   int
	Offset   int

	showHistory bool
	save        SaveFunc
}

// NewSessionModel creates a session over p offering the operations in reg.
// save may be nil, in which case saving is disabled.
func NewSessionModel(title string, p *pipeline.Pipeline, reg *ops.Registry, save SaveFunc) SessionModel {
	return SessionModel{
		Title:    title,
		Pipeline: p,
		Ops:      reg.All(),
		Height:   len(reg.All()),
		save:     save,
	}
}

func (m SessionModel) Init() tea.Cmd {
	return nil
}

func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Ops)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m = m.apply()
		case "u", "backspace":
			m = m.stepBack()
		case "r":
			m = m.reset()
		case "h":
			m.showHistory = !m.showHistory
		case "s":
			m = m.write()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 2*sessionPreviewRows - 8
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m SessionModel) apply() SessionModel {
	op := m.Ops[m.Cursor]
	for _, p := range op.Params {
		if p.Required {
			return m.fail(fmt.Sprintf("%s needs values: use '%s clean --%s' instead", op.Name, appName, op.Flag()))
		}
	}
	out, err := m.Pipeline.Execute(op.Name, history.Args{})
	if err != nil {
		return m.fail(errors.UserMessage(err))
	}
	return m.ok(fmt.Sprintf("%s applied (%d×%d)", op.Name, out.NumRows(), out.NumCols()))
}

func (m SessionModel) stepBack() SessionModel {
	hist := m.Pipeline.History()
	if _, err := m.Pipeline.StepBack(); err != nil {
		return m.fail(errors.UserMessage(err))
	}
	return m.ok(fmt.Sprintf("undid %s", hist[len(hist)-1].Name))
}

func (m SessionModel) reset() SessionModel {
	n := 0
	for m.Pipeline.CanStepBack() {
		if _, err := m.Pipeline.StepBack(); err != nil {
			return m.fail(errors.UserMessage(err))
		}
		n++
	}
	return m.ok(fmt.Sprintf("reset to the original table (%d steps undone)", n))
}

func (m SessionModel) write() SessionModel {
	if m.save == nil {
		return m.fail("nothing to save to: start the session with -o or -c")
	}
	files, err := m.save(m.Pipeline)
	if err != nil {
		return m.fail(errors.UserMessage(err))
	}
	return m.ok("saved " + strings.Join(files, ", "))
}

func (m SessionModel) ok(status string) SessionModel {
	m.Status, m.Failed = status, false
	return m
}

func (m SessionModel) fail(status string) SessionModel {
	m.Status, m.Failed = status, true
	return m
}

func (m SessionModel) View() string {
	var b strings.Builder
	cur := m.Pipeline.Current()

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d rows × %d cols · %d operations",
		cur.NumRows(), cur.NumCols(), m.Pipeline.OperationCount())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ apply  u undo  r reset  h history  s save  q quit"))
	b.WriteString("\n\n")

	if m.showHistory {
		b.WriteString(panelStyle.Render(m.historyView()))
	} else {
		b.WriteString(renderPreview(cur, sessionPreviewRows))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Ops))
	for i := m.Offset; i < end; i++ {
		op := m.Ops[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-26s %s", cursor, op.Name, listDimStyle.Render(op.Summary))
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.Status != "" {
		b.WriteString("\n")
		if m.Failed {
			b.WriteString(styleIconError.Render(iconError) + " " + m.Status)
		} else {
			b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + m.Status)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m SessionModel) historyView() string {
	hist := m.Pipeline.History()
	if len(hist) == 0 {
		return listDimStyle.Render("no operations applied")
	}
	lines := make([]string, len(hist))
	for i, r := range hist {
		lines[i] = fmt.Sprintf("%d. %s", i+1, r.String())
	}
	return strings.Join(lines, "\n")
}
