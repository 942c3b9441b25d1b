package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"relaymap/pkg/relay"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)

// GraphViewModel is the bubbletea model for browsing a relay graph.
// The cursor moves through nodes in insertion order; enter toggles the
// expanded state of the selected node.
type GraphViewModel struct {
	Graph  *relay.Graph
	Cursor int
	Height int
	Offset int
}

// NewGraphViewModel creates a viewer over g.
func NewGraphViewModel(g *relay.Graph) GraphViewModel {
	return GraphViewModel{
		Graph:  g,
		Height: 15,
	}
}

func (m GraphViewModel) Init() tea.Cmd {
	return nil
}

func (m GraphViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Graph.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if m.Cursor < len(m.Graph.Nodes) {
				n := &m.Graph.Nodes[m.Cursor]
				if n.Expanded {
					n.Collapse()
				} else {
					n.Expand()
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m GraphViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Relay Graph"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  q quit"))
	b.WriteString("\n\n")

	if len(m.Graph.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  (empty graph)"))
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Graph.Nodes) {
		end = len(m.Graph.Nodes)
	}

	for i := m.Offset; i < end; i++ {
		n := m.Graph.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-10s %s", cursor, n.Kind, n.Label)
		switch {
		case i == m.Cursor && n.IsError:
			b.WriteString(listErrorStyle.Render(line))
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case n.IsError:
			b.WriteString(StyleError.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")

		if n.Expanded {
			b.WriteString(m.nodeDetail(n))
		}
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d edges",
		m.Cursor+1, len(m.Graph.Nodes), m.Graph.EdgeCount())))

	return b.String()
}

// nodeDetail renders the expanded block below a node line.
func (m GraphViewModel) nodeDetail(n relay.Node) string {
	var b strings.Builder

	detail := func(format string, args ...any) {
		b.WriteString(listDimStyle.Render("      " + fmt.Sprintf(format, args...)))
		b.WriteString("\n")
	}

	detail("id: %d", n.ID)
	if n.File != "" {
		detail("at: %s:%d:%d", n.File, n.Line, n.Col)
	}
	detail("pos: (%.0f, %.0f)  size: %.0f×%.0f", n.X, n.Y, n.Width, n.Height)

	var in, out int
	for _, e := range m.Graph.Edges {
		if e.Target == n.ID {
			in++
		}
		if e.Source == n.ID {
			out++
		}
	}
	detail("edges: %d in, %d out", in, out)

	return b.String()
}
