package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/layerviz/layerviz/pkg/model"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// layerListModel is the bubbletea model for interactive layer browsing.
type layerListModel struct {
	model  *model.Model
	cursor int
	height int
	offset int
}

// newLayerListModel creates a new layer list model.
func newLayerListModel(m *model.Model) layerListModel {
	return layerListModel{
		model:  m,
		height: 15,
	}
}

func (m layerListModel) Init() tea.Cmd {
	return nil
}

func (m layerListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.model.Layers)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "g", "home":
			m.cursor, m.offset = 0, 0
		case "G", "end":
			m.cursor = len(m.model.Layers) - 1
			if m.cursor >= m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 12
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m layerListModel) View() string {
	var b strings.Builder

	title := m.model.Name
	if title == "" {
		title = "Model Layers"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.model.Layers) == 0 {
		b.WriteString(listDimStyle.Render("  (empty model)"))
		return b.String()
	}

	end := m.offset + m.height
	if end > len(m.model.Layers) {
		end = len(m.model.Layers)
	}

	for i := m.offset; i < end; i++ {
		l := &m.model.Layers[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		label := l.Type
		if l.IsSpacer() {
			label = fmt.Sprintf("(spacing %d)", l.Spacing)
		}
		name := l.Name
		if name == "" {
			name = "—"
		}

		line := fmt.Sprintf("%s%-3d %-24s %s", cursor, i, name, label)
		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case l.IsSpacer():
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detailView())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.model.Layers))))

	return b.String()
}

// detailView renders the detail box for the selected layer.
func (m layerListModel) detailView() string {
	l := &m.model.Layers[m.cursor]

	var lines []string
	add := func(key, value string) {
		if value == "" {
			value = "—"
		}
		lines = append(lines, listDimStyle.Render(fmt.Sprintf("%-8s", key))+StyleValue.Render(value))
	}

	if l.IsSpacer() {
		add("spacing", fmt.Sprintf("%d", l.Spacing))
		return detailBoxStyle.Render(strings.Join(lines, "\n"))
	}

	add("name", l.Name)
	add("type", l.Type)

	shapes := make([]string, len(l.OutputShapes))
	for i, s := range l.OutputShapes {
		shapes[i] = s.String()
	}
	add("shape", strings.Join(shapes, ", "))

	if l.Units > 0 {
		add("units", fmt.Sprintf("%d", l.Units))
	}
	if len(l.Inputs) > 0 {
		add("inputs", strings.Join(l.Inputs, ", "))
	}

	return detailBoxStyle.Render(strings.Join(lines, "\n"))
}
