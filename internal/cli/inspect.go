package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/layerviz/layerviz/pkg/model"
)

// inspectCommand creates the inspect command for examining model files.
func (c *CLI) inspectCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect [model.json]",
		Short: "Show the layers of a model file",
		Long: `Show the layers of a model file.

The inspect command prints a table of the model's layers with their
declaration index, name, type, primary output shape, unit count, and
graph inputs. With --interactive (-i) it opens a browsable layer list
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if interactive {
				return runLayerBrowser(m)
			}
			printModel(m, args[0])
			printNewline()
			printNextStep("Render", appName+" render "+args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse layers interactively")

	return cmd
}

// printModel prints the model summary and layer table.
func printModel(m *model.Model, path string) {
	title := m.Name
	if title == "" {
		title = path
	}
	fmt.Println(StyleTitle.Render(title))
	printNewline()

	rows := layerRows(m)

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Name", "Type", "Shape", "Units", "Inputs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	fmt.Println(t.Render())

	layers, spacers := 0, 0
	for i := range m.Layers {
		if m.Layers[i].IsSpacer() {
			spacers++
		} else {
			layers++
		}
	}
	summary := fmt.Sprintf("%d layers", layers)
	if spacers > 0 {
		summary += fmt.Sprintf(", %d spacing markers", spacers)
	}
	printDetail("%s", summary)
}

// layerRows converts the model's layers into display rows.
func layerRows(m *model.Model) [][]string {
	rows := make([][]string, 0, len(m.Layers))
	for i := range m.Layers {
		l := &m.Layers[i]
		if l.IsSpacer() {
			rows = append(rows, []string{
				fmt.Sprintf("%d", i), "", fmt.Sprintf("(spacing %d)", l.Spacing), "", "", "",
			})
			continue
		}

		shape, multi := l.PrimaryShape()
		shapeStr := shape.String()
		if multi {
			shapeStr += fmt.Sprintf(" (+%d more)", len(l.OutputShapes)-1)
		}

		units := ""
		if l.Units > 0 {
			units = fmt.Sprintf("%d", l.Units)
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			l.Name,
			l.Type,
			shapeStr,
			units,
			strings.Join(l.Inputs, ", "),
		})
	}
	return rows
}

// runLayerBrowser opens the interactive layer list.
func runLayerBrowser(m *model.Model) error {
	p := tea.NewProgram(newLayerListModel(m))
	_, err := p.Run()
	return err
}
