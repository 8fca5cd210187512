package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lyphgraph/pkg/assemble"
	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [model]",
		Short: "Browse the diagnostics of an assembly",
		Long: `Assemble a model and browse what the assembly reported.

The interactive view lists every diagnostic; tab cycles the minimum level
shown. With --plain, or when stdout is not a terminal, the resource counts
and diagnostics are printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			doc, conv, err := pipeline.Load(input, nil)
			if err != nil {
				return err
			}
			printConversion(conv)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(nil, nil, c.Logger)
			res, err := runner.Assemble(cmd.Context(), modelID(doc, input), doc, cfg.AssembleOptions())
			if err != nil {
				return err
			}

			m := NewInspectModel(input, res.Stats(), res.Diag.Entries())
			if plain || !isTerminal(os.Stdout) {
				fmt.Println(m.Summary())
				printDiagnostics(res.Diag, diag.Info)
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print instead of starting the interactive view")

	return cmd
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// =============================================================================
// InspectModel - Interactive diagnostics browser
// =============================================================================

// InspectModel is the bubbletea model of the inspect view.
type InspectModel struct {
	Title    string
	Stats    assemble.Stats
	Entries  []diag.Entry
	MinLevel diag.Level
	Cursor   int
	Offset   int
	Height   int
}

// NewInspectModel creates an inspect model showing every entry.
func NewInspectModel(title string, st assemble.Stats, entries []diag.Entry) InspectModel {
	return InspectModel{
		Title:    title,
		Stats:    st,
		Entries:  entries,
		MinLevel: diag.Info,
		Height:   15,
	}
}

// Visible returns the entries at the current minimum level or above.
func (m InspectModel) Visible() []diag.Entry {
	var out []diag.Entry
	for _, e := range m.Entries {
		if e.Level >= m.MinLevel {
			out = append(out, e)
		}
	}
	return out
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.Visible())
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
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		case "tab", "f":
			m.MinLevel = (m.MinLevel + 1) % (diag.Error + 1)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Diagnostics: " + m.Title))
	b.WriteString("\n")
	b.WriteString(m.Summary())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("↑/↓ navigate  tab level ≥ %s  q quit", m.MinLevel)))
	b.WriteString("\n\n")

	visible := m.Visible()
	end := min(m.Offset+m.Height, len(visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := visible[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		params := ""
		if len(e.Params) > 0 {
			params = fmt.Sprintf("%v", e.Params)
		}
		rows = append(rows, []string{cursor, e.Level.String(), e.Message, params})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Level", "Message", "Params").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(visible) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			switch visible[idx].Level {
			case diag.Error:
				base = base.Foreground(colorRed)
			case diag.Warn:
				base = base.Foreground(colorYellow)
			default:
				base = base.Foreground(colorGray)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(visible) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(visible))))

	return b.String()
}

// Summary renders the status and the resource counts by class on one line.
func (m InspectModel) Summary() string {
	classes := make([]string, 0, len(m.Stats.ByClass))
	for class := range m.Stats.ByClass {
		classes = append(classes, class)
	}
	slices.Sort(classes)
	parts := []string{statusStyle(m.Stats.Status).Render(string(m.Stats.Status))}
	for _, class := range classes {
		parts = append(parts, fmt.Sprintf("%d %s", m.Stats.ByClass[class], class))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
