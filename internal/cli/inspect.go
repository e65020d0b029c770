package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/pipeline"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags encodeFlags

	cmd := &cobra.Command{
		Use:   "inspect <score>",
		Short: "Browse the encoded bars of a score",
		Long: `Encode a score and browse the result bar by bar.

Use ↑/↓ (or j/k) to move, enter to open a bar, esc to go back and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.encodeScore(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			if len(res.Bars) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "score has no bars")
			}
			p := tea.NewProgram(NewBarListModel(res), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

// =============================================================================
// BarListModel - Interactive bar browser
// =============================================================================

// BarListModel is the bubbletea model for browsing encoded bars.
type BarListModel struct {
	Result *pipeline.Result
	Cursor int
	Height int
	Offset int

	// Open shows the selected bar in detail.
	Open bool
}

// NewBarListModel creates a bar list model.
func NewBarListModel(res *pipeline.Result) BarListModel {
	return BarListModel{Result: res, Height: 15}
}

func (m BarListModel) Init() tea.Cmd {
	return nil
}

func (m BarListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.Open {
				return m, tea.Quit
			}
			m.Open = false
		case "enter":
			m.Open = !m.Open
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Result.Bars)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m BarListModel) View() string {
	if m.Open {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Bars"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.summary()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Result.Bars))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		bar := &m.Result.Bars[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, fmt.Sprint(bar.Number), timeLabel(bar.Time), fmt.Sprint(bar.Leaves()), barStatus(bar), treePreview(bar, 48)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Bar", "Time", "Leaves", "Status", "Tree").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Result.Bars) {
				return lipgloss.NewStyle()
			}
			bar := &m.Result.Bars[idx]
			base := lipgloss.NewStyle()
			switch {
			case bar.Err != nil:
				base = base.Foreground(colorRed)
			case len(bar.Approximate) > 0:
				base = base.Foreground(colorYellow)
			case col == 5:
				base = base.Foreground(colorGray)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Result.Bars))))
	return b.String()
}

func (m BarListModel) detailView() string {
	bar := &m.Result.Bars[m.Cursor]
	var b strings.Builder
	if bar.Err != nil {
		b.WriteString(StyleTitle.Render(fmt.Sprintf("Bar %d", bar.Number)))
		b.WriteString("\n")
		b.WriteString(styleFailed.Render(errors.UserMessage(bar.Err)))
		b.WriteString("\n")
		if code := errors.GetCode(bar.Err); code != "" {
			b.WriteString(listDimStyle.Render(string(code)))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(barText(bar))
	}
	b.WriteString("\n")
	b.WriteString(listSelectedStyle.Render("esc"))
	b.WriteString(listDimStyle.Render(" back  q quit"))
	return b.String()
}

func (m BarListModel) summary() string {
	s := m.Result.Stats
	return fmt.Sprintf("%d bars · %d failed · %d cached", s.Bars, s.Failed, s.Cached)
}

func barStatus(b *pipeline.BarResult) string {
	switch {
	case b.Err != nil:
		if code := errors.GetCode(b.Err); code != "" {
			return string(code)
		}
		return "failed"
	case len(b.Approximate) > 0:
		return "approximate"
	case b.Cached:
		return "cached"
	}
	return "ok"
}

// treePreview returns the compact tree cut to width runes.
func treePreview(b *pipeline.BarResult, width int) string {
	if b.Tree == nil {
		return "—"
	}
	s := []rune(b.Tree.String())
	if len(s) <= width {
		return string(s)
	}
	return string(s[:width-1]) + "…"
}
