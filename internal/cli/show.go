package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/notation"
	"github.com/matzehuels/bartree/pkg/pipeline"
)

// Show formats.
const (
	showText    = "text"
	showCompact = "compact"
	showEdges   = "edges"
	showDOT     = "dot"
	showSVG     = "svg"
)

type showFlags struct {
	encodeFlags
	bar    int
	format string
	output string
}

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var flags showFlags

	cmd := &cobra.Command{
		Use:   "show <score>",
		Short: "Print the rhythm tree of one bar",
		Long: `Print the rhythm tree of one bar of a score.

Formats:
  text     the tree and a table of leaves with their grouping marks (default)
  compact  the tree on one line, e.g. R(1(3:2(C4:1/2,C4:1/2,C4:1/2),C4:1))
  edges    one "id parent label" line per node
  dot      Graphviz DOT source
  svg      SVG rendered with Graphviz`,
		Example: `  bartree show melody.json --bar 3
  bartree show melody.json --bar 3 --format svg -o bar3.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.encodeScore(cmd, args[0], &flags.encodeFlags)
			if err != nil {
				return err
			}
			b, err := selectBar(res, flags.bar)
			if err != nil {
				return err
			}
			if b.Err != nil {
				return fmt.Errorf("bar %d: %w", b.Number, b.Err)
			}
			data, err := renderBar(cmd, b, flags.format)
			if err != nil {
				return err
			}
			return writeTo(cmd, flags.output, data)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().IntVarP(&flags.bar, "bar", "b", 0, "bar number (default first bar)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", showText, "output format: text, compact, edges, dot or svg")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func renderBar(cmd *cobra.Command, b *pipeline.BarResult, format string) ([]byte, error) {
	switch format {
	case showText:
		return []byte(barText(b)), nil
	case showCompact:
		return []byte(b.Tree.String() + "\n"), nil
	case showEdges:
		return []byte(b.Tree.Show()), nil
	case showDOT:
		return []byte(b.Tree.ToDOT()), nil
	case showSVG:
		return b.Tree.RenderSVG(cmd.Context())
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown format %q", format)
}

// barText renders a bar header, the tree and a table with one row per leaf.
func barText(b *pipeline.BarResult) string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(fmt.Sprintf("Bar %d", b.Number)))
	sb.WriteString(StyleDim.Render(fmt.Sprintf("  %s · %d leaves", timeLabel(b.Time), b.Leaves())))
	if b.Cached {
		sb.WriteString(styleCached.Render("  cached"))
	}
	sb.WriteString("\n")
	sb.WriteString(StyleValue.Render(b.Tree.String()))
	sb.WriteString("\n")
	for _, r := range b.Approximate {
		sb.WriteString(StyleWarning.Render("approximate " + r.String()))
		sb.WriteString("\n")
	}
	sb.WriteString(leafTable(b).Render())
	sb.WriteString("\n")
	return sb.String()
}

// leafTable lists each leaf with its written value, beam and the marks of
// every enclosing group.
func leafTable(b *pipeline.BarResult) *table.Table {
	marks, info := notation.Marks(b.Tree.Tree)

	rows := make([][]string, 0, len(marks))
	for i, l := range b.Tree.Leaves() {
		groups := make([]string, len(marks[i]))
		for j, m := range marks[i] {
			groups[j] = m.String()
			if info[i][j] != "" {
				groups[j] += "(" + info[i][j] + ")"
			}
		}
		beam := ""
		if i < len(b.Beams) {
			beam = b.Beams[i].String()
		}
		pitch := "rest"
		if l.Event.Pitch != nil {
			pitch = fmt.Sprint(l.Event.Pitch)
		}
		rows = append(rows, []string{fmt.Sprint(i + 1), pitch, l.Span.String(), beam, strings.Join(groups, " ")})
	}

	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Pitch", "Written", "Beam", "Groups").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return header
			}
			if col == 0 || col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
}
