package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bartree/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleFailed   = lipgloss.NewStyle().Foreground(colorRed)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// ui writes styled status lines. Commands print to cmd.OutOrStdout() so
// tests can capture the output.
type ui struct {
	w io.Writer
}

func (u ui) success(format string, args ...any) {
	fmt.Fprintln(u.w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (u ui) failure(format string, args ...any) {
	fmt.Fprintln(u.w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func (u ui) warning(format string, args ...any) {
	fmt.Fprintln(u.w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (u ui) info(format string, args ...any) {
	fmt.Fprintln(u.w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// detail prints an indented, dimmed line.
func (u ui) detail(format string, args ...any) {
	fmt.Fprintln(u.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (u ui) file(path string) {
	fmt.Fprintln(u.w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func (u ui) keyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(u.w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// stats prints a run summary on a single line.
func (u ui) stats(s pipeline.Stats) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d bars", s.Bars)),
		StyleDim.Render(fmt.Sprintf("%d leaves", s.Leaves)),
	}
	if s.Cached > 0 {
		parts = append(parts, styleCached.Render(fmt.Sprintf("%d cached", s.Cached)))
	} else {
		parts = append(parts, styleComputed.Render("fresh"))
	}
	if s.Approximate > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d approximate", s.Approximate)))
	}
	if s.Failed > 0 {
		parts = append(parts, styleFailed.Render(fmt.Sprintf("%d failed", s.Failed)))
	}
	fmt.Fprintln(u.w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// nextStep prints a suggested follow-up command.
func (u ui) nextStep(description, cmd string) {
	fmt.Fprintln(u.w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
