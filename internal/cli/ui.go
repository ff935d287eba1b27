package cli

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/turnout/pkg/dataset"
	"github.com/matzehuels/turnout/pkg/stats"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary actions
	colorGreen = lipgloss.Color("35")  // Green - success
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line tagged with where its bytes came from.
func printFile(path string, cached bool) {
	status, style := iconFresh, styleComputed
	if cached {
		status, style = iconCached, styleCached
	}
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path) +
		StyleDim.Render(" · ") + style.Render(status))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Summary Table
// =============================================================================

var summaryHeaders = []string{"Law", "States", "Mean", "Median", "Std dev", "Min", "Max", "Mean CI"}

// summaryRows returns one row of formatted statistics per group.
func summaryRows(groups []dataset.Group, boot stats.Bootstrap) [][]string {
	rows := make([][]string, len(groups))
	for i, g := range groups {
		s := stats.Summarize(g.Values)
		lo, hi := boot.Interval(g.Values, stats.Mean)
		rows[i] = []string{
			string(g.Category),
			fmt.Sprintf("%d", s.N),
			formatPct(s.Mean),
			formatPct(s.Median),
			formatPct(s.StdDev),
			formatPct(s.Min),
			formatPct(s.Max),
			formatPct(lo) + " – " + formatPct(hi),
		}
	}
	return rows
}

// renderSummary renders per-category turnout statistics as a table.
func renderSummary(groups []dataset.Group, boot stats.Bootstrap) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(summaryHeaders...).
		Rows(summaryRows(groups, boot)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return styleHeader
			case col == 0:
				return styleCell.Foreground(colorWhite)
			default:
				return styleCell.Foreground(colorCyan)
			}
		})
	return t.Render()
}

// formatPct formats a fraction with one decimal, e.g. 0.4512 → "45.1%".
func formatPct(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", v*100)
}
