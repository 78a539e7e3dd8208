package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/dealcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one labeled value in a chart.
type Bar struct {
	Label string
	Value float64
	Text  string // formatted value drawn after the bar
	Color lipgloss.Color
}

var eighths = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// HorizontalBars renders one row per bar, scaled against the largest value.
// Partial cells use eighth blocks so small differences stay visible.
func HorizontalBars(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		textW = max(textW, lipgloss.Width(b.Text))
		peak = math.Max(peak, b.Value)
	}
	if peak <= 0 {
		peak = 1
	}
	barW := width - labelW - textW - 2
	if barW < 4 {
		barW = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(bars))
	for i, b := range bars {
		v := math.Max(b.Value, 0)
		cells := v / peak * float64(barW)
		full := int(cells)
		frac := int((cells - float64(full)) * 8)

		var sb strings.Builder
		sb.WriteString(strings.Repeat("█", full))
		if frac > 0 && full < barW {
			sb.WriteRune(eighths[frac])
			full++
		}
		color := b.Color
		if color == "" {
			color = t.Accent
		}
		drawn := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(sb.String())

		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, b.Label)) +
			space.Render(" ") +
			drawn + space.Render(strings.Repeat(" ", barW-full)) +
			space.Render(" ") +
			textStyle.Render(fmt.Sprintf("%*s", textW, b.Text))
	}
	return strings.Join(lines, "\n")
}

// ColumnChart renders vertical bars with a labeled y axis. Bars wider than
// one cell keep a one-column gap between them.
func ColumnChart(bars []Bar, width, height int) string {
	n := len(bars)
	if n == 0 {
		return ""
	}
	if height < 3 {
		height = 3
	}
	t := theme.Active

	peak := 0.0
	for _, b := range bars {
		peak = math.Max(peak, b.Value)
	}
	if peak <= 0 {
		peak = 1
	}
	step := tickStep(peak)
	intervals := int(math.Ceil(peak / step))
	for intervals > height/2 && intervals > 1 {
		step *= 2
		intervals = int(math.Ceil(peak / step))
	}
	ceiling := step * float64(intervals)
	rowsPer := max(1, height/intervals)
	chartH := rowsPer * intervals

	yLabelW := max(4, len(formatTick(ceiling))+1)
	barW := (width - yLabelW - 1 - (n - 1)) / n
	barW = min(max(barW, 1), 8)

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		label := ""
		if row%rowsPer == 0 {
			label = formatTick(step * float64(row/rowsPer))
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		for i, bar := range bars {
			if i > 0 {
				b.WriteString(space.Render(" "))
			}
			color := bar.Color
			if color == "" {
				color = t.Accent
			}
			style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
			switch {
			case bar.Value >= top:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case bar.Value > bottom:
				idx := int((bar.Value - bottom) / (top - bottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(style.Render(strings.Repeat(string(columnBlocks[idx]), barW)))
			default:
				b.WriteString(space.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + n - 1
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", axisLen))))
	b.WriteString("\n")

	labels := make([]byte, 0, axisLen)
	for i, bar := range bars {
		lbl := bar.Label
		if len(lbl) > barW {
			lbl = lbl[:barW]
		}
		cell := fmt.Sprintf("%-*s", barW, lbl)
		if i > 0 {
			labels = append(labels, ' ')
		}
		labels = append(labels, cell...)
	}
	b.WriteString(axis.Render(strings.Repeat(" ", yLabelW+1) + strings.TrimRight(string(labels), " ")))

	return b.String()
}

var columnBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// tickStep picks a 1/2/5 interval that yields about five ticks.
func tickStep(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatTick(v float64) string {
	unit := func(div float64, suffix string) string {
		if v == math.Trunc(v/div)*div {
			return fmt.Sprintf("%.0f%s", v/div, suffix)
		}
		return fmt.Sprintf("%.1f%s", v/div, suffix)
	}
	switch {
	case v >= 1e9:
		return unit(1e9, "B")
	case v >= 1e6:
		return unit(1e6, "M")
	case v >= 1e3:
		return unit(1e3, "k")
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
