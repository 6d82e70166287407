// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a fixed-width block-character trend line.
// Only the last width values are shown; flat series render mid-height.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat(" ", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var sb strings.Builder
	for _, v := range values {
		idx := len(sparkRunes) / 2
		if max > min {
			idx = int((v - min) / (max - min) * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[idx])
	}
	if pad := width - len(values); pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	return sb.String()
}

// VenuePriceRow is one venue's latest price and recent trend.
type VenuePriceRow struct {
	Venue   string
	Price   float64
	History []float64
}

// PricesComponent renders the per-venue price comparison table.
type PricesComponent struct {
	pair      string
	rows      []VenuePriceRow
	spreadBps float64
	haveData  bool
}

// NewPricesComponent creates a new prices component.
func NewPricesComponent() *PricesComponent {
	return &PricesComponent{}
}

// SetPair sets the trading pair name.
func (p *PricesComponent) SetPair(pair string) {
	p.pair = pair
}

// Update replaces the venue rows and the cross-venue spread.
func (p *PricesComponent) Update(rows []VenuePriceRow, spreadBps float64) {
	p.rows = rows
	p.spreadBps = spreadBps
	p.haveData = len(rows) > 0
}

// View renders the prices component.
func (p *PricesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#14B8A6"))
	positiveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	negativeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("PRICES (%s)", p.pair)))
	sb.WriteString("\n\n")

	if !p.haveData {
		sb.WriteString(dimStyle.Render("  Waiting for price data..."))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("  %-10s  %16s  %-24s\n", "Venue", "Price", "Trend"))
	sb.WriteString(dimStyle.Render("  "+strings.Repeat("─", 54)) + "\n")

	for _, row := range p.rows {
		sb.WriteString(fmt.Sprintf("  %-10s  %16.6f  %s\n",
			row.Venue,
			row.Price,
			dimStyle.Render(Sparkline(row.History, 24)),
		))
	}

	sb.WriteString("\n")
	spreadStyle := positiveStyle
	if p.spreadBps < 0 {
		spreadStyle = negativeStyle
	}
	sb.WriteString(fmt.Sprintf("  Spread: %s\n",
		spreadStyle.Render(fmt.Sprintf("%+.1f bps", p.spreadBps))))

	return sb.String()
}
