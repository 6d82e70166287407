// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// OutcomeRow represents a detection result in the feed.
type OutcomeRow struct {
	Timestamp  string
	Pair       string
	Direction  string // "raydium→orca"
	LoanAmount decimal.Decimal
	Profit     float64
	ImpactPct  float64
	Profitable bool
	Status     string
}

// OutcomesComponent renders the detection result feed, newest first.
type OutcomesComponent struct {
	rows    []OutcomeRow
	maxRows int
	offset  int
}

// NewOutcomesComponent creates a new outcomes component.
func NewOutcomesComponent(maxRows int) *OutcomesComponent {
	return &OutcomesComponent{
		rows:    make([]OutcomeRow, 0),
		maxRows: maxRows,
	}
}

// Add prepends a new detection result to the feed.
func (o *OutcomesComponent) Add(row OutcomeRow) {
	o.rows = append([]OutcomeRow{row}, o.rows...)
	if len(o.rows) > o.maxRows {
		o.rows = o.rows[:o.maxRows]
	}
}

// Clear clears the feed.
func (o *OutcomesComponent) Clear() {
	o.rows = make([]OutcomeRow, 0)
	o.offset = 0
}

// ScrollUp moves the view window toward older entries.
func (o *OutcomesComponent) ScrollUp() {
	if o.offset < len(o.rows)-1 {
		o.offset++
	}
}

// ScrollDown moves the view window toward newer entries.
func (o *OutcomesComponent) ScrollDown() {
	if o.offset > 0 {
		o.offset--
	}
}

// View renders the outcomes component.
func (o *OutcomesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#14B8A6"))
	profitableStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	unprofitableStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	if len(o.rows) == 0 {
		return "No detection cycles yet..."
	}

	result := headerStyle.Render("DETECTIONS\n")
	result += "┌──────────┬───────────┬───────────────┬──────────┬───────────┬─────────────────┐\n"
	result += "│   Time   │   Pair    │   Direction   │   Loan   │  Profit   │     Status      │\n"
	result += "├──────────┼───────────┼───────────────┼──────────┼───────────┼─────────────────┤\n"

	rows := o.rows
	if o.offset > 0 && o.offset < len(rows) {
		rows = rows[o.offset:]
	}
	shown := rows
	if len(shown) > 10 {
		shown = shown[:10]
	}

	for _, row := range shown {
		statusStyle := profitableStyle
		statusIcon := "✓"
		if !row.Profitable {
			statusStyle = unprofitableStyle
			statusIcon = "✗"
		}

		result += fmt.Sprintf("│ %-8s │ %-9s │ %-13s │%9s │%10s │ %s %-13s│\n",
			row.Timestamp,
			row.Pair,
			row.Direction,
			row.LoanAmount.StringFixed(2),
			fmt.Sprintf("%+.4f", row.Profit),
			statusIcon,
			statusStyle.Render(row.Status),
		)
	}

	result += "└──────────┴───────────┴───────────────┴──────────┴───────────┴─────────────────┘"

	return result
}
