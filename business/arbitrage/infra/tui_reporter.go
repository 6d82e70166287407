// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"

	"github.com/fd1az/solarb/business/arbitrage/app"
	"github.com/fd1az/solarb/business/arbitrage/domain"
	"github.com/fd1az/solarb/pkg/ui"
)

// TUIReporter bridges the Reporter port to the Bubble Tea program by
// translating detection events into UI messages. The program itself is
// owned and run by the entrypoint; this adapter only sends into it.
type TUIReporter struct{}

// NewTUIReporter creates a new TUIReporter.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{}
}

// Start initializes the TUI reporter.
func (r *TUIReporter) Start(ctx context.Context) error {
	ui.Send(ui.LogMsg{Level: "info", Message: "detection loop started"})
	return nil
}

// Report sends a detection outcome to the TUI.
func (r *TUIReporter) Report(outcome *domain.Outcome) {
	if outcome == nil {
		return
	}
	ui.Send(ui.OutcomeMsg{Outcome: outcome})
}

// UpdatePrices sends price updates to the TUI.
func (r *TUIReporter) UpdatePrices(snapshot *app.PairSnapshot) {
	if snapshot == nil {
		return
	}
	ui.Send(ui.PriceUpdateMsg{Snapshot: snapshot})
}

// UpdateConnectionStatus sends connection status to the TUI.
func (r *TUIReporter) UpdateConnectionStatus(name string, connected bool) {
	ui.Send(ui.ConnectionStatusMsg{Name: name, Connected: connected})
}

// Stop gracefully shuts down the TUI reporter.
func (r *TUIReporter) Stop() error {
	ui.Send(ui.LogMsg{Level: "info", Message: "detection loop stopped"})
	return nil
}
