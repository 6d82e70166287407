// Package ui provides the Bubble Tea TUI for the arbitrage monitor.
package ui

import (
	arbApp "github.com/fd1az/solarb/business/arbitrage/app"
	arbDomain "github.com/fd1az/solarb/business/arbitrage/domain"
)

// Message types for TUI updates

// OutcomeMsg is sent after every detection cycle with its result.
type OutcomeMsg struct {
	Outcome *arbDomain.Outcome
}

// PriceUpdateMsg is sent when a pair's venue prices are refreshed.
type PriceUpdateMsg struct {
	Snapshot *arbApp.PairSnapshot
}

// ConnectionStatusMsg is sent when a venue or RPC connection changes state.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
}

// SlotMsg is sent when an account notification advances the observed slot.
type SlotMsg struct {
	Slot uint64
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step   string // Current step name
	Status string // "connecting", "connected", "failed"
}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}
