// Package domain contains the core domain types for the market context.
package domain

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// AccountUpdate is a raw on-chain account snapshot delivered by a watcher.
type AccountUpdate struct {
	Address    solana.PublicKey
	Data       []byte
	Slot       uint64
	ReceivedAt time.Time
}

// ConnectionState represents the state of an RPC node connection.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateReconnecting ConnectionState = "reconnecting"
)

// ConnectionStatus contains detailed connection information.
type ConnectionStatus struct {
	State      ConnectionState
	LastSlot   uint64
	LastUpdate time.Time
	Reconnects int
}
