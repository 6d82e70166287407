// Package app contains application services and port definitions for the market context.
package app

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/fd1az/solarb/business/market/domain"
)

// AccountReader defines the interface for reading on-chain account state.
type AccountReader interface {
	// ReadAccount retrieves the raw data bytes of an account.
	ReadAccount(ctx context.Context, address solana.PublicKey) ([]byte, error)

	// ReadTokenBalance retrieves the UI balance of an SPL token account.
	ReadTokenBalance(ctx context.Context, vault solana.PublicKey) (decimal.Decimal, error)
}

// AccountWatcher defines the interface for streaming account changes.
type AccountWatcher interface {
	// Watch subscribes to changes of the given account and returns a channel of updates.
	Watch(ctx context.Context, address solana.PublicKey) (<-chan domain.AccountUpdate, error)

	// State returns the current connection state.
	State() domain.ConnectionState

	// Close terminates the subscription and its underlying connection.
	Close() error
}
