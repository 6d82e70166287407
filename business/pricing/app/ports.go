package app

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// ChainReader defines the on-chain reads the pricing context needs.
// The market context's service satisfies it.
type ChainReader interface {
	// ReadAccount retrieves the raw data bytes of an account.
	ReadAccount(ctx context.Context, address solana.PublicKey) ([]byte, error)

	// ReadTokenBalance retrieves the UI balance of an SPL token account.
	ReadTokenBalance(ctx context.Context, vault solana.PublicKey) (decimal.Decimal, error)
}
