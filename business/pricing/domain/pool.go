// Package domain contains the core domain types for the pricing context.
package domain

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// LayoutKind identifies the account layout of an AMM pool.
type LayoutKind string

const (
	// ConstantProduct is a reserve-ratio AMM (Raydium AMM v4).
	ConstantProduct LayoutKind = "constant_product"

	// ConcentratedLiquidity is a sqrt-price AMM (Orca whirlpool).
	ConcentratedLiquidity LayoutKind = "concentrated_liquidity"
)

// RationalFee is a pool fee expressed as numerator/denominator.
type RationalFee struct {
	Numerator   uint64
	Denominator uint64
}

// FeeFromBasisPoints converts a basis-point fee to a RationalFee.
func FeeFromBasisPoints(bps uint64) RationalFee {
	return RationalFee{Numerator: bps, Denominator: 10_000}
}

// Rate returns the fee as a decimal fraction. A zero denominator yields zero.
func (f RationalFee) Rate() decimal.Decimal {
	if f.Denominator == 0 {
		return decimal.Zero
	}
	return decimal.NewFromUint64(f.Numerator).Div(decimal.NewFromUint64(f.Denominator))
}

// IsZero reports whether the fee is unset or zero.
func (f RationalFee) IsZero() bool {
	return f.Numerator == 0 || f.Denominator == 0
}

// DecodedPool is the canonical shape of a decoded AMM pool account.
// Mint and vault order is as stored on-chain, which does not necessarily
// match the caller's requested pair orientation.
type DecodedPool struct {
	Kind LayoutKind

	BaseVault  solana.PublicKey
	QuoteVault solana.PublicKey
	BaseMint   solana.PublicKey
	QuoteMint  solana.PublicKey

	// Vault balances are ui-scaled amounts fetched separately from the
	// pool account itself.
	BaseVaultBalance  decimal.Decimal
	QuoteVaultBalance decimal.Decimal

	Fee RationalFee

	// Concentrated-liquidity fields.
	SqrtPrice   *big.Int // Q64.64 fixed-point, nil for constant-product pools
	Liquidity   *big.Int
	TickIndex   int32
	TickSpacing uint16
}

// HasReserves reports whether both vault balances are strictly positive.
func (p *DecodedPool) HasReserves() bool {
	return p.BaseVaultBalance.IsPositive() && p.QuoteVaultBalance.IsPositive()
}
