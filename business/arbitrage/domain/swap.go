// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/internal/apperror"
)

var hundred = decimal.NewFromInt(100)

// SwapSimulationResult is the outcome of a hypothetical swap against a
// pool's current reserves.
type SwapSimulationResult struct {
	AmountOut      decimal.Decimal
	PriceImpactPct float64
	EffectiveRate  float64
}

// SimulateSwap computes the constant-product output for amountIn against
// the given reserves after deducting the pool fee from the input. It is
// a pure function; reserves are never mutated.
//
// The price impact is the fee-adjusted input's share of the post-trade
// input reserve, not a marginal-price delta.
func SimulateSwap(reserveIn, reserveOut, amountIn decimal.Decimal, fee pricingDomain.RationalFee) (SwapSimulationResult, error) {
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return SwapSimulationResult{}, apperror.New(apperror.CodeInvalidReserves,
			apperror.WithContext("reserves must be positive, got "+
				reserveIn.String()+" / "+reserveOut.String()))
	}

	feeAdjustedIn := amountIn.Mul(decimal.NewFromInt(1).Sub(fee.Rate()))
	denominator := reserveIn.Add(feeAdjustedIn)

	amountOut := reserveOut.Mul(feeAdjustedIn).Div(denominator)
	impact, _ := feeAdjustedIn.Div(denominator).Mul(hundred).Float64()

	rate := 0.0
	if !amountIn.IsZero() {
		rate, _ = amountOut.Div(amountIn).Float64()
	}

	return SwapSimulationResult{
		AmountOut:      amountOut,
		PriceImpactPct: impact,
		EffectiveRate:  rate,
	}, nil
}
