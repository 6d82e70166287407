package app

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/fd1az/solarb/business/arbitrage/domain"
	pricingApp "github.com/fd1az/solarb/business/pricing/app"
	pricingDomain "github.com/fd1az/solarb/business/pricing/domain"
)

// Detector evaluates a two-leg flash-loan round trip across two venues
// quoting the same pair. It is stateless per call; every cycle produces
// a fresh Outcome and transient faults degrade to a zero outcome so the
// polling loop can retry on the next tick.
type Detector struct {
	loanMint          solana.PublicKey
	loanFeeRate       decimal.Decimal
	slippageTolerance decimal.Decimal
}

// NewDetector creates a detector borrowing the asset identified by
// loanMint. loanFeeRate is the flash-loan fee fraction and
// slippageTolerance bounds the reported minimum fill of leg 1.
func NewDetector(loanMint solana.PublicKey, loanFeeRate, slippageTolerance decimal.Decimal) *Detector {
	return &Detector{
		loanMint:          loanMint,
		loanFeeRate:       loanFeeRate,
		slippageTolerance: slippageTolerance,
	}
}

// Detect simulates borrowing loanAmount of the loan asset, swapping it
// for the traded token on the cheaper venue, swapping back on the more
// expensive venue, and repaying the loan plus its fee. Profit is
// reported in the pair's quote unit at the sell venue's price.
//
// Equal prices resolve to selling on stateB's venue.
func (d *Detector) Detect(pair pricingDomain.Pair, stateA, stateB *pricingApp.VenueState, loanAmount decimal.Decimal) domain.Outcome {
	buy, sell := stateA, stateB
	if stateA.Price.Value > stateB.Price.Value {
		buy, sell = stateB, stateA
	}

	zero := domain.ZeroOutcome(pair, buy.Venue, sell.Venue)

	if !loanAmount.IsPositive() {
		return zero
	}

	// Leg 1: loan asset in, traded token out, on the cheaper venue.
	buyIn, buyOut, ok := orientReserves(&buy.Pool, d.loanMint, true)
	if !ok {
		return zero
	}
	leg1, err := domain.SimulateSwap(buyIn, buyOut, loanAmount, buy.Pool.Fee)
	if err != nil {
		return zero
	}

	minTokensBought := leg1.AmountOut.Mul(decimal.NewFromInt(1).Sub(d.slippageTolerance))

	// Leg 2: traded token back into the loan asset on the other venue.
	// Uses the unrounded leg 1 output, not the slippage-bounded minimum.
	sellIn, sellOut, ok := orientReserves(&sell.Pool, d.loanMint, false)
	if !ok {
		return zero
	}
	leg2, err := domain.SimulateSwap(sellIn, sellOut, leg1.AmountOut, sell.Pool.Fee)
	if err != nil {
		return zero
	}

	loanFee := loanAmount.Mul(d.loanFeeRate)
	loanProfit := leg2.AmountOut.Sub(loanAmount).Sub(loanFee)

	profitFloat, _ := loanProfit.Float64()
	profitInQuote := profitFloat * sell.Price.Value

	rate := 0.0
	if !loanAmount.IsZero() {
		rate, _ = leg1.AmountOut.Div(loanAmount).Float64()
	}

	return domain.Outcome{
		Pair:            pair,
		BuyVenue:        buy.Venue,
		SellVenue:       sell.Venue,
		IsProfitable:    profitInQuote > 0,
		ProfitInQuote:   profitInQuote,
		LoanAmount:      loanAmount,
		TokensBought:    leg1.AmountOut,
		MinTokensBought: minTokensBought,
		PriceImpactPct:  leg1.PriceImpactPct,
		Rate:            rate,
		BuyPrice:        buy.Price.Value,
		SellPrice:       sell.Price.Value,
		ObservedAt:      time.Now(),
	}
}

// orientReserves picks (reserveIn, reserveOut) so that the loan asset
// is on the requested side of the swap. loanIn selects whether the loan
// asset enters or leaves the pool. Pools that do not hold the loan
// asset on either side cannot be evaluated.
func orientReserves(pool *pricingDomain.DecodedPool, loanMint solana.PublicKey, loanIn bool) (decimal.Decimal, decimal.Decimal, bool) {
	switch {
	case pool.BaseMint.Equals(loanMint):
		if loanIn {
			return pool.BaseVaultBalance, pool.QuoteVaultBalance, true
		}
		return pool.QuoteVaultBalance, pool.BaseVaultBalance, true
	case pool.QuoteMint.Equals(loanMint):
		if loanIn {
			return pool.QuoteVaultBalance, pool.BaseVaultBalance, true
		}
		return pool.BaseVaultBalance, pool.QuoteVaultBalance, true
	default:
		return decimal.Zero, decimal.Zero, false
	}
}
