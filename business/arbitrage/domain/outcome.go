package domain

import (
	"time"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/solarb/business/pricing/domain"
)

// Outcome is the result of one detection cycle. It is constructed fresh
// every cycle and never mutated afterwards.
type Outcome struct {
	Pair          pricingDomain.Pair
	BuyVenue      pricingDomain.Venue
	SellVenue     pricingDomain.Venue
	IsProfitable  bool
	ProfitInQuote float64

	LoanAmount      decimal.Decimal
	TokensBought    decimal.Decimal
	MinTokensBought decimal.Decimal

	PriceImpactPct float64
	Rate           float64

	BuyPrice  float64
	SellPrice float64

	ObservedAt time.Time
}

// ZeroOutcome is the non-profitable, zero-sized outcome reported when a
// cycle cannot be evaluated (missing state, zero loan, bad reserves).
func ZeroOutcome(pair pricingDomain.Pair, buy, sell pricingDomain.Venue) Outcome {
	return Outcome{
		Pair:            pair,
		BuyVenue:        buy,
		SellVenue:       sell,
		IsProfitable:    false,
		ProfitInQuote:   0,
		LoanAmount:      decimal.Zero,
		TokensBought:    decimal.Zero,
		MinTokensBought: decimal.Zero,
		ObservedAt:      time.Now(),
	}
}
