package app_test

import (
	"crypto/rand"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/fd1az/solarb/business/arbitrage/app"
	pricingApp "github.com/fd1az/solarb/business/pricing/app"
	pricingDomain "github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/internal/token"
)

var popcatPair = pricingDomain.NewPair("POPCAT", "SOL")

func randomMint(t *testing.T) solana.PublicKey {
	t.Helper()
	var pk solana.PublicKey
	if _, err := rand.Read(pk[:]); err != nil {
		t.Fatalf("reading random mint: %v", err)
	}
	return pk
}

func venueState(venue pricingDomain.Venue, baseMint, quoteMint solana.PublicKey, baseBal, quoteBal string, price float64) *pricingApp.VenueState {
	return &pricingApp.VenueState{
		Venue: venue,
		Pair:  popcatPair,
		Pool: pricingDomain.DecodedPool{
			Kind:              pricingDomain.ConstantProduct,
			BaseMint:          baseMint,
			QuoteMint:         quoteMint,
			BaseVaultBalance:  decimal.RequireFromString(baseBal),
			QuoteVaultBalance: decimal.RequireFromString(quoteBal),
		},
		Price: pricingDomain.NewCanonicalPrice(popcatPair, price),
	}
}

func TestDetector_ZeroLoanAmount(t *testing.T) {
	base := randomMint(t)
	detector := app.NewDetector(token.MintSOL, decimal.Zero, decimal.RequireFromString("0.01"))

	stateA := venueState(pricingDomain.VenueRaydium, base, token.MintSOL, "1000000000", "100000000000", 100)
	stateB := venueState(pricingDomain.VenueOrca, base, token.MintSOL, "1000000000", "101000000000", 101)

	outcome := detector.Detect(popcatPair, stateA, stateB, decimal.Zero)

	if outcome.IsProfitable {
		t.Error("expected non-profitable outcome")
	}
	if outcome.ProfitInQuote != 0 {
		t.Errorf("expected zero profit, got %v", outcome.ProfitInQuote)
	}
	if !outcome.LoanAmount.IsZero() || !outcome.TokensBought.IsZero() || !outcome.MinTokensBought.IsZero() {
		t.Errorf("expected zero size fields, got loan=%s tokens=%s min=%s",
			outcome.LoanAmount, outcome.TokensBought, outcome.MinTokensBought)
	}
	if outcome.BuyVenue != pricingDomain.VenueRaydium || outcome.SellVenue != pricingDomain.VenueOrca {
		t.Errorf("unexpected venues: buy=%s sell=%s", outcome.BuyVenue, outcome.SellVenue)
	}
}

func TestDetector_ProfitableSpread(t *testing.T) {
	base := randomMint(t)
	detector := app.NewDetector(token.MintSOL, decimal.Zero, decimal.RequireFromString("0.01"))

	// Reserves deep enough that price impact is negligible. Venue A
	// quotes 100 loan units per token, venue B quotes 101.
	stateA := venueState(pricingDomain.VenueRaydium, base, token.MintSOL, "1000000000", "100000000000", 100)
	stateB := venueState(pricingDomain.VenueOrca, base, token.MintSOL, "1000000000", "101000000000", 101)

	loan := decimal.NewFromInt(10)
	outcome := detector.Detect(popcatPair, stateA, stateB, loan)

	if outcome.BuyVenue != pricingDomain.VenueRaydium {
		t.Errorf("expected buy on raydium, got %s", outcome.BuyVenue)
	}
	if outcome.SellVenue != pricingDomain.VenueOrca {
		t.Errorf("expected sell on orca, got %s", outcome.SellVenue)
	}
	if !outcome.IsProfitable {
		t.Fatal("expected profitable outcome")
	}

	// profit ~= loan * (101/100 - 1) * sell_price
	wantProfit := 10.0 * (101.0/100.0 - 1.0) * 101.0
	if math.Abs(outcome.ProfitInQuote-wantProfit) > 1e-3 {
		t.Errorf("profit: expected ~%v, got %v", wantProfit, outcome.ProfitInQuote)
	}

	wantTokens := decimal.RequireFromString("0.1")
	if outcome.TokensBought.Sub(wantTokens).Abs().GreaterThan(decimal.RequireFromString("0.000001")) {
		t.Errorf("tokens bought: expected ~%s, got %s", wantTokens, outcome.TokensBought)
	}
	wantMin := outcome.TokensBought.Mul(decimal.RequireFromString("0.99"))
	if !outcome.MinTokensBought.Equal(wantMin) {
		t.Errorf("min tokens: expected %s, got %s", wantMin, outcome.MinTokensBought)
	}
	if math.Abs(outcome.Rate-0.01) > 1e-6 {
		t.Errorf("rate: expected ~0.01, got %v", outcome.Rate)
	}
	if outcome.BuyPrice != 100 || outcome.SellPrice != 101 {
		t.Errorf("prices: got buy=%v sell=%v", outcome.BuyPrice, outcome.SellPrice)
	}
}

func TestDetector_LoanFeeErasesProfit(t *testing.T) {
	base := randomMint(t)

	// A 2% loan fee swamps the 1% spread.
	detector := app.NewDetector(token.MintSOL, decimal.RequireFromString("0.02"), decimal.RequireFromString("0.01"))

	stateA := venueState(pricingDomain.VenueRaydium, base, token.MintSOL, "1000000000", "100000000000", 100)
	stateB := venueState(pricingDomain.VenueOrca, base, token.MintSOL, "1000000000", "101000000000", 101)

	outcome := detector.Detect(popcatPair, stateA, stateB, decimal.NewFromInt(10))

	if outcome.IsProfitable {
		t.Errorf("expected non-profitable outcome, profit=%v", outcome.ProfitInQuote)
	}
	if outcome.ProfitInQuote >= 0 {
		t.Errorf("expected negative profit, got %v", outcome.ProfitInQuote)
	}
}

func TestDetector_TieBreakSellsOnSecondVenue(t *testing.T) {
	base := randomMint(t)
	detector := app.NewDetector(token.MintSOL, decimal.Zero, decimal.RequireFromString("0.01"))

	stateA := venueState(pricingDomain.VenueRaydium, base, token.MintSOL, "1000000000", "100000000000", 100)
	stateB := venueState(pricingDomain.VenueOrca, base, token.MintSOL, "1000000000", "100000000000", 100)

	outcome := detector.Detect(popcatPair, stateA, stateB, decimal.NewFromInt(10))

	if outcome.BuyVenue != pricingDomain.VenueRaydium {
		t.Errorf("expected buy on raydium, got %s", outcome.BuyVenue)
	}
	if outcome.SellVenue != pricingDomain.VenueOrca {
		t.Errorf("expected sell on orca, got %s", outcome.SellVenue)
	}
	if outcome.IsProfitable {
		t.Error("a tie should never be profitable")
	}
}

func TestDetector_DegradesToZeroOutcome(t *testing.T) {
	base := randomMint(t)
	detector := app.NewDetector(token.MintSOL, decimal.Zero, decimal.RequireFromString("0.01"))
	loan := decimal.NewFromInt(10)

	t.Run("pool_missing_loan_asset", func(t *testing.T) {
		other := randomMint(t)
		stateA := venueState(pricingDomain.VenueRaydium, base, other, "1000000000", "100000000000", 100)
		stateB := venueState(pricingDomain.VenueOrca, base, token.MintSOL, "1000000000", "101000000000", 101)

		outcome := detector.Detect(popcatPair, stateA, stateB, loan)
		if outcome.IsProfitable || !outcome.TokensBought.IsZero() {
			t.Errorf("expected zero outcome, got %+v", outcome)
		}
	})

	t.Run("empty_reserves", func(t *testing.T) {
		stateA := venueState(pricingDomain.VenueRaydium, base, token.MintSOL, "0", "0", 100)
		stateB := venueState(pricingDomain.VenueOrca, base, token.MintSOL, "1000000000", "101000000000", 101)

		outcome := detector.Detect(popcatPair, stateA, stateB, loan)
		if outcome.IsProfitable || !outcome.TokensBought.IsZero() {
			t.Errorf("expected zero outcome, got %+v", outcome)
		}
	})

	t.Run("negative_loan", func(t *testing.T) {
		stateA := venueState(pricingDomain.VenueRaydium, base, token.MintSOL, "1000000000", "100000000000", 100)
		stateB := venueState(pricingDomain.VenueOrca, base, token.MintSOL, "1000000000", "101000000000", 101)

		outcome := detector.Detect(popcatPair, stateA, stateB, decimal.NewFromInt(-5))
		if outcome.IsProfitable || !outcome.LoanAmount.IsZero() || !outcome.TokensBought.IsZero() {
			t.Errorf("expected zero outcome, got %+v", outcome)
		}
	})
}
