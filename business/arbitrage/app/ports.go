package app

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/fd1az/solarb/business/arbitrage/domain"
	marketDomain "github.com/fd1az/solarb/business/market/domain"
	pricingDomain "github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/internal/token"
)

// LoanProvider exposes the liquidity currently available to borrow for
// a flash loan in the given asset.
type LoanProvider interface {
	AvailableLiquidity(ctx context.Context, asset token.Symbol) (decimal.Decimal, error)
}

// AccountFeed streams pool account changes pushed by the node. The
// market context's service satisfies it.
type AccountFeed interface {
	WatchAccount(ctx context.Context, address solana.PublicKey) (<-chan marketDomain.AccountUpdate, error)
	ConnectionState() marketDomain.ConnectionState
}

// PairSnapshot is the per-pair view handed to reporters after every
// detection cycle: the latest price on each venue plus the recent
// price window, oldest first.
type PairSnapshot struct {
	Pair    pricingDomain.Pair
	Prices  map[pricingDomain.Venue]pricingDomain.CanonicalPrice
	History map[pricingDomain.Venue][]pricingDomain.CanonicalPrice
}

// Reporter receives detection outcomes and market state updates.
// Implementations must tolerate calls from the detection goroutine.
type Reporter interface {
	Start(ctx context.Context) error
	Report(outcome *domain.Outcome)
	UpdatePrices(snapshot *PairSnapshot)
	UpdateConnectionStatus(name string, connected bool)
	Stop() error
}
