package app_test

import (
	"context"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/fd1az/solarb/business/arbitrage/app"
	arbDomain "github.com/fd1az/solarb/business/arbitrage/domain"
	marketDomain "github.com/fd1az/solarb/business/market/domain"
	pricingApp "github.com/fd1az/solarb/business/pricing/app"
	pricingDomain "github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/business/pricing/infra/raydium"
	"github.com/fd1az/solarb/internal/apperror"
	"github.com/fd1az/solarb/internal/logger"
	"github.com/fd1az/solarb/internal/token"
)

type chainReaderStub struct {
	mu       sync.Mutex
	accounts map[solana.PublicKey][]byte
	failing  map[solana.PublicKey]bool
	balances map[solana.PublicKey]decimal.Decimal
}

func newChainReaderStub() *chainReaderStub {
	return &chainReaderStub{
		accounts: make(map[solana.PublicKey][]byte),
		failing:  make(map[solana.PublicKey]bool),
		balances: make(map[solana.PublicKey]decimal.Decimal),
	}
}

func (r *chainReaderStub) ReadAccount(_ context.Context, address solana.PublicKey) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing[address] {
		return nil, apperror.New(apperror.CodeSolanaRPCError, apperror.WithContext(address.String()))
	}
	data, ok := r.accounts[address]
	if !ok {
		return nil, apperror.New(apperror.CodeAccountNotFound, apperror.WithContext(address.String()))
	}
	return data, nil
}

func (r *chainReaderStub) ReadTokenBalance(_ context.Context, vault solana.PublicKey) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bal, ok := r.balances[vault]
	if !ok {
		return decimal.Zero, apperror.New(apperror.CodeAccountNotFound, apperror.WithContext(vault.String()))
	}
	return bal, nil
}

func (r *chainReaderStub) failAccount(address solana.PublicKey) {
	r.mu.Lock()
	r.failing[address] = true
	r.mu.Unlock()
}

func (r *chainReaderStub) setBalance(vault solana.PublicKey, balance decimal.Decimal) {
	r.mu.Lock()
	r.balances[vault] = balance
	r.mu.Unlock()
}

type feedStub struct {
	mu       sync.Mutex
	channels map[solana.PublicKey]chan marketDomain.AccountUpdate
}

func newFeedStub() *feedStub {
	return &feedStub{channels: make(map[solana.PublicKey]chan marketDomain.AccountUpdate)}
}

func (f *feedStub) WatchAccount(_ context.Context, address solana.PublicKey) (<-chan marketDomain.AccountUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan marketDomain.AccountUpdate, 4)
	f.channels[address] = ch
	return ch, nil
}

func (f *feedStub) ConnectionState() marketDomain.ConnectionState {
	return marketDomain.StateConnected
}

func (f *feedStub) push(address solana.PublicKey, data []byte) {
	f.mu.Lock()
	ch := f.channels[address]
	f.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- marketDomain.AccountUpdate{Address: address, Data: data, Slot: 1, ReceivedAt: time.Now()}:
	default:
	}
}

func (f *feedStub) closeChannel(address solana.PublicKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch := f.channels[address]; ch != nil {
		close(ch)
		delete(f.channels, address)
	}
}

type loanStub struct{}

func (loanStub) AvailableLiquidity(context.Context, token.Symbol) (decimal.Decimal, error) {
	return decimal.NewFromInt(1000), nil
}

type recordingReporter struct {
	mu        sync.Mutex
	snapshots []*app.PairSnapshot
	statuses  map[string]bool
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{statuses: make(map[string]bool)}
}

func (r *recordingReporter) Start(context.Context) error { return nil }
func (r *recordingReporter) Report(*arbDomain.Outcome)   {}
func (r *recordingReporter) Stop() error                 { return nil }

func (r *recordingReporter) UpdatePrices(snapshot *app.PairSnapshot) {
	r.mu.Lock()
	r.snapshots = append(r.snapshots, snapshot)
	r.mu.Unlock()
}

func (r *recordingReporter) UpdateConnectionStatus(name string, connected bool) {
	r.mu.Lock()
	r.statuses[name] = connected
	r.mu.Unlock()
}

func (r *recordingReporter) lastPrice(venue pricingDomain.Venue) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		if price, ok := r.snapshots[i].Prices[venue]; ok {
			return price.Value, true
		}
	}
	return 0, false
}

func (r *recordingReporter) status(name string) (connected, seen bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	connected, seen = r.statuses[name]
	return connected, seen
}

// minimalPool builds a minimal AMM v4 buffer carrying only the vaults.
func minimalPool(baseVault, quoteVault solana.PublicKey) []byte {
	buf := make([]byte, raydium.MinimalSize)
	copy(buf[336:368], baseVault[:])
	copy(buf[368:400], quoteVault[:])
	return buf
}

func TestArbitrageService_PushFeedRefreshesVenueState(t *testing.T) {
	pair := pricingDomain.NewPair("SOL", "USDC")

	raydiumPool := randomMint(t)
	orcaPool := randomMint(t)
	raydiumBase, raydiumQuote := randomMint(t), randomMint(t)
	orcaBase, orcaQuote := randomMint(t), randomMint(t)

	reader := newChainReaderStub()
	reader.accounts[raydiumPool] = minimalPool(raydiumBase, raydiumQuote)
	reader.accounts[orcaPool] = minimalPool(orcaBase, orcaQuote)
	reader.setBalance(raydiumBase, decimal.NewFromInt(1000))
	reader.setBalance(raydiumQuote, decimal.NewFromInt(100_000))
	reader.setBalance(orcaBase, decimal.NewFromInt(1000))
	reader.setBalance(orcaQuote, decimal.NewFromInt(101_000))

	fee := pricingDomain.RationalFee{Numerator: 25, Denominator: 10_000}
	bindings := []pricingApp.PoolBinding{
		{
			Pair: pair, Venue: pricingDomain.VenueRaydium,
			Kind: pricingDomain.ConstantProduct, Address: raydiumPool,
			MinimalLayout: true, BaseMint: token.MintSOL, QuoteMint: token.MintUSDC,
			DefaultFee: fee,
		},
		{
			Pair: pair, Venue: pricingDomain.VenueOrca,
			Kind: pricingDomain.ConstantProduct, Address: orcaPool,
			MinimalLayout: true, BaseMint: token.MintSOL, QuoteMint: token.MintUSDC,
			DefaultFee: fee,
		},
	}

	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	pricing := pricingApp.NewPricingService(reader, pricingApp.NewNormalizer(token.DefaultRegistry()), bindings, log)
	detector := app.NewDetector(token.MintSOL, decimal.Zero, decimal.RequireFromString("0.01"))
	feed := newFeedStub()
	reporter := newRecordingReporter()

	service, err := app.NewArbitrageService(
		app.ServiceConfig{
			Pairs:           []pricingDomain.Pair{pair},
			LoanAsset:       "SOL",
			MaxLoanFraction: decimal.RequireFromString("0.1"),
			PollInterval:    25 * time.Millisecond,
			HistorySize:     8,
		},
		pricing, detector, loanStub{}, feed, reporter, log,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := service.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer service.Stop()

	// First cycles come over RPC.
	waitFor(t, 2*time.Second, func() bool {
		price, ok := reporter.lastPrice(pricingDomain.VenueRaydium)
		return ok && math.Abs(price-100) < 1e-9
	})

	// Kill the RPC account path for the Raydium pool and move its
	// quote vault. The new price can now only arrive over the feed.
	reader.failAccount(raydiumPool)
	reader.setBalance(raydiumQuote, decimal.NewFromInt(105_000))

	data := minimalPool(raydiumBase, raydiumQuote)
	waitFor(t, 3*time.Second, func() bool {
		feed.push(raydiumPool, data)
		price, ok := reporter.lastPrice(pricingDomain.VenueRaydium)
		return ok && math.Abs(price-105) < 1e-9
	})

	if connected, seen := reporter.status("feed"); !seen || !connected {
		t.Errorf("expected feed reported connected, got connected=%v seen=%v", connected, seen)
	}

	// A closed feed channel degrades the feed status; polling remains.
	feed.closeChannel(raydiumPool)
	waitFor(t, 2*time.Second, func() bool {
		connected, seen := reporter.status("feed")
		return seen && !connected
	})
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
