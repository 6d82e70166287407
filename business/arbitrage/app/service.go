// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	marketDomain "github.com/fd1az/solarb/business/market/domain"
	pricingApp "github.com/fd1az/solarb/business/pricing/app"
	pricingDomain "github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/internal/logger"
	"github.com/fd1az/solarb/internal/token"
)

const (
	tracerName = "solarb/arbitrage"
	meterName  = "solarb/arbitrage"

	// Connection status name the reporter shows for the push feed.
	feedName = "feed"
)

// ServiceConfig holds configuration for the arbitrage service.
type ServiceConfig struct {
	Pairs           []pricingDomain.Pair
	LoanAsset       token.Symbol
	MaxLoanFraction decimal.Decimal // share of reserve liquidity to borrow
	PollInterval    time.Duration
	HistorySize     int
}

// serviceMetrics holds OTEL metric instruments.
type serviceMetrics struct {
	cycles             metric.Int64Counter
	skippedCycles      metric.Int64Counter
	profitableOutcomes metric.Int64Counter
	profitQuote        metric.Float64Gauge
	cycleDuration      metric.Float64Histogram
}

// ArbitrageService drives the periodic detection loop: fetch both venue
// states per pair, size the flash loan from the lending reserve, run
// the detector, and hand outcomes and price snapshots to the reporter.
// When an account feed is attached, pushed pool updates refresh venue
// state between polls and the fetch falls back to RPC only when no
// fresh push exists.
type ArbitrageService struct {
	config   ServiceConfig
	pricing  *pricingApp.PricingService
	detector *Detector
	loans    LoanProvider
	feed     AccountFeed
	reporter Reporter
	logger   logger.LoggerInterface

	// One bounded window per pair and venue, created up front and never
	// replaced, so the polling goroutine can push without coordination.
	histories map[string]*pricingDomain.PriceHistory

	// Most recent push-fed state per pair and venue. The poll cycle
	// prefers a fresh entry over an RPC account fetch.
	pushMu sync.RWMutex
	pushed map[string]pushedState

	tracer  trace.Tracer
	metrics *serviceMetrics
}

// pushedState is a venue snapshot delivered by the account feed.
type pushedState struct {
	state *pricingApp.VenueState
	at    time.Time
}

// NewArbitrageService creates a new ArbitrageService.
func NewArbitrageService(
	cfg ServiceConfig,
	pricing *pricingApp.PricingService,
	detector *Detector,
	loans LoanProvider,
	feed AccountFeed,
	reporter Reporter,
	log logger.LoggerInterface,
) (*ArbitrageService, error) {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}

	s := &ArbitrageService{
		config:    cfg,
		pricing:   pricing,
		detector:  detector,
		loans:     loans,
		feed:      feed,
		reporter:  reporter,
		logger:    log,
		histories: make(map[string]*pricingDomain.PriceHistory),
		pushed:    make(map[string]pushedState),
		tracer:    otel.Tracer(tracerName),
	}

	for _, pair := range cfg.Pairs {
		for _, venue := range []pricingDomain.Venue{pricingDomain.VenueRaydium, pricingDomain.VenueOrca} {
			s.histories[historyKey(pair, venue)] = pricingDomain.NewPriceHistory(cfg.HistorySize)
		}
	}

	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return s, nil
}

// initMetrics initializes OTEL metric instruments.
func (s *ArbitrageService) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &serviceMetrics{}

	s.metrics.cycles, err = meter.Int64Counter(
		"detection_cycles_total",
		metric.WithDescription("Total detection cycles per pair"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return err
	}

	s.metrics.skippedCycles, err = meter.Int64Counter(
		"detection_cycles_skipped_total",
		metric.WithDescription("Detection cycles skipped due to missing venue state"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return err
	}

	s.metrics.profitableOutcomes, err = meter.Int64Counter(
		"profitable_outcomes_total",
		metric.WithDescription("Detection cycles that found a profitable round trip"),
		metric.WithUnit("{outcome}"),
	)
	if err != nil {
		return err
	}

	s.metrics.profitQuote, err = meter.Float64Gauge(
		"last_profit_quote",
		metric.WithDescription("Profit of the most recent cycle in quote units"),
		metric.WithUnit("{quote}"),
	)
	if err != nil {
		return err
	}

	s.metrics.cycleDuration, err = meter.Float64Histogram(
		"detection_cycle_duration_ms",
		metric.WithDescription("Wall time of one detection cycle"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Start launches the reporter and the detection loop.
func (s *ArbitrageService) Start(ctx context.Context) error {
	s.logger.Info(ctx, "starting arbitrage service",
		"pairs", len(s.config.Pairs),
		"poll_interval", s.config.PollInterval.String())

	if err := s.reporter.Start(ctx); err != nil {
		return err
	}

	if s.feed != nil {
		s.watchPools(ctx)
	}

	go s.run(ctx)

	return nil
}

// watchPools subscribes to every bound pool account. Push updates
// refresh venue state between polls; a venue whose subscription fails
// stays on the polling path.
func (s *ArbitrageService) watchPools(ctx context.Context) {
	for _, pair := range s.config.Pairs {
		for _, venue := range []pricingDomain.Venue{pricingDomain.VenueRaydium, pricingDomain.VenueOrca} {
			binding, err := s.pricing.Binding(pair, venue)
			if err != nil {
				s.logger.Warn(ctx, "pool not watchable",
					"pair", pair.String(), "venue", string(venue), "error", err)
				continue
			}

			updates, err := s.feed.WatchAccount(ctx, binding.Address)
			if err != nil {
				s.logger.Warn(ctx, "pool subscription failed, polling only",
					"pair", pair.String(), "venue", string(venue), "error", err)
				s.reporter.UpdateConnectionStatus(feedName, false)
				continue
			}

			go s.consumeFeed(ctx, binding, updates)
		}
	}
}

// consumeFeed turns account notifications into venue states.
func (s *ArbitrageService) consumeFeed(ctx context.Context, binding pricingApp.PoolBinding, updates <-chan marketDomain.AccountUpdate) {
	for update := range updates {
		state, err := s.pricing.VenueStateFromData(ctx, binding, update.Data)
		if err != nil {
			s.logger.Warn(ctx, "pushed pool state unusable",
				"pair", binding.Pair.String(),
				"venue", string(binding.Venue),
				"error", err)
			continue
		}

		s.pushMu.Lock()
		s.pushed[historyKey(binding.Pair, binding.Venue)] = pushedState{state: state, at: time.Now()}
		s.pushMu.Unlock()

		s.reporter.UpdateConnectionStatus(feedName,
			s.feed.ConnectionState() == marketDomain.StateConnected)
	}

	// Channel closed: the watcher gave up reconnecting. Polling keeps
	// the pair alive.
	s.reporter.UpdateConnectionStatus(feedName, false)
}

// freshPush returns the push-fed state for pair and venue if it is
// younger than one poll interval. Vault balances are read at push
// time, so an older entry falls back to an RPC fetch.
func (s *ArbitrageService) freshPush(pair pricingDomain.Pair, venue pricingDomain.Venue) (*pricingApp.VenueState, bool) {
	s.pushMu.RLock()
	p, ok := s.pushed[historyKey(pair, venue)]
	s.pushMu.RUnlock()

	if !ok || time.Since(p.at) >= s.config.PollInterval {
		return nil, false
	}
	return p.state, true
}

func (s *ArbitrageService) run(ctx context.Context) {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	s.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "arbitrage service stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

// cycle evaluates every configured pair once. Pairs are independent and
// run concurrently.
func (s *ArbitrageService) cycle(ctx context.Context) {
	var wg sync.WaitGroup
	for _, pair := range s.config.Pairs {
		wg.Add(1)
		go func(pair pricingDomain.Pair) {
			defer wg.Done()
			s.evaluatePair(ctx, pair)
		}(pair)
	}
	wg.Wait()
}

func (s *ArbitrageService) evaluatePair(ctx context.Context, pair pricingDomain.Pair) {
	ctx, span := s.tracer.Start(ctx, "arbitrage.evaluate_pair",
		trace.WithAttributes(attribute.String("pair", pair.String())),
	)
	defer span.End()

	start := time.Now()
	pairAttr := metric.WithAttributes(attribute.String("pair", pair.String()))
	s.metrics.cycles.Add(ctx, 1, pairAttr)

	raydium, orca, ok := s.fetchVenueStates(ctx, pair)
	if !ok {
		s.metrics.skippedCycles.Add(ctx, 1, pairAttr)
		span.SetStatus(codes.Error, "venue state unavailable")
		return
	}

	s.pushHistory(pair, raydium)
	s.pushHistory(pair, orca)
	s.reporter.UpdatePrices(s.snapshot(pair, raydium, orca))

	loanAmount := s.loanAmount(ctx, pair)

	outcome := s.detector.Detect(pair, raydium, orca, loanAmount)
	s.reporter.Report(&outcome)

	s.metrics.profitQuote.Record(ctx, outcome.ProfitInQuote, pairAttr)
	if outcome.IsProfitable {
		s.metrics.profitableOutcomes.Add(ctx, 1, pairAttr)
		s.logger.Info(ctx, "profitable round trip",
			"pair", pair.String(),
			"buy_venue", string(outcome.BuyVenue),
			"sell_venue", string(outcome.SellVenue),
			"loan_amount", outcome.LoanAmount.String(),
			"profit_quote", outcome.ProfitInQuote)
	}

	s.metrics.cycleDuration.Record(ctx, float64(time.Since(start).Milliseconds()), pairAttr)
	span.SetStatus(codes.Ok, "")
}

// fetchVenueStates loads both venue snapshots concurrently. A failure
// on either side skips the cycle; the next tick retries naturally.
func (s *ArbitrageService) fetchVenueStates(ctx context.Context, pair pricingDomain.Pair) (raydium, orca *pricingApp.VenueState, ok bool) {
	type venueResult struct {
		venue pricingDomain.Venue
		state *pricingApp.VenueState
		err   error
	}

	venues := []pricingDomain.Venue{pricingDomain.VenueRaydium, pricingDomain.VenueOrca}
	results := make(chan venueResult, len(venues))

	for _, venue := range venues {
		go func(venue pricingDomain.Venue) {
			if state, ok := s.freshPush(pair, venue); ok {
				results <- venueResult{venue: venue, state: state}
				return
			}
			binding, err := s.pricing.Binding(pair, venue)
			if err != nil {
				results <- venueResult{venue: venue, err: err}
				return
			}
			state, err := s.pricing.FetchVenueState(ctx, binding)
			results <- venueResult{venue: venue, state: state, err: err}
		}(venue)
	}

	ok = true
	for range venues {
		res := <-results
		if res.err != nil {
			s.logger.Warn(ctx, "venue state unavailable",
				"pair", pair.String(),
				"venue", string(res.venue),
				"error", res.err)
			s.reporter.UpdateConnectionStatus(string(res.venue), false)
			ok = false
			continue
		}
		s.reporter.UpdateConnectionStatus(string(res.venue), true)
		switch res.venue {
		case pricingDomain.VenueRaydium:
			raydium = res.state
		case pricingDomain.VenueOrca:
			orca = res.state
		}
	}

	if !ok {
		return nil, nil, false
	}
	return raydium, orca, true
}

// loanAmount sizes the flash loan from the reserve's available
// liquidity. A read failure degrades to zero so the detector reports a
// zero outcome instead of the cycle failing.
func (s *ArbitrageService) loanAmount(ctx context.Context, pair pricingDomain.Pair) decimal.Decimal {
	liquidity, err := s.loans.AvailableLiquidity(ctx, s.config.LoanAsset)
	if err != nil {
		s.logger.Warn(ctx, "reserve liquidity unavailable",
			"pair", pair.String(),
			"asset", string(s.config.LoanAsset),
			"error", err)
		return decimal.Zero
	}

	if s.config.MaxLoanFraction.IsPositive() {
		return liquidity.Mul(s.config.MaxLoanFraction)
	}
	return liquidity
}

func (s *ArbitrageService) pushHistory(pair pricingDomain.Pair, state *pricingApp.VenueState) {
	if h := s.histories[historyKey(pair, state.Venue)]; h != nil {
		h.Push(state.Price)
	}
}

func (s *ArbitrageService) snapshot(pair pricingDomain.Pair, states ...*pricingApp.VenueState) *PairSnapshot {
	snap := &PairSnapshot{
		Pair:    pair,
		Prices:  make(map[pricingDomain.Venue]pricingDomain.CanonicalPrice, len(states)),
		History: make(map[pricingDomain.Venue][]pricingDomain.CanonicalPrice, len(states)),
	}
	for _, state := range states {
		snap.Prices[state.Venue] = state.Price
		if h := s.histories[historyKey(pair, state.Venue)]; h != nil {
			snap.History[state.Venue] = h.Points()
		}
	}
	return snap
}

// History returns the recorded price window for a pair and venue,
// oldest first.
func (s *ArbitrageService) History(pair pricingDomain.Pair, venue pricingDomain.Venue) []pricingDomain.CanonicalPrice {
	if h := s.histories[historyKey(pair, venue)]; h != nil {
		return h.Points()
	}
	return nil
}

// Pairs returns the pairs this service evaluates.
func (s *ArbitrageService) Pairs() []pricingDomain.Pair {
	return s.config.Pairs
}

// Stop gracefully shuts down the service.
func (s *ArbitrageService) Stop() error {
	return s.reporter.Stop()
}

func historyKey(pair pricingDomain.Pair, venue pricingDomain.Venue) string {
	return pair.String() + "/" + string(venue)
}
