package app

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/business/pricing/infra/orca"
	"github.com/fd1az/solarb/business/pricing/infra/raydium"
	"github.com/fd1az/solarb/internal/apperror"
	"github.com/fd1az/solarb/internal/logger"
)

const tracerName = "solarb/pricing"

// PoolBinding ties a pair's venue to its on-chain pool account and
// decode parameters. Mints and the default fee fill the gaps of the
// minimal constant-product layout.
type PoolBinding struct {
	Pair          domain.Pair
	Venue         domain.Venue
	Kind          domain.LayoutKind
	Address       solana.PublicKey
	MinimalLayout bool
	BaseMint      solana.PublicKey
	QuoteMint     solana.PublicKey
	DefaultFee    domain.RationalFee
}

// VenueState is a fully decoded, balance-filled, priced pool snapshot.
type VenueState struct {
	Venue domain.Venue
	Pair  domain.Pair
	Pool  domain.DecodedPool
	Price domain.CanonicalPrice
}

// PricingService decodes pool accounts and derives canonical prices.
type PricingService struct {
	reader     ChainReader
	normalizer *Normalizer
	bindings   map[string][]PoolBinding // pair string -> bindings per venue
	logger     logger.LoggerInterface
	tracer     trace.Tracer
}

// NewPricingService creates a new PricingService.
func NewPricingService(reader ChainReader, normalizer *Normalizer, bindings []PoolBinding, log logger.LoggerInterface) *PricingService {
	byPair := make(map[string][]PoolBinding)
	for _, b := range bindings {
		key := b.Pair.String()
		byPair[key] = append(byPair[key], b)
	}

	return &PricingService{
		reader:     reader,
		normalizer: normalizer,
		bindings:   byPair,
		logger:     log,
		tracer:     otel.Tracer(tracerName),
	}
}

// Bindings returns the bindings configured for a pair.
func (s *PricingService) Bindings(pair domain.Pair) []PoolBinding {
	return s.bindings[pair.String()]
}

// Binding returns the binding for a specific venue of a pair.
func (s *PricingService) Binding(pair domain.Pair, venue domain.Venue) (PoolBinding, error) {
	for _, b := range s.bindings[pair.String()] {
		if b.Venue == venue {
			return b, nil
		}
	}
	return PoolBinding{}, apperror.New(apperror.CodePoolNotConfigured,
		apperror.WithContext(fmt.Sprintf("%s on %s", pair, venue)))
}

// FetchVenueState reads, decodes, and prices one venue's pool.
func (s *PricingService) FetchVenueState(ctx context.Context, binding PoolBinding) (*VenueState, error) {
	ctx, span := s.tracer.Start(ctx, "pricing.fetch_venue_state",
		trace.WithAttributes(
			attribute.String("venue", string(binding.Venue)),
			attribute.String("pair", binding.Pair.String()),
		),
	)
	defer span.End()

	data, err := s.reader.ReadAccount(ctx, binding.Address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "account read failed")
		return nil, err
	}

	state, err := s.assemble(ctx, binding, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assemble failed")
		return nil, err
	}

	span.SetAttributes(attribute.Float64("price", state.Price.Value))
	span.SetStatus(codes.Ok, "priced")

	return state, nil
}

// VenueStateFromData builds the same snapshot FetchVenueState does,
// but from account bytes the node already pushed. Vault balances are
// still read over RPC: they live in separate token accounts and are
// not part of the pool account's data.
func (s *PricingService) VenueStateFromData(ctx context.Context, binding PoolBinding, data []byte) (*VenueState, error) {
	ctx, span := s.tracer.Start(ctx, "pricing.venue_state_from_data",
		trace.WithAttributes(
			attribute.String("venue", string(binding.Venue)),
			attribute.String("pair", binding.Pair.String()),
		),
	)
	defer span.End()

	state, err := s.assemble(ctx, binding, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assemble failed")
		return nil, err
	}

	span.SetAttributes(attribute.Float64("price", state.Price.Value))
	span.SetStatus(codes.Ok, "priced")

	return state, nil
}

// assemble decodes pool bytes, fills vault balances, and prices the pool.
func (s *PricingService) assemble(ctx context.Context, binding PoolBinding, data []byte) (*VenueState, error) {
	pool, err := s.decode(binding, data)
	if err != nil {
		return nil, err
	}

	if err := s.fillBalances(ctx, &pool); err != nil {
		return nil, err
	}

	price, err := s.normalizer.NormalizePrice(&pool, binding.Pair)
	if err != nil {
		return nil, err
	}

	return &VenueState{
		Venue: binding.Venue,
		Pair:  binding.Pair,
		Pool:  pool,
		Price: price,
	}, nil
}

// DecodePool decodes raw account bytes for a binding without any I/O.
// Vault balances are left zero; callers fill them separately.
func (s *PricingService) DecodePool(binding PoolBinding, data []byte) (domain.DecodedPool, error) {
	return s.decode(binding, data)
}

func (s *PricingService) decode(binding PoolBinding, data []byte) (domain.DecodedPool, error) {
	var (
		pool domain.DecodedPool
		err  error
	)

	switch binding.Kind {
	case domain.ConstantProduct:
		pool, err = raydium.Decode(data, 0, binding.MinimalLayout)
		if err != nil {
			return domain.DecodedPool{}, err
		}
		if binding.MinimalLayout {
			pool.BaseMint = binding.BaseMint
			pool.QuoteMint = binding.QuoteMint
			pool.Fee = binding.DefaultFee
		}
	case domain.ConcentratedLiquidity:
		pool, err = orca.Decode(data)
		if err != nil {
			return domain.DecodedPool{}, err
		}
	default:
		return domain.DecodedPool{}, apperror.New(apperror.CodeUnknownLayout,
			apperror.WithContext(string(binding.Kind)))
	}

	if pool.Fee.IsZero() && !binding.DefaultFee.IsZero() {
		pool.Fee = binding.DefaultFee
	}

	return pool, nil
}

// fillBalances fetches both vault balances. The reads are independent
// and issued concurrently.
func (s *PricingService) fillBalances(ctx context.Context, pool *domain.DecodedPool) error {
	type result struct {
		base  bool
		value decimal.Decimal
		err   error
	}

	results := make(chan result, 2)

	for _, side := range []struct {
		vault solana.PublicKey
		base  bool
	}{
		{pool.BaseVault, true},
		{pool.QuoteVault, false},
	} {
		go func(vault solana.PublicKey, base bool) {
			bal, err := s.reader.ReadTokenBalance(ctx, vault)
			results <- result{base: base, value: bal, err: err}
		}(side.vault, side.base)
	}

	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			return r.err
		}
		if r.base {
			pool.BaseVaultBalance = r.value
		} else {
			pool.QuoteVaultBalance = r.value
		}
	}

	return nil
}
