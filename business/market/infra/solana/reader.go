// Package solana implements market ports against a Solana RPC node.
package solana

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/solarb/internal/apperror"
	"github.com/fd1az/solarb/internal/circuitbreaker"
	"github.com/fd1az/solarb/internal/logger"
	"github.com/fd1az/solarb/internal/ratelimit"
)

const (
	tracerName = "solarb/market/solana"
	meterName  = "solarb/market/solana"

	// Two vaults per pool, two pools per pair. 256 entries outlasts any
	// realistic pair list.
	balanceCacheSize = 256
)

// ReaderConfig holds configuration for the account reader.
type ReaderConfig struct {
	Commitment        rpc.CommitmentType
	RequestsPerMinute int
	BalanceCacheTTL   time.Duration
}

// DefaultReaderConfig returns sensible defaults.
func DefaultReaderConfig(commitment string, requestsPerMinute int) ReaderConfig {
	c := rpc.CommitmentConfirmed
	if commitment != "" {
		c = rpc.CommitmentType(commitment)
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 300
	}

	return ReaderConfig{
		Commitment:        c,
		RequestsPerMinute: requestsPerMinute,
		BalanceCacheTTL:   2 * time.Second,
	}
}

// readerMetrics holds OTEL metric instruments.
type readerMetrics struct {
	accountReads  metric.Int64Counter
	balanceReads  metric.Int64Counter
	readErrors    metric.Int64Counter
	readLatencyMs metric.Float64Histogram
	cacheHits     metric.Int64Counter
}

// Reader implements the AccountReader port using a Solana RPC client.
type Reader struct {
	config ReaderConfig
	logger logger.LoggerInterface
	client *rpc.Client

	limiter *ratelimit.Limiter

	// Vault balances move at most once per slot, so a short TTL dedupes
	// concurrent reads from the detection loop without serving stale data.
	balanceCache *expirable.LRU[solana.PublicKey, decimal.Decimal]

	// Circuit breakers
	accountCB *circuitbreaker.CircuitBreaker[[]byte]
	balanceCB *circuitbreaker.CircuitBreaker[decimal.Decimal]

	// Observability
	tracer  trace.Tracer
	metrics *readerMetrics
}

// NewReader creates a new account reader.
func NewReader(client *rpc.Client, cfg ReaderConfig, log logger.LoggerInterface) (*Reader, error) {
	r := &Reader{
		config:       cfg,
		logger:       log,
		client:       client,
		limiter:      ratelimit.New(cfg.RequestsPerMinute),
		balanceCache: expirable.NewLRU[solana.PublicKey, decimal.Decimal](balanceCacheSize, nil, cfg.BalanceCacheTTL),
		tracer:       otel.Tracer(tracerName),
	}

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	r.initCircuitBreakers()

	return r, nil
}

// initMetrics initializes OTEL metric instruments.
func (r *Reader) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &readerMetrics{}

	r.metrics.accountReads, err = meter.Int64Counter(
		"account_reads_total",
		metric.WithDescription("Total account read attempts"),
		metric.WithUnit("{read}"),
	)
	if err != nil {
		return err
	}

	r.metrics.balanceReads, err = meter.Int64Counter(
		"token_balance_reads_total",
		metric.WithDescription("Total token balance read attempts"),
		metric.WithUnit("{read}"),
	)
	if err != nil {
		return err
	}

	r.metrics.readErrors, err = meter.Int64Counter(
		"rpc_read_errors_total",
		metric.WithDescription("Total failed RPC reads"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	r.metrics.readLatencyMs, err = meter.Float64Histogram(
		"rpc_read_latency_ms",
		metric.WithDescription("RPC read latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	r.metrics.cacheHits, err = meter.Int64Counter(
		"balance_cache_hits_total",
		metric.WithDescription("Token balance cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// initCircuitBreakers initializes the circuit breakers.
func (r *Reader) initCircuitBreakers() {
	accountCfg := circuitbreaker.DefaultConfig("solana-account")
	r.accountCB = circuitbreaker.New[[]byte](accountCfg)

	balanceCfg := circuitbreaker.DefaultConfig("solana-balance")
	r.balanceCB = circuitbreaker.New[decimal.Decimal](balanceCfg)
}

// ReadAccount retrieves the raw data bytes of an account.
func (r *Reader) ReadAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	ctx, span := r.tracer.Start(ctx, "market.read_account",
		trace.WithAttributes(attribute.String("address", address.String())),
	)
	defer span.End()

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	r.metrics.accountReads.Add(ctx, 1)
	start := time.Now()

	data, err := r.accountCB.Execute(func() ([]byte, error) {
		result, err := r.client.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
			Commitment: r.config.Commitment,
			Encoding:   solana.EncodingBase64,
		})
		if err != nil {
			return nil, err
		}
		if result == nil || result.Value == nil {
			return nil, apperror.New(apperror.CodeAccountNotFound,
				apperror.WithContext(address.String()))
		}
		return result.Value.Data.GetBinary(), nil
	})

	r.metrics.readLatencyMs.Record(ctx, float64(time.Since(start).Milliseconds()))

	if err != nil {
		r.metrics.readErrors.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")

		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.New(apperror.CodeSolanaRPCError,
			apperror.WithCause(err),
			apperror.WithContext(address.String()))
	}

	span.SetAttributes(attribute.Int("bytes", len(data)))
	span.SetStatus(codes.Ok, "read")

	return data, nil
}

// ReadTokenBalance retrieves the UI balance of an SPL token account.
func (r *Reader) ReadTokenBalance(ctx context.Context, vault solana.PublicKey) (decimal.Decimal, error) {
	ctx, span := r.tracer.Start(ctx, "market.read_token_balance",
		trace.WithAttributes(attribute.String("vault", vault.String())),
	)
	defer span.End()

	if balance, found := r.balanceCache.Get(vault); found {
		r.metrics.cacheHits.Add(ctx, 1)
		span.AddEvent("cache_hit")
		return balance, nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}

	r.metrics.balanceReads.Add(ctx, 1)
	start := time.Now()

	balance, err := r.balanceCB.Execute(func() (decimal.Decimal, error) {
		result, err := r.client.GetTokenAccountBalance(ctx, vault, r.config.Commitment)
		if err != nil {
			return decimal.Zero, err
		}
		if result == nil || result.Value == nil {
			return decimal.Zero, apperror.New(apperror.CodeAccountNotFound,
				apperror.WithContext(vault.String()))
		}

		ui := result.Value.UiAmountString
		if ui == "" {
			ui = "0"
		}
		return decimal.NewFromString(ui)
	})

	r.metrics.readLatencyMs.Record(ctx, float64(time.Since(start).Milliseconds()))

	if err != nil {
		r.metrics.readErrors.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")

		if apperror.IsAppError(err) {
			return decimal.Zero, err
		}
		return decimal.Zero, apperror.New(apperror.CodeTokenBalanceFailed,
			apperror.WithCause(err),
			apperror.WithContext(vault.String()))
	}

	r.balanceCache.Add(vault, balance)

	span.SetAttributes(attribute.String("balance", balance.String()))
	span.SetStatus(codes.Ok, "read")

	return balance, nil
}

