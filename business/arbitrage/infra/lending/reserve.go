// Package lending reads flash-loan reserve accounts from the chain.
package lending

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/solarb/internal/apperror"
	"github.com/fd1az/solarb/internal/logger"
	"github.com/fd1az/solarb/internal/token"
)

const (
	tracerName = "solarb/arbitrage/lending"
	meterName  = "solarb/arbitrage/lending"
)

// ReserveConfig locates the available-liquidity field inside a lending
// reserve account. The field is a little-endian u64 in the asset's
// smallest unit at a fixed byte offset.
type ReserveConfig struct {
	Address         solana.PublicKey
	Asset           token.Symbol
	LiquidityOffset int
	Decimals        uint8
}

// AccountReader is the narrow chain dependency of the reserve provider.
type AccountReader interface {
	ReadAccount(ctx context.Context, address solana.PublicKey) ([]byte, error)
}

// reserveMetrics holds OTEL metric instruments.
type reserveMetrics struct {
	reads      metric.Int64Counter
	readErrors metric.Int64Counter
	liquidity  metric.Float64Gauge
}

// ReserveProvider reads the available flash-loan liquidity from a
// lending reserve account.
type ReserveProvider struct {
	config  ReserveConfig
	reader  AccountReader
	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *reserveMetrics
}

// NewReserveProvider creates a new ReserveProvider.
func NewReserveProvider(cfg ReserveConfig, reader AccountReader, log logger.LoggerInterface) (*ReserveProvider, error) {
	p := &ReserveProvider{
		config: cfg,
		reader: reader,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}

	if err := p.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return p, nil
}

// initMetrics initializes OTEL metric instruments.
func (p *ReserveProvider) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	p.metrics = &reserveMetrics{}

	p.metrics.reads, err = meter.Int64Counter(
		"reserve_reads_total",
		metric.WithDescription("Total reserve liquidity reads"),
		metric.WithUnit("{read}"),
	)
	if err != nil {
		return err
	}

	p.metrics.readErrors, err = meter.Int64Counter(
		"reserve_read_errors_total",
		metric.WithDescription("Failed reserve liquidity reads"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	p.metrics.liquidity, err = meter.Float64Gauge(
		"reserve_available_liquidity",
		metric.WithDescription("Available liquidity in natural units"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// AvailableLiquidity returns the reserve's borrowable liquidity in
// natural units of the asset.
func (p *ReserveProvider) AvailableLiquidity(ctx context.Context, asset token.Symbol) (decimal.Decimal, error) {
	ctx, span := p.tracer.Start(ctx, "lending.available_liquidity",
		trace.WithAttributes(
			attribute.String("asset", string(asset)),
			attribute.String("reserve", p.config.Address.String()),
		),
	)
	defer span.End()

	p.metrics.reads.Add(ctx, 1)

	if asset != p.config.Asset {
		err := apperror.New(apperror.CodeReserveReadFailed,
			apperror.WithContext(fmt.Sprintf("reserve holds %s, requested %s", p.config.Asset, asset)))
		p.metrics.readErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, err.Error())
		return decimal.Zero, err
	}

	data, err := p.reader.ReadAccount(ctx, p.config.Address)
	if err != nil {
		wrapped := apperror.New(apperror.CodeReserveReadFailed,
			apperror.WithCause(err),
			apperror.WithContext("reading reserve account "+p.config.Address.String()))
		p.metrics.readErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, wrapped.Error())
		return decimal.Zero, wrapped
	}

	liquidity, err := p.decodeLiquidity(data)
	if err != nil {
		p.metrics.readErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, err.Error())
		return decimal.Zero, err
	}

	value, _ := liquidity.Float64()
	p.metrics.liquidity.Record(ctx, value, metric.WithAttributes(attribute.String("asset", string(asset))))
	p.logger.Debug(ctx, "reserve liquidity read", "asset", string(asset), "liquidity", liquidity.String())
	span.SetStatus(codes.Ok, "")

	return liquidity, nil
}

// decodeLiquidity extracts the u64 liquidity field and scales it from
// the asset's smallest unit to natural units.
func (p *ReserveProvider) decodeLiquidity(data []byte) (decimal.Decimal, error) {
	end := p.config.LiquidityOffset + 8
	if p.config.LiquidityOffset < 0 || len(data) < end {
		return decimal.Zero, apperror.New(apperror.CodeLayoutTooShort,
			apperror.WithContext(fmt.Sprintf("reserve account is %d bytes, liquidity field needs %d", len(data), end)))
	}

	raw := binary.LittleEndian.Uint64(data[p.config.LiquidityOffset:end])
	return decimal.NewFromUint64(raw).Shift(-int32(p.config.Decimals)), nil
}
