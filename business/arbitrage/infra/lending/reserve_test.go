package lending_test

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/fd1az/solarb/business/arbitrage/infra/lending"
	"github.com/fd1az/solarb/internal/apperror"
	"github.com/fd1az/solarb/internal/logger"
	"github.com/fd1az/solarb/internal/token"
)

type stubReader struct {
	data []byte
	err  error
}

func (s *stubReader) ReadAccount(_ context.Context, _ solana.PublicKey) ([]byte, error) {
	return s.data, s.err
}

func testConfig() lending.ReserveConfig {
	return lending.ReserveConfig{
		Address:         token.MintSOL,
		Asset:           "SOL",
		LiquidityOffset: 171,
		Decimals:        9,
	}
}

func reserveAccount(offset int, lamports uint64) []byte {
	data := make([]byte, offset+64)
	binary.LittleEndian.PutUint64(data[offset:], lamports)
	return data
}

func newTestLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func TestReserveProvider_AvailableLiquidity(t *testing.T) {
	cfg := testConfig()
	reader := &stubReader{data: reserveAccount(cfg.LiquidityOffset, 12_500_000_000)}

	provider, err := lending.NewReserveProvider(cfg, reader, newTestLogger())
	if err != nil {
		t.Fatalf("creating provider: %v", err)
	}

	got, err := provider.AvailableLiquidity(context.Background(), "SOL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "12.5" {
		t.Errorf("expected 12.5, got %s", got)
	}
}

func TestReserveProvider_ZeroLiquidity(t *testing.T) {
	cfg := testConfig()
	reader := &stubReader{data: reserveAccount(cfg.LiquidityOffset, 0)}

	provider, err := lending.NewReserveProvider(cfg, reader, newTestLogger())
	if err != nil {
		t.Fatalf("creating provider: %v", err)
	}

	got, err := provider.AvailableLiquidity(context.Background(), "SOL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("expected zero, got %s", got)
	}
}

func TestReserveProvider_WrongAsset(t *testing.T) {
	cfg := testConfig()
	reader := &stubReader{data: reserveAccount(cfg.LiquidityOffset, 1)}

	provider, err := lending.NewReserveProvider(cfg, reader, newTestLogger())
	if err != nil {
		t.Fatalf("creating provider: %v", err)
	}

	_, err = provider.AvailableLiquidity(context.Background(), "USDC")
	if !apperror.IsCode(err, apperror.CodeReserveReadFailed) {
		t.Errorf("expected reserve read failure, got %v", err)
	}
}

func TestReserveProvider_ShortAccount(t *testing.T) {
	cfg := testConfig()
	reader := &stubReader{data: make([]byte, cfg.LiquidityOffset+4)}

	provider, err := lending.NewReserveProvider(cfg, reader, newTestLogger())
	if err != nil {
		t.Fatalf("creating provider: %v", err)
	}

	_, err = provider.AvailableLiquidity(context.Background(), "SOL")
	if !apperror.IsCode(err, apperror.CodeLayoutTooShort) {
		t.Errorf("expected layout too short, got %v", err)
	}
}

func TestReserveProvider_ReadFailure(t *testing.T) {
	cfg := testConfig()
	reader := &stubReader{err: errors.New("rpc unavailable")}

	provider, err := lending.NewReserveProvider(cfg, reader, newTestLogger())
	if err != nil {
		t.Fatalf("creating provider: %v", err)
	}

	_, err = provider.AvailableLiquidity(context.Background(), "SOL")
	if !apperror.IsCode(err, apperror.CodeReserveReadFailed) {
		t.Errorf("expected reserve read failure, got %v", err)
	}
}
