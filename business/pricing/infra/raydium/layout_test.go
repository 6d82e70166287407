package raydium_test

import (
	"encoding/binary"
	"testing"

	"github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/business/pricing/infra/raydium"
	"github.com/fd1az/solarb/internal/apperror"
	"github.com/fd1az/solarb/internal/token"
)

// buildAccount builds an extended AMM v4 buffer with known vaults, mints
// and fee fields.
func buildAccount(feeNum, feeDen uint64) []byte {
	buf := make([]byte, raydium.ExtendedSize)

	binary.LittleEndian.PutUint64(buf[176:184], feeNum)
	binary.LittleEndian.PutUint64(buf[184:192], feeDen)

	copy(buf[336:368], token.MintPOPCAT[:]) // base vault (any 32-byte value)
	copy(buf[368:400], token.MintJTO[:])    // quote vault
	copy(buf[400:432], token.MintSOL[:])    // base mint
	copy(buf[432:464], token.MintUSDC[:])   // quote mint

	return buf
}

func TestDecode_Extended(t *testing.T) {
	buf := buildAccount(25, 10_000)

	pool, err := raydium.Decode(buf, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pool.Kind != domain.ConstantProduct {
		t.Errorf("expected constant product kind, got %s", pool.Kind)
	}
	if !pool.BaseVault.Equals(token.MintPOPCAT) {
		t.Errorf("unexpected base vault: %s", pool.BaseVault)
	}
	if !pool.QuoteVault.Equals(token.MintJTO) {
		t.Errorf("unexpected quote vault: %s", pool.QuoteVault)
	}
	if !pool.BaseMint.Equals(token.MintSOL) {
		t.Errorf("unexpected base mint: %s", pool.BaseMint)
	}
	if !pool.QuoteMint.Equals(token.MintUSDC) {
		t.Errorf("unexpected quote mint: %s", pool.QuoteMint)
	}
	if pool.Fee.Numerator != 25 || pool.Fee.Denominator != 10_000 {
		t.Errorf("unexpected fee: %d/%d", pool.Fee.Numerator, pool.Fee.Denominator)
	}
}

func TestDecode_ExtendedZeroFeeFallsBack(t *testing.T) {
	buf := buildAccount(0, 0)

	pool, err := raydium.Decode(buf, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pool.Fee != raydium.DefaultFee {
		t.Errorf("expected default fee, got %d/%d", pool.Fee.Numerator, pool.Fee.Denominator)
	}
}

func TestDecode_Minimal(t *testing.T) {
	buf := buildAccount(25, 10_000)[:raydium.MinimalSize]

	pool, err := raydium.Decode(buf, 0, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !pool.BaseVault.Equals(token.MintPOPCAT) {
		t.Errorf("unexpected base vault: %s", pool.BaseVault)
	}
	if !pool.QuoteVault.Equals(token.MintJTO) {
		t.Errorf("unexpected quote vault: %s", pool.QuoteVault)
	}
	if !pool.BaseMint.IsZero() || !pool.QuoteMint.IsZero() {
		t.Error("minimal layout should not decode mints")
	}
	if !pool.Fee.IsZero() {
		t.Error("minimal layout should not decode a fee")
	}
}

func TestDecode_TooShort(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		minimal bool
	}{
		{"empty_extended", 0, false},
		{"minimal_size_but_extended_wanted", raydium.MinimalSize, false},
		{"one_byte_short_minimal", raydium.MinimalSize - 1, true},
		{"one_byte_short_extended", raydium.ExtendedSize - 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := raydium.Decode(make([]byte, tt.size), 0, tt.minimal)
			if !apperror.IsCode(err, apperror.CodeLayoutTooShort) {
				t.Errorf("expected layout too short error, got %v", err)
			}
		})
	}
}

func TestDecode_OffsetShiftsLayout(t *testing.T) {
	buf := append(make([]byte, 7), buildAccount(25, 10_000)...)

	pool, err := raydium.Decode(buf, 7, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pool.BaseMint.Equals(token.MintSOL) {
		t.Errorf("unexpected base mint at offset: %s", pool.BaseMint)
	}
}

func TestDecode_Idempotent(t *testing.T) {
	buf := buildAccount(25, 10_000)

	first, err := raydium.Decode(buf, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := raydium.Decode(buf, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Error("expected identical pools from identical bytes")
	}
}
