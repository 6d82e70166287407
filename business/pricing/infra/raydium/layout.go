// Package raydium decodes Raydium AMM v4 pool accounts.
package raydium

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/internal/apperror"
)

// AMM v4 state layout byte offsets. The account opens with 32 u64
// status/parameter fields (256 bytes) followed by 80 bytes of swap
// statistics, placing the vault addresses at 336.
const (
	tradeFeeNumeratorOffset   = 144
	tradeFeeDenominatorOffset = 152
	swapFeeNumeratorOffset    = 176
	swapFeeDenominatorOffset  = 184

	baseVaultOffset  = 336
	quoteVaultOffset = 368
	baseMintOffset   = 400
	quoteMintOffset  = 432

	// MinimalSize covers the vault addresses only.
	MinimalSize = quoteVaultOffset + 32

	// ExtendedSize additionally covers the mint addresses and fees.
	ExtendedSize = quoteMintOffset + 32
)

// DefaultFee is the standard Raydium swap fee of 0.25%.
var DefaultFee = domain.RationalFee{Numerator: 25, Denominator: 10_000}

// Decode parses a Raydium AMM v4 account buffer starting at offset.
// The minimal variant exposes only the vault addresses; the extended
// variant additionally carries mints and the swap fee pair. The variant
// is chosen by configuration, never by sniffing the buffer.
func Decode(data []byte, offset int, minimal bool) (domain.DecodedPool, error) {
	need := ExtendedSize
	if minimal {
		need = MinimalSize
	}

	if offset < 0 || len(data)-offset < need {
		return domain.DecodedPool{}, apperror.New(apperror.CodeLayoutTooShort,
			apperror.WithContext(fmt.Sprintf("raydium: have %d bytes, need %d", len(data)-offset, need)))
	}

	buf := data[offset:]

	pool := domain.DecodedPool{
		Kind:       domain.ConstantProduct,
		BaseVault:  solana.PublicKeyFromBytes(buf[baseVaultOffset : baseVaultOffset+32]),
		QuoteVault: solana.PublicKeyFromBytes(buf[quoteVaultOffset : quoteVaultOffset+32]),
	}

	if minimal {
		// Mints and fee are supplied by the caller's pool table.
		return pool, nil
	}

	pool.BaseMint = solana.PublicKeyFromBytes(buf[baseMintOffset : baseMintOffset+32])
	pool.QuoteMint = solana.PublicKeyFromBytes(buf[quoteMintOffset : quoteMintOffset+32])
	pool.Fee = domain.RationalFee{
		Numerator:   binary.LittleEndian.Uint64(buf[swapFeeNumeratorOffset : swapFeeNumeratorOffset+8]),
		Denominator: binary.LittleEndian.Uint64(buf[swapFeeDenominatorOffset : swapFeeDenominatorOffset+8]),
	}

	if pool.Fee.IsZero() {
		pool.Fee = DefaultFee
	}

	return pool, nil
}
