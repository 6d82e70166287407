// Package orca decodes Orca whirlpool accounts.
package orca

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/internal/apperror"
)

// discriminatorSize is the Anchor account tag preceding the struct fields.
const discriminatorSize = 8

// minAccountSize is the discriminator plus all fields through the first
// reward timestamp.
const minAccountSize = discriminatorSize + 261

// Decode parses a whirlpool account buffer. Fields are read in strict
// declaration order after skipping the 8-byte discriminator; all
// multi-byte integers are little-endian.
func Decode(data []byte) (domain.DecodedPool, error) {
	if len(data) < minAccountSize {
		return domain.DecodedPool{}, apperror.New(apperror.CodeLayoutTooShort,
			apperror.WithContext(fmt.Sprintf("orca: have %d bytes, need %d", len(data), minAccountSize)))
	}

	buf := data[discriminatorSize:]
	pos := 0

	skip := func(n int) { pos += n }
	readU16 := func() uint16 {
		v := binary.LittleEndian.Uint16(buf[pos : pos+2])
		pos += 2
		return v
	}
	readU128 := func() *big.Int {
		v := readUint128LE(buf[pos : pos+16])
		pos += 16
		return v
	}
	readPubkey := func() solana.PublicKey {
		v := solana.PublicKeyFromBytes(buf[pos : pos+32])
		pos += 32
		return v
	}

	skip(32) // whirlpools config
	skip(1)  // bump
	tickSpacing := readU16()
	skip(2) // tick spacing seed
	feeRate := readU16()
	skip(2) // protocol fee rate
	liquidity := readU128()
	sqrtPrice := readU128()
	tickIndex := int32(binary.LittleEndian.Uint32(buf[pos : pos+4]))
	pos += 4
	skip(8) // protocol fee owed A
	skip(8) // protocol fee owed B
	mintA := readPubkey()
	vaultA := readPubkey()
	skip(16) // fee growth global A
	mintB := readPubkey()
	vaultB := readPubkey()

	return domain.DecodedPool{
		Kind:        domain.ConcentratedLiquidity,
		BaseVault:   vaultA,
		QuoteVault:  vaultB,
		BaseMint:    mintA,
		QuoteMint:   mintB,
		Fee:         domain.FeeFromBasisPoints(uint64(feeRate)),
		SqrtPrice:   sqrtPrice,
		Liquidity:   liquidity,
		TickIndex:   tickIndex,
		TickSpacing: tickSpacing,
	}, nil
}

// readUint128LE reconstructs an unsigned 128-bit little-endian integer,
// summing byte[i] * 256^i.
func readUint128LE(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}
