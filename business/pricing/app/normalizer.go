// Package app contains application services and port definitions for the pricing context.
package app

import (
	"math"
	"math/big"

	"github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/internal/apperror"
	"github.com/fd1az/solarb/internal/token"
)

// Normalizer converts decoded pool state into a canonical quote-per-base
// price oriented to the caller's requested pair.
type Normalizer struct {
	registry *token.Registry
}

// NewNormalizer creates a Normalizer backed by the given token registry.
func NewNormalizer(registry *token.Registry) *Normalizer {
	return &Normalizer{registry: registry}
}

// NormalizePrice computes the price of one base unit in quote units for
// the requested pair, inverting when the pool stores the pair reversed.
func (n *Normalizer) NormalizePrice(pool *domain.DecodedPool, pair domain.Pair) (domain.CanonicalPrice, error) {
	baseToken, ok := n.registry.ResolveMint(pool.BaseMint)
	if !ok {
		return domain.CanonicalPrice{}, apperror.New(apperror.CodeUnknownMint,
			apperror.WithContext(pool.BaseMint.String()))
	}
	quoteToken, ok := n.registry.ResolveMint(pool.QuoteMint)
	if !ok {
		return domain.CanonicalPrice{}, apperror.New(apperror.CodeUnknownMint,
			apperror.WithContext(pool.QuoteMint.String()))
	}

	reversed, err := orientation(baseToken.Symbol(), quoteToken.Symbol(), pair)
	if err != nil {
		return domain.CanonicalPrice{}, err
	}

	var value float64
	switch pool.Kind {
	case domain.ConstantProduct:
		value, err = n.constantProductPrice(pool, reversed)
	case domain.ConcentratedLiquidity:
		value, err = n.concentratedLiquidityPrice(pool, baseToken, quoteToken, reversed)
	default:
		err = apperror.New(apperror.CodeUnknownLayout,
			apperror.WithContext(string(pool.Kind)))
	}
	if err != nil {
		return domain.CanonicalPrice{}, err
	}

	return domain.NewCanonicalPrice(pair, value), nil
}

// constantProductPrice derives the price from the reserve ratio.
func (n *Normalizer) constantProductPrice(pool *domain.DecodedPool, reversed bool) (float64, error) {
	if pool.BaseVaultBalance.IsZero() {
		return 0, apperror.New(apperror.CodeDivideByZero,
			apperror.WithContext("base vault balance is zero"))
	}

	if reversed && pool.QuoteVaultBalance.IsZero() {
		return 0, apperror.New(apperror.CodeDivideByZero,
			apperror.WithContext("quote vault balance is zero"))
	}

	raw, _ := pool.QuoteVaultBalance.Div(pool.BaseVaultBalance).Float64()
	if reversed {
		return 1 / raw, nil
	}
	return raw, nil
}

// concentratedLiquidityPrice derives the price from the Q64.64 sqrt price.
// The raw ratio is mint-A relative to mint-B in smallest units; the
// decimal correction re-expresses it in natural units. Inverting swaps
// the decimals before exponentiation.
func (n *Normalizer) concentratedLiquidityPrice(pool *domain.DecodedPool, baseToken, quoteToken *token.Token, reversed bool) (float64, error) {
	if pool.SqrtPrice == nil {
		return 0, apperror.New(apperror.CodePoolStateInvalid,
			apperror.WithContext("missing sqrt price"))
	}

	sqrtRaw, _ := new(big.Float).SetInt(pool.SqrtPrice).Float64()
	sqrt := math.Ldexp(sqrtRaw, -64)
	raw := sqrt * sqrt

	decA := float64(baseToken.Decimals())
	decB := float64(quoteToken.Decimals())

	if reversed {
		return (1 / raw) * math.Pow(10, decB-decA), nil
	}
	return raw * math.Pow(10, decA-decB), nil
}

// orientation reports whether the pool's stored pair is the reverse of
// the requested pair.
func orientation(poolBase, poolQuote token.Symbol, pair domain.Pair) (bool, error) {
	switch {
	case poolBase == pair.Base && poolQuote == pair.Quote:
		return false, nil
	case poolBase == pair.Quote && poolQuote == pair.Base:
		return true, nil
	default:
		return false, apperror.New(apperror.CodePoolStateInvalid,
			apperror.WithContext("pool pair "+string(poolBase)+"-"+string(poolQuote)+
				" does not match requested "+pair.String()))
	}
}
