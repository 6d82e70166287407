package app_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/fd1az/solarb/business/pricing/app"
	"github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/internal/apperror"
	"github.com/fd1az/solarb/internal/token"
)

func newNormalizer() *app.Normalizer {
	return app.NewNormalizer(token.DefaultRegistry())
}

// constantProductPool builds a reserve pool holding SOL as base and USDC
// as quote unless reversed.
func constantProductPool(baseBal, quoteBal string, reversed bool) *domain.DecodedPool {
	pool := &domain.DecodedPool{
		Kind:              domain.ConstantProduct,
		BaseMint:          token.MintSOL,
		QuoteMint:         token.MintUSDC,
		BaseVaultBalance:  decimal.RequireFromString(baseBal),
		QuoteVaultBalance: decimal.RequireFromString(quoteBal),
		Fee:               domain.RationalFee{Numerator: 25, Denominator: 10_000},
	}
	if reversed {
		pool.BaseMint, pool.QuoteMint = pool.QuoteMint, pool.BaseMint
	}
	return pool
}

func TestNormalizePrice_ConstantProductNaturalOrder(t *testing.T) {
	n := newNormalizer()
	pool := constantProductPool("1000", "2000", false)

	price, err := n.NormalizePrice(pool, domain.NewPair("SOL", "USDC"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(price.Value-2.0) > 1e-12 {
		t.Errorf("expected price 2.0, got %v", price.Value)
	}
}

func TestNormalizePrice_ConstantProductReversedOrder(t *testing.T) {
	n := newNormalizer()
	// Pool stores the pair as (USDC, SOL) relative to the request.
	pool := constantProductPool("1000", "2000", true)

	price, err := n.NormalizePrice(pool, domain.NewPair("SOL", "USDC"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(price.Value-0.5) > 1e-12 {
		t.Errorf("expected price 0.5, got %v", price.Value)
	}
}

func TestNormalizePrice_ConstantProductZeroBaseBalance(t *testing.T) {
	n := newNormalizer()
	pool := constantProductPool("0", "2000", false)

	_, err := n.NormalizePrice(pool, domain.NewPair("SOL", "USDC"))
	if !apperror.IsCode(err, apperror.CodeDivideByZero) {
		t.Errorf("expected divide by zero error, got %v", err)
	}
}

func TestNormalizePrice_ConstantProductZeroQuoteBalanceReversed(t *testing.T) {
	n := newNormalizer()
	// Pool stores the pair as (USDC, SOL) relative to the request; a
	// drained quote vault must not invert to infinity.
	pool := constantProductPool("2000", "0", true)

	_, err := n.NormalizePrice(pool, domain.NewPair("SOL", "USDC"))
	if !apperror.IsCode(err, apperror.CodeDivideByZero) {
		t.Errorf("expected divide by zero error, got %v", err)
	}
}

func TestNormalizePrice_ConcentratedLiquidityDecimalCorrection(t *testing.T) {
	n := newNormalizer()
	// True sqrt price 1.0 in Q64.64, SOL (9 decimals) vs USDC (6 decimals):
	// raw ratio 1.0, decimal-adjusted price 10^3.
	pool := &domain.DecodedPool{
		Kind:      domain.ConcentratedLiquidity,
		BaseMint:  token.MintSOL,
		QuoteMint: token.MintUSDC,
		SqrtPrice: new(big.Int).Lsh(big.NewInt(1), 64),
		Fee:       domain.FeeFromBasisPoints(30),
	}

	price, err := n.NormalizePrice(pool, domain.NewPair("SOL", "USDC"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(price.Value-1000.0) > 1e-9 {
		t.Errorf("expected price 1000, got %v", price.Value)
	}
}

func TestNormalizePrice_ReciprocalOrientation(t *testing.T) {
	n := newNormalizer()

	pools := map[string]*domain.DecodedPool{
		"constant_product": constantProductPool("1234.5", "98765.4321", false),
		"concentrated_liquidity": {
			Kind:      domain.ConcentratedLiquidity,
			BaseMint:  token.MintSOL,
			QuoteMint: token.MintUSDC,
			SqrtPrice: new(big.Int).Mul(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(7)),
		},
	}

	for name, pool := range pools {
		t.Run(name, func(t *testing.T) {
			forward, err := n.NormalizePrice(pool, domain.NewPair("SOL", "USDC"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			backward, err := n.NormalizePrice(pool, domain.NewPair("USDC", "SOL"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			product := forward.Value * backward.Value
			if math.Abs(product-1.0) > 1e-9 {
				t.Errorf("expected reciprocal prices, product = %v", product)
			}
		})
	}
}

func TestNormalizePrice_UnknownMint(t *testing.T) {
	n := newNormalizer()
	pool := constantProductPool("1000", "2000", false)
	pool.QuoteMint = token.MintPOPCAT // pool pair no longer matches request

	_, err := n.NormalizePrice(pool, domain.NewPair("SOL", "USDC"))
	if !apperror.IsCode(err, apperror.CodePoolStateInvalid) {
		t.Errorf("expected pool state invalid error, got %v", err)
	}

	// A mint the registry has never seen fails earlier with UnknownMint.
	pool.QuoteMint = token.MintSOL
	pool.BaseMint = mustRandomMint()
	_, err = n.NormalizePrice(pool, domain.NewPair("SOL", "USDC"))
	if !apperror.IsCode(err, apperror.CodeUnknownMint) {
		t.Errorf("expected unknown mint error, got %v", err)
	}
}

func mustRandomMint() solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = 0xAB
	return pk
}

func BenchmarkNormalizePrice(b *testing.B) {
	n := newNormalizer()
	pool := constantProductPool("1523456.789", "98765.4321", false)
	pair := domain.NewPair("SOL", "USDC")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n.NormalizePrice(pool, pair)
	}
}
