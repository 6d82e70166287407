package domain_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/solarb/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/internal/apperror"
)

func TestSimulateSwap(t *testing.T) {
	tests := []struct {
		name       string
		reserveIn  string
		reserveOut string
		amountIn   string
		fee        pricingDomain.RationalFee
		wantOut    string
		wantImpact float64
		wantRate   float64
	}{
		{
			name:       "no_fee_small_trade",
			reserveIn:  "1000",
			reserveOut: "2000",
			amountIn:   "10",
			fee:        pricingDomain.RationalFee{},
			// 2000 * 10 / 1010
			wantOut:    "19.8019801980198019801980198",
			wantImpact: 10.0 / 1010.0 * 100,
			wantRate:   1.98019801980198,
		},
		{
			name:       "raydium_fee",
			reserveIn:  "1000",
			reserveOut: "2000",
			amountIn:   "100",
			fee:        pricingDomain.RationalFee{Numerator: 25, Denominator: 10_000},
			// fee-adjusted in = 99.75; out = 2000*99.75/1099.75
			wantOut:    "181.4048647419867697203910",
			wantImpact: 99.75 / 1099.75 * 100,
			wantRate:   1.814048647419868,
		},
		{
			name:       "orca_bps_fee",
			reserveIn:  "500000",
			reserveOut: "1000",
			amountIn:   "1000",
			fee:        pricingDomain.FeeFromBasisPoints(30),
			// fee-adjusted in = 997; out = 1000*997/500997
			wantOut:    "1.9900318764",
			wantImpact: 997.0 / 500997.0 * 100,
			wantRate:   0.0019900318764,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := domain.SimulateSwap(
				decimal.RequireFromString(tt.reserveIn),
				decimal.RequireFromString(tt.reserveOut),
				decimal.RequireFromString(tt.amountIn),
				tt.fee,
			)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := decimal.RequireFromString(tt.wantOut)
			diff := result.AmountOut.Sub(want).Abs()
			if diff.GreaterThan(decimal.RequireFromString("0.000001")) {
				t.Errorf("amount out: expected %s, got %s", want, result.AmountOut)
			}
			if math.Abs(result.PriceImpactPct-tt.wantImpact) > 1e-9 {
				t.Errorf("impact: expected %v, got %v", tt.wantImpact, result.PriceImpactPct)
			}
			if math.Abs(result.EffectiveRate-tt.wantRate) > 1e-9 {
				t.Errorf("rate: expected %v, got %v", tt.wantRate, result.EffectiveRate)
			}
		})
	}
}

func TestSimulateSwap_OutputBounded(t *testing.T) {
	// For all positive reserves and 0 <= fee < 1: 0 < out < reserve_out.
	reserves := []string{"1", "1000", "123456789.123"}
	amounts := []string{"0.001", "500", "1e9"}
	fees := []pricingDomain.RationalFee{
		{},
		{Numerator: 25, Denominator: 10_000},
		{Numerator: 9_999, Denominator: 10_000},
	}

	for _, rin := range reserves {
		for _, rout := range reserves {
			for _, in := range amounts {
				for _, fee := range fees {
					result, err := domain.SimulateSwap(
						decimal.RequireFromString(rin),
						decimal.RequireFromString(rout),
						decimal.RequireFromString(in),
						fee,
					)
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if !result.AmountOut.IsPositive() {
						t.Errorf("in=%s rin=%s fee=%v: output not positive: %s", in, rin, fee, result.AmountOut)
					}
					if result.AmountOut.GreaterThanOrEqual(decimal.RequireFromString(rout)) {
						t.Errorf("in=%s rout=%s: output %s >= reserve out", in, rout, result.AmountOut)
					}
				}
			}
		}
	}
}

func TestSimulateSwap_ZeroAmountIn(t *testing.T) {
	result, err := domain.SimulateSwap(
		decimal.NewFromInt(1000),
		decimal.NewFromInt(2000),
		decimal.Zero,
		pricingDomain.RationalFee{},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.AmountOut.IsZero() {
		t.Errorf("expected zero output, got %s", result.AmountOut)
	}
	if result.EffectiveRate != 0 {
		t.Errorf("expected zero rate, got %v", result.EffectiveRate)
	}
}

func TestSimulateSwap_InvalidReserves(t *testing.T) {
	tests := []struct {
		name       string
		reserveIn  string
		reserveOut string
	}{
		{"zero_in", "0", "2000"},
		{"zero_out", "1000", "0"},
		{"negative_in", "-1", "2000"},
		{"negative_out", "1000", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.SimulateSwap(
				decimal.RequireFromString(tt.reserveIn),
				decimal.RequireFromString(tt.reserveOut),
				decimal.NewFromInt(10),
				pricingDomain.RationalFee{},
			)
			if !apperror.IsCode(err, apperror.CodeInvalidReserves) {
				t.Errorf("expected invalid reserves error, got %v", err)
			}
		})
	}
}

func BenchmarkSimulateSwap(b *testing.B) {
	reserveIn := decimal.RequireFromString("1523456.789")
	reserveOut := decimal.RequireFromString("98765.4321")
	amountIn := decimal.RequireFromString("250.5")
	fee := pricingDomain.RationalFee{Numerator: 25, Denominator: 10_000}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		domain.SimulateSwap(reserveIn, reserveOut, amountIn, fee)
	}
}
