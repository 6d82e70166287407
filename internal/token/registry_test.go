package token_test

import (
	"testing"

	"github.com/fd1az/solarb/internal/token"
	"github.com/gagliardetto/solana-go"
)

func TestRegistry_ResolveMint(t *testing.T) {
	r := token.DefaultRegistry()

	sol, ok := r.ResolveMint(token.MintSOL)
	if !ok {
		t.Fatal("expected SOL mint to resolve")
	}
	if sol.Symbol() != "SOL" {
		t.Errorf("expected symbol SOL, got %s", sol.Symbol())
	}
	if sol.Decimals() != 9 {
		t.Errorf("expected 9 decimals, got %d", sol.Decimals())
	}
}

func TestRegistry_UnknownMint(t *testing.T) {
	r := token.DefaultRegistry()

	unknown := solana.MustPublicKeyFromBase58("11111111111111111111111111111112")
	if _, ok := r.ResolveMint(unknown); ok {
		t.Error("expected unknown mint to not resolve")
	}
	if r.Has(unknown) {
		t.Error("expected Has to return false for unknown mint")
	}
}

func TestRegistry_BySymbol(t *testing.T) {
	r := token.DefaultRegistry()

	usdc, ok := r.BySymbol("USDC")
	if !ok {
		t.Fatal("expected USDC to resolve by symbol")
	}
	if !usdc.Mint().Equals(token.MintUSDC) {
		t.Errorf("unexpected USDC mint: %s", usdc.Mint())
	}
	if usdc.Decimals() != 6 {
		t.Errorf("expected 6 decimals, got %d", usdc.Decimals())
	}
}

func TestRegistry_DuplicateMintPanics(t *testing.T) {
	r := token.NewRegistry()
	r.Register(token.SOL)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate mint")
		}
	}()
	r.Register(token.New(token.MintSOL, "WSOL", 9))
}

func TestRegistry_DuplicateSymbolPanics(t *testing.T) {
	r := token.NewRegistry()
	r.Register(token.SOL)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate symbol")
		}
	}()
	r.Register(token.New(token.MintUSDC, "SOL", 6))
}

func TestDefaultRegistry_WellKnown(t *testing.T) {
	r := token.DefaultRegistry()

	if r.Count() != 5 {
		t.Fatalf("expected 5 well-known tokens, got %d", r.Count())
	}

	for _, sym := range []token.Symbol{"SOL", "USDC", "POPCAT", "FARTCOIN", "JTO"} {
		if _, ok := r.BySymbol(sym); !ok {
			t.Errorf("expected %s to be registered", sym)
		}
	}
}

func TestToken_Equals(t *testing.T) {
	a := token.New(token.MintSOL, "SOL", 9)
	b := token.New(token.MintSOL, "WSOL", 9)
	c := token.New(token.MintUSDC, "USDC", 6)

	if !a.Equals(b) {
		t.Error("tokens with same mint should be equal")
	}
	if a.Equals(c) {
		t.Error("tokens with different mints should not be equal")
	}
}
