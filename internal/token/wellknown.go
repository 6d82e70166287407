package token

import "github.com/gagliardetto/solana-go"

// Well-known mint addresses on Solana mainnet.
var (
	MintSOL      = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	MintUSDC     = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	MintPOPCAT   = solana.MustPublicKeyFromBase58("7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr")
	MintFARTCOIN = solana.MustPublicKeyFromBase58("9BB6NFEcjBCtnNLFko2FqVQBq8HHM13kCyYcdQbgpump")
	MintJTO      = solana.MustPublicKeyFromBase58("jtojtomepa8beP8AuQc6eXt5FriJwfFMwQx2v2f9mCL")
)

// Well-known tokens (pre-created instances).
var (
	SOL      = NewWithName(MintSOL, "SOL", "Wrapped SOL", 9)
	USDC     = NewWithName(MintUSDC, "USDC", "USD Coin", 6)
	POPCAT   = NewWithName(MintPOPCAT, "POPCAT", "Popcat", 9)
	FARTCOIN = NewWithName(MintFARTCOIN, "FARTCOIN", "Fartcoin", 6)
	JTO      = NewWithName(MintJTO, "JTO", "Jito", 9)
)

// DefaultRegistry returns a registry pre-populated with well-known tokens.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(SOL)
	r.Register(USDC)
	r.Register(POPCAT)
	r.Register(FARTCOIN)
	r.Register(JTO)

	return r
}
