// Package token provides a type-safe model for SPL tokens.
// Identity is the 32-byte mint address; the symbol is display metadata.
package token

import "github.com/gagliardetto/solana-go"

// Symbol is a ticker symbol (e.g., "SOL", "USDC").
type Symbol string

// Token represents the metadata of an SPL token.
// It is a reference entity whose stable identity is the mint address.
type Token struct {
	mint     solana.PublicKey
	symbol   Symbol
	name     string
	decimals uint8
}

// New creates a new Token with the given parameters.
func New(mint solana.PublicKey, symbol Symbol, decimals uint8) *Token {
	if symbol == "" {
		panic("token: empty symbol")
	}
	if mint.IsZero() {
		panic("token: zero mint address")
	}
	if decimals > 30 {
		panic("token: suspicious decimals (>30)")
	}

	return &Token{
		mint:     mint,
		symbol:   symbol,
		decimals: decimals,
	}
}

// NewWithName creates a new Token with a human-readable name.
func NewWithName(mint solana.PublicKey, symbol Symbol, name string, decimals uint8) *Token {
	t := New(mint, symbol, decimals)
	t.name = name
	return t
}

// Mint returns the mint address, the token's true identity.
func (t *Token) Mint() solana.PublicKey {
	return t.mint
}

// Symbol returns the ticker symbol.
func (t *Token) Symbol() Symbol {
	return t.symbol
}

// Name returns the human-readable name, falling back to the symbol.
func (t *Token) Name() string {
	if t.name == "" {
		return string(t.symbol)
	}
	return t.name
}

// Decimals returns the number of decimal places of the mint.
func (t *Token) Decimals() uint8 {
	return t.decimals
}

// String returns a human-readable representation.
func (t *Token) String() string {
	return string(t.symbol)
}

// Equals compares two Tokens by mint address.
func (t *Token) Equals(other *Token) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.mint.Equals(other.mint)
}
