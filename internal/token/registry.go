package token

import (
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Registry is a thread-safe registry of known tokens.
// Lookups by mint are exact 32-byte matches and never fail loudly:
// an unknown mint yields ok == false.
type Registry struct {
	byMint   map[solana.PublicKey]*Token
	bySymbol map[Symbol]*Token
	mu       sync.RWMutex
}

// NewRegistry creates a new empty token registry.
func NewRegistry() *Registry {
	return &Registry{
		byMint:   make(map[solana.PublicKey]*Token),
		bySymbol: make(map[Symbol]*Token),
	}
}

// Register adds a token to the registry.
// Panics if a token with the same mint or symbol is already registered.
func (r *Registry) Register(t *Token) {
	if t == nil {
		panic("token: cannot register nil token")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byMint[t.Mint()]; exists {
		panic(fmt.Sprintf("token: mint %s already registered", t.Mint()))
	}
	if _, exists := r.bySymbol[t.Symbol()]; exists {
		panic(fmt.Sprintf("token: symbol %s already registered", t.Symbol()))
	}

	r.byMint[t.Mint()] = t
	r.bySymbol[t.Symbol()] = t
}

// ResolveMint retrieves a token by its mint address.
func (r *Registry) ResolveMint(mint solana.PublicKey) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byMint[mint]
	return t, ok
}

// BySymbol retrieves a token by its ticker symbol.
func (r *Registry) BySymbol(symbol Symbol) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.bySymbol[symbol]
	return t, ok
}

// MustBySymbol retrieves a token by symbol, panics if not found.
func (r *Registry) MustBySymbol(symbol Symbol) *Token {
	t, ok := r.BySymbol(symbol)
	if !ok {
		panic(fmt.Sprintf("token: %s not found in registry", symbol))
	}
	return t
}

// All returns all registered tokens.
func (r *Registry) All() []*Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Token, 0, len(r.byMint))
	for _, t := range r.byMint {
		result = append(result, t)
	}
	return result
}

// Count returns the number of registered tokens.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byMint)
}

// Has returns true if a token with the given mint is registered.
func (r *Registry) Has(mint solana.PublicKey) bool {
	_, ok := r.ResolveMint(mint)
	return ok
}
