package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/fd1az/solarb/internal/token"
)

// Venue identifies an AMM venue.
type Venue string

const (
	VenueRaydium Venue = "raydium"
	VenueOrca    Venue = "orca"
)

// Pair represents a trading pair in the caller's requested orientation.
type Pair struct {
	Base  token.Symbol // e.g. SOL
	Quote token.Symbol // e.g. USDC
}

// NewPair creates a new trading pair.
func NewPair(base, quote token.Symbol) Pair {
	if base == "" || quote == "" {
		panic("pricing: empty symbol in pair")
	}
	return Pair{Base: base, Quote: quote}
}

// ParsePair parses a "BASE-QUOTE" string.
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, fmt.Errorf("invalid pair %q, expected BASE-QUOTE", s)
	}
	return Pair{Base: token.Symbol(parts[0]), Quote: token.Symbol(parts[1])}, nil
}

// String returns the pair symbol (e.g. "SOL-USDC").
func (p Pair) String() string {
	return string(p.Base) + "-" + string(p.Quote)
}

// Invert returns the inverted pair.
func (p Pair) Invert() Pair {
	return Pair{Base: p.Quote, Quote: p.Base}
}

// CanonicalPrice is a venue price expressed as quote units per one base
// unit in the caller's requested pair orientation.
type CanonicalPrice struct {
	Pair       Pair
	Value      float64
	ObservedAt time.Time
}

// NewCanonicalPrice creates a CanonicalPrice observed now.
func NewCanonicalPrice(pair Pair, value float64) CanonicalPrice {
	return CanonicalPrice{
		Pair:       pair,
		Value:      value,
		ObservedAt: time.Now(),
	}
}
