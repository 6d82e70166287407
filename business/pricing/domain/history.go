package domain

import "sync"

// PriceHistory is a bounded window of price observations, oldest first.
// Once full, pushing a new point evicts the oldest one.
type PriceHistory struct {
	mu     sync.RWMutex
	points []CanonicalPrice
	limit  int
}

// NewPriceHistory creates a history holding at most limit points.
func NewPriceHistory(limit int) *PriceHistory {
	if limit <= 0 {
		limit = 60
	}
	return &PriceHistory{
		points: make([]CanonicalPrice, 0, limit),
		limit:  limit,
	}
}

// Push appends a price observation, evicting the oldest when full.
func (h *PriceHistory) Push(p CanonicalPrice) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.points) == h.limit {
		copy(h.points, h.points[1:])
		h.points[len(h.points)-1] = p
		return
	}
	h.points = append(h.points, p)
}

// Points returns a copy of the window, oldest first.
func (h *PriceHistory) Points() []CanonicalPrice {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]CanonicalPrice, len(h.points))
	copy(out, h.points)
	return out
}

// Last returns the most recent observation, if any.
func (h *PriceHistory) Last() (CanonicalPrice, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.points) == 0 {
		return CanonicalPrice{}, false
	}
	return h.points[len(h.points)-1], true
}

// Len returns the number of stored observations.
func (h *PriceHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.points)
}

// Range returns the min and max values in the window.
func (h *PriceHistory) Range() (min, max float64) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.points) == 0 {
		return 0, 0
	}

	min, max = h.points[0].Value, h.points[0].Value
	for _, p := range h.points[1:] {
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}
	return min, max
}
