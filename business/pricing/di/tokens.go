// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fd1az/solarb/business/pricing/app"
	"github.com/fd1az/solarb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.PricingService]("pricing.PricingService")
)

// Private dependency tokens - internal to pricing module
var (
	Normalizer = di.NewToken[*app.Normalizer]("pricing:normalizer")
)

// Helper functions for type-safe access
func GetPricingService(c di.ServiceRegistry) *app.PricingService {
	return di.GetToken(c, PricingService)
}

func GetNormalizer(c di.ServiceRegistry) *app.Normalizer {
	return di.GetToken(c, Normalizer)
}
