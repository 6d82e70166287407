// Package pricing implements the pricing bounded context for AMM pool decoding and price normalization.
package pricing

import (
	"context"

	marketDI "github.com/fd1az/solarb/business/market/di"
	"github.com/fd1az/solarb/business/pricing/app"
	pricingDI "github.com/fd1az/solarb/business/pricing/di"
	"github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/business/pricing/infra/raydium"
	"github.com/fd1az/solarb/internal/config"
	"github.com/fd1az/solarb/internal/di"
	"github.com/fd1az/solarb/internal/logger"
	"github.com/fd1az/solarb/internal/monolith"
	"github.com/fd1az/solarb/internal/token"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register Normalizer (private dependency)
	di.RegisterToken(c, pricingDI.Normalizer, func(sr di.ServiceRegistry) *app.Normalizer {
		registry := sr.Get("tokenRegistry").(*token.Registry)
		return app.NewNormalizer(registry)
	})

	// Register PricingService (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.PricingService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("tokenRegistry").(*token.Registry)

		bindings, err := buildBindings(cfg, registry)
		if err != nil {
			panic("failed to build pool bindings: " + err.Error())
		}

		market := marketDI.GetMarketService(sr)
		normalizer := pricingDI.GetNormalizer(sr)

		return app.NewPricingService(market, normalizer, bindings, log)
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "pricing module started")
	return nil
}

// buildBindings expands the configured pool table into per-venue bindings.
func buildBindings(cfg *config.Config, registry *token.Registry) ([]app.PoolBinding, error) {
	var bindings []app.PoolBinding

	for _, p := range cfg.Pools {
		pair, err := domain.ParsePair(p.Pair)
		if err != nil {
			return nil, err
		}

		base := registry.MustBySymbol(pair.Base)
		quote := registry.MustBySymbol(pair.Quote)

		bindings = append(bindings,
			app.PoolBinding{
				Pair:          pair,
				Venue:         domain.VenueRaydium,
				Kind:          domain.ConstantProduct,
				Address:       p.RaydiumPubkey(),
				MinimalLayout: p.RaydiumMinimalLayout,
				BaseMint:      base.Mint(),
				QuoteMint:     quote.Mint(),
				DefaultFee:    raydium.DefaultFee,
			},
			app.PoolBinding{
				Pair:    pair,
				Venue:   domain.VenueOrca,
				Kind:    domain.ConcentratedLiquidity,
				Address: p.OrcaPubkey(),
			},
		)
	}

	return bindings, nil
}
