// Package arbitrage implements the arbitrage bounded context for round-trip detection.
package arbitrage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fd1az/solarb/business/arbitrage/app"
	arbitrageDI "github.com/fd1az/solarb/business/arbitrage/di"
	"github.com/fd1az/solarb/business/arbitrage/infra"
	"github.com/fd1az/solarb/business/arbitrage/infra/lending"
	marketDI "github.com/fd1az/solarb/business/market/di"
	pricingDI "github.com/fd1az/solarb/business/pricing/di"
	pricingDomain "github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/internal/config"
	"github.com/fd1az/solarb/internal/di"
	"github.com/fd1az/solarb/internal/logger"
	"github.com/fd1az/solarb/internal/monolith"
	"github.com/fd1az/solarb/internal/token"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register Detector (private dependency)
	di.RegisterToken(c, arbitrageDI.Detector, func(sr di.ServiceRegistry) *app.Detector {
		cfg := sr.Get("config").(*config.Config)
		registry := sr.Get("tokenRegistry").(*token.Registry)

		loanToken := registry.MustBySymbol(token.Symbol(cfg.Lending.LoanAsset))

		return app.NewDetector(
			loanToken.Mint(),
			cfg.Lending.LoanFeeRateDecimal(),
			cfg.Arbitrage.SlippageToleranceDecimal(),
		)
	})

	// Register LoanProvider (private dependency)
	di.RegisterToken(c, arbitrageDI.LoanProvider, func(sr di.ServiceRegistry) app.LoanProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		provider, err := lending.NewReserveProvider(lending.ReserveConfig{
			Address:         cfg.Lending.ReservePubkey(),
			Asset:           token.Symbol(cfg.Lending.LoanAsset),
			LiquidityOffset: cfg.Lending.LiquidityOffset,
			Decimals:        cfg.Lending.LiquidityDecimals,
		}, marketDI.GetMarketService(sr), log)
		if err != nil {
			panic("failed to create reserve provider: " + err.Error())
		}

		return provider
	})

	// Register Reporter (private dependency)
	di.RegisterToken(c, arbitrageDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)

		if cfg.Arbitrage.TUIMode {
			return infra.NewTUIReporter()
		}
		return infra.NewConsoleReporter(cfg.App.LogLevel == "debug")
	})

	// Register ArbitrageService (public - exposed to other modules)
	di.RegisterToken(c, arbitrageDI.ArbitrageService, func(sr di.ServiceRegistry) *app.ArbitrageService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		pairs, err := parsePairs(cfg.Arbitrage.Pairs)
		if err != nil {
			panic("failed to parse arbitrage pairs: " + err.Error())
		}

		service, err := app.NewArbitrageService(
			app.ServiceConfig{
				Pairs:           pairs,
				LoanAsset:       token.Symbol(cfg.Lending.LoanAsset),
				MaxLoanFraction: decimal.NewFromFloat(cfg.Lending.MaxLoanFraction),
				PollInterval:    cfg.Arbitrage.PollInterval,
				HistorySize:     cfg.Arbitrage.HistorySize,
			},
			pricingDI.GetPricingService(sr),
			arbitrageDI.GetDetector(sr),
			arbitrageDI.GetLoanProvider(sr),
			marketDI.GetMarketService(sr),
			arbitrageDI.GetReporter(sr),
			log,
		)
		if err != nil {
			panic("failed to create arbitrage service: " + err.Error())
		}

		return service
	})

	return nil
}

// Startup launches the detection loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	service := arbitrageDI.GetArbitrageService(mono.Services())
	if err := service.Start(ctx); err != nil {
		return err
	}

	mono.Logger().Info(ctx, "arbitrage module started")
	return nil
}

func parsePairs(raw []string) ([]pricingDomain.Pair, error) {
	pairs := make([]pricingDomain.Pair, 0, len(raw))
	for _, s := range raw {
		pair, err := pricingDomain.ParsePair(s)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
