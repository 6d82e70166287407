// Package market implements the market bounded context for Solana chain access.
package market

import (
	"context"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/fd1az/solarb/business/market/app"
	marketDI "github.com/fd1az/solarb/business/market/di"
	solanainfra "github.com/fd1az/solarb/business/market/infra/solana"
	"github.com/fd1az/solarb/internal/config"
	"github.com/fd1az/solarb/internal/di"
	"github.com/fd1az/solarb/internal/logger"
	"github.com/fd1az/solarb/internal/monolith"
)

// Module implements the market bounded context.
type Module struct{}

// RegisterServices registers all market services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register AccountReader (private - internal dependency)
	di.RegisterToken(c, marketDI.AccountReader, func(sr di.ServiceRegistry) app.AccountReader {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("rpcClient").(*rpc.Client)

		readerCfg := solanainfra.DefaultReaderConfig(cfg.Solana.Commitment, cfg.Solana.RequestsPerMinute)
		reader, err := solanainfra.NewReader(client, readerCfg, log)
		if err != nil {
			panic("failed to create account reader: " + err.Error())
		}
		return reader
	})

	// Register AccountWatcher (private - internal dependency)
	di.RegisterToken(c, marketDI.AccountWatcher, func(sr di.ServiceRegistry) app.AccountWatcher {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		watcherCfg := solanainfra.DefaultWatcherConfig(cfg.Solana.WebSocketURL)
		watcherCfg.Commitment = cfg.Solana.Commitment
		watcherCfg.MaxReconnects = cfg.Solana.MaxReconnects
		watcherCfg.InitialBackoff = cfg.Solana.InitialBackoff
		watcherCfg.MaxBackoff = cfg.Solana.MaxBackoff

		return solanainfra.NewWatcher(watcherCfg, log)
	})

	// Register MarketService (public - exposed to other modules)
	di.RegisterToken(c, marketDI.MarketService, func(sr di.ServiceRegistry) *app.MarketService {
		reader := marketDI.GetAccountReader(sr)
		watcher := marketDI.GetAccountWatcher(sr)
		return app.NewMarketService(reader, watcher)
	})

	return nil
}

// Startup initializes the market module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	// Connect watcher (type assertion to access Connect method)
	watcher := marketDI.GetAccountWatcher(mono.Services())
	if connector, ok := watcher.(interface{ Connect(context.Context) error }); ok {
		if err := connector.Connect(ctx); err != nil {
			log.Error(ctx, "failed to connect account watcher", "error", err)
			// Don't fail - polling through the reader still works
		}
	}

	log.Info(ctx, "market module started")
	return nil
}
