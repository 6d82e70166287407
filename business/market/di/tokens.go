// Package di contains dependency injection tokens for the market context.
package di

import (
	"github.com/fd1az/solarb/business/market/app"
	"github.com/fd1az/solarb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	MarketService = di.NewToken[*app.MarketService]("market.MarketService")
)

// Private dependency tokens - internal to market module
var (
	AccountReader  = di.NewToken[app.AccountReader]("market:accountReader")
	AccountWatcher = di.NewToken[app.AccountWatcher]("market:accountWatcher")
)

// Helper functions for type-safe access
func GetMarketService(c di.ServiceRegistry) *app.MarketService {
	return di.GetToken(c, MarketService)
}

func GetAccountReader(c di.ServiceRegistry) app.AccountReader {
	return di.GetToken(c, AccountReader)
}

func GetAccountWatcher(c di.ServiceRegistry) app.AccountWatcher {
	return di.GetToken(c, AccountWatcher)
}
