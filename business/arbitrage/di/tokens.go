// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/fd1az/solarb/business/arbitrage/app"
	"github.com/fd1az/solarb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ArbitrageService = di.NewToken[*app.ArbitrageService]("arbitrage.ArbitrageService")
)

// Private dependency tokens - internal to arbitrage module
var (
	Detector     = di.NewToken[*app.Detector]("arbitrage:detector")
	LoanProvider = di.NewToken[app.LoanProvider]("arbitrage:loanProvider")
	Reporter     = di.NewToken[app.Reporter]("arbitrage:reporter")
)

// Helper functions for type-safe access
func GetArbitrageService(c di.ServiceRegistry) *app.ArbitrageService {
	return di.GetToken(c, ArbitrageService)
}

func GetDetector(c di.ServiceRegistry) *app.Detector {
	return di.GetToken(c, Detector)
}

func GetLoanProvider(c di.ServiceRegistry) app.LoanProvider {
	return di.GetToken(c, LoanProvider)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
