// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fd1az/solarb/business/arbitrage/app"
	"github.com/fd1az/solarb/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/solarb/business/pricing/domain"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer

	// Only profitable cycles are printed in full unless verbose is set.
	verbose bool
}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter(verbose bool) *ConsoleReporter {
	return &ConsoleReporter{
		out:     os.Stdout,
		verbose: verbose,
	}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Solana Arbitrage Monitor Started")
	fmt.Fprintln(r.out, "================================")
	return nil
}

// Report outputs a detection outcome to the console.
func (r *ConsoleReporter) Report(outcome *domain.Outcome) {
	if !outcome.IsProfitable && !r.verbose {
		fmt.Fprintf(r.out, "[%s] %s: no edge (buy %s %.6f / sell %s %.6f, loan %s)\n",
			outcome.ObservedAt.Format("15:04:05"),
			outcome.Pair.String(),
			outcome.BuyVenue, outcome.BuyPrice,
			outcome.SellVenue, outcome.SellPrice,
			outcome.LoanAmount.StringFixed(4))
		return
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	if outcome.IsProfitable {
		fmt.Fprintln(r.out, "ARBITRAGE OPPORTUNITY DETECTED")
	} else {
		fmt.Fprintln(r.out, "DETECTION CYCLE")
	}
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Timestamp:         %s\n", outcome.ObservedAt.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Pair:              %s\n", outcome.Pair.String())
	fmt.Fprintf(r.out, "Direction:         buy %s, sell %s\n", outcome.BuyVenue, outcome.SellVenue)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "PRICES")
	fmt.Fprintf(r.out, "  %-16s %.6f\n", outcome.BuyVenue+":", outcome.BuyPrice)
	fmt.Fprintf(r.out, "  %-16s %.6f\n", outcome.SellVenue+":", outcome.SellPrice)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "ROUND TRIP")
	fmt.Fprintf(r.out, "  Loan:            %s\n", outcome.LoanAmount.StringFixed(4))
	fmt.Fprintf(r.out, "  Tokens bought:   %s (min %s)\n",
		outcome.TokensBought.StringFixed(6), outcome.MinTokensBought.StringFixed(6))
	fmt.Fprintf(r.out, "  Price impact:    %.4f%%\n", outcome.PriceImpactPct)
	fmt.Fprintf(r.out, "  Effective rate:  %.6f\n", outcome.Rate)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "PROFIT")
	fmt.Fprintf(r.out, "  In quote units:  %+.6f\n", outcome.ProfitInQuote)
	fmt.Fprintln(r.out, "================================================================================")
}

// UpdatePrices outputs current prices (no-op for console in detection mode).
func (r *ConsoleReporter) UpdatePrices(snapshot *app.PairSnapshot) {
	if !r.verbose || snapshot == nil {
		return
	}
	for _, venue := range []pricingDomain.Venue{pricingDomain.VenueRaydium, pricingDomain.VenueOrca} {
		if price, ok := snapshot.Prices[venue]; ok {
			fmt.Fprintf(r.out, "[%s] %s %s: %.6f\n",
				price.ObservedAt.Format("15:04:05"),
				snapshot.Pair.String(), venue, price.Value)
		}
	}
}

// UpdateConnectionStatus outputs connection status changes.
func (r *ConsoleReporter) UpdateConnectionStatus(name string, connected bool) {
	if !r.verbose {
		return
	}
	status := "disconnected"
	if connected {
		status = "connected"
	}
	fmt.Fprintf(r.out, "[%s] %s: %s\n", time.Now().Format("15:04:05"), name, status)
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Solana Arbitrage Monitor Stopped")
	return nil
}
