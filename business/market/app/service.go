// Package app contains application services and port definitions for the market context.
package app

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/fd1az/solarb/business/market/domain"
)

// MarketService coordinates on-chain data access.
type MarketService struct {
	reader  AccountReader
	watcher AccountWatcher
}

// NewMarketService creates a new MarketService.
func NewMarketService(reader AccountReader, watcher AccountWatcher) *MarketService {
	return &MarketService{
		reader:  reader,
		watcher: watcher,
	}
}

// ReadAccount retrieves the raw data bytes of an account.
func (s *MarketService) ReadAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	return s.reader.ReadAccount(ctx, address)
}

// ReadTokenBalance retrieves the UI balance of an SPL token account.
func (s *MarketService) ReadTokenBalance(ctx context.Context, vault solana.PublicKey) (decimal.Decimal, error) {
	return s.reader.ReadTokenBalance(ctx, vault)
}

// WatchAccount subscribes to changes of the given account.
func (s *MarketService) WatchAccount(ctx context.Context, address solana.PublicKey) (<-chan domain.AccountUpdate, error) {
	return s.watcher.Watch(ctx, address)
}

// ConnectionState returns the current watcher connection state.
func (s *MarketService) ConnectionState() domain.ConnectionState {
	return s.watcher.State()
}
