package service

import (
	"context"
	"log/slog"
	"sync"

	"crepe_admin/internal/domain"
)

// AccountService keeps the bank's coin accounts revalued against the live
// feed. The KRW side of each balance is derived locally and never fetched.
type AccountService struct {
	mu       sync.RWMutex
	accounts []domain.AccountInfo
	store    *TickerStore

	cancelSub func()
	wg        sync.WaitGroup
}

// NewAccountService creates a service reading prices from the given store.
func NewAccountService(store *TickerStore) *AccountService {
	return &AccountService{store: store}
}

// SetAccounts replaces the account list (e.g. after a backend fetch) and
// immediately revalues every account against the latest snapshots.
func (s *AccountService) SetAccounts(accounts []domain.AccountInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = make([]domain.AccountInfo, len(accounts))
	copy(s.accounts, accounts)

	for i := range s.accounts {
		code := domain.MarketCode(s.accounts[i].CoinCurrency)
		if snap, ok := s.store.Get(code); ok {
			s.accounts[i].Revalue(snap.TradePrice)
		}
	}
}

// Accounts returns a copy of the current account list.
func (s *AccountService) Accounts() []domain.AccountInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AccountInfo, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Account returns the account for a currency, if the bank holds one.
func (s *AccountService) Account(currency string) (domain.AccountInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.accounts {
		if acc.CoinCurrency == currency {
			return acc, true
		}
	}
	return domain.AccountInfo{}, false
}

// HeldCurrencies lists the currencies the bank actually holds accounts for.
// The coin picker uses this to disable everything else.
func (s *AccountService) HeldCurrencies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc.CoinCurrency)
	}
	return out
}

// Apply revalues the accounts matching one snapshot's currency. Accounts for
// other currencies are left untouched.
func (s *AccountService) Apply(snap domain.TickerSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	currency := snap.Currency()
	for i := range s.accounts {
		if s.accounts[i].CoinCurrency == currency {
			s.accounts[i].Revalue(snap.TradePrice)
		}
	}
}

// Start subscribes to the store and revalues accounts in the background
// until the context is cancelled.
func (s *AccountService) Start(ctx context.Context) {
	updates, cancel := s.store.Subscribe()
	s.cancelSub = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-updates:
				if !ok {
					return
				}
				s.Apply(snap)
			}
		}
	}()
	slog.Info("Account revaluation started")
}

// Stop unsubscribes and waits for the background loop to exit.
func (s *AccountService) Stop() {
	if s.cancelSub != nil {
		s.cancelSub()
	}
	s.wg.Wait()
}
