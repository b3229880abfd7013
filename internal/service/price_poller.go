package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// TokenPriceSource fetches the bank token's current unit price.
type TokenPriceSource func(ctx context.Context) (decimal.Decimal, error)

// TokenPricePoller keeps the bank token's unit price current by polling the
// backend. The websocket feed only covers exchange-listed coins; the bank's
// own token has no feed, so it is polled.
type TokenPricePoller struct {
	fetch        TokenPriceSource
	onUpdate     func(decimal.Decimal)
	price        decimal.Decimal
	mu           sync.RWMutex
	pollInterval time.Duration
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewTokenPricePoller creates a poller with a 60s default interval.
func NewTokenPricePoller(fetch TokenPriceSource, onUpdate func(decimal.Decimal)) *TokenPricePoller {
	return &TokenPricePoller{
		fetch:        fetch,
		onUpdate:     onUpdate,
		price:        decimal.Zero,
		pollInterval: 60 * time.Second,
	}
}

// NewTokenPricePollerWithInterval creates a poller with a custom interval.
func NewTokenPricePollerWithInterval(fetch TokenPriceSource, onUpdate func(decimal.Decimal), interval time.Duration) *TokenPricePoller {
	p := NewTokenPricePoller(fetch, onUpdate)
	if interval > 0 {
		p.pollInterval = interval
	}
	return p
}

// Start begins polling until the context is cancelled. The first fetch runs
// immediately; its failure is logged but does not abort the poller.
func (p *TokenPricePoller) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	if err := p.fetchPrice(ctx); err != nil {
		slog.Warn("Initial token price fetch failed", slog.Any("error", err))
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Token price polling panic recovered", slog.Any("panic", r))
			}
		}()

		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Token price polling stopped")
				return
			case <-ticker.C:
				if err := p.fetchPrice(ctx); err != nil {
					slog.Warn("Token price fetch failed", slog.Any("error", err))
				}
			}
		}
	}()

	return nil
}

// fetchPrice fetches the current price with retry: 1s, 2s, 4s.
func (p *TokenPricePoller) fetchPrice(ctx context.Context) error {
	var lastErr error
	for i := 0; i < 3; i++ {
		if i > 0 {
			delay := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		newPrice, err := p.fetch(ctx)
		if err != nil {
			lastErr = err
			slog.Warn("Token price fetch attempt failed", slog.Int("attempt", i+1), slog.Any("error", err))
			continue
		}

		p.mu.Lock()
		oldPrice := p.price
		p.price = newPrice
		p.mu.Unlock()

		if !oldPrice.Equal(newPrice) && p.onUpdate != nil {
			slog.Info("Token price updated",
				slog.String("price", newPrice.String()),
				slog.String("old_price", oldPrice.String()),
			)
			p.onUpdate(newPrice)
		}
		return nil
	}
	return lastErr
}

// Stop stops the polling
func (p *TokenPricePoller) Stop() {
	if p.cancel != nil {
		p.cancel()
		p.wg.Wait()
	}
}

// Price returns the last fetched price.
func (p *TokenPricePoller) Price() decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.price
}
