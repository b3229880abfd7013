package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTokenPricePoller_FetchesImmediately(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (decimal.Decimal, error) {
		calls.Add(1)
		return decimal.NewFromInt(1000), nil
	}

	poller := NewTokenPricePollerWithInterval(fetch, nil, time.Hour)
	if err := poller.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer poller.Stop()

	if calls.Load() != 1 {
		t.Errorf("fetch called %d times at startup, want 1", calls.Load())
	}
	if !poller.Price().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Price = %s, want 1000", poller.Price())
	}
}

func TestTokenPricePoller_NotifiesOnChangeOnly(t *testing.T) {
	prices := make(chan decimal.Decimal, 2)
	fetch := func(ctx context.Context) (decimal.Decimal, error) {
		return decimal.NewFromInt(1000), nil
	}
	onUpdate := func(p decimal.Decimal) { prices <- p }

	poller := NewTokenPricePollerWithInterval(fetch, onUpdate, 20*time.Millisecond)
	if err := poller.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer poller.Stop()

	select {
	case p := <-prices:
		if !p.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("update = %s, want 1000", p)
		}
	case <-time.After(time.Second):
		t.Fatal("no update for initial price change")
	}

	// Price stays flat afterwards; repeated polls must not renotify
	select {
	case p := <-prices:
		t.Errorf("unexpected update %s for unchanged price", p)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTokenPricePoller_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (decimal.Decimal, error) {
		if calls.Add(1) == 1 {
			return decimal.Zero, errors.New("temporarily unavailable")
		}
		return decimal.NewFromInt(1200), nil
	}

	poller := NewTokenPricePollerWithInterval(fetch, nil, time.Hour)
	if err := poller.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer poller.Stop()

	// Start returns after the initial fetchPrice, retries included
	if calls.Load() != 2 {
		t.Errorf("fetch called %d times, want 2 (one failure, one retry)", calls.Load())
	}
	if !poller.Price().Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Price = %s, want 1200", poller.Price())
	}
}

func TestTokenPricePoller_StopHaltsPolling(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (decimal.Decimal, error) {
		calls.Add(1)
		return decimal.NewFromInt(1000), nil
	}

	poller := NewTokenPricePollerWithInterval(fetch, nil, 10*time.Millisecond)
	if err := poller.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	poller.Stop()

	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if calls.Load() != settled {
		t.Errorf("fetch kept running after Stop: %d -> %d", settled, calls.Load())
	}
}
