package service

import (
	"testing"
	"time"

	"crepe_admin/internal/domain"

	"github.com/shopspring/decimal"
)

func snap(code string, price int64) domain.TickerSnapshot {
	return domain.TickerSnapshot{
		Type:       "ticker",
		Code:       code,
		TradePrice: decimal.NewFromInt(price),
	}
}

func TestTickerStore_LastWriteWinsPerCode(t *testing.T) {
	store := NewTickerStore()

	// Interleaved updates across codes: each code keeps only its own latest
	store.Update(snap("KRW-XRP", 700))
	store.Update(snap("KRW-BTC", 90000000))
	store.Update(snap("KRW-XRP", 710))
	store.Update(snap("KRW-BTC", 89000000))
	store.Update(snap("KRW-XRP", 705))

	xrp, ok := store.Get("KRW-XRP")
	if !ok || !xrp.TradePrice.Equal(decimal.NewFromInt(705)) {
		t.Errorf("KRW-XRP = %s, want 705", xrp.TradePrice)
	}

	btc, ok := store.Get("KRW-BTC")
	if !ok || !btc.TradePrice.Equal(decimal.NewFromInt(89000000)) {
		t.Errorf("KRW-BTC = %s, want 89000000", btc.TradePrice)
	}

	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2", store.Len())
	}
}

func TestTickerStore_TradePrice(t *testing.T) {
	store := NewTickerStore()

	if !store.TradePrice("KRW-SOL").IsZero() {
		t.Error("unknown code should price at zero")
	}

	store.Update(snap("KRW-SOL", 200000))
	if !store.TradePrice("KRW-SOL").Equal(decimal.NewFromInt(200000)) {
		t.Errorf("TradePrice = %s, want 200000", store.TradePrice("KRW-SOL"))
	}
}

func TestTickerStore_SubscribeFiltersByCode(t *testing.T) {
	store := NewTickerStore()

	updates, cancel := store.Subscribe("KRW-XRP")
	defer cancel()

	store.Update(snap("KRW-BTC", 90000000))
	store.Update(snap("KRW-XRP", 700))

	select {
	case got := <-updates:
		if got.Code != "KRW-XRP" {
			t.Errorf("received %s, want KRW-XRP only", got.Code)
		}
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}

	select {
	case got := <-updates:
		t.Errorf("unexpected extra update: %s", got.Code)
	default:
	}
}

func TestTickerStore_SlowSubscriberNeverBlocksWriter(t *testing.T) {
	store := NewTickerStore()

	// Nobody reads from this subscription; its buffer will fill up.
	_, cancel := store.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			store.Update(snap("KRW-XRP", int64(i)))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("writer blocked on a slow subscriber")
	}

	latest, _ := store.Get("KRW-XRP")
	if !latest.TradePrice.Equal(decimal.NewFromInt(999)) {
		t.Errorf("latest = %s, want 999", latest.TradePrice)
	}
}

func TestTickerStore_CancelIsIdempotent(t *testing.T) {
	store := NewTickerStore()
	_, cancel := store.Subscribe("KRW-XRP")

	cancel()
	cancel() // must not panic on double close

	// Updating after cancel must not panic either
	store.Update(snap("KRW-XRP", 700))
}

func TestTickerStore_StaleFlag(t *testing.T) {
	store := NewTickerStore()

	if store.IsStale() {
		t.Error("fresh store should not be stale")
	}

	store.Update(snap("KRW-XRP", 700))
	store.SetStale(true)

	if !store.IsStale() {
		t.Error("store should report stale after feed drop")
	}

	// Snapshots stay readable while stale
	if _, ok := store.Get("KRW-XRP"); !ok {
		t.Error("snapshots must remain readable while stale")
	}

	store.SetStale(false)
	if store.IsStale() {
		t.Error("reconnect should clear staleness")
	}
}
