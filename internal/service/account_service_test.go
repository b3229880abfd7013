package service

import (
	"context"
	"testing"
	"time"

	"crepe_admin/internal/domain"
)

func xrpAccount() domain.AccountInfo {
	return domain.AccountInfo{
		CoinCurrency: "XRP",
		CoinName:     "리플",
		ManagerName:  "김담당",
		CoinAccount:  "rXRPaddress",
		Status:       domain.StatusActive,
		Balance:      domain.AccountBalance{Crypto: "100 XRP"},
	}
}

func TestAccountService_Apply(t *testing.T) {
	store := NewTickerStore()
	svc := NewAccountService(store)
	svc.SetAccounts([]domain.AccountInfo{
		xrpAccount(),
		{CoinCurrency: "BTC", Balance: domain.AccountBalance{Crypto: "2 BTC", KRW: "untouched"}},
	})

	svc.Apply(snap("KRW-XRP", 700))

	accounts := svc.Accounts()
	if accounts[0].Balance.KRW != "70,000 KRW" {
		t.Errorf("XRP KRW = %q, want %q", accounts[0].Balance.KRW, "70,000 KRW")
	}
	// Snapshot for one currency never disturbs another
	if accounts[1].Balance.KRW != "untouched" {
		t.Errorf("BTC KRW = %q, want untouched", accounts[1].Balance.KRW)
	}
}

func TestAccountService_SetAccountsRevaluesAgainstLatest(t *testing.T) {
	store := NewTickerStore()
	store.Update(snap("KRW-XRP", 700))

	svc := NewAccountService(store)
	svc.SetAccounts([]domain.AccountInfo{xrpAccount()})

	acc, ok := svc.Account("XRP")
	if !ok {
		t.Fatal("XRP account missing")
	}
	if acc.Balance.KRW != "70,000 KRW" {
		t.Errorf("KRW = %q, want %q", acc.Balance.KRW, "70,000 KRW")
	}
}

// End-to-end: subscribe, receive a frame, recompute the balance.
func TestAccountService_LiveRevaluation(t *testing.T) {
	store := NewTickerStore()
	svc := NewAccountService(store)
	svc.SetAccounts([]domain.AccountInfo{xrpAccount()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	store.Update(snap("KRW-XRP", 700))

	deadline := time.After(2 * time.Second)
	for {
		acc, _ := svc.Account("XRP")
		if acc.Balance.KRW == "70,000 KRW" {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("KRW = %q, want %q", acc.Balance.KRW, "70,000 KRW")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestAccountService_HeldCurrencies(t *testing.T) {
	svc := NewAccountService(NewTickerStore())
	svc.SetAccounts([]domain.AccountInfo{
		{CoinCurrency: "XRP"},
		{CoinCurrency: "SOL"},
	})

	held := svc.HeldCurrencies()
	if len(held) != 2 || held[0] != "XRP" || held[1] != "SOL" {
		t.Errorf("HeldCurrencies = %v", held)
	}
}
