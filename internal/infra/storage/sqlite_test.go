package storage

import (
	"path/filepath"
	"testing"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorageAt(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStorageAt: %v", err)
	}
	return s
}

func TestTokenVault(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SaveToken("crepe.access_token", "tok-1"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	got, err := s.LoadToken("crepe.access_token")
	if err != nil || got != "tok-1" {
		t.Fatalf("LoadToken = %q, %v", got, err)
	}

	// Save again under the same key replaces the value
	if err := s.SaveToken("crepe.access_token", "tok-2"); err != nil {
		t.Fatalf("SaveToken overwrite: %v", err)
	}
	got, _ = s.LoadToken("crepe.access_token")
	if got != "tok-2" {
		t.Errorf("after overwrite LoadToken = %q, want tok-2", got)
	}

	if err := s.DeleteToken("crepe.access_token"); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	got, err = s.LoadToken("crepe.access_token")
	if err != nil || got != "" {
		t.Errorf("after delete LoadToken = %q, %v; want empty", got, err)
	}
}

func TestLoadToken_MissingKey(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.LoadToken("never.saved")
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if got != "" {
		t.Errorf("LoadToken = %q, want empty string", got)
	}
}

func TestSeedCoins(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SeedCoins([]string{"BTC", "XRP", "SOL"}); err != nil {
		t.Fatalf("SeedCoins: %v", err)
	}

	coins, err := s.GetAllCoins()
	if err != nil {
		t.Fatalf("GetAllCoins: %v", err)
	}
	if len(coins) != 3 {
		t.Fatalf("got %d coins, want 3", len(coins))
	}

	xrp, err := s.GetCoin("XRP")
	if err != nil {
		t.Fatalf("GetCoin: %v", err)
	}
	if xrp.Name != "리플" {
		t.Errorf("XRP name = %q, want 리플", xrp.Name)
	}
	if !xrp.IsActive {
		t.Error("seeded coin should be active")
	}
}

func TestSeedCoins_PreservesFavorites(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SeedCoins([]string{"BTC", "XRP"}); err != nil {
		t.Fatalf("SeedCoins: %v", err)
	}
	fav, err := s.ToggleFavorite("XRP")
	if err != nil || !fav {
		t.Fatalf("ToggleFavorite = %v, %v", fav, err)
	}

	// A reseed (app restart) must not clear the user's favorite flag
	if err := s.SeedCoins([]string{"BTC", "XRP"}); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	xrp, _ := s.GetCoin("XRP")
	if !xrp.IsFavorite {
		t.Error("favorite flag lost on reseed")
	}
}

func TestGetCoin_NotFound(t *testing.T) {
	s := newTestStorage(t)

	coin, err := s.GetCoin("DOGE")
	if err != nil {
		t.Fatalf("GetCoin: %v", err)
	}
	if coin != nil {
		t.Errorf("GetCoin = %+v, want nil for unknown symbol", coin)
	}
}
