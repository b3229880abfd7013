package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"15", "15", true},
		{" 3.5 ", "3.5", true},
		{"1,000", "1000", true},
		{"", "0", false},
		{"abc", "0", false},
	}

	for _, tt := range tests {
		got, ok := ParseQuantity(tt.raw)
		if ok != tt.ok {
			t.Errorf("ParseQuantity(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
		}
		if want, _ := decimal.NewFromString(tt.want); !got.Equal(want) {
			t.Errorf("ParseQuantity(%q) = %s, want %s", tt.raw, got, want)
		}
	}
}

func TestPortfolioLine_Quantity(t *testing.T) {
	t.Run("recreate: blank newAmount keeps currentAmount", func(t *testing.T) {
		line := PortfolioLine{Currency: "XRP", CurrentAmount: dec("10")}
		if got := line.Quantity(ModeRecreate); !got.Equal(decimal.NewFromInt(10)) {
			t.Errorf("Quantity = %s, want 10", got)
		}
	})

	t.Run("recreate: newAmount overrides currentAmount", func(t *testing.T) {
		line := PortfolioLine{Currency: "XRP", CurrentAmount: dec("10"), NewAmount: "15"}
		if got := line.Quantity(ModeRecreate); !got.Equal(decimal.NewFromInt(15)) {
			t.Errorf("Quantity = %s, want 15", got)
		}
	})

	t.Run("recreate: non-numeric newAmount falls back to currentAmount", func(t *testing.T) {
		line := PortfolioLine{Currency: "XRP", CurrentAmount: dec("10"), NewAmount: "??"}
		if got := line.Quantity(ModeRecreate); !got.Equal(decimal.NewFromInt(10)) {
			t.Errorf("Quantity = %s, want 10", got)
		}
	})

	t.Run("create: amount wins", func(t *testing.T) {
		line := PortfolioLine{Currency: "SOL", Amount: "5", NewAmount: ""}
		if got := line.Quantity(ModeCreate); !got.Equal(decimal.NewFromInt(5)) {
			t.Errorf("Quantity = %s, want 5", got)
		}
	})

	t.Run("create: blank amount falls back to newAmount", func(t *testing.T) {
		line := PortfolioLine{Currency: "SOL", NewAmount: "3"}
		if got := line.Quantity(ModeCreate); !got.Equal(decimal.NewFromInt(3)) {
			t.Errorf("Quantity = %s, want 3", got)
		}
	})

	t.Run("no usable candidate contributes zero", func(t *testing.T) {
		line := PortfolioLine{Currency: "SOL", NewAmount: "oops"}
		if got := line.Quantity(ModeCreate); !got.IsZero() {
			t.Errorf("Quantity = %s, want 0", got)
		}
		if got := line.Quantity(ModeRecreate); !got.IsZero() {
			t.Errorf("Quantity = %s, want 0", got)
		}
	})

	t.Run("currentAmount is never consulted in create mode", func(t *testing.T) {
		line := PortfolioLine{Currency: "SOL", CurrentAmount: dec("99")}
		if got := line.Quantity(ModeCreate); !got.IsZero() {
			t.Errorf("Quantity = %s, want 0", got)
		}
	})
}

func TestCoinName(t *testing.T) {
	if CoinName("SOL") != "솔라나" {
		t.Errorf("CoinName(SOL) = %q, want 솔라나", CoinName("SOL"))
	}
	if CoinName("xrp") != "리플" {
		t.Errorf("CoinName(xrp) = %q, want 리플", CoinName("xrp"))
	}
	// Unlisted coins fall back to the upper-cased code
	if CoinName("zzz") != "ZZZ" {
		t.Errorf("CoinName(zzz) = %q, want ZZZ", CoinName("zzz"))
	}
}
