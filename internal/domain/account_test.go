package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccountInfo_CryptoAmount(t *testing.T) {
	tests := []struct {
		crypto string
		want   string
	}{
		{"100 XRP", "100"},
		{"1,234.5 XRP", "1234.5"},
		{"0.003 BTC", "0.003"},
		{"", "0"},
		{"N/A", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.crypto, func(t *testing.T) {
			acc := AccountInfo{Balance: AccountBalance{Crypto: tt.crypto}}
			want, _ := decimal.NewFromString(tt.want)
			if got := acc.CryptoAmount(); !got.Equal(want) {
				t.Errorf("CryptoAmount(%q) = %s, want %s", tt.crypto, got, want)
			}
		})
	}
}

func TestAccountInfo_Revalue(t *testing.T) {
	t.Run("KRW derived from trade price", func(t *testing.T) {
		acc := AccountInfo{
			CoinCurrency: "XRP",
			Status:       StatusActive,
			Balance:      AccountBalance{Crypto: "100 XRP"},
		}

		acc.Revalue(decimal.NewFromInt(700))

		if acc.Balance.KRW != "70,000 KRW" {
			t.Errorf("KRW = %q, want %q", acc.Balance.KRW, "70,000 KRW")
		}
	})

	t.Run("malformed crypto balance yields zero", func(t *testing.T) {
		acc := AccountInfo{Balance: AccountBalance{Crypto: "pending"}}
		acc.Revalue(decimal.NewFromInt(700))

		if acc.Balance.KRW != "0 KRW" {
			t.Errorf("KRW = %q, want %q", acc.Balance.KRW, "0 KRW")
		}
	})
}

func TestFormatKRW(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"70000", "70,000 KRW"},
		{"0", "0 KRW"},
		{"1234567.89", "1,234,567 KRW"}, // fractional won truncated
	}

	for _, tt := range tests {
		v, _ := decimal.NewFromString(tt.value)
		if got := FormatKRW(v); got != tt.want {
			t.Errorf("FormatKRW(%s) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
