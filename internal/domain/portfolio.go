package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ReconcileMode selects which quantity fields are authoritative for a
// portfolio line.
type ReconcileMode int

const (
	// ModeCreate builds a brand-new token: amount -> newAmount -> 0.
	ModeCreate ReconcileMode = iota
	// ModeRecreate re-issues an existing token: newAmount -> currentAmount -> 0.
	ModeRecreate
)

// PortfolioLine is one coin allocation within a token's backing basket.
// CurrentAmount is the previously recorded allocation and is never mutated;
// NewAmount and Amount hold raw operator input and may be blank or malformed.
type PortfolioLine struct {
	CoinName      string           `json:"coinName,omitempty"`
	Currency      string           `json:"currency"`
	CurrentAmount *decimal.Decimal `json:"currentAmount,omitempty"`
	NewAmount     string           `json:"newAmount,omitempty"`
	Amount        string           `json:"amount,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
}

// ParseQuantity interprets raw operator input as a quantity.
// Blank or non-numeric input reports ok=false.
func ParseQuantity(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Quantity resolves the authoritative quantity for the line under the given
// mode. Unparseable candidates fall through to the next; with no usable
// candidate the line contributes zero.
func (l *PortfolioLine) Quantity(mode ReconcileMode) decimal.Decimal {
	switch mode {
	case ModeRecreate:
		if q, ok := ParseQuantity(l.NewAmount); ok {
			return q
		}
		if l.CurrentAmount != nil {
			return *l.CurrentAmount
		}
	default:
		if q, ok := ParseQuantity(l.Amount); ok {
			return q
		}
		if q, ok := ParseQuantity(l.NewAmount); ok {
			return q
		}
	}
	return decimal.Zero
}
