package domain

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// AccountStatus is the registration state of a bank coin account.
type AccountStatus string

const (
	StatusActive        AccountStatus = "ACTIVE"
	StatusNotRegistered AccountStatus = "NOT_REGISTERED"
	StatusRegistering   AccountStatus = "REGISTERING"
)

// AccountBalance pairs the fetched crypto balance with its derived KRW value.
// KRW is never fetched from the backend; it is recomputed locally whenever a
// matching ticker snapshot arrives.
type AccountBalance struct {
	KRW    string `json:"krw"`    // "70,000 KRW"
	Crypto string `json:"crypto"` // "100 XRP"
}

// AccountInfo represents one bank coin account.
type AccountInfo struct {
	CoinCurrency string         `json:"coinCurrency"`
	CoinName     string         `json:"coinName"`
	ManagerName  string         `json:"managerName"`
	CoinAccount  string         `json:"coinAccount"`
	TagAccount   string         `json:"tagAccount,omitempty"`
	Status       AccountStatus  `json:"status"`
	Balance      AccountBalance `json:"balance"`
}

// CryptoAmount parses the magnitude out of the crypto balance string.
// "1,234.5 XRP" -> 1234.5. A malformed balance yields zero.
func (a *AccountInfo) CryptoAmount() decimal.Decimal {
	fields := strings.Fields(a.Balance.Crypto)
	if len(fields) == 0 {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(fields[0], ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// Revalue recomputes the KRW side of the balance from a live trade price.
func (a *AccountInfo) Revalue(tradePrice decimal.Decimal) {
	a.Balance.KRW = FormatKRW(a.CryptoAmount().Mul(tradePrice))
}

// FormatKRW renders a decimal value in the backend's display convention,
// e.g. 70000 -> "70,000 KRW". Fractional won are truncated.
func FormatKRW(v decimal.Decimal) string {
	return humanize.Comma(v.Truncate(0).IntPart()) + " KRW"
}
