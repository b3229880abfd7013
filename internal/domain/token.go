package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// The backend reads amount and price fields as plain JSON numbers; the
// library default of quoted strings would be rejected.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// RequestKind tags a resolved token submission payload.
type RequestKind string

const (
	KindCreate   RequestKind = "create"
	KindRecreate RequestKind = "recreate"
)

// PortfolioCoin is one fully resolved, priced allocation in a submission.
type PortfolioCoin struct {
	CoinName     string          `json:"coinName"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

// TokenRequest is the normalized submission payload. It is resolved exactly
// once when the operator confirms, and never persisted client-side.
type TokenRequest interface {
	Kind() RequestKind
}

// CreateTokenRequest registers a brand-new bank token.
type CreateTokenRequest struct {
	TokenName      string          `json:"tokenName"`
	TokenCurrency  string          `json:"tokenCurrency"`
	PortfolioCoins []PortfolioCoin `json:"portfolioCoins"`
}

func (CreateTokenRequest) Kind() RequestKind { return KindCreate }

// RecreateTokenRequest re-issues an existing token with an edited basket.
// ChangeReason is mandatory for re-issuance.
type RecreateTokenRequest struct {
	TokenName      string          `json:"tokenName"`
	TokenCurrency  string          `json:"tokenCurrency"`
	ChangeReason   string          `json:"changeReason"`
	PortfolioCoins []PortfolioCoin `json:"portfolioCoins"`
}

func (RecreateTokenRequest) Kind() RequestKind { return KindRecreate }

// coinNames maps currency codes to the display names the backend expects.
var coinNames = map[string]string{
	"BTC":   "비트코인",
	"ETH":   "이더리움",
	"XRP":   "리플",
	"SOL":   "솔라나",
	"ADA":   "에이다",
	"DOGE":  "도지코인",
	"TRX":   "트론",
	"AVAX":  "아발란체",
	"DOT":   "폴카닷",
	"MATIC": "폴리곤",
	"LINK":  "체인링크",
	"ATOM":  "코스모스",
	"ETC":   "이더리움클래식",
	"BCH":   "비트코인캐시",
	"USDT":  "테더",
}

// CoinName returns the display name for a currency code, falling back to the
// code itself for unlisted coins.
func CoinName(currency string) string {
	if name, ok := coinNames[strings.ToUpper(currency)]; ok {
		return name
	}
	return strings.ToUpper(currency)
}

// KnownCurrencies lists every currency with a registered display name.
func KnownCurrencies() []string {
	out := make([]string, 0, len(coinNames))
	for c := range coinNames {
		out = append(out, c)
	}
	return out
}
