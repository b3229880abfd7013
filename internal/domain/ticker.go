package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Change direction values as delivered by the exchange feed.
const (
	ChangeRise = "RISE"
	ChangeEven = "EVEN"
	ChangeFall = "FALL"
)

// TickerSnapshot is the latest quote for a single market code.
// One snapshot exists per code; each inbound frame overwrites the prior value.
type TickerSnapshot struct {
	Type              string          `json:"type"` // ticker
	Code              string          `json:"code"` // KRW-XRP
	TradePrice        decimal.Decimal `json:"trade_price"`
	Change            string          `json:"change"` // RISE | EVEN | FALL
	ChangeRate        decimal.Decimal `json:"change_rate"`
	SignedChangeRate  decimal.Decimal `json:"signed_change_rate"`
	SignedChangePrice decimal.Decimal `json:"signed_change_price"`
	Timestamp         int64           `json:"timestamp"`
}

// Currency strips the KRW market prefix: "KRW-XRP" -> "XRP".
func (t *TickerSnapshot) Currency() string {
	return strings.TrimPrefix(t.Code, "KRW-")
}

// ChangeDirection returns "positive", "negative", or "neutral"
func (t *TickerSnapshot) ChangeDirection() string {
	switch t.Change {
	case ChangeRise:
		return "positive"
	case ChangeFall:
		return "negative"
	default:
		return "neutral"
	}
}

// MarketCode builds the KRW market code for a currency: "XRP" -> "KRW-XRP".
func MarketCode(currency string) string {
	return "KRW-" + strings.ToUpper(currency)
}
