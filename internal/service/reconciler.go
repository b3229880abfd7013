package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"crepe_admin/internal/domain"

	"github.com/shopspring/decimal"
)

// TokenSubmitter is the backend surface the reconciler submits to.
type TokenSubmitter interface {
	Create(ctx context.Context, req domain.CreateTokenRequest) error
	Recreate(ctx context.Context, req domain.RecreateTokenRequest) error
}

// Reconciler is one token-editing session: it diffs an existing coin
// portfolio against operator edits, keeps the estimated aggregate value
// current, and resolves a normalized submission payload exactly once at
// confirm time. A failed submit leaves the session intact for retry.
type Reconciler struct {
	mu sync.Mutex

	mode          domain.ReconcileMode
	tokenName     string
	tokenCurrency string
	changeReason  string
	lines         []domain.PortfolioLine
	held          map[string]bool

	store *TickerStore
}

// NewCreateReconciler starts a session for a brand-new token. The portfolio
// starts empty and every field is editable.
func NewCreateReconciler(tokenName, tokenCurrency string, heldCurrencies []string, store *TickerStore) *Reconciler {
	return &Reconciler{
		mode:          domain.ModeCreate,
		tokenName:     tokenName,
		tokenCurrency: tokenCurrency,
		held:          toSet(heldCurrencies),
		store:         store,
	}
}

// NewRecreateReconciler starts a re-issuance session over an existing token.
// Each existing allocation becomes a line with CurrentAmount fixed and
// NewAmount blank; token name and currency are no longer editable.
func NewRecreateReconciler(tokenName, tokenCurrency string, existing []domain.PortfolioCoin, heldCurrencies []string, store *TickerStore) *Reconciler {
	lines := make([]domain.PortfolioLine, 0, len(existing))
	for _, coin := range existing {
		amount := coin.Amount
		lines = append(lines, domain.PortfolioLine{
			CoinName:      coin.CoinName,
			Currency:      coin.Currency,
			CurrentAmount: &amount,
		})
	}
	return &Reconciler{
		mode:          domain.ModeRecreate,
		tokenName:     tokenName,
		tokenCurrency: tokenCurrency,
		lines:         lines,
		held:          toSet(heldCurrencies),
		store:         store,
	}
}

func toSet(currencies []string) map[string]bool {
	set := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		set[strings.ToUpper(c)] = true
	}
	return set
}

// Mode returns the session mode.
func (r *Reconciler) Mode() domain.ReconcileMode { return r.mode }

// ReadOnly reports whether the token identity fields are locked.
func (r *Reconciler) ReadOnly() bool { return r.mode == domain.ModeRecreate }

// Lines returns a copy of the current portfolio lines.
func (r *Reconciler) Lines() []domain.PortfolioLine {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.PortfolioLine, len(r.lines))
	copy(out, r.lines)
	return out
}

// AddCoin appends a new line with NewAmount set. The currency must not be in
// the portfolio already, must be one the bank holds an account for, and the
// quantity must parse to a positive number.
func (r *Reconciler) AddCoin(currency, quantity string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	qty, ok := domain.ParseQuantity(quantity)
	if !ok || !qty.IsPositive() {
		return &domain.ValidationError{Field: "quantity", Reason: "must be a positive number"}
	}
	if !r.held[currency] {
		return fmt.Errorf("%w: %s", domain.ErrCoinNotHeld, currency)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, line := range r.lines {
		if line.Currency == currency {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateCoin, currency)
		}
	}

	r.lines = append(r.lines, domain.PortfolioLine{
		CoinName:  domain.CoinName(currency),
		Currency:  currency,
		NewAmount: quantity,
	})
	return nil
}

// RemoveCoin deletes the line at index. Confirmation is the caller's concern.
func (r *Reconciler) RemoveCoin(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.lines) {
		return &domain.ValidationError{Field: "index", Reason: "out of range"}
	}
	r.lines = append(r.lines[:index], r.lines[index+1:]...)
	return nil
}

// SetNewAmount records an operator edit for the line at index. CurrentAmount
// is never touched.
func (r *Reconciler) SetNewAmount(index int, raw string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.lines) {
		return &domain.ValidationError{Field: "index", Reason: "out of range"}
	}
	r.lines[index].NewAmount = raw
	return nil
}

// SetAmount records a create-mode quantity for the line at index.
func (r *Reconciler) SetAmount(index int, raw string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.lines) {
		return &domain.ValidationError{Field: "index", Reason: "out of range"}
	}
	r.lines[index].Amount = raw
	return nil
}

// SetChangeReason records the mandatory re-issuance reason.
func (r *Reconciler) SetChangeReason(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changeReason = reason
}

// TotalValue recomputes the estimated aggregate KRW value of the portfolio
// from the latest snapshots. The recomputation is pure: calling it twice
// without new edits or ticker data yields the same number.
func (r *Reconciler) TotalValue() decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := decimal.Zero
	for _, line := range r.lines {
		price := r.store.TradePrice(domain.MarketCode(line.Currency))
		total = total.Add(price.Mul(line.Quantity(r.mode)))
	}
	return total
}

// BuildRequest resolves the session into a tagged submission payload.
// Re-issuance without a change reason is rejected before any network call.
func (r *Reconciler) BuildRequest() (domain.TokenRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	coins := make([]domain.PortfolioCoin, 0, len(r.lines))
	for _, line := range r.lines {
		coins = append(coins, domain.PortfolioCoin{
			CoinName:     domain.CoinName(line.Currency),
			Currency:     line.Currency,
			Amount:       line.Quantity(r.mode),
			CurrentPrice: r.store.TradePrice(domain.MarketCode(line.Currency)),
		})
	}

	if r.mode == domain.ModeRecreate {
		if strings.TrimSpace(r.changeReason) == "" {
			return nil, &domain.ValidationError{Field: "changeReason", Reason: "required for re-issuance"}
		}
		return domain.RecreateTokenRequest{
			TokenName:      r.tokenName,
			TokenCurrency:  r.tokenCurrency,
			ChangeReason:   r.changeReason,
			PortfolioCoins: coins,
		}, nil
	}

	return domain.CreateTokenRequest{
		TokenName:      r.tokenName,
		TokenCurrency:  r.tokenCurrency,
		PortfolioCoins: coins,
	}, nil
}

// Submit builds the payload and invokes the terminal operation for the
// session mode. Validation failures never reach the submitter; backend
// failures are returned as-is so the caller can surface the server message.
func (r *Reconciler) Submit(ctx context.Context, tokens TokenSubmitter) error {
	req, err := r.BuildRequest()
	if err != nil {
		return err
	}

	switch req := req.(type) {
	case domain.RecreateTokenRequest:
		return tokens.Recreate(ctx, req)
	case domain.CreateTokenRequest:
		return tokens.Create(ctx, req)
	default:
		return fmt.Errorf("unknown request kind: %v", req.Kind())
	}
}
