package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"crepe_admin/internal/domain"

	"github.com/shopspring/decimal"
)

// TokenInfo describes the bank's issued token and its backing basket.
type TokenInfo struct {
	TokenName      string                 `json:"tokenName"`
	TokenCurrency  string                 `json:"tokenCurrency"`
	Status         string                 `json:"status"`
	PortfolioCoins []domain.PortfolioCoin `json:"portfolioCoins"`
}

// TokenHistoryEntry is one issuance/re-issuance record.
type TokenHistoryEntry struct {
	ID           int64           `json:"id"`
	RequestedAt  string          `json:"requestedAt"`
	Status       string          `json:"status"`
	ChangeReason string          `json:"changeReason,omitempty"`
	TotalValue   decimal.Decimal `json:"totalValue"`
}

// TokenHistoryPage is one page of issuance history.
type TokenHistoryPage struct {
	Content       []TokenHistoryEntry `json:"content"`
	Page          int                 `json:"page"`
	Size          int                 `json:"size"`
	TotalElements int64               `json:"totalElements"`
	TotalPages    int                 `json:"totalPages"`
}

// TokenService covers the /bank/token endpoints. It satisfies
// service.TokenSubmitter.
type TokenService struct {
	c *Client
}

// NewTokenService creates the token endpoint wrapper.
func NewTokenService(c *Client) *TokenService {
	return &TokenService{c: c}
}

// History fetches a page of issuance history.
func (s *TokenService) History(ctx context.Context, page, size int) (TokenHistoryPage, error) {
	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	var result TokenHistoryPage
	err := s.c.doJSON(ctx, http.MethodGet, "/bank/token/history", query, nil, &result)
	return result, err
}

// Create submits an initial token issuance request.
func (s *TokenService) Create(ctx context.Context, req domain.CreateTokenRequest) error {
	return s.c.doJSON(ctx, http.MethodPost, "/bank/token/create", nil, req, nil)
}

// Recreate submits a re-issuance request over an edited basket.
func (s *TokenService) Recreate(ctx context.Context, req domain.RecreateTokenRequest) error {
	return s.c.doJSON(ctx, http.MethodPatch, "/bank/token/recreate", nil, req, nil)
}

// Price fetches the current unit price of the bank token.
func (s *TokenService) Price(ctx context.Context) (decimal.Decimal, error) {
	var resp struct {
		Price decimal.Decimal `json:"price"`
	}
	err := s.c.doJSON(ctx, http.MethodGet, "/bank/token/price", nil, nil, &resp)
	return resp.Price, err
}

// Volume fetches the circulating volume of the bank token.
func (s *TokenService) Volume(ctx context.Context) (decimal.Decimal, error) {
	var resp struct {
		Volume decimal.Decimal `json:"volume"`
	}
	err := s.c.doJSON(ctx, http.MethodGet, "/bank/token/volume", nil, nil, &resp)
	return resp.Volume, err
}

// Info fetches the token profile with its current backing portfolio.
// The guard also uses this call as its deep session validation.
func (s *TokenService) Info(ctx context.Context) (TokenInfo, error) {
	var info TokenInfo
	err := s.c.doJSON(ctx, http.MethodGet, "/bank/token/info", nil, nil, &info)
	return info, err
}
