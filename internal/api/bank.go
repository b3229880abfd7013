package api

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"crepe_admin/internal/domain"

	"github.com/shopspring/decimal"
)

// BankInfo is the bank's own profile.
type BankInfo struct {
	BankName     string `json:"bankName"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email"`
	CIRegistered bool   `json:"ciRegistered"`
}

// RegisterAccountRequest registers a new coin account for the bank.
type RegisterAccountRequest struct {
	CoinCurrency string `json:"coinCurrency"`
	ManagerName  string `json:"managerName"`
	Address      string `json:"address"`
	TagAccount   string `json:"tagAccount,omitempty"`
}

// ChangeAccountRequest replaces the deposit address of an existing account.
type ChangeAccountRequest struct {
	CoinCurrency string `json:"coinCurrency"`
	Address      string `json:"address"`
	TagAccount   string `json:"tagAccount,omitempty"`
}

// RemainingCoin is an unallocated coin amount held by the bank.
type RemainingCoin struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// BankService covers the /bank profile and account endpoints.
type BankService struct {
	c *Client
}

// NewBankService creates the bank endpoint wrapper.
func NewBankService(c *Client) *BankService {
	return &BankService{c: c}
}

// Info fetches the bank profile.
func (s *BankService) Info(ctx context.Context) (BankInfo, error) {
	var info BankInfo
	err := s.c.doJSON(ctx, http.MethodGet, "/bank", nil, nil, &info)
	return info, err
}

// ChangePhone updates the bank's contact number.
func (s *BankService) ChangePhone(ctx context.Context, phoneNumber string) error {
	if strings.TrimSpace(phoneNumber) == "" {
		return &domain.ValidationError{Field: "phoneNumber", Reason: "required"}
	}
	return s.c.doJSON(ctx, http.MethodPatch, "/bank/change/phone", nil,
		map[string]string{"phoneNumber": phoneNumber}, nil)
}

// ChangeCI uploads a new CI image (multipart).
func (s *BankService) ChangeCI(ctx context.Context, fileName string, file io.Reader) error {
	if file == nil {
		return &domain.ValidationError{Field: "ciImage", Reason: "required"}
	}
	return s.c.doMultipart(ctx, http.MethodPatch, "/bank/change/ci", func(mw *multipart.Writer) error {
		part, err := mw.CreateFormFile("ciImage", fileName)
		if err != nil {
			return err
		}
		_, err = io.Copy(part, file)
		return err
	}, nil)
}

// AllAccounts fetches every coin account the bank holds.
func (s *BankService) AllAccounts(ctx context.Context) ([]domain.AccountInfo, error) {
	var accounts []domain.AccountInfo
	err := s.c.doJSON(ctx, http.MethodGet, "/bank/account/all", nil, nil, &accounts)
	return accounts, err
}

// Account fetches the account for one currency.
func (s *BankService) Account(ctx context.Context, currency string) (domain.AccountInfo, error) {
	var account domain.AccountInfo
	query := url.Values{"currency": {currency}}
	err := s.c.doJSON(ctx, http.MethodGet, "/bank/account", query, nil, &account)
	return account, err
}

// RegisterAccount registers a coin account. Guard conditions are checked
// client-side; an invalid request never reaches the network.
func (s *BankService) RegisterAccount(ctx context.Context, req RegisterAccountRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	return s.c.doJSON(ctx, http.MethodPost, "/bank/register/account", nil, req, nil)
}

func (r RegisterAccountRequest) validate() error {
	if strings.TrimSpace(r.CoinCurrency) == "" {
		return &domain.ValidationError{Field: "coinCurrency", Reason: "required"}
	}
	if strings.TrimSpace(r.ManagerName) == "" {
		return &domain.ValidationError{Field: "managerName", Reason: "required"}
	}
	if strings.TrimSpace(r.Address) == "" {
		return &domain.ValidationError{Field: "address", Reason: "required"}
	}
	return nil
}

// ChangeAccount replaces an existing account's deposit address.
func (s *BankService) ChangeAccount(ctx context.Context, req ChangeAccountRequest) error {
	if strings.TrimSpace(req.CoinCurrency) == "" {
		return &domain.ValidationError{Field: "coinCurrency", Reason: "required"}
	}
	if strings.TrimSpace(req.Address) == "" {
		return &domain.ValidationError{Field: "address", Reason: "required"}
	}
	return s.c.doJSON(ctx, http.MethodPatch, "/bank/change/account", nil, req, nil)
}

// RemainingCoins fetches coin amounts not yet allocated to a token basket.
func (s *BankService) RemainingCoins(ctx context.Context) ([]RemainingCoin, error) {
	var coins []RemainingCoin
	err := s.c.doJSON(ctx, http.MethodGet, "/bank/coin/remaining", nil, nil, &coins)
	return coins, err
}
