package api

import (
	"context"
	"net/http"

	"crepe_admin/internal/domain"
)

// LoginRequest carries bank-admin credentials.
type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// TokenPair is the session token pair issued on login or re-issue.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role,omitempty"`
}

// UserService covers the /user endpoints.
type UserService struct {
	c *Client
}

// NewUserService creates the user endpoint wrapper.
func NewUserService(c *Client) *UserService {
	return &UserService{c: c}
}

// Login exchanges credentials for a token pair.
func (s *UserService) Login(ctx context.Context, id, password string) (TokenPair, error) {
	if id == "" || password == "" {
		return TokenPair{}, &domain.ValidationError{Field: "credentials", Reason: "id and password are required"}
	}

	var pair TokenPair
	err := s.c.doJSON(ctx, http.MethodPost, "/user/login", nil, LoginRequest{ID: id, Password: password}, &pair)
	return pair, err
}

// Reissue exchanges a refresh token for a fresh token pair.
func (s *UserService) Reissue(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, domain.ErrNotAuthenticated
	}

	var pair TokenPair
	err := s.c.doJSON(ctx, http.MethodPost, "/user/reissue", nil,
		map[string]string{"refreshToken": refreshToken}, &pair)
	return pair, err
}
