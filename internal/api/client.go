package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crepe_admin/internal/domain"
	"crepe_admin/internal/infra"

	"golang.org/x/time/rate"
)

// TokenSource provides the bearer token for authenticated endpoints.
// Requests go out unauthenticated when the source is nil or returns "".
type TokenSource interface {
	AccessToken() string
}

// Client is the Crepe backend REST client (Boundary Layer).
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a backend client from configuration.
func NewClient(cfg *infra.Config) *Client {
	timeout := 10 * time.Second
	if cfg.API.TimeoutSec > 0 {
		timeout = time.Duration(cfg.API.TimeoutSec) * time.Second
	}

	perSec := cfg.API.RatePerSec
	if perSec <= 0 {
		perSec = 10
	}
	burst := cfg.API.RateBurst
	if burst <= 0 {
		burst = 20
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
		logger:  slog.Default().With("module", "crepe_client"),
	}
}

// SetTokenSource installs the session token provider. Done after construction
// because the session manager itself needs the client for login/reissue.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// doJSON performs a JSON request/response round trip. A nil out discards the
// response body; a non-2xx response is mapped to *domain.APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBytes)
	}

	req, err := c.newRequest(ctx, method, path, query, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// doMultipart performs a multipart/form-data request. The build callback
// writes the parts; the writer is closed here.
func (c *Client) doMultipart(ctx context.Context, method, path string, build func(*multipart.Writer) error, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := build(mw); err != nil {
		mw.Close()
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, method, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", infra.DefaultUserAgent)

	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewNetworkError("request", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewNetworkError("read", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		infra.GlobalMetrics.RecordAPIError()
		return c.decodeError(req, resp.StatusCode, bodyBytes)
	}

	if out != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// decodeError maps an error response body into a typed APIError. A body that
// does not parse still yields a usable error with the HTTP status.
func (c *Client) decodeError(req *http.Request, status int, body []byte) error {
	apiErr := &domain.APIError{Status: status}

	if len(body) > 0 {
		if err := json.Unmarshal(body, apiErr); err != nil {
			c.logger.Warn("Malformed error response",
				slog.String("path", req.URL.Path),
				slog.Int("status", status),
			)
		}
	}

	c.logger.Warn("Backend call failed",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", status),
		slog.String("code", apiErr.Code),
	)
	return apiErr
}
