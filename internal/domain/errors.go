package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// NetworkError represents a transport-level error that may be retriable
type NetworkError struct {
	Op        string // Operation that failed (e.g., "connect", "read", "write")
	Err       error  // Underlying error
	Retriable bool
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) IsRetriable() bool {
	return e.Retriable
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new retriable network error
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: true}
}

// NewFatalNetworkError creates a non-retriable network error
func NewFatalNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: false}
}

// APIError is a typed backend failure. Code and Message come from the error
// response body when it parses; Status is always the HTTP status.
type APIError struct {
	Code    string `json:"code,omitempty"`
	Status  int    `json:"-"`
	Message string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error [%d %s]: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error [%d %s]: %s", e.Status, e.Code, GenericFailureMessage)
}

// UserMessage returns the server-provided message where available, falling
// back to a generic failure string for display.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return GenericFailureMessage
}

// GenericFailureMessage is shown when the server gave no usable message.
const GenericFailureMessage = "요청 처리에 실패했습니다. 잠시 후 다시 시도해주세요."

// Token error codes the backend emits for expired or unusable sessions.
var tokenErrorCodes = map[string]bool{
	"EXPIRED_TOKEN":   true,
	"INVALID_TOKEN":   true,
	"TOKEN_NOT_FOUND": true,
}

// IsTokenError reports whether an error indicates a dead or expired session,
// i.e. re-issuance is pointless and the operator must log in again.
func IsTokenError(err error) bool {
	var ae *APIError
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Status == http.StatusUnauthorized || tokenErrorCodes[ae.Code]
}

// IsSessionFatal reports whether an error must destroy the session outright
// (unrecoverable 401/502 per backend contract).
func IsSessionFatal(err error) bool {
	var ae *APIError
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Status == http.StatusUnauthorized || ae.Status == http.StatusBadGateway
}

// ValidationError is a client-side guard failure. It never reaches the
// network and never leaves the initiating component.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed [" + e.Field + "]: " + e.Reason
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	// ErrReissueInFlight is returned when a token re-issue is requested while
	// another is already outstanding. Callers fail fast; they are not queued.
	ErrReissueInFlight = errors.New("token reissue already in flight")

	// ErrNotAuthenticated is returned when no session exists
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrDuplicateCoin is returned when a currency is added to a portfolio twice
	ErrDuplicateCoin = errors.New("coin already in portfolio")

	// ErrCoinNotHeld is returned when a bank has no account for the currency
	ErrCoinNotHeld = errors.New("bank holds no account for coin")
)
