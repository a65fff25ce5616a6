// Package payment talks to online payment gateways.
package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrGatewayRejected = errors.New("payment gateway rejected the request")
	ErrHashMismatch    = errors.New("payment gateway hash mismatch")
	ErrNotConfigured   = errors.New("payment gateway not configured")
)

// InitiateRequest starts a web checkout
type InitiateRequest struct {
	Reference      string
	Amount         decimal.Decimal
	AdditionalInfo string
	ReturnURL      string
	ResultURL      string
	AuthEmail      string
}

// InitiateResult is where to send the payer and where to poll
type InitiateResult struct {
	RedirectURL string
	PollURL     string
}

// StatusResult is a gateway status report, from a poll or a callback
type StatusResult struct {
	Reference        string
	GatewayReference string
	Amount           decimal.Decimal
	Status           string
	PollURL          string
}

// Gateway is an online payment provider
type Gateway interface {
	Name() string
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	Poll(ctx context.Context, pollURL string) (*StatusResult, error)
	ParseCallback(body []byte) (*StatusResult, error)
}
