package payment

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"eac-registry/internal/adapters/persistence/models"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// PayNowConfig holds merchant integration settings
type PayNowConfig struct {
	IntegrationID  string
	IntegrationKey string
	InitiateURL    string
	Timeout        time.Duration
}

// PayNow implements Gateway for Paynow Zimbabwe web payments
type PayNow struct {
	cfg    PayNowConfig
	client *resty.Client
}

// NewPayNow creates a PayNow gateway client
func NewPayNow(cfg PayNowConfig) *PayNow {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/x-www-form-urlencoded")
	return &PayNow{cfg: cfg, client: client}
}

// Name returns the gateway identifier stored on payments
func (p *PayNow) Name() string { return "paynow" }

// Initiate creates a web transaction and returns the checkout URL
func (p *PayNow) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	if p.cfg.IntegrationID == "" || p.cfg.IntegrationKey == "" {
		return nil, ErrNotConfigured
	}

	fields := []field{
		{"id", p.cfg.IntegrationID},
		{"reference", req.Reference},
		{"amount", req.Amount.StringFixed(2)},
		{"additionalinfo", req.AdditionalInfo},
		{"returnurl", req.ReturnURL},
		{"resulturl", req.ResultURL},
		{"authemail", req.AuthEmail},
		{"status", "Message"},
	}
	fields = append(fields, field{"hash", Hash(fields, p.cfg.IntegrationKey)})

	form := make(map[string]string, len(fields))
	for _, f := range fields {
		form[f.key] = f.value
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetFormData(form).
		Post(p.cfg.InitiateURL)
	if err != nil {
		return nil, fmt.Errorf("paynow initiate: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("paynow initiate: http %d", resp.StatusCode())
	}

	reply, err := parseOrdered(resp.String())
	if err != nil {
		return nil, err
	}
	status := strings.ToLower(reply.get("status"))
	if status != "ok" {
		return nil, fmt.Errorf("%w: %s", ErrGatewayRejected, reply.get("error"))
	}
	if !Verify(reply, p.cfg.IntegrationKey) {
		return nil, ErrHashMismatch
	}

	return &InitiateResult{
		RedirectURL: reply.get("browserurl"),
		PollURL:     reply.get("pollurl"),
	}, nil
}

// Poll asks the gateway for the current transaction status
func (p *PayNow) Poll(ctx context.Context, pollURL string) (*StatusResult, error) {
	if pollURL == "" {
		return nil, fmt.Errorf("paynow poll: empty poll url")
	}
	resp, err := p.client.R().
		SetContext(ctx).
		Post(pollURL)
	if err != nil {
		return nil, fmt.Errorf("paynow poll: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("paynow poll: http %d", resp.StatusCode())
	}
	return p.ParseCallback(resp.Body())
}

// ParseCallback decodes and verifies a status message posted to the result URL
func (p *PayNow) ParseCallback(body []byte) (*StatusResult, error) {
	msg, err := parseOrdered(string(body))
	if err != nil {
		return nil, err
	}
	if !Verify(msg, p.cfg.IntegrationKey) {
		return nil, ErrHashMismatch
	}

	amount, err := decimal.NewFromString(msg.get("amount"))
	if err != nil {
		amount = decimal.Zero
	}
	return &StatusResult{
		Reference:        msg.get("reference"),
		GatewayReference: msg.get("paynowreference"),
		Amount:           amount,
		Status:           NormalizeStatus(msg.get("status")),
		PollURL:          msg.get("pollurl"),
	}, nil
}

// NormalizeStatus maps PayNow status strings onto payment statuses
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid", "delivered":
		return models.PaymentPaid
	case "awaiting delivery":
		return models.PaymentAwaitingDelivery
	case "cancelled":
		return models.PaymentCancelled
	case "failed", "disputed", "refunded":
		return models.PaymentFailed
	case "sent":
		return models.PaymentSent
	}
	return models.PaymentCreated
}

type field struct {
	key   string
	value string
}

type orderedForm []field

func (f orderedForm) get(key string) string {
	for _, kv := range f {
		if strings.EqualFold(kv.key, key) {
			return kv.value
		}
	}
	return ""
}

// Hash is the uppercase hex SHA-512 of all values in order followed by the
// integration key
func Hash(fields []field, key string) string {
	var b strings.Builder
	for _, f := range fields {
		if strings.EqualFold(f.key, "hash") {
			continue
		}
		b.WriteString(f.value)
	}
	b.WriteString(key)
	sum := sha512.Sum512([]byte(b.String()))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Verify checks the hash of a received message over its fields in received order
func Verify(fields orderedForm, key string) bool {
	got := fields.get("hash")
	if got == "" {
		return false
	}
	return strings.EqualFold(got, Hash(fields, key))
}

// parseOrdered decodes a urlencoded body keeping field order, which the
// hash depends on
func parseOrdered(body string) (orderedForm, error) {
	var out orderedForm
	for _, pair := range strings.Split(strings.TrimSpace(body), "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("paynow: malformed field %q", k)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("paynow: malformed value for %q", key)
		}
		out = append(out, field{key, value})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("paynow: empty message")
	}
	return out, nil
}
