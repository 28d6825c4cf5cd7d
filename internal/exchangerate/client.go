package exchangerate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"currency-ledger/internal/apperrors"
	"currency-ledger/internal/domain"
)

// DefaultBaseURL is the exchangerate-api.com v6 endpoint.
const DefaultBaseURL = "https://v6.exchangerate-api.com/v6"

const resultSuccess = "success"

// Provider fetches live rates from an external service. Implementations hold no state
// between calls and never retry.
type Provider interface {
	Latest(ctx context.Context, base string) (*domain.RateSnapshot, error)
	Pair(ctx context.Context, from, to string, amount float64) (*domain.PairQuote, error)
	SupportedCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// Client talks to exchangerate-api.com.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	now     func() time.Time
}

// NewClient constructs a Client whose requests time out after timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// envelope is the common shape of every v6 response.
type envelope struct {
	Result            string `json:"result"`
	ErrorType         string `json:"error-type"`
	TimeLastUpdateUTC string `json:"time_last_update_utc"`
}

type latestResponse struct {
	envelope
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

type pairResponse struct {
	envelope
	BaseCode         string   `json:"base_code"`
	TargetCode       string   `json:"target_code"`
	ConversionRate   *float64 `json:"conversion_rate"`
	ConversionResult *float64 `json:"conversion_result"`
}

type codesResponse struct {
	envelope
	SupportedCodes [][]string `json:"supported_codes"`
}

// Latest loads every rate relative to base.
func (c *Client) Latest(ctx context.Context, base string) (*domain.RateSnapshot, error) {
	base, err := normalizeCode("base", base)
	if err != nil {
		return nil, err
	}

	var resp latestResponse
	if err := c.get(ctx, &resp, "latest", base); err != nil {
		return nil, fmt.Errorf("latest [%v]: %w", base, err)
	}
	if len(resp.ConversionRates) == 0 {
		return nil, fmt.Errorf("latest [%v]: %w: conversion_rates missing", base, apperrors.ErrProviderMalformed)
	}
	for code, rate := range resp.ConversionRates {
		if !positive(rate) {
			return nil, fmt.Errorf("latest [%v]: %w: bad rate %v for %s", base, apperrors.ErrProviderMalformed, rate, code)
		}
	}

	snapshot := &domain.RateSnapshot{
		Base:        base,
		Rates:       resp.ConversionRates,
		LastUpdated: parseUpdateTime(resp.TimeLastUpdateUTC),
		RetrievedAt: c.now().UTC(),
	}
	if resp.BaseCode != "" {
		snapshot.Base = resp.BaseCode
	}
	return snapshot, nil
}

// Pair converts amount between two currencies. The converted amount is the provider's own
// conversion_result; it is never recomputed from the rate.
func (c *Client) Pair(ctx context.Context, from, to string, amount float64) (*domain.PairQuote, error) {
	from, err := normalizeCode("from", from)
	if err != nil {
		return nil, err
	}
	to, err = normalizeCode("to", to)
	if err != nil {
		return nil, err
	}
	if !positive(amount) {
		return nil, fmt.Errorf("%w: amount must be a finite positive number", apperrors.ErrInvalidInput)
	}

	var resp pairResponse
	if err := c.get(ctx, &resp, "pair", from, to, decimal.NewFromFloat(amount).String()); err != nil {
		return nil, fmt.Errorf("pair [%v->%v]: %w", from, to, err)
	}
	if resp.ConversionRate == nil || resp.ConversionResult == nil {
		return nil, fmt.Errorf("pair [%v->%v]: %w: conversion_rate or conversion_result missing", from, to, apperrors.ErrProviderMalformed)
	}
	rate, converted := *resp.ConversionRate, *resp.ConversionResult
	if !positive(rate) || math.IsNaN(converted) || math.IsInf(converted, 0) || converted < 0 {
		return nil, fmt.Errorf("pair [%v->%v]: %w: rate %v result %v", from, to, apperrors.ErrProviderMalformed, rate, converted)
	}
	if !Consistent(amount, rate, converted) {
		return nil, fmt.Errorf("pair [%v->%v]: %w: result %v disagrees with %v * %v", from, to, apperrors.ErrProviderMalformed, converted, amount, rate)
	}

	return &domain.PairQuote{
		From:            from,
		To:              to,
		Amount:          amount,
		ConvertedAmount: converted,
		Rate:            rate,
		LastUpdated:     parseUpdateTime(resp.TimeLastUpdateUTC),
		RetrievedAt:     c.now().UTC(),
	}, nil
}

// SupportedCurrencies lists the codes the provider can convert.
func (c *Client) SupportedCurrencies(ctx context.Context) ([]domain.Currency, error) {
	var resp codesResponse
	if err := c.get(ctx, &resp, "codes"); err != nil {
		return nil, fmt.Errorf("codes: %w", err)
	}
	if len(resp.SupportedCodes) == 0 {
		return nil, fmt.Errorf("codes: %w: supported_codes missing", apperrors.ErrProviderMalformed)
	}

	currencies := make([]domain.Currency, 0, len(resp.SupportedCodes))
	for _, pair := range resp.SupportedCodes {
		if len(pair) != 2 || strings.TrimSpace(pair[0]) == "" {
			return nil, fmt.Errorf("codes: %w: unexpected entry %q", apperrors.ErrProviderMalformed, pair)
		}
		currencies = append(currencies, domain.Currency{Code: pair[0], Name: pair[1]})
	}
	return currencies, nil
}

// get issues GET {baseURL}/{apiKey}/{segments...} and decodes the body into out.
// out must embed envelope.
func (c *Client) get(ctx context.Context, out interface{ result() envelope }, segments ...string) error {
	parts := make([]string, 0, len(segments)+2)
	parts = append(parts, c.baseURL, url.PathEscape(c.apiKey))
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	endpoint := strings.Join(parts, "/")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: building http request: %v", apperrors.ErrProviderUnavailable, err)
	}
	request.Header.Set("Accept", "application/json")

	httpResponse, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: http get: %v", apperrors.ErrProviderUnavailable, redact(err, c.apiKey))
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", apperrors.ErrProviderUnavailable, httpResponse.StatusCode)
	}

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", apperrors.ErrProviderUnavailable, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding json (status %d): %v", apperrors.ErrProviderMalformed, httpResponse.StatusCode, err)
	}

	env := out.result()
	switch {
	case env.Result == resultSuccess && httpResponse.StatusCode == http.StatusOK:
		return nil
	case env.Result == resultSuccess:
		return fmt.Errorf("%w: success result with status %d", apperrors.ErrProviderMalformed, httpResponse.StatusCode)
	case env.Result == "":
		return fmt.Errorf("%w: result field missing (status %d)", apperrors.ErrProviderMalformed, httpResponse.StatusCode)
	default:
		errType := env.ErrorType
		if errType == "" {
			errType = "unknown"
		}
		return fmt.Errorf("%w: result=%s error-type=%s", apperrors.ErrProviderRejected, env.Result, errType)
	}
}

func (e envelope) result() envelope { return e }

func normalizeCode(field, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", fmt.Errorf("%w: %s currency code is required", apperrors.ErrInvalidInput, field)
	}
	return code, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

const (
	// consistencyTolerance is the relative error allowed between a converted amount and
	// amount * rate. The provider rounds both the rate and the result it returns.
	consistencyTolerance = 1e-3
	// roundingSlack absorbs rounding of small results to the provider's decimal places.
	roundingSlack = 0.01
)

// Consistent reports whether converted agrees with amount * rate within the provider's
// rounding.
func Consistent(amount, rate, converted float64) bool {
	expected := amount * rate
	return math.Abs(converted-expected) <= roundingSlack+consistencyTolerance*math.Max(1, math.Abs(expected))
}

func parseUpdateTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC1123Z, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// redact keeps the API key, which is part of the URL path, out of error messages.
func redact(err error, apiKey string) string {
	msg := err.Error()
	if apiKey == "" {
		return msg
	}
	return strings.ReplaceAll(msg, apiKey, "***")
}

var _ Provider = (*Client)(nil)

// IsProviderError reports whether err came from the rate provider rather than the caller.
func IsProviderError(err error) bool {
	return errors.Is(err, apperrors.ErrProviderUnavailable) ||
		errors.Is(err, apperrors.ErrProviderRejected) ||
		errors.Is(err, apperrors.ErrProviderMalformed)
}
