// Package alphavantage provides a client for the Alpha Vantage API
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/stockcast/internal/common"
	"github.com/bobmcallan/stockcast/internal/interfaces"
	"github.com/bobmcallan/stockcast/internal/models"
)

const (
	DefaultBaseURL   = "https://www.alphavantage.co/query"
	DefaultInterval  = "5min"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the QuoteProvider interface against Alpha Vantage.
type Client struct {
	baseURL    string
	apiKey     string
	interval   string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithInterval sets the intraday sampling interval
func WithInterval(interval string) ClientOption {
	return func(c *Client) {
		c.interval = interval
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		apiKey:   apiKey,
		interval: DefaultInterval,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Symbol     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alphavantage API error: %s (status: %d, symbol: %s)", e.Message, e.StatusCode, e.Symbol)
}

// intradayResponse is the raw TIME_SERIES_INTRADAY payload. The series
// lives under a key derived from the interval ("Time Series (5min)"), its
// keys are "YYYY-MM-DD HH:MM:SS" timestamps, and price fields are quoted
// decimals. Alpha Vantage reports failures inside a 200 body, so the error
// fields are captured alongside the data.
type intradayResponse struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`

	series map[string]intradaySample
}

type intradaySample struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// IntradayQuote fetches the most recent intraday sample for the symbol.
// All failure modes are wrapped in common.ErrUpstream so callers see a
// single error class regardless of transport, quota, or payload problems.
func (c *Client) IntradayQuote(ctx context.Context, symbol string) (*models.QuoteRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, common.Failf(common.ErrUpstream, "rate limit wait: %v", err)
	}

	params := url.Values{}
	params.Set("function", "TIME_SERIES_INTRADAY")
	params.Set("symbol", symbol)
	params.Set("interval", c.interval)
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, common.Failf(common.ErrUpstream, "create request: %v", err)
	}

	c.logger.Debug().Str("symbol", symbol).Str("interval", c.interval).Msg("alphavantage intraday request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.Failf(common.ErrUpstream, "execute request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Symbol:     symbol,
		}
		return nil, common.Failf(common.ErrUpstream, "%v", apiErr)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.Failf(common.ErrUpstream, "read response: %v", err)
	}

	var payload intradayResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, common.Failf(common.ErrUpstream, "decode response: %v", err)
	}

	// The series key embeds the interval, so it cannot be a struct tag.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, common.Failf(common.ErrUpstream, "decode response: %v", err)
	}
	if seriesRaw, ok := fields[fmt.Sprintf("Time Series (%s)", c.interval)]; ok {
		if err := json.Unmarshal(seriesRaw, &payload.series); err != nil {
			return nil, common.Failf(common.ErrUpstream, "decode series: %v", err)
		}
	}

	if msg := payload.failureMessage(); msg != "" {
		return nil, common.Failf(common.ErrUpstream, "alphavantage rejected %s: %s", symbol, msg)
	}

	timestamp, sample, ok := latestSample(payload.series)
	if !ok {
		return nil, common.Failf(common.ErrUpstream, "no intraday series for %s", symbol)
	}

	price, err := strconv.ParseFloat(sample.Open, 64)
	if err != nil {
		return nil, common.Failf(common.ErrUpstream, "malformed price %q for %s", sample.Open, symbol)
	}

	return &models.QuoteRecord{
		Symbol:    symbol,
		Price:     price,
		Currency:  models.DefaultCurrency,
		Timestamp: timestamp,
	}, nil
}

func (r *intradayResponse) failureMessage() string {
	switch {
	case r.ErrorMessage != "":
		return r.ErrorMessage
	case r.Note != "":
		return r.Note
	case len(r.series) == 0 && r.Information != "":
		return r.Information
	}
	return ""
}

// latestSample picks the newest entry. Series keys share a fixed
// "2006-01-02 15:04:05" layout, so lexicographic order is chronological.
func latestSample(series map[string]intradaySample) (string, intradaySample, bool) {
	var best string
	for ts := range series {
		if ts > best {
			best = ts
		}
	}
	if best == "" {
		return "", intradaySample{}, false
	}
	return best, series[best], true
}

// Ensure Client implements QuoteProvider
var _ interfaces.QuoteProvider = (*Client)(nil)
