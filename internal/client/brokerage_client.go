// Package client talks to the brokerage holdings endpoint.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/config"
	"github.com/bobmcallan/stock-analyser/internal/models"
	"github.com/sony/gobreaker"
)

// User-facing messages for remote fetch failures.
const (
	MsgFetchFailed     = "Failed to fetch holdings from IndMoney"
	MsgInvalidResponse = "Invalid response format from server"
	MsgUnreachable     = "Failed to fetch data from IndMoney. Please check your connection and try again."
	MsgBreakerOpen     = "IndMoney is temporarily unavailable. Please try again in a minute."
)

// FetchError is a failed holdings fetch. Message is safe to show to the user.
type FetchError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

func (e *FetchError) Unwrap() error { return e.Err }

// UserMessage returns the text shown next to the fetch button.
func (e *FetchError) UserMessage() string { return e.Message }

// BrokerageClient fetches holdings from the brokerage holdings endpoint.
// Requests run through a circuit breaker so a dead endpoint fails fast.
type BrokerageClient struct {
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *common.Logger
}

// NewBrokerageClient creates a client for <cfg.URL><cfg.Path>.
func NewBrokerageClient(cfg *config.BrokerageConfig, logger *common.Logger) *BrokerageClient {
	path := cfg.Path
	if path == "" {
		path = "/api/holdings"
	}

	c := &BrokerageClient{
		url:        strings.TrimRight(cfg.URL, "/") + path,
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
		logger:     logger,
	}

	st := gobreaker.Settings{Name: "brokerage"}
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	// Only transport failures and 5xx responses count against the endpoint.
	st.IsSuccessful = func(err error) bool {
		var fe *FetchError
		if errors.As(err, &fe) {
			return fe.StatusCode > 0 && fe.StatusCode < 500
		}
		return err == nil
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
	}
	c.breaker = gobreaker.NewCircuitBreaker(st)

	return c
}

// URL returns the endpoint the client calls.
func (c *BrokerageClient) URL() string {
	return c.url
}

// FetchHoldings issues one GET and expects {"data": [...]}.
func (c *BrokerageClient) FetchHoldings(ctx context.Context) ([]models.Holding, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &FetchError{Message: MsgBreakerOpen, Err: err}
		}
		return nil, err
	}
	return result.([]models.Holding), nil
}

// BreakerState reports the circuit breaker state: closed, half-open or open.
func (c *BrokerageClient) BreakerState() string {
	return c.breaker.State().String()
}

// Probe checks the endpoint answers without a server error. It bypasses the
// breaker and does not decode the body.
func (c *BrokerageClient) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode >= 500 {
		return fmt.Errorf("brokerage returned %d", resp.StatusCode)
	}
	return nil
}

func (c *BrokerageClient) fetch(ctx context.Context) ([]models.Holding, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{Message: MsgFetchFailed, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Str("url", c.url).Err(err).Msg("failed to reach brokerage")
		return nil, &FetchError{Message: MsgUnreachable, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Message: MsgFetchFailed, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverErrorMessage(body)
		c.logger.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("brokerage returned error")
		return nil, &FetchError{StatusCode: resp.StatusCode, Message: msg}
	}

	var result map[string]json.RawMessage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Message: MsgInvalidResponse, Err: err}
	}
	data := result["data"]
	if !strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		return nil, &FetchError{StatusCode: resp.StatusCode, Message: MsgInvalidResponse}
	}

	var holdings []models.Holding
	if err := json.Unmarshal(data, &holdings); err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Message: MsgInvalidResponse, Err: err}
	}

	c.logger.Debug().Int("holdings", len(holdings)).Msg("brokerage holdings fetched")
	return holdings, nil
}

// serverErrorMessage prefers a non-empty string "error" field in body.
func serverErrorMessage(body []byte) string {
	var payload struct {
		Error interface{} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if s, ok := payload.Error.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return MsgFetchFailed
}
