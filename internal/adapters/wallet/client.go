package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"guild-progression/internal/core/domain"
	"guild-progression/internal/metrics"
)

// Client satisfies the currency contract against an external wallet service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: NewMetricsRoundTripper(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// NewTestClient creates a client with custom base URL for testing.
func NewTestClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Healthy reports whether the wallet answers its health check.
func (c *Client) Healthy(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("wallet health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wallet health: unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) GetBalance(ctx context.Context, player domain.PlayerID) (float64, error) {
	resp, err := c.do(ctx, http.MethodGet, c.balanceURL(player, ""), nil)
	if err != nil {
		return 0, fmt.Errorf("fetch balance: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return 0, nil
	default:
		return 0, fmt.Errorf("fetch balance: unexpected status code: %d", resp.StatusCode)
	}

	var data BalanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return data.Balance, nil
}

func (c *Client) HasBalance(ctx context.Context, player domain.PlayerID, amount float64) (bool, error) {
	balance, err := c.GetBalance(ctx, player)
	if err != nil {
		return false, err
	}
	return balance >= amount, nil
}

func (c *Client) AddBalance(ctx context.Context, player domain.PlayerID, amount float64) error {
	if !validAmount(amount) {
		return domain.ErrInvalidAmount
	}
	status, err := c.post(ctx, c.balanceURL(player, "deposit"), amount)
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("deposit: unexpected status code: %d", status)
	}
	return nil
}

// RemoveBalance maps the wallet's 409 to an insufficient-funds false.
func (c *Client) RemoveBalance(ctx context.Context, player domain.PlayerID, amount float64) (bool, error) {
	if !validAmount(amount) {
		return false, domain.ErrInvalidAmount
	}
	status, err := c.post(ctx, c.balanceURL(player, "withdraw"), amount)
	if err != nil {
		return false, fmt.Errorf("withdraw: %w", err)
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusConflict:
		return false, nil
	default:
		return false, fmt.Errorf("withdraw: unexpected status code: %d", status)
	}
}

// validAmount matches the ledger coins: transfers are positive and finite.
func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

func (c *Client) balanceURL(player domain.PlayerID, op string) string {
	u := fmt.Sprintf("%s/balances/%s", c.baseURL, url.PathEscape(string(player)))
	if op != "" {
		u += "/" + op
	}
	return u
}

func (c *Client) post(ctx context.Context, u string, amount float64) (int, error) {
	body, err := json.Marshal(AmountRequest{Amount: amount})
	if err != nil {
		return 0, err
	}

	resp, err := c.do(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

// -- Middleware --

type MetricsRoundTripper struct {
	Proxied http.RoundTripper
}

func NewMetricsRoundTripper(proxied http.RoundTripper) *MetricsRoundTripper {
	if proxied == nil {
		proxied = http.DefaultTransport
	}
	return &MetricsRoundTripper{Proxied: proxied}
}

func (mrt *MetricsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := mrt.Proxied.RoundTrip(req)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil {
		status = fmt.Sprintf("%d", resp.StatusCode)
	}

	endpoint := endpointOf(req.URL.Path)
	metrics.WalletRequestDuration.WithLabelValues(endpoint, status).Observe(duration)
	metrics.WalletRequests.WithLabelValues(endpoint, status).Inc()

	return resp, err
}

func endpointOf(path string) string {
	switch {
	case strings.HasSuffix(path, "/deposit"):
		return "deposit"
	case strings.HasSuffix(path, "/withdraw"):
		return "withdraw"
	case strings.Contains(path, "/balances/"):
		return "balance"
	case strings.HasSuffix(path, "/health"):
		return "health"
	default:
		return "unknown"
	}
}
