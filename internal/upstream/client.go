// Package upstream talks to the brokerage data provider. It is the
// only component that performs outbound HTTP; everything it returns is
// mapped to domain models, and every failure is classified as an
// UpstreamApiError.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/idxpulse/idxpulse/config"
	"github.com/idxpulse/idxpulse/internal/domain/models"
	"github.com/idxpulse/idxpulse/internal/httperr"
)

// Provider is the data-access contract the service layer consumes.
type Provider interface {
	BrokerActivity(ctx context.Context, symbol string, from, to time.Time) ([]models.BrokerActivity, error)
}

// Client is the HTTP implementation of Provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a Client from configuration. A non-positive timeout
// falls back to 10 seconds.
func NewClient(cfg config.UpstreamConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

var _ Provider = (*Client)(nil)

// activityRow is the provider's wire format for one broker/day row.
type activityRow struct {
	BrokerCode string  `json:"broker_code"`
	BrokerName string  `json:"broker_name"`
	Date       string  `json:"date"` // YYYY-MM-DD
	BuyLot     int64   `json:"buy_lot"`
	BuyValue   float64 `json:"buy_value"`
	SellLot    int64   `json:"sell_lot"`
	SellValue  float64 `json:"sell_value"`
}

// BrokerActivity fetches per-broker activity for symbol between from
// and to (inclusive, date precision).
func (c *Client) BrokerActivity(ctx context.Context, symbol string, from, to time.Time) ([]models.BrokerActivity, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", from.Format(time.DateOnly))
	q.Set("to", to.Format(time.DateOnly))
	endpoint := fmt.Sprintf("%s/v1/broker-activity?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, httperr.Upstream(0, "failed to build upstream request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, httperr.Upstream(0, "upstream request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httperr.Upstream(resp.StatusCode,
			fmt.Sprintf("upstream returned status %d", resp.StatusCode), nil)
	}

	var payload struct {
		Data []activityRow `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, httperr.Upstream(0, "failed to decode upstream response", err)
	}

	out := make([]models.BrokerActivity, 0, len(payload.Data))
	for _, row := range payload.Data {
		date, err := time.Parse(time.DateOnly, row.Date)
		if err != nil {
			return nil, httperr.Upstream(0, fmt.Sprintf("upstream row has invalid date %q", row.Date), err)
		}
		out = append(out, models.BrokerActivity{
			BrokerCode: row.BrokerCode,
			BrokerName: row.BrokerName,
			Date:       date,
			BuyLot:     row.BuyLot,
			BuyValue:   row.BuyValue,
			SellLot:    row.SellLot,
			SellValue:  row.SellValue,
		})
	}
	return out, nil
}
