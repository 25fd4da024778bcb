package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/idxpulse/idxpulse/config"
	"github.com/idxpulse/idxpulse/internal/httperr"
)

func newTestClient(ts *httptest.Server) *Client {
	return NewClient(config.UpstreamConfig{BaseURL: ts.URL, APIKey: "test-key", Timeout: time.Second})
}

func TestBrokerActivity_Success(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("X-Api-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"broker_code":"YP","broker_name":"Mirae","date":"2026-08-10","buy_lot":100,"buy_value":1000.5,"sell_lot":40,"sell_value":400.25},
			{"broker_code":"CC","broker_name":"Mandiri","date":"2026-08-11","buy_lot":10,"buy_value":90,"sell_lot":70,"sell_value":630}
		]}`))
	}))
	defer ts.Close()

	from := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC)
	rows, err := newTestClient(ts).BrokerActivity(context.Background(), "BBCA", from, to)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if gotPath != "/v1/broker-activity" {
		t.Fatalf("path=%q", gotPath)
	}
	if gotQuery != "from=2026-08-10&symbol=BBCA&to=2026-08-11" {
		t.Fatalf("query=%q", gotQuery)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header=%q", gotKey)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[0].BrokerCode != "YP" || rows[0].BuyValue != 1000.5 || !rows[0].Date.Equal(from) {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
}

func TestBrokerActivity_UpstreamStatusSurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).BrokerActivity(context.Background(), "BBCA", time.Now(), time.Now())
	if err == nil {
		t.Fatalf("expected error")
	}
	var e *httperr.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected typed error, got %T", err)
	}
	if e.Name != "UpstreamApiError" || e.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected classification: %+v", e)
	}
}

func TestBrokerActivity_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).BrokerActivity(context.Background(), "BBCA", time.Now(), time.Now())
	var e *httperr.Error
	if !errors.As(err, &e) || e.Name != "UpstreamApiError" {
		t.Fatalf("expected UpstreamApiError, got %v", err)
	}
	// Transport-level failures have no sensible upstream status.
	if e.Status != http.StatusInternalServerError {
		t.Fatalf("status=%d", e.Status)
	}
}

func TestBrokerActivity_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := newTestClient(ts).BrokerActivity(ctx, "BBCA", time.Now(), time.Now())
	if err == nil {
		t.Fatalf("expected error on cancelled context")
	}
}
