package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/idxpulse/idxpulse/internal/domain/models"
	"github.com/idxpulse/idxpulse/internal/store"
	"github.com/idxpulse/idxpulse/internal/upstream"
)

type mockProvider struct {
	rows  []models.BrokerActivity
	err   error
	calls atomic.Int64
}

func (m *mockProvider) BrokerActivity(_ context.Context, _ string, _, _ time.Time) ([]models.BrokerActivity, error) {
	m.calls.Add(1)
	return m.rows, m.err
}

var _ upstream.Provider = (*mockProvider)(nil)

func newCache() *store.Store[string, *models.BrokerSummary] {
	return store.New(store.Options[string, *models.BrokerSummary]{DefaultTTL: time.Minute})
}

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func TestGetBrokerSummary_Aggregation(t *testing.T) {
	provider := &mockProvider{rows: []models.BrokerActivity{
		{BrokerCode: "YP", BrokerName: "Mirae", Date: day(10), BuyLot: 100, BuyValue: 1000, SellLot: 20, SellValue: 200},
		{BrokerCode: "YP", BrokerName: "Mirae", Date: day(11), BuyLot: 50, BuyValue: 500, SellLot: 10, SellValue: 100},
		{BrokerCode: "CC", BrokerName: "Mandiri", Date: day(10), BuyLot: 10, BuyValue: 100, SellLot: 90, SellValue: 900},
	}}
	svc := NewBrokerService(provider, newCache())

	sum, err := svc.GetBrokerSummary(context.Background(), "BBCA", day(10), day(11))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if sum == nil || len(sum.Brokers) != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	// Sorted by net value descending: YP (+1200) before CC (-800).
	yp, cc := sum.Brokers[0], sum.Brokers[1]
	if yp.BrokerCode != "YP" || cc.BrokerCode != "CC" {
		t.Fatalf("order: %s, %s", yp.BrokerCode, cc.BrokerCode)
	}
	if yp.BuyLot != 150 || yp.BuyValue != 1500 || yp.SellValue != 300 || yp.NetValue != 1200 {
		t.Fatalf("YP totals: %+v", yp)
	}
	if cc.NetValue != -800 {
		t.Fatalf("CC net: %v", cc.NetValue)
	}
	if sum.TotalBuyValue != 1600 || sum.TotalSellValue != 1200 || sum.TotalBuyLot != 160 || sum.TotalSellLot != 120 {
		t.Fatalf("window totals: %+v", sum)
	}
}

func TestGetBrokerSummary_CacheHitSkipsUpstream(t *testing.T) {
	provider := &mockProvider{rows: []models.BrokerActivity{
		{BrokerCode: "YP", Date: day(10), BuyLot: 1, BuyValue: 10},
	}}
	svc := NewBrokerService(provider, newCache())

	for i := 0; i < 3; i++ {
		if _, err := svc.GetBrokerSummary(context.Background(), "BBCA", day(10), day(10)); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if n := provider.calls.Load(); n != 1 {
		t.Fatalf("upstream called %d times, want 1 (cache miss only)", n)
	}

	// A different window is a different cache key.
	if _, err := svc.GetBrokerSummary(context.Background(), "BBCA", day(10), day(11)); err != nil {
		t.Fatalf("err: %v", err)
	}
	if n := provider.calls.Load(); n != 2 {
		t.Fatalf("upstream called %d times, want 2", n)
	}
}

func TestGetBrokerSummary_EmptyResult(t *testing.T) {
	provider := &mockProvider{}
	svc := NewBrokerService(provider, newCache())

	sum, err := svc.GetBrokerSummary(context.Background(), "ZZZZ", day(10), day(10))
	if err != nil || sum != nil {
		t.Fatalf("want (nil,nil), got (%+v,%v)", sum, err)
	}
	// Empty results are not cached; the next call asks upstream again.
	_, _ = svc.GetBrokerSummary(context.Background(), "ZZZZ", day(10), day(10))
	if n := provider.calls.Load(); n != 2 {
		t.Fatalf("upstream called %d times, want 2", n)
	}
}

func TestGetBrokerSummary_UpstreamErrorPropagates(t *testing.T) {
	boom := errors.New("provider down")
	svc := NewBrokerService(&mockProvider{err: boom}, newCache())

	_, err := svc.GetBrokerSummary(context.Background(), "BBCA", day(10), day(10))
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v, want wrapped %v", err, boom)
	}
}

func TestGetBrokerSummary_LongRangeFetchesChunks(t *testing.T) {
	provider := &mockProvider{rows: []models.BrokerActivity{
		{BrokerCode: "YP", Date: day(1), BuyLot: 1, BuyValue: 10},
	}}
	svc := NewBrokerService(provider, newCache())

	// 20 days spans three 7-day chunks.
	if _, err := svc.GetBrokerSummary(context.Background(), "BBCA", day(1), day(20)); err != nil {
		t.Fatalf("err: %v", err)
	}
	if n := provider.calls.Load(); n != 3 {
		t.Fatalf("upstream called %d times, want 3 chunks", n)
	}
}

func TestSplitRange(t *testing.T) {
	cases := []struct {
		name string
		from time.Time
		to   time.Time
		want []dateRange
	}{
		{
			name: "single day",
			from: day(1), to: day(1),
			want: []dateRange{{day(1), day(1)}},
		},
		{
			name: "exact window",
			from: day(1), to: day(7),
			want: []dateRange{{day(1), day(7)}},
		},
		{
			name: "split with remainder",
			from: day(1), to: day(10),
			want: []dateRange{{day(1), day(7)}, {day(8), day(10)}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := splitRange(tc.from, tc.to, 7)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if !got[i].from.Equal(tc.want[i].from) || !got[i].to.Equal(tc.want[i].to) {
					t.Fatalf("chunk %d: got %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}
