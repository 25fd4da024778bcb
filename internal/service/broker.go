// Package service implements the business logic of the API: it fetches
// broker activity from the upstream provider, reshapes it into
// per-broker summaries, and caches the results.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/idxpulse/idxpulse/internal/domain/models"
	"github.com/idxpulse/idxpulse/internal/logger"
	"github.com/idxpulse/idxpulse/internal/store"
	"github.com/idxpulse/idxpulse/internal/upstream"
)

const (
	// chunkDays caps the window of a single upstream call; longer
	// ranges are split and fetched concurrently.
	chunkDays = 7

	maxParallelFetches = 4
)

// BrokerService defines the business logic for broker summaries.
type BrokerService interface {
	// GetBrokerSummary returns the aggregated per-broker view for
	// symbol over [from, to]. A nil summary with nil error means the
	// upstream had no data for the window.
	GetBrokerSummary(ctx context.Context, symbol string, from, to time.Time) (*models.BrokerSummary, error)
}

type brokerService struct {
	provider upstream.Provider
	cache    *store.Store[string, *models.BrokerSummary]
}

// NewBrokerService constructs the service. The cache store governs its
// own TTL and bounded size; passing it in keeps tests free to build
// isolated instances.
func NewBrokerService(provider upstream.Provider, cache *store.Store[string, *models.BrokerSummary]) BrokerService {
	return &brokerService{provider: provider, cache: cache}
}

func (s *brokerService) GetBrokerSummary(ctx context.Context, symbol string, from, to time.Time) (*models.BrokerSummary, error) {
	key := cacheKey(symbol, from, to)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	rows, err := s.fetch(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	summary := aggregate(symbol, from, to, rows)
	s.cache.Set(key, summary)

	logger.L().Debug().
		Str("symbol", symbol).
		Int("rows", len(rows)).
		Int("brokers", len(summary.Brokers)).
		Msg("broker summary computed")
	return summary, nil
}

// fetch retrieves the activity rows, splitting long windows into
// chunks fetched concurrently. The first failing chunk cancels the
// rest.
func (s *brokerService) fetch(ctx context.Context, symbol string, from, to time.Time) ([]models.BrokerActivity, error) {
	chunks := splitRange(from, to, chunkDays)
	if len(chunks) == 1 {
		return s.provider.BrokerActivity(ctx, symbol, from, to)
	}

	results := make([][]models.BrokerActivity, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)

	for i, ch := range chunks {
		i, ch := i, ch
		g.Go(func() error {
			rows, err := s.provider.BrokerActivity(gctx, symbol, ch.from, ch.to)
			if err != nil {
				return fmt.Errorf("chunk %s..%s: %w",
					ch.from.Format(time.DateOnly), ch.to.Format(time.DateOnly), err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []models.BrokerActivity
	for _, rows := range results {
		merged = append(merged, rows...)
	}
	return merged, nil
}

type dateRange struct {
	from, to time.Time
}

// splitRange slices [from, to] into inclusive windows of at most days
// days each.
func splitRange(from, to time.Time, days int) []dateRange {
	var out []dateRange
	for cursor := from; !cursor.After(to); {
		end := cursor.AddDate(0, 0, days-1)
		if end.After(to) {
			end = to
		}
		out = append(out, dateRange{from: cursor, to: end})
		cursor = end.AddDate(0, 0, 1)
	}
	return out
}

// aggregate folds daily rows into per-broker totals, ordered by net
// value descending (ties broken by broker code for determinism).
func aggregate(symbol string, from, to time.Time, rows []models.BrokerActivity) *models.BrokerSummary {
	byBroker := make(map[string]*models.BrokerTotal)
	for _, row := range rows {
		t, ok := byBroker[row.BrokerCode]
		if !ok {
			t = &models.BrokerTotal{BrokerCode: row.BrokerCode, BrokerName: row.BrokerName}
			byBroker[row.BrokerCode] = t
		}
		t.BuyLot += row.BuyLot
		t.BuyValue += row.BuyValue
		t.SellLot += row.SellLot
		t.SellValue += row.SellValue
	}

	summary := &models.BrokerSummary{
		Symbol:    symbol,
		StartDate: from,
		EndDate:   to,
		Brokers:   make([]models.BrokerTotal, 0, len(byBroker)),
	}
	for _, t := range byBroker {
		t.NetValue = t.BuyValue - t.SellValue
		summary.TotalBuyLot += t.BuyLot
		summary.TotalBuyValue += t.BuyValue
		summary.TotalSellLot += t.SellLot
		summary.TotalSellValue += t.SellValue
		summary.Brokers = append(summary.Brokers, *t)
	}

	sort.Slice(summary.Brokers, func(i, j int) bool {
		a, b := summary.Brokers[i], summary.Brokers[j]
		if a.NetValue != b.NetValue {
			return a.NetValue > b.NetValue
		}
		return a.BrokerCode < b.BrokerCode
	})
	return summary
}

func cacheKey(symbol string, from, to time.Time) string {
	return fmt.Sprintf("%s|%s|%s", symbol, from.Format(time.DateOnly), to.Format(time.DateOnly))
}
