package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"FinSight/internal/marketdata"
	"FinSight/internal/metrics"
	"FinSight/internal/model"
	"FinSight/internal/resolver"
)

const (
	// DefaultWorkers bounds the profile fan-out during a refresh.
	DefaultWorkers = 10

	maxSearchResults = 10
)

// snapshot is an immutable view of the directory. Refresh builds a complete
// replacement and swaps it in; the slices and map inside are never mutated
// after publication, so readers may hold them without the lock.
type snapshot struct {
	companies   []model.Company // sorted by market cap descending
	byTicker    map[string]model.Company
	refreshedAt time.Time
	stale       bool
}

// Store maintains the in-memory company directory. All read methods operate
// on the current snapshot and never block a running refresh.
type Store struct {
	fetcher marketdata.Fetcher
	symbols []string
	workers int
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu   sync.RWMutex
	snap snapshot
}

// New creates an empty directory over the given symbol universe. An empty
// symbol list selects DefaultUniverse. The directory is stale until the first
// successful Refresh.
func New(fetcher marketdata.Fetcher, symbols []string, workers int, logger *zap.Logger, m *metrics.Metrics) *Store {
	if len(symbols) == 0 {
		symbols = DefaultUniverse
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Store{
		fetcher: fetcher,
		symbols: symbols,
		workers: workers,
		logger:  logger,
		metrics: m,
		snap:    snapshot{stale: true},
	}
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Refresh rebuilds the directory from live profiles. Symbols that fail or
// report no market cap are dropped from the new snapshot; if nothing usable
// comes back (or the context expires) the previous snapshot is retained and
// marked stale, so an empty set never replaces a good one.
func (s *Store) Refresh(ctx context.Context) error {
	start := time.Now()
	s.metrics.RefreshTotal.Inc()

	companies := s.fetchProfiles(ctx)
	if len(companies) == 0 || ctx.Err() != nil {
		s.metrics.RefreshFailures.Inc()
		s.markStale()
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("directory refresh aborted: %w", err)
		}
		return fmt.Errorf("directory refresh: no usable profiles for %d symbols", len(s.symbols))
	}

	sort.Slice(companies, func(i, j int) bool {
		return companies[i].MarketCap > companies[j].MarketCap
	})
	byTicker := make(map[string]model.Company, len(companies))
	for _, c := range companies {
		byTicker[c.Ticker] = c
	}

	s.mu.Lock()
	s.snap = snapshot{
		companies:   companies,
		byTicker:    byTicker,
		refreshedAt: time.Now(),
	}
	s.mu.Unlock()

	s.metrics.DirectorySize.Set(float64(len(companies)))
	s.metrics.DirectoryStale.Set(0)
	s.logger.Info("directory refreshed",
		zap.Int("companies", len(companies)),
		zap.Int("universe", len(s.symbols)),
		zap.Duration("took", time.Since(start)))
	return nil
}

func (s *Store) markStale() {
	s.mu.Lock()
	s.snap.stale = true
	s.mu.Unlock()
	s.metrics.DirectoryStale.Set(1)
}

// fetchProfiles fans the symbol universe out over a bounded worker pool and
// collects whatever profiles come back.
func (s *Store) fetchProfiles(ctx context.Context) []model.Company {
	jobs := make(chan string)
	results := make(chan model.Company)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				profile, err := s.fetcher.FetchProfile(ctx, symbol)
				if err != nil {
					s.logger.Warn("profile fetch failed",
						zap.String("symbol", symbol), zap.Error(err))
					continue
				}
				if profile.MarketCap <= 0 {
					s.logger.Warn("profile has no market cap, dropping",
						zap.String("symbol", symbol))
					continue
				}
				profile.Aliases = resolver.AliasesFor(profile.Ticker)
				results <- profile
			}
		}()
	}

	done := make(chan struct{})
	var companies []model.Company
	go func() {
		defer close(done)
		for c := range results {
			companies = append(companies, c)
		}
	}()

feed:
	for _, symbol := range s.symbols {
		select {
		case jobs <- symbol:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	<-done

	return companies
}

// Companies returns the current snapshot's companies sorted by market cap
// descending. The returned slice is shared and must not be modified.
func (s *Store) Companies() []model.Company {
	return s.snapshot().companies
}

// Get looks a ticker up in the snapshot, falling back to a live profile fetch
// so tickers outside the tracked universe still resolve.
func (s *Store) Get(ctx context.Context, ticker string) (model.Company, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if c, ok := s.snapshot().byTicker[t]; ok {
		return c, nil
	}
	profile, err := s.fetcher.FetchProfile(ctx, t)
	if err != nil {
		return model.Company{}, err
	}
	return profile, nil
}

// Top returns the first limit companies with 1-based ranks attached.
func (s *Store) Top(limit int) []model.RankedCompany {
	companies := s.snapshot().companies
	if limit <= 0 || limit > len(companies) {
		limit = len(companies)
	}
	ranked := make([]model.RankedCompany, 0, limit)
	for i := 0; i < limit; i++ {
		ranked = append(ranked, model.RankedCompany{Rank: i + 1, Company: companies[i]})
	}
	return ranked
}

// Search matches companies case-insensitively: exact ticker first, then exact
// name, then substring over name, ticker, sector and industry. Results keep
// market-cap order within each tier, deduplicated, capped at 10.
func (s *Store) Search(query string) []model.Company {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	snap := s.snapshot()

	matches := make([]model.Company, 0, maxSearchResults)
	seen := make(map[string]bool, maxSearchResults)
	add := func(c model.Company) {
		if len(matches) < maxSearchResults && !seen[c.Ticker] {
			seen[c.Ticker] = true
			matches = append(matches, c)
		}
	}

	if c, ok := snap.byTicker[strings.ToUpper(q)]; ok {
		add(c)
	}
	for _, c := range snap.companies {
		if strings.ToLower(c.Name) == q {
			add(c)
		}
	}
	for _, c := range snap.companies {
		if len(matches) >= maxSearchResults {
			break
		}
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Ticker), q) ||
			strings.Contains(strings.ToLower(c.Sector), q) ||
			strings.Contains(strings.ToLower(c.Industry), q) {
			add(c)
		}
	}
	return matches
}

// BySector filters the snapshot by case-insensitive sector substring.
func (s *Store) BySector(sector string) []model.Company {
	return s.filter(func(c model.Company) string { return c.Sector }, sector)
}

// ByIndustry filters the snapshot by case-insensitive industry substring.
func (s *Store) ByIndustry(industry string) []model.Company {
	return s.filter(func(c model.Company) string { return c.Industry }, industry)
}

func (s *Store) filter(field func(model.Company) string, query string) []model.Company {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var matches []model.Company
	for _, c := range s.snapshot().companies {
		if strings.Contains(strings.ToLower(field(c)), q) {
			matches = append(matches, c)
		}
	}
	return matches
}

// Status reports the snapshot's size and freshness for health checks.
func (s *Store) Status() model.DirectoryStatus {
	snap := s.snapshot()
	return model.DirectoryStatus{
		Companies:   len(snap.companies),
		RefreshedAt: snap.refreshedAt,
		Stale:       snap.stale,
	}
}
