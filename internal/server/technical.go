package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"FinSight/internal/calculator"
	"FinSight/internal/marketdata"
	"FinSight/internal/model"
)

func notFoundDetail(query string) string {
	return fmt.Sprintf("No data available for %s. Company not found in our database of top 100 companies.", query)
}

// fetchMarketData pulls the quote and the price series for one ticker
// concurrently.
func (s *Server) fetchMarketData(ctx context.Context, ticker string) (model.Quote, model.PriceSeries, error) {
	var (
		wg        sync.WaitGroup
		quote     model.Quote
		series    model.PriceSeries
		quoteErr  error
		seriesErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		quote, quoteErr = s.fetcher.FetchQuote(ctx, ticker)
	}()
	go func() {
		defer wg.Done()
		series, seriesErr = s.fetcher.FetchDailySeries(ctx, ticker, s.historyDays)
	}()
	wg.Wait()

	if seriesErr != nil {
		return model.Quote{}, nil, seriesErr
	}
	if quoteErr != nil {
		return model.Quote{}, nil, quoteErr
	}
	return quote, series, nil
}

// Lookup order is provider-first: the path segment is tried verbatim as a
// ticker, and only when the provider has no data for it is the segment
// resolved as a company name and retried. An off-universe ticker the provider
// knows is never shadowed by a directory name match.
func (s *Server) handleTechnicalAnalysis(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "symbol")
	ticker := strings.ToUpper(strings.TrimSpace(raw))

	quote, series, err := s.fetchMarketData(r.Context(), ticker)
	if errors.Is(err, marketdata.ErrNoData) {
		company, rerr := s.resolver.Resolve(raw)
		if rerr != nil {
			writeDetail(w, http.StatusNotFound, notFoundDetail(raw))
			return
		}
		ticker = company.Ticker
		quote, series, err = s.fetchMarketData(r.Context(), ticker)
	}
	if err != nil {
		if errors.Is(err, marketdata.ErrNoData) {
			writeDetail(w, http.StatusNotFound, notFoundDetail(raw))
			return
		}
		s.writeError(w, r, err)
		return
	}

	start := time.Now()
	set := calculator.Compute(series)
	s.metrics.IndicatorDur.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":         ticker,
		"original_query": raw,
		"last_updated":   time.Now().UTC().Format(time.RFC3339),
		"stock_data":     quote,
		"technical_data": set,
	})
}

// indicatorSlice serves the sub-routes that return one indicator only,
// using the same provider-first lookup as the full endpoint.
func (s *Server) indicatorSlice(w http.ResponseWriter, r *http.Request, field string, pick func(model.IndicatorSet) interface{}) {
	raw := chi.URLParam(r, "symbol")
	ticker := strings.ToUpper(strings.TrimSpace(raw))

	series, err := s.fetcher.FetchDailySeries(r.Context(), ticker, s.historyDays)
	if errors.Is(err, marketdata.ErrNoData) {
		company, rerr := s.resolver.Resolve(raw)
		if rerr != nil {
			writeDetail(w, http.StatusNotFound, notFoundDetail(raw))
			return
		}
		ticker = company.Ticker
		series, err = s.fetcher.FetchDailySeries(r.Context(), ticker, s.historyDays)
	}
	if err != nil {
		if errors.Is(err, marketdata.ErrNoData) {
			writeDetail(w, http.StatusNotFound, notFoundDetail(raw))
			return
		}
		s.writeError(w, r, err)
		return
	}

	set := calculator.Compute(series)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":       ticker,
		field:          pick(set),
		"last_updated": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRSI(w http.ResponseWriter, r *http.Request) {
	s.indicatorSlice(w, r, "rsi", func(set model.IndicatorSet) interface{} {
		return set.RSI
	})
}

func (s *Server) handleBollinger(w http.ResponseWriter, r *http.Request) {
	s.indicatorSlice(w, r, "bollinger", func(set model.IndicatorSet) interface{} {
		return set.Bollinger
	})
}

func (s *Server) handleMovingAverages(w http.ResponseWriter, r *http.Request) {
	s.indicatorSlice(w, r, "moving_averages", func(set model.IndicatorSet) interface{} {
		return set.MovingAverages()
	})
}
