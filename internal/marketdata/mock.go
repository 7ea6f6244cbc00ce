package marketdata

import (
	"context"
	"strings"
	"time"

	"FinSight/internal/calculator"
	"FinSight/internal/model"
)

// MockFetcher returns deterministic synthetic data for development and tests.
type MockFetcher struct {
	BasePrice float64
	Series    model.PriceSeries        // overrides generated bars when set
	Quotes    map[string]model.Quote   // per-symbol canned quotes
	Profiles  map[string]model.Company // per-symbol canned profiles
	KnownOnly bool                     // restrict data to the Profiles keys; others get ErrNoData
	Err       error                    // when set, every call fails with it
}

// unknown reports whether a KnownOnly fetcher has no data for the symbol.
func (m *MockFetcher) unknown(symbol string) bool {
	if !m.KnownOnly {
		return false
	}
	_, ok := m.Profiles[strings.ToUpper(symbol)]
	return !ok
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) basePrice() float64 {
	if m.BasePrice > 0 {
		return m.BasePrice
	}
	return 100
}

func (m *MockFetcher) FetchDailySeries(_ context.Context, symbol string, days int) (model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.unknown(symbol) {
		return nil, ErrNoData
	}
	if m.Series != nil {
		return m.Series, nil
	}
	return generateMockBars(m.basePrice(), days), nil
}

func (m *MockFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	if m.Err != nil {
		return model.Quote{}, m.Err
	}
	if m.unknown(symbol) {
		return model.Quote{}, ErrNoData
	}
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	bars, err := m.FetchDailySeries(ctx, symbol, 365)
	if err != nil {
		return model.Quote{}, err
	}
	last, ok := bars.Last()
	if !ok {
		return model.Quote{}, ErrNoData
	}
	quote := model.Quote{
		Ticker:       strings.ToUpper(symbol),
		CurrentPrice: last.Close,
		Volume:       int64(last.Volume),
		CompanyName:  mockCompanyName(symbol),
		Sector:       "Technology",
		Industry:     "Software",
	}
	if len(bars) >= 2 {
		prev := bars[len(bars)-2].Close
		quote.Change = last.Close - prev
		if prev != 0 {
			quote.ChangePercent = (last.Close/prev - 1) * 100
		}
	}
	if high, low, err := calculator.Calculate52WeekRange(bars); err == nil {
		quote.High52Week = high
		quote.Low52Week = low
	}
	marketCap := m.basePrice() * 1e9
	quote.MarketCap = &marketCap
	return quote, nil
}

func (m *MockFetcher) FetchProfile(_ context.Context, symbol string) (model.Company, error) {
	if m.Err != nil {
		return model.Company{}, m.Err
	}
	if m.unknown(symbol) {
		return model.Company{}, ErrNoData
	}
	if p, ok := m.Profiles[symbol]; ok {
		return p, nil
	}
	return model.Company{
		Name:      mockCompanyName(symbol),
		Ticker:    strings.ToUpper(symbol),
		Sector:    "Technology",
		Industry:  "Software",
		MarketCap: m.basePrice() * 1e9,
	}, nil
}

func mockCompanyName(symbol string) string {
	return strings.ToUpper(symbol) + " Inc."
}

func generateMockBars(basePrice float64, count int) model.PriceSeries {
	bars := make(model.PriceSeries, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
