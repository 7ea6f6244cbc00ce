package marketdata

import (
	"context"

	"FinSight/internal/model"
)

// Fetcher retrieves market data for a single symbol from a provider.
type Fetcher interface {
	// FetchDailySeries returns up to `days` daily bars, chronological ascending.
	FetchDailySeries(ctx context.Context, symbol string, days int) (model.PriceSeries, error)
	// FetchQuote returns a snapshot quote for the symbol.
	FetchQuote(ctx context.Context, symbol string) (model.Quote, error)
	// FetchProfile returns the directory fields for the symbol
	// (name, sector, industry, market cap).
	FetchProfile(ctx context.Context, symbol string) (model.Company, error)
	Name() string
}
