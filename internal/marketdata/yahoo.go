package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"FinSight/internal/calculator"
	"FinSight/internal/metrics"
	"FinSight/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance public API: the v8
// chart endpoint for bars and the v10 quoteSummary endpoint for profiles.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps directory symbols to Yahoo tickers

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewYahooFetcher creates a Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: defaultYahooBaseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"BRK.A": "BRK-A",
			"BRK.B": "BRK-B",
		},
		logger:  logger,
		metrics: m,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// statusError carries a non-200 response for the retry decision.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string { return fmt.Sprintf("status %d: %s", e.code, e.body) }

func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	// Anything below the HTTP status level (refused, reset, timeout).
	return true
}

func (f *YahooFetcher) fetchOnce(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: truncate(string(body), 200)}
	}
	return body, nil
}

// fetchJSON performs a GET with one immediate retry on transient failure
// (network error, 5xx, 429). A failure that survives the retry surfaces as an
// UpstreamError; a 404 means the provider does not know the symbol.
func (f *YahooFetcher) fetchJSON(ctx context.Context, call, u string, out interface{}) error {
	start := time.Now()
	body, err := f.fetchOnce(ctx, u)
	if err != nil && isTransient(err) && ctx.Err() == nil {
		f.logger.Warn("yahoo request failed, retrying once",
			zap.String("call", call), zap.Error(err))
		body, err = f.fetchOnce(ctx, u)
	}
	f.metrics.UpstreamDuration.WithLabelValues(f.Name(), call).Observe(time.Since(start).Seconds())
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return fmt.Errorf("yahoo %s: %w", call, ErrNoData)
		}
		f.metrics.UpstreamErrors.WithLabelValues(f.Name()).Inc()
		return &UpstreamError{Provider: f.Name(), Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		f.metrics.UpstreamErrors.WithLabelValues(f.Name()).Inc()
		return &UpstreamError{Provider: f.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func floatAt(values []interface{}, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return toFloat(values[i])
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (model.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	var chart yahooChart
	if err := f.fetchJSON(ctx, "chart", u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart for %s: %s: %w", symbol, chart.Chart.Error.Description, ErrNoData)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart for %s: empty result: %w", symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make(model.PriceSeries, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := floatAt(quote.Open, i)
		h := floatAt(quote.High, i)
		l := floatAt(quote.Low, i)
		c := floatAt(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: floatAt(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *YahooFetcher) FetchDailySeries(ctx context.Context, symbol string, days int) (model.PriceSeries, error) {
	// Yahoo range: max "2y" for daily interval
	rng := "2y"
	if days <= 30 {
		rng = "1mo"
	} else if days <= 90 {
		rng = "3mo"
	} else if days <= 180 {
		rng = "6mo"
	} else if days <= 365 {
		rng = "1y"
	}
	bars, err := f.fetchChart(ctx, symbol, "1d", rng)
	if err != nil {
		return nil, err
	}
	// Trim to requested count
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// FetchQuote assembles a snapshot from a year of daily bars plus the
// quoteSummary profile. Change fields derive from the last two closes; the
// quote is still served, bare, when the summary endpoint fails.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	bars, err := f.FetchDailySeries(ctx, symbol, 365)
	if err != nil {
		return model.Quote{}, err
	}
	last, ok := bars.Last()
	if !ok {
		return model.Quote{}, fmt.Errorf("yahoo quote for %s: %w", symbol, ErrNoData)
	}

	quote := model.Quote{
		Ticker:       strings.ToUpper(symbol),
		CurrentPrice: last.Close,
		Volume:       int64(last.Volume),
		CompanyName:  strings.ToUpper(symbol),
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

	summary, err := f.fetchSummary(ctx, symbol)
	if err != nil {
		f.logger.Warn("yahoo summary unavailable, serving bare quote",
			zap.String("symbol", symbol), zap.Error(err))
		return quote, nil
	}
	if summary.name != "" {
		quote.CompanyName = summary.name
	}
	quote.Sector = summary.sector
	quote.Industry = summary.industry
	quote.MarketCap = summary.marketCap
	quote.PERatio = summary.peRatio
	quote.DividendYield = summary.dividendYield
	return quote, nil
}

// FetchProfile returns the directory fields for a symbol from quoteSummary.
func (f *YahooFetcher) FetchProfile(ctx context.Context, symbol string) (model.Company, error) {
	summary, err := f.fetchSummary(ctx, symbol)
	if err != nil {
		return model.Company{}, err
	}
	name := summary.name
	if name == "" {
		name = strings.ToUpper(symbol)
	}
	company := model.Company{
		Name:     name,
		Ticker:   strings.ToUpper(symbol),
		Sector:   orUnknown(summary.sector),
		Industry: orUnknown(summary.industry),
	}
	if summary.marketCap != nil {
		company.MarketCap = *summary.marketCap
	}
	return company, nil
}

// yahooValue is Yahoo's {raw, fmt} wrapper around numeric fields.
type yahooValue struct {
	Raw float64 `json:"raw"`
}

type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
			Price *struct {
				LongName  string      `json:"longName"`
				ShortName string      `json:"shortName"`
				MarketCap *yahooValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail *struct {
				TrailingPE    *yahooValue `json:"trailingPE"`
				DividendYield *yahooValue `json:"dividendYield"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type yahooSummary struct {
	name          string
	sector        string
	industry      string
	marketCap     *float64
	peRatio       *float64
	dividendYield *float64
}

func (f *YahooFetcher) fetchSummary(ctx context.Context, symbol string) (yahooSummary, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), url.QueryEscape("assetProfile,summaryDetail,price"))

	var payload yahooQuoteSummary
	if err := f.fetchJSON(ctx, "summary", u, &payload); err != nil {
		return yahooSummary{}, err
	}
	if payload.QuoteSummary.Error != nil {
		return yahooSummary{}, fmt.Errorf("yahoo summary for %s: %s: %w",
			symbol, payload.QuoteSummary.Error.Description, ErrNoData)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return yahooSummary{}, fmt.Errorf("yahoo summary for %s: empty result: %w", symbol, ErrNoData)
	}

	result := payload.QuoteSummary.Result[0]
	var s yahooSummary
	if p := result.Price; p != nil {
		s.name = p.LongName
		if s.name == "" {
			s.name = p.ShortName
		}
		s.marketCap = rawValue(p.MarketCap)
	}
	if a := result.AssetProfile; a != nil {
		s.sector = a.Sector
		s.industry = a.Industry
	}
	if d := result.SummaryDetail; d != nil {
		s.peRatio = rawValue(d.TrailingPE)
		s.dividendYield = rawValue(d.DividendYield)
	}
	return s, nil
}

func rawValue(v *yahooValue) *float64 {
	if v == nil {
		return nil
	}
	raw := v.Raw
	return &raw
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
