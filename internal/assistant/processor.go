package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"FinSight/internal/calculator"
	"FinSight/internal/marketdata"
	"FinSight/internal/metrics"
	"FinSight/internal/model"
	"FinSight/internal/resolver"
)

// Completer produces natural-language text from a system/user prompt pair.
// Implementations wrap an external text-generation provider.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const (
	maxCompaniesPerQuery    = 5
	seriesDaysForIndicators = 180
)

// Processor answers natural-language queries about stocks and companies.
type Processor struct {
	resolver  *resolver.Resolver
	fetcher   marketdata.Fetcher
	completer Completer // nil runs the deterministic handlers only
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewProcessor(res *resolver.Resolver, fetcher marketdata.Fetcher, completer Completer, logger *zap.Logger, m *metrics.Metrics) *Processor {
	return &Processor{
		resolver:  res,
		fetcher:   fetcher,
		completer: completer,
		logger:    logger,
		metrics:   m,
	}
}

// companyData pairs a resolved company with whatever market data the fan-out
// managed to fetch for it.
type companyData struct {
	company    model.Company
	quote      *model.Quote
	indicators *model.IndicatorSet
}

// Process answers one query. With a Completer configured the answer comes
// from the model grounded in live market data; without one, or when the model
// call fails, the deterministic local handlers serve it instead.
func (p *Processor) Process(ctx context.Context, query string) Result {
	log := p.logger.With(zap.String("query_id", uuid.NewString()))
	kind := Classify(query)
	p.metrics.AIQueries.WithLabelValues(string(kind)).Inc()

	companies := p.findCompanies(query)
	log.Info("processing query",
		zap.String("kind", string(kind)),
		zap.Int("companies", len(companies)))

	data := p.collectMarketData(ctx, companies, kind)

	if p.completer != nil {
		result, err := p.modelAnswer(ctx, query, kind, data)
		if err == nil {
			return result
		}
		log.Warn("completion failed, serving local answer", zap.Error(err))
	}
	return p.localAnswer(kind, data)
}

// findCompanies scans the query's words and word pairs against the directory
// through the resolver, keeping up to five distinct companies in mention
// order.
func (p *Processor) findCompanies(query string) []model.Company {
	words := strings.Fields(query)
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		c := strings.ToLower(strings.Trim(w, ".,!?()[]{}\"':;$"))
		c = strings.TrimSuffix(c, "'s")
		if c != "" {
			cleaned = append(cleaned, c)
		}
	}

	var candidates []string
	for i, w := range cleaned {
		if len(w) < 2 || queryStopwords[w] {
			continue
		}
		candidates = append(candidates, w)
		// word pairs catch multi-word names ("coca cola", "home depot")
		if i+1 < len(cleaned) {
			next := cleaned[i+1]
			if len(next) >= 2 && !queryStopwords[next] {
				candidates = append(candidates, w+" "+next)
			}
		}
	}

	var companies []model.Company
	seen := make(map[string]bool, maxCompaniesPerQuery)
	for _, cand := range candidates {
		if len(companies) >= maxCompaniesPerQuery {
			break
		}
		company, err := p.resolver.Resolve(cand)
		if err != nil {
			continue
		}
		if !seen[company.Ticker] {
			seen[company.Ticker] = true
			companies = append(companies, company)
		}
	}
	return companies
}

// queryStopwords are words that must never resolve to a company, however well
// they substring-match a name.
var queryStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "about": true,
	"what": true, "who": true, "how": true, "why": true, "when": true,
	"which": true, "is": true, "are": true, "was": true, "does": true,
	"can": true, "could": true, "should": true, "would": true, "will": true,
	"tell": true, "show": true, "give": true, "get": true, "me": true,
	"my": true, "you": true, "your": true, "of": true, "in": true, "on": true,
	"at": true, "to": true, "it": true, "its": true, "do": true, "this": true,
	"info": true, "information": true, "price": true, "prices": true,
	"cost": true, "worth": true, "value": true, "quote": true, "stock": true,
	"stocks": true, "share": true, "shares": true, "company": true,
	"companies": true, "invest": true, "investing": true, "investment": true,
	"analyze": true, "analysis": true, "technical": true, "performance": true,
	"compare": true, "versus": true, "vs": true, "between": true,
	"doing": true, "right": true, "now": true, "today": true,
	"currently": true, "trading": true, "inc": true, "corp": true,
	"rsi": true, "bollinger": true, "moving": true, "average": true,
	"averages": true, "indicator": true, "indicators": true, "chart": true,
	"market": true, "better": true, "best": true, "top": true, "all": true,
}

// collectMarketData fetches a quote per company concurrently, plus a daily
// series with computed indicators when the query kind wants them. Failures
// leave nil fields; the handlers degrade per company.
func (p *Processor) collectMarketData(ctx context.Context, companies []model.Company, kind QueryKind) []companyData {
	data := make([]companyData, len(companies))
	var wg sync.WaitGroup
	for i, c := range companies {
		data[i].company = c
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			quote, err := p.fetcher.FetchQuote(ctx, ticker)
			if err != nil {
				p.logger.Warn("quote fetch failed",
					zap.String("ticker", ticker), zap.Error(err))
			} else {
				data[i].quote = &quote
			}
			if !kind.needsIndicators() {
				return
			}
			series, err := p.fetcher.FetchDailySeries(ctx, ticker, seriesDaysForIndicators)
			if err != nil {
				p.logger.Warn("series fetch failed",
					zap.String("ticker", ticker), zap.Error(err))
				return
			}
			set := calculator.Compute(series)
			data[i].indicators = &set
		}(i, c.Ticker)
	}
	wg.Wait()
	return data
}

func (p *Processor) modelAnswer(ctx context.Context, query string, kind QueryKind, data []companyData) (Result, error) {
	message, err := p.completer.Complete(ctx, systemPrompt, buildUserPrompt(query, time.Now(), data))
	if err != nil {
		return Result{}, err
	}

	result := Result{Type: string(kind), Message: message}
	if len(data) == 1 {
		result.Ticker = data[0].company.Ticker
	}
	if len(data) > 0 {
		tickers := make([]string, 0, len(data))
		hasLiveData := false
		for _, d := range data {
			tickers = append(tickers, d.company.Ticker)
			if d.quote != nil {
				hasLiveData = true
			}
		}
		result.Data = map[string]interface{}{
			"companies_analyzed": tickers,
			"has_real_time_data": hasLiveData,
		}
	}
	return result, nil
}
