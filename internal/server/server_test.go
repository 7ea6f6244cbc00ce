package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"FinSight/internal/assistant"
	"FinSight/internal/directory"
	"FinSight/internal/marketdata"
	"FinSight/internal/metrics"
	"FinSight/internal/model"
	"FinSight/internal/resolver"
)

func testProfiles() map[string]model.Company {
	return map[string]model.Company{
		"AAPL":  {Name: "Apple Inc.", Ticker: "AAPL", Sector: "Technology", Industry: "Consumer Electronics", MarketCap: 3e12},
		"MSFT":  {Name: "Microsoft Corporation", Ticker: "MSFT", Sector: "Technology", Industry: "Software - Infrastructure", MarketCap: 2.8e12},
		"GOOGL": {Name: "Alphabet Inc.", Ticker: "GOOGL", Sector: "Communication Services", Industry: "Internet Content", MarketCap: 2e12},
		"JPM":   {Name: "JPMorgan Chase & Co.", Ticker: "JPM", Sector: "Financial Services", Industry: "Banks - Diversified", MarketCap: 5e11},
	}
}

// newTestRouter wires the full handler stack over the given fetcher. A
// refresh failure is tolerated so broken-provider scenarios can be tested.
func newTestRouter(t *testing.T, fetcher marketdata.Fetcher) http.Handler {
	t.Helper()
	m := metrics.NewMetrics()
	log := zap.NewNop()

	dir := directory.New(fetcher, []string{"AAPL", "MSFT", "GOOGL", "JPM"}, 2, log, m)
	_ = dir.Refresh(context.Background())

	res := resolver.New(dir)
	processor := assistant.NewProcessor(res, fetcher, nil, log, m)
	srv := New(dir, res, fetcher, processor, m, log, 180, 30*time.Second)
	return srv.Router()
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRootAndHealth(t *testing.T) {
	router := newTestRouter(t, &marketdata.MockFetcher{Profiles: testProfiles()})

	rec := doRequest(t, router, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["success"] != true {
		t.Errorf("banner success = %v", body["success"])
	}

	rec = doRequest(t, router, http.MethodGet, "/health", "")
	body := decodeBody(t, rec)
	if body["status"] != "healthy" {
		t.Errorf("health status = %v", body["status"])
	}
	services, ok := body["services"].(map[string]interface{})
	if !ok || services["market_data"] != "mock" {
		t.Errorf("health services = %v", body["services"])
	}
}

func TestTopCompanies(t *testing.T) {
	router := newTestRouter(t, &marketdata.MockFetcher{Profiles: testProfiles()})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/companies/top", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(4) {
		t.Errorf("count = %v, want 4", body["count"])
	}
	companies := body["companies"].([]interface{})
	first := companies[0].(map[string]interface{})
	if first["ticker"] != "AAPL" || first["rank"] != float64(1) {
		t.Errorf("first ranked company = %v", first)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/companies/top?limit=2", "")
	if body := decodeBody(t, rec); body["count"] != float64(2) {
		t.Errorf("limited count = %v, want 2", body["count"])
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/companies/top?limit=abc", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad limit status = %d, want 422", rec.Code)
	}
}

func TestSearchCompanies(t *testing.T) {
	router := newTestRouter(t, &marketdata.MockFetcher{Profiles: testProfiles()})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/companies/search?q=apple", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	companies := body["companies"].([]interface{})
	if len(companies) == 0 {
		t.Fatal("no results for apple")
	}
	if first := companies[0].(map[string]interface{}); first["ticker"] != "AAPL" {
		t.Errorf("first result = %v, want AAPL", first["ticker"])
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/companies/search?q=", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("blank q status = %d, want 422", rec.Code)
	}
	if body := decodeBody(t, rec); body["detail"] == nil {
		t.Error("422 body missing detail")
	}
}

func TestGetCompanyAndFilters(t *testing.T) {
	router := newTestRouter(t, &marketdata.MockFetcher{Profiles: testProfiles()})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/companies/AAPL", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["name"] != "Apple Inc." {
		t.Errorf("company name = %v", body["name"])
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/companies/sector/financial", "")
	body := decodeBody(t, rec)
	if body["count"] != float64(1) {
		t.Errorf("sector filter count = %v, want 1", body["count"])
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/companies/industry/banks", "")
	if body := decodeBody(t, rec); body["count"] != float64(1) {
		t.Errorf("industry filter count = %v, want 1", body["count"])
	}
}

func TestGetCompanyUnknown(t *testing.T) {
	router := newTestRouter(t, &marketdata.MockFetcher{Err: marketdata.ErrNoData})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/companies/ZZZZ", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if body := decodeBody(t, rec); body["detail"] == nil {
		t.Error("404 body missing detail")
	}
}

func TestTechnicalAnalysisEnvelope(t *testing.T) {
	router := newTestRouter(t, &marketdata.MockFetcher{Profiles: testProfiles()})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/technical-analysis/AAPL", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	for _, key := range []string{"ticker", "original_query", "last_updated", "stock_data", "technical_data"} {
		if _, ok := body[key]; !ok {
			t.Errorf("envelope missing %q", key)
		}
	}
	if body["ticker"] != "AAPL" {
		t.Errorf("ticker = %v", body["ticker"])
	}

	technical := body["technical_data"].(map[string]interface{})
	// 180 synthetic bars: every indicator must be present.
	for _, key := range []string{"rsi", "sma_20", "sma_50", "ema_12", "ema_26", "bollinger", "trend"} {
		if technical[key] == nil {
			t.Errorf("technical_data[%q] is null", key)
		}
	}
}

func TestTechnicalAnalysisResolvesCompanyName(t *testing.T) {
	// KnownOnly: the provider has no data for "GOOGLE", forcing the
	// company-name fallback.
	router := newTestRouter(t, &marketdata.MockFetcher{Profiles: testProfiles(), KnownOnly: true})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/technical-analysis/google", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["ticker"] != "GOOGL" {
		t.Errorf("ticker = %v, want GOOGL", body["ticker"])
	}
	if body["original_query"] != "google" {
		t.Errorf("original_query = %v", body["original_query"])
	}
}

func TestTechnicalAnalysisPrefersProviderSymbol(t *testing.T) {
	// The default mock has data for every symbol. "APP" substring-matches
	// "Apple Inc." in the directory, but the provider knows the ticker, so
	// the lookup must serve APP itself rather than resolving to AAPL.
	router := newTestRouter(t, &marketdata.MockFetcher{Profiles: testProfiles()})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/technical-analysis/APP", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["ticker"] != "APP" {
		t.Errorf("ticker = %v, want APP", body["ticker"])
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/technical-analysis/APP/rsi", "")
	if body := decodeBody(t, rec); body["ticker"] != "APP" {
		t.Errorf("sub-route ticker = %v, want APP", body["ticker"])
	}
}

func TestTechnicalAnalysisUnknownCompany(t *testing.T) {
	router := newTestRouter(t, &marketdata.MockFetcher{Err: marketdata.ErrNoData})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/technical-analysis/ZZZZNOTACOMPANY", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := decodeBody(t, rec)
	detail, _ := body["detail"].(string)
	if !strings.Contains(detail, "ZZZZNOTACOMPANY") || !strings.Contains(detail, "not found") {
		t.Errorf("detail = %q", detail)
	}
}

func TestTechnicalAnalysisUpstreamFailure(t *testing.T) {
	upstream := &marketdata.UpstreamError{Provider: "yahoo", Err: errors.New("connect timeout")}
	router := newTestRouter(t, &marketdata.MockFetcher{Err: upstream})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/technical-analysis/AAPL", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	body := decodeBody(t, rec)
	if detail, _ := body["detail"].(string); strings.Contains(detail, "connect timeout") {
		t.Errorf("502 detail leaks the provider error: %q", detail)
	}
}

func TestIndicatorSubRoutes(t *testing.T) {
	router := newTestRouter(t, &marketdata.MockFetcher{Profiles: testProfiles()})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/technical-analysis/AAPL/rsi", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("rsi status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	rsi, ok := body["rsi"].(map[string]interface{})
	if !ok {
		t.Fatalf("rsi payload = %v", body["rsi"])
	}
	if _, ok := rsi["interpretation"]; !ok {
		t.Error("rsi missing interpretation")
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/technical-analysis/AAPL/bollinger-bands", "")
	body = decodeBody(t, rec)
	bands, ok := body["bollinger"].(map[string]interface{})
	if !ok {
		t.Fatalf("bollinger payload = %v", body["bollinger"])
	}
	if bands["upper"].(float64) < bands["lower"].(float64) {
		t.Error("upper band below lower band")
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/technical-analysis/AAPL/moving-averages", "")
	body = decodeBody(t, rec)
	mas, ok := body["moving_averages"].(map[string]interface{})
	if !ok {
		t.Fatalf("moving averages payload = %v", body["moving_averages"])
	}
	for _, key := range []string{"sma_20", "sma_50", "ema_12", "ema_26"} {
		if mas[key] == nil {
			t.Errorf("moving_averages[%q] is null", key)
		}
	}
}

func TestAIQuery(t *testing.T) {
	router := newTestRouter(t, &marketdata.MockFetcher{Profiles: testProfiles()})

	// Query as URL parameter
	rec := doRequest(t, router, http.MethodPost, "/api/v1/ai/query?query=What+is+the+price+of+AAPL", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("param query status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] == nil || body["type"] == nil {
		t.Errorf("result missing message/type: %v", body)
	}

	// Query in the body, both accepted keys
	for _, payload := range []string{
		`{"query": "Tell me about Microsoft"}`,
		`{"message": "Tell me about Microsoft"}`,
	} {
		rec = doRequest(t, router, http.MethodPost, "/api/v1/ai/query", payload)
		if rec.Code != http.StatusOK {
			t.Errorf("body %s status = %d", payload, rec.Code)
		}
	}

	// Too short
	rec = doRequest(t, router, http.MethodPost, "/api/v1/ai/query", `{"query": "hi"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("short query status = %d, want 422", rec.Code)
	}

	// Missing entirely
	rec = doRequest(t, router, http.MethodPost, "/api/v1/ai/query", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing query status = %d, want 422", rec.Code)
	}
}

func TestAIExamples(t *testing.T) {
	router := newTestRouter(t, &marketdata.MockFetcher{Profiles: testProfiles()})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/ai/examples", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if examples, ok := body["examples"].([]interface{}); !ok || len(examples) == 0 {
		t.Errorf("examples = %v", body["examples"])
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, &marketdata.MockFetcher{Profiles: testProfiles()})

	rec := doRequest(t, router, http.MethodOptions, "/api/v1/companies/top", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS origin header")
	}
}
