package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"FinSight/internal/assistant"
	"FinSight/internal/directory"
	"FinSight/internal/marketdata"
	"FinSight/internal/metrics"
	"FinSight/internal/resolver"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	directory   *directory.Store
	resolver    *resolver.Resolver
	fetcher     marketdata.Fetcher
	processor   *assistant.Processor
	metrics     *metrics.Metrics
	logger      *zap.Logger
	historyDays int
	timeout     time.Duration
}

// New wires the handlers. historyDays sets the series window behind the
// technical-analysis routes; timeout bounds each request.
func New(dir *directory.Store, res *resolver.Resolver, fetcher marketdata.Fetcher,
	processor *assistant.Processor, m *metrics.Metrics, logger *zap.Logger,
	historyDays int, timeout time.Duration) *Server {
	return &Server{
		directory:   dir,
		resolver:    res,
		fetcher:     fetcher,
		processor:   processor,
		metrics:     m,
		logger:      logger,
		historyDays: historyDays,
		timeout:     timeout,
	}
}

// Router builds the chi router with the full middleware stack and route
// surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.requestLogger)
	r.Use(s.recordMetrics)
	r.Use(allowCORS)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/companies", func(r chi.Router) {
			r.Get("/top", s.handleTopCompanies)
			r.Get("/search", s.handleSearchCompanies)
			r.Get("/sector/{sector}", s.handleBySector)
			r.Get("/industry/{industry}", s.handleByIndustry)
			r.Get("/{ticker}", s.handleGetCompany)
		})
		r.Route("/technical-analysis", func(r chi.Router) {
			r.Get("/{symbol}", s.handleTechnicalAnalysis)
			r.Get("/{symbol}/rsi", s.handleRSI)
			r.Get("/{symbol}/bollinger-bands", s.handleBollinger)
			r.Get("/{symbol}/moving-averages", s.handleMovingAverages)
		})
		r.Route("/ai", func(r chi.Router) {
			r.Post("/query", s.handleAIQuery)
			r.Get("/examples", s.handleAIExamples)
		})
	})

	return r
}
