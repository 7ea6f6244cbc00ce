package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"FinSight/internal/model"
)

const (
	defaultTopLimit = 20
	maxTopLimit     = 100
)

func (s *Server) handleTopCompanies(w http.ResponseWriter, r *http.Request) {
	limit := defaultTopLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeDetail(w, http.StatusUnprocessableEntity, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	ranked := s.directory.Top(limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"companies": ranked,
		"count":     len(ranked),
	})
}

func (s *Server) handleSearchCompanies(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Query parameter 'q' is required")
		return
	}

	results := s.directory.Search(q)
	if results == nil {
		results = []model.Company{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":     q,
		"companies": results,
		"count":     len(results),
	})
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	company, err := s.directory.Get(r.Context(), ticker)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (s *Server) handleBySector(w http.ResponseWriter, r *http.Request) {
	sector := chi.URLParam(r, "sector")
	companies := s.directory.BySector(sector)
	if companies == nil {
		companies = []model.Company{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sector":    sector,
		"companies": companies,
		"count":     len(companies),
	})
}

func (s *Server) handleByIndustry(w http.ResponseWriter, r *http.Request) {
	industry := chi.URLParam(r, "industry")
	companies := s.directory.ByIndustry(industry)
	if companies == nil {
		companies = []model.Company{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"industry":  industry,
		"companies": companies,
		"count":     len(companies),
	})
}
