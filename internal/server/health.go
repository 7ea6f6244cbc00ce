package server

import (
	"net/http"
	"time"

	"FinSight/internal/model"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "FinSight API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type healthResponse struct {
	Status    string                 `json:"status"`
	Services  map[string]interface{} `json:"services"`
	Timestamp string                 `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dir := s.directory.Status()

	status := "healthy"
	if dir.Stale {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status: status,
		Services: map[string]interface{}{
			"api":         "operational",
			"market_data": s.fetcher.Name(),
			"directory":   directoryHealth(dir),
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func directoryHealth(st model.DirectoryStatus) map[string]interface{} {
	h := map[string]interface{}{
		"companies": st.Companies,
		"stale":     st.Stale,
	}
	if !st.RefreshedAt.IsZero() {
		h["refreshed_at"] = st.RefreshedAt.UTC().Format(time.RFC3339)
	}
	return h
}
