package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"FinSight/internal/assistant"
)

const minQueryLength = 3

type aiQueryBody struct {
	Query   string `json:"query"`
	Message string `json:"message"`
}

// extractQuery accepts the query as a URL parameter or a JSON body carrying
// either a "query" or a "message" key, matching the public contract.
func extractQuery(r *http.Request) string {
	if q := strings.TrimSpace(r.URL.Query().Get("query")); q != "" {
		return q
	}
	var body aiQueryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return ""
	}
	if q := strings.TrimSpace(body.Query); q != "" {
		return q
	}
	return strings.TrimSpace(body.Message)
}

func (s *Server) handleAIQuery(w http.ResponseWriter, r *http.Request) {
	query := extractQuery(r)
	if len(query) < minQueryLength {
		writeDetail(w, http.StatusUnprocessableEntity, "Query must be at least 3 characters long")
		return
	}

	result := s.processor.Process(r.Context(), query)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAIExamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, assistant.Examples())
}
