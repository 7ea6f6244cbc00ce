package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"FinSight/internal/marketdata"
	"FinSight/internal/resolver"
)

// detailBody is the error envelope every failure shares.
type detailBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, detailBody{Detail: message})
}

// writeError translates the error taxonomy into status codes: unknown
// company 404, upstream failure (retry already spent) 502, anything else a
// generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *resolver.NotFoundError
	if errors.As(err, &notFound) {
		writeDetail(w, http.StatusNotFound, notFound.Error())
		return
	}
	if errors.Is(err, marketdata.ErrNoData) {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}
	var upstream *marketdata.UpstreamError
	if errors.As(err, &upstream) {
		s.logger.Error("upstream failure",
			zap.String("path", r.URL.Path), zap.Error(err))
		writeDetail(w, http.StatusBadGateway, "Market data provider is unavailable, please try again later")
		return
	}
	s.logger.Error("request failed",
		zap.String("path", r.URL.Path), zap.Error(err))
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}
