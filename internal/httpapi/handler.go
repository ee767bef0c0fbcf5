package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cory-johannsen/umaroster/internal/enrich"
	"github.com/cory-johannsen/umaroster/internal/reftable"
)

type handler struct {
	enricher *enrich.Enricher
	store    *reftable.Store
	logger   *zap.Logger
	maxBody  int64
	check    func(context.Context) error
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse reports readiness and the loaded table sizes.
type HealthResponse struct {
	Status string                     `json:"status"`
	Error  string                     `json:"error,omitempty"`
	Tables map[reftable.Namespace]int `json:"tables"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if h.check != nil {
		if err := h.check(r.Context()); err != nil {
			h.logger.Warn("health check failed",
				zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
				zap.Error(err),
			)
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "unavailable",
				Error:  err.Error(),
				Tables: h.store.Counts(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Tables: h.store.Counts()})
}

// enrich reads a JSON array of records and replies with the enriched array.
// Batch statistics are returned in X-Enrich-* headers.
func (h *handler) enrich(w http.ResponseWriter, r *http.Request) {
	reqID := chiMiddleware.GetReqID(r.Context())
	body := http.MaxBytesReader(w, r.Body, h.maxBody)

	records, err := enrich.ReadRecords(body)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.logger.Info("rejected enrichment request",
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		writeJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: reqID})
		return
	}

	out, stats, err := h.enricher.EnrichAll(r.Context(), records)
	if err != nil {
		h.logger.Warn("enrichment aborted",
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), RequestID: reqID})
		return
	}

	var buf bytes.Buffer
	if err := enrich.WriteRecords(&buf, out); err != nil {
		h.logger.Error("encoding enrichment response",
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "encoding response", RequestID: reqID})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Enrich-Records", strconv.Itoa(stats.Records))
	w.Header().Set("X-Enrich-With-Names", strconv.Itoa(stats.WithNames))
	w.Header().Set("X-Enrich-With-Skill-Names", strconv.Itoa(stats.WithSkillNames))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
