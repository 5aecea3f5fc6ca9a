package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lambdafront/lambdafront/internal/domain"
	"github.com/lambdafront/lambdafront/internal/invoker"
	"github.com/lambdafront/lambdafront/internal/storage"
)

// maxBodyBytes caps request bodies at the invocation payload limit.
const maxBodyBytes = 6 << 20

const defaultListLimit = 50

// handleInvoke is the catch-all: synthesize a trigger event from the
// request, invoke the function, replay the wire response.
func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		AddError(r.Context(), err)
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	payload, err := s.synth.Event(r, body)
	if err != nil {
		AddError(r.Context(), err)
		http.Error(w, "cannot synthesize trigger event", http.StatusBadRequest)
		return
	}

	ctx := invoker.WithMeta(r.Context(), invoker.Meta{
		Trigger:    s.synth.Trigger(),
		RemoteAddr: clientIP(r),
	})
	out, err := s.inv.Invoke(ctx, payload)
	if err != nil {
		AddError(r.Context(), err)
		http.Error(w, "function invocation failed", http.StatusBadGateway)
		return
	}

	if err := writeWireResponse(w, out); err != nil {
		AddError(r.Context(), err)
		http.Error(w, "function returned an unusable response", http.StatusBadGateway)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"format": string(s.synth.Trigger()),
	})
}

// recordSummary is the list view of a recorded invocation; payloads are
// only returned by the single-record endpoint.
type recordSummary struct {
	ID         string         `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	Trigger    domain.Trigger `json:"trigger"`
	RemoteAddr string         `json:"remote_addr,omitempty"`
	Error      string         `json:"error,omitempty"`
	DurationMS int64          `json:"duration_ms"`
}

type recordDetail struct {
	recordSummary
	Payload  json.RawMessage `json:"payload,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

func summarize(rec *storage.InvocationRecord) recordSummary {
	return recordSummary{
		ID:         rec.ID,
		CreatedAt:  rec.CreatedAt,
		Trigger:    rec.Trigger,
		RemoteAddr: rec.RemoteAddr,
		Error:      rec.Error,
		DurationMS: rec.DurationMS,
	}
}

func (s *Server) handleListInvocations(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "invocation recording is disabled", http.StatusServiceUnavailable)
		return
	}

	opts := storage.ListOptions{Limit: defaultListLimit}
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid offset parameter", http.StatusBadRequest)
			return
		}
		opts.Offset = n
	}
	opts.Trigger = domain.Trigger(q.Get("trigger"))

	recs, err := s.store.List(r.Context(), opts)
	if err != nil {
		AddError(r.Context(), err)
		http.Error(w, "failed to list invocations", http.StatusInternalServerError)
		return
	}

	summaries := make([]recordSummary, 0, len(recs))
	for _, rec := range recs {
		summaries = append(summaries, summarize(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"invocations": summaries,
		"count":       len(summaries),
	})
}

func (s *Server) handleGetInvocation(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "invocation recording is disabled", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "invocation not found", http.StatusNotFound)
			return
		}
		AddError(r.Context(), err)
		http.Error(w, "failed to load invocation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, recordDetail{
		recordSummary: summarize(rec),
		Payload:       json.RawMessage(rec.Payload),
		Response:      json.RawMessage(rec.Response),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
