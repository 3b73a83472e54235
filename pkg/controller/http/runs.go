package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ferryman/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

const defaultListLimit = 50

// RunsHandler serves stored run reports
type RunsHandler struct {
	store interfaces.RunStore
}

// NewRunsHandler creates a new RunsHandler
func NewRunsHandler(store interfaces.RunStore) *RunsHandler {
	return &RunsHandler{store: store}
}

// List returns the most recent runs, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, goerr.New("invalid limit parameter"), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	reports, err := h.store.List(ctx, limit)
	if err != nil {
		ctxlog.From(ctx).Error("Failed to list run reports", "error", err)
		writeError(w, goerr.Wrap(err, "failed to list runs"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"runs": reports,
	}); err != nil {
		ctxlog.From(ctx).Error("Failed to encode run list", "error", err)
	}
}

// Get returns one run report by ID.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := chi.URLParam(r, "runID")

	report, err := h.store.Get(ctx, runID)
	if err != nil {
		writeError(w, goerr.Wrap(err, "run not found"), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		ctxlog.From(ctx).Error("Failed to encode run report", "error", err)
	}
}
