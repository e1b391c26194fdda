package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/webpulse/webpulse/server/internal/dataset"
	"github.com/webpulse/webpulse/server/internal/telemetry"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads the active dataset and returns JSON payloads.
type Handler struct {
	data    *dataset.Store
	metrics *telemetry.Metrics
	mux     *http.ServeMux
	started time.Time
}

// New creates a Handler wired to the given dataset store and registers all
// routes. metrics may be nil in tests.
func New(data *dataset.Store, metrics *telemetry.Metrics) http.Handler {
	h := &Handler{
		data:    data,
		metrics: metrics,
		mux:     http.NewServeMux(),
		started: time.Now().UTC(),
	}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/traffic", h.traffic)
	h.mux.HandleFunc("/api/v1/pages", h.pages)
	h.mux.HandleFunc("/api/v1/sources", h.sources)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — liveness plus uptime.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.count("health")

	h.jsonResp(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		UptimeSeconds: int(time.Since(h.started).Seconds()),
	})
}

// traffic returns GET /api/v1/traffic — the site-wide metrics payload.
func (h *Handler) traffic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.count("traffic")
	h.jsonResp(w, http.StatusOK, h.data.Traffic())
}

// pages returns GET /api/v1/pages — the per-page breakdown.
func (h *Handler) pages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.count("pages")
	h.jsonResp(w, http.StatusOK, h.data.Pages())
}

// sources returns GET /api/v1/sources — the acquisition breakdown.
func (h *Handler) sources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.count("sources")
	h.jsonResp(w, http.StatusOK, h.data.Sources())
}

// --- helpers ----------------------------------------------------------------

func (h *Handler) count(endpoint string) {
	if h.metrics != nil {
		h.metrics.Requests.WithLabelValues(endpoint).Inc()
	}
}

func (h *Handler) jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func (h *Handler) jsonErr(w http.ResponseWriter, code int, msg string) {
	if h.metrics != nil {
		h.metrics.Errors.Inc()
	}
	h.jsonResp(w, code, errorResponse{Error: msg})
}
