package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

const readinessTimeout = 2 * time.Second

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus             `json:"status"`
	Service    string                   `json:"service"`
	Uptime     string                   `json:"uptime"`
	CheckedAt  time.Time                `json:"checkedAt"`
	Components map[string]ComponentInfo `json:"components,omitempty"`
}

type ComponentInfo struct {
	Status     HealthStatus   `json:"status"`
	Error      string         `json:"error,omitempty"`
	Pool       map[string]int `json:"pool,omitempty"`
	DurationMs int64          `json:"durationMs"`
}

var errNoDatabase = errors.New("database not configured")

type HealthHandler struct {
	db      *sql.DB
	started time.Time
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("pong"))
}

// livenessHandler answers without touching the store.
func (h *HealthHandler) livenessHandler(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, h.response(HealthHealthy, nil))
}

// readinessHandler reports the store connection; the API cannot serve without it.
func (h *HealthHandler) readinessHandler(w http.ResponseWriter, r *http.Request) {
	store := h.checkStore(r.Context())

	status := http.StatusOK
	if store.Status != HealthHealthy {
		status = http.StatusServiceUnavailable
	}
	writeHealth(w, status, h.response(store.Status, map[string]ComponentInfo{"database": store}))
}

func (h *HealthHandler) checkStore(ctx context.Context) ComponentInfo {
	if h.db == nil {
		return ComponentInfo{Status: HealthUnhealthy, Error: errNoDatabase.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	info := ComponentInfo{Status: HealthHealthy, DurationMs: time.Since(start).Milliseconds()}
	if err != nil {
		info.Status = HealthUnhealthy
		info.Error = err.Error()
		return info
	}

	stats := h.db.Stats()
	info.Pool = map[string]int{
		"open":  stats.OpenConnections,
		"inUse": stats.InUse,
		"idle":  stats.Idle,
	}
	return info
}

func (h *HealthHandler) response(status HealthStatus, components map[string]ComponentInfo) HealthResponse {
	return HealthResponse{
		Status:     status,
		Service:    "civic-issue-tracker",
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		CheckedAt:  time.Now().UTC(),
		Components: components,
	}
}

func writeHealth(w http.ResponseWriter, status int, resp HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
