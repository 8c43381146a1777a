package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alex-user-go/tripplan/internal/middleware"
	"github.com/alex-user-go/tripplan/internal/obs"
	"github.com/alex-user-go/tripplan/internal/storage"
	"github.com/alex-user-go/tripplan/internal/trip"
	"github.com/alex-user-go/tripplan/internal/trip/cache"
	"github.com/alex-user-go/tripplan/internal/trip/ratelimit"
)

// Handler handles HTTP requests.
type Handler struct {
	planner     *trip.Planner
	cache       *cache.Cache
	rateLimiter *ratelimit.Limiter
	store       storage.Store
	metrics     *obs.Metrics
	logger      *slog.Logger
}

// New creates a new Handler.
func New(
	planner *trip.Planner,
	planCache *cache.Cache,
	rateLimiter *ratelimit.Limiter,
	store storage.Store,
	metrics *obs.Metrics,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		planner:     planner,
		cache:       planCache,
		rateLimiter: rateLimiter,
		store:       store,
		metrics:     metrics,
		logger:      logger,
	}
}

// PlanResponse represents the complete API response.
type PlanResponse struct {
	Plan  PlanInfo  `json:"plan"`
	Stats PlanStats `json:"stats"`
	Days  trip.Plan `json:"days"`
}

// PlanInfo contains the request parameters.
type PlanInfo struct {
	Locations []int  `json:"locations"`
	Spec      string `json:"spec"`
	MaxRun    int    `json:"max_run,omitempty"`
}

// PlanStats contains planning statistics.
type PlanStats struct {
	Cache      string `json:"cache"`
	DurationMs int64  `json:"duration_ms"`
}

// PlanHandler handles /plan requests.
func (h *Handler) PlanHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	h.metrics.IncRequests()
	requestID := middleware.RequestID(r.Context())

	// Check rate limit
	ip := ExtractIP(r)
	if !h.rateLimiter.Allow(ip) {
		h.logger.Warn("rate limit exceeded", "request_id", requestID, "ip", ip)
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	// Parse and validate query parameters
	params, err := ParsePlanParams(r)
	if err != nil {
		h.logger.Debug("invalid request parameters", "request_id", requestID, "error", err, "ip", ip)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Get or compute, collapsing identical concurrent requests
	key := h.cache.Key(params.Locations, params.Spec, params.MaxRun)
	days, cacheHit, err := h.cache.GetOrPlan(r.Context(), key, func() (trip.Plan, error) {
		return params.NewTrip(h.planner).Plan(r.Context())
	})

	if err != nil {
		status := http.StatusInternalServerError
		switch trip.KindOf(err) {
		case trip.KindNoTripFound:
			status = http.StatusNotFound
		case trip.KindForecastFetch:
			status = http.StatusBadGateway
		}
		h.logger.Error("planning failed",
			"request_id", requestID,
			"error", err,
			"locations", params.Locations,
			"spec", params.Spec,
			"ip", ip,
		)
		writeError(w, status, err.Error())
		return
	}

	// Record freshly computed plans; history failures are logged, never
	// surfaced.
	if !cacheHit && h.store != nil {
		rec := storage.NewPlanRecord(params.Locations, params.Spec, params.MaxRun, days)
		if err := h.store.SavePlan(rec); err != nil {
			h.logger.Error("failed to record plan", "request_id", requestID, "error", err)
		}
	}

	duration := time.Since(startTime).Milliseconds()

	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.IncCacheHits()
	}

	response := PlanResponse{
		Plan: PlanInfo{
			Locations: params.Locations,
			Spec:      params.Spec,
			MaxRun:    params.MaxRun,
		},
		Stats: PlanStats{
			Cache:      cacheStatus,
			DurationMs: duration,
		},
		Days: days,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Can't change status after WriteHeader, just log
		h.logger.Error("failed to encode response", "error", err)
	}
}

// HistoryHandler handles /plans requests.
func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.IncRequests()
	requestID := middleware.RequestID(r.Context())

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.store.RecentPlans(limit)
	if err != nil {
		h.logger.Error("failed to read plan history", "request_id", requestID, "error", err)
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{"plans": records}); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// Segment is one ordered requirement: a kind and how many days of it.
type Segment struct {
	Kind string
	Days int
}

// PlanParams holds validated plan parameters.
type PlanParams struct {
	Locations []int
	Segments  []Segment
	MaxRun    int
	Spec      string // normalized "kind:count,..." form of Segments
}

// NewTrip builds the fluent trip for these parameters.
func (p *PlanParams) NewTrip(planner *trip.Planner) *trip.Trip {
	t := trip.New(planner, p.Locations...)
	for _, seg := range p.Segments {
		switch seg.Kind {
		case "sunny":
			t.Sunny(seg.Days)
		case "cloudy":
			t.Cloudy(seg.Days)
		}
	}
	if p.MaxRun > 0 {
		t.Max(p.MaxRun)
	}
	return t
}

// ParsePlanParams parses and validates plan parameters from the request.
func ParsePlanParams(r *http.Request) (*PlanParams, error) {
	query := r.URL.Query()

	// Locations - required, ordered comma-separated integers
	locationsStr := strings.TrimSpace(query.Get("locations"))
	if locationsStr == "" {
		return nil, fmt.Errorf("locations is required")
	}
	var locations []int
	for _, part := range strings.Split(locationsStr, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("locations must be comma-separated integers")
		}
		locations = append(locations, id)
	}

	// Plan - required, ordered kind:count segments
	planStr := strings.TrimSpace(query.Get("plan"))
	if planStr == "" {
		return nil, fmt.Errorf("plan is required")
	}
	var segments []Segment
	var specParts []string
	for _, part := range strings.Split(planStr, ",") {
		kind, countStr, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("plan segments must be kind:count")
		}
		if kind != "sunny" && kind != "cloudy" {
			return nil, fmt.Errorf("unknown plan segment kind %q", kind)
		}
		count, err := strconv.Atoi(countStr)
		if err != nil || count <= 0 {
			return nil, fmt.Errorf("plan segment count must be a positive integer")
		}
		segments = append(segments, Segment{Kind: kind, Days: count})
		specParts = append(specParts, fmt.Sprintf("%s:%d", kind, count))
	}

	// Max - optional, positive integer
	maxRun := 0
	if maxStr := query.Get("max"); maxStr != "" {
		n, err := strconv.Atoi(maxStr)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("max must be a positive integer")
		}
		maxRun = n
	}

	return &PlanParams{
		Locations: locations,
		Segments:  segments,
		MaxRun:    maxRun,
		Spec:      strings.Join(specParts, ","),
	}, nil
}

// ExtractIP extracts the client IP from the request.
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr.
func ExtractIP(r *http.Request) string {
	// Check X-Forwarded-For (first IP in the list)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr (strip port)
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
