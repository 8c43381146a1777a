package main

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// conditions is the pool of condition codes the mock can emit. It
// includes codes the planner has no helper for, like a real provider
// would.
var conditions = []string{
	"clear",
	"partly-cloudy",
	"cloudy",
	"overcast",
	"rain",
	"thunderstorm",
	"fog",
}

const maxForecastDays = 7

// MockProvider serves deterministic per-location forecasts: the same
// location always gets the same 7-day forecast for the lifetime of the
// process, with optional simulated latency and failures.
type MockProvider struct {
	failureRate float64
	rng         *rand.Rand
	logger      *slog.Logger
}

// NewMockProvider creates a new MockProvider.
func NewMockProvider(failureRate float64, logger *slog.Logger) *MockProvider {
	return &MockProvider{
		failureRate: failureRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      logger,
	}
}

type forecastDay struct {
	Date      string `json:"date"`
	Condition string `json:"condition"`
}

type forecastResponse struct {
	Location int           `json:"location"`
	Days     []forecastDay `json:"days"`
}

func (p *MockProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	locationStr := r.URL.Query().Get("location")
	location, err := strconv.Atoi(locationStr)
	if err != nil {
		http.Error(w, "location must be an integer", http.StatusBadRequest)
		return
	}

	days := maxForecastDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		if n < days {
			days = n
		}
	}

	// Simulate random latency (50ms to 200ms)
	time.Sleep(time.Duration(50+p.rng.Intn(150)) * time.Millisecond)

	// Simulate provider failures
	if p.failureRate > 0 && p.rng.Float64() < p.failureRate {
		p.logger.Warn("simulated failure", "location", location)
		http.Error(w, "provider unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := forecastResponse{
		Location: location,
		Days:     generateDays(location, days),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		p.logger.Error("failed to encode forecast", "error", err)
	}
}

// generateDays derives the forecast from the location ID alone, keeping
// repeated requests consistent.
func generateDays(location, days int) []forecastDay {
	rng := rand.New(rand.NewSource(int64(location)))
	start := time.Now().Truncate(24 * time.Hour)

	out := make([]forecastDay, days)
	for i := range out {
		out[i] = forecastDay{
			Date:      start.AddDate(0, 0, i).Format("2006-01-02"),
			Condition: conditions[rng.Intn(len(conditions))],
		}
	}
	return out
}
