package trip

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alex-user-go/tripplan/internal/forecast"
	"github.com/alex-user-go/tripplan/internal/obs"
)

// Planner fetches forecasts for all candidate locations and runs the
// assignment search over the joined results.
type Planner struct {
	fetcher forecast.Fetcher
	timeout time.Duration
	catalog Catalog
	metrics *obs.Metrics
	logger  *slog.Logger
}

// NewPlanner creates a new Planner.
func NewPlanner(fetcher forecast.Fetcher, timeout time.Duration, catalog Catalog, metrics *obs.Metrics, logger *slog.Logger) *Planner {
	return &Planner{
		fetcher: fetcher,
		timeout: timeout,
		catalog: catalog,
		metrics: metrics,
		logger:  logger,
	}
}

// Plan fetches every location's forecast concurrently, then searches.
// Any fetch failure aborts the whole call before the search starts; when
// several locations fail, the earliest one in the configured order is
// reported. Forecasts are fetched fresh on every call.
func (p *Planner) Plan(ctx context.Context, locations []int, req Request) (Plan, error) {
	if req.Days() == 0 {
		return Plan{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// Results are slotted by index so the search sees candidates in the
	// caller's order regardless of fetch completion order.
	forecasts := make([]forecast.Forecast, len(locations))
	errs := make([]error, len(locations))

	var wg sync.WaitGroup
	for i, id := range locations {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			forecasts[i], errs[i] = p.fetcher.Fetch(ctx, id)
		}(i, id)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			p.metrics.IncFetchErrors()
			p.logger.Error("forecast fetch failed",
				"location_id", locations[i],
				"error", err)
			return nil, &Error{
				Kind:    KindForecastFetch,
				Message: p.catalog.Message(KindForecastFetch),
				Cause:   err,
			}
		}
	}

	plan, err := Search(forecasts, req)
	if err != nil {
		p.metrics.IncNoTrip()
		p.logger.Info("no trip satisfies the requirements",
			"locations", locations,
			"days", req.Days(),
			"max_run", req.MaxRun)
		return nil, &Error{
			Kind:    KindNoTripFound,
			Message: p.catalog.Message(KindNoTripFound),
		}
	}
	return plan, nil
}
