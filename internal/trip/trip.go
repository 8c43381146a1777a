package trip

import "context"

// Trip is the fluent planning surface: a fixed ordered set of candidate
// locations plus chained weather requirements, executed by Plan.
type Trip struct {
	planner   *Planner
	locations []int
	builder   *RequestBuilder
}

// New starts planning a trip across the given candidate locations. The
// order of locations fixes the search's candidate order.
func New(planner *Planner, locations ...int) *Trip {
	ids := make([]int, len(locations))
	copy(ids, locations)
	return &Trip{
		planner:   planner,
		locations: ids,
		builder:   NewRequestBuilder(),
	}
}

// Sunny requires days sunny days next.
func (t *Trip) Sunny(days int) *Trip {
	t.builder.Sunny(days)
	return t
}

// Cloudy requires days cloudy days next.
func (t *Trip) Cloudy(days int) *Trip {
	t.builder.Cloudy(days)
	return t
}

// Max caps how many consecutive days any single location may host.
func (t *Trip) Max(days int) *Trip {
	t.builder.MaxRun(days)
	return t
}

// Plan executes the accumulated requirements and returns the day-indexed
// assignment, or a planning failure.
func (t *Trip) Plan(ctx context.Context) (Plan, error) {
	return t.planner.Plan(ctx, t.locations, t.builder.Build())
}
