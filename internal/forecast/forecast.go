package forecast

import "context"

// Condition is a discrete daytime weather condition code as reported by
// the provider. The provider may return codes beyond the ones listed
// here; unknown codes are valid data, they just never match the
// predefined trip requirements.
type Condition string

const (
	Clear        Condition = "clear"
	PartlyCloudy Condition = "partly-cloudy"
	Cloudy       Condition = "cloudy"
	Overcast     Condition = "overcast"
)

// Forecast holds the normalized daily forecast for one location: one
// condition code per forecast day, in day order. Immutable once fetched.
type Forecast struct {
	LocationID int
	Conditions []Condition
}

// Fetcher defines the interface for forecast providers.
type Fetcher interface {
	// Fetch retrieves and normalizes the daily forecast for a location.
	// One attempt, no retry, no caching.
	Fetch(ctx context.Context, locationID int) (Forecast, error)
}
