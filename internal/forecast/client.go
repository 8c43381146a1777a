package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// forecastDays is the fixed window the provider is asked for.
const forecastDays = 7

// Client fetches forecasts from an HTTP weather provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// providerDay mirrors one day entry of the provider response.
type providerDay struct {
	Date      string `json:"date"`
	Condition string `json:"condition"`
}

// providerResponse mirrors the provider's forecast response body.
type providerResponse struct {
	Location int           `json:"location"`
	Days     []providerDay `json:"days"`
}

// Fetch requests a 7-day daily forecast for the location and normalizes
// it into an ordered condition sequence.
func (c *Client) Fetch(ctx context.Context, locationID int) (Forecast, error) {
	u, err := url.Parse(c.baseURL + "/v1/forecast")
	if err != nil {
		return Forecast{}, fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("location", strconv.Itoa(locationID))
	q.Set("days", strconv.Itoa(forecastDays))
	q.Set("hourly", "none")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Forecast{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Forecast{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Forecast{}, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var pr providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return Forecast{}, fmt.Errorf("failed to parse response: %w", err)
	}

	if pr.Location != locationID {
		return Forecast{}, fmt.Errorf("provider echoed location %d, requested %d", pr.Location, locationID)
	}
	if len(pr.Days) == 0 {
		return Forecast{}, fmt.Errorf("provider returned no forecast days for location %d", locationID)
	}

	conditions := make([]Condition, len(pr.Days))
	for i, d := range pr.Days {
		conditions[i] = Condition(d.Condition)
	}

	return Forecast{LocationID: locationID, Conditions: conditions}, nil
}
