package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"masterbook/models"
)

const defaultDistanceMatrixURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// distanceMatrixResponse is the subset of the Distance Matrix reply we read.
type distanceMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
			DurationInTraffic *struct {
				Value int `json:"value"`
			} `json:"duration_in_traffic"`
		} `json:"elements"`
	} `json:"rows"`
}

// GoogleOracle asks the Google Distance Matrix API for driving times.
type GoogleOracle struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewGoogleOracle(apiKey string) *GoogleOracle {
	return &GoogleOracle{
		APIKey:  apiKey,
		BaseURL: defaultDistanceMatrixURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *GoogleOracle) EstimateTravelSeconds(ctx context.Context, from, to models.GeoPoint, departure time.Time) (int, error) {
	if g.APIKey == "" {
		return 0, fmt.Errorf("distance matrix: API key is not configured")
	}

	q := url.Values{}
	q.Set("origins", latLng(from))
	q.Set("destinations", latLng(to))
	q.Set("mode", "driving")
	q.Set("key", g.APIKey)
	// The API rejects departure times in the past.
	if departure.After(time.Now()) {
		q.Set("departure_time", strconv.FormatInt(departure.Unix(), 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("distance matrix: build request: %w", err)
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("distance matrix: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("distance matrix: unexpected HTTP status %d", resp.StatusCode)
	}

	var body distanceMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("distance matrix: decode response: %w", err)
	}
	if body.Status != "OK" {
		return 0, fmt.Errorf("distance matrix: status %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("distance matrix: empty result")
	}

	el := body.Rows[0].Elements[0]
	switch el.Status {
	case "OK":
	case "ZERO_RESULTS", "NOT_FOUND":
		return 0, ErrNoRoute
	default:
		return 0, fmt.Errorf("distance matrix: element status %s", el.Status)
	}
	if el.DurationInTraffic != nil {
		return el.DurationInTraffic.Value, nil
	}
	return el.Duration.Value, nil
}

func latLng(p models.GeoPoint) string {
	return strconv.FormatFloat(p.Lat(), 'f', 6, 64) + "," + strconv.FormatFloat(p.Lon(), 'f', 6, 64)
}
