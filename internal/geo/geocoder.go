package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder resolves a postal address to coordinates. Property creation
// treats a resolution failure as fatal for the request.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (LatLng, error)
}

var ErrNoResult = errors.New("geocoder: no result for address")

// HTTPGeocoder talks to a Google-style geocoding endpoint:
// GET {baseURL}?address=...&key=... returning {"results":[{"geometry":{"location":{"lat","lng"}}}]}.
type HTTPGeocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGeocoder(baseURL, apiKey string) *HTTPGeocoder {
	return &HTTPGeocoder{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

func (g *HTTPGeocoder) Resolve(ctx context.Context, address string) (LatLng, error) {
	q := url.Values{}
	q.Set("address", address)
	if g.apiKey != "" {
		q.Set("key", g.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return LatLng{}, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return LatLng{}, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return LatLng{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return LatLng{}, fmt.Errorf("geocoder response decode failed: %w", err)
	}

	if len(body.Results) == 0 {
		return LatLng{}, ErrNoResult
	}

	return body.Results[0].Geometry.Location, nil
}
