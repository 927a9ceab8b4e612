// Package geocode keeps a map coordinate loosely synchronized with the
// free-text address fields of a complaint draft, in both directions.
//
// Forward path (text → coordinates): debounced lookups against the
// Nominatim search endpoint. Reverse path (coordinates → text): a
// single reverse lookup that yields structured address components.
//
// Failures degrade silently to "no update": a complaint can always be
// filed without a working geocoder.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"civiclens/internal/api"
	cerrors "civiclens/internal/errors"
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Address holds the components extracted from a reverse lookup.
//
// Rural is true when the place resolved to a village, which flips the
// draft's area type for authority suggestion.
type Address struct {
	State string `json:"state"`
	City  string `json:"city"`
	Area  string `json:"area"`
	Rural bool   `json:"rural"`
}

// Client is a thin Nominatim client.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Nominatim client for the given base URL.
//
// The shared pooled HTTP client is used unless a timeout override is
// supplied.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := api.GetHTTPClient()
	if timeout > 0 {
		c = api.NewHTTPClient(timeout)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  c,
	}
}

// searchResult is one entry of a Nominatim /search response. Nominatim
// encodes coordinates as strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// reverseResult is a Nominatim /reverse response.
type reverseResult struct {
	Address struct {
		State         string `json:"state"`
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		Municipality  string `json:"municipality"`
		County        string `json:"county"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		Residential   string `json:"residential"`
		Road          string `json:"road"`
	} `json:"address"`
}

// Forward resolves free-text address fields to a coordinate.
//
// The query is the comma-joined non-empty fields suffixed with
// ", India", matching what a citizen would type into a map search box.
// Returns ok=false (and no error) when the geocoder has no result for
// the query; that is a normal outcome for half-typed addresses.
func (c *Client) Forward(ctx context.Context, area, city, state string) (Coordinates, bool, error) {
	var parts []string
	for _, p := range []string{area, city, state} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	if len(parts) == 0 {
		return Coordinates{}, false, nil
	}
	query := strings.Join(parts, ", ") + ", India"

	endpoint := fmt.Sprintf("%s/search?format=json&q=%s&limit=1", c.baseURL, url.QueryEscape(query))

	var results []searchResult
	if err := c.get(ctx, endpoint, &results); err != nil {
		return Coordinates{}, false, err
	}
	if len(results) == 0 {
		return Coordinates{}, false, nil
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return Coordinates{}, false, cerrors.NewServiceCallError("nominatim", "unparseable coordinates", nil)
	}

	return Coordinates{Lat: lat, Lon: lon}, true, nil
}

// Reverse resolves a coordinate to address components.
//
// Component selection mirrors map UIs: the city is whichever of
// city/town/village/municipality/county is present, the area whichever
// of suburb/neighbourhood/residential/road is present.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (Address, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=json&lat=%g&lon=%g&zoom=18&addressdetails=1",
		c.baseURL, lat, lon)

	var result reverseResult
	if err := c.get(ctx, endpoint, &result); err != nil {
		return Address{}, err
	}

	addr := result.Address
	return Address{
		State: addr.State,
		City:  firstNonEmpty(addr.City, addr.Town, addr.Village, addr.Municipality, addr.County),
		Area:  firstNonEmpty(addr.Suburb, addr.Neighbourhood, addr.Residential, addr.Road),
		Rural: addr.Village != "",
	}, nil
}

// get performs a GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return cerrors.NewServiceCallError("nominatim", "failed to create request", err)
	}
	// Nominatim's usage policy requires an identifying agent
	req.Header.Set("User-Agent", "civiclens/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return cerrors.NewServiceCallError("nominatim", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cerrors.NewServiceCallError("nominatim", "failed to read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return cerrors.NewServiceCallError("nominatim",
			fmt.Sprintf("API error %d: %s", resp.StatusCode, string(body)), nil)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return cerrors.NewServiceCallError("nominatim", "failed to parse response", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
