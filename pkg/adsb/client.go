// Package adsb correlates visual detections with a local ADS-B receiver
// feed (dump1090-style aircraft.json).
package adsb

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/teslashibe/go-skywatch/internal/httpc"
)

// Filtering constants for feed entries.
const (
	// maxPositionAge drops aircraft whose last position fix is stale.
	maxPositionAge = 60.0 // seconds

	// minAltitude drops ground traffic and taxiing aircraft.
	minAltitude = 500.0 // feet

	// earthRadiusNM for haversine distances.
	earthRadiusNM = 3440.065
)

// Client queries an ADS-B JSON feed and filters for aircraft plausibly in
// view of the camera.
type Client struct {
	url  string
	http *http.Client

	lat, lon float64
	located  bool
}

// NewClient creates a feed client for the given aircraft.json URL.
func NewClient(url string) *Client {
	return &Client{url: url, http: httpc.Client}
}

// SetLocation sets the camera position used for distance filtering.
// Without it, Nearby skips the distance check.
func (c *Client) SetLocation(lat, lon float64) {
	c.lat, c.lon = lat, lon
	c.located = true
}

// feed mirrors the dump1090 aircraft.json envelope.
type feed struct {
	Aircraft []Aircraft `json:"aircraft"`
}

// Nearby returns aircraft with a fresh position, airborne altitude, and
// (when the camera location is known) within maxDistanceNM nautical miles.
func (c *Client) Nearby(ctx context.Context, maxDistanceNM float64) ([]Aircraft, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("adsb: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adsb: fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adsb: feed returned HTTP %d", resp.StatusCode)
	}

	var f feed
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("adsb: decode feed: %w", err)
	}

	var nearby []Aircraft
	for _, a := range f.Aircraft {
		if !c.inView(a, maxDistanceNM) {
			continue
		}
		nearby = append(nearby, a)
	}
	return nearby, nil
}

func (c *Client) inView(a Aircraft, maxDistanceNM float64) bool {
	// An absent seen_pos means the aircraft has never reported a position.
	if a.PositionAge == nil || *a.PositionAge > maxPositionAge {
		return false
	}
	if a.Altitude == nil || *a.Altitude < minAltitude {
		return false
	}
	if c.located && a.Lat != nil && a.Lon != nil {
		if haversineNM(c.lat, c.lon, *a.Lat, *a.Lon) > maxDistanceNM {
			return false
		}
	}
	return true
}

// Correlate fetches the aircraft near a detection timestamp. A feed failure
// degrades to an empty correlation: absence of data is not an error for the
// caller.
func (c *Client) Correlate(ctx context.Context, timestamp time.Time) Correlation {
	aircraft, err := c.Nearby(ctx, 50)
	if err != nil {
		return Correlation{Timestamp: timestamp}
	}
	return Correlation{
		Timestamp: timestamp,
		Count:     len(aircraft),
		Aircraft:  aircraft,
	}
}

// haversineNM returns the great-circle distance in nautical miles.
func haversineNM(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return earthRadiusNM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
