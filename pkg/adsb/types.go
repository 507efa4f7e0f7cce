package adsb

import "time"

// Aircraft is one entry from the receiver feed. Pointer fields are absent
// when the receiver has no recent data for them.
type Aircraft struct {
	ICAO         string   `json:"hex"`
	Callsign     string   `json:"flight"`
	Altitude     *float64 `json:"alt_baro"`
	GroundSpeed  *float64 `json:"gs"`
	Track        *float64 `json:"track"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	VerticalRate *float64 `json:"baro_rate"`
	Squawk       string   `json:"squawk"`
	Age          float64  `json:"seen"`
	PositionAge  *float64 `json:"seen_pos"`
}

// Correlation is the result of matching a detection timestamp against the
// feed: zero or more nearby known aircraft plus the raw payload count.
type Correlation struct {
	Timestamp time.Time  `json:"timestamp"`
	Count     int        `json:"adsb_aircraft_count"`
	Aircraft  []Aircraft `json:"aircraft,omitempty"`
}
