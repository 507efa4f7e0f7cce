package adsb

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNearbyFiltersFeed(t *testing.T) {
	// Camera near KSFO; one airborne aircraft overhead, one on the ground,
	// one with a stale position, one hundreds of miles away.
	body := `{"aircraft": [
		{"hex": "a1b2c3", "flight": "UAL123", "alt_baro": 12000, "gs": 280,
		 "lat": 37.7, "lon": -122.4, "seen_pos": 1.2},
		{"hex": "d4e5f6", "flight": "GROUND1", "alt_baro": 13,
		 "lat": 37.6, "lon": -122.4, "seen_pos": 0.5},
		{"hex": "aabbcc", "flight": "STALE2", "alt_baro": 30000,
		 "lat": 37.8, "lon": -122.5, "seen_pos": 300},
		{"hex": "ddeeff", "flight": "FAR3", "alt_baro": 35000,
		 "lat": 34.0, "lon": -118.2, "seen_pos": 2.0}
	]}`
	srv := feedServer(t, http.StatusOK, body)

	c := NewClient(srv.URL)
	c.SetLocation(37.62, -122.38)

	got, err := c.Nearby(context.Background(), 50)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d aircraft, want 1: %+v", len(got), got)
	}
	if got[0].ICAO != "a1b2c3" {
		t.Errorf("kept %q, want a1b2c3", got[0].ICAO)
	}
}

func TestNearbyWithoutLocationSkipsDistanceFilter(t *testing.T) {
	body := `{"aircraft": [
		{"hex": "ddeeff", "alt_baro": 35000, "lat": 34.0, "lon": -118.2, "seen_pos": 2.0}
	]}`
	srv := feedServer(t, http.StatusOK, body)

	c := NewClient(srv.URL)

	got, err := c.Nearby(context.Background(), 50)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d aircraft, want 1 (no camera location set)", len(got))
	}
}

func TestNearbyMissingAltitudeRejected(t *testing.T) {
	body := `{"aircraft": [{"hex": "a1b2c3", "lat": 37.7, "lon": -122.4, "seen_pos": 1.0}]}`
	srv := feedServer(t, http.StatusOK, body)

	got, err := NewClient(srv.URL).Nearby(context.Background(), 50)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("aircraft without altitude should be filtered, got %+v", got)
	}
}

func TestNearbyMissingPositionAgeRejected(t *testing.T) {
	// dump1090 omits seen_pos entirely for aircraft that have never
	// reported a position; they must not pass the freshness filter.
	body := `{"aircraft": [
		{"hex": "a1b2c3", "alt_baro": 12000, "gs": 280},
		{"hex": "d4e5f6", "alt_baro": 8000, "seen_pos": 1.5}
	]}`
	srv := feedServer(t, http.StatusOK, body)

	got, err := NewClient(srv.URL).Nearby(context.Background(), 50)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d aircraft, want 1: %+v", len(got), got)
	}
	if got[0].ICAO != "d4e5f6" {
		t.Errorf("kept %q, want the aircraft with a position fix", got[0].ICAO)
	}
}

func TestNearbyHTTPError(t *testing.T) {
	srv := feedServer(t, http.StatusInternalServerError, "boom")

	if _, err := NewClient(srv.URL).Nearby(context.Background(), 50); err == nil {
		t.Error("expected error for HTTP 500 feed")
	}
}

func TestCorrelateDegradesOnFeedFailure(t *testing.T) {
	srv := feedServer(t, http.StatusInternalServerError, "boom")

	ts := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	got := NewClient(srv.URL).Correlate(context.Background(), ts)

	if !got.Timestamp.Equal(ts) {
		t.Errorf("timestamp: got %v, want %v", got.Timestamp, ts)
	}
	if got.Count != 0 || got.Aircraft != nil {
		t.Errorf("feed failure should yield empty correlation, got %+v", got)
	}
}

func TestCorrelateCountsAircraft(t *testing.T) {
	body := `{"aircraft": [
		{"hex": "a1b2c3", "alt_baro": 12000, "seen_pos": 1.0},
		{"hex": "d4e5f6", "alt_baro": 8000, "seen_pos": 2.0}
	]}`
	srv := feedServer(t, http.StatusOK, body)

	got := NewClient(srv.URL).Correlate(context.Background(), time.Now())
	if got.Count != 2 {
		t.Errorf("count: got %d, want 2", got.Count)
	}
}

func TestHaversineNM(t *testing.T) {
	// KSFO to KLAX is roughly 293 NM.
	d := haversineNM(37.6213, -122.3790, 33.9416, -118.4085)
	if math.Abs(d-293) > 5 {
		t.Errorf("KSFO-KLAX distance: got %.1f NM, want ~293", d)
	}

	if d := haversineNM(37.62, -122.38, 37.62, -122.38); d != 0 {
		t.Errorf("zero distance: got %v", d)
	}
}
