package config

import "testing"

func TestDefaults(t *testing.T) {
	for _, v := range []string{"SKYWATCH_DB", "SKYWATCH_PORT", "ADSB_URL", "SKYWATCH_DETECTION_DIR", "SKYWATCH_LOG"} {
		t.Setenv(v, "")
	}

	if got := DBPath(); got != DefaultDBPath {
		t.Errorf("DBPath: got %q, want %q", got, DefaultDBPath)
	}
	if got := WebPort(); got != DefaultWebPort {
		t.Errorf("WebPort: got %q, want %q", got, DefaultWebPort)
	}
	if got := ADSBURL(); got != DefaultADSBURL {
		t.Errorf("ADSBURL: got %q, want %q", got, DefaultADSBURL)
	}
	if got := LogLevel(); got != "info" {
		t.Errorf("LogLevel: got %q, want info", got)
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("SKYWATCH_DB", "/tmp/alt.db")
	t.Setenv("SKYWATCH_PORT", "9090")
	t.Setenv("ADSB_URL", "http://receiver:8080/data/aircraft.json")

	if got := DBPath(); got != "/tmp/alt.db" {
		t.Errorf("DBPath: got %q", got)
	}
	if got := WebPort(); got != "9090" {
		t.Errorf("WebPort: got %q", got)
	}
	if got := ADSBURL(); got != "http://receiver:8080/data/aircraft.json" {
		t.Errorf("ADSBURL: got %q", got)
	}
}

func TestCameraLocation(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon string
		wantOK   bool
	}{
		{"both set", "37.62", "-122.38", true},
		{"missing lon", "37.62", "", false},
		{"missing lat", "", "-122.38", false},
		{"unparsable", "north-ish", "-122.38", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CAMERA_LAT", tc.lat)
			t.Setenv("CAMERA_LON", tc.lon)

			lat, lon, ok := CameraLocation()
			if ok != tc.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tc.wantOK)
			}
			if ok && (lat != 37.62 || lon != -122.38) {
				t.Errorf("got (%v, %v), want (37.62, -122.38)", lat, lon)
			}
		})
	}
}
