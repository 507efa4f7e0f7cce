// Package config provides environment configuration helpers for skywatch commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the detection station.
const (
	DefaultDBPath       = "skywatch.db"
	DefaultWebPort      = "8080"
	DefaultADSBURL      = "http://localhost:8754/data/aircraft.json"
	DefaultDetectionDir = "detections"
)

// DBPath returns the sqlite database path from SKYWATCH_DB or the default.
func DBPath() string {
	if p := os.Getenv("SKYWATCH_DB"); p != "" {
		return p
	}
	return DefaultDBPath
}

// WebPort returns the dashboard port from SKYWATCH_PORT or the default.
func WebPort() string {
	if p := os.Getenv("SKYWATCH_PORT"); p != "" {
		return p
	}
	return DefaultWebPort
}

// ADSBURL returns the ADS-B feed URL from ADSB_URL or the default
// dump1090 endpoint.
func ADSBURL() string {
	if u := os.Getenv("ADSB_URL"); u != "" {
		return u
	}
	return DefaultADSBURL
}

// DetectionDir returns the directory for saved detection crops.
func DetectionDir() string {
	if d := os.Getenv("SKYWATCH_DETECTION_DIR"); d != "" {
		return d
	}
	return DefaultDetectionDir
}

// LogLevel returns the log level from SKYWATCH_LOG or "info".
func LogLevel() string {
	if l := os.Getenv("SKYWATCH_LOG"); l != "" {
		return l
	}
	return "info"
}

// CameraLocation returns the camera latitude/longitude from CAMERA_LAT and
// CAMERA_LON. ok is false unless both parse.
func CameraLocation() (lat, lon float64, ok bool) {
	latStr, lonStr := os.Getenv("CAMERA_LAT"), os.Getenv("CAMERA_LON")
	if latStr == "" || lonStr == "" {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
