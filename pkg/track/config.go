package track

// Config holds the tunable parameters for centroid tracking.
type Config struct {
	// MaxDisappeared is how many consecutive unmatched frames an object
	// survives before deregistration.
	MaxDisappeared int

	// MaxDistance is the association radius in pixels. A centroid farther
	// than this from every existing object starts a new track.
	MaxDistance float64

	// TrajectoryCap bounds the stored centroid history per object; the
	// oldest points are dropped once the cap is reached. 0 keeps the full
	// history, which grows without bound for long-lived tracks.
	TrajectoryCap int
}

// DefaultConfig returns the reference tracking parameters.
func DefaultConfig() Config {
	return Config{
		MaxDisappeared: 50,
		MaxDistance:    50,
		TrajectoryCap:  256,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.MaxDisappeared < 0 {
		errors = append(errors, "max_disappeared must not be negative")
	}
	if c.MaxDistance <= 0 {
		errors = append(errors, "max_distance must be positive")
	}
	if c.TrajectoryCap < 0 {
		errors = append(errors, "trajectory_cap must not be negative")
	}

	return errors
}
