package detect

// Config holds all tunable parameters for the frame-analysis pipeline.
// The scoring constants are empirical values tuned for 640x480 capture;
// they are exposed here rather than hard-coded so other resolutions can
// retune them.
type Config struct {
	// === Contour filtering ===
	MinArea float64 // Reject contours smaller than this (px^2)
	MaxArea float64 // Reject contours larger than this (cloud/bird-flock blobs)

	// MinAspect/MaxAspect bound width/height; outside is a degenerate sliver.
	MinAspect float64
	MaxAspect float64

	// === Thresholds ===
	ContrastThreshold   float64 // Minimum region-vs-background contrast of interest
	ConfidenceThreshold float64 // Keep candidates scoring at least this (0-1)

	// === Preprocessing ===
	BlurKernel    int     // Gaussian blur kernel size (odd)
	AdaptiveBlock int     // Adaptive threshold neighborhood size (odd)
	AdaptiveC     float64 // Constant subtracted from the local mean

	// === Scoring ===
	// TargetArea is the typical aircraft silhouette area at operating
	// resolution; size score falls off linearly on both sides of it.
	TargetArea      float64
	ContrastDivisor float64 // Contrast saturates to score 1.0 at this value

	// Confidence weights. Should sum to 1.0.
	ContrastWeight float64
	SizeWeight     float64
	ShapeWeight    float64
	MovementWeight float64
}

// DefaultConfig returns the reference tuning for 640x480 sky capture.
func DefaultConfig() Config {
	return Config{
		MinArea:   25,
		MaxArea:   2000,
		MinAspect: 0.2,
		MaxAspect: 5.0,

		ContrastThreshold:   50,
		ConfidenceThreshold: 0.6,

		BlurKernel:    5,
		AdaptiveBlock: 11,
		AdaptiveC:     2,

		TargetArea:      100,
		ContrastDivisor: 100,

		ContrastWeight: 0.4,
		SizeWeight:     0.2,
		ShapeWeight:    0.2,
		MovementWeight: 0.2,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.MinArea <= 0 {
		errors = append(errors, "min_area must be positive")
	}
	if c.MaxArea <= c.MinArea {
		errors = append(errors, "max_area must be greater than min_area")
	}
	if c.MinAspect <= 0 || c.MaxAspect <= c.MinAspect {
		errors = append(errors, "aspect bounds must satisfy 0 < min < max")
	}
	if c.ContrastThreshold < 0 {
		errors = append(errors, "contrast_threshold must not be negative")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		errors = append(errors, "confidence_threshold must be between 0 and 1")
	}
	if c.BlurKernel < 3 || c.BlurKernel%2 == 0 {
		errors = append(errors, "blur_kernel must be an odd number >= 3")
	}
	if c.AdaptiveBlock < 3 || c.AdaptiveBlock%2 == 0 {
		errors = append(errors, "adaptive_block must be an odd number >= 3")
	}
	if c.TargetArea <= 0 {
		errors = append(errors, "target_area must be positive")
	}
	if c.ContrastDivisor <= 0 {
		errors = append(errors, "contrast_divisor must be positive")
	}

	sum := c.ContrastWeight + c.SizeWeight + c.ShapeWeight + c.MovementWeight
	if sum < 0.99 || sum > 1.01 {
		errors = append(errors, "confidence weights must sum to 1.0")
	}

	return errors
}
