package detect

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("default config invalid: %v", errs)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero min area",
			mutate:  func(c *Config) { c.MinArea = 0 },
			wantErr: "min_area",
		},
		{
			name:    "max area below min",
			mutate:  func(c *Config) { c.MaxArea = 10 },
			wantErr: "max_area",
		},
		{
			name:    "inverted aspect bounds",
			mutate:  func(c *Config) { c.MinAspect = 6 },
			wantErr: "aspect",
		},
		{
			name:    "confidence above one",
			mutate:  func(c *Config) { c.ConfidenceThreshold = 1.5 },
			wantErr: "confidence_threshold",
		},
		{
			name:    "even blur kernel",
			mutate:  func(c *Config) { c.BlurKernel = 4 },
			wantErr: "blur_kernel",
		},
		{
			name:    "even adaptive block",
			mutate:  func(c *Config) { c.AdaptiveBlock = 10 },
			wantErr: "adaptive_block",
		},
		{
			name:    "weights not summing to one",
			mutate:  func(c *Config) { c.ContrastWeight = 0.9 },
			wantErr: "weights",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("expected validation error, got none")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e, tc.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention %q", errs, tc.wantErr)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlurKernel = 2

	if _, err := New(cfg); err == nil {
		t.Error("New accepted an invalid config")
	}
}
