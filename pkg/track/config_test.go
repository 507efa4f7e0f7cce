package track

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(c *Config) {},
		},
		{
			name:    "negative max_disappeared",
			modify:  func(c *Config) { c.MaxDisappeared = -1 },
			wantErr: true,
		},
		{
			name:    "zero max_distance",
			modify:  func(c *Config) { c.MaxDistance = 0 },
			wantErr: true,
		},
		{
			name:    "negative trajectory cap",
			modify:  func(c *Config) { c.TrajectoryCap = -5 },
			wantErr: true,
		},
		{
			name:   "unbounded trajectory allowed",
			modify: func(c *Config) { c.TrajectoryCap = 0 },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)

			errs := cfg.Validate()
			if tc.wantErr && len(errs) == 0 {
				t.Error("expected validation errors, got none")
			}
			if !tc.wantErr && len(errs) > 0 {
				t.Errorf("unexpected validation errors: %v", errs)
			}

			_, err := New(cfg)
			if tc.wantErr && err == nil {
				t.Error("New should reject invalid config")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("New rejected valid config: %v", err)
			}
		})
	}
}
