package module

import "batch/internal/platform/config"

// Options holds configuration settings for the regions module
type Options struct {
	ProximityDegrees float64
	ListLimit        int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	rf := cfg.Prefix("REGIONS_")
	return Options{
		ProximityDegrees: rf.MayFloat64("PROXIMITY_DEGREES", 1.0),
		ListLimit:        rf.MayInt("LIST_LIMIT", 500),
	}
}
