package module

import "batch/internal/platform/config"

// Options holds configuration settings for the results module
type Options struct {
	ListLimit     int
	RadiusDegrees float64
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	rf := cfg.Prefix("RESULTS_")
	return Options{
		ListLimit:     rf.MayInt("LIST_LIMIT", 500),
		RadiusDegrees: rf.MayFloat64("RADIUS_DEGREES", 1.0),
	}
}
