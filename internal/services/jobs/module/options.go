package module

import "batch/internal/platform/config"

// Options holds configuration settings for the jobs module
type Options struct {
	ListLimit int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	rf := cfg.Prefix("JOBS_")
	return Options{
		ListLimit: rf.MayInt("LIST_LIMIT", 100),
	}
}
