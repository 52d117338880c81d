package module

import "batch/internal/platform/config"

// Options holds configuration settings for the runs module
type Options struct {
	ListLimit int
	JobsLimit int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	rf := cfg.Prefix("RUNS_")
	return Options{
		ListLimit: rf.MayInt("LIST_LIMIT", 100),
		JobsLimit: rf.MayInt("JOBS_LIMIT", 1000),
	}
}
