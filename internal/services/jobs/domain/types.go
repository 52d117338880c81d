// Package domain defines the types and interfaces for the jobs service
package domain

import (
	"time"

	"batch/internal/core/coverage"
	"batch/internal/core/geostats"
)

// Status is a job lifecycle state
type Status string

// Job lifecycle states
const (
	StatusPending Status = "Pending"
	StatusWarn    Status = "Warn"
	StatusFail    Status = "Fail"
	StatusSuccess Status = "Success"
)

// ValidStatus reports whether s is a known lifecycle state
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusWarn, StatusFail, StatusSuccess:
		return true
	}
	return false
}

// Job is one unit of ingest work for a single layer of a single source
// SourceName is the canonical path derived from Source; Map is set when
// the job has been resolved to a region on completion
type Job struct {
	ID         int64           `json:"id"`
	Run        *string         `json:"run"`
	Created    time.Time       `json:"created"`
	Source     string          `json:"source"`
	SourceName string          `json:"source_name"`
	Layer      string          `json:"layer"`
	Name       string          `json:"name"`
	Status     Status          `json:"status"`
	Output     bool            `json:"output"`
	Map        *int64          `json:"map"`
	Stats      *geostats.Stats `json:"stats,omitempty"`
}

// Seed aliases the exploded source unit jobs are created from
type Seed = coverage.JobSeed

// Filters narrows job listings
type Filters struct {
	Status Status
	Run    string
	Source string
	Layer  string
	Limit  int
}
