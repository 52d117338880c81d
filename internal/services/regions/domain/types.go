// Package domain defines the types and interfaces for the regions service
package domain

import "batch/internal/core/coverage"

// Region is a canonical geography row
// Code is the unique key: an administrative identifier chain ("us",
// "us-42017") or the content hash of a source path for geometry-fallback
// regions. Geom is the hex EWKB point for fallback regions, nil otherwise
type Region struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Code   string   `json:"code"`
	Geom   *string  `json:"geom"`
	Layers []string `json:"layers"`
}

// ResolveInput is what a completed job contributes to region matching
type ResolveInput struct {
	Coverage coverage.Coverage
	Layer    string
	Source   string
}
