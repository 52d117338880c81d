// Package domain defines the types and interfaces for the results service
package domain

import "time"

// Result is the latest successful job for one layer of one source.
// Source is the canonical path, not the raw URL
type Result struct {
	ID      int64     `json:"id"`
	Source  string    `json:"source"`
	Layer   string    `json:"layer"`
	Name    string    `json:"name"`
	Job     int64     `json:"job"`
	Updated time.Time `json:"updated"`
}

// HistoryEntry is one past job for a result's source and layer
type HistoryEntry struct {
	Job     int64     `json:"job"`
	Status  string    `json:"status"`
	Created time.Time `json:"created"`
}

// Filters narrows result listings. When Point is set the listing keeps
// only results whose resolved region lies within RadiusDegrees of it
type Filters struct {
	Source        string
	Layer         string
	Point         *[2]float64
	RadiusDegrees float64
	Limit         int
}
