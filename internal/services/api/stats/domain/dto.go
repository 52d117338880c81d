// Package domain holds DTOs for stats http and service contracts
package domain

// Query window and filters kept small and explicit
// Times are ISO8601 dates without timezone

// TimeRange defines a start and end date for queries
type TimeRange struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02" example:"2026-08-01"`
	End   string `json:"end" validate:"required,datetime=2006-01-02" example:"2026-08-31"`
}

// ByStatusInput buckets jobs by day and terminal status
type ByStatusInput struct {
	Range TimeRange `json:"range"`
	// optional filters
	Source string `json:"source,omitempty" validate:"omitempty,min=1,max=200" example:"us/pa/bucks"`
}

// ByStatusRow represents a row in the ByStatus output
type ByStatusRow struct {
	Day    string `json:"day" example:"2026-08-01"`
	Status string `json:"status" example:"Success"`
	Jobs   int64  `json:"jobs" example:"42"`
}

// Layer buckets

// ByLayerInput is the input for layer buckets
type ByLayerInput struct {
	Range  TimeRange `json:"range"`
	Status string    `json:"status,omitempty" validate:"omitempty,oneof=Pending Warn Fail Success" example:"Success"`
}

// ByLayerRow represents a row in the ByLayer output
type ByLayerRow struct {
	Layer    string `json:"layer" example:"addresses"`
	Jobs     int64  `json:"jobs" example:"7"`
	Features int64  `json:"features" example:"185919"`
}

// Source buckets

// BySourceInput is the input for source buckets
type BySourceInput struct {
	Range TimeRange `json:"range"`
	Layer string    `json:"layer,omitempty" validate:"omitempty,min=1,max=50" example:"addresses"`
}

// BySourceRow represents a row in the BySource output
type BySourceRow struct {
	Source   string `json:"source" example:"us/pa/bucks"`
	Jobs     int64  `json:"jobs" example:"3"`
	Features int64  `json:"features" example:"185919"`
}
