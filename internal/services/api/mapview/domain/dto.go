// Package domain holds DTOs for the map http surface
package domain

// SearchInput lists known regions
type SearchInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"100"`
}

// GetInput names one region by code or id. Exactly one must be set
type GetInput struct {
	Code string `json:"code,omitempty" validate:"omitempty,min=1,max=100" example:"us-42017"`
	ID   int64  `json:"id,omitempty" validate:"omitempty,min=1" example:"7"`
}

// PointInput finds the region nearest to a lon/lat point
type PointInput struct {
	Point  [2]float64 `json:"point" validate:"required" example:"-75.107,40.331"`
	Radius float64    `json:"radius,omitempty" validate:"omitempty,gt=0,max=10" example:"0.5"`
}
