// Package domain holds DTOs for the data http surface
package domain

// SearchInput filters the latest-success listing. Point is lon lat;
// when set only results whose region falls within Radius degrees of it
// are returned
type SearchInput struct {
	Source string      `json:"source,omitempty" validate:"omitempty,min=1,max=200" example:"us/pa/bucks"`
	Layer  string      `json:"layer,omitempty" validate:"omitempty,min=1,max=50" example:"addresses"`
	Point  *[2]float64 `json:"point,omitempty" example:"-75.1,40.3"`
	Radius float64     `json:"radius,omitempty" validate:"omitempty,gt=0,max=180" example:"0.5"`
	Limit  int         `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"100"`
}

// HistoryInput names one source layer to list past jobs for
type HistoryInput struct {
	Source string `json:"source" validate:"required,min=1,max=200" example:"us/pa/bucks"`
	Layer  string `json:"layer" validate:"required,min=1,max=50" example:"addresses"`
	Name   string `json:"name,omitempty" validate:"omitempty,max=100" example:"county"`
	Limit  int    `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"20"`
}
