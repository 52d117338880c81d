// Package domain holds DTOs for the jobs http surface
package domain

import "batch/internal/core/geostats"

// SearchInput filters the job listing
type SearchInput struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=Pending Warn Fail Success" example:"Pending"`
	Run    string `json:"run,omitempty" validate:"omitempty,uuid" example:"7b4d5a6e-9f7c-4f22-8b2e-67a1a97d3c10"`
	Source string `json:"source,omitempty" validate:"omitempty,min=1,max=200" example:"us/pa/bucks"`
	Layer  string `json:"layer,omitempty" validate:"omitempty,min=1,max=50" example:"addresses"`
	Limit  int    `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"100"`
}

// GetInput names one job
type GetInput struct {
	ID int64 `json:"id" validate:"required,min=1" example:"42"`
}

// StatusInput moves one job to a lifecycle state
type StatusInput struct {
	ID     int64  `json:"id" validate:"required,min=1" example:"42"`
	Status string `json:"status" validate:"required,oneof=Pending Warn Fail Success" example:"Warn"`
}

// CompleteInput finishes one job with its ingest stats
type CompleteInput struct {
	ID    int64          `json:"id" validate:"required,min=1" example:"42"`
	Stats geostats.Stats `json:"stats"`
}
