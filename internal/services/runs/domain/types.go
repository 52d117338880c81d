// Package domain defines the types and interfaces for the runs service
package domain

import (
	"encoding/json"
	"time"
)

// Run groups the jobs created from one batch submission. GitHub holds
// the raw webhook or CI payload the run was triggered by, when there
// was one; Closed flips once every job in the run has finished
type Run struct {
	ID      string          `json:"id"`
	Created time.Time       `json:"created"`
	GitHub  json.RawMessage `json:"github,omitempty"`
	Closed  bool            `json:"closed"`
}
