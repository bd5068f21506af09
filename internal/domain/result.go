package domain

import "time"

// Result is produced exactly once per completed execution.
// Error is set iff Success is false.
type Result struct {
	ID           string      `json:"id,omitempty"`
	ConfigID     string      `json:"config_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Success      bool        `json:"success"`
	ResponseTime float64     `json:"response_time"`
	Error        string      `json:"error,omitempty"`
	Data         interface{} `json:"data,omitempty"`
}
