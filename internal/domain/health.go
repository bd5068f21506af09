package domain

import "time"

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status    HealthStatus `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Instance  string       `json:"instance"`
	Message   string       `json:"message,omitempty"`
}

// ScheduleEntry is a read-only view of one definition's schedule state.
type ScheduleEntry struct {
	ID             string    `json:"id"`
	NextEligibleAt time.Time `json:"next_eligible_at"`
	Running        bool      `json:"running"`
}

type SchedulerStatus struct {
	Running      bool            `json:"running"`
	TickInterval string          `json:"tick_interval"`
	Entries      []ScheduleEntry `json:"entries"`
}

// Heartbeat is sent periodically to the backend collector.
type Heartbeat struct {
	Instance    string    `json:"instance"`
	Timestamp   time.Time `json:"timestamp"`
	Scheduled   int       `json:"scheduled"`
	Running     int       `json:"running"`
	Subscribers int       `json:"subscribers"`
}
