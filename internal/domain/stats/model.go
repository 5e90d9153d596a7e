package stats

import (
	"time"
)

// ServiceTotals is one service's activity summed over the requested range.
type ServiceTotals struct {
	ServiceID     string `json:"serviceId"`
	ServiceName   string `json:"serviceName"`
	DaysReported  int    `json:"daysReported"`
	Admissions    int    `json:"admissions"`
	Sorties       int    `json:"sorties"`
	Deces         int    `json:"deces"`
	Consultations int    `json:"consultations"`
	Actes         int    `json:"actes"`
	// MeanOccupancy is the average of the per-day occupancy percentages,
	// absent for services without beds.
	MeanOccupancy *int `json:"meanOccupancy,omitempty"`
}

// Overview is the dashboard payload. It is recomputed from source records on
// every call; nothing here is cached or stored.
type Overview struct {
	From               time.Time       `json:"from"`
	To                 time.Time       `json:"to"`
	Services           []ServiceTotals `json:"services"`
	WeeklyStatusCounts map[string]int  `json:"weeklyStatusCounts"`
}
