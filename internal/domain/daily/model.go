package daily

import (
	"errors"
	"time"

	"github.com/har/har/internal/platform/report"
)

// ErrNotFound is returned when no daily report exists for the requested key.
var ErrNotFound = errors.New("daily report not found")

// DailyReport is one day's activity capture for a service. DateEnd is set on
// multi-day entries (a weekend covered by a single form) and must not precede
// Date. Reports are upserted, never deleted: re-submitting the form for the
// same key overwrites the previous figures.
type DailyReport struct {
	ServiceID string      `db:"service_id" json:"serviceId"`
	Date      time.Time   `db:"date" json:"date"`
	DateEnd   *time.Time  `db:"date_end" json:"dateEnd,omitempty"`
	Data      report.Data `db:"data" json:"data"`

	// Traceability of the capture.
	AgentID     string   `db:"agent_id" json:"agentId,omitempty"`
	AgentName   string   `db:"agent_name" json:"agentName,omitempty"`
	TeamMembers []string `db:"team_members" json:"teamMembers,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Day truncates t to a UTC civil date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
