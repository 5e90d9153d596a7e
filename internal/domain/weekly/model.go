package weekly

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/har/har/internal/platform/report"
)

// ErrNotFound is returned when no weekly report matches the requested key.
var ErrNotFound = errors.New("weekly report not found")

// WeeklyReport is the compiled aggregate of one service's daily reports over
// an ISO week (Monday through Sunday), carried through the validation
// workflow. Once validated by direction or rejected it is frozen.
type WeeklyReport struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ServiceID string    `db:"service_id" json:"serviceId"`
	WeekStart time.Time `db:"week_start" json:"weekStart"`
	WeekEnd   time.Time `db:"week_end" json:"weekEnd"`
	Year      int       `db:"year" json:"year"`
	Week      int       `db:"week" json:"week"`

	// DailyReportsCount is how many of the 7 days had a report, 0 to 7.
	DailyReportsCount int         `db:"daily_reports_count" json:"dailyReportsCount"`
	Data              report.Data `db:"data" json:"data"`

	Status       report.Status `db:"status" json:"status"`
	SubmittedAt  *time.Time    `db:"submitted_at" json:"submittedAt,omitempty"`
	SubmittedBy  string        `db:"submitted_by" json:"submittedBy,omitempty"`
	ValidatedAt  *time.Time    `db:"validated_at" json:"validatedAt,omitempty"`
	ValidatedBy  string        `db:"validated_by" json:"validatedBy,omitempty"`
	RejectedAt   *time.Time    `db:"rejected_at" json:"rejectedAt,omitempty"`
	RejectedBy   string        `db:"rejected_by" json:"rejectedBy,omitempty"`
	RejectReason string        `db:"reject_reason" json:"rejectReason,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Filter narrows weekly report listings for the validation page.
type Filter struct {
	ServiceID string
	Status    report.Status
	Year      int
	Week      int
}
