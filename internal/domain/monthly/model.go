package monthly

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/har/har/internal/platform/report"
)

// ErrNotFound is returned when no monthly report is stored for the key.
var ErrNotFound = errors.New("monthly report not found")

// MonthlyReport is the calendar-month aggregate for a service. Observations
// inside Data carry a dd/MM prefix per contributing day. Once validated the
// stored report is frozen and regeneration no longer applies.
type MonthlyReport struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	ServiceID string     `db:"service_id" json:"serviceId"`
	Year      int        `db:"year" json:"year"`
	Month     time.Month `db:"month" json:"month"`

	DailyReportsCount int         `db:"daily_reports_count" json:"dailyReportsCount"`
	Data              report.Data `db:"data" json:"data"`

	Status      report.Status `db:"status" json:"status"`
	ValidatedAt *time.Time    `db:"validated_at" json:"validatedAt,omitempty"`
	ValidatedBy string        `db:"validated_by" json:"validatedBy,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validated reports whether the stored report has passed chef validation and
// is therefore frozen.
func (m *MonthlyReport) Validated() bool {
	return m.Status == report.StatusValidatedChief || m.Status == report.StatusValidatedDirection
}
