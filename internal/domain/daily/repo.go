package daily

import (
	"context"
	"time"
)

// Repository stores daily reports keyed by (service, date, date_end).
type Repository interface {
	// GetByKey fetches the report with the exact key. dateEnd nil matches the
	// single-day entry. Returns ErrNotFound when absent.
	GetByKey(ctx context.Context, serviceID string, date time.Time, dateEnd *time.Time) (*DailyReport, error)
	// GetByDate fetches the report covering the given day regardless of its
	// date_end. Returns ErrNotFound when absent.
	GetByDate(ctx context.Context, serviceID string, date time.Time) (*DailyReport, error)
	Upsert(ctx context.Context, r *DailyReport) error
	// ListRange returns reports with date in [from, to], newest first.
	// serviceID empty means all services.
	ListRange(ctx context.Context, serviceID string, from, to time.Time, limit, offset int) ([]*DailyReport, int, error)
}

// listRangePageSize is the page size ListRangeAll fetches with.
const listRangePageSize = 200

// ListRangeAll pages through ListRange until every report in the range has
// been fetched. Aggregation must see the whole range: a month can hold more
// than one report per date when on-call shifts span two days.
func ListRangeAll(ctx context.Context, r Repository, serviceID string, from, to time.Time) ([]*DailyReport, error) {
	var all []*DailyReport
	for offset := 0; ; offset += listRangePageSize {
		page, total, err := r.ListRange(ctx, serviceID, from, to, listRangePageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || len(all) >= total {
			return all, nil
		}
	}
}
