package monthly

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/har/har/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

const monthlyColumns = `id, service_id, year, month, daily_reports_count, data,
	status, validated_at, validated_by, created_at, updated_at`

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func scanMonthly(row pgx.Row) (*MonthlyReport, error) {
	var (
		m     MonthlyReport
		month int
		data  []byte
	)
	err := row.Scan(&m.ID, &m.ServiceID, &m.Year, &month, &m.DailyReportsCount, &data,
		&m.Status, &m.ValidatedAt, &m.ValidatedBy, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.Month = time.Month(month)
	if err := json.Unmarshal(data, &m.Data); err != nil {
		return nil, fmt.Errorf("decode report data: %w", err)
	}
	return &m, nil
}

func (r *repoPG) GetByMonth(ctx context.Context, serviceID string, year int, month time.Month) (*MonthlyReport, error) {
	return scanMonthly(r.conn(ctx).QueryRow(ctx,
		`SELECT `+monthlyColumns+` FROM monthly_report
		 WHERE service_id = $1 AND year = $2 AND month = $3`,
		serviceID, year, int(month)))
}

func (r *repoPG) Upsert(ctx context.Context, m *MonthlyReport) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	data, err := json.Marshal(m.Data)
	if err != nil {
		return fmt.Errorf("encode report data: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO monthly_report (id, service_id, year, month, daily_reports_count, data,
			status, validated_at, validated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (service_id, year, month) DO UPDATE SET
			daily_reports_count = EXCLUDED.daily_reports_count,
			data = EXCLUDED.data,
			status = EXCLUDED.status,
			validated_at = EXCLUDED.validated_at,
			validated_by = EXCLUDED.validated_by,
			updated_at = NOW()`,
		m.ID, m.ServiceID, m.Year, int(m.Month), m.DailyReportsCount, data,
		m.Status, m.ValidatedAt, m.ValidatedBy)
	return err
}

func (r *repoPG) ListYear(ctx context.Context, serviceID string, year int) ([]*MonthlyReport, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+monthlyColumns+` FROM monthly_report
		 WHERE service_id = $1 AND year = $2 ORDER BY month`,
		serviceID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*MonthlyReport
	for rows.Next() {
		m, err := scanMonthly(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
