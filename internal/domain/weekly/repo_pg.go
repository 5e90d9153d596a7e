package weekly

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

const weeklyColumns = `id, service_id, week_start, week_end, year, week, daily_reports_count, data,
	status, submitted_at, submitted_by, validated_at, validated_by, rejected_at, rejected_by, reject_reason,
	created_at, updated_at`

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

func scanWeekly(row pgx.Row) (*WeeklyReport, error) {
	var (
		w    WeeklyReport
		data []byte
	)
	err := row.Scan(&w.ID, &w.ServiceID, &w.WeekStart, &w.WeekEnd, &w.Year, &w.Week,
		&w.DailyReportsCount, &data, &w.Status,
		&w.SubmittedAt, &w.SubmittedBy, &w.ValidatedAt, &w.ValidatedBy,
		&w.RejectedAt, &w.RejectedBy, &w.RejectReason,
		&w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &w.Data); err != nil {
		return nil, fmt.Errorf("decode report data: %w", err)
	}
	return &w, nil
}

func (r *repoPG) Create(ctx context.Context, w *WeeklyReport) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	data, err := json.Marshal(w.Data)
	if err != nil {
		return fmt.Errorf("encode report data: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO weekly_report (id, service_id, week_start, week_end, year, week, daily_reports_count, data,
			status, submitted_at, submitted_by, validated_at, validated_by, rejected_at, rejected_by, reject_reason,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())`,
		w.ID, w.ServiceID, w.WeekStart, w.WeekEnd, w.Year, w.Week, w.DailyReportsCount, data,
		w.Status, w.SubmittedAt, w.SubmittedBy, w.ValidatedAt, w.ValidatedBy,
		w.RejectedAt, w.RejectedBy, w.RejectReason)
	return err
}

func (r *repoPG) Update(ctx context.Context, w *WeeklyReport) error {
	data, err := json.Marshal(w.Data)
	if err != nil {
		return fmt.Errorf("encode report data: %w", err)
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE weekly_report SET
			daily_reports_count = $2, data = $3, status = $4,
			submitted_at = $5, submitted_by = $6,
			validated_at = $7, validated_by = $8,
			rejected_at = $9, rejected_by = $10, reject_reason = $11,
			updated_at = NOW()
		WHERE id = $1`,
		w.ID, w.DailyReportsCount, data, w.Status,
		w.SubmittedAt, w.SubmittedBy, w.ValidatedAt, w.ValidatedBy,
		w.RejectedAt, w.RejectedBy, w.RejectReason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*WeeklyReport, error) {
	return scanWeekly(r.conn(ctx).QueryRow(ctx,
		`SELECT `+weeklyColumns+` FROM weekly_report WHERE id = $1`, id))
}

func (r *repoPG) GetByWeek(ctx context.Context, serviceID string, weekStart time.Time) (*WeeklyReport, error) {
	return scanWeekly(r.conn(ctx).QueryRow(ctx,
		`SELECT `+weeklyColumns+` FROM weekly_report WHERE service_id = $1 AND week_start = $2`,
		serviceID, weekStart))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*WeeklyReport, int, error) {
	where := `WHERE 1=1`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.ServiceID != "" {
		where += ` AND service_id = ` + arg(f.ServiceID)
	}
	if f.Status != "" {
		where += ` AND status = ` + arg(string(f.Status))
	}
	if f.Year != 0 {
		where += ` AND year = ` + arg(f.Year)
	}
	if f.Week != 0 {
		where += ` AND week = ` + arg(f.Week)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM weekly_report `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + weeklyColumns + ` FROM weekly_report ` + where +
		` ORDER BY week_start DESC, service_id LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*WeeklyReport
	for rows.Next() {
		w, err := scanWeekly(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, w)
	}
	return items, total, rows.Err()
}
