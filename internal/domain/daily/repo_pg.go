package daily

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

const dailyColumns = `service_id, date, date_end, data, agent_id, agent_name, team_members, created_at, updated_at`

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

func scanDaily(row pgx.Row) (*DailyReport, error) {
	var (
		d    DailyReport
		data []byte
	)
	err := row.Scan(&d.ServiceID, &d.Date, &d.DateEnd, &data,
		&d.AgentID, &d.AgentName, &d.TeamMembers, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &d.Data); err != nil {
		return nil, fmt.Errorf("decode report data: %w", err)
	}
	return &d, nil
}

func (r *repoPG) GetByKey(ctx context.Context, serviceID string, date time.Time, dateEnd *time.Time) (*DailyReport, error) {
	if dateEnd == nil {
		return scanDaily(r.conn(ctx).QueryRow(ctx,
			`SELECT `+dailyColumns+` FROM daily_report
			 WHERE service_id = $1 AND date = $2 AND date_end IS NULL`,
			serviceID, date))
	}
	return scanDaily(r.conn(ctx).QueryRow(ctx,
		`SELECT `+dailyColumns+` FROM daily_report
		 WHERE service_id = $1 AND date = $2 AND date_end = $3`,
		serviceID, date, *dateEnd))
}

func (r *repoPG) GetByDate(ctx context.Context, serviceID string, date time.Time) (*DailyReport, error) {
	return scanDaily(r.conn(ctx).QueryRow(ctx,
		`SELECT `+dailyColumns+` FROM daily_report
		 WHERE service_id = $1 AND date = $2
		 ORDER BY date_end NULLS FIRST LIMIT 1`,
		serviceID, date))
}

func (r *repoPG) Upsert(ctx context.Context, d *DailyReport) error {
	data, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("encode report data: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO daily_report (service_id, date, date_end, data, agent_id, agent_name, team_members, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (service_id, date, date_end) DO UPDATE SET
			data = EXCLUDED.data,
			agent_id = EXCLUDED.agent_id,
			agent_name = EXCLUDED.agent_name,
			team_members = EXCLUDED.team_members,
			updated_at = NOW()`,
		d.ServiceID, d.Date, d.DateEnd, data, d.AgentID, d.AgentName, d.TeamMembers)
	return err
}

func (r *repoPG) ListRange(ctx context.Context, serviceID string, from, to time.Time, limit, offset int) ([]*DailyReport, int, error) {
	where := `WHERE date >= $1 AND date <= $2`
	args := []interface{}{from, to}
	if serviceID != "" {
		where += ` AND service_id = $3`
		args = append(args, serviceID)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM daily_report `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(
		`SELECT %s FROM daily_report %s ORDER BY date DESC, service_id LIMIT $%d OFFSET $%d`,
		dailyColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*DailyReport
	for rows.Next() {
		d, err := scanDaily(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}
