package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

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

type serviceRepoPG struct{ pool *pgxpool.Pool }

func NewServiceRepoPG(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepoPG{pool: pool}
}

func (r *serviceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *serviceRepoPG) GetByID(ctx context.Context, id string) (*Service, error) {
	var s Service
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, has_beds, bed_capacity FROM service WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.HasBeds, &s.BedCapacity)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepoPG) List(ctx context.Context) ([]*Service, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, has_beds, bed_capacity FROM service ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.Name, &s.HasBeds, &s.BedCapacity); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}

type configRepoPG struct{ pool *pgxpool.Pool }

func NewConfigRepoPG(pool *pgxpool.Pool) ConfigRepository {
	return &configRepoPG{pool: pool}
}

func (r *configRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Get returns the stored configuration, or the default one when the service
// has never been customized.
func (r *configRepoPG) Get(ctx context.Context, serviceID string) (*ServiceConfig, error) {
	var (
		cfg            ServiceConfig
		sections       []byte
		labelOverrides []byte
		hiddenFields   []byte
		customFields   []byte
	)
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT service_id, sections, label_overrides, hidden_fields, custom_fields, updated_at
		FROM service_config WHERE service_id = $1`, serviceID).
		Scan(&cfg.ServiceID, &sections, &labelOverrides, &hiddenFields, &customFields, &cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultConfig(serviceID), nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(sections, &cfg.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	if err := json.Unmarshal(labelOverrides, &cfg.LabelOverrides); err != nil {
		return nil, fmt.Errorf("decode label_overrides: %w", err)
	}
	if err := json.Unmarshal(hiddenFields, &cfg.HiddenFields); err != nil {
		return nil, fmt.Errorf("decode hidden_fields: %w", err)
	}
	if err := json.Unmarshal(customFields, &cfg.CustomFields); err != nil {
		return nil, fmt.Errorf("decode custom_fields: %w", err)
	}
	return &cfg, nil
}

func (r *configRepoPG) Put(ctx context.Context, cfg *ServiceConfig) error {
	sections, err := json.Marshal(cfg.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	labelOverrides, err := json.Marshal(cfg.LabelOverrides)
	if err != nil {
		return fmt.Errorf("encode label_overrides: %w", err)
	}
	hiddenFields, err := json.Marshal(cfg.HiddenFields)
	if err != nil {
		return fmt.Errorf("encode hidden_fields: %w", err)
	}
	customFields, err := json.Marshal(cfg.CustomFields)
	if err != nil {
		return fmt.Errorf("encode custom_fields: %w", err)
	}

	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO service_config (service_id, sections, label_overrides, hidden_fields, custom_fields, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (service_id) DO UPDATE SET
			sections = EXCLUDED.sections,
			label_overrides = EXCLUDED.label_overrides,
			hidden_fields = EXCLUDED.hidden_fields,
			custom_fields = EXCLUDED.custom_fields,
			updated_at = NOW()`,
		cfg.ServiceID, sections, labelOverrides, hiddenFields, customFields)
	return err
}
