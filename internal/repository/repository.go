package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
	"github.com/jmoiron/sqlx"
)

// AQIRepository is the persistence boundary for readings. Multi-row reads
// are ordered newest first.
type AQIRepository interface {
	Get(ctx context.Context, id int64) (*domain.Reading, error)
	GetAll(ctx context.Context) ([]domain.Reading, error)
	GetAllByDate(ctx context.Context, day time.Time) ([]domain.Reading, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]domain.Reading, error)
	Create(ctx context.Context, req domain.CreateRequest) (*domain.Reading, error)
}

// Clock supplies insert timestamps.
type Clock func() time.Time

// SQLRepository stores readings in the aqi table through sqlx.
type SQLRepository struct {
	db  *sqlx.DB
	now Clock
}

func New(db *sqlx.DB) *SQLRepository { return &SQLRepository{db: db, now: time.Now} }

// WithClock replaces the insert clock; used by tests to control ordering.
func (r *SQLRepository) WithClock(now Clock) *SQLRepository {
	r.now = now
	return r
}

const selectColumns = `SELECT id, pm2_5, pm10, no2, o3, co, so2, nh3, pb, timestamp FROM aqi`

func (r *SQLRepository) Get(ctx context.Context, id int64) (*domain.Reading, error) {
	var out domain.Reading
	err := r.db.GetContext(ctx, &out, r.db.Rebind(selectColumns+` WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying reading %d: %w", id, err)
	}
	return &out, nil
}

func (r *SQLRepository) GetAll(ctx context.Context) ([]domain.Reading, error) {
	out := []domain.Reading{}
	err := r.db.SelectContext(ctx, &out, selectColumns+` ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	return out, nil
}

// GetAllByDate returns readings inside the calendar day containing day, in
// day's location.
func (r *SQLRepository) GetAllByDate(ctx context.Context, day time.Time) ([]domain.Reading, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return r.GetByDateRange(ctx, start, end)
}

// GetByDateRange is inclusive on both ends.
func (r *SQLRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]domain.Reading, error) {
	out := []domain.Reading{}
	query := r.db.Rebind(selectColumns + ` WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp DESC, id DESC`)
	if err := r.db.SelectContext(ctx, &out, query, start.UTC(), end.UTC()); err != nil {
		return nil, fmt.Errorf("querying readings between %s and %s: %w",
			start.Format(time.RFC3339), end.Format(time.RFC3339), err)
	}
	return out, nil
}

// Create inserts a reading stamped with the repository clock. Missing
// measurements are stored as 0.
func (r *SQLRepository) Create(ctx context.Context, req domain.CreateRequest) (*domain.Reading, error) {
	n := req.Normalized()
	ts := r.now().UTC()

	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(
		`INSERT INTO aqi(pm2_5, pm10, no2, o3, co, so2, nh3, pb, timestamp)
		 VALUES (?,?,?,?,?,?,?,?,?) RETURNING id`),
		*n.PM25, *n.PM10, *n.NO2, *n.O3, *n.CO, *n.SO2, *n.NH3, *n.PB, ts,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("inserting reading: %w", err)
	}

	return &domain.Reading{
		ID:        id,
		PM25:      n.PM25,
		PM10:      n.PM10,
		NO2:       n.NO2,
		O3:        n.O3,
		CO:        n.CO,
		SO2:       n.SO2,
		NH3:       n.NH3,
		PB:        n.PB,
		Timestamp: ts,
	}, nil
}

var _ AQIRepository = (*SQLRepository)(nil)
