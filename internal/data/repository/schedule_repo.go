package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ScheduleFilter narrows a trip search. Zero values match everything.
type ScheduleFilter struct {
	Origin      string
	Destination string
	From        time.Time
	To          time.Time
}

type ScheduleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error)
	Search(ctx context.Context, filter ScheduleFilter, limit, offset int) ([]*entity.Schedule, error)
	Count(ctx context.Context, filter ScheduleFilter) (int64, error)
}

type scheduleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewScheduleRepository(db database.PgxIface, log *zap.Logger) ScheduleRepository {
	return &scheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "schedule")),
	}
}

const scheduleSelect = `
	SELECT s.id, s.bus_id, s.origin, s.destination, s.departure_at, s.arrival_at,
	       s.price, s.status, s.created_at, s.updated_at,
	       b.operator, b.class, b.layout_code
	FROM schedules s
	INNER JOIN buses b ON b.id = s.bus_id
`

func scanSchedule(row pgx.Row) (*entity.Schedule, error) {
	var s entity.Schedule
	err := row.Scan(
		&s.ID,
		&s.BusID,
		&s.Origin,
		&s.Destination,
		&s.DepartureAt,
		&s.ArrivalAt,
		&s.Price,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.Operator,
		&s.BusClass,
		&s.LayoutCode,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	query := scheduleSelect + ` WHERE s.id = $1 AND s.deleted_at IS NULL`

	schedule, err := scanSchedule(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find schedule by ID",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return nil, fmt.Errorf("find schedule by ID %s: %w", id.String(), err)
	}

	return schedule, nil
}

func (r *scheduleRepository) Search(ctx context.Context, filter ScheduleFilter, limit, offset int) ([]*entity.Schedule, error) {
	where, args := filter.clause()
	args = append(args, limit, offset)
	query := fmt.Sprintf("%s %s ORDER BY s.departure_at LIMIT $%d OFFSET $%d", scheduleSelect, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to search schedules",
			zap.Error(err),
			zap.String("origin", filter.Origin),
			zap.String("destination", filter.Destination),
		)
		return nil, fmt.Errorf("search schedules %s-%s: %w", filter.Origin, filter.Destination, err)
	}
	defer rows.Close()

	var schedules []*entity.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			r.log.Error("Failed to scan schedule row", zap.Error(err))
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule rows: %w", err)
	}

	return schedules, nil
}

func (r *scheduleRepository) Count(ctx context.Context, filter ScheduleFilter) (int64, error) {
	where, args := filter.clause()
	query := `SELECT COUNT(*) FROM schedules s ` + where

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count schedules", zap.Error(err))
		return 0, fmt.Errorf("count schedules: %w", err)
	}

	return count, nil
}

func (f ScheduleFilter) clause() (string, []any) {
	conds := []string{"s.deleted_at IS NULL", "s.status = 'scheduled'"}
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Origin != "" {
		add("s.origin = $%d", f.Origin)
	}
	if f.Destination != "" {
		add("s.destination = $%d", f.Destination)
	}
	if !f.From.IsZero() {
		add("s.departure_at >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("s.departure_at < $%d", f.To)
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}
