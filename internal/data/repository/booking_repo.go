package repository

import (
	"context"
	"errors"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// CreateConfirmed stores a paid booking, its passengers and its payment atomically.
	CreateConfirmed(ctx context.Context, booking *entity.Booking, passengers []*entity.BookingPassenger, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindPassengers(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingPassenger, error)

	// FindBookedSeatsBySchedule lists seat ids held by confirmed bookings of a trip.
	FindBookedSeatsBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]string, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, order_id, user_id, schedule_id, total_seats, total_price, status, confirmed_at, created_at, updated_at`

func (r *bookingRepository) CreateConfirmed(ctx context.Context, booking *entity.Booking, passengers []*entity.BookingPassenger, payment *entity.Payment) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO bookings (`+bookingColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			booking.ID,
			booking.OrderID,
			booking.UserID,
			booking.ScheduleID,
			booking.TotalSeats,
			booking.TotalPrice,
			booking.Status,
			booking.ConfirmedAt,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		batch := &pgx.Batch{}
		for _, p := range passengers {
			batch.Queue(`
				INSERT INTO booking_passengers (id, booking_id, schedule_id, seat_id, name, age, gender, phone, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, p.ID, p.BookingID, booking.ScheduleID, p.SeatID, p.Name, p.Age, p.Gender, p.Phone, p.CreatedAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert booking passengers: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO payments (id, booking_id, payment_method_id, amount, status, transaction_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			payment.ID,
			payment.BookingID,
			payment.PaymentMethodID,
			payment.Amount,
			payment.Status,
			payment.TransactionID,
			payment.CreatedAt,
			payment.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		return nil
	})

	if isUniqueViolation(err) {
		return fmt.Errorf("create booking %s: %w: %w", booking.ID.String(), ErrDuplicate, err)
	}
	if err != nil {
		r.log.Error("Failed to create confirmed booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("order_id", booking.OrderID),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindPassengers(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingPassenger, error) {
	query := `
		SELECT id, booking_id, seat_id, name, age, gender, phone, created_at
		FROM booking_passengers
		WHERE booking_id = $1
		ORDER BY created_at, seat_id
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking passengers",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find passengers of booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var passengers []*entity.BookingPassenger
	for rows.Next() {
		var p entity.BookingPassenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.SeatID, &p.Name, &p.Age, &p.Gender, &p.Phone, &p.CreatedAt); err != nil {
			r.log.Error("Failed to scan booking passenger row", zap.Error(err))
			return nil, fmt.Errorf("scan booking passenger row: %w", err)
		}
		passengers = append(passengers, &p)
	}

	return passengers, rows.Err()
}

func (r *bookingRepository) FindBookedSeatsBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]string, error) {
	query := `
		SELECT DISTINCT bp.seat_id
		FROM booking_passengers bp
		INNER JOIN bookings b ON bp.booking_id = b.id
		WHERE b.schedule_id = $1 AND b.status = 'confirmed'
	`

	rows, err := r.db.Query(ctx, query, scheduleID)
	if err != nil {
		r.log.Error("Failed to find booked seats by schedule",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return nil, fmt.Errorf("find booked seats by schedule %s: %w", scheduleID.String(), err)
	}
	defer rows.Close()

	var seatIDs []string
	for rows.Next() {
		var seatID string
		if err := rows.Scan(&seatID); err != nil {
			r.log.Error("Failed to scan seat ID row", zap.Error(err))
			return nil, fmt.Errorf("scan seat ID row: %w", err)
		}
		seatIDs = append(seatIDs, seatID)
	}

	return seatIDs, rows.Err()
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.OrderID,
		&b.UserID,
		&b.ScheduleID,
		&b.TotalSeats,
		&b.TotalPrice,
		&b.Status,
		&b.ConfirmedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
