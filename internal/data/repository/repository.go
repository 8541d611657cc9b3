package repository

import (
	"errors"

	"bus-booking/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicate wraps unique-constraint violations.
var ErrDuplicate = errors.New("duplicate record")

type Repository struct {
	User          UserRepository
	Session       SessionRepository
	Schedule      ScheduleRepository
	PaymentMethod PaymentMethodRepository
	Booking       BookingRepository
	Payment       PaymentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:          NewUserRepository(db, log),
		Session:       NewSessionRepository(db, log),
		Schedule:      NewScheduleRepository(db, log),
		PaymentMethod: NewPaymentMethodRepository(db, log),
		Booking:       NewBookingRepository(db, log),
		Payment:       NewPaymentRepository(db, log),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
