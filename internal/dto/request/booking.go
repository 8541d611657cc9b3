package request

import "bus-booking/internal/ledger"

type HoldRequest struct {
	SeatIDs []string `json:"seat_ids" validate:"required,min=1,max=5,unique,dive,required,max=10"`
}

type PassengerRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=100"`
	Age    int    `json:"age" validate:"gte=0,lte=120"`
	Gender string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Phone  string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
}

// ReviseBookingRequest replaces the seat selection of a draft. Passengers,
// when given, must line up one-to-one with SeatIDs.
type ReviseBookingRequest struct {
	SeatIDs    []string           `json:"seat_ids" validate:"required,min=1,max=5,unique,dive,required,max=10"`
	Passengers []PassengerRequest `json:"passengers,omitempty" validate:"omitempty,dive"`
}

func (r ReviseBookingRequest) LedgerPassengers() []ledger.Passenger {
	if len(r.Passengers) == 0 {
		return nil
	}
	passengers := make([]ledger.Passenger, len(r.Passengers))
	for i, p := range r.Passengers {
		passengers[i] = ledger.Passenger{
			Name:   p.Name,
			Age:    p.Age,
			Gender: p.Gender,
			Phone:  p.Phone,
		}
	}
	return passengers
}

type ProcessPaymentRequest struct {
	BookingID       string  `json:"booking_id" validate:"required,uuid4"`
	PaymentMethodID string  `json:"payment_method_id" validate:"required,uuid4"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	TransactionID   *string `json:"transaction_id,omitempty" validate:"omitempty,max=100"`
}
