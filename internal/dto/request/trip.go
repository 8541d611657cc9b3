package request

type TripSearchRequest struct {
	Origin      string `json:"origin" validate:"omitempty,max=100"`
	Destination string `json:"destination" validate:"omitempty,max=100"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	PaginatedRequest
}
