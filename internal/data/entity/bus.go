package entity

type BusClass string

const (
	BusClassEconomy   BusClass = "economy"
	BusClassExecutive BusClass = "executive"
	BusClassSleeper   BusClass = "sleeper"
)

// Bus is a vehicle. LayoutCode names its seat template.
type Bus struct {
	Base
	PlateNumber string   `db:"plate_number"`
	Operator    string   `db:"operator"`
	Class       BusClass `db:"class"`
	LayoutCode  string   `db:"layout_code"`
}
