package layout

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

var ErrUnknownLayout = errors.New("unknown seat layout")

// Seat is one position of a bus seat template.
type Seat struct {
	ID     string `yaml:"id" json:"seat_id"`
	Row    int    `yaml:"row" json:"row"`
	Column int    `yaml:"column" json:"column"`
	Window bool   `yaml:"window" json:"window"`
}

// Grid generates seats "1".."rows*columns" row by row. The first and last
// columns are window seats.
type Grid struct {
	Rows    int `yaml:"rows"`
	Columns int `yaml:"columns"`
}

type Layout struct {
	Code  string `yaml:"code"`
	Name  string `yaml:"name"`
	Grid  *Grid  `yaml:"grid,omitempty"`
	Seats []Seat `yaml:"seats,omitempty"`

	index map[string]int
}

// SeatIDs returns the template's seat ids in display order.
func (l *Layout) SeatIDs() []string {
	ids := make([]string, len(l.Seats))
	for i, seat := range l.Seats {
		ids[i] = seat.ID
	}
	return ids
}

func (l *Layout) Has(seatID string) bool {
	_, ok := l.index[seatID]
	return ok
}

// Seat returns the template entry for seatID.
func (l *Layout) Seat(seatID string) (Seat, bool) {
	i, ok := l.index[seatID]
	if !ok {
		return Seat{}, false
	}
	return l.Seats[i], true
}

// Provider resolves seat templates by layout code.
type Provider interface {
	Layout(code string) (*Layout, error)
	Codes() []string
}

type File struct {
	Layouts []Layout `yaml:"layouts"`
}

type store struct {
	codes   []string
	layouts map[string]*Layout
}

// Load reads a YAML layout file.
func Load(path string) (Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Provider from YAML layout definitions.
func Parse(data []byte) (Provider, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse layout file: %w", err)
	}
	return New(file.Layouts...)
}

// New validates layouts and indexes them by code. A layout with a grid and
// no explicit seats gets its seats generated.
func New(layouts ...Layout) (Provider, error) {
	if len(layouts) == 0 {
		return nil, errors.New("no seat layouts defined")
	}

	s := &store{layouts: make(map[string]*Layout, len(layouts))}
	for i := range layouts {
		l := layouts[i]
		if l.Code == "" {
			return nil, fmt.Errorf("layout %d: code is required", i)
		}
		if _, dup := s.layouts[l.Code]; dup {
			return nil, fmt.Errorf("layout %s: duplicate code", l.Code)
		}
		if len(l.Seats) == 0 && l.Grid != nil {
			l.Seats = l.Grid.seats()
		}
		if len(l.Seats) == 0 {
			return nil, fmt.Errorf("layout %s: no seats", l.Code)
		}

		l.Seats = append([]Seat(nil), l.Seats...)
		l.index = make(map[string]int, len(l.Seats))
		for j, seat := range l.Seats {
			if seat.ID == "" {
				return nil, fmt.Errorf("layout %s: seat %d has no id", l.Code, j)
			}
			if _, dup := l.index[seat.ID]; dup {
				return nil, fmt.Errorf("layout %s: duplicate seat %s", l.Code, seat.ID)
			}
			l.index[seat.ID] = j
		}

		s.layouts[l.Code] = &l
		s.codes = append(s.codes, l.Code)
	}
	return s, nil
}

func (s *store) Layout(code string) (*Layout, error) {
	l, ok := s.layouts[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, code)
	}
	return l, nil
}

func (s *store) Codes() []string {
	return append([]string(nil), s.codes...)
}

func (g *Grid) seats() []Seat {
	if g.Rows <= 0 || g.Columns <= 0 {
		return nil
	}
	seats := make([]Seat, 0, g.Rows*g.Columns)
	for row := 1; row <= g.Rows; row++ {
		for col := 1; col <= g.Columns; col++ {
			seats = append(seats, Seat{
				ID:     strconv.Itoa(len(seats) + 1),
				Row:    row,
				Column: col,
				Window: col == 1 || col == g.Columns,
			})
		}
	}
	return seats
}
