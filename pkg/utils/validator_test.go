package utils

import (
	"strings"
	"testing"
)

type passengerInput struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age" validate:"gte=0,lte=120"`
}

type holdInput struct {
	SeatIDs    []string         `json:"seat_ids" validate:"required,min=1,max=5,unique,dive,required"`
	Passengers []passengerInput `json:"passengers" validate:"omitempty,dive"`
	Email      string           `json:"email" validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	testCases := []struct {
		name       string
		input      holdInput
		wantFields map[string]string
	}{
		{
			name:  "valid",
			input: holdInput{SeatIDs: []string{"1", "2"}, Passengers: []passengerInput{{Name: "Ana", Age: 30}}},
		},
		{
			name:       "missing seats",
			input:      holdInput{},
			wantFields: map[string]string{"seat_ids": "This field is required"},
		},
		{
			name:       "too many seats",
			input:      holdInput{SeatIDs: []string{"1", "2", "3", "4", "5", "6"}},
			wantFields: map[string]string{"seat_ids": "Maximum length is 5"},
		},
		{
			name:       "duplicate seats",
			input:      holdInput{SeatIDs: []string{"1", "1"}},
			wantFields: map[string]string{"seat_ids": "Must not contain duplicates"},
		},
		{
			name:  "nested passenger",
			input: holdInput{SeatIDs: []string{"1"}, Passengers: []passengerInput{{Age: 130}}},
			wantFields: map[string]string{
				"passengers[0].name": "This field is required",
				"passengers[0].age":  "Must be at most 120",
			},
		},
		{
			name:       "bad email",
			input:      holdInput{SeatIDs: []string{"1"}, Email: "nope"},
			wantFields: map[string]string{"email": "Invalid email format"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateStruct(tc.input)
			if len(tc.wantFields) == 0 {
				if errs != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", errs)
				}
				return
			}
			if len(errs) != len(tc.wantFields) {
				t.Fatalf("ValidateStruct() = %v, want %v", errs, tc.wantFields)
			}
			for field, msg := range tc.wantFields {
				if errs[field] != msg {
					t.Fatalf("errs[%q] = %q, want %q (all: %v)", field, errs[field], msg, errs)
				}
			}
		})
	}
}

func TestFormatValidationErrorsIsSorted(t *testing.T) {
	got := FormatValidationErrors(map[string]string{"seat_ids": "b", "amount": "a"})
	if got != "amount: a; seat_ids: b" {
		t.Fatalf("FormatValidationErrors() = %q", got)
	}
	if !strings.Contains(FormatValidationErrors(ValidateStruct(holdInput{})), "seat_ids") {
		t.Fatal("formatted errors do not mention seat_ids")
	}
}
