package utils

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseInt(t *testing.T) {
	testCases := []struct {
		in   string
		def  int
		want int
	}{
		{"", 1, 1},
		{"3", 1, 3},
		{"0", 10, 10},
		{"-2", 10, 10},
		{"abc", 10, 10},
	}
	for _, tc := range testCases {
		if got := ParseInt(tc.in, tc.def); got != tc.want {
			t.Fatalf("ParseInt(%q, %d) = %d, want %d", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestGenerateOrderID(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 5, 9, 0, time.UTC)
	got := GenerateOrderID(now)
	if !regexp.MustCompile(`^BUS-20260301-080509-\d{4}$`).MatchString(got) {
		t.Fatalf("GenerateOrderID() = %q, want BUS-20260301-080509-NNNN", got)
	}
}

func TestNormalizeCity(t *testing.T) {
	if got := NormalizeCity("  new   YORK "); got != "New York" {
		t.Fatalf("NormalizeCity() = %q, want New York", got)
	}
	if got := NormalizeCity(""); got != "" {
		t.Fatalf("NormalizeCity(empty) = %q, want empty", got)
	}
}

func TestPagination(t *testing.T) {
	if got := CalculateTotalPages(21, 10); got != 3 {
		t.Fatalf("CalculateTotalPages(21, 10) = %d, want 3", got)
	}
	if got := CalculateTotalPages(0, 10); got != 0 {
		t.Fatalf("CalculateTotalPages(0, 10) = %d, want 0", got)
	}
	if got := CalculateOffset(3, 10); got != 20 {
		t.Fatalf("CalculateOffset(3, 10) = %d, want 20", got)
	}
	if got := ClampPerPage(0, 10, 100); got != 10 {
		t.Fatalf("ClampPerPage(0) = %d, want 10", got)
	}
	if got := ClampPerPage(500, 10, 100); got != 100 {
		t.Fatalf("ClampPerPage(500) = %d, want 100", got)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPasswordHash("secret123", hash) {
		t.Fatal("CheckPasswordHash(correct) = false")
	}
	if CheckPasswordHash("secret124", hash) {
		t.Fatal("CheckPasswordHash(wrong) = true")
	}
}

func TestUserContext(t *testing.T) {
	if _, ok := GetUserIDFromContext(context.Background()); ok {
		t.Fatal("GetUserIDFromContext(empty) ok = true")
	}

	userID := uuid.New()
	ctx := SetUserContext(context.Background(), userID, "token-1")

	got, ok := GetUserIDFromContext(ctx)
	if !ok || got != userID {
		t.Fatalf("GetUserIDFromContext() = %v, %v, want %v", got, ok, userID)
	}
	if token, ok := GetTokenFromContext(ctx); !ok || token != "token-1" {
		t.Fatalf("GetTokenFromContext() = %q, %v, want token-1", token, ok)
	}
}
