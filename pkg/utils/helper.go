package utils

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil || result < 1 {
		return defaultValue
	}

	return result
}

// GenerateOrderID builds a human readable ticket code: BUS-YYYYMMDD-HHMMSS-NNNN.
func GenerateOrderID(now time.Time) string {
	return fmt.Sprintf("BUS-%s-%s-%04d", now.Format("20060102"), now.Format("150405"), rand.IntN(10000))
}

// NormalizeCity trims and title-cases a city name for route matching.
func NormalizeCity(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	for i, f := range fields {
		fields[i] = strings.ToUpper(f[:1]) + f[1:]
	}
	return strings.Join(fields, " ")
}
