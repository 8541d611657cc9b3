package utils

// CalculateTotalPages rounds up; non-positive inputs give zero pages.
func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// ClampPerPage keeps page sizes within 1..max, using def for unset values.
func ClampPerPage(perPage, def, max int) int {
	if perPage < 1 {
		return def
	}
	if perPage > max {
		return max
	}
	return perPage
}

func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}
