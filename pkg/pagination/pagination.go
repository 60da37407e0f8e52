package pagination

import "strconv"

// MaxPageSize is both the default and the largest page a list endpoint
// returns.
const MaxPageSize = 100

type Page struct {
	Offset int
	Limit  int
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func Calculate(page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Offset: (page - 1) * size, Limit: size}
}

// FromQuery reads the page and size query values; missing or malformed ones
// fall back to the first full page.
func FromQuery(page, size string) Page {
	return Calculate(ParseIntDefault(page, 1), ParseIntDefault(size, MaxPageSize))
}
