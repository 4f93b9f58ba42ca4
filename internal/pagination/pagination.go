// Package pagination implements the limit/skip page math shared by the
// three listing buckets (pending/approved/rejected).
package pagination

import "strconv"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a parsed limit/skip pair. Out-of-range input is clamped
// rather than rejected.
type Params struct {
	Limit int
	Skip  int
}

// Parse reads limit/skip query values, falling back to the defaults on
// missing or malformed input.
func Parse(limitStr, skipStr string) Params {
	p := Params{Limit: DefaultLimit}
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		p.Limit = n
		if p.Limit > MaxLimit {
			p.Limit = MaxLimit
		}
	}
	if n, err := strconv.Atoi(skipStr); err == nil && n > 0 {
		p.Skip = n
	}
	return p
}

// Page is the envelope a bucket listing returns.
type Page struct {
	Total    int64 `json:"total"`
	HasMore  bool  `json:"hasMore"`
	NextSkip int   `json:"nextSkip"`
}

// Resolve derives the page envelope from what a query actually returned.
// NextSkip advances by the returned count, not the requested limit, so
// short pages are tolerated.
func Resolve(p Params, returned int, total int64) Page {
	next := p.Skip + returned
	return Page{
		Total:    total,
		HasMore:  int64(next) < total,
		NextSkip: next,
	}
}
