package dto

const MaxPageLimit = 100

// Page is a limit/offset window over a list endpoint.
type Page struct {
	Limit  int
	Offset int
}

// Paginated is the list envelope: {count, next, previous, results}.
type Paginated[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPaginated wraps one page of results. Links are filled in by the handler
// because they depend on the request URL.
func NewPaginated[T any](results []T, count int64) *Paginated[T] {
	if results == nil {
		results = []T{}
	}
	return &Paginated[T]{Count: count, Results: results}
}

// HasNext reports whether another page follows p.
func (p Page) HasNext(count int64) bool {
	return int64(p.Offset+p.Limit) < count
}

// HasPrevious reports whether p starts after the first record.
func (p Page) HasPrevious() bool {
	return p.Offset > 0
}
