package dto

// Paginated is the envelope of every list endpoint: offset/limit style with
// the total row count alongside the page.
type Paginated[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

func NewPaginated[T any](results []T, count int64) Paginated[T] {
	if results == nil {
		results = []T{}
	}
	return Paginated[T]{Count: count, Results: results}
}
