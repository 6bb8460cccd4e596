package domain

// Page is one slice of an ordered listing. Index is zero-based; TotalCount is
// computed over the same predicate as the items.
type Page[T any] struct {
	Index      int
	Size       int
	TotalCount int64
	Items      []T
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NormalizePage clamps a requested page index and size to usable values.
func NormalizePage(index, size int) (int, int) {
	if index < 0 {
		index = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return index, size
}
