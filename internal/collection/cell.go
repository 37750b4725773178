package collection

type cellState uint8

const (
	cellEmpty cellState = iota
	cellSet
	cellUnknown
)

// Cell is an optional field value with three states: empty (never filled),
// set (carries a value), or unknown (a previous run tried and failed to fill
// it). Empty and unknown cells are both eligible for enrichment; set cells
// are never touched.
type Cell[T any] struct {
	state cellState
	value T
}

// SetCell returns a cell holding value.
func SetCell[T any](value T) Cell[T] {
	return Cell[T]{state: cellSet, value: value}
}

// UnknownCell returns a cell in the explicit-unknown state.
func UnknownCell[T any]() Cell[T] {
	return Cell[T]{state: cellUnknown}
}

// IsSet reports whether the cell carries a value.
func (c Cell[T]) IsSet() bool { return c.state == cellSet }

// IsEmpty reports whether the cell was never filled.
func (c Cell[T]) IsEmpty() bool { return c.state == cellEmpty }

// IsUnknown reports whether a run explicitly marked the cell unknown.
func (c Cell[T]) IsUnknown() bool { return c.state == cellUnknown }

// NeedsFill reports whether the cell is a candidate for enrichment.
func (c Cell[T]) NeedsFill() bool { return c.state != cellSet }

// Value returns the held value and whether the cell is set.
func (c Cell[T]) Value() (T, bool) {
	if c.state != cellSet {
		var zero T
		return zero, false
	}
	return c.value, true
}

// MustValue returns the held value, or the zero value when unset. Intended
// for rendering paths that already checked IsSet.
func (c Cell[T]) MustValue() T { return c.value }
