package smallrange

import (
	"fmt"

	"github.com/iotaledger/hive.go/constraints"
)

// Range is the plain two-field representation of the half-open interval [Start, End). It is the unpacked counterpart
// of SmallRange: twice the storage footprint and no half-width capacity limit, with bounds that can be addressed and
// modified directly. Unlike the closed Storage set of the packed form, Range is open to any unsigned integer type.
type Range[T constraints.Unsigned] struct {
	Start T
	End   T
}

// NewRange creates a new Range spanning [start, end).
func NewRange[T constraints.Unsigned](start, end T) Range[T] {
	return Range[T]{Start: start, End: end}
}

// FromRange packs the given Range into a SmallRange. It fails with the same errors as New if the bounds are inverted
// or do not fit the half-width capacity of the storage type.
func FromRange[T Storage](r Range[T]) (SmallRange[T], error) {
	return New(r.Start, r.End)
}

// Len returns the number of values contained in the Range. Inverted bounds count as zero.
func (r Range[T]) Len() T {
	if r.End < r.Start {
		return 0
	}

	return r.End - r.Start
}

// IsEmpty returns true if the Range contains no values.
func (r Range[T]) IsEmpty() bool {
	return r.Len() == 0
}

// Contains returns true if the given value lies within the Range.
func (r Range[T]) Contains(value T) bool {
	return value >= r.Start && value < r.End
}

// String returns a human-readable version of the Range.
func (r Range[T]) String() string {
	return fmt.Sprintf("Range[%d, %d)", r.Start, r.End)
}
