// Package partition splits an ordered list of locations
// into contiguous ranges, one per worker.
package partition

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when a group size and
// location count cannot be partitioned.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// A Range is a half-open interval [Start, End) of location
// indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of locations in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains checks if a location index is in the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Assign computes the range owned by a rank.
//
// Every rank gets n/groupSize locations, except for the
// last rank, which also absorbs the remainder.
// Having more workers than locations is an error, since
// every rank but the last would be left empty.
func Assign(groupSize, n, rank int) (Range, error) {
	if groupSize <= 0 {
		return Range{}, fmt.Errorf("%w: group size %d must be positive",
			ErrInvalidConfiguration, groupSize)
	}
	if n <= 0 {
		return Range{}, fmt.Errorf("%w: location count %d must be positive",
			ErrInvalidConfiguration, n)
	}
	if rank < 0 || rank >= groupSize {
		return Range{}, fmt.Errorf("%w: rank %d outside group of %d",
			ErrInvalidConfiguration, rank, groupSize)
	}
	chunk := n / groupSize
	if chunk == 0 && rank != groupSize-1 {
		return Range{}, fmt.Errorf("%w: %d workers for %d locations leaves rank %d empty",
			ErrInvalidConfiguration, groupSize, n, rank)
	}
	r := Range{Start: rank * chunk, End: (rank + 1) * chunk}
	if rank == groupSize-1 {
		r.End = n
	}
	return r, nil
}

// Plan computes the range of every rank, failing if any of
// them is invalid.
func Plan(groupSize, n int) ([]Range, error) {
	if groupSize <= 0 {
		return nil, fmt.Errorf("%w: group size %d must be positive",
			ErrInvalidConfiguration, groupSize)
	}
	res := make([]Range, groupSize)
	for rank := range res {
		r, err := Assign(groupSize, n, rank)
		if err != nil {
			return nil, err
		}
		res[rank] = r
	}
	return res, nil
}
