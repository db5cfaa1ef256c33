package partition

import (
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func ExamplePlan() {
	ranges, _ := Plan(3, 10)
	fmt.Println(ranges)
	// Output: [[0, 3) [3, 6) [6, 10)]
}

func TestAssignLastAbsorbsRemainder(t *testing.T) {
	expected := []Range{{0, 3}, {3, 6}, {6, 10}}
	for rank, exp := range expected {
		actual, err := Assign(3, 10, rank)
		if err != nil {
			t.Fatal(err)
		}
		if actual != exp {
			t.Errorf("rank %d: expected %v but got %v", rank, exp, actual)
		}
	}
	if r, _ := Assign(3, 10, 2); r.Len() != 4 {
		t.Errorf("last rank should own 4 locations but owns %d", r.Len())
	}
}

func TestAssignErrors(t *testing.T) {
	cases := []struct {
		groupSize, n, rank int
	}{
		{0, 10, 0},
		{-1, 10, 0},
		{3, 0, 0},
		{3, -5, 1},
		{3, 10, 3},
		{3, 10, -1},
		{11, 10, 0},
		{11, 10, 9},
	}
	for _, c := range cases {
		_, err := Assign(c.groupSize, c.n, c.rank)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Assign(%d, %d, %d): expected ErrInvalidConfiguration but got %v",
				c.groupSize, c.n, c.rank, err)
		}
	}
	if _, err := Plan(11, 10); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected Plan to reject more workers than locations, got %v", err)
	}
}

func TestAssignSingleWorker(t *testing.T) {
	r, err := Assign(1, 7, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r != (Range{0, 7}) {
		t.Errorf("unexpected range: %v", r)
	}
}

// TestPlanTiling checks that the ranges of every rank cover
// [0, n) exactly once, for any group no larger than n.
func TestPlanTiling(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 500).Draw(t, "n")
		groupSize := rapid.IntRange(1, n).Draw(t, "groupSize")

		ranges, err := Plan(groupSize, n)
		if err != nil {
			t.Fatalf("Plan(%d, %d): %v", groupSize, n, err)
		}
		owners := make([]int, n)
		for rank, r := range ranges {
			if r.Len() <= 0 {
				t.Fatalf("rank %d has empty range %v", rank, r)
			}
			for i := r.Start; i < r.End; i++ {
				owners[i]++
			}
		}
		for i, count := range owners {
			if count != 1 {
				t.Fatalf("location %d owned %d times", i, count)
			}
		}
		if ranges[0].Start != 0 || ranges[len(ranges)-1].End != n {
			t.Fatalf("ranges do not span [0, %d): %v", n, ranges)
		}
		for rank := 1; rank < len(ranges); rank++ {
			if ranges[rank].Start != ranges[rank-1].End {
				t.Fatalf("ranges %d and %d are not contiguous", rank-1, rank)
			}
		}
	})
}
