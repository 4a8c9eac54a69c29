package storage

import (
	"github.com/paradb/paradb/internal/parser"
	"github.com/paradb/paradb/internal/types"
)

// Worker tasks are pure functions over one contiguous partition of a column.
// Each task receives the partition's value slice plus the global row index of
// its first element, so results can be reported in global row coordinates.

// checkConditionTask returns, in ascending order, the global indices within
// one partition whose value satisfies the condition.
func checkConditionTask(values []types.Value, base int, cond parser.Condition) []int {
	var matched []int
	for i, v := range values {
		if cond.Match(v) {
			matched = append(matched, base+i)
		}
	}
	return matched
}

// reduceTask folds a min or max reducer over the values at the given global
// indices. The accumulator is seeded with the value at the first index, never
// a sentinel, so the result is always a value that occurs in the partition.
// ok is false when the index subset is empty.
func reduceTask(values []types.Value, base int, indices []int, fn types.AggregateFunc) (result int32, ok bool) {
	if len(indices) == 0 {
		return 0, false
	}
	acc := values[indices[0]-base].Int
	for _, idx := range indices[1:] {
		acc = reduce(fn, acc, values[idx-base].Int)
	}
	return acc, true
}

// reduce applies the binary min/max reducer identified by fn.
func reduce(fn types.AggregateFunc, a, b int32) int32 {
	switch fn {
	case types.AggMin:
		if b < a {
			return b
		}
	case types.AggMax:
		if b > a {
			return b
		}
	}
	return a
}

// sumTask adds the values at the given global indices. The accumulator is
// widened to int64 so intermediate totals cannot overflow the column domain.
func sumTask(values []types.Value, base int, indices []int) int64 {
	var sum int64
	for _, idx := range indices {
		sum += int64(values[idx-base].Int)
	}
	return sum
}
