package storage

import (
	"fmt"
	"math"

	"github.com/paradb/paradb/internal/parser"
	"github.com/paradb/paradb/internal/types"
)

// Select runs a projection/aggregation query. Each operation is either a
// column name, projected at the matched indices in row order, or a
// "func(column)" aggregation merged to a single scalar. The shared lock is
// held from the condition scan through the last assembly step, so no writer
// can tear the snapshot between phases.
func (db *DB) Select(table string, operations []string, condition string) ([][]types.Value, error) {
	if len(operations) == 0 {
		return nil, fmt.Errorf("%w: operations list", types.ErrNullOrEmptyInput)
	}
	t, err := db.table(table)
	if err != nil {
		return nil, err
	}

	unlock := t.lockShared()
	defer unlock()

	matched, err := db.matchedIndices(t, condition)
	if err != nil {
		return nil, err
	}

	out := make([][]types.Value, len(operations))
	for i := range out {
		out[i] = []types.Value{}
	}
	// Nothing matched: every projection and aggregation is empty, so no
	// task is worth dispatching.
	if len(matched) == 0 {
		return out, nil
	}

	for i, op := range operations {
		if col, ok := t.column(op); ok {
			proj := make([]types.Value, len(matched))
			for j, idx := range matched {
				proj[j] = col.values[idx]
			}
			out[i] = proj
			continue
		}

		agg, err := parser.ParseAggregate(op)
		if err != nil {
			return nil, err
		}
		scalar, err := db.aggregate(t, agg, matched)
		if err != nil {
			return nil, err
		}
		out[i] = []types.Value{scalar}
	}
	return out, nil
}

// aggregate dispatches one aggregation over the matched rows of a column and
// merges the per-partition results. matched is non-empty and ascending; the
// caller holds the table's lock.
func (db *DB) aggregate(t *Table, agg parser.Aggregate, matched []int) (types.Value, error) {
	col, ok := t.column(agg.Column)
	if !ok {
		return types.Value{}, fmt.Errorf("%w: %q", types.ErrUnknownColumn, agg.Column)
	}
	if agg.Func == types.AggCount {
		return types.Int32Value(int32(len(matched))), nil
	}
	if col.Type != types.TypeInteger {
		return types.Value{}, fmt.Errorf("%w: %s over %s column %s",
			types.ErrInvalidDataType, agg.Func, col.Type, col.Name)
	}

	// The index subsets mirror the value partitioning, so each task only
	// reduces over indices inside its own value slice.
	spans := partitionSpans(len(col.values), db.workers)
	subsets := partitionIndices(matched, spans)

	switch agg.Func {
	case types.AggMin, types.AggMax:
		return db.mergeReduce(col, spans, subsets, agg.Func)
	case types.AggSum:
		total, err := db.mergeSum(col, spans, subsets)
		if err != nil {
			return types.Value{}, err
		}
		if total > math.MaxInt32 || total < math.MinInt32 {
			return types.Value{}, fmt.Errorf("%w: sum(%s) = %d", types.ErrIntegerOverflow, col.Name, total)
		}
		return types.Int32Value(int32(total)), nil
	case types.AggAvg:
		total, err := db.mergeSum(col, spans, subsets)
		if err != nil {
			return types.Value{}, err
		}
		return types.FloatValue(float64(total) / float64(len(matched))), nil
	default:
		return types.Value{}, fmt.Errorf("%w: %v", types.ErrUnknownFunction, agg.Func)
	}
}

// mergeReduce fans out one reduce task per partition and folds the partial
// results with the same reducer. The fold is seeded from the first non-empty
// partial, not a sentinel, so an all-negative max or all-positive min still
// comes out of the actual data.
func (db *DB) mergeReduce(col *Column, spans []span, subsets [][]int, fn types.AggregateFunc) (types.Value, error) {
	type partial struct {
		val int32
		ok  bool
	}
	partials := make([]partial, len(spans))
	err := db.runTasks(len(spans), func(i int) error {
		s := spans[i]
		partials[i].val, partials[i].ok = reduceTask(col.values[s.start:s.end], s.start, subsets[i], fn)
		return nil
	})
	if err != nil {
		return types.Value{}, err
	}

	var acc int32
	seeded := false
	for _, p := range partials {
		if !p.ok {
			continue
		}
		if !seeded {
			acc, seeded = p.val, true
			continue
		}
		acc = reduce(fn, acc, p.val)
	}
	if !seeded {
		// Unreachable while callers skip empty matches; kept as a guard.
		return types.Value{}, fmt.Errorf("%w: no rows to reduce", types.ErrNullOrEmptyInput)
	}
	return types.Int32Value(acc), nil
}

// mergeSum fans out one sum task per partition and adds the widened partial
// sums.
func (db *DB) mergeSum(col *Column, spans []span, subsets [][]int) (int64, error) {
	sums := make([]int64, len(spans))
	err := db.runTasks(len(spans), func(i int) error {
		s := spans[i]
		sums[i] = sumTask(col.values[s.start:s.end], s.start, subsets[i])
		return nil
	})
	if err != nil {
		return 0, err
	}

	var total int64
	for _, s := range sums {
		total += s
	}
	return total, nil
}
