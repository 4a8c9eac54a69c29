package storage_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradb/paradb/internal/storage"
	"github.com/paradb/paradb/internal/types"
)

func openDB(t *testing.T, workers int) *storage.DB {
	t.Helper()
	db, err := storage.Open(storage.Config{
		Workers: workers,
		Logger:  types.InitLogger(types.LogLevelNone, nil),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// newPeopleTable creates the id/age schema used across these tests.
func newPeopleTable(t *testing.T, db *storage.DB) {
	t.Helper()
	require.NoError(t, db.CreateTable("people", []string{"id", "age"}, []string{"int", "int"}))
}

func insertPeople(t *testing.T, db *storage.DB, rows ...[2]int32) {
	t.Helper()
	for _, r := range rows {
		require.NoError(t, db.Insert("people", []types.Value{
			types.Int32Value(r[0]), types.Int32Value(r[1]),
		}))
	}
}

func TestOpenRejectsBadWorkerCount(t *testing.T) {
	_, err := storage.Open(storage.Config{Workers: 0})
	assert.Error(t, err)
	_, err = storage.Open(storage.Config{Workers: -3})
	assert.Error(t, err)
}

func TestCreateTableDuplicate(t *testing.T) {
	db := openDB(t, 2)
	newPeopleTable(t, db)
	insertPeople(t, db, [2]int32{1, 30})

	err := db.CreateTable("people", []string{"x"}, []string{"int"})
	assert.ErrorIs(t, err, types.ErrDuplicateTable)

	// The first table is intact after the failed create.
	out, err := db.Select("people", []string{"id"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{{types.Int32Value(1)}}, out)
}

func TestUnknownTable(t *testing.T) {
	db := openDB(t, 2)

	_, err := db.Select("missing", []string{"id"}, "")
	assert.ErrorIs(t, err, types.ErrUnknownTable)
	assert.ErrorIs(t, db.Insert("missing", []types.Value{types.Int32Value(1)}), types.ErrUnknownTable)
	assert.ErrorIs(t, db.Update("missing", []types.Value{types.Int32Value(1)}, ""), types.ErrUnknownTable)
	assert.ErrorIs(t, db.Begin("missing"), types.ErrUnknownTable)
}

func TestInsertAndSelectAllRows(t *testing.T) {
	db := openDB(t, 4)
	newPeopleTable(t, db)
	insertPeople(t, db, [2]int32{1, 30}, [2]int32{2, 15}, [2]int32{3, 42})

	// Empty condition returns every row in insertion order.
	out, err := db.Select("people", []string{"id", "age"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(1, 2, 3), intCol(30, 15, 42)}, out)
}

func intCol(ns ...int32) []types.Value {
	vals := make([]types.Value, len(ns))
	for i, n := range ns {
		vals[i] = types.Int32Value(n)
	}
	return vals
}

func TestSelectWithCondition(t *testing.T) {
	db := openDB(t, 4)
	newPeopleTable(t, db)
	insertPeople(t, db, [2]int32{1, 30}, [2]int32{2, 15}, [2]int32{3, 42})

	out, err := db.Select("people", []string{"age"}, "age > 18")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(30, 42)}, out)

	out, err = db.Select("people", []string{"id"}, "age < 18")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(2)}, out)

	out, err = db.Select("people", []string{"id"}, "age == 42")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(3)}, out)
}

func TestSelectAggregations(t *testing.T) {
	db := openDB(t, 4)
	newPeopleTable(t, db)
	insertPeople(t, db, [2]int32{1, 30}, [2]int32{2, 15}, [2]int32{3, 42})

	out, err := db.Select("people", []string{"count(id)"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(3)}, out)

	out, err = db.Select("people", []string{"sum(age)"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(87)}, out)

	out, err = db.Select("people", []string{"min(age)", "max(age)"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(15), intCol(42)}, out)

	out, err = db.Select("people", []string{"avg(age)"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{{types.FloatValue(29)}}, out)

	// Aggregations respect the condition.
	out, err = db.Select("people", []string{"sum(age)", "count(id)"}, "age > 18")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(72), intCol(2)}, out)
}

func TestSelectEmptyMatch(t *testing.T) {
	db := openDB(t, 4)
	newPeopleTable(t, db)
	insertPeople(t, db, [2]int32{1, 30})

	// No row matches: empty output columns, no aggregation dispatched.
	out, err := db.Select("people", []string{"id", "min(age)", "count(id)"}, "age > 100")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{{}, {}, {}}, out)
}

func TestSelectErrors(t *testing.T) {
	db := openDB(t, 2)
	newPeopleTable(t, db)
	insertPeople(t, db, [2]int32{1, 30})

	_, err := db.Select("people", nil, "")
	assert.ErrorIs(t, err, types.ErrNullOrEmptyInput)

	_, err = db.Select("people", []string{"median(age)"}, "")
	assert.ErrorIs(t, err, types.ErrUnknownFunction)

	_, err = db.Select("people", []string{"min(name)"}, "")
	assert.ErrorIs(t, err, types.ErrUnknownColumn)

	_, err = db.Select("people", []string{"id"}, "id == abc")
	assert.ErrorIs(t, err, types.ErrInvalidDataType)

	_, err = db.Select("people", []string{"id"}, "id >= 1")
	assert.ErrorIs(t, err, types.ErrUnknownComparator)
}

func TestAggregationRequiresIntegerColumn(t *testing.T) {
	db := openDB(t, 2)
	require.NoError(t, db.CreateTable("tags", []string{"name", "hot"}, []string{"string", "bool"}))
	require.NoError(t, db.Insert("tags", []types.Value{types.StringValue("a"), types.BoolValue(true)}))

	for _, op := range []string{"min(name)", "max(hot)", "sum(name)", "avg(hot)"} {
		_, err := db.Select("tags", []string{op}, "")
		assert.ErrorIs(t, err, types.ErrInvalidDataType, op)
	}

	// count works on any column type.
	out, err := db.Select("tags", []string{"count(name)"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(1)}, out)
}

// Min/max merge across partitions seeds from the data, not from zero: an
// all-negative column has a negative max.
func TestReduceMergeSeedsFromData(t *testing.T) {
	db := openDB(t, 8)
	newPeopleTable(t, db)
	for i := int32(0); i < 50; i++ {
		insertPeople(t, db, [2]int32{i, -100 - i})
	}

	out, err := db.Select("people", []string{"max(age)", "min(age)"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(-100), intCol(-149)}, out)

	// All-positive min stays positive even when matches land in one
	// partition out of many.
	require.NoError(t, db.CreateTable("pos", []string{"n"}, []string{"int"}))
	for i := int32(1); i <= 5; i++ {
		require.NoError(t, db.Insert("pos", []types.Value{types.Int32Value(i * 10)}))
	}
	out, err = db.Select("pos", []string{"min(n)"}, "n > 35")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(40)}, out)
}

// Sums widen internally but the result narrows to int32; a total that does
// not fit fails loudly instead of truncating.
func TestSumOverflow(t *testing.T) {
	db := openDB(t, 4)
	require.NoError(t, db.CreateTable("big", []string{"n"}, []string{"int"}))
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Insert("big", []types.Value{types.Int32Value(2000000000)}))
	}

	_, err := db.Select("big", []string{"sum(n)"}, "")
	assert.ErrorIs(t, err, types.ErrIntegerOverflow)

	// avg divides the widened sum, so it still succeeds.
	out, err := db.Select("big", []string{"avg(n)"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{{types.FloatValue(2000000000)}}, out)
}

func TestUpdate(t *testing.T) {
	db := openDB(t, 4)
	newPeopleTable(t, db)
	insertPeople(t, db, [2]int32{1, 30}, [2]int32{2, 15}, [2]int32{3, 42})

	err := db.Update("people", []types.Value{types.Int32Value(9), types.Int32Value(99)}, "age > 18")
	require.NoError(t, err)

	out, err := db.Select("people", []string{"id", "age"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(9, 2, 9), intCol(99, 15, 99)}, out)
}

func TestUpdateNoMatchLeavesTableUnchanged(t *testing.T) {
	db := openDB(t, 4)
	newPeopleTable(t, db)
	insertPeople(t, db, [2]int32{1, 30}, [2]int32{2, 15})

	before, err := db.Select("people", []string{"id", "age"}, "")
	require.NoError(t, err)

	err = db.Update("people", []types.Value{types.Int32Value(0), types.Int32Value(0)}, "age > 100")
	require.NoError(t, err)

	after, err := db.Select("people", []string{"id", "age"}, "")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateValidatesBeforeMutating(t *testing.T) {
	db := openDB(t, 2)
	newPeopleTable(t, db)
	insertPeople(t, db, [2]int32{1, 30})

	err := db.Update("people", []types.Value{types.StringValue("x"), types.Int32Value(0)}, "")
	assert.ErrorIs(t, err, types.ErrInvalidDataType)
	err = db.Update("people", []types.Value{types.Int32Value(1)}, "")
	assert.ErrorIs(t, err, types.ErrInvalidShape)

	out, err := db.Select("people", []string{"id", "age"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(1), intCol(30)}, out)
}

func TestInsertRoundTrip(t *testing.T) {
	db := openDB(t, 4)
	require.NoError(t, db.CreateTable("mixed",
		[]string{"id", "name", "active"}, []string{"int", "string", "bool"}))

	row := []types.Value{types.Int32Value(7), types.StringValue("bob"), types.BoolValue(true)}
	require.NoError(t, db.Insert("mixed", row))

	out, err := db.Select("mixed", []string{"id", "name", "active"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{
		{types.Int32Value(7)}, {types.StringValue("bob")}, {types.BoolValue(true)},
	}, out)
}

func TestStringAndBoolConditions(t *testing.T) {
	db := openDB(t, 4)
	require.NoError(t, db.CreateTable("mixed",
		[]string{"id", "name", "active"}, []string{"int", "string", "bool"}))
	rows := []struct {
		id     int32
		name   string
		active bool
	}{{1, "bob", true}, {2, "ann", false}, {3, "bob", false}}
	for _, r := range rows {
		require.NoError(t, db.Insert("mixed", []types.Value{
			types.Int32Value(r.id), types.StringValue(r.name), types.BoolValue(r.active),
		}))
	}

	out, err := db.Select("mixed", []string{"id"}, "name == bob")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(1, 3)}, out)

	out, err = db.Select("mixed", []string{"id"}, "active == false")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(2, 3)}, out)
}

func TestShowTables(t *testing.T) {
	db := openDB(t, 2)
	require.NoError(t, db.CreateTable("b", []string{"x"}, []string{"int"}))
	require.NoError(t, db.CreateTable("a", []string{"x"}, []string{"int"}))
	assert.Equal(t, []string{"a", "b"}, db.ShowTables())
}

func TestTransactionBracket(t *testing.T) {
	db := openDB(t, 4)
	newPeopleTable(t, db)
	insertPeople(t, db, [2]int32{1, 30})

	require.NoError(t, db.Begin("people"))

	// The bracket holder keeps reading and writing without re-locking.
	require.NoError(t, db.Insert("people", intCol(2, 15)))
	out, err := db.Select("people", []string{"count(id)"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(2)}, out)

	require.NoError(t, db.End("people"))

	// Normal locking resumes after the bracket: a writer on another
	// goroutine gets in.
	done := make(chan error, 1)
	go func() { done <- db.Insert("people", intCol(3, 42)) }()
	require.NoError(t, <-done)

	out, err = db.Select("people", []string{"count(id)"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(3)}, out)

	// A second Begin/End round works.
	require.NoError(t, db.Begin("people"))
	require.NoError(t, db.End("people"))
}

func TestEndWithoutBegin(t *testing.T) {
	db := openDB(t, 2)
	newPeopleTable(t, db)
	assert.Error(t, db.End("people"))
}

// Concurrent inserts and selects never tear: every observed select is
// column-consistent (all output columns the same length, every row
// internally coherent).
func TestConcurrentInsertsAndSelects(t *testing.T) {
	db := openDB(t, 4)
	newPeopleTable(t, db)

	const writers, perWriter, readers = 8, 50, 8

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				id := int32(w*perWriter + i)
				// age mirrors id so readers can cross-check rows.
				err := db.Insert("people", []types.Value{
					types.Int32Value(id), types.Int32Value(id),
				})
				assert.NoError(t, err)
			}
		}()
	}
	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 40; i++ {
				out, err := db.Select("people", []string{"id", "age"}, "")
				if !assert.NoError(t, err) {
					return
				}
				if !assert.Len(t, out[0], len(out[1]), "torn read: column lengths differ") {
					return
				}
				for j := range out[0] {
					assert.Equal(t, out[0][j], out[1][j], "torn read: row %d incoherent", j)
				}
			}
		}()
	}
	wg.Wait()

	out, err := db.Select("people", []string{"count(id)"}, "")
	require.NoError(t, err)
	assert.Equal(t, [][]types.Value{intCol(writers * perWriter)}, out)
}

// Concurrent creates of distinct tables all land; repeated names fail
// exactly once per extra attempt.
func TestConcurrentCreateTable(t *testing.T) {
	db := openDB(t, 4)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = db.CreateTable(fmt.Sprintf("t%d", i%8), []string{"x"}, []string{"int"})
		}()
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, types.ErrDuplicateTable)
			failures++
		}
	}
	assert.Equal(t, n/2, failures)
	assert.Len(t, db.ShowTables(), n/2)
}

func TestSelectAfterClose(t *testing.T) {
	db, err := storage.Open(storage.Config{
		Workers: 2,
		Logger:  types.InitLogger(types.LogLevelNone, nil),
	})
	require.NoError(t, err)
	newPeopleTable(t, db)
	insertPeople(t, db, [2]int32{1, 30})
	require.NoError(t, db.Close())

	// The fan-out path rejects submissions once the pool is released.
	_, err = db.Select("people", []string{"id"}, "age > 0")
	assert.ErrorIs(t, err, types.ErrClosed)
}
