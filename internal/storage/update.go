package storage

import "github.com/paradb/paradb/internal/types"

// Update overwrites every row matching the condition with the given row,
// under the table's exclusive lock. The condition scan reuses the same
// partitioned fan-out as Select; holding the exclusive lock across both the
// scan and the overwrite keeps the matched indices valid when they are
// applied. A condition matching nothing leaves the table untouched.
func (db *DB) Update(table string, row []types.Value, condition string) error {
	t, err := db.table(table)
	if err != nil {
		return err
	}

	unlock := t.lockExclusive()
	defer unlock()

	if err := t.validateRow(row); err != nil {
		return err
	}
	matched, err := db.matchedIndices(t, condition)
	if err != nil {
		return err
	}

	t.overwrite(row, matched)
	db.log.Debug("updated %d rows in %s", len(matched), table)
	return nil
}
