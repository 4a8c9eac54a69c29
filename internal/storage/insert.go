package storage

import "github.com/paradb/paradb/internal/types"

// Insert appends one row to a table under its exclusive lock. The row is
// validated in full before any column is touched, so a failure commits
// nothing.
func (db *DB) Insert(table string, row []types.Value) error {
	t, err := db.table(table)
	if err != nil {
		return err
	}

	unlock := t.lockExclusive()
	defer unlock()

	if err := t.insert(row); err != nil {
		return err
	}
	db.log.Debug("inserted row %d into %s", t.size-1, table)
	return nil
}
