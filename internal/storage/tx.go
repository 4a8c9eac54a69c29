package storage

import "fmt"

// Begin grants the caller sole access to a table across multiple subsequent
// calls: it takes the table's exclusive lock and holds it until End. While
// the bracket is held, Select/Insert/Update/ExportParquet on that table skip
// their own lock acquisition, since the bracket already provides exclusivity.
//
// The bracket is an unchecked manual pair. Pairing Begin with End is the
// caller's responsibility, and between them the table must be driven only by
// the bracket holder; concurrent access from other goroutines during a
// bracket, like mismatched pairing, is a documented hazard rather than a
// defended case.
func (db *DB) Begin(table string) error {
	t, err := db.table(table)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.bracket.Store(true)
	db.log.Debug("transaction started on %s", table)
	return nil
}

// End releases the bracket taken by Begin.
func (db *DB) End(table string) error {
	t, err := db.table(table)
	if err != nil {
		return err
	}
	if !t.bracket.Load() {
		return fmt.Errorf("no transaction in progress on %q", table)
	}
	t.bracket.Store(false)
	t.mu.Unlock()
	db.log.Debug("transaction ended on %s", table)
	return nil
}
