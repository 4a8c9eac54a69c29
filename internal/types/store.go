package types

// Store is the set of database operations the statement layer drives. It is
// satisfied by storage.DB.
type Store interface {
	CreateTable(name string, columns, typeTokens []string) error
	Insert(table string, row []Value) error
	Update(table string, row []Value, condition string) error
	Select(table string, operations []string, condition string) ([][]Value, error)
	Begin(table string) error
	End(table string) error
	ExportParquet(table, path string) error
	ShowTables() []string
}
