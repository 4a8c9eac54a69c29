package types

import "errors"

// Error taxonomy for the engine. Every failure is terminal for the triggering
// call and is surfaced before any mutation is committed; callers classify
// with errors.Is.
var (
	// ErrNullOrEmptyInput reports absent or empty required input.
	ErrNullOrEmptyInput = errors.New("null or empty input")
	// ErrInvalidShape reports an arity mismatch between a row or schema
	// definition and the table it targets.
	ErrInvalidShape = errors.New("shape mismatch")
	// ErrUnknownDataType reports an unrecognized schema type token.
	ErrUnknownDataType = errors.New("unknown data type")
	// ErrInvalidDataType reports a value, literal, or comparator whose type
	// does not match the column's declared type.
	ErrInvalidDataType = errors.New("invalid data type")
	// ErrInvalidCondition reports a malformed condition string.
	ErrInvalidCondition = errors.New("invalid condition")
	// ErrUnknownComparator reports an unrecognized comparator token.
	ErrUnknownComparator = errors.New("unknown comparator")
	// ErrInvalidFunction reports a malformed aggregation string.
	ErrInvalidFunction = errors.New("invalid aggregation")
	// ErrUnknownFunction reports an unrecognized aggregation function name.
	ErrUnknownFunction = errors.New("unknown aggregation function")
	// ErrDuplicateTable reports a createTable against an existing name.
	ErrDuplicateTable = errors.New("table already exists")
	// ErrDuplicateColumn reports a repeated column name in a schema.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrUnknownTable reports an operation against a table that was never
	// created.
	ErrUnknownTable = errors.New("table does not exist")
	// ErrUnknownColumn reports a condition or aggregation that names a
	// column the schema does not have.
	ErrUnknownColumn = errors.New("column does not exist")
	// ErrIntegerOverflow reports a sum whose total does not fit the integer
	// column domain.
	ErrIntegerOverflow = errors.New("integer overflow")
	// ErrClosed reports an operation against a stopped database.
	ErrClosed = errors.New("database is closed")
)
