// Package parser turns condition and aggregation strings into typed
// predicates and operations, and parses the statement surface used by the
// REPL.
package parser

import (
	"fmt"
	"strings"

	"github.com/paradb/paradb/internal/types"
)

const conditionTokens = 3

// Comparator tokens accepted in a condition.
const (
	comparatorEqual   = "=="
	comparatorSmaller = "<"
	comparatorBigger  = ">"
)

// Condition is a parsed predicate over one column. It carries an enumerated
// comparator instead of a closure, so building one allocates nothing and
// every worker partition can share it.
type Condition struct {
	Column  string
	Op      types.CompareOp
	Operand types.Value
}

// Match reports whether a single column value satisfies the condition.
// Values are assumed to already have the column's declared type; the parser
// guarantees the operand matches it.
func (c Condition) Match(v types.Value) bool {
	switch c.Op {
	case types.OpEq:
		return v.Equal(c.Operand)
	case types.OpLt:
		return v.Int < c.Operand.Int
	case types.OpGt:
		return v.Int > c.Operand.Int
	default:
		return false
	}
}

// ColumnTypes resolves a column name to its declared type.
type ColumnTypes interface {
	TypeOf(column string) (types.DataType, bool)
}

// ParseCondition parses a non-empty "column comparator literal" condition
// against a table's schema. The literal's type is inferred (bool, then
// integer, then string) and must equal the column's declared type; the
// relational comparators are only valid on integer columns.
func ParseCondition(schema ColumnTypes, condition string) (Condition, error) {
	tokens := strings.Fields(condition)
	if len(tokens) != conditionTokens {
		return Condition{}, fmt.Errorf("%w: %q", types.ErrInvalidCondition, condition)
	}

	column, comparator, literal := tokens[0], tokens[1], tokens[2]

	columnType, ok := schema.TypeOf(column)
	if !ok {
		return Condition{}, fmt.Errorf("%w: %q", types.ErrUnknownColumn, column)
	}
	operand := types.ParseLiteral(literal)
	if operand.Type != columnType {
		return Condition{}, fmt.Errorf("%w: column %s is %s, literal %q is %s",
			types.ErrInvalidDataType, column, columnType, literal, operand.Type)
	}

	if comparator == comparatorEqual {
		return Condition{Column: column, Op: types.OpEq, Operand: operand}, nil
	}

	// Relational comparators order integers only.
	if operand.Type != types.TypeInteger {
		return Condition{}, fmt.Errorf("%w: comparator %q requires an integer column",
			types.ErrInvalidDataType, comparator)
	}
	switch comparator {
	case comparatorSmaller:
		return Condition{Column: column, Op: types.OpLt, Operand: operand}, nil
	case comparatorBigger:
		return Condition{Column: column, Op: types.OpGt, Operand: operand}, nil
	default:
		return Condition{}, fmt.Errorf("%w: %q", types.ErrUnknownComparator, comparator)
	}
}
