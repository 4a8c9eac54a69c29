package parser

import (
	"fmt"
	"strings"

	"github.com/paradb/paradb/internal/types"
)

const aggregateTokens = 2

// Aggregate is a parsed "func(column)" operation. The column name is
// returned unresolved; the caller validates that it exists and, for every
// function except count, that its declared type is integer.
type Aggregate struct {
	Column string
	Func   types.AggregateFunc
}

// ParseAggregate parses an aggregation operation of the form "func(column)".
func ParseAggregate(operation string) (Aggregate, error) {
	if operation == "" {
		return Aggregate{}, fmt.Errorf("%w: aggregation operation", types.ErrNullOrEmptyInput)
	}

	tokens := strings.FieldsFunc(operation, func(r rune) bool {
		return r == '(' || r == ')'
	})
	if len(tokens) != aggregateTokens {
		return Aggregate{}, fmt.Errorf("%w: %q", types.ErrInvalidFunction, operation)
	}

	name, column := tokens[0], tokens[1]
	switch name {
	case "min":
		return Aggregate{Column: column, Func: types.AggMin}, nil
	case "max":
		return Aggregate{Column: column, Func: types.AggMax}, nil
	case "sum":
		return Aggregate{Column: column, Func: types.AggSum}, nil
	case "avg":
		return Aggregate{Column: column, Func: types.AggAvg}, nil
	case "count":
		return Aggregate{Column: column, Func: types.AggCount}, nil
	default:
		return Aggregate{}, fmt.Errorf("%w: %q", types.ErrUnknownFunction, name)
	}
}
