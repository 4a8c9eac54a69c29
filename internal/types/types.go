package types

import (
	"fmt"
	"strconv"
)

// DataType identifies the type of a column or value.
type DataType int

const (
	// TypeInteger is a 32-bit signed integer column.
	TypeInteger DataType = iota
	// TypeString is a string column.
	TypeString
	// TypeBoolean is a boolean column.
	TypeBoolean
	// TypeFloat only appears in aggregation results (avg); it is not a
	// valid column type.
	TypeFloat
)

// Accepted schema type tokens.
const (
	typeTokenInt    = "int"
	typeTokenString = "string"
	typeTokenBool   = "bool"
)

// ParseDataType maps a schema type token to its DataType.
func ParseDataType(token string) (DataType, error) {
	switch token {
	case typeTokenInt:
		return TypeInteger, nil
	case typeTokenString:
		return TypeString, nil
	case typeTokenBool:
		return TypeBoolean, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDataType, token)
	}
}

func (t DataType) String() string {
	switch t {
	case TypeInteger:
		return typeTokenInt
	case TypeString:
		return typeTokenString
	case TypeBoolean:
		return typeTokenBool
	case TypeFloat:
		return "float"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// Value is a tagged value carrying its DataType. The tag is validated once
// when a row is built, so scans and aggregations never re-check runtime types.
type Value struct {
	Type  DataType
	Int   int32
	Str   string
	Bool  bool
	Float float64
}

// Int32Value returns an integer Value.
func Int32Value(v int32) Value { return Value{Type: TypeInteger, Int: v} }

// StringValue returns a string Value.
func StringValue(v string) Value { return Value{Type: TypeString, Str: v} }

// BoolValue returns a boolean Value.
func BoolValue(v bool) Value { return Value{Type: TypeBoolean, Bool: v} }

// FloatValue returns a float Value. Only aggregation results produce these.
func FloatValue(v float64) Value { return Value{Type: TypeFloat, Float: v} }

// Equal reports whether two values have the same type and payload.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case TypeInteger:
		return v.Int == o.Int
	case TypeString:
		return v.Str == o.Str
	case TypeBoolean:
		return v.Bool == o.Bool
	case TypeFloat:
		return v.Float == o.Float
	default:
		return false
	}
}

// Interface returns the value as a plain Go value, for serialization and
// display.
func (v Value) Interface() interface{} {
	switch v.Type {
	case TypeInteger:
		return v.Int
	case TypeString:
		return v.Str
	case TypeBoolean:
		return v.Bool
	case TypeFloat:
		return v.Float
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Type {
	case TypeInteger:
		return strconv.FormatInt(int64(v.Int), 10)
	case TypeString:
		return v.Str
	case TypeBoolean:
		return strconv.FormatBool(v.Bool)
	case TypeFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return "<invalid>"
	}
}

// ParseLiteral infers the type of a condition literal and converts it:
// "true"/"false" parse as booleans, anything that parses as a 32-bit integer
// is an integer, everything else is a string.
func ParseLiteral(literal string) Value {
	if literal == "true" || literal == "false" {
		return BoolValue(literal == "true")
	}
	if n, err := strconv.ParseInt(literal, 10, 32); err == nil {
		return Int32Value(int32(n))
	}
	return StringValue(literal)
}

// AggregateFunc identifies a reduction over the matched rows of one column.
type AggregateFunc int

const (
	AggMin AggregateFunc = iota
	AggMax
	AggSum
	AggAvg
	AggCount
)

func (f AggregateFunc) String() string {
	switch f {
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggSum:
		return "sum"
	case AggAvg:
		return "avg"
	case AggCount:
		return "count"
	default:
		return fmt.Sprintf("AggregateFunc(%d)", int(f))
	}
}

// CompareOp identifies a condition comparator.
type CompareOp int

const (
	// OpEq compares by value for every data type.
	OpEq CompareOp = iota
	// OpLt and OpGt order integers only.
	OpLt
	OpGt
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	default:
		return fmt.Sprintf("CompareOp(%d)", int(op))
	}
}
