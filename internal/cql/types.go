package cql

import (
	"fmt"
	"strings"
)

// Type identifies a CQL column type the key encoder understands.
type Type int

const (
	TypeText Type = iota
	TypeAscii
	TypeVarchar
	TypeInt
	TypeBigint
	TypeCounter
	TypeTimestamp
	TypeBoolean
	TypeFloat
	TypeDouble
	TypeUUID
	TypeTimeUUID
	TypeBlob
	TypeInet
)

var typeNames = map[Type]string{
	TypeText:      "text",
	TypeAscii:     "ascii",
	TypeVarchar:   "varchar",
	TypeInt:       "int",
	TypeBigint:    "bigint",
	TypeCounter:   "counter",
	TypeTimestamp: "timestamp",
	TypeBoolean:   "boolean",
	TypeFloat:     "float",
	TypeDouble:    "double",
	TypeUUID:      "uuid",
	TypeTimeUUID:  "timeuuid",
	TypeBlob:      "blob",
	TypeInet:      "inet",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("cql.Type(%d)", int(t))
}

// ParseType resolves a CQL type name as written in a schema or key input.
func ParseType(name string) (Type, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == lower {
			return t, nil
		}
	}
	return 0, &MalformedKeyError{Reason: fmt.Sprintf("unknown CQL type %q", name)}
}

// TypedValue is one partition key column: its declared type and the textual
// value extracted from a slow-query log entry.
type TypedValue struct {
	Type  Type
	Value string
}
