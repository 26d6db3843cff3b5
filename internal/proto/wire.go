package proto

import "github.com/nspcc-dev/neo-go/pkg/interop/native/std"

// MaxFieldNumber is the biggest field number allowed by the protobuf language.
const MaxFieldNumber = 1<<29 - 1

// Wire types in the order of their numeric values, see
// https://protobuf.dev/programming-guides/encoding/#structure.
const (
	FieldTypeVARINT = iota
	FieldTypeI64
	FieldTypeLEN
	FieldTypeSGROUP
	FieldTypeEGROUP
	FieldTypeI32
	firstUnknownFieldType
)

var fieldTypeNames = []string{"VARINT", "I64", "LEN", "SGROUP", "EGROUP", "I32"}

// StringifyFieldType returns the name of the wire type for exception messages.
func StringifyFieldType(typ int) string {
	if typ < 0 || typ >= firstUnknownFieldType {
		return "UNKNOWN#" + std.Itoa10(typ)
	}
	return fieldTypeNames[typ]
}

// CheckFieldType returns non-empty exception if field num has type got
// instead of exp.
func CheckFieldType(num, got, exp int) string {
	if got == exp {
		return ""
	}
	return "wrong type of field #" + std.Itoa10(num) + ": expected " +
		StringifyFieldType(exp) + ", got " + StringifyFieldType(got)
}
