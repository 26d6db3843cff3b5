package proto

import "github.com/nspcc-dev/neo-go/pkg/interop/native/std"

const (
	maxVarintLen = 10

	errVarintOverflow = "varint overflow"
	errUnexpectedEnd  = "unexpected end of protobuf message"
)

// ReadTag reads the key of the next field from b. Returns field number, wire
// type, number of bytes consumed and exception.
func ReadTag(b []byte) (int, int, int, string) {
	key, n, e := uvarint(b)
	if e != "" {
		return 0, 0, 0, e
	}

	num, typ := key>>3, key&7
	if num == 0 || num > MaxFieldNumber {
		return 0, 0, 0, "invalid/unsupported protobuf field num " + std.Itoa10(int(num))
	}
	if typ >= firstUnknownFieldType {
		return 0, 0, 0, "invalid/unsupported protobuf field type " + std.Itoa10(int(typ))
	}

	return int(num), int(typ), n, ""
}

// ReadSizeLEN reads the length prefix of [FieldTypeLEN] value from b. Returns
// the length, number of bytes consumed by the prefix and exception.
func ReadSizeLEN(b []byte) (int, int, string) {
	size, n, e := uvarint(b)
	if e != "" {
		return 0, 0, e
	}

	if rest := uint64(len(b) - n); size > rest {
		return 0, 0, "too big field len " + std.Itoa10(int(size)) + ", remaining " + std.Itoa10(int(rest))
	}

	return int(size), n, ""
}

// ReadBytes reads [FieldTypeLEN] value from b. Returns the value, number of
// bytes consumed (length prefix included) and exception.
func ReadBytes(b []byte) ([]byte, int, string) {
	size, n, e := ReadSizeLEN(b)
	if e != "" {
		return nil, 0, e
	}

	return b[n : n+size], n + size, ""
}

// ReadFieldLEN reads the next field from b requiring it to be of
// [FieldTypeLEN] type. Returns field number, its value, number of bytes
// consumed and exception.
func ReadFieldLEN(b []byte) (int, []byte, int, string) {
	num, typ, n, e := ReadTag(b)
	if e != "" {
		return 0, nil, 0, e
	}

	e = CheckFieldType(num, typ, FieldTypeLEN)
	if e != "" {
		return 0, nil, 0, e
	}

	val, m, e := ReadBytes(b[n:])
	if e != "" {
		return 0, nil, 0, e
	}

	return num, val, n + m, ""
}

func uvarint(b []byte) (uint64, int, string) {
	var x uint64

	for i := 0; i < len(b); i++ {
		if i == maxVarintLen {
			return 0, 0, errVarintOverflow
		}

		c := b[i]
		if c < 0x80 {
			// The 10th byte may only carry the highest bit of uint64.
			if i == maxVarintLen-1 && c > 1 {
				return 0, 0, errVarintOverflow
			}
			return x | uint64(c)<<(7*uint(i)), i + 1, ""
		}

		x = x | uint64(c&0x7f)<<(7*uint(i))
	}

	return 0, 0, errUnexpectedEnd
}
