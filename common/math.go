package common

import "github.com/nspcc-dev/neo-go/pkg/interop/native/std"

// Bit widths of the unsigned integers handled by contracts. VM integers have
// arbitrary precision, so every width is enforced explicitly.
const (
	Uint32Bits  = 32
	Uint64Bits  = 64
	Uint128Bits = 128
)

// Arithmetic exceptions.
const (
	// ErrOverflow is thrown when the result does not fit into 128 bits.
	ErrOverflow = "arithmetic overflow"
	// ErrUnderflow is thrown when the result would be negative.
	ErrUnderflow = "arithmetic underflow"
	// ErrDivisionByZero is thrown on division by zero.
	ErrDivisionByZero = "division by zero"
)

// MaxUint returns the maximum value of an unsigned integer of the given
// bit width.
func MaxUint(bits int) int {
	return 1<<bits - 1
}

// CheckUintRange panics if v is not a valid unsigned integer of the given
// bit width. The exception is prefixed with "invalid <name>".
func CheckUintRange(v, bits int, name string) {
	if v < 0 || v > MaxUint(bits) {
		panic("invalid " + name + ": " + std.Itoa10(v) + " is out of uint" + std.Itoa10(bits) + " range")
	}
}

// CheckedAdd returns a+b for 128-bit unsigned operands.
func CheckedAdd(a, b int) int {
	res := a + b
	if res > MaxUint(Uint128Bits) {
		panic(ErrOverflow)
	}

	return res
}

// CheckedSub returns a-b for 128-bit unsigned operands.
func CheckedSub(a, b int) int {
	if b > a {
		panic(ErrUnderflow)
	}

	return a - b
}

// CheckedMul returns a*b for 128-bit unsigned operands. Overflow is detected
// before the multiplication, so the intermediate value never leaves 128 bits.
func CheckedMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}

	if b > MaxUint(Uint128Bits)/a {
		panic(ErrOverflow)
	}

	return a * b
}

// CheckedDiv returns a/b truncated toward zero.
func CheckedDiv(a, b int) int {
	if b == 0 {
		panic(ErrDivisionByZero)
	}

	return a / b
}

// CheckedPow returns base^exp for 128-bit unsigned operands.
func CheckedPow(base, exp int) int {
	res := 1
	for i := 0; i < exp; i++ {
		res = CheckedMul(res, base)
	}

	return res
}
