package common

// BasisPointScale is the amount of basis points in 100%.
const BasisPointScale = 10_000

// ComputeFee returns the fee charged from amount of token atomic units with
// the given precision at the given rate in basis points. Rate is converted to
// the fixed point with 10^decimals scale first, both steps truncate.
//
// Panics with ErrOverflow or ErrDivisionByZero.
func ComputeFee(amount, decimals, feeBasisPoint int) int {
	factor := CheckedPow(10, decimals)
	rate := CheckedDiv(CheckedMul(feeBasisPoint, factor), BasisPointScale)

	return CheckedDiv(CheckedMul(amount, rate), factor)
}
