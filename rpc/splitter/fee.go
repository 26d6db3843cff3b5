package splitter

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/splitter-contract/contracts/splitter/splitterconst"
)

// Arithmetic errors mirroring contract exceptions.
var (
	ErrOverflow       = errors.New(splitterconst.ErrOverflow)
	ErrUnderflow      = errors.New(splitterconst.ErrUnderflow)
	ErrDivisionByZero = errors.New(splitterconst.ErrDivisionByZero)
)

// ErrNonPositiveAmount is returned when split amount is not positive.
var ErrNonPositiveAmount = errors.New(splitterconst.ErrNonPositiveAmount)

const maxUint128Decimals = 38

var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Allocation is the result of splitting a payment.
type Allocation struct {
	// Fee kept by the contract.
	Fee *big.Int
	// ShareA is credited to the first receiver.
	ShareA *big.Int
	// ShareB is credited to the second receiver, it's never less than ShareA.
	ShareB *big.Int
}

// ComputeFee calculates the fee taken by the contract from the given amount
// of a token with the given precision. Fee rate is in basis points. Results
// are the same as the contract produces, including overflow conditions.
func ComputeFee(amount *big.Int, decimals uint32, feeBasisPoint uint64) (*big.Int, error) {
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative amount", ErrUnderflow)
	}
	if amount.Cmp(maxUint128) > 0 {
		return nil, ErrOverflow
	}

	// 10^39 is the first power of ten above 2^128-1.
	if decimals > maxUint128Decimals {
		return nil, fmt.Errorf("%w: 10^%d", ErrOverflow, decimals)
	}

	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)

	rate, err := checkedMul(new(big.Int).SetUint64(feeBasisPoint), factor)
	if err != nil {
		return nil, fmt.Errorf("fee rate: %w", err)
	}
	rate.Quo(rate, big.NewInt(BasisPointScale))

	fee, err := checkedMul(amount, rate)
	if err != nil {
		return nil, fmt.Errorf("fee: %w", err)
	}
	return fee.Quo(fee, factor), nil
}

// Split calculates the fee and shares of both receivers for the given
// payment. ShareA + ShareB + Fee is always equal to amount.
func Split(amount *big.Int, decimals uint32, feeBasisPoint uint64) (Allocation, error) {
	if amount.Sign() <= 0 {
		return Allocation{}, ErrNonPositiveAmount
	}

	fee, err := ComputeFee(amount, decimals, feeBasisPoint)
	if err != nil {
		return Allocation{}, err
	}
	if fee.Cmp(amount) > 0 {
		return Allocation{}, fmt.Errorf("%w: fee %s exceeds amount %s", ErrUnderflow, fee, amount)
	}

	afterFee := new(big.Int).Sub(amount, fee)
	shareA := new(big.Int).Rsh(afterFee, 1)

	return Allocation{
		Fee:    fee,
		ShareA: shareA,
		ShareB: afterFee.Sub(afterFee, shareA),
	}, nil
}

func checkedMul(a, b *big.Int) (*big.Int, error) {
	res := new(big.Int).Mul(a, b)
	if res.Cmp(maxUint128) > 0 {
		return nil, ErrOverflow
	}

	return res, nil
}
