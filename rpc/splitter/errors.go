package splitter

import (
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// IsNotFound checks whether err is caused by a missing withdrawable balance.
func IsNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), WithdrawableNotFoundError)
}

// WithdrawableOrZero returns withdrawable balance of the account treating
// a missing balance as zero.
func (c *ContractReader) WithdrawableOrZero(account util.Uint160) (*big.Int, error) {
	res, err := c.Withdrawable(account)
	if IsNotFound(err) {
		return new(big.Int), nil
	}

	return res, err
}
