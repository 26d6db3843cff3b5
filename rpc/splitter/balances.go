package splitter

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// traverseBatch is the number of items fetched from the iterator session at
// once.
const traverseBatch = 100

// Balance is a withdrawable balance of an account.
type Balance struct {
	Account util.Uint160
	Amount  *big.Int
}

// Balances returns all withdrawable balances stored in the contract. It
// requires RPC server with sessions enabled.
func (c *ContractReader) Balances() ([]Balance, error) {
	sid, iter, err := c.IterateWithdrawable()
	if err != nil {
		return nil, fmt.Errorf("open withdrawable iterator: %w", err)
	}
	defer func() { _ = c.invoker.TerminateSession(sid) }()

	var res []Balance
	items, err := c.invoker.TraverseIterator(sid, &iter, traverseBatch)
	for ; err == nil && len(items) > 0; items, err = c.invoker.TraverseIterator(sid, &iter, traverseBatch) {
		for _, item := range items {
			b, err := balanceFromStackItem(item)
			if err != nil {
				return nil, fmt.Errorf("invalid balance #%d: %w", len(res), err)
			}
			res = append(res, b)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("traverse withdrawable iterator: %w", err)
	}

	return res, nil
}

func balanceFromStackItem(item stackitem.Item) (Balance, error) {
	kv, ok := item.Value().([]stackitem.Item)
	if !ok || len(kv) != 2 {
		return Balance{}, errors.New("not a key-value pair")
	}

	key, err := kv[0].TryBytes()
	if err != nil {
		return Balance{}, fmt.Errorf("key: %w", err)
	}

	account, err := util.Uint160DecodeBytesBE(key)
	if err != nil {
		return Balance{}, fmt.Errorf("account: %w", err)
	}

	amount, err := kv[1].TryInteger()
	if err != nil {
		return Balance{}, fmt.Errorf("amount: %w", err)
	}

	return Balance{Account: account, Amount: amount}, nil
}
