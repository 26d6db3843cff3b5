package tests

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	rpcsplitter "github.com/nspcc-dev/splitter-contract/rpc/splitter"
	"github.com/stretchr/testify/require"
)

func iteratorToArray(iter *storage.Iterator) []stackitem.Item {
	stackItems := make([]stackitem.Item, 0)
	for iter.Next() {
		stackItems = append(stackItems, iter.Value())
	}
	return stackItems
}

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// tokens returns n whole tokens in atomic units.
func tokens(n int64, decimals int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(decimals), nil))
}

// appLog wraps execution result of the transaction into the RPC application
// log to be parsed by contract bindings.
func appLog(t *testing.T, e *neotest.Executor, h util.Uint256) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:  h,
		Executions: []state.Execution{e.GetTxExecResult(t, h).Execution},
	}
}

func splitEvent(t *testing.T, e *neotest.Executor, h util.Uint256) *rpcsplitter.SplitEvent {
	evs, err := rpcsplitter.SplitEventsFromApplicationLog(appLog(t, e, h))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	return evs[0]
}

func withdrawEvent(t *testing.T, e *neotest.Executor, h util.Uint256) *rpcsplitter.WithdrawEvent {
	evs, err := rpcsplitter.WithdrawEventsFromApplicationLog(appLog(t, e, h))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	return evs[0]
}
