package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

const rpcTimeout = 15 * time.Second

// remoteBlockchain is a read-only view of the Neo network the Splitter
// contract is deployed to.
type remoteBlockchain struct {
	rpc     *rpcclient.Client
	invoker *invoker.Invoker

	// height at which the view was opened
	currentBlock uint32
}

func newRemoteBlockChain(endpoint string) (*remoteBlockchain, error) {
	c, err := rpcclient.New(context.Background(), endpoint, rpcclient.Options{
		DialTimeout:    rpcTimeout,
		RequestTimeout: rpcTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	b := &remoteBlockchain{rpc: c}

	err = c.Init()
	if err == nil {
		b.currentBlock, err = c.GetBlockCount()
	}
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	b.invoker = invoker.New(c, nil)

	return b, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// contractStorage returns raw storage of the contract as of the state root of
// the penultimate block (the latest one may be not validated yet). Requires
// state service on the RPC node.
func (x *remoteBlockchain) contractStorage(contract util.Uint160) ([]storageItem, error) {
	height := x.currentBlock - 1

	stateRoot, err := x.rpc.GetStateRootByHeight(height)
	if err != nil {
		return nil, fmt.Errorf("get state root at block #%d: %w", height, err)
	}

	var (
		res   []storageItem
		start []byte
	)

	for {
		page, err := x.rpc.FindStates(stateRoot.Root, contract, nil, start, nil)
		if err != nil {
			return nil, fmt.Errorf("find states at root %s: %w", stateRoot.Root.StringLE(), err)
		}

		for _, kv := range page.Results {
			res = append(res, newStorageItem(kv.Key, kv.Value))
		}

		if !page.Truncated || len(page.Results) == 0 {
			return res, nil
		}

		start = page.Results[len(page.Results)-1].Key
	}
}
