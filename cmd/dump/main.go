package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/splitter-contract/rpc/splitter"
)

type balanceInfo struct {
	Account string   `json:"account"`
	Amount  *big.Int `json:"amount"`
}

type storageItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func newStorageItem(key, value []byte) storageItem {
	return storageItem{
		Key:   hex.EncodeToString(key),
		Value: hex.EncodeToString(value),
	}
}

type splitterInfo struct {
	Contract      string        `json:"contract"`
	Block         uint32        `json:"block"`
	Version       *big.Int      `json:"version"`
	Owner         string        `json:"owner"`
	PaymentToken  string        `json:"paymentToken"`
	Decimals      *big.Int      `json:"decimals"`
	FeeBasisPoint *big.Int      `json:"feeBasisPoint"`
	Balances      []balanceInfo `json:"balances"`
	Storage       []storageItem `json:"storage,omitempty"`
}

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractAddr := flag.String("contract", "", "Address or LE script hash of the Splitter contract")
	withStorage := flag.Bool("storage", false, "Also dump raw contract storage at the penult block (requires state service)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractAddr == "":
		log.Fatal("missing Splitter contract address")
	}

	contract, err := parseContract(*contractAddr)
	if err != nil {
		log.Fatal(err)
	}

	info, err := _dump(*neoRPCEndpoint, contract, *withStorage)
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	err = enc.Encode(info)
	if err != nil {
		log.Fatal(fmt.Errorf("encode dump: %w", err))
	}

	log.Printf("Splitter contract %s is successfully dumped at block #%d\n", address.Uint160ToString(contract), info.Block)
}

func parseContract(s string) (util.Uint160, error) {
	res, err := address.StringToUint160(s)
	if err == nil {
		return res, nil
	}

	res, err = util.Uint160DecodeStringLE(s)
	if err != nil {
		return res, fmt.Errorf("invalid contract address '%s': %w", s, err)
	}

	return res, nil
}

func _dump(neoBlockchainRPCEndpoint string, contract util.Uint160, withStorage bool) (*splitterInfo, error) {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	r := splitter.NewReader(b.invoker, contract)
	res := &splitterInfo{
		Contract: address.Uint160ToString(contract),
		Block:    b.currentBlock,
	}

	res.Version, err = r.Version()
	if err != nil {
		return nil, fmt.Errorf("get contract version: %w", err)
	}

	owner, err := r.Owner()
	if err != nil {
		return nil, fmt.Errorf("get contract owner: %w", err)
	}
	res.Owner = address.Uint160ToString(owner)

	token, err := r.PaymentToken()
	if err != nil {
		return nil, fmt.Errorf("get payment token: %w", err)
	}
	res.PaymentToken = token.StringLE()

	res.Decimals, err = r.Decimals()
	if err != nil {
		return nil, fmt.Errorf("get decimals: %w", err)
	}

	res.FeeBasisPoint, err = r.FeeBasisPoint()
	if err != nil {
		return nil, fmt.Errorf("get fee basis point: %w", err)
	}

	log.Println("Processing withdrawable balances...")

	balances, err := r.Balances()
	if err != nil {
		return nil, fmt.Errorf("list withdrawable balances: %w", err)
	}

	for i := range balances {
		res.Balances = append(res.Balances, balanceInfo{
			Account: address.Uint160ToString(balances[i].Account),
			Amount:  balances[i].Amount,
		})
	}

	if withStorage {
		log.Println("Processing contract storage...")

		res.Storage, err = b.contractStorage(contract)
		if err != nil {
			return nil, fmt.Errorf("read contract storage: %w", err)
		}
	}

	return res, nil
}
