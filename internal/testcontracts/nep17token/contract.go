package nep17token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	decimals = 18

	totalSupplyKey = "totalSupply"
	pausedKey      = "paused"
	balancePrefix  = 'b'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.(struct {
		owner  interop.Hash160
		supply int
	})

	ctx := storage.GetContext()
	storage.Put(ctx, totalSupplyKey, args.supply)
	setBalance(ctx, args.owner, args.supply)
}

func Symbol() string {
	return "TST"
}

func Decimals() int {
	return decimals
}

func TotalSupply() int {
	return storage.Get(storage.GetReadOnlyContext(), totalSupplyKey).(int)
}

func BalanceOf(account interop.Hash160) int {
	return getBalance(storage.GetReadOnlyContext(), account)
}

// SetPaused makes all subsequent transfers fail softly.
func SetPaused(paused bool) {
	ctx := storage.GetContext()
	if paused {
		storage.Put(ctx, pausedKey, true)
	} else {
		storage.Delete(ctx, pausedKey)
	}
}

func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("invalid address")
	}
	if amount < 0 {
		panic("negative amount")
	}

	ctx := storage.GetContext()
	if storage.Get(ctx, pausedKey) != nil {
		return false
	}
	if !runtime.CheckWitness(from) {
		return false
	}

	fromBalance := getBalance(ctx, from)
	if fromBalance < amount {
		return false
	}
	setBalance(ctx, from, fromBalance-amount)
	setBalance(ctx, to, getBalance(ctx, to)+amount)

	runtime.Notify("Transfer", from, to, amount)

	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}

	return true
}

func getBalance(ctx storage.Context, account interop.Hash160) int {
	val := storage.Get(ctx, append([]byte{balancePrefix}, account...))
	if val == nil {
		return 0
	}
	return val.(int)
}

func setBalance(ctx storage.Context, account interop.Hash160, amount int) {
	key := append([]byte{balancePrefix}, account...)
	if amount == 0 {
		storage.Delete(ctx, key)
		return
	}
	storage.Put(ctx, key, amount)
}
