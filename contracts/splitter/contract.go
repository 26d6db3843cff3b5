package splitter

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/splitter-contract/common"
	"github.com/nspcc-dev/splitter-contract/contracts/splitter/splitterconst"
	"github.com/nspcc-dev/splitter-contract/internal/proto"
)

// Config is the contract configuration set at deployment.
type Config struct {
	// Contract owner, the only one allowed to change the fee.
	Owner interop.Hash160
	// NEP-17 token accepted for splitting and paid out on withdrawal.
	PaymentToken interop.Hash160
	// Precision of the payment token.
	Decimals int
	// Fee rate in hundredths of a percent.
	FeeBasisPoint int
}

const (
	configKey          = "config"
	withdrawablePrefix = 'w'
)

// Leading bytes of std.Serialize output for primitive stack items.
const (
	itemTypeBoolean    = 0x20
	itemTypeInteger    = 0x21
	itemTypeByteString = 0x28
	itemTypeBuffer     = 0x30
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner         interop.Hash160
		paymentToken  interop.Hash160
		decimals      int
		feeBasisPoint int
	})

	checkAccount(args.owner, splitterconst.ErrInvalidOwner)
	checkAccount(args.paymentToken, splitterconst.ErrInvalidPaymentToken)
	common.CheckUintRange(args.decimals, common.Uint32Bits, "decimals")
	common.CheckUintRange(args.feeBasisPoint, common.Uint64Bits, "fee basis point")

	common.SetSerialized(ctx, configKey, Config{
		Owner:         args.owner,
		PaymentToken:  args.paymentToken,
		Decimals:      args.decimals,
		FeeBasisPoint: args.feeBasisPoint,
	})

	runtime.Log("splitter contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	common.CheckWitness(getConfig(ctx).Owner)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("splitter contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible payment token contract.
// It splits received amount net of the fee between two receivers set in data
// and makes their shares withdrawable. Transfers of any other token are
// rejected.
//
// Data must be a protobuf-encoded receiver instruction, see
// [splitterconst.FieldReceiverA]. The first receiver gets the floor half of
// the amount after fee, the second one gets the rest.
//
// This method produces Split notification.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	cfg := getConfig(ctx)

	common.CheckCaller(cfg.PaymentToken)

	if amount <= 0 {
		panic(splitterconst.ErrNonPositiveAmount)
	}
	if amount > common.MaxUint(common.Uint128Bits) {
		panic(common.ErrOverflow)
	}

	receiverA, receiverB := decodeReceivers(data)

	fee := common.ComputeFee(amount, cfg.Decimals, cfg.FeeBasisPoint)
	afterFee := common.CheckedSub(amount, fee)
	shareA := afterFee / 2
	shareB := afterFee - shareA

	balanceA := credit(ctx, receiverA, shareA)
	balanceB := credit(ctx, receiverB, shareB)

	runtime.Notify("Split", receiverA, balanceA, receiverB, balanceB, fee)
}

// Withdraw pays out the given amount of payment token from the withdrawable
// balance of the account. It can be invoked only by the account owner.
// Account record is removed once the balance becomes zero.
//
// This method produces Withdraw notification.
func Withdraw(account interop.Hash160, amount int) {
	checkAccount(account, splitterconst.ErrInvalidAccount)
	common.CheckWitness(account)

	if amount < 0 {
		panic(splitterconst.ErrNegativeAmount)
	}
	if amount > common.MaxUint(common.Uint128Bits) {
		panic(common.ErrOverflow)
	}

	ctx := storage.GetContext()
	cfg := getConfig(ctx)

	remaining := debit(ctx, account, amount)

	runtime.Notify("Withdraw", account, remaining, amount)

	transferred := contract.Call(cfg.PaymentToken, "transfer", contract.All,
		runtime.GetExecutingScriptHash(), account, amount, nil).(bool)
	if !transferred {
		panic(splitterconst.ErrTransferFailed)
	}
}

// SetFeeBasisPoint sets a new fee rate in basis points. It can be invoked
// only by the contract owner. The rate is not limited by 100%, but splitting
// fails with an underflow exception while it is above.
func SetFeeBasisPoint(feeBasisPoint int) {
	ctx := storage.GetContext()
	cfg := getConfig(ctx)

	common.CheckWitness(cfg.Owner)
	common.CheckUintRange(feeBasisPoint, common.Uint64Bits, "fee basis point")

	cfg.FeeBasisPoint = feeBasisPoint
	common.SetSerialized(ctx, configKey, cfg)
}

// Owner returns the contract owner.
func Owner() interop.Hash160 {
	return getConfig(storage.GetReadOnlyContext()).Owner
}

// PaymentToken returns address of the accepted NEP-17 token contract.
func PaymentToken() interop.Hash160 {
	return getConfig(storage.GetReadOnlyContext()).PaymentToken
}

// Decimals returns precision of the payment token used in fee computation.
func Decimals() int {
	return getConfig(storage.GetReadOnlyContext()).Decimals
}

// FeeBasisPoint returns the current fee rate in basis points.
func FeeBasisPoint() int {
	return getConfig(storage.GetReadOnlyContext()).FeeBasisPoint
}

// Withdrawable returns withdrawable balance of the account. It panics with
// [splitterconst.ErrWithdrawableNotFound] if there is no balance, zero is
// never returned.
func Withdrawable(account interop.Hash160) int {
	checkAccount(account, splitterconst.ErrInvalidAccount)
	return getWithdrawable(storage.GetReadOnlyContext(), account)
}

// IterateWithdrawable returns iterator over all withdrawable balances.
// Iteration is through key-value pair, where key is account address, value
// is its balance.
func IterateWithdrawable() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{withdrawablePrefix}, storage.RemovePrefix)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getConfig(ctx storage.Context) Config {
	cfg := common.GetSerialized(ctx, configKey)
	if cfg == nil {
		panic(splitterconst.ErrConfigNotFound)
	}

	return cfg.(Config)
}

func withdrawableKey(account interop.Hash160) []byte {
	return append([]byte{withdrawablePrefix}, account...)
}

func getWithdrawable(ctx storage.Context, account interop.Hash160) int {
	data := storage.Get(ctx, withdrawableKey(account))
	if data == nil {
		panic(splitterconst.ErrWithdrawableNotFound)
	}

	return data.(int)
}

// credit adds amount to the withdrawable balance of the account and returns
// the new balance. Zero balances are not stored.
func credit(ctx storage.Context, account interop.Hash160, amount int) int {
	key := withdrawableKey(account)

	balance := 0
	data := storage.Get(ctx, key)
	if data != nil {
		balance = data.(int)
	}

	balance = common.CheckedAdd(balance, amount)
	if balance != 0 {
		storage.Put(ctx, key, balance)
	}

	return balance
}

// debit subtracts amount from the withdrawable balance of the account and
// returns the rest. Record is deleted when nothing remains.
func debit(ctx storage.Context, account interop.Hash160, amount int) int {
	key := withdrawableKey(account)

	remaining := common.CheckedSub(getWithdrawable(ctx, account), amount)
	if remaining == 0 {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, remaining)
	}

	return remaining
}

// decodeReceivers decodes receiver instruction from NEP-17 transfer data.
func decodeReceivers(data any) (interop.Hash160, interop.Hash160) {
	if data == nil {
		panic(splitterconst.ErrInvalidPayload + ": missing receivers")
	}

	var (
		payload   = payloadBytes(data)
		receiverA interop.Hash160
		receiverB interop.Hash160
	)

	for off := 0; off < len(payload); {
		num, val, n, e := proto.ReadFieldLEN(payload[off:])
		if e != "" {
			panic(splitterconst.ErrInvalidPayload + ": " + e)
		}
		off += n

		switch num {
		case splitterconst.FieldReceiverA:
			receiverA = val
		case splitterconst.FieldReceiverB:
			receiverB = val
		default:
			panic(splitterconst.ErrInvalidPayload + ": unknown field #" + std.Itoa10(num))
		}
	}

	checkAccount(receiverA, splitterconst.ErrInvalidReceiver)
	checkAccount(receiverB, splitterconst.ErrInvalidReceiver)

	return receiverA, receiverB
}

// payloadBytes returns transfer data as a byte string. Data of compound types
// can't be converted and is rejected.
func payloadBytes(data any) []byte {
	switch std.Serialize(data)[0] {
	case itemTypeBoolean, itemTypeInteger, itemTypeByteString, itemTypeBuffer:
		return data.([]byte)
	default:
		panic(splitterconst.ErrInvalidPayload + ": unsupported data type")
	}
}

func checkAccount(account interop.Hash160, exception string) {
	if len(account) != interop.Hash160Len {
		panic(exception)
	}
}
