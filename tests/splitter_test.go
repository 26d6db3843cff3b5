package tests

import (
	"encoding/json"
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/splitter-contract/common"
	"github.com/nspcc-dev/splitter-contract/contracts/splitter/splitterconst"
	rpcsplitter "github.com/nspcc-dev/splitter-contract/rpc/splitter"
	"github.com/stretchr/testify/require"
)

const (
	splitterPath = "../contracts/splitter"
	tokenPath    = "../internal/testcontracts/nep17token"

	gasDecimals   = 8
	tokenDecimals = 18
)

func deploySplitterContract(t *testing.T, e *neotest.Executor, owner, token util.Uint160, decimals, feeBasisPoint int64) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, splitterPath, path.Join(splitterPath, "config.yml"))
	e.DeployContract(t, c, []any{owner, token, decimals, feeBasisPoint})
	return c.Hash
}

func deployTokenContract(t *testing.T, e *neotest.Executor, owner util.Uint160, supply *big.Int) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	e.DeployContract(t, c, []any{owner, supply})
	return c.Hash
}

type splitterEnv struct {
	e        *neotest.Executor
	splitter *neotest.ContractInvoker
	owner    neotest.Signer
	token    *neotest.ContractInvoker
}

// newGASSplitter deploys Splitter contract accepting native GAS.
func newGASSplitter(t *testing.T, feeBasisPoint int64) splitterEnv {
	e := newExecutor(t)

	gasHash, err := e.Chain.GetNativeContractScriptHash(nativenames.Gas)
	require.NoError(t, err)

	owner := e.NewAccount(t)
	h := deploySplitterContract(t, e, owner.ScriptHash(), gasHash, gasDecimals, feeBasisPoint)

	return splitterEnv{
		e:        e,
		splitter: e.CommitteeInvoker(h),
		owner:    owner,
		token:    e.CommitteeInvoker(gasHash),
	}
}

// newTokenSplitter deploys test token with 18 decimals and Splitter contract
// accepting it. The whole supply belongs to the returned payer.
func newTokenSplitter(t *testing.T, feeBasisPoint int64) (splitterEnv, neotest.Signer) {
	e := newExecutor(t)

	payer := e.NewAccount(t)
	tokenHash := deployTokenContract(t, e, payer.ScriptHash(), tokens(1_000_000, tokenDecimals))

	owner := e.NewAccount(t)
	h := deploySplitterContract(t, e, owner.ScriptHash(), tokenHash, tokenDecimals, feeBasisPoint)

	return splitterEnv{
		e:        e,
		splitter: e.CommitteeInvoker(h),
		owner:    owner,
		token:    e.CommitteeInvoker(tokenHash),
	}, payer
}

// pay transfers amount of payment token from payer to Splitter contract with
// receivers a and b and returns the transaction hash.
func (env splitterEnv) pay(t *testing.T, payer neotest.Signer, amount any, a, b util.Uint160) util.Uint256 {
	return env.token.WithSigners(payer).Invoke(t, true, "transfer",
		payer.ScriptHash(), env.splitter.Hash, amount, rpcsplitter.EncodeReceivers(a, b))
}

func (env splitterEnv) withdrawable(t *testing.T, acc util.Uint160) *big.Int {
	s, err := env.splitter.TestInvoke(t, "withdrawable", acc)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	v, err := s.Pop().Item().TryInteger()
	require.NoError(t, err)
	return v
}

func (env splitterEnv) checkWithdrawable(t *testing.T, acc util.Uint160, expected *big.Int) {
	v := env.withdrawable(t, acc)
	require.Zero(t, expected.Cmp(v), "expected %s, got %s", expected, v)
}

func (env splitterEnv) checkNoWithdrawable(t *testing.T, acc util.Uint160) {
	env.splitter.InvokeFail(t, splitterconst.ErrWithdrawableNotFound, "withdrawable", acc)
}

func (env splitterEnv) checkTokenBalance(t *testing.T, acc util.Uint160, expected *big.Int) {
	s, err := env.token.TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)

	v, err := s.Pop().Item().TryInteger()
	require.NoError(t, err)
	require.Zero(t, expected.Cmp(v), "expected %s, got %s", expected, v)
}

func (env splitterEnv) checkHash(t *testing.T, method string, expected util.Uint160) {
	s, err := env.splitter.TestInvoke(t, method)
	require.NoError(t, err)

	b, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, expected.BytesBE(), b)
}

func TestSplitter_Deploy(t *testing.T) {
	e := newExecutor(t)

	gasHash, err := e.Chain.GetNativeContractScriptHash(nativenames.Gas)
	require.NoError(t, err)

	owner := e.NewAccount(t).ScriptHash()
	c := neotest.CompileFile(t, e.CommitteeHash, splitterPath, path.Join(splitterPath, "config.yml"))

	e.DeployContractCheckFAULT(t, c, []any{[]byte{1, 2, 3}, gasHash, 8, 0}, splitterconst.ErrInvalidOwner)
	e.DeployContractCheckFAULT(t, c, []any{owner, gasHash.BytesBE()[:19], 8, 0}, splitterconst.ErrInvalidPaymentToken)
	e.DeployContractCheckFAULT(t, c, []any{owner, gasHash, -1, 0}, "invalid decimals")
	e.DeployContractCheckFAULT(t, c, []any{owner, gasHash, new(big.Int).Lsh(big.NewInt(1), 32), 0}, "invalid decimals")
	e.DeployContractCheckFAULT(t, c, []any{owner, gasHash, 8, -1}, "invalid fee basis point")
	e.DeployContractCheckFAULT(t, c, []any{owner, gasHash, 8, new(big.Int).Lsh(big.NewInt(1), 64)}, "invalid fee basis point")

	e.DeployContract(t, c, []any{owner, gasHash, 8, 100})

	env := splitterEnv{e: e, splitter: e.CommitteeInvoker(c.Hash)}
	env.checkHash(t, "owner", owner)
	env.checkHash(t, "paymentToken", gasHash)
	env.splitter.Invoke(t, gasDecimals, "decimals")
	env.splitter.Invoke(t, 100, "feeBasisPoint")
	env.splitter.Invoke(t, common.Version, "version")
}

func TestSplitter_SplitTokenPayment(t *testing.T) {
	env, payer := newTokenSplitter(t, 100)
	a, b := env.e.NewAccount(t), env.e.NewAccount(t)

	env.checkNoWithdrawable(t, a.ScriptHash())
	env.checkNoWithdrawable(t, b.ScriptHash())

	h := env.pay(t, payer, tokens(1000, tokenDecimals), a.ScriptHash(), b.ScriptHash())

	env.checkWithdrawable(t, a.ScriptHash(), tokens(495, tokenDecimals))
	env.checkWithdrawable(t, b.ScriptHash(), tokens(495, tokenDecimals))
	env.checkTokenBalance(t, env.splitter.Hash, tokens(1000, tokenDecimals))

	ev := splitEvent(t, env.e, h)
	require.Equal(t, a.ScriptHash(), ev.ReceiverA)
	require.Equal(t, b.ScriptHash(), ev.ReceiverB)
	require.Zero(t, tokens(495, tokenDecimals).Cmp(ev.BalanceA))
	require.Zero(t, tokens(495, tokenDecimals).Cmp(ev.BalanceB))
	require.Zero(t, tokens(10, tokenDecimals).Cmp(ev.Fee))

	expected, err := rpcsplitter.Split(tokens(1000, tokenDecimals), tokenDecimals, 100)
	require.NoError(t, err)
	require.Zero(t, expected.Fee.Cmp(ev.Fee))

	t.Run("withdraw", func(t *testing.T) {
		h := env.splitter.WithSigners(a).Invoke(t, stackitem.Null{}, "withdraw", a.ScriptHash(), tokens(495, tokenDecimals))

		ev := withdrawEvent(t, env.e, h)
		require.Equal(t, a.ScriptHash(), ev.Account)
		require.Zero(t, ev.Remaining.Sign())
		require.Zero(t, tokens(495, tokenDecimals).Cmp(ev.Amount))

		env.checkNoWithdrawable(t, a.ScriptHash())
		env.checkTokenBalance(t, a.ScriptHash(), tokens(495, tokenDecimals))
		env.checkTokenBalance(t, env.splitter.Hash, tokens(505, tokenDecimals))
	})

	t.Run("payout refused", func(t *testing.T) {
		env.token.Invoke(t, stackitem.Null{}, "setPaused", true)

		env.splitter.WithSigners(b).InvokeFail(t, splitterconst.ErrTransferFailed, "withdraw", b.ScriptHash(), 1)
		env.checkWithdrawable(t, b.ScriptHash(), tokens(495, tokenDecimals))

		env.token.Invoke(t, stackitem.Null{}, "setPaused", false)
	})
}

func TestSplitter_SplitRemainder(t *testing.T) {
	env := newGASSplitter(t, 0)
	payer := env.e.NewAccount(t)
	a, b := env.e.NewAccount(t).ScriptHash(), env.e.NewAccount(t).ScriptHash()

	env.pay(t, payer, 101, a, b)
	env.checkWithdrawable(t, a, big.NewInt(50))
	env.checkWithdrawable(t, b, big.NewInt(51))

	t.Run("accumulation", func(t *testing.T) {
		h := env.pay(t, payer, 11, a, b)
		env.checkWithdrawable(t, a, big.NewInt(55))
		env.checkWithdrawable(t, b, big.NewInt(57))

		ev := splitEvent(t, env.e, h)
		require.EqualValues(t, 55, ev.BalanceA.Int64())
		require.EqualValues(t, 57, ev.BalanceB.Int64())
		require.Zero(t, ev.Fee.Sign())
	})

	t.Run("same receiver", func(t *testing.T) {
		c := env.e.NewAccount(t).ScriptHash()

		h := env.pay(t, payer, 101, c, c)
		env.checkWithdrawable(t, c, big.NewInt(101))

		ev := splitEvent(t, env.e, h)
		require.EqualValues(t, 50, ev.BalanceA.Int64())
		require.EqualValues(t, 101, ev.BalanceB.Int64())
	})
}

func TestSplitter_Withdraw(t *testing.T) {
	const gas = 1_0000_0000

	env := newGASSplitter(t, 0)
	payer := env.e.NewAccount(t)
	a, b, c := env.e.NewAccount(t), env.e.NewAccount(t), env.e.NewAccount(t)

	env.pay(t, payer, 10*gas, a.ScriptHash(), b.ScriptHash())
	env.e.CheckGASBalance(t, env.splitter.Hash, big.NewInt(10*gas))

	inv := env.splitter.WithSigners(a)

	inv.InvokeFail(t, splitterconst.ErrNegativeAmount, "withdraw", a.ScriptHash(), -1)
	inv.InvokeFail(t, splitterconst.ErrOverflow, "withdraw", a.ScriptHash(), new(big.Int).Lsh(big.NewInt(1), 128))
	inv.InvokeFail(t, splitterconst.ErrUnderflow, "withdraw", a.ScriptHash(), 5*gas+1)
	inv.InvokeFail(t, splitterconst.ErrInvalidAccount, "withdraw", []byte{1, 2, 3}, 1)
	env.splitter.WithSigners(b).InvokeFail(t, splitterconst.ErrUnauthorized, "withdraw", a.ScriptHash(), 1)
	env.checkWithdrawable(t, a.ScriptHash(), big.NewInt(5*gas))

	h := inv.Invoke(t, stackitem.Null{}, "withdraw", a.ScriptHash(), 2*gas)
	ev := withdrawEvent(t, env.e, h)
	require.EqualValues(t, 3*gas, ev.Remaining.Int64())
	require.EqualValues(t, 2*gas, ev.Amount.Int64())
	env.checkWithdrawable(t, a.ScriptHash(), big.NewInt(3*gas))
	env.e.CheckGASBalance(t, env.splitter.Hash, big.NewInt(8*gas))

	h = inv.Invoke(t, stackitem.Null{}, "withdraw", a.ScriptHash(), 3*gas)
	require.Zero(t, withdrawEvent(t, env.e, h).Remaining.Sign())
	env.checkNoWithdrawable(t, a.ScriptHash())
	env.e.CheckGASBalance(t, env.splitter.Hash, big.NewInt(5*gas))

	inv.InvokeFail(t, splitterconst.ErrWithdrawableNotFound, "withdraw", a.ScriptHash(), 1)
	env.splitter.WithSigners(c).InvokeFail(t, splitterconst.ErrWithdrawableNotFound, "withdraw", c.ScriptHash(), 0)

	t.Run("zero amount", func(t *testing.T) {
		env.splitter.WithSigners(b).Invoke(t, stackitem.Null{}, "withdraw", b.ScriptHash(), 0)
		env.checkWithdrawable(t, b.ScriptHash(), big.NewInt(5*gas))
	})
}

func TestSplitter_Unauthorized(t *testing.T) {
	env := newGASSplitter(t, 100)
	user := env.e.NewAccount(t)
	a, b := env.e.NewAccount(t).ScriptHash(), env.e.NewAccount(t).ScriptHash()

	t.Run("direct notification", func(t *testing.T) {
		env.splitter.WithSigners(user).InvokeFail(t, splitterconst.ErrUnauthorized, "onNEP17Payment",
			user.ScriptHash(), 1000, rpcsplitter.EncodeReceivers(a, b))
		env.checkNoWithdrawable(t, a)
	})

	t.Run("foreign token", func(t *testing.T) {
		tokenHash := deployTokenContract(t, env.e, user.ScriptHash(), tokens(1000, tokenDecimals))
		env.e.CommitteeInvoker(tokenHash).WithSigners(user).InvokeFail(t, splitterconst.ErrUnauthorized, "transfer",
			user.ScriptHash(), env.splitter.Hash, 1000, rpcsplitter.EncodeReceivers(a, b))
		env.checkNoWithdrawable(t, a)
	})

	t.Run("set fee", func(t *testing.T) {
		env.splitter.WithSigners(user).InvokeFail(t, splitterconst.ErrUnauthorized, "setFeeBasisPoint", 0)
		env.splitter.InvokeFail(t, splitterconst.ErrUnauthorized, "setFeeBasisPoint", 0)
		env.splitter.Invoke(t, 100, "feeBasisPoint")
	})
}

func TestSplitter_SetFeeBasisPoint(t *testing.T) {
	env := newGASSplitter(t, 100)
	payer := env.e.NewAccount(t)
	a, b := env.e.NewAccount(t).ScriptHash(), env.e.NewAccount(t).ScriptHash()

	inv := env.splitter.WithSigners(env.owner)
	inv.InvokeFail(t, "invalid fee basis point", "setFeeBasisPoint", -1)
	inv.InvokeFail(t, "invalid fee basis point", "setFeeBasisPoint", new(big.Int).Lsh(big.NewInt(1), 64))

	inv.Invoke(t, stackitem.Null{}, "setFeeBasisPoint", 250)
	env.splitter.Invoke(t, 250, "feeBasisPoint")
	env.checkHash(t, "owner", env.owner.ScriptHash())
	env.splitter.Invoke(t, gasDecimals, "decimals")

	h := env.pay(t, payer, 10_0000_0000, a, b)
	require.EqualValues(t, 2500_0000, splitEvent(t, env.e, h).Fee.Int64())
	env.checkWithdrawable(t, a, big.NewInt(4_8750_0000))
	env.checkWithdrawable(t, b, big.NewInt(4_8750_0000))

	t.Run("whole amount", func(t *testing.T) {
		c, d := env.e.NewAccount(t).ScriptHash(), env.e.NewAccount(t).ScriptHash()
		inv.Invoke(t, stackitem.Null{}, "setFeeBasisPoint", rpcsplitter.BasisPointScale)

		h := env.pay(t, payer, 1000, c, d)
		ev := splitEvent(t, env.e, h)
		require.EqualValues(t, 1000, ev.Fee.Int64())
		require.Zero(t, ev.BalanceA.Sign())
		require.Zero(t, ev.BalanceB.Sign())
		env.checkNoWithdrawable(t, c)
		env.checkNoWithdrawable(t, d)
	})

	t.Run("above whole amount", func(t *testing.T) {
		inv.Invoke(t, stackitem.Null{}, "setFeeBasisPoint", 2*rpcsplitter.BasisPointScale)

		env.token.WithSigners(payer).InvokeFail(t, splitterconst.ErrUnderflow, "transfer",
			payer.ScriptHash(), env.splitter.Hash, 1000, rpcsplitter.EncodeReceivers(a, b))
		env.checkWithdrawable(t, a, big.NewInt(4_8750_0000))
	})
}

func TestSplitter_InvalidPayment(t *testing.T) {
	env := newGASSplitter(t, 100)
	payer := env.e.NewAccount(t)
	a, b := env.e.NewAccount(t).ScriptHash(), env.e.NewAccount(t).ScriptHash()

	transferFail := func(t *testing.T, msg string, amount int64, data any) {
		env.token.WithSigners(payer).InvokeFail(t, msg, "transfer",
			payer.ScriptHash(), env.splitter.Hash, amount, data)
	}

	valid := rpcsplitter.EncodeReceivers(a, b)

	transferFail(t, splitterconst.ErrNonPositiveAmount, 0, valid)
	transferFail(t, splitterconst.ErrInvalidPayload, 1000, nil)
	transferFail(t, splitterconst.ErrInvalidPayload, 1000, []byte{0xff})
	transferFail(t, splitterconst.ErrInvalidPayload, 1000, append(valid, 0x1a, 0x01, 0x00))
	transferFail(t, splitterconst.ErrInvalidPayload, 1000, append(valid, 0x08, 0x01))
	transferFail(t, splitterconst.ErrInvalidPayload, 1000, valid[:30])
	// field #200 key takes two varint bytes
	transferFail(t, splitterconst.ErrInvalidPayload+": unknown field #200", 1000, append(valid, 0xc2, 0x0c, 0x00))
	transferFail(t, splitterconst.ErrInvalidPayload, 1000, []any{a.BytesBE(), b.BytesBE()})
	transferFail(t, splitterconst.ErrInvalidPayload, 1000, []any{valid})
	transferFail(t, splitterconst.ErrInvalidReceiver, 1000, valid[:2+20])
	transferFail(t, splitterconst.ErrInvalidReceiver, 1000, []byte{})

	short := append([]byte{0x0a, 19}, a.BytesBE()[:19]...)
	short = append(short, valid[22:]...)
	transferFail(t, splitterconst.ErrInvalidReceiver, 1000, short)

	env.checkNoWithdrawable(t, a)
	env.checkNoWithdrawable(t, b)
	env.e.CheckGASBalance(t, env.splitter.Hash, big.NewInt(0))

	t.Run("reversed fields", func(t *testing.T) {
		reversed := append(append([]byte{}, valid[22:]...), valid[:22]...)
		env.token.WithSigners(payer).Invoke(t, true, "transfer",
			payer.ScriptHash(), env.splitter.Hash, 1000, reversed)

		env.checkWithdrawable(t, a, big.NewInt(495))
		env.checkWithdrawable(t, b, big.NewInt(495))
	})
}

func TestSplitter_FeeOverflow(t *testing.T) {
	for _, tc := range []struct {
		name          string
		decimals      any
		feeBasisPoint int64
		amount        int64
	}{
		{"scale above 128 bits", 39, 1, 1000},
		{"max decimals", int64(^uint32(0)), 0, 1000},
		{"rate above 128 bits", 38, rpcsplitter.BasisPointScale, 1000},
		{"fee above 128 bits", 30, rpcsplitter.BasisPointScale, 1_000_000_000},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := newExecutor(t)

			gasHash, err := e.Chain.GetNativeContractScriptHash(nativenames.Gas)
			require.NoError(t, err)

			c := neotest.CompileFile(t, e.CommitteeHash, splitterPath, path.Join(splitterPath, "config.yml"))
			e.DeployContract(t, c, []any{e.NewAccount(t).ScriptHash(), gasHash, tc.decimals, tc.feeBasisPoint})

			env := splitterEnv{e: e, splitter: e.CommitteeInvoker(c.Hash), token: e.CommitteeInvoker(gasHash)}
			payer := e.NewAccount(t)
			a, b := e.NewAccount(t).ScriptHash(), e.NewAccount(t).ScriptHash()

			env.token.WithSigners(payer).InvokeFail(t, splitterconst.ErrOverflow, "transfer",
				payer.ScriptHash(), c.Hash, tc.amount, rpcsplitter.EncodeReceivers(a, b))

			env.checkNoWithdrawable(t, a)
			env.checkNoWithdrawable(t, b)
			e.CheckGASBalance(t, c.Hash, big.NewInt(0))
		})
	}
}

func TestSplitter_IterateWithdrawable(t *testing.T) {
	env := newGASSplitter(t, 0)
	payer := env.e.NewAccount(t)
	a, b := env.e.NewAccount(t).ScriptHash(), env.e.NewAccount(t).ScriptHash()

	list := func(t *testing.T) map[util.Uint160]int64 {
		s, err := env.splitter.TestInvoke(t, "iterateWithdrawable")
		require.NoError(t, err)

		iter := s.Pop().Value().(*storage.Iterator)
		res := make(map[util.Uint160]int64)
		for _, item := range iteratorToArray(iter) {
			kv := item.Value().([]stackitem.Item)
			require.Len(t, kv, 2)

			key, err := kv[0].TryBytes()
			require.NoError(t, err)
			acc, err := util.Uint160DecodeBytesBE(key)
			require.NoError(t, err)

			v, err := kv[1].TryInteger()
			require.NoError(t, err)
			res[acc] = v.Int64()
		}
		return res
	}

	require.Empty(t, list(t))

	env.pay(t, payer, 101, a, b)
	require.Equal(t, map[util.Uint160]int64{a: 50, b: 51}, list(t))
}

func TestSplitter_Update(t *testing.T) {
	env := newGASSplitter(t, 0)

	c := neotest.CompileFile(t, env.e.CommitteeHash, splitterPath, path.Join(splitterPath, "config.yml"))
	rawNEF, err := c.NEF.Bytes()
	require.NoError(t, err)
	rawManifest, err := json.Marshal(c.Manifest)
	require.NoError(t, err)

	env.splitter.InvokeFail(t, splitterconst.ErrUnauthorized, "update", rawNEF, rawManifest, nil)
	env.splitter.WithSigners(env.e.NewAccount(t)).InvokeFail(t, splitterconst.ErrUnauthorized, "update", rawNEF, rawManifest, nil)
	env.splitter.WithSigners(env.owner).InvokeFail(t, common.ErrAlreadyUpdated, "update", rawNEF, rawManifest, nil)
}
