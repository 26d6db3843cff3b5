package deploy

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// DefaultPollInterval is used by Deploy to poll the transaction status when
// Prm.PollInterval is not set.
const DefaultPollInterval = time.Second

// Blockchain groups services provided by particular Neo blockchain network
// that are required for Splitter contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)

	// GetApplicationLog returns execution results of the transaction. It returns
	// error while the transaction is not persisted.
	GetApplicationLog(util.Uint256, *trigger.Type) (*result.ApplicationLog, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the Splitter contract deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It pays for the deployment and determines the contract address.
	LocalAccount *wallet.Account

	Contract CommonDeployPrm

	// Contract owner allowed to change the fee.
	Owner util.Uint160
	// NEP-17 token accepted by the contract.
	PaymentToken util.Uint160
	// Precision of the payment token.
	Decimals uint32
	// Initial fee rate in basis points.
	FeeBasisPoint uint64

	// Transaction status polling interval, DefaultPollInterval if zero.
	PollInterval time.Duration
}

// Deploy deploys Splitter contract to the blockchain given by
// Prm.Blockchain and returns its address. If the contract with the same
// address is already deployed, Deploy does nothing.
//
// Deploy waits for the deployment transaction to be accepted and fails if it
// is not executed successfully or expires. Waiting is aborted by context.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	if prm.Owner.Equals(util.Uint160{}) {
		return util.Uint160{}, errors.New("missing contract owner")
	}
	if prm.PaymentToken.Equals(util.Uint160{}) {
		return util.Uint160{}, errors.New("missing payment token")
	}

	addr := state.CreateContractHash(prm.LocalAccount.ScriptHash(), prm.Contract.NEF.Checksum, prm.Contract.Manifest.Name)
	l := prm.Logger.With(zap.String("contract", prm.Contract.Manifest.Name), zap.Stringer("address", addr))

	_, err := prm.Blockchain.GetContractStateByHash(addr)
	if err == nil {
		l.Info("contract is already deployed, skip")
		return addr, nil
	}
	if !isErrContractNotFound(err) {
		return util.Uint160{}, fmt.Errorf("get state of the contract by address %s: %w", addr, err)
	}

	l.Info("contract is missing on the chain, deploying...")

	simpleLocalActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from single local account: %w", err)
	}

	txHash, vub, err := management.New(simpleLocalActor).Deploy(&prm.Contract.NEF, &prm.Contract.Manifest, deployData(prm))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send transaction deploying the contract: %w", err)
	}

	l.Info("transaction deploying the contract sent, waiting for acceptance...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	interval := prm.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	err = waitForTransaction(ctx, prm.Blockchain, txHash, vub, interval)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("deploy the contract: %w", err)
	}

	l.Info("contract successfully deployed", zap.Stringer("tx", txHash))

	return addr, nil
}

// deployData returns _deploy arguments of the Splitter contract.
func deployData(prm Prm) []any {
	return []any{
		prm.Owner,
		prm.PaymentToken,
		int64(prm.Decimals),
		new(big.Int).SetUint64(prm.FeeBasisPoint),
	}
}

// waitForTransaction polls the application log of the transaction until it
// appears on the chain, the transaction expires or ctx is done.
func waitForTransaction(ctx context.Context, b Blockchain, txHash util.Uint256, vub uint32, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	trig := trigger.Application

	for {
		// block count is read before the log, so the transaction persisted in
		// between is not treated as expired
		blockCount, blockCountErr := b.GetBlockCount()

		appLog, err := b.GetApplicationLog(txHash, &trig)
		if err == nil {
			if len(appLog.Executions) == 0 {
				return fmt.Errorf("transaction %s has no executions", txHash)
			}

			ex := appLog.Executions[0]
			if ex.VMState != vmstate.Halt {
				return fmt.Errorf("transaction %s failed with %s state: %s", txHash, ex.VMState, ex.FaultException)
			}

			return nil
		}

		if blockCountErr == nil && blockCount > vub+1 {
			return fmt.Errorf("transaction %s expired at block %d", txHash, vub)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for transaction %s: %w", txHash, ctx.Err())
		case <-ticker.C:
		}
	}
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}
