package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/splitter-contract/contracts"
	"github.com/nspcc-dev/splitter-contract/deploy"
	"go.uber.org/zap"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	walletPath := flag.String("wallet", "", "Path to the wallet with the account paying for deployment")
	accAddr := flag.String("address", "", "Address of the wallet account (default change address)")
	password := flag.String("password", "", "Password of the wallet account")
	contractsDir := flag.String("contracts", ".", "Directory with splitter/contract.nef and splitter/manifest.json")
	owner := flag.String("owner", "", "Address of the contract owner")
	token := flag.String("token", "", "Address or LE script hash of the NEP-17 payment token")
	decimals := flag.Uint("decimals", 8, "Precision of the payment token")
	fee := flag.Uint64("fee", 0, "Fee rate in basis points")
	timeout := flag.Duration("timeout", 2*time.Minute, "Deployment timeout")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *walletPath == "":
		log.Fatal("missing wallet")
	case *owner == "":
		log.Fatal("missing contract owner")
	case *token == "":
		log.Fatal("missing payment token")
	case uint64(*decimals) > uint64(^uint32(0)):
		log.Fatal("decimals out of uint32 range")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(fmt.Errorf("init logger: %w", err))
	}
	defer func() { _ = logger.Sync() }()

	err = runWithSignals(logger, *timeout, runPrm{
		rpcEndpoint:   *neoRPCEndpoint,
		walletPath:    *walletPath,
		address:       *accAddr,
		password:      *password,
		contractsDir:  *contractsDir,
		owner:         *owner,
		token:         *token,
		decimals:      uint32(*decimals),
		feeBasisPoint: *fee,
	})
	if err != nil {
		logger.Error("deployment failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// shutdownSignals interrupt the deployment.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// runWithSignals runs deployment until it's done, timeout passes or one of
// shutdownSignals is received.
func runWithSignals(logger *zap.Logger, timeout time.Duration, prm runPrm) error {
	ctx, cancel := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	return run(ctx, logger, prm)
}

type runPrm struct {
	rpcEndpoint   string
	walletPath    string
	address       string
	password      string
	contractsDir  string
	owner         string
	token         string
	decimals      uint32
	feeBasisPoint uint64
}

func run(ctx context.Context, logger *zap.Logger, prm runPrm) error {
	ownerAcc, err := address.StringToUint160(prm.owner)
	if err != nil {
		return fmt.Errorf("invalid owner address: %w", err)
	}

	token, err := parseContract(prm.token)
	if err != nil {
		return err
	}

	acc, err := openAccount(prm.walletPath, prm.address, prm.password)
	if err != nil {
		return err
	}

	ctr, err := contracts.ReadDir(prm.contractsDir)
	if err != nil {
		return fmt.Errorf("read contract artifacts: %w", err)
	}

	c, err := rpcclient.New(ctx, prm.rpcEndpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("RPC client dial: %w", err)
	}
	defer c.Close()

	err = c.Init()
	if err != nil {
		return fmt.Errorf("RPC client init: %w", err)
	}

	addr, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:       logger,
		Blockchain:   c,
		LocalAccount: acc,
		Contract: deploy.CommonDeployPrm{
			NEF:      ctr.NEF,
			Manifest: ctr.Manifest,
		},
		Owner:         ownerAcc,
		PaymentToken:  token,
		Decimals:      prm.decimals,
		FeeBasisPoint: prm.feeBasisPoint,
	})
	if err != nil {
		return err
	}

	logger.Info("Splitter contract is ready",
		zap.String("address", address.Uint160ToString(addr)),
		zap.String("hash", addr.StringLE()))

	return nil
}

func openAccount(walletPath, addr, password string) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(walletPath)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	h := w.GetChangeAddress()
	if addr != "" {
		h, err = address.StringToUint160(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}
	}

	acc := w.GetAccount(h)
	if acc == nil {
		return nil, errors.New("account is missing in the wallet")
	}

	err = acc.Decrypt(password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
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
