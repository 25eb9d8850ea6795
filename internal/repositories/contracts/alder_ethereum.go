package contracts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alder-protocol/mrv-dashboard/internal/interfaces"
	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrNoContract   = errors.New("contract handle is not initialized")
	ErrTxSend       = errors.New("cannot send transaction")
	ErrTxWait       = errors.New("cannot wait for transaction")
	ErrTxReverted   = errors.New("transaction reverted")
	ErrCallFailed   = errors.New("contract call failed")
	ErrNoTransactor = errors.New("no transactor available")
)

// TransactorFunc returns signing options for the currently selected account
type TransactorFunc func(ctx context.Context) (*bind.TransactOpts, error)

// ContractHandle is a contract bound to the connected account
type ContractHandle interface {
	Transact(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error)
	Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error)
	Address() common.Address
	From() common.Address
}

type Alder struct {
	// config
	address   common.Address
	from      common.Address
	legacyTx  bool
	txTimeout time.Duration

	// deps
	abi        *abi.ABI
	contract   *bind.BoundContract
	client     EthereumClient
	transactor TransactorFunc
	log        interfaces.ILogger
}

func NewAlder(address common.Address, from common.Address, client EthereumClient, transactor TransactorFunc, legacyTx bool, txTimeout time.Duration, log interfaces.ILogger) (*Alder, error) {
	contractABI, err := AlderMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	if transactor == nil {
		return nil, ErrNoTransactor
	}

	return &Alder{
		address:    address,
		from:       from,
		legacyTx:   legacyTx,
		txTimeout:  txTimeout,
		abi:        contractABI,
		contract:   bind.NewBoundContract(address, *contractABI, client, client, client),
		client:     client,
		transactor: transactor,
		log:        log,
	}, nil
}

func (a *Alder) Address() common.Address {
	return a.address
}

func (a *Alder) From() common.Address {
	return a.from
}

// Transact submits a state changing call and waits until it is mined
func (a *Alder) Transact(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error) {
	if a == nil {
		return nil, ErrNoContract
	}

	if a.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.txTimeout)
		defer cancel()
	}

	opts, err := a.getTransactOpts(ctx)
	if err != nil {
		return nil, lib.WrapError(ErrTxSend, err)
	}

	tx, err := a.contract.Transact(opts, method, args...)
	if err != nil {
		return nil, lib.WrapError(ErrTxSend, err)
	}
	a.log.Debugf("sent %s tx %s", method, tx.Hash().Hex())

	receipt, err := bind.WaitMined(ctx, a.client, tx)
	if err != nil {
		return nil, lib.WrapError(ErrTxWait, err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s tx %s", ErrTxReverted, method, tx.Hash().Hex())
	}

	a.log.Debugf("%s tx %s mined in block %s", method, tx.Hash().Hex(), receipt.BlockNumber)
	return receipt, nil
}

// Call performs a read-only contract call on behalf of the connected account
func (a *Alder) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	if a == nil {
		return nil, ErrNoContract
	}

	var out []interface{}
	err := a.contract.Call(&bind.CallOpts{Context: ctx, From: a.from}, &out, method, args...)
	if err != nil {
		return nil, lib.WrapError(ErrCallFailed, err)
	}
	return out, nil
}

func (a *Alder) getTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := a.transactor(ctx)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx

	if a.legacyTx {
		gasPrice, err := a.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}
		opts.GasPrice = gasPrice
	}

	return opts, nil
}
