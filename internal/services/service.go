package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/alder-protocol/mrv-dashboard/internal/interfaces"
	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrNoContract  = errors.New("contract is not connected")
	ErrEmptyResult = errors.New("empty call result")
	ErrDecode      = errors.New("cannot decode call result")
)

// CallError is the error returned by every contract function, Op holds the contract method
type CallError = lib.KindError

// Service exposes one function per contract method. Every function takes the handle
// explicitly so callers control which account signs
type Service struct {
	log interfaces.ILogger
}

func NewService(log interfaces.ILogger) *Service {
	return &Service{log: log}
}

func transact(ctx context.Context, s *Service, handle contracts.ContractHandle, method string, args ...interface{}) (*types.Receipt, error) {
	if isNilHandle(handle) {
		s.log.Warnf("%s skipped: %s", method, ErrNoContract)
		return nil, lib.NewKindError(lib.KindMissingPrecondition, method, ErrNoContract)
	}

	start := time.Now()
	receipt, err := handle.Transact(ctx, method, args...)
	if err != nil {
		err = classify(method, err)
		s.log.Errorw("transaction failed", "method", method, "duration", time.Since(start), "error", err)
		return nil, err
	}

	s.log.Infow("transaction mined", "method", method, "tx", receipt.TxHash.Hex(), "block", receipt.BlockNumber, "duration", time.Since(start))
	return receipt, nil
}

func call[T any](ctx context.Context, s *Service, handle contracts.ContractHandle, method string, args ...interface{}) (T, error) {
	var zero T
	if isNilHandle(handle) {
		s.log.Warnf("%s skipped: %s", method, ErrNoContract)
		return zero, lib.NewKindError(lib.KindMissingPrecondition, method, ErrNoContract)
	}

	start := time.Now()
	out, err := handle.Call(ctx, method, args...)
	if err != nil {
		err = classify(method, err)
		s.log.Errorw("call failed", "method", method, "duration", time.Since(start), "error", err)
		return zero, err
	}

	res, err := decode[T](out)
	if err != nil {
		err = lib.NewKindError(lib.KindTransactionFailed, method, err)
		s.log.Errorw("call failed", "method", method, "duration", time.Since(start), "error", err)
		return zero, err
	}

	s.log.Debugw("call", "method", method, "duration", time.Since(start))
	return res, nil
}

func decode[T any](out []interface{}) (res T, err error) {
	if len(out) == 0 {
		return res, ErrEmptyResult
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrDecode, r)
		}
	}()
	return *abi.ConvertType(out[0], new(T)).(*T), nil
}

// classify keeps an existing kind, anything else coming from the chain is a failed transaction
func classify(method string, err error) error {
	if lib.KindOf(err) != lib.KindUnknown {
		return err
	}
	if errors.Is(err, contracts.ErrNoContract) {
		return lib.NewKindError(lib.KindMissingPrecondition, method, err)
	}
	return lib.NewKindError(lib.KindTransactionFailed, method, err)
}

func isNilHandle(handle contracts.ContractHandle) bool {
	if handle == nil {
		return true
	}
	v := reflect.ValueOf(handle)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
