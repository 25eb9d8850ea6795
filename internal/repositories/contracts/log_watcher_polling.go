package contracts

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/alder-protocol/mrv-dashboard/internal/interfaces"
	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type LogFilterer interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

type LogWatcherPolling struct {
	// config
	maxReconnects int
	pollInterval  time.Duration

	// deps
	client LogFilterer
	log    interfaces.ILogger
}

func NewLogWatcherPolling(client LogFilterer, pollInterval time.Duration, maxReconnects int, log interfaces.ILogger) *LogWatcherPolling {
	return &LogWatcherPolling{
		client:        client,
		pollInterval:  pollInterval,
		maxReconnects: maxReconnects,
		log:           log,
	}
}

func (w *LogWatcherPolling) Watch(ctx context.Context, contractAddr common.Address, mapper EventMapper, fromBlock *big.Int) (*lib.Subscription, error) {
	if fromBlock == nil {
		block, err := w.client.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, err
		}
		fromBlock = block.Number
	}
	nextBlock := fromBlock

	sink := make(chan interface{})
	return lib.NewSubscription(func(quit <-chan struct{}) error {
		defer close(sink)

		for {
			query := ethereum.FilterQuery{
				Addresses: []common.Address{contractAddr},
				FromBlock: nextBlock,
				ToBlock:   nil,
			}
			logs, err := w.filterLogsRetry(ctx, query, quit)
			if err != nil {
				return err
			}

			for _, log := range logs {
				if log.Removed {
					continue
				}
				event, err := mapper(log)
				if errors.Is(err, ErrUnknownEvent) || errors.Is(err, ErrNoEventSignature) {
					w.log.Debugf("skipping log %s/%d: %s", log.TxHash.Hex(), log.Index, err)
					continue
				}
				if err != nil {
					return err // mapper error, retry won't help
				}

				select {
				case <-quit:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				case sink <- event:
				}
			}

			if len(logs) > 0 {
				nextBlock = new(big.Int).SetUint64(logs[len(logs)-1].BlockNumber + 1)
			}

			select {
			case <-quit:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.pollInterval):
			}
		}
	}, sink), nil
}

func (w *LogWatcherPolling) filterLogsRetry(ctx context.Context, query ethereum.FilterQuery, quit <-chan struct{}) ([]types.Log, error) {
	var lastErr error

	for attempts := 0; attempts < w.maxReconnects; attempts++ {
		logs, err := w.client.FilterLogs(ctx, query)
		if err != nil {
			lastErr = err
			w.log.Debugf("polling error, retrying: %s", err)

			select {
			case <-quit:
				return nil, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(w.pollInterval):
			}
			continue
		}
		if attempts > 0 {
			w.log.Warnf("polling recovered after error: %s", lastErr)
		}

		return logs, nil
	}

	return nil, lastErr
}
