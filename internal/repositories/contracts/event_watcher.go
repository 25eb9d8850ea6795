package contracts

import (
	"context"
	"math/big"

	"github.com/alder-protocol/mrv-dashboard/internal/interfaces"
	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/atomic"
)

type LogWatcher interface {
	Watch(ctx context.Context, contractAddr common.Address, mapper EventMapper, fromBlock *big.Int) (*lib.Subscription, error)
}

// EventWatcher feeds decoded contract events into the history
type EventWatcher struct {
	contractAddr common.Address
	mapper       EventMapper
	watcher      LogWatcher
	history      *EventHistory
	received     atomic.Uint64
	log          interfaces.ILogger
}

func NewEventWatcher(contractAddr common.Address, watcher LogWatcher, history *EventHistory, log interfaces.ILogger) (*EventWatcher, error) {
	contractABI, err := AlderMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	return &EventWatcher{
		contractAddr: contractAddr,
		mapper:       CreateEventMapper(alderEventFactory, contractABI),
		watcher:      watcher,
		history:      history,
		log:          log,
	}, nil
}

func (w *EventWatcher) Run(ctx context.Context) error {
	sub, err := w.watcher.Watch(ctx, w.contractAddr, w.mapper, nil)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	w.log.Infof("watching events of contract %s", w.contractAddr.Hex())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return err
		case item, ok := <-sub.Events():
			if !ok {
				return <-sub.Err()
			}
			ev := item.(*ContractEvent)
			w.received.Inc()
			w.log.Debugf("contract event %s at block %d tx %s", ev.Name, ev.BlockNumber, ev.TxHash.Hex())
			w.history.Add(ev)
		}
	}
}

func (w *EventWatcher) Received() uint64 {
	return w.received.Load()
}
