package contracts

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrNoEventSignature = errors.New("no event signature")
	ErrUnknownEvent     = errors.New("unknown event")
)

type EventMapper func(types.Log) (interface{}, error)

// ContractEvent is a decoded contract log
type ContractEvent struct {
	Name        string      `json:"name"`
	BlockNumber uint64      `json:"blockNumber"`
	TxHash      common.Hash `json:"txHash"`
	LogIndex    uint        `json:"logIndex"`
	ObservedAt  time.Time   `json:"observedAt"`
	Payload     interface{} `json:"payload"`
}

func alderEventFactory(name string) interface{} {
	switch name {
	case "FarmerAdded":
		return new(AlderFarmerAdded)
	case "FarmerRemoved":
		return new(AlderFarmerRemoved)
	case "VVBAdded":
		return new(AlderVVBAdded)
	case "VVBRemoved":
		return new(AlderVVBRemoved)
	case "ProjectAdded":
		return new(AlderProjectAdded)
	case "ProjectAccepted":
		return new(AlderProjectAccepted)
	case "ProjectRejected":
		return new(AlderProjectRejected)
	case "MRVReportAdded":
		return new(AlderMRVReportAdded)
	case "ACDRMinted":
		return new(AlderACDRMinted)
	case "ACDRRetired":
		return new(AlderACDRRetired)
	default:
		return nil
	}
}

// CreateEventMapper returns a mapper that decodes logs of the contract described by contractABI
// into *ContractEvent with a typed payload created by eventFactory
func CreateEventMapper(eventFactory func(name string) interface{}, contractABI *abi.ABI) EventMapper {
	return func(log types.Log) (interface{}, error) {
		if len(log.Topics) == 0 {
			return nil, ErrNoEventSignature
		}

		namedEvent, err := contractABI.EventByID(log.Topics[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, err)
		}

		payload := eventFactory(namedEvent.Name)
		if payload == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, namedEvent.Name)
		}

		if len(log.Data) > 0 {
			err = contractABI.UnpackIntoInterface(payload, namedEvent.Name, log.Data)
			if err != nil {
				return nil, err
			}
		}

		var indexed abi.Arguments
		for _, arg := range namedEvent.Inputs {
			if arg.Indexed {
				indexed = append(indexed, arg)
			}
		}

		err = abi.ParseTopics(payload, indexed, log.Topics[1:])
		if err != nil {
			return nil, err
		}

		return &ContractEvent{
			Name:        namedEvent.Name,
			BlockNumber: log.BlockNumber,
			TxHash:      log.TxHash,
			LogIndex:    log.Index,
			ObservedAt:  time.Now(),
			Payload:     payload,
		}, nil
	}
}
