package contractmock

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type TransactCall struct {
	Method string
	Args   []interface{}
}

// ContractHandleMock records every call. Transact succeeds with a mined receipt unless
// TransactFunc is set
type ContractHandleMock struct {
	TransactFunc func(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error)
	CallFunc     func(ctx context.Context, method string, args ...interface{}) ([]interface{}, error)

	AddressValue common.Address
	FromValue    common.Address

	mu        sync.Mutex
	transacts []TransactCall
	calls     []TransactCall
}

func NewContractHandleMock(from common.Address) *ContractHandleMock {
	return &ContractHandleMock{
		AddressValue: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		FromValue:    from,
	}
}

func (m *ContractHandleMock) Transact(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error) {
	m.mu.Lock()
	m.transacts = append(m.transacts, TransactCall{Method: method, Args: args})
	m.mu.Unlock()

	if m.TransactFunc != nil {
		return m.TransactFunc(ctx, method, args...)
	}
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      common.HexToHash("0xabcdef"),
		BlockNumber: big.NewInt(1),
	}, nil
}

func (m *ContractHandleMock) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	m.mu.Lock()
	m.calls = append(m.calls, TransactCall{Method: method, Args: args})
	m.mu.Unlock()

	if m.CallFunc != nil {
		return m.CallFunc(ctx, method, args...)
	}
	return nil, nil
}

func (m *ContractHandleMock) Address() common.Address {
	return m.AddressValue
}

func (m *ContractHandleMock) From() common.Address {
	return m.FromValue
}

func (m *ContractHandleMock) Transacts() []TransactCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TransactCall(nil), m.transacts...)
}

func (m *ContractHandleMock) Calls() []TransactCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TransactCall(nil), m.calls...)
}

func (m *ContractHandleMock) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transacts) + len(m.calls)
}
