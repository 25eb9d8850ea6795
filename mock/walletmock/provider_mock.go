package walletmock

import (
	"context"
	"sync"

	"github.com/alder-protocol/mrv-dashboard/internal/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
)

// ProviderMock is a wallet.Provider with scripted accounts. Events are pushed with Emit
type ProviderMock struct {
	RequestAccountsFunc func(ctx context.Context) ([]common.Address, error)
	TransactorFunc      func(ctx context.Context, account common.Address) (*bind.TransactOpts, error)

	Accounts []common.Address

	mu            sync.Mutex
	requestCalls  int
	subscriptions int
	active        int

	feed  event.Feed
	scope event.SubscriptionScope
}

func NewProviderMock(accounts ...common.Address) *ProviderMock {
	return &ProviderMock{Accounts: accounts}
}

func (m *ProviderMock) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	m.mu.Lock()
	m.requestCalls++
	m.mu.Unlock()

	if m.RequestAccountsFunc != nil {
		return m.RequestAccountsFunc(ctx)
	}
	return m.Accounts, nil
}

func (m *ProviderMock) Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	if m.TransactorFunc != nil {
		return m.TransactorFunc(ctx, account)
	}
	return &bind.TransactOpts{From: account, Context: ctx}, nil
}

func (m *ProviderMock) Subscribe(ch chan<- wallet.Event) event.Subscription {
	m.mu.Lock()
	m.subscriptions++
	m.active++
	m.mu.Unlock()

	sub := m.feed.Subscribe(ch)
	return m.scope.Track(&countedSub{Subscription: sub, onUnsubscribe: func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
	}})
}

// Close emits close and ends all subscriptions, like the key provider does
func (m *ProviderMock) Close() error {
	m.Emit(wallet.Event{Type: wallet.EventClose})
	m.scope.Close()
	return nil
}

// Emit delivers ev to all subscribers and returns the number of receivers
func (m *ProviderMock) Emit(ev wallet.Event) int {
	return m.feed.Send(ev)
}

func (m *ProviderMock) RequestCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCalls
}

// ActiveSubscriptions is the number of subscriptions not yet unsubscribed
func (m *ProviderMock) ActiveSubscriptions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

type countedSub struct {
	event.Subscription
	once          sync.Once
	onUnsubscribe func()
}

func (s *countedSub) Unsubscribe() {
	s.once.Do(s.onUnsubscribe)
	s.Subscription.Unsubscribe()
}
