package session

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/alder-protocol/mrv-dashboard/internal/interfaces"
	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/alder-protocol/mrv-dashboard/internal/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
)

var (
	ErrNoAccounts   = errors.New("provider returned no accounts")
	ErrBalance      = errors.New("cannot read balance")
	ErrHandle       = errors.New("cannot create contract handle")
	ErrNotConnected = errors.New("wallet is not connected")
)

const eventBufferSize = 16

type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// HandleFactory binds the contract to the given signer
type HandleFactory func(from common.Address, transactor contracts.TransactorFunc) (contracts.ContractHandle, error)

// Snapshot is a consistent view of the session
type Snapshot struct {
	Role      Role   `json:"role"`
	Connected bool   `json:"connected"`
	Address   string `json:"address,omitempty"`
	Balance   string `json:"balance,omitempty"`
	IsLoading bool   `json:"isLoading"`
	HasError  bool   `json:"hasError"`
	Error     string `json:"error,omitempty"`
}

type connection struct {
	address common.Address
	balance *big.Int
	handle  contracts.ContractHandle
}

// Session owns the wallet connection and the selected role. Transitions are serialized
// by transitionMu; readers only take mu
type Session struct {
	// deps
	provider  wallet.Provider
	balances  BalanceReader
	newHandle HandleFactory
	store     Store
	log       interfaces.ILogger

	transitionMu sync.Mutex

	// state
	mu        sync.RWMutex
	role      Role
	conn      *connection
	isLoading bool
	lastErr   error
	sub       event.Subscription
}

// NewSession creates a session. provider may be nil, connecting then fails with
// provider-unavailable
func NewSession(provider wallet.Provider, balances BalanceReader, newHandle HandleFactory, store Store, log interfaces.ILogger) *Session {
	return &Session{
		provider:  provider,
		balances:  balances,
		newHandle: newHandle,
		store:     store,
		log:       log,
	}
}

// Start restores the persisted role and silently reconnects if a provider was cached
func (s *Session) Start(ctx context.Context) error {
	role, ok, err := s.store.Get(ctx, RoleKey)
	if err != nil {
		return err
	}
	if ok {
		r, err := ParseRole(role)
		if err != nil {
			s.log.Warnf("ignoring persisted role %q: %s", role, err)
		} else {
			s.mu.Lock()
			s.role = r
			s.mu.Unlock()
		}
	}

	_, cached, err := s.store.Get(ctx, CachedProviderKey)
	if err != nil {
		return err
	}
	if !cached {
		return nil
	}

	s.log.Info("cached provider found, reconnecting")
	if _, err := s.Connect(ctx); err != nil {
		s.log.Warnf("auto reconnect failed: %s", err)
	}
	return nil
}

func (s *Session) Connect(ctx context.Context) (Snapshot, error) {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	s.setLoading(true)
	err := s.connect(ctx)
	s.finish(err)

	if err != nil {
		s.log.Errorf("connect failed: %s", err)
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

func (s *Session) connect(ctx context.Context) error {
	if s.provider == nil {
		return lib.NewKindError(lib.KindProviderUnavailable, "connect", wallet.ErrProviderUnavailable)
	}

	ch := make(chan wallet.Event, eventBufferSize)
	sub := s.provider.Subscribe(ch)

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		sub.Unsubscribe()
		if errors.Is(err, wallet.ErrRequestRejected) {
			return lib.NewKindError(lib.KindConnectionRejected, "connect", err)
		}
		return lib.NewKindError(lib.KindProviderUnavailable, "connect", err)
	}
	if len(accounts) == 0 {
		sub.Unsubscribe()
		return lib.NewKindError(lib.KindConnectionRejected, "connect", ErrNoAccounts)
	}

	conn, err := s.deriveConnection(ctx, accounts[0])
	if err != nil {
		sub.Unsubscribe()
		return lib.NewKindError(lib.KindProviderUnavailable, "connect", err)
	}

	if err := s.store.Set(ctx, CachedProviderKey, CachedProviderValue); err != nil {
		sub.Unsubscribe()
		return lib.NewKindError(lib.KindProviderUnavailable, "connect", err)
	}

	s.mu.Lock()
	prevSub := s.sub
	s.conn = conn
	s.sub = sub
	s.mu.Unlock()

	if prevSub != nil {
		prevSub.Unsubscribe()
	}
	go s.watchProvider(ch, sub)

	s.log.Infof("connected %s balance %s", conn.address.Hex(), lib.FormatEther(conn.balance))
	return nil
}

// Disconnect clears the connection and forgets the cached provider
func (s *Session) Disconnect(ctx context.Context) error {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	return s.disconnect(ctx)
}

func (s *Session) disconnect(ctx context.Context) error {
	s.unsubscribe()

	s.mu.Lock()
	wasConnected := s.conn != nil
	s.conn = nil
	s.isLoading = false
	s.lastErr = nil
	s.mu.Unlock()

	if wasConnected {
		s.log.Info("disconnected")
	}
	return s.store.Delete(ctx, CachedProviderKey)
}

// HandleAccountsChanged re-derives the connection for the first account, an empty list disconnects
func (s *Session) HandleAccountsChanged(ctx context.Context, accounts []common.Address) error {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	return s.handleAccountsChanged(ctx, accounts)
}

func (s *Session) handleAccountsChanged(ctx context.Context, accounts []common.Address) error {
	if len(accounts) == 0 {
		s.log.Info("accounts cleared by provider")
		return s.disconnect(ctx)
	}

	s.mu.RLock()
	connected := s.conn != nil
	s.mu.RUnlock()
	if !connected {
		return nil
	}

	conn, err := s.deriveConnection(ctx, accounts[0])
	if err != nil {
		s.finish(err)
		s.log.Errorf("cannot switch to account %s: %s", accounts[0].Hex(), err)
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.lastErr = nil
	s.mu.Unlock()

	s.log.Infof("switched to account %s", conn.address.Hex())
	return nil
}

// SelectRole sets and persists the role
func (s *Session) SelectRole(ctx context.Context, role Role) error {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	var err error
	if role == RoleNone {
		err = s.store.Delete(ctx, RoleKey)
	} else {
		err = s.store.Set(ctx, RoleKey, string(role))
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.role = role
	s.mu.Unlock()

	s.log.Infof("role selected: %s", role)
	return nil
}

// Close releases the provider subscription, the cached flag is kept for the next start
func (s *Session) Close() {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	s.unsubscribe()
}

func (s *Session) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Contract returns the handle bound to the connected account or nil
func (s *Session) Contract() contracts.ContractHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.handle
}

func (s *Session) Address() (common.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conn == nil {
		return common.Address{}, false
	}
	return s.conn.address, true
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Role:      s.role,
		IsLoading: s.isLoading,
		HasError:  s.lastErr != nil,
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	if s.conn != nil {
		snap.Connected = true
		snap.Address = s.conn.address.Hex()
		snap.Balance = lib.FormatEther(s.conn.balance)
	}
	return snap
}

func (s *Session) deriveConnection(ctx context.Context, account common.Address) (*connection, error) {
	balance, err := s.balances.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, lib.WrapError(ErrBalance, err)
	}

	provider := s.provider
	transactor := func(ctx context.Context) (*bind.TransactOpts, error) {
		return provider.Transactor(ctx, account)
	}

	handle, err := s.newHandle(account, transactor)
	if err != nil {
		return nil, lib.WrapError(ErrHandle, err)
	}

	return &connection{
		address: account,
		balance: balance,
		handle:  handle,
	}, nil
}

// watchProvider handles provider events until the subscription ends. Events buffered before
// the end are still handled, and a provider ending a subscription that is still current counts as close
func (s *Session) watchProvider(ch <-chan wallet.Event, sub event.Subscription) {
	for {
		select {
		case <-sub.Err():
			for {
				select {
				case ev := <-ch:
					s.handleEvent(ev, sub)
				default:
					s.handleEvent(wallet.Event{Type: wallet.EventClose}, sub)
					return
				}
			}
		case ev := <-ch:
			s.handleEvent(ev, sub)
		}
	}
}

func (s *Session) handleEvent(ev wallet.Event, sub event.Subscription) {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	s.mu.RLock()
	current := s.sub == sub
	s.mu.RUnlock()
	if !current {
		return
	}

	ctx := context.Background()

	switch ev.Type {
	case wallet.EventAccountsChanged:
		_ = s.handleAccountsChanged(ctx, ev.Accounts)
	case wallet.EventClose:
		s.log.Info("provider closed")
		if err := s.disconnect(ctx); err != nil {
			s.log.Warnf("cannot clear cached provider: %s", err)
		}
	}
}

// unsubscribe must be called with transitionMu held
func (s *Session) unsubscribe() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.isLoading = v
	s.mu.Unlock()
}

func (s *Session) finish(err error) {
	s.mu.Lock()
	s.isLoading = false
	s.lastErr = err
	s.mu.Unlock()
}
