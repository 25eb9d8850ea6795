package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"sync"

	"github.com/alder-protocol/mrv-dashboard/internal/interfaces"
	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
)

var (
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
	ErrRequestRejected     = errors.New("user rejected the request")
	ErrUnknownAccount      = errors.New("account is not managed by the provider")
	ErrAccountIndex        = errors.New("account index out of range")
)

type EventType string

const (
	EventAccountsChanged EventType = "accountsChanged"
	EventClose           EventType = "close"
)

type Event struct {
	Type     EventType
	Accounts []common.Address
}

// Provider is the boundary to a wallet able to expose accounts and sign transactions
type Provider interface {
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error)
	Subscribe(ch chan<- Event) event.Subscription
	Close() error
}

// KeyProvider is a Provider backed by in-process private keys. The selected account is
// always reported first
type KeyProvider struct {
	chainID *big.Int
	keys    []*ecdsa.PrivateKey
	addrs   []common.Address

	selected int
	locked   bool
	closed   bool
	mu       sync.Mutex

	feed  event.Feed
	scope event.SubscriptionScope
	log   interfaces.ILogger
}

func NewKeyProvider(keys []*ecdsa.PrivateKey, chainID *big.Int, log interfaces.ILogger) *KeyProvider {
	addrs := make([]common.Address, len(keys))
	for i, key := range keys {
		addrs[i] = crypto.PubkeyToAddress(key.PublicKey)
	}
	return &KeyProvider{
		chainID: chainID,
		keys:    keys,
		addrs:   addrs,
		log:     log,
	}
}

func (p *KeyProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || len(p.keys) == 0 {
		return nil, ErrProviderUnavailable
	}
	if p.locked {
		return nil, ErrRequestRejected
	}
	return p.accountsLocked(), nil
}

func (p *KeyProvider) Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrProviderUnavailable
	}
	if p.locked {
		return nil, ErrRequestRejected
	}

	for i, addr := range p.addrs {
		if addr == account {
			opts, err := bind.NewKeyedTransactorWithChainID(p.keys[i], p.chainID)
			if err != nil {
				return nil, err
			}
			opts.Context = ctx
			return opts, nil
		}
	}
	return nil, lib.WrapError(ErrUnknownAccount, errors.New(account.Hex()))
}

func (p *KeyProvider) Subscribe(ch chan<- Event) event.Subscription {
	return p.scope.Track(p.feed.Subscribe(ch))
}

// SelectAccount switches the active account and notifies subscribers
func (p *KeyProvider) SelectAccount(index int) error {
	p.mu.Lock()
	if index < 0 || index >= len(p.addrs) {
		p.mu.Unlock()
		return ErrAccountIndex
	}
	p.selected = index
	accounts := p.exposedLocked()
	p.mu.Unlock()

	p.log.Infof("selected account %s", lib.AddrShort(p.addrs[index].Hex()))
	p.feed.Send(Event{Type: EventAccountsChanged, Accounts: accounts})
	return nil
}

// Lock hides the accounts, subscribers observe an empty account list
func (p *KeyProvider) Lock() {
	p.mu.Lock()
	p.locked = true
	p.mu.Unlock()

	p.log.Info("wallet locked")
	p.feed.Send(Event{Type: EventAccountsChanged, Accounts: []common.Address{}})
}

func (p *KeyProvider) Unlock() {
	p.mu.Lock()
	p.locked = false
	accounts := p.exposedLocked()
	p.mu.Unlock()

	p.log.Info("wallet unlocked")
	p.feed.Send(Event{Type: EventAccountsChanged, Accounts: accounts})
}

func (p *KeyProvider) Accounts() []common.Address {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]common.Address(nil), p.addrs...)
}

// Close emits the close event and ends all subscriptions
func (p *KeyProvider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.feed.Send(Event{Type: EventClose})
	p.scope.Close()
	return nil
}

func (p *KeyProvider) exposedLocked() []common.Address {
	if p.locked || p.closed {
		return []common.Address{}
	}
	return p.accountsLocked()
}

func (p *KeyProvider) accountsLocked() []common.Address {
	res := make([]common.Address, 0, len(p.addrs))
	res = append(res, p.addrs[p.selected])
	for i, addr := range p.addrs {
		if i != p.selected {
			res = append(res, addr)
		}
	}
	return res
}
