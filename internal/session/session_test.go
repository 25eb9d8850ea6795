package session

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/alder-protocol/mrv-dashboard/internal/wallet"
	"github.com/alder-protocol/mrv-dashboard/mock/contractmock"
	"github.com/alder-protocol/mrv-dashboard/mock/ethmock"
	"github.com/alder-protocol/mrv-dashboard/mock/walletmock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	addrABC   = common.HexToAddress("0xABC0000000000000000000000000000000000001")
	addrOther = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func ether(whole, tenths int64) *big.Int {
	wei := new(big.Int).Mul(big.NewInt(whole*10+tenths), big.NewInt(1e17))
	return wei
}

func handleFactory(from common.Address, transactor contracts.TransactorFunc) (contracts.ContractHandle, error) {
	return contractmock.NewContractHandleMock(from), nil
}

func newTestSession(t *testing.T, provider wallet.Provider, store Store) (*Session, *ethmock.EthClientMock) {
	client := ethmock.NewEthClientMock()
	client.BalanceAtFunc = func(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
		if account == addrABC {
			return ether(2, 5), nil
		}
		return ether(1, 0), nil
	}
	if store == nil {
		store = NewMemoryStore()
	}
	s := NewSession(provider, client, handleFactory, store, lib.NewTestLogger())
	t.Cleanup(s.Close)
	return s, client
}

func TestConnect(t *testing.T) {
	provider := walletmock.NewProviderMock(addrABC)
	store := NewMemoryStore()
	s, _ := newTestSession(t, provider, store)

	snap, err := s.Connect(context.Background())
	require.NoError(t, err)
	require.True(t, snap.Connected)
	require.Equal(t, addrABC.Hex(), snap.Address)
	require.Equal(t, "2.5", snap.Balance)
	require.False(t, snap.HasError)

	require.NotNil(t, s.Contract())
	require.Equal(t, addrABC, s.Contract().From())

	_, ok, err := store.Get(context.Background(), CachedProviderKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, provider.ActiveSubscriptions())
}

func TestConnectWithoutProvider(t *testing.T) {
	s, _ := newTestSession(t, nil, nil)

	snap, err := s.Connect(context.Background())
	require.Error(t, err)
	require.Equal(t, lib.KindProviderUnavailable, lib.KindOf(err))
	require.False(t, snap.Connected)
	require.True(t, snap.HasError)
	require.Nil(t, s.Contract())
}

func TestConnectRejected(t *testing.T) {
	provider := walletmock.NewProviderMock(addrABC)
	provider.RequestAccountsFunc = func(ctx context.Context) ([]common.Address, error) {
		return nil, wallet.ErrRequestRejected
	}
	store := NewMemoryStore()
	s, _ := newTestSession(t, provider, store)

	_, err := s.Connect(context.Background())
	require.ErrorIs(t, err, wallet.ErrRequestRejected)
	require.Equal(t, lib.KindConnectionRejected, lib.KindOf(err))
	require.Equal(t, 0, provider.ActiveSubscriptions())

	_, ok, _ := store.Get(context.Background(), CachedProviderKey)
	require.False(t, ok)
}

func TestConnectNoAccounts(t *testing.T) {
	provider := walletmock.NewProviderMock()
	s, _ := newTestSession(t, provider, nil)

	_, err := s.Connect(context.Background())
	require.ErrorIs(t, err, ErrNoAccounts)
	require.Equal(t, lib.KindConnectionRejected, lib.KindOf(err))
	require.Equal(t, 0, provider.ActiveSubscriptions())
}

func TestReconnectReplacesSubscription(t *testing.T) {
	provider := walletmock.NewProviderMock(addrABC)
	s, _ := newTestSession(t, provider, nil)

	_, err := s.Connect(context.Background())
	require.NoError(t, err)
	_, err = s.Connect(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, provider.ActiveSubscriptions())
}

func TestAccountsChangedEmptyDisconnects(t *testing.T) {
	provider := walletmock.NewProviderMock(addrABC)
	store := NewMemoryStore()
	s, _ := newTestSession(t, provider, store)

	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	provider.Emit(wallet.Event{Type: wallet.EventAccountsChanged, Accounts: []common.Address{}})

	require.Eventually(t, func() bool { return !s.Snapshot().Connected }, time.Second, 5*time.Millisecond)
	require.Nil(t, s.Contract())
	_, ok := s.Address()
	require.False(t, ok)
	require.Equal(t, 0, provider.ActiveSubscriptions())

	_, cached, _ := store.Get(context.Background(), CachedProviderKey)
	require.False(t, cached)
}

func TestAccountsChangedSwitchesAccount(t *testing.T) {
	provider := walletmock.NewProviderMock(addrABC)
	s, _ := newTestSession(t, provider, nil)

	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	provider.Emit(wallet.Event{Type: wallet.EventAccountsChanged, Accounts: []common.Address{addrOther}})

	require.Eventually(t, func() bool {
		addr, ok := s.Address()
		return ok && addr == addrOther
	}, time.Second, 5*time.Millisecond)

	snap := s.Snapshot()
	require.Equal(t, "1.0", snap.Balance)
	require.Equal(t, addrOther, s.Contract().From())
}

func TestCloseEventDisconnects(t *testing.T) {
	provider := walletmock.NewProviderMock(addrABC)
	s, _ := newTestSession(t, provider, nil)

	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	require.NoError(t, provider.Close())
	require.Eventually(t, func() bool { return !s.Snapshot().Connected }, time.Second, 5*time.Millisecond)
}

func TestKeyProviderCloseAlwaysDisconnects(t *testing.T) {
	const runs = 50
	for i := 0; i < runs; i++ {
		provider, err := wallet.NewPrivateKeyProvider("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", big.NewInt(31337), lib.NewTestLogger())
		require.NoError(t, err)

		store := NewMemoryStore()
		s, _ := newTestSession(t, provider, store)

		_, err = s.Connect(context.Background())
		require.NoError(t, err)
		require.NoError(t, provider.Close())

		require.Eventually(t, func() bool { return !s.Snapshot().Connected }, time.Second, time.Millisecond, "run %d", i)
		require.Eventually(t, func() bool {
			_, cached, _ := store.Get(context.Background(), CachedProviderKey)
			return !cached
		}, time.Second, time.Millisecond, "run %d", i)
	}
}

func TestProviderSubscriptionEndCountsAsClose(t *testing.T) {
	provider := walletmock.NewProviderMock(addrABC)
	s, _ := newTestSession(t, provider, nil)

	_, err := s.Connect(context.Background())
	require.NoError(t, err)
	require.NoError(t, provider.Close())

	require.Eventually(t, func() bool { return !s.Snapshot().Connected }, time.Second, 5*time.Millisecond)
	require.Nil(t, s.Contract())
	require.Equal(t, 0, provider.ActiveSubscriptions())
}

func TestDisconnect(t *testing.T) {
	provider := walletmock.NewProviderMock(addrABC)
	store := NewMemoryStore()
	s, _ := newTestSession(t, provider, store)

	_, err := s.Connect(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Disconnect(context.Background()))

	require.False(t, s.Snapshot().Connected)
	require.Nil(t, s.Contract())
	require.Equal(t, 0, provider.ActiveSubscriptions())

	_, cached, _ := store.Get(context.Background(), CachedProviderKey)
	require.False(t, cached)

	// events after disconnect are ignored
	require.Equal(t, 0, provider.Emit(wallet.Event{Type: wallet.EventAccountsChanged, Accounts: []common.Address{addrOther}}))
}

func TestStartReconnectsFromCache(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), CachedProviderKey, CachedProviderValue))

	provider := walletmock.NewProviderMock(addrABC)
	s, _ := newTestSession(t, provider, store)

	require.NoError(t, s.Start(context.Background()))
	require.Equal(t, 1, provider.RequestCalls())
	require.True(t, s.Snapshot().Connected)
}

func TestStartWithoutCacheStaysDisconnected(t *testing.T) {
	provider := walletmock.NewProviderMock(addrABC)
	s, _ := newTestSession(t, provider, nil)

	require.NoError(t, s.Start(context.Background()))
	require.Equal(t, 0, provider.RequestCalls())
	require.False(t, s.Snapshot().Connected)
}

func TestStartReconnectFailureIsSilent(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), CachedProviderKey, CachedProviderValue))

	provider := walletmock.NewProviderMock(addrABC)
	provider.RequestAccountsFunc = func(ctx context.Context) ([]common.Address, error) {
		return nil, wallet.ErrRequestRejected
	}
	s, _ := newTestSession(t, provider, store)

	require.NoError(t, s.Start(context.Background()))
	require.False(t, s.Snapshot().Connected)
}

func TestSelectRolePersists(t *testing.T) {
	store := NewMemoryStore()
	s, _ := newTestSession(t, nil, store)
	require.Equal(t, RoleNone, s.Role())

	require.NoError(t, s.SelectRole(context.Background(), RoleFarmer))
	require.Equal(t, RoleFarmer, s.Role())

	restored, _ := newTestSession(t, nil, store)
	require.NoError(t, restored.Start(context.Background()))
	require.Equal(t, RoleFarmer, restored.Role())

	require.NoError(t, restored.SelectRole(context.Background(), RoleNone))
	_, ok, _ := store.Get(context.Background(), RoleKey)
	require.False(t, ok)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("Farmer")
	require.NoError(t, err)
	require.Equal(t, RoleFarmer, r)

	r, err = ParseRole("vvb")
	require.NoError(t, err)
	require.Equal(t, RoleVVB, r)

	r, err = ParseRole("")
	require.NoError(t, err)
	require.Equal(t, RoleNone, r)

	_, err = ParseRole("admin")
	require.ErrorIs(t, err, ErrUnknownRole)
}
