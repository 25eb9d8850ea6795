package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/alder-protocol/mrv-dashboard/internal/interfaces"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
)

const derivationPathTemplate = "m/44'/60'/0'/0/%d"

// NewHDWalletProvider derives accountCount accounts from the mnemonic using the
// default ethereum derivation path
func NewHDWalletProvider(mnemonic string, accountCount int, chainID *big.Int, log interfaces.ILogger) (*KeyProvider, error) {
	if accountCount < 1 {
		accountCount = 1
	}

	wallet, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	keys := make([]*ecdsa.PrivateKey, 0, accountCount)
	for i := 0; i < accountCount; i++ {
		path := hdwallet.MustParseDerivationPath(fmt.Sprintf(derivationPathTemplate, i))
		account, err := wallet.Derive(path, false)
		if err != nil {
			return nil, err
		}
		key, err := wallet.PrivateKey(account)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return NewKeyProvider(keys, chainID, log), nil
}
