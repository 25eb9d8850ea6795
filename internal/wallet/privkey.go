package wallet

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/alder-protocol/mrv-dashboard/internal/interfaces"
	"github.com/alder-protocol/mrv-dashboard/internal/lib"
)

func NewPrivateKeyProvider(privateKey string, chainID *big.Int, log interfaces.ILogger) (*KeyProvider, error) {
	key, err := lib.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	return NewKeyProvider([]*ecdsa.PrivateKey{key}, chainID, log), nil
}
