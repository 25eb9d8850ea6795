package lib

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

const EtherDecimals = 18

var weiPerEther = big.NewInt(params.Ether)

// FormatEther renders a wei amount in native units. Trailing zeros of the fraction are
// dropped but at least one fractional digit is kept, so 1e18 renders as "1.0"
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}

	sign := ""
	abs := new(big.Int).Set(wei)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}

	whole, frac := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))

	fracStr := frac.String()
	fracStr = strings.Repeat("0", EtherDecimals-len(fracStr)) + fracStr
	fracStr = strings.TrimRight(fracStr, "0")
	if fracStr == "" {
		fracStr = "0"
	}

	return sign + whole.String() + "." + fracStr
}
