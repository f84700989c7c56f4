package quote

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// CostDecimals is the fixed-point precision of on-chain costs: one unit
// of TotalCost is one nano-USD.
const CostDecimals = 9

var nanoUSDScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(CostDecimals), nil)

// ErrBadCostRate means a wire cost rate is not a non-negative decimal
// number.
var ErrBadCostRate = errors.New("quote: malformed cost rate")

// ScaleCostRate converts a decimal USD rate string to fixed point:
// floor(rate × 10^9). Fractional digits beyond the ninth are truncated,
// never rounded, matching the on-chain representation exactly.
func ScaleCostRate(rate string) (*big.Int, error) {
	s := strings.TrimSpace(rate)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrBadCostRate)
	}
	if s[0] == '-' || s[0] == '+' {
		return nil, fmt.Errorf("%w: %q must be an unsigned decimal", ErrBadCostRate, rate)
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" || !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return nil, fmt.Errorf("%w: %q", ErrBadCostRate, rate)
	}

	// Truncate to 9 fractional digits, then right-pad to exactly 9.
	if len(fracPart) > CostDecimals {
		fracPart = fracPart[:CostDecimals]
	}
	fracPart += strings.Repeat("0", CostDecimals-len(fracPart))

	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadCostRate, rate)
	}
	frac, ok := new(big.Int).SetString(fracPart, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadCostRate, rate)
	}

	return whole.Mul(whole, nanoUSDScale).Add(whole, frac), nil
}

// FormatNanoUSD renders a fixed-point nano-USD value as the decimal rate
// string used on the wire. Round-trips through ScaleCostRate without loss.
func FormatNanoUSD(v *big.Int) string {
	if v == nil || v.Sign() == 0 {
		return "0"
	}
	whole, frac := new(big.Int).QuoRem(v, nanoUSDScale, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	digits := strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
	return whole.String() + "." + digits
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
