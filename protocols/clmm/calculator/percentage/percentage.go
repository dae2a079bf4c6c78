// Package percentage applies slippage tolerances to quoted amounts.
package percentage

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
)

var (
	ErrInvalidDenominator = fmt.Errorf("%w: percentage denominator must be positive", clmm.ErrInvalidInput)
	ErrNegativeNumerator  = fmt.Errorf("%w: percentage numerator must not be negative", clmm.ErrInvalidInput)

	perMille = big.NewInt(1000)
	ten      = decimal.NewFromInt(10)
)

// Percentage is Numerator/Denominator, used as a slippage tolerance.
type Percentage struct {
	Numerator   *big.Int
	Denominator *big.Int
}

// New returns numerator/denominator.
func New(numerator, denominator *big.Int) (Percentage, error) {
	p := Percentage{Numerator: numerator, Denominator: denominator}
	if err := p.Validate(); err != nil {
		return Percentage{}, err
	}
	return Percentage{
		Numerator:   new(big.Int).Set(numerator),
		Denominator: new(big.Int).Set(denominator),
	}, nil
}

// Validate reports whether p can be applied. A literal Percentage skips New,
// so every adjustment checks it again.
func (p Percentage) Validate() error {
	if p.Denominator == nil || p.Denominator.Sign() <= 0 {
		return ErrInvalidDenominator
	}
	if p.Numerator == nil || p.Numerator.Sign() < 0 {
		return ErrNegativeNumerator
	}
	return nil
}

// FromDecimal converts a percent value such as 0.5 (meaning 0.5%) into a
// per-mille fraction. Precision beyond one decimal place is rounded away.
func FromDecimal(percent decimal.Decimal) (Percentage, error) {
	numerator := percent.Round(1).Mul(ten).BigInt()
	return New(numerator, perMille)
}

// String renders the percentage as a percent value, e.g. "0.5%".
func (p Percentage) String() string {
	if p.Denominator == nil || p.Denominator.Sign() == 0 {
		return "NaN"
	}
	v := decimal.NewFromBigInt(p.Numerator, 2).DivRound(decimal.NewFromBigInt(p.Denominator, 0), 8)
	return v.String() + "%"
}

// AdjustForSlippage widens (adjustUp) or narrows n by p.
// Up: n*(d+num)/d. Down: n*d/(d+num). Both floor.
func AdjustForSlippage(n *big.Int, p Percentage, adjustUp bool) (*big.Int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	sum := new(big.Int).Add(p.Denominator, p.Numerator)
	out := new(big.Int)
	if adjustUp {
		out.Mul(n, sum)
		return out.Quo(out, p.Denominator), nil
	}
	out.Mul(n, p.Denominator)
	return out.Quo(out, sum), nil
}

// TokenMax holds slippage-adjusted bounds for both coins of a liquidity change.
type TokenMax struct {
	A *big.Int
	B *big.Int
}

// AdjustForCoinSlippage applies AdjustForSlippage to both legs of amounts.
func AdjustForCoinSlippage(amounts clmm.CoinAmounts, p Percentage, adjustUp bool) (TokenMax, error) {
	a, err := AdjustForSlippage(amounts.CoinA, p, adjustUp)
	if err != nil {
		return TokenMax{}, err
	}
	b, err := AdjustForSlippage(amounts.CoinB, p, adjustUp)
	if err != nil {
		return TokenMax{}, err
	}
	return TokenMax{A: a, B: b}, nil
}

// AdjustAmountForSlippage returns the bound a swap transaction should carry.
// For exact input it is the minimum output, for exact output the maximum input.
func AdjustAmountForSlippage(amountIn, amountOut *big.Int, p Percentage, byAmountIn bool) (*big.Int, error) {
	if byAmountIn {
		return AdjustForSlippage(amountOut, p, false)
	}
	return AdjustForSlippage(amountIn, p, true)
}
