package liquiditymath

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/fullmath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/sqrtpricemath"
)

var (
	ErrLiquidityOverflow  = errors.New("liquidity overflow")
	ErrLiquidityUnderflow = errors.New("liquidity underflow")

	ErrZeroLiquidityDelta = fmt.Errorf("%w: liquidity delta must be greater than zero", clmm.ErrInvalidInput)
	ErrInvalidRange       = fmt.Errorf("%w: lower sqrt price must be below upper sqrt price", clmm.ErrInvalidInput)
	ErrSideNotAccepted    = fmt.Errorf("%w: range cannot hold the fixed coin at the current price", clmm.ErrInvalidInput)
)

// AddDelta adds a signed liquidity delta to an unsigned liquidity value,
// returning an error if the result leaves the u128 range.
func AddDelta(dest *big.Int, x *big.Int, y *big.Int) error {
	dest.Add(x, y)

	if dest.Sign() < 0 {
		return ErrLiquidityUnderflow
	}

	if dest.Cmp(fullmath.MaxUint128) > 0 {
		return ErrLiquidityOverflow
	}

	return nil
}

func checkRange(lower, upper *big.Int) error {
	if lower.Sign() <= 0 || lower.Cmp(upper) >= 0 {
		return ErrInvalidRange
	}
	return nil
}

// GetLiquidityFromAmountA writes the liquidity that amount of coin A provides over
// [sqrtLower, sqrtUpper]: amount * lower * upper / (upper - lower) / 2^64.
func GetLiquidityFromAmountA(dest, amount, sqrtLower, sqrtUpper *big.Int, roundUp bool) error {
	if err := checkRange(sqrtLower, sqrtUpper); err != nil {
		return err
	}
	numerator := new(big.Int).Mul(amount, sqrtLower)
	numerator.Mul(numerator, sqrtUpper)
	denominator := new(big.Int).Sub(sqrtUpper, sqrtLower)
	denominator.Lsh(denominator, sqrtpricemath.Resolution)
	if roundUp {
		return fullmath.DivRoundUp(dest, numerator, denominator)
	}
	dest.Div(numerator, denominator)
	return nil
}

// GetLiquidityFromAmountB writes the liquidity that amount of coin B provides over
// [sqrtLower, sqrtUpper]: amount * 2^64 / (upper - lower).
func GetLiquidityFromAmountB(dest, amount, sqrtLower, sqrtUpper *big.Int, roundUp bool) error {
	if err := checkRange(sqrtLower, sqrtUpper); err != nil {
		return err
	}
	numerator := new(big.Int).Lsh(amount, sqrtpricemath.Resolution)
	denominator := new(big.Int).Sub(sqrtUpper, sqrtLower)
	if roundUp {
		return fullmath.DivRoundUp(dest, numerator, denominator)
	}
	dest.Div(numerator, denominator)
	return nil
}

// GetCoinAmountsFromLiquidity returns the coins backing liquidity over
// [sqrtLower, sqrtUpper] at currentSqrtPrice. Below the range everything is
// coin A, at or above it everything is coin B.
func GetCoinAmountsFromLiquidity(liquidity, currentSqrtPrice, sqrtLower, sqrtUpper *big.Int, roundUp bool) (clmm.CoinAmounts, error) {
	amounts := clmm.CoinAmounts{CoinA: new(big.Int), CoinB: new(big.Int)}
	if liquidity.Sign() <= 0 {
		return amounts, ErrZeroLiquidityDelta
	}
	if err := checkRange(sqrtLower, sqrtUpper); err != nil {
		return amounts, err
	}

	var err error
	switch {
	case currentSqrtPrice.Cmp(sqrtLower) < 0:
		err = sqrtpricemath.GetAmountAFromLiquidity(amounts.CoinA, liquidity, sqrtLower, sqrtUpper, roundUp)
	case currentSqrtPrice.Cmp(sqrtUpper) < 0:
		if currentSqrtPrice.Cmp(sqrtLower) > 0 {
			if err = sqrtpricemath.GetAmountBFromLiquidity(amounts.CoinB, liquidity, sqrtLower, currentSqrtPrice, roundUp); err != nil {
				return amounts, err
			}
		}
		err = sqrtpricemath.GetAmountAFromLiquidity(amounts.CoinA, liquidity, currentSqrtPrice, sqrtUpper, roundUp)
	default:
		err = sqrtpricemath.GetAmountBFromLiquidity(amounts.CoinB, liquidity, sqrtLower, sqrtUpper, roundUp)
	}
	return amounts, err
}

// EstimateLiquidityFromCoinAmount returns the liquidity that a fixed amount of one
// coin buys over [sqrtLower, sqrtUpper], and the coin amounts (rounded up) that
// adding it requires.
func EstimateLiquidityFromCoinAmount(currentSqrtPrice, sqrtLower, sqrtUpper, amount *big.Int, fixAmountA bool) (*big.Int, clmm.CoinAmounts, error) {
	if err := checkRange(sqrtLower, sqrtUpper); err != nil {
		return nil, clmm.CoinAmounts{}, err
	}
	if amount.Sign() <= 0 {
		return nil, clmm.CoinAmounts{}, ErrZeroLiquidityDelta
	}

	liquidity := new(big.Int)
	var err error
	if fixAmountA {
		if currentSqrtPrice.Cmp(sqrtUpper) >= 0 {
			return nil, clmm.CoinAmounts{}, ErrSideNotAccepted
		}
		lower := sqrtLower
		if currentSqrtPrice.Cmp(lower) > 0 {
			lower = currentSqrtPrice
		}
		err = GetLiquidityFromAmountA(liquidity, amount, lower, sqrtUpper, false)
	} else {
		if currentSqrtPrice.Cmp(sqrtLower) <= 0 {
			return nil, clmm.CoinAmounts{}, ErrSideNotAccepted
		}
		upper := sqrtUpper
		if currentSqrtPrice.Cmp(upper) < 0 {
			upper = currentSqrtPrice
		}
		err = GetLiquidityFromAmountB(liquidity, amount, sqrtLower, upper, false)
	}
	if err != nil {
		return nil, clmm.CoinAmounts{}, err
	}

	amounts, err := GetCoinAmountsFromLiquidity(liquidity, currentSqrtPrice, sqrtLower, sqrtUpper, true)
	if err != nil {
		return nil, clmm.CoinAmounts{}, err
	}
	return liquidity, amounts, nil
}
