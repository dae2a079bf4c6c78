package sqrtpricemath

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
)

var (
	// Q64 is 1.0 in Q64.64.
	Q64 = new(big.Int).Lsh(big.NewInt(1), 64)
	// Resolution is the number of fractional bits of a sqrt price.
	Resolution = uint(64)

	ErrLiquidityZero       = fmt.Errorf("%w: liquidity must be greater than zero", clmm.ErrInvalidInput)
	ErrSqrtPriceZero       = fmt.Errorf("%w: sqrt price must be greater than zero", clmm.ErrInvalidInput)
	ErrEqualSqrtPrices     = fmt.Errorf("%w: sqrt price bounds must differ", clmm.ErrInvalidInput)
	ErrAmountExceedsSupply = fmt.Errorf("%w: amount exceeds what the liquidity can supply", clmm.ErrInvalidInput)

	one = big.NewInt(1)
)

// SqrtPriceMath holds reusable big.Int objects to avoid memory allocations.
// Instances are managed by a sync.Pool for safe concurrent use.
type SqrtPriceMath struct {
	product     *big.Int
	numerator1  *big.Int
	numerator2  *big.Int
	denominator *big.Int
	quotient    *big.Int
	rem         *big.Int
}

var pool = sync.Pool{
	New: func() any {
		return &SqrtPriceMath{
			product:     new(big.Int),
			numerator1:  new(big.Int),
			numerator2:  new(big.Int),
			denominator: new(big.Int),
			quotient:    new(big.Int),
			rem:         new(big.Int),
		}
	},
}

// mulDiv writes (a * b) / c into dest.
func (s *SqrtPriceMath) mulDiv(dest, a, b, c *big.Int) {
	s.product.Mul(a, b)
	dest.Div(s.product, c)
}

// mulDivRoundingUp writes ceil((a * b) / c) into dest.
func (s *SqrtPriceMath) mulDivRoundingUp(dest, a, b, c *big.Int) {
	s.product.Mul(a, b)
	s.divRoundingUp(dest, s.product, c)
}

// divRoundingUp writes ceil(a / b) into dest.
func (s *SqrtPriceMath) divRoundingUp(dest, a, b *big.Int) {
	dest.QuoRem(a, b, s.rem)
	if s.rem.Sign() > 0 {
		dest.Add(dest, one)
	}
}

func orderPrices(sqrtPrice0, sqrtPrice1 *big.Int) (lower, upper *big.Int, err error) {
	lower, upper = sqrtPrice0, sqrtPrice1
	if lower.Cmp(upper) > 0 {
		lower, upper = upper, lower
	}
	if lower.Sign() <= 0 {
		return nil, nil, ErrSqrtPriceZero
	}
	if lower.Cmp(upper) == 0 {
		return nil, nil, ErrEqualSqrtPrices
	}
	return lower, upper, nil
}

// GetAmountAFromLiquidity writes the coin A held by liquidity between two sqrt prices:
// L * (upper - lower) * 2^64 / (upper * lower).
func GetAmountAFromLiquidity(dest, liquidity, sqrtPrice0, sqrtPrice1 *big.Int, roundUp bool) error {
	lower, upper, err := orderPrices(sqrtPrice0, sqrtPrice1)
	if err != nil {
		return err
	}

	s := pool.Get().(*SqrtPriceMath)
	defer pool.Put(s)

	s.numerator1.Sub(upper, lower)
	s.numerator1.Mul(s.numerator1, liquidity)
	s.numerator1.Lsh(s.numerator1, Resolution)
	s.denominator.Mul(upper, lower)

	if roundUp {
		s.divRoundingUp(dest, s.numerator1, s.denominator)
	} else {
		dest.Div(s.numerator1, s.denominator)
	}
	return nil
}

// GetAmountBFromLiquidity writes the coin B held by liquidity between two sqrt prices:
// L * (upper - lower) / 2^64.
func GetAmountBFromLiquidity(dest, liquidity, sqrtPrice0, sqrtPrice1 *big.Int, roundUp bool) error {
	lower, upper, err := orderPrices(sqrtPrice0, sqrtPrice1)
	if err != nil {
		return err
	}

	s := pool.Get().(*SqrtPriceMath)
	defer pool.Put(s)

	s.numerator1.Sub(upper, lower)
	if roundUp {
		s.mulDivRoundingUp(dest, liquidity, s.numerator1, Q64)
	} else {
		s.mulDiv(dest, liquidity, s.numerator1, Q64)
	}
	return nil
}

// GetLowerSqrtPriceFromCoinA writes the price reached after adding amount of coin A, rounding up.
func GetLowerSqrtPriceFromCoinA(dest, amount, liquidity, sqrtPrice *big.Int) error {
	s := pool.Get().(*SqrtPriceMath)
	defer pool.Put(s)

	s.numerator1.Mul(liquidity, sqrtPrice)
	s.numerator1.Lsh(s.numerator1, Resolution)
	s.denominator.Lsh(liquidity, Resolution)
	s.numerator2.Mul(amount, sqrtPrice)
	s.denominator.Add(s.denominator, s.numerator2)
	if s.denominator.Sign() <= 0 {
		return ErrLiquidityZero
	}
	s.divRoundingUp(dest, s.numerator1, s.denominator)
	return nil
}

// GetUpperSqrtPriceFromCoinA writes the price reached after removing amount of coin A, rounding up.
func GetUpperSqrtPriceFromCoinA(dest, amount, liquidity, sqrtPrice *big.Int) error {
	s := pool.Get().(*SqrtPriceMath)
	defer pool.Put(s)

	s.numerator1.Mul(liquidity, sqrtPrice)
	s.numerator1.Lsh(s.numerator1, Resolution)
	s.denominator.Lsh(liquidity, Resolution)
	s.numerator2.Mul(amount, sqrtPrice)
	if s.denominator.Cmp(s.numerator2) <= 0 {
		return ErrAmountExceedsSupply
	}
	s.denominator.Sub(s.denominator, s.numerator2)
	s.divRoundingUp(dest, s.numerator1, s.denominator)
	return nil
}

// GetLowerSqrtPriceFromCoinB writes the price reached after removing amount of coin B, rounding down.
func GetLowerSqrtPriceFromCoinB(dest, amount, liquidity, sqrtPrice *big.Int) error {
	s := pool.Get().(*SqrtPriceMath)
	defer pool.Put(s)

	s.numerator1.Lsh(amount, Resolution)
	s.divRoundingUp(s.quotient, s.numerator1, liquidity)
	if sqrtPrice.Cmp(s.quotient) <= 0 {
		return ErrAmountExceedsSupply
	}
	dest.Sub(sqrtPrice, s.quotient)
	return nil
}

// GetUpperSqrtPriceFromCoinB writes the price reached after adding amount of coin B, rounding down.
func GetUpperSqrtPriceFromCoinB(dest, amount, liquidity, sqrtPrice *big.Int) error {
	s := pool.Get().(*SqrtPriceMath)
	defer pool.Put(s)

	s.numerator1.Lsh(amount, Resolution)
	s.quotient.Div(s.numerator1, liquidity)
	dest.Add(sqrtPrice, s.quotient)
	return nil
}

// GetNextSqrtPrice writes the sqrt price after moving amount through liquidity.
// Input of A or output of B moves the price down; the other two cases move it up.
func GetNextSqrtPrice(dest, sqrtPrice, liquidity, amount *big.Int, byAmountIn, aToB bool) error {
	if sqrtPrice.Sign() <= 0 {
		return ErrSqrtPriceZero
	}
	if liquidity.Sign() <= 0 {
		return ErrLiquidityZero
	}
	if amount.Sign() == 0 {
		dest.Set(sqrtPrice)
		return nil
	}

	switch {
	case byAmountIn && aToB:
		return GetLowerSqrtPriceFromCoinA(dest, amount, liquidity, sqrtPrice)
	case byAmountIn && !aToB:
		return GetUpperSqrtPriceFromCoinB(dest, amount, liquidity, sqrtPrice)
	case !byAmountIn && aToB:
		return GetLowerSqrtPriceFromCoinB(dest, amount, liquidity, sqrtPrice)
	default:
		return GetUpperSqrtPriceFromCoinA(dest, amount, liquidity, sqrtPrice)
	}
}

// GetAmountFixedDelta writes the amount on the leg the caller fixed: the input
// (rounded up) when byAmountIn, the output (rounded down) otherwise.
func GetAmountFixedDelta(dest, currentSqrtPrice, targetSqrtPrice, liquidity *big.Int, byAmountIn, aToB bool) error {
	if byAmountIn == aToB {
		return GetAmountAFromLiquidity(dest, liquidity, currentSqrtPrice, targetSqrtPrice, byAmountIn)
	}
	return GetAmountBFromLiquidity(dest, liquidity, currentSqrtPrice, targetSqrtPrice, byAmountIn)
}

// GetAmountUnfixedDelta writes the amount on the other leg: the output (rounded down)
// when byAmountIn, the input (rounded up) otherwise.
func GetAmountUnfixedDelta(dest, currentSqrtPrice, targetSqrtPrice, liquidity *big.Int, byAmountIn, aToB bool) error {
	if byAmountIn == aToB {
		return GetAmountBFromLiquidity(dest, liquidity, currentSqrtPrice, targetSqrtPrice, !byAmountIn)
	}
	return GetAmountAFromLiquidity(dest, liquidity, currentSqrtPrice, targetSqrtPrice, !byAmountIn)
}
