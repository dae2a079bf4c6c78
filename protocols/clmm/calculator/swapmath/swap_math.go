package swapmath

import (
	"math/big"
	"sync"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/sqrtpricemath"
)

var (
	// feeDenominator is the denominator for fee calculations, representing 100% or 1,000,000 ppm.
	feeDenominator = big.NewInt(clmm.FeeRateDenominator)
)

// SwapMath holds reusable big.Int objects for all calculations to avoid memory allocations.
// Instances are managed by a sync.Pool for safe concurrent use.
type SwapMath struct {
	sqrtPriceNext *big.Int
	amountIn      *big.Int
	amountOut     *big.Int
	feeAmount     *big.Int

	amountRemainingLessFee *big.Int
	maxAmount              *big.Int
	tempValue              *big.Int
	product                *big.Int
}

var swapMathPool = sync.Pool{
	New: func() any {
		return &SwapMath{
			sqrtPriceNext:          new(big.Int),
			amountIn:               new(big.Int),
			amountOut:              new(big.Int),
			feeAmount:              new(big.Int),
			amountRemainingLessFee: new(big.Int),
			maxAmount:              new(big.Int),
			tempValue:              new(big.Int),
			product:                new(big.Int),
		}
	},
}

// ComputeSwapStep calculates the result of a swap between the current price and a target price.
// The target is either the next initialized tick or the caller's price limit.
// amountRemaining is the unfilled input (byAmountIn) or output; feeRate is in ppm.
func ComputeSwapStep(
	// destination pointers
	sqrtPriceNext *big.Int,
	amountIn *big.Int,
	amountOut *big.Int,
	feeAmount *big.Int,

	sqrtPriceCurrent *big.Int,
	sqrtPriceTarget *big.Int,
	liquidity *big.Int,
	amountRemaining *big.Int,
	feeRate *big.Int,
	byAmountIn bool,
) error {
	s := swapMathPool.Get().(*SwapMath)
	defer swapMathPool.Put(s)

	if err := s.computeSwapStep(sqrtPriceCurrent, sqrtPriceTarget, liquidity, amountRemaining, feeRate, byAmountIn); err != nil {
		return err
	}

	sqrtPriceNext.Set(s.sqrtPriceNext)
	amountIn.Set(s.amountIn)
	amountOut.Set(s.amountOut)
	feeAmount.Set(s.feeAmount)
	return nil
}

func (s *SwapMath) computeSwapStep(
	sqrtPriceCurrent, sqrtPriceTarget, liquidity, amountRemaining, feeRate *big.Int, byAmountIn bool,
) error {
	aToB := sqrtPriceCurrent.Cmp(sqrtPriceTarget) >= 0

	s.amountIn.SetInt64(0)
	s.amountOut.SetInt64(0)
	s.feeAmount.SetInt64(0)

	// An empty range or a step that is already at its target moves straight to the target.
	if liquidity.Sign() == 0 || sqrtPriceCurrent.Cmp(sqrtPriceTarget) == 0 {
		s.sqrtPriceNext.Set(sqrtPriceTarget)
		return nil
	}

	if byAmountIn {
		// The fee is floored on the gross input; the rest moves the price.
		s.mulDiv(s.feeAmount, amountRemaining, feeRate, feeDenominator)
		s.amountRemainingLessFee.Sub(amountRemaining, s.feeAmount)

		if err := sqrtpricemath.GetAmountFixedDelta(s.maxAmount, sqrtPriceCurrent, sqrtPriceTarget, liquidity, true, aToB); err != nil {
			return err
		}

		if s.maxAmount.Cmp(s.amountRemainingLessFee) > 0 {
			// Partial step: the whole remainder is consumed.
			s.amountIn.Set(s.amountRemainingLessFee)
			if err := sqrtpricemath.GetNextSqrtPrice(s.sqrtPriceNext, sqrtPriceCurrent, liquidity, s.amountIn, true, aToB); err != nil {
				return err
			}
		} else {
			s.amountIn.Set(s.maxAmount)
			s.grossFee(feeRate)
			// amountIn == amountRemainingLessFee can floor one unit above what is left.
			s.tempValue.Sub(amountRemaining, s.amountIn)
			if s.feeAmount.Cmp(s.tempValue) > 0 {
				s.feeAmount.Set(s.tempValue)
			}
			s.sqrtPriceNext.Set(sqrtPriceTarget)
		}
		return s.deltaOrZero(s.amountOut, sqrtPriceCurrent, liquidity, true, aToB, sqrtpricemath.GetAmountUnfixedDelta)
	}

	if err := sqrtpricemath.GetAmountFixedDelta(s.maxAmount, sqrtPriceCurrent, sqrtPriceTarget, liquidity, false, aToB); err != nil {
		return err
	}

	if s.maxAmount.Cmp(amountRemaining) > 0 {
		s.amountOut.Set(amountRemaining)
		if err := sqrtpricemath.GetNextSqrtPrice(s.sqrtPriceNext, sqrtPriceCurrent, liquidity, s.amountOut, false, aToB); err != nil {
			return err
		}
	} else {
		s.amountOut.Set(s.maxAmount)
		s.sqrtPriceNext.Set(sqrtPriceTarget)
	}

	if err := s.deltaOrZero(s.amountIn, sqrtPriceCurrent, liquidity, false, aToB, sqrtpricemath.GetAmountUnfixedDelta); err != nil {
		return err
	}
	s.grossFee(feeRate)
	return nil
}

// grossFee writes floor(amountIn * feeRate / (D - feeRate)) into feeAmount: the
// floored fee of a gross input whose net part is amountIn.
func (s *SwapMath) grossFee(feeRate *big.Int) {
	s.tempValue.Sub(feeDenominator, feeRate)
	s.mulDiv(s.feeAmount, s.amountIn, feeRate, s.tempValue)
}

type deltaFunc func(dest, currentSqrtPrice, targetSqrtPrice, liquidity *big.Int, byAmountIn, aToB bool) error

// deltaOrZero evaluates f between the current and the next price; a step that
// did not move the price exchanges nothing on that leg.
func (s *SwapMath) deltaOrZero(dest, sqrtPriceCurrent, liquidity *big.Int, byAmountIn, aToB bool, f deltaFunc) error {
	if sqrtPriceCurrent.Cmp(s.sqrtPriceNext) == 0 {
		dest.SetInt64(0)
		return nil
	}
	return f(dest, sqrtPriceCurrent, s.sqrtPriceNext, liquidity, byAmountIn, aToB)
}

// mulDiv writes (a * b) / c into dest.
func (s *SwapMath) mulDiv(dest, a, b, c *big.Int) {
	s.product.Mul(a, b)
	dest.Div(s.product, c)
}
