// Package feemath quotes the trading fees a position has earned but not yet collected.
//
// Fee growth counters are Q64.64 u128 values that wrap by design; every
// subtraction between them is modular.
package feemath

import (
	"fmt"

	"lukechampine.com/uint128"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/fullmath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/tickutil"
)

var ErrTickMismatch = fmt.Errorf("%w: tick does not match the position bound", clmm.ErrInvalidInput)

// CollectFeesQuoteParam bundles the snapshots a fee quote reads.
type CollectFeesQuoteParam struct {
	Pool      clmm.Pool
	Position  clmm.Position
	TickLower clmm.Tick
	TickUpper clmm.Tick
}

// FeesQuote is the total fee owed to a position in each coin.
type FeesQuote struct {
	FeeOwedA uint128.Uint128
	FeeOwedB uint128.Uint128
}

// GrowthInside returns the growth accrued inside [lowerIndex, upperIndex) from the
// global counter and the two ticks' outside counters.
func GrowthInside(currentTick, lowerIndex, upperIndex int32, global, lowerOutside, upperOutside uint128.Uint128) uint128.Uint128 {
	var below, above uint128.Uint128
	if currentTick < lowerIndex {
		below = fullmath.WrappingSubU128(global, lowerOutside)
	} else {
		below = lowerOutside
	}
	if currentTick < upperIndex {
		above = upperOutside
	} else {
		above = fullmath.WrappingSubU128(global, upperOutside)
	}
	return fullmath.WrappingSubU128(fullmath.WrappingSubU128(global, below), above)
}

// OwedDelta converts growth since the position's checkpoint into a token amount.
func OwedDelta(growthInside, checkpoint, liquidity uint128.Uint128) uint128.Uint128 {
	return fullmath.MulShiftRightU128(fullmath.WrappingSubU128(growthInside, checkpoint), liquidity, 64)
}

// CollectFeesQuote returns the fees owed to a position as of the pool snapshot.
func CollectFeesQuote(param CollectFeesQuoteParam) (FeesQuote, error) {
	pool, position := param.Pool, param.Position
	if param.TickLower.Index != position.TickLowerIndex {
		return FeesQuote{}, fmt.Errorf("%w: lower %d != %d", ErrTickMismatch, param.TickLower.Index, position.TickLowerIndex)
	}
	if param.TickUpper.Index != position.TickUpperIndex {
		return FeesQuote{}, fmt.Errorf("%w: upper %d != %d", ErrTickMismatch, param.TickUpper.Index, position.TickUpperIndex)
	}

	insideA := GrowthInside(pool.CurrentTickIndex, position.TickLowerIndex, position.TickUpperIndex,
		pool.FeeGrowthGlobalA, param.TickLower.FeeGrowthOutsideA, param.TickUpper.FeeGrowthOutsideA)
	insideB := GrowthInside(pool.CurrentTickIndex, position.TickLowerIndex, position.TickUpperIndex,
		pool.FeeGrowthGlobalB, param.TickLower.FeeGrowthOutsideB, param.TickUpper.FeeGrowthOutsideB)

	deltaA := OwedDelta(insideA, position.FeeGrowthInsideA, position.Liquidity)
	deltaB := OwedDelta(insideB, position.FeeGrowthInsideB, position.Liquidity)

	return FeesQuote{
		FeeOwedA: fullmath.WrappingAddU128(position.FeeOwedA, deltaA),
		FeeOwedB: fullmath.WrappingAddU128(position.FeeOwedB, deltaB),
	}, nil
}

// CollectFeesQuoteFromTicks looks the position's bound ticks up in ticks and quotes
// its fees. It reports false when either bound is missing from the snapshot.
func CollectFeesQuoteFromTicks(pool clmm.Pool, position clmm.Position, ticks []clmm.Tick) (FeesQuote, bool) {
	lower, ok := tickutil.FindByIndex(ticks, position.TickLowerIndex)
	if !ok {
		return FeesQuote{}, false
	}
	upper, ok := tickutil.FindByIndex(ticks, position.TickUpperIndex)
	if !ok {
		return FeesQuote{}, false
	}
	quote, err := CollectFeesQuote(CollectFeesQuoteParam{Pool: pool, Position: position, TickLower: lower, TickUpper: upper})
	if err != nil {
		return FeesQuote{}, false
	}
	return quote, true
}
