package calculator

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/liquiditymath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/swapmath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/tickmath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/tickutil"
)

var (
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be greater than zero", clmm.ErrInvalidInput)
	ErrInvalidFeeRate    = fmt.Errorf("%w: fee rate must be below %d", clmm.ErrInvalidInput, clmm.FeeRateDenominator)
	ErrInvalidPriceLimit = fmt.Errorf("%w: sqrt price limit is on the wrong side of the pool price", clmm.ErrInvalidInput)
	ErrInvalidPoolPrice  = fmt.Errorf("%w: pool sqrt price is outside the protocol bounds", clmm.ErrInvalidInput)
	ErrTickPriceMismatch = fmt.Errorf("%w: tick sqrt price is on the wrong side of the swap", clmm.ErrInvalidInput)
	ErrInconsistentTicks = fmt.Errorf("%w: crossing ticks leaves liquidity out of range", clmm.ErrInvalidInput)
)

// SwapParams describes a swap to simulate.
type SwapParams struct {
	AToB       bool
	ByAmountIn bool
	// Amount is the exact input when ByAmountIn, the exact output otherwise.
	Amount *big.Int
	// SqrtPriceLimit bounds how far the price may move. Nil means the protocol bound.
	SqrtPriceLimit *big.Int
}

// swapState represents the state of a swap as it progresses.
// It includes all temporary variables needed for the simulation to avoid allocations.
type swapState struct {
	amountRemaining *big.Int
	amountIn        *big.Int
	amountOut       *big.Int
	feeAmount       *big.Int
	sqrtPrice       *big.Int
	liquidity       *big.Int
	crossTickNum    uint32

	tickSqrtPrice *big.Int
	targetPrice   *big.Int
	nextPrice     *big.Int
	stepAmountIn  *big.Int
	stepAmountOut *big.Int
	stepFeeAmount *big.Int
	feeRate       *big.Int
	liquidityNet  *big.Int
}

var swapStatePool = sync.Pool{
	New: func() any {
		return &swapState{
			amountRemaining: new(big.Int),
			amountIn:        new(big.Int),
			amountOut:       new(big.Int),
			feeAmount:       new(big.Int),
			sqrtPrice:       new(big.Int),
			liquidity:       new(big.Int),
			tickSqrtPrice:   new(big.Int),
			targetPrice:     new(big.Int),
			nextPrice:       new(big.Int),
			stepAmountIn:    new(big.Int),
			stepAmountOut:   new(big.Int),
			stepFeeAmount:   new(big.Int),
			feeRate:         new(big.Int),
			liquidityNet:    new(big.Int),
		}
	},
}

// DefaultSqrtPriceLimit is the protocol bound a swap in the given direction may reach.
func DefaultSqrtPriceLimit(aToB bool) *big.Int {
	if aToB {
		return tickmath.MIN_SQRT_PRICE
	}
	return tickmath.MAX_SQRT_PRICE
}

func resolvePriceLimit(limit, current *big.Int, aToB bool) (*big.Int, error) {
	if limit == nil {
		return DefaultSqrtPriceLimit(aToB), nil
	}
	if aToB {
		if limit.Cmp(current) >= 0 || limit.Cmp(tickmath.MIN_SQRT_PRICE) < 0 {
			return nil, fmt.Errorf("%w: limit %s, price %s", ErrInvalidPriceLimit, limit, current)
		}
		return limit, nil
	}
	if limit.Cmp(current) <= 0 || limit.Cmp(tickmath.MAX_SQRT_PRICE) > 0 {
		return nil, fmt.Errorf("%w: limit %s, price %s", ErrInvalidPriceLimit, limit, current)
	}
	return limit, nil
}

// ComputeSwap simulates a swap against a pool snapshot and its initialized ticks.
// Ticks may be given in any order; a sorted copy is used when they are not already
// in swap order. Running out of ticks or reaching the price limit ends the swap
// early, which shows up as a partially filled result rather than an error.
func ComputeSwap(pool clmm.Pool, ticks []clmm.Tick, params SwapParams) (clmm.SwapResult, error) {
	if params.Amount == nil || params.Amount.Sign() <= 0 {
		return clmm.SwapResult{}, ErrInvalidAmount
	}
	if pool.FeeRate >= clmm.FeeRateDenominator {
		return clmm.SwapResult{}, fmt.Errorf("%w: got %d", ErrInvalidFeeRate, pool.FeeRate)
	}

	state := swapStatePool.Get().(*swapState)
	defer swapStatePool.Put(state)

	state.sqrtPrice.Set(pool.CurrentSqrtPrice.Big())
	if state.sqrtPrice.Cmp(tickmath.MIN_SQRT_PRICE) < 0 || state.sqrtPrice.Cmp(tickmath.MAX_SQRT_PRICE) > 0 {
		return clmm.SwapResult{}, fmt.Errorf("%w: %s", ErrInvalidPoolPrice, state.sqrtPrice)
	}
	limit, err := resolvePriceLimit(params.SqrtPriceLimit, state.sqrtPrice, params.AToB)
	if err != nil {
		return clmm.SwapResult{}, err
	}

	if !tickutil.IsSortedForSwap(ticks, params.AToB) {
		ticks = tickutil.SortForSwap(ticks, params.AToB)
	}

	state.amountRemaining.Set(params.Amount)
	state.amountIn.SetInt64(0)
	state.amountOut.SetInt64(0)
	state.feeAmount.SetInt64(0)
	state.liquidity.Set(pool.Liquidity.Big())
	state.feeRate.SetUint64(uint64(pool.FeeRate))
	state.crossTickNum = 0

	if err := _swap(state, ticks, pool.CurrentTickIndex, limit, params); err != nil {
		return clmm.SwapResult{}, err
	}

	return clmm.SwapResult{
		AmountIn:      new(big.Int).Add(state.amountIn, state.feeAmount),
		AmountOut:     new(big.Int).Set(state.amountOut),
		FeeAmount:     new(big.Int).Set(state.feeAmount),
		NextSqrtPrice: new(big.Int).Set(state.sqrtPrice),
		CrossTickNum:  state.crossTickNum,
	}, nil
}

// _swap is the core simulation loop. ticks are in swap order.
func _swap(state *swapState, ticks []clmm.Tick, currentTick int32, limit *big.Int, params SwapParams) error {
	aToB := params.AToB

	for i := tickutil.FirstSwapTick(ticks, currentTick, aToB); i < len(ticks); i++ {
		if state.amountRemaining.Sign() == 0 || state.sqrtPrice.Cmp(limit) == 0 {
			break
		}
		tick := ticks[i]

		if tick.SqrtPrice.IsZero() {
			tickmath.GetSqrtPriceAtTick(state.tickSqrtPrice, tick.Index)
		} else {
			state.tickSqrtPrice.Set(tick.SqrtPrice.Big())
		}
		if (aToB && state.tickSqrtPrice.Cmp(state.sqrtPrice) > 0) || (!aToB && state.tickSqrtPrice.Cmp(state.sqrtPrice) < 0) {
			return fmt.Errorf("%w: tick %d", ErrTickPriceMismatch, tick.Index)
		}

		if (aToB && state.tickSqrtPrice.Cmp(limit) < 0) || (!aToB && state.tickSqrtPrice.Cmp(limit) > 0) {
			state.targetPrice.Set(limit)
		} else {
			state.targetPrice.Set(state.tickSqrtPrice)
		}

		err := swapmath.ComputeSwapStep(
			state.nextPrice, state.stepAmountIn, state.stepAmountOut, state.stepFeeAmount, // Destination pointers
			state.sqrtPrice,
			state.targetPrice,
			state.liquidity,
			state.amountRemaining,
			state.feeRate,
			params.ByAmountIn,
		)
		if err != nil {
			return err
		}

		if params.ByAmountIn {
			state.amountRemaining.Sub(state.amountRemaining, state.stepAmountIn)
			state.amountRemaining.Sub(state.amountRemaining, state.stepFeeAmount)
		} else {
			state.amountRemaining.Sub(state.amountRemaining, state.stepAmountOut)
		}
		state.amountIn.Add(state.amountIn, state.stepAmountIn)
		state.amountOut.Add(state.amountOut, state.stepAmountOut)
		state.feeAmount.Add(state.feeAmount, state.stepFeeAmount)
		state.sqrtPrice.Set(state.nextPrice)

		if state.sqrtPrice.Cmp(state.tickSqrtPrice) != 0 {
			// Stopped inside the range: either filled or held at the limit.
			break
		}

		if tick.LiquidityNet != nil {
			state.liquidityNet.Set(tick.LiquidityNet)
		} else {
			state.liquidityNet.SetInt64(0)
		}
		if aToB {
			state.liquidityNet.Neg(state.liquidityNet)
		}
		if err := liquiditymath.AddDelta(state.liquidity, state.liquidity, state.liquidityNet); err != nil {
			if errors.Is(err, liquiditymath.ErrLiquidityUnderflow) || errors.Is(err, liquiditymath.ErrLiquidityOverflow) {
				return fmt.Errorf("%w: tick %d: %v", ErrInconsistentTicks, tick.Index, err)
			}
			return err
		}
		state.crossTickNum++
	}
	return nil
}

// SpotPrice returns the human price of coin A in coin B at the pool's current price.
func SpotPrice(pool clmm.Pool, decimalsA, decimalsB uint8) decimal.Decimal {
	return tickmath.SqrtPriceX64ToPrice(pool.CurrentSqrtPrice.Big(), decimalsA, decimalsB)
}
