package calculator

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/tickmath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/tickutil"
)

const (
	// MaxCrossTicks is the most ticks one swap transaction can cross within its compute budget.
	MaxCrossTicks = 40
	// freeCrossTicks are covered by the default compute budget.
	freeCrossTicks = 6
	// computeUnitsPerTick is the extra compute requested per tick beyond freeCrossTicks.
	computeUnitsPerTick = 22000
)

var hundred = decimal.NewFromInt(100)

// CalculateRatesParams is the input of a swap quote.
type CalculateRatesParams struct {
	DecimalsA      uint8
	DecimalsB      uint8
	AToB           bool
	ByAmountIn     bool
	Amount         *big.Int
	SwapTicks      []clmm.Tick
	CurrentPool    clmm.Pool
	SqrtPriceLimit *big.Int
}

// CalculateRatesResult is a swap quote.
type CalculateRatesResult struct {
	EstimatedAmountIn     *big.Int
	EstimatedAmountOut    *big.Int
	EstimatedEndSqrtPrice *big.Int
	EstimatedFeeAmount    *big.Int
	// IsExceed marks a quote the pool cannot honour in one transaction: the amount was
	// only partly filled, the price limit was reached or too many ticks were crossed.
	IsExceed          bool
	ExtraComputeLimit uint64
	CrossTickNum      uint32
	AToB              bool
	ByAmountIn        bool
	Amount            *big.Int
	PriceImpactPct    decimal.Decimal
}

// CalculateRates quotes a swap. The caller's tick slice is not modified.
func CalculateRates(params CalculateRatesParams) (CalculateRatesResult, error) {
	ticks := tickutil.SortForSwap(params.SwapTicks, params.AToB)

	swap, err := ComputeSwap(params.CurrentPool, ticks, SwapParams{
		AToB:           params.AToB,
		ByAmountIn:     params.ByAmountIn,
		Amount:         params.Amount,
		SqrtPriceLimit: params.SqrtPriceLimit,
	})
	if err != nil {
		return CalculateRatesResult{}, err
	}

	limit := params.SqrtPriceLimit
	if limit == nil {
		limit = DefaultSqrtPriceLimit(params.AToB)
	}

	isExceed := false
	if params.ByAmountIn {
		isExceed = swap.AmountIn.Cmp(params.Amount) < 0
	} else {
		isExceed = swap.AmountOut.Cmp(params.Amount) < 0
	}
	if params.AToB && swap.NextSqrtPrice.Cmp(limit) <= 0 {
		isExceed = true
	}
	if !params.AToB && swap.NextSqrtPrice.Cmp(limit) >= 0 {
		isExceed = true
	}
	if swap.CrossTickNum > MaxCrossTicks {
		isExceed = true
	}

	return CalculateRatesResult{
		EstimatedAmountIn:     swap.AmountIn,
		EstimatedAmountOut:    swap.AmountOut,
		EstimatedEndSqrtPrice: swap.NextSqrtPrice,
		EstimatedFeeAmount:    swap.FeeAmount,
		IsExceed:              isExceed,
		ExtraComputeLimit:     ExtraComputeLimit(swap.CrossTickNum),
		CrossTickNum:          swap.CrossTickNum,
		AToB:                  params.AToB,
		ByAmountIn:            params.ByAmountIn,
		Amount:                new(big.Int).Set(params.Amount),
		PriceImpactPct:        PriceImpactPct(params.CurrentPool.CurrentSqrtPrice.Big(), swap.NextSqrtPrice, params.DecimalsA, params.DecimalsB),
	}, nil
}

// ExtraComputeLimit is the additional compute a swap crossing crossTickNum ticks requests.
// Only counts strictly between freeCrossTicks and MaxCrossTicks ask for more.
func ExtraComputeLimit(crossTickNum uint32) uint64 {
	if crossTickNum <= freeCrossTicks || crossTickNum >= MaxCrossTicks {
		return 0
	}
	return computeUnitsPerTick * uint64(crossTickNum-freeCrossTicks)
}

// PriceImpactPct is |before - after| / before * 100 on human prices.
func PriceImpactPct(sqrtPriceBefore, sqrtPriceAfter *big.Int, decimalsA, decimalsB uint8) decimal.Decimal {
	before := tickmath.SqrtPriceX64ToPrice(sqrtPriceBefore, decimalsA, decimalsB)
	if before.IsZero() {
		return decimal.Zero
	}
	after := tickmath.SqrtPriceX64ToPrice(sqrtPriceAfter, decimalsA, decimalsB)
	return before.Sub(after).Abs().Div(before).Mul(hundred)
}
