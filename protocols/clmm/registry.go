package clmm

import (
	"math/big"

	"lukechampine.com/uint128"
)

const (
	// FeeRateDenominator expresses FeeRate in parts per million.
	FeeRateDenominator = 1_000_000
	// MaxRewarders is the number of reward emission slots a pool carries.
	MaxRewarders = 3
)

// PoolImmutables are the pool fields fixed at creation.
type PoolImmutables struct {
	PoolAddress string `json:"poolAddress"`
	CoinTypeA   string `json:"coinTypeA"`
	CoinTypeB   string `json:"coinTypeB"`
	TickSpacing uint32 `json:"tickSpacing"`
}

// Rewarder is one reward emission slot of a pool.
type Rewarder struct {
	CoinType string `json:"coinType"`
	// EmissionsPerSecond is a Q64.64 token amount per second.
	EmissionsPerSecond uint128.Uint128 `json:"emissionsPerSecond"`
	// GrowthGlobal is the Q64.64 reward per unit of liquidity accrued since pool creation.
	GrowthGlobal uint128.Uint128 `json:"growthGlobal"`
}

// Pool is a value snapshot of a pool's mutable state.
// u128 counters wrap by protocol design, so they are kept fixed-width.
type Pool struct {
	PoolImmutables `json:",inline"`

	CurrentSqrtPrice uint128.Uint128 `json:"currentSqrtPrice"`
	CurrentTickIndex int32           `json:"currentTickIndex"`
	Liquidity        uint128.Uint128 `json:"liquidity"`
	FeeRate          uint32          `json:"feeRate"`

	FeeGrowthGlobalA uint128.Uint128 `json:"feeGrowthGlobalA"`
	FeeGrowthGlobalB uint128.Uint128 `json:"feeGrowthGlobalB"`
	FeeProtocolCoinA uint64          `json:"feeProtocolCoinA"`
	FeeProtocolCoinB uint64          `json:"feeProtocolCoinB"`

	RewarderInfos []Rewarder `json:"rewarderInfos"`
	// RewarderLastUpdatedTime is in unix seconds.
	RewarderLastUpdatedTime uint64 `json:"rewarderLastUpdatedTime"`

	IsPause bool `json:"isPause"`
}

// Tick is an initialized tick boundary.
type Tick struct {
	Index          int32           `json:"index"`
	SqrtPrice      uint128.Uint128 `json:"sqrtPrice"`
	LiquidityGross uint128.Uint128 `json:"liquidityGross"`
	// LiquidityNet is a signed i128 applied when the price crosses the tick upward.
	LiquidityNet *big.Int `json:"liquidityNet"`

	FeeGrowthOutsideA      uint128.Uint128   `json:"feeGrowthOutsideA"`
	FeeGrowthOutsideB      uint128.Uint128   `json:"feeGrowthOutsideB"`
	RewardersGrowthOutside []uint128.Uint128 `json:"rewardersGrowthOutside"`
}

// Position is an LP position over [TickLowerIndex, TickUpperIndex).
type Position struct {
	PoolAddress    string          `json:"poolAddress"`
	Index          uint64          `json:"index"`
	Liquidity      uint128.Uint128 `json:"liquidity"`
	TickLowerIndex int32           `json:"tickLowerIndex"`
	TickUpperIndex int32           `json:"tickUpperIndex"`

	FeeGrowthInsideA uint128.Uint128 `json:"feeGrowthInsideA"`
	FeeGrowthInsideB uint128.Uint128 `json:"feeGrowthInsideB"`
	FeeOwedA         uint128.Uint128 `json:"feeOwedA"`
	FeeOwedB         uint128.Uint128 `json:"feeOwedB"`

	RewardGrowthInside []uint128.Uint128 `json:"rewardGrowthInside"`
	RewardAmountOwed   []uint128.Uint128 `json:"rewardAmountOwed"`
}

// IsClosable reports whether the position holds no liquidity and nothing is owed to it.
func (p Position) IsClosable() bool {
	if !p.Liquidity.IsZero() || !p.FeeOwedA.IsZero() || !p.FeeOwedB.IsZero() {
		return false
	}
	for _, owed := range p.RewardAmountOwed {
		if !owed.IsZero() {
			return false
		}
	}
	return true
}

// PoolView is a pool together with its initialized ticks.
type PoolView struct {
	Pool  `json:",inline"`
	Ticks []Tick `json:"ticks"`
}

// SwapResult is the outcome of a simulated swap.
type SwapResult struct {
	// AmountIn includes FeeAmount.
	AmountIn      *big.Int `json:"amountIn"`
	AmountOut     *big.Int `json:"amountOut"`
	FeeAmount     *big.Int `json:"feeAmount"`
	NextSqrtPrice *big.Int `json:"nextSqrtPrice"`
	CrossTickNum  uint32   `json:"crossTickNum"`
}

// CoinAmounts is a pair of coin A and coin B amounts.
type CoinAmounts struct {
	CoinA *big.Int `json:"coinA"`
	CoinB *big.Int `json:"coinB"`
}

// RewardAt returns the i-th element of a reward vector, zero when absent.
func RewardAt(v []uint128.Uint128, i int) uint128.Uint128 {
	if i < 0 || i >= len(v) {
		return uint128.Zero
	}
	return v[i]
}
