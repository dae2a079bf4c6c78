// Package rewardmath accrues pool reward emissions and quotes the rewards owed
// to positions. Accrual is pure: growth vectors go in and come out, nothing is
// retained between calls.
package rewardmath

import (
	"fmt"
	"math/big"
	"time"

	"lukechampine.com/uint128"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/feemath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/fullmath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/tickutil"
)

const secondsPerDay = 24 * 60 * 60

var (
	ErrTooManyRewarders = fmt.Errorf("%w: a pool carries at most %d rewarders", clmm.ErrInvalidInput, clmm.MaxRewarders)
	ErrTickMismatch     = fmt.Errorf("%w: tick does not match the position bound", clmm.ErrInvalidInput)

	secondsPerDayBig = big.NewInt(secondsPerDay)
)

// AccrueGrowthGlobals returns growthGlobals advanced from lastUpdated to now
// (unix seconds). Each slot grows by floor(dt * emissions / liquidity), wrapping.
// With no liquidity or no elapsed time the input is returned unchanged (as a copy).
func AccrueGrowthGlobals(growthGlobals, emissionsPerSecond []uint128.Uint128, liquidity uint128.Uint128, lastUpdated, now uint64) []uint128.Uint128 {
	out := make([]uint128.Uint128, len(growthGlobals))
	copy(out, growthGlobals)
	if liquidity.IsZero() || now <= lastUpdated {
		return out
	}
	elapsed := uint128.From64(now - lastUpdated)
	for i := range out {
		// liquidity is non-zero, so the division cannot fail.
		delta, _ := fullmath.MulDivFloorU128(elapsed, clmm.RewardAt(emissionsPerSecond, i), liquidity)
		out[i] = fullmath.WrappingAddU128(out[i], delta)
	}
	return out
}

// UpdatePoolRewarders returns a copy of pool with its reward growth accrued to now.
func UpdatePoolRewarders(pool clmm.Pool, now time.Time) clmm.Pool {
	nowSeconds := uint64(now.Unix())
	growth := make([]uint128.Uint128, len(pool.RewarderInfos))
	emissions := make([]uint128.Uint128, len(pool.RewarderInfos))
	for i, r := range pool.RewarderInfos {
		growth[i] = r.GrowthGlobal
		emissions[i] = r.EmissionsPerSecond
	}
	growth = AccrueGrowthGlobals(growth, emissions, pool.Liquidity, pool.RewarderLastUpdatedTime, nowSeconds)

	updated := pool
	updated.RewarderInfos = make([]clmm.Rewarder, len(pool.RewarderInfos))
	for i, r := range pool.RewarderInfos {
		r.GrowthGlobal = growth[i]
		updated.RewarderInfos[i] = r
	}
	if nowSeconds > pool.RewarderLastUpdatedTime {
		updated.RewarderLastUpdatedTime = nowSeconds
	}
	return updated
}

// GrowthInside returns each rewarder's growth inside the position range.
// Missing outside counters on a tick read as zero.
func GrowthInside(pool clmm.Pool, tickLower, tickUpper clmm.Tick) []uint128.Uint128 {
	inside := make([]uint128.Uint128, len(pool.RewarderInfos))
	for i, r := range pool.RewarderInfos {
		inside[i] = feemath.GrowthInside(pool.CurrentTickIndex, tickLower.Index, tickUpper.Index,
			r.GrowthGlobal,
			clmm.RewardAt(tickLower.RewardersGrowthOutside, i),
			clmm.RewardAt(tickUpper.RewardersGrowthOutside, i))
	}
	return inside
}

// PosRewardersParams bundles the snapshots a reward quote reads.
type PosRewardersParams struct {
	Pool        clmm.Pool
	Position    clmm.Position
	TickLower   clmm.Tick
	TickUpper   clmm.Tick
	CurrentTime time.Time
}

// RewarderAmountOwed is the reward owed to a position by one rewarder.
type RewarderAmountOwed struct {
	AmountOwed uint128.Uint128
	CoinType   string
}

// PosRewardersAmount quotes every rewarder's amount owed to a position as of CurrentTime.
func PosRewardersAmount(params PosRewardersParams) ([]RewarderAmountOwed, error) {
	if len(params.Pool.RewarderInfos) > clmm.MaxRewarders {
		return nil, ErrTooManyRewarders
	}
	position := params.Position
	if params.TickLower.Index != position.TickLowerIndex || params.TickUpper.Index != position.TickUpperIndex {
		return nil, fmt.Errorf("%w: [%d, %d) != [%d, %d)", ErrTickMismatch,
			params.TickLower.Index, params.TickUpper.Index, position.TickLowerIndex, position.TickUpperIndex)
	}

	pool := UpdatePoolRewarders(params.Pool, params.CurrentTime)
	inside := GrowthInside(pool, params.TickLower, params.TickUpper)

	owed := make([]RewarderAmountOwed, len(inside))
	for i := range inside {
		delta := feemath.OwedDelta(inside[i], clmm.RewardAt(position.RewardGrowthInside, i), position.Liquidity)
		owed[i] = RewarderAmountOwed{
			AmountOwed: fullmath.WrappingAddU128(clmm.RewardAt(position.RewardAmountOwed, i), delta),
			CoinType:   pool.RewarderInfos[i].CoinType,
		}
	}
	return owed, nil
}

// PosRewardersAmountFromTicks looks the position's bound ticks up in ticks and quotes
// its rewards. It reports false when either bound is missing from the snapshot.
func PosRewardersAmountFromTicks(pool clmm.Pool, position clmm.Position, ticks []clmm.Tick, now time.Time) ([]RewarderAmountOwed, bool, error) {
	lower, ok := tickutil.FindByIndex(ticks, position.TickLowerIndex)
	if !ok {
		return nil, false, nil
	}
	upper, ok := tickutil.FindByIndex(ticks, position.TickUpperIndex)
	if !ok {
		return nil, false, nil
	}
	owed, err := PosRewardersAmount(PosRewardersParams{Pool: pool, Position: position, TickLower: lower, TickUpper: upper, CurrentTime: now})
	if err != nil {
		return nil, false, err
	}
	return owed, true, nil
}

// PositionTicks is a position with its two bound ticks.
type PositionTicks struct {
	Position  clmm.Position
	TickLower clmm.Tick
	TickUpper clmm.Tick
}

// PoolRewardersAmount sums the rewards owed across positions, one total per rewarder.
func PoolRewardersAmount(pool clmm.Pool, positions []PositionTicks, now time.Time) ([]uint128.Uint128, error) {
	totals := make([]uint128.Uint128, len(pool.RewarderInfos))
	for _, p := range positions {
		owed, err := PosRewardersAmount(PosRewardersParams{
			Pool:        pool,
			Position:    p.Position,
			TickLower:   p.TickLower,
			TickUpper:   p.TickUpper,
			CurrentTime: now,
		})
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", p.Position.Index, err)
		}
		for i, o := range owed {
			totals[i] = fullmath.WrappingAddU128(totals[i], o.AmountOwed)
		}
	}
	return totals, nil
}

// DailyEmission is a rewarder's emission over one day, in whole tokens (smallest unit).
// Emissions can exceed 2^64, so it is kept unbounded.
type DailyEmission struct {
	Emissions *big.Int
	CoinType  string
}

// EmissionsEveryDay returns floor(emissionsPerSecond * 86400) for each rewarder.
func EmissionsEveryDay(pool clmm.Pool) []DailyEmission {
	out := make([]DailyEmission, len(pool.RewarderInfos))
	for i, r := range pool.RewarderInfos {
		perDay := new(big.Int).Mul(r.EmissionsPerSecond.Big(), secondsPerDayBig)
		out[i] = DailyEmission{
			Emissions: perDay.Rsh(perDay, 64),
			CoinType:  r.CoinType,
		}
	}
	return out
}
