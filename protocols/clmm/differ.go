package clmm

import (
	"slices"
	"sort"
)

// PoolViewDiff is the set of changes that turns one snapshot of pool views into another.
type PoolViewDiff struct {
	Additions []PoolView `json:"additions,omitempty"`
	Updates   []PoolView `json:"updates,omitempty"`
	Deletions []string   `json:"deletions,omitempty"`
}

// IsEmpty returns true if the diff contains no changes.
func (d PoolViewDiff) IsEmpty() bool {
	return len(d.Additions) == 0 && len(d.Updates) == 0 && len(d.Deletions) == 0
}

func poolChanged(old, new Pool) bool {
	if old.CurrentTickIndex != new.CurrentTickIndex ||
		old.CurrentSqrtPrice != new.CurrentSqrtPrice ||
		old.Liquidity != new.Liquidity ||
		old.FeeRate != new.FeeRate ||
		old.IsPause != new.IsPause ||
		old.PoolImmutables != new.PoolImmutables {
		return true
	}
	if old.FeeGrowthGlobalA != new.FeeGrowthGlobalA || old.FeeGrowthGlobalB != new.FeeGrowthGlobalB {
		return true
	}
	if old.FeeProtocolCoinA != new.FeeProtocolCoinA || old.FeeProtocolCoinB != new.FeeProtocolCoinB {
		return true
	}
	if old.RewarderLastUpdatedTime != new.RewarderLastUpdatedTime {
		return true
	}
	return !slices.Equal(old.RewarderInfos, new.RewarderInfos)
}

func tickChanged(old, new Tick) bool {
	if old.Index != new.Index ||
		old.SqrtPrice != new.SqrtPrice ||
		old.LiquidityGross != new.LiquidityGross ||
		old.FeeGrowthOutsideA != new.FeeGrowthOutsideA ||
		old.FeeGrowthOutsideB != new.FeeGrowthOutsideB {
		return true
	}
	if (old.LiquidityNet == nil) != (new.LiquidityNet == nil) {
		return true
	}
	if old.LiquidityNet != nil && old.LiquidityNet.Cmp(new.LiquidityNet) != 0 {
		return true
	}
	return !slices.Equal(old.RewardersGrowthOutside, new.RewardersGrowthOutside)
}

func sortedTicks(ticks []Tick) []Tick {
	out := make([]Tick, len(ticks))
	copy(out, ticks)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}

// viewChanged compares pool state and ticks. Tick order does not matter.
func viewChanged(old, new PoolView) bool {
	if poolChanged(old.Pool, new.Pool) {
		return true
	}
	if len(old.Ticks) != len(new.Ticks) {
		return true
	}
	oldTicks, newTicks := sortedTicks(old.Ticks), sortedTicks(new.Ticks)
	for i := range oldTicks {
		if tickChanged(oldTicks[i], newTicks[i]) {
			return true
		}
	}
	return false
}

// Differ computes the changes between two snapshots of pool views, keyed by pool address.
// Output slices are ordered by pool address.
func Differ(old, new []PoolView) PoolViewDiff {
	oldByAddress := make(map[string]PoolView, len(old))
	for _, v := range old {
		oldByAddress[v.PoolAddress] = v
	}
	newByAddress := make(map[string]PoolView, len(new))
	for _, v := range new {
		newByAddress[v.PoolAddress] = v
	}

	var diff PoolViewDiff
	for address, newView := range newByAddress {
		oldView, exists := oldByAddress[address]
		if !exists {
			diff.Additions = append(diff.Additions, newView)
		} else if viewChanged(oldView, newView) {
			diff.Updates = append(diff.Updates, newView)
		}
	}
	for address := range oldByAddress {
		if _, exists := newByAddress[address]; !exists {
			diff.Deletions = append(diff.Deletions, address)
		}
	}

	byAddress := func(views []PoolView) func(i, j int) bool {
		return func(i, j int) bool { return views[i].PoolAddress < views[j].PoolAddress }
	}
	sort.Slice(diff.Additions, byAddress(diff.Additions))
	sort.Slice(diff.Updates, byAddress(diff.Updates))
	sort.Strings(diff.Deletions)
	return diff
}
