package clmm

import (
	"math/big"
	"sort"

	"lukechampine.com/uint128"
)

func copyTick(t Tick) Tick {
	c := t
	if t.LiquidityNet != nil {
		c.LiquidityNet = new(big.Int).Set(t.LiquidityNet)
	}
	if t.RewardersGrowthOutside != nil {
		c.RewardersGrowthOutside = append([]uint128.Uint128(nil), t.RewardersGrowthOutside...)
	}
	return c
}

// DeepCopyPoolView returns v with its own copies of every slice and *big.Int.
func DeepCopyPoolView(v PoolView) PoolView {
	c := v
	if v.RewarderInfos != nil {
		c.RewarderInfos = append([]Rewarder(nil), v.RewarderInfos...)
	}
	if v.Ticks != nil {
		c.Ticks = make([]Tick, len(v.Ticks))
		for i, t := range v.Ticks {
			c.Ticks[i] = copyTick(t)
		}
	}
	return c
}

// Patcher applies diff to prevState and returns the resulting snapshot, ordered by pool address.
// prevState is not modified.
func Patcher(prevState []PoolView, diff PoolViewDiff) ([]PoolView, error) {
	next := make(map[string]PoolView, len(prevState))
	for _, v := range prevState {
		next[v.PoolAddress] = DeepCopyPoolView(v)
	}
	for _, address := range diff.Deletions {
		delete(next, address)
	}
	for _, v := range diff.Updates {
		next[v.PoolAddress] = DeepCopyPoolView(v)
	}
	for _, v := range diff.Additions {
		next[v.PoolAddress] = DeepCopyPoolView(v)
	}

	out := make([]PoolView, 0, len(next))
	for _, v := range next {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PoolAddress < out[j].PoolAddress
	})
	return out, nil
}

// OverrideDiff builds a diff that replaces (or adds) each override in base.
// It is the what-if path: quote against a snapshot with a few pools swapped out.
func OverrideDiff(base, overrides []PoolView) PoolViewDiff {
	known := make(map[string]struct{}, len(base))
	for _, v := range base {
		known[v.PoolAddress] = struct{}{}
	}
	var diff PoolViewDiff
	for _, v := range overrides {
		if _, ok := known[v.PoolAddress]; ok {
			diff.Updates = append(diff.Updates, v)
		} else {
			diff.Additions = append(diff.Additions, v)
		}
	}
	return diff
}
