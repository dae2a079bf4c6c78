package clmm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func findView(views []PoolView, address string) *PoolView {
	for i := range views {
		if views[i].PoolAddress == address {
			return &views[i]
		}
	}
	return nil
}

func TestPatcher(t *testing.T) {
	tick1 := Tick{Index: 60, LiquidityNet: big.NewInt(100), RewardersGrowthOutside: []uint128.Uint128{uint128.From64(1)}}
	tick2 := Tick{Index: 120, LiquidityNet: big.NewInt(-100)}

	initialState := []PoolView{
		newTestView("0x01", 1000, 5000, 100, []Tick{tick1}),
		newTestView("0x02", 2000, 6000, 200, []Tick{tick2}),
		newTestView("0x03", 3000, 7000, 300, nil),
	}

	t.Run("should handle only additions", func(t *testing.T) {
		newState, err := Patcher(initialState, PoolViewDiff{
			Additions: []PoolView{newTestView("0x04", 4000, 8000, 400, nil)},
		})
		require.NoError(t, err)

		assert.Len(t, newState, 4)
		added := findView(newState, "0x04")
		require.NotNil(t, added)
		assert.Equal(t, uint128.From64(4000), added.Liquidity)
	})

	t.Run("should handle only deletions", func(t *testing.T) {
		newState, err := Patcher(initialState, PoolViewDiff{Deletions: []string{"0x02"}})
		require.NoError(t, err)

		assert.Len(t, newState, 2)
		assert.Nil(t, findView(newState, "0x02"))
	})

	t.Run("should handle only updates", func(t *testing.T) {
		newState, err := Patcher(initialState, PoolViewDiff{
			Updates: []PoolView{newTestView("0x01", 1001, 5005, 101, []Tick{tick1})},
		})
		require.NoError(t, err)

		updated := findView(newState, "0x01")
		require.NotNil(t, updated)
		assert.Equal(t, uint128.From64(1001), updated.Liquidity)
		assert.Equal(t, uint128.From64(5005), updated.CurrentSqrtPrice)
		assert.Equal(t, int32(101), updated.CurrentTickIndex)
	})

	t.Run("output is ordered by address", func(t *testing.T) {
		newState, err := Patcher(initialState, PoolViewDiff{
			Additions: []PoolView{newTestView("0x00", 1, 1, 0, nil)},
		})
		require.NoError(t, err)
		for i := 1; i < len(newState); i++ {
			assert.Less(t, newState[i-1].PoolAddress, newState[i].PoolAddress)
		}
	})

	t.Run("should deep copy the previous state", func(t *testing.T) {
		local := []PoolView{newTestView("0x01", 1000, 5000, 100, []Tick{copyTick(tick1)})}

		newState, err := Patcher(local, PoolViewDiff{})
		require.NoError(t, err)
		require.Len(t, newState, 1)

		newState[0].Ticks[0].LiquidityNet.SetInt64(999)
		newState[0].Ticks[0].RewardersGrowthOutside[0] = uint128.From64(999)

		assert.Equal(t, int64(100), local[0].Ticks[0].LiquidityNet.Int64())
		assert.Equal(t, uint128.From64(1), local[0].Ticks[0].RewardersGrowthOutside[0])
	})

	t.Run("round trips with Differ", func(t *testing.T) {
		target := []PoolView{
			newTestView("0x01", 1000, 5001, 100, []Tick{tick1, tick2}),
			newTestView("0x03", 3000, 7000, 300, nil),
			newTestView("0x05", 1, 2, 3, nil),
		}
		newState, err := Patcher(initialState, Differ(initialState, target))
		require.NoError(t, err)
		assert.True(t, Differ(newState, target).IsEmpty())
	})
}

func TestOverrideDiff(t *testing.T) {
	base := []PoolView{newTestView("0x01", 1000, 5000, 100, nil)}
	overrides := []PoolView{
		newTestView("0x01", 9, 9, 9, nil),
		newTestView("0x09", 1, 1, 1, nil),
	}

	diff := OverrideDiff(base, overrides)
	require.Len(t, diff.Updates, 1)
	require.Len(t, diff.Additions, 1)
	assert.Empty(t, diff.Deletions)

	patched, err := Patcher(base, diff)
	require.NoError(t, err)
	require.Len(t, patched, 2)
	assert.Equal(t, uint128.From64(9), findView(patched, "0x01").Liquidity)
}
