package snapshot

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/fullmath"
)

func TestLoad(t *testing.T) {
	s, err := Load("testdata/pool.yaml")
	require.NoError(t, err)
	require.Len(t, s.Pools, 1)
	require.Len(t, s.Positions, 1)

	pool := s.Pools[0]
	assert.Equal(t, "0x2", pool.PoolAddress)
	assert.Equal(t, uint32(60), pool.TickSpacing)
	assert.Equal(t, uint128.FromBig(fullmath.Q64), pool.CurrentSqrtPrice)
	assert.Equal(t, uint128.From64(10_000_000_000), pool.Liquidity, "unquoted numbers decode too")
	assert.Equal(t, uint128.FromBig(fullmath.Q64), pool.FeeGrowthGlobalA, "hex numbers decode")
	assert.Equal(t, uint128.Zero, pool.FeeGrowthGlobalB, "missing numbers are zero")
	require.Len(t, pool.RewarderInfos, 1)
	assert.Equal(t, uint64(1_700_000_000), pool.RewarderLastUpdatedTime)

	require.Len(t, pool.Ticks, 2)
	assert.Equal(t, int64(-10_000_000_000), pool.Ticks[1].LiquidityNet.Int64())
	assert.Equal(t, []uint128.Uint128{uint128.From64(5)}, pool.Ticks[1].RewardersGrowthOutside)
	assert.Nil(t, pool.Ticks[0].RewardersGrowthOutside)

	pos := s.Positions[0]
	assert.Equal(t, uint128.From64(7), pos.FeeOwedB)
	assert.Equal(t, []uint128.Uint128{uint128.From64(1)}, pos.RewardAmountOwed)

	_, err = Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestDecodeJSON(t *testing.T) {
	in := `{"pools":[{"poolAddress":"0xa","currentSqrtPrice":"18446744073709551616","liquidity":"1","feeRate":100,"ticks":[]}]}`
	s, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, s.Pools, 1)
	assert.Equal(t, uint32(100), s.Pools[0].FeeRate)
	assert.Empty(t, s.Positions)
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want error
	}{
		{"not a number", `pools: [{poolAddress: a, liquidity: "abc"}]`, ErrInvalidNumber},
		{"u128 overflow", `pools: [{poolAddress: a, liquidity: "340282366920938463463374607431768211456"}]`, fullmath.ErrU128Overflow},
		{"negative u128", `pools: [{poolAddress: a, liquidity: "-1"}]`, fullmath.ErrU128Overflow},
		{"i128 overflow", `pools: [{poolAddress: a, ticks: [{index: 1, liquidityNet: "170141183460469231731687303715884105728"}]}]`, ErrI128Overflow},
		{"too many rewarders", `pools: [{poolAddress: a, rewarders: [{}, {}, {}, {}]}]`, clmm.ErrInvalidInput},
		{"empty position range", `positions: [{tickLowerIndex: 5, tickUpperIndex: 5}]`, clmm.ErrInvalidInput},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.in))
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Decode(strings.NewReader("pools: ["))
		assert.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		s, err := Decode(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, s.Pools)
	})
}

func TestFromSnapshotRoundTrip(t *testing.T) {
	s, err := Load("testdata/pool.yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(FromSnapshot(s)))

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.True(t, clmm.Differ(s.Pools, back.Pools).IsEmpty())
	assert.Equal(t, s.Positions, back.Positions)
	assert.Equal(t, 0, back.Pools[0].Ticks[0].LiquidityNet.Cmp(big.NewInt(10_000_000_000)))
}
