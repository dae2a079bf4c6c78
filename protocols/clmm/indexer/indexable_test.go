package indexer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
)

const fullAddress = "0x000000000000000000000000000000000000000000000000000000000000abcd"

func TestIndexablePools(t *testing.T) {
	testPools := []clmm.PoolView{
		{
			Pool: clmm.Pool{
				PoolImmutables:   clmm.PoolImmutables{PoolAddress: "0xABCD", CoinTypeA: "0x2::sui::SUI", TickSpacing: 60},
				CurrentTickIndex: 200,
				Liquidity:        uint128.From64(1234567890),
			},
			Ticks: []clmm.Tick{
				{Index: 180, LiquidityNet: big.NewInt(10000)},
				{Index: 240, LiquidityNet: big.NewInt(-10000)},
			},
		},
		{
			Pool: clmm.Pool{
				PoolImmutables:   clmm.PoolImmutables{PoolAddress: "pool-b"},
				CurrentTickIndex: -50,
			},
		},
	}

	indexer := New().Index(testPools)
	require.NotNil(t, indexer)

	t.Run("Successful Lookups", func(t *testing.T) {
		for _, address := range []string{"0xabcd", "0xABCD", "abcd", fullAddress, " 0x00abcd "} {
			pool, found := indexer.GetByAddress(address)
			require.True(t, found, address)
			assert.Equal(t, int32(200), pool.CurrentTickIndex)
			require.Len(t, pool.Ticks, 2)
		}

		pool, found := indexer.GetByAddress("POOL-B")
		require.True(t, found)
		assert.Equal(t, int32(-50), pool.CurrentTickIndex)
	})

	t.Run("Not Found Lookups", func(t *testing.T) {
		_, found := indexer.GetByAddress("0xabce")
		assert.False(t, found)
	})

	t.Run("All Method", func(t *testing.T) {
		allPools := indexer.All()
		assert.Len(t, allPools, 2)

		allPools[0].CurrentTickIndex = -1
		originalPool, _ := indexer.GetByAddress("0xabcd")
		assert.Equal(t, int32(200), originalPool.CurrentTickIndex, "modifying the returned slice should not affect the index")
	})

	t.Run("Edge Case - Nil Slice", func(t *testing.T) {
		nilIndexer := NewIndexablePools(nil)
		_, found := nilIndexer.GetByAddress("0x1")
		assert.False(t, found)

		allPools := nilIndexer.All()
		assert.Len(t, allPools, 0)
		assert.NotNil(t, allPools, "All() should return an empty slice, not nil")
	})
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, fullAddress, NormalizeAddress("0xAbCd"))
	assert.Equal(t, "not-hex", NormalizeAddress("Not-Hex"))
	assert.Equal(t, "0x", NormalizeAddress("0x"))
}
