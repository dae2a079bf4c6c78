package sqrtpricemath

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
)

func fromString(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 10)
	return n
}

// newRandInt generates a random big.Int up to a given number of bits.
func newRandInt(bits int) *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		panic(err)
	}
	return n
}

var (
	priceAtMinus100 = fromString("18354745142194483561")
	priceAt100      = fromString("18539204128674405812")
	liquidity1e10   = big.NewInt(10_000_000_000)
)

func TestGetAmountFromLiquidity(t *testing.T) {
	t.Run("coin A below the current price", func(t *testing.T) {
		down, up := new(big.Int), new(big.Int)
		require.NoError(t, GetAmountAFromLiquidity(down, liquidity1e10, Q64, priceAtMinus100, false))
		require.NoError(t, GetAmountAFromLiquidity(up, liquidity1e10, priceAtMinus100, Q64, true))
		assert.Equal(t, int64(50122696), down.Int64())
		assert.Equal(t, int64(50122697), up.Int64())
	})

	t.Run("coin B below the current price", func(t *testing.T) {
		down, up := new(big.Int), new(big.Int)
		require.NoError(t, GetAmountBFromLiquidity(down, liquidity1e10, Q64, priceAtMinus100, false))
		require.NoError(t, GetAmountBFromLiquidity(up, liquidity1e10, Q64, priceAtMinus100, true))
		assert.Equal(t, int64(49872720), down.Int64())
		assert.Equal(t, int64(49872721), up.Int64())
	})

	t.Run("coin amounts above the current price", func(t *testing.T) {
		a, b := new(big.Int), new(big.Int)
		require.NoError(t, GetAmountAFromLiquidity(a, liquidity1e10, Q64, priceAt100, false))
		require.NoError(t, GetAmountBFromLiquidity(b, liquidity1e10, Q64, priceAt100, false))
		assert.Equal(t, int64(49872720), a.Int64())
		assert.Equal(t, int64(50122696), b.Int64())
	})

	t.Run("equal bounds are rejected", func(t *testing.T) {
		err := GetAmountAFromLiquidity(new(big.Int), liquidity1e10, Q64, Q64, false)
		assert.ErrorIs(t, err, ErrEqualSqrtPrices)
		assert.ErrorIs(t, err, clmm.ErrInvalidInput)

		err = GetAmountBFromLiquidity(new(big.Int), liquidity1e10, Q64, Q64, true)
		assert.ErrorIs(t, err, ErrEqualSqrtPrices)
	})

	t.Run("zero price is rejected", func(t *testing.T) {
		err := GetAmountAFromLiquidity(new(big.Int), liquidity1e10, new(big.Int), Q64, false)
		assert.ErrorIs(t, err, ErrSqrtPriceZero)
	})

	t.Run("zero liquidity holds nothing", func(t *testing.T) {
		a := new(big.Int)
		require.NoError(t, GetAmountAFromLiquidity(a, new(big.Int), priceAtMinus100, Q64, true))
		assert.Zero(t, a.Sign())
	})
}

func TestGetAmountFromLiquidity_Invariants(t *testing.T) {
	for i := 0; i < 1000; i++ {
		sqrtP := newRandInt(96)
		sqrtQ := newRandInt(96)
		liquidity := newRandInt(128)
		if sqrtP.Sign() == 0 {
			sqrtP.SetInt64(1)
		}
		if sqrtQ.Cmp(sqrtP) == 0 {
			sqrtQ.Add(sqrtQ, big.NewInt(1))
		}
		if sqrtQ.Sign() == 0 {
			sqrtQ.SetInt64(2)
		}

		aDown, aUp := new(big.Int), new(big.Int)
		require.NoError(t, GetAmountAFromLiquidity(aDown, liquidity, sqrtP, sqrtQ, false))
		require.NoError(t, GetAmountAFromLiquidity(aUp, liquidity, sqrtP, sqrtQ, true))
		diff := new(big.Int).Sub(aUp, aDown)
		assert.True(t, diff.Sign() >= 0 && diff.Cmp(big.NewInt(2)) < 0)

		bDown, bUp := new(big.Int), new(big.Int)
		require.NoError(t, GetAmountBFromLiquidity(bDown, liquidity, sqrtP, sqrtQ, false))
		require.NoError(t, GetAmountBFromLiquidity(bUp, liquidity, sqrtQ, sqrtP, true))
		diff.Sub(bUp, bDown)
		assert.True(t, diff.Sign() >= 0 && diff.Cmp(big.NewInt(2)) < 0)
	}
}

func TestGetNextSqrtPrice(t *testing.T) {
	amount := big.NewInt(1000)

	cases := []struct {
		name       string
		byAmountIn bool
		aToB       bool
		want       string
	}{
		{"input A lowers the price", true, true, "18446742229035328713"},
		{"input B raises the price", true, false, "18446745918383958986"},
		{"output B lowers the price", false, true, "18446742229035144245"},
		{"output A raises the price", false, false, "18446745918384143455"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := new(big.Int)
			require.NoError(t, GetNextSqrtPrice(next, Q64, liquidity1e10, amount, tc.byAmountIn, tc.aToB))
			assert.Zero(t, fromString(tc.want).Cmp(next))
		})
	}

	t.Run("zero amount keeps the price", func(t *testing.T) {
		next := new(big.Int)
		require.NoError(t, GetNextSqrtPrice(next, Q64, liquidity1e10, new(big.Int), true, true))
		assert.Zero(t, Q64.Cmp(next))
	})

	t.Run("zero liquidity is rejected", func(t *testing.T) {
		err := GetNextSqrtPrice(new(big.Int), Q64, new(big.Int), amount, true, true)
		assert.ErrorIs(t, err, ErrLiquidityZero)
	})

	t.Run("output larger than reserves is rejected", func(t *testing.T) {
		huge := new(big.Int).Lsh(big.NewInt(1), 100)
		assert.ErrorIs(t, GetNextSqrtPrice(new(big.Int), Q64, liquidity1e10, huge, false, true), ErrAmountExceedsSupply)
		assert.ErrorIs(t, GetNextSqrtPrice(new(big.Int), Q64, liquidity1e10, huge, false, false), ErrAmountExceedsSupply)
	})
}

func TestGetNextSqrtPriceFromInput_Invariants(t *testing.T) {
	for i := 0; i < 1000; i++ {
		sqrtP := new(big.Int).Add(newRandInt(80), Q64)
		liquidity := new(big.Int).Add(newRandInt(100), big.NewInt(1))
		amountIn := new(big.Int).Add(newRandInt(64), big.NewInt(1))

		for _, aToB := range []bool{true, false} {
			next := new(big.Int)
			require.NoError(t, GetNextSqrtPrice(next, sqrtP, liquidity, amountIn, true, aToB))

			if aToB {
				assert.True(t, next.Cmp(sqrtP) <= 0)
			} else {
				assert.True(t, next.Cmp(sqrtP) >= 0)
			}
			if next.Cmp(sqrtP) == 0 {
				continue
			}

			// The input needed to reach next never exceeds what was supplied.
			needed := new(big.Int)
			require.NoError(t, GetAmountFixedDelta(needed, sqrtP, next, liquidity, true, aToB))
			assert.True(t, needed.Cmp(amountIn) <= 0, "needed %s supplied %s", needed, amountIn)
		}
	}
}

func TestAmountDeltas(t *testing.T) {
	t.Run("fixed delta follows the fixed leg", func(t *testing.T) {
		d := new(big.Int)
		require.NoError(t, GetAmountFixedDelta(d, Q64, priceAtMinus100, liquidity1e10, true, true))
		assert.Equal(t, int64(50122697), d.Int64(), "input A rounds up")

		require.NoError(t, GetAmountFixedDelta(d, Q64, priceAtMinus100, liquidity1e10, false, true))
		assert.Equal(t, int64(49872720), d.Int64(), "output B rounds down")
	})

	t.Run("unfixed delta follows the other leg", func(t *testing.T) {
		d := new(big.Int)
		require.NoError(t, GetAmountUnfixedDelta(d, Q64, priceAtMinus100, liquidity1e10, true, true))
		assert.Equal(t, int64(49872720), d.Int64(), "output B rounds down")

		require.NoError(t, GetAmountUnfixedDelta(d, Q64, priceAtMinus100, liquidity1e10, false, true))
		assert.Equal(t, int64(50122697), d.Int64(), "input A rounds up")
	})
}
