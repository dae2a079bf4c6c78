package main

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command and decodes its stdout into out.
func run(t *testing.T, out any, args ...string) (stderr string, err error) {
	t.Helper()
	var stdout, errBuf bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&errBuf)

	err = root.Execute()
	if err == nil && out != nil {
		require.NoError(t, json.Unmarshal(stdout.Bytes(), out), stdout.String())
	}
	return errBuf.String(), err
}

func bigOf(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, s)
	return n
}

func TestSwapCommand(t *testing.T) {
	var base swapOutput
	_, err := run(t, &base, "swap", "--snapshot", "testdata/pools.yaml", "--log-level", "error",
		"--pool", "0xaa", "--amount", "1000")
	require.NoError(t, err)
	assert.Equal(t, "1000", base.AmountIn)
	assert.False(t, base.IsExceed)
	assert.Equal(t, uint32(0), base.CrossTickNum)
	assert.Equal(t, "0.5%", base.Slippage)
	// Minimum output is below the quoted output.
	assert.True(t, bigOf(t, base.AmountLimit).Cmp(bigOf(t, base.AmountOut)) < 0)

	t.Run("override raises the fee", func(t *testing.T) {
		var overridden swapOutput
		_, err := run(t, &overridden, "swap", "--snapshot", "testdata/pools.yaml", "--override", "testdata/override.yaml",
			"--log-level", "error", "--pool", "0xaa", "--amount", "1000")
		require.NoError(t, err)
		assert.True(t, bigOf(t, overridden.FeeAmount).Cmp(bigOf(t, base.FeeAmount)) > 0)
	})

	t.Run("metrics are printed on request", func(t *testing.T) {
		stderr, err := run(t, nil, "swap", "--snapshot", "testdata/pools.yaml", "--log-level", "error",
			"--pool", "0xaa", "--amount", "1000", "--metrics")
		require.NoError(t, err)
		assert.Contains(t, stderr, "clmm_quoter_quote_duration_seconds")
	})

	t.Run("missing flags", func(t *testing.T) {
		_, err := run(t, nil, "swap", "--snapshot", "testdata/pools.yaml", "--pool", "0xaa")
		assert.EqualError(t, err, "--amount is required")
	})

	t.Run("unknown pool", func(t *testing.T) {
		_, err := run(t, nil, "swap", "--snapshot", "testdata/pools.yaml", "--log-level", "error", "--pool", "0xcc", "--amount", "1")
		assert.ErrorContains(t, err, "pool not found")
	})
}

func TestFeesCommand(t *testing.T) {
	var out []feesOutput
	_, err := run(t, &out, "fees", "--snapshot", "testdata/pools.yaml", "--log-level", "error")
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.True(t, out[0].Priced)
	assert.Equal(t, "5", out[0].FeeOwedA)
	assert.Equal(t, "0", out[0].FeeOwedB)

	assert.False(t, out[1].Priced)
	assert.True(t, out[1].Closable)
}

func TestRewardsCommand(t *testing.T) {
	var out rewardsOutput
	_, err := run(t, &out, "rewards", "--snapshot", "testdata/pools.yaml", "--log-level", "error",
		"--now", "1700000010", "--pool", "0xAA")
	require.NoError(t, err)

	require.Len(t, out.Positions, 2)
	require.Len(t, out.Positions[0].Rewards, 1)
	// 10 seconds at 1 token per second per unit of liquidity, 5 units.
	assert.Equal(t, "50", out.Positions[0].Rewards[0].AmountOwed)
	assert.False(t, out.Positions[1].Priced)

	require.Len(t, out.Emissions, 1)
	assert.Equal(t, "10000000000", out.Emissions[0].PerSecond)
	assert.Equal(t, "864000000000000", out.Emissions[0].PerDay)
}

func TestLiquidityCommand(t *testing.T) {
	var out liquidityOutput
	_, err := run(t, &out, "liquidity", "--snapshot", "testdata/pools.yaml", "--log-level", "error",
		"--pool", "0xaa", "--tick-lower", "-100", "--tick-upper", "100", "--amount", "1000000", "--slippage", "1")
	require.NoError(t, err)
	assert.Equal(t, "in_range", out.Status)
	assert.True(t, bigOf(t, out.TokenMaxA).Cmp(bigOf(t, out.CoinA)) > 0)
	assert.Positive(t, bigOf(t, out.Liquidity).Sign())
}

func TestDiffCommand(t *testing.T) {
	var out diffOutput
	_, err := run(t, &out, "diff", "--from", "testdata/pools.yaml", "--to", "testdata/override.yaml")
	require.NoError(t, err)

	require.Len(t, out.Updates, 1)
	assert.Equal(t, uint32(10000), out.Updates[0].FeeRate)
	require.Len(t, out.Additions, 1)
	assert.Equal(t, "0xbb", out.Additions[0].PoolAddress)
	assert.Empty(t, out.Deletions)
}
