package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/fullmath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/percentage"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/rewardmath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/indexer"
	"github.com/CetusProtocol/cetus-clmm-sdk/quoter"
	"github.com/CetusProtocol/cetus-clmm-sdk/snapshot"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseAmount(cmd *cobra.Command, name string) (*big.Int, error) {
	s, _ := cmd.Flags().GetString(name)
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("--%s: invalid integer %q", name, s)
	}
	return n, nil
}

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Quote a swap against one pool",
		RunE:  runSwap,
	}
	cmd.Flags().String("pool", "", "pool address")
	cmd.Flags().String("amount", "", "amount in (exact input) or out (exact output), smallest units")
	cmd.Flags().Bool("a-to-b", true, "swap coin A for coin B")
	cmd.Flags().Bool("by-amount-in", true, "amount is the exact input")
	cmd.Flags().String("sqrt-price-limit", "", "Q64.64 price limit, default is the protocol bound")
	return cmd
}

func runSwap(cmd *cobra.Command, _ []string) error {
	for _, name := range []string{"pool", "amount"} {
		if err := requireFlag(cmd, name); err != nil {
			return err
		}
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close(cmd.ErrOrStderr())

	req := quoter.SwapRequest{DecimalsA: e.cfg.DecimalsA, DecimalsB: e.cfg.DecimalsB}
	req.PoolAddress, _ = cmd.Flags().GetString("pool")
	req.AToB, _ = cmd.Flags().GetBool("a-to-b")
	req.ByAmountIn, _ = cmd.Flags().GetBool("by-amount-in")
	if req.Amount, err = parseAmount(cmd, "amount"); err != nil {
		return err
	}
	if cmd.Flags().Changed("sqrt-price-limit") {
		if req.SqrtPriceLimit, err = parseAmount(cmd, "sqrt-price-limit"); err != nil {
			return err
		}
	}

	slippage, err := percentage.FromDecimal(e.cfg.Slippage)
	if err != nil {
		return err
	}
	res, err := e.quoter.Swap(req)
	if err != nil {
		return err
	}
	limit, err := percentage.AdjustAmountForSlippage(res.EstimatedAmountIn, res.EstimatedAmountOut, slippage, req.ByAmountIn)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), newSwapOutput(req.PoolAddress, res, limit, slippage))
}

func newFeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Quote the fees owed to the snapshot's positions",
		RunE:  runFees,
	}
	cmd.Flags().String("pool", "", "only positions of this pool")
	return cmd
}

func runFees(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close(cmd.ErrOrStderr())

	pool, _ := cmd.Flags().GetString("pool")
	out := []feesOutput{}
	for _, pos := range e.selectPositions(pool) {
		quote, ok, err := e.quoter.CollectFees(pos)
		if err != nil {
			return fmt.Errorf("position %d: %w", pos.Index, err)
		}
		out = append(out, newFeesOutput(pos, quote, ok))
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func newRewardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Quote the rewards owed to the snapshot's positions and the pools' daily emissions",
		RunE:  runRewards,
	}
	cmd.Flags().String("pool", "", "only this pool and its positions")
	return cmd
}

func runRewards(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close(cmd.ErrOrStderr())

	pool, _ := cmd.Flags().GetString("pool")
	out := rewardsOutput{Positions: []positionRewardsOutput{}, Emissions: []emissionOutput{}}
	for _, pos := range e.selectPositions(pool) {
		owed, ok, err := e.quoter.Rewards(pos)
		if err != nil {
			return fmt.Errorf("position %d: %w", pos.Index, err)
		}
		out.Positions = append(out.Positions, newPositionRewardsOutput(pos, owed, ok))
	}
	for _, view := range e.quoter.Pools() {
		if pool != "" && indexer.NormalizeAddress(view.PoolAddress) != indexer.NormalizeAddress(pool) {
			continue
		}
		for i, d := range rewardmath.EmissionsEveryDay(view.Pool) {
			out.Emissions = append(out.Emissions, emissionOutput{
				Pool:      view.PoolAddress,
				CoinType:  d.CoinType,
				PerSecond: fullmath.FromX64(view.Pool.RewarderInfos[i].EmissionsPerSecond.Big()).String(),
				PerDay:    d.Emissions.String(),
			})
		}
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func newLiquidityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liquidity",
		Short: "Quote adding a fixed amount of one coin to a tick range",
		RunE:  runLiquidity,
	}
	cmd.Flags().String("pool", "", "pool address")
	cmd.Flags().Int32("tick-lower", 0, "lower tick of the range")
	cmd.Flags().Int32("tick-upper", 0, "upper tick of the range")
	cmd.Flags().String("amount", "", "fixed coin amount, smallest units")
	cmd.Flags().Bool("fix-a", true, "the fixed amount is coin A")
	return cmd
}

func runLiquidity(cmd *cobra.Command, _ []string) error {
	for _, name := range []string{"pool", "tick-lower", "tick-upper", "amount"} {
		if err := requireFlag(cmd, name); err != nil {
			return err
		}
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close(cmd.ErrOrStderr())

	var req quoter.LiquidityRequest
	req.PoolAddress, _ = cmd.Flags().GetString("pool")
	req.TickLower, _ = cmd.Flags().GetInt32("tick-lower")
	req.TickUpper, _ = cmd.Flags().GetInt32("tick-upper")
	req.FixAmountA, _ = cmd.Flags().GetBool("fix-a")
	if req.Amount, err = parseAmount(cmd, "amount"); err != nil {
		return err
	}
	if req.Slippage, err = percentage.FromDecimal(e.cfg.Slippage); err != nil {
		return err
	}

	quote, err := e.quoter.Liquidity(req)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), newLiquidityOutput(quote))
}

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Print the pool changes between two snapshot files",
		RunE:  runDiff,
	}
	cmd.Flags().String("from", "", "old snapshot file")
	cmd.Flags().String("to", "", "new snapshot file")
	return cmd
}

func runDiff(cmd *cobra.Command, _ []string) error {
	for _, name := range []string{"from", "to"} {
		if err := requireFlag(cmd, name); err != nil {
			return err
		}
	}
	fromPath, _ := cmd.Flags().GetString("from")
	toPath, _ := cmd.Flags().GetString("to")

	from, err := snapshot.Load(fromPath)
	if err != nil {
		return err
	}
	to, err := snapshot.Load(toPath)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), newDiffOutput(clmm.Differ(from.Pools, to.Pools)))
}

// selectPositions returns the loaded positions, optionally only those of pool.
func (e *env) selectPositions(pool string) []clmm.Position {
	if pool == "" {
		return e.positions
	}
	want := indexer.NormalizeAddress(pool)
	var out []clmm.Position
	for _, p := range e.positions {
		if indexer.NormalizeAddress(p.PoolAddress) == want {
			out = append(out, p)
		}
	}
	return out
}
