package main

import (
	"math/big"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/feemath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/percentage"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/rewardmath"
	"github.com/CetusProtocol/cetus-clmm-sdk/quoter"
	"github.com/CetusProtocol/cetus-clmm-sdk/snapshot"
)

// Big numbers are printed as decimal strings.

type swapOutput struct {
	Pool              string `json:"pool"`
	AToB              bool   `json:"aToB"`
	ByAmountIn        bool   `json:"byAmountIn"`
	Amount            string `json:"amount"`
	AmountIn          string `json:"amountIn"`
	AmountOut         string `json:"amountOut"`
	FeeAmount         string `json:"feeAmount"`
	EndSqrtPrice      string `json:"endSqrtPrice"`
	IsExceed          bool   `json:"isExceed"`
	CrossTickNum      uint32 `json:"crossTickNum"`
	ExtraComputeLimit uint64 `json:"extraComputeLimit"`
	PriceImpactPct    string `json:"priceImpactPct"`
	Slippage          string `json:"slippage"`
	// AmountLimit is the minimum output (exact input) or maximum input (exact output).
	AmountLimit string `json:"amountLimit"`
}

func newSwapOutput(pool string, res calculator.CalculateRatesResult, limit *big.Int, slippage percentage.Percentage) swapOutput {
	return swapOutput{
		Pool:              pool,
		AToB:              res.AToB,
		ByAmountIn:        res.ByAmountIn,
		Amount:            res.Amount.String(),
		AmountIn:          res.EstimatedAmountIn.String(),
		AmountOut:         res.EstimatedAmountOut.String(),
		FeeAmount:         res.EstimatedFeeAmount.String(),
		EndSqrtPrice:      res.EstimatedEndSqrtPrice.String(),
		IsExceed:          res.IsExceed,
		CrossTickNum:      res.CrossTickNum,
		ExtraComputeLimit: res.ExtraComputeLimit,
		PriceImpactPct:    res.PriceImpactPct.StringFixed(6),
		Slippage:          slippage.String(),
		AmountLimit:       limit.String(),
	}
}

type feesOutput struct {
	Pool     string `json:"pool"`
	Position uint64 `json:"position"`
	Closable bool   `json:"closable"`
	// Priced is false when the snapshot lacks one of the position's ticks.
	Priced   bool   `json:"priced"`
	FeeOwedA string `json:"feeOwedA,omitempty"`
	FeeOwedB string `json:"feeOwedB,omitempty"`
}

func newFeesOutput(pos clmm.Position, quote feemath.FeesQuote, priced bool) feesOutput {
	out := feesOutput{
		Pool:     pos.PoolAddress,
		Position: pos.Index,
		Closable: pos.IsClosable(),
		Priced:   priced,
	}
	if priced {
		out.FeeOwedA = quote.FeeOwedA.String()
		out.FeeOwedB = quote.FeeOwedB.String()
	}
	return out
}

type rewardOutput struct {
	CoinType   string `json:"coinType"`
	AmountOwed string `json:"amountOwed"`
}

type positionRewardsOutput struct {
	Pool     string         `json:"pool"`
	Position uint64         `json:"position"`
	Priced   bool           `json:"priced"`
	Rewards  []rewardOutput `json:"rewards,omitempty"`
}

func newPositionRewardsOutput(pos clmm.Position, owed []rewardmath.RewarderAmountOwed, priced bool) positionRewardsOutput {
	out := positionRewardsOutput{Pool: pos.PoolAddress, Position: pos.Index, Priced: priced}
	for _, o := range owed {
		out.Rewards = append(out.Rewards, rewardOutput{CoinType: o.CoinType, AmountOwed: o.AmountOwed.String()})
	}
	return out
}

type emissionOutput struct {
	Pool      string `json:"pool"`
	CoinType  string `json:"coinType"`
	PerSecond string `json:"perSecond"`
	PerDay    string `json:"perDay"`
}

type rewardsOutput struct {
	Positions []positionRewardsOutput `json:"positions"`
	Emissions []emissionOutput        `json:"emissions"`
}

type liquidityOutput struct {
	Liquidity string `json:"liquidity"`
	CoinA     string `json:"coinA"`
	CoinB     string `json:"coinB"`
	TokenMaxA string `json:"tokenMaxA"`
	TokenMaxB string `json:"tokenMaxB"`
	Status    string `json:"status"`
}

func newLiquidityOutput(q quoter.LiquidityQuote) liquidityOutput {
	return liquidityOutput{
		Liquidity: q.Liquidity.String(),
		CoinA:     q.Amounts.CoinA.String(),
		CoinB:     q.Amounts.CoinB.String(),
		TokenMaxA: q.TokenMax.A.String(),
		TokenMaxB: q.TokenMax.B.String(),
		Status:    q.Status.String(),
	}
}

type diffOutput struct {
	Additions []snapshot.PoolDTO `json:"additions"`
	Updates   []snapshot.PoolDTO `json:"updates"`
	Deletions []string           `json:"deletions"`
}

func newDiffOutput(d clmm.PoolViewDiff) diffOutput {
	out := diffOutput{
		Additions: make([]snapshot.PoolDTO, len(d.Additions)),
		Updates:   make([]snapshot.PoolDTO, len(d.Updates)),
		Deletions: append([]string{}, d.Deletions...),
	}
	for i, v := range d.Additions {
		out.Additions[i] = snapshot.FromPoolView(v)
	}
	for i, v := range d.Updates {
		out.Updates[i] = snapshot.FromPoolView(v)
	}
	return out
}
