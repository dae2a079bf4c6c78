// Package snapshot reads pool and position snapshots from YAML or JSON files.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"lukechampine.com/uint128"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/fullmath"
)

var (
	ErrInvalidNumber = fmt.Errorf("%w: invalid number", clmm.ErrInvalidInput)
	ErrI128Overflow  = errors.New("value does not fit in i128")

	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

// Snapshot is a decoded snapshot file.
type Snapshot struct {
	Pools     []clmm.PoolView
	Positions []clmm.Position
}

// Load reads the snapshot at path.
func Load(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode reads a YAML (or JSON) snapshot from r.
func Decode(r io.Reader) (Snapshot, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return file.ToSnapshot()
}

// ToSnapshot converts the file layout into clmm values.
func (f File) ToSnapshot() (Snapshot, error) {
	s := Snapshot{
		Pools:     make([]clmm.PoolView, 0, len(f.Pools)),
		Positions: make([]clmm.Position, 0, len(f.Positions)),
	}
	for i, p := range f.Pools {
		view, err := p.toPoolView()
		if err != nil {
			return Snapshot{}, fmt.Errorf("pool %d (%s): %w", i, p.PoolAddress, err)
		}
		s.Pools = append(s.Pools, view)
	}
	for i, p := range f.Positions {
		pos, err := p.toPosition()
		if err != nil {
			return Snapshot{}, fmt.Errorf("position %d: %w", i, err)
		}
		s.Positions = append(s.Positions, pos)
	}
	return s, nil
}

// FromSnapshot converts clmm values into the file layout.
func FromSnapshot(s Snapshot) File {
	f := File{Pools: make([]PoolDTO, len(s.Pools))}
	for i, v := range s.Pools {
		f.Pools[i] = FromPoolView(v)
	}
	for _, p := range s.Positions {
		f.Positions = append(f.Positions, FromPosition(p))
	}
	return f
}

func parseBig(field, s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, field, s)
	}
	return n, nil
}

func parseU128(field, s string) (uint128.Uint128, error) {
	n, err := parseBig(field, s)
	if err != nil {
		return uint128.Zero, err
	}
	v, err := fullmath.U128FromBig(n)
	if err != nil {
		return uint128.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

func parseI128(field, s string) (*big.Int, error) {
	n, err := parseBig(field, s)
	if err != nil {
		return nil, err
	}
	if n.Cmp(minI128) < 0 || n.Cmp(maxI128) > 0 {
		return nil, fmt.Errorf("%s: %w: %s", field, ErrI128Overflow, n)
	}
	return n, nil
}

func parseU128s(field string, ss []string) ([]uint128.Uint128, error) {
	if ss == nil {
		return nil, nil
	}
	out := make([]uint128.Uint128, len(ss))
	for i, s := range ss {
		v, err := parseU128(fmt.Sprintf("%s[%d]", field, i), s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func formatU128s(vs []uint128.Uint128) []string {
	if vs == nil {
		return nil
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

// u128Fields parses several named u128 strings in one pass.
type u128Fields struct {
	err error
}

func (u *u128Fields) parse(field, s string) uint128.Uint128 {
	if u.err != nil {
		return uint128.Zero
	}
	v, err := parseU128(field, s)
	u.err = err
	return v
}

func (p PoolDTO) toPoolView() (clmm.PoolView, error) {
	if len(p.Rewarders) > clmm.MaxRewarders {
		return clmm.PoolView{}, fmt.Errorf("%w: %d rewarders", clmm.ErrInvalidInput, len(p.Rewarders))
	}
	var u u128Fields
	pool := clmm.Pool{
		PoolImmutables: clmm.PoolImmutables{
			PoolAddress: p.PoolAddress,
			CoinTypeA:   p.CoinTypeA,
			CoinTypeB:   p.CoinTypeB,
			TickSpacing: p.TickSpacing,
		},
		CurrentSqrtPrice:        u.parse("currentSqrtPrice", p.CurrentSqrtPrice),
		CurrentTickIndex:        p.CurrentTickIndex,
		Liquidity:               u.parse("liquidity", p.Liquidity),
		FeeRate:                 p.FeeRate,
		FeeGrowthGlobalA:        u.parse("feeGrowthGlobalA", p.FeeGrowthGlobalA),
		FeeGrowthGlobalB:        u.parse("feeGrowthGlobalB", p.FeeGrowthGlobalB),
		FeeProtocolCoinA:        p.FeeProtocolCoinA,
		FeeProtocolCoinB:        p.FeeProtocolCoinB,
		RewarderLastUpdatedTime: p.RewarderLastUpdatedTime,
		IsPause:                 p.IsPause,
	}
	for i, r := range p.Rewarders {
		pool.RewarderInfos = append(pool.RewarderInfos, clmm.Rewarder{
			CoinType:           r.CoinType,
			EmissionsPerSecond: u.parse(fmt.Sprintf("rewarders[%d].emissionsPerSecond", i), r.EmissionsPerSecond),
			GrowthGlobal:       u.parse(fmt.Sprintf("rewarders[%d].growthGlobal", i), r.GrowthGlobal),
		})
	}
	if u.err != nil {
		return clmm.PoolView{}, u.err
	}

	ticks := make([]clmm.Tick, len(p.Ticks))
	for i, t := range p.Ticks {
		tick, err := t.toTick()
		if err != nil {
			return clmm.PoolView{}, fmt.Errorf("tick %d: %w", t.Index, err)
		}
		ticks[i] = tick
	}
	return clmm.PoolView{Pool: pool, Ticks: ticks}, nil
}

func (t TickDTO) toTick() (clmm.Tick, error) {
	var u u128Fields
	tick := clmm.Tick{
		Index:             t.Index,
		SqrtPrice:         u.parse("sqrtPrice", t.SqrtPrice),
		LiquidityGross:    u.parse("liquidityGross", t.LiquidityGross),
		FeeGrowthOutsideA: u.parse("feeGrowthOutsideA", t.FeeGrowthOutsideA),
		FeeGrowthOutsideB: u.parse("feeGrowthOutsideB", t.FeeGrowthOutsideB),
	}
	if u.err != nil {
		return clmm.Tick{}, u.err
	}
	net, err := parseI128("liquidityNet", t.LiquidityNet)
	if err != nil {
		return clmm.Tick{}, err
	}
	tick.LiquidityNet = net
	if tick.RewardersGrowthOutside, err = parseU128s("rewardersGrowthOutside", t.RewardersGrowthOutside); err != nil {
		return clmm.Tick{}, err
	}
	return tick, nil
}

func (p PositionDTO) toPosition() (clmm.Position, error) {
	var u u128Fields
	pos := clmm.Position{
		PoolAddress:      p.PoolAddress,
		Index:            p.Index,
		Liquidity:        u.parse("liquidity", p.Liquidity),
		TickLowerIndex:   p.TickLowerIndex,
		TickUpperIndex:   p.TickUpperIndex,
		FeeGrowthInsideA: u.parse("feeGrowthInsideA", p.FeeGrowthInsideA),
		FeeGrowthInsideB: u.parse("feeGrowthInsideB", p.FeeGrowthInsideB),
		FeeOwedA:         u.parse("feeOwedA", p.FeeOwedA),
		FeeOwedB:         u.parse("feeOwedB", p.FeeOwedB),
	}
	if u.err != nil {
		return clmm.Position{}, u.err
	}
	if p.TickLowerIndex >= p.TickUpperIndex {
		return clmm.Position{}, fmt.Errorf("%w: tick range [%d, %d)", clmm.ErrInvalidInput, p.TickLowerIndex, p.TickUpperIndex)
	}
	var err error
	if pos.RewardGrowthInside, err = parseU128s("rewardGrowthInside", p.RewardGrowthInside); err != nil {
		return clmm.Position{}, err
	}
	if pos.RewardAmountOwed, err = parseU128s("rewardAmountOwed", p.RewardAmountOwed); err != nil {
		return clmm.Position{}, err
	}
	return pos, nil
}

// FromPoolView converts a pool view into its file layout.
func FromPoolView(v clmm.PoolView) PoolDTO {
	p := PoolDTO{
		PoolAddress:             v.PoolAddress,
		CoinTypeA:               v.CoinTypeA,
		CoinTypeB:               v.CoinTypeB,
		TickSpacing:             v.TickSpacing,
		CurrentSqrtPrice:        v.CurrentSqrtPrice.String(),
		CurrentTickIndex:        v.CurrentTickIndex,
		Liquidity:               v.Liquidity.String(),
		FeeRate:                 v.FeeRate,
		FeeGrowthGlobalA:        v.FeeGrowthGlobalA.String(),
		FeeGrowthGlobalB:        v.FeeGrowthGlobalB.String(),
		FeeProtocolCoinA:        v.FeeProtocolCoinA,
		FeeProtocolCoinB:        v.FeeProtocolCoinB,
		RewarderLastUpdatedTime: v.RewarderLastUpdatedTime,
		IsPause:                 v.IsPause,
		Ticks:                   make([]TickDTO, len(v.Ticks)),
	}
	for _, r := range v.RewarderInfos {
		p.Rewarders = append(p.Rewarders, RewarderDTO{
			CoinType:           r.CoinType,
			EmissionsPerSecond: r.EmissionsPerSecond.String(),
			GrowthGlobal:       r.GrowthGlobal.String(),
		})
	}
	for i, t := range v.Ticks {
		net := "0"
		if t.LiquidityNet != nil {
			net = t.LiquidityNet.String()
		}
		p.Ticks[i] = TickDTO{
			Index:                  t.Index,
			SqrtPrice:              t.SqrtPrice.String(),
			LiquidityGross:         t.LiquidityGross.String(),
			LiquidityNet:           net,
			FeeGrowthOutsideA:      t.FeeGrowthOutsideA.String(),
			FeeGrowthOutsideB:      t.FeeGrowthOutsideB.String(),
			RewardersGrowthOutside: formatU128s(t.RewardersGrowthOutside),
		}
	}
	return p
}

// FromPosition converts a position into its file layout.
func FromPosition(p clmm.Position) PositionDTO {
	return PositionDTO{
		PoolAddress:        p.PoolAddress,
		Index:              p.Index,
		Liquidity:          p.Liquidity.String(),
		TickLowerIndex:     p.TickLowerIndex,
		TickUpperIndex:     p.TickUpperIndex,
		FeeGrowthInsideA:   p.FeeGrowthInsideA.String(),
		FeeGrowthInsideB:   p.FeeGrowthInsideB.String(),
		FeeOwedA:           p.FeeOwedA.String(),
		FeeOwedB:           p.FeeOwedB.String(),
		RewardGrowthInside: formatU128s(p.RewardGrowthInside),
		RewardAmountOwed:   formatU128s(p.RewardAmountOwed),
	}
}
