package tickmath

import (
	"math/big"
	"sync"

	"github.com/holiman/uint256"
)

var (
	// MIN_TICK_INDEX is the lowest tick a position or price may reference.
	MIN_TICK_INDEX = int32(-443636)
	// MAX_TICK_INDEX is the highest tick a position or price may reference.
	MAX_TICK_INDEX = int32(443636)

	// MIN_SQRT_PRICE is the lowest Q64.64 sqrt price the protocol accepts.
	MIN_SQRT_PRICE, _ = new(big.Int).SetString("4295048016", 10)
	// MAX_SQRT_PRICE is the highest Q64.64 sqrt price the protocol accepts.
	MAX_SQRT_PRICE, _ = new(big.Int).SetString("79226673515401279992447579055", 10)

	// Q64 is 1.0 in Q64.64.
	Q64 = new(big.Int).Lsh(big.NewInt(1), 64)

	// negativeRatios are sqrt(1.0001^-(2^i)) in Q64.64, rounded down.
	negativeRatios = [19]*uint256.Int{
		uint256.MustFromDecimal("18445821805675392311"),
		uint256.MustFromDecimal("18444899583751176498"),
		uint256.MustFromDecimal("18443055278223354162"),
		uint256.MustFromDecimal("18439367220385604838"),
		uint256.MustFromDecimal("18431993317065449817"),
		uint256.MustFromDecimal("18417254355718160513"),
		uint256.MustFromDecimal("18387811781193591352"),
		uint256.MustFromDecimal("18329067761203520168"),
		uint256.MustFromDecimal("18212142134806087854"),
		uint256.MustFromDecimal("17980523815641551639"),
		uint256.MustFromDecimal("17526086738831147013"),
		uint256.MustFromDecimal("16651378430235024244"),
		uint256.MustFromDecimal("15030750278693429944"),
		uint256.MustFromDecimal("12247334978882834399"),
		uint256.MustFromDecimal("8131365268884726200"),
		uint256.MustFromDecimal("3584323654723342297"),
		uint256.MustFromDecimal("696457651847595233"),
		uint256.MustFromDecimal("26294789957452057"),
		uint256.MustFromDecimal("37481735321082"),
	}

	// positiveRatios are sqrt(1.0001^(2^i)) in Q96, rounded down.
	positiveRatios = [19]*uint256.Int{
		uint256.MustFromDecimal("79232123823359799118286999567"),
		uint256.MustFromDecimal("79236085330515764027303304731"),
		uint256.MustFromDecimal("79244008939048815603706035061"),
		uint256.MustFromDecimal("79259858533276714757314932305"),
		uint256.MustFromDecimal("79291567232598584799939703904"),
		uint256.MustFromDecimal("79355022692464371645785046466"),
		uint256.MustFromDecimal("79482085999252804386437311141"),
		uint256.MustFromDecimal("79736823300114093921829183326"),
		uint256.MustFromDecimal("80248749790819932309965073892"),
		uint256.MustFromDecimal("81282483887344747381513967011"),
		uint256.MustFromDecimal("83390072131320151908154831281"),
		uint256.MustFromDecimal("87770609709833776024991924138"),
		uint256.MustFromDecimal("97234110755111693312479820773"),
		uint256.MustFromDecimal("119332217159966728226237229890"),
		uint256.MustFromDecimal("179736315981702064433883588727"),
		uint256.MustFromDecimal("407748233172238350107850275304"),
		uint256.MustFromDecimal("2098478828474011932436660412517"),
		uint256.MustFromDecimal("55581415166113811149459800483533"),
		uint256.MustFromDecimal("38992368544603139932233054999993551"),
	}

	q64Ratio = new(uint256.Int).Lsh(uint256.NewInt(1), 64)
	q96Ratio = new(uint256.Int).Lsh(uint256.NewInt(1), 96)
)

// tickMath holds reusable values to avoid allocations.
type tickMath struct {
	ratio *uint256.Int
	temp  *big.Int
}

var pool = sync.Pool{
	New: func() any {
		return &tickMath{
			ratio: new(uint256.Int),
			temp:  new(big.Int),
		}
	},
}

// ClampTick bounds tick to [MIN_TICK_INDEX, MAX_TICK_INDEX].
func ClampTick(tick int32) int32 {
	if tick < MIN_TICK_INDEX {
		return MIN_TICK_INDEX
	}
	if tick > MAX_TICK_INDEX {
		return MAX_TICK_INDEX
	}
	return tick
}

// GetSqrtPriceAtTick writes sqrt(1.0001^tick) * 2^64, rounded down, into dest.
// The tick is clamped to the valid range, so the result lies in [MIN_SQRT_PRICE, MAX_SQRT_PRICE].
func GetSqrtPriceAtTick(dest *big.Int, tick int32) {
	tm := pool.Get().(*tickMath)
	defer pool.Put(tm)

	tm.sqrtPrice(ClampTick(tick))
	tm.ratio.IntoBig(&dest)
}

// sqrtPrice leaves the Q64.64 sqrt price of an in-range tick in tm.ratio.
// Negative ticks multiply Q64 ratios; positive ticks work in Q96 and drop 32 bits at the end.
func (tm *tickMath) sqrtPrice(tick int32) {
	if tick < 0 {
		absTick := uint32(-tick)
		tm.ratio.Set(q64Ratio)
		if absTick&1 != 0 {
			tm.ratio.Set(negativeRatios[0])
		}
		for i := 1; i < len(negativeRatios); i++ {
			if absTick&(1<<i) != 0 {
				tm.ratio.Mul(tm.ratio, negativeRatios[i]).Rsh(tm.ratio, 64)
			}
		}
		return
	}

	absTick := uint32(tick)
	tm.ratio.Set(q96Ratio)
	if absTick&1 != 0 {
		tm.ratio.Set(positiveRatios[0])
	}
	for i := 1; i < len(positiveRatios); i++ {
		if absTick&(1<<i) != 0 {
			tm.ratio.Mul(tm.ratio, positiveRatios[i]).Rsh(tm.ratio, 96)
		}
	}
	tm.ratio.Rsh(tm.ratio, 32)
}

// SqrtPriceAtTick is the allocating form of GetSqrtPriceAtTick.
func SqrtPriceAtTick(tick int32) *big.Int {
	dest := new(big.Int)
	GetSqrtPriceAtTick(dest, tick)
	return dest
}

// GetTickAtSqrtPrice returns the greatest tick whose sqrt price is <= sqrtPriceX64.
// Prices outside [MIN_SQRT_PRICE, MAX_SQRT_PRICE] clamp to the tick bounds.
func GetTickAtSqrtPrice(sqrtPriceX64 *big.Int) int32 {
	if sqrtPriceX64.Cmp(MIN_SQRT_PRICE) <= 0 {
		return MIN_TICK_INDEX
	}
	if sqrtPriceX64.Cmp(MAX_SQRT_PRICE) >= 0 {
		return MAX_TICK_INDEX
	}

	low := MIN_TICK_INDEX
	high := MAX_TICK_INDEX
	tick := MIN_TICK_INDEX

	p := pool.Get().(*tickMath)
	defer pool.Put(p)
	sqrtPrice := p.temp

	for low <= high {
		mid := low + (high-low)/2
		GetSqrtPriceAtTick(sqrtPrice, mid)

		if sqrtPrice.Cmp(sqrtPriceX64) <= 0 {
			tick = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}

	return tick
}
