package tickutil

import (
	"fmt"
	"sort"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/tickmath"
)

var ErrInvalidTickSpacing = fmt.Errorf("%w: tick spacing must be greater than zero", clmm.ErrInvalidInput)

// SortForSwap returns a copy of ticks ordered in swap direction:
// descending for a to b, ascending for b to a.
func SortForSwap(ticks []clmm.Tick, aToB bool) []clmm.Tick {
	sorted := make([]clmm.Tick, len(ticks))
	copy(sorted, ticks)
	sort.Slice(sorted, func(i, j int) bool {
		if aToB {
			return sorted[i].Index > sorted[j].Index
		}
		return sorted[i].Index < sorted[j].Index
	})
	return sorted
}

// IsSortedForSwap reports whether ticks are already in swap order.
func IsSortedForSwap(ticks []clmm.Tick, aToB bool) bool {
	return sort.SliceIsSorted(ticks, func(i, j int) bool {
		if aToB {
			return ticks[i].Index > ticks[j].Index
		}
		return ticks[i].Index < ticks[j].Index
	})
}

// FirstSwapTick returns the position in direction-sorted ticks of the first tick
// a swap from currentTick can reach. Going a to b that is the largest tick <= currentTick,
// going b to a the smallest tick > currentTick. It returns len(ticks) when none exists.
func FirstSwapTick(ticks []clmm.Tick, currentTick int32, aToB bool) int {
	if aToB {
		// Descending order: first index whose tick is at or below the current tick.
		return sort.Search(len(ticks), func(i int) bool {
			return ticks[i].Index <= currentTick
		})
	}
	return sort.Search(len(ticks), func(i int) bool {
		return ticks[i].Index > currentTick
	})
}

// FindByIndex looks a tick up by index in an unordered slice.
func FindByIndex(ticks []clmm.Tick, index int32) (clmm.Tick, bool) {
	for _, tick := range ticks {
		if tick.Index == index {
			return tick, true
		}
	}
	return clmm.Tick{}, false
}

// GetMinIndex returns the lowest usable tick for tickSpacing.
func GetMinIndex(tickSpacing uint32) (int32, error) {
	if tickSpacing == 0 {
		return 0, ErrInvalidTickSpacing
	}
	spacing := int32(tickSpacing)
	return tickmath.MIN_TICK_INDEX + (-tickmath.MIN_TICK_INDEX)%spacing, nil
}

// GetMaxIndex returns the highest usable tick for tickSpacing.
func GetMaxIndex(tickSpacing uint32) (int32, error) {
	if tickSpacing == 0 {
		return 0, ErrInvalidTickSpacing
	}
	spacing := int32(tickSpacing)
	return tickmath.MAX_TICK_INDEX - tickmath.MAX_TICK_INDEX%spacing, nil
}

// GetNearestTickByTick rounds tickIndex to the nearest multiple of tickSpacing,
// halves rounding toward zero.
func GetNearestTickByTick(tickIndex int32, tickSpacing uint32) (int32, error) {
	if tickSpacing == 0 {
		return 0, ErrInvalidTickSpacing
	}
	spacing := int32(tickSpacing)
	mod := tickIndex % spacing
	if mod < 0 {
		mod = -mod
	}
	if tickIndex > 0 {
		if mod*2 > spacing {
			return tickIndex + spacing - mod, nil
		}
		return tickIndex - mod, nil
	}
	if mod*2 > spacing {
		return tickIndex - spacing + mod, nil
	}
	return tickIndex + mod, nil
}
