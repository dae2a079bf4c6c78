package clmm

// PositionStatus locates the current price relative to a position's range.
type PositionStatus int

const (
	BelowRange PositionStatus = iota
	InRange
	AboveRange
)

func (s PositionStatus) String() string {
	switch s {
	case BelowRange:
		return "below_range"
	case InRange:
		return "in_range"
	case AboveRange:
		return "above_range"
	default:
		return "unknown"
	}
}

// GetPositionStatus classifies currentTick against [lowerTick, upperTick).
func GetPositionStatus(currentTick, lowerTick, upperTick int32) PositionStatus {
	if currentTick < lowerTick {
		return BelowRange
	}
	if currentTick < upperTick {
		return InRange
	}
	return AboveRange
}
