package quoter

import (
	"math/big"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/percentage"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SwapRequest asks for a swap quote against one indexed pool.
type SwapRequest struct {
	PoolAddress string
	DecimalsA   uint8
	DecimalsB   uint8
	AToB        bool
	ByAmountIn  bool
	Amount      *big.Int
	// SqrtPriceLimit is optional; nil means the protocol bound in the swap direction.
	SqrtPriceLimit *big.Int
}

// LiquidityRequest asks how much liquidity a fixed amount of one coin buys in a range.
type LiquidityRequest struct {
	PoolAddress string
	TickLower   int32
	TickUpper   int32
	Amount      *big.Int
	FixAmountA  bool
	// Slippage widens TokenMax. The zero value means none.
	Slippage percentage.Percentage
}

// LiquidityQuote is the result of a LiquidityRequest.
type LiquidityQuote struct {
	Liquidity *big.Int
	Amounts   clmm.CoinAmounts
	// TokenMax are the amounts widened by the requested slippage.
	TokenMax percentage.TokenMax
	Status   clmm.PositionStatus
}
