package tickmath

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// pricePrecision is the number of decimal places kept when dividing out 2^128.
const pricePrecision = 40

var q128 = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 128), 0)

// SqrtPriceX64ToPrice returns the human price of coin A in units of coin B.
func SqrtPriceX64ToPrice(sqrtPriceX64 *big.Int, decimalsA, decimalsB uint8) decimal.Decimal {
	squared := new(big.Int).Mul(sqrtPriceX64, sqrtPriceX64)
	return decimal.NewFromBigInt(squared, 0).
		Shift(int32(decimalsA) - int32(decimalsB)).
		DivRound(q128, pricePrecision)
}

// PriceToSqrtPriceX64 is the inverse of SqrtPriceX64ToPrice, rounding down.
// Non-positive prices return zero.
func PriceToSqrtPriceX64(price decimal.Decimal, decimalsA, decimalsB uint8) *big.Int {
	if price.Sign() <= 0 {
		return new(big.Int)
	}
	scaled := price.Shift(int32(decimalsB) - int32(decimalsA)).Mul(q128).BigInt()
	return scaled.Sqrt(scaled)
}

// TickIndexToPrice returns the human price at tick.
func TickIndexToPrice(tick int32, decimalsA, decimalsB uint8) decimal.Decimal {
	return SqrtPriceX64ToPrice(SqrtPriceAtTick(tick), decimalsA, decimalsB)
}

// PriceToTickIndex returns the greatest tick whose price does not exceed price.
func PriceToTickIndex(price decimal.Decimal, decimalsA, decimalsB uint8) int32 {
	return GetTickAtSqrtPrice(PriceToSqrtPriceX64(price, decimalsA, decimalsB))
}
