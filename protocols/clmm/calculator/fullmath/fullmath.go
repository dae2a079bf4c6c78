// Package fullmath holds the fixed-width u128 helpers and the rounding
// mul/div primitives shared by the rest of the calculator.
package fullmath

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
)

var (
	// Q64 is 1.0 in Q64.64.
	Q64 = new(big.Int).Lsh(big.NewInt(1), 64)
	// MaxUint128 is 2^128 - 1.
	MaxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	ErrDivisionByZero = fmt.Errorf("%w: division by zero", clmm.ErrInvalidInput)
	ErrU128Overflow   = errors.New("value does not fit in u128")

	one      = big.NewInt(1)
	q64Float = decimal.NewFromBigInt(Q64, 0)
)

// WrappingSubU128 returns (a - b) mod 2^128.
func WrappingSubU128(a, b uint128.Uint128) uint128.Uint128 {
	return a.SubWrap(b)
}

// WrappingAddU128 returns (a + b) mod 2^128.
func WrappingAddU128(a, b uint128.Uint128) uint128.Uint128 {
	return a.AddWrap(b)
}

// MulShiftRightU128 returns (a * b) >> shift truncated to 128 bits.
func MulShiftRightU128(a, b uint128.Uint128, shift uint) uint128.Uint128 {
	product := new(big.Int).Mul(a.Big(), b.Big())
	product.Rsh(product, shift)
	return U128FromBigWrap(product)
}

// MulDivFloorU128 returns floor(a * b / c) truncated to 128 bits.
func MulDivFloorU128(a, b, c uint128.Uint128) (uint128.Uint128, error) {
	if c.IsZero() {
		return uint128.Zero, ErrDivisionByZero
	}
	product := new(big.Int).Mul(a.Big(), b.Big())
	product.Quo(product, c.Big())
	return U128FromBigWrap(product), nil
}

// MulDivFloor writes floor(a * b / c) into dest.
func MulDivFloor(dest, a, b, c *big.Int) error {
	if c.Sign() == 0 {
		return ErrDivisionByZero
	}
	product := new(big.Int).Mul(a, b)
	dest.Div(product, c)
	return nil
}

// MulDivCeil writes ceil(a * b / c) into dest.
func MulDivCeil(dest, a, b, c *big.Int) error {
	if c.Sign() == 0 {
		return ErrDivisionByZero
	}
	product := new(big.Int).Mul(a, b)
	return DivRoundUp(dest, product, c)
}

// DivRoundUp writes ceil(a / b) into dest for non-negative operands.
func DivRoundUp(dest, a, b *big.Int) error {
	if b.Sign() == 0 {
		return ErrDivisionByZero
	}
	rem := new(big.Int)
	dest.QuoRem(a, b, rem)
	if rem.Sign() > 0 {
		dest.Add(dest, one)
	}
	return nil
}

// ShiftRightRoundUp writes ceil(x / 2^n) into dest for non-negative x.
func ShiftRightRoundUp(dest, x *big.Int, n uint) {
	mask := new(big.Int).Lsh(one, n)
	mask.Sub(mask, one)
	roundUp := new(big.Int).And(x, mask).Sign() > 0
	dest.Rsh(x, n)
	if roundUp {
		dest.Add(dest, one)
	}
}

// U128FromBig converts x into a u128, failing on negative or oversized values.
func U128FromBig(x *big.Int) (uint128.Uint128, error) {
	if x.Sign() < 0 || x.BitLen() > 128 {
		return uint128.Zero, fmt.Errorf("%w: %s", ErrU128Overflow, x)
	}
	return uint128.FromBig(x), nil
}

// U128FromBigWrap converts x into a u128 modulo 2^128.
func U128FromBigWrap(x *big.Int) uint128.Uint128 {
	if x.Sign() >= 0 && x.BitLen() <= 128 {
		return uint128.FromBig(x)
	}
	m := new(big.Int).And(x, MaxUint128)
	return uint128.FromBig(m)
}

// FromX64 converts a Q64.64 value into a decimal.
func FromX64(x *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(x, 0).DivRound(q64Float, 32)
}
