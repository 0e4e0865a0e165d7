package column

import (
	"cmp"
	"fmt"
	"math"
	"math/big"

	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/quarrydb/quarry/pkg/arena"
)

// Element-wise kernels over machine integer slices. Shape checks happen
// in the dispatch layer; every kernel here assumes equal-length inputs.
// All arithmetic is checked: overflow and zero divisors are data errors,
// never wraparound.

// narrowInt covers the integer widths whose checked arithmetic can run
// in int64 with a cast-back test. The cast-back also catches negative
// results for the unsigned width.
type narrowInt interface {
	~int8 | ~int16 | ~int32 | ~uint8
}

func andSlice(a *arena.Arena, lhs, rhs []bool) []bool {
	return arena.FillWith(a, len(lhs), func(i int) bool { return lhs[i] && rhs[i] })
}

func orSlice(a *arena.Arena, lhs, rhs []bool) []bool {
	return arena.FillWith(a, len(lhs), func(i int) bool { return lhs[i] || rhs[i] })
}

func notSlice(a *arena.Arena, vals []bool) []bool {
	return arena.FillWith(a, len(vals), func(i int) bool { return !vals[i] })
}

func eqSlice[T comparable](a *arena.Arena, lhs, rhs []T) []bool {
	return arena.FillWith(a, len(lhs), func(i int) bool { return lhs[i] == rhs[i] })
}

func leSlice[T cmp.Ordered](a *arena.Arena, lhs, rhs []T) []bool {
	return arena.FillWith(a, len(lhs), func(i int) bool { return lhs[i] <= rhs[i] })
}

func geSlice[T cmp.Ordered](a *arena.Arena, lhs, rhs []T) []bool {
	return arena.FillWith(a, len(lhs), func(i int) bool { return lhs[i] >= rhs[i] })
}

func eqSliceFunc[T any](a *arena.Arena, lhs, rhs []T, eq func(x, y T) bool) []bool {
	return arena.FillWith(a, len(lhs), func(i int) bool { return eq(lhs[i], rhs[i]) })
}

// convertSlice widens src into the target integer width.
func convertSlice[F narrowInt, T ~int16 | ~int32 | ~int64](a *arena.Arena, src []F) []T {
	return arena.FillWith(a, len(src), func(i int) T { return T(src[i]) })
}

// toInt128Slice embeds 64-bit-or-narrower values into 128-bit integers.
func toInt128Slice(a *arena.Arena, src []int64) []decimal128.Num {
	return arena.FillWith(a, len(src), func(i int) decimal128.Num {
		return decimal128.FromI64(src[i])
	})
}

// checkedNarrow runs one checked arithmetic operator over slices of a
// narrow integer width. The computation happens in int64, where no
// input pair can overflow; the cast back to T detects results outside
// T's range.
func checkedNarrow[T narrowInt](a *arena.Arena, lhs, rhs []T, op BinaryOperator) ([]T, error) {
	out := arena.Make[T](a, len(lhs))
	for i := range lhs {
		x, y := int64(lhs[i]), int64(rhs[i])
		var r int64
		switch op {
		case OpAdd:
			r = x + y
		case OpSubtract:
			r = x - y
		case OpMultiply:
			r = x * y
		default:
			if y == 0 {
				return nil, ErrDivisionByZero
			}
			r = x / y
		}
		if int64(T(r)) != r {
			return nil, &IntegerOverflowError{Detail: fmt.Sprintf("%d %s %d", x, op, y)}
		}
		out[i] = T(r)
	}
	return out, nil
}

// checked64 is the int64 kernel; overflow detection uses sign identities
// since there is no wider machine width to compute in.
func checked64(a *arena.Arena, lhs, rhs []int64, op BinaryOperator) ([]int64, error) {
	out := arena.Make[int64](a, len(lhs))
	for i := range lhs {
		x, y := lhs[i], rhs[i]
		var r int64
		overflow := false
		switch op {
		case OpAdd:
			r = x + y
			overflow = (x^r)&(y^r) < 0
		case OpSubtract:
			r = x - y
			overflow = (x^y) < 0 && (r^x) < 0
		case OpMultiply:
			switch {
			case x == 0 || y == 0:
				r = 0
			case x == math.MinInt64 || y == math.MinInt64:
				// MIN * anything but 1 leaves the range.
				if x == 1 {
					r = y
				} else if y == 1 {
					r = x
				} else {
					overflow = true
				}
			default:
				r = x * y
				overflow = r/y != x
			}
		default:
			if y == 0 {
				return nil, ErrDivisionByZero
			}
			if x == math.MinInt64 && y == -1 {
				overflow = true
			} else {
				r = x / y
			}
		}
		if overflow {
			return nil, &IntegerOverflowError{Detail: fmt.Sprintf("%d %s %d", x, op, y)}
		}
		out[i] = r
	}
	return out, nil
}

// int128 bounds for the big.Int round trip in checked128.
// decimal128.FromBigInt truncates out-of-range inputs, so the range
// check has to happen before converting back.
var (
	minInt128 = new(big.Int).Lsh(big.NewInt(-1), 127)
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

func fitsInt128(v *big.Int) bool {
	return v.Cmp(minInt128) >= 0 && v.Cmp(maxInt128) <= 0
}

// checked128 is the 128-bit kernel. Each element round-trips through
// big.Int; a result outside the 128-bit range is an overflow.
func checked128(a *arena.Arena, lhs, rhs []decimal128.Num, op BinaryOperator) ([]decimal128.Num, error) {
	out := arena.Make[decimal128.Num](a, len(lhs))
	r := new(big.Int)
	for i := range lhs {
		x, y := lhs[i].BigInt(), rhs[i].BigInt()
		switch op {
		case OpAdd:
			r.Add(x, y)
		case OpSubtract:
			r.Sub(x, y)
		case OpMultiply:
			r.Mul(x, y)
		default:
			if y.Sign() == 0 {
				return nil, ErrDivisionByZero
			}
			// Quo truncates toward zero, matching the narrower kernels.
			r.Quo(x, y)
		}
		if !fitsInt128(r) {
			return nil, &IntegerOverflowError{Detail: fmt.Sprintf("%s %s %s", x, op, y)}
		}
		out[i] = decimal128.FromBigInt(r)
	}
	return out, nil
}

func le128(a *arena.Arena, lhs, rhs []decimal128.Num) []bool {
	return arena.FillWith(a, len(lhs), func(i int) bool {
		return !rhs[i].Less(lhs[i])
	})
}

func ge128(a *arena.Arena, lhs, rhs []decimal128.Num) []bool {
	return arena.FillWith(a, len(lhs), func(i int) bool {
		return !lhs[i].Less(rhs[i])
	})
}
