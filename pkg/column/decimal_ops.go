package column

import (
	"math/big"

	"github.com/quarrydb/quarry/pkg/arena"
	"github.com/quarrydb/quarry/pkg/scalar"
)

// Decimal kernels: both operands are materialized as field elements and
// aligned to a common scale by multiplying the lower-scale side with a
// power of ten. At most one side carries a non-zero scale when an
// integer column meets a decimal one; two decimals may both be scaled.
//
// When the scale delta exceeds MaxSupportedPrecision the power of ten
// wraps the field, so the kernels short-circuit: an upscaled non-zero
// value always has larger magnitude than any value of the other column.

func decimalScales(lt, rt ColumnType) (lhsScale, rhsScale int8) {
	ls, _ := lt.Scale()
	rs, _ := rt.Scale()
	return ls, rs
}

func eqDecimals(a *arena.Arena, lhs, rhs []scalar.Scalar, lt, rt ColumnType) []bool {
	lhsScale, rhsScale := decimalScales(lt, rt)
	maxScale := max(lhsScale, rhsScale)
	switch {
	case lhsScale < maxScale:
		upscale := maxScale - lhsScale
		if upscale > MaxSupportedPrecision {
			return arena.FillWith(a, len(lhs), func(i int) bool {
				return lhs[i].IsZero() && rhs[i].IsZero()
			})
		}
		f := scalar.Pow10(uint(upscale))
		return arena.FillWith(a, len(lhs), func(i int) bool {
			return lhs[i].Mul(f) == rhs[i]
		})
	case rhsScale < maxScale:
		upscale := maxScale - rhsScale
		if upscale > MaxSupportedPrecision {
			return arena.FillWith(a, len(lhs), func(i int) bool {
				return lhs[i].IsZero() && rhs[i].IsZero()
			})
		}
		f := scalar.Pow10(uint(upscale))
		return arena.FillWith(a, len(lhs), func(i int) bool {
			return lhs[i] == rhs[i].Mul(f)
		})
	default:
		return arena.FillWith(a, len(lhs), func(i int) bool {
			return lhs[i] == rhs[i]
		})
	}
}

func leDecimals(a *arena.Arena, lhs, rhs []scalar.Scalar, lt, rt ColumnType) []bool {
	lhsScale, rhsScale := decimalScales(lt, rt)
	maxScale := max(lhsScale, rhsScale)
	switch {
	case lhsScale < maxScale:
		upscale := maxScale - lhsScale
		if upscale > MaxSupportedPrecision {
			// upscaled(l) <= r iff l < 0, or l == 0 and r >= 0
			return arena.FillWith(a, len(lhs), func(i int) bool {
				return lhs[i].Sign() < 0 || (lhs[i].IsZero() && rhs[i].Sign() >= 0)
			})
		}
		f := scalar.Pow10(uint(upscale))
		return arena.FillWith(a, len(lhs), func(i int) bool {
			return lhs[i].Mul(f).SignedCmp(rhs[i]) <= 0
		})
	case rhsScale < maxScale:
		upscale := maxScale - rhsScale
		if upscale > MaxSupportedPrecision {
			// l <= upscaled(r) iff r > 0, or l <= 0 and r == 0
			return arena.FillWith(a, len(lhs), func(i int) bool {
				return (lhs[i].Sign() <= 0 && rhs[i].IsZero()) || rhs[i].Sign() > 0
			})
		}
		f := scalar.Pow10(uint(upscale))
		return arena.FillWith(a, len(lhs), func(i int) bool {
			return lhs[i].SignedCmp(rhs[i].Mul(f)) <= 0
		})
	default:
		return arena.FillWith(a, len(lhs), func(i int) bool {
			return lhs[i].SignedCmp(rhs[i]) <= 0
		})
	}
}

func geDecimals(a *arena.Arena, lhs, rhs []scalar.Scalar, lt, rt ColumnType) []bool {
	lhsScale, rhsScale := decimalScales(lt, rt)
	maxScale := max(lhsScale, rhsScale)
	switch {
	case lhsScale < maxScale:
		upscale := maxScale - lhsScale
		if upscale > MaxSupportedPrecision {
			// upscaled(l) >= r iff l > 0, or l == 0 and r <= 0
			return arena.FillWith(a, len(lhs), func(i int) bool {
				return lhs[i].Sign() > 0 || (lhs[i].IsZero() && rhs[i].Sign() <= 0)
			})
		}
		f := scalar.Pow10(uint(upscale))
		return arena.FillWith(a, len(lhs), func(i int) bool {
			return lhs[i].Mul(f).SignedCmp(rhs[i]) >= 0
		})
	case rhsScale < maxScale:
		upscale := maxScale - rhsScale
		if upscale > MaxSupportedPrecision {
			// l >= upscaled(r) iff r < 0, or l >= 0 and r == 0
			return arena.FillWith(a, len(lhs), func(i int) bool {
				return (lhs[i].Sign() >= 0 && rhs[i].IsZero()) || rhs[i].Sign() < 0
			})
		}
		f := scalar.Pow10(uint(upscale))
		return arena.FillWith(a, len(lhs), func(i int) bool {
			return lhs[i].SignedCmp(rhs[i].Mul(f)) >= 0
		})
	default:
		return arena.FillWith(a, len(lhs), func(i int) bool {
			return lhs[i].SignedCmp(rhs[i]) >= 0
		})
	}
}

// addSubDecimals computes lhs +/- rhs in the field after aligning both
// sides to the promoted scale. op must be OpAdd or OpSubtract.
func addSubDecimals(a *arena.Arena, lhs, rhs []scalar.Scalar, lt, rt ColumnType, op BinaryOperator) (ColumnType, []scalar.Scalar, error) {
	newType, err := TryAddSubtractColumnTypes(lt, rt, op)
	if err != nil {
		return ColumnType{}, nil, err
	}
	newScale, _ := newType.Scale()
	lhsScale, rhsScale := decimalScales(lt, rt)
	combine := func(l, r scalar.Scalar) scalar.Scalar {
		if op == OpAdd {
			return l.Add(r)
		}
		return l.Sub(r)
	}
	var out []scalar.Scalar
	switch {
	case newScale > lhsScale:
		f := scalar.Pow10(uint(newScale - lhsScale))
		out = arena.FillWith(a, len(lhs), func(i int) scalar.Scalar {
			return combine(lhs[i].Mul(f), rhs[i])
		})
	case newScale > rhsScale:
		f := scalar.Pow10(uint(newScale - rhsScale))
		out = arena.FillWith(a, len(lhs), func(i int) scalar.Scalar {
			return combine(lhs[i], rhs[i].Mul(f))
		})
	default:
		out = arena.FillWith(a, len(lhs), func(i int) scalar.Scalar {
			return combine(lhs[i], rhs[i])
		})
	}
	return newType, out, nil
}

// mulDecimals computes lhs * rhs in the field. No alignment is needed:
// the product's scale is the sum of the input scales.
func mulDecimals(a *arena.Arena, lhs, rhs []scalar.Scalar, lt, rt ColumnType) (ColumnType, []scalar.Scalar, error) {
	newType, err := TryMultiplyColumnTypes(lt, rt)
	if err != nil {
		return ColumnType{}, nil, err
	}
	out := arena.FillWith(a, len(lhs), func(i int) scalar.Scalar {
		return lhs[i].Mul(rhs[i])
	})
	return newType, out, nil
}

// divDecimals divides element-wise over exact integers, truncating
// toward zero, then re-embeds the quotients in the field. The quotient
// is computed at the promoted scale: the numerator is pre-multiplied by
// 10^(rs - ls + newScale) when that exponent is non-negative, otherwise
// the result is divided down by its magnitude.
func divDecimals(a *arena.Arena, lhs, rhs []*big.Int, lt, rt ColumnType) (ColumnType, []scalar.Scalar, error) {
	newType, err := TryDivideColumnTypes(lt, rt)
	if err != nil {
		return ColumnType{}, nil, err
	}
	newScale, _ := newType.Scale()
	lhsScale, rhsScale := decimalScales(lt, rt)
	appliedScale := int(rhsScale) - int(lhsScale) + int(newScale)
	exp := appliedScale
	if exp < 0 {
		exp = -exp
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
	out := arena.Make[scalar.Scalar](a, len(lhs))
	q := new(big.Int)
	for i := range lhs {
		if rhs[i].Sign() == 0 {
			return ColumnType{}, nil, ErrDivisionByZero
		}
		if appliedScale >= 0 {
			q.Mul(lhs[i], factor)
			q.Quo(q, rhs[i])
		} else {
			q.Quo(lhs[i], rhs[i])
			q.Quo(q, factor)
		}
		out[i] = scalar.FromBigInt(q)
	}
	return newType, out, nil
}
