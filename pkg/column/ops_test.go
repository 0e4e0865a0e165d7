package column

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/pkg/arena"
	"github.com/quarrydb/quarry/pkg/scalar"
)

func evalBools(t *testing.T, a *arena.Arena, op BinaryOperator, lhs, rhs Column) []bool {
	t.Helper()
	res, err := EvalBinary(a, op, lhs, rhs)
	require.NoError(t, err)
	vals, ok := res.Boolean()
	require.True(t, ok)
	return vals
}

func fieldVals(vals ...int64) []scalar.Scalar {
	out := make([]scalar.Scalar, len(vals))
	for i, v := range vals {
		out[i] = scalar.FromInt64(v)
	}
	return out
}

func TestEvalBinaryShapeCheck(t *testing.T) {
	a := arena.New()
	_, err := EvalBinary(a, OpAdd, NewBigInt([]int64{1, 2}), NewBigInt([]int64{1}))
	assert.ErrorAs(t, err, new(*DifferentColumnLengthError))

	// The length check runs before the type check.
	_, err = EvalBinary(a, OpAnd, NewBigInt([]int64{1}), NewBoolean(nil))
	assert.ErrorAs(t, err, new(*DifferentColumnLengthError))
}

func TestBooleanLogic(t *testing.T) {
	a := arena.New()
	lhs := NewBoolean([]bool{true, true, false, false})
	rhs := NewBoolean([]bool{true, false, true, false})

	and := evalBools(t, a, OpAnd, lhs, rhs)
	assert.Equal(t, []bool{true, false, false, false}, and)

	or := evalBools(t, a, OpOr, lhs, rhs)
	assert.Equal(t, []bool{true, true, true, false}, or)

	not, err := EvalNot(a, lhs)
	require.NoError(t, err)
	vals, _ := not.Boolean()
	assert.Equal(t, []bool{false, false, true, true}, vals)

	t.Run("non-boolean operands fail", func(t *testing.T) {
		_, err := EvalBinary(a, OpAnd, NewBigInt([]int64{1}), NewBigInt([]int64{1}))
		assert.ErrorAs(t, err, new(*BinaryOperationInvalidColumnTypeError))
		_, err = EvalNot(a, NewBigInt([]int64{1}))
		assert.ErrorAs(t, err, new(*UnaryOperationInvalidColumnTypeError))
	})
}

func TestEqualVariants(t *testing.T) {
	a := arena.New()

	t.Run("varchar", func(t *testing.T) {
		lhs := NewVarChar([]string{"a", "b"}, fieldVals(0, 0))
		rhs := NewVarChar([]string{"a", "c"}, fieldVals(0, 0))
		got := evalBools(t, a, OpEqual, lhs, rhs)
		assert.Equal(t, []bool{true, false}, got)
	})

	t.Run("varbinary", func(t *testing.T) {
		lhs := NewVarBinary([][]byte{{1}, {2}}, fieldVals(0, 0))
		rhs := NewVarBinary([][]byte{{1}, {3}}, fieldVals(0, 0))
		got := evalBools(t, a, OpEqual, lhs, rhs)
		assert.Equal(t, []bool{true, false}, got)
	})

	t.Run("fixed size binary", func(t *testing.T) {
		lhs, err := NewFixedSizeBinary(2, []byte{1, 2, 3, 4})
		require.NoError(t, err)
		rhs, err := NewFixedSizeBinary(2, []byte{1, 2, 9, 9})
		require.NoError(t, err)
		got := evalBools(t, a, OpEqual, lhs, rhs)
		assert.Equal(t, []bool{true, false}, got)
	})

	t.Run("mismatched widths fail", func(t *testing.T) {
		lhs, _ := NewFixedSizeBinary(2, []byte{1, 2})
		rhs, _ := NewFixedSizeBinary(4, []byte{1, 2, 3, 4})
		_, err := EvalBinary(a, OpEqual, lhs, rhs)
		assert.ErrorAs(t, err, new(*BinaryOperationInvalidColumnTypeError))
	})

	t.Run("varchar against bigint fails", func(t *testing.T) {
		lhs := NewVarChar([]string{"a"}, fieldVals(0))
		_, err := EvalBinary(a, OpEqual, lhs, NewBigInt([]int64{1}))
		assert.ErrorAs(t, err, new(*BinaryOperationInvalidColumnTypeError))
	})
}

func TestIntegerComparisons(t *testing.T) {
	a := arena.New()

	t.Run("mixed widths widen", func(t *testing.T) {
		lhs := NewUint8([]uint8{200, 3, 7})
		rhs := NewTinyInt([]int8{-5, 3, 100})
		assert.Equal(t, []bool{false, true, true},
			evalBools(t, a, OpLessThanOrEqual, lhs, rhs))
		assert.Equal(t, []bool{true, true, false},
			evalBools(t, a, OpGreaterThanOrEqual, lhs, rhs))
		assert.Equal(t, []bool{false, true, false},
			evalBools(t, a, OpEqual, lhs, rhs))
	})

	t.Run("int128 path", func(t *testing.T) {
		lhs := NewInt128([]decimal128.Num{decimal128.FromI64(-10), decimal128.FromI64(5)})
		rhs := NewBigInt([]int64{-10, 6})
		assert.Equal(t, []bool{true, true},
			evalBools(t, a, OpLessThanOrEqual, lhs, rhs))
		assert.Equal(t, []bool{true, false},
			evalBools(t, a, OpGreaterThanOrEqual, lhs, rhs))
	})
}

func TestDecimalComparisons(t *testing.T) {
	a := arena.New()

	t.Run("integer against decimal aligns scales", func(t *testing.T) {
		// 1.23 and -4.50 against integers 1 and -5.
		lhs := NewDecimal75(MustNewPrecision(10), 2, fieldVals(123, -450))
		rhs := NewTinyInt([]int8{1, -5})
		assert.Equal(t, []bool{false, false},
			evalBools(t, a, OpEqual, lhs, rhs))
		// 1.23 > 1 and -4.50 > -5.
		assert.Equal(t, []bool{false, false},
			evalBools(t, a, OpLessThanOrEqual, lhs, rhs))
		assert.Equal(t, []bool{true, true},
			evalBools(t, a, OpGreaterThanOrEqual, lhs, rhs))
	})

	t.Run("equal decimals at equal scale", func(t *testing.T) {
		lhs := NewDecimal75(MustNewPrecision(10), 2, fieldVals(100, -1))
		rhs := NewDecimal75(MustNewPrecision(20), 2, fieldVals(100, 1))
		assert.Equal(t, []bool{true, false},
			evalBools(t, a, OpEqual, lhs, rhs))
	})

	t.Run("extreme scale delta short-circuits", func(t *testing.T) {
		// The rhs scale is unreachable by upscaling: only sign information
		// survives.
		lhs := NewDecimal75(MustNewPrecision(10), 0, fieldVals(-1, 0, 0, 1))
		rhs := NewDecimal75(MustNewPrecision(75), 127, fieldVals(5, 0, -5, 5))
		assert.Equal(t, []bool{false, true, false, false},
			evalBools(t, a, OpEqual, lhs, rhs))
		assert.Equal(t, []bool{true, true, false, false},
			evalBools(t, a, OpLessThanOrEqual, lhs, rhs))
		assert.Equal(t, []bool{false, true, true, true},
			evalBools(t, a, OpGreaterThanOrEqual, lhs, rhs))
	})
}

func TestTimestampComparisons(t *testing.T) {
	a := arena.New()
	secs := NewTimestampTZ(UnitSecond, UTC, []int64{1, 2})
	millis := NewTimestampTZ(UnitMillisecond, UTC, []int64{1000, 1999})

	assert.Equal(t, []bool{true, false},
		evalBools(t, a, OpEqual, secs, millis))
	assert.Equal(t, []bool{true, false},
		evalBools(t, a, OpLessThanOrEqual, secs, millis))
	assert.Equal(t, []bool{true, true},
		evalBools(t, a, OpGreaterThanOrEqual, secs, millis))

	t.Run("timestamp against integer fails", func(t *testing.T) {
		_, err := EvalBinary(a, OpLessThanOrEqual, secs, NewBigInt([]int64{1, 2}))
		assert.ErrorAs(t, err, new(*BinaryOperationInvalidColumnTypeError))
	})
}

func TestIntegerArithmetic(t *testing.T) {
	a := arena.New()

	t.Run("mixed widths promote", func(t *testing.T) {
		lhs := NewUint8([]uint8{200})
		rhs := NewTinyInt([]int8{-100})
		res, err := EvalBinary(a, OpAdd, lhs, rhs)
		require.NoError(t, err)
		assert.Equal(t, SmallInt, res.Type())
		vals, _ := res.SmallInts()
		assert.Equal(t, []int16{100}, vals)
	})

	t.Run("uint8 pair stays uint8", func(t *testing.T) {
		res, err := EvalBinary(a, OpAdd, NewUint8([]uint8{200}), NewUint8([]uint8{55}))
		require.NoError(t, err)
		assert.Equal(t, Uint8, res.Type())
		vals, _ := res.Uint8s()
		assert.Equal(t, []uint8{255}, vals)
	})

	t.Run("uint8 overflow", func(t *testing.T) {
		_, err := EvalBinary(a, OpAdd, NewUint8([]uint8{200}), NewUint8([]uint8{56}))
		assert.ErrorAs(t, err, new(*IntegerOverflowError))
		// Subtraction below zero is also out of range for the unsigned width.
		_, err = EvalBinary(a, OpSubtract, NewUint8([]uint8{1}), NewUint8([]uint8{2}))
		assert.ErrorAs(t, err, new(*IntegerOverflowError))
	})

	t.Run("tinyint overflow", func(t *testing.T) {
		_, err := EvalBinary(a, OpMultiply, NewTinyInt([]int8{100}), NewTinyInt([]int8{2}))
		assert.ErrorAs(t, err, new(*IntegerOverflowError))
		_, err = EvalBinary(a, OpDivide, NewTinyInt([]int8{math.MinInt8}), NewTinyInt([]int8{-1}))
		assert.ErrorAs(t, err, new(*IntegerOverflowError))
	})

	t.Run("division truncates toward zero", func(t *testing.T) {
		res, err := EvalBinary(a, OpDivide, NewInt([]int32{-7, 7}), NewInt([]int32{2, -2}))
		require.NoError(t, err)
		vals, _ := res.Ints()
		assert.Equal(t, []int32{-3, -3}, vals)
	})

	t.Run("division by zero", func(t *testing.T) {
		_, err := EvalBinary(a, OpDivide, NewBigInt([]int64{1}), NewBigInt([]int64{0}))
		assert.ErrorIs(t, err, ErrDivisionByZero)
	})

	t.Run("int64 overflow", func(t *testing.T) {
		_, err := EvalBinary(a, OpAdd, NewBigInt([]int64{math.MaxInt64}), NewBigInt([]int64{1}))
		assert.ErrorAs(t, err, new(*IntegerOverflowError))
		_, err = EvalBinary(a, OpSubtract, NewBigInt([]int64{math.MinInt64}), NewBigInt([]int64{1}))
		assert.ErrorAs(t, err, new(*IntegerOverflowError))
		_, err = EvalBinary(a, OpMultiply, NewBigInt([]int64{math.MinInt64}), NewBigInt([]int64{-1}))
		assert.ErrorAs(t, err, new(*IntegerOverflowError))
		_, err = EvalBinary(a, OpDivide, NewBigInt([]int64{math.MinInt64}), NewBigInt([]int64{-1}))
		assert.ErrorAs(t, err, new(*IntegerOverflowError))
	})

	t.Run("int128 arithmetic", func(t *testing.T) {
		big := decimal128.New(1<<40, 0) // high bits set, far beyond int64
		res, err := EvalBinary(a, OpAdd,
			NewInt128([]decimal128.Num{big}),
			NewBigInt([]int64{1}))
		require.NoError(t, err)
		assert.Equal(t, Int128, res.Type())
		vals, _ := res.Int128s()
		assert.Equal(t, decimal128.New(1<<40, 1), vals[0])

		_, err = EvalBinary(a, OpMultiply,
			NewInt128([]decimal128.Num{decimal128.MaxDecimal128}),
			NewInt128([]decimal128.Num{decimal128.FromI64(1000)}))
		assert.ErrorAs(t, err, new(*IntegerOverflowError))
	})

	t.Run("int128 range boundaries", func(t *testing.T) {
		// -2^127 and 2^127-1, the ends of the representable range.
		minimum := decimal128.New(math.MinInt64, 0)
		maximum := decimal128.New(math.MaxInt64, math.MaxUint64)
		res, err := EvalBinary(a, OpAdd,
			NewInt128([]decimal128.Num{minimum, maximum}),
			NewBigInt([]int64{0, 0}))
		require.NoError(t, err)
		vals, _ := res.Int128s()
		assert.Equal(t, []decimal128.Num{minimum, maximum}, vals)

		// One past either end overflows instead of wrapping.
		_, err = EvalBinary(a, OpSubtract,
			NewInt128([]decimal128.Num{minimum}),
			NewBigInt([]int64{1}))
		assert.ErrorAs(t, err, new(*IntegerOverflowError))
		_, err = EvalBinary(a, OpAdd,
			NewInt128([]decimal128.Num{maximum}),
			NewBigInt([]int64{1}))
		assert.ErrorAs(t, err, new(*IntegerOverflowError))
	})
}

func TestDecimalArithmetic(t *testing.T) {
	a := arena.New()

	t.Run("add aligns the integer side", func(t *testing.T) {
		lhs := NewDecimal75(MustNewPrecision(10), 2, fieldVals(123, -450))
		rhs := NewTinyInt([]int8{1, 2})
		res, err := EvalBinary(a, OpAdd, lhs, rhs)
		require.NoError(t, err)
		assert.Equal(t, dec(11, 2), res.Type())
		vals, ok := res.Decimal75s()
		require.True(t, ok)
		assert.Equal(t, fieldVals(223, -250), vals)
	})

	t.Run("subtract", func(t *testing.T) {
		lhs := NewTinyInt([]int8{1})
		rhs := NewDecimal75(MustNewPrecision(10), 2, fieldVals(123))
		res, err := EvalBinary(a, OpSubtract, lhs, rhs)
		require.NoError(t, err)
		assert.Equal(t, dec(11, 2), res.Type())
		vals, _ := res.Decimal75s()
		assert.Equal(t, fieldVals(-23), vals)
	})

	t.Run("multiply needs no alignment", func(t *testing.T) {
		lhs := NewDecimal75(MustNewPrecision(10), 2, fieldVals(123))
		rhs := NewDecimal75(MustNewPrecision(10), 1, fieldVals(5))
		res, err := EvalBinary(a, OpMultiply, lhs, rhs)
		require.NoError(t, err)
		assert.Equal(t, dec(21, 3), res.Type())
		vals, _ := res.Decimal75s()
		// 1.23 * 0.5 = 0.615
		assert.Equal(t, fieldVals(615), vals)
	})

	t.Run("scalar operand yields scalar", func(t *testing.T) {
		lhs := NewScalar(fieldVals(3))
		rhs := NewBigInt([]int64{4})
		res, err := EvalBinary(a, OpMultiply, lhs, rhs)
		require.NoError(t, err)
		assert.Equal(t, Scalar, res.Type())
		vals, _ := res.Scalars()
		assert.Equal(t, fieldVals(12), vals)
	})

	t.Run("divide computes at the promoted scale", func(t *testing.T) {
		lhs := NewDecimal75(MustNewPrecision(10), 2, fieldVals(123))
		rhs := NewDecimal75(MustNewPrecision(10), 2, fieldVals(50))
		res, err := EvalBinary(a, OpDivide, lhs, rhs)
		require.NoError(t, err)
		assert.Equal(t, dec(23, 13), res.Type())
		vals, _ := res.Decimal75s()
		// 1.23 / 0.50 = 2.46 at scale 13.
		assert.Equal(t, fieldVals(24_600_000_000_000), vals)
	})

	t.Run("divide truncates toward zero", func(t *testing.T) {
		lhs := NewBigInt([]int64{-10})
		rhs := NewDecimal75(MustNewPrecision(10), 2, fieldVals(300))
		res, err := EvalBinary(a, OpDivide, lhs, rhs)
		require.NoError(t, err)
		assert.Equal(t, dec(32, 11), res.Type())
		vals, _ := res.Decimal75s()
		// -10 / 3.00 = -3.33333333333 at scale 11, truncated.
		assert.Equal(t, fieldVals(-333_333_333_333), vals)
	})

	t.Run("decimal division by zero", func(t *testing.T) {
		lhs := NewDecimal75(MustNewPrecision(10), 2, fieldVals(1))
		rhs := NewDecimal75(MustNewPrecision(10), 2, fieldVals(0))
		_, err := EvalBinary(a, OpDivide, lhs, rhs)
		assert.ErrorIs(t, err, ErrDivisionByZero)
	})

	t.Run("non-numeric operands fail", func(t *testing.T) {
		_, err := EvalBinary(a, OpAdd, NewBoolean([]bool{true}), NewBigInt([]int64{1}))
		assert.ErrorAs(t, err, new(*BinaryOperationInvalidColumnTypeError))
	})
}

func TestOwnedColumnOperators(t *testing.T) {
	sum, err := OwnedBigInt([]int64{1, 2}).Add(OwnedBigInt([]int64{10, 20}))
	require.NoError(t, err)
	vals, _ := sum.BigInts()
	assert.Equal(t, []int64{11, 22}, vals)

	eq, err := OwnedVarChar([]string{"a", "b"}).Eq(OwnedVarChar([]string{"a", "x"}))
	require.NoError(t, err)
	bools, _ := eq.Boolean()
	assert.Equal(t, []bool{true, false}, bools)

	not, err := OwnedBoolean([]bool{true, false}).Not()
	require.NoError(t, err)
	bools, _ = not.Boolean()
	assert.Equal(t, []bool{false, true}, bools)

	_, err = OwnedBigInt([]int64{1}).Div(OwnedBigInt([]int64{0}))
	assert.ErrorIs(t, err, ErrDivisionByZero)
}
