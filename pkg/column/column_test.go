package column

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/pkg/arena"
	"github.com/quarrydb/quarry/pkg/scalar"
)

func TestColumnLenAndAccessors(t *testing.T) {
	a := arena.New()

	c := NewBigInt([]int64{1, 2, 3})
	assert.Equal(t, 3, c.Len())
	assert.False(t, c.IsEmpty())
	vals, ok := c.BigInts()
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, vals)
	_, ok = c.Ints()
	assert.False(t, ok)

	vc := NewVarChar([]string{"a", "bb"}, []scalar.Scalar{scalar.FromString("a"), scalar.FromString("bb")})
	assert.Equal(t, 2, vc.Len())
	strs, hashes, ok := vc.VarChars()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "bb"}, strs)
	assert.Equal(t, scalar.FromString("bb"), hashes[1])

	fsb, err := NewFixedSizeBinary(4, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	assert.Equal(t, 2, fsb.Len())
	assert.Equal(t, []byte{5, 6, 7, 8}, fsb.FixedSizeBinaryAt(1))

	ts := NewTimestampTZ(UnitMillisecond, UTC, arena.Copy(a, []int64{100, 200}))
	unit, tz, ticks, ok := ts.Timestamps()
	require.True(t, ok)
	assert.Equal(t, UnitMillisecond, unit)
	assert.Equal(t, UTC, tz)
	assert.Equal(t, []int64{100, 200}, ticks)
}

func TestColumnConstructorValidation(t *testing.T) {
	assert.Panics(t, func() {
		NewVarChar([]string{"a"}, nil)
	})
	assert.Panics(t, func() {
		NewVarBinary([][]byte{{1}}, []scalar.Scalar{{}, {}})
	})

	_, err := NewFixedSizeBinary(3, []byte{1, 2, 3, 4})
	assert.ErrorAs(t, err, new(*FixedSizeBinaryByteSizeMismatchError))
	_, err = NewFixedSizeBinary(0, nil)
	assert.ErrorAs(t, err, new(*FixedSizeBinaryByteSizeMismatchError))
}

func TestScalarAt(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		want scalar.Scalar
	}{
		{"boolean", NewBoolean([]bool{true}), scalar.One()},
		{"uint8", NewUint8([]uint8{250}), scalar.FromInt64(250)},
		{"tinyint", NewTinyInt([]int8{-7}), scalar.FromInt64(-7)},
		{"smallint", NewSmallInt([]int16{-300}), scalar.FromInt64(-300)},
		{"int", NewInt([]int32{1 << 20}), scalar.FromInt64(1 << 20)},
		{"bigint", NewBigInt([]int64{-1 << 40}), scalar.FromInt64(-1 << 40)},
		{"int128", NewInt128([]decimal128.Num{decimal128.FromI64(99)}), scalar.FromInt64(99)},
		{"varchar hash", NewVarChar([]string{"x"}, []scalar.Scalar{scalar.FromString("x")}), scalar.FromString("x")},
		{"timestamp ticks", NewTimestampTZ(UnitSecond, UTC, []int64{1700000000}), scalar.FromInt64(1700000000)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, ok := tc.col.ScalarAt(0)
			require.True(t, ok)
			assert.Equal(t, tc.want, s)
		})
	}

	t.Run("out of range", func(t *testing.T) {
		c := NewBigInt([]int64{1})
		_, ok := c.ScalarAt(1)
		assert.False(t, ok)
		_, ok = c.ScalarAt(-1)
		assert.False(t, ok)
	})

	t.Run("fixed size binary hashes the element", func(t *testing.T) {
		c, err := NewFixedSizeBinary(2, []byte{0xAA, 0xBB})
		require.NoError(t, err)
		s, ok := c.ScalarAt(0)
		require.True(t, ok)
		assert.Equal(t, scalar.FromBytes([]byte{0xAA, 0xBB}), s)
	})
}

func TestToScalars(t *testing.T) {
	a := arena.New()
	c := NewTinyInt([]int8{1, -2, 3})
	out := c.ToScalars(a)
	assert.Equal(t, []scalar.Scalar{scalar.FromInt64(1), scalar.FromInt64(-2), scalar.FromInt64(3)}, out)

	scaled := c.ToScalarsWithScaling(a, 2)
	assert.Equal(t, scalar.FromInt64(100), scaled[0])
	assert.Equal(t, scalar.FromInt64(-200), scaled[1])
}

func TestRho(t *testing.T) {
	a := arena.New()
	c := Rho(a, 4)
	assert.Equal(t, BigInt, c.Type())
	vals, _ := c.BigInts()
	assert.Equal(t, []int64{0, 1, 2, 3}, vals)
}

func TestFromLiteral(t *testing.T) {
	a := arena.New()

	c := FromLiteral(a, BigIntLiteral(-9), 3)
	vals, _ := c.BigInts()
	assert.Equal(t, []int64{-9, -9, -9}, vals)

	vc := FromLiteral(a, VarCharLiteral("hi"), 2)
	strs, hashes, ok := vc.VarChars()
	require.True(t, ok)
	assert.Equal(t, []string{"hi", "hi"}, strs)
	assert.Equal(t, scalar.FromString("hi"), hashes[0])

	d := FromLiteral(a, Decimal75Literal(MustNewPrecision(10), 2, scalar.FromInt64(123)), 1)
	assert.Equal(t, dec(10, 2), d.Type())

	ts := FromLiteral(a, TimestampTZLiteral(UnitMicrosecond, UTC, 42), 2)
	_, _, ticks, ok := ts.Timestamps()
	require.True(t, ok)
	assert.Equal(t, []int64{42, 42}, ticks)
}

func TestOwnedRoundTrip(t *testing.T) {
	a := arena.New()

	t.Run("varchar view materializes hashes", func(t *testing.T) {
		owned := OwnedVarChar([]string{"p", "q"})
		assert.Equal(t, 2, owned.Len())
		view := owned.View(a)
		_, hashes, ok := view.VarChars()
		require.True(t, ok)
		assert.Equal(t, scalar.FromString("q"), hashes[1])
		assert.Equal(t, owned.Type(), view.ToOwned().Type())
	})

	t.Run("numeric buffers are shared", func(t *testing.T) {
		vals := []int64{1, 2}
		owned := OwnedBigInt(vals)
		view := owned.View(a)
		vals[0] = 7
		got, _ := view.BigInts()
		assert.Equal(t, int64(7), got[0])
	})

	t.Run("owned scalar at hashes on demand", func(t *testing.T) {
		owned := OwnedVarBinary([][]byte{{1, 2}})
		s, ok := owned.ScalarAt(0)
		require.True(t, ok)
		assert.Equal(t, scalar.FromBytes([]byte{1, 2}), s)
	})

	t.Run("to owned drops derived hashes", func(t *testing.T) {
		view := NewVarChar([]string{"a"}, []scalar.Scalar{scalar.FromString("a")})
		owned := view.ToOwned()
		strs, ok := owned.VarChars()
		require.True(t, ok)
		assert.Equal(t, []string{"a"}, strs)
	})
}

func TestConcatOwned(t *testing.T) {
	merged, err := ConcatOwned(OwnedBigInt([]int64{1, 2}), OwnedBigInt([]int64{3}))
	require.NoError(t, err)
	vals, _ := merged.BigInts()
	assert.Equal(t, []int64{1, 2, 3}, vals)

	_, err = ConcatOwned(OwnedBigInt(nil), OwnedInt(nil))
	assert.ErrorAs(t, err, new(*CastingError))

	t.Run("decimal tags must match exactly", func(t *testing.T) {
		_, err := ConcatOwned(
			OwnedDecimal75(MustNewPrecision(10), 2, nil),
			OwnedDecimal75(MustNewPrecision(10), 3, nil),
		)
		assert.ErrorAs(t, err, new(*CastingError))
	})
}
