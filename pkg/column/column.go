package column

import (
	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/quarrydb/quarry/pkg/arena"
	"github.com/quarrydb/quarry/pkg/scalar"
)

// Column is a typed, immutable view over value buffers. Constructors
// wrap the given slices without copying; kernels allocate fresh result
// buffers through the arena they are handed. Exactly one payload slice
// is populated, matching the type tag.
//
// VarChar and VarBinary columns carry a parallel slice of field-element
// hashes alongside the raw values; every element-wise operation on them
// works on the hashes.
type Column struct {
	typ ColumnType

	bools   []bool
	uint8s  []uint8
	int8s   []int8
	int16s  []int16
	int32s  []int32
	int64s  []int64 // BigInt values or timestamp ticks
	int128s []decimal128.Num
	scalars []scalar.Scalar // Decimal75 and Scalar values, or VarChar/VarBinary hashes
	strs    []string
	bins    [][]byte
	flat    []byte // FixedSizeBinary payload, Len()*ByteWidth() bytes
}

// NewBoolean wraps vals as a BOOLEAN column.
func NewBoolean(vals []bool) Column { return Column{typ: Boolean, bools: vals} }

// NewUint8 wraps vals as a UINT8 column.
func NewUint8(vals []uint8) Column { return Column{typ: Uint8, uint8s: vals} }

// NewTinyInt wraps vals as a TINYINT column.
func NewTinyInt(vals []int8) Column { return Column{typ: TinyInt, int8s: vals} }

// NewSmallInt wraps vals as a SMALLINT column.
func NewSmallInt(vals []int16) Column { return Column{typ: SmallInt, int16s: vals} }

// NewInt wraps vals as an INT column.
func NewInt(vals []int32) Column { return Column{typ: Int, int32s: vals} }

// NewBigInt wraps vals as a BIGINT column.
func NewBigInt(vals []int64) Column { return Column{typ: BigInt, int64s: vals} }

// NewInt128 wraps vals as a 128-bit integer column.
func NewInt128(vals []decimal128.Num) Column { return Column{typ: Int128, int128s: vals} }

// NewDecimal75 wraps field-element representations of fixed-point
// decimals at the given precision and scale.
func NewDecimal75(precision Precision, scale int8, vals []scalar.Scalar) Column {
	return Column{typ: Decimal75(precision, scale), scalars: vals}
}

// NewScalar wraps vals as a typeless field-element column.
func NewScalar(vals []scalar.Scalar) Column { return Column{typ: Scalar, scalars: vals} }

// NewVarChar wraps string values and their precomputed field-element
// hashes. The two slices must be the same length.
func NewVarChar(vals []string, hashes []scalar.Scalar) Column {
	if len(vals) != len(hashes) {
		panic(&DifferentColumnLengthError{LenA: len(vals), LenB: len(hashes)})
	}
	return Column{typ: VarChar, strs: vals, scalars: hashes}
}

// NewVarBinary wraps byte-string values and their precomputed hashes.
// The two slices must be the same length.
func NewVarBinary(vals [][]byte, hashes []scalar.Scalar) Column {
	if len(vals) != len(hashes) {
		panic(&DifferentColumnLengthError{LenA: len(vals), LenB: len(hashes)})
	}
	return Column{typ: VarBinary, bins: vals, scalars: hashes}
}

// NewFixedSizeBinary wraps a flat byte buffer as a column of byteWidth
// sized elements. The buffer length must be a whole number of elements.
func NewFixedSizeBinary(byteWidth int32, data []byte) (Column, error) {
	if byteWidth <= 0 || len(data)%int(byteWidth) != 0 {
		return Column{}, &FixedSizeBinaryByteSizeMismatchError{Expected: int(byteWidth), Actual: len(data)}
	}
	return Column{typ: FixedSizeBinary(byteWidth), flat: data}, nil
}

// NewTimestampTZ wraps epoch tick counts at the given unit and zone.
func NewTimestampTZ(unit TimeUnit, tz TimeZone, ticks []int64) Column {
	return Column{typ: TimestampTZ(unit, tz), int64s: ticks}
}

// Type returns the column's type tag.
func (c Column) Type() ColumnType { return c.typ }

// Len returns the number of elements.
func (c Column) Len() int {
	switch c.typ.kind {
	case KindBoolean:
		return len(c.bools)
	case KindUint8:
		return len(c.uint8s)
	case KindTinyInt:
		return len(c.int8s)
	case KindSmallInt:
		return len(c.int16s)
	case KindInt:
		return len(c.int32s)
	case KindBigInt, KindTimestampTZ:
		return len(c.int64s)
	case KindInt128:
		return len(c.int128s)
	case KindDecimal75, KindScalar:
		return len(c.scalars)
	case KindVarChar:
		return len(c.strs)
	case KindVarBinary:
		return len(c.bins)
	case KindFixedSizeBinary:
		return len(c.flat) / int(c.typ.byteWidth)
	}
	return 0
}

// IsEmpty reports whether the column has no elements.
func (c Column) IsEmpty() bool { return c.Len() == 0 }

// Boolean returns the payload of a BOOLEAN column.
func (c Column) Boolean() ([]bool, bool) { return c.bools, c.typ.kind == KindBoolean }

// Uint8s returns the payload of a UINT8 column.
func (c Column) Uint8s() ([]uint8, bool) { return c.uint8s, c.typ.kind == KindUint8 }

// TinyInts returns the payload of a TINYINT column.
func (c Column) TinyInts() ([]int8, bool) { return c.int8s, c.typ.kind == KindTinyInt }

// SmallInts returns the payload of a SMALLINT column.
func (c Column) SmallInts() ([]int16, bool) { return c.int16s, c.typ.kind == KindSmallInt }

// Ints returns the payload of an INT column.
func (c Column) Ints() ([]int32, bool) { return c.int32s, c.typ.kind == KindInt }

// BigInts returns the payload of a BIGINT column.
func (c Column) BigInts() ([]int64, bool) { return c.int64s, c.typ.kind == KindBigInt }

// Int128s returns the payload of a 128-bit integer column.
func (c Column) Int128s() ([]decimal128.Num, bool) { return c.int128s, c.typ.kind == KindInt128 }

// Decimal75s returns the field-element payload of a decimal column.
func (c Column) Decimal75s() ([]scalar.Scalar, bool) { return c.scalars, c.typ.kind == KindDecimal75 }

// Scalars returns the payload of a typeless field-element column.
func (c Column) Scalars() ([]scalar.Scalar, bool) { return c.scalars, c.typ.kind == KindScalar }

// VarChars returns the string values and hashes of a VARCHAR column.
func (c Column) VarChars() ([]string, []scalar.Scalar, bool) {
	return c.strs, c.scalars, c.typ.kind == KindVarChar
}

// VarBinaries returns the byte-string values and hashes of a VARBINARY
// column.
func (c Column) VarBinaries() ([][]byte, []scalar.Scalar, bool) {
	return c.bins, c.scalars, c.typ.kind == KindVarBinary
}

// FixedSizeBinaries returns the element width and flat payload of a
// fixed-width binary column.
func (c Column) FixedSizeBinaries() (int32, []byte, bool) {
	return c.typ.byteWidth, c.flat, c.typ.kind == KindFixedSizeBinary
}

// Timestamps returns the unit, zone and tick payload of a timestamp
// column.
func (c Column) Timestamps() (TimeUnit, TimeZone, []int64, bool) {
	return c.typ.unit, c.typ.tz, c.int64s, c.typ.kind == KindTimestampTZ
}

// FixedSizeBinaryAt returns element i of a fixed-width binary column as
// a subslice of the flat payload.
func (c Column) FixedSizeBinaryAt(i int) []byte {
	w := int(c.typ.byteWidth)
	return c.flat[i*w : (i+1)*w]
}

// ScalarAt returns the field-element representation of element i, and
// false when i is out of range. Strings and byte strings map to their
// hashes, booleans to ZERO/ONE, integers and ticks to their embeddings.
func (c Column) ScalarAt(i int) (scalar.Scalar, bool) {
	if i < 0 || i >= c.Len() {
		return scalar.Scalar{}, false
	}
	switch c.typ.kind {
	case KindBoolean:
		return scalar.FromBool(c.bools[i]), true
	case KindUint8:
		return scalar.FromUint8(c.uint8s[i]), true
	case KindTinyInt:
		return scalar.FromInt8(c.int8s[i]), true
	case KindSmallInt:
		return scalar.FromInt16(c.int16s[i]), true
	case KindInt:
		return scalar.FromInt32(c.int32s[i]), true
	case KindBigInt, KindTimestampTZ:
		return scalar.FromInt64(c.int64s[i]), true
	case KindInt128:
		return scalar.FromInt128(c.int128s[i]), true
	case KindDecimal75, KindScalar, KindVarChar, KindVarBinary:
		return c.scalars[i], true
	case KindFixedSizeBinary:
		return scalar.FromBytes(c.FixedSizeBinaryAt(i)), true
	}
	return scalar.Scalar{}, false
}

// ToScalars materializes the whole column as field elements through the
// arena.
func (c Column) ToScalars(a *arena.Arena) []scalar.Scalar {
	return arena.FillWith(a, c.Len(), func(i int) scalar.Scalar {
		s, _ := c.ScalarAt(i)
		return s
	})
}

// ToScalarsWithScaling materializes the column as field elements scaled
// up by 10^upscale, the alignment step used when mixing columns of
// different decimal scales.
func (c Column) ToScalarsWithScaling(a *arena.Arena, upscale uint8) []scalar.Scalar {
	factor := scalar.Pow10(uint(upscale))
	return arena.FillWith(a, c.Len(), func(i int) scalar.Scalar {
		s, _ := c.ScalarAt(i)
		return s.Mul(factor)
	})
}

// Rho returns the identity column over [0, n): element i holds i as a
// BIGINT.
func Rho(a *arena.Arena, n int) Column {
	return NewBigInt(arena.FillWith(a, n, func(i int) int64 { return int64(i) }))
}

// Literal is a single typed value, used to materialize constant columns.
type Literal struct {
	typ     ColumnType
	boolVal bool
	u8Val   uint8
	i8Val   int8
	i16Val  int16
	i32Val  int32
	i64Val  int64
	i128Val decimal128.Num
	sVal    scalar.Scalar
	strVal  string
	binVal  []byte
}

// Type returns the literal's type tag.
func (l Literal) Type() ColumnType { return l.typ }

// BooleanLiteral returns a BOOLEAN literal.
func BooleanLiteral(v bool) Literal { return Literal{typ: Boolean, boolVal: v} }

// Uint8Literal returns a UINT8 literal.
func Uint8Literal(v uint8) Literal { return Literal{typ: Uint8, u8Val: v} }

// TinyIntLiteral returns a TINYINT literal.
func TinyIntLiteral(v int8) Literal { return Literal{typ: TinyInt, i8Val: v} }

// SmallIntLiteral returns a SMALLINT literal.
func SmallIntLiteral(v int16) Literal { return Literal{typ: SmallInt, i16Val: v} }

// IntLiteral returns an INT literal.
func IntLiteral(v int32) Literal { return Literal{typ: Int, i32Val: v} }

// BigIntLiteral returns a BIGINT literal.
func BigIntLiteral(v int64) Literal { return Literal{typ: BigInt, i64Val: v} }

// Int128Literal returns a 128-bit integer literal.
func Int128Literal(v decimal128.Num) Literal { return Literal{typ: Int128, i128Val: v} }

// Decimal75Literal returns a decimal literal from its field-element
// representation.
func Decimal75Literal(precision Precision, scale int8, v scalar.Scalar) Literal {
	return Literal{typ: Decimal75(precision, scale), sVal: v}
}

// ScalarLiteral returns a typeless field-element literal.
func ScalarLiteral(v scalar.Scalar) Literal { return Literal{typ: Scalar, sVal: v} }

// VarCharLiteral returns a VARCHAR literal; the hash is computed here.
func VarCharLiteral(v string) Literal {
	return Literal{typ: VarChar, strVal: v, sVal: scalar.FromString(v)}
}

// VarBinaryLiteral returns a VARBINARY literal; the hash is computed
// here.
func VarBinaryLiteral(v []byte) Literal {
	return Literal{typ: VarBinary, binVal: v, sVal: scalar.FromBytes(v)}
}

// TimestampTZLiteral returns a timestamp literal from an epoch tick
// count.
func TimestampTZLiteral(unit TimeUnit, tz TimeZone, ticks int64) Literal {
	return Literal{typ: TimestampTZ(unit, tz), i64Val: ticks}
}

// FromLiteral materializes a column of n copies of lit through the
// arena.
func FromLiteral(a *arena.Arena, lit Literal, n int) Column {
	switch lit.typ.kind {
	case KindBoolean:
		return NewBoolean(arena.Fill(a, n, lit.boolVal))
	case KindUint8:
		return NewUint8(arena.Fill(a, n, lit.u8Val))
	case KindTinyInt:
		return NewTinyInt(arena.Fill(a, n, lit.i8Val))
	case KindSmallInt:
		return NewSmallInt(arena.Fill(a, n, lit.i16Val))
	case KindInt:
		return NewInt(arena.Fill(a, n, lit.i32Val))
	case KindBigInt:
		return NewBigInt(arena.Fill(a, n, lit.i64Val))
	case KindInt128:
		return NewInt128(arena.Fill(a, n, lit.i128Val))
	case KindDecimal75:
		return NewDecimal75(lit.typ.precision, lit.typ.scale, arena.Fill(a, n, lit.sVal))
	case KindScalar:
		return NewScalar(arena.Fill(a, n, lit.sVal))
	case KindVarChar:
		return NewVarChar(arena.Fill(a, n, lit.strVal), arena.Fill(a, n, lit.sVal))
	case KindVarBinary:
		return NewVarBinary(arena.Fill(a, n, lit.binVal), arena.Fill(a, n, lit.sVal))
	case KindTimestampTZ:
		return NewTimestampTZ(lit.typ.unit, lit.typ.tz, arena.Fill(a, n, lit.i64Val))
	}
	panic(&UnsupportedTypeError{DataType: lit.typ.String()})
}
