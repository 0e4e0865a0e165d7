package column

import (
	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/quarrydb/quarry/pkg/arena"
	"github.com/quarrydb/quarry/pkg/scalar"
)

// OwnedColumn is the self-contained counterpart of Column: it owns its
// value buffers outright and carries no derived hash slices. Results
// that outlive an evaluation step live here; the kernel itself works on
// Column views.
type OwnedColumn struct {
	typ ColumnType

	bools   []bool
	uint8s  []uint8
	int8s   []int8
	int16s  []int16
	int32s  []int32
	int64s  []int64
	int128s []decimal128.Num
	scalars []scalar.Scalar
	strs    []string
	bins    [][]byte
	flat    []byte
}

// OwnedBoolean takes ownership of vals as a BOOLEAN column.
func OwnedBoolean(vals []bool) OwnedColumn { return OwnedColumn{typ: Boolean, bools: vals} }

// OwnedUint8 takes ownership of vals as a UINT8 column.
func OwnedUint8(vals []uint8) OwnedColumn { return OwnedColumn{typ: Uint8, uint8s: vals} }

// OwnedTinyInt takes ownership of vals as a TINYINT column.
func OwnedTinyInt(vals []int8) OwnedColumn { return OwnedColumn{typ: TinyInt, int8s: vals} }

// OwnedSmallInt takes ownership of vals as a SMALLINT column.
func OwnedSmallInt(vals []int16) OwnedColumn { return OwnedColumn{typ: SmallInt, int16s: vals} }

// OwnedInt takes ownership of vals as an INT column.
func OwnedInt(vals []int32) OwnedColumn { return OwnedColumn{typ: Int, int32s: vals} }

// OwnedBigInt takes ownership of vals as a BIGINT column.
func OwnedBigInt(vals []int64) OwnedColumn { return OwnedColumn{typ: BigInt, int64s: vals} }

// OwnedInt128 takes ownership of vals as a 128-bit integer column.
func OwnedInt128(vals []decimal128.Num) OwnedColumn { return OwnedColumn{typ: Int128, int128s: vals} }

// OwnedDecimal75 takes ownership of field-element decimal values.
func OwnedDecimal75(precision Precision, scale int8, vals []scalar.Scalar) OwnedColumn {
	return OwnedColumn{typ: Decimal75(precision, scale), scalars: vals}
}

// OwnedScalar takes ownership of vals as a typeless field-element
// column.
func OwnedScalar(vals []scalar.Scalar) OwnedColumn { return OwnedColumn{typ: Scalar, scalars: vals} }

// OwnedVarChar takes ownership of string values; hashes are recomputed
// when the column is viewed.
func OwnedVarChar(vals []string) OwnedColumn { return OwnedColumn{typ: VarChar, strs: vals} }

// OwnedVarBinary takes ownership of byte-string values.
func OwnedVarBinary(vals [][]byte) OwnedColumn { return OwnedColumn{typ: VarBinary, bins: vals} }

// OwnedFixedSizeBinary takes ownership of a flat buffer of byteWidth
// sized elements.
func OwnedFixedSizeBinary(byteWidth int32, data []byte) (OwnedColumn, error) {
	if byteWidth <= 0 || len(data)%int(byteWidth) != 0 {
		return OwnedColumn{}, &FixedSizeBinaryByteSizeMismatchError{Expected: int(byteWidth), Actual: len(data)}
	}
	return OwnedColumn{typ: FixedSizeBinary(byteWidth), flat: data}, nil
}

// OwnedTimestampTZ takes ownership of epoch tick counts.
func OwnedTimestampTZ(unit TimeUnit, tz TimeZone, ticks []int64) OwnedColumn {
	return OwnedColumn{typ: TimestampTZ(unit, tz), int64s: ticks}
}

// Type returns the column's type tag.
func (c OwnedColumn) Type() ColumnType { return c.typ }

// Len returns the number of elements.
func (c OwnedColumn) Len() int {
	switch c.typ.kind {
	case KindVarChar:
		return len(c.strs)
	case KindVarBinary:
		return len(c.bins)
	}
	return c.View(nil).Len()
}

// IsEmpty reports whether the column has no elements.
func (c OwnedColumn) IsEmpty() bool { return c.Len() == 0 }

// ScalarAt returns the field-element representation of element i, and
// false when i is out of range. VarChar and VarBinary elements are
// hashed on demand.
func (c OwnedColumn) ScalarAt(i int) (scalar.Scalar, bool) {
	switch c.typ.kind {
	case KindVarChar:
		if i < 0 || i >= len(c.strs) {
			return scalar.Scalar{}, false
		}
		return scalar.FromString(c.strs[i]), true
	case KindVarBinary:
		if i < 0 || i >= len(c.bins) {
			return scalar.Scalar{}, false
		}
		return scalar.FromBytes(c.bins[i]), true
	}
	return c.View(nil).ScalarAt(i)
}

// View returns a Column over this column's buffers. The buffers are
// shared, not copied; VarChar and VarBinary hash slices are materialized
// through the arena.
func (c OwnedColumn) View(a *arena.Arena) Column {
	switch c.typ.kind {
	case KindVarChar:
		hashes := arena.FillWith(a, len(c.strs), func(i int) scalar.Scalar {
			return scalar.FromString(c.strs[i])
		})
		return NewVarChar(c.strs, hashes)
	case KindVarBinary:
		hashes := arena.FillWith(a, len(c.bins), func(i int) scalar.Scalar {
			return scalar.FromBytes(c.bins[i])
		})
		return NewVarBinary(c.bins, hashes)
	}
	return Column{
		typ:     c.typ,
		bools:   c.bools,
		uint8s:  c.uint8s,
		int8s:   c.int8s,
		int16s:  c.int16s,
		int32s:  c.int32s,
		int64s:  c.int64s,
		int128s: c.int128s,
		scalars: c.scalars,
		flat:    c.flat,
	}
}

// ToOwned re-tags the column as an OwnedColumn. The backing slices are
// shared, not copied, so the result must outlive any arena reset on the
// source. Hash slices are dropped; they are derived data.
func (c Column) ToOwned() OwnedColumn {
	return OwnedColumn{
		typ:     c.typ,
		bools:   c.bools,
		uint8s:  c.uint8s,
		int8s:   c.int8s,
		int16s:  c.int16s,
		int32s:  c.int32s,
		int64s:  c.int64s,
		int128s: c.int128s,
		scalars: c.ownedScalars(),
		strs:    c.strs,
		bins:    c.bins,
		flat:    c.flat,
	}
}

// ownedScalars keeps the scalar payload only when it holds values rather
// than derived hashes.
func (c Column) ownedScalars() []scalar.Scalar {
	if c.typ.kind == KindDecimal75 || c.typ.kind == KindScalar {
		return c.scalars
	}
	return nil
}

// ConcatOwned appends b's elements after a's. Both columns must have
// identical type tags.
func ConcatOwned(a, b OwnedColumn) (OwnedColumn, error) {
	if a.typ != b.typ {
		return OwnedColumn{}, &CastingError{From: b.typ, To: a.typ}
	}
	out := OwnedColumn{typ: a.typ}
	out.bools = append(append([]bool(nil), a.bools...), b.bools...)
	out.uint8s = append(append([]uint8(nil), a.uint8s...), b.uint8s...)
	out.int8s = append(append([]int8(nil), a.int8s...), b.int8s...)
	out.int16s = append(append([]int16(nil), a.int16s...), b.int16s...)
	out.int32s = append(append([]int32(nil), a.int32s...), b.int32s...)
	out.int64s = append(append([]int64(nil), a.int64s...), b.int64s...)
	out.int128s = append(append([]decimal128.Num(nil), a.int128s...), b.int128s...)
	out.scalars = append(append([]scalar.Scalar(nil), a.scalars...), b.scalars...)
	out.strs = append(append([]string(nil), a.strs...), b.strs...)
	out.bins = append(append([][]byte(nil), a.bins...), b.bins...)
	out.flat = append(append([]byte(nil), a.flat...), b.flat...)
	return out, nil
}

// Boolean returns the payload of a BOOLEAN column.
func (c OwnedColumn) Boolean() ([]bool, bool) { return c.bools, c.typ.kind == KindBoolean }

// Uint8s returns the payload of a UINT8 column.
func (c OwnedColumn) Uint8s() ([]uint8, bool) { return c.uint8s, c.typ.kind == KindUint8 }

// TinyInts returns the payload of a TINYINT column.
func (c OwnedColumn) TinyInts() ([]int8, bool) { return c.int8s, c.typ.kind == KindTinyInt }

// SmallInts returns the payload of a SMALLINT column.
func (c OwnedColumn) SmallInts() ([]int16, bool) { return c.int16s, c.typ.kind == KindSmallInt }

// Ints returns the payload of an INT column.
func (c OwnedColumn) Ints() ([]int32, bool) { return c.int32s, c.typ.kind == KindInt }

// BigInts returns the payload of a BIGINT column.
func (c OwnedColumn) BigInts() ([]int64, bool) { return c.int64s, c.typ.kind == KindBigInt }

// Int128s returns the payload of a 128-bit integer column.
func (c OwnedColumn) Int128s() ([]decimal128.Num, bool) { return c.int128s, c.typ.kind == KindInt128 }

// Decimal75s returns the field-element payload of a decimal column.
func (c OwnedColumn) Decimal75s() ([]scalar.Scalar, bool) {
	return c.scalars, c.typ.kind == KindDecimal75
}

// Scalars returns the payload of a typeless field-element column.
func (c OwnedColumn) Scalars() ([]scalar.Scalar, bool) { return c.scalars, c.typ.kind == KindScalar }

// VarChars returns the string values of a VARCHAR column.
func (c OwnedColumn) VarChars() ([]string, bool) { return c.strs, c.typ.kind == KindVarChar }

// VarBinaries returns the byte-string values of a VARBINARY column.
func (c OwnedColumn) VarBinaries() ([][]byte, bool) { return c.bins, c.typ.kind == KindVarBinary }

// FixedSizeBinaries returns the element width and flat payload of a
// fixed-width binary column.
func (c OwnedColumn) FixedSizeBinaries() (int32, []byte, bool) {
	return c.typ.byteWidth, c.flat, c.typ.kind == KindFixedSizeBinary
}

// Timestamps returns the unit, zone and tick payload of a timestamp
// column.
func (c OwnedColumn) Timestamps() (TimeUnit, TimeZone, []int64, bool) {
	return c.typ.unit, c.typ.tz, c.int64s, c.typ.kind == KindTimestampTZ
}
