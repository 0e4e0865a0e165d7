// Package arrowconv converts between Arrow arrays and typed columns.
//
// Ingestion validates in a fixed order: the requested range is bounds
// checked before anything else, so an out-of-range request fails even
// when it is empty. The strict path then rejects arrays with any null
// slots; the nullable path builds a presence overlay and materializes
// type-appropriate defaults in the null positions so the dense kernels
// can run over the values unchanged.
package arrowconv

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/quarrydb/quarry/pkg/arena"
	"github.com/quarrydb/quarry/pkg/column"
	"github.com/quarrydb/quarry/pkg/scalar"
)

func checkRange(arr arrow.Array, start, end int) error {
	if end > arr.Len() {
		return &column.IndexOutOfBoundsError{Index: end, Len: arr.Len()}
	}
	if start < 0 || start > end {
		return &column.IndexOutOfBoundsError{Index: start, Len: arr.Len()}
	}
	return nil
}

func unsupported(arr arrow.Array) error {
	return &column.UnsupportedTypeError{DataType: arr.DataType().String()}
}

// ToColumn converts arr[start:end] into a column, allocating derived
// buffers through the arena. Arrays with null slots are rejected.
//
// scals optionally carries precomputed field elements for the whole
// array; VarChar and VarBinary columns use it instead of hashing every
// value again.
func ToColumn(a *arena.Arena, arr arrow.Array, start, end int, scals []scalar.Scalar) (column.Column, error) {
	if err := checkRange(arr, start, end); err != nil {
		return column.Column{}, err
	}
	if arr.NullN() > 0 {
		return column.Column{}, column.ErrArrayContainsNulls
	}
	n := end - start
	switch src := arr.(type) {
	case *array.Boolean:
		return column.NewBoolean(arena.FillWith(a, n, func(i int) bool {
			return src.Value(start + i)
		})), nil
	case *array.Uint8:
		return column.NewUint8(src.Uint8Values()[start:end]), nil
	case *array.Int8:
		return column.NewTinyInt(src.Int8Values()[start:end]), nil
	case *array.Int16:
		return column.NewSmallInt(src.Int16Values()[start:end]), nil
	case *array.Int32:
		return column.NewInt(src.Int32Values()[start:end]), nil
	case *array.Int64:
		return column.NewBigInt(src.Int64Values()[start:end]), nil
	case *array.Decimal128:
		dt := src.DataType().(*arrow.Decimal128Type)
		if dt.Precision != 38 || dt.Scale != 0 {
			return column.Column{}, unsupported(arr)
		}
		return column.NewInt128(src.Values()[start:end]), nil
	case *array.Decimal256:
		dt := src.DataType().(*arrow.Decimal256Type)
		if dt.Precision > column.MaxSupportedPrecision {
			return column.Column{}, unsupported(arr)
		}
		precision, err := column.NewPrecision(uint8(dt.Precision))
		if err != nil {
			return column.Column{}, err
		}
		vals := src.Values()[start:end]
		out := arena.Make[scalar.Scalar](a, n)
		for i, v := range vals {
			s, ok := scalar.TryFromBigInt(v.BigInt())
			if !ok {
				return column.Column{}, &column.DecimalConversionFailedError{Number: v.BigInt().String()}
			}
			out[i] = s
		}
		return column.NewDecimal75(precision, int8(dt.Scale), out), nil
	case *array.Timestamp:
		dt := src.DataType().(*arrow.TimestampType)
		unit, tz, err := timestampMeta(dt)
		if err != nil {
			return column.Column{}, err
		}
		ticks := arena.FillWith(a, n, func(i int) int64 {
			return int64(src.Value(start + i))
		})
		return column.NewTimestampTZ(unit, tz, ticks), nil
	case *array.String:
		vals := arena.FillWith(a, n, func(i int) string {
			return src.Value(start + i)
		})
		hashes := scals
		if hashes != nil {
			hashes = hashes[start:end]
		} else {
			hashes = arena.FillWith(a, n, func(i int) scalar.Scalar {
				return scalar.FromString(vals[i])
			})
		}
		return column.NewVarChar(vals, hashes), nil
	case *array.Binary:
		vals := arena.FillWith(a, n, func(i int) []byte {
			return src.Value(start + i)
		})
		hashes := scals
		if hashes != nil {
			hashes = hashes[start:end]
		} else {
			hashes = arena.FillWith(a, n, func(i int) scalar.Scalar {
				return scalar.FromBytes(vals[i])
			})
		}
		return column.NewVarBinary(vals, hashes), nil
	case *array.FixedSizeBinary:
		dt := src.DataType().(*arrow.FixedSizeBinaryType)
		flat := arena.Make[byte](a, n*dt.ByteWidth)
		for i := 0; i < n; i++ {
			copy(flat[i*dt.ByteWidth:], src.Value(start+i))
		}
		return column.NewFixedSizeBinary(int32(dt.ByteWidth), flat)
	}
	return column.Column{}, unsupported(arr)
}

// ToNullableColumn converts arr[start:end] into a column with a
// presence overlay. Null slots receive the type's default value in the
// dense buffer: false, zero, the empty string or empty bytes.
//
// VarChar and VarBinary arrays with nulls require precomputed scals;
// there is no meaningful hash for an absent value.
func ToNullableColumn(a *arena.Arena, arr arrow.Array, start, end int, scals []scalar.Scalar) (column.NullableColumn, error) {
	if err := checkRange(arr, start, end); err != nil {
		return column.NullableColumn{}, err
	}
	if arr.NullN() == 0 {
		values, err := ToColumn(a, arr, start, end, scals)
		if err != nil {
			return column.NullableColumn{}, err
		}
		return column.NewNullableColumn(values), nil
	}
	n := end - start
	// The overlay is keyed on nulls inside the range, not the whole
	// array: nulls that the range excludes leave the result dense.
	nulls := 0
	for i := start; i < end; i++ {
		if arr.IsNull(i) {
			nulls++
		}
	}
	var presence []bool
	if nulls > 0 {
		presence = arena.FillWith(a, n, func(i int) bool {
			return !arr.IsNull(start + i)
		})
	}

	var values column.Column
	switch src := arr.(type) {
	case *array.Boolean:
		values = column.NewBoolean(arena.FillWith(a, n, func(i int) bool {
			return !src.IsNull(start+i) && src.Value(start+i)
		}))
	case *array.Uint8:
		values = column.NewUint8(denseDefaulted(a, src, start, n, src.Value))
	case *array.Int8:
		values = column.NewTinyInt(denseDefaulted(a, src, start, n, src.Value))
	case *array.Int16:
		values = column.NewSmallInt(denseDefaulted(a, src, start, n, src.Value))
	case *array.Int32:
		values = column.NewInt(denseDefaulted(a, src, start, n, src.Value))
	case *array.Int64:
		values = column.NewBigInt(denseDefaulted(a, src, start, n, src.Value))
	case *array.Decimal128:
		dt := src.DataType().(*arrow.Decimal128Type)
		if dt.Precision != 38 || dt.Scale != 0 {
			return column.NullableColumn{}, unsupported(arr)
		}
		values = column.NewInt128(denseDefaulted(a, src, start, n, src.Value))
	case *array.Decimal256:
		dt := src.DataType().(*arrow.Decimal256Type)
		if dt.Precision > column.MaxSupportedPrecision {
			return column.NullableColumn{}, unsupported(arr)
		}
		precision, err := column.NewPrecision(uint8(dt.Precision))
		if err != nil {
			return column.NullableColumn{}, err
		}
		out := arena.Make[scalar.Scalar](a, n)
		for i := 0; i < n; i++ {
			if src.IsNull(start + i) {
				continue
			}
			v := src.Value(start + i)
			s, ok := scalar.TryFromBigInt(v.BigInt())
			if !ok {
				return column.NullableColumn{}, &column.DecimalConversionFailedError{Number: v.BigInt().String()}
			}
			out[i] = s
		}
		values = column.NewDecimal75(precision, int8(dt.Scale), out)
	case *array.Timestamp:
		dt := src.DataType().(*arrow.TimestampType)
		unit, tz, err := timestampMeta(dt)
		if err != nil {
			return column.NullableColumn{}, err
		}
		ticks := arena.FillWith(a, n, func(i int) int64 {
			if src.IsNull(start + i) {
				return 0
			}
			return int64(src.Value(start + i))
		})
		values = column.NewTimestampTZ(unit, tz, ticks)
	case *array.String:
		if scals == nil {
			return column.NullableColumn{}, unsupported(arr)
		}
		vals := arena.FillWith(a, n, func(i int) string {
			if src.IsNull(start + i) {
				return ""
			}
			return src.Value(start + i)
		})
		values = column.NewVarChar(vals, scals[start:end])
	case *array.Binary:
		if scals == nil {
			return column.NullableColumn{}, unsupported(arr)
		}
		vals := arena.FillWith(a, n, func(i int) []byte {
			if src.IsNull(start + i) {
				return []byte{}
			}
			return src.Value(start + i)
		})
		values = column.NewVarBinary(vals, scals[start:end])
	case *array.FixedSizeBinary:
		dt := src.DataType().(*arrow.FixedSizeBinaryType)
		flat := arena.Make[byte](a, n*dt.ByteWidth)
		for i := 0; i < n; i++ {
			if !src.IsNull(start + i) {
				copy(flat[i*dt.ByteWidth:], src.Value(start+i))
			}
		}
		fsb, err := column.NewFixedSizeBinary(int32(dt.ByteWidth), flat)
		if err != nil {
			return column.NullableColumn{}, err
		}
		values = fsb
	default:
		return column.NullableColumn{}, unsupported(arr)
	}
	return column.NullableColumnWithPresence(values, presence)
}

// HashScalars precomputes the field-element hashes of a string or
// binary array, with null slots hashed as empty values. It returns nil
// for other array types, which need no precomputed scalars.
func HashScalars(a *arena.Arena, arr arrow.Array) []scalar.Scalar {
	switch src := arr.(type) {
	case *array.String:
		return arena.FillWith(a, arr.Len(), func(i int) scalar.Scalar {
			if src.IsNull(i) {
				return scalar.FromString("")
			}
			return scalar.FromString(src.Value(i))
		})
	case *array.Binary:
		return arena.FillWith(a, arr.Len(), func(i int) scalar.Scalar {
			if src.IsNull(i) {
				return scalar.FromBytes(nil)
			}
			return scalar.FromBytes(src.Value(i))
		})
	}
	return nil
}

// denseDefaulted copies a numeric array range, zero-filling null slots.
func denseDefaulted[T any](a *arena.Arena, arr arrow.Array, start, n int, value func(int) T) []T {
	return arena.FillWith(a, n, func(i int) T {
		var zero T
		if arr.IsNull(start + i) {
			return zero
		}
		return value(start + i)
	})
}

func timestampMeta(dt *arrow.TimestampType) (column.TimeUnit, column.TimeZone, error) {
	var unit column.TimeUnit
	switch dt.Unit {
	case arrow.Second:
		unit = column.UnitSecond
	case arrow.Millisecond:
		unit = column.UnitMillisecond
	case arrow.Microsecond:
		unit = column.UnitMicrosecond
	case arrow.Nanosecond:
		unit = column.UnitNanosecond
	}
	tz, err := column.ParseTimeZone(dt.TimeZone)
	if err != nil {
		return 0, column.TimeZone{}, err
	}
	return unit, tz, nil
}
