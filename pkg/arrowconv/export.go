package arrowconv

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal256"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quarrydb/quarry/pkg/column"
)

// DataTypeOf maps a column type to the Arrow data type its exported
// arrays carry. Typeless Scalar columns have no Arrow counterpart.
func DataTypeOf(t column.ColumnType) (arrow.DataType, error) {
	switch t.Kind() {
	case column.KindBoolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case column.KindUint8:
		return arrow.PrimitiveTypes.Uint8, nil
	case column.KindTinyInt:
		return arrow.PrimitiveTypes.Int8, nil
	case column.KindSmallInt:
		return arrow.PrimitiveTypes.Int16, nil
	case column.KindInt:
		return arrow.PrimitiveTypes.Int32, nil
	case column.KindBigInt:
		return arrow.PrimitiveTypes.Int64, nil
	case column.KindInt128:
		return &arrow.Decimal128Type{Precision: 38, Scale: 0}, nil
	case column.KindDecimal75:
		return &arrow.Decimal256Type{
			Precision: int32(t.Precision().Value()),
			Scale:     int32(t.DecimalScale()),
		}, nil
	case column.KindVarChar:
		return arrow.BinaryTypes.String, nil
	case column.KindVarBinary:
		return arrow.BinaryTypes.Binary, nil
	case column.KindFixedSizeBinary:
		return &arrow.FixedSizeBinaryType{ByteWidth: int(t.ByteWidth())}, nil
	case column.KindTimestampTZ:
		return &arrow.TimestampType{
			Unit:     arrowTimeUnit(t.TimeUnit()),
			TimeZone: t.TimeZone().String(),
		}, nil
	}
	return nil, &column.UnsupportedTypeError{DataType: t.String()}
}

func arrowTimeUnit(u column.TimeUnit) arrow.TimeUnit {
	switch u {
	case column.UnitSecond:
		return arrow.Second
	case column.UnitMillisecond:
		return arrow.Millisecond
	case column.UnitMicrosecond:
		return arrow.Microsecond
	default:
		return arrow.Nanosecond
	}
}

// FromColumn exports an owned column as an Arrow array with no nulls.
// Decimal values are re-expanded from their field elements; the signed
// representative of each element is exact because ingestion only admits
// values within the symmetric range.
func FromColumn(mem memory.Allocator, c column.OwnedColumn) (arrow.Array, error) {
	dt, err := DataTypeOf(c.Type())
	if err != nil {
		return nil, err
	}
	switch c.Type().Kind() {
	case column.KindBoolean:
		vals, _ := c.Boolean()
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewArray(), nil
	case column.KindUint8:
		vals, _ := c.Uint8s()
		b := array.NewUint8Builder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewArray(), nil
	case column.KindTinyInt:
		vals, _ := c.TinyInts()
		b := array.NewInt8Builder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewArray(), nil
	case column.KindSmallInt:
		vals, _ := c.SmallInts()
		b := array.NewInt16Builder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewArray(), nil
	case column.KindInt:
		vals, _ := c.Ints()
		b := array.NewInt32Builder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewArray(), nil
	case column.KindBigInt:
		vals, _ := c.BigInts()
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewArray(), nil
	case column.KindInt128:
		vals, _ := c.Int128s()
		b := array.NewDecimal128Builder(mem, dt.(*arrow.Decimal128Type))
		defer b.Release()
		for _, v := range vals {
			b.Append(v)
		}
		return b.NewArray(), nil
	case column.KindDecimal75:
		vals, _ := c.Decimal75s()
		b := array.NewDecimal256Builder(mem, dt.(*arrow.Decimal256Type))
		defer b.Release()
		for _, v := range vals {
			// Signed representatives stay under 2^252, inside i256.
			b.Append(decimal256.FromBigInt(v.Signed()))
		}
		return b.NewArray(), nil
	case column.KindVarChar:
		vals, _ := c.VarChars()
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewArray(), nil
	case column.KindVarBinary:
		vals, _ := c.VarBinaries()
		b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewArray(), nil
	case column.KindFixedSizeBinary:
		width, flat, _ := c.FixedSizeBinaries()
		b := array.NewFixedSizeBinaryBuilder(mem, dt.(*arrow.FixedSizeBinaryType))
		defer b.Release()
		for i := 0; i < len(flat)/int(width); i++ {
			b.Append(flat[i*int(width) : (i+1)*int(width)])
		}
		return b.NewArray(), nil
	case column.KindTimestampTZ:
		_, _, ticks, _ := c.Timestamps()
		b := array.NewTimestampBuilder(mem, dt.(*arrow.TimestampType))
		defer b.Release()
		for _, t := range ticks {
			b.Append(arrow.Timestamp(t))
		}
		return b.NewArray(), nil
	}
	return nil, &column.UnsupportedTypeError{DataType: c.Type().String()}
}

// FromNullableColumn exports a nullable owned column, translating the
// presence overlay back into an Arrow validity bitmap.
func FromNullableColumn(mem memory.Allocator, c column.OwnedNullableColumn) (arrow.Array, error) {
	if !c.IsNullable() {
		return FromColumn(mem, c.Values)
	}
	valid := c.Presence()
	switch c.Values.Type().Kind() {
	case column.KindBoolean:
		vals, _ := c.Values.Boolean()
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues(vals, valid)
		return b.NewArray(), nil
	case column.KindUint8:
		vals, _ := c.Values.Uint8s()
		b := array.NewUint8Builder(mem)
		defer b.Release()
		b.AppendValues(vals, valid)
		return b.NewArray(), nil
	case column.KindTinyInt:
		vals, _ := c.Values.TinyInts()
		b := array.NewInt8Builder(mem)
		defer b.Release()
		b.AppendValues(vals, valid)
		return b.NewArray(), nil
	case column.KindSmallInt:
		vals, _ := c.Values.SmallInts()
		b := array.NewInt16Builder(mem)
		defer b.Release()
		b.AppendValues(vals, valid)
		return b.NewArray(), nil
	case column.KindInt:
		vals, _ := c.Values.Ints()
		b := array.NewInt32Builder(mem)
		defer b.Release()
		b.AppendValues(vals, valid)
		return b.NewArray(), nil
	case column.KindBigInt:
		vals, _ := c.Values.BigInts()
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(vals, valid)
		return b.NewArray(), nil
	case column.KindInt128:
		vals, _ := c.Values.Int128s()
		b := array.NewDecimal128Builder(mem, &arrow.Decimal128Type{Precision: 38, Scale: 0})
		defer b.Release()
		for i, v := range vals {
			if !valid[i] {
				b.AppendNull()
				continue
			}
			b.Append(v)
		}
		return b.NewArray(), nil
	case column.KindDecimal75:
		t := c.Values.Type()
		vals, _ := c.Values.Decimal75s()
		b := array.NewDecimal256Builder(mem, &arrow.Decimal256Type{
			Precision: int32(t.Precision().Value()),
			Scale:     int32(t.DecimalScale()),
		})
		defer b.Release()
		for i, v := range vals {
			if !valid[i] {
				b.AppendNull()
				continue
			}
			b.Append(decimal256.FromBigInt(v.Signed()))
		}
		return b.NewArray(), nil
	case column.KindVarChar:
		vals, _ := c.Values.VarChars()
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(vals, valid)
		return b.NewArray(), nil
	case column.KindVarBinary:
		vals, _ := c.Values.VarBinaries()
		b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
		defer b.Release()
		b.AppendValues(vals, valid)
		return b.NewArray(), nil
	case column.KindFixedSizeBinary:
		width, flat, _ := c.Values.FixedSizeBinaries()
		b := array.NewFixedSizeBinaryBuilder(mem, &arrow.FixedSizeBinaryType{ByteWidth: int(width)})
		defer b.Release()
		for i := 0; i < len(flat)/int(width); i++ {
			if !valid[i] {
				b.AppendNull()
				continue
			}
			b.Append(flat[i*int(width) : (i+1)*int(width)])
		}
		return b.NewArray(), nil
	case column.KindTimestampTZ:
		t := c.Values.Type()
		_, _, ticks, _ := c.Values.Timestamps()
		b := array.NewTimestampBuilder(mem, &arrow.TimestampType{
			Unit:     arrowTimeUnit(t.TimeUnit()),
			TimeZone: t.TimeZone().String(),
		})
		defer b.Release()
		for i, tick := range ticks {
			if !valid[i] {
				b.AppendNull()
				continue
			}
			b.Append(arrow.Timestamp(tick))
		}
		return b.NewArray(), nil
	}
	return nil, &column.UnsupportedTypeError{DataType: c.Values.Type().String()}
}
