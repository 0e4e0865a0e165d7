package column

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Kind enumerates the closed set of column type variants.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindUint8
	KindTinyInt
	KindSmallInt
	KindInt
	KindBigInt
	KindInt128
	KindDecimal75
	KindScalar
	KindVarChar
	KindVarBinary
	KindFixedSizeBinary
	KindTimestampTZ
)

// ColumnType is the type tag of a column: a variant plus the payload that
// variant carries (precision and scale for Decimal75, element width for
// FixedSizeBinary, unit and zone for TimestampTZ). ColumnType is a small
// comparable value; equality with == means identical variant and payload.
type ColumnType struct {
	kind      Kind
	precision Precision
	scale     int8
	byteWidth int32
	unit      TimeUnit
	tz        TimeZone
}

// Payload-free type tags.
var (
	Boolean   = ColumnType{kind: KindBoolean}
	Uint8     = ColumnType{kind: KindUint8}
	TinyInt   = ColumnType{kind: KindTinyInt}
	SmallInt  = ColumnType{kind: KindSmallInt}
	Int       = ColumnType{kind: KindInt}
	BigInt    = ColumnType{kind: KindBigInt}
	Int128    = ColumnType{kind: KindInt128}
	Scalar    = ColumnType{kind: KindScalar}
	VarChar   = ColumnType{kind: KindVarChar}
	VarBinary = ColumnType{kind: KindVarBinary}
)

// Decimal75 is the type tag of a fixed-point decimal column with the
// given precision and scale.
func Decimal75(precision Precision, scale int8) ColumnType {
	return ColumnType{kind: KindDecimal75, precision: precision, scale: scale}
}

// FixedSizeBinary is the type tag of a column of fixed-width byte
// elements.
func FixedSizeBinary(byteWidth int32) ColumnType {
	return ColumnType{kind: KindFixedSizeBinary, byteWidth: byteWidth}
}

// TimestampTZ is the type tag of an epoch-tick timestamp column.
func TimestampTZ(unit TimeUnit, tz TimeZone) ColumnType {
	return ColumnType{kind: KindTimestampTZ, unit: unit, tz: tz}
}

// Kind returns the variant tag.
func (t ColumnType) Kind() Kind { return t.kind }

// IsNumeric reports whether the type participates in arithmetic and
// ordered comparisons. Timestamps are not numeric; they compare through
// their own unit-alignment path.
func (t ColumnType) IsNumeric() bool {
	switch t.kind {
	case KindUint8, KindTinyInt, KindSmallInt, KindInt, KindBigInt,
		KindInt128, KindDecimal75, KindScalar:
		return true
	}
	return false
}

// IsInteger reports whether the type is one of the machine integer
// variants.
func (t ColumnType) IsInteger() bool {
	switch t.kind {
	case KindUint8, KindTinyInt, KindSmallInt, KindInt, KindBigInt, KindInt128:
		return true
	}
	return false
}

// IsSigned reports whether the integer variant is signed. Non-integer
// types report false.
func (t ColumnType) IsSigned() bool {
	return t.IsInteger() && t.kind != KindUint8
}

// PrecisionValue reports the maximum decimal digit count a value of this
// type can carry, and whether the type has one at all. Scalar reports 0
// digits: it is numeric but carries no decimal bound.
func (t ColumnType) PrecisionValue() (uint8, bool) {
	switch t.kind {
	case KindUint8, KindTinyInt:
		return 3, true
	case KindSmallInt:
		return 5, true
	case KindInt:
		return 10, true
	case KindBigInt, KindTimestampTZ:
		return 19, true
	case KindInt128:
		return 39, true
	case KindDecimal75:
		return t.precision.Value(), true
	case KindScalar:
		return 0, true
	}
	return 0, false
}

// Scale reports the decimal scale of the type, and whether it has one.
// Integer variants and Scalar have scale 0; a timestamp's scale is the
// tick granularity of its unit.
func (t ColumnType) Scale() (int8, bool) {
	switch t.kind {
	case KindUint8, KindTinyInt, KindSmallInt, KindInt, KindBigInt,
		KindInt128, KindScalar:
		return 0, true
	case KindDecimal75:
		return t.scale, true
	case KindTimestampTZ:
		return t.unit.Scale(), true
	}
	return 0, false
}

// Precision returns the Decimal75 precision payload. It is only
// meaningful when Kind() == KindDecimal75.
func (t ColumnType) Precision() Precision { return t.precision }

// DecimalScale returns the Decimal75 scale payload.
func (t ColumnType) DecimalScale() int8 { return t.scale }

// ByteWidth returns the FixedSizeBinary element width payload.
func (t ColumnType) ByteWidth() int32 { return t.byteWidth }

// TimeUnit returns the TimestampTZ unit payload.
func (t ColumnType) TimeUnit() TimeUnit { return t.unit }

// TimeZone returns the TimestampTZ zone payload.
func (t ColumnType) TimeZone() TimeZone { return t.tz }

// ByteSize reports the in-memory element size: field elements, decimals
// and variable-length hashes all occupy 32 bytes. FixedSizeBinary
// reports its declared width.
func (t ColumnType) ByteSize() int {
	switch t.kind {
	case KindBoolean, KindUint8, KindTinyInt:
		return 1
	case KindSmallInt:
		return 2
	case KindInt:
		return 4
	case KindBigInt, KindTimestampTZ:
		return 8
	case KindInt128:
		return 16
	case KindFixedSizeBinary:
		return int(t.byteWidth)
	default:
		return 32
	}
}

// BitSize reports ByteSize in bits.
func (t ColumnType) BitSize() int { return t.ByteSize() * 8 }

// String renders the SQL-facing name of the type.
func (t ColumnType) String() string {
	switch t.kind {
	case KindBoolean:
		return "BOOLEAN"
	case KindUint8:
		return "UINT8"
	case KindTinyInt:
		return "TINYINT"
	case KindSmallInt:
		return "SMALLINT"
	case KindInt:
		return "INT"
	case KindBigInt:
		return "BIGINT"
	case KindInt128:
		return "DECIMAL"
	case KindDecimal75:
		return fmt.Sprintf("DECIMAL75(%d, %d)", t.precision.Value(), t.scale)
	case KindScalar:
		return "SCALAR"
	case KindVarChar:
		return "VARCHAR"
	case KindVarBinary:
		return "VARBINARY"
	case KindFixedSizeBinary:
		return fmt.Sprintf("BINARY(%d)", t.byteWidth)
	case KindTimestampTZ:
		return fmt.Sprintf("TIMESTAMP(%s, %s)", t.unit, t.tz)
	}
	return "UNKNOWN"
}

// MarshalJSON renders the type in its wire shape: a bare string for
// payload-free variants, a single-key object otherwise. Int128 is
// spelled "Decimal" on the wire.
func (t ColumnType) MarshalJSON() ([]byte, error) {
	switch t.kind {
	case KindBoolean:
		return json.Marshal("Boolean")
	case KindUint8:
		return json.Marshal("Uint8")
	case KindTinyInt:
		return json.Marshal("TinyInt")
	case KindSmallInt:
		return json.Marshal("SmallInt")
	case KindInt:
		return json.Marshal("Int")
	case KindBigInt:
		return json.Marshal("BigInt")
	case KindInt128:
		return json.Marshal("Decimal")
	case KindScalar:
		return json.Marshal("Scalar")
	case KindVarChar:
		return json.Marshal("VarChar")
	case KindVarBinary:
		return json.Marshal("VarBinary")
	case KindDecimal75:
		return json.Marshal(map[string][2]int{
			"Decimal75": {int(t.precision.Value()), int(t.scale)},
		})
	case KindFixedSizeBinary:
		return json.Marshal(map[string]int32{"FixedSizeBinary": t.byteWidth})
	case KindTimestampTZ:
		return json.Marshal(map[string][2]string{
			"TimestampTZ": {t.unit.String(), t.tz.String()},
		})
	}
	return nil, &UnsupportedTypeError{DataType: fmt.Sprintf("kind %d", t.kind)}
}

// UnmarshalJSON accepts the MarshalJSON shapes plus the historical
// all-caps and all-lowercase aliases for the bare-string variants.
func (t *ColumnType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, ok := columnTypeFromName(name)
		if !ok {
			return &UnsupportedTypeError{DataType: name}
		}
		*t = parsed
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || len(obj) != 1 {
		return &UnsupportedTypeError{DataType: string(data)}
	}
	for key, raw := range obj {
		switch key {
		case "Decimal75":
			var payload [2]int
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			if payload[0] < 0 || payload[0] > 255 {
				return &InvalidPrecisionError{Value: payload[0]}
			}
			p, err := NewPrecision(uint8(payload[0]))
			if err != nil {
				return err
			}
			if payload[1] < -128 || payload[1] > 127 {
				return &InvalidScaleError{Scale: payload[1]}
			}
			*t = Decimal75(p, int8(payload[1]))
			return nil
		case "FixedSizeBinary":
			var width int32
			if err := json.Unmarshal(raw, &width); err != nil {
				return err
			}
			if width < 0 {
				return &UnsupportedTypeError{DataType: string(data)}
			}
			*t = FixedSizeBinary(width)
			return nil
		case "TimestampTZ":
			var payload [2]string
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			unit, ok := timeUnitFromName(payload[0])
			if !ok {
				return &UnsupportedTypeError{DataType: payload[0]}
			}
			tz, err := ParseTimeZone(payload[1])
			if err != nil {
				return err
			}
			*t = TimestampTZ(unit, tz)
			return nil
		default:
			return &UnsupportedTypeError{DataType: key}
		}
	}
	return &UnsupportedTypeError{DataType: string(data)}
}

func columnTypeFromName(name string) (ColumnType, bool) {
	switch strings.ToLower(name) {
	case "boolean", "bool":
		return Boolean, true
	case "uint8":
		return Uint8, true
	case "tinyint":
		return TinyInt, true
	case "smallint":
		return SmallInt, true
	case "int":
		return Int, true
	case "bigint":
		return BigInt, true
	case "decimal", "int128":
		return Int128, true
	case "scalar":
		return Scalar, true
	case "varchar":
		return VarChar, true
	case "varbinary":
		return VarBinary, true
	}
	return ColumnType{}, false
}

func timeUnitFromName(name string) (TimeUnit, bool) {
	switch strings.ToLower(name) {
	case "second", "s":
		return UnitSecond, true
	case "millisecond", "ms":
		return UnitMillisecond, true
	case "microsecond", "us":
		return UnitMicrosecond, true
	case "nanosecond", "ns":
		return UnitNanosecond, true
	}
	return 0, false
}

// ColumnField pairs a column name with its type, the schema row shape
// produced for result metadata.
type ColumnField struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// ColumnRef identifies a column within a table for plan-level bookkeeping.
type ColumnRef struct {
	Table    string     `json:"table"`
	ColumnID string     `json:"column_id"`
	Type     ColumnType `json:"type"`
}
