package column

import (
	"bytes"
	"math/big"

	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/quarrydb/quarry/pkg/arena"
	"github.com/quarrydb/quarry/pkg/scalar"
)

// BinaryOperator names an element-wise binary operation.
type BinaryOperator uint8

const (
	OpAdd BinaryOperator = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpEqual
	OpLessThanOrEqual
	OpGreaterThanOrEqual
	OpAnd
	OpOr
)

func (o BinaryOperator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpEqual:
		return "="
	case OpLessThanOrEqual:
		return "<="
	case OpGreaterThanOrEqual:
		return ">="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	}
	return "?"
}

// UnaryOperator names an element-wise unary operation.
type UnaryOperator uint8

const OpNot UnaryOperator = iota

func (o UnaryOperator) String() string {
	if o == OpNot {
		return "NOT"
	}
	return "?"
}

// EvalBinary applies op element-wise over two columns, allocating the
// result through the arena. The length check runs before any element is
// touched; a shape mismatch means no work at all was valid.
func EvalBinary(a *arena.Arena, op BinaryOperator, lhs, rhs Column) (Column, error) {
	if lhs.Len() != rhs.Len() {
		return Column{}, &DifferentColumnLengthError{LenA: lhs.Len(), LenB: rhs.Len()}
	}
	switch op {
	case OpAnd, OpOr:
		lv, lok := lhs.Boolean()
		rv, rok := rhs.Boolean()
		if !lok || !rok {
			return Column{}, &BinaryOperationInvalidColumnTypeError{Operator: op, LeftType: lhs.typ, RightType: rhs.typ}
		}
		if op == OpAnd {
			return NewBoolean(andSlice(a, lv, rv)), nil
		}
		return NewBoolean(orSlice(a, lv, rv)), nil
	case OpEqual:
		return evalEqual(a, lhs, rhs)
	case OpLessThanOrEqual, OpGreaterThanOrEqual:
		return evalOrdered(a, op, lhs, rhs)
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return evalArithmetic(a, op, lhs, rhs)
	}
	return Column{}, &BinaryOperationInvalidColumnTypeError{Operator: op, LeftType: lhs.typ, RightType: rhs.typ}
}

// EvalNot inverts a boolean column.
func EvalNot(a *arena.Arena, c Column) (Column, error) {
	vals, ok := c.Boolean()
	if !ok {
		return Column{}, &UnaryOperationInvalidColumnTypeError{Operator: OpNot, Type: c.typ}
	}
	return NewBoolean(notSlice(a, vals)), nil
}

func evalEqual(a *arena.Arena, lhs, rhs Column) (Column, error) {
	switch {
	case lhs.typ.kind == KindBoolean && rhs.typ.kind == KindBoolean:
		return NewBoolean(eqSlice(a, lhs.bools, rhs.bools)), nil
	case lhs.typ.kind == KindVarChar && rhs.typ.kind == KindVarChar:
		return NewBoolean(eqSlice(a, lhs.strs, rhs.strs)), nil
	case lhs.typ.kind == KindVarBinary && rhs.typ.kind == KindVarBinary:
		return NewBoolean(eqSliceFunc(a, lhs.bins, rhs.bins, bytes.Equal)), nil
	case lhs.typ.kind == KindFixedSizeBinary && lhs.typ == rhs.typ:
		return NewBoolean(arena.FillWith(a, lhs.Len(), func(i int) bool {
			return bytes.Equal(lhs.FixedSizeBinaryAt(i), rhs.FixedSizeBinaryAt(i))
		})), nil
	case lhs.typ.kind == KindTimestampTZ && rhs.typ.kind == KindTimestampTZ:
		return compareTimestamps(a, OpEqual, lhs, rhs), nil
	case lhs.typ.IsNumeric() && rhs.typ.IsNumeric():
		return compareNumeric(a, OpEqual, lhs, rhs)
	}
	return Column{}, &BinaryOperationInvalidColumnTypeError{Operator: OpEqual, LeftType: lhs.typ, RightType: rhs.typ}
}

func evalOrdered(a *arena.Arena, op BinaryOperator, lhs, rhs Column) (Column, error) {
	switch {
	case lhs.typ.kind == KindTimestampTZ && rhs.typ.kind == KindTimestampTZ:
		return compareTimestamps(a, op, lhs, rhs), nil
	case lhs.typ.IsNumeric() && rhs.typ.IsNumeric():
		return compareNumeric(a, op, lhs, rhs)
	}
	return Column{}, &BinaryOperationInvalidColumnTypeError{Operator: op, LeftType: lhs.typ, RightType: rhs.typ}
}

// asInt16 views an 8-or-16-bit integer column at 16 bits.
func (c Column) asInt16(a *arena.Arena) []int16 {
	switch c.typ.kind {
	case KindUint8:
		return convertSlice[uint8, int16](a, c.uint8s)
	case KindTinyInt:
		return convertSlice[int8, int16](a, c.int8s)
	}
	return c.int16s
}

// asInt32 views a 32-bit-or-narrower integer column at 32 bits.
func (c Column) asInt32(a *arena.Arena) []int32 {
	switch c.typ.kind {
	case KindUint8:
		return convertSlice[uint8, int32](a, c.uint8s)
	case KindTinyInt:
		return convertSlice[int8, int32](a, c.int8s)
	case KindSmallInt:
		return convertSlice[int16, int32](a, c.int16s)
	}
	return c.int32s
}

// asInt64 views a 64-bit-or-narrower integer column at 64 bits.
func (c Column) asInt64(a *arena.Arena) []int64 {
	switch c.typ.kind {
	case KindUint8:
		return convertSlice[uint8, int64](a, c.uint8s)
	case KindTinyInt:
		return convertSlice[int8, int64](a, c.int8s)
	case KindSmallInt:
		return convertSlice[int16, int64](a, c.int16s)
	case KindInt:
		return convertSlice[int32, int64](a, c.int32s)
	}
	return c.int64s
}

// asInt128 views any integer column at 128 bits.
func (c Column) asInt128(a *arena.Arena) []decimal128.Num {
	if c.typ.kind == KindInt128 {
		return c.int128s
	}
	return toInt128Slice(a, c.asInt64(a))
}

func compareNumeric(a *arena.Arena, op BinaryOperator, lhs, rhs Column) (Column, error) {
	if common, ok := MaxIntegerType(lhs.typ, rhs.typ); ok {
		switch common.kind {
		case KindUint8:
			return NewBoolean(compareSlices(a, op, lhs.uint8s, rhs.uint8s)), nil
		case KindTinyInt:
			return NewBoolean(compareSlices(a, op, lhs.int8s, rhs.int8s)), nil
		case KindSmallInt:
			return NewBoolean(compareSlices(a, op, lhs.asInt16(a), rhs.asInt16(a))), nil
		case KindInt:
			return NewBoolean(compareSlices(a, op, lhs.asInt32(a), rhs.asInt32(a))), nil
		case KindBigInt:
			return NewBoolean(compareSlices(a, op, lhs.asInt64(a), rhs.asInt64(a))), nil
		default:
			lv, rv := lhs.asInt128(a), rhs.asInt128(a)
			switch op {
			case OpEqual:
				return NewBoolean(eqSlice(a, lv, rv)), nil
			case OpLessThanOrEqual:
				return NewBoolean(le128(a, lv, rv)), nil
			default:
				return NewBoolean(ge128(a, lv, rv)), nil
			}
		}
	}
	lv, rv := lhs.ToScalars(a), rhs.ToScalars(a)
	switch op {
	case OpEqual:
		return NewBoolean(eqDecimals(a, lv, rv, lhs.typ, rhs.typ)), nil
	case OpLessThanOrEqual:
		return NewBoolean(leDecimals(a, lv, rv, lhs.typ, rhs.typ)), nil
	default:
		return NewBoolean(geDecimals(a, lv, rv, lhs.typ, rhs.typ)), nil
	}
}

func compareSlices[T interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8
}](a *arena.Arena, op BinaryOperator, lhs, rhs []T) []bool {
	switch op {
	case OpEqual:
		return eqSlice(a, lhs, rhs)
	case OpLessThanOrEqual:
		return leSlice(a, lhs, rhs)
	default:
		return geSlice(a, lhs, rhs)
	}
}

// compareTimestamps aligns two tick columns to the finer unit before
// comparing. The alignment happens at 128 bits: the widest rescale is
// seconds to nanoseconds, a factor of 10^9, which can leave int64.
func compareTimestamps(a *arena.Arena, op BinaryOperator, lhs, rhs Column) Column {
	maxScale := max(lhs.typ.unit.Scale(), rhs.typ.unit.Scale())
	lf := big.NewInt(10)
	lf.Exp(lf, big.NewInt(int64(maxScale-lhs.typ.unit.Scale())), nil)
	rf := big.NewInt(10)
	rf.Exp(rf, big.NewInt(int64(maxScale-rhs.typ.unit.Scale())), nil)
	rescale := func(ticks []int64, f *big.Int) []decimal128.Num {
		return arena.FillWith(a, len(ticks), func(i int) decimal128.Num {
			n := new(big.Int).Mul(big.NewInt(ticks[i]), f)
			return decimal128.FromBigInt(n)
		})
	}
	lv := rescale(lhs.int64s, lf)
	rv := rescale(rhs.int64s, rf)
	switch op {
	case OpEqual:
		return NewBoolean(eqSlice(a, lv, rv))
	case OpLessThanOrEqual:
		return NewBoolean(le128(a, lv, rv))
	default:
		return NewBoolean(ge128(a, lv, rv))
	}
}

func evalArithmetic(a *arena.Arena, op BinaryOperator, lhs, rhs Column) (Column, error) {
	if !lhs.typ.IsNumeric() || !rhs.typ.IsNumeric() {
		return Column{}, &BinaryOperationInvalidColumnTypeError{Operator: op, LeftType: lhs.typ, RightType: rhs.typ}
	}
	if common, ok := MaxIntegerType(lhs.typ, rhs.typ); ok {
		switch common.kind {
		case KindUint8:
			out, err := checkedNarrow(a, lhs.uint8s, rhs.uint8s, op)
			if err != nil {
				return Column{}, err
			}
			return NewUint8(out), nil
		case KindTinyInt:
			out, err := checkedNarrow(a, lhs.int8s, rhs.int8s, op)
			if err != nil {
				return Column{}, err
			}
			return NewTinyInt(out), nil
		case KindSmallInt:
			out, err := checkedNarrow(a, lhs.asInt16(a), rhs.asInt16(a), op)
			if err != nil {
				return Column{}, err
			}
			return NewSmallInt(out), nil
		case KindInt:
			out, err := checkedNarrow(a, lhs.asInt32(a), rhs.asInt32(a), op)
			if err != nil {
				return Column{}, err
			}
			return NewInt(out), nil
		case KindBigInt:
			out, err := checked64(a, lhs.asInt64(a), rhs.asInt64(a), op)
			if err != nil {
				return Column{}, err
			}
			return NewBigInt(out), nil
		default:
			out, err := checked128(a, lhs.asInt128(a), rhs.asInt128(a), op)
			if err != nil {
				return Column{}, err
			}
			return NewInt128(out), nil
		}
	}

	switch op {
	case OpAdd, OpSubtract:
		newType, out, err := addSubDecimals(a, lhs.ToScalars(a), rhs.ToScalars(a), lhs.typ, rhs.typ, op)
		if err != nil {
			return Column{}, err
		}
		return wrapFieldColumn(newType, out), nil
	case OpMultiply:
		newType, out, err := mulDecimals(a, lhs.ToScalars(a), rhs.ToScalars(a), lhs.typ, rhs.typ)
		if err != nil {
			return Column{}, err
		}
		return wrapFieldColumn(newType, out), nil
	default:
		newType, out, err := divDecimals(a, lhs.toBigInts(a), rhs.toBigInts(a), lhs.typ, rhs.typ)
		if err != nil {
			return Column{}, err
		}
		return wrapFieldColumn(newType, out), nil
	}
}

// wrapFieldColumn wraps a field-element result slice in the promoted
// type, which is always Decimal75 or Scalar.
func wrapFieldColumn(t ColumnType, vals []scalar.Scalar) Column {
	if t.kind == KindScalar {
		return NewScalar(vals)
	}
	return NewDecimal75(t.precision, t.scale, vals)
}

// toBigInts materializes a numeric column as exact integers in its
// smallest-unit representation, the form the division kernel consumes.
func (c Column) toBigInts(a *arena.Arena) []*big.Int {
	return arena.FillWith(a, c.Len(), func(i int) *big.Int {
		switch c.typ.kind {
		case KindUint8:
			return new(big.Int).SetUint64(uint64(c.uint8s[i]))
		case KindTinyInt:
			return big.NewInt(int64(c.int8s[i]))
		case KindSmallInt:
			return big.NewInt(int64(c.int16s[i]))
		case KindInt:
			return big.NewInt(int64(c.int32s[i]))
		case KindBigInt, KindTimestampTZ:
			return big.NewInt(c.int64s[i])
		case KindInt128:
			return c.int128s[i].BigInt()
		default:
			return c.scalars[i].Signed()
		}
	})
}

func (c OwnedColumn) evalBinary(op BinaryOperator, o OwnedColumn) (OwnedColumn, error) {
	a := arena.New()
	res, err := EvalBinary(a, op, c.View(a), o.View(a))
	if err != nil {
		return OwnedColumn{}, err
	}
	return res.ToOwned(), nil
}

// Add adds element-wise under the type promotion rules.
func (c OwnedColumn) Add(o OwnedColumn) (OwnedColumn, error) { return c.evalBinary(OpAdd, o) }

// Sub subtracts element-wise under the type promotion rules.
func (c OwnedColumn) Sub(o OwnedColumn) (OwnedColumn, error) { return c.evalBinary(OpSubtract, o) }

// Mul multiplies element-wise under the type promotion rules.
func (c OwnedColumn) Mul(o OwnedColumn) (OwnedColumn, error) { return c.evalBinary(OpMultiply, o) }

// Div divides element-wise, truncating toward zero.
func (c OwnedColumn) Div(o OwnedColumn) (OwnedColumn, error) { return c.evalBinary(OpDivide, o) }

// Eq compares element-wise for equality.
func (c OwnedColumn) Eq(o OwnedColumn) (OwnedColumn, error) { return c.evalBinary(OpEqual, o) }

// Le compares element-wise for less-or-equal.
func (c OwnedColumn) Le(o OwnedColumn) (OwnedColumn, error) {
	return c.evalBinary(OpLessThanOrEqual, o)
}

// Ge compares element-wise for greater-or-equal.
func (c OwnedColumn) Ge(o OwnedColumn) (OwnedColumn, error) {
	return c.evalBinary(OpGreaterThanOrEqual, o)
}

// And applies logical AND over boolean columns.
func (c OwnedColumn) And(o OwnedColumn) (OwnedColumn, error) { return c.evalBinary(OpAnd, o) }

// Or applies logical OR over boolean columns.
func (c OwnedColumn) Or(o OwnedColumn) (OwnedColumn, error) { return c.evalBinary(OpOr, o) }

// Not inverts a boolean column.
func (c OwnedColumn) Not() (OwnedColumn, error) {
	a := arena.New()
	res, err := EvalNot(a, c.View(a))
	if err != nil {
		return OwnedColumn{}, err
	}
	return res.ToOwned(), nil
}
