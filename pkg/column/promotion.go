package column

// Type promotion for the arithmetic operators. The decimal rules follow
// the T-SQL result-type formulas; integer pairs promote to the widest
// participating machine type and never become decimals.

func integerRank(t ColumnType) int {
	switch t.kind {
	case KindUint8, KindTinyInt:
		return 8
	case KindSmallInt:
		return 16
	case KindInt:
		return 32
	case KindBigInt:
		return 64
	case KindInt128:
		return 128
	}
	return 0
}

func signedTypeOfRank(bits int) ColumnType {
	switch bits {
	case 8:
		return TinyInt
	case 16:
		return SmallInt
	case 32:
		return Int
	case 64:
		return BigInt
	default:
		return Int128
	}
}

// MaxIntegerType returns the narrowest integer type that embeds both
// operands losslessly, and false if either operand is not an integer.
// Two Uint8 operands stay Uint8; Uint8 mixed with any signed type needs
// at least 16 signed bits.
func MaxIntegerType(lhs, rhs ColumnType) (ColumnType, bool) {
	if !lhs.IsInteger() || !rhs.IsInteger() {
		return ColumnType{}, false
	}
	if lhs.kind == KindUint8 && rhs.kind == KindUint8 {
		return Uint8, true
	}
	bits := max(integerRank(lhs), integerRank(rhs))
	if lhs.kind == KindUint8 || rhs.kind == KindUint8 {
		bits = max(bits, 16)
	}
	return signedTypeOfRank(bits), true
}

func checkResultPrecision(precision int) (Precision, error) {
	if precision < 0 || precision > MaxSupportedPrecision {
		return 0, &InvalidPrecisionError{Value: precision}
	}
	return Precision(precision), nil
}

// TryAddSubtractColumnTypes determines the result type of adding or
// subtracting columns of the given types. The decimal result has
// scale = max(ls, rs) and precision = scale + max(lp-ls, rp-rs) + 1.
func TryAddSubtractColumnTypes(lhs, rhs ColumnType, op BinaryOperator) (ColumnType, error) {
	if !lhs.IsNumeric() || !rhs.IsNumeric() {
		return ColumnType{}, &BinaryOperationInvalidColumnTypeError{Operator: op, LeftType: lhs, RightType: rhs}
	}
	if t, ok := MaxIntegerType(lhs, rhs); ok {
		return t, nil
	}
	if lhs.kind == KindScalar || rhs.kind == KindScalar {
		return Scalar, nil
	}
	lp, _ := lhs.PrecisionValue()
	rp, _ := rhs.PrecisionValue()
	ls, _ := lhs.Scale()
	rs, _ := rhs.Scale()
	scale := max(ls, rs)
	precisionValue := int(scale) + max(int(lp)-int(ls), int(rp)-int(rs)) + 1
	precision, err := checkResultPrecision(precisionValue)
	if err != nil {
		return ColumnType{}, err
	}
	return Decimal75(precision, scale), nil
}

// TryMultiplyColumnTypes determines the result type of multiplying
// columns of the given types. The decimal result has precision
// lp + rp + 1 and scale ls + rs.
func TryMultiplyColumnTypes(lhs, rhs ColumnType) (ColumnType, error) {
	if !lhs.IsNumeric() || !rhs.IsNumeric() {
		return ColumnType{}, &BinaryOperationInvalidColumnTypeError{Operator: OpMultiply, LeftType: lhs, RightType: rhs}
	}
	if t, ok := MaxIntegerType(lhs, rhs); ok {
		return t, nil
	}
	if lhs.kind == KindScalar || rhs.kind == KindScalar {
		return Scalar, nil
	}
	lp, _ := lhs.PrecisionValue()
	rp, _ := rhs.PrecisionValue()
	precision, err := checkResultPrecision(int(lp) + int(rp) + 1)
	if err != nil {
		return ColumnType{}, err
	}
	ls, _ := lhs.Scale()
	rs, _ := rhs.Scale()
	scaleValue := int(ls) + int(rs)
	if scaleValue > 127 || scaleValue < -128 {
		return ColumnType{}, &InvalidScaleError{Scale: scaleValue}
	}
	return Decimal75(precision, int8(scaleValue)), nil
}

// TryDivideColumnTypes determines the result type of dividing columns of
// the given types. Scalar operands are rejected outright: typeless field
// elements have no meaningful quotient. The decimal result has
// scale = max(6, ls + rp + 1) and precision = lp - ls + rs + scale.
func TryDivideColumnTypes(lhs, rhs ColumnType) (ColumnType, error) {
	if !lhs.IsNumeric() || !rhs.IsNumeric() || lhs.kind == KindScalar || rhs.kind == KindScalar {
		return ColumnType{}, &BinaryOperationInvalidColumnTypeError{Operator: OpDivide, LeftType: lhs, RightType: rhs}
	}
	if t, ok := MaxIntegerType(lhs, rhs); ok {
		return t, nil
	}
	lp, _ := lhs.PrecisionValue()
	rp, _ := rhs.PrecisionValue()
	ls, _ := lhs.Scale()
	rs, _ := rhs.Scale()
	rawScale := max(int(ls)+int(rp)+1, 6)
	precisionValue := int(lp) - int(ls) + int(rs) + rawScale
	if rawScale > 127 {
		return ColumnType{}, &InvalidScaleError{Scale: rawScale}
	}
	precision, err := checkResultPrecision(precisionValue)
	if err != nil {
		return ColumnType{}, err
	}
	return Decimal75(precision, int8(rawScale)), nil
}

// TryCastTypes verifies that a value-preserving cast from one type to the
// other exists. The supported casts are boolean to signed integers,
// timestamp tick counts to BigInt, integer widening, integer to
// scale-zero decimal, and decimal to decimal at the same scale with no
// loss of integral digits.
func TryCastTypes(from, to ColumnType) error {
	ok := false
	switch {
	case from.kind == KindBoolean:
		switch to.kind {
		case KindTinyInt, KindSmallInt, KindInt, KindBigInt, KindInt128:
			ok = true
		}
	case from.kind == KindTimestampTZ && to.kind == KindBigInt:
		ok = true
	case from.kind == KindUint8 && to.kind == KindUint8,
		from.kind == KindTinyInt && to.kind == KindTinyInt:
		ok = true
	case from.IsInteger() || from.kind == KindDecimal75:
		widening := false
		switch to.kind {
		case KindSmallInt, KindInt, KindBigInt, KindInt128:
			widening = from.IsInteger()
		case KindDecimal75:
			widening = from.kind == KindDecimal75 || to.scale == 0
		}
		if widening {
			fp, _ := from.PrecisionValue()
			tp, _ := to.PrecisionValue()
			fs, _ := from.Scale()
			ts, _ := to.Scale()
			ok = tp >= fp && ts == fs
		}
	}
	if !ok {
		return &CastingError{From: from, To: to}
	}
	return nil
}

// TryDecimalScaleCastTypes verifies that a scale-adjusting cast into a
// decimal type exists: the target must keep at least as many fractional
// digits and at least as many integral digits as the source.
func TryDecimalScaleCastTypes(from, to ColumnType) error {
	if to.kind == KindDecimal75 && (from.IsInteger() || from.kind == KindDecimal75) {
		fp, _ := from.PrecisionValue()
		tp, _ := to.PrecisionValue()
		fs, _ := from.Scale()
		ts, _ := to.Scale()
		if ts >= fs && int(tp)-int(ts) >= int(fp)-int(fs) {
			return nil
		}
	}
	return &DecimalScaleCastingError{From: from, To: to}
}
