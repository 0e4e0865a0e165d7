package column

import (
	"errors"
	"fmt"
)

// The kernel reports failure through typed errors and never logs or
// panics on data-dependent conditions. Callers match with errors.As or,
// for the payload-free conditions, errors.Is.

var (
	// ErrDivisionByZero is returned whenever any element of a divisor
	// column is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrArrayContainsNulls is returned by strict Arrow ingestion when the
	// source array has a validity bitmap with unset slots.
	ErrArrayContainsNulls = errors.New("array contains nulls")
)

// DifferentColumnLengthError reports a binary operation over columns of
// unequal length. No element is inspected before this check.
type DifferentColumnLengthError struct {
	LenA, LenB int
}

func (e *DifferentColumnLengthError) Error() string {
	return fmt.Sprintf("columns have different lengths: %d != %d", e.LenA, e.LenB)
}

// PresenceLengthMismatchError reports a presence slice whose length does
// not match the values column it is attached to.
type PresenceLengthMismatchError struct {
	ColumnLen, PresenceLen int
}

func (e *PresenceLengthMismatchError) Error() string {
	return fmt.Sprintf("presence length %d does not match column length %d", e.PresenceLen, e.ColumnLen)
}

// IndexOutOfBoundsError reports an index or range end past the end of an
// array or column.
type IndexOutOfBoundsError struct {
	Index, Len int
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for length %d", e.Index, e.Len)
}

// UnsupportedTypeError reports a data type outside the closed column type
// set, or a conversion request the type set cannot express.
type UnsupportedTypeError struct {
	DataType string
}

func (e *UnsupportedTypeError) Error() string {
	return "unsupported type: " + e.DataType
}

// BinaryOperationInvalidColumnTypeError reports a binary operator applied
// to a type pair outside its domain.
type BinaryOperationInvalidColumnTypeError struct {
	Operator  BinaryOperator
	LeftType  ColumnType
	RightType ColumnType
}

func (e *BinaryOperationInvalidColumnTypeError) Error() string {
	return fmt.Sprintf("binary operation %s is not defined for %s and %s", e.Operator, e.LeftType, e.RightType)
}

// UnaryOperationInvalidColumnTypeError reports a unary operator applied
// to a type outside its domain.
type UnaryOperationInvalidColumnTypeError struct {
	Operator UnaryOperator
	Type     ColumnType
}

func (e *UnaryOperationInvalidColumnTypeError) Error() string {
	return fmt.Sprintf("unary operation %s is not defined for %s", e.Operator, e.Type)
}

// FixedSizeBinaryByteSizeMismatchError reports fixed-size binary data
// whose flat length is not a multiple of the declared element width, or
// an element of the wrong width.
type FixedSizeBinaryByteSizeMismatchError struct {
	Expected, Actual int
}

func (e *FixedSizeBinaryByteSizeMismatchError) Error() string {
	return fmt.Sprintf("fixed size binary width mismatch: expected %d bytes, got %d", e.Expected, e.Actual)
}

// IntegerOverflowError reports checked integer arithmetic leaving the
// range of the result type.
type IntegerOverflowError struct {
	Detail string
}

func (e *IntegerOverflowError) Error() string {
	return "integer overflow: " + e.Detail
}

// DecimalConversionFailedError reports a wide decimal value that cannot
// be represented as a field element.
type DecimalConversionFailedError struct {
	Number string
}

func (e *DecimalConversionFailedError) Error() string {
	return "decimal conversion failed for " + e.Number
}

// InvalidPrecisionError reports a decimal precision outside
// [1, MaxSupportedPrecision], including promotion results past the cap.
type InvalidPrecisionError struct {
	Value int
}

func (e *InvalidPrecisionError) Error() string {
	return fmt.Sprintf("invalid decimal precision %d, must be in [1, %d]", e.Value, MaxSupportedPrecision)
}

// InvalidScaleError reports a decimal scale outside the range of int8.
type InvalidScaleError struct {
	Scale int
}

func (e *InvalidScaleError) Error() string {
	return fmt.Sprintf("invalid decimal scale %d", e.Scale)
}

// CastingError reports a cast request between types with no lossless
// embedding.
type CastingError struct {
	From, To ColumnType
}

func (e *CastingError) Error() string {
	return fmt.Sprintf("unable to cast %s to %s", e.From, e.To)
}

// DecimalScaleCastingError reports a scale-adjusting cast request that
// would lose digits or overflow the target precision.
type DecimalScaleCastingError struct {
	From, To ColumnType
}

func (e *DecimalScaleCastingError) Error() string {
	return fmt.Sprintf("unable to scale cast %s to %s", e.From, e.To)
}
