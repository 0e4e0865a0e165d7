package column

// MaxSupportedPrecision is the largest decimal digit count the scalar
// field can hold without wrapping. Promotion results beyond this fail
// rather than saturate.
const MaxSupportedPrecision = 75

// Precision is a validated decimal digit count in [1, MaxSupportedPrecision].
type Precision uint8

// NewPrecision validates v and returns it as a Precision.
func NewPrecision(v uint8) (Precision, error) {
	if v < 1 || v > MaxSupportedPrecision {
		return 0, &InvalidPrecisionError{Value: int(v)}
	}
	return Precision(v), nil
}

// MustNewPrecision is NewPrecision for statically known values; it panics
// on an out-of-range argument.
func MustNewPrecision(v uint8) Precision {
	p, err := NewPrecision(v)
	if err != nil {
		panic(err)
	}
	return p
}

// Value returns the digit count.
func (p Precision) Value() uint8 { return uint8(p) }
