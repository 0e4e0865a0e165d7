// Package scalar implements the finite-field value type that the columnar
// kernel uses as its universal numeric representation: decimals, typeless
// scalars, and hashed strings and byte slices all live in this field.
//
// The field is the scalar group of Curve25519, of prime order
// 2^252 + 27742317777372353535851937790883648493. The field is wide enough
// that decimal addition, subtraction and multiplication over supported
// precisions can never wrap, which is what lets the kernel compute decimal
// arithmetic directly on field elements.
//
// A Scalar is an immutable value type holding the canonical reduced
// residue as four little-endian 64-bit limbs, so Scalars are comparable
// with == and usable as map keys. Signed semantics use the symmetric
// representation: residues above (q-1)/2 are treated as negative.
package scalar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
)

// Scalar is a canonical element of the field, stored as little-endian
// 64-bit limbs. The zero value is the field's additive identity.
type Scalar struct {
	limbs [4]uint64
}

var (
	// order is q = 2^252 + 27742317777372353535851937790883648493.
	order = mustParseBig("7237005577332262213973186563042994240857116359379907606001950938285454250989")
	// halfOrder is (q-1)/2, the largest value considered non-negative in
	// the symmetric representation.
	halfOrder = new(big.Int).Rsh(new(big.Int).Sub(order, big.NewInt(1)), 1)

	one = FromInt64(1)
)

func mustParseBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("scalar: bad field order literal")
	}
	return n
}

// Zero returns the additive identity.
func Zero() Scalar { return Scalar{} }

// One returns the multiplicative identity.
func One() Scalar { return one }

// FieldOrder returns a copy of the field modulus q.
func FieldOrder() *big.Int { return new(big.Int).Set(order) }

// MaxSigned returns a copy of (q-1)/2, the largest magnitude representable
// in the symmetric signed range.
func MaxSigned() *big.Int { return new(big.Int).Set(halfOrder) }

func fromReduced(n *big.Int) Scalar {
	var buf [32]byte
	n.FillBytes(buf[:])
	var s Scalar
	for i := 0; i < 4; i++ {
		s.limbs[i] = binary.BigEndian.Uint64(buf[(3-i)*8:])
	}
	return s
}

func (s Scalar) toBig() *big.Int {
	var buf [32]byte
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint64(buf[(3-i)*8:], s.limbs[i])
	}
	return new(big.Int).SetBytes(buf[:])
}

// FromBigInt reduces v modulo the field order. Negative inputs map to the
// corresponding negative residue, so FromBigInt(-1) == One().Neg().
func FromBigInt(v *big.Int) Scalar {
	n := new(big.Int).Mod(v, order)
	if n.Sign() < 0 {
		n.Add(n, order)
	}
	return fromReduced(n)
}

// TryFromBigInt converts v only if it lies in the symmetric signed range
// [-(q-1)/2, (q-1)/2]; it reports false otherwise. This is the checked
// entry point used when ingesting 256-bit decimal values that may not fit.
func TryFromBigInt(v *big.Int) (Scalar, bool) {
	if new(big.Int).Abs(v).Cmp(halfOrder) > 0 {
		return Scalar{}, false
	}
	return FromBigInt(v), true
}

// FromBool maps false to ZERO and true to ONE.
func FromBool(v bool) Scalar {
	if v {
		return one
	}
	return Scalar{}
}

// FromUint8 embeds an unsigned 8-bit integer.
func FromUint8(v uint8) Scalar { return fromReduced(new(big.Int).SetUint64(uint64(v))) }

// FromInt8 embeds a signed 8-bit integer.
func FromInt8(v int8) Scalar { return FromInt64(int64(v)) }

// FromInt16 embeds a signed 16-bit integer.
func FromInt16(v int16) Scalar { return FromInt64(int64(v)) }

// FromInt32 embeds a signed 32-bit integer.
func FromInt32(v int32) Scalar { return FromInt64(int64(v)) }

// FromInt64 embeds a signed 64-bit integer.
func FromInt64(v int64) Scalar {
	if v >= 0 {
		return fromReduced(new(big.Int).SetInt64(v))
	}
	n := new(big.Int).SetInt64(v)
	n.Add(n, order)
	return fromReduced(n)
}

// FromInt128 embeds a signed 128-bit integer.
func FromInt128(v decimal128.Num) Scalar {
	return FromBigInt(v.BigInt())
}

// FromString hashes a string into the field. Equal strings always map to
// equal field elements; the map is effectively injective because the
// digest is wider than 128 bits of the field's security margin.
func FromString(v string) Scalar {
	return FromBytes([]byte(v))
}

// FromBytes hashes a byte string into the field.
func FromBytes(v []byte) Scalar {
	digest := sha256.Sum256(v)
	return FromBigInt(new(big.Int).SetBytes(digest[:]))
}

// Add returns s + o in the field.
func (s Scalar) Add(o Scalar) Scalar {
	n := new(big.Int).Add(s.toBig(), o.toBig())
	if n.Cmp(order) >= 0 {
		n.Sub(n, order)
	}
	return fromReduced(n)
}

// Sub returns s - o in the field.
func (s Scalar) Sub(o Scalar) Scalar {
	n := new(big.Int).Sub(s.toBig(), o.toBig())
	if n.Sign() < 0 {
		n.Add(n, order)
	}
	return fromReduced(n)
}

// Mul returns s * o in the field.
func (s Scalar) Mul(o Scalar) Scalar {
	n := new(big.Int).Mul(s.toBig(), o.toBig())
	return fromReduced(n.Mod(n, order))
}

// Neg returns -s in the field.
func (s Scalar) Neg() Scalar {
	if s.IsZero() {
		return s
	}
	return fromReduced(new(big.Int).Sub(order, s.toBig()))
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool {
	return s.limbs == [4]uint64{}
}

// Equal reports whether s and o are the same field element. Scalars are
// canonical, so this is the same as ==.
func (s Scalar) Equal(o Scalar) bool { return s == o }

// Signed returns the symmetric signed representative of s, in
// [-(q-1)/2, (q-1)/2].
func (s Scalar) Signed() *big.Int {
	n := s.toBig()
	if n.Cmp(halfOrder) > 0 {
		n.Sub(n, order)
	}
	return n
}

// Sign reports -1, 0 or +1 for the symmetric representative of s.
func (s Scalar) Sign() int { return s.Signed().Sign() }

// SignedCmp orders s and o by their symmetric signed representatives,
// returning -1, 0 or +1. This is the total order the kernel uses for
// MIN/MAX and the <= / >= comparisons.
func (s Scalar) SignedCmp(o Scalar) int {
	return s.Signed().Cmp(o.Signed())
}

// Pow10 returns 10^exp in the field. exp must be non-negative; scale
// validation happens in the column type layer before this is reached.
func Pow10(exp uint) Scalar {
	n := new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(uint64(exp)), order)
	return fromReduced(n)
}

// String renders the symmetric representative in decimal, for debugging
// and error text.
func (s Scalar) String() string {
	return s.Signed().String()
}

// Format implements fmt.Formatter delegating to the decimal rendering.
func (s Scalar) Format(f fmt.State, verb rune) {
	fmt.Fprintf(f, "%"+string(verb), s.Signed())
}
