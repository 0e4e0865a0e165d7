package column

import (
	"github.com/quarrydb/quarry/pkg/scalar"
)

// NullableColumn overlays SQL NULL tracking on a Column. The presence
// slice runs parallel to the values: presence[i] true means element i is
// present, false means NULL. A nil presence slice means no element is
// NULL. NULL slots still hold a well-defined default in the values
// buffer so the dense kernels can run over them unchanged.
type NullableColumn struct {
	Values   Column
	presence []bool
}

// NewNullableColumn wraps a column with no NULL elements.
func NewNullableColumn(values Column) NullableColumn {
	return NullableColumn{Values: values}
}

// NullableColumnWithPresence wraps a column with an explicit presence
// slice, which must match the column length. A nil presence is accepted
// and means all present.
func NullableColumnWithPresence(values Column, presence []bool) (NullableColumn, error) {
	if presence != nil && len(presence) != values.Len() {
		return NullableColumn{}, &PresenceLengthMismatchError{
			ColumnLen:   values.Len(),
			PresenceLen: len(presence),
		}
	}
	return NullableColumn{Values: values, presence: presence}, nil
}

// Len returns the number of elements.
func (c NullableColumn) Len() int { return c.Values.Len() }

// IsNullable reports whether the column carries a presence slice at all.
func (c NullableColumn) IsNullable() bool { return c.presence != nil }

// Presence exposes the presence slice; nil means all present.
func (c NullableColumn) Presence() []bool { return c.presence }

// IsNull reports whether element i is NULL. It panics when i is out of
// range: a range error here is a caller bug, not a data condition.
func (c NullableColumn) IsNull(i int) bool {
	if i < 0 || i >= c.Len() {
		panic(&IndexOutOfBoundsError{Index: i, Len: c.Len()})
	}
	return c.presence != nil && !c.presence[i]
}

// ScalarAt returns the field element at i. ok is false when i is out of
// range; null reports a present-but-NULL slot, in which case the scalar
// is the type's default embedding.
func (c NullableColumn) ScalarAt(i int) (s scalar.Scalar, null, ok bool) {
	s, ok = c.Values.ScalarAt(i)
	if !ok {
		return scalar.Scalar{}, false, false
	}
	return s, c.presence != nil && !c.presence[i], true
}

// OwnedNullableColumn is the owning counterpart of NullableColumn.
type OwnedNullableColumn struct {
	Values   OwnedColumn
	presence []bool
}

// NewOwnedNullableColumn wraps an owned column with no NULL elements.
func NewOwnedNullableColumn(values OwnedColumn) OwnedNullableColumn {
	return OwnedNullableColumn{Values: values}
}

// OwnedNullableColumnWithPresence wraps an owned column with an explicit
// presence slice.
func OwnedNullableColumnWithPresence(values OwnedColumn, presence []bool) (OwnedNullableColumn, error) {
	if presence != nil && len(presence) != values.Len() {
		return OwnedNullableColumn{}, &PresenceLengthMismatchError{
			ColumnLen:   values.Len(),
			PresenceLen: len(presence),
		}
	}
	return OwnedNullableColumn{Values: values, presence: presence}, nil
}

// Len returns the number of elements.
func (c OwnedNullableColumn) Len() int { return c.Values.Len() }

// IsNullable reports whether the column carries a presence slice.
func (c OwnedNullableColumn) IsNullable() bool { return c.presence != nil }

// Presence exposes the presence slice; nil means all present.
func (c OwnedNullableColumn) Presence() []bool { return c.presence }

// IsNull reports whether element i is NULL, panicking out of range.
func (c OwnedNullableColumn) IsNull(i int) bool {
	if i < 0 || i >= c.Len() {
		panic(&IndexOutOfBoundsError{Index: i, Len: c.Len()})
	}
	return c.presence != nil && !c.presence[i]
}

// mergePresence is the NULL rule for comparisons and arithmetic: the
// result is present only where both operands are.
func mergePresence(n int, lhs, rhs []bool) []bool {
	if lhs == nil && rhs == nil {
		return nil
	}
	out := make([]bool, n)
	for i := range out {
		l := lhs == nil || lhs[i]
		r := rhs == nil || rhs[i]
		out[i] = l && r
	}
	return out
}

// Not inverts a nullable boolean column, preserving NULL slots.
func (c OwnedNullableColumn) Not() (OwnedNullableColumn, error) {
	values, err := c.Values.Not()
	if err != nil {
		return OwnedNullableColumn{}, err
	}
	return OwnedNullableColumn{Values: values, presence: c.presence}, nil
}

// And applies three-valued logical AND: NULL AND x is NULL unless x is
// FALSE, in which case the result is a present FALSE.
func (c OwnedNullableColumn) And(o OwnedNullableColumn) (OwnedNullableColumn, error) {
	values, err := c.Values.And(o.Values)
	if err != nil {
		return OwnedNullableColumn{}, err
	}
	presence := c.kleenePresence(o, false)
	return OwnedNullableColumn{Values: values, presence: presence}, nil
}

// Or applies three-valued logical OR: NULL OR x is NULL unless x is
// TRUE, in which case the result is a present TRUE.
func (c OwnedNullableColumn) Or(o OwnedNullableColumn) (OwnedNullableColumn, error) {
	values, err := c.Values.Or(o.Values)
	if err != nil {
		return OwnedNullableColumn{}, err
	}
	presence := c.kleenePresence(o, true)
	return OwnedNullableColumn{Values: values, presence: presence}, nil
}

// kleenePresence computes the result presence of AND (absorbing false)
// or OR (absorbing true): a NULL slot becomes present when the other
// side holds the absorbing value.
func (c OwnedNullableColumn) kleenePresence(o OwnedNullableColumn, absorbing bool) []bool {
	if c.presence == nil && o.presence == nil {
		return nil
	}
	lv, _ := c.Values.Boolean()
	rv, _ := o.Values.Boolean()
	n := c.Len()
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		l := c.presence == nil || c.presence[i]
		r := o.presence == nil || o.presence[i]
		switch {
		case l && r:
			out[i] = true
		case !l && r && rv[i] == absorbing:
			out[i] = true
		case l && !r && lv[i] == absorbing:
			out[i] = true
		}
	}
	return out
}

func (c OwnedNullableColumn) binary(o OwnedNullableColumn,
	op func(OwnedColumn, OwnedColumn) (OwnedColumn, error)) (OwnedNullableColumn, error) {
	values, err := op(c.Values, o.Values)
	if err != nil {
		return OwnedNullableColumn{}, err
	}
	return OwnedNullableColumn{
		Values:   values,
		presence: mergePresence(values.Len(), c.presence, o.presence),
	}, nil
}

// Eq compares element-wise; NULL slots stay NULL.
func (c OwnedNullableColumn) Eq(o OwnedNullableColumn) (OwnedNullableColumn, error) {
	return c.binary(o, OwnedColumn.Eq)
}

// Le compares element-wise; NULL slots stay NULL.
func (c OwnedNullableColumn) Le(o OwnedNullableColumn) (OwnedNullableColumn, error) {
	return c.binary(o, OwnedColumn.Le)
}

// Ge compares element-wise; NULL slots stay NULL.
func (c OwnedNullableColumn) Ge(o OwnedNullableColumn) (OwnedNullableColumn, error) {
	return c.binary(o, OwnedColumn.Ge)
}

// Add adds element-wise; NULL slots stay NULL.
func (c OwnedNullableColumn) Add(o OwnedNullableColumn) (OwnedNullableColumn, error) {
	return c.binary(o, OwnedColumn.Add)
}

// Sub subtracts element-wise; NULL slots stay NULL.
func (c OwnedNullableColumn) Sub(o OwnedNullableColumn) (OwnedNullableColumn, error) {
	return c.binary(o, OwnedColumn.Sub)
}

// Mul multiplies element-wise; NULL slots stay NULL.
func (c OwnedNullableColumn) Mul(o OwnedNullableColumn) (OwnedNullableColumn, error) {
	return c.binary(o, OwnedColumn.Mul)
}

// Div divides element-wise; NULL slots stay NULL. A zero divisor fails
// even in a NULL slot: the dense kernel sees every element.
func (c OwnedNullableColumn) Div(o OwnedNullableColumn) (OwnedNullableColumn, error) {
	return c.binary(o, OwnedColumn.Div)
}
