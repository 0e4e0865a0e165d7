// Package aggregate implements count-indexed group-by primitives over
// columns: selected rows are sorted by their group-by key, deduplicated
// into runs of equal keys, and each run is folded into per-group sums,
// counts, maxima and minima in the scalar field.
package aggregate

import (
	"bytes"
	"cmp"
	"sort"

	"github.com/quarrydb/quarry/pkg/arena"
	"github.com/quarrydb/quarry/pkg/column"
	"github.com/quarrydb/quarry/pkg/scalar"
)

// NullScalar is a field element that may be absent, the result of
// folding MAX or MIN over a zero-length run.
type NullScalar struct {
	Scalar scalar.Scalar
	Valid  bool
}

// SumByIndexCounts folds each run into the field sum of its elements.
// Run j covers counts[j] entries of indexes starting where the previous
// run ended; an empty run sums to ZERO. Non-numeric columns are
// rejected.
func SumByIndexCounts(a *arena.Arena, col column.Column, counts []int, indexes []int) ([]scalar.Scalar, error) {
	if !col.Type().IsNumeric() {
		return nil, &column.UnsupportedTypeError{DataType: col.Type().String()}
	}
	out := arena.Make[scalar.Scalar](a, len(counts))
	offset := 0
	for j, count := range counts {
		sum := scalar.Zero()
		for _, idx := range indexes[offset : offset+count] {
			s, ok := col.ScalarAt(idx)
			if !ok {
				return nil, &column.IndexOutOfBoundsError{Index: idx, Len: col.Len()}
			}
			sum = sum.Add(s)
		}
		out[j] = sum
		offset += count
	}
	return out, nil
}

// MaxByIndexCounts folds each run into its maximum under the signed
// total order. An empty run has no maximum.
func MaxByIndexCounts(a *arena.Arena, col column.Column, counts []int, indexes []int) ([]NullScalar, error) {
	return extremumByIndexCounts(a, col, counts, indexes, 1)
}

// MinByIndexCounts folds each run into its minimum under the signed
// total order. An empty run has no minimum.
func MinByIndexCounts(a *arena.Arena, col column.Column, counts []int, indexes []int) ([]NullScalar, error) {
	return extremumByIndexCounts(a, col, counts, indexes, -1)
}

func extremumByIndexCounts(a *arena.Arena, col column.Column, counts []int, indexes []int, want int) ([]NullScalar, error) {
	if !col.Type().IsNumeric() {
		return nil, &column.UnsupportedTypeError{DataType: col.Type().String()}
	}
	out := arena.Make[NullScalar](a, len(counts))
	offset := 0
	for j, count := range counts {
		var best NullScalar
		for _, idx := range indexes[offset : offset+count] {
			s, ok := col.ScalarAt(idx)
			if !ok {
				return nil, &column.IndexOutOfBoundsError{Index: idx, Len: col.Len()}
			}
			if !best.Valid || s.SignedCmp(best.Scalar) == want {
				best = NullScalar{Scalar: s, Valid: true}
			}
		}
		out[j] = best
		offset += count
	}
	return out, nil
}

// CompareRows orders rows a and b under the lexicographic order of the
// given key columns. Integer and tick keys use their machine order,
// decimals and typeless scalars the signed field order, strings and
// byte strings their byte order.
func CompareRows(cols []column.Column, a, b int) int {
	for _, c := range cols {
		if r := compareRow(c, a, b); r != 0 {
			return r
		}
	}
	return 0
}

func compareRow(c column.Column, a, b int) int {
	if vals, ok := c.Boolean(); ok {
		return boolCompare(vals[a], vals[b])
	}
	if vals, ok := c.Uint8s(); ok {
		return cmp.Compare(vals[a], vals[b])
	}
	if vals, ok := c.TinyInts(); ok {
		return cmp.Compare(vals[a], vals[b])
	}
	if vals, ok := c.SmallInts(); ok {
		return cmp.Compare(vals[a], vals[b])
	}
	if vals, ok := c.Ints(); ok {
		return cmp.Compare(vals[a], vals[b])
	}
	if vals, ok := c.BigInts(); ok {
		return cmp.Compare(vals[a], vals[b])
	}
	if vals, ok := c.Int128s(); ok {
		switch {
		case vals[a].Less(vals[b]):
			return -1
		case vals[b].Less(vals[a]):
			return 1
		}
		return 0
	}
	if vals, ok := c.Decimal75s(); ok {
		return vals[a].SignedCmp(vals[b])
	}
	if vals, ok := c.Scalars(); ok {
		return vals[a].SignedCmp(vals[b])
	}
	if vals, _, ok := c.VarChars(); ok {
		return cmp.Compare(vals[a], vals[b])
	}
	if vals, _, ok := c.VarBinaries(); ok {
		return bytes.Compare(vals[a], vals[b])
	}
	if _, _, ok := c.FixedSizeBinaries(); ok {
		return bytes.Compare(c.FixedSizeBinaryAt(a), c.FixedSizeBinaryAt(b))
	}
	if _, _, ticks, ok := c.Timestamps(); ok {
		return cmp.Compare(ticks[a], ticks[b])
	}
	return 0
}

func boolCompare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	}
	return 1
}

// FilterByIndexes materializes the rows of col named by indexes, in
// order, as a new column through the arena.
func FilterByIndexes(a *arena.Arena, col column.Column, indexes []int) column.Column {
	if vals, ok := col.Boolean(); ok {
		return column.NewBoolean(pick(a, vals, indexes))
	}
	if vals, ok := col.Uint8s(); ok {
		return column.NewUint8(pick(a, vals, indexes))
	}
	if vals, ok := col.TinyInts(); ok {
		return column.NewTinyInt(pick(a, vals, indexes))
	}
	if vals, ok := col.SmallInts(); ok {
		return column.NewSmallInt(pick(a, vals, indexes))
	}
	if vals, ok := col.Ints(); ok {
		return column.NewInt(pick(a, vals, indexes))
	}
	if vals, ok := col.BigInts(); ok {
		return column.NewBigInt(pick(a, vals, indexes))
	}
	if vals, ok := col.Int128s(); ok {
		return column.NewInt128(pick(a, vals, indexes))
	}
	if vals, ok := col.Decimal75s(); ok {
		t := col.Type()
		return column.NewDecimal75(t.Precision(), t.DecimalScale(), pick(a, vals, indexes))
	}
	if vals, ok := col.Scalars(); ok {
		return column.NewScalar(pick(a, vals, indexes))
	}
	if vals, hashes, ok := col.VarChars(); ok {
		return column.NewVarChar(pick(a, vals, indexes), pick(a, hashes, indexes))
	}
	if vals, hashes, ok := col.VarBinaries(); ok {
		return column.NewVarBinary(pick(a, vals, indexes), pick(a, hashes, indexes))
	}
	if width, _, ok := col.FixedSizeBinaries(); ok {
		flat := arena.Make[byte](a, len(indexes)*int(width))
		for j, idx := range indexes {
			copy(flat[j*int(width):], col.FixedSizeBinaryAt(idx))
		}
		out, _ := column.NewFixedSizeBinary(width, flat)
		return out
	}
	unit, tz, ticks, _ := col.Timestamps()
	return column.NewTimestampTZ(unit, tz, pick(a, ticks, indexes))
}

func pick[T any](a *arena.Arena, vals []T, indexes []int) []T {
	return arena.FillWith(a, len(indexes), func(j int) T { return vals[indexes[j]] })
}

// AggregatedColumns is the output of AggregateColumns: one row per
// distinct group-by key among the selected input rows.
type AggregatedColumns struct {
	// GroupByColumns holds the distinct keys, one filtered column per
	// input key column.
	GroupByColumns []column.Column
	// SumColumns holds the per-group field sums of each sum column.
	SumColumns [][]scalar.Scalar
	// MaxColumns holds the per-group maxima of each max column.
	MaxColumns [][]NullScalar
	// MinColumns holds the per-group minima of each min column.
	MinColumns [][]NullScalar
	// Count holds the number of selected rows in each group.
	Count []int64
}

// AggregateColumns groups the rows where selection is true by the key
// columns and folds the remaining column sets group-wise. All input
// columns and the selection must share one length.
func AggregateColumns(a *arena.Arena, groupByCols, sumCols, maxCols, minCols []column.Column, selection []bool) (*AggregatedColumns, error) {
	n := len(selection)
	for _, set := range [][]column.Column{groupByCols, sumCols, maxCols, minCols} {
		for _, c := range set {
			if c.Len() != n {
				return nil, &column.DifferentColumnLengthError{LenA: c.Len(), LenB: n}
			}
		}
	}

	filtered := make([]int, 0, n)
	for i, keep := range selection {
		if keep {
			filtered = append(filtered, i)
		}
	}
	sort.Slice(filtered, func(x, y int) bool {
		return CompareRows(groupByCols, filtered[x], filtered[y]) < 0
	})

	// Dedup the sorted indexes into runs of equal keys.
	var representatives []int
	var counts []int
	for _, idx := range filtered {
		if len(representatives) > 0 &&
			CompareRows(groupByCols, representatives[len(representatives)-1], idx) == 0 {
			counts[len(counts)-1]++
			continue
		}
		representatives = append(representatives, idx)
		counts = append(counts, 1)
	}

	out := &AggregatedColumns{
		GroupByColumns: make([]column.Column, len(groupByCols)),
		SumColumns:     make([][]scalar.Scalar, len(sumCols)),
		MaxColumns:     make([][]NullScalar, len(maxCols)),
		MinColumns:     make([][]NullScalar, len(minCols)),
		Count:          arena.Make[int64](a, len(counts)),
	}
	for i, c := range groupByCols {
		out.GroupByColumns[i] = FilterByIndexes(a, c, representatives)
	}
	var err error
	for i, c := range sumCols {
		if out.SumColumns[i], err = SumByIndexCounts(a, c, counts, filtered); err != nil {
			return nil, err
		}
	}
	for i, c := range maxCols {
		if out.MaxColumns[i], err = MaxByIndexCounts(a, c, counts, filtered); err != nil {
			return nil, err
		}
	}
	for i, c := range minCols {
		if out.MinColumns[i], err = MinByIndexCounts(a, c, counts, filtered); err != nil {
			return nil, err
		}
	}
	for j, count := range counts {
		out.Count[j] = int64(count)
	}
	return out, nil
}
