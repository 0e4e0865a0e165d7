package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/pkg/arena"
	"github.com/quarrydb/quarry/pkg/column"
	"github.com/quarrydb/quarry/pkg/scalar"
)

func TestSumByIndexCounts(t *testing.T) {
	a := arena.New()
	col := column.NewBigInt([]int64{10, 20, 30, 40})

	sums, err := SumByIndexCounts(a, col, []int{2, 0, 1}, []int{0, 3, 2})
	require.NoError(t, err)
	require.Len(t, sums, 3)
	assert.Equal(t, scalar.FromInt64(50), sums[0])
	// An empty run sums to ZERO.
	assert.Equal(t, scalar.Zero(), sums[1])
	assert.Equal(t, scalar.FromInt64(30), sums[2])

	t.Run("non-numeric column", func(t *testing.T) {
		vc := column.NewVarChar([]string{"a"}, []scalar.Scalar{scalar.FromString("a")})
		_, err := SumByIndexCounts(a, vc, []int{1}, []int{0})
		assert.ErrorAs(t, err, new(*column.UnsupportedTypeError))
	})

	t.Run("index out of bounds", func(t *testing.T) {
		_, err := SumByIndexCounts(a, col, []int{1}, []int{4})
		assert.ErrorAs(t, err, new(*column.IndexOutOfBoundsError))
	})
}

func TestMaxMinByIndexCounts(t *testing.T) {
	a := arena.New()
	col := column.NewTinyInt([]int8{5, -3, 9, 0})
	counts := []int{3, 0, 1}
	indexes := []int{0, 1, 2, 3}

	maxes, err := MaxByIndexCounts(a, col, counts, indexes)
	require.NoError(t, err)
	require.Len(t, maxes, 3)
	assert.True(t, maxes[0].Valid)
	assert.Equal(t, scalar.FromInt64(9), maxes[0].Scalar)
	// An empty run has no maximum.
	assert.False(t, maxes[1].Valid)
	assert.Equal(t, scalar.Zero(), maxes[2].Scalar)

	mins, err := MinByIndexCounts(a, col, counts, indexes)
	require.NoError(t, err)
	assert.Equal(t, scalar.FromInt64(-3), mins[0].Scalar)
	assert.False(t, mins[1].Valid)

	t.Run("signed order over decimals", func(t *testing.T) {
		vals := []scalar.Scalar{scalar.FromInt64(-100), scalar.FromInt64(2)}
		dc := column.NewDecimal75(column.MustNewPrecision(10), 2, vals)
		maxes, err := MaxByIndexCounts(a, dc, []int{2}, []int{0, 1})
		require.NoError(t, err)
		assert.Equal(t, scalar.FromInt64(2), maxes[0].Scalar)
	})
}

func TestCompareRows(t *testing.T) {
	t.Run("lexicographic over multiple keys", func(t *testing.T) {
		cols := []column.Column{
			column.NewVarChar([]string{"a", "a", "b"},
				[]scalar.Scalar{scalar.FromString("a"), scalar.FromString("a"), scalar.FromString("b")}),
			column.NewBigInt([]int64{2, 1, 0}),
		}
		assert.Equal(t, 1, CompareRows(cols, 0, 1))
		assert.Equal(t, -1, CompareRows(cols, 1, 2))
		assert.Equal(t, 0, CompareRows(cols, 0, 0))
	})

	t.Run("booleans order false before true", func(t *testing.T) {
		c := []column.Column{column.NewBoolean([]bool{false, true})}
		assert.Equal(t, -1, CompareRows(c, 0, 1))
		assert.Equal(t, 1, CompareRows(c, 1, 0))
	})

	t.Run("decimals use the signed field order", func(t *testing.T) {
		c := []column.Column{column.NewDecimal75(column.MustNewPrecision(10), 0,
			[]scalar.Scalar{scalar.FromInt64(-1), scalar.FromInt64(1)})}
		assert.Equal(t, -1, CompareRows(c, 0, 1))
	})
}

func TestFilterByIndexes(t *testing.T) {
	a := arena.New()

	c := FilterByIndexes(a, column.NewBigInt([]int64{10, 20, 30}), []int{2, 0})
	vals, _ := c.BigInts()
	assert.Equal(t, []int64{30, 10}, vals)

	t.Run("varchar keeps hashes aligned", func(t *testing.T) {
		src := column.NewVarChar([]string{"x", "y"},
			[]scalar.Scalar{scalar.FromString("x"), scalar.FromString("y")})
		out := FilterByIndexes(a, src, []int{1})
		strs, hashes, ok := out.VarChars()
		require.True(t, ok)
		assert.Equal(t, []string{"y"}, strs)
		assert.Equal(t, scalar.FromString("y"), hashes[0])
	})

	t.Run("fixed size binary copies rows", func(t *testing.T) {
		src, err := column.NewFixedSizeBinary(2, []byte{1, 2, 3, 4, 5, 6})
		require.NoError(t, err)
		out := FilterByIndexes(a, src, []int{2, 0})
		assert.Equal(t, []byte{5, 6}, out.FixedSizeBinaryAt(0))
		assert.Equal(t, []byte{1, 2}, out.FixedSizeBinaryAt(1))
	})
}

func TestAggregateColumns(t *testing.T) {
	a := arena.New()
	keys := []column.Column{column.NewVarChar(
		[]string{"b", "a", "b", "a", "c"},
		[]scalar.Scalar{
			scalar.FromString("b"), scalar.FromString("a"), scalar.FromString("b"),
			scalar.FromString("a"), scalar.FromString("c"),
		})}
	amounts := column.NewBigInt([]int64{1, 10, 2, 20, 100})

	t.Run("groups selected rows", func(t *testing.T) {
		selection := []bool{true, true, true, true, false}
		res, err := AggregateColumns(a, keys,
			[]column.Column{amounts}, []column.Column{amounts}, []column.Column{amounts}, selection)
		require.NoError(t, err)

		strs, _, ok := res.GroupByColumns[0].VarChars()
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, strs)
		assert.Equal(t, []int64{2, 2}, res.Count)

		assert.Equal(t, scalar.FromInt64(30), res.SumColumns[0][0])
		assert.Equal(t, scalar.FromInt64(3), res.SumColumns[0][1])

		assert.Equal(t, scalar.FromInt64(20), res.MaxColumns[0][0].Scalar)
		assert.Equal(t, scalar.FromInt64(10), res.MinColumns[0][0].Scalar)
		assert.Equal(t, scalar.FromInt64(2), res.MaxColumns[0][1].Scalar)
		assert.Equal(t, scalar.FromInt64(1), res.MinColumns[0][1].Scalar)
	})

	t.Run("empty selection yields no groups", func(t *testing.T) {
		res, err := AggregateColumns(a, keys,
			[]column.Column{amounts}, nil, nil, []bool{false, false, false, false, false})
		require.NoError(t, err)
		assert.Empty(t, res.Count)
		assert.Empty(t, res.SumColumns[0])
		assert.Equal(t, 0, res.GroupByColumns[0].Len())
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := AggregateColumns(a, keys, nil, nil, nil, []bool{true})
		assert.ErrorAs(t, err, new(*column.DifferentColumnLengthError))
	})

	t.Run("multiple key columns", func(t *testing.T) {
		multi := []column.Column{
			column.NewBoolean([]bool{true, false, true, false}),
			column.NewBigInt([]int64{1, 1, 1, 2}),
		}
		sums := column.NewBigInt([]int64{5, 6, 7, 8})
		res, err := AggregateColumns(a, multi,
			[]column.Column{sums}, nil, nil, []bool{true, true, true, true})
		require.NoError(t, err)
		// Keys sort as (false,1), (false,2), (true,1).
		require.Equal(t, []int64{1, 1, 2}, res.Count)
		bools, _ := res.GroupByColumns[0].Boolean()
		ints, _ := res.GroupByColumns[1].BigInts()
		assert.Equal(t, []bool{false, false, true}, bools)
		assert.Equal(t, []int64{1, 2, 1}, ints)
		assert.Equal(t, scalar.FromInt64(6), res.SumColumns[0][0])
		assert.Equal(t, scalar.FromInt64(8), res.SumColumns[0][1])
		assert.Equal(t, scalar.FromInt64(12), res.SumColumns[0][2])
	})
}
