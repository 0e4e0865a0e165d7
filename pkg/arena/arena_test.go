package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArenaStats(t *testing.T) {
	a := New()
	_ = Make[int64](a, 10)
	_ = Make[bool](a, 4)
	assert.Equal(t, int64(2), a.Allocs())
	assert.Equal(t, int64(84), a.Bytes())

	a.Reset()
	assert.Equal(t, int64(0), a.Allocs())
	assert.Equal(t, int64(0), a.Bytes())
}

func TestNilArenaIsUsable(t *testing.T) {
	s := Make[int32](nil, 3)
	assert.Len(t, s, 3)
}

func TestFill(t *testing.T) {
	a := New()
	s := Fill(a, 3, int8(7))
	assert.Equal(t, []int8{7, 7, 7}, s)
}

func TestFillWith(t *testing.T) {
	a := New()
	s := FillWith(a, 4, func(i int) int { return i * i })
	assert.Equal(t, []int{0, 1, 4, 9}, s)
}

func TestCopy(t *testing.T) {
	a := New()
	src := []string{"x", "y"}
	dst := Copy(a, src)
	assert.Equal(t, src, dst)
	dst[0] = "z"
	assert.Equal(t, "x", src[0])
}
