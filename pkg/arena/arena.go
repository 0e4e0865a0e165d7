// Package arena provides the caller-owned allocator that backs every
// column produced by one evaluation step.
//
// All kernel output buffers are allocated once, sized up front, through an
// Arena passed explicitly by reference. Slice memory itself is managed by
// the Go runtime; the Arena is the allocation seam the evaluator threads
// through each operation, and it keeps per-step allocation statistics so a
// surrounding engine can account for the memory one step produced. An Arena
// is not safe for concurrent use: each evaluation step owns a private one.
package arena

// Arena tracks the allocations made on behalf of a single evaluation step.
// The zero value is ready to use.
type Arena struct {
	allocs int64
	bytes  int64
}

// New returns a fresh Arena.
func New() *Arena {
	return &Arena{}
}

// Allocs reports how many slice allocations this arena has handed out.
func (a *Arena) Allocs() int64 { return a.allocs }

// Bytes reports the approximate payload bytes allocated through this arena.
func (a *Arena) Bytes() int64 { return a.bytes }

// Reset zeroes the statistics. It does not release memory; buffers handed
// out earlier stay valid until the columns referencing them are dropped.
func (a *Arena) Reset() {
	a.allocs = 0
	a.bytes = 0
}

func (a *Arena) record(n, elemSize int) {
	if a == nil {
		return
	}
	a.allocs++
	a.bytes += int64(n) * int64(elemSize)
}

// Make allocates a zeroed slice of n elements through the arena.
func Make[T any](a *Arena, n int) []T {
	var elem T
	a.record(n, int(sizeOf(elem)))
	return make([]T, n)
}

// Fill allocates a slice of n elements, every one set to v.
func Fill[T any](a *Arena, n int, v T) []T {
	s := Make[T](a, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// FillWith allocates a slice of n elements, element i set to f(i).
func FillWith[T any](a *Arena, n int, f func(i int) T) []T {
	s := Make[T](a, n)
	for i := range s {
		s[i] = f(i)
	}
	return s
}

// Copy allocates a slice holding a copy of src.
func Copy[T any](a *Arena, src []T) []T {
	s := Make[T](a, len(src))
	copy(s, src)
	return s
}

// sizeOf reports a bookkeeping size for an element. Exact footprints of
// pointer-bearing types are not knowable here; a word-count estimate keeps
// the stats useful without reaching for unsafe.
func sizeOf(v any) uintptr {
	switch v.(type) {
	case bool, uint8, int8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32:
		return 4
	case int64, uint64, int, uint:
		return 8
	case string:
		return 16
	case []byte:
		return 24
	default:
		return 32
	}
}
