// Package zone implements the bump-arena allocator described in spec.md
// §4.1 (C1). ASTs are dense and short-lived; allocating every node from the
// Go heap and relying on the GC to trace each one individually would both
// slow down compilation and pressure the Context collector (package value)
// with transient garbage that the AST was never supposed to touch. A Zone
// instead hands out typed node pools in power-of-two-sized segments and is
// dropped in bulk once the owning compilation finishes.
//
// Go gives us no manual free and no raw pointer arithmetic into a byte
// slab, so segments are typed slices rather than raw bytes; "allocating" a
// node means handing out the next slot of the current segment, and
// "destroying" the zone means dropping every segment reference so the Go
// GC can reclaim them together. This keeps the spec's intent (O(1) bulk
// teardown, linear allocation, no per-node destructor) while staying
// idiomatic.
package zone

const initialSegmentSize = 64

// segment is an arbitrarily typed slab; concrete Zone[T] instances hold a
// slice of these sized for T.
type segment[T any] struct {
	nodes []T
	used  int
}

// Zone is a bump allocator for values of type T. The zero value is not
// usable; construct one with New.
type Zone[T any] struct {
	segments []*segment[T]
	nextSize int
}

// New returns a Zone ready to allocate values of type T.
func New[T any]() *Zone[T] {
	return &Zone[T]{nextSize: initialSegmentSize}
}

// Alloc returns a pointer to a freshly zeroed T owned by the zone. The
// pointer remains valid until the Zone is discarded (i.e. until nothing
// references the Zone any longer); Zone never reuses or recycles slots
// handed out by Alloc.
func (z *Zone[T]) Alloc() *T {
	seg := z.currentSegment()
	idx := seg.used
	seg.used++
	return &seg.nodes[idx]
}

// New mirrors Alloc but copies v into the freshly allocated slot; a small
// convenience for the common "alloc and fill" pattern used throughout the
// parser.
func (z *Zone[T]) New(v T) *T {
	p := z.Alloc()
	*p = v
	return p
}

func (z *Zone[T]) currentSegment() *segment[T] {
	if len(z.segments) > 0 {
		last := z.segments[len(z.segments)-1]
		if last.used < len(last.nodes) {
			return last
		}
	}
	seg := &segment[T]{nodes: make([]T, z.nextSize)}
	z.segments = append(z.segments, seg)
	z.nextSize *= 2
	return seg
}

// Len returns the total number of values allocated so far, across all
// segments. Intended for diagnostics and tests, not the hot path.
func (z *Zone[T]) Len() int {
	total := 0
	for _, seg := range z.segments {
		total += seg.used
	}
	return total
}

// Reset drops every segment, freeing the zone's backing memory for GC and
// returning the zone to its initial state. Equivalent to the original's
// "destroy the zone" operation; values obtained from Alloc/New before a
// Reset must not be used afterward.
func (z *Zone[T]) Reset() {
	z.segments = nil
	z.nextSize = initialSegmentSize
}
