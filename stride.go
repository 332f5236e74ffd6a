package minkowski

import "fmt"

// floorDiv divides rounding toward negative infinity, so negative
// coordinates land on the correct downsampled grid cell.
func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// StrideCoordinate writes the strided counterpart of src into dst and
// returns dst. The batch component passes through unchanged; each spatial
// component is floor-divided by the corresponding stride factor. dst and src
// must both have len(stride)+1 components.
func StrideCoordinate(dst, src, stride []int32) []int32 {
	if len(src) != len(stride)+1 || len(dst) != len(src) {
		panic(fmt.Sprintf("stride: coordinate size %d does not match stride length %d", len(src), len(stride)))
	}
	dst[0] = src[0]
	for i, s := range stride {
		if s <= 0 {
			panic(fmt.Sprintf("stride: non-positive stride factor %d at axis %d", s, i))
		}
		dst[i+1] = floorDiv(src[i+1], s)
	}
	return dst
}

// mulStride returns the elementwise product of two stride vectors.
func mulStride(a, b []int32) []int32 {
	out := make([]int32, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out
}

// Stride builds the downsampled coordinate map: every coordinate is strided
// with StrideCoordinate and inserted into a fresh map whose tensor stride is
// the elementwise product of the current stride and the factor. Duplicates
// collapse, so the result size is the number of distinct strided values.
// stride must have coordinateSize-1 positive entries.
func (m *CoordinateMap) Stride(stride []int32) *CoordinateMap {
	d := m.store.Width()
	if len(stride) != d-1 {
		panic(fmt.Sprintf("coordinate map: stride length %d must be coordinate size - 1 = %d", len(stride), d-1))
	}

	out := NewCoordinateMap(m.size, d, mulStride(m.tensorStride, stride))
	scratch := make([]int32, d)
	m.scanRange(0, len(m.ctrl), func(row uint32) {
		out.insert(StrideCoordinate(scratch, m.store.Row(int(row)), stride), uint32(out.size))
	})
	return out
}

// StrideRegion materializes the output support of a neighborhood operation:
// for every coordinate, all region neighbors absent from the result are
// inserted into a fresh map sized to size*volume as an upper bound. When two
// coordinates produce the same neighbor the first writer wins; the result
// never holds duplicates.
func (m *CoordinateMap) StrideRegion(region *Region) *CoordinateMap {
	d := m.store.Width()
	if region.CoordinateSize() != d {
		panic(fmt.Sprintf("coordinate map: region coordinate size %d, expected %d", region.CoordinateSize(), d))
	}

	out := NewCoordinateMap(m.size*region.Volume(), d, mulStride(m.tensorStride, region.KernelStride()))
	it := region.Iterator()
	m.scanRange(0, len(m.ctrl), func(row uint32) {
		it.Reset(m.store.Row(int(row)))
		for it.Next() {
			nb := it.Coordinate()
			if _, ok := out.Find(nb); !ok {
				out.insert(nb, uint32(out.size))
			}
		}
	})
	return out
}
