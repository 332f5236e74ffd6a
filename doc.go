// Package minkowski implements the coordinate-indexed core of a sparse
// convolution engine: a hash map from integer coordinate tuples to dense row
// indices, the stride/region derivations that produce downsampled coordinate
// sets, and the parallel construction of kernel maps, the per-offset
// (input row, output row) correspondence lists that drive sparse
// convolution-like operations.
//
// # Quick Start
//
//	// coordinates are (batch, x, y) tuples, flat row-major
//	coords := []int32{
//	    0, 0, 0,
//	    0, 0, 0, // duplicate, collapses onto row 0
//	    0, 2, 2,
//	}
//
//	m := minkowski.NewCoordinateMap(3, 3, nil)
//	mapping, inverse := m.InsertAndMap(coords, true)
//	// m.Size() == 2, mapping == [0 2], inverse == [0 0 1]
//
//	out := m.Stride([]int32{2, 2})
//	region := minkowski.NewRegion(3, []int32{3, 3})
//	km := m.KernelMap(out, region)
//
// # Coordinate Maps
//
// A CoordinateMap is built once from a coordinate batch and is read-heavy
// afterwards. Row capacity is declared up front; the coordinate arena and
// the slot array never grow or relocate, so stored coordinate views stay
// valid for the map's lifetime and concurrent read-only scans need no locks.
// Derived coordinate sets (Stride, StrideRegion, Origin) are fresh maps,
// never in-place mutations.
//
// # Parallelism
//
// KernelMap, StrideMap, OriginMap and CopyCoordinates partition the table's
// slot range into disjoint chunks and fan out over a bounded worker group.
// The only shared mutable state is a per-offset atomic cursor reserving
// result slots, so the pair set of a kernel map is deterministic while the
// physical order within an offset's lists is not.
//
// # Errors
//
// Soft misses (absent query keys, absent neighbors) are silently dropped
// from results. Violated preconditions (capacity overrun, shape mismatches,
// a stride map whose output entry is missing) are programming errors and
// panic with a diagnostic naming the offending values.
//
// # Manager
//
// CoordinateManager tracks the maps of one network (keyed by tensor stride
// and id), reuses already-derived variants and caches kernel maps by region
// geometry.
package minkowski
