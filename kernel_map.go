package minkowski

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// KernelMap holds, for every kernel offset, the index-aligned lists of
// matched (input row, output row) pairs that realize a sparse neighborhood
// correspondence. In[k][i] and Out[k][i] form one pair for offset k. Order
// within an offset's lists is unspecified; the pair set is deterministic,
// the physical order depends on worker interleaving.
type KernelMap struct {
	In  [][]uint32
	Out [][]uint32
}

// Volume returns the number of kernel offsets.
func (km *KernelMap) Volume() int { return len(km.In) }

// NumPairs returns the total number of pairs across all offsets.
func (km *KernelMap) NumPairs() int {
	n := 0
	for _, in := range km.In {
		n += len(in)
	}
	return n
}

// KernelMap computes the input/output correspondence between this (input)
// map and out for every offset of region: offset k pairs output row o with
// input row i whenever the input map holds the offset-k neighbor of o's
// coordinate. Output rows whose neighbor is absent are silently skipped.
//
// The output map's slot range is partitioned into roughly 2x worker
// contiguous chunks; chunks are disjoint and cover every live entry exactly
// once, so workers share nothing but the per-offset atomic cursors that
// reserve result slots. The calling goroutine blocks until all workers
// finish. Neither map may be mutated concurrently.
func (m *CoordinateMap) KernelMap(out *CoordinateMap, region *Region, opts ...Option) *KernelMap {
	o := applyOptions(opts)
	d := m.store.Width()
	if out.store.Width() != d {
		panic(fmt.Sprintf("kernel map: output coordinate size %d, expected %d", out.store.Width(), d))
	}
	if region.CoordinateSize() != d {
		panic(fmt.Sprintf("kernel map: region coordinate size %d, expected %d", region.CoordinateSize(), d))
	}

	volume := region.Volume()
	km := &KernelMap{
		In:  make([][]uint32, volume),
		Out: make([][]uint32, volume),
	}
	// Worst case every output row matches every offset.
	for k := 0; k < volume; k++ {
		km.In[k] = make([]uint32, out.size)
		km.Out[k] = make([]uint32, out.size)
	}
	cursors := make([]atomic.Uint32, volume)

	fastPath := volume == 1 && region.Type() != RegionCustom

	var g errgroup.Group
	g.SetLimit(o.workers)
	for _, bounds := range out.chunkBounds(2 * o.workers) {
		lo, hi := bounds[0], bounds[1]
		g.Go(func() error {
			if fastPath {
				// Volume-1 structured region: the only neighbor is the
				// coordinate itself.
				out.scanRange(lo, hi, func(outRow uint32) {
					if inRow, ok := m.Find(out.store.Row(int(outRow))); ok {
						i := cursors[0].Add(1) - 1
						km.In[0][i] = inRow
						km.Out[0][i] = outRow
					}
				})
				return nil
			}
			it := region.Iterator()
			out.scanRange(lo, hi, func(outRow uint32) {
				it.Reset(out.store.Row(int(outRow)))
				for it.Next() {
					if inRow, ok := m.Find(it.Coordinate()); ok {
						k := it.K()
						i := cursors[k].Add(1) - 1
						km.In[k][i] = inRow
						km.Out[k][i] = outRow
					}
				}
			})
			return nil
		})
	}
	_ = g.Wait()

	for k := 0; k < volume; k++ {
		n := cursors[k].Load()
		km.In[k] = km.In[k][:n]
		km.Out[k] = km.Out[k][:n]
	}

	o.logger.LogKernelMap(region.Volume(), km.NumPairs())
	return km
}

// StrideMap computes the single-offset correspondence between this map and
// its strided counterpart: exactly one (input row, output row) pair per
// input row, where the output row holds the strided input coordinate. The
// output map must contain an entry for every strided input coordinate;
// a missing entry is an invariant violation and panics.
func (m *CoordinateMap) StrideMap(out *CoordinateMap, stride []int32, opts ...Option) *KernelMap {
	o := applyOptions(opts)
	d := m.store.Width()
	if len(stride) != d-1 {
		panic(fmt.Sprintf("stride map: stride length %d must be coordinate size - 1 = %d", len(stride), d-1))
	}
	if out.store.Width() != d {
		panic(fmt.Sprintf("stride map: output coordinate size %d, expected %d", out.store.Width(), d))
	}

	km := &KernelMap{
		In:  [][]uint32{make([]uint32, m.size)},
		Out: [][]uint32{make([]uint32, m.size)},
	}
	var cursor atomic.Uint32

	var g errgroup.Group
	g.SetLimit(o.workers)
	for _, bounds := range m.chunkBounds(2 * o.workers) {
		lo, hi := bounds[0], bounds[1]
		g.Go(func() error {
			scratch := make([]int32, d)
			m.scanRange(lo, hi, func(inRow uint32) {
				sc := StrideCoordinate(scratch, m.store.Row(int(inRow)), stride)
				outRow, ok := out.Find(sc)
				if !ok {
					panic(fmt.Sprintf("stride map: output map has no entry for strided coordinate %v of row %d", sc, inRow))
				}
				i := cursor.Add(1) - 1
				km.In[0][i] = inRow
				km.Out[0][i] = outRow
			})
			return nil
		})
	}
	_ = g.Wait()

	n := cursor.Load()
	km.In[0] = km.In[0][:n]
	km.Out[0] = km.Out[0][:n]
	return km
}

// CopyCoordinates exports every stored coordinate into dst at offset
// row*coordinateSize. dst must hold at least capacity*coordinateSize
// components. Workers write row-disjoint ranges, so no synchronization is
// needed beyond the final join.
func (m *CoordinateMap) CopyCoordinates(dst []int32, opts ...Option) {
	o := applyOptions(opts)
	d := m.store.Width()
	if len(dst) < m.store.Capacity()*d {
		panic(fmt.Sprintf("copy coordinates: destination length %d, need %d", len(dst), m.store.Capacity()*d))
	}

	var g errgroup.Group
	g.SetLimit(o.workers)
	for _, bounds := range m.chunkBounds(2 * o.workers) {
		lo, hi := bounds[0], bounds[1]
		g.Go(func() error {
			m.scanRange(lo, hi, func(row uint32) {
				copy(dst[int(row)*d:(int(row)+1)*d], m.store.Row(int(row)))
			})
			return nil
		})
	}
	_ = g.Wait()
}
