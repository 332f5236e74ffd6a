package minkowski

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// Origin builds the map of batch-origin coordinates: one row per distinct
// batch index, each at the all-zero spatial position. The result keeps the
// source tensor stride and is what global reductions pool into.
func (m *CoordinateMap) Origin() *CoordinateMap {
	d := m.store.Width()
	out := NewCoordinateMap(m.size, d, m.tensorStride)
	origin := make([]int32, d)
	m.scanRange(0, len(m.ctrl), func(row uint32) {
		origin[0] = m.store.Row(int(row))[0]
		if _, ok := out.Find(origin); !ok {
			out.insert(origin, uint32(out.size))
		}
	})
	return out
}

// BatchIndex partitions the rows of a coordinate map by batch index. Each
// batch's rows are held in a roaring bitmap, so downstream consumers can
// intersect or enumerate them cheaply.
type BatchIndex struct {
	rows map[int32]*roaring.Bitmap
}

// BatchIndices groups every row of the map by its batch component.
// The resulting bitmaps partition [0, Size()) when rows are densely
// assigned.
func (m *CoordinateMap) BatchIndices() *BatchIndex {
	idx := &BatchIndex{rows: make(map[int32]*roaring.Bitmap)}
	m.scanRange(0, len(m.ctrl), func(row uint32) {
		batch := m.store.Row(int(row))[0]
		bm, ok := idx.rows[batch]
		if !ok {
			bm = roaring.New()
			idx.rows[batch] = bm
		}
		bm.Add(row)
	})
	return idx
}

// Batches returns the distinct batch indices in ascending order.
func (b *BatchIndex) Batches() []int32 {
	batches := make([]int32, 0, len(b.rows))
	for batch := range b.rows {
		batches = append(batches, batch)
	}
	slices.Sort(batches)
	return batches
}

// Rows returns the row set of a batch, or nil if the batch is absent.
func (b *BatchIndex) Rows(batch int32) *roaring.Bitmap {
	return b.rows[batch]
}

// NumBatches returns the number of distinct batch indices.
func (b *BatchIndex) NumBatches() int { return len(b.rows) }

// OriginMap computes the single-offset correspondence from every row of
// this map to its batch-origin row in origin: exactly one pair per row.
// origin must hold an entry for every batch index present here; a missing
// entry is an invariant violation and panics.
func (m *CoordinateMap) OriginMap(origin *CoordinateMap, opts ...Option) *KernelMap {
	o := applyOptions(opts)
	d := m.store.Width()
	if origin.store.Width() != d {
		panic(fmt.Sprintf("origin map: coordinate size %d, expected %d", origin.store.Width(), d))
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
				scratch[0] = m.store.Row(int(inRow))[0]
				outRow, ok := origin.Find(scratch)
				if !ok {
					panic(fmt.Sprintf("origin map: no origin entry for batch index %d", scratch[0]))
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
