package minkowski

import (
	"fmt"
	"math/bits"
	"math/rand"

	"github.com/Tanazzah/MinkowskiEngine/internal/hash"
	"github.com/Tanazzah/MinkowskiEngine/internal/store"
)

const (
	// slotEmpty marks an unoccupied table slot. Occupied slots carry a
	// tophash byte >= slotMinTop so the probe loop can reject most
	// mismatches without touching the coordinate arena.
	slotEmpty  = 0
	slotMinTop = 1
)

// CoordinateMap maps integer coordinate tuples of a fixed size to dense row
// indices. Coordinates are stored once in a flat arena; the table keys are
// views into that arena, so equality and hashing are value-based while the
// map itself only shuffles row indices around.
//
// Capacity is declared at construction and never grows. The slot array is
// sized once from that capacity, which is what makes the lock-free chunked
// scans used by KernelMap, StrideMap and CopyCoordinates safe: concurrent
// readers walk disjoint slot ranges of a table that no one mutates.
//
// A CoordinateMap is built once and read-heavy afterwards. Derived coordinate
// sets (strided, region-expanded) are produced as fresh maps, never by
// mutating an existing one in place.
type CoordinateMap struct {
	store *store.Store
	seed  uint64

	ctrl []uint8  // tophash per slot, slotEmpty if free
	rows []uint32 // row index per slot, valid when ctrl != slotEmpty
	mask uint64

	size         int
	tensorStride []int32
}

// NewCoordinateMap creates an empty map for coordinates of coordinateSize
// components (batch index plus coordinateSize-1 spatial components) with room
// for capacity distinct rows. tensorStride must have coordinateSize-1
// entries; nil means an all-ones stride.
func NewCoordinateMap(capacity, coordinateSize int, tensorStride []int32) *CoordinateMap {
	if coordinateSize < 2 {
		panic(fmt.Sprintf("coordinate map: coordinate size %d must be at least 2", coordinateSize))
	}
	if tensorStride == nil {
		tensorStride = make([]int32, coordinateSize-1)
		for i := range tensorStride {
			tensorStride[i] = 1
		}
	}
	if len(tensorStride) != coordinateSize-1 {
		panic(fmt.Sprintf("coordinate map: tensor stride length %d must be coordinate size - 1 = %d",
			len(tensorStride), coordinateSize-1))
	}

	nslots := slotCount(capacity)
	m := &CoordinateMap{
		store:        store.New(capacity, coordinateSize),
		seed:         rand.Uint64(),
		ctrl:         make([]uint8, nslots),
		rows:         make([]uint32, nslots),
		mask:         uint64(nslots - 1),
		tensorStride: append([]int32(nil), tensorStride...),
	}
	return m
}

// NewCoordinateMapWithBuffer creates a map whose coordinate arena wraps an
// externally allocated buffer. len(buf) must be a multiple of
// coordinateSize; the row capacity is len(buf)/coordinateSize.
func NewCoordinateMapWithBuffer(buf []int32, coordinateSize int, tensorStride []int32) *CoordinateMap {
	m := NewCoordinateMap(len(buf)/max(coordinateSize, 1), coordinateSize, tensorStride)
	m.store = store.FromBuffer(buf, coordinateSize)
	return m
}

// slotCount returns the power-of-two slot array size for a given capacity,
// keeping the load factor at or below 1/2.
func slotCount(capacity int) int {
	n := 2 * capacity
	if n < 8 {
		n = 8
	}
	return 1 << bits.Len(uint(n-1))
}

// Size returns the number of distinct coordinates in the map.
func (m *CoordinateMap) Size() int { return m.size }

// Capacity returns the declared row capacity.
func (m *CoordinateMap) Capacity() int { return m.store.Capacity() }

// CoordinateSize returns the number of components per coordinate.
func (m *CoordinateMap) CoordinateSize() int { return m.store.Width() }

// TensorStride returns the per-axis downsampling factor of this coordinate
// set. The returned slice is a copy.
func (m *CoordinateMap) TensorStride() []int32 {
	return append([]int32(nil), m.tensorStride...)
}

// Coordinate returns the stored components of a row. The slice aliases the
// internal arena and stays valid for the lifetime of the map.
func (m *CoordinateMap) Coordinate(row uint32) []int32 {
	return m.store.Row(int(row))
}

func tophash(h uint64) uint8 {
	top := uint8(h >> 56)
	if top < slotMinTop {
		top += slotMinTop
	}
	return top
}

// probe locates the slot for coord: either the slot of the existing entry
// (found=true) or the first empty slot of its probe chain (found=false).
func (m *CoordinateMap) probe(coord []int32) (slot uint64, found bool) {
	h := hash.Sum64(m.seed, coord)
	top := tophash(h)
	for slot = h & m.mask; ; slot = (slot + 1) & m.mask {
		switch {
		case m.ctrl[slot] == slotEmpty:
			return slot, false
		case m.ctrl[slot] == top && hash.Equal(m.store.Row(int(m.rows[slot])), coord):
			return slot, true
		}
	}
}

// insert copies coord into the arena at row and attempts the table insert.
// It returns the row owning the coordinate afterwards: row itself on a fresh
// insert, or the prior occupant's row when the key already exists. In the
// duplicate case the copied components are orphaned but harmless, since the
// arena was sized for the worst case and the row simply stays unused.
func (m *CoordinateMap) insert(coord []int32, row uint32) (uint32, bool) {
	if int(row) >= m.store.Capacity() {
		panic(fmt.Sprintf("coordinate map: row index %d exceeds capacity %d", row, m.store.Capacity()))
	}
	if len(coord) != m.store.Width() {
		panic(fmt.Sprintf("coordinate map: coordinate size %d, expected %d", len(coord), m.store.Width()))
	}
	m.store.Set(int(row), coord)

	view := m.store.Row(int(row))
	slot, found := m.probe(view)
	if found {
		return m.rows[slot], false
	}
	m.ctrl[slot] = tophash(hash.Sum64(m.seed, view))
	m.rows[slot] = row
	m.size++
	return row, true
}

// Insert maps coord to the given row index. It reports whether the key was
// newly inserted; false means an equal coordinate already owns a row and the
// map is unchanged. Inserting at a row index at or beyond the declared
// capacity panics.
func (m *CoordinateMap) Insert(coord []int32, row uint32) bool {
	_, inserted := m.insert(coord, row)
	return inserted
}

// InsertBatch interprets flat as len(flat)/coordinateSize consecutive
// coordinates and inserts them in order. Row indices are assigned densely in
// first-seen order; duplicate coordinates do not consume a row.
func (m *CoordinateMap) InsertBatch(flat []int32) {
	d := m.store.Width()
	if len(flat)%d != 0 {
		panic(fmt.Sprintf("coordinate map: batch length %d is not a multiple of coordinate size %d", len(flat), d))
	}
	n := len(flat) / d
	for i := 0; i < n; i++ {
		m.insert(flat[i*d:(i+1)*d], uint32(m.size))
	}
}

// InsertAndMap inserts a batch and reconstructs the inverse mapping.
//
// mapping holds the input positions that were the first occurrence of their
// coordinate value, in input order; its length is the number of distinct
// coordinates. inverse has one entry per input coordinate and gives the row
// that coordinate maps to, so gathering the unique rows through inverse
// reproduces the original batch.
//
// With remap enabled rows are assigned densely in first-seen order
// (0, 1, 2, ...). With remap disabled every input position keeps its own row
// slot, duplicates included; first occurrences then own their input position
// as row index. The disabled mode trades memory for an identity-like index
// space and requires capacity >= len(flat)/coordinateSize.
func (m *CoordinateMap) InsertAndMap(flat []int32, remap bool) (mapping, inverse []uint32) {
	d := m.store.Width()
	if len(flat)%d != 0 {
		panic(fmt.Sprintf("coordinate map: batch length %d is not a multiple of coordinate size %d", len(flat), d))
	}
	n := len(flat) / d
	mapping = make([]uint32, 0, n)
	inverse = make([]uint32, n)

	for i := 0; i < n; i++ {
		row := uint32(i)
		if remap {
			row = uint32(m.size)
		}
		owner, inserted := m.insert(flat[i*d:(i+1)*d], row)
		if inserted {
			mapping = append(mapping, uint32(i))
		}
		inverse[i] = owner
	}
	return mapping, inverse
}

// Find returns the row index of coord, or false if the coordinate is absent.
func (m *CoordinateMap) Find(coord []int32) (uint32, bool) {
	if len(coord) != m.store.Width() {
		panic(fmt.Sprintf("coordinate map: coordinate size %d, expected %d", len(coord), m.store.Width()))
	}
	if m.size == 0 {
		return 0, false
	}
	slot, found := m.probe(coord)
	if !found {
		return 0, false
	}
	return m.rows[slot], true
}

// FindBatch looks up len(flat)/coordinateSize query coordinates and returns
// two index-aligned slices: the positions (in query order) of the queries
// that were found, and their row indices. Misses are silently dropped.
func (m *CoordinateMap) FindBatch(flat []int32) (validIdx, rows []uint32) {
	d := m.store.Width()
	if len(flat)%d != 0 {
		panic(fmt.Sprintf("coordinate map: batch length %d is not a multiple of coordinate size %d", len(flat), d))
	}
	n := len(flat) / d
	validIdx = make([]uint32, 0, n)
	rows = make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		if row, ok := m.Find(flat[i*d : (i+1)*d]); ok {
			validIdx = append(validIdx, uint32(i))
			rows = append(rows, row)
		}
	}
	return validIdx, rows
}

// chunkBounds splits the slot array into nchunks contiguous ranges. Chunks
// are disjoint and cover every slot exactly once; boundaries are
// deterministic for a given table size.
func (m *CoordinateMap) chunkBounds(nchunks int) [][2]int {
	n := len(m.ctrl)
	if nchunks < 1 {
		nchunks = 1
	}
	if nchunks > n {
		nchunks = n
	}
	csize := (n + nchunks - 1) / nchunks
	bounds := make([][2]int, 0, nchunks)
	for lo := 0; lo < n; lo += csize {
		hi := lo + csize
		if hi > n {
			hi = n
		}
		bounds = append(bounds, [2]int{lo, hi})
	}
	return bounds
}

// scanRange calls fn for the row of every occupied slot in [lo, hi).
// It takes no locks; callers guarantee the map is not mutated concurrently.
func (m *CoordinateMap) scanRange(lo, hi int, fn func(row uint32)) {
	for slot := lo; slot < hi; slot++ {
		if m.ctrl[slot] != slotEmpty {
			fn(m.rows[slot])
		}
	}
}
