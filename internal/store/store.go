// Package store provides the flat coordinate arena backing a coordinate map.
//
// A Store is a single contiguous int32 buffer holding capacity*width
// components. Rows are written exactly once at a caller-chosen row index and
// never relocate, so slices returned by Row stay valid for the lifetime of
// the store. The buffer never grows; writing past the declared capacity is a
// programming error and panics.
package store

import "fmt"

// Store is a preallocated, append-only coordinate arena.
type Store struct {
	buf      []int32
	capacity int
	width    int
}

// New creates a Store with room for capacity rows of width components each.
func New(capacity, width int) *Store {
	if capacity < 0 || width <= 0 {
		panic(fmt.Sprintf("store: invalid shape: capacity=%d width=%d", capacity, width))
	}
	return &Store{
		buf:      make([]int32, capacity*width),
		capacity: capacity,
		width:    width,
	}
}

// FromBuffer wraps an externally allocated buffer. len(buf) must be a
// multiple of width; the resulting capacity is len(buf)/width.
func FromBuffer(buf []int32, width int) *Store {
	if width <= 0 || len(buf)%width != 0 {
		panic(fmt.Sprintf("store: buffer length %d is not a multiple of width %d", len(buf), width))
	}
	return &Store{
		buf:      buf,
		capacity: len(buf) / width,
		width:    width,
	}
}

// Set copies the coordinate into the row's slot. The slot may be written
// again (e.g. by a duplicate insert that lost the race for a table entry);
// callers that need write-once semantics enforce it themselves.
func (s *Store) Set(row int, coord []int32) {
	if row < 0 || row >= s.capacity {
		panic(fmt.Sprintf("store: row %d out of range, capacity %d", row, s.capacity))
	}
	if len(coord) != s.width {
		panic(fmt.Sprintf("store: coordinate size %d does not match width %d", len(coord), s.width))
	}
	copy(s.buf[row*s.width:(row+1)*s.width], coord)
}

// Row returns the components of the given row. The slice aliases the
// underlying buffer; it must not be appended to.
func (s *Store) Row(row int) []int32 {
	if row < 0 || row >= s.capacity {
		panic(fmt.Sprintf("store: row %d out of range, capacity %d", row, s.capacity))
	}
	off := row * s.width
	return s.buf[off : off+s.width : off+s.width]
}

// Capacity returns the number of rows the store can hold.
func (s *Store) Capacity() int { return s.capacity }

// Width returns the number of components per row.
func (s *Store) Width() int { return s.width }

// Buffer returns the underlying flat buffer.
func (s *Store) Buffer() []int32 { return s.buf }
