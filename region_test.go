package minkowski

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionVolume(t *testing.T) {
	tests := []struct {
		name   string
		region *Region
		volume int
	}{
		{"Cube3x3", NewRegion(3, []int32{3, 3}), 9},
		{"Cube5x1", NewRegion(3, []int32{5, 1}), 5},
		{"SinglePoint", NewRegion(3, []int32{1, 1}), 1},
		{"Cross3x3", NewRegion(3, []int32{3, 3}, WithHyperCross()), 5},
		{"Cross5x3", NewRegion(3, []int32{5, 3}, WithHyperCross()), 7},
		{"Cube3x3x3", NewRegion(4, []int32{3, 3, 3}), 27},
		{"Custom", NewCustomRegion(3, [][]int32{{0, 0}, {1, 2}}), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.volume, tt.region.Volume())
		})
	}
}

func TestRegionType(t *testing.T) {
	assert.Equal(t, RegionHyperCube, NewRegion(3, []int32{3, 3}).Type())
	assert.Equal(t, RegionHyperCross, NewRegion(3, []int32{3, 3}, WithHyperCross()).Type())
	assert.Equal(t, RegionCustom, NewCustomRegion(3, [][]int32{{0, 0}}).Type())
	assert.Equal(t, "HyperCube", RegionHyperCube.String())
}

func TestRegionCubeOffsets(t *testing.T) {
	region := NewRegion(3, []int32{3, 3})

	// Odometer order, axis 0 fastest: k=0 is the (-1,-1) corner, the
	// window center sits at k=4.
	assert.Equal(t, []int32{-1, -1}, region.Offset(0))
	assert.Equal(t, []int32{0, -1}, region.Offset(1))
	assert.Equal(t, []int32{1, -1}, region.Offset(2))
	assert.Equal(t, []int32{0, 0}, region.Offset(4))
	assert.Equal(t, []int32{1, 1}, region.Offset(8))
}

func TestRegionCrossOffsets(t *testing.T) {
	region := NewRegion(3, []int32{3, 3}, WithHyperCross())

	// Center first, then the axis arms in order.
	assert.Equal(t, []int32{0, 0}, region.Offset(0))
	assert.Equal(t, []int32{-1, 0}, region.Offset(1))
	assert.Equal(t, []int32{1, 0}, region.Offset(2))
	assert.Equal(t, []int32{0, -1}, region.Offset(3))
	assert.Equal(t, []int32{0, 1}, region.Offset(4))
}

func TestRegionDilationAndTensorStride(t *testing.T) {
	region := NewRegion(3, []int32{3, 3},
		WithDilation([]int32{2, 2}),
		WithRegionTensorStride([]int32{4, 4}),
	)

	// Displacements scale by dilation * tensor stride.
	assert.Equal(t, []int32{-8, -8}, region.Offset(0))
	assert.Equal(t, []int32{8, 8}, region.Offset(8))
}

func TestRegionTransposed(t *testing.T) {
	region := NewRegion(3, []int32{3, 5})
	mirror := NewRegion(3, []int32{3, 5}, Transposed())

	require.Equal(t, region.Volume(), mirror.Volume())
	for k := 0; k < region.Volume(); k++ {
		off := region.Offset(k)
		moff := mirror.Offset(k)
		for a := range off {
			assert.Equal(t, -off[a], moff[a], "offset %d axis %d", k, a)
		}
	}
	assert.True(t, mirror.IsTransposed())
}

func TestRegionIterator(t *testing.T) {
	region := NewRegion(3, []int32{3, 3})
	it := region.Iterator()

	center := []int32{2, 10, 20}
	it.Reset(center)

	seen := 0
	for it.Next() {
		k := it.K()
		nb := it.Coordinate()
		off := region.Offset(k)

		assert.Equal(t, center[0], nb[0], "batch component must pass through")
		assert.Equal(t, center[1]+off[0], nb[1])
		assert.Equal(t, center[2]+off[1], nb[2])
		seen++
	}
	assert.Equal(t, region.Volume(), seen)

	// Reset allows reuse on a new center.
	it.Reset([]int32{0, 0, 0})
	require.True(t, it.Next())
	assert.Equal(t, []int32{0, -1, -1}, it.Coordinate())
}

func TestRegionCustomIterator(t *testing.T) {
	offsets := [][]int32{{0, 0}, {2, -1}, {-3, 4}}
	region := NewCustomRegion(3, offsets)
	it := region.Iterator()
	it.Reset([]int32{1, 5, 5})

	var got [][]int32
	for it.Next() {
		got = append(got, append([]int32(nil), it.Coordinate()...))
	}
	assert.Equal(t, [][]int32{
		{1, 5, 5},
		{1, 7, 4},
		{1, 2, 9},
	}, got)
}

func TestRegionPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewRegion(3, []int32{3}) // kernel size length != coordinate size - 1
	})
	assert.Panics(t, func() {
		NewRegion(3, []int32{0, 3})
	})
	assert.Panics(t, func() {
		NewCustomRegion(3, [][]int32{{1}})
	})
	assert.Panics(t, func() {
		NewRegion(3, []int32{3, 3}, WithDilation([]int32{1}))
	})

	it := NewRegion(3, []int32{3, 3}).Iterator()
	assert.Panics(t, func() {
		it.Reset([]int32{0, 0})
	})
}

func TestRegionSignature(t *testing.T) {
	a := NewRegion(3, []int32{3, 3})
	b := NewRegion(3, []int32{3, 3})
	c := NewRegion(3, []int32{3, 3}, WithDilation([]int32{2, 2}))

	assert.Equal(t, a.signature(), b.signature())
	assert.NotEqual(t, a.signature(), c.signature())
	assert.NotEqual(t, a.signature(), NewRegion(3, []int32{3, 3}, Transposed()).signature())
}
