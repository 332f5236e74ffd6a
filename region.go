package minkowski

import "fmt"

// RegionType discriminates how a kernel region enumerates its neighbor
// offsets.
type RegionType uint8

const (
	// RegionHyperCube is a dense axis-aligned window (e.g. a 3x3 kernel).
	// A window with all kernel sizes 1 degenerates to the single-point
	// region used by 1x1 kernels and stride maps.
	RegionHyperCube RegionType = iota
	// RegionHyperCross visits only the axis-aligned arms of the window.
	RegionHyperCross
	// RegionCustom enumerates an explicit offset list.
	RegionCustom
)

func (t RegionType) String() string {
	switch t {
	case RegionHyperCube:
		return "HyperCube"
	case RegionHyperCross:
		return "HyperCross"
	case RegionCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Region describes a neighborhood kernel: the set of relative displacements
// around a center coordinate, in a deterministic order. Offset index k maps
// to the same displacement for every center, and a transposed region mirrors
// each displacement so forward and backward correspondences line up
// symmetrically.
//
// A Region is immutable after construction and safe for concurrent use;
// per-goroutine iteration state lives in RegionIterator.
type Region struct {
	rtype          RegionType
	coordinateSize int
	kernelSize     []int32
	dilation       []int32
	tensorStride   []int32
	kernelStride   []int32
	transposed     bool

	// offsets holds the precomputed spatial displacement for every offset
	// index, already scaled by dilation and tensor stride (and sign-flipped
	// for transposed regions). len(offsets) == Volume().
	offsets [][]int32
}

// RegionOption configures a Region under construction.
type RegionOption func(*Region)

// WithDilation sets the per-axis dilation factor. Defaults to all ones.
func WithDilation(dilation []int32) RegionOption {
	return func(r *Region) { r.dilation = append([]int32(nil), dilation...) }
}

// WithRegionTensorStride sets the tensor stride of the coordinate set the
// region will be applied to. Displacements of structured regions are scaled
// by it. Defaults to all ones.
func WithRegionTensorStride(tensorStride []int32) RegionOption {
	return func(r *Region) { r.tensorStride = append([]int32(nil), tensorStride...) }
}

// WithKernelStride sets the per-axis kernel stride, the factor by which a
// region-derived map is downsampled relative to its source (see
// CoordinateMap.StrideRegion). Defaults to all ones.
func WithKernelStride(kernelStride []int32) RegionOption {
	return func(r *Region) { r.kernelStride = append([]int32(nil), kernelStride...) }
}

// WithHyperCross selects the hyper-cross offset pattern instead of the dense
// hyper-cube.
func WithHyperCross() RegionOption {
	return func(r *Region) { r.rtype = RegionHyperCross }
}

// Transposed mirrors every displacement, producing the region used for the
// backward direction of a correspondence.
func Transposed() RegionOption {
	return func(r *Region) { r.transposed = true }
}

// NewRegion creates a structured (hyper-cube or hyper-cross) region for
// coordinates of coordinateSize components. kernelSize must have
// coordinateSize-1 positive entries.
func NewRegion(coordinateSize int, kernelSize []int32, opts ...RegionOption) *Region {
	r := &Region{
		rtype:          RegionHyperCube,
		coordinateSize: coordinateSize,
		kernelSize:     append([]int32(nil), kernelSize...),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.finish()
	return r
}

// NewCustomRegion creates a region from an explicit list of spatial
// displacements, each of coordinateSize-1 components, applied as given
// (dilation and tensor stride do not rescale custom offsets). Offset order
// follows the list.
func NewCustomRegion(coordinateSize int, offsets [][]int32, opts ...RegionOption) *Region {
	r := &Region{
		rtype:          RegionCustom,
		coordinateSize: coordinateSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.rtype = RegionCustom
	r.offsets = make([][]int32, len(offsets))
	for i, off := range offsets {
		if len(off) != coordinateSize-1 {
			panic(fmt.Sprintf("region: custom offset %d has %d components, expected %d", i, len(off), coordinateSize-1))
		}
		r.offsets[i] = append([]int32(nil), off...)
	}
	r.finish()
	return r
}

func (r *Region) finish() {
	d := r.coordinateSize - 1
	if d < 1 {
		panic(fmt.Sprintf("region: coordinate size %d must be at least 2", r.coordinateSize))
	}
	ones := func() []int32 {
		v := make([]int32, d)
		for i := range v {
			v[i] = 1
		}
		return v
	}
	if r.dilation == nil {
		r.dilation = ones()
	}
	if r.tensorStride == nil {
		r.tensorStride = ones()
	}
	if r.kernelStride == nil {
		r.kernelStride = ones()
	}
	if len(r.dilation) != d || len(r.tensorStride) != d || len(r.kernelStride) != d {
		panic(fmt.Sprintf("region: dilation/tensor stride/kernel stride must all have %d entries", d))
	}

	switch r.rtype {
	case RegionCustom:
		if r.transposed {
			for _, off := range r.offsets {
				for i := range off {
					off[i] = -off[i]
				}
			}
		}
	case RegionHyperCube, RegionHyperCross:
		if len(r.kernelSize) != d {
			panic(fmt.Sprintf("region: kernel size length %d, expected %d", len(r.kernelSize), d))
		}
		for i, k := range r.kernelSize {
			if k <= 0 {
				panic(fmt.Sprintf("region: non-positive kernel size %d at axis %d", k, i))
			}
		}
		if r.rtype == RegionHyperCube {
			r.offsets = r.cubeOffsets()
		} else {
			r.offsets = r.crossOffsets()
		}
	}
}

// cubeOffsets enumerates the dense window in odometer order, axis 0 fastest.
func (r *Region) cubeOffsets() [][]int32 {
	d := r.coordinateSize - 1
	volume := 1
	for _, k := range r.kernelSize {
		volume *= int(k)
	}
	sign := int32(1)
	if r.transposed {
		sign = -1
	}
	offsets := make([][]int32, volume)
	for k := 0; k < volume; k++ {
		off := make([]int32, d)
		rem := k
		for a := 0; a < d; a++ {
			ks := r.kernelSize[a]
			j := int32(rem % int(ks))
			rem /= int(ks)
			off[a] = sign * (j - (ks-1)/2) * r.dilation[a] * r.tensorStride[a]
		}
		offsets[k] = off
	}
	return offsets
}

// crossOffsets enumerates the center first, then each axis arm in order.
func (r *Region) crossOffsets() [][]int32 {
	d := r.coordinateSize - 1
	sign := int32(1)
	if r.transposed {
		sign = -1
	}
	offsets := [][]int32{make([]int32, d)}
	for a := 0; a < d; a++ {
		ks := r.kernelSize[a]
		center := (ks - 1) / 2
		for j := int32(0); j < ks; j++ {
			if j == center {
				continue
			}
			off := make([]int32, d)
			off[a] = sign * (j - center) * r.dilation[a] * r.tensorStride[a]
			offsets = append(offsets, off)
		}
	}
	return offsets
}

// Volume returns the number of offsets the region enumerates.
func (r *Region) Volume() int { return len(r.offsets) }

// Type returns the region's offset pattern discriminator.
func (r *Region) Type() RegionType { return r.rtype }

// CoordinateSize returns the number of components of the coordinates this
// region applies to.
func (r *Region) CoordinateSize() int { return r.coordinateSize }

// KernelStride returns the per-axis kernel stride. The slice is a copy.
func (r *Region) KernelStride() []int32 {
	return append([]int32(nil), r.kernelStride...)
}

// IsTransposed reports whether displacements are mirrored.
func (r *Region) IsTransposed() bool { return r.transposed }

// Offset returns the spatial displacement of offset index k. The slice
// aliases the region's internal table and must not be modified.
func (r *Region) Offset(k int) []int32 { return r.offsets[k] }

// signature uniquely identifies the region's geometry; used as part of
// kernel map cache keys.
func (r *Region) signature() string {
	return fmt.Sprintf("%s/ks=%v/dil=%v/ts=%v/kst=%v/t=%v/off=%v",
		r.rtype, r.kernelSize, r.dilation, r.tensorStride, r.kernelStride, r.transposed, r.offsets)
}

// RegionIterator walks the neighbors of one center coordinate. It owns its
// scratch buffer, so each goroutine uses its own iterator; the region itself
// stays shared and read-only.
type RegionIterator struct {
	r      *Region
	center []int32
	cur    []int32
	k      int
}

// Iterator returns a fresh iterator with no current center.
func (r *Region) Iterator() *RegionIterator {
	return &RegionIterator{
		r:   r,
		cur: make([]int32, r.coordinateSize),
		k:   -1,
	}
}

// Reset positions the iterator before the first neighbor of center. The
// center slice is captured, not copied; it must stay unchanged during
// iteration.
func (it *RegionIterator) Reset(center []int32) {
	if len(center) != it.r.coordinateSize {
		panic(fmt.Sprintf("region: center coordinate size %d, expected %d", len(center), it.r.coordinateSize))
	}
	it.center = center
	it.k = -1
}

// Next advances to the next neighbor, returning false when the region is
// exhausted.
func (it *RegionIterator) Next() bool {
	it.k++
	if it.k >= len(it.r.offsets) {
		return false
	}
	off := it.r.offsets[it.k]
	it.cur[0] = it.center[0]
	for a, o := range off {
		it.cur[a+1] = it.center[a+1] + o
	}
	return true
}

// K returns the current offset index.
func (it *RegionIterator) K() int { return it.k }

// Coordinate returns the current neighbor coordinate. The slice is reused by
// the next call to Next.
func (it *RegionIterator) Coordinate() []int32 { return it.cur }
