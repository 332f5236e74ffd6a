package minkowski

import (
	"fmt"
	"strings"
	"sync"
)

// MapKey identifies a coordinate map inside a CoordinateManager by its
// tensor stride and an optional string id, mirroring the way downsampled
// variants of one point cloud coexist at different strides.
type MapKey struct {
	tensorStride []int32
	id           string
}

// NewMapKey creates a key for the given tensor stride and id.
func NewMapKey(tensorStride []int32, id string) MapKey {
	return MapKey{
		tensorStride: append([]int32(nil), tensorStride...),
		id:           id,
	}
}

// TensorStride returns the key's tensor stride. The slice is a copy.
func (k MapKey) TensorStride() []int32 {
	return append([]int32(nil), k.tensorStride...)
}

// ID returns the key's string id.
func (k MapKey) ID() string { return k.id }

func (k MapKey) String() string {
	parts := make([]string, len(k.tensorStride))
	for i, s := range k.tensorStride {
		parts[i] = fmt.Sprint(s)
	}
	return strings.Join(parts, ",") + "/" + k.id
}

// CoordinateManager owns the coordinate maps of one sparse tensor network:
// the original map plus every strided, region-expanded and origin variant,
// and a cache of the kernel maps computed between them. All methods are safe
// for concurrent use; the underlying maps are immutable once registered.
type CoordinateManager struct {
	coordinateSize int
	workers        int
	logger         *Logger

	mu         sync.RWMutex
	maps       map[string]*CoordinateMap
	kernelMaps map[string]*KernelMap
}

// NewCoordinateManager creates a manager for coordinates of coordinateSize
// components.
func NewCoordinateManager(coordinateSize int, opts ...Option) *CoordinateManager {
	o := applyOptions(opts)
	if coordinateSize < 2 {
		panic(fmt.Sprintf("coordinate manager: coordinate size %d must be at least 2", coordinateSize))
	}
	return &CoordinateManager{
		coordinateSize: coordinateSize,
		workers:        o.workers,
		logger:         o.logger,
		maps:           make(map[string]*CoordinateMap),
		kernelMaps:     make(map[string]*KernelMap),
	}
}

// CoordinateSize returns the number of components per coordinate.
func (c *CoordinateManager) CoordinateSize() int { return c.coordinateSize }

// InsertAndMap builds a coordinate map from a flat batch, registers it under
// (tensorStride, id) and returns its key together with the unique-selection
// mapping and the inverse mapping (see CoordinateMap.InsertAndMap with remap
// enabled). Re-inserting under an existing key replaces the map; maps are
// never mutated in place.
func (c *CoordinateManager) InsertAndMap(coords []int32, tensorStride []int32, id string) (MapKey, []uint32, []uint32, error) {
	if len(coords) == 0 {
		return MapKey{}, nil, nil, ErrEmptyCoordinates
	}
	if len(coords)%c.coordinateSize != 0 {
		return MapKey{}, nil, nil, &ErrCoordinateSizeMismatch{Expected: c.coordinateSize, Actual: len(coords)}
	}
	if len(tensorStride) != c.coordinateSize-1 {
		return MapKey{}, nil, nil, &ErrStrideLengthMismatch{Expected: c.coordinateSize - 1, Actual: len(tensorStride)}
	}

	n := len(coords) / c.coordinateSize
	m := NewCoordinateMap(n, c.coordinateSize, tensorStride)
	mapping, inverse := m.InsertAndMap(coords, true)

	key := NewMapKey(tensorStride, id)
	c.mu.Lock()
	c.maps[key.String()] = m
	c.mu.Unlock()

	c.logger.LogInsert(n, m.Size(), tensorStride)
	return key, mapping, inverse, nil
}

// Map returns the coordinate map registered under key.
func (c *CoordinateManager) Map(key MapKey) (*CoordinateMap, error) {
	c.mu.RLock()
	m, ok := c.maps[key.String()]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, key)
	}
	return m, nil
}

// Exists reports whether a map is registered under key.
func (c *CoordinateManager) Exists(key MapKey) bool {
	c.mu.RLock()
	_, ok := c.maps[key.String()]
	c.mu.RUnlock()
	return ok
}

// Stride derives (or reuses) the downsampled map of key and returns the
// derived map's key. The derived tensor stride is the elementwise product of
// the source stride and the factor.
func (c *CoordinateManager) Stride(key MapKey, stride []int32) (MapKey, error) {
	if len(stride) != c.coordinateSize-1 {
		return MapKey{}, &ErrStrideLengthMismatch{Expected: c.coordinateSize - 1, Actual: len(stride)}
	}
	m, err := c.Map(key)
	if err != nil {
		return MapKey{}, err
	}

	outKey := NewMapKey(mulStride(key.tensorStride, stride), key.id)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.maps[outKey.String()]; ok {
		return outKey, nil
	}
	out := m.Stride(stride)
	c.maps[outKey.String()] = out
	c.logger.LogStride(m.Size(), out.Size(), stride)
	return outKey, nil
}

// Origin derives (or reuses) the batch-origin map of key.
func (c *CoordinateManager) Origin(key MapKey) (MapKey, error) {
	m, err := c.Map(key)
	if err != nil {
		return MapKey{}, err
	}

	outKey := NewMapKey(key.tensorStride, key.id+":origin")
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.maps[outKey.String()]; ok {
		return outKey, nil
	}
	c.maps[outKey.String()] = m.Origin()
	return outKey, nil
}

// KernelMap computes (or returns the cached) correspondence between the maps
// registered under inKey and outKey for the given region. Repeated calls
// with an identical (inKey, outKey, region geometry) triple return the same
// KernelMap instance.
func (c *CoordinateManager) KernelMap(inKey, outKey MapKey, region *Region) (*KernelMap, error) {
	in, err := c.Map(inKey)
	if err != nil {
		return nil, err
	}
	out, err := c.Map(outKey)
	if err != nil {
		return nil, err
	}

	cacheKey := inKey.String() + "|" + outKey.String() + "|" + region.signature()
	c.mu.RLock()
	km, ok := c.kernelMaps[cacheKey]
	c.mu.RUnlock()
	if ok {
		return km, nil
	}

	km = in.KernelMap(out, region, WithWorkers(c.workers), WithLogger(c.logger))

	c.mu.Lock()
	// Another goroutine may have raced us here; keep the first result so
	// callers always see one instance per signature.
	if prior, ok := c.kernelMaps[cacheKey]; ok {
		km = prior
	} else {
		c.kernelMaps[cacheKey] = km
	}
	c.mu.Unlock()
	return km, nil
}

// Coordinates exports the coordinates of the map registered under key as a
// flat row-major batch of Size()*CoordinateSize() components.
func (c *CoordinateManager) Coordinates(key MapKey) ([]int32, error) {
	m, err := c.Map(key)
	if err != nil {
		return nil, err
	}
	buf := make([]int32, m.Capacity()*m.CoordinateSize())
	m.CopyCoordinates(buf, WithWorkers(c.workers))
	return buf[:m.Size()*m.CoordinateSize()], nil
}
