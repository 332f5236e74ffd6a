package minkowski

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerInsertAndMap(t *testing.T) {
	mgr := NewCoordinateManager(3)

	key, mapping, inverse, err := mgr.InsertAndMap([]int32{
		0, 0, 0,
		0, 0, 0,
		0, 2, 2,
	}, []int32{1, 1}, "")
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 2}, mapping)
	assert.Equal(t, []uint32{0, 0, 1}, inverse)
	assert.Equal(t, []int32{1, 1}, key.TensorStride())
	assert.True(t, mgr.Exists(key))

	m, err := mgr.Map(key)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Size())
}

func TestManagerValidation(t *testing.T) {
	mgr := NewCoordinateManager(3)

	_, _, _, err := mgr.InsertAndMap(nil, []int32{1, 1}, "")
	assert.ErrorIs(t, err, ErrEmptyCoordinates)

	_, _, _, err = mgr.InsertAndMap([]int32{0, 0}, []int32{1, 1}, "")
	var sizeErr *ErrCoordinateSizeMismatch
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 3, sizeErr.Expected)

	_, _, _, err = mgr.InsertAndMap([]int32{0, 0, 0}, []int32{1}, "")
	var strideErr *ErrStrideLengthMismatch
	require.ErrorAs(t, err, &strideErr)
	assert.Equal(t, 2, strideErr.Expected)
	assert.Equal(t, 1, strideErr.Actual)
}

func TestManagerMapNotFound(t *testing.T) {
	mgr := NewCoordinateManager(3)

	_, err := mgr.Map(NewMapKey([]int32{1, 1}, "missing"))
	assert.True(t, errors.Is(err, ErrMapNotFound))

	_, err = mgr.Stride(NewMapKey([]int32{1, 1}, "missing"), []int32{2, 2})
	assert.True(t, errors.Is(err, ErrMapNotFound))
}

func TestManagerStride(t *testing.T) {
	mgr := NewCoordinateManager(3)

	key, _, _, err := mgr.InsertAndMap([]int32{
		0, 0, 0,
		0, 1, 1,
		0, 2, 2,
	}, []int32{1, 1}, "")
	require.NoError(t, err)

	outKey, err := mgr.Stride(key, []int32{2, 2})
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 2}, outKey.TensorStride())

	out, err := mgr.Map(outKey)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Size()) // (0,0,0) and (0,1,1)

	// A repeated derivation reuses the registered map.
	again, err := mgr.Stride(key, []int32{2, 2})
	require.NoError(t, err)
	reused, err := mgr.Map(again)
	require.NoError(t, err)
	assert.Same(t, out, reused)
}

func TestManagerOrigin(t *testing.T) {
	mgr := NewCoordinateManager(3)

	key, _, _, err := mgr.InsertAndMap([]int32{
		0, 1, 1,
		2, 1, 1,
	}, []int32{1, 1}, "")
	require.NoError(t, err)

	originKey, err := mgr.Origin(key)
	require.NoError(t, err)

	origin, err := mgr.Map(originKey)
	require.NoError(t, err)
	assert.Equal(t, 2, origin.Size())
}

func TestManagerKernelMapCaching(t *testing.T) {
	mgr := NewCoordinateManager(3, WithWorkers(2))

	key, _, _, err := mgr.InsertAndMap([]int32{
		0, 0, 0,
		0, 1, 0,
		0, 0, 1,
		0, 1, 1,
	}, []int32{1, 1}, "")
	require.NoError(t, err)

	region := NewRegion(3, []int32{3, 3})
	km1, err := mgr.KernelMap(key, key, region)
	require.NoError(t, err)

	// An identically parameterized region hits the cache.
	km2, err := mgr.KernelMap(key, key, NewRegion(3, []int32{3, 3}))
	require.NoError(t, err)
	assert.Same(t, km1, km2)

	// Different geometry misses it.
	km3, err := mgr.KernelMap(key, key, NewRegion(3, []int32{3, 3}, Transposed()))
	require.NoError(t, err)
	assert.NotSame(t, km1, km3)
}

func TestManagerCoordinates(t *testing.T) {
	mgr := NewCoordinateManager(3)

	coords := []int32{
		0, 0, 0,
		0, 2, 2,
		0, 4, 4,
	}
	key, _, _, err := mgr.InsertAndMap(coords, []int32{1, 1}, "")
	require.NoError(t, err)

	got, err := mgr.Coordinates(key)
	require.NoError(t, err)
	assert.Equal(t, coords, got)
}
