package odim

import (
	"sort"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupNameMatching(t *testing.T) {
	assert.True(t, isDatasetGroup("dataset1"))
	assert.True(t, isDatasetGroup("dataset12"))
	assert.False(t, isDatasetGroup("what"))
	assert.False(t, isDatasetGroup("how"))

	assert.True(t, isDataGroup("data1"))
	assert.False(t, isDataGroup("what"))
	assert.False(t, isDataGroup("where"))
}

func TestGroupNameBuilders(t *testing.T) {
	assert.Equal(t, "dataset1", datasetGroupName(1))
	assert.Equal(t, "dataset11", datasetGroupName(11))
	assert.Equal(t, "data3", dataGroupName(3))
}

func TestNameOrdering(t *testing.T) {
	names := []string{"dataset10", "dataset2", "dataset1", "what", "how", "where"}
	sort.Slice(names, func(i, j int) bool { return nameLess(names[i], names[j]) })
	assert.Equal(t, []string{"dataset1", "dataset2", "dataset10", "how", "what", "where"}, names)
}

func TestNewImagePlane(t *testing.T) {
	_, err := NewImagePlane(nil)
	assert.Error(t, err)
	_, err = NewImagePlane(sparse.ZerosDense(4))
	assert.Error(t, err)
	_, err = NewImagePlane(sparse.ZerosDense(2, 2, 2))
	assert.Error(t, err)
	p, err := NewImagePlane(sparse.ZerosDense(3, 4))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, p.Data.Shape)
}

func TestDecodePlaneDefaults(t *testing.T) {
	raw := sparse.ZerosDense(1, 2)
	raw.Set(40, 0, 0)
	raw.Set(80, 0, 1)

	// No what group at all: counts pass through unchanged.
	out := decodePlane(raw, nil)
	assert.InDelta(t, 40.0, out.Get(0, 0), 1e-9)

	// Offset present without gain: gain defaults to 1.
	out = decodePlane(raw, &WhatDset{Offset: Num(-32)})
	assert.InDelta(t, 8.0, out.Get(0, 0), 1e-9)
	assert.InDelta(t, 48.0, out.Get(0, 1), 1e-9)
}

func schemaNames(g AttrGroup) []string {
	fields := g.fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

func TestSupplementalSchemas(t *testing.T) {
	assert.Equal(t, []string{"startaz", "stopaz"}, schemaNames(&WhereSector{}))
	assert.Equal(t,
		[]string{"xsize", "ysize", "xscale", "yscale", "minheight", "maxheight"},
		schemaNames(&WhereCross{}))
	assert.Equal(t,
		[]string{"xsize", "ysize", "xscale", "yscale", "minheight", "maxheight",
			"start_lon", "start_lat", "stop_lon", "stop_lat"},
		schemaNames(&WhereCrossSection{}))
	assert.Equal(t,
		[]string{"lon", "lat", "az_angle", "angles", "range"},
		schemaNames(&WhereRhi{}))
	assert.Equal(t,
		[]string{"levels", "interval", "minheight", "maxheight"},
		schemaNames(&WhereVertProfile{}))
	assert.Equal(t,
		[]string{"angles", "arotation", "camethod", "nodes", "ACCnum"},
		schemaNames(&HowCartesianImageDset{}))
	assert.Equal(t,
		[]string{"minrange", "maxrange", "dealiased"},
		schemaNames(&HowVertProfileDset{}))
}

func TestSplitNumericSuffix(t *testing.T) {
	prefix, n, ok := splitNumericSuffix("dataset12")
	require.True(t, ok)
	assert.Equal(t, "dataset", prefix)
	assert.Equal(t, 12, n)

	_, _, ok = splitNumericSuffix("what")
	assert.False(t, ok)
}
