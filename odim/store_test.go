package odim

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStore creates an HDF5 file in a per-test temp directory,
// skipping the test when the binding cannot create files on this system.
func createTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "test.h5")
	s, err := CreateStore(filename)
	if err != nil {
		t.Skipf("HDF5 binding unavailable: %v", err)
	}
	return s, filename
}

func TestAttrRoundTrip(t *testing.T) {
	s, filename := createTestStore(t)
	require.NoError(t, s.RequireGroup("what"))
	require.NoError(t, s.WriteStringAttr("what", "object", "PVOL"))
	require.NoError(t, s.WriteFloatAttr("what", "gain", 0.5))
	require.NoError(t, s.WriteIntAttr("what", "xsize", 400))
	require.NoError(t, s.WriteFloatSliceAttr("what", "elangles", []float64{0.5, 1.4, 9.0}))
	require.NoError(t, s.Close())

	s, err := OpenStore(filename)
	require.NoError(t, err)
	defer s.Close()

	str, ok, err := s.ReadStringAttr("what", "object")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "PVOL", str)

	f, ok, err := s.ReadFloatAttr("what", "gain")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.5, f)

	// Integers read back through the float path.
	f, ok, err = s.ReadFloatAttr("what", "xsize")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 400.0, f)

	fs, ok, err := s.ReadFloatSliceAttr("what", "elangles")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{0.5, 1.4, 9.0}, fs)

	// An absent attribute is not an error.
	_, ok, err = s.ReadStringAttr("what", "nosuch")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGroupRoundTrip(t *testing.T) {
	s, filename := createTestStore(t)
	rhi := &WhereRhi{
		Lon:     Num(11.6236),
		Lat:     Num(44.6547),
		AzAngle: Num(45),
		Angles:  []float64{0.5, 1.4},
		Range:   Num(125),
	}
	require.NoError(t, s.RequireGroup("dataset1"))
	require.NoError(t, s.WriteGroup("dataset1/where", rhi))
	require.NoError(t, s.Close())

	s, err := OpenStore(filename)
	require.NoError(t, err)
	defer s.Close()

	got := &WhereRhi{}
	require.NoError(t, s.ReadGroup("dataset1/where", got))
	require.NotNil(t, got.Lon)
	assert.Equal(t, 11.6236, *got.Lon)
	assert.Equal(t, 45.0, *got.AzAngle)
	assert.Equal(t, []float64{0.5, 1.4}, got.Angles)
	assert.Equal(t, 125.0, *got.Range)
}

func exportableVolume(t *testing.T) *PolarVolume {
	t.Helper()
	v := testVolume(t)
	v.What = What{
		Object:  Str("PVOL"),
		Version: Str("H5rad 2.0"),
		Date:    Str("20260815"),
		Time:    Str("133000"),
		Source:  Str("WMO:16144"),
	}
	v.Where = WherePolar{Lon: Num(11.6236), Lat: Num(44.6547), Height: Num(31)}
	v.How = How{Task: Str("volume"), System: Str("GEMA500")}
	return v
}

func TestVolumeExportRoundTrip(t *testing.T) {
	s, filename := createTestStore(t)
	require.NoError(t, s.Close())

	v := exportableVolume(t)
	require.NoError(t, v.Export(filename))

	got, err := ReadVolume(filename)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.4, 9.0}, got.ElevationAngles)
	assert.Equal(t, []string{"Z", "VRAD"}, got.QuantityNames)
	require.NotNil(t, got.What.Source)
	assert.Equal(t, "WMO:16144", *got.What.Source)
	require.NotNil(t, got.Where.Lat)
	assert.Equal(t, 44.6547, *got.Where.Lat)
	require.NotNil(t, got.How.Task)
	assert.Equal(t, "volume", *got.How.Task)

	z, err := got.DataByElevation(0.5, "Z")
	require.NoError(t, err)
	assert.InDelta(t, 18.0, z.Get(0, 0), 1e-9)

	vr, err := got.DataByElevation(1.4, "VRAD")
	require.NoError(t, err)
	assert.InDelta(t, 8.0, vr.Get(1, 1), 1e-9)
}

func TestVolumeExportCompatRoundTrip(t *testing.T) {
	s, filename := createTestStore(t)
	require.NoError(t, s.Close())

	v := exportableVolume(t)
	require.NoError(t, v.ExportCompat(filename))

	got, err := ReadVolume(filename)
	require.NoError(t, err)
	// One fewer elevation group and one fewer data group per elevation.
	assert.Equal(t, 2, got.ElevationCount())
	assert.Equal(t, 1, got.QuantityCountMax())
	assert.Equal(t, []float64{0.5, 1.4}, got.ElevationAngles)
	assert.Equal(t, []string{"Z"}, got.QuantityNames)
}

func TestReadVolumeWithoutHowGroups(t *testing.T) {
	s, filename := createTestStore(t)
	require.NoError(t, s.RequireGroup("what"))
	require.NoError(t, s.WriteStringAttr("what", "object", "PVOL"))
	require.NoError(t, s.RequireGroup("where"))
	require.NoError(t, s.WriteFloatAttr("where", "lat", 44.6547))
	require.NoError(t, s.RequireGroup("dataset1"))
	require.NoError(t, s.RequireGroup("dataset1/what"))
	require.NoError(t, s.RequireGroup("dataset1/where"))
	require.NoError(t, s.WriteFloatAttr("dataset1/where", "elangle", 0.5))
	require.NoError(t, s.RequireGroup("dataset1/data1"))
	require.NoError(t, s.RequireGroup("dataset1/data1/what"))
	require.NoError(t, s.WriteStringAttr("dataset1/data1/what", "quantity", "Z"))
	dset, err := s.WriteData("dataset1/data1/data", plane(2, 2, 42))
	require.NoError(t, err)
	require.NoError(t, dset.Close())
	require.NoError(t, s.Close())

	// Neither the root nor the dataset group carries a how group; reading
	// must still succeed.
	got, err := ReadVolume(filename)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, got.ElevationAngles)
	assert.Equal(t, []string{"Z"}, got.QuantityNames)
	assert.Nil(t, got.How.Task)

	raw, err := got.DataByElevation(0.5, "Z")
	require.NoError(t, err)
	assert.InDelta(t, 42.0, raw.Get(0, 0), 1e-9)
}

func testImage(t *testing.T) *Image {
	t.Helper()
	p, err := NewImagePlane(plane(2, 3, 120))
	require.NoError(t, err)
	return &Image{
		What: What{
			Object:  Str("UNKNOWN"),
			Version: Str("ODIM_H5/V2_0"),
			Date:    Str("20260815"),
			Time:    Str("133000"),
			Source:  Str("WMO:16144"),
		},
		Where: WhereImage{
			Projdef: Str("+proj=eqc +lat_0=44.6547 +lon_0=11.6236 +ellps=WGS84 +R=6370.9970"),
			Xsize:   Int(3),
			Ysize:   Int(2),
			Xscale:  Num(1000),
			Yscale:  Num(1000),
			LLLon:   Num(10.0),
			LLLat:   Num(43.0),
		},
		How:      How{Task: Str("composite")},
		DsetWhat: &WhatDset{Product: Str("COMP"), Startdate: Str("20260815"), Starttime: Str("133000")},
		DataWhat: &WhatDset{Quantity: Str("ETOP")},
		Plane:    p,
	}
}

func TestImageExportRoundTrip(t *testing.T) {
	s, filename := createTestStore(t)
	require.NoError(t, s.Close())

	img := testImage(t)
	require.NoError(t, img.Export(filename))

	got, err := ReadImage(filename)
	require.NoError(t, err)
	require.NotNil(t, got.Where.Projdef)
	assert.Equal(t, *img.Where.Projdef, *got.Where.Projdef)
	require.NotNil(t, got.Where.Xsize)
	assert.Equal(t, int64(3), *got.Where.Xsize)
	assert.Equal(t, 1000.0, *got.Where.Xscale)
	assert.Equal(t, 10.0, *got.Where.LLLon)
	// yscale is not part of the historical export subset.
	assert.Nil(t, got.Where.Yscale)
	require.NotNil(t, got.DataWhat.Quantity)
	assert.Equal(t, "ETOP", *got.DataWhat.Quantity)
	assert.Equal(t, []int{2, 3}, got.Plane.Data.Shape)
	assert.InDelta(t, 120.0, got.Plane.Data.Get(1, 2), 1e-9)
}

func TestMakeCompliant(t *testing.T) {
	s, filename := createTestStore(t)
	require.NoError(t, s.Close())

	require.NoError(t, testImage(t).Export(filename))
	require.NoError(t, MakeCompliant(filename, "ETM"))

	s, err := OpenStore(filename)
	require.NoError(t, err)
	defer s.Close()

	conv, ok, err := s.ReadStringAttr("/", "Conventions")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ODIM_H5/V2_1", conv)

	version, ok, err := s.ReadStringAttr("what", "version")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ODIM_H5/V2_1", version)

	object, ok, err := s.ReadStringAttr("what", "object")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "IMAGE", object)

	for _, path := range []string{"dataset1/what", "dataset1/data1/what"} {
		q, ok, err := s.ReadStringAttr(path, "quantity")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "HGHT", q, path)
	}

	gain, ok, err := s.ReadFloatAttr("dataset1/data1/what", "gain")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.0, gain)
	offset, ok, err := s.ReadFloatAttr("dataset1/data1/what", "offset")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.0, offset)

	epochs, ok, err := s.ReadFloatAttr("how", "startepochs")
	require.NoError(t, err)
	require.True(t, ok)
	want := time.Date(2026, 8, 15, 13, 30, 0, 0, time.UTC).Unix()
	assert.Equal(t, float64(want), epochs)
}

func TestReadVolumeMissingFile(t *testing.T) {
	_, err := ReadVolume(filepath.Join(t.TempDir(), "nosuch.h5"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
