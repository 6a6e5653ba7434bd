package zlr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadReflectivity(t *testing.T) {
	// A 16x16 raster with one marked cell at row-major position (1, 2).
	raw := make([]byte, 256)
	raw[1*16+2] = 255
	bundle, field, err := Read(raw, "GAT202608281230.ZLR", "gat")
	require.NoError(t, err)

	assert.Equal(t, []int{16, 16}, field.Shape)
	// The reflectivity raster is column-major, so the marked cell lands
	// transposed, scaled to the top of the [-20, 60] dBZ range.
	assert.InDelta(t, 60.0, field.Get(2, 1), 1e-9)
	assert.InDelta(t, -20.0, field.Get(1, 2), 1e-9)
	assert.InDelta(t, -20.0, field.Get(0, 0), 1e-9)

	assert.Equal(t, "Z_60", bundle.Variable.Name)
	assert.Equal(t, "dBZ", bundle.Variable.Units)
	assert.Equal(t, time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC), bundle.Time.Validity)
	assert.Equal(t, bundle.Time.Validity, bundle.Time.Emission)
	assert.Equal(t, "ZLR", bundle.Product.Name)
	assert.Equal(t, "gat", bundle.Product.Radar)
	assert.Equal(t, "gat", bundle.Source.NameSource)
	assert.Equal(t, "GAT202608281230.ZLR", bundle.Source.NameFile)
	assert.Equal(t, 16, bundle.Grid.Nx)
	assert.Equal(t, "degrees", bundle.Grid.UnitsDx)
	require.NotNil(t, bundle.CoordsX)
	assert.Len(t, bundle.CoordsX.Vals, 16)
	assert.InDelta(t, bundle.Grid.Limits[1], bundle.CoordsX.Vals[0], 1e-9)
	assert.InDelta(t, bundle.Grid.Limits[3], bundle.CoordsX.Vals[15], 1e-9)
	// The grid straddles the site.
	assert.Less(t, bundle.Grid.Limits[0], 44.7914)
	assert.Greater(t, bundle.Grid.Limits[2], 44.7914)
}

func TestReadQuality(t *testing.T) {
	raw := make([]byte, 256)
	raw[1*16+2] = 90
	bundle, field, err := Read(raw, "SPC202608281230.qual_ZLR", "spc")
	require.NoError(t, err)

	assert.Equal(t, "ZLR_QUA", bundle.Variable.Name)
	// Quality rasters are row-major and scaled to hundredths.
	assert.InDelta(t, 0.9, field.Get(1, 2), 1e-9)
	assert.InDelta(t, 0.0, field.Get(2, 1), 1e-9)
	assert.InDelta(t, 44.6547, *bundle.Projection.CenterLat, 1e-9)
	assert.InDelta(t, 11.6236, *bundle.Projection.CenterLon, 1e-9)
}

func TestReadRangeClass(t *testing.T) {
	bundle, _, err := Read(make([]byte, 256*256), "GAT202608281230.ZLR", "gat")
	require.NoError(t, err)
	assert.Equal(t, "corto", bundle.Product.RangeClass)

	bundle, _, err = Read(make([]byte, 512*512), "GAT202608281230.ZLR", "gat")
	require.NoError(t, err)
	assert.Equal(t, "medio", bundle.Product.RangeClass)
}

func TestReadErrors(t *testing.T) {
	_, _, err := Read(make([]byte, 10), "x.ZLR", "gat")
	assert.Error(t, err)
	_, _, err = Read(make([]byte, 256), "x.ZLR", "bologna")
	assert.Error(t, err)
}

func TestTimeFromName(t *testing.T) {
	got, err := timeFromName("/data/SPC202601020304.qual_ZLR")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC), got)

	_, err = timeFromName("short.ZLR")
	assert.Error(t, err)
}
