package radarmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCellCounts(t *testing.T) {
	tests := []struct {
		name   string
		grid   Grid
		wantNx int
		wantNy int
	}{
		{
			"unit steps",
			Grid{Limits: [4]float64{0, 0, 10, 20}, Dx: 1, Dy: 1},
			21, 11,
		},
		{
			"fractional steps round to nearest node",
			Grid{Limits: [4]float64{44, 10, 46, 13}, Dx: 0.5, Dy: 0.25},
			7, 9,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.grid
			g.ComputeCellCounts()
			assert.Equal(t, tt.wantNx, g.Nx)
			assert.Equal(t, tt.wantNy, g.Ny)
		})
	}
}

func TestNewProduct(t *testing.T) {
	p := NewProduct("LBM")
	assert.Equal(t, "Lowest Beam Map Reflectivity", p.LongName)

	unknown := NewProduct("NOPE")
	assert.Equal(t, "NOPE", unknown.Name)
	assert.Empty(t, unknown.LongName)
}

func TestVariableByName(t *testing.T) {
	v, ok := VariableByName("Z")
	require.True(t, ok)
	assert.Equal(t, "dBZ", v.Units)
	assert.Equal(t, float32(-70), v.Missing)
	assert.Equal(t, float32(-64), v.Undetect)

	v, ok = VariableByName("cum_pr_mm")
	require.True(t, ok)
	assert.Equal(t, "precipitation_amount", v.StandardName)
	assert.Equal(t, "mm", v.Units)

	_, ok = VariableByName("no-such-quantity")
	assert.False(t, ok)
}

func TestProjectionSRRequiresProjString(t *testing.T) {
	var p Projection
	_, err := p.SR()
	require.Error(t, err)
}

func TestEqcRoundTrip(t *testing.T) {
	projstring := "+proj=eqc +lat_0=44.7914 +lon_0=10.4992 +ellps=WGS84 +R=6370.9970"

	x, y, err := ProjectForward(projstring, 10.4992, 44.7914)
	require.NoError(t, err)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)

	// One degree of latitude spans 2*pi*R/360 northward.
	_, y, err = ProjectForward(projstring, 10.4992, 45.7914)
	require.NoError(t, err)
	assert.InDelta(t, 2*3.141592653589793*6370.997/360, y, 1e-6)

	lon, lat, err := ProjectInverse(projstring, 25, -40)
	require.NoError(t, err)
	x, y, err = ProjectForward(projstring, lon, lat)
	require.NoError(t, err)
	assert.InDelta(t, 25, x, 1e-9)
	assert.InDelta(t, -40, y, 1e-9)
}

func TestParseEqc(t *testing.T) {
	p, ok, err := parseEqc("+proj=eqc +lat_0=44.0 +lon_0=11.0 +R=6370.9970")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 44.0, p.lat0)
	assert.Equal(t, 11.0, p.lon0)
	assert.Equal(t, 6370.997, p.r)

	_, ok, err = parseEqc("+proj=tmerc +lat_0=42.0 +lon_0=10.0 +ellps=WGS84")
	require.NoError(t, err)
	assert.False(t, ok)
}
