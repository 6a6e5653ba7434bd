package bufr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectionEmiliaRomagna(t *testing.T) {
	d := NewDecoder(tableOf(
		line("0", "29", "201", "0", "PROJECTION TYPE"),
		line("0", "29", "193", "11.0000", "LONGITUDE OF ORIGIN"),
		line("0", "29", "194", "44.0000", "LATITUDE OF ORIGIN"),
	))
	p := d.Projection("Arpae Emilia-Romagna", "GAT")
	require.NotNil(t, p.ProjectionIndex)
	assert.Equal(t, 0, *p.ProjectionIndex)
	// Site coordinates override whatever the table says for known radars.
	assert.Equal(t, 10.4992, *p.CenterLon)
	assert.Equal(t, 44.7914, *p.CenterLat)
	assert.Equal(t, "Cartesian lat-lon", p.ProjName)
	assert.Equal(t, 6370.997, *p.EarthRadius)
	assert.Equal(t, "+proj=eqc +lat_0=44.7914 +lon_0=10.4992 +ellps=WGS84 +R=6370.9970", p.ProjString)
}

func TestProjectionDPCTransverseMercator(t *testing.T) {
	d := NewDecoder(tableOf(
		line("0", "29", "201", "3", "PROJECTION TYPE"),
		line("0", "29", "193", "10.0", "LONGITUDE OF ORIGIN"),
		line("0", "29", "194", "42.0", "LATITUDE OF ORIGIN"),
		line("0", "29", "195", "600000", "X OFFSET"),
		line("0", "29", "196", "5000000", "Y OFFSET"),
	))
	p := d.Projection("DPC", "Mosaico radar nazionale")
	assert.Equal(t, "tmerc", p.ProjName)
	assert.Equal(t, "+proj=tmerc +lat_0=42.0 +lon_0=10.0 +ellps=WGS84", p.ProjString)
	// The mosaic encodes the x offset with the opposite sign.
	assert.Equal(t, -600000.0, p.XOffset)
	assert.Equal(t, 5000000.0, p.YOffset)
	// Both axes absent means the 6370997 m sphere.
	assert.Equal(t, 6370997.0, p.SemimajorAxis)
	assert.Equal(t, 6370997.0, p.SemiminorAxis)
	assert.Equal(t, 6370997.0, *p.EarthRadius)
}

func TestProjectionStereographic(t *testing.T) {
	d := NewDecoder(tableOf(
		line("0", "29", "201", "1", "PROJECTION TYPE"),
		line("0", "29", "194", "90.0", "LATITUDE OF ORIGIN"),
		line("0", "29", "197", "60.0", "STANDARD PARALLEL 1"),
	))
	p := d.Projection("", "")
	assert.Equal(t, "Polar stereographic", p.ProjName)
	assert.Equal(t, 60.0, *p.CenterLat)

	d = NewDecoder(tableOf(
		line("0", "29", "201", "1", "PROJECTION TYPE"),
		line("0", "29", "194", "52.0", "LATITUDE OF ORIGIN"),
	))
	p = d.Projection("", "")
	assert.Equal(t, "Stereographic", p.ProjName)
}

func TestProjectionTypeFallbackDescriptor(t *testing.T) {
	// Without 0-29-201 the type comes from 0-29-1.
	d := NewDecoder(tableOf(
		line("0", "29", "1", "2", "PROJECTION TYPE"),
	))
	p := d.Projection("", "")
	assert.Equal(t, "Lambert Conformal Conic", p.ProjName)
}
