// Package zlr reads the legacy ZLR raster products of the Emilia-Romagna
// radars: a bare square of bytes, one per grid cell, on a kilometric
// latitude-longitude grid centred on the radar site. The acquisition time
// is only known from the file name.
package zlr

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ctessum/sparse"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/sdifrance/goradarlib/radarmeta"
)

const earthRadiusKm = 6370.997

// site positions, by lower-case radar name
var sites = map[string][2]float64{
	"spc": {44.6547, 11.6236},
	"gat": {44.7914, 10.4992},
}

// ReadFile reads and decodes a ZLR raster file.
func ReadFile(filename, radar string) (*radarmeta.Bundle, *sparse.DenseArray, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "zlr: reading %s", filename)
	}
	return Read(raw, filename, radar)
}

// Read decodes a ZLR byte raster for the given radar ("spc" or "gat"). The
// plain .ZLR extension holds reflectivity scaled to [-20, 60] dBZ and is
// stored column-major; the .qual_ZLR variant holds a quality index in
// hundredths and is stored row-major.
func Read(raw []byte, filename, radar string) (*radarmeta.Bundle, *sparse.DenseArray, error) {
	site, ok := sites[strings.ToLower(radar)]
	if !ok {
		return nil, nil, errors.Errorf("zlr: unknown radar %q", radar)
	}
	latc, lonc := site[0], site[1]

	n := int(math.Sqrt(float64(len(raw))))
	if n*n != len(raw) || n == 0 {
		return nil, nil, errors.Errorf("zlr: %d bytes is not a square raster", len(raw))
	}

	quality := strings.HasSuffix(filename, ".qual_ZLR")
	varName := "Z_60"
	if quality {
		varName = "ZLR_QUA"
	}
	variable, ok := radarmeta.VariableByName(varName)
	if !ok {
		return nil, nil, errors.Errorf("zlr: variable %s not registered", varName)
	}

	field := sparse.ZerosDense(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			b := float64(raw[i*n+j])
			if quality {
				field.Set(b*0.01, i, j)
			} else {
				// Reflectivity rasters are written column-major.
				field.Set(b*80.0/255.0-20.0, j, i)
			}
		}
	}

	// One-kilometre grid steps expressed in degrees at the site latitude.
	dx := (180 / math.Pi) / (earthRadiusKm * math.Cos(latc*math.Pi/180))
	dy := (180 / math.Pi) / earthRadiusKm

	projstring := fmt.Sprintf("+proj=eqc +lat_0=%.4f +lon_0=%.4f +ellps=WGS84 +R=%.4f",
		latc, lonc, earthRadiusKm)
	idx := 0
	r := earthRadiusKm
	proj := radarmeta.Projection{
		CenterLon:       &lonc,
		CenterLat:       &latc,
		ProjName:        "Cartesian LatLon",
		ProjectionIndex: &idx,
		EarthRadius:     &r,
		ProjString:      projstring,
	}

	xc, yc, err := radarmeta.ProjectForward(projstring, lonc, latc)
	if err != nil {
		return nil, nil, err
	}
	dxKm := 2 * math.Pi * earthRadiusKm * dx / 360
	dyKm := 2 * math.Pi * earthRadiusKm * dy / 360
	half := float64(n-1) / 2
	lon1, lat1, err := radarmeta.ProjectInverse(projstring, xc-half*dxKm, yc-half*dyKm)
	if err != nil {
		return nil, nil, err
	}
	lon2, lat2, err := radarmeta.ProjectInverse(projstring, xc+half*dxKm, yc+half*dyKm)
	if err != nil {
		return nil, nil, err
	}

	grid := radarmeta.Grid{
		Limits:  [4]float64{lat1, lon1, lat2, lon2},
		Dx:      dx,
		Dy:      dy,
		UnitsDx: "degrees",
		UnitsDy: "degrees",
		Nx:      n,
		Ny:      n,
		Name:    "ZLR",
	}

	validity, err := timeFromName(filename)
	if err != nil {
		glog.Warningf("no timestamp in %s: %v", filename, err)
	}

	rangeClass := ""
	switch n {
	case 256:
		rangeClass = "corto"
	case 512:
		rangeClass = "medio"
	}
	prod := radarmeta.NewProduct("ZLR")
	prod.Radar = radar
	prod.RangeClass = rangeClass

	bundle := &radarmeta.Bundle{
		Time: radarmeta.Time{
			Validity: validity,
			Emission: validity,
		},
		Grid:       grid,
		Projection: proj,
		Source: radarmeta.Source{
			NameSource: radar,
			NameFile:   filepath.Base(filename),
		},
		Product:  prod,
		Variable: variable,
		CoordsX: &radarmeta.Coords{
			Name: "lon", LongName: "longitude", Units: "degrees",
			Vals: linspace(lon1, lon2, n),
		},
		CoordsY: &radarmeta.Coords{
			Name: "lat", LongName: "latitude", Units: "degrees",
			Vals: linspace(lat1, lat2, n),
		},
	}
	glog.Infof("read ZLR raster %s: %dx%d %s", filename, n, n, variable.Name)
	return bundle, field, nil
}

// timeFromName parses the trailing YYYYMMDDHHMM of the file name stem.
func timeFromName(filename string) (time.Time, error) {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if len(stem) < 12 {
		return time.Time{}, errors.Errorf("zlr: name stem %q too short for a timestamp", stem)
	}
	t, err := time.Parse("200601021504", stem[len(stem)-12:])
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "zlr: parsing timestamp of %q", stem)
	}
	return t, nil
}

func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	return out
}
