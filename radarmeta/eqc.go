package radarmeta

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// The geographic products use the equidistant cylindrical projection, which
// the proj library does not register. Its closed form is two lines, so the
// projection helpers evaluate it directly for +proj=eqc strings and hand
// everything else to the library.

type eqcParams struct {
	lat0  float64
	lon0  float64
	latTS float64
	r     float64
}

// parseEqc extracts the eqc parameters from a proj string, reporting ok
// only for +proj=eqc.
func parseEqc(projstring string) (eqcParams, bool, error) {
	fields := strings.Fields(projstring)
	isEqc := false
	p := eqcParams{r: defaultEarthRadiusKm}
	for _, f := range fields {
		key, val, found := strings.Cut(f, "=")
		if !found {
			if key == "+proj" {
				return p, false, errors.Errorf("radarmeta: malformed proj term %q", f)
			}
			continue
		}
		var err error
		switch key {
		case "+proj":
			isEqc = val == "eqc"
		case "+lat_0":
			p.lat0, err = strconv.ParseFloat(val, 64)
		case "+lon_0":
			p.lon0, err = strconv.ParseFloat(val, 64)
		case "+lat_ts":
			p.latTS, err = strconv.ParseFloat(val, 64)
		case "+R":
			p.r, err = strconv.ParseFloat(val, 64)
		}
		if err != nil {
			return p, false, errors.Wrapf(err, "radarmeta: parsing proj term %q", f)
		}
	}
	return p, isEqc, nil
}

const degToRad = math.Pi / 180

func (p eqcParams) forward(lon, lat float64) (x, y float64) {
	x = p.r * (lon - p.lon0) * degToRad * math.Cos(p.latTS*degToRad)
	y = p.r * (lat - p.lat0) * degToRad
	return x, y
}

func (p eqcParams) inverse(x, y float64) (lon, lat float64) {
	lon = x/(p.r*math.Cos(p.latTS*degToRad))/degToRad + p.lon0
	lat = y/p.r/degToRad + p.lat0
	return lon, lat
}
