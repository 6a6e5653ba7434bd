package radarmeta

import (
	"fmt"
	"math"
	"time"

	"github.com/ctessum/geom"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// defaultEarthRadiusKm is used when a source file carries no earth radius.
const defaultEarthRadiusKm = 6370.997

// GridMetadata is the flat metadata record consumed by nowcasting toolchains
// in the pysteps style: projection string, grid corners in both geographic
// and projected coordinates, pixel sizes as arc lengths, and the value
// semantics of the field.
type GridMetadata struct {
	Projection string

	LLLon, LLLat float64
	URLon, URLat float64

	X1, Y1, X2, Y2 float64

	XPixelSize, YPixelSize float64

	YOrigin     string
	Institution string

	AccuTime  float64
	Unit      string
	Transform string
	ZeroValue float32
	Threshold float64

	CartesianUnit string
	Timestamps    []time.Time
}

// PystepsMetadata projects a Bundle into a GridMetadata record. The grid
// center is reprojected through the bundle's projection to obtain the
// projected corner coordinates; pixel sizes are the arc lengths subtended by
// the grid steps at the earth radius in use.
func PystepsMetadata(b *Bundle, timestamps []time.Time) (*GridMetadata, error) {
	if b.Projection.CenterLat == nil || b.Projection.CenterLon == nil {
		return nil, errors.New("radarmeta: projection center not set")
	}
	latc, lonc := *b.Projection.CenterLat, *b.Projection.CenterLon

	r := defaultEarthRadiusKm
	if b.Projection.EarthRadius != nil {
		r = *b.Projection.EarthRadius
	}

	projstring := b.Projection.ProjString
	if projstring == "" {
		if b.Projection.ProjectionIndex != nil && *b.Projection.ProjectionIndex == 0 {
			projstring = fmt.Sprintf("+proj=eqc +lat_0=%.4f +lon_0=%.4f +ellps=WGS84 +R=%.4f", latc, lonc, r)
		} else {
			glog.Warningf("no proj string can be derived for projection %+v", b.Projection)
			return nil, errors.Errorf("radarmeta: cannot derive projection string (index %v)", b.Projection.ProjectionIndex)
		}
	}

	xc, yc, err := ProjectForward(projstring, lonc, latc)
	if err != nil {
		return nil, err
	}

	// Grid steps are in degrees for latitude-longitude products; convert to
	// arc lengths at the working earth radius.
	dx := 2 * math.Pi * r * b.Grid.Dx / 360.0
	dy := 2 * math.Pi * r * b.Grid.Dy / 360.0

	return &GridMetadata{
		Projection:    projstring,
		LLLat:         b.Grid.Limits[0],
		LLLon:         b.Grid.Limits[1],
		URLat:         b.Grid.Limits[2],
		URLon:         b.Grid.Limits[3],
		X1:            xc - float64(b.Grid.Nx-1)*0.5*dx,
		Y1:            yc - float64(b.Grid.Ny-1)*0.5*dy,
		X2:            xc + float64(b.Grid.Nx-1)*0.5*dx,
		Y2:            yc + float64(b.Grid.Ny-1)*0.5*dy,
		XPixelSize:    dx,
		YPixelSize:    dy,
		YOrigin:       "lower",
		Institution:   "Arpae",
		AccuTime:      b.Variable.AccumTimeH,
		Unit:          b.Variable.Units,
		Transform:     "None",
		ZeroValue:     b.Variable.Missing,
		Threshold:     0,
		CartesianUnit: "km",
		Timestamps:    timestamps,
	}, nil
}

// ProjectForward transforms a geographic lon/lat pair into the coordinates
// of the projection described by projstring.
func ProjectForward(projstring string, lon, lat float64) (x, y float64, err error) {
	if ep, ok, err := parseEqc(projstring); err != nil {
		return 0, 0, err
	} else if ok {
		x, y = ep.forward(lon, lat)
		return x, y, nil
	}
	p := Projection{ProjString: projstring}
	sr, err := p.SR()
	if err != nil {
		return 0, 0, err
	}
	longlat := Projection{ProjString: "+proj=longlat +ellps=WGS84"}
	srcSR, err := longlat.SR()
	if err != nil {
		return 0, 0, err
	}
	ct, err := srcSR.NewTransform(sr)
	if err != nil {
		return 0, 0, errors.Wrap(err, "building projection transform")
	}
	g, err := geom.Point{X: lon, Y: lat}.Transform(ct)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "projecting point (%g, %g)", lon, lat)
	}
	pt, ok := g.(geom.Point)
	if !ok {
		return 0, 0, errors.Errorf("radarmeta: projected geometry is %T, want point", g)
	}
	return pt.X, pt.Y, nil
}

// ProjectInverse transforms projected coordinates back to a geographic
// lon/lat pair.
func ProjectInverse(projstring string, x, y float64) (lon, lat float64, err error) {
	if ep, ok, err := parseEqc(projstring); err != nil {
		return 0, 0, err
	} else if ok {
		lon, lat = ep.inverse(x, y)
		return lon, lat, nil
	}
	p := Projection{ProjString: projstring}
	sr, err := p.SR()
	if err != nil {
		return 0, 0, err
	}
	longlat := Projection{ProjString: "+proj=longlat +ellps=WGS84"}
	dstSR, err := longlat.SR()
	if err != nil {
		return 0, 0, err
	}
	ct, err := sr.NewTransform(dstSR)
	if err != nil {
		return 0, 0, errors.Wrap(err, "building projection transform")
	}
	g, err := geom.Point{X: x, Y: y}.Transform(ct)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "unprojecting point (%g, %g)", x, y)
	}
	pt, ok := g.(geom.Point)
	if !ok {
		return 0, 0, errors.Errorf("radarmeta: unprojected geometry is %T, want point", g)
	}
	return pt.X, pt.Y, nil
}
