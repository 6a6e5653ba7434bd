package bufr

import (
	"fmt"
	"math"

	"github.com/sdifrance/goradarlib/radarmeta"
)

// Projection extracts the map projection from the 0-29 descriptor block.
// The producers disagree on how much of the block they fill in, so the
// extractor patches the gaps per emission centre: the Emilia-Romagna
// radars use a geographic grid centred on the site, the DPC mosaic a
// transverse Mercator with sign-flipped offsets, and the Piemonte
// composite a UTM zone 32 grid whose origin is recovered from the
// north-west corner descriptors.
func (d *Decoder) Projection(emissionCenter, nameSource string) radarmeta.Projection {
	p := radarmeta.Projection{}

	centerLon := d.floatAt("0", "29", "193", 0)
	centerLat := d.floatAt("0", "29", "194", 0)
	p.CenterLon = &centerLon
	p.CenterLat = &centerLat
	p.SemimajorAxis = d.floatAt("0", "29", "199", 0)
	p.SemiminorAxis = d.floatAt("0", "29", "200", 0)
	p.XOffset = d.floatAt("0", "29", "195", 0)
	p.YOffset = d.floatAt("0", "29", "196", 0)
	p.StandPar1 = d.floatAt("0", "29", "197", 0)
	p.StandPar2 = d.floatAt("0", "29", "198", 0)
	if emissionCenter == "DPC" && p.XOffset > 0 {
		p.XOffset = -p.XOffset
	}

	code := 0
	if s, ok := d.Table.value("0", "29", "201"); ok {
		if v, err := parseFloat(s); err == nil {
			code = int(v)
		}
	} else if s, ok := d.Table.value("0", "29", "1"); ok {
		if v, err := parseFloat(s); err == nil {
			code = int(v)
		}
	} else {
		d.warnf("no projection type descriptor found, assuming 0")
	}

	switch code {
	case 0:
		if emissionCenter == "Arpae Emilia-Romagna" {
			idx := 0
			p.ProjectionIndex = &idx
			switch nameSource {
			case "GAT":
				*p.CenterLon, *p.CenterLat = 10.4992, 44.7914
			case "SPC":
				*p.CenterLon, *p.CenterLat = 11.6236, 44.6547
			}
			p.ProjName = "Cartesian lat-lon"
			r := 6370.997
			p.EarthRadius = &r
			p.ProjString = fmt.Sprintf("+proj=eqc +lat_0=%.4f +lon_0=%.4f +ellps=WGS84 +R=%.4f",
				*p.CenterLat, *p.CenterLon, r)
		}
	case 1:
		if *p.CenterLat == 90 {
			p.ProjName = "Polar stereographic"
			*p.CenterLat = p.StandPar1
		} else {
			p.ProjName = "Stereographic"
		}
	case 2:
		p.ProjName = "Lambert Conformal Conic"
	case 3:
		switch emissionCenter {
		case "DPC":
			p.ProjName = "tmerc"
			p.ProjString = fmt.Sprintf("+proj=tmerc +lat_0=%.1f +lon_0=%.1f +ellps=WGS84",
				*p.CenterLat, *p.CenterLon)
			if p.SemimajorAxis == 0 && p.SemiminorAxis == 0 {
				p.SemimajorAxis = 6370997.0
				p.SemiminorAxis = 6370997.0
				r := 6370997.0
				p.EarthRadius = &r
			} else {
				r := p.SemimajorAxis
				p.EarthRadius = &r
			}
		case "Arpa Piemonte":
			p.ProjName = "utm"
			p.Zone = 32
			p.SemimajorAxis = 6378388.0
			p.SemiminorAxis = 6356911.94613
			r := 6378388.0
			p.EarthRadius = &r
			p.ProjString = "+proj=utm +zone=32 +k_0=0.9996 +ellps=intl"
			d.piemonteOffsets(&p)
		default:
			p.ProjName = "Mercator"
		}
	case 4:
		p.ProjName = "Azimuthal Equidistant"
	case 5:
		p.ProjName = "Lambert Azimuthal"
	default:
		d.warnf("projection type %d not recognized", code)
	}
	return p
}

// piemonteOffsets recovers the projected grid origin from the north-west
// corner coordinates: the 3-1-23 descriptor holds the latitude and the row
// after it the longitude, which the producer only writes to one decimal.
func (d *Decoder) piemonteOffsets(p *radarmeta.Projection) {
	i := d.Table.findIndex("3", "1", "23")
	if i < 0 || i+1 >= len(d.Table.Records) {
		d.warnf("corner descriptor 3-1-23 not found, keeping offsets")
		return
	}
	lat, err1 := parseFloat(d.Table.Records[i].Value)
	lon, err2 := parseFloat(d.Table.Records[i+1].Value)
	if err1 != nil || err2 != nil {
		d.warnf("corner descriptor 3-1-23 values do not parse, keeping offsets")
		return
	}
	lon = math.Round(lon*10) / 10
	x, y, err := radarmeta.ProjectForward(p.ProjString, lon, lat)
	if err != nil {
		d.warnf("projecting corner (%g, %g): %v", lon, lat, err)
		return
	}
	p.XOffset = x
	p.YOffset = y
}

// Grid extracts the grid shape and limits. The limits are the projected
// bounding box [y min, x min, y max, x max] anchored at the projection
// offsets, with y growing downward from the origin row.
func (d *Decoder) Grid(p radarmeta.Projection) radarmeta.Grid {
	g := radarmeta.Grid{}
	g.Ny = int(d.floatAt("0", "30", "22", 0))
	g.Nx = int(d.floatAt("0", "30", "21", 0))
	g.Dy = d.floatAt("0", "6", "33", 0)
	g.Dx = d.floatAt("0", "5", "33", 0)
	g.UnitsDx = "meters"
	g.UnitsDy = "meters"
	g.Limits = [4]float64{
		p.YOffset - float64(g.Ny)*g.Dy,
		p.XOffset,
		p.YOffset,
		p.XOffset + float64(g.Nx)*g.Dx,
	}
	return g
}
