// Package radarmeta defines the domain records shared by every reader in this
// module: the time, grid, projection, source, product and variable metadata
// extracted from a radar product file, independent of the on-disk format the
// product came from (ODIM HDF5, decoded BUFR pair, raw ZLR raster).
//
// The records were historically IDL structures; here each one is a flat
// struct, and the radar variable and product tables are static lookup tables
// rather than runtime registries.
package radarmeta

import (
	"math"
	"time"

	"github.com/ctessum/geom/proj"
	"github.com/pkg/errors"
)

// Time carries the temporal metadata of a field.
type Time struct {
	// Validity is the time the field is valid for.
	Validity time.Time
	// Emission is the time the product was emitted; zero when unknown.
	Emission time.Time
	// AccTime is the accumulation span for accumulated fields, 0 for
	// instantaneous ones. Negative spans count backwards from Validity.
	AccTime int
	// AccTimeUnit is the unit of AccTime, e.g. "hours".
	AccTimeUnit string
}

// Grid describes the regular grid a field is defined on.
type Grid struct {
	// Limits holds the grid extremes in the order south, west, north, east.
	Limits [4]float64
	// Dx and Dy are the grid steps along the x and y axes.
	Dx, Dy float64
	// UnitsDx and UnitsDy are the units of Dx and Dy ("meters", "degrees").
	UnitsDx, UnitsDy string
	// Nx and Ny are the cell counts along the x and y axes.
	Nx, Ny int
	// Name is the area name, when one is known.
	Name string
}

// ComputeCellCounts derives Nx and Ny from the limits and the grid steps,
// counting the boundary node on both ends of each axis.
func (g *Grid) ComputeCellCounts() {
	g.Nx = int(math.Round((g.Limits[3]-g.Limits[1])/g.Dx)) + 1
	g.Ny = int(math.Round((g.Limits[2]-g.Limits[0])/g.Dy)) + 1
}

// Projection describes the map projection of a gridded field. Optional
// fields are pointers; nil means the source file did not carry them.
type Projection struct {
	CenterLon, CenterLat *float64
	// ProjName is a textual description of the projection kind.
	ProjName string
	// EarthRadius is in km for latitude-longitude products and in m for
	// projected ones, following the conventions of the source files.
	EarthRadius *float64

	SemimajorAxis, SemiminorAxis float64
	XOffset, YOffset             float64
	StandPar1, StandPar2         float64

	// ProjectionIndex is the legacy numeric projection id, kept only for
	// files that still carry one.
	ProjectionIndex *int
	// Zone is the UTM zone, set only for UTM projections.
	Zone int
	// ProjString is a proj.4 projection definition, set when the
	// projection can be expressed as one.
	ProjString string
}

// SR parses ProjString into a spatial reference.
func (p *Projection) SR() (*proj.SR, error) {
	if p.ProjString == "" {
		return nil, errors.New("radarmeta: projection has no proj string")
	}
	sr, err := proj.Parse(p.ProjString)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing projection %q", p.ProjString)
	}
	return sr, nil
}

// Source identifies where a product came from.
type Source struct {
	// NameSource is the data source name (for single radars, the radar
	// nickname, e.g. "GAT" or "SPC").
	NameSource string
	// NameFile is the name of the file the data was read from.
	NameFile string
	// Comment is an optional free-text note about the source.
	Comment string
	// QualityFile is the companion quality file name, when one exists.
	QualityFile string
	// EmissionCenter is the emitting institution, e.g. "DPC".
	EmissionCenter string
}

// Product identifies the product kind of a field.
type Product struct {
	Name     string
	LongName string
	// Radar and RangeClass are set for single-radar raster products.
	Radar      string
	RangeClass string
}

// productLongNames maps product codes to their descriptions. It replaces the
// product table file the legacy processing chain shipped alongside the code.
var productLongNames = map[string]string{
	"SRI":        "Surface Radar Rainfall Intensity",
	"SRT":        "Surface Radar Rainfall Accumulation",
	"CAPPI":      "Constant Altitude PPI",
	"MAX":        "Maximum Vertical Projection",
	"PPI":        "Plan Position Indicator",
	"LBM":        "Lowest Beam Map Reflectivity",
	"BEAM":       "Radar Beam",
	"RHI":        "Range-Height Indicator",
	"XSEC":       "Vertical Section",
	"ETOP":       "Echo Top",
	"HSP":        "HVMI horizontal panel",
	"VSP":        "HVMI vertical panel",
	"VIL":        "Vertical Integrated Liquid Water",
	"CLASS_CONV": "Convective-stratiform classification",
	"POH_ARPA":   "Probability of hail",
	"VID":        "Vil density - hail size",
	"SURF":       "Surface field",
	"COMP":       "Cartesian composite image",
	"RR":         "Accumulation",
}

// NewProduct builds a Product for the given code, filling LongName from the
// product table when the code is known.
func NewProduct(name string) Product {
	return Product{Name: name, LongName: productLongNames[name]}
}

// Coords holds the coordinate values along one grid axis.
type Coords struct {
	Name     string
	LongName string
	Units    string
	Vals     []float64
}

// Bundle is the macro record every reader returns: the full set of metadata
// records describing one decoded field.
type Bundle struct {
	Time       Time
	Grid       Grid
	Projection Projection
	Source     Source
	Product    Product
	Variable   Variable

	// CoordsX and CoordsY are filled only by readers that materialize the
	// grid axes (e.g. the ZLR reader); nil otherwise.
	CoordsX *Coords
	CoordsY *Coords
}
