package odim

// The ODIM metadata groups. Every group is a flat set of optional
// attributes; a nil pointer means the attribute was absent on read and is
// skipped on write. The field tables below bind the ODIM attribute names to
// the struct fields so the read and export paths share one schema per group
// kind.

type attrKind int

const (
	attrString attrKind = iota
	attrFloat
	attrInt
	attrFloatSlice
)

// attrField binds one ODIM attribute name to a destination. Exactly one of
// the pointers matching kind is set.
type attrField struct {
	name string
	kind attrKind
	str  **string
	num  **float64
	i    **int64
	fs   *[]float64
}

func fstr(name string, p **string) attrField  { return attrField{name: name, kind: attrString, str: p} }
func fnum(name string, p **float64) attrField { return attrField{name: name, kind: attrFloat, num: p} }
func fint(name string, p **int64) attrField   { return attrField{name: name, kind: attrInt, i: p} }
func fslice(name string, p *[]float64) attrField {
	return attrField{name: name, kind: attrFloatSlice, fs: p}
}

// readFields loads every schema attribute present at path, leaving absent
// ones nil.
func readFields(s *Store, path string, fields []attrField) error {
	for _, f := range fields {
		switch f.kind {
		case attrString:
			v, ok, err := s.ReadStringAttr(path, f.name)
			if err != nil {
				return err
			}
			if ok {
				*f.str = &v
			}
		case attrFloat:
			v, ok, err := s.ReadFloatAttr(path, f.name)
			if err != nil {
				return err
			}
			if ok {
				*f.num = &v
			}
		case attrInt:
			v, ok, err := s.ReadFloatAttr(path, f.name)
			if err != nil {
				return err
			}
			if ok {
				iv := int64(v)
				*f.i = &iv
			}
		case attrFloatSlice:
			v, ok, err := s.ReadFloatSliceAttr(path, f.name)
			if err != nil {
				return err
			}
			if ok {
				*f.fs = v
			}
		}
	}
	return nil
}

// writeFields writes the named attributes at path, skipping unset fields.
// names selects and orders the subset to export; the historical files carry
// group-dependent subsets of the full schema.
func writeFields(s *Store, path string, fields []attrField, names []string) error {
	byName := make(map[string]attrField, len(fields))
	for _, f := range fields {
		byName[f.name] = f
	}
	for _, name := range names {
		f, ok := byName[name]
		if !ok {
			continue
		}
		switch f.kind {
		case attrString:
			if *f.str == nil {
				continue
			}
			if err := s.WriteStringAttr(path, f.name, **f.str); err != nil {
				return err
			}
		case attrFloat:
			if *f.num == nil {
				continue
			}
			if err := s.WriteFloatAttr(path, f.name, **f.num); err != nil {
				return err
			}
		case attrInt:
			if *f.i == nil {
				continue
			}
			if err := s.WriteIntAttr(path, f.name, **f.i); err != nil {
				return err
			}
		case attrFloatSlice:
			if *f.fs == nil {
				continue
			}
			if err := s.WriteFloatSliceAttr(path, f.name, *f.fs); err != nil {
				return err
			}
		}
	}
	return nil
}

// AttrGroup is satisfied by every metadata group schema in this package.
type AttrGroup interface {
	fields() []attrField
}

// ReadGroup loads every schema attribute of g present at path.
func (s *Store) ReadGroup(path string, g AttrGroup) error {
	return readFields(s, path, g.fields())
}

// WriteGroup creates the group at path when absent and writes g's set
// fields there. names selects and orders a subset; with none given the
// whole schema is written in declaration order.
func (s *Store) WriteGroup(path string, g AttrGroup, names ...string) error {
	if err := s.RequireGroup(path); err != nil {
		return err
	}
	fields := g.fields()
	if len(names) == 0 {
		names = make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.name
		}
	}
	return writeFields(s, path, fields, names)
}

// What is the top-level what group: file object class, format version,
// nominal date and time, and the data source identifier string.
type What struct {
	Object  *string
	Version *string
	Date    *string
	Time    *string
	Source  *string
}

func (w *What) fields() []attrField {
	return []attrField{
		fstr("object", &w.Object),
		fstr("version", &w.Version),
		fstr("date", &w.Date),
		fstr("time", &w.Time),
		fstr("source", &w.Source),
	}
}

var whatExportNames = []string{"object", "version", "date", "time", "source"}

// WherePolar is the top-level where group of a polar volume: the antenna
// position.
type WherePolar struct {
	Lon    *float64
	Lat    *float64
	Height *float64
}

func (w *WherePolar) fields() []attrField {
	return []attrField{
		fnum("lon", &w.Lon),
		fnum("lat", &w.Lat),
		fnum("height", &w.Height),
	}
}

var wherePolarExportNames = []string{"lon", "lat", "height"}

// WhereImage is the top-level where group of a cartesian image: projection
// definition, grid shape and the four corner coordinates.
type WhereImage struct {
	Projdef *string
	Xsize   *int64
	Ysize   *int64
	Xscale  *float64
	Yscale  *float64
	LLLon   *float64
	LLLat   *float64
	ULLon   *float64
	ULLat   *float64
	URLon   *float64
	URLat   *float64
	LRLon   *float64
	LRLat   *float64
}

func (w *WhereImage) fields() []attrField {
	return []attrField{
		fstr("projdef", &w.Projdef),
		fint("xsize", &w.Xsize),
		fint("ysize", &w.Ysize),
		fnum("xscale", &w.Xscale),
		fnum("yscale", &w.Yscale),
		fnum("LL_lon", &w.LLLon),
		fnum("LL_lat", &w.LLLat),
		fnum("UL_lon", &w.ULLon),
		fnum("UL_lat", &w.ULLat),
		fnum("UR_lon", &w.URLon),
		fnum("UR_lat", &w.URLat),
		fnum("LR_lon", &w.LRLon),
		fnum("LR_lat", &w.LRLat),
	}
}

// The historical image writer never emitted yscale even though the reader
// accepts it.
var whereImageExportNames = []string{
	"projdef", "xsize", "ysize", "xscale",
	"LL_lon", "LL_lat", "UL_lon", "UL_lat",
	"UR_lon", "UR_lat", "LR_lon", "LR_lat",
}

// How is the top-level how group: acquisition task bookkeeping plus the
// optional Z-R and K-R conversion coefficients.
type How struct {
	Task        *string
	Startepochs *float64
	Endepochs   *float64
	System      *string
	Software    *string
	SwVersion   *string
	Simulated   *string
	ZrA         *float64
	ZrB         *float64
	KrA         *float64
	KrB         *float64
}

func (h *How) fields() []attrField {
	return []attrField{
		fstr("task", &h.Task),
		fnum("startepochs", &h.Startepochs),
		fnum("endepochs", &h.Endepochs),
		fstr("system", &h.System),
		fstr("software", &h.Software),
		fstr("sw_version", &h.SwVersion),
		fstr("simulated", &h.Simulated),
		fnum("zr_a", &h.ZrA),
		fnum("zr_b", &h.ZrB),
		fnum("kr_a", &h.KrA),
		fnum("kr_b", &h.KrB),
	}
}

var howPolarExportNames = []string{
	"task", "startepochs", "system", "software", "sw_version", "simulated",
}

var howImageExportNames = []string{
	"task", "startepochs", "system", "software", "sw_version", "endepochs",
}

// WhatDset covers both the per-elevation what group (product and time span)
// and the per-quantity what group (quantity name and the linear scaling
// that maps stored counts to physical values).
type WhatDset struct {
	Product   *string
	Startdate *string
	Starttime *string
	Enddate   *string
	Endtime   *string
	Quantity  *string
	Gain      *float64
	Offset    *float64
	Nodata    *float64
	Undetect  *float64
}

func (w *WhatDset) fields() []attrField {
	return []attrField{
		fstr("product", &w.Product),
		fstr("startdate", &w.Startdate),
		fstr("starttime", &w.Starttime),
		fstr("enddate", &w.Enddate),
		fstr("endtime", &w.Endtime),
		fstr("quantity", &w.Quantity),
		fnum("gain", &w.Gain),
		fnum("offset", &w.Offset),
		fnum("nodata", &w.Nodata),
		fnum("undetect", &w.Undetect),
	}
}

var whatDsetExportNames = []string{
	"product", "startdate", "starttime", "enddate", "endtime",
}

var whatDataExportNames = []string{
	"quantity", "gain", "nodata", "offset", "undetect",
}

// WhereDsetPolar is the per-elevation where group: scan geometry.
type WhereDsetPolar struct {
	Elangle *float64
	Nbins   *int64
	Rstart  *float64
	Rscale  *float64
	Nrays   *int64
	A1gate  *int64
}

func (w *WhereDsetPolar) fields() []attrField {
	return []attrField{
		fnum("elangle", &w.Elangle),
		fint("nbins", &w.Nbins),
		fnum("rstart", &w.Rstart),
		fnum("rscale", &w.Rscale),
		fint("nrays", &w.Nrays),
		fint("a1gate", &w.A1gate),
	}
}

var whereDsetPolarExportNames = []string{
	"elangle", "nbins", "rstart", "rscale", "nrays", "a1gate",
}

// HowPolarDset is the per-elevation how group of a polar scan: the elevation
// list and the per-ray azimuth start/stop records.
type HowPolarDset struct {
	Elangles  []float64
	StartazA  []float64
	StopazA   []float64
	StartazT  []float64
	StopazT   []float64
	Azmethod  *string
	Binmethod *string
}

func (h *HowPolarDset) fields() []attrField {
	return []attrField{
		fslice("elangles", &h.Elangles),
		fslice("startazA", &h.StartazA),
		fslice("stopazA", &h.StopazA),
		fslice("startazT", &h.StartazT),
		fslice("stopazT", &h.StopazT),
		fstr("azmethod", &h.Azmethod),
		fstr("binmethod", &h.Binmethod),
	}
}

var howPolarDsetExportNames = []string{
	"elangles", "startazA", "stopazA", "startazT", "stopazT",
}

// readWithDatasetFallback reads the array fields again from same-named child
// datasets when the producer stored them as datasets instead of attributes.
func (h *HowPolarDset) readWithDatasetFallback(s *Store, path string) error {
	if err := readFields(s, path, h.fields()); err != nil {
		return err
	}
	targets := []struct {
		name string
		dst  *[]float64
	}{
		{"elangles", &h.Elangles},
		{"startazA", &h.StartazA},
		{"stopazA", &h.StopazA},
		{"startazT", &h.StartazT},
		{"stopazT", &h.StopazT},
	}
	for _, t := range targets {
		if *t.dst != nil {
			continue
		}
		ok, err := s.HasChild(path, t.name)
		if err != nil || !ok {
			continue
		}
		v, err := s.ReadDataVector(path + "/" + t.name)
		if err != nil {
			continue
		}
		*t.dst = v
	}
	return nil
}

// HowRadarDset is the per-elevation radar hardware description.
type HowRadarDset struct {
	Beamwidth   *float64
	Wavelength  *float64
	Rpm         *float64
	Pulsewidth  *float64
	RXbandwidth *float64
	Lowprf      *float64
	Highprf     *float64
	TXloss      *float64
	RXloss      *float64
	Radomeloss  *float64
	Antgain     *float64
	BeamwH      *float64
	BeamwV      *float64
	Gasattn     *float64
	RadconstH   *float64
	RadconstV   *float64
	NomTXpower  *float64
	TXpower     *float64
	NI          *float64
	Vsamples    *float64
}

func (h *HowRadarDset) fields() []attrField {
	return []attrField{
		fnum("beamwidth", &h.Beamwidth),
		fnum("wavelength", &h.Wavelength),
		fnum("rpm", &h.Rpm),
		fnum("pulsewidth", &h.Pulsewidth),
		fnum("RXbandwidth", &h.RXbandwidth),
		fnum("lowprf", &h.Lowprf),
		fnum("highprf", &h.Highprf),
		fnum("TXloss", &h.TXloss),
		fnum("RXloss", &h.RXloss),
		fnum("radomeloss", &h.Radomeloss),
		fnum("antgain", &h.Antgain),
		fnum("beamwH", &h.BeamwH),
		fnum("beamwV", &h.BeamwV),
		fnum("gasattn", &h.Gasattn),
		fnum("radconstH", &h.RadconstH),
		fnum("radconstV", &h.RadconstV),
		fnum("nomTXpower", &h.NomTXpower),
		fnum("TXpower", &h.TXpower),
		fnum("NI", &h.NI),
		fnum("Vsamples", &h.Vsamples),
	}
}

var howRadarDsetExportNames = []string{
	"beamwidth", "wavelength", "rpm", "pulsewidth", "RXbandwidth",
	"lowprf", "highprf", "TXloss", "RXloss", "radomeloss", "antgain",
	"beamwH", "beamwV", "gasattn", "nomTXpower", "NI", "Vsamples",
}

// WhereSector describes an azimuthal sector scan.
type WhereSector struct {
	Startaz *float64
	Stopaz  *float64
}

func (w *WhereSector) fields() []attrField {
	return []attrField{
		fnum("startaz", &w.Startaz),
		fnum("stopaz", &w.Stopaz),
	}
}

// WhereCross describes a cross-section plane.
type WhereCross struct {
	Xsize     *int64
	Ysize     *int64
	Xscale    *float64
	Yscale    *float64
	Minheight *float64
	Maxheight *float64
}

func (w *WhereCross) fields() []attrField {
	return []attrField{
		fint("xsize", &w.Xsize),
		fint("ysize", &w.Ysize),
		fnum("xscale", &w.Xscale),
		fnum("yscale", &w.Yscale),
		fnum("minheight", &w.Minheight),
		fnum("maxheight", &w.Maxheight),
	}
}

// WhereCrossSection adds the section endpoints to WhereCross.
type WhereCrossSection struct {
	WhereCross
	StartLon *float64
	StartLat *float64
	StopLon  *float64
	StopLat  *float64
}

func (w *WhereCrossSection) fields() []attrField {
	return append(w.WhereCross.fields(),
		fnum("start_lon", &w.StartLon),
		fnum("start_lat", &w.StartLat),
		fnum("stop_lon", &w.StopLon),
		fnum("stop_lat", &w.StopLat),
	)
}

// WhereRhi describes a range-height indicator scan.
type WhereRhi struct {
	Lon     *float64
	Lat     *float64
	AzAngle *float64
	Angles  []float64
	Range   *float64
}

func (w *WhereRhi) fields() []attrField {
	return []attrField{
		fnum("lon", &w.Lon),
		fnum("lat", &w.Lat),
		fnum("az_angle", &w.AzAngle),
		fslice("angles", &w.Angles),
		fnum("range", &w.Range),
	}
}

// WhereVertProfile describes a vertical profile product.
type WhereVertProfile struct {
	Levels    *int64
	Interval  *float64
	Minheight *float64
	Maxheight *float64
}

func (w *WhereVertProfile) fields() []attrField {
	return []attrField{
		fint("levels", &w.Levels),
		fnum("interval", &w.Interval),
		fnum("minheight", &w.Minheight),
		fnum("maxheight", &w.Maxheight),
	}
}

// HowCartesianImageDset is the per-dataset how group of a composite image.
type HowCartesianImageDset struct {
	Angles    []float64
	Arotation []float64
	Camethod  *string
	Nodes     *string
	ACCnum    *int64
}

func (h *HowCartesianImageDset) fields() []attrField {
	return []attrField{
		fslice("angles", &h.Angles),
		fslice("arotation", &h.Arotation),
		fstr("camethod", &h.Camethod),
		fstr("nodes", &h.Nodes),
		fint("ACCnum", &h.ACCnum),
	}
}

// HowVertProfileDset is the per-dataset how group of a vertical profile.
type HowVertProfileDset struct {
	Minrange  *float64
	Maxrange  *float64
	Dealiased *string
}

func (h *HowVertProfileDset) fields() []attrField {
	return []attrField{
		fnum("minrange", &h.Minrange),
		fnum("maxrange", &h.Maxrange),
		fstr("dealiased", &h.Dealiased),
	}
}

// Convenience constructors for required string and numeric fields.

// Str returns a pointer to s. Group fields are pointer-valued so builders
// use this for literals.
func Str(s string) *string { return &s }

// Num returns a pointer to v.
func Num(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int64) *int64 { return &v }
