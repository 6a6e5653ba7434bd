package odim

import (
	"github.com/ctessum/sparse"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// PolarVolume is an in-memory ODIM polar volume: the root metadata groups,
// one metadata set per elevation, and a raw data plane per elevation and
// quantity. Planes hold stored counts; DataByElevation applies the linear
// scaling on the way out.
//
// The per-elevation and per-quantity slices are kept in file enumeration
// order, which is also the order ElevationAngles and QuantityNames are built
// in.
type PolarVolume struct {
	What  What
	Where WherePolar
	How   How

	DsetWhats     []*WhatDset
	DsetWheres    []*WhereDsetPolar
	DsetHowRadars []*HowRadarDset
	DsetHowPolars []*HowPolarDset

	// Data[i][j] is the raw plane of the j-th quantity at the i-th
	// elevation; DataWhats[i][j] carries its scaling metadata.
	Data      [][]*sparse.DenseArray
	DataWhats [][]*WhatDset

	// ElevationAngles lists the elevation angle of each dataset group in
	// discovery order. QuantityNames is the union of quantity names across
	// elevations, also in discovery order.
	ElevationAngles []float64
	QuantityNames   []string
}

// ElevationCount returns the number of elevation sweeps in the volume.
func (v *PolarVolume) ElevationCount() int { return len(v.Data) }

// QuantityCountMax returns the largest per-elevation quantity count. Not
// every elevation carries every quantity.
func (v *PolarVolume) QuantityCountMax() int {
	max := 0
	for _, planes := range v.Data {
		if len(planes) > max {
			max = len(planes)
		}
	}
	return max
}

// AddElevation appends a new elevation sweep with its metadata groups and
// keeps ElevationAngles in step. Quantities are added to it with
// AddQuantity.
func (v *PolarVolume) AddElevation(what *WhatDset, where *WhereDsetPolar, howRadar *HowRadarDset, howPolar *HowPolarDset) {
	v.DsetWhats = append(v.DsetWhats, what)
	v.DsetWheres = append(v.DsetWheres, where)
	v.DsetHowRadars = append(v.DsetHowRadars, howRadar)
	v.DsetHowPolars = append(v.DsetHowPolars, howPolar)
	v.Data = append(v.Data, nil)
	v.DataWhats = append(v.DataWhats, nil)
	angle := 0.0
	if where != nil && where.Elangle != nil {
		angle = *where.Elangle
	}
	v.ElevationAngles = append(v.ElevationAngles, angle)
}

// AddQuantity appends a raw data plane to the most recent elevation and
// keeps QuantityNames in step.
func (v *PolarVolume) AddQuantity(what *WhatDset, raw *sparse.DenseArray) error {
	if len(v.Data) == 0 {
		return errors.New("odim: AddQuantity before AddElevation")
	}
	i := len(v.Data) - 1
	v.Data[i] = append(v.Data[i], raw)
	v.DataWhats[i] = append(v.DataWhats[i], what)
	if what != nil && what.Quantity != nil && !slices.Contains(v.QuantityNames, *what.Quantity) {
		v.QuantityNames = append(v.QuantityNames, *what.Quantity)
	}
	return nil
}

// ReadVolume loads a polar volume from an ODIM HDF5 file, discovering the
// elevation and quantity tree from the file itself.
func ReadVolume(filename string) (*PolarVolume, error) {
	s, err := OpenStore(filename)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	v := &PolarVolume{}
	if err := readFields(s, "what", v.What.fields()); err != nil {
		return nil, err
	}
	if err := readFields(s, "where", v.Where.fields()); err != nil {
		return nil, err
	}

	rootChildren, err := s.ChildNames("/")
	if err != nil {
		return nil, err
	}
	// The root how group is optional in the wild.
	if containsName(rootChildren, "how") {
		if err := readFields(s, "how", v.How.fields()); err != nil {
			return nil, err
		}
	}
	for _, dname := range rootChildren {
		if !isDatasetGroup(dname) {
			continue
		}
		dsetWhat := &WhatDset{}
		if err := readFields(s, dname+"/what", dsetWhat.fields()); err != nil {
			return nil, err
		}
		dsetWhere := &WhereDsetPolar{}
		if err := readFields(s, dname+"/where", dsetWhere.fields()); err != nil {
			return nil, err
		}
		children, err := s.ChildNames(dname)
		if err != nil {
			return nil, err
		}
		howRadar := &HowRadarDset{}
		howPolar := &HowPolarDset{}
		if containsName(children, "how") {
			if err := readFields(s, dname+"/how", howRadar.fields()); err != nil {
				return nil, err
			}
			if err := howPolar.readWithDatasetFallback(s, dname+"/how"); err != nil {
				return nil, err
			}
		}
		if dsetWhere.Elangle == nil {
			glog.Warningf("group %s has no elangle, recording 0", dname)
		}
		v.AddElevation(dsetWhat, dsetWhere, howRadar, howPolar)
		for _, qname := range children {
			if !isDataGroup(qname) {
				continue
			}
			dataWhat := &WhatDset{}
			if err := readFields(s, dname+"/"+qname+"/what", dataWhat.fields()); err != nil {
				return nil, err
			}
			raw, err := s.ReadData(dname + "/" + qname + "/data")
			if err != nil {
				return nil, err
			}
			if err := v.AddQuantity(dataWhat, raw); err != nil {
				return nil, err
			}
		}
	}
	glog.Infof("read polar volume %s: %d elevations, %d quantities",
		filename, v.ElevationCount(), len(v.QuantityNames))
	return v, nil
}

// Export writes the whole volume to filename, truncating any existing
// file.
func (v *PolarVolume) Export(filename string) error {
	ne, nq := v.exportCounts(false)
	return v.export(filename, ne, nq)
}

// ExportCompat writes one fewer elevation group and one fewer data group
// than the volume holds, reproducing the truncated output of the
// historical exporter. New producers should use Export.
func (v *PolarVolume) ExportCompat(filename string) error {
	ne, nq := v.exportCounts(true)
	return v.export(filename, ne, nq)
}

// exportCounts returns how many elevation and data groups an export pass
// writes. The truncated form stops one short of both counts.
func (v *PolarVolume) exportCounts(truncate bool) (nElevations, nQuantities int) {
	nElevations = v.ElevationCount()
	nQuantities = v.QuantityCountMax()
	if truncate {
		nElevations--
		nQuantities--
		if nElevations < 0 {
			nElevations = 0
		}
		if nQuantities < 0 {
			nQuantities = 0
		}
	}
	return nElevations, nQuantities
}

func (v *PolarVolume) export(filename string, nElevations, nQuantities int) error {
	s, err := CreateStore(filename)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, g := range []string{"what", "where", "how"} {
		if err := s.RequireGroup(g); err != nil {
			return err
		}
	}
	if err := writeFields(s, "what", v.What.fields(), whatExportNames); err != nil {
		return err
	}
	if err := writeFields(s, "where", v.Where.fields(), wherePolarExportNames); err != nil {
		return err
	}
	if err := writeFields(s, "how", v.How.fields(), howPolarExportNames); err != nil {
		return err
	}

	for i := 0; i < nElevations && i < len(v.Data); i++ {
		dname := datasetGroupName(i + 1)
		if err := s.RequireGroup(dname); err != nil {
			return err
		}
		for _, g := range []string{"what", "where", "how"} {
			if err := s.RequireGroup(dname + "/" + g); err != nil {
				return err
			}
		}
		if i < len(v.DsetWhats) && v.DsetWhats[i] != nil {
			if err := writeFields(s, dname+"/what", v.DsetWhats[i].fields(), whatDsetExportNames); err != nil {
				return err
			}
		}
		if i < len(v.DsetWheres) && v.DsetWheres[i] != nil {
			if err := writeFields(s, dname+"/where", v.DsetWheres[i].fields(), whereDsetPolarExportNames); err != nil {
				return err
			}
		}
		if i < len(v.DsetHowPolars) && v.DsetHowPolars[i] != nil {
			if err := writeFields(s, dname+"/how", v.DsetHowPolars[i].fields(), howPolarDsetExportNames); err != nil {
				return err
			}
		}
		if i < len(v.DsetHowRadars) && v.DsetHowRadars[i] != nil {
			if err := writeFields(s, dname+"/how", v.DsetHowRadars[i].fields(), howRadarDsetExportNames); err != nil {
				return err
			}
		}
		for j, raw := range v.Data[i] {
			if j >= nQuantities {
				break
			}
			qname := dataGroupName(j + 1)
			gpath := dname + "/" + qname
			if err := s.RequireGroup(gpath); err != nil {
				return err
			}
			if err := s.RequireGroup(gpath + "/what"); err != nil {
				return err
			}
			if j < len(v.DataWhats[i]) && v.DataWhats[i][j] != nil {
				if err := writeFields(s, gpath+"/what", v.DataWhats[i][j].fields(), whatDataExportNames); err != nil {
					return err
				}
			}
			dset, err := s.WriteData(gpath+"/data", raw)
			if err != nil {
				return err
			}
			dset.Close()
		}
	}
	glog.Infof("exported polar volume %s: %d elevations", filename, nElevations)
	return nil
}

// elevationIndex resolves an exact elevation angle to its dataset index.
// Angles match exactly; callers pass values taken from ElevationAngles.
func (v *PolarVolume) elevationIndex(elangle float64) (int, error) {
	i := slices.Index(v.ElevationAngles, elangle)
	if i < 0 {
		return 0, errors.Wrapf(ErrNotFound, "elevation angle %g", elangle)
	}
	return i, nil
}

// WhatByElevation returns the per-elevation what group for an exact angle.
func (v *PolarVolume) WhatByElevation(elangle float64) (*WhatDset, error) {
	i, err := v.elevationIndex(elangle)
	if err != nil {
		return nil, err
	}
	return v.DsetWhats[i], nil
}

// WhereByElevation returns the per-elevation where group for an exact angle.
func (v *PolarVolume) WhereByElevation(elangle float64) (*WhereDsetPolar, error) {
	i, err := v.elevationIndex(elangle)
	if err != nil {
		return nil, err
	}
	return v.DsetWheres[i], nil
}

// HowRadarByElevation returns the radar hardware group for an exact angle.
func (v *PolarVolume) HowRadarByElevation(elangle float64) (*HowRadarDset, error) {
	i, err := v.elevationIndex(elangle)
	if err != nil {
		return nil, err
	}
	return v.DsetHowRadars[i], nil
}

// HowPolarByElevation returns the scan how group for an exact angle.
func (v *PolarVolume) HowPolarByElevation(elangle float64) (*HowPolarDset, error) {
	i, err := v.elevationIndex(elangle)
	if err != nil {
		return nil, err
	}
	return v.DsetHowPolars[i], nil
}

// DataByElevation returns the physical-value plane of a quantity at an
// exact elevation angle, applying the quantity's gain and offset.
//
// The vertical wind profile quantity Z_VD is acquired on every sweep
// except the highest one, so on that sweep the quantities after it sit one
// slot earlier in the file. The lookup drops Z_VD from the candidate list
// at the maximum angle, which both reindexes the others correctly and
// makes Z_VD itself unresolvable there.
func (v *PolarVolume) DataByElevation(elangle float64, quantity string) (*sparse.DenseArray, error) {
	i, err := v.elevationIndex(elangle)
	if err != nil {
		return nil, err
	}
	candidates := slices.Clone(v.QuantityNames)
	if elangle == maxFloat(v.ElevationAngles) {
		if k := slices.Index(candidates, "Z_VD"); k >= 0 {
			candidates = slices.Delete(candidates, k, k+1)
		}
	}
	j := slices.Index(candidates, quantity)
	if j < 0 || j >= len(v.Data[i]) {
		return nil, errors.Wrapf(ErrNotFound, "quantity %s at elevation %g", quantity, elangle)
	}
	return decodePlane(v.Data[i][j], v.DataWhats[i][j]), nil
}

func maxFloat(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	max := vals[0]
	for _, v := range vals[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
