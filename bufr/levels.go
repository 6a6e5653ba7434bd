package bufr

import (
	"github.com/pkg/errors"

	"github.com/sdifrance/goradarlib/radarmeta"
)

// variableMarkers maps the marker descriptor triples to the variable each
// one introduces. The cumulated-rain marker appears with either F digit in
// the wild.
var variableMarkers = []struct {
	f, x, y string
	name    string
}{
	{"3", "13", "9", "Z"},
	{"3", "13", "10", "pr_mm"},
	{"3", "13", "11", "cum_pr_mm"},
	{"0", "13", "11", "cum_pr_mm"},
}

// VariableLevels extracts the physical variable and its discretization
// levels. The marker descriptor's own value is the lower bound of the
// scale; the count row after it says how many level rows follow. Levels are
// bin edges, and fillMethod picks the representative value per bin: "min"
// takes the lower edge, "max" the upper edge and "ave" the midpoint. Slot
// zero always stays at the lower bound, which downstream treats as the
// below-threshold value.
func (d *Decoder) VariableLevels(fillMethod, emissionCenter string) (radarmeta.Variable, []float64, error) {
	name := ""
	idx := -1
	for _, m := range variableMarkers {
		if i := d.Table.findIndex(m.f, m.x, m.y); i >= 0 {
			name = m.name
			idx = i
			break
		}
	}
	if idx < 0 {
		return radarmeta.Variable{}, nil, errors.Wrap(ErrUnknownFieldKind, "no variable marker descriptor in table")
	}

	low, err := parseFloat(d.Table.Records[idx].Value)
	if err != nil {
		d.warnf("variable marker value %q does not parse, using 0", d.Table.Records[idx].Value)
		low = 0
	}
	// The DPC mosaic encodes reflectivity with an implicit -31 dBZ floor.
	if emissionCenter == "DPC" && name == "Z" && low == 0 {
		low = -31
	}

	// An interleaved 1-1-0 replication descriptor shifts the count row
	// down by one.
	if idx+1 < len(d.Table.Records) {
		r := d.Table.Records[idx+1]
		if r.F == "1" && r.X == "1" && r.Y == "0" {
			idx++
		}
	}
	nlev := 0
	if idx+1 < len(d.Table.Records) {
		if v, err := parseFloat(d.Table.Records[idx+1].Value); err == nil {
			nlev = int(v)
		} else {
			d.warnf("level count %q does not parse, using 0", d.Table.Records[idx+1].Value)
		}
	}
	if nlev < 0 {
		nlev = 0
	}

	levels := []float64{low}
	for k := idx + 2; k < idx+2+nlev && k < len(d.Table.Records); k++ {
		s := d.Table.Records[k].Value
		if s == "missing" {
			continue
		}
		v, err := parseFloat(s)
		if err != nil {
			d.warnf("level value %q does not parse, skipping", s)
			continue
		}
		if v > low {
			levels = append(levels, v)
		}
	}

	switch fillMethod {
	case "min":
		for i := len(levels) - 1; i >= 1; i-- {
			levels[i] = levels[i-1]
		}
	case "ave":
		prev := levels[0]
		for i := 1; i < len(levels); i++ {
			cur := levels[i]
			levels[i] = (prev + cur) / 2
			prev = cur
		}
	case "max":
		// Upper edges are what the rows already hold.
	default:
		return radarmeta.Variable{}, nil, errors.Wrapf(ErrBadFillMethod, "%q", fillMethod)
	}
	levels[0] = low

	v, ok := radarmeta.VariableByName(name)
	if !ok {
		return radarmeta.Variable{}, nil, errors.Wrapf(ErrUnknownFieldKind, "variable %s not registered", name)
	}
	return v, levels, nil
}
