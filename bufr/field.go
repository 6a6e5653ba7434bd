package bufr

import (
	"os"

	"github.com/ctessum/sparse"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/sdifrance/goradarlib/radarmeta"
)

// ReconstructField expands a plane of per-cell level indices into physical
// values. Cells whose index points past the level table keep the missing
// value.
func ReconstructField(codes []byte, ny, nx int, levels []float64, missing float64) (*sparse.DenseArray, error) {
	if ny <= 0 || nx <= 0 {
		return nil, errors.Errorf("bufr: grid shape %dx%d is not valid", ny, nx)
	}
	if len(codes) != ny*nx {
		return nil, errors.Errorf("bufr: %d level indices do not fill a %dx%d grid", len(codes), ny, nx)
	}
	out := sparse.ZerosDense(ny, nx)
	for i, c := range codes {
		idl := int(c)
		if idl < len(levels) {
			out.Elements[i] = levels[idl]
		} else {
			out.Elements[i] = missing
		}
	}
	return out, nil
}

// Result is a fully decoded BUFR product: the metadata bundle, the
// reconstructed field and the degradations the extraction recorded.
type Result struct {
	Meta     *radarmeta.Bundle
	Field    *sparse.DenseArray
	Warnings []string
}

// ReadBufr decodes a product from its descriptor table and the companion
// binary file of per-cell level indices. A missing or malformed metadata
// descriptor degrades the bundle and adds a warning; only an unknown
// variable, a bad fill method or a field that does not fit the grid abort
// the read.
func ReadBufr(tableFile, dataFile, fillMethod string) (*Result, error) {
	tf, err := os.Open(tableFile)
	if err != nil {
		return nil, errors.Wrapf(err, "bufr: opening %s", tableFile)
	}
	defer tf.Close()
	table, err := DecodeTable(tf)
	if err != nil {
		return nil, err
	}
	d := NewDecoder(table)

	obsTime, err := d.ObservationTime()
	if err != nil {
		glog.Warningf("no observation time in %s: %v", tableFile, err)
	}
	acc := d.AccumulationTime()
	src, prod := d.SourceProduct()
	proj := d.Projection(src.EmissionCenter, src.NameSource)
	grid := d.Grid(proj)
	grid.Name = prod.Name

	variable, levels, err := d.VariableLevels(fillMethod, src.EmissionCenter)
	if err != nil {
		return nil, err
	}

	codes, err := os.ReadFile(dataFile)
	if err != nil {
		return nil, errors.Wrapf(err, "bufr: reading %s", dataFile)
	}
	field, err := ReconstructField(codes, grid.Ny, grid.Nx, levels, float64(variable.Missing))
	if err != nil {
		return nil, err
	}
	glog.Infof("read BUFR product %s: %s on %dx%d grid, %d levels",
		tableFile, variable.Name, grid.Ny, grid.Nx, len(levels))

	return &Result{
		Meta: &radarmeta.Bundle{
			Time: radarmeta.Time{
				Validity:    obsTime,
				Emission:    obsTime,
				AccTime:     acc,
				AccTimeUnit: "hours",
			},
			Grid:       grid,
			Projection: proj,
			Source:     src,
			Product:    prod,
			Variable:   variable,
		},
		Field:    field,
		Warnings: d.Warnings(),
	}, nil
}
