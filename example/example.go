package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/sdifrance/goradarlib"
	"github.com/sdifrance/goradarlib/bufr"
	"github.com/sdifrance/goradarlib/odim"
	"github.com/sdifrance/goradarlib/radarmeta"
)

var (
	input      = flag.String("input", "", "Path to the input product (ODIM .hdf, BUFR descriptor table, or ZLR raster); .gz accepted.")
	bufrData   = flag.String("bufr_data", "", "Path to the binary level-index file accompanying a BUFR descriptor table.")
	radar      = flag.String("radar", "gat", "Radar site name for formats that do not embed one.")
	fillMethod = flag.String("fill_method", "max", "Level fill method for BUFR products: min, ave or max.")
	meta       = flag.Bool("meta", false, "Also print the nowcasting grid metadata derived from the bundle.")
)

func main() {
	flag.Parse()
	if err := run(context.Background()); err != nil {
		glog.Exitf("got fatal error: %v", err)
	}
}

func run(_ context.Context) error {
	if *input == "" {
		return fmt.Errorf("--input is required")
	}
	filename, err := goradarlib.Gunzip(*input)
	if err != nil {
		return err
	}

	switch {
	case strings.HasSuffix(filename, ".hdf") || strings.HasSuffix(filename, ".h5"):
		return describeVolume(filename)
	case *bufrData != "":
		return describeBufr(filename)
	default:
		bundle, field, err := goradarlib.ReadRaster(filename, *radar)
		if err != nil {
			return err
		}
		describeBundle(bundle)
		glog.Infof("field: %dx%d", field.Shape[0], field.Shape[1])
		return nil
	}
}

func describeVolume(filename string) error {
	v, err := odim.ReadVolume(filename)
	if err != nil {
		return fmt.Errorf("error reading ODIM volume: %w", err)
	}
	glog.Infof("volume: %d elevations, quantities %v", v.ElevationCount(), v.QuantityNames)
	for _, angle := range v.ElevationAngles {
		w, err := v.WhereByElevation(angle)
		if err != nil {
			return err
		}
		nbins, nrays := int64(0), int64(0)
		if w.Nbins != nil {
			nbins = *w.Nbins
		}
		if w.Nrays != nil {
			nrays = *w.Nrays
		}
		glog.Infof("elevation %.1f: %d rays x %d bins", angle, nrays, nbins)
	}
	return nil
}

func describeBufr(filename string) error {
	res, err := bufr.ReadBufr(filename, *bufrData, *fillMethod)
	if err != nil {
		return fmt.Errorf("error reading BUFR product: %w", err)
	}
	describeBundle(res.Meta)
	for _, w := range res.Warnings {
		glog.Warningf("degraded: %s", w)
	}
	glog.Infof("field: %dx%d", res.Field.Shape[0], res.Field.Shape[1])
	return nil
}

func describeBundle(b *radarmeta.Bundle) {
	glog.Infof("product %s (%s) from %s, radar %s",
		b.Product.Name, b.Product.LongName, b.Source.EmissionCenter, b.Product.Radar)
	glog.Infof("variable %s [%s], grid %dx%d, valid %s",
		b.Variable.Name, b.Variable.Units, b.Grid.Ny, b.Grid.Nx, b.Time.Validity)
	if *meta {
		gm, err := radarmeta.PystepsMetadata(b, []time.Time{b.Time.Validity})
		if err != nil {
			glog.Warningf("no grid metadata: %v", err)
			return
		}
		glog.Infof("grid metadata: %+v", gm)
	}
}
