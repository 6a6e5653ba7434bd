// Package goradarlib reads the weather-radar products exchanged by the
// Italian regional services and turns each one into a common metadata
// bundle plus a dense 2-D field.
//
// Three container formats are handled, each by its own subpackage: ODIM
// OPERA v2.1 HDF5 volumes and images (package odim), descriptor tables from
// the OPERA BUFR decoder with their binary companions (package bufr) and
// the legacy ZLR byte rasters (package zlr). This package dispatches on the
// file name and undoes the gzip wrapping the distribution channels add.
package goradarlib

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/golang/glog"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/sdifrance/goradarlib/radarmeta"
	"github.com/sdifrance/goradarlib/zlr"
)

// ErrUnsupportedFormat is returned when no reader recognizes a file name.
var ErrUnsupportedFormat = errors.New("goradarlib: unsupported format")

// RasterReader reads one raster file for a radar site into the common
// bundle-plus-field form.
type RasterReader func(filename, radar string) (*radarmeta.Bundle, *sparse.DenseArray, error)

// ReaderFor picks the raster reader for a file name.
func ReaderFor(filename string) (RasterReader, error) {
	switch {
	case strings.HasSuffix(filename, "ZLR"):
		return zlr.ReadFile, nil
	case strings.HasSuffix(filename, ".nc"):
		return nil, errors.Wrapf(ErrUnsupportedFormat, "netCDF input %s", filename)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", filename)
	}
}

// ReadRaster reads a raster product, picking the reader from the file name.
// radar names the producing site for formats that do not embed it.
func ReadRaster(filename, radar string) (*radarmeta.Bundle, *sparse.DenseArray, error) {
	read, err := ReaderFor(filename)
	if err != nil {
		return nil, nil, err
	}
	return read(filename, radar)
}

// Gunzip decompresses a .gz file into the same directory, dropping the
// suffix, and returns the path of the decompressed file. A file without the
// suffix is returned as is.
func Gunzip(filename string) (string, error) {
	if !strings.HasSuffix(filename, ".gz") {
		return filename, nil
	}
	in, err := os.Open(filename)
	if err != nil {
		return "", errors.Wrapf(err, "goradarlib: opening %s", filename)
	}
	defer in.Close()
	zr, err := gzip.NewReader(in)
	if err != nil {
		return "", errors.Wrapf(err, "goradarlib: %s is not a gzip file", filename)
	}
	defer zr.Close()

	outName := strings.TrimSuffix(filename, ".gz")
	out, err := os.Create(outName)
	if err != nil {
		return "", errors.Wrapf(err, "goradarlib: creating %s", outName)
	}
	defer out.Close()
	if _, err := io.Copy(out, zr); err != nil {
		os.Remove(outName)
		return "", errors.Wrapf(err, "goradarlib: decompressing %s", filename)
	}
	glog.Infof("decompressed %s", filepath.Base(filename))
	return outName, nil
}
