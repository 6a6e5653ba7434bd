package goradarlib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRasterDispatch(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "GAT202608281230.ZLR")
	require.NoError(t, os.WriteFile(name, make([]byte, 256), 0o644))

	bundle, field, err := ReadRaster(name, "gat")
	require.NoError(t, err)
	assert.Equal(t, "Z_60", bundle.Variable.Name)
	assert.Equal(t, []int{16, 16}, field.Shape)
}

func TestReadRasterUnsupported(t *testing.T) {
	_, _, err := ReadRaster("field.nc", "gat")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	_, _, err = ReadRaster("field.dat", "gat")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestGunzip(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "raster.ZLR.gz")
	f, err := os.Create(name)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	out, err := Gunzip(name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "raster.ZLR"), out)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestGunzipPassThrough(t *testing.T) {
	out, err := Gunzip("plain.ZLR")
	require.NoError(t, err)
	assert.Equal(t, "plain.ZLR", out)
}

func TestGunzipNotGzip(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "bogus.gz")
	require.NoError(t, os.WriteFile(name, []byte("not gzip"), 0o644))
	_, err := Gunzip(name)
	assert.Error(t, err)
}
