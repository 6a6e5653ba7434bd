package odim

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Image is a 2-D cartesian ODIM product: one dataset group holding one data
// plane, with the projection and corner coordinates in the root where
// group.
type Image struct {
	What  What
	Where WhereImage
	How   How

	DsetWhat *WhatDset
	DataWhat *WhatDset
	Plane    *ImagePlane
}

// ReadImage loads a cartesian image from an ODIM HDF5 file.
func ReadImage(filename string) (*Image, error) {
	s, err := OpenStore(filename)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	img := &Image{DsetWhat: &WhatDset{}, DataWhat: &WhatDset{}}
	if err := readFields(s, "what", img.What.fields()); err != nil {
		return nil, err
	}
	if err := readFields(s, "where", img.Where.fields()); err != nil {
		return nil, err
	}
	if err := readFields(s, "how", img.How.fields()); err != nil {
		return nil, err
	}
	if err := readFields(s, "dataset1/what", img.DsetWhat.fields()); err != nil {
		return nil, err
	}
	if err := readFields(s, "dataset1/data1/what", img.DataWhat.fields()); err != nil {
		return nil, err
	}
	raw, err := s.ReadData("dataset1/data1/data")
	if err != nil {
		return nil, err
	}
	img.Plane, err = NewImagePlane(raw)
	if err != nil {
		return nil, err
	}
	glog.Infof("read image %s: %dx%d", filename, raw.Shape[0], raw.Shape[1])
	return img, nil
}

// Export writes the image to filename, truncating any existing file. The
// data plane is tagged with the HDF5 image convention attributes so generic
// viewers render it.
func (img *Image) Export(filename string) error {
	if img.Plane == nil || img.Plane.Data == nil {
		return errors.New("odim: image has no data plane")
	}
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
	if err := writeFields(s, "what", img.What.fields(), whatExportNames); err != nil {
		return err
	}
	if err := writeFields(s, "where", img.Where.fields(), whereImageExportNames); err != nil {
		return err
	}
	if err := writeFields(s, "how", img.How.fields(), howImageExportNames); err != nil {
		return err
	}
	for _, g := range []string{"dataset1", "dataset1/what", "dataset1/data1", "dataset1/data1/what"} {
		if err := s.RequireGroup(g); err != nil {
			return err
		}
	}
	if img.DsetWhat != nil {
		if err := writeFields(s, "dataset1/what", img.DsetWhat.fields(), whatDsetExportNames); err != nil {
			return err
		}
	}
	if img.DataWhat != nil {
		if err := writeFields(s, "dataset1/data1/what", img.DataWhat.fields(), whatDataExportNames); err != nil {
			return err
		}
	}
	dset, err := s.WriteData("dataset1/data1/data", img.Plane.Data)
	if err != nil {
		return err
	}
	defer dset.Close()
	if err := WriteDatasetStringAttr(dset, "CLASS", "IMAGE"); err != nil {
		return err
	}
	if err := WriteDatasetStringAttr(dset, "IMAGE_VERSION", "1.2"); err != nil {
		return err
	}
	glog.Infof("exported image %s", filename)
	return nil
}
