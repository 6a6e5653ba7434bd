package odim

import (
	"github.com/ctessum/sparse"
	"github.com/pkg/errors"
)

// ImagePlane is one 2-D data plane of a cartesian product. Construction
// checks the rank so a mis-shaped array fails when the plane is bound, not
// when the file is written.
type ImagePlane struct {
	Data *sparse.DenseArray
}

// NewImagePlane binds a 2-D array as an image plane.
func NewImagePlane(data *sparse.DenseArray) (*ImagePlane, error) {
	if data == nil || len(data.Shape) != 2 {
		return nil, errors.New("odim: image plane must be a 2-D array")
	}
	return &ImagePlane{Data: data}, nil
}

// decodePlane converts a raw stored plane into physical values by applying
// the linear scaling of the quantity's what group. gain and offset default
// to 1 and 0 when the file omits them.
func decodePlane(raw *sparse.DenseArray, what *WhatDset) *sparse.DenseArray {
	gain, offset := 1.0, 0.0
	if what != nil {
		if what.Gain != nil {
			gain = *what.Gain
		}
		if what.Offset != nil {
			offset = *what.Offset
		}
	}
	out := sparse.ZerosDense(raw.Shape...)
	for i, v := range raw.Elements {
		out.Elements[i] = v*gain + offset
	}
	return out
}
