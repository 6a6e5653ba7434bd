package odim

import (
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/usace/go-hdf5"
)

// MakeCompliant rewrites an image file in place so downstream OPERA
// consumers accept it: the format Conventions tag, the IMAGE object class,
// the HGHT quantity for echo-top products, default gain and offset when the
// producer omitted them, a normalized what/time and a how/startepochs
// derived from the nominal date and time.
func MakeCompliant(filename, productType string) error {
	s, err := OpenStoreRW(filename)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.replaceStringAttr("/", "Conventions", "ODIM_H5/V2_1"); err != nil {
		return err
	}
	if err := s.replaceStringAttr("what", "version", "ODIM_H5/V2_1"); err != nil {
		return err
	}
	if err := s.replaceStringAttr("what", "object", "IMAGE"); err != nil {
		return err
	}
	if err := s.replaceStringAttr("dataset1/data1/what", "object", "IMAGE"); err != nil {
		return err
	}

	if productType == "ETM" || strings.Contains(productType, "ETOP") {
		if err := s.replaceStringAttr("dataset1/what", "quantity", "HGHT"); err != nil {
			return err
		}
		if err := s.replaceStringAttr("dataset1/data1/what", "quantity", "HGHT"); err != nil {
			return err
		}
	}

	if _, ok, err := s.ReadFloatAttr("dataset1/data1/what", "gain"); err != nil {
		return err
	} else if !ok {
		if err := s.WriteFloatAttr("dataset1/data1/what", "gain", 1.0); err != nil {
			return err
		}
	}
	if _, ok, err := s.ReadFloatAttr("dataset1/data1/what", "offset"); err != nil {
		return err
	} else if !ok {
		if err := s.WriteFloatAttr("dataset1/data1/what", "offset", 0.0); err != nil {
			return err
		}
	}

	date, dateOK, err := s.ReadStringAttr("what", "date")
	if err != nil {
		return err
	}
	timestr, timeOK, err := s.ReadStringAttr("what", "time")
	if err != nil {
		return err
	}
	if timeOK {
		if t, err := time.Parse("150405", timestr); err == nil {
			if err := s.replaceStringAttr("what", "time", t.Format("150405")); err != nil {
				return err
			}
		} else {
			glog.Warningf("what/time %q does not parse as HHMMSS, leaving it", timestr)
		}
	}
	if dateOK && timeOK {
		t, err := time.Parse("20060102150405", date+timestr)
		if err != nil {
			glog.Warningf("what/date+time %q %q do not parse, skipping startepochs", date, timestr)
		} else if err := s.replaceFloatAttr("how", "startepochs", float64(t.Unix())); err != nil {
			return err
		}
	}
	glog.Infof("rewrote %s as ODIM_H5/V2_1 compliant", filename)
	return nil
}

// replaceStringAttr overwrites a fixed-ASCII string attribute, creating it
// when absent. An existing attribute is written in place, NUL-padded to its
// stored size. A value that does not fit is skipped with a warning, since
// the binding offers no way to retype an attribute.
func (s *Store) replaceStringAttr(path, name, value string) error {
	g, err := s.f.OpenGroup(path)
	if err != nil {
		return errors.Wrapf(err, "odim: opening group %s", path)
	}
	defer g.Close()
	attr, err := g.OpenAttribute(name)
	if err != nil {
		return s.WriteStringAttr(path, name, value)
	}
	defer attr.Close()
	dtype, err := attrDatatype(attr)
	if err != nil {
		return errors.Wrapf(err, "odim: attribute %s/%s", path, name)
	}
	defer dtype.Close()
	size := int(dtype.Size())
	if len(value)+1 > size {
		glog.Warningf("attribute %s/%s holds %d bytes, %q does not fit, leaving it", path, name, size, value)
		return nil
	}
	buf := make([]byte, size)
	copy(buf, value)
	return errors.Wrapf(attr.Write(&buf[0], dtype), "odim: writing attribute %s/%s", path, name)
}

// replaceFloatAttr overwrites a scalar numeric attribute, creating it when
// absent.
func (s *Store) replaceFloatAttr(path, name string, value float64) error {
	g, err := s.f.OpenGroup(path)
	if err != nil {
		return errors.Wrapf(err, "odim: opening group %s", path)
	}
	defer g.Close()
	attr, err := g.OpenAttribute(name)
	if err != nil {
		return s.WriteFloatAttr(path, name, value)
	}
	defer attr.Close()
	return errors.Wrapf(attr.Write(&value, hdf5.T_NATIVE_DOUBLE), "odim: writing attribute %s/%s", path, name)
}
