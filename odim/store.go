package odim

import (
	"reflect"
	"sort"

	"github.com/ctessum/sparse"
	"github.com/pkg/errors"
	"github.com/usace/go-hdf5"
)

// Store wraps an open HDF5 file and narrows the binding's surface to the
// handful of operations the ODIM layout needs: group traversal in
// enumeration order, typed attribute access with the fixed-ASCII string
// convention, and 2-D float plane I/O.
type Store struct {
	f *hdf5.File
}

// OpenStore opens an existing ODIM file read-only.
func OpenStore(filename string) (*Store, error) {
	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(err, "odim: opening %s", filename)
	}
	return &Store{f: f}, nil
}

// OpenStoreRW opens an existing ODIM file for in-place attribute rewriting.
func OpenStoreRW(filename string) (*Store, error) {
	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDWR)
	if err != nil {
		return nil, errors.Wrapf(err, "odim: opening %s read-write", filename)
	}
	return &Store{f: f}, nil
}

// CreateStore creates a new file, truncating any existing one.
func CreateStore(filename string) (*Store, error) {
	f, err := hdf5.CreateFile(filename, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, errors.Wrapf(err, "odim: creating %s", filename)
	}
	return &Store{f: f}, nil
}

// Close releases the underlying file handle.
func (s *Store) Close() error {
	return s.f.Close()
}

// RequireGroup creates the group at path, creating it when absent. Nested
// paths must be created parent-first.
func (s *Store) RequireGroup(path string) error {
	if g, err := s.f.OpenGroup(path); err == nil {
		g.Close()
		return nil
	}
	g, err := s.f.CreateGroup(path)
	if err != nil {
		return errors.Wrapf(err, "odim: creating group %s", path)
	}
	return g.Close()
}

// ChildNames lists the immediate children of the group at path, sorted by
// name with numeric suffixes compared numerically so that dataset10 follows
// dataset9.
func (s *Store) ChildNames(path string) ([]string, error) {
	g, err := s.f.OpenGroup(path)
	if err != nil {
		return nil, errors.Wrapf(err, "odim: opening group %s", path)
	}
	defer g.Close()
	n, err := g.NumObjects()
	if err != nil {
		return nil, errors.Wrapf(err, "odim: counting children of %s", path)
	}
	names := make([]string, 0, n)
	for i := uint(0); i < n; i++ {
		name, err := g.ObjectNameByIndex(i)
		if err != nil {
			return nil, errors.Wrapf(err, "odim: child %d of %s", i, path)
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return nameLess(names[i], names[j])
	})
	return names, nil
}

// nameLess orders group names by their common prefix, then by the numeric
// suffix when both carry one. HDF5 enumerates alphabetically, which would
// put dataset10 before dataset2.
func nameLess(a, b string) bool {
	pa, na, oka := splitNumericSuffix(a)
	pb, nb, okb := splitNumericSuffix(b)
	if oka && okb && pa == pb {
		return na < nb
	}
	return a < b
}

func splitNumericSuffix(s string) (prefix string, n int, ok bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0, false
	}
	for _, c := range s[i:] {
		n = n*10 + int(c-'0')
	}
	return s[:i], n, true
}

// HasChild reports whether the group at path has an immediate child with the
// given name.
func (s *Store) HasChild(path, name string) (bool, error) {
	names, err := s.ChildNames(path)
	if err != nil {
		return false, err
	}
	return containsName(names, name), nil
}

// WriteStringAttr writes a scalar string attribute in the ODIM fixed-ASCII
// convention: a fixed-length C string sized len(value)+1 including the NUL
// terminator.
func (s *Store) WriteStringAttr(path, name, value string) error {
	g, err := s.f.OpenGroup(path)
	if err != nil {
		return errors.Wrapf(err, "odim: opening group %s", path)
	}
	defer g.Close()
	dtype, err := hdf5.T_C_S1.Copy()
	if err != nil {
		return errors.Wrap(err, "odim: copying string datatype")
	}
	defer dtype.Close()
	if err := dtype.SetSize(uint(len(value) + 1)); err != nil {
		return errors.Wrapf(err, "odim: sizing string attribute %s", name)
	}
	space, err := hdf5.CreateSimpleDataspace([]uint{1}, nil)
	if err != nil {
		return errors.Wrap(err, "odim: creating attribute dataspace")
	}
	defer space.Close()
	attr, err := g.CreateAttribute(name, dtype, space)
	if err != nil {
		return errors.Wrapf(err, "odim: creating attribute %s/%s", path, name)
	}
	defer attr.Close()
	buf := append([]byte(value), 0)
	if err := attr.Write(&buf[0], dtype); err != nil {
		return errors.Wrapf(err, "odim: writing attribute %s/%s", path, name)
	}
	return nil
}

// WriteFloatAttr writes a scalar float64 attribute.
func (s *Store) WriteFloatAttr(path, name string, value float64) error {
	return s.writeScalarAttr(path, name, hdf5.T_NATIVE_DOUBLE, &value)
}

// WriteIntAttr writes a scalar int64 attribute.
func (s *Store) WriteIntAttr(path, name string, value int64) error {
	return s.writeScalarAttr(path, name, hdf5.T_NATIVE_INT64, &value)
}

func (s *Store) writeScalarAttr(path, name string, dtype *hdf5.Datatype, value interface{}) error {
	g, err := s.f.OpenGroup(path)
	if err != nil {
		return errors.Wrapf(err, "odim: opening group %s", path)
	}
	defer g.Close()
	space, err := hdf5.CreateSimpleDataspace([]uint{1}, nil)
	if err != nil {
		return errors.Wrap(err, "odim: creating attribute dataspace")
	}
	defer space.Close()
	attr, err := g.CreateAttribute(name, dtype, space)
	if err != nil {
		return errors.Wrapf(err, "odim: creating attribute %s/%s", path, name)
	}
	defer attr.Close()
	if err := attr.Write(value, dtype); err != nil {
		return errors.Wrapf(err, "odim: writing attribute %s/%s", path, name)
	}
	return nil
}

// WriteFloatSliceAttr writes a 1-D float64 array attribute, used for the
// per-ray azimuth arrays and the elevation-angle list.
func (s *Store) WriteFloatSliceAttr(path, name string, values []float64) error {
	if len(values) == 0 {
		return nil
	}
	g, err := s.f.OpenGroup(path)
	if err != nil {
		return errors.Wrapf(err, "odim: opening group %s", path)
	}
	defer g.Close()
	space, err := hdf5.CreateSimpleDataspace([]uint{uint(len(values))}, nil)
	if err != nil {
		return errors.Wrap(err, "odim: creating attribute dataspace")
	}
	defer space.Close()
	attr, err := g.CreateAttribute(name, hdf5.T_NATIVE_DOUBLE, space)
	if err != nil {
		return errors.Wrapf(err, "odim: creating attribute %s/%s", path, name)
	}
	defer attr.Close()
	if err := attr.Write(&values[0], hdf5.T_NATIVE_DOUBLE); err != nil {
		return errors.Wrapf(err, "odim: writing attribute %s/%s", path, name)
	}
	return nil
}

// ReadStringAttr reads a scalar attribute as text. Fixed-ASCII values are
// returned without the NUL padding. ok is false when the attribute does not
// exist.
func (s *Store) ReadStringAttr(path, name string) (value string, ok bool, err error) {
	g, err := s.f.OpenGroup(path)
	if err != nil {
		return "", false, errors.Wrapf(err, "odim: opening group %s", path)
	}
	defer g.Close()
	attr, err := g.OpenAttribute(name)
	if err != nil {
		return "", false, nil
	}
	defer attr.Close()
	dtype, err := attrDatatype(attr)
	if err != nil {
		return "", false, errors.Wrapf(err, "odim: attribute %s/%s", path, name)
	}
	defer dtype.Close()
	buf := make([]byte, dtype.Size()+1)
	if err := attr.Read(&buf[0], dtype); err != nil {
		return "", false, errors.Wrapf(err, "odim: reading attribute %s/%s", path, name)
	}
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), true, nil
		}
	}
	return string(buf), true, nil
}

// ReadFloatAttr reads a scalar numeric attribute as float64, converting
// from whatever width the file stores. ok is false when the attribute does
// not exist.
func (s *Store) ReadFloatAttr(path, name string) (value float64, ok bool, err error) {
	g, err := s.f.OpenGroup(path)
	if err != nil {
		return 0, false, errors.Wrapf(err, "odim: opening group %s", path)
	}
	defer g.Close()
	attr, err := g.OpenAttribute(name)
	if err != nil {
		return 0, false, nil
	}
	defer attr.Close()
	dtype, err := attrDatatype(attr)
	if err != nil {
		return 0, false, errors.Wrapf(err, "odim: attribute %s/%s", path, name)
	}
	defer dtype.Close()
	v, err := readScalarAsFloat(attr, dtype)
	if err != nil {
		return 0, false, errors.Wrapf(err, "odim: reading attribute %s/%s", path, name)
	}
	return v, true, nil
}

// ReadFloatSliceAttr reads a 1-D float64 array attribute. ok is false when
// the attribute does not exist.
func (s *Store) ReadFloatSliceAttr(path, name string) (values []float64, ok bool, err error) {
	g, err := s.f.OpenGroup(path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "odim: opening group %s", path)
	}
	defer g.Close()
	attr, err := g.OpenAttribute(name)
	if err != nil {
		return nil, false, nil
	}
	defer attr.Close()
	space := attr.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, false, errors.Wrapf(err, "odim: attribute %s/%s extent", path, name)
	}
	n := uint(1)
	for _, d := range dims {
		n *= d
	}
	values = make([]float64, n)
	if n == 0 {
		return values, true, nil
	}
	if err := attr.Read(&values[0], hdf5.T_NATIVE_DOUBLE); err != nil {
		return nil, false, errors.Wrapf(err, "odim: reading attribute %s/%s", path, name)
	}
	return values, true, nil
}

// attrDatatype resolves an attribute's on-file datatype.
func attrDatatype(attr *hdf5.Attribute) (*hdf5.Datatype, error) {
	t := attr.GetType()
	return hdf5.NewDatatype(t.HID()), nil
}

// readScalarAsFloat reads a scalar attribute through the Go type the binding
// maps its datatype to, then widens to float64. ODIM files in the wild carry
// the same quantities as float32, float64 or integers depending on the
// producer.
func readScalarAsFloat(attr *hdf5.Attribute, dtype *hdf5.Datatype) (float64, error) {
	gt := dtype.GoType()
	if gt == nil {
		return 0, errors.New("unmappable datatype")
	}
	switch gt.Kind() {
	case reflect.Float64:
		var v float64
		err := attr.Read(&v, hdf5.T_NATIVE_DOUBLE)
		return v, err
	case reflect.Float32:
		var v float32
		err := attr.Read(&v, hdf5.T_NATIVE_FLOAT)
		return float64(v), err
	case reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8, reflect.Int,
		reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8, reflect.Uint:
		var v int64
		err := attr.Read(&v, hdf5.T_NATIVE_INT64)
		return float64(v), err
	default:
		return 0, errors.Errorf("scalar attribute has kind %s", gt.Kind())
	}
}

// WriteData writes a 2-D float32 dataset at path from a dense array.
func (s *Store) WriteData(path string, data *sparse.DenseArray) (*hdf5.Dataset, error) {
	if len(data.Shape) != 2 {
		return nil, errors.Errorf("odim: dataset %s must be 2-D, got rank %d", path, len(data.Shape))
	}
	rows, cols := data.Shape[0], data.Shape[1]
	space, err := hdf5.CreateSimpleDataspace([]uint{uint(rows), uint(cols)}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "odim: creating dataspace")
	}
	defer space.Close()
	dset, err := s.f.CreateDataset(path, hdf5.T_NATIVE_FLOAT, space)
	if err != nil {
		return nil, errors.Wrapf(err, "odim: creating dataset %s", path)
	}
	buf := make([]float32, rows*cols)
	for i, v := range data.Elements {
		buf[i] = float32(v)
	}
	if err := dset.Write(&buf[0]); err != nil {
		dset.Close()
		return nil, errors.Wrapf(err, "odim: writing dataset %s", path)
	}
	return dset, nil
}

// WriteDatasetStringAttr writes a fixed-ASCII string attribute on an open
// dataset. Image planes tag themselves with CLASS and IMAGE_VERSION.
func WriteDatasetStringAttr(dset *hdf5.Dataset, name, value string) error {
	dtype, err := hdf5.T_C_S1.Copy()
	if err != nil {
		return errors.Wrap(err, "odim: copying string datatype")
	}
	defer dtype.Close()
	if err := dtype.SetSize(uint(len(value) + 1)); err != nil {
		return errors.Wrapf(err, "odim: sizing string attribute %s", name)
	}
	space, err := hdf5.CreateSimpleDataspace([]uint{1}, nil)
	if err != nil {
		return errors.Wrap(err, "odim: creating attribute dataspace")
	}
	defer space.Close()
	attr, err := dset.CreateAttribute(name, dtype, space)
	if err != nil {
		return errors.Wrapf(err, "odim: creating dataset attribute %s", name)
	}
	defer attr.Close()
	buf := append([]byte(value), 0)
	return errors.Wrapf(attr.Write(&buf[0], dtype), "odim: writing dataset attribute %s", name)
}

// ReadData reads a 2-D dataset at path into a dense array.
func (s *Store) ReadData(path string) (*sparse.DenseArray, error) {
	dset, err := s.f.OpenDataset(path)
	if err != nil {
		return nil, errors.Wrapf(err, "odim: opening dataset %s", path)
	}
	defer dset.Close()
	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, errors.Wrapf(err, "odim: dataset %s extent", path)
	}
	if len(dims) != 2 {
		return nil, errors.Errorf("odim: dataset %s must be 2-D, got rank %d", path, len(dims))
	}
	rows, cols := int(dims[0]), int(dims[1])
	buf := make([]float64, rows*cols)
	if rows*cols > 0 {
		if err := dset.Read(&buf[0]); err != nil {
			return nil, errors.Wrapf(err, "odim: reading dataset %s", path)
		}
	}
	out := sparse.ZerosDense(rows, cols)
	copy(out.Elements, buf)
	return out, nil
}

// ReadDataVector reads a 1-D dataset at path. Some producers store the
// per-ray azimuth records as child datasets of the how group instead of
// attributes; the how-polar reader falls back to this.
func (s *Store) ReadDataVector(path string) ([]float64, error) {
	dset, err := s.f.OpenDataset(path)
	if err != nil {
		return nil, errors.Wrapf(err, "odim: opening dataset %s", path)
	}
	defer dset.Close()
	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, errors.Wrapf(err, "odim: dataset %s extent", path)
	}
	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	out := make([]float64, n)
	if n > 0 {
		if err := dset.Read(&out[0]); err != nil {
			return nil, errors.Wrapf(err, "odim: reading dataset %s", path)
		}
	}
	return out, nil
}
