// Package odim reads and writes weather-radar products in the ODIM OPERA
// v2.1 HDF5 container layout: polar volumes (object PVOL/SCAN) and 2-D
// georeferenced images (object IMAGE/COMP).
//
// The specification is OPERA-ODIM_H5-v2.1.pdf. The container is a tree of
// named groups whose metadata lives entirely in group attributes; string
// attributes are fixed-length ASCII byte arrays sized one past the content,
// which is what the downstream consumer tooling expects. The tree shape of a
// polar volume is data dependent: the number of elevation sub-trees
// ("dataset<n>" groups) and of per-quantity sub-trees ("data<m>" groups)
// must be discovered from the file, never assumed.
package odim

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by the keyed lookups when the requested elevation
// angle or quantity is not present in the volume.
var ErrNotFound = errors.New("odim: not found")

// datasetGroupName returns the name of the n-th elevation group, 1-based.
func datasetGroupName(n int) string {
	return fmt.Sprintf("dataset%d", n)
}

// dataGroupName returns the name of the m-th quantity group, 1-based.
func dataGroupName(m int) string {
	return fmt.Sprintf("data%d", m)
}

func containsName(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

// isDatasetGroup reports whether a root child name denotes an elevation
// group. Substring match, following the discovery rule of the historical
// reader.
func isDatasetGroup(name string) bool {
	return strings.Contains(name, "dataset")
}

// isDataGroup reports whether an elevation child name denotes a quantity
// group. The remaining children ("what", "where", "how") never match.
func isDataGroup(name string) bool {
	return strings.Contains(name, "data")
}
