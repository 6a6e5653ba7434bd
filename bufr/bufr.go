// Package bufr decodes the fixed-column descriptor tables produced by the
// OPERA BUFR decoder and reconstructs the gridded radar field they
// describe.
//
// The decoder emits one line per BUFR descriptor: the F, X and Y descriptor
// digits, the decoded value, three replication identifiers and the
// descriptor name, each in a fixed column range. The table is scanned for
// well-known (F, X, Y) triples to extract the observation time, the
// accumulation interval, the producing centre, the map projection, the grid
// shape and the value discretization levels; the companion binary file
// holds one level index per grid cell.
package bufr

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Unset marks a column that was empty in the decoded line.
const Unset = "unset"

// Sentinel errors for the extraction stage.
var (
	// ErrUnknownFieldKind is returned when no variable marker descriptor
	// is present in the table.
	ErrUnknownFieldKind = errors.New("bufr: unknown field kind")
	// ErrBadFillMethod is returned for a fill method other than min, ave
	// or max.
	ErrBadFillMethod = errors.New("bufr: bad fill method")
)

// Record is one decoded descriptor line.
type Record struct {
	F          string
	X          string
	Y          string
	Value      string
	ID5        string
	ID6        string
	ID7        string
	Descriptor string
}

// column returns the trimmed slice [a, b) of line, clipped to its length.
func column(line string, a, b int) string {
	if a > len(line) {
		return ""
	}
	if b < 0 || b > len(line) {
		b = len(line)
	}
	return strings.TrimSpace(line[a:b])
}

func orUnset(s string) string {
	if s == "" {
		return Unset
	}
	return s
}

// DecodeLine decodes one fixed-column descriptor line. The file-name
// descriptor 3-21-193 is the one exception to the layout: its value runs to
// the end of the line and the identifier columns are absent.
func DecodeLine(line string) Record {
	r := Record{
		F: orUnset(column(line, 0, 2)),
		X: orUnset(column(line, 2, 5)),
		Y: orUnset(column(line, 5, 9)),
	}
	if r.F == "3" && r.X == "21" && r.Y == "193" {
		r.Value = orUnset(column(line, 9, -1))
		r.ID5 = Unset
		r.ID6 = Unset
		r.ID7 = Unset
		r.Descriptor = "namefile"
		return r
	}
	r.Value = orUnset(column(line, 9, 23))
	r.ID5 = orUnset(column(line, 23, 27))
	r.ID6 = orUnset(column(line, 27, 32))
	r.ID7 = orUnset(column(line, 32, 35))
	r.Descriptor = orUnset(column(line, 35, -1))
	return r
}

// Table is a decoded descriptor table in file order.
type Table struct {
	Records []Record
}

// DecodeTable decodes every non-blank line of a descriptor listing.
func DecodeTable(r io.Reader) (*Table, error) {
	t := &Table{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		t.Records = append(t.Records, DecodeLine(line))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "bufr: reading descriptor table")
	}
	return t, nil
}

// findIndex returns the index of the first record matching the descriptor
// triple, or -1.
func (t *Table) findIndex(f, x, y string) int {
	for i, r := range t.Records {
		if r.F == f && r.X == x && r.Y == y {
			return i
		}
	}
	return -1
}

// value returns the value of the first record matching the triple.
func (t *Table) value(f, x, y string) (string, bool) {
	if i := t.findIndex(f, x, y); i >= 0 {
		return t.Records[i].Value, true
	}
	return "", false
}

// findDescriptor returns the index of the first record with the given
// descriptor name, or -1.
func (t *Table) findDescriptor(name string) int {
	for i, r := range t.Records {
		if r.Descriptor == name {
			return i
		}
	}
	return -1
}

// unsetTriple reports whether a record carries no descriptor of its own,
// the shape of the value-continuation rows that follow a date or time
// descriptor.
func (r Record) unsetTriple() bool {
	return r.F == Unset && r.X == Unset && r.Y == Unset
}
