package bufr

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Decoder runs the extraction passes over a decoded table. Extraction is
// deliberately forgiving: a missing descriptor degrades the result to its
// default and is recorded as a warning rather than aborting the whole
// product.
type Decoder struct {
	Table *Table

	warnings []string
}

// NewDecoder wraps a decoded table.
func NewDecoder(t *Table) *Decoder {
	return &Decoder{Table: t}
}

// Warnings returns the degradations recorded by the extraction passes so
// far, in order.
func (d *Decoder) Warnings() []string {
	return d.warnings
}

func (d *Decoder) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	d.warnings = append(d.warnings, msg)
	glog.Warning(msg)
}

// parseFloat parses a descriptor value.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// floatAt returns the value of the first record matching the triple, or
// def with a warning when the record is absent or does not parse.
func (d *Decoder) floatAt(f, x, y string, def float64) float64 {
	s, ok := d.Table.value(f, x, y)
	if !ok {
		d.warnf("descriptor %s-%s-%s not found, using %g", f, x, y, def)
		return def
	}
	v, err := parseFloat(s)
	if err != nil {
		d.warnf("descriptor %s-%s-%s value %q does not parse, using %g", f, x, y, s, def)
		return def
	}
	return v
}

// intField parses a descriptor value row as an integer, returning -99 on
// failure. -99 never collides with a real calendar field.
func intField(r Record) int {
	v, err := parseFloat(r.Value)
	if err != nil {
		return -99
	}
	return int(v)
}

// ObservationTime extracts the nominal observation time. The date is split
// across the 3-1-11 descriptor (year) and the two continuation rows that
// follow it (month, day); the time across 3-1-12 (hour) and one
// continuation row (minutes). Continuation rows only count when they carry
// no descriptor triple of their own.
func (d *Decoder) ObservationTime() (time.Time, error) {
	year, month, day := -99, -99, -99
	if i := d.Table.findIndex("3", "1", "11"); i >= 0 {
		year = intField(d.Table.Records[i])
		if i+1 < len(d.Table.Records) && d.Table.Records[i+1].unsetTriple() {
			month = intField(d.Table.Records[i+1])
		}
		if i+2 < len(d.Table.Records) && d.Table.Records[i+2].unsetTriple() {
			day = intField(d.Table.Records[i+2])
		}
	} else {
		d.warnf("date descriptor 3-1-11 not found")
	}

	hour, minute := -99, -99
	if i := d.Table.findIndex("3", "1", "12"); i >= 0 {
		hour = intField(d.Table.Records[i])
		if i+1 < len(d.Table.Records) && d.Table.Records[i+1].unsetTriple() {
			minute = intField(d.Table.Records[i+1])
		}
	} else {
		d.warnf("time descriptor 3-1-12 not found")
	}
	if hour == -99 {
		hour = 0
	}
	if minute == -99 {
		minute = 0
	}

	if year <= 0 || month < 1 || month > 12 || day < 1 || day > 31 {
		d.warnf("observation date %d-%d-%d is not valid", year, month, day)
		return time.Time{}, errors.Errorf("bufr: invalid observation date %d-%d-%d", year, month, day)
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC), nil
}

// AccumulationTime extracts the accumulation interval in hours. It is zero
// for instantaneous products; accumulated products carry the 0-8-21 marker
// with value 3 followed by negative day and hour period descriptors.
func (d *Decoder) AccumulationTime() int {
	marker := -1
	for i, r := range d.Table.Records {
		if r.F != "0" || r.X != "8" || r.Y != "21" {
			continue
		}
		v, err := parseFloat(r.Value)
		if err == nil && v == 3.0 {
			marker = i
			break
		}
	}
	if marker < 0 {
		return 0
	}
	acc := 0.0
	if s, ok := d.Table.value("0", "4", "23"); ok {
		if v, err := parseFloat(s); err == nil {
			acc -= 24 * v
		} else {
			d.warnf("period descriptor 0-4-23 value %q does not parse", s)
		}
	} else {
		d.warnf("period descriptor 0-4-23 not found")
	}
	if s, ok := d.Table.value("0", "4", "24"); ok {
		if v, err := parseFloat(s); err == nil {
			acc -= v
		} else {
			d.warnf("period descriptor 0-4-24 value %q does not parse", s)
		}
	} else {
		d.warnf("period descriptor 0-4-24 not found")
	}
	return int(acc)
}
