package bufr

import (
	"strings"

	"github.com/sdifrance/goradarlib/radarmeta"
)

// SourceProduct extracts the producing centre and the product identity from
// the embedded file-name descriptor. The base name is everything before the
// first dot; producers are recognized by a substring of the base, and the
// radar and product tokens sit at fixed underscore positions, wrapped in
// "@" markers.
//
// Three producers are recognized: EMRO (Arpae Emilia-Romagna, single
// radars), PIEM (Arpa Piemonte, two-radar composite) and ROMA (the DPC
// national mosaic). On any token mismatch the defaults are kept and a
// warning is recorded.
func (d *Decoder) SourceProduct() (radarmeta.Source, radarmeta.Product) {
	src := radarmeta.Source{}
	prodName := ""
	radar := ""

	i := d.Table.findDescriptor("namefile")
	if i < 0 {
		d.warnf("namefile descriptor 3-21-193 not found")
		return src, radarmeta.NewProduct(prodName)
	}
	base, _, _ := strings.Cut(d.Table.Records[i].Value, ".")
	src.NameFile = base + ".BUFR"
	tokens := strings.Split(base, "_")
	switch {
	case strings.Contains(base, "EMRO"):
		src.EmissionCenter = "Arpae Emilia-Romagna"
		if len(tokens) > 4 {
			radar = strings.Trim(tokens[3], "@")
			src.NameSource = radar
			prodName = strings.Trim(tokens[4], "@")
			if prodName == "CZ" {
				prodName = "LBM"
			}
		} else {
			d.warnf("namefile %q has too few tokens for EMRO", base)
		}
	case strings.Contains(base, "PIEM"):
		src.EmissionCenter = "Arpa Piemonte"
		src.NameSource = "Bric della Croce,Monte Settepani"
		if len(tokens) > 4 {
			prodName = strings.Trim(tokens[4], "@")
		} else {
			d.warnf("namefile %q has too few tokens for PIEM", base)
		}
	case strings.Contains(base, "ROMA"):
		src.EmissionCenter = "DPC"
		src.NameSource = "Mosaico radar nazionale"
		if len(tokens) > 2 {
			prodName = strings.Trim(tokens[2], "@")
		} else {
			d.warnf("namefile %q has too few tokens for ROMA", base)
		}
	default:
		d.warnf("namefile %q names no known producer", base)
	}
	// Surface rainfall intensity was renamed between product generations.
	if prodName == "SR" {
		prodName = "SRI"
	}
	prod := radarmeta.NewProduct(prodName)
	prod.Radar = radar
	return src, prod
}
