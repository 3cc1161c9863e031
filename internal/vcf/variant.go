// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"strconv"
	"strings"
)

// Variant is a single VCF data line. Columns other than CHROM, POS, ID, REF
// and ALT are kept verbatim so the line can be written back unchanged.
type Variant struct {
	Chrom         string // Chromosome name (e.g., "12", "chr12")
	Pos           int64  // 1-based genomic position
	ID            string // Variant identifiers, ";"-separated, or "."
	Ref           string // Reference allele
	Alt           string // Alternate alleles, ","-separated
	Qual          string
	Filter        string
	Info          string
	SampleColumns string // FORMAT and sample columns, tab-joined
}

// Alts returns the alternate alleles.
func (v *Variant) Alts() []string {
	if v.Alt == "" || v.Alt == "." {
		return nil
	}
	return strings.Split(v.Alt, ",")
}

// IDs returns the existing identifiers, without the "." placeholder.
func (v *Variant) IDs() []string {
	if v.ID == "" || v.ID == "." {
		return nil
	}
	return strings.Split(v.ID, ";")
}

// Line formats the variant as a tab-separated VCF data line without newline.
func (v *Variant) Line() string {
	fields := []string{
		v.Chrom,
		strconv.FormatInt(v.Pos, 10),
		orDot(v.ID),
		v.Ref,
		orDot(v.Alt),
		orDot(v.Qual),
		orDot(v.Filter),
		orDot(v.Info),
	}
	if v.SampleColumns != "" {
		fields = append(fields, v.SampleColumns)
	}
	return strings.Join(fields, "\t")
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
