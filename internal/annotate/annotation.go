// Package annotate assigns rsIDs to VCF variants using a VariantKey-sorted table.
package annotate

import (
	"strconv"
	"strings"

	"github.com/inodb/vibe-rsid/internal/vcf"
)

// Annotation holds the lookup result for one alternate allele of a variant.
type Annotation struct {
	Allele     string   // Alternate allele
	VariantKey uint64   // Encoded (chrom, pos, ref, alt)
	RsIDs      []uint32 // Matching rsIDs in table order, nil when unknown
}

// FormatRsID formats an rsID the way dbSNP does, e.g. "rs113488022".
func FormatRsID(id uint32) string {
	return "rs" + strconv.FormatUint(uint64(id), 10)
}

// ParseRsID parses "rs123" or "123".
func ParseRsID(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "rs"), "RS")
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// MergeIDs returns the VCF ID column for v after annotation: the existing
// identifiers (when keep is set) followed by any new rsIDs, without
// duplicates. It returns "." when there is nothing to report.
func MergeIDs(v *vcf.Variant, anns []*Annotation, keep bool) string {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if keep {
		for _, id := range v.IDs() {
			add(id)
		}
	}
	for _, a := range anns {
		for _, rs := range a.RsIDs {
			add(FormatRsID(rs))
		}
	}

	if len(ids) == 0 {
		return "."
	}
	return strings.Join(ids, ";")
}
