package annotate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/inodb/vibe-rsid/internal/variantkey"
)

// VariantSpec is a genomic variant written on one line.
type VariantSpec struct {
	Chrom string
	Pos   int64 // 1-based
	Ref   string
	Alt   string
}

// Genomic: chr12:25245351:C:A  or  12-25245351-C-A  or  chr12:25245351:C>A
var reGenomic = regexp.MustCompile(`^(chr)?(\w+)[:\-](\d+)[:\-]([ACGTNacgtn]+)[>:\-/]([ACGTNacgtn]+)$`)

// ParseVariantSpec parses a genomic variant specification such as
// "chr12:25245351:C:A", "12-25245351-C-A" or "12:25245351:C>A".
func ParseVariantSpec(input string) (*VariantSpec, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty variant specification")
	}

	m := reGenomic.FindStringSubmatch(input)
	if m == nil {
		return nil, fmt.Errorf("cannot parse variant specification %q (expected chrom:pos:ref:alt)", input)
	}
	pos, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil || pos < 1 || pos-1 > variantkey.MaxPos {
		return nil, fmt.Errorf("invalid position in variant specification %q", input)
	}
	return &VariantSpec{
		Chrom: m[2],
		Pos:   pos,
		Ref:   strings.ToUpper(m[4]),
		Alt:   strings.ToUpper(m[5]),
	}, nil
}

// VariantKey encodes the variant with its position made 0-based.
func (s *VariantSpec) VariantKey() uint64 {
	return variantkey.Encode(s.Chrom, uint32(s.Pos-1), s.Ref, s.Alt)
}
