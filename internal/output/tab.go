// Package output provides annotation output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/inodb/vibe-rsid/internal/annotate"
	"github.com/inodb/vibe-rsid/internal/variantkey"
	"github.com/inodb/vibe-rsid/internal/vcf"
)

// TabWriter writes one tab-delimited row per alternate allele.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Uploaded_variation",
			"Location",
			"Ref",
			"Allele",
			"VariantKey",
			"Existing_variation",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes the rows for a variant.
func (tw *TabWriter) Write(v *vcf.Variant, anns []*annotate.Annotation) error {
	location := fmt.Sprintf("%s:%d", v.Chrom, v.Pos)

	for _, ann := range anns {
		existing := "-"
		if len(ann.RsIDs) > 0 {
			ids := make([]string, len(ann.RsIDs))
			for i, rs := range ann.RsIDs {
				ids[i] = annotate.FormatRsID(rs)
			}
			existing = strings.Join(ids, ",")
		}

		values := []string{
			fmt.Sprintf("%s_%d_%s/%s", v.Chrom, v.Pos, v.Ref, ann.Allele),
			location,
			v.Ref,
			ann.Allele,
			variantkey.Hex(ann.VariantKey),
			existing,
		}
		if _, err := tw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
