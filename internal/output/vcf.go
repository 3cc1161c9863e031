package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/vibe-rsid/internal/annotate"
	"github.com/inodb/vibe-rsid/internal/vcf"
)

// VCFWriter writes the input VCF back with rsIDs in the ID column.
type VCFWriter struct {
	w            *bufio.Writer
	headerLines  []string // original VCF header lines (## and #CHROM)
	keepExisting bool
	source       string
}

// NewVCFWriter creates a new VCF output writer.
func NewVCFWriter(w io.Writer, headerLines []string) *VCFWriter {
	return &VCFWriter{
		w:            bufio.NewWriter(w),
		headerLines:  headerLines,
		keepExisting: true,
	}
}

// SetKeepExisting controls whether identifiers already present in the ID
// column are kept ahead of the looked-up rsIDs.
func (vw *VCFWriter) SetKeepExisting(keep bool) {
	vw.keepExisting = keep
}

// SetSource records the table used for annotation in a ##rsidSource header.
func (vw *VCFWriter) SetSource(source string) {
	vw.source = source
}

// WriteHeader writes the original header lines, adding the source line
// before #CHROM when set.
func (vw *VCFWriter) WriteHeader() error {
	for _, line := range vw.headerLines {
		if vw.source != "" && strings.HasPrefix(line, "#CHROM") {
			if _, err := vw.w.WriteString("##rsidSource=" + vw.source + "\n"); err != nil {
				return err
			}
		}
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write writes the variant line with its ID column replaced.
func (vw *VCFWriter) Write(v *vcf.Variant, anns []*annotate.Annotation) error {
	out := *v
	out.ID = annotate.MergeIDs(v, anns, vw.keepExisting)
	_, err := vw.w.WriteString(out.Line() + "\n")
	return err
}

// Flush flushes any buffered data.
func (vw *VCFWriter) Flush() error {
	return vw.w.Flush()
}
