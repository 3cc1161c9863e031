package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-rsid/internal/annotate"
	"github.com/inodb/vibe-rsid/internal/variantkey"
)

// RowWriter writes table rows found by the lookup commands.
// Positions are written 1-based.
type RowWriter struct {
	w *bufio.Writer
}

// NewRowWriter creates a new row writer.
func NewRowWriter(w io.Writer) *RowWriter {
	return &RowWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (rw *RowWriter) WriteHeader() error {
	_, err := rw.w.WriteString("#RSID\tVARIANTKEY\tCHROM\tPOS\tREF\tALT\n")
	return err
}

// Write writes one (rsID, VariantKey) pair with the key decoded.
// Hashed alleles are written as "-".
func (rw *RowWriter) Write(rsid uint32, vk uint64) error {
	k := variantkey.Decode(vk)
	ref, alt, ok := variantkey.DecodeRefAlt(k.RefAlt)
	if !ok {
		ref, alt = "-", "-"
	}
	if ref == "" {
		ref = "-"
	}
	if alt == "" {
		alt = "-"
	}

	_, err := rw.w.WriteString(strings.Join([]string{
		annotate.FormatRsID(rsid),
		variantkey.Hex(vk),
		variantkey.DecodeChrom(k.Chrom),
		strconv.FormatUint(uint64(k.Pos)+1, 10),
		ref,
		alt,
	}, "\t") + "\n")
	return err
}

// Flush flushes any buffered data.
func (rw *RowWriter) Flush() error {
	return rw.w.Flush()
}
