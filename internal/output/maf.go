package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/vibe-rsid/internal/annotate"
	"github.com/inodb/vibe-rsid/internal/maf"
	"github.com/inodb/vibe-rsid/internal/vcf"
)

// MAFWriter writes MAF rows back with rsIDs in the dbSNP_RS column,
// preserving all other columns. The column is appended when the input
// has none.
type MAFWriter struct {
	w            *bufio.Writer
	comments     []string
	headerLine   string
	columns      maf.ColumnIndices
	rsCol        int
	appendRS     bool
	keepExisting bool
}

// NewMAFWriter creates a new MAF writer for rows read with the given header.
func NewMAFWriter(w io.Writer, comments []string, headerLine string, columns maf.ColumnIndices) *MAFWriter {
	m := &MAFWriter{
		w:            bufio.NewWriter(w),
		comments:     comments,
		headerLine:   headerLine,
		columns:      columns,
		rsCol:        columns.DbSNPRS,
		keepExisting: true,
	}
	if m.rsCol < 0 {
		m.rsCol = columns.Count
		m.appendRS = true
	}
	return m
}

// SetKeepExisting controls whether ids already in dbSNP_RS are kept.
func (m *MAFWriter) SetKeepExisting(keep bool) {
	m.keepExisting = keep
}

// WriteHeader writes the comment lines and the column header.
func (m *MAFWriter) WriteHeader() error {
	for _, c := range m.comments {
		if _, err := m.w.WriteString(c + "\n"); err != nil {
			return err
		}
	}
	header := m.headerLine
	if m.appendRS {
		header += "\t" + maf.ColDbSNPRS
	}
	_, err := m.w.WriteString(header + "\n")
	return err
}

// WriteRow writes a MAF row with its dbSNP_RS column updated. Multiple ids
// are joined with "&"; rows without any are marked novel.
func (m *MAFWriter) WriteRow(fields []string, v *vcf.Variant, anns []*annotate.Annotation) error {
	width := max(len(fields), m.rsCol+1)
	row := make([]string, width)
	copy(row, fields)

	ids := annotate.MergeIDs(v, anns, m.keepExisting)
	if ids == "." {
		row[m.rsCol] = maf.NovelRS
	} else {
		row[m.rsCol] = strings.ReplaceAll(ids, ";", "&")
	}

	_, err := m.w.WriteString(strings.Join(row, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (m *MAFWriter) Flush() error {
	return m.w.Flush()
}
