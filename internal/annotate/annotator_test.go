package annotate

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-rsid/internal/variantkey"
	"github.com/inodb/vibe-rsid/internal/vcf"
)

func TestAnnotate_MultiAllelic(t *testing.T) {
	lookup := mapLookup{
		vcfKey("7", 140753336, "A", "T"): {113488022},
		vcfKey("7", 140753336, "A", "G"): {121913227, 121913228},
	}
	ann := NewAnnotator(lookup)

	v := &vcf.Variant{Chrom: "chr7", Pos: 140753336, Ref: "A", Alt: "T,G,C"}
	anns, err := ann.Annotate(v)
	require.NoError(t, err)
	require.Len(t, anns, 3)

	assert.Equal(t, "T", anns[0].Allele)
	assert.Equal(t, []uint32{113488022}, anns[0].RsIDs)
	assert.Equal(t, []uint32{121913227, 121913228}, anns[1].RsIDs)
	assert.Nil(t, anns[2].RsIDs)

	k := variantkey.Decode(anns[0].VariantKey)
	assert.Equal(t, uint8(7), k.Chrom)
	assert.Equal(t, uint32(140753335), k.Pos)
}

func TestAnnotate_UnknownContig(t *testing.T) {
	lookup := mapLookup{vcfKey("GL000192.1", 10, "A", "C"): {1}}
	ann := NewAnnotator(lookup)

	anns, err := ann.Annotate(&vcf.Variant{Chrom: "GL000192.1", Pos: 10, Ref: "A", Alt: "C"})
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Nil(t, anns[0].RsIDs)
}

func TestAnnotate_PositionOutOfRange(t *testing.T) {
	ann := NewAnnotator(mapLookup{})

	_, err := ann.Annotate(&vcf.Variant{Chrom: "1", Pos: int64(variantkey.MaxPos) + 2, Ref: "A", Alt: "C"})
	assert.Error(t, err)
	_, err = ann.Annotate(&vcf.Variant{Chrom: "1", Pos: 0, Ref: "A", Alt: "C"})
	assert.Error(t, err)
}

// recordWriter collects what AnnotateAll writes.
type recordWriter struct {
	ids     []string
	flushed bool
	failAt  int
}

func (w *recordWriter) WriteHeader() error { return nil }

func (w *recordWriter) Write(v *vcf.Variant, anns []*Annotation) error {
	if w.failAt > 0 && len(w.ids)+1 == w.failAt {
		return errors.New("disk full")
	}
	w.ids = append(w.ids, MergeIDs(v, anns, true))
	return nil
}

func (w *recordWriter) Flush() error {
	w.flushed = true
	return nil
}

// sliceParser replays a fixed list of variants.
type sliceParser struct {
	variants []*vcf.Variant
	err      error
	n        int
}

func (p *sliceParser) Next() (*vcf.Variant, error) {
	if p.n == len(p.variants) {
		if p.err != nil {
			return nil, p.err
		}
		return nil, nil
	}
	p.n++
	return p.variants[p.n-1], nil
}

func (p *sliceParser) Close() error    { return nil }
func (p *sliceParser) LineNumber() int { return p.n }

func TestAnnotateAll(t *testing.T) {
	lookup := mapLookup{
		vcfKey("12", 25245351, "C", "A"): {121913529},
	}
	parser := &sliceParser{variants: []*vcf.Variant{
		{Chrom: "12", Pos: 25245351, ID: ".", Ref: "C", Alt: "A"},
		{Chrom: "12", Pos: 25245352, ID: "COSV1", Ref: "C", Alt: "A"},
		{Chrom: "1", Pos: 0, ID: ".", Ref: "C", Alt: "A"},
	}}

	ann := NewAnnotator(lookup)
	ann.SetWorkers(2)
	w := &recordWriter{}

	stats, err := ann.AnnotateAll(parser, w)
	require.NoError(t, err)
	assert.True(t, w.flushed)
	assert.Equal(t, []string{"rs121913529", "COSV1", "."}, w.ids)
	assert.Equal(t, Stats{Variants: 3, Matched: 1, Failed: 1}, stats)
}

func TestAnnotateAll_ParseError(t *testing.T) {
	parser := &sliceParser{
		variants: []*vcf.Variant{{Chrom: "1", Pos: 1, Ref: "A", Alt: "C"}},
		err:      &vcf.ParseError{Line: 9, Message: "bad"},
	}
	w := &recordWriter{}

	stats, err := NewAnnotator(mapLookup{}).AnnotateAll(parser, w)
	var pe *vcf.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, stats.Variants)
	assert.False(t, w.flushed)
}

func TestAnnotateAll_WriteError(t *testing.T) {
	parser := &sliceParser{variants: []*vcf.Variant{
		{Chrom: "1", Pos: 1, Ref: "A", Alt: "C"},
		{Chrom: "1", Pos: 2, Ref: "A", Alt: "C"},
	}}
	_, err := NewAnnotator(mapLookup{}).AnnotateAll(parser, &recordWriter{failAt: 2})
	assert.ErrorContains(t, err, "disk full")
}

// sliceRows replays variants with their raw fields.
type sliceRows struct {
	rows [][]string
	n    int
}

func (s *sliceRows) NextRow() (*vcf.Variant, []string, error) {
	if s.n == len(s.rows) {
		return nil, nil, nil
	}
	f := s.rows[s.n]
	s.n++
	pos, err := strconv.ParseInt(f[1], 10, 64)
	if err != nil {
		return nil, nil, err
	}
	return &vcf.Variant{Chrom: f[0], Pos: pos, Ref: f[2], Alt: f[3]}, f, nil
}

// fieldWriter records the first field of each row with the ids found.
type fieldWriter struct {
	rows []string
}

func (w *fieldWriter) WriteHeader() error { return nil }

func (w *fieldWriter) WriteRow(fields []string, v *vcf.Variant, anns []*Annotation) error {
	w.rows = append(w.rows, fields[0]+"="+MergeIDs(v, anns, false))
	return nil
}

func (w *fieldWriter) Flush() error { return nil }

func TestAnnotateRows(t *testing.T) {
	lookup := mapLookup{vcfKey("12", 25245351, "C", "A"): {121913529}}
	source := &sliceRows{rows: [][]string{
		{"12", "25245351", "C", "A"},
		{"12", "25245352", "C", "A"},
		{"12", "25245351", "C", "T"},
	}}

	ann := NewAnnotator(lookup)
	ann.SetWorkers(3)
	w := &fieldWriter{}

	stats, err := ann.AnnotateRows(source, w)
	require.NoError(t, err)
	assert.Equal(t, []string{"12=rs121913529", "12=.", "12=."}, w.rows)
	assert.Equal(t, Stats{Variants: 3, Matched: 1}, stats)
}
