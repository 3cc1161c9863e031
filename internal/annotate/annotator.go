package annotate

import (
	"fmt"
	"iter"
	"runtime"

	"go.uber.org/zap"

	"github.com/inodb/vibe-rsid/internal/variantkey"
	"github.com/inodb/vibe-rsid/internal/vcf"
)

// RsIDLookup finds the rsIDs recorded for a VariantKey.
type RsIDLookup interface {
	RsIDsByVariantKey(vk uint64) iter.Seq[uint32]
}

// Annotator looks up rsIDs for variants.
type Annotator struct {
	lookup  RsIDLookup
	workers int
	logger  *zap.Logger
}

// NewAnnotator creates a new annotator backed by the given lookup.
func NewAnnotator(l RsIDLookup) *Annotator {
	return &Annotator{
		lookup: l,
		logger: zap.NewNop(),
	}
}

// SetWorkers sets the number of annotation workers. 0 means runtime.NumCPU().
func (a *Annotator) SetWorkers(n int) {
	a.workers = n
}

// SetLogger sets the logger for warning and info messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Annotate looks up every alternate allele of v.
// VCF positions are 1-based; VariantKeys store 0-based positions.
func (a *Annotator) Annotate(v *vcf.Variant) ([]*Annotation, error) {
	if v.Pos < 1 || v.Pos-1 > variantkey.MaxPos {
		return nil, fmt.Errorf("position %d outside VariantKey range", v.Pos)
	}
	chrom := variantkey.EncodeChrom(v.Chrom)
	pos := uint32(v.Pos - 1)

	alts := v.Alts()
	anns := make([]*Annotation, 0, len(alts))
	for _, alt := range alts {
		ann := &Annotation{
			Allele:     alt,
			VariantKey: variantkey.Pack(chrom, pos, variantkey.EncodeRefAlt(v.Ref, alt)),
		}
		// Keys on unknown contigs cannot be told apart across contigs.
		if chrom != variantkey.ChromNA {
			for rs := range a.lookup.RsIDsByVariantKey(ann.VariantKey) {
				ann.RsIDs = append(ann.RsIDs, rs)
			}
		}
		anns = append(anns, ann)
	}
	return anns, nil
}

// Stats summarises an AnnotateAll run.
type Stats struct {
	Variants int // records read
	Matched  int // records with at least one rsID
	Failed   int // records that could not be annotated
}

// AnnotateAll annotates all variants from a parser and writes them in input order.
func (a *Annotator) AnnotateAll(parser vcf.VariantParser, writer AnnotationWriter) (Stats, error) {
	next := func() (*vcf.Variant, any, error) {
		v, err := parser.Next()
		return v, nil, err
	}
	write := func(r WorkResult) error {
		return writer.Write(r.Variant, r.Anns)
	}
	return a.annotateStream(next, write, writer.Flush)
}

// AnnotateRows is AnnotateAll for sources whose rows are written back
// field by field, such as MAF files.
func (a *Annotator) AnnotateRows(source RowSource, writer RowAnnotationWriter) (Stats, error) {
	next := func() (*vcf.Variant, any, error) {
		v, fields, err := source.NextRow()
		return v, fields, err
	}
	write := func(r WorkResult) error {
		fields, _ := r.Extra.([]string)
		return writer.WriteRow(fields, r.Variant, r.Anns)
	}
	return a.annotateStream(next, write, writer.Flush)
}

// annotateStream reads variants with next, annotates them on the worker pool
// and hands the results to write in input order.
func (a *Annotator) annotateStream(next func() (*vcf.Variant, any, error), write func(WorkResult) error, flush func() error) (Stats, error) {
	var stats Stats
	items := make(chan WorkItem, 2*runtime.NumCPU())
	var parseErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			v, extra, err := next()
			if err != nil {
				parseErr = fmt.Errorf("read variant: %w", err)
				return
			}
			if v == nil {
				return
			}
			items <- WorkItem{Seq: seq, Variant: v, Extra: extra}
			seq++
		}
	}()

	results := a.ParallelAnnotate(items, a.workers)

	if err := OrderedCollect(results, func(r WorkResult) error {
		stats.Variants++
		if r.Err != nil {
			stats.Failed++
			a.logger.Warn("failed to annotate variant",
				zap.String("chrom", r.Variant.Chrom),
				zap.Int64("pos", r.Variant.Pos),
				zap.Error(r.Err))
		}
		for _, ann := range r.Anns {
			if len(ann.RsIDs) > 0 {
				stats.Matched++
				break
			}
		}
		if err := write(r); err != nil {
			return fmt.Errorf("write annotation: %w", err)
		}
		return nil
	}); err != nil {
		return stats, err
	}

	if parseErr != nil {
		return stats, parseErr
	}

	if stats.Variants == 0 {
		a.logger.Info("0 variants processed")
	}

	return stats, flush()
}

// AnnotationWriter defines the interface for writing annotations.
type AnnotationWriter interface {
	WriteHeader() error
	Write(v *vcf.Variant, anns []*Annotation) error
	Flush() error
}

// RowSource yields variants together with the raw fields of their input row.
type RowSource interface {
	NextRow() (*vcf.Variant, []string, error)
}

// RowAnnotationWriter writes annotations into the input row they came from.
type RowAnnotationWriter interface {
	WriteHeader() error
	WriteRow(fields []string, v *vcf.Variant, anns []*Annotation) error
	Flush() error
}
