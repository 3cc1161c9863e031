package rsidvar

import (
	"iter"

	"github.com/inodb/vibe-rsid/internal/variantkey"
)

// VRTable is a table sorted by VariantKey.
type VRTable struct {
	*Table
}

// NewVRTable wraps data as a VariantKey-sorted table. The table borrows data.
func NewVRTable(data []byte, layout Layout) (*VRTable, error) {
	t, err := newTable(data, OrderVariantKey, layout)
	if err != nil {
		return nil, err
	}
	return &VRTable{Table: t}, nil
}

// FindRsIDByVariantKey searches rows first..last (inclusive) for vk and
// returns the rsID of the leftmost match with its index.
// When vk is absent it returns (0, first, false).
func (t *VRTable) FindRsIDByVariantKey(first, last uint64, vk uint64) (rsid uint32, pos uint64, ok bool) {
	pos, ok = t.findFirst(first, last, vk)
	if !ok {
		return 0, pos, false
	}
	return t.rsID(pos), pos, true
}

// NextRsIDByVariantKey returns the rsID of the row after pos if it still
// holds vk. Once ok is false the run is exhausted.
func (t *VRTable) NextRsIDByVariantKey(pos, last uint64, vk uint64) (rsid uint32, next uint64, ok bool) {
	next, ok = t.findNext(pos, last, vk)
	if !ok {
		return 0, next, false
	}
	return t.rsID(next), next, true
}

// RsIDsByVariantKey yields every rsID paired with vk, in table order.
func (t *VRTable) RsIDsByVariantKey(vk uint64) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		if t.rows == 0 {
			return
		}
		last := t.rows - 1
		rsid, pos, ok := t.FindRsIDByVariantKey(0, last, vk)
		for ok {
			if !yield(rsid) {
				return
			}
			rsid, pos, ok = t.NextRsIDByVariantKey(pos, last, vk)
		}
	}
}

// Range is the result of a chromosome/position window search.
type Range struct {
	RsID  uint32 // rsID of the row at First, 0 when not found
	First uint64 // first matching row
	Last  uint64 // last matching row, inclusive
	Found bool
}

// Len returns the number of rows in the range.
func (r Range) Len() uint64 {
	if !r.Found {
		return 0
	}
	return r.Last - r.First + 1
}

// FindChromPosRange returns the rows within first..last whose chromosome is
// chrom and whose 0-based position is within posMin..posMax (inclusive).
// Codes above variantkey.MaxChrom match nothing.
//
// Chromosome and position occupy the high bits of a VariantKey, so the window
// is the contiguous key interval between the smallest key at posMin and the
// largest key at posMax, found with two binary searches.
func (t *VRTable) FindChromPosRange(first, last uint64, chrom uint8, posMin, posMax uint32) Range {
	if chrom > variantkey.MaxChrom || posMin > posMax || posMin > variantkey.MaxPos || !t.validBounds(first, last) {
		return Range{}
	}
	lo, hi := variantkey.Range(chrom, posMin, posMax)

	start := t.lowerBound(first, last, lo)
	if start > last {
		return Range{}
	}
	end := t.upperBound(start, last, hi)
	if end <= start {
		return Range{}
	}
	return Range{
		RsID:  t.rsID(start),
		First: start,
		Last:  end - 1,
		Found: true,
	}
}

// RangeRows yields the VariantKey and rsID of every row in r.
func (t *VRTable) RangeRows(r Range) iter.Seq2[uint64, uint32] {
	return func(yield func(uint64, uint32) bool) {
		if !r.Found || r.Last >= t.rows {
			return
		}
		for i := r.First; i <= r.Last; i++ {
			if !yield(t.Row(i)) {
				return
			}
		}
	}
}
