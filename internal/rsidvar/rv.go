package rsidvar

import "iter"

// RVTable is a table sorted by rsID.
type RVTable struct {
	*Table
}

// NewRVTable wraps data as an rsID-sorted table. The table borrows data.
func NewRVTable(data []byte, layout Layout) (*RVTable, error) {
	t, err := newTable(data, OrderRsID, layout)
	if err != nil {
		return nil, err
	}
	return &RVTable{Table: t}, nil
}

// FindVariantKeyByRsID searches rows first..last (inclusive) for rsid.
//
// On success it returns the VariantKey of the leftmost matching row and that
// row's index, which NextVariantKeyByRsID takes to walk the remaining
// duplicates. When rsid is absent, or the bounds are invalid, it returns
// (0, first, false).
func (t *RVTable) FindVariantKeyByRsID(first, last uint64, rsid uint32) (vk uint64, pos uint64, ok bool) {
	pos, ok = t.findFirst(first, last, uint64(rsid))
	if !ok {
		return 0, pos, false
	}
	return t.variantKey(pos), pos, true
}

// NextVariantKeyByRsID returns the VariantKey of the row after pos if it still
// holds rsid. last must be the bound passed to FindVariantKeyByRsID.
// Once ok is false the run is exhausted.
func (t *RVTable) NextVariantKeyByRsID(pos, last uint64, rsid uint32) (vk uint64, next uint64, ok bool) {
	next, ok = t.findNext(pos, last, uint64(rsid))
	if !ok {
		return 0, next, false
	}
	return t.variantKey(next), next, true
}

// VariantKeysByRsID yields every VariantKey paired with rsid, in table order.
func (t *RVTable) VariantKeysByRsID(rsid uint32) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		if t.rows == 0 {
			return
		}
		last := t.rows - 1
		vk, pos, ok := t.FindVariantKeyByRsID(0, last, rsid)
		for ok {
			if !yield(vk) {
				return
			}
			vk, pos, ok = t.NextVariantKeyByRsID(pos, last, rsid)
		}
	}
}
