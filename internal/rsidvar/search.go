package rsidvar

// sortKey returns the value of the sort column at row i.
func (t *Table) sortKey(i uint64) uint64 {
	if t.order == OrderRsID {
		return uint64(t.rsID(i))
	}
	return t.variantKey(i)
}

// lowerBound returns the first index in [first, last] whose sort key is
// >= target, or last+1 if there is none.
func (t *Table) lowerBound(first, last, target uint64) uint64 {
	lo, hi := first, last+1
	for lo < hi {
		mid := lo + (hi-lo)/2
		if t.sortKey(mid) < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// upperBound returns the first index in [first, last] whose sort key is
// > target, or last+1 if there is none.
func (t *Table) upperBound(first, last, target uint64) uint64 {
	lo, hi := first, last+1
	for lo < hi {
		mid := lo + (hi-lo)/2
		if t.sortKey(mid) <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// findFirst returns the leftmost index in [first, last] holding target.
func (t *Table) findFirst(first, last, target uint64) (uint64, bool) {
	if !t.validBounds(first, last) {
		return first, false
	}
	i := t.lowerBound(first, last, target)
	if i > last || t.sortKey(i) != target {
		return first, false
	}
	return i, true
}

// findNext steps from a matching position to the next row of the same run.
func (t *Table) findNext(pos, last, target uint64) (uint64, bool) {
	next := pos + 1
	if next == 0 || next > last || last >= t.rows {
		return next, false
	}
	if t.sortKey(next) != target {
		return next, false
	}
	return next, true
}
