// Package rsidvar provides rsID to VariantKey lookups over sorted binary tables.
//
// Two tables back the two directions:
//
//   - RV, sorted by rsID, maps rsID to VariantKey.
//   - VR, sorted by VariantKey, maps VariantKey to rsID and answers
//     chromosome/position window queries.
//
// Each row is 12 bytes: an 8-byte VariantKey and a 4-byte rsID, little-endian.
// Tables are read in place from a byte region (usually a memory mapping) and
// are never modified.
//
// The sort column must be non-decreasing. This is not verified: a table that
// violates it returns unspecified results but never reads out of bounds.
package rsidvar

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// RecordSize is the number of bytes per table row.
const RecordSize = 12

const (
	vkWidth = 8
	rsWidth = 4
)

// ErrMalformedTable is returned when a byte region cannot hold a table.
var ErrMalformedTable = errors.New("malformed table")

// Order identifies a table's sort column.
type Order int

const (
	// OrderRsID tables (RV) are sorted by rsID.
	OrderRsID Order = iota
	// OrderVariantKey tables (VR) are sorted by VariantKey.
	OrderVariantKey
)

func (o Order) String() string {
	switch o {
	case OrderRsID:
		return "rv"
	case OrderVariantKey:
		return "vr"
	}
	return fmt.Sprintf("order(%d)", int(o))
}

// Layout is the physical arrangement of the two columns in the region.
type Layout int

const (
	// LayoutColumnar stores the sort column first, then the paired column.
	LayoutColumnar Layout = iota
	// LayoutInterleaved stores each row as [VariantKey][rsID].
	LayoutInterleaved
)

func (l Layout) String() string {
	switch l {
	case LayoutColumnar:
		return "columnar"
	case LayoutInterleaved:
		return "interleaved"
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

// ParseLayout parses the names returned by Layout.String.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "columnar":
		return LayoutColumnar, nil
	case "interleaved":
		return LayoutInterleaved, nil
	}
	return 0, fmt.Errorf("unknown table layout %q", s)
}

// Table is a read-only view over the two parallel columns of a table.
type Table struct {
	data   []byte
	rows   uint64
	order  Order
	layout Layout

	// Column base offsets for LayoutColumnar.
	vkBase uint64
	rsBase uint64

	closer io.Closer
}

func newTable(data []byte, order Order, layout Layout) (*Table, error) {
	n := uint64(len(data))
	if n < RecordSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than one %d-byte record", ErrMalformedTable, n, RecordSize)
	}
	if n%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrMalformedTable, n, RecordSize)
	}
	if layout != LayoutColumnar && layout != LayoutInterleaved {
		return nil, fmt.Errorf("%w: %s", ErrMalformedTable, layout)
	}

	t := &Table{
		data:   data,
		rows:   n / RecordSize,
		order:  order,
		layout: layout,
	}
	if layout == LayoutColumnar {
		if order == OrderRsID {
			t.rsBase, t.vkBase = 0, t.rows*rsWidth
		} else {
			t.vkBase, t.rsBase = 0, t.rows*vkWidth
		}
	}
	return t, nil
}

// Rows returns the number of rows, or 0 once the table is closed.
func (t *Table) Rows() uint64 {
	return t.rows
}

// Order returns the table's sort column.
func (t *Table) Order() Order {
	return t.order
}

// Layout returns the table's physical layout.
func (t *Table) Layout() Layout {
	return t.layout
}

// Row returns both columns of row i. i must be below Rows.
func (t *Table) Row(i uint64) (vk uint64, rsid uint32) {
	return t.variantKey(i), t.rsID(i)
}

// Close releases the backing mapping, if the table owns one.
// A closed table has no rows and every search reports not found.
// Close must not be called while searches are in flight.
func (t *Table) Close() error {
	t.data = nil
	t.rows = 0
	if t.closer == nil {
		return nil
	}
	c := t.closer
	t.closer = nil
	return c.Close()
}

func (t *Table) variantKey(i uint64) uint64 {
	var off uint64
	if t.layout == LayoutInterleaved {
		off = i * RecordSize
	} else {
		off = t.vkBase + i*vkWidth
	}
	return binary.LittleEndian.Uint64(t.data[off : off+vkWidth])
}

func (t *Table) rsID(i uint64) uint32 {
	var off uint64
	if t.layout == LayoutInterleaved {
		off = i*RecordSize + vkWidth
	} else {
		off = t.rsBase + i*rsWidth
	}
	return binary.LittleEndian.Uint32(t.data[off : off+rsWidth])
}

// validBounds reports whether [first, last] is a searchable index range.
func (t *Table) validBounds(first, last uint64) bool {
	return first <= last && last < t.rows
}
