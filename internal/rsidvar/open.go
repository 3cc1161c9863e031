package rsidvar

import (
	"fmt"

	"github.com/inodb/vibe-rsid/internal/mmap"
)

// OpenRV maps an rsID-sorted table file. The returned table owns the mapping
// and must be closed by the caller.
func OpenRV(path string, layout Layout) (*RVTable, error) {
	m, err := openMapping(path)
	if err != nil {
		return nil, err
	}
	t, err := NewRVTable(m.Bytes(), layout)
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("open rv table %s: %w", path, err)
	}
	t.closer = m
	return t, nil
}

// OpenVR maps a VariantKey-sorted table file. The returned table owns the
// mapping and must be closed by the caller.
func OpenVR(path string, layout Layout) (*VRTable, error) {
	m, err := openMapping(path)
	if err != nil {
		return nil, err
	}
	t, err := NewVRTable(m.Bytes(), layout)
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("open vr table %s: %w", path, err)
	}
	t.closer = m
	return t, nil
}

func openMapping(path string) (*mmap.Mapping, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	// Lookups are random access.
	if err := m.Advise(mmap.AccessRandom); err != nil {
		m.Close()
		return nil, fmt.Errorf("advise %s: %w", path, err)
	}
	return m, nil
}
