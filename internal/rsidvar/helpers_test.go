package rsidvar

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeTable lays out paired columns the way a table producer would.
func encodeTable(order Order, layout Layout, vks []uint64, rss []uint32) []byte {
	n := len(vks)
	buf := make([]byte, n*RecordSize)
	switch {
	case layout == LayoutInterleaved:
		for i := range n {
			binary.LittleEndian.PutUint64(buf[i*RecordSize:], vks[i])
			binary.LittleEndian.PutUint32(buf[i*RecordSize+vkWidth:], rss[i])
		}
	case order == OrderRsID:
		for i := range n {
			binary.LittleEndian.PutUint32(buf[i*rsWidth:], rss[i])
			binary.LittleEndian.PutUint64(buf[n*rsWidth+i*vkWidth:], vks[i])
		}
	default:
		for i := range n {
			binary.LittleEndian.PutUint64(buf[i*vkWidth:], vks[i])
			binary.LittleEndian.PutUint32(buf[n*vkWidth+i*rsWidth:], rss[i])
		}
	}
	return buf
}

func writeTable(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

var layouts = []Layout{LayoutColumnar, LayoutInterleaved}
