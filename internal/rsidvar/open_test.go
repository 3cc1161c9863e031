package rsidvar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRV(t *testing.T) {
	vks := []uint64{0xA1, 0xA2, 0xA3}
	rss := []uint32{1, 5, 5}
	path := writeTable(t, "rsvk.bin", encodeTable(OrderRsID, LayoutColumnar, vks, rss))

	rv, err := OpenRV(path, LayoutColumnar)
	require.NoError(t, err)
	t.Cleanup(func() { rv.Close() })

	assert.Equal(t, uint64(3), rv.Rows())
	vk, pos, ok := rv.FindVariantKeyByRsID(0, rv.Rows()-1, 5)
	require.True(t, ok)
	assert.Equal(t, uint64(0xA2), vk)
	assert.Equal(t, uint64(1), pos)

	require.NoError(t, rv.Close())
	assert.Zero(t, rv.Rows())
	require.NoError(t, rv.Close())
}

func TestOpenVR(t *testing.T) {
	vks := []uint64{10, 20, 30}
	rss := []uint32{100, 200, 300}
	path := writeTable(t, "vkrs.bin", encodeTable(OrderVariantKey, LayoutInterleaved, vks, rss))

	vr, err := OpenVR(path, LayoutInterleaved)
	require.NoError(t, err)
	defer vr.Close()

	rsid, pos, ok := vr.FindRsIDByVariantKey(0, 2, 30)
	require.True(t, ok)
	assert.Equal(t, uint32(300), rsid)
	assert.Equal(t, uint64(2), pos)
}

func TestOpen_Malformed(t *testing.T) {
	path := writeTable(t, "bad.bin", make([]byte, 2*RecordSize+1))

	_, err := OpenRV(path, LayoutColumnar)
	assert.ErrorIs(t, err, ErrMalformedTable)
	_, err = OpenVR(path, LayoutColumnar)
	assert.ErrorIs(t, err, ErrMalformedTable)

	_, err = OpenVR(writeTable(t, "empty.bin", nil), LayoutColumnar)
	assert.ErrorIs(t, err, ErrMalformedTable)
}

func TestOpen_Missing(t *testing.T) {
	_, err := OpenRV(t.TempDir()+"/missing.bin", LayoutColumnar)
	assert.Error(t, err)
}
