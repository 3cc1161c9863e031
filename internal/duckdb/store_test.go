package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-rsid/internal/variantkey"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// lookupRsID returns the stored records for an rsID ordered by VariantKey.
func lookupRsID(t *testing.T, s *Store, rsid uint32) []Record {
	t.Helper()
	rows, err := s.db.Query(`SELECT rsid, variantkey, chrom, pos, ref, alt
		FROM rsid_variants WHERE rsid=? ORDER BY variantkey`, rsid)
	require.NoError(t, err)
	defer rows.Close()

	records, err := scanRecords(rows)
	require.NoError(t, err)
	return records
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "export.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewRecord(t *testing.T) {
	r := NewRecord(121913529, variantkey.Encode("12", 25245350, "C", "A"))
	assert.Equal(t, "12", r.Chrom)
	assert.Equal(t, int64(25245351), r.Pos)
	assert.Equal(t, "C", r.Ref)
	assert.Equal(t, "A", r.Alt)

	assert.False(t, r.Hashed)

	r = NewRecord(1, variantkey.Encode("X", 9, "A", "<DEL>"))
	assert.Equal(t, "X", r.Chrom)
	assert.Empty(t, r.Ref)
	assert.Empty(t, r.Alt)
	assert.True(t, r.Hashed)
}

func TestWriteRecords_EmptyAlleleIsNotHashed(t *testing.T) {
	s := openInMemory(t)

	empty := NewRecord(7, variantkey.Encode("1", 99, "A", ""))
	hashed := NewRecord(8, variantkey.Encode("1", 99, "A", "<DEL>"))
	require.False(t, empty.Hashed)
	require.Equal(t, "A", empty.Ref)
	require.Empty(t, empty.Alt)

	_, err := s.WriteRecords([]Record{empty, hashed})
	require.NoError(t, err)

	var nullAlts int
	require.NoError(t, s.db.QueryRow(
		"SELECT count(*) FROM rsid_variants WHERE alt IS NULL").Scan(&nullAlts))
	assert.Equal(t, 1, nullAlts)

	got := lookupRsID(t, s, 7)
	require.Len(t, got, 1)
	assert.Equal(t, empty, got[0])

	got = lookupRsID(t, s, 8)
	require.Len(t, got, 1)
	assert.Equal(t, hashed, got[0])
}

func TestWriteAndLookupRecords(t *testing.T) {
	s := openInMemory(t)

	records := []Record{
		NewRecord(121913529, variantkey.Encode("12", 25245350, "C", "A")),
		NewRecord(121913529, variantkey.Encode("12", 25245350, "C", "T")),
		NewRecord(113488022, variantkey.Encode("7", 140753335, "A", "T")),
		NewRecord(113488022, variantkey.Encode("7", 140753335, "A", "T")), // duplicate in batch
		NewRecord(5, variantkey.Encode("7", 140753340, "A", "<INS>")),
	}

	n, err := s.WriteRecords(records)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	got := lookupRsID(t, s, 121913529)
	require.Len(t, got, 2)
	assert.Equal(t, records[0], got[0])
	assert.Equal(t, records[1], got[1])

	got = lookupRsID(t, s, 5)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Ref)
	assert.True(t, got[0].Hashed)

	assert.Empty(t, lookupRsID(t, s, 999))

	// Re-exporting an overlapping window only adds new pairs.
	n, err = s.WriteRecords([]Record{
		records[0],
		NewRecord(6, variantkey.Encode("7", 140753341, "G", "C")),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := s.CountRecords()
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestWriteRecords_Empty(t *testing.T) {
	s := openInMemory(t)
	n, err := s.WriteRecords(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSearchRegion(t *testing.T) {
	s := openInMemory(t)

	_, err := s.WriteRecords([]Record{
		NewRecord(1, variantkey.Encode("7", 99, "A", "C")),
		NewRecord(2, variantkey.Encode("7", 149, "G", "T")),
		NewRecord(3, variantkey.Encode("7", 199, "C", "A")),
		NewRecord(4, variantkey.Encode("8", 149, "C", "A")),
	})
	require.NoError(t, err)

	got, err := s.SearchRegion("7", 100, 150)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint32(1), got[0].RsID)
	assert.Equal(t, uint32(2), got[1].RsID)
}

func TestSourcesAndClear(t *testing.T) {
	s := openInMemory(t)

	mod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.WriteSource(Source{
		FileFingerprint: FileFingerprint{Path: "/data/vkrs.bin", Size: 1200, ModTime: mod},
		Kind:            "vr",
		Rows:            100,
	}))
	_, err := s.WriteRecords([]Record{NewRecord(1, variantkey.Encode("1", 1, "A", "C"))})
	require.NoError(t, err)

	sources, err := s.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "/data/vkrs.bin", sources[0].Path)
	assert.Equal(t, "vr", sources[0].Kind)
	assert.Equal(t, int64(1200), sources[0].Size)
	assert.Equal(t, uint64(100), sources[0].Rows)
	assert.True(t, mod.Equal(sources[0].ModTime))

	require.NoError(t, s.ClearRecords())
	count, err := s.CountRecords()
	require.NoError(t, err)
	assert.Zero(t, count)
	sources, err = s.Sources()
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 24), 0o644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(24), fp.Size)
	assert.Equal(t, path, fp.Path)

	_, err = StatFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
