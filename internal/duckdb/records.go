package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-rsid/internal/variantkey"
)

// Record is one (rsID, VariantKey) pair with the key decoded.
type Record struct {
	RsID       uint32
	VariantKey uint64
	Chrom      string
	Pos        int64 // 1-based
	Ref        string
	Alt        string
	Hashed     bool // alleles were hashed; Ref and Alt are unknown and stored as NULL
}

// NewRecord decodes vk into a Record.
func NewRecord(rsid uint32, vk uint64) Record {
	k := variantkey.Decode(vk)
	ref, alt, ok := variantkey.DecodeRefAlt(k.RefAlt)
	return Record{
		RsID:       rsid,
		VariantKey: vk,
		Chrom:      variantkey.DecodeChrom(k.Chrom),
		Pos:        int64(k.Pos) + 1,
		Ref:        ref,
		Alt:        alt,
		Hashed:     !ok,
	}
}

// recordKey is the primary key used to deduplicate before writing.
type recordKey struct {
	rsid uint32
	vk   uint64
}

// WriteRecords batch-inserts records and returns how many were new.
// Records are appended to a staging table with the Appender API and then
// merged, skipping pairs that are already stored.
func (s *Store) WriteRecords(records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	// Deduplicate by primary key (same pair from overlapping windows)
	seen := make(map[recordKey]bool, len(records))
	deduped := make([]Record, 0, len(records))
	for _, r := range records {
		k := recordKey{r.RsID, r.VariantKey}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, r)
		}
	}

	before, err := s.CountRecords()
	if err != nil {
		return 0, err
	}

	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "DELETE FROM rsid_variants_staging"); err != nil {
		return 0, fmt.Errorf("reset staging: %w", err)
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "rsid_variants_staging")
		return err
	}); err != nil {
		return 0, fmt.Errorf("create appender: %w", err)
	}

	for _, r := range deduped {
		if err := appender.AppendRow(
			r.RsID, r.VariantKey, r.Chrom, r.Pos, r.allele(r.Ref), r.allele(r.Alt),
		); err != nil {
			appender.Close()
			return 0, fmt.Errorf("append record: %w", err)
		}
	}
	if err := appender.Close(); err != nil {
		return 0, fmt.Errorf("flush records: %w", err)
	}

	if _, err := conn.ExecContext(ctx,
		"INSERT OR IGNORE INTO rsid_variants SELECT * FROM rsid_variants_staging"); err != nil {
		return 0, fmt.Errorf("merge records: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "DELETE FROM rsid_variants_staging"); err != nil {
		return 0, fmt.Errorf("reset staging: %w", err)
	}

	after, err := s.CountRecords()
	if err != nil {
		return 0, err
	}
	return int(after - before), nil
}

// ClearRecords removes all exported records and sources.
func (s *Store) ClearRecords() error {
	if _, err := s.db.Exec("DELETE FROM rsid_variants"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM export_sources")
	return err
}

// CountRecords returns the number of stored records.
func (s *Store) CountRecords() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT count(*) FROM rsid_variants").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// SearchRegion returns stored records on chrom with 1-based positions
// start..end inclusive, ordered by position.
func (s *Store) SearchRegion(chrom string, start, end int64) ([]Record, error) {
	rows, err := s.db.Query(`SELECT rsid, variantkey, chrom, pos, ref, alt
		FROM rsid_variants WHERE chrom=? AND pos BETWEEN ? AND ?
		ORDER BY variantkey, rsid`, chrom, start, end)
	if err != nil {
		return nil, fmt.Errorf("query region: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// scanRecords scans rows into Record slices.
func scanRecords(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		var ref, alt sql.NullString
		if err := rows.Scan(&r.RsID, &r.VariantKey, &r.Chrom, &r.Pos, &ref, &alt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Ref, r.Alt = ref.String, alt.String
		r.Hashed = !ref.Valid
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// allele returns the stored value of an allele: NULL when hashed.
func (r Record) allele(s string) any {
	if r.Hashed {
		return nil
	}
	return s
}
