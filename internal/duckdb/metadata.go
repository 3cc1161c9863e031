package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Source describes a table file that records were exported from.
type Source struct {
	FileFingerprint
	Kind string // "rv" or "vr"
	Rows uint64
}

// WriteSource records the table an export was taken from.
func (s *Store) WriteSource(src Source) error {
	_, err := s.db.Exec(`INSERT INTO export_sources (path, kind, size, mod_time, table_rows)
		VALUES (?, ?, ?, ?, ?)`,
		src.Path, src.Kind, src.Size, src.ModTime, src.Rows)
	if err != nil {
		return fmt.Errorf("write export source: %w", err)
	}
	return nil
}

// Sources lists recorded export sources, oldest first.
func (s *Store) Sources() ([]Source, error) {
	rows, err := s.db.Query(`SELECT path, kind, size, mod_time, table_rows
		FROM export_sources ORDER BY exported_at, path`)
	if err != nil {
		return nil, fmt.Errorf("query export sources: %w", err)
	}
	defer rows.Close()

	var out []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.Path, &src.Kind, &src.Size, &src.ModTime, &src.Rows); err != nil {
			return nil, fmt.Errorf("scan export source: %w", err)
		}
		out = append(out, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export sources: %w", err)
	}
	return out, nil
}
