package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-rsid/internal/duckdb"
	"github.com/inodb/vibe-rsid/internal/rsidvar"
	"github.com/inodb/vibe-rsid/internal/variantkey"
)

// exportBatch is the number of records appended per DuckDB write.
const exportBatch = 100_000

func newExportCmd() *cobra.Command {
	var (
		outputPath string
		clearFirst bool
		verify     bool
	)

	cmd := &cobra.Command{
		Use:   "export <chrom> <start> <end>",
		Short: "Export the rsIDs of a region into a DuckDB database",
		Long: `Copy the VR table rows of a region (1-based, inclusive) into the
rsid_variants table of a DuckDB database for SQL queries.`,
		Example: `  vibe-rsid export -o kras.duckdb 12 25205246 25250936
  duckdb kras.duckdb "SELECT * FROM rsid_variants LIMIT 10"`,
		Args: checkArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				return usageError{err: fmt.Errorf("--output is required"), cmd: cmd.CommandPath()}
			}
			chrom, posMin, posMax, err := parseRegion(cmd, args)
			if err != nil {
				return err
			}

			vr, vrPath, err := openVR()
			if err != nil {
				return err
			}
			defer vr.Close()

			store, err := duckdb.Open(outputPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if clearFirst {
				if err := store.ClearRecords(); err != nil {
					return fmt.Errorf("clear records: %w", err)
				}
			}

			r := vr.FindChromPosRange(0, vr.Rows()-1, chrom, posMin, posMax)

			written := 0
			batch := make([]duckdb.Record, 0, min(r.Len(), exportBatch))
			flush := func() error {
				n, err := store.WriteRecords(batch)
				if err != nil {
					return err
				}
				written += n
				batch = batch[:0]
				return nil
			}
			for vk, rsid := range vr.RangeRows(r) {
				batch = append(batch, duckdb.NewRecord(rsid, vk))
				if len(batch) == exportBatch {
					if err := flush(); err != nil {
						return err
					}
				}
			}
			if err := flush(); err != nil {
				return err
			}

			fp, err := duckdb.StatFile(vrPath)
			if err != nil {
				return err
			}
			if err := store.WriteSource(duckdb.Source{FileFingerprint: fp, Kind: "vr", Rows: vr.Rows()}); err != nil {
				return err
			}

			if verify {
				if err := verifyExport(store, vr, r, chrom, posMin, posMax); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Verified %d records in %s:%d-%d\n",
					r.Len(), variantkey.DecodeChrom(chrom), uint64(posMin)+1, uint64(posMax)+1)
			}

			logger.Info("export complete",
				zap.String("chrom", variantkey.DecodeChrom(chrom)),
				zap.Uint64("rows", r.Len()),
				zap.Int("written", written),
				zap.String("output", outputPath))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records (%d new) to %s\n", r.Len(), written, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output DuckDB file")
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "Remove previously exported records first")
	cmd.Flags().BoolVar(&verify, "verify", false, "Read the region back and check every table row was stored")
	return cmd
}

// verifyExport checks that every row of r is stored in the region's records.
func verifyExport(store *duckdb.Store, vr *rsidvar.VRTable, r rsidvar.Range, chrom uint8, posMin, posMax uint32) error {
	stored, err := store.SearchRegion(variantkey.DecodeChrom(chrom), int64(posMin)+1, int64(posMax)+1)
	if err != nil {
		return err
	}
	have := make(map[duckdb.Record]bool, len(stored))
	for _, rec := range stored {
		have[rec] = true
	}

	missing := 0
	for vk, rsid := range vr.RangeRows(r) {
		if !have[duckdb.NewRecord(rsid, vk)] {
			missing++
		}
	}
	if missing > 0 {
		return fmt.Errorf("verify export: %d of %d records missing", missing, r.Len())
	}
	return nil
}
