package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/vibe-rsid/internal/annotate"
	"github.com/inodb/vibe-rsid/internal/output"
	"github.com/inodb/vibe-rsid/internal/rsidvar"
	"github.com/inodb/vibe-rsid/internal/variantkey"
)

func newRsIDCmd() *cobra.Command {
	var idsFile string

	cmd := &cobra.Command{
		Use:   "rsid [rsID...]",
		Short: "Look up the variants of rsIDs in the RV table",
		Example: `  vibe-rsid rsid rs113488022 rs121913529
  vibe-rsid rsid --file ids.txt`,
		Args: checkArgs(func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && idsFile == "" {
				return fmt.Errorf("at least one rsID or --file is required")
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := args
			if idsFile != "" {
				fromFile, err := readIDs(idsFile)
				if err != nil {
					return err
				}
				ids = append(ids, fromFile...)
			}

			rsids := make([]uint32, len(ids))
			for i, s := range ids {
				id, err := annotate.ParseRsID(s)
				if err != nil {
					return usageError{err: fmt.Errorf("invalid rsID %q", s), cmd: cmd.CommandPath()}
				}
				rsids[i] = id
			}

			rv, _, err := openRV()
			if err != nil {
				return err
			}
			defer rv.Close()

			found, err := lookupRsIDs(cmd.Context(), rv, rsids, viper.GetInt("annotate.workers"))
			if err != nil {
				return err
			}

			w := output.NewRowWriter(cmd.OutOrStdout())
			if err := w.WriteHeader(); err != nil {
				return err
			}
			missing := 0
			for i, vks := range found {
				if len(vks) == 0 {
					missing++
					logger.Debug("rsID not found", zap.String("rsid", annotate.FormatRsID(rsids[i])))
				}
				for _, vk := range vks {
					if err := w.Write(rsids[i], vk); err != nil {
						return err
					}
				}
			}
			if missing > 0 {
				logger.Info("rsIDs without a match", zap.Int("count", missing), zap.Int("total", len(rsids)))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&idsFile, "file", "", "File with one rsID per line")
	return cmd
}

// lookupRsIDs resolves rsids concurrently and returns the keys in input order.
// It stops early when ctx is cancelled.
func lookupRsIDs(ctx context.Context, rv *rsidvar.RVTable, rsids []uint32, workers int) ([][]uint64, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	found := make([][]uint64, len(rsids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range rsids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for vk := range rv.VariantKeysByRsID(id) {
				found[i] = append(found[i], vk)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("look up rsids: %w", err)
	}
	return found, nil
}

func readIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open id file: %w", err)
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read id file: %w", err)
	}
	return ids, nil
}

func newVariantKeyCmd() *cobra.Command {
	var hex string

	cmd := &cobra.Command{
		Use:   "variantkey [<chrom> <pos> <ref> <alt> | <chrom:pos:ref:alt>]",
		Short: "Look up the rsIDs of a variant in the VR table",
		Example: `  vibe-rsid variantkey 7 140753336 A T
  vibe-rsid variantkey chr7:140753336:A>T
  vibe-rsid variantkey --hex 3a1f4e6b08800000`,
		Args: checkArgs(func(cmd *cobra.Command, args []string) error {
			if hex != "" {
				return cobra.NoArgs(cmd, args)
			}
			if len(args) != 1 && len(args) != 4 {
				return fmt.Errorf("accepts 1 or 4 arg(s), received %d", len(args))
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			var vk uint64
			if hex != "" {
				v, err := variantkey.ParseHex(hex)
				if err != nil {
					return usageError{err: err, cmd: cmd.CommandPath()}
				}
				vk = v
			} else if len(args) == 1 {
				spec, err := annotate.ParseVariantSpec(args[0])
				if err != nil {
					return usageError{err: err, cmd: cmd.CommandPath()}
				}
				vk = spec.VariantKey()
			} else {
				pos, err := parsePosition(cmd, args[1])
				if err != nil {
					return err
				}
				vk = variantkey.Encode(args[0], pos, args[2], args[3])
			}

			vr, _, err := openVR()
			if err != nil {
				return err
			}
			defer vr.Close()

			w := output.NewRowWriter(cmd.OutOrStdout())
			if err := w.WriteHeader(); err != nil {
				return err
			}
			n := 0
			for rsid := range vr.RsIDsByVariantKey(vk) {
				if err := w.Write(rsid, vk); err != nil {
					return err
				}
				n++
			}
			logger.Debug("variantkey lookup",
				zap.String("variantkey", variantkey.Hex(vk)),
				zap.Int("matches", n))
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&hex, "hex", "", "VariantKey as 16 hex digits")
	return cmd
}

func newRangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "range <chrom> <start> <end>",
		Short:   "List the rsIDs in a region using the VR table",
		Long:    "List the rsIDs of variants on <chrom> with 1-based positions start..end inclusive.",
		Example: `  vibe-rsid range 12 25245000 25246000`,
		Args:    checkArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			chrom, posMin, posMax, err := parseRegion(cmd, args)
			if err != nil {
				return err
			}

			vr, _, err := openVR()
			if err != nil {
				return err
			}
			defer vr.Close()

			r := vr.FindChromPosRange(0, vr.Rows()-1, chrom, posMin, posMax)
			logger.Debug("range lookup",
				zap.String("chrom", variantkey.DecodeChrom(chrom)),
				zap.Uint64("rows", r.Len()))

			w := output.NewRowWriter(cmd.OutOrStdout())
			if err := w.WriteHeader(); err != nil {
				return err
			}
			for vk, rsid := range vr.RangeRows(r) {
				if err := w.Write(rsid, vk); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}
}

// parseRegion parses <chrom> <start> <end> into VariantKey coordinates.
func parseRegion(cmd *cobra.Command, args []string) (chrom uint8, posMin, posMax uint32, err error) {
	chrom = variantkey.EncodeChrom(args[0])
	if chrom == variantkey.ChromNA {
		return 0, 0, 0, usageError{err: fmt.Errorf("unsupported chromosome %q", args[0]), cmd: cmd.CommandPath()}
	}
	if posMin, err = parsePosition(cmd, args[1]); err != nil {
		return 0, 0, 0, err
	}
	if posMax, err = parseEndPosition(cmd, args[2]); err != nil {
		return 0, 0, 0, err
	}
	return chrom, posMin, posMax, nil
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the configured tables",
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			shown := 0

			if viper.GetString("tables.rv") != "" {
				rv, path, err := openRV()
				if err != nil {
					return err
				}
				defer rv.Close()
				printTableInfo(cmd, "RV", path, rv.Table)
				shown++
			}
			if viper.GetString("tables.vr") != "" {
				vr, path, err := openVR()
				if err != nil {
					return err
				}
				defer vr.Close()
				printTableInfo(cmd, "VR", path, vr.Table)
				shown++
			}

			if shown == 0 {
				fmt.Fprintln(out, "No tables configured. Use --rv/--vr or 'vibe-rsid config set tables.rv <path>'.")
			}
			return nil
		},
	}
}

func printTableInfo(cmd *cobra.Command, kind, path string, t *rsidvar.Table) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s table: %s\n", kind, path)
	fmt.Fprintf(out, "  Layout: %s\n", t.Layout())
	fmt.Fprintf(out, "  Rows:   %d\n", t.Rows())

	vk, rs := t.Row(0)
	fmt.Fprintf(out, "  First:  %s %s (%s)\n", annotate.FormatRsID(rs), variantkey.Hex(vk), variantkey.Decode(vk))
	vk, rs = t.Row(t.Rows() - 1)
	fmt.Fprintf(out, "  Last:   %s %s (%s)\n", annotate.FormatRsID(rs), variantkey.Hex(vk), variantkey.Decode(vk))
}
