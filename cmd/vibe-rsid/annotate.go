package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-rsid/internal/annotate"
	"github.com/inodb/vibe-rsid/internal/maf"
	"github.com/inodb/vibe-rsid/internal/output"
	"github.com/inodb/vibe-rsid/internal/vcf"
)

func newAnnotateCmd() *cobra.Command {
	var (
		outputFile   string
		inputFormat  string
		outputFormat string
		replaceIDs   bool
	)

	cmd := &cobra.Command{
		Use:   "annotate <input-file>",
		Short: "Fill VCF IDs or MAF dbSNP_RS columns with rsIDs",
		Long: `Look up every variant of a VCF or MAF file (plain or gzipped) in the VR
table and write it back with the matching rsIDs: in the ID column for VCF,
in the dbSNP_RS column for MAF. Use '-' for stdin.

MAF indels use MAF's "-" allele convention and only match tables built from
keys encoded the same way.`,
		Example: `  vibe-rsid annotate input.vcf
  vibe-rsid annotate -f tab -o rsids.tsv input.vcf.gz
  vibe-rsid annotate -o annotated.maf data_mutations.txt
  cat input.vcf | vibe-rsid annotate --replace-ids -`,
		Args: checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			format := inputFormat
			if format == "" {
				format = detectInputFormat(inputPath)
			}
			if format != "vcf" && format != "maf" {
				return usageError{err: fmt.Errorf("unknown input format %q", format), cmd: cmd.CommandPath()}
			}
			outFormat := outputFormat
			if outFormat == "" {
				outFormat = format
			}
			if outFormat != "tab" && outFormat != format {
				return usageError{
					err: fmt.Errorf("output format %q needs %s input, got %s", outFormat, outFormat, format),
					cmd: cmd.CommandPath(),
				}
			}

			vr, vrPath, err := openVR()
			if err != nil {
				return err
			}
			defer vr.Close()

			var out io.Writer = cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			ann := annotate.NewAnnotator(vr)
			ann.SetLogger(logger)
			ann.SetWorkers(viper.GetInt("annotate.workers"))

			var stats annotate.Stats
			switch format {
			case "maf":
				stats, err = annotateMAF(ann, inputPath, out, outFormat, !replaceIDs)
			default:
				stats, err = annotateVCF(ann, inputPath, out, outFormat, !replaceIDs, filepath.Base(vrPath))
			}
			if err != nil {
				return err
			}
			logger.Info("annotation complete",
				zap.String("format", format),
				zap.Int("variants", stats.Variants),
				zap.Int("matched", stats.Matched),
				zap.Int("failed", stats.Failed))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&inputFormat, "input-format", "i", "", "Input format: vcf, maf (default: from file name)")
	cmd.Flags().StringVarP(&outputFormat, "output-format", "f", "", "Output format: vcf, maf, tab (default: same as input)")
	cmd.Flags().BoolVar(&replaceIDs, "replace-ids", false, "Drop existing IDs instead of keeping them")
	cmd.Flags().Int("workers", 0, "Annotation workers (default: number of CPUs)")
	mustBind("annotate.workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func annotateVCF(ann *annotate.Annotator, path string, out io.Writer, format string, keep bool, source string) (annotate.Stats, error) {
	parser, err := vcf.NewParser(path)
	if err != nil {
		return annotate.Stats{}, err
	}
	defer parser.Close()

	var writer annotate.AnnotationWriter
	switch format {
	case "tab":
		writer = output.NewTabWriter(out)
	default:
		vw := output.NewVCFWriter(out, parser.Header())
		vw.SetKeepExisting(keep)
		vw.SetSource(source)
		writer = vw
	}
	if err := writer.WriteHeader(); err != nil {
		return annotate.Stats{}, fmt.Errorf("write header: %w", err)
	}
	return ann.AnnotateAll(parser, writer)
}

func annotateMAF(ann *annotate.Annotator, path string, out io.Writer, format string, keep bool) (annotate.Stats, error) {
	parser, err := maf.NewParser(path)
	if err != nil {
		return annotate.Stats{}, err
	}
	defer parser.Close()

	if format == "tab" {
		writer := output.NewTabWriter(out)
		if err := writer.WriteHeader(); err != nil {
			return annotate.Stats{}, fmt.Errorf("write header: %w", err)
		}
		return ann.AnnotateAll(parser, writer)
	}

	writer := output.NewMAFWriter(out, parser.Comments(), parser.Header(), parser.Columns())
	writer.SetKeepExisting(keep)
	if err := writer.WriteHeader(); err != nil {
		return annotate.Stats{}, fmt.Errorf("write header: %w", err)
	}
	return ann.AnnotateRows(parser, writer)
}

// detectInputFormat guesses vcf or maf from the file name.
func detectInputFormat(path string) string {
	lowerPath := strings.TrimSuffix(strings.ToLower(path), ".gz")

	if strings.HasSuffix(lowerPath, ".maf") {
		return "maf"
	}
	// cBioPortal mutation files
	switch filepath.Base(lowerPath) {
	case "data_mutations.txt", "data_mutations_extended.txt":
		return "maf"
	}
	return "vcf"
}
