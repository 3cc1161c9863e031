// Package main provides the vibe-rsid command-line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is built once flags and config are read.
var logger = zap.NewNop()

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	viper.Reset()
	logger = zap.NewNop()
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := root.ExecuteContext(ctx)
	_ = logger.Sync()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", ue.cmd)
		return ExitUsage
	}
	return ExitError
}

// usageError marks errors caused by bad arguments or flags.
type usageError struct {
	err error
	cmd string
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// checkArgs wraps a cobra argument validator so failures exit with ExitUsage.
func checkArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageError{err: err, cmd: cmd.CommandPath()}
		}
		return nil
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile     string
		verbose     bool
		showVersion bool
	)

	root := &cobra.Command{
		Use:   "vibe-rsid",
		Short: "rsID <-> VariantKey lookups over memory-mapped tables",
		Long: `vibe-rsid looks up dbSNP rsIDs and VariantKeys in sorted binary tables.

The RV table (sorted by rsID) answers rsID -> variant queries.
The VR table (sorted by VariantKey) answers variant -> rsID and region queries.
Positions on the command line are 1-based, as in VCF.`,
		Example: `  vibe-rsid rsid rs113488022
  vibe-rsid variantkey 7 140753336 A T
  vibe-rsid range 12 25245000 25246000
  vibe-rsid annotate -o annotated.vcf input.vcf.gz`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          checkArgs(cobra.NoArgs),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			level := viper.GetString("log.level")
			if verbose {
				level = "debug"
			}
			l, err := newLogger(level)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "vibe-rsid version %s (%s) built %s\n", version, commit, date)
				return nil
			}
			return cmd.Help()
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err: err, cmd: cmd.CommandPath()}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ~/.vibe-rsid.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.String("rv", "", "RV table: rsID-sorted binary file")
	flags.String("vr", "", "VR table: VariantKey-sorted binary file")
	flags.String("layout", "columnar", "Table layout: columnar or interleaved")
	root.Flags().BoolVar(&showVersion, "version", false, "Show version information")

	mustBind("tables.rv", flags.Lookup("rv"))
	mustBind("tables.vr", flags.Lookup("vr"))
	mustBind("tables.layout", flags.Lookup("layout"))

	root.AddCommand(
		newRsIDCmd(),
		newVariantKeyCmd(),
		newRangeCmd(),
		newInfoCmd(),
		newAnnotateCmd(),
		newExportCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "vibe-rsid version %s (%s) built %s\n", version, commit, date)
			return nil
		},
	}
}

// initConfig loads ~/.vibe-rsid.yaml (or cfgFile) and VIBE_RSID_* variables.
func initConfig(cfgFile string) error {
	viper.SetDefault("tables.layout", "columnar")
	viper.SetDefault("annotate.workers", 0)
	viper.SetDefault("log.level", "warn")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".vibe-rsid")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VIBE_RSID")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// defaultConfigPath is where "config set" writes when no file was loaded.
func defaultConfigPath() (string, error) {
	if f := viper.ConfigFileUsed(); f != "" {
		return f, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".vibe-rsid.yaml"), nil
}

// newLogger builds a console logger on stderr.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.TimeKey = ""
	return cfg.Build()
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
