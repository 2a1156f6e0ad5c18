package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/zipack/internal/logger"
	"github.com/glorpus-work/zipack/pkg/compression"
	"github.com/glorpus-work/zipack/pkg/pack"
)

// packageOptions holds the flags of the package command.
type packageOptions struct {
	name      string
	method    string
	level     int
	outputDir string
}

// NewPackageCmd creates the package command.
func NewPackageCmd() *cobra.Command {
	var opts packageOptions

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Package a directory into a zip archive",
		Long: `Package a directory tree into <name>.zip.

Every entry of the archive lives under a single top-level folder named after
the source directory. Method and level default to the configuration file and
are overridden by flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.applyConfig(cmd); err != nil {
				return err
			}
			return runPackage(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Directory to package (required)")
	cmd.Flags().StringVarP(&opts.method, "method", "m", "", fmt.Sprintf("Compression method %v", compression.Methods()))
	cmd.Flags().IntVarP(&opts.level, "level", "l", 0,
		fmt.Sprintf("Compression level (%d-%d)", compression.MinLevel, compression.MaxLevel))
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory the archive is written to (default: working directory)")

	if err := cmd.MarkFlagRequired("name"); err != nil {
		// This should never happen since we control the flag names
		panic(fmt.Sprintf("failed to mark name as required: %v", err))
	}

	return cmd
}

// applyConfig fills every flag the user did not set from the config file.
func (o *packageOptions) applyConfig(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("method") {
		o.method = cfg.Settings.Method
	}
	if !flags.Changed("level") {
		o.level = cfg.Settings.Level
	}
	if !flags.Changed("output-dir") {
		o.outputDir = cfg.Settings.OutputDir
	}
	return nil
}

// validate rejects what the packaging core would silently normalize.
func (o *packageOptions) validate() error {
	if err := compression.ValidateLevel(o.level); err != nil {
		return err
	}
	_, err := compression.ParseMethod(o.method)
	return err
}

func runPackage(cmd *cobra.Command, opts packageOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	source, err := pack.NewSource(opts.name)
	if err != nil {
		return fmt.Errorf("error during packaging: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Packaging package %q with compress level %d\n", source.Name(), opts.level)

	archiver := pack.New(source,
		pack.WithOutputDir(opts.outputDir),
		pack.WithReporter(NewProgressPrinter(out)),
	)
	if err := archiver.Configure(opts.method, opts.level); err != nil {
		return fmt.Errorf("error during packaging: %w", err)
	}

	result, err := archiver.Package(cmd.Context())
	if err != nil {
		return fmt.Errorf("error during packaging: %w", err)
	}

	logger.Info("Package written", logger.Fields{
		"archive":        result.ArchivePath,
		"method":         archiver.Config().String(),
		"files":          result.Files,
		"directories":    result.Directories,
		"bytes_written":  result.BytesWritten,
		"content_length": result.ContentLength,
	})
	_, _ = fmt.Fprintln(out, "Package success!")
	return nil
}

// ProgressPrinter renders progress events as one line per entry.
type ProgressPrinter struct {
	out io.Writer
}

// NewProgressPrinter creates a printer writing to out.
func NewProgressPrinter(out io.Writer) *ProgressPrinter {
	return &ProgressPrinter{out: out}
}

// Report implements pack.Reporter.
func (p *ProgressPrinter) Report(event pack.Event) {
	if event.Kind == pack.KindDirectory {
		_, _ = fmt.Fprintf(p.out, "[%s] %q\n", event.Kind, event.Path)
		return
	}
	_, _ = fmt.Fprintf(p.out, "[%s] %q...OK (%d/%d | %.2f%%)\n",
		event.Kind, event.Path, event.BytesWritten, event.ContentLength, event.Ratio()*PercentScale)
}
