// Command windclean cleans an AEMET wind observation export and writes the
// admissible rows next to the source file.
//
// Usage:
//
//	windclean -i datos.csv -s 3
//
// Missing flags are prompted for on stdin. The schema is one of:
//
//	1  daily climatology
//	2  monthly/annual climatology
//	3  recorded extremes
//	4  normal values
//
// The output is written to <input-without-extension>_viento_limpio.csv (or
// .parquet with OUTPUT_FORMAT=parquet).
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/couchcryptid/wind-data-cleaner/internal/adapter/csvfile"
	"github.com/couchcryptid/wind-data-cleaner/internal/adapter/parquetfile"
	"github.com/couchcryptid/wind-data-cleaner/internal/config"
	"github.com/couchcryptid/wind-data-cleaner/internal/domain"
	"github.com/couchcryptid/wind-data-cleaner/internal/observability"
	"github.com/couchcryptid/wind-data-cleaner/internal/pipeline"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type options struct {
	input  string
	schema string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "windclean",
		Short:         "Validate and clean AEMET wind observation CSV exports",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "path to the source CSV file")
	cmd.Flags().StringVarP(&opts.schema, "schema", "s", "", "schema selector: 1 daily, 2 monthly/annual, 3 extremes, 4 normals")

	return cmd
}

func run(ctx context.Context, opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg, stderr).With("run_id", uuid.NewString())

	in := bufio.NewReader(stdin)

	path := strings.TrimSpace(opts.input)
	if path == "" {
		if path, err = prompt(in, stdout, "Path to the CSV file: "); err != nil {
			return err
		}
	}
	if err := csvfile.CheckSource(path); err != nil {
		return err
	}

	rawSchema := opts.schema
	if rawSchema == "" {
		fmt.Fprint(stdout, schemaMenu)
		if rawSchema, err = prompt(in, stdout, "Option number: "); err != nil {
			return err
		}
	}
	sel, err := domain.ParseSelector(rawSchema)
	if err != nil {
		return err
	}

	loader, outPath := newLoader(cfg, path, logger)

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	logger.Info("cleaning started", "input", path, "schema", sel.String(), "output", outPath)
	p := pipeline.New(csvfile.NewReader(path, cfg, logger), loader, logger, metrics, clockwork.NewRealClock())
	report, runErr := p.Run(ctx, sel)

	if cfg.MetricsFile != "" {
		if err := observability.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			logger.Error("metrics textfile write failed", "path", cfg.MetricsFile, "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(stdout, "Saved %d valid records to: %s\n", report.Admitted, outPath)
	return nil
}

// loader is satisfied by both file sinks.
type loader interface {
	pipeline.Loader
	Path() string
}

func newLoader(cfg *config.Config, source string, logger *slog.Logger) (loader, string) {
	var l loader
	if cfg.OutputFormat == config.FormatParquet {
		l = parquetfile.NewWriter(csvfile.OutputPath(source, cfg.OutputSuffix, ".parquet"), logger)
	} else {
		l = csvfile.NewWriter(csvfile.OutputPath(source, cfg.OutputSuffix, ".csv"), logger)
	}
	return l, l.Path()
}

const schemaMenu = `
Select the data type of the CSV:
  1. Daily climatology
  2. Monthly/annual climatology
  3. Recorded extremes
  4. Normal values
`

var errNoInput = errors.New("no input provided")

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errNoInput
	}
	return line, nil
}
