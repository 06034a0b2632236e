package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"cholwatch/adapters/excel"
	"cholwatch/app"
	"cholwatch/domain/dataset"
	"cholwatch/internal"
	"cholwatch/internal/errors"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, Styles.Error.Render("Error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cholwatch-cli",
		Short:         "Classify cholesterol readings from CSV or Excel files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newClassifyCmd())
	return rootCmd
}

type classifyOptions struct {
	Column  string
	Preview int
	JSON    bool
	Verbose bool
}

func newClassifyCmd() *cobra.Command {
	opts := classifyOptions{}
	defaults := app.DefaultAnalysisOptions()

	cmd := &cobra.Command{
		Use:   "classify FILE",
		Short: "Classify every reading in a file and print the recommendations",
		Long: `Read a .csv or .xlsx file, classify each value of the cholesterol column
into Normal (< 200 mg/dL), Borderline High (200-239) or High Risk (>= 240),
and print one recommendation per reading.

Example: cholwatch-cli classify patients.csv --column chol --preview 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Column, "column", defaults.Column, "Name of the cholesterol column")
	cmd.Flags().IntVar(&opts.Preview, "preview", defaults.PreviewRows, "Number of classified readings to show in the preview table")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the full report as JSON")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log pipeline progress to stderr")

	return cmd
}

func runClassify(ctx context.Context, out, logOut io.Writer, path string, opts classifyOptions) error {
	level := internal.LogLevelWarn
	if opts.Verbose {
		level = internal.LogLevelDebug
	}
	logger := internal.NewLoggerTo(logOut, level)

	if opts.Preview <= 0 {
		return errors.ValidationError("--preview must be at least 1")
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.WithCode(errors.CodeInvalidInput, errors.Wrapf(err, "failed to open %s", path))
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	reader := excel.NewDataReader(excel.DefaultExcelConfig(), logger)
	service := app.NewAnalysisService(reader, app.AnalysisOptions{
		Column:      opts.Column,
		PreviewRows: opts.Preview,
	}, nil, logger)

	report, err := service.Analyze(ctx, dataset.Upload{
		Filename: filepath.Base(path),
		Size:     size,
		File:     f,
	})
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	renderReport(out, report)
	return nil
}
