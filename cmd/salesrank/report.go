package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/salesrank/salesrank"
	"github.com/spf13/cobra"
)

var (
	exportDir         string
	exportFormat      string
	exportCompression string
	exportBOM         bool
)

// reportCmd analyzes one input file and prints the report.
var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Analyze a transactions file and print the importance report",
	Long: `Report reads sales transactions from a CSV or JSON file, validates the
data, and prints a report ranking products by importance score. Stdin is read
when the file is omitted or "-". XLSX, Parquet, TSV, and gz/bz2/xz/zst
compressed text files are converted before analysis.

With --export-dir, the validated transactions and the ranked product metrics
are also written as tables to the given directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&exportDir, "export-dir", "", "write transactions and product_metrics tables to this directory")
	reportCmd.Flags().StringVar(&exportFormat, "export-format", "", "export format: csv, tsv, or xlsx")
	reportCmd.Flags().StringVar(&exportCompression, "export-compression", "", "compression for text exports: none, gz, xz, or zst")
	reportCmd.Flags().BoolVar(&exportBOM, "export-bom", false, "prepend a UTF-8 byte order mark to text exports")
}

func runReport(cmd *cobra.Command, args []string) error {
	logger := slog.Default().With("run_id", uuid.New().String())

	input := "-"
	if len(args) > 0 {
		input = args[0]
	}
	data, err := salesrank.LoadFile(input)
	if err != nil {
		return err
	}

	analysis := salesrank.Analyze(data)
	fmt.Fprintln(cmd.OutOrStdout(), analysis.Response)

	if !analysis.OK() {
		logger.Warn("analysis failed validation",
			"input", input,
			"format", analysis.Format.String())
		return errAnalysisFailed
	}
	logger.Info("analysis complete",
		"input", input,
		"format", analysis.Format.String(),
		"transactions", len(analysis.Transactions),
		"products", len(analysis.Metrics))

	dir := exportDir
	if dir == "" {
		dir = cfg.Export.Dir
	}
	if dir == "" {
		return nil
	}
	options, err := exportOptions()
	if err != nil {
		return err
	}
	if err := salesrank.Export(analysis, dir, options); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	logger.Info("tables exported", "dir", dir, "format", options.Format.String())
	return nil
}

// exportOptions merges export config defaults with the report flags. Flags
// win over config.
func exportOptions() (salesrank.ExportOptions, error) {
	formatName := cfg.Export.Format
	if exportFormat != "" {
		formatName = exportFormat
	}
	compressionName := cfg.Export.Compression
	if exportCompression != "" {
		compressionName = exportCompression
	}

	options := salesrank.NewExportOptions().WithBOM(exportBOM || cfg.Export.BOM)
	format, err := salesrank.ParseOutputFormat(formatName)
	if err != nil {
		return options, err
	}
	compression, err := salesrank.ParseCompression(compressionName)
	if err != nil {
		return options, err
	}
	return options.WithFormat(format).WithCompression(compression), nil
}
