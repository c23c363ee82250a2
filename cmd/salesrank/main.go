// Command salesrank analyzes sales transaction data and prints a ranked
// product importance report.
//
// Usage:
//
//	salesrank report data.csv
//	salesrank report --export-dir ./out --export-format tsv data.json
//	cat data.csv | salesrank report
//	salesrank sql "SELECT product_name FROM product_metrics WHERE [rank] <= 3" data.csv
//	salesrank rate 5
//
// Exit codes: 0 on a valid report, 1 when the data fails validation, 2 on
// usage or I/O errors.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// errAnalysisFailed marks a run whose report was printed but whose data did
// not pass validation. main maps it to exit code 1 without another message.
var errAnalysisFailed = errors.New("analysis failed")

var (
	cfgFile   string
	logLevel  string
	logFormat string

	// cfg holds the merged configuration for the current run. Commands read
	// it after rootCmd's PersistentPreRunE has loaded it.
	cfg = DefaultConfig()
)

// rootCmd is the base command all subcommands attach to.
var rootCmd = &cobra.Command{
	Use:   "salesrank",
	Short: "Rank products from sales transaction data",
	Long: `Salesrank reads sales transactions from CSV or JSON, validates the data,
and ranks products by an importance score combining total quantity sold and
total spend. Reports include the full calculation for every product so the
numbers can be checked by hand.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Log.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			loaded.Log.Format = logFormat
		}
		cfg = loaded
		slog.SetDefault(newLogger(cfg.Log))
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default salesrank.yml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
	rootCmd.AddCommand(reportCmd, sqlCmd, rateCmd, versionCmd)
}

func main() {
	os.Exit(run())
}

// run executes the root command under a signal-cancelled context and maps
// the result to an exit code.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errAnalysisFailed) {
			return 1
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}
	return 0
}
